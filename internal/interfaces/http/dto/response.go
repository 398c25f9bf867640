package dto

import (
	"strings"

	"github.com/distributor/backend/internal/domain/masterdata"
	"github.com/distributor/backend/internal/domain/shared"
)

// MaxPageSize caps the page size a caller may request.
const MaxPageSize = 500

// Response represents a standard API response
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
	Meta    *Meta      `json:"meta,omitempty"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// Meta describes the page a list response holds. Stores do not count the
// full result set, so only the returned count is known.
type Meta struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Count    int `json:"count"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data any) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// NewListResponse creates a success response with page metadata
func NewListResponse(data any, count, page, pageSize int) Response {
	return Response{
		Success: true,
		Data:    data,
		Meta: &Meta{
			Page:     page,
			PageSize: pageSize,
			Count:    count,
		},
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
}

// NewErrorResponseWithRequestID creates an error response carrying the
// request id so callers can quote it when reporting a problem.
func NewErrorResponseWithRequestID(code, message, requestID string) Response {
	resp := NewErrorResponse(code, message)
	resp.Error.RequestID = requestID
	return resp
}

// ListQuery holds the list parameters shared by every master-data resource.
type ListQuery struct {
	Code     string `form:"code"`
	Name     string `form:"name"`
	Group    string `form:"group"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"pageSize" binding:"omitempty,min=1"`
}

// Filter converts the query into a store filter, capping the page size.
// A page without a page size is ignored.
func (q ListQuery) Filter() shared.Filter {
	f := shared.Filter{
		Code:     strings.TrimSpace(q.Code),
		Name:     strings.TrimSpace(q.Name),
		Group:    strings.TrimSpace(q.Group),
		Page:     q.Page,
		PageSize: min(q.PageSize, MaxPageSize),
	}
	if f.PageSize > 0 && f.Page == 0 {
		f.Page = 1
	}
	return f
}

// DocumentListQuery holds the list parameters of a document resource. Dates
// stay raw here and are parsed by the document service's date rules.
type DocumentListQuery struct {
	CustomerName string `form:"customerName"`
	VendorName   string `form:"vendorName"`
	From         string `form:"from"`
	To           string `form:"to"`
	Page         int    `form:"page" binding:"omitempty,min=1"`
	PageSize     int    `form:"pageSize" binding:"omitempty,min=1"`
}

// PartnerName returns vendorName for purchasing documents and customerName
// otherwise.
func (q DocumentListQuery) PartnerName(side masterdata.PartnerKind) string {
	if side == masterdata.PartnerVendor {
		return strings.TrimSpace(q.VendorName)
	}
	return strings.TrimSpace(q.CustomerName)
}
