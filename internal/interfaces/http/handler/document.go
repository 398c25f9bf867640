package handler

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	docapp "github.com/distributor/backend/internal/application/document"
	"github.com/distributor/backend/internal/domain/document"
	"github.com/distributor/backend/internal/infrastructure/logger"
	"github.com/distributor/backend/internal/interfaces/http/dto"
	"github.com/distributor/backend/internal/interfaces/http/middleware"
	"github.com/distributor/backend/internal/interfaces/http/router"
)

// Multipart field names of document writes.
const (
	FieldPayload            = "payload"
	FieldItems              = "items"
	FieldDeletedAttachments = "deletedAttachmentIds"
	FieldFiles              = "files"

	IdempotencyKeyHeader = "Idempotency-Key"
)

// DocumentService is implemented by the document application service.
type DocumentService interface {
	List(ctx context.Context, kind document.Kind, filter document.ListFilter) ([]document.Document, error)
	Get(ctx context.Context, kind document.Kind, key string) (*document.Document, error)
	Create(ctx context.Context, kind document.Kind, cmd docapp.Command) (*document.Document, error)
	Update(ctx context.Context, kind document.Kind, key string, cmd docapp.Command) (*document.Document, error)
	Delete(ctx context.Context, kind document.Kind, key string) error
}

// DocumentHandler serves /api/{resource} for one document kind.
type DocumentHandler struct {
	BaseHandler
	resource string
	kind     document.Kind
	svc      DocumentService
}

// NewDocumentHandler creates a handler for documents of kind.
func NewDocumentHandler(resource string, kind document.Kind, svc DocumentService) *DocumentHandler {
	return &DocumentHandler{resource: resource, kind: kind, svc: svc}
}

// Routes returns the route group of the document resource.
func (h *DocumentHandler) Routes() *router.DomainGroup {
	return router.NewDomainGroup(h.resource, "/"+h.resource).
		GET("", h.List).
		GET("/:key", h.Get).
		POST("", h.Create).
		PUT("/:key", h.Update).
		PATCH("/:key", h.Update).
		DELETE("/:key", h.Delete)
}

// List answers GET /api/{resource}?customerName|vendorName=&from=&to=&page=&pageSize=.
func (h *DocumentHandler) List(c *gin.Context) {
	var query dto.DocumentListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, middleware.BindingMessage(err))
		return
	}

	filter := document.ListFilter{
		PartnerName: query.PartnerName(h.kind.PartnerKind()),
		Page:        query.Page,
		PageSize:    query.PageSize,
	}
	var err error
	if filter.From, err = parseDateParam("from", query.From); err != nil {
		h.HandleError(c, err)
		return
	}
	if filter.To, err = parseDateParam("to", query.To); err != nil {
		h.HandleError(c, err)
		return
	}

	docs, err := h.svc.List(c.Request.Context(), h.kind, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if docs == nil {
		docs = []document.Document{}
	}
	pageSize := min(filter.PageSize, docapp.MaxPageSize)
	page := filter.Page
	if pageSize > 0 && page < 1 {
		page = 1
	}
	h.Page(c, docs, len(docs), page, pageSize)
}

// Get returns one document with its items and attachments.
func (h *DocumentHandler) Get(c *gin.Context) {
	doc, err := h.svc.Get(c.Request.Context(), h.kind, c.Param("key"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

// Create reads the multipart form and creates the document.
func (h *DocumentHandler) Create(c *gin.Context) {
	cmd, closeFiles, ok := h.bindCommand(c)
	if !ok {
		return
	}
	defer closeFiles()
	cmd.IdempotencyKey = strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))

	doc, err := h.svc.Create(c.Request.Context(), h.kind, cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, doc)
}

// Update reads the multipart form and replaces the document at key.
func (h *DocumentHandler) Update(c *gin.Context) {
	cmd, closeFiles, ok := h.bindCommand(c)
	if !ok {
		return
	}
	defer closeFiles()

	doc, err := h.svc.Update(c.Request.Context(), h.kind, c.Param("key"), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

// Delete removes the document and its files.
func (h *DocumentHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), h.kind, c.Param("key")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// bindCommand parses the multipart form into a command. On failure it has
// already written the response. The returned func closes the opened files.
func (h *DocumentHandler) bindCommand(c *gin.Context) (docapp.Command, func(), bool) {
	var cmd docapp.Command
	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			h.Error(c, dto.ErrCodeRequestTooLarge, "Request body exceeds maximum allowed size")
		case errors.Is(err, http.ErrNotMultipart):
			h.BadRequest(c, "request must be multipart/form-data")
		default:
			h.BadRequest(c, "malformed multipart form: "+err.Error())
		}
		return cmd, nil, false
	}

	cmd.Payload = []byte(formValue(form, FieldPayload))
	cmd.Items = []byte(formValue(form, FieldItems))
	cmd.DeletedAttachmentIDs = []byte(formValue(form, FieldDeletedAttachments))

	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			if err := f.Close(); err != nil {
				logger.GetGinLogger(c).Debug("Close upload failed", zap.Error(err))
			}
		}
	}
	for _, fh := range form.File[FieldFiles] {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			h.HandleError(c, err)
			return cmd, nil, false
		}
		opened = append(opened, f)
		cmd.Files = append(cmd.Files, docapp.Upload{
			FileName:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        f,
		})
	}
	return cmd, closeAll, true
}

func formValue(form *multipart.Form, name string) string {
	if values := form.Value[name]; len(values) > 0 {
		return values[0]
	}
	return ""
}

// parseDateParam parses an optional date query parameter.
func parseDateParam(name, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := docapp.ParseDate(name, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
