package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/distributor/backend/internal/domain/document"
	"github.com/distributor/backend/internal/domain/shared"
)

const dateLayout = "2006-01-02"

// HeaderPayload is the JSON carried in the "payload" form field. The
// customer* and vendor* fields are accepted as aliases of partner*.
type HeaderPayload struct {
	PartnerCode     string `json:"partnerCode" validate:"max=50"`
	PartnerName     string `json:"partnerName" validate:"max=200"`
	CustomerCode    string `json:"customerCode" validate:"max=50"`
	CustomerName    string `json:"customerName" validate:"max=200"`
	VendorCode      string `json:"vendorCode" validate:"max=50"`
	VendorName      string `json:"vendorName" validate:"max=200"`
	DocDate         string `json:"docDate" validate:"required"`
	DueDate         string `json:"dueDate"`
	Reference       string `json:"reference" validate:"max=100"`
	WarehouseCode   string `json:"warehouseCode" validate:"max=50"`
	SalesEmployeeID int64  `json:"salesEmployeeId" validate:"gte=0"`
	Remarks         string `json:"remarks" validate:"max=1000"`
}

// ItemPayload is one element of the "items" form field. Quantity and
// price may be JSON numbers or numeric strings.
type ItemPayload struct {
	ProductCode string          `json:"productCode" validate:"required,max=50"`
	Description string          `json:"description" validate:"max=200"`
	Quantity    json.RawMessage `json:"quantity"`
	UnitPrice   json.RawMessage `json:"unitPrice"`
	UOM         string          `json:"uom" validate:"max=20"`
	TaxCode     string          `json:"taxCode" validate:"max=20"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ParseDocument decodes the multipart payload and items fields into a
// document of kind. Totals are not computed here.
func ParseDocument(kind document.Kind, payload, items []byte) (*document.Document, error) {
	if !kind.Valid() {
		return nil, shared.NewValidationError("unknown document kind '%s'", kind)
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, shared.NewValidationError("payload is required")
	}
	var header HeaderPayload
	if err := json.Unmarshal(payload, &header); err != nil {
		return nil, shared.NewValidationError("payload is not valid JSON: %s", jsonMessage(err))
	}
	if err := validateStruct("payload", header); err != nil {
		return nil, err
	}

	doc := &document.Document{
		Kind:            kind,
		PartnerCode:     firstNonEmpty(header.PartnerCode, header.CustomerCode, header.VendorCode),
		PartnerName:     firstNonEmpty(header.PartnerName, header.CustomerName, header.VendorName),
		Reference:       strings.TrimSpace(header.Reference),
		WarehouseCode:   strings.TrimSpace(header.WarehouseCode),
		SalesEmployeeID: header.SalesEmployeeID,
		Remarks:         header.Remarks,
	}

	var err error
	if doc.DocDate, err = ParseDate("docDate", header.DocDate); err != nil {
		return nil, err
	}
	if strings.TrimSpace(header.DueDate) != "" {
		due, err := ParseDate("dueDate", header.DueDate)
		if err != nil {
			return nil, err
		}
		doc.DueDate = &due
	}

	if doc.Items, err = parseItems(items); err != nil {
		return nil, err
	}
	return doc, nil
}

func parseItems(raw []byte) ([]document.Item, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, shared.NewValidationError("items are required")
	}
	var payload []ItemPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, shared.NewValidationError("items are not a valid JSON array: %s", jsonMessage(err))
	}
	if len(payload) == 0 {
		return nil, shared.NewValidationError("at least one item is required")
	}

	items := make([]document.Item, 0, len(payload))
	for i, p := range payload {
		if err := validateStruct(fmt.Sprintf("item %d", i+1), p); err != nil {
			return nil, err
		}
		qty, err := ParseDecimal(fmt.Sprintf("item %d quantity", i+1), p.Quantity)
		if err != nil {
			return nil, err
		}
		price, err := ParseDecimal(fmt.Sprintf("item %d unitPrice", i+1), p.UnitPrice)
		if err != nil {
			return nil, err
		}
		items = append(items, document.Item{
			ProductCode: strings.TrimSpace(p.ProductCode),
			Description: p.Description,
			Quantity:    qty,
			UnitPrice:   price,
			UOM:         strings.TrimSpace(p.UOM),
			TaxCode:     strings.TrimSpace(p.TaxCode),
		})
	}
	return items, nil
}

// ParseDate accepts YYYY-MM-DD or RFC3339 and returns the time in UTC.
func ParseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, shared.NewValidationError("%s '%s' must be a date in YYYY-MM-DD format", field, s)
}

// ParseDecimal reads a JSON number or numeric string. An absent or null
// value is zero.
func ParseDecimal(field string, raw json.RawMessage) (decimal.Decimal, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return decimal.Zero, nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return decimal.Zero, shared.NewValidationError("%s is not a valid number", field)
		}
		s = strings.TrimSpace(str)
		if s == "" {
			return decimal.Zero, nil
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, shared.NewValidationError("%s '%s' is not a valid number", field, s)
	}
	return d, nil
}

// ParseIDs decodes the optional deletedAttachmentIds field, a JSON array of
// integers (numeric strings are accepted).
func ParseIDs(field string, raw []byte) ([]int64, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	var values []json.Number
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic []any
	if err := dec.Decode(&generic); err != nil {
		return nil, shared.NewValidationError("%s must be a JSON array of ids", field)
	}
	for _, v := range generic {
		switch n := v.(type) {
		case json.Number:
			values = append(values, n)
		case string:
			values = append(values, json.Number(strings.TrimSpace(n)))
		default:
			return nil, shared.NewValidationError("%s must contain only ids", field)
		}
	}

	ids := make([]int64, 0, len(values))
	for _, n := range values {
		id, err := strconv.ParseInt(n.String(), 10, 64)
		if err != nil || id <= 0 {
			return nil, shared.NewValidationError("%s contains an invalid id '%s'", field, n)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ParseID parses a document id from the URL.
func ParseID(kind document.Kind, key string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(key), 10, 64)
	if err != nil || id <= 0 {
		return 0, shared.NewValidationError("%s id '%s' must be a positive integer", kind.Label(), key)
	}
	return id, nil
}

func validateStruct(prefix string, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		e := verrs[0]
		if e.Tag() == "required" {
			return shared.NewValidationError("%s: %s is required", prefix, e.Field())
		}
		return shared.NewValidationError("%s: %s must satisfy %s=%s", prefix, e.Field(), e.Tag(), e.Param())
	}
	return shared.NewValidationError("%s is invalid: %v", prefix, err)
}

func jsonMessage(err error) string {
	var syntax *json.SyntaxError
	if errors.As(err, &syntax) {
		return fmt.Sprintf("%s at offset %d", syntax.Error(), syntax.Offset)
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Sprintf("field %s has the wrong type", typeErr.Field)
	}
	return err.Error()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
