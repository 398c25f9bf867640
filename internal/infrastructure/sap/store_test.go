package sap

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/distributor/backend/internal/domain/masterdata"
	"github.com/distributor/backend/internal/domain/shared"
)

// recorder keeps the last request seen by the fake Service Layer.
type recorder struct {
	mu     sync.Mutex
	method string
	path   string
	filter string
	body   map[string]any
}

func (r *recorder) record(req *http.Request) map[string]any {
	raw, _ := io.ReadAll(req.Body)
	var body map[string]any
	_ = json.Unmarshal(raw, &body)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.method = req.Method
	r.path = strings.TrimPrefix(req.URL.Path, testBasePath)
	r.filter = req.URL.Query().Get("$filter")
	r.body = body
	return body
}

// echoCreate answers POST with the posted entity plus extra fields, the way
// the Service Layer returns the created object.
func echoCreate(rec *recorder, extra map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := rec.record(r)
		for k, v := range extra {
			body[k] = v
		}
		writeJSON(w, http.StatusCreated, body)
	}
}

func TestPartnerStore_CreateRoundTrip(t *testing.T) {
	rec := &recorder{}
	sl := newFakeServiceLayer(t, echoCreate(rec, map[string]any{"CurrentAccountBalance": "0"}))
	store := NewPartnerStore(sl.newClient(t), masterdata.PartnerCustomer)

	in := &masterdata.BusinessPartner{
		Kind:        masterdata.PartnerCustomer,
		Code:        "C0001",
		Name:        "Acme Trading",
		GroupCode:   100,
		Phone:       "555-0100",
		Email:       "buyer@acme.test",
		City:        "Springfield",
		TaxCode:     "O1",
		RouteID:     3,
		CreditLimit: decimal.RequireFromString("2500.50"),
		Remarks:     "key account",
		Active:      true,
	}
	out, err := store.Create(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "BusinessPartners", rec.path)
	assert.Equal(t, "cCustomer", rec.body["CardType"])
	assert.Equal(t, "tYES", rec.body["Valid"])
	assert.Equal(t, "tNO", rec.body["Frozen"])
	assert.NotContains(t, rec.body, "Cellular", "blank optional fields are omitted")
	assert.NotContains(t, rec.body, "ContactPerson")

	assert.Equal(t, in.Code, out.Code)
	assert.Equal(t, in.Name, out.Name)
	assert.Equal(t, in.GroupCode, out.GroupCode)
	assert.Equal(t, in.Phone, out.Phone)
	assert.Equal(t, in.Email, out.Email)
	assert.Equal(t, in.City, out.City)
	assert.Equal(t, in.TaxCode, out.TaxCode)
	assert.Equal(t, in.RouteID, out.RouteID)
	assert.True(t, in.CreditLimit.Equal(out.CreditLimit))
	assert.Equal(t, in.Remarks, out.Remarks)
	assert.Equal(t, in.Active, out.Active)
	assert.Equal(t, masterdata.PartnerCustomer, out.Kind)
}

func TestPartnerStore_FindByKey_WrongKind(t *testing.T) {
	sl := newFakeServiceLayer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"CardCode": "V001", "CardName": "Supplier", "CardType": "cSupplier"})
	})
	customers := NewPartnerStore(sl.newClient(t), masterdata.PartnerCustomer)

	_, err := customers.FindByKey(context.Background(), "V001")
	assert.True(t, shared.IsNotFound(err))
}

func TestPartnerStore_FindAll_GroupName(t *testing.T) {
	var filters []string
	var mu sync.Mutex
	sl := newFakeServiceLayer(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		filters = append(filters, r.URL.Query().Get("$filter"))
		mu.Unlock()
		if strings.HasSuffix(r.URL.Path, "BusinessPartnerGroups") {
			writeJSON(w, http.StatusOK, map[string]any{"value": []any{
				map[string]any{"Code": 103, "Name": "Retail", "Type": "bbpgt_CustomerGroup"},
			}})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"value": []any{
			map[string]any{"CardCode": "C1", "CardName": "O'Neil Stores", "CardType": "cCustomer",
				"GroupCode": 103, "CreditLimit": "", "Valid": "tYES", "Frozen": "tNO"},
		}})
	})
	store := NewPartnerStore(sl.newClient(t), masterdata.PartnerCustomer)

	got, err := store.FindAll(context.Background(), shared.Filter{Name: "O'Neil", Group: "Retail"})
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "C1", got[0].Code)
	assert.True(t, got[0].CreditLimit.IsZero())
	assert.True(t, got[0].Active)
	assert.Equal(t, []string{
		"Type eq 'bbpgt_CustomerGroup' and Name eq 'Retail'",
		"CardType eq 'cCustomer' and contains(CardName,'O''Neil') and GroupCode eq 103",
	}, filters)
}

func TestPartnerStore_FindAll_UnknownGroup(t *testing.T) {
	sl := newFakeServiceLayer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"value": []any{}})
	})
	store := NewPartnerStore(sl.newClient(t), masterdata.PartnerVendor)

	got, err := store.FindAll(context.Background(), shared.Filter{Group: "Nobody"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestProductStore_CreateRoundTrip(t *testing.T) {
	rec := &recorder{}
	sl := newFakeServiceLayer(t, echoCreate(rec, nil))
	store := NewProductStore(sl.newClient(t))

	in := &masterdata.Product{
		Code:          "P-100",
		Name:          "Blue pen",
		Description:   "Ballpoint",
		Barcode:       "4006381333931",
		UOMGroupID:    2,
		SalesUOM:      "BOX",
		PurchaseUOM:   "CTN",
		TaxCode:       "O1",
		Price:         decimal.RequireFromString("1.25"),
		InventoryItem: true,
		SalesItem:     true,
		Active:        true,
	}
	out, err := store.Create(context.Background(), in)
	require.NoError(t, err)

	prices, ok := rec.body["ItemPrices"].([]any)
	require.True(t, ok)
	require.Len(t, prices, 1)
	assert.Equal(t, "tNO", rec.body["PurchaseItem"])

	in.ID = out.ID
	assert.True(t, in.Price.Equal(out.Price))
	out.Price = in.Price
	assert.Equal(t, in, out)
}

func TestProductStore_FindAll_InvalidGroup(t *testing.T) {
	sl := newFakeServiceLayer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	store := NewProductStore(sl.newClient(t))

	_, err := store.FindAll(context.Background(), shared.Filter{Group: "pens"})
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, shared.CodeValidation, de.Code)
}

func TestWarehouseStore_UpdateSendsPatchThenReads(t *testing.T) {
	var calls []string
	var patch map[string]any
	sl := newFakeServiceLayer(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+strings.TrimPrefix(r.URL.EscapedPath(), testBasePath))
		switch r.Method {
		case http.MethodPatch:
			_ = json.NewDecoder(r.Body).Decode(&patch)
			w.WriteHeader(http.StatusNoContent)
		default:
			writeJSON(w, http.StatusOK, map[string]any{
				"WarehouseCode": "01", "WarehouseName": "Main store", "Inactive": "tNO",
			})
		}
	})
	store := NewWarehouseStore(sl.newClient(t))

	out, err := store.Update(context.Background(), "01", &masterdata.Warehouse{Code: "ignored", Name: "Main store", Active: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"PATCH Warehouses('01')", "GET Warehouses('01')"}, calls)
	assert.NotContains(t, patch, "WarehouseCode")
	assert.Equal(t, "Main store", patch["WarehouseName"])
	assert.Equal(t, "01", out.Code)
	assert.True(t, out.Active)
}

func TestUOMGroupStore_PatchCarriesNameOnly(t *testing.T) {
	rec := &recorder{}
	sl := newFakeServiceLayer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPatch {
			rec.record(r)
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"AbsEntry": 4, "Code": "PACK", "Name": "Packs", "BaseUoM": 1})
	})
	store := NewUOMGroupStore(sl.newClient(t))

	out, err := store.Update(context.Background(), "4", &masterdata.UOMGroup{Code: "PACK", Name: "Packs", BaseUOMID: 9})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"Name": "Packs"}, rec.body)
	assert.Equal(t, int64(4), out.ID)
	assert.Equal(t, int64(1), out.BaseUOMID)
}

func TestIntKeyedStores_RejectNonNumericKey(t *testing.T) {
	sl := newFakeServiceLayer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	c := sl.newClient(t)

	for name, find := range map[string]func() error{
		"uom":            func() error { _, err := NewUOMStore(c).FindByKey(context.Background(), "KG"); return err },
		"route":          func() error { _, err := NewRouteStore(c).FindByKey(context.Background(), "-1"); return err },
		"shipping type":  func() error { _, err := NewShippingTypeStore(c).FindByKey(context.Background(), "x"); return err },
		"sales employee": func() error { return NewSalesEmployeeStore(c).Delete(context.Background(), "") },
	} {
		t.Run(name, func(t *testing.T) {
			var de *shared.DomainError
			require.ErrorAs(t, find(), &de)
			assert.Equal(t, shared.CodeValidation, de.Code)
		})
	}
}

func TestRouteStore_CreateAssignsUpstreamID(t *testing.T) {
	rec := &recorder{}
	sl := newFakeServiceLayer(t, echoCreate(rec, map[string]any{"TerritoryID": 7}))
	store := NewRouteStore(sl.newClient(t))

	out, err := store.Create(context.Background(), &masterdata.Route{Name: "North loop", Active: true})
	require.NoError(t, err)

	assert.Equal(t, int64(7), out.ID)
	assert.Equal(t, "North loop", out.Name)
	assert.True(t, out.Active)
	assert.NotContains(t, rec.body, "Parent")
}

func TestTaxCodeStore_CreateRoundTrip(t *testing.T) {
	rec := &recorder{}
	sl := newFakeServiceLayer(t, echoCreate(rec, nil))
	store := NewTaxCodeStore(sl.newClient(t))
	store.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

	in := &masterdata.TaxCode{Code: "X1", Name: "Exempt input", Category: masterdata.TaxInput,
		Rate: decimal.RequireFromString("7.5"), Active: true}
	out, err := store.Create(context.Background(), in)
	require.NoError(t, err)

	lines, ok := rec.body["VatGroups_Lines"].([]any)
	require.True(t, ok)
	require.Len(t, lines, 1)
	assert.Equal(t, "2026-01-01", lines[0].(map[string]any)["Effectivefrom"])
	assert.Equal(t, "bovcInputTax", rec.body["Category"])

	assert.Equal(t, in.Code, out.Code)
	assert.Equal(t, in.Category, out.Category)
	assert.True(t, in.Rate.Equal(out.Rate))
	assert.True(t, out.Active)
}

func TestSalesEmployeeStore_DeleteConflict(t *testing.T) {
	sl := newFakeServiceLayer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": map[string]any{"message": map[string]any{"value": "Sales employee is used in documents"}},
		})
	})
	store := NewSalesEmployeeStore(sl.newClient(t))

	err := store.Delete(context.Background(), "5")
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, shared.CodeConflict, de.Code)
	assert.Equal(t, "Sales employee is used in documents", de.Message)
}

func TestShippingTypeStore_NotFound(t *testing.T) {
	sl := newFakeServiceLayer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error": map[string]any{"message": map[string]any{"value": "No matching records found"}},
		})
	})
	store := NewShippingTypeStore(sl.newClient(t))

	_, err := store.FindByKey(context.Background(), "9")
	assert.True(t, shared.IsNotFound(err))
}
