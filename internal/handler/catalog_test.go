package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/eventease/api/internal/enum"
	"github.com/eventease/api/internal/handler"
	"github.com/eventease/api/internal/middleware"
	"github.com/eventease/api/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// --- Mock store ---

type mockCatalogStore struct {
	listFn      func(ctx context.Context, arg store.ListServicesByVendorParams) ([]store.CatalogService, error)
	getFn       func(ctx context.Context, id uuid.UUID) (store.CatalogService, error)
	getVendorFn func(ctx context.Context, id uuid.UUID) (store.Vendor, error)
}

func (m *mockCatalogStore) ListServicesByVendor(ctx context.Context, arg store.ListServicesByVendorParams) ([]store.CatalogService, error) {
	return m.listFn(ctx, arg)
}

func (m *mockCatalogStore) GetService(ctx context.Context, id uuid.UUID) (store.CatalogService, error) {
	return m.getFn(ctx, id)
}

func (m *mockCatalogStore) GetVendor(ctx context.Context, id uuid.UUID) (store.Vendor, error) {
	return m.getVendorFn(ctx, id)
}

func setupCatalogRouter(st *mockCatalogStore) *chi.Mux {
	h := handler.NewCatalogHandler(st)
	r := chi.NewRouter()
	r.Use(middleware.Authenticate(testSecret))
	h.RegisterRoutes(r)
	return r
}

func foundVendor(id uuid.UUID) func(ctx context.Context, vid uuid.UUID) (store.Vendor, error) {
	return func(_ context.Context, vid uuid.UUID) (store.Vendor, error) {
		if vid != id {
			return store.Vendor{}, pgx.ErrNoRows
		}
		return store.Vendor{ID: id, Name: "Smoky Joe's BBQ", IsActive: true}, nil
	}
}

func sampleCatalogService(vendorID uuid.UUID) store.CatalogService {
	return store.CatalogService{
		ID:            uuid.New(),
		VendorID:      vendorID,
		Name:          "Family BBQ Package",
		ServiceType:   enum.ServiceTypeCatering,
		BasePrice:     decimal.RequireFromString("12.50"),
		MinimumGuests: 20,
		Details:       []byte(`{"menuItems":[{"id":"brisket","name":"Brisket","price":"0"}]}`),
	}
}

func decodeJSONList(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

// --- List tests ---

func TestCatalogList_OK(t *testing.T) {
	vendorID := uuid.New()
	svc := sampleCatalogService(vendorID)
	st := &mockCatalogStore{
		getVendorFn: foundVendor(vendorID),
		listFn: func(_ context.Context, arg store.ListServicesByVendorParams) ([]store.CatalogService, error) {
			if arg.VendorID != vendorID {
				t.Errorf("vendor ID: got %v, want %v", arg.VendorID, vendorID)
			}
			if arg.Limit != 20 || arg.Offset != 0 {
				t.Errorf("pagination defaults: got limit=%d offset=%d, want 20/0", arg.Limit, arg.Offset)
			}
			return []store.CatalogService{svc}, nil
		},
	}
	r := setupCatalogRouter(st)

	rr := doAuthRequest(t, r, "GET", "/vendors/"+vendorID.String()+"/services", nil, enum.UserRoleHost)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp []map[string]interface{}
	decodeJSONList(t, rr, &resp)
	if len(resp) != 1 {
		t.Fatalf("expected 1 service, got %d", len(resp))
	}
	if resp[0]["serviceName"] != "Family BBQ Package" {
		t.Errorf("serviceName: got %v", resp[0]["serviceName"])
	}
	if resp[0]["price"] != "12.50" {
		t.Errorf("price: got %v, want 12.50", resp[0]["price"])
	}
	if resp[0]["serviceType"] != enum.ServiceTypeCatering {
		t.Errorf("serviceType: got %v", resp[0]["serviceType"])
	}
}

func TestCatalogList_PaginationCapped(t *testing.T) {
	vendorID := uuid.New()
	st := &mockCatalogStore{
		getVendorFn: foundVendor(vendorID),
		listFn: func(_ context.Context, arg store.ListServicesByVendorParams) ([]store.CatalogService, error) {
			if arg.Limit != 100 {
				t.Errorf("limit: got %d, want cap of 100", arg.Limit)
			}
			if arg.Offset != 40 {
				t.Errorf("offset: got %d, want 40", arg.Offset)
			}
			return nil, nil
		},
	}
	r := setupCatalogRouter(st)

	rr := doAuthRequest(t, r, "GET", "/vendors/"+vendorID.String()+"/services?limit=500&offset=40", nil, enum.UserRoleHost)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestCatalogList_VendorNotFound(t *testing.T) {
	st := &mockCatalogStore{
		getVendorFn: func(_ context.Context, _ uuid.UUID) (store.Vendor, error) {
			return store.Vendor{}, pgx.ErrNoRows
		},
	}
	r := setupCatalogRouter(st)

	rr := doAuthRequest(t, r, "GET", "/vendors/"+uuid.NewString()+"/services", nil, enum.UserRoleHost)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestCatalogList_InvalidVendorID(t *testing.T) {
	st := &mockCatalogStore{}
	r := setupCatalogRouter(st)

	rr := doAuthRequest(t, r, "GET", "/vendors/abc/services", nil, enum.UserRoleHost)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

// --- Get tests ---

func TestCatalogGet_OK(t *testing.T) {
	vendorID := uuid.New()
	svc := sampleCatalogService(vendorID)
	st := &mockCatalogStore{
		getFn: func(_ context.Context, id uuid.UUID) (store.CatalogService, error) {
			if id != svc.ID {
				return store.CatalogService{}, pgx.ErrNoRows
			}
			return svc, nil
		},
	}
	r := setupCatalogRouter(st)

	rr := doAuthRequest(t, r, "GET", "/vendors/"+vendorID.String()+"/services/"+svc.ID.String(), nil, enum.UserRoleHost)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	if resp["id"] != svc.ID.String() {
		t.Errorf("id: got %v, want %s", resp["id"], svc.ID)
	}
	details, ok := resp["details"].(map[string]interface{})
	if !ok {
		t.Fatal("expected details object in response")
	}
	if _, ok := details["menuItems"]; !ok {
		t.Error("expected menuItems inside details")
	}
}

func TestCatalogGet_WrongVendor(t *testing.T) {
	svc := sampleCatalogService(uuid.New())
	st := &mockCatalogStore{
		getFn: func(_ context.Context, _ uuid.UUID) (store.CatalogService, error) {
			return svc, nil
		},
	}
	r := setupCatalogRouter(st)

	// Service exists but belongs to a different vendor.
	rr := doAuthRequest(t, r, "GET", "/vendors/"+uuid.NewString()+"/services/"+svc.ID.String(), nil, enum.UserRoleHost)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestCatalogGet_NotFound(t *testing.T) {
	st := &mockCatalogStore{
		getFn: func(_ context.Context, _ uuid.UUID) (store.CatalogService, error) {
			return store.CatalogService{}, pgx.ErrNoRows
		},
	}
	r := setupCatalogRouter(st)

	rr := doAuthRequest(t, r, "GET", "/vendors/"+uuid.NewString()+"/services/"+uuid.NewString(), nil, enum.UserRoleHost)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}
