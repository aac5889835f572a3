package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/eventease/api/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CatalogStore defines the database methods needed by catalog handlers.
// Satisfied by *store.Store; narrow interface for testability.
type CatalogStore interface {
	ListServicesByVendor(ctx context.Context, arg store.ListServicesByVendorParams) ([]store.CatalogService, error)
	GetService(ctx context.Context, id uuid.UUID) (store.CatalogService, error)
	GetVendor(ctx context.Context, id uuid.UUID) (store.Vendor, error)
}

// CatalogHandler serves vendor service catalogs to order-edit screens.
type CatalogHandler struct {
	store CatalogStore
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(store CatalogStore) *CatalogHandler {
	return &CatalogHandler{store: store}
}

// RegisterRoutes registers catalog endpoints on the given Chi router.
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/vendors/{vid}/services", h.List)
	r.Get("/vendors/{vid}/services/{sid}", h.Get)
}

type catalogServiceResponse struct {
	ID              uuid.UUID       `json:"id"`
	VendorID        uuid.UUID       `json:"vendorId"`
	Name            string          `json:"serviceName"`
	ServiceType     string          `json:"serviceType"`
	Price           string          `json:"price"`
	MinimumGuests   int32           `json:"minimumGuests,omitempty"`
	Duration        int32           `json:"duration,omitempty"`
	DeliveryEnabled bool            `json:"deliveryEnabled,omitempty"`
	Image           string          `json:"image,omitempty"`
	Details         json.RawMessage `json:"details,omitempty"`
	DeliveryRanges  json.RawMessage `json:"deliveryRanges,omitempty"`
}

func toCatalogServiceResponse(svc store.CatalogService) catalogServiceResponse {
	return catalogServiceResponse{
		ID:              svc.ID,
		VendorID:        svc.VendorID,
		Name:            svc.Name,
		ServiceType:     svc.ServiceType,
		Price:           svc.BasePrice.StringFixed(2),
		MinimumGuests:   svc.MinimumGuests,
		Duration:        svc.DurationHours,
		DeliveryEnabled: svc.DeliveryEnabled,
		Image:           svc.Image,
		Details:         svc.Details,
		DeliveryRanges:  svc.DeliveryRanges,
	}
}

// List returns a vendor's active services.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	vendorID, err := uuid.Parse(chi.URLParam(r, "vid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid vendor ID"})
		return
	}

	if _, err := h.store.GetVendor(r.Context(), vendorID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "vendor not found"})
			return
		}
		log.Printf("ERROR: get vendor: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	// Parse pagination
	limit := 20
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > 100 {
		limit = 100
	}

	offset := 0
	if s := r.URL.Query().Get("offset"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			offset = v
		}
	}

	services, err := h.store.ListServicesByVendor(r.Context(), store.ListServicesByVendorParams{
		VendorID: vendorID,
		Limit:    int32(limit),
		Offset:   int32(offset),
	})
	if err != nil {
		log.Printf("ERROR: list services: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]catalogServiceResponse, len(services))
	for i, svc := range services {
		resp[i] = toCatalogServiceResponse(svc)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get returns a single service by ID.
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	vendorID, err := uuid.Parse(chi.URLParam(r, "vid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid vendor ID"})
		return
	}

	serviceID, err := uuid.Parse(chi.URLParam(r, "sid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid service ID"})
		return
	}

	svc, err := h.store.GetService(r.Context(), serviceID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "service not found"})
			return
		}
		log.Printf("ERROR: get service: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	if svc.VendorID != vendorID {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "service not found"})
		return
	}

	writeJSON(w, http.StatusOK, toCatalogServiceResponse(svc))
}
