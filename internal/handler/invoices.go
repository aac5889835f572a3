package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/eventease/api/internal/middleware"
	"github.com/eventease/api/internal/pricing"
	"github.com/eventease/api/internal/service"
	"github.com/eventease/api/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// InvoiceService defines the business methods needed by invoice handlers.
// Satisfied by *service.InvoiceService.
type InvoiceService interface {
	Quote(doc *pricing.InvoiceDocument) pricing.Breakdown
	Summary(ctx context.Context, eventID uuid.UUID) (service.InvoiceSummary, error)
	Update(ctx context.Context, req service.UpdateInvoiceRequest) (service.InvoiceSummary, error)
}

// Broadcaster pushes invoice updates to WebSocket watchers.
// Satisfied by *ws.Hub.
type Broadcaster interface {
	BroadcastToEvent(eventID uuid.UUID, event ws.Event)
}

// InvoiceHandler handles invoice summary, update, and quote endpoints.
type InvoiceHandler struct {
	svc InvoiceService
	hub Broadcaster
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(svc InvoiceService, hub Broadcaster) *InvoiceHandler {
	return &InvoiceHandler{svc: svc, hub: hub}
}

// RegisterRoutes registers invoice endpoints on the given Chi router.
func (h *InvoiceHandler) RegisterRoutes(r chi.Router) {
	r.Get("/events/{eid}/invoice", h.Summary)
	r.Patch("/events/{eid}/invoice", h.Update)
	r.Post("/invoices/quote", h.Quote)
}

// --- Response types ---

type serviceTotalResponse struct {
	ID            string `json:"id"`
	ServiceID     string `json:"serviceId,omitempty"`
	ServiceType   string `json:"serviceType"`
	Total         string `json:"total"`
	PremiumCharge string `json:"premiumCharge"`
	DeliveryFee   string `json:"deliveryFee"`
	PriceType     string `json:"priceType"`
}

type adjustmentResponse struct {
	Label   string `json:"label"`
	Type    string `json:"type"`
	Mode    string `json:"mode"`
	Value   string `json:"value"`
	Taxable bool   `json:"taxable"`
	Amount  string `json:"amount"`
}

type breakdownResponse struct {
	Services        []serviceTotalResponse `json:"services"`
	ItemsSubtotal   string                 `json:"itemsSubtotal"`
	DeliveryTotal   string                 `json:"deliveryTotal"`
	ServiceFee      string                 `json:"serviceFee"`
	Adjustments     []adjustmentResponse   `json:"adjustments"`
	AdjustmentTotal string                 `json:"adjustmentTotal"`
	TaxBase         string                 `json:"taxBase"`
	Tax             string                 `json:"tax"`
	GrandTotal      string                 `json:"grandTotal"`
	Warnings        []string               `json:"warnings,omitempty"`
}

type invoiceSummaryResponse struct {
	EventID   string                  `json:"eventId"`
	Status    string                  `json:"status,omitempty"`
	Invoice   pricing.InvoiceDocument `json:"invoice"`
	Breakdown breakdownResponse       `json:"breakdown"`
}

func toBreakdownResponse(bd pricing.Breakdown) breakdownResponse {
	resp := breakdownResponse{
		Services:        make([]serviceTotalResponse, len(bd.Services)),
		Adjustments:     make([]adjustmentResponse, len(bd.Adjustments)),
		ItemsSubtotal:   bd.ItemsSubtotal.StringFixed(2),
		DeliveryTotal:   bd.DeliveryTotal.StringFixed(2),
		ServiceFee:      bd.ServiceFee.StringFixed(2),
		AdjustmentTotal: bd.AdjustmentTotal.StringFixed(2),
		TaxBase:         bd.TaxBase.StringFixed(2),
		Tax:             bd.Tax.StringFixed(2),
		GrandTotal:      bd.GrandTotal.StringFixed(2),
		Warnings:        bd.Warnings,
	}
	for i, st := range bd.Services {
		resp.Services[i] = serviceTotalResponse{
			ID:            st.ID,
			ServiceID:     st.ServiceID,
			ServiceType:   st.Type,
			Total:         st.Total.StringFixed(2),
			PremiumCharge: st.PremiumCharge.StringFixed(2),
			DeliveryFee:   st.DeliveryFee.StringFixed(2),
			PriceType:     st.PriceType,
		}
	}
	for i, adj := range bd.Adjustments {
		resp.Adjustments[i] = adjustmentResponse{
			Label:   adj.Label,
			Type:    adj.Type,
			Mode:    adj.Mode,
			Value:   adj.Value.StringFixed(2),
			Taxable: adj.Taxable,
			Amount:  adj.Amount.StringFixed(2),
		}
	}
	return resp
}

func toSummaryResponse(res service.InvoiceSummary) invoiceSummaryResponse {
	return invoiceSummaryResponse{
		EventID:   res.Event.ID.String(),
		Status:    res.Invoice.Status,
		Invoice:   res.Document,
		Breakdown: toBreakdownResponse(res.Breakdown),
	}
}

// --- Handlers ---

// Summary returns the stored invoice document with a freshly computed
// breakdown.
func (h *InvoiceHandler) Summary(w http.ResponseWriter, r *http.Request) {
	eventID, err := uuid.Parse(chi.URLParam(r, "eid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid event ID"})
		return
	}

	res, err := h.svc.Summary(r.Context(), eventID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "event not found"})
		case errors.Is(err, service.ErrInvoiceNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "invoice not found"})
		default:
			log.Printf("ERROR: invoice summary: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		}
		return
	}

	writeJSON(w, http.StatusOK, toSummaryResponse(res))
}

// Update renormalizes and persists the event's invoice, then pushes the new
// summary to everyone watching the event.
func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	eventID, err := uuid.Parse(chi.URLParam(r, "eid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid event ID"})
		return
	}

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	var doc pricing.InvoiceDocument
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	res, err := h.svc.Update(r.Context(), service.UpdateInvoiceRequest{
		EventID:   eventID,
		ActorRole: claims.Role,
		Document:  doc,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "event not found"})
		case errors.Is(err, service.ErrInvoiceNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "invoice not found"})
		case errors.Is(err, service.ErrMissingVendor),
			errors.Is(err, service.ErrBelowMinimumGuests):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, service.ErrOverrideForbidden):
			writeJSON(w, http.StatusForbidden, map[string]string{"error": err.Error()})
		default:
			log.Printf("ERROR: update invoice: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		}
		return
	}

	resp := toSummaryResponse(res)

	if payload, err := json.Marshal(resp); err == nil {
		h.hub.BroadcastToEvent(eventID, ws.Event{
			Type:    ws.EventInvoiceUpdated,
			Payload: payload,
		})
	} else {
		log.Printf("ERROR: marshal invoice broadcast: %v", err)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Quote computes a breakdown for an arbitrary document without persisting
// anything. Used by order-edit screens on every input change.
func (h *InvoiceHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var doc pricing.InvoiceDocument
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	bd := h.svc.Quote(&doc)
	writeJSON(w, http.StatusOK, toBreakdownResponse(bd))
}
