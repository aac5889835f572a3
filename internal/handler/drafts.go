package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/eventease/api/internal/draft"
	"github.com/eventease/api/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// DraftHandler exposes the order-draft repository: unsaved order edits keyed
// by the authenticated user and the event being edited.
type DraftHandler struct {
	store draft.Store
}

// NewDraftHandler creates a new DraftHandler.
func NewDraftHandler(store draft.Store) *DraftHandler {
	return &DraftHandler{store: store}
}

// RegisterRoutes registers draft endpoints on the given Chi router.
func (h *DraftHandler) RegisterRoutes(r chi.Router) {
	r.Route("/events/{eid}/draft", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Put)
		r.Delete("/", h.Clear)
	})
}

type draftRequest struct {
	EditOrderState      json.RawMessage                 `json:"editOrderState"`
	ServiceDeliveryFees map[string]draft.DeliveryChoice `json:"serviceDeliveryFees,omitempty"`
	EventLocation       string                          `json:"eventLocation,omitempty"`
}

func (h *DraftHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	eventID, err := uuid.Parse(chi.URLParam(r, "eid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid event ID"})
		return
	}

	d, err := h.store.Get(r.Context(), claims.UserID, eventID)
	if err != nil {
		if errors.Is(err, draft.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "draft not found"})
			return
		}
		log.Printf("ERROR: get draft: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, d)
}

func (h *DraftHandler) Put(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	eventID, err := uuid.Parse(chi.URLParam(r, "eid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid event ID"})
		return
	}

	var req draftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	d := draft.OrderDraft{
		UserID:              claims.UserID,
		EventID:             eventID,
		EditOrderState:      req.EditOrderState,
		ServiceDeliveryFees: req.ServiceDeliveryFees,
		EventLocation:       req.EventLocation,
	}
	if err := h.store.Put(r.Context(), d); err != nil {
		log.Printf("ERROR: put draft: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, d)
}

func (h *DraftHandler) Clear(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	eventID, err := uuid.Parse(chi.URLParam(r, "eid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid event ID"})
		return
	}

	if err := h.store.Clear(r.Context(), claims.UserID, eventID); err != nil {
		log.Printf("ERROR: clear draft: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
