// Package draft holds in-progress order edits between page loads. Edits that
// were previously stashed in browser session storage live here instead, keyed
// by user and event, with an explicit load/save/clear lifecycle and a TTL so
// abandoned edits do not accumulate.
package draft

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("draft not found")

// OrderDraft is one user's unsaved edit state for an event's order.
type OrderDraft struct {
	UserID  uuid.UUID `json:"userId"`
	EventID uuid.UUID `json:"eventId"`

	// EditOrderState is the draft invoice document exactly as the client
	// last sent it; the server never interprets it until save time.
	EditOrderState json.RawMessage `json:"editOrderState"`

	// ServiceDeliveryFees maps service id to the chosen delivery range.
	ServiceDeliveryFees map[string]DeliveryChoice `json:"serviceDeliveryFees,omitempty"`

	EventLocation string `json:"eventLocation,omitempty"`
}

// DeliveryChoice is the delivery range a host picked for one service.
type DeliveryChoice struct {
	Range string `json:"range"`
	Fee   string `json:"fee"`
}

// Store is the draft repository. Implementations must treat (userID, eventID)
// as the unique key.
type Store interface {
	Get(ctx context.Context, userID, eventID uuid.UUID) (OrderDraft, error)
	Put(ctx context.Context, d OrderDraft) error
	Clear(ctx context.Context, userID, eventID uuid.UUID) error
}
