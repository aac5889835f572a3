package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User is a platform account: admin staff, event hosts, or vendor owners.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Name         string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Vendor is a service provider on the marketplace.
type Vendor struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CatalogService is one bookable service in a vendor's catalog. Details holds
// the type-specific item catalog (menu items, rental inventory, staff roles)
// as jsonb in the read-model shape.
type CatalogService struct {
	ID              uuid.UUID
	VendorID        uuid.UUID
	Name            string
	ServiceType     string
	BasePrice       decimal.Decimal
	MinimumGuests   int32
	DurationHours   int32
	DeliveryEnabled bool
	Image           string
	Details         []byte
	DeliveryRanges  []byte
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Event is a host's booked event; each event owns exactly one invoice.
type Event struct {
	ID         uuid.UUID
	HostID     uuid.UUID
	Name       string
	Location   string
	EventDate  string
	GuestCount int32
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Invoice is the system of record for an event's order. Services and
// CustomLineItems are jsonb in the invoice read-model shape; the totals are
// denormalized from the last normalization run for listing and reporting.
type Invoice struct {
	ID              uuid.UUID
	EventID         uuid.UUID
	Status          string
	GuestCount      int32
	TaxExemptStatus bool
	WaiveServiceFee bool
	Services        []byte
	CustomLineItems []byte
	ItemsSubtotal   decimal.Decimal
	DeliveryTotal   decimal.Decimal
	ServiceFee      decimal.Decimal
	TaxAmount       decimal.Decimal
	GrandTotal      decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
