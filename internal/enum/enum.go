package enum

import "strings"

// ── Group A: State machines (CHECK constrained in DB) ──

const (
	InvoiceStatusDraft     = "DRAFT"
	InvoiceStatusSent      = "SENT"
	InvoiceStatusPaid      = "PAID"
	InvoiceStatusCancelled = "CANCELLED"
)

// ── Group B: Service taxonomy (CHECK constrained in DB) ──

const (
	ServiceTypeCatering     = "catering"
	ServiceTypeVenues       = "venues"
	ServiceTypePartyRentals = "party_rentals"
	ServiceTypeEventsStaff  = "events_staff"
)

// NormalizeServiceType maps the service-type spellings seen in stored payloads
// onto the canonical constants. Matching is case-insensitive and treats
// hyphens and spaces as underscores ("party-rentals" == "party_rentals").
// Returns false for anything outside the four supported types.
func NormalizeServiceType(s string) (string, bool) {
	t := strings.ToLower(strings.TrimSpace(s))
	t = strings.ReplaceAll(t, "-", "_")
	t = strings.ReplaceAll(t, " ", "_")
	switch t {
	case ServiceTypeCatering, ServiceTypeVenues, ServiceTypePartyRentals, ServiceTypeEventsStaff:
		return t, true
	}
	return "", false
}

// ── Group C: Roles (CHECK constrained in DB) ──

const (
	UserRoleAdmin  = "ADMIN"
	UserRoleHost   = "HOST"
	UserRoleVendor = "VENDOR"
)

// ── Group D: Configurable labels (no DB constraint) ──

const (
	PriceTypeFlat     = "flat"
	PriceTypeItemized = "itemized"
	PriceTypeHourly   = "hourly"
)

const (
	StaffPricingHourly = "hourly"
	StaffPricingFlat   = "flat"
)

const (
	AdjustmentTypeFixed      = "fixed"
	AdjustmentTypePercentage = "percentage"
)

const (
	AdjustmentModeSurcharge = "surcharge"
	AdjustmentModeDiscount  = "discount"
)

const (
	FeeTypePercentage = "percentage"
	FeeTypeFixed      = "fixed"
)
