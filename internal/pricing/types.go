package pricing

import "github.com/shopspring/decimal"

// ServiceSelection is one service instance inside an order: the catalog
// snapshot the host picked plus its order-level fields. Type carries the raw
// service-type string as stored; Normalize canonicalizes it.
type ServiceSelection struct {
	ID            string
	ServiceID     string
	VendorID      string
	Name          string
	Type          string
	BasePrice     decimal.Decimal
	Quantity      int
	DurationHours int
	MinimumGuests int
	Image         string

	// TotalPrice, when non-nil, is the previously persisted total for this
	// service. Normalize always recomputes; a stored value that disagrees
	// with the recomputed one is reported as a warning. Callers force a
	// recompute downstream by dropping the field.
	TotalPrice *decimal.Decimal

	DeliveryEnabled bool

	// Details holds the type-specific catalog of orderable items. Nil means
	// the service has no sub-items and prices flat.
	Details ServiceDetails
}

// ServiceDetails is the tagged union of per-type catalog shapes. Exactly one
// concrete type applies per service type; a mismatch is treated as "no
// sub-items" rather than an error.
type ServiceDetails interface {
	isServiceDetails()
}

// CateringDetails lists the orderable menu for a catering service.
type CateringDetails struct {
	MenuItems []MenuItem
}

// VenueDetails is intentionally empty: venues never decompose into sub-items
// and always price flat.
type VenueDetails struct{}

// RentalDetails lists the per-piece inventory of a party rental service.
type RentalDetails struct {
	Items []RentalItem
}

// StaffDetails lists the bookable roles of an event staffing service.
type StaffDetails struct {
	Roles []StaffRole
}

func (CateringDetails) isServiceDetails() {}
func (VenueDetails) isServiceDetails()    {}
func (RentalDetails) isServiceDetails()   {}
func (StaffDetails) isServiceDetails()    {}

// MenuItem is a single catering menu entry. It is a combo only when it
// actually carries combo-category items; a bare combo flag on the vendor side
// is not enough (catalogs in the wild have the flag set with no categories).
type MenuItem struct {
	ID              string
	Name            string
	Category        string
	Price           decimal.Decimal
	ComboCategories []ComboCategory
}

// IsCombo reports whether the item is a real combo: at least one
// combo-category item must exist.
func (m MenuItem) IsCombo() bool {
	for _, c := range m.ComboCategories {
		if len(c.Items) > 0 {
			return true
		}
	}
	return false
}

// ComboCategory groups the selectable sub-items of a combo. Primary marks the
// category whose selected quantity drives the combo's base-price multiplier;
// vendors migrating from older catalogs may not have it set, in which case
// Normalize falls back to name matching.
type ComboCategory struct {
	ID      string
	Name    string
	Primary bool
	Items   []ComboCategoryItem
}

// ComboCategoryItem is one selectable sub-item. Price is charged per selected
// quantity; Upcharge is a per-guest premium charged once while the item is
// selected, tracked separately for display.
type ComboCategoryItem struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	Upcharge decimal.Decimal
}

// RentalItem is a per-piece rental line (tables, tents, chairs).
type RentalItem struct {
	ID        string
	Name      string
	EachPrice decimal.Decimal
}

// StaffRole is one bookable staffing role. Hourly roles bill Rate per hour;
// flat roles contribute Rate once regardless of hours.
type StaffRole struct {
	ID          string
	Name        string
	PricingType string
	Rate        decimal.Decimal
}

// DeliveryFee is the host's pick from a vendor's delivery-range table: at
// most one active range per service.
type DeliveryFee struct {
	Range string
	Fee   decimal.Decimal
}

// Adjustment is an admin-entered order-level charge or credit applied after
// the line-item subtotal.
type Adjustment struct {
	Label   string
	Type    string // enum.AdjustmentTypeFixed or enum.AdjustmentTypePercentage
	Mode    string // enum.AdjustmentModeSurcharge or enum.AdjustmentModeDiscount
	Value   decimal.Decimal
	Taxable bool
}

// Overrides are the order-level admin flags suppressing tax and service fee.
type Overrides struct {
	TaxExempt        bool
	ServiceFeeWaived bool
}

// ServiceFeeConfig is the platform service-fee setting applied to the order
// subtotal unless waived.
type ServiceFeeConfig struct {
	Type  string // enum.FeeTypePercentage or enum.FeeTypeFixed
	Value decimal.Decimal
}

// Input is everything Normalize consumes. It is treated as read-only.
type Input struct {
	Services     []ServiceSelection
	Selected     Selection
	DeliveryFees map[string]DeliveryFee // keyed by ServiceSelection.ID
	GuestCount   int                    // defaults to 1 when < 1
	Adjustments  []Adjustment
	Overrides    Overrides
	ServiceFee   ServiceFeeConfig
	TaxRate      decimal.Decimal // fraction, e.g. 0.0825
}

// ServiceTotal is the canonical per-service result.
type ServiceTotal struct {
	ID            string
	ServiceID     string
	Type          string // normalized service type, or the raw string when unrecognized
	Total         decimal.Decimal
	PremiumCharge decimal.Decimal // combo per-guest upcharge portion, display only
	DeliveryFee   decimal.Decimal // catering only; never folded into Total
	PriceType     string
}

// AppliedAdjustment is an adjustment with its resolved signed amount.
type AppliedAdjustment struct {
	Adjustment
	Amount decimal.Decimal // negative for discounts
}

// Breakdown is the full order-level result of a Normalize call.
type Breakdown struct {
	Services []ServiceTotal

	ItemsSubtotal   decimal.Decimal // sum of per-service totals
	DeliveryTotal   decimal.Decimal
	ServiceFee      decimal.Decimal
	Adjustments     []AppliedAdjustment
	AdjustmentTotal decimal.Decimal
	TaxBase         decimal.Decimal
	Tax             decimal.Decimal
	GrandTotal      decimal.Decimal

	// Warnings are non-fatal data conditions the caller should surface:
	// unrecognized service types, stale stored totals.
	Warnings []string
}
