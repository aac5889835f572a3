package pricing

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/eventease/api/internal/enum"
	"github.com/shopspring/decimal"
)

// The backend feed is loosely typed: prices arrive as numbers or numeric
// strings, quantities as floats, and several fields under more than one name.
// FlexNumber and FlexInt absorb all of that — malformed values decode to zero
// instead of failing the whole document.

// FlexNumber is a decimal that accepts JSON numbers, numeric strings, or null.
type FlexNumber struct {
	decimal.Decimal
}

func (f *FlexNumber) UnmarshalJSON(b []byte) error {
	f.Decimal = coerceDecimal(b)
	return nil
}

func (f FlexNumber) MarshalJSON() ([]byte, error) {
	return []byte(`"` + f.StringFixed(2) + `"`), nil
}

// FlexInt is an integer that accepts JSON numbers, numeric strings, or null.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	*f = FlexInt(coerceDecimal(b).IntPart())
	return nil
}

func coerceDecimal(b []byte) decimal.Decimal {
	s := strings.TrimSpace(string(bytes.Trim(b, `"`)))
	if s == "" || s == "null" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// --- Read-model document shapes (GET invoice / quote request) ---

// InvoiceEnvelope is the top-level read-model wrapper.
type InvoiceEnvelope struct {
	Invoice InvoiceDocument `json:"invoice"`
}

// InvoiceDocument mirrors the invoice order summary the front end consumes.
type InvoiceDocument struct {
	EventName       string              `json:"eventName"`
	EventLocation   string              `json:"eventLocation"`
	EventDate       string              `json:"eventDate"`
	GuestCount      FlexInt             `json:"guestCount"`
	TaxExemptStatus bool                `json:"taxExemptStatus"`
	WaiveServiceFee bool                `json:"waiveServiceFee"`
	Services        []ServiceDocument   `json:"services"`
	CustomLineItems []LineItemDocument  `json:"customLineItems"`

	// SelectedItems and ServiceDeliveryFees ride along on quote and update
	// requests; the persisted read model carries quantities inline instead.
	SelectedItems       map[string]FlexInt             `json:"selectedItems,omitempty"`
	ServiceDeliveryFees map[string]DeliveryFeeDocument `json:"serviceDeliveryFees,omitempty"`
}

// ServiceDocument is one service inside the invoice feed. Price is probed
// under both historical names; "price" wins when both are present.
type ServiceDocument struct {
	ID           string      `json:"id"`
	ServiceID    string      `json:"serviceId"`
	ServiceType  string      `json:"serviceType"`
	ServiceName  string      `json:"serviceName"`
	VendorID     string      `json:"vendorId"`
	Price        *FlexNumber `json:"price,omitempty"`
	ServicePrice *FlexNumber `json:"servicePrice,omitempty"`
	Quantity     FlexInt     `json:"quantity"`
	TotalPrice   *FlexNumber `json:"totalPrice,omitempty"`
	PriceType    string      `json:"priceType,omitempty"`

	MinimumGuests FlexInt `json:"minimumGuests"`
	Duration      FlexInt `json:"duration"`
	Image         string  `json:"image,omitempty"`

	DeliveryEnabled bool                    `json:"deliveryEnabled,omitempty"`
	DeliveryFee     *DeliveryFeeDocument    `json:"deliveryFee,omitempty"`
	DeliveryRanges  []DeliveryRangeDocument `json:"deliveryRanges,omitempty"`

	CateringItems    []CateringItemDocument `json:"cateringItems,omitempty"`
	PartyRentalItems []RentalItemDocument   `json:"partyRentalItems,omitempty"`
	StaffItems       []StaffItemDocument    `json:"staffItems,omitempty"`

	// VenueItems appear in some feeds; venues price flat so they are
	// deliberately never decoded into pricing input.
	VenueItems []json.RawMessage `json:"venueItems,omitempty"`
}

// CateringItemDocument is one menu entry. Combo sub-items arrive either
// nested under comboCategories or flattened in comboCategoryItems; both are
// honored, and an entry counts as a combo only when at least one sub-item
// exists either way.
type CateringItemDocument struct {
	ID                 string                      `json:"id"`
	Name               string                      `json:"name"`
	Price              FlexNumber                  `json:"price"`
	Category           string                      `json:"category,omitempty"`
	MenuName           string                      `json:"menuName,omitempty"`
	Quantity           FlexInt                     `json:"quantity,omitempty"`
	IsCombo            bool                        `json:"isCombo,omitempty"`
	ComboCategories    []ComboCategoryDocument     `json:"comboCategories,omitempty"`
	ComboCategoryItems []ComboCategoryItemDocument `json:"comboCategoryItems,omitempty"`
}

type ComboCategoryDocument struct {
	ID      string                      `json:"id"`
	Name    string                      `json:"name"`
	Primary bool                        `json:"primary,omitempty"`
	Items   []ComboCategoryItemDocument `json:"items"`
}

type ComboCategoryItemDocument struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Price        FlexNumber `json:"price"`
	Upcharge     FlexNumber `json:"upcharge,omitempty"`
	Quantity     FlexInt    `json:"quantity,omitempty"`
	CategoryID   string     `json:"categoryId,omitempty"`
	CategoryName string     `json:"categoryName,omitempty"`
}

type RentalItemDocument struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	EachPrice FlexNumber `json:"eachPrice"`
	Quantity  FlexInt    `json:"quantity,omitempty"`
}

type StaffItemDocument struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	PricingType string     `json:"pricingType,omitempty"`
	Rate        FlexNumber `json:"rate"`
	Hours       FlexInt    `json:"hours,omitempty"`
}

type DeliveryFeeDocument struct {
	Range string     `json:"range"`
	Fee   FlexNumber `json:"fee"`
}

type DeliveryRangeDocument struct {
	Range string     `json:"range"`
	Fee   FlexNumber `json:"fee"`
}

type LineItemDocument struct {
	Label   string     `json:"label"`
	Type    string     `json:"type"`
	Mode    string     `json:"mode"`
	Value   FlexNumber `json:"value"`
	Taxable bool       `json:"taxable"`
}

// Input converts the document into normalizer input. Selections come from
// the explicit selectedItems map merged with the quantities carried inline on
// the feed's items; the explicit map wins on conflict. Orphaned selection
// keys are carried through harmlessly — the normalizer ignores keys that
// reference nothing in a service's catalog.
func (doc *InvoiceDocument) Input() Input {
	sel := Selection{}

	in := Input{
		Selected:     sel,
		DeliveryFees: map[string]DeliveryFee{},
		GuestCount:   int(doc.GuestCount),
		Overrides: Overrides{
			TaxExempt:        doc.TaxExemptStatus,
			ServiceFeeWaived: doc.WaiveServiceFee,
		},
	}

	for _, adj := range doc.CustomLineItems {
		in.Adjustments = append(in.Adjustments, Adjustment{
			Label:   adj.Label,
			Type:    adj.Type,
			Mode:    adj.Mode,
			Value:   adj.Value.Decimal,
			Taxable: adj.Taxable,
		})
	}

	for _, sd := range doc.Services {
		svc := sd.selection(sel)
		in.Services = append(in.Services, svc)

		if sd.DeliveryFee != nil {
			in.DeliveryFees[svc.ID] = DeliveryFee{
				Range: sd.DeliveryFee.Range,
				Fee:   sd.DeliveryFee.Fee.Decimal,
			}
		}
	}

	for _, svc := range doc.Services {
		key := svc.ID
		if key == "" {
			key = svc.ServiceID
		}
		if fee, ok := doc.ServiceDeliveryFees[key]; ok {
			in.DeliveryFees[key] = DeliveryFee{Range: fee.Range, Fee: fee.Fee.Decimal}
		}
	}

	// Explicit map last so it overrides inline feed quantities.
	for raw, q := range doc.SelectedItems {
		k := ParseItemKey(raw)
		if q <= 0 {
			delete(sel, k)
			continue
		}
		sel[k] = int(q)
	}

	return in
}

// selection builds one ServiceSelection, recording any inline item
// quantities into sel along the way.
func (sd *ServiceDocument) selection(sel Selection) ServiceSelection {
	svc := ServiceSelection{
		ID:              sd.ID,
		ServiceID:       sd.ServiceID,
		VendorID:        sd.VendorID,
		Name:            sd.ServiceName,
		Type:            sd.ServiceType,
		Quantity:        int(sd.Quantity),
		DurationHours:   int(sd.Duration),
		MinimumGuests:   int(sd.MinimumGuests),
		Image:           sd.Image,
		DeliveryEnabled: sd.DeliveryEnabled,
	}
	if svc.ID == "" {
		svc.ID = sd.ServiceID
	}

	switch {
	case sd.Price != nil:
		svc.BasePrice = sd.Price.Decimal
	case sd.ServicePrice != nil:
		svc.BasePrice = sd.ServicePrice.Decimal
	default:
		svc.BasePrice = decimal.Zero
	}

	if sd.TotalPrice != nil {
		tp := sd.TotalPrice.Decimal
		svc.TotalPrice = &tp
	}

	typ, _ := enum.NormalizeServiceType(sd.ServiceType)
	switch typ {
	case enum.ServiceTypeCatering:
		svc.Details = sd.cateringDetails(sel)
	case enum.ServiceTypePartyRentals:
		details := RentalDetails{}
		for _, it := range sd.PartyRentalItems {
			details.Items = append(details.Items, RentalItem{
				ID:        it.ID,
				Name:      it.Name,
				EachPrice: it.EachPrice.Decimal,
			})
			if q := int(it.Quantity); q > 0 {
				sel[BaseItemKey(it.ID)] = q
			}
		}
		svc.Details = details
	case enum.ServiceTypeEventsStaff:
		details := StaffDetails{}
		for _, it := range sd.StaffItems {
			pricingType := it.PricingType
			if pricingType == "" {
				pricingType = enum.StaffPricingHourly
			}
			details.Roles = append(details.Roles, StaffRole{
				ID:          it.ID,
				Name:        it.Name,
				PricingType: pricingType,
				Rate:        it.Rate.Decimal,
			})
			if h := int(it.Hours); h > 0 {
				sel[DurationKey(it.ID)] = h
			}
		}
		svc.Details = details
	case enum.ServiceTypeVenues:
		svc.Details = VenueDetails{}
	}

	return svc
}

func (sd *ServiceDocument) cateringDetails(sel Selection) CateringDetails {
	details := CateringDetails{}
	for _, it := range sd.CateringItems {
		mi := MenuItem{
			ID:    it.ID,
			Name:  it.Name,
			Price: it.Price.Decimal,
		}
		mi.Category = it.Category
		if mi.Category == "" {
			mi.Category = it.MenuName
		}

		for _, cat := range it.ComboCategories {
			cc := ComboCategory{
				ID:      cat.ID,
				Name:    cat.Name,
				Primary: cat.Primary,
			}
			for _, sub := range cat.Items {
				cc.Items = append(cc.Items, ComboCategoryItem{
					ID:       sub.ID,
					Name:     sub.Name,
					Price:    sub.Price.Decimal,
					Upcharge: sub.Upcharge.Decimal,
				})
				if q := int(sub.Quantity); q > 0 {
					sel[ComboCategoryKey(it.ID, sub.ID)] = q
				}
			}
			mi.ComboCategories = mergeCategory(mi.ComboCategories, cc)
		}

		// Flattened sub-items get grouped back into categories by id/name.
		for _, sub := range it.ComboCategoryItems {
			cc := ComboCategory{
				ID:   sub.CategoryID,
				Name: sub.CategoryName,
				Items: []ComboCategoryItem{{
					ID:       sub.ID,
					Name:     sub.Name,
					Price:    sub.Price.Decimal,
					Upcharge: sub.Upcharge.Decimal,
				}},
			}
			mi.ComboCategories = mergeCategory(mi.ComboCategories, cc)
			if q := int(sub.Quantity); q > 0 {
				sel[ComboCategoryKey(it.ID, sub.ID)] = q
			}
		}

		if q := int(it.Quantity); q > 0 {
			sel[BaseItemKey(it.ID)] = q
		}

		details.MenuItems = append(details.MenuItems, mi)
	}
	return details
}

// mergeCategory folds cc into the category list, matching existing entries by
// id first, then name.
func mergeCategory(categories []ComboCategory, cc ComboCategory) []ComboCategory {
	for i := range categories {
		if sameCategory(categories[i], cc) {
			categories[i].Items = append(categories[i].Items, cc.Items...)
			if cc.Primary {
				categories[i].Primary = true
			}
			return categories
		}
	}
	return append(categories, cc)
}

func sameCategory(a, b ComboCategory) bool {
	if a.ID != "" && b.ID != "" {
		return a.ID == b.ID
	}
	return a.Name != "" && a.Name == b.Name
}
