package pricing

import (
	"github.com/eventease/api/internal/enum"
)

// Wire shapes for the invoice update payload. Money is serialized as
// fixed-two-decimal strings.

type UpdatePayload struct {
	EventName       string            `json:"eventName"`
	EventLocation   string            `json:"eventLocation"`
	EventDate       string            `json:"eventDate"`
	GuestCount      int               `json:"guestCount"`
	Services        []ServicePayload  `json:"services"`
	CustomLineItems []LineItemPayload `json:"customLineItems"`
}

type ServicePayload struct {
	ServiceType      string              `json:"serviceType"`
	ServiceName      string              `json:"serviceName"`
	TotalPrice       string              `json:"totalPrice"`
	PriceType        string              `json:"priceType"`
	Price            string              `json:"price"`
	Quantity         int                 `json:"quantity"`
	VendorID         string              `json:"vendorId"`
	Image            string              `json:"image,omitempty"`
	CateringItems    []ItemPayload       `json:"cateringItems,omitempty"`
	PartyRentalItems []ItemPayload       `json:"partyRentalItems,omitempty"`
	StaffItems       []StaffItemPayload  `json:"staffItems,omitempty"`
	DeliveryFee      *DeliveryFeePayload `json:"deliveryFee,omitempty"`
}

type ItemPayload struct {
	ID              string                  `json:"id"`
	Name            string                  `json:"name"`
	Price           string                  `json:"price"`
	Quantity        int                     `json:"quantity"`
	ComboSelections []ComboSelectionPayload `json:"comboSelections,omitempty"`
}

type ComboSelectionPayload struct {
	CategoryID string `json:"categoryId,omitempty"`
	ItemID     string `json:"itemId"`
	Name       string `json:"name"`
	Price      string `json:"price"`
	Upcharge   string `json:"upcharge,omitempty"`
	Quantity   int    `json:"quantity"`
}

type StaffItemPayload struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PricingType string `json:"pricingType"`
	Rate        string `json:"rate"`
	Hours       int    `json:"hours,omitempty"`
}

type DeliveryFeePayload struct {
	Range string `json:"range"`
	Fee   string `json:"fee"`
}

type LineItemPayload struct {
	Label   string `json:"label"`
	Type    string `json:"type"`
	Mode    string `json:"mode"`
	Value   string `json:"value"`
	Taxable bool   `json:"taxable"`
}

// BuildUpdatePayload converts normalizer input plus its breakdown into the
// invoice update wire shape. Only selected items (quantity > 0) survive into
// the payload; everything else reconstructs downstream from the catalog.
func BuildUpdatePayload(doc *InvoiceDocument, in Input, bd Breakdown) UpdatePayload {
	guests := in.GuestCount
	if guests < 1 {
		guests = 1
	}

	payload := UpdatePayload{
		EventName:       doc.EventName,
		EventLocation:   doc.EventLocation,
		EventDate:       doc.EventDate,
		GuestCount:      guests,
		Services:        make([]ServicePayload, 0, len(in.Services)),
		CustomLineItems: make([]LineItemPayload, 0, len(in.Adjustments)),
	}

	totals := make(map[string]ServiceTotal, len(bd.Services))
	for _, st := range bd.Services {
		totals[st.ID] = st
	}

	for _, svc := range in.Services {
		st := totals[svc.ID]

		sp := ServicePayload{
			ServiceType: st.Type,
			ServiceName: svc.Name,
			TotalPrice:  st.Total.StringFixed(2),
			PriceType:   st.PriceType,
			Price:       svc.BasePrice.StringFixed(2),
			Quantity:    max(svc.Quantity, 1),
			VendorID:    svc.VendorID,
			Image:       svc.Image,
		}

		switch details := svc.Details.(type) {
		case CateringDetails:
			sp.CateringItems = cateringItemsPayload(details, in.Selected)
		case RentalDetails:
			for _, item := range details.Items {
				q := in.Selected.Qty(BaseItemKey(item.ID))
				if q == 0 {
					continue
				}
				sp.PartyRentalItems = append(sp.PartyRentalItems, ItemPayload{
					ID:       item.ID,
					Name:     item.Name,
					Price:    item.EachPrice.StringFixed(2),
					Quantity: q,
				})
			}
		case StaffDetails:
			for _, role := range details.Roles {
				item := StaffItemPayload{
					ID:          role.ID,
					Name:        role.Name,
					PricingType: role.PricingType,
					Rate:        role.Rate.StringFixed(2),
				}
				if role.PricingType != enum.StaffPricingFlat {
					hours := in.Selected.Qty(DurationKey(role.ID))
					if hours == 0 {
						hours = svc.DurationHours
					}
					if hours < 1 {
						hours = 1
					}
					item.Hours = hours
				}
				sp.StaffItems = append(sp.StaffItems, item)
			}
		}

		if fee, ok := in.DeliveryFees[svc.ID]; ok && st.Type == enum.ServiceTypeCatering && svc.DeliveryEnabled {
			sp.DeliveryFee = &DeliveryFeePayload{
				Range: fee.Range,
				Fee:   fee.Fee.StringFixed(2),
			}
		}

		payload.Services = append(payload.Services, sp)
	}

	for _, adj := range in.Adjustments {
		payload.CustomLineItems = append(payload.CustomLineItems, LineItemPayload{
			Label:   adj.Label,
			Type:    adj.Type,
			Mode:    adj.Mode,
			Value:   adj.Value.StringFixed(2),
			Taxable: adj.Taxable,
		})
	}

	return payload
}

func cateringItemsPayload(details CateringDetails, sel Selection) []ItemPayload {
	var items []ItemPayload
	for _, mi := range details.MenuItems {
		if mi.IsCombo() {
			combo, ok := comboPayload(mi, sel)
			if ok {
				items = append(items, combo)
			}
			continue
		}
		q := sel.Qty(BaseItemKey(mi.ID))
		if q == 0 {
			continue
		}
		items = append(items, ItemPayload{
			ID:       mi.ID,
			Name:     mi.Name,
			Price:    mi.Price.StringFixed(2),
			Quantity: q,
		})
	}
	return items
}

func comboPayload(mi MenuItem, sel Selection) (ItemPayload, bool) {
	item := ItemPayload{
		ID:    mi.ID,
		Name:  mi.Name,
		Price: mi.Price.StringFixed(2),
	}

	selected := false
	for _, cat := range mi.ComboCategories {
		for _, sub := range cat.Items {
			q := sel.Qty(ComboCategoryKey(mi.ID, sub.ID))
			if q == 0 {
				continue
			}
			selected = true
			cs := ComboSelectionPayload{
				CategoryID: cat.ID,
				ItemID:     sub.ID,
				Name:       sub.Name,
				Price:      sub.Price.StringFixed(2),
				Quantity:   q,
			}
			if sub.Upcharge.IsPositive() {
				cs.Upcharge = sub.Upcharge.StringFixed(2)
			}
			item.ComboSelections = append(item.ComboSelections, cs)
		}
	}

	direct := sel.Qty(BaseItemKey(mi.ID))
	if !selected && direct == 0 {
		return ItemPayload{}, false
	}

	item.Quantity = effectiveComboQuantity(mi, sel)
	return item, true
}

// effectiveComboQuantity mirrors the quantity rule the normalizer applies to
// a selected combo: primary-category selections, then the direct quantity,
// then 1.
func effectiveComboQuantity(mi MenuItem, sel Selection) int {
	qty := 0
	for _, cat := range mi.ComboCategories {
		if !isPrimaryCategory(mi.ComboCategories, cat) {
			continue
		}
		for _, sub := range cat.Items {
			qty += sel.Qty(ComboCategoryKey(mi.ID, sub.ID))
		}
	}
	if qty == 0 {
		qty = sel.Qty(BaseItemKey(mi.ID))
	}
	if qty == 0 {
		qty = 1
	}
	return qty
}
