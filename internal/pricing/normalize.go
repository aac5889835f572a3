package pricing

import (
	"fmt"
	"strings"

	"github.com/eventease/api/internal/enum"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// primaryCategoryHints is the legacy fallback for catalogs whose combo
// categories predate the explicit Primary flag. Kept only for those catalogs;
// vendor-defined category names make substring matching unreliable, so new
// data must set Primary instead.
var primaryCategoryHints = []string{"protein", "meat", "main"}

// Normalize computes the canonical per-service totals and order-level grand
// total for one order. It is pure: identical inputs yield identical results,
// no input collection is mutated, and malformed pricing data degrades to
// zero-valued contributions instead of failing.
func Normalize(in Input) Breakdown {
	guests := in.GuestCount
	if guests < 1 {
		guests = 1
	}

	bd := Breakdown{
		ItemsSubtotal:   decimal.Zero,
		DeliveryTotal:   decimal.Zero,
		ServiceFee:      decimal.Zero,
		AdjustmentTotal: decimal.Zero,
		TaxBase:         decimal.Zero,
		Tax:             decimal.Zero,
		GrandTotal:      decimal.Zero,
	}

	for _, svc := range in.Services {
		st := serviceTotal(svc, in.Selected, guests, &bd.Warnings)

		if fee, ok := in.DeliveryFees[svc.ID]; ok &&
			st.Type == enum.ServiceTypeCatering && svc.DeliveryEnabled {
			st.DeliveryFee = fee.Fee
			bd.DeliveryTotal = bd.DeliveryTotal.Add(fee.Fee)
		}

		if svc.TotalPrice != nil && !svc.TotalPrice.Equal(st.Total) {
			bd.Warnings = append(bd.Warnings, fmt.Sprintf(
				"service %s: stored total %s does not match computed %s, using computed",
				svc.ID, svc.TotalPrice.StringFixed(2), st.Total.StringFixed(2)))
		}

		bd.ItemsSubtotal = bd.ItemsSubtotal.Add(st.Total)
		bd.Services = append(bd.Services, st)
	}

	// subtotal = items + delivery; the base every order-level charge keys off.
	subtotal := bd.ItemsSubtotal.Add(bd.DeliveryTotal)

	if !in.Overrides.ServiceFeeWaived {
		switch in.ServiceFee.Type {
		case enum.FeeTypePercentage:
			bd.ServiceFee = subtotal.Mul(in.ServiceFee.Value).Div(oneHundred)
		case enum.FeeTypeFixed:
			bd.ServiceFee = in.ServiceFee.Value
		}
	}

	// Percentage adjustments apply to the running subtotal: items + delivery
	// + service fee + every adjustment applied before them, in input order.
	running := subtotal.Add(bd.ServiceFee)
	taxBase := subtotal
	for _, adj := range in.Adjustments {
		var amount decimal.Decimal
		switch adj.Type {
		case enum.AdjustmentTypePercentage:
			amount = running.Mul(adj.Value).Div(oneHundred)
		default:
			amount = adj.Value
		}
		if adj.Mode == enum.AdjustmentModeDiscount {
			amount = amount.Neg()
		}
		running = running.Add(amount)
		bd.AdjustmentTotal = bd.AdjustmentTotal.Add(amount)
		if adj.Taxable {
			taxBase = taxBase.Add(amount)
		}
		bd.Adjustments = append(bd.Adjustments, AppliedAdjustment{
			Adjustment: adj,
			Amount:     amount,
		})
	}

	if taxBase.IsNegative() {
		taxBase = decimal.Zero
	}
	bd.TaxBase = taxBase

	if !in.Overrides.TaxExempt {
		bd.Tax = taxBase.Mul(in.TaxRate)
	}

	total := subtotal.Add(bd.ServiceFee).Add(bd.AdjustmentTotal).Add(bd.Tax)
	if total.IsNegative() {
		total = decimal.Zero
	}
	bd.GrandTotal = total

	return bd
}

// serviceTotal dispatches on the normalized service type. Unrecognized types
// get the flat fallback and a warning; they are never rejected.
func serviceTotal(svc ServiceSelection, sel Selection, guests int, warnings *[]string) ServiceTotal {
	st := ServiceTotal{
		ID:            svc.ID,
		ServiceID:     svc.ServiceID,
		PremiumCharge: decimal.Zero,
		DeliveryFee:   decimal.Zero,
		PriceType:     enum.PriceTypeFlat,
	}

	typ, ok := enum.NormalizeServiceType(svc.Type)
	if !ok {
		*warnings = append(*warnings, fmt.Sprintf(
			"service %s: unrecognized service type %q, using flat pricing", svc.ID, svc.Type))
		st.Type = svc.Type
		st.Total = flatTotal(svc)
		return st
	}
	st.Type = typ

	switch typ {
	case enum.ServiceTypeCatering:
		total, premium, itemized := cateringTotal(svc, sel, guests)
		if !itemized {
			st.Total = flatTotal(svc)
			return st
		}
		st.Total = total
		st.PremiumCharge = premium
		st.PriceType = enum.PriceTypeItemized

	case enum.ServiceTypePartyRentals:
		total, itemized := rentalTotal(svc, sel)
		if !itemized {
			st.Total = flatTotal(svc)
			return st
		}
		st.Total = total
		st.PriceType = enum.PriceTypeItemized

	case enum.ServiceTypeEventsStaff:
		total, hourly := staffTotal(svc, sel)
		if !hourly {
			st.Total = flatTotal(svc)
			return st
		}
		st.Total = total
		st.PriceType = enum.PriceTypeHourly

	default: // enum.ServiceTypeVenues: always flat, sub-items ignored
		st.Total = flatTotal(svc)
	}

	return st
}

// flatTotal is base price x service quantity. A selected service counts as at
// least one unit.
func flatTotal(svc ServiceSelection) decimal.Decimal {
	qty := svc.Quantity
	if qty < 1 {
		qty = 1
	}
	return svc.BasePrice.Mul(decimal.NewFromInt(int64(qty)))
}

// cateringTotal sums selected base menu items and selected combos. The
// service's own base price never participates once anything is selected; with
// nothing selected the caller falls back to flat pricing. Returns the total,
// the per-guest premium portion, and whether any selection was found.
func cateringTotal(svc ServiceSelection, sel Selection, guests int) (total, premium decimal.Decimal, itemized bool) {
	total = decimal.Zero
	premium = decimal.Zero

	details, ok := svc.Details.(CateringDetails)
	if !ok {
		return total, premium, false
	}

	guestsDec := decimal.NewFromInt(int64(guests))
	for _, mi := range details.MenuItems {
		if mi.IsCombo() {
			comboTotal, comboPremium, selected := comboContribution(mi, sel, guestsDec)
			if !selected {
				continue
			}
			itemized = true
			total = total.Add(comboTotal)
			premium = premium.Add(comboPremium)
			continue
		}

		q := sel.Qty(BaseItemKey(mi.ID))
		if q == 0 {
			continue
		}
		itemized = true
		total = total.Add(mi.Price.Mul(decimal.NewFromInt(int64(q))))
	}

	return total, premium, itemized
}

// comboContribution prices one combo: base price x effective primary quantity
// plus each selected sub-item's flat price x quantity plus per-guest
// upcharges. An unselected combo contributes nothing.
func comboContribution(mi MenuItem, sel Selection, guests decimal.Decimal) (total, premium decimal.Decimal, selected bool) {
	total = decimal.Zero
	premium = decimal.Zero

	directQty := sel.Qty(BaseItemKey(mi.ID))
	primaryQty := 0
	anySubItem := false

	for _, cat := range mi.ComboCategories {
		for _, item := range cat.Items {
			q := sel.Qty(ComboCategoryKey(mi.ID, item.ID))
			if q == 0 {
				continue
			}
			anySubItem = true

			total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(q))))
			if item.Upcharge.IsPositive() {
				up := item.Upcharge.Mul(guests)
				total = total.Add(up)
				premium = premium.Add(up)
			}

			if isPrimaryCategory(mi.ComboCategories, cat) {
				primaryQty += q
			}
		}
	}

	if !anySubItem && directQty == 0 {
		return decimal.Zero, decimal.Zero, false
	}

	// Effective primary quantity: primary-category selections, then the
	// direct quantity under the combo's own id, then 1. Never 0, or a
	// selected combo would silently price to nothing.
	effective := primaryQty
	if effective == 0 {
		effective = directQty
	}
	if effective == 0 {
		effective = 1
	}

	total = total.Add(mi.Price.Mul(decimal.NewFromInt(int64(effective))))
	return total, premium, true
}

// isPrimaryCategory prefers the explicit flag; only when no category in the
// combo is flagged does the legacy name-hint matching apply.
func isPrimaryCategory(categories []ComboCategory, cat ComboCategory) bool {
	for _, c := range categories {
		if c.Primary {
			return cat.Primary
		}
	}
	name := strings.ToLower(cat.Name)
	for _, hint := range primaryCategoryHints {
		if strings.Contains(name, hint) {
			return true
		}
	}
	return false
}

// rentalTotal sums each-price x quantity over selected rental items. Returns
// itemized=false when nothing is selected so the caller can price flat.
func rentalTotal(svc ServiceSelection, sel Selection) (decimal.Decimal, bool) {
	details, ok := svc.Details.(RentalDetails)
	if !ok {
		return decimal.Zero, false
	}

	total := decimal.Zero
	itemized := false
	for _, item := range details.Items {
		q := sel.Qty(BaseItemKey(item.ID))
		if q == 0 {
			continue
		}
		itemized = true
		total = total.Add(item.EachPrice.Mul(decimal.NewFromInt(int64(q))))
	}
	return total, itemized
}

// staffTotal prices every role on the service: hourly roles bill rate x
// hours, flat roles bill rate once. Hours come from the role's duration key,
// then the service's own duration, then 1.
func staffTotal(svc ServiceSelection, sel Selection) (decimal.Decimal, bool) {
	details, ok := svc.Details.(StaffDetails)
	if !ok || len(details.Roles) == 0 {
		return decimal.Zero, false
	}

	total := decimal.Zero
	for _, role := range details.Roles {
		if role.PricingType == enum.StaffPricingFlat {
			total = total.Add(role.Rate)
			continue
		}
		hours := sel.Qty(DurationKey(role.ID))
		if hours == 0 {
			hours = svc.DurationHours
		}
		if hours < 1 {
			hours = 1
		}
		total = total.Add(role.Rate.Mul(decimal.NewFromInt(int64(hours))))
	}
	return total, true
}
