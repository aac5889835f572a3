package pricing

// ApplySelection writes the final merged selection back into the document's
// inline item quantities and drops the request-only selectedItems map, so the
// persisted form carries one source of truth for quantities.
func (doc *InvoiceDocument) ApplySelection(sel Selection) {
	for si := range doc.Services {
		sd := &doc.Services[si]
		for i := range sd.CateringItems {
			it := &sd.CateringItems[i]
			it.Quantity = FlexInt(sel.Qty(BaseItemKey(it.ID)))
			for ci := range it.ComboCategories {
				cat := &it.ComboCategories[ci]
				for ii := range cat.Items {
					sub := &cat.Items[ii]
					sub.Quantity = FlexInt(sel.Qty(ComboCategoryKey(it.ID, sub.ID)))
				}
			}
			for ii := range it.ComboCategoryItems {
				sub := &it.ComboCategoryItems[ii]
				sub.Quantity = FlexInt(sel.Qty(ComboCategoryKey(it.ID, sub.ID)))
			}
		}
		for i := range sd.PartyRentalItems {
			it := &sd.PartyRentalItems[i]
			it.Quantity = FlexInt(sel.Qty(BaseItemKey(it.ID)))
		}
		for i := range sd.StaffItems {
			it := &sd.StaffItems[i]
			it.Hours = FlexInt(sel.Qty(DurationKey(it.ID)))
		}
	}
	doc.SelectedItems = nil
}

// ApplyBreakdown stamps each service document with its recomputed total and
// price type. Stored totals are always the normalizer's output, never the
// caller's.
func (doc *InvoiceDocument) ApplyBreakdown(bd Breakdown) {
	totals := make(map[string]ServiceTotal, len(bd.Services))
	for _, st := range bd.Services {
		totals[st.ID] = st
	}
	for si := range doc.Services {
		sd := &doc.Services[si]
		key := sd.ID
		if key == "" {
			key = sd.ServiceID
		}
		st, ok := totals[key]
		if !ok {
			continue
		}
		total := FlexNumber{st.Total}
		sd.TotalPrice = &total
		sd.PriceType = st.PriceType
	}
}
