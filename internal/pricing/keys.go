package pricing

import "strings"

// Legacy wire markers for the selected-items map. Stored payloads still carry
// string keys in these shapes; everything in this package works with ItemKey
// and only touches the string form at the encode/parse boundary.
const (
	comboCategoryMarker = "_combo-category_"
	durationSuffix      = "_duration"
)

// ItemKey identifies one orderable line in a selection map. It replaces the
// old convention of packing ids into underscore-delimited strings, which was
// ambiguous whenever an id itself contained an underscore.
type ItemKey struct {
	// ItemID is the base menu item, rental item, staff role, or combo
	// category item id this key points at.
	ItemID string
	// ComboID is set when the key selects a sub-item inside a combo.
	ComboID string
	// Duration marks a staff hour-count entry rather than a quantity.
	Duration bool
}

// BaseItemKey selects a plain catalog item.
func BaseItemKey(itemID string) ItemKey {
	return ItemKey{ItemID: itemID}
}

// ComboCategoryKey selects a sub-item of a combo's category.
func ComboCategoryKey(comboID, categoryItemID string) ItemKey {
	return ItemKey{ItemID: categoryItemID, ComboID: comboID}
}

// DurationKey holds the hour count for a staff role.
func DurationKey(itemID string) ItemKey {
	return ItemKey{ItemID: itemID, Duration: true}
}

// String renders the legacy wire form of the key.
func (k ItemKey) String() string {
	switch {
	case k.Duration:
		return k.ItemID + durationSuffix
	case k.ComboID != "":
		return k.ComboID + comboCategoryMarker + k.ItemID
	default:
		return k.ItemID
	}
}

// ParseItemKey decodes a legacy wire key. It matches on the explicit markers
// rather than splitting on underscores, so ids containing underscores survive
// the round trip.
func ParseItemKey(s string) ItemKey {
	if rest, ok := strings.CutSuffix(s, durationSuffix); ok {
		return DurationKey(rest)
	}
	if comboID, itemID, ok := strings.Cut(s, comboCategoryMarker); ok {
		return ComboCategoryKey(comboID, itemID)
	}
	return BaseItemKey(s)
}

// Selection maps item keys to selected quantities. A quantity of zero and an
// absent key mean the same thing everywhere; consumers must go through Qty.
type Selection map[ItemKey]int

// Qty returns the selected quantity for k, zero when absent or non-positive.
func (s Selection) Qty(k ItemKey) int {
	q := s[k]
	if q < 0 {
		return 0
	}
	return q
}

// DecodeSelection converts a wire-format selected-items map into a Selection.
// Zero and negative quantities are dropped on the way in.
func DecodeSelection(raw map[string]int) Selection {
	sel := make(Selection, len(raw))
	for k, q := range raw {
		if q <= 0 {
			continue
		}
		sel[ParseItemKey(k)] = q
	}
	return sel
}

// Encode renders the selection back into the wire-format map, omitting
// zero-quantity entries.
func (s Selection) Encode() map[string]int {
	out := make(map[string]int, len(s))
	for k, q := range s {
		if q <= 0 {
			continue
		}
		out[k.String()] = q
	}
	return out
}
