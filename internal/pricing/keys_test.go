package pricing

import "testing"

func TestItemKey_RoundTrip(t *testing.T) {
	keys := []ItemKey{
		BaseItemKey("item-1"),
		ComboCategoryKey("combo-9", "side-2"),
		DurationKey("bartender-3"),
	}
	for _, k := range keys {
		parsed := ParseItemKey(k.String())
		if parsed != k {
			t.Errorf("round trip %q: got %+v, want %+v", k.String(), parsed, k)
		}
	}
}

func TestParseItemKey_UnderscoreIDs(t *testing.T) {
	// IDs containing underscores must survive encoding intact.
	k := ComboCategoryKey("bbq_family_combo", "mac_and_cheese")
	parsed := ParseItemKey(k.String())
	if parsed.ComboID != "bbq_family_combo" {
		t.Errorf("combo id: got %q, want bbq_family_combo", parsed.ComboID)
	}
	if parsed.ItemID != "mac_and_cheese" {
		t.Errorf("item id: got %q, want mac_and_cheese", parsed.ItemID)
	}
}

func TestParseItemKey_PlainID(t *testing.T) {
	parsed := ParseItemKey("chair_rental_01")
	want := BaseItemKey("chair_rental_01")
	if parsed != want {
		t.Errorf("got %+v, want %+v", parsed, want)
	}
}

func TestSelection_QtyMissingAndNegative(t *testing.T) {
	sel := Selection{
		BaseItemKey("a"): 3,
		BaseItemKey("b"): -2,
	}
	if got := sel.Qty(BaseItemKey("a")); got != 3 {
		t.Errorf("present key: got %d, want 3", got)
	}
	if got := sel.Qty(BaseItemKey("b")); got != 0 {
		t.Errorf("negative qty: got %d, want 0", got)
	}
	if got := sel.Qty(BaseItemKey("missing")); got != 0 {
		t.Errorf("missing key: got %d, want 0", got)
	}
}

func TestDecodeSelection_Encode(t *testing.T) {
	raw := map[string]int{
		"item-1": 2,
		"combo-9" + comboCategoryMarker + "side-2": 1,
		"bartender-3" + durationSuffix:             4,
	}
	sel := DecodeSelection(raw)
	if got := sel.Qty(ComboCategoryKey("combo-9", "side-2")); got != 1 {
		t.Errorf("combo key qty: got %d, want 1", got)
	}
	if got := sel.Qty(DurationKey("bartender-3")); got != 4 {
		t.Errorf("duration key qty: got %d, want 4", got)
	}

	encoded := sel.Encode()
	if len(encoded) != len(raw) {
		t.Fatalf("encoded size: got %d, want %d", len(encoded), len(raw))
	}
	for k, v := range raw {
		if encoded[k] != v {
			t.Errorf("encoded[%q]: got %d, want %d", k, encoded[k], v)
		}
	}
}
