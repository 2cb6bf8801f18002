package catalog

import (
	"testing"

	"github.com/MasudBS-1458/tr-cafe/pkg/state"
)

func TestFilterPartialMerge(t *testing.T) {
	loop := state.NewLoop()
	defer loop.Close()
	store := NewFilterStore(loop)

	category := "Pizza"
	store.Apply(Patch{Category: &category})

	minPrice := 10.0
	store.Apply(Patch{MinPrice: &minPrice})
	store.Wait()

	f := store.Snapshot()
	if f.Category != "Pizza" {
		t.Errorf("Category = %q, want Pizza (partial merge must not overwrite)", f.Category)
	}
	if f.MinPrice != 10 {
		t.Errorf("MinPrice = %v, want 10", f.MinPrice)
	}
	if f.MaxPrice != 1000 {
		t.Errorf("MaxPrice = %v, want default 1000", f.MaxPrice)
	}
}

func TestFilterReset(t *testing.T) {
	loop := state.NewLoop()
	defer loop.Close()
	store := NewFilterStore(loop)

	category := "Drinks"
	sort := SortPriceDesc
	store.Apply(Patch{Category: &category, Sort: &sort})
	store.Reset()
	store.Wait()

	if got := store.Snapshot(); got != DefaultFilter() {
		t.Errorf("Snapshot after Reset = %+v, want %+v", got, DefaultFilter())
	}
}

func TestFilterStoresInconsistentBoundsVerbatim(t *testing.T) {
	loop := state.NewLoop()
	defer loop.Close()
	store := NewFilterStore(loop)

	minPrice, maxPrice := 500.0, 100.0
	store.Apply(Patch{MinPrice: &minPrice, MaxPrice: &maxPrice})
	store.Wait()

	f := store.Snapshot()
	if f.MinPrice != 500 || f.MaxPrice != 100 {
		t.Errorf("bounds = (%v, %v), want stored verbatim (500, 100)", f.MinPrice, f.MaxPrice)
	}
}

func TestFilterSubscribeObservesMutations(t *testing.T) {
	loop := state.NewLoop()
	defer loop.Close()
	store := NewFilterStore(loop)

	var seen []Filter
	unsub := store.Subscribe(func(f Filter) {
		seen = append(seen, f)
	})
	defer unsub()

	category := "Burger"
	store.Apply(Patch{Category: &category})
	store.Wait()

	if len(seen) != 1 || seen[0].Category != "Burger" {
		t.Errorf("seen = %+v, want one Burger filter", seen)
	}
}

func TestSortKeyRoundTrip(t *testing.T) {
	keys := []SortKey{SortNone, SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc}
	for _, k := range keys {
		parsed, ok := ParseSortKey(k.String())
		if !ok || parsed != k {
			t.Errorf("ParseSortKey(%q) = (%v, %v), want (%v, true)", k.String(), parsed, ok, k)
		}
	}

	if _, ok := ParseSortKey("rating-desc"); ok {
		t.Error("ParseSortKey accepted an unknown sort key")
	}
}
