package catalog

import (
	"github.com/MasudBS-1458/tr-cafe/pkg/state"
)

// SortKey is the closed set of catalog sort orders.
type SortKey int

const (
	SortNone SortKey = iota
	SortPriceAsc
	SortPriceDesc
	SortNameAsc
	SortNameDesc
)

// String returns the wire value sent as the sortBy query parameter.
// SortNone maps to the empty string, which the client omits.
func (k SortKey) String() string {
	switch k {
	case SortPriceAsc:
		return "price-asc"
	case SortPriceDesc:
		return "price-desc"
	case SortNameAsc:
		return "name-asc"
	case SortNameDesc:
		return "name-desc"
	default:
		return ""
	}
}

// ParseSortKey maps a wire value back to its SortKey.
// Unknown values parse as SortNone with ok=false.
func ParseSortKey(s string) (SortKey, bool) {
	switch s {
	case "":
		return SortNone, true
	case "price-asc":
		return SortPriceAsc, true
	case "price-desc":
		return SortPriceDesc, true
	case "name-asc":
		return SortNameAsc, true
	case "name-desc":
		return SortNameDesc, true
	default:
		return SortNone, false
	}
}

// Filter holds the catalog query parameters. The store keeps the
// last-written values verbatim: MinPrice > MaxPrice is tolerated and
// passed through to the remote service unmodified, never clamped.
// Supplying a consistent pair is the caller's responsibility.
type Filter struct {
	Category string
	MinPrice float64
	MaxPrice float64
	Sort     SortKey
}

// DefaultFilter is the fixed reset value for the filter store.
func DefaultFilter() Filter {
	return Filter{
		Category: "",
		MinPrice: 0,
		MaxPrice: 1000,
		Sort:     SortNone,
	}
}

// Patch is a partial filter update. Nil fields retain their prior values.
type Patch struct {
	Category *string
	MinPrice *float64
	MaxPrice *float64
	Sort     *SortKey
}

// FilterStore owns the current Filter. Every successful mutation is
// observable via Subscribe; the fetch controller re-derives its query
// from each published value.
type FilterStore struct {
	loop   *state.Loop
	filter *state.Signal[Filter]
}

// NewFilterStore creates a filter store holding DefaultFilter.
func NewFilterStore(loop *state.Loop) *FilterStore {
	return &FilterStore{
		loop:   loop,
		filter: state.NewSignal(DefaultFilter()),
	}
}

// Apply merges the given fields into the current filter, replacing only
// the fields the patch provides.
func (s *FilterStore) Apply(patch Patch) {
	s.loop.Dispatch(func() {
		s.filter.Update(func(f Filter) Filter {
			if patch.Category != nil {
				f.Category = *patch.Category
			}
			if patch.MinPrice != nil {
				f.MinPrice = *patch.MinPrice
			}
			if patch.MaxPrice != nil {
				f.MaxPrice = *patch.MaxPrice
			}
			if patch.Sort != nil {
				f.Sort = *patch.Sort
			}
			return f
		})
	})
}

// Reset restores the default filter.
func (s *FilterStore) Reset() {
	s.loop.Dispatch(func() {
		s.filter.Set(DefaultFilter())
	})
}

// Snapshot returns the current filter.
func (s *FilterStore) Snapshot() Filter {
	return s.filter.Peek()
}

// Subscribe registers fn to observe every filter change and returns an
// unsubscribe function.
func (s *FilterStore) Subscribe(fn func(Filter)) func() {
	return s.filter.Subscribe(fn)
}

// Wait blocks until all previously issued mutations have been applied.
// Intended for tests and synchronous snapshot points.
func (s *FilterStore) Wait() {
	s.loop.DispatchWait(func() {})
}
