package model

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// PriceVariant selects which of the two published price fields a query
// reads.
type PriceVariant string

const (
	// VariantWithTax is the tax-inclusive price.
	VariantWithTax PriceVariant = "with_tax"
	// VariantWithoutTax is the tax-exclusive price.
	VariantWithoutTax PriceVariant = "without_tax"
)

// DefaultVariant is used when a caller names no variant.
const DefaultVariant = VariantWithTax

// ParseVariant normalizes s into a PriceVariant. An empty string yields
// DefaultVariant; VAT/NO_VAT are accepted as aliases.
func ParseVariant(s string) (PriceVariant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultVariant, nil
	case "with_tax", "vat":
		return VariantWithTax, nil
	case "without_tax", "no_vat":
		return VariantWithoutTax, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownVariant, s)
	}
}

// Resolution is the series granularity in minutes.
type Resolution int

const (
	// ResolutionQuarterHour is the 15-minute granularity.
	ResolutionQuarterHour Resolution = 15
	// ResolutionHour is the 60-minute granularity.
	ResolutionHour Resolution = 60
)

// DefaultResolution matches the market's settlement granularity.
const DefaultResolution = ResolutionQuarterHour

// Validate reports whether the provider offers this resolution.
func (r Resolution) Validate() error {
	switch r {
	case ResolutionQuarterHour, ResolutionHour:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrInvalidResolution, int(r))
	}
}

// PricePoint is one published price interval. Either price field may be
// absent independently; a point carrying neither is never stored.
type PricePoint struct {
	Timestamp       time.Time `json:"timestamp"`
	PriceWithTax    *float64  `json:"price_with_tax"`
	PriceWithoutTax *float64  `json:"price_without_tax"`
}

// Value reads the field selected by variant. Nil means the point does not
// carry that field.
func (p PricePoint) Value(variant PriceVariant) *float64 {
	if variant == VariantWithoutTax {
		return p.PriceWithoutTax
	}
	return p.PriceWithTax
}

// TimeSeries is a price series ordered ascending by timestamp.
type TimeSeries []PricePoint

// Sorted returns a copy of the series ordered ascending by timestamp. The
// receiver is never mutated. Sorting is stable so records sharing a
// timestamp keep their upstream order.
func (s TimeSeries) Sorted() TimeSeries {
	out := make(TimeSeries, len(s))
	copy(out, s)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// IsSorted reports whether the series is already ordered ascending.
func (s TimeSeries) IsSorted() bool {
	return sort.SliceIsSorted(s, func(i, j int) bool {
		return s[i].Timestamp.Before(s[j].Timestamp)
	})
}

// RegionSnapshot is the complete cached state of one region: the series,
// the instant of the fetch that produced it, and the min/max aggregates
// over the tax-inclusive field. All fields describe the same install.
type RegionSnapshot struct {
	Region    Region     `json:"region"`
	Series    TimeSeries `json:"series"`
	LastFetch *time.Time `json:"last_fetch"`
	MinPrice  *float64   `json:"min_price"`
	MaxPrice  *float64   `json:"max_price"`
}
