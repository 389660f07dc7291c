package cache

import (
	"sort"
	"time"

	"github.com/Ondalf/spothinta/internal/model"
)

// Fallback reasons recorded when a resolution could not use the
// at-or-before-now candidate.
const (
	FallbackNoCandidate  = "no_candidate"
	FallbackMissingField = "missing_field"
)

// ResolveResult carries the resolved price plus whether the last-entry
// fallback path was taken, so callers can record the diagnostic.
type ResolveResult struct {
	Price          *float64
	Fallback       bool
	FallbackReason string
}

// Resolve returns the applicable instantaneous price from a time-ordered
// series: the last point whose timestamp is at or before now, read through
// the requested variant.
//
// When no such candidate exists, or the candidate lacks the requested
// field, the temporally last series entry is used instead, irrespective of
// its relation to now. That keeps a best-effort answer available near
// series boundaries instead of surfacing an absence to the caller.
func Resolve(series model.TimeSeries, now time.Time, variant model.PriceVariant) ResolveResult {
	if len(series) == 0 {
		// No data yet is a legitimate absence, not a fallback.
		return ResolveResult{}
	}

	nowUTC := now.UTC()

	// Series is sorted, so the candidate is found by binary search: the
	// point just before the first timestamp after now.
	idx := sort.Search(len(series), func(i int) bool {
		return series[i].Timestamp.After(nowUTC)
	}) - 1

	if idx < 0 {
		// All points are in the future.
		return fallbackToLast(series, variant, FallbackNoCandidate)
	}

	if price := series[idx].Value(variant); price != nil {
		v := *price
		return ResolveResult{Price: &v}
	}
	return fallbackToLast(series, variant, FallbackMissingField)
}

func fallbackToLast(series model.TimeSeries, variant model.PriceVariant, reason string) ResolveResult {
	res := ResolveResult{Fallback: true, FallbackReason: reason}
	if price := series[len(series)-1].Value(variant); price != nil {
		v := *price
		res.Price = &v
	}
	return res
}
