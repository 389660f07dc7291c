// Package model holds the domain types shared across the cache, client and
// web layers: bidding-zone regions, price variants and the price series.
package model

import (
	"fmt"
	"strings"
)

// Region is a Nordic/Baltic electricity bidding zone as named by the
// provider API.
type Region string

// Supported bidding zones.
const (
	RegionDK1 Region = "DK1"
	RegionDK2 Region = "DK2"
	RegionEE  Region = "EE"
	RegionFI  Region = "FI"
	RegionLT  Region = "LT"
	RegionLV  Region = "LV"
	RegionNO1 Region = "NO1"
	RegionNO2 Region = "NO2"
	RegionNO3 Region = "NO3"
	RegionNO4 Region = "NO4"
	RegionNO5 Region = "NO5"
	RegionSE1 Region = "SE1"
	RegionSE2 Region = "SE2"
	RegionSE3 Region = "SE3"
	RegionSE4 Region = "SE4"
)

// DefaultRegion is used when a caller names no region.
const DefaultRegion = RegionFI

// SupportedRegions lists every bidding zone the provider serves, in the
// order they are reported to callers.
var SupportedRegions = []Region{
	RegionDK1, RegionDK2,
	RegionEE,
	RegionFI,
	RegionLT, RegionLV,
	RegionNO1, RegionNO2, RegionNO3, RegionNO4, RegionNO5,
	RegionSE1, RegionSE2, RegionSE3, RegionSE4,
}

var supportedRegionSet = func() map[Region]struct{} {
	set := make(map[Region]struct{}, len(SupportedRegions))
	for _, r := range SupportedRegions {
		set[r] = struct{}{}
	}
	return set
}()

// ParseRegion normalizes s (case-insensitive, surrounding whitespace
// ignored) into a supported Region.
func ParseRegion(s string) (Region, error) {
	region := Region(strings.ToUpper(strings.TrimSpace(s)))
	if !region.IsSupported() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRegion, s)
	}
	return region, nil
}

// IsSupported reports whether the region is a known bidding zone.
func (r Region) IsSupported() bool {
	_, ok := supportedRegionSet[r]
	return ok
}

func (r Region) String() string {
	return string(r)
}

// RegionStrings returns the supported zones as plain strings, for API
// responses and validation messages.
func RegionStrings() []string {
	out := make([]string, len(SupportedRegions))
	for i, r := range SupportedRegions {
		out[i] = r.String()
	}
	return out
}
