package model

import "errors"

var (
	// ErrUnknownRegion marks a region string outside the supported zones.
	ErrUnknownRegion = errors.New("unknown region")

	// ErrUnknownVariant marks a price variant outside with_tax/without_tax.
	ErrUnknownVariant = errors.New("unknown price variant")

	// ErrInvalidResolution marks a resolution the provider does not offer.
	ErrInvalidResolution = errors.New("invalid price resolution")
)
