// Package snapshot persists the latest per-region dataset so a restart
// inside the same local day serves cached data instead of spending one of
// the provider's rate-limited requests. Only the current dataset is kept;
// there is no historical retention.
package snapshot

import (
	"context"
	"errors"

	"github.com/Ondalf/spothinta/internal/model"
)

// ErrNotFound is returned by Load when no snapshot exists for the region.
var ErrNotFound = errors.New("no snapshot stored for region")

// Store persists and restores region snapshots.
type Store interface {
	// Load returns the stored snapshot for region, or ErrNotFound.
	Load(ctx context.Context, region model.Region) (*model.RegionSnapshot, error)

	// Save replaces the stored snapshot for the snapshot's region.
	Save(ctx context.Context, snap model.RegionSnapshot) error

	// Close releases any backing connections.
	Close() error
}
