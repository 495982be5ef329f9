package pricing

import (
	"context"

	"github.com/google/uuid"
)

// Key identifies the dedup cell an import may fill at most once per window.
type Key struct {
	ItemID     uuid.UUID
	Region     string
	ChargeType ChargeType
}

type Repository interface {
	CreateMany(ctx context.Context, observations []Observation) error
	// ActiveKeys returns every (item, region, charge type) cell that already
	// holds an active observation for the source in the given month window.
	ActiveKeys(ctx context.Context, sourceID int32, month, year int) (map[Key]struct{}, error)
	// DeactivateWindow soft-deletes every active observation of the source
	// in the (month, year[, region]) window. Empty region means all regions.
	DeactivateWindow(ctx context.Context, sourceID int32, month, year int, region string, by *uuid.UUID) (int64, error)
	ActiveByItem(ctx context.Context, itemID uuid.UUID) ([]Observation, error)
	ActiveByItems(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID][]Observation, error)
}
