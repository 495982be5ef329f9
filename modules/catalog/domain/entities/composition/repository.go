package composition

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// DeleteLinksBySource removes every Link whose parent belongs to the
	// source. Re-imports fully rebuild link sets, never patch them.
	DeleteLinksBySource(ctx context.Context, sourceID int32) error
	CreateLinks(ctx context.Context, links []Link) error
	LinksByParent(ctx context.Context, parentID uuid.UUID) ([]Link, error)

	// DeleteByComposition clears crew, ingredient and production rows of one
	// composition, so a repeated block in the analytic report re-parses
	// cleanly.
	DeleteByComposition(ctx context.Context, compositionID uuid.UUID) error
	CreateTeamMembers(ctx context.Context, members []TeamMember) error
	TeamByComposition(ctx context.Context, compositionID uuid.UUID) ([]TeamMember, error)
	CreateProductionRates(ctx context.Context, rates []ProductionRate) error
	ProductionByItem(ctx context.Context, itemID uuid.UUID) ([]ProductionRate, error)
}
