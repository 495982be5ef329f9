package budgetitem

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Item, error)
	ByBudget(ctx context.Context, budgetID uuid.UUID) ([]Item, error)
	Create(ctx context.Context, item Item) error
	Delete(ctx context.Context, id uuid.UUID) error
	// UpdateNumbering applies a renumbering pass in bulk.
	UpdateNumbering(ctx context.Context, budgetID uuid.UUID, numbering map[uuid.UUID]string) error
	// ApplyBDI broadcasts a recalculated markup percentage onto every line of
	// the budget. Returns the number of affected rows.
	ApplyBDI(ctx context.Context, budgetID uuid.UUID, percent decimal.Decimal) (int64, error)
}
