package catalogitem

import (
	"context"

	"github.com/google/uuid"
)

type FindParams struct {
	SourceID int32
	Q        string
	Kind     Kind
	Limit    int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Item, error)
	// CodeIndex returns code -> item id for every item of the source. It
	// seeds the import identity cache so re-imports never duplicate items.
	CodeIndex(ctx context.Context, sourceID int32) (map[string]uuid.UUID, error)
	CreateMany(ctx context.Context, items []Item) error
	Find(ctx context.Context, params *FindParams) ([]Item, error)
}
