package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/domain/aggregates/source"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/infrastructure/persistence/models"
	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/composables"
)

const sourceFindQuery = `SELECT id, name, description FROM catalog_sources`

type SourceRepository struct{}

func NewSourceRepository() source.Repository {
	return &SourceRepository{}
}

func (r *SourceRepository) GetByName(ctx context.Context, name string) (source.Source, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return source.Source{}, err
	}

	var m models.Source
	err = tx.QueryRow(ctx, sourceFindQuery+" WHERE name = $1", name).
		Scan(&m.ID, &m.Name, &m.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return source.Source{}, source.ErrNotFound
	}
	if err != nil {
		return source.Source{}, errors.Wrap(err, "failed to query catalog source")
	}
	return toDomainSource(&m), nil
}

func (r *SourceRepository) Create(ctx context.Context, s source.Source) (source.Source, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return source.Source{}, err
	}

	query := `
		INSERT INTO catalog_sources (name, description)
		VALUES ($1, $2)
		RETURNING id
	`
	var id int32
	if err := tx.QueryRow(ctx, query, s.Name(), s.Description()).Scan(&id); err != nil {
		return source.Source{}, errors.Wrap(err, "failed to create catalog source")
	}
	return source.Hydrate(id, s.Name(), s.Description()), nil
}
