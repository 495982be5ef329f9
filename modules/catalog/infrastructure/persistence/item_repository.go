package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/domain/aggregates/catalogitem"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/infrastructure/persistence/models"
	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/composables"
)

const itemFindQuery = `
	SELECT id, source_id, code, description, unit, kind, methodology, official, locked
	FROM catalog_items
`

type ItemRepository struct{}

func NewItemRepository() catalogitem.Repository {
	return &ItemRepository{}
}

func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (catalogitem.Item, error) {
	items, err := r.queryItems(ctx, itemFindQuery+" WHERE id = $1", id.String())
	if err != nil {
		return catalogitem.Item{}, err
	}
	if len(items) == 0 {
		return catalogitem.Item{}, catalogitem.ErrNotFound
	}
	return items[0], nil
}

func (r *ItemRepository) CodeIndex(ctx context.Context, sourceID int32) (map[string]uuid.UUID, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `SELECT code, id FROM catalog_items WHERE source_id = $1`, sourceID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query code index")
	}
	defer rows.Close()

	index := map[string]uuid.UUID{}
	for rows.Next() {
		var code, idStr string
		if err := rows.Scan(&code, &idStr); err != nil {
			return nil, errors.Wrap(err, "failed to scan code index row")
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, errors.Wrap(err, "invalid item id in code index")
		}
		index[code] = id
	}
	return index, rows.Err()
}

func (r *ItemRepository) CreateMany(ctx context.Context, items []catalogitem.Item) error {
	if len(items) == 0 {
		return nil
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO catalog_items (id, source_id, code, description, unit, kind, methodology, official, locked)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(
			query,
			item.ID().String(),
			item.SourceID(),
			item.Code(),
			item.Description(),
			item.Unit(),
			string(item.Kind()),
			string(item.Methodology()),
			item.IsOfficial(),
			item.IsLocked(),
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return errors.Wrap(err, "failed to insert catalog items")
	}
	return nil
}

func (r *ItemRepository) Find(ctx context.Context, params *catalogitem.FindParams) ([]catalogitem.Item, error) {
	where := []string{"TRUE"}
	var args []interface{}

	if params.SourceID != 0 {
		args = append(args, params.SourceID)
		where = append(where, fmt.Sprintf("source_id = $%d", len(args)))
	}
	if params.Kind != "" {
		args = append(args, string(params.Kind))
		where = append(where, fmt.Sprintf("kind = $%d", len(args)))
	}
	if params.Q != "" {
		args = append(args, "%"+params.Q+"%", params.Q)
		where = append(where, fmt.Sprintf("(description ILIKE $%d OR code = $%d)", len(args)-1, len(args)))
	}

	query := itemFindQuery + " WHERE " + strings.Join(where, " AND ") + " ORDER BY code"
	if params.Limit > 0 {
		args = append(args, params.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	return r.queryItems(ctx, query, args...)
}

func (r *ItemRepository) queryItems(ctx context.Context, query string, args ...interface{}) ([]catalogitem.Item, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query catalog items")
	}
	defer rows.Close()

	var items []catalogitem.Item
	for rows.Next() {
		var m models.CatalogItem
		if err := rows.Scan(
			&m.ID,
			&m.SourceID,
			&m.Code,
			&m.Description,
			&m.Unit,
			&m.Kind,
			&m.Methodology,
			&m.Official,
			&m.Locked,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan catalog item row")
		}
		item, err := toDomainItem(&m)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
