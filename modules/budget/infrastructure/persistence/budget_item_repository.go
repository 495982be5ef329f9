package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/budget/domain/aggregates/budgetitem"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/budget/infrastructure/persistence/models"
	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/composables"
)

const budgetItemFindQuery = `
	SELECT id, budget_id, reference_item_id, custom_code, custom_description,
	       parent_id, numbering, item_type, quantity::text, unit_price::text, bdi_applied::text
	FROM budget_items
`

type BudgetItemRepository struct{}

func NewBudgetItemRepository() budgetitem.Repository {
	return &BudgetItemRepository{}
}

func (r *BudgetItemRepository) GetByID(ctx context.Context, id uuid.UUID) (budgetitem.Item, error) {
	items, err := r.queryItems(ctx, budgetItemFindQuery+" WHERE id = $1", id.String())
	if err != nil {
		return budgetitem.Item{}, err
	}
	if len(items) == 0 {
		return budgetitem.Item{}, budgetitem.ErrNotFound
	}
	return items[0], nil
}

func (r *BudgetItemRepository) ByBudget(ctx context.Context, budgetID uuid.UUID) ([]budgetitem.Item, error) {
	return r.queryItems(ctx, budgetItemFindQuery+" WHERE budget_id = $1 ORDER BY numbering", budgetID.String())
}

func (r *BudgetItemRepository) Create(ctx context.Context, item budgetitem.Item) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO budget_items (
			id, budget_id, reference_item_id, custom_code, custom_description,
			parent_id, numbering, item_type, quantity, unit_price, bdi_applied
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		item.ID().String(),
		item.BudgetID().String(),
		uuidPtrToNullString(item.ReferenceItemID()),
		item.CustomCode(),
		item.CustomDescription(),
		uuidPtrToNullString(item.ParentID()),
		item.Numbering(),
		string(item.ItemType()),
		item.Quantity().String(),
		item.UnitPrice().String(),
		item.BDIApplied().String(),
	)
	if err != nil {
		return errors.Wrap(err, "failed to insert budget item")
	}
	return nil
}

func (r *BudgetItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM budget_items WHERE id = $1`, id.String()); err != nil {
		return errors.Wrap(err, "failed to delete budget item")
	}
	return nil
}

func (r *BudgetItemRepository) UpdateNumbering(ctx context.Context, budgetID uuid.UUID, numbering map[uuid.UUID]string) error {
	if len(numbering) == 0 {
		return nil
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for id, label := range numbering {
		batch.Queue(
			`UPDATE budget_items SET numbering = $1 WHERE id = $2 AND budget_id = $3`,
			label, id.String(), budgetID.String(),
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return errors.Wrap(err, "failed to update numbering")
	}
	return nil
}

func (r *BudgetItemRepository) ApplyBDI(ctx context.Context, budgetID uuid.UUID, percent decimal.Decimal) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := tx.Exec(ctx,
		`UPDATE budget_items SET bdi_applied = $1 WHERE budget_id = $2`,
		percent.String(), budgetID.String(),
	)
	if err != nil {
		return 0, errors.Wrap(err, "failed to apply bdi")
	}
	return tag.RowsAffected(), nil
}

func (r *BudgetItemRepository) queryItems(ctx context.Context, query string, args ...interface{}) ([]budgetitem.Item, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query budget items")
	}
	defer rows.Close()

	var items []budgetitem.Item
	for rows.Next() {
		var m models.BudgetItem
		if err := rows.Scan(
			&m.ID,
			&m.BudgetID,
			&m.ReferenceItemID,
			&m.CustomCode,
			&m.CustomDescription,
			&m.ParentID,
			&m.Numbering,
			&m.ItemType,
			&m.Quantity,
			&m.UnitPrice,
			&m.BDIApplied,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan budget item row")
		}
		item, err := toDomainBudgetItem(&m)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
