package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/domain/aggregates/pricing"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/infrastructure/persistence/models"
	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/composables"
)

const priceFindQuery = `
	SELECT id, item_id, region, price::text, currency, validity, charge_type, active, inactivated_at, inactivated_by
	FROM price_observations
`

type PriceRepository struct{}

func NewPriceRepository() pricing.Repository {
	return &PriceRepository{}
}

func (r *PriceRepository) CreateMany(ctx context.Context, observations []pricing.Observation) error {
	if len(observations) == 0 {
		return nil
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO price_observations (item_id, region, price, currency, validity, charge_type, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	batch := &pgx.Batch{}
	for _, o := range observations {
		batch.Queue(
			query,
			o.ItemID().String(),
			o.Region(),
			o.Price().String(),
			o.Currency(),
			o.Validity(),
			string(o.ChargeType()),
			o.IsActive(),
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return errors.Wrap(err, "failed to insert price observations")
	}
	return nil
}

func (r *PriceRepository) ActiveKeys(ctx context.Context, sourceID int32, month, year int) (map[pricing.Key]struct{}, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT p.item_id, p.region, p.charge_type
		FROM price_observations p
		JOIN catalog_items i ON i.id = p.item_id
		WHERE i.source_id = $1 AND p.active AND p.validity = make_date($2, $3, 1)
	`
	rows, err := tx.Query(ctx, query, sourceID, year, month)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query active price keys")
	}
	defer rows.Close()

	keys := map[pricing.Key]struct{}{}
	for rows.Next() {
		var itemIDStr, region, chargeType string
		if err := rows.Scan(&itemIDStr, &region, &chargeType); err != nil {
			return nil, errors.Wrap(err, "failed to scan price key row")
		}
		itemID, err := uuid.Parse(itemIDStr)
		if err != nil {
			return nil, err
		}
		keys[pricing.Key{ItemID: itemID, Region: region, ChargeType: pricing.ChargeType(chargeType)}] = struct{}{}
	}
	return keys, rows.Err()
}

func (r *PriceRepository) DeactivateWindow(ctx context.Context, sourceID int32, month, year int, region string, by *uuid.UUID) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}

	query := `
		UPDATE price_observations
		SET active = FALSE, inactivated_at = NOW(), inactivated_by = $1
		WHERE active
		  AND validity = make_date($2, $3, 1)
		  AND ($4 = '' OR region = $4)
		  AND item_id IN (SELECT id FROM catalog_items WHERE source_id = $5)
	`
	var byValue interface{}
	if by != nil {
		byValue = by.String()
	}
	tag, err := tx.Exec(ctx, query, byValue, year, month, region, sourceID)
	if err != nil {
		return 0, errors.Wrap(err, "failed to deactivate price window")
	}
	return tag.RowsAffected(), nil
}

func (r *PriceRepository) ActiveByItem(ctx context.Context, itemID uuid.UUID) ([]pricing.Observation, error) {
	return r.queryObservations(
		ctx,
		priceFindQuery+" WHERE item_id = $1 AND active ORDER BY validity DESC, region",
		itemID.String(),
	)
}

func (r *PriceRepository) ActiveByItems(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID][]pricing.Observation, error) {
	if len(itemIDs) == 0 {
		return map[uuid.UUID][]pricing.Observation{}, nil
	}
	ids := make([]string, len(itemIDs))
	for i, id := range itemIDs {
		ids[i] = id.String()
	}
	observations, err := r.queryObservations(
		ctx,
		priceFindQuery+" WHERE item_id = ANY($1) AND active ORDER BY validity DESC, region",
		ids,
	)
	if err != nil {
		return nil, err
	}
	out := map[uuid.UUID][]pricing.Observation{}
	for _, o := range observations {
		out[o.ItemID()] = append(out[o.ItemID()], o)
	}
	return out, nil
}

func (r *PriceRepository) queryObservations(ctx context.Context, query string, args ...interface{}) ([]pricing.Observation, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query price observations")
	}
	defer rows.Close()

	var observations []pricing.Observation
	for rows.Next() {
		var m models.PriceObservation
		if err := rows.Scan(
			&m.ID,
			&m.ItemID,
			&m.Region,
			&m.Price,
			&m.Currency,
			&m.Validity,
			&m.ChargeType,
			&m.Active,
			&m.InactivatedAt,
			&m.InactivatedBy,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan price observation row")
		}
		o, err := toDomainObservation(&m)
		if err != nil {
			return nil, err
		}
		observations = append(observations, o)
	}
	return observations, rows.Err()
}
