package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/domain/entities/composition"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/infrastructure/persistence/models"
	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/composables"
)

type CompositionRepository struct{}

func NewCompositionRepository() composition.Repository {
	return &CompositionRepository{}
}

func (r *CompositionRepository) DeleteLinksBySource(ctx context.Context, sourceID int32) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	query := `
		DELETE FROM composition_links
		WHERE parent_item_id IN (SELECT id FROM catalog_items WHERE source_id = $1)
	`
	_, err = tx.Exec(ctx, query, sourceID)
	return errors.Wrap(err, "failed to delete composition links by source")
}

func (r *CompositionRepository) CreateLinks(ctx context.Context, links []composition.Link) error {
	if len(links) == 0 {
		return nil
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO composition_links (parent_item_id, child_item_id, coefficient, price_snapshot)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (parent_item_id, child_item_id) DO NOTHING
	`
	batch := &pgx.Batch{}
	for _, link := range links {
		batch.Queue(
			query,
			link.ParentItemID.String(),
			link.ChildItemID.String(),
			link.Coefficient.String(),
			decimalPtrToNullString(link.PriceSnapshot),
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return errors.Wrap(err, "failed to insert composition links")
	}
	return nil
}

func (r *CompositionRepository) LinksByParent(ctx context.Context, parentID uuid.UUID) ([]composition.Link, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT parent_item_id, child_item_id, coefficient::text, price_snapshot::text
		FROM composition_links
		WHERE parent_item_id = $1
	`
	rows, err := tx.Query(ctx, query, parentID.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to query composition links")
	}
	defer rows.Close()

	var links []composition.Link
	for rows.Next() {
		var m models.CompositionLink
		if err := rows.Scan(&m.ParentItemID, &m.ChildItemID, &m.Coefficient, &m.PriceSnapshot); err != nil {
			return nil, errors.Wrap(err, "failed to scan composition link row")
		}
		link, err := toDomainLink(&m)
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

func (r *CompositionRepository) DeleteByComposition(ctx context.Context, compositionID uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	id := compositionID.String()
	for _, query := range []string{
		`DELETE FROM composition_team_members WHERE composition_item_id = $1`,
		`DELETE FROM composition_links WHERE parent_item_id = $1`,
		`DELETE FROM production_rates WHERE item_id = $1`,
	} {
		if _, err := tx.Exec(ctx, query, id); err != nil {
			return errors.Wrap(err, "failed to clear composition details")
		}
	}
	return nil
}

func (r *CompositionRepository) CreateTeamMembers(ctx context.Context, members []composition.TeamMember) error {
	if len(members) == 0 {
		return nil
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO composition_team_members (composition_item_id, member_item_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (composition_item_id, member_item_id) DO NOTHING
	`
	batch := &pgx.Batch{}
	for _, member := range members {
		batch.Queue(query, member.CompositionItemID.String(), member.MemberItemID.String(), member.Quantity.String())
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return errors.Wrap(err, "failed to insert team members")
	}
	return nil
}

func (r *CompositionRepository) TeamByComposition(ctx context.Context, compositionID uuid.UUID) ([]composition.TeamMember, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT composition_item_id, member_item_id, quantity::text
		FROM composition_team_members
		WHERE composition_item_id = $1
	`
	rows, err := tx.Query(ctx, query, compositionID.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to query team members")
	}
	defer rows.Close()

	var members []composition.TeamMember
	for rows.Next() {
		var m models.TeamMember
		if err := rows.Scan(&m.CompositionItemID, &m.MemberItemID, &m.Quantity); err != nil {
			return nil, errors.Wrap(err, "failed to scan team member row")
		}
		member, err := toDomainTeamMember(&m)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, rows.Err()
}

func (r *CompositionRepository) CreateProductionRates(ctx context.Context, rates []composition.ProductionRate) error {
	if len(rates) == 0 {
		return nil
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO production_rates (item_id, hourly_rate, unit, scenario)
		VALUES ($1, $2, $3, $4)
	`
	batch := &pgx.Batch{}
	for _, rate := range rates {
		batch.Queue(query, rate.ItemID.String(), rate.HourlyRate.String(), rate.Unit, rate.Scenario)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return errors.Wrap(err, "failed to insert production rates")
	}
	return nil
}

func (r *CompositionRepository) ProductionByItem(ctx context.Context, itemID uuid.UUID) ([]composition.ProductionRate, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT item_id, hourly_rate::text, unit, scenario
		FROM production_rates
		WHERE item_id = $1
	`
	rows, err := tx.Query(ctx, query, itemID.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to query production rates")
	}
	defer rows.Close()

	var rates []composition.ProductionRate
	for rows.Next() {
		var m models.ProductionRate
		if err := rows.Scan(&m.ItemID, &m.HourlyRate, &m.Unit, &m.Scenario); err != nil {
			return nil, errors.Wrap(err, "failed to scan production rate row")
		}
		rate, err := toDomainProductionRate(&m)
		if err != nil {
			return nil, err
		}
		rates = append(rates, rate)
	}
	return rates, rows.Err()
}
