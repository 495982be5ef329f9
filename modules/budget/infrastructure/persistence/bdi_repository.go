package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/budget/domain/entities/bdi"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/budget/infrastructure/persistence/models"
	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/composables"
)

type BDIRepository struct{}

func NewBDIRepository() bdi.Repository {
	return &BDIRepository{}
}

func (r *BDIRepository) GetByBudget(ctx context.Context, budgetID uuid.UUID) (bdi.Config, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return bdi.Config{}, err
	}

	var m models.BDIConfig
	err = tx.QueryRow(ctx, `
		SELECT budget_id,
		       administration_rate::text, insurance_rate::text, risk_rate::text,
		       financial_rate::text, profit_rate::text,
		       pis_rate::text, cofins_rate::text, iss_rate::text, cprb_rate::text
		FROM bdi_configurations
		WHERE budget_id = $1
	`, budgetID.String()).Scan(
		&m.BudgetID,
		&m.Administration,
		&m.Insurance,
		&m.Risk,
		&m.Financial,
		&m.Profit,
		&m.PIS,
		&m.COFINS,
		&m.ISS,
		&m.CPRB,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return bdi.Config{}, bdi.ErrNotFound
	}
	if err != nil {
		return bdi.Config{}, errors.Wrap(err, "failed to query bdi configuration")
	}
	return toDomainBDIConfig(&m)
}

func (r *BDIRepository) Save(ctx context.Context, budgetID uuid.UUID, config bdi.Config) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO bdi_configurations (
			budget_id, administration_rate, insurance_rate, risk_rate,
			financial_rate, profit_rate, pis_rate, cofins_rate, iss_rate, cprb_rate
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (budget_id) DO UPDATE SET
			administration_rate = EXCLUDED.administration_rate,
			insurance_rate = EXCLUDED.insurance_rate,
			risk_rate = EXCLUDED.risk_rate,
			financial_rate = EXCLUDED.financial_rate,
			profit_rate = EXCLUDED.profit_rate,
			pis_rate = EXCLUDED.pis_rate,
			cofins_rate = EXCLUDED.cofins_rate,
			iss_rate = EXCLUDED.iss_rate,
			cprb_rate = EXCLUDED.cprb_rate,
			updated_at = now()
	`,
		budgetID.String(),
		config.Administration.String(),
		config.Insurance.String(),
		config.Risk.String(),
		config.Financial.String(),
		config.Profit.String(),
		config.PIS.String(),
		config.COFINS.String(),
		config.ISS.String(),
		config.CPRB.String(),
	)
	if err != nil {
		return errors.Wrap(err, "failed to save bdi configuration")
	}
	return nil
}
