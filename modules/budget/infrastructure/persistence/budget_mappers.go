package persistence

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/budget/domain/aggregates/budgetitem"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/budget/domain/entities/bdi"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/budget/infrastructure/persistence/models"
)

func toDomainBudgetItem(m *models.BudgetItem) (budgetitem.Item, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return budgetitem.Item{}, errors.Wrap(err, "invalid budget item id")
	}
	budgetID, err := uuid.Parse(m.BudgetID)
	if err != nil {
		return budgetitem.Item{}, errors.Wrap(err, "invalid budget id")
	}
	referenceItemID, err := nullUUID(m.ReferenceItemID)
	if err != nil {
		return budgetitem.Item{}, errors.Wrap(err, "invalid reference item id")
	}
	parentID, err := nullUUID(m.ParentID)
	if err != nil {
		return budgetitem.Item{}, errors.Wrap(err, "invalid parent id")
	}
	quantity, err := decimal.NewFromString(m.Quantity)
	if err != nil {
		return budgetitem.Item{}, errors.Wrap(err, "invalid quantity")
	}
	unitPrice, err := decimal.NewFromString(m.UnitPrice)
	if err != nil {
		return budgetitem.Item{}, errors.Wrap(err, "invalid unit price")
	}
	bdiApplied, err := decimal.NewFromString(m.BDIApplied)
	if err != nil {
		return budgetitem.Item{}, errors.Wrap(err, "invalid bdi")
	}
	return budgetitem.Hydrate(
		id,
		budgetID,
		referenceItemID,
		m.CustomCode.String,
		m.CustomDescription.String,
		parentID,
		m.Numbering,
		budgetitem.Type(m.ItemType),
		quantity,
		unitPrice,
		bdiApplied,
	), nil
}

func toDomainBDIConfig(m *models.BDIConfig) (bdi.Config, error) {
	var config bdi.Config
	var err error
	fields := []struct {
		dst *decimal.Decimal
		src string
	}{
		{&config.Administration, m.Administration},
		{&config.Insurance, m.Insurance},
		{&config.Risk, m.Risk},
		{&config.Financial, m.Financial},
		{&config.Profit, m.Profit},
		{&config.PIS, m.PIS},
		{&config.COFINS, m.COFINS},
		{&config.ISS, m.ISS},
		{&config.CPRB, m.CPRB},
	}
	for _, f := range fields {
		if *f.dst, err = decimal.NewFromString(f.src); err != nil {
			return bdi.Config{}, errors.Wrap(err, "invalid bdi rate")
		}
	}
	return config, nil
}

func nullUUID(s sql.NullString) (*uuid.UUID, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s.String)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func uuidPtrToNullString(id *uuid.UUID) sql.NullString {
	if id == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: id.String(), Valid: true}
}
