package persistence

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/domain/aggregates/catalogitem"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/domain/aggregates/pricing"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/domain/aggregates/source"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/domain/entities/composition"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/infrastructure/persistence/models"
)

func toDomainSource(m *models.Source) source.Source {
	return source.Hydrate(m.ID, m.Name, m.Description.String)
}

func toDomainItem(m *models.CatalogItem) (catalogitem.Item, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return catalogitem.Item{}, err
	}
	return catalogitem.Hydrate(
		id,
		m.SourceID,
		m.Code,
		m.Description,
		m.Unit,
		catalogitem.Kind(m.Kind),
		catalogitem.Methodology(m.Methodology),
		m.Official,
		m.Locked,
	), nil
}

func toDomainObservation(m *models.PriceObservation) (pricing.Observation, error) {
	itemID, err := uuid.Parse(m.ItemID)
	if err != nil {
		return pricing.Observation{}, err
	}
	price, err := decimal.NewFromString(m.Price)
	if err != nil {
		return pricing.Observation{}, err
	}
	var inactivatedAt *time.Time
	if m.InactivatedAt.Valid {
		t := m.InactivatedAt.Time
		inactivatedAt = &t
	}
	var inactivatedBy *uuid.UUID
	if m.InactivatedBy.Valid {
		by, parseErr := uuid.Parse(m.InactivatedBy.String)
		if parseErr == nil {
			inactivatedBy = &by
		}
	}
	return pricing.Hydrate(
		m.ID,
		itemID,
		m.Region,
		price,
		m.Currency,
		m.Validity,
		pricing.ChargeType(m.ChargeType),
		m.Active,
		inactivatedAt,
		inactivatedBy,
	), nil
}

func toDomainLink(m *models.CompositionLink) (composition.Link, error) {
	parentID, err := uuid.Parse(m.ParentItemID)
	if err != nil {
		return composition.Link{}, err
	}
	childID, err := uuid.Parse(m.ChildItemID)
	if err != nil {
		return composition.Link{}, err
	}
	coef, err := decimal.NewFromString(m.Coefficient)
	if err != nil {
		return composition.Link{}, err
	}
	link := composition.Link{ParentItemID: parentID, ChildItemID: childID, Coefficient: coef}
	if m.PriceSnapshot.Valid {
		snapshot, parseErr := decimal.NewFromString(m.PriceSnapshot.String)
		if parseErr == nil {
			link.PriceSnapshot = &snapshot
		}
	}
	return link, nil
}

func toDomainTeamMember(m *models.TeamMember) (composition.TeamMember, error) {
	compID, err := uuid.Parse(m.CompositionItemID)
	if err != nil {
		return composition.TeamMember{}, err
	}
	memberID, err := uuid.Parse(m.MemberItemID)
	if err != nil {
		return composition.TeamMember{}, err
	}
	qty, err := decimal.NewFromString(m.Quantity)
	if err != nil {
		return composition.TeamMember{}, err
	}
	return composition.TeamMember{CompositionItemID: compID, MemberItemID: memberID, Quantity: qty}, nil
}

func toDomainProductionRate(m *models.ProductionRate) (composition.ProductionRate, error) {
	itemID, err := uuid.Parse(m.ItemID)
	if err != nil {
		return composition.ProductionRate{}, err
	}
	rate, err := decimal.NewFromString(m.HourlyRate)
	if err != nil {
		return composition.ProductionRate{}, err
	}
	return composition.ProductionRate{ItemID: itemID, HourlyRate: rate, Unit: m.Unit, Scenario: m.Scenario}, nil
}

func decimalPtrToNullString(d *decimal.Decimal) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}
