package composition

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Link is a one-level ingredient edge: parent composition consumes
// coefficient units of the child per unit of output. The engine never assumes
// the link graph is acyclic.
type Link struct {
	ParentItemID  uuid.UUID
	ChildItemID   uuid.UUID
	Coefficient   decimal.Decimal
	PriceSnapshot *decimal.Decimal
}

// TeamMember is a crew/headcount edge used only by the production
// methodology (SICRO): quantity of this labor or equipment item in the crew.
type TeamMember struct {
	CompositionItemID uuid.UUID
	MemberItemID      uuid.UUID
	Quantity          decimal.Decimal
}

// ProductionRate is the crew's hourly output for a composition.
type ProductionRate struct {
	ItemID     uuid.UUID
	HourlyRate decimal.Decimal
	Unit       string
	Scenario   string
}
