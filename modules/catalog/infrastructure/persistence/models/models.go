package models

import (
	"database/sql"
	"time"
)

type Source struct {
	ID          int32
	Name        string
	Description sql.NullString
}

type CatalogItem struct {
	ID          string
	SourceID    int32
	Code        string
	Description string
	Unit        string
	Kind        string
	Methodology string
	Official    bool
	Locked      bool
}

type PriceObservation struct {
	ID            int64
	ItemID        string
	Region        string
	Price         string
	Currency      string
	Validity      time.Time
	ChargeType    string
	Active        bool
	InactivatedAt sql.NullTime
	InactivatedBy sql.NullString
}

type CompositionLink struct {
	ParentItemID  string
	ChildItemID   string
	Coefficient   string
	PriceSnapshot sql.NullString
}

type TeamMember struct {
	CompositionItemID string
	MemberItemID      string
	Quantity          string
}

type ProductionRate struct {
	ItemID     string
	HourlyRate string
	Unit       string
	Scenario   string
}
