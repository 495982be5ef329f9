package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ChargeType distinguishes the statutory labor-charge regime embedded in
// quoted prices. The values follow the official catalogs' own vocabulary:
// DESONERADO quotes prices under the payroll-exoneration regime,
// NAO_DESONERADO with full charges embedded.
type ChargeType string

const (
	ChargeDesonerado    ChargeType = "DESONERADO"
	ChargeNaoDesonerado ChargeType = "NAO_DESONERADO"
)

// Observation is one price reading for an item in a (region, month, regime)
// cell. Observations form an append-only history: replacement never rewrites
// a row, it deactivates the old one and inserts a new one.
type Observation struct {
	id            int64
	itemID        uuid.UUID
	region        string
	price         decimal.Decimal
	currency      string
	validity      time.Time
	chargeType    ChargeType
	active        bool
	inactivatedAt *time.Time
	inactivatedBy *uuid.UUID
}

func New(itemID uuid.UUID, region string, price decimal.Decimal, currency string, validity time.Time, chargeType ChargeType) Observation {
	return Observation{
		itemID:     itemID,
		region:     region,
		price:      price,
		currency:   currency,
		validity:   monthTruncate(validity),
		chargeType: chargeType,
		active:     true,
	}
}

func Hydrate(
	id int64,
	itemID uuid.UUID,
	region string,
	price decimal.Decimal,
	currency string,
	validity time.Time,
	chargeType ChargeType,
	active bool,
	inactivatedAt *time.Time,
	inactivatedBy *uuid.UUID,
) Observation {
	return Observation{
		id:            id,
		itemID:        itemID,
		region:        region,
		price:         price,
		currency:      currency,
		validity:      validity,
		chargeType:    chargeType,
		active:        active,
		inactivatedAt: inactivatedAt,
		inactivatedBy: inactivatedBy,
	}
}

func (o Observation) ID() int64                 { return o.id }
func (o Observation) ItemID() uuid.UUID         { return o.itemID }
func (o Observation) Region() string            { return o.region }
func (o Observation) Price() decimal.Decimal    { return o.price }
func (o Observation) Currency() string          { return o.currency }
func (o Observation) Validity() time.Time       { return o.validity }
func (o Observation) ChargeType() ChargeType    { return o.chargeType }
func (o Observation) IsActive() bool            { return o.active }
func (o Observation) InactivatedAt() *time.Time { return o.inactivatedAt }
func (o Observation) InactivatedBy() *uuid.UUID { return o.inactivatedBy }

func monthTruncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
