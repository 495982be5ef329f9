package budgetitem

import (
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("budget item not found")

type Type string

const (
	TypeChapter Type = "CHAPTER"
	TypeItem    Type = "ITEM"
)

var oneHundred = decimal.NewFromInt(100)

// Item is one budget line. Prices are snapshots: unitPrice is copied from the
// catalog at creation time and never follows later imports. bdiApplied is a
// percentage (30.77 means +30.77%).
type Item struct {
	id                uuid.UUID
	budgetID          uuid.UUID
	referenceItemID   *uuid.UUID
	customCode        string
	customDescription string
	parentID          *uuid.UUID
	numbering         string
	itemType          Type
	quantity          decimal.Decimal
	unitPrice         decimal.Decimal
	bdiApplied        decimal.Decimal
}

func New(
	budgetID uuid.UUID,
	referenceItemID *uuid.UUID,
	customCode, customDescription string,
	parentID *uuid.UUID,
	numbering string,
	itemType Type,
	quantity, unitPrice, bdiApplied decimal.Decimal,
) Item {
	if itemType == "" {
		itemType = TypeItem
	}
	return Item{
		id:                uuid.New(),
		budgetID:          budgetID,
		referenceItemID:   referenceItemID,
		customCode:        strings.TrimSpace(customCode),
		customDescription: strings.TrimSpace(customDescription),
		parentID:          parentID,
		numbering:         strings.TrimSpace(numbering),
		itemType:          itemType,
		quantity:          quantity,
		unitPrice:         unitPrice,
		bdiApplied:        bdiApplied,
	}
}

func Hydrate(
	id uuid.UUID,
	budgetID uuid.UUID,
	referenceItemID *uuid.UUID,
	customCode, customDescription string,
	parentID *uuid.UUID,
	numbering string,
	itemType Type,
	quantity, unitPrice, bdiApplied decimal.Decimal,
) Item {
	return Item{
		id:                id,
		budgetID:          budgetID,
		referenceItemID:   referenceItemID,
		customCode:        customCode,
		customDescription: customDescription,
		parentID:          parentID,
		numbering:         numbering,
		itemType:          itemType,
		quantity:          quantity,
		unitPrice:         unitPrice,
		bdiApplied:        bdiApplied,
	}
}

func (i Item) ID() uuid.UUID               { return i.id }
func (i Item) BudgetID() uuid.UUID         { return i.budgetID }
func (i Item) ReferenceItemID() *uuid.UUID { return i.referenceItemID }
func (i Item) CustomCode() string          { return i.customCode }
func (i Item) CustomDescription() string   { return i.customDescription }
func (i Item) ParentID() *uuid.UUID        { return i.parentID }
func (i Item) Numbering() string           { return i.numbering }
func (i Item) ItemType() Type              { return i.itemType }
func (i Item) Quantity() decimal.Decimal   { return i.quantity }
func (i Item) UnitPrice() decimal.Decimal  { return i.unitPrice }
func (i Item) BDIApplied() decimal.Decimal { return i.bdiApplied }

// TotalPrice is always derived, never stored.
func (i Item) TotalPrice() decimal.Decimal {
	markup := decimal.NewFromInt(1).Add(i.bdiApplied.Div(oneHundred))
	return i.quantity.Mul(i.unitPrice).Mul(markup)
}

func (i Item) WithNumbering(numbering string) Item {
	i.numbering = numbering
	return i
}

func (i Item) WithBDI(percent decimal.Decimal) Item {
	i.bdiApplied = percent
	return i
}
