package dtos

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/constants"
)

// BudgetItemDTO creates one budget line. Decimal fields accept both JSON
// numbers and strings.
type BudgetItemDTO struct {
	ReferenceItemID   string          `json:"reference_item_id" validate:"omitempty,uuid"`
	CustomCode        string          `json:"custom_code" validate:"omitempty,max=20"`
	CustomDescription string          `json:"custom_description"`
	ParentID          string          `json:"parent_id" validate:"omitempty,uuid"`
	Numbering         string          `json:"numbering" validate:"omitempty,max=50"`
	ItemType          string          `json:"item_type" validate:"omitempty,oneof=CHAPTER ITEM"`
	Quantity          decimal.Decimal `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	BDIApplied        decimal.Decimal `json:"bdi_applied"`
}

func (d *BudgetItemDTO) Normalize() {
	d.ReferenceItemID = strings.TrimSpace(d.ReferenceItemID)
	d.ParentID = strings.TrimSpace(d.ParentID)
	d.ItemType = strings.ToUpper(strings.TrimSpace(d.ItemType))
}

func (d *BudgetItemDTO) Ok() (map[string]string, bool) {
	d.Normalize()

	errs := map[string]string{}
	if err := constants.Validate.Struct(d); err != nil {
		for _, fieldErr := range err.(validator.ValidationErrors) {
			errs[fieldErr.Field()] = fieldErr.Tag()
		}
	}
	if d.Quantity.IsNegative() {
		errs["Quantity"] = "min"
	}
	if d.UnitPrice.IsNegative() {
		errs["UnitPrice"] = "min"
	}
	return errs, len(errs) == 0
}

// BDIConfigDTO carries the nine markup/tax rates as fractions.
type BDIConfigDTO struct {
	Administration decimal.Decimal `json:"administration_rate"`
	Insurance      decimal.Decimal `json:"insurance_rate"`
	Risk           decimal.Decimal `json:"risk_rate"`
	Financial      decimal.Decimal `json:"financial_rate"`
	Profit         decimal.Decimal `json:"profit_rate"`
	PIS            decimal.Decimal `json:"pis_rate"`
	COFINS         decimal.Decimal `json:"cofins_rate"`
	ISS            decimal.Decimal `json:"iss_rate"`
	CPRB           decimal.Decimal `json:"cprb_rate"`
}

func (d *BDIConfigDTO) Ok() (map[string]string, bool) {
	errs := map[string]string{}
	one := decimal.NewFromInt(1)
	rates := map[string]decimal.Decimal{
		"Administration": d.Administration,
		"Insurance":      d.Insurance,
		"Risk":           d.Risk,
		"Financial":      d.Financial,
		"Profit":         d.Profit,
		"PIS":            d.PIS,
		"COFINS":         d.COFINS,
		"ISS":            d.ISS,
		"CPRB":           d.CPRB,
	}
	for field, rate := range rates {
		if rate.IsNegative() || rate.GreaterThan(one) {
			errs[field] = "range"
		}
	}
	return errs, len(errs) == 0
}
