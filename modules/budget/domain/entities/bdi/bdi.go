package bdi

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("bdi configuration not found")

// Config holds the nine markup and tax rates of the standard BDI
// (Benefícios e Despesas Indiretas) formula, stored as fractions
// (0.0300 means 3%).
type Config struct {
	Administration decimal.Decimal
	Insurance      decimal.Decimal
	Risk           decimal.Decimal
	Financial      decimal.Decimal
	Profit         decimal.Decimal
	PIS            decimal.Decimal
	COFINS         decimal.Decimal
	ISS            decimal.Decimal
	CPRB           decimal.Decimal
}

// DefaultConfig carries the usual reference values for public works.
func DefaultConfig() Config {
	return Config{
		Administration: decimal.RequireFromString("0.0300"),
		Insurance:      decimal.RequireFromString("0.0080"),
		Risk:           decimal.RequireFromString("0.0127"),
		Financial:      decimal.RequireFromString("0.0059"),
		Profit:         decimal.RequireFromString("0.0740"),
		PIS:            decimal.RequireFromString("0.0065"),
		COFINS:         decimal.RequireFromString("0.0300"),
		ISS:            decimal.RequireFromString("0.0500"),
		CPRB:           decimal.RequireFromString("0.0450"),
	}
}

// Taxes is the summed tax share of the denominator.
func (c Config) Taxes() decimal.Decimal {
	return c.PIS.Add(c.COFINS).Add(c.ISS).Add(c.CPRB)
}

// Rate evaluates the closed form
//
//	((1+AC+S+R) * (1+DF) * (1+L)) / (1-I) - 1
//
// and returns 0 when the tax share reaches 100%, which would make the
// denominator non-positive.
func (c Config) Rate() decimal.Decimal {
	one := decimal.NewFromInt(1)
	taxes := c.Taxes()
	if taxes.GreaterThanOrEqual(one) {
		return decimal.Zero
	}
	numerator := one.Add(c.Administration).Add(c.Insurance).Add(c.Risk).
		Mul(one.Add(c.Financial)).
		Mul(one.Add(c.Profit))
	return numerator.Div(one.Sub(taxes)).Sub(one)
}

// RatePercent is Rate as the percentage stamped onto budget lines.
func (c Config) RatePercent() decimal.Decimal {
	return c.Rate().Mul(decimal.NewFromInt(100)).Round(2)
}

type Repository interface {
	GetByBudget(ctx context.Context, budgetID uuid.UUID) (Config, error)
	Save(ctx context.Context, budgetID uuid.UUID, config Config) error
}
