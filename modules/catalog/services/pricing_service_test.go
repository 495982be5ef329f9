package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/domain/aggregates/catalogitem"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/domain/aggregates/pricing"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/domain/entities/composition"
	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/configuration"
)

type pricingFixture struct {
	service      *PricingService
	items        *itemRepoMock
	prices       *priceRepoMock
	compositions *compositionRepoMock
}

func newPricingFixture() *pricingFixture {
	items := newItemRepoMock()
	prices := newPriceRepoMock(items)
	compositions := newCompositionRepoMock(items)
	return &pricingFixture{
		service: NewPricingService(items, prices, compositions, configuration.PricingOptions{
			PrimaryRegion:   "RS",
			SecondaryRegion: "SP",
			Currency:        "BRL",
		}),
		items:        items,
		prices:       prices,
		compositions: compositions,
	}
}

var testValidity = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func (fx *pricingFixture) seedItem(t *testing.T, code string, kind catalogitem.Kind, methodology catalogitem.Methodology) catalogitem.Item {
	t.Helper()
	item := catalogitem.New(1, code, "ITEM "+code, "UN", kind, methodology)
	require.NoError(t, fx.items.CreateMany(testContext(), []catalogitem.Item{item}))
	return item
}

func (fx *pricingFixture) seedPrice(t *testing.T, item catalogitem.Item, region, price string, chargeType pricing.ChargeType) {
	t.Helper()
	d, err := decimal.NewFromString(price)
	require.NoError(t, err)
	require.NoError(t, fx.prices.CreateMany(testContext(), []pricing.Observation{
		pricing.New(item.ID(), region, d, "BRL", testValidity, chargeType),
	}))
}

func TestResolveExactRegion(t *testing.T) {
	fx := newPricingFixture()
	item := fx.seedItem(t, "88316", catalogitem.KindLabor, catalogitem.MethodologyUnitary)
	fx.seedPrice(t, item, "BA", "35.00", pricing.ChargeDesonerado)

	resolved, err := fx.service.Resolve(testContext(), item.ID(), "BA", pricing.ChargeDesonerado)
	require.NoError(t, err)
	require.Equal(t, "BA", resolved.Region)
	require.False(t, resolved.Fallback)
	require.True(t, resolved.Observation.Price().Equal(decimal.NewFromFloat(35.00)))
}

func TestResolveFallbackChain(t *testing.T) {
	fx := newPricingFixture()
	item := fx.seedItem(t, "88316", catalogitem.KindLabor, catalogitem.MethodologyUnitary)
	fx.seedPrice(t, item, "SP", "21.00", pricing.ChargeDesonerado)
	fx.seedPrice(t, item, "BA", "19.00", pricing.ChargeDesonerado)

	// RJ misses, RS misses, SP hits.
	resolved, err := fx.service.Resolve(testContext(), item.ID(), "RJ", pricing.ChargeDesonerado)
	require.NoError(t, err)
	require.Equal(t, "SP", resolved.Region)
	require.True(t, resolved.Fallback)
	require.Equal(t, "21", resolved.Observation.Price().String())
}

func TestResolveFirstAvailableWhenChainMisses(t *testing.T) {
	fx := newPricingFixture()
	item := fx.seedItem(t, "4011", catalogitem.KindMaterial, catalogitem.MethodologyUnitary)
	fx.seedPrice(t, item, "BA", "0.75", pricing.ChargeDesonerado)

	resolved, err := fx.service.Resolve(testContext(), item.ID(), "RJ", pricing.ChargeDesonerado)
	require.NoError(t, err)
	require.Equal(t, "BA", resolved.Region)
	require.True(t, resolved.Fallback)
}

func TestResolveChargeTypeFilter(t *testing.T) {
	fx := newPricingFixture()
	item := fx.seedItem(t, "88316", catalogitem.KindLabor, catalogitem.MethodologyUnitary)
	fx.seedPrice(t, item, "RS", "18.50", pricing.ChargeDesonerado)
	fx.seedPrice(t, item, "RS", "21.40", pricing.ChargeNaoDesonerado)

	resolved, err := fx.service.Resolve(testContext(), item.ID(), "RS", pricing.ChargeNaoDesonerado)
	require.NoError(t, err)
	require.Equal(t, "21.4", resolved.Observation.Price().String())
}

func TestResolveNoPriceAnywhere(t *testing.T) {
	fx := newPricingFixture()
	item := fx.seedItem(t, "7777", catalogitem.KindMaterial, catalogitem.MethodologyUnitary)

	_, err := fx.service.Resolve(testContext(), item.ID(), "RS", pricing.ChargeDesonerado)
	require.ErrorIs(t, err, ErrPriceNotFound)
}

func TestCostCompositionUnitary(t *testing.T) {
	fx := newPricingFixture()
	ctx := testContext()

	parent := fx.seedItem(t, "87702", catalogitem.KindService, catalogitem.MethodologyUnitary)
	labor := fx.seedItem(t, "88316", catalogitem.KindLabor, catalogitem.MethodologyUnitary)
	cement := fx.seedItem(t, "4011", catalogitem.KindMaterial, catalogitem.MethodologyUnitary)
	fx.seedPrice(t, labor, "RS", "18.50", pricing.ChargeDesonerado)
	fx.seedPrice(t, cement, "RS", "0.75", pricing.ChargeDesonerado)

	require.NoError(t, fx.compositions.CreateLinks(ctx, []composition.Link{
		{ParentItemID: parent.ID(), ChildItemID: labor.ID(), Coefficient: decimal.RequireFromString("0.68")},
		{ParentItemID: parent.ID(), ChildItemID: cement.ID(), Coefficient: decimal.RequireFromString("1.25")},
	}))

	cost, err := fx.service.CostComposition(ctx, parent.ID(), "RS", pricing.ChargeDesonerado)
	require.NoError(t, err)
	require.Len(t, cost.Lines, 2)

	// 0.68 * 18.50 + 1.25 * 0.75
	expected := decimal.RequireFromString("12.58").Add(decimal.RequireFromString("0.9375"))
	require.True(t, cost.Total.Equal(expected), "got %s", cost.Total)
}

func TestCostCompositionMissingChildPriceEntersAsZero(t *testing.T) {
	fx := newPricingFixture()
	ctx := testContext()

	parent := fx.seedItem(t, "87702", catalogitem.KindService, catalogitem.MethodologyUnitary)
	labor := fx.seedItem(t, "88316", catalogitem.KindLabor, catalogitem.MethodologyUnitary)
	unpriced := fx.seedItem(t, "9999", catalogitem.KindMaterial, catalogitem.MethodologyUnitary)
	fx.seedPrice(t, labor, "RS", "10.00", pricing.ChargeDesonerado)

	require.NoError(t, fx.compositions.CreateLinks(ctx, []composition.Link{
		{ParentItemID: parent.ID(), ChildItemID: labor.ID(), Coefficient: decimal.NewFromInt(2)},
		{ParentItemID: parent.ID(), ChildItemID: unpriced.ID(), Coefficient: decimal.NewFromInt(5)},
	}))

	cost, err := fx.service.CostComposition(ctx, parent.ID(), "RS", pricing.ChargeDesonerado)
	require.NoError(t, err)
	require.True(t, cost.Total.Equal(decimal.NewFromInt(20)), "got %s", cost.Total)
}

func TestCostCompositionProduction(t *testing.T) {
	fx := newPricingFixture()
	ctx := testContext()

	parent := fx.seedItem(t, "4011210", catalogitem.KindComposition, catalogitem.MethodologyProduction)
	excavator := fx.seedItem(t, "E9511", catalogitem.KindEquipment, catalogitem.MethodologyUnitary)
	worker := fx.seedItem(t, "P9824", catalogitem.KindLabor, catalogitem.MethodologyUnitary)
	sand := fx.seedItem(t, "M0301", catalogitem.KindMaterial, catalogitem.MethodologyUnitary)
	fx.seedPrice(t, excavator, "RS", "100.00", pricing.ChargeNaoDesonerado)
	fx.seedPrice(t, worker, "RS", "20.00", pricing.ChargeNaoDesonerado)
	fx.seedPrice(t, sand, "RS", "10.00", pricing.ChargeNaoDesonerado)

	require.NoError(t, fx.compositions.CreateTeamMembers(ctx, []composition.TeamMember{
		{CompositionItemID: parent.ID(), MemberItemID: excavator.ID(), Quantity: decimal.NewFromInt(1)},
		{CompositionItemID: parent.ID(), MemberItemID: worker.ID(), Quantity: decimal.NewFromInt(2)},
	}))
	require.NoError(t, fx.compositions.CreateLinks(ctx, []composition.Link{
		{ParentItemID: parent.ID(), ChildItemID: sand.ID(), Coefficient: decimal.RequireFromString("0.25")},
	}))
	require.NoError(t, fx.compositions.CreateProductionRates(ctx, []composition.ProductionRate{
		{ItemID: parent.ID(), HourlyRate: decimal.NewFromInt(85), Unit: "m³", Scenario: "DEFAULT"},
	}))

	cost, err := fx.service.CostComposition(ctx, parent.ID(), "RS", pricing.ChargeNaoDesonerado)
	require.NoError(t, err)

	// Crew: 1*100 + 2*20 = 140 per hour; output 85/h; material 0.25*10.
	crew := decimal.NewFromInt(140)
	expected := decimal.RequireFromString("2.5").Add(crew.Div(decimal.NewFromInt(85)))
	require.True(t, cost.CrewHourly.Equal(crew))
	require.True(t, cost.Total.Equal(expected), "got %s", cost.Total)
}
