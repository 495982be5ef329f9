package services

import (
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/budget/domain/aggregates/budgetitem"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/budget/domain/entities/bdi"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/domain/aggregates/catalogitem"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/domain/aggregates/pricing"
	catalogservices "github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/services"
	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/configuration"
	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/eventbus"
)

type budgetFixture struct {
	service *BudgetService
	items   *budgetItemRepoMock
	configs *bdiRepoMock
	catalog *catalogItemRepoMock
	prices  *priceRepoMock
}

func newBudgetFixture() *budgetFixture {
	conf := configuration.PricingOptions{PrimaryRegion: "RS", SecondaryRegion: "SP", Currency: "BRL"}
	items := newBudgetItemRepoMock()
	configs := newBDIRepoMock()
	catalog := newCatalogItemRepoMock()
	prices := newPriceRepoMock()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	pricingService := catalogservices.NewPricingService(catalog, prices, compositionRepoMock{}, conf)
	return &budgetFixture{
		service: NewBudgetService(
			items, configs, catalog, pricingService,
			eventbus.NewEventPublisher(logger), logger, conf,
		),
		items:   items,
		configs: configs,
		catalog: catalog,
		prices:  prices,
	}
}

func (f *budgetFixture) seedReference(t *testing.T, price string) catalogitem.Item {
	t.Helper()
	item := catalogitem.New(1, "90001", "CONCRETO USINADO", "M3", catalogitem.KindMaterial, catalogitem.MethodologyUnitary)
	require.NoError(t, f.catalog.CreateMany(testContext(), []catalogitem.Item{item}))
	if price != "" {
		validity := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
		observation := pricing.New(item.ID(), "RS", decimal.RequireFromString(price), "BRL", validity, pricing.ChargeDesonerado)
		require.NoError(t, f.prices.CreateMany(testContext(), []pricing.Observation{observation}))
	}
	return item
}

func TestAddItemSnapshotsResolvedPrice(t *testing.T) {
	f := newBudgetFixture()
	reference := f.seedReference(t, "18.50")
	referenceID := reference.ID()

	item, err := f.service.AddItem(testContext(), &AddItemCommand{
		BudgetID:        uuid.New(),
		ReferenceItemID: &referenceID,
		Quantity:        decimal.NewFromInt(3),
	})
	require.NoError(t, err)
	require.True(t, item.UnitPrice().Equal(decimal.RequireFromString("18.50")), "got %s", item.UnitPrice())

	stored, err := f.items.GetByID(testContext(), item.ID())
	require.NoError(t, err)
	require.True(t, stored.UnitPrice().Equal(decimal.RequireFromString("18.50")))
}

func TestAddItemKeepsExplicitPrice(t *testing.T) {
	f := newBudgetFixture()
	reference := f.seedReference(t, "18.50")
	referenceID := reference.ID()

	item, err := f.service.AddItem(testContext(), &AddItemCommand{
		BudgetID:        uuid.New(),
		ReferenceItemID: &referenceID,
		Quantity:        decimal.NewFromInt(1),
		UnitPrice:       decimal.RequireFromString("99.90"),
	})
	require.NoError(t, err)
	require.True(t, item.UnitPrice().Equal(decimal.RequireFromString("99.90")))
}

func TestAddItemWithoutResolvablePriceEntersAtZero(t *testing.T) {
	f := newBudgetFixture()
	reference := f.seedReference(t, "")
	referenceID := reference.ID()

	item, err := f.service.AddItem(testContext(), &AddItemCommand{
		BudgetID:        uuid.New(),
		ReferenceItemID: &referenceID,
		Quantity:        decimal.NewFromInt(1),
	})
	require.NoError(t, err)
	require.True(t, item.UnitPrice().IsZero())
}

func TestAddItemUnknownReference(t *testing.T) {
	f := newBudgetFixture()
	missing := uuid.New()

	_, err := f.service.AddItem(testContext(), &AddItemCommand{
		BudgetID:        uuid.New(),
		ReferenceItemID: &missing,
		Quantity:        decimal.NewFromInt(1),
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, catalogitem.ErrNotFound))
}

func TestRemoveItemOfAnotherBudget(t *testing.T) {
	f := newBudgetFixture()
	item, err := f.service.AddItem(testContext(), &AddItemCommand{
		BudgetID: uuid.New(),
		Quantity: decimal.NewFromInt(1),
	})
	require.NoError(t, err)

	err = f.service.RemoveItem(testContext(), uuid.New(), item.ID())
	require.True(t, errors.Is(err, budgetitem.ErrNotFound))
}

func TestUpdateBDIBroadcastsPercent(t *testing.T) {
	f := newBudgetFixture()
	budgetID := uuid.New()
	for i := 0; i < 2; i++ {
		_, err := f.service.AddItem(testContext(), &AddItemCommand{
			BudgetID:  budgetID,
			Quantity:  decimal.NewFromInt(1),
			UnitPrice: decimal.NewFromInt(100),
		})
		require.NoError(t, err)
	}
	other, err := f.service.AddItem(testContext(), &AddItemCommand{
		BudgetID:  uuid.New(),
		Quantity:  decimal.NewFromInt(1),
		UnitPrice: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	percent, err := f.service.UpdateBDI(testContext(), budgetID, bdi.DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, "30.7", percent.String())

	items, err := f.service.Items(testContext(), budgetID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		require.True(t, item.BDIApplied().Equal(percent))
	}

	untouched, err := f.items.GetByID(testContext(), other.ID())
	require.NoError(t, err)
	require.True(t, untouched.BDIApplied().IsZero())

	saved, err := f.configs.GetByBudget(testContext(), budgetID)
	require.NoError(t, err)
	require.Equal(t, "30.7", saved.RatePercent().String())
}

func TestBDIConfigFallsBackToDefaults(t *testing.T) {
	f := newBudgetFixture()

	config, err := f.service.BDIConfig(testContext(), uuid.New())
	require.NoError(t, err)
	require.True(t, config.Administration.Equal(decimal.RequireFromString("0.03")))
}

func TestRenumberBudgetAppliesLabels(t *testing.T) {
	f := newBudgetFixture()
	budgetID := uuid.New()
	second, err := f.service.AddItem(testContext(), &AddItemCommand{
		BudgetID: budgetID, Numbering: "20", Quantity: decimal.NewFromInt(1),
	})
	require.NoError(t, err)
	first, err := f.service.AddItem(testContext(), &AddItemCommand{
		BudgetID: budgetID, Numbering: "10", Quantity: decimal.NewFromInt(1),
	})
	require.NoError(t, err)

	count, err := f.service.RenumberBudget(testContext(), budgetID)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	relabeled, err := f.items.GetByID(testContext(), first.ID())
	require.NoError(t, err)
	require.Equal(t, "1", relabeled.Numbering())
	relabeled, err = f.items.GetByID(testContext(), second.ID())
	require.NoError(t, err)
	require.Equal(t, "2", relabeled.Numbering())
}
