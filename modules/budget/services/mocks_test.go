package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/budget/domain/aggregates/budgetitem"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/budget/domain/entities/bdi"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/domain/aggregates/catalogitem"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/domain/aggregates/pricing"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/domain/entities/composition"
	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/composables"
)

type stubTx struct{ pgx.Tx }

func testContext() context.Context {
	return composables.WithTx(context.Background(), stubTx{})
}

type budgetItemRepoMock struct {
	mu    sync.Mutex
	items map[uuid.UUID]budgetitem.Item
}

func newBudgetItemRepoMock() *budgetItemRepoMock {
	return &budgetItemRepoMock{items: map[uuid.UUID]budgetitem.Item{}}
}

func (m *budgetItemRepoMock) GetByID(_ context.Context, id uuid.UUID) (budgetitem.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return budgetitem.Item{}, budgetitem.ErrNotFound
	}
	return item, nil
}

func (m *budgetItemRepoMock) ByBudget(_ context.Context, budgetID uuid.UUID) ([]budgetitem.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []budgetitem.Item
	for _, item := range m.items {
		if item.BudgetID() == budgetID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *budgetItemRepoMock) Create(_ context.Context, item budgetitem.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ID()] = item
	return nil
}

func (m *budgetItemRepoMock) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

func (m *budgetItemRepoMock) UpdateNumbering(_ context.Context, budgetID uuid.UUID, numbering map[uuid.UUID]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, label := range numbering {
		item, ok := m.items[id]
		if !ok || item.BudgetID() != budgetID {
			continue
		}
		m.items[id] = item.WithNumbering(label)
	}
	return nil
}

func (m *budgetItemRepoMock) ApplyBDI(_ context.Context, budgetID uuid.UUID, percent decimal.Decimal) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for id, item := range m.items {
		if item.BudgetID() != budgetID {
			continue
		}
		m.items[id] = item.WithBDI(percent)
		count++
	}
	return count, nil
}

type bdiRepoMock struct {
	mu      sync.Mutex
	configs map[uuid.UUID]bdi.Config
}

func newBDIRepoMock() *bdiRepoMock {
	return &bdiRepoMock{configs: map[uuid.UUID]bdi.Config{}}
}

func (m *bdiRepoMock) GetByBudget(_ context.Context, budgetID uuid.UUID) (bdi.Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	config, ok := m.configs[budgetID]
	if !ok {
		return bdi.Config{}, bdi.ErrNotFound
	}
	return config, nil
}

func (m *bdiRepoMock) Save(_ context.Context, budgetID uuid.UUID, config bdi.Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configs[budgetID] = config
	return nil
}

type catalogItemRepoMock struct {
	mu    sync.Mutex
	items map[uuid.UUID]catalogitem.Item
}

func newCatalogItemRepoMock() *catalogItemRepoMock {
	return &catalogItemRepoMock{items: map[uuid.UUID]catalogitem.Item{}}
}

func (m *catalogItemRepoMock) GetByID(_ context.Context, id uuid.UUID) (catalogitem.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return catalogitem.Item{}, catalogitem.ErrNotFound
	}
	return item, nil
}

func (m *catalogItemRepoMock) CodeIndex(_ context.Context, sourceID int32) (map[string]uuid.UUID, error) {
	return map[string]uuid.UUID{}, nil
}

func (m *catalogItemRepoMock) CreateMany(_ context.Context, items []catalogitem.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, item := range items {
		m.items[item.ID()] = item
	}
	return nil
}

func (m *catalogItemRepoMock) Find(_ context.Context, _ *catalogitem.FindParams) ([]catalogitem.Item, error) {
	return nil, nil
}

type priceRepoMock struct {
	mu           sync.Mutex
	observations map[uuid.UUID][]pricing.Observation
}

func newPriceRepoMock() *priceRepoMock {
	return &priceRepoMock{observations: map[uuid.UUID][]pricing.Observation{}}
}

func (m *priceRepoMock) CreateMany(_ context.Context, observations []pricing.Observation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range observations {
		m.observations[o.ItemID()] = append(m.observations[o.ItemID()], o)
	}
	return nil
}

func (m *priceRepoMock) ActiveKeys(_ context.Context, _ int32, _, _ int) (map[pricing.Key]struct{}, error) {
	return map[pricing.Key]struct{}{}, nil
}

func (m *priceRepoMock) DeactivateWindow(_ context.Context, _ int32, _, _ int, _ string, _ *uuid.UUID) (int64, error) {
	return 0, nil
}

func (m *priceRepoMock) ActiveByItem(_ context.Context, itemID uuid.UUID) ([]pricing.Observation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.observations[itemID], nil
}

func (m *priceRepoMock) ActiveByItems(_ context.Context, itemIDs []uuid.UUID) (map[uuid.UUID][]pricing.Observation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[uuid.UUID][]pricing.Observation{}
	for _, id := range itemIDs {
		if observations := m.observations[id]; len(observations) > 0 {
			out[id] = observations
		}
	}
	return out, nil
}

type compositionRepoMock struct{}

func (compositionRepoMock) DeleteLinksBySource(_ context.Context, _ int32) error { return nil }
func (compositionRepoMock) CreateLinks(_ context.Context, _ []composition.Link) error {
	return nil
}
func (compositionRepoMock) LinksByParent(_ context.Context, _ uuid.UUID) ([]composition.Link, error) {
	return nil, nil
}
func (compositionRepoMock) DeleteByComposition(_ context.Context, _ uuid.UUID) error { return nil }
func (compositionRepoMock) CreateTeamMembers(_ context.Context, _ []composition.TeamMember) error {
	return nil
}
func (compositionRepoMock) TeamByComposition(_ context.Context, _ uuid.UUID) ([]composition.TeamMember, error) {
	return nil, nil
}
func (compositionRepoMock) CreateProductionRates(_ context.Context, _ []composition.ProductionRate) error {
	return nil
}
func (compositionRepoMock) ProductionByItem(_ context.Context, _ uuid.UUID) ([]composition.ProductionRate, error) {
	return nil, nil
}
