package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/domain/aggregates/catalogitem"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/domain/aggregates/pricing"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/domain/aggregates/source"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/domain/entities/composition"
	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/composables"
)

// stubTx satisfies the transaction presence check; the in-memory repos
// never touch the database.
type stubTx struct{ pgx.Tx }

func testContext() context.Context {
	return composables.WithTx(context.Background(), stubTx{})
}

type sourceRepoMock struct {
	mu      sync.Mutex
	nextID  int32
	sources map[string]source.Source
}

func newSourceRepoMock() *sourceRepoMock {
	return &sourceRepoMock{sources: map[string]source.Source{}}
}

func (m *sourceRepoMock) GetByName(_ context.Context, name string) (source.Source, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sources[name]
	if !ok {
		return source.Source{}, source.ErrNotFound
	}
	return s, nil
}

func (m *sourceRepoMock) Create(_ context.Context, s source.Source) (source.Source, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	created := source.Hydrate(m.nextID, s.Name(), s.Description())
	m.sources[s.Name()] = created
	return created, nil
}

type itemRepoMock struct {
	mu    sync.Mutex
	items map[uuid.UUID]catalogitem.Item
}

func newItemRepoMock() *itemRepoMock {
	return &itemRepoMock{items: map[uuid.UUID]catalogitem.Item{}}
}

func (m *itemRepoMock) GetByID(_ context.Context, id uuid.UUID) (catalogitem.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return catalogitem.Item{}, catalogitem.ErrNotFound
	}
	return item, nil
}

func (m *itemRepoMock) CodeIndex(_ context.Context, sourceID int32) (map[string]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	index := map[string]uuid.UUID{}
	for id, item := range m.items {
		if item.SourceID() == sourceID {
			index[item.Code()] = id
		}
	}
	return index, nil
}

func (m *itemRepoMock) CreateMany(_ context.Context, items []catalogitem.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, item := range items {
		m.items[item.ID()] = item
	}
	return nil
}

func (m *itemRepoMock) Find(_ context.Context, params *catalogitem.FindParams) ([]catalogitem.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []catalogitem.Item
	for _, item := range m.items {
		if params.SourceID != 0 && item.SourceID() != params.SourceID {
			continue
		}
		if params.Kind != "" && item.Kind() != params.Kind {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

type priceRepoMock struct {
	mu           sync.Mutex
	nextID       int64
	observations []pricing.Observation
	itemSource   func(uuid.UUID) int32
}

func newPriceRepoMock(items *itemRepoMock) *priceRepoMock {
	return &priceRepoMock{itemSource: func(id uuid.UUID) int32 {
		items.mu.Lock()
		defer items.mu.Unlock()
		return items.items[id].SourceID()
	}}
}

func (m *priceRepoMock) CreateMany(_ context.Context, observations []pricing.Observation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range observations {
		m.nextID++
		m.observations = append(m.observations, pricing.Hydrate(
			m.nextID, o.ItemID(), o.Region(), o.Price(), o.Currency(),
			o.Validity(), o.ChargeType(), o.IsActive(), nil, nil,
		))
	}
	return nil
}

func (m *priceRepoMock) ActiveKeys(_ context.Context, sourceID int32, month, year int) (map[pricing.Key]struct{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := map[pricing.Key]struct{}{}
	for _, o := range m.observations {
		if !o.IsActive() || m.itemSource(o.ItemID()) != sourceID {
			continue
		}
		if int(o.Validity().Month()) != month || o.Validity().Year() != year {
			continue
		}
		keys[pricing.Key{ItemID: o.ItemID(), Region: o.Region(), ChargeType: o.ChargeType()}] = struct{}{}
	}
	return keys, nil
}

func (m *priceRepoMock) DeactivateWindow(_ context.Context, sourceID int32, month, year int, region string, by *uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for i, o := range m.observations {
		if !o.IsActive() || m.itemSource(o.ItemID()) != sourceID {
			continue
		}
		if int(o.Validity().Month()) != month || o.Validity().Year() != year {
			continue
		}
		if region != "" && o.Region() != region {
			continue
		}
		m.observations[i] = pricing.Hydrate(
			o.ID(), o.ItemID(), o.Region(), o.Price(), o.Currency(),
			o.Validity(), o.ChargeType(), false, nil, by,
		)
		count++
	}
	return count, nil
}

func (m *priceRepoMock) ActiveByItem(_ context.Context, itemID uuid.UUID) ([]pricing.Observation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []pricing.Observation
	for _, o := range m.observations {
		if o.IsActive() && o.ItemID() == itemID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *priceRepoMock) ActiveByItems(_ context.Context, itemIDs []uuid.UUID) (map[uuid.UUID][]pricing.Observation, error) {
	out := map[uuid.UUID][]pricing.Observation{}
	for _, id := range itemIDs {
		observations, _ := m.ActiveByItem(nil, id)
		if len(observations) > 0 {
			out[id] = observations
		}
	}
	return out, nil
}

func (m *priceRepoMock) activeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, o := range m.observations {
		if o.IsActive() {
			n++
		}
	}
	return n
}

type compositionRepoMock struct {
	mu         sync.Mutex
	links      []composition.Link
	team       []composition.TeamMember
	rates      []composition.ProductionRate
	itemSource func(uuid.UUID) int32
}

func newCompositionRepoMock(items *itemRepoMock) *compositionRepoMock {
	return &compositionRepoMock{itemSource: func(id uuid.UUID) int32 {
		items.mu.Lock()
		defer items.mu.Unlock()
		return items.items[id].SourceID()
	}}
}

func (m *compositionRepoMock) DeleteLinksBySource(_ context.Context, sourceID int32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.links[:0]
	for _, link := range m.links {
		if m.itemSource(link.ParentItemID) != sourceID {
			kept = append(kept, link)
		}
	}
	m.links = kept
	return nil
}

func (m *compositionRepoMock) CreateLinks(_ context.Context, links []composition.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, link := range links {
		dup := false
		for _, existing := range m.links {
			if existing.ParentItemID == link.ParentItemID && existing.ChildItemID == link.ChildItemID {
				dup = true
				break
			}
		}
		if !dup {
			m.links = append(m.links, link)
		}
	}
	return nil
}

func (m *compositionRepoMock) LinksByParent(_ context.Context, parentID uuid.UUID) ([]composition.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []composition.Link
	for _, link := range m.links {
		if link.ParentItemID == parentID {
			out = append(out, link)
		}
	}
	return out, nil
}

func (m *compositionRepoMock) DeleteByComposition(_ context.Context, compositionID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	links := m.links[:0]
	for _, link := range m.links {
		if link.ParentItemID != compositionID {
			links = append(links, link)
		}
	}
	m.links = links

	team := m.team[:0]
	for _, member := range m.team {
		if member.CompositionItemID != compositionID {
			team = append(team, member)
		}
	}
	m.team = team

	rates := m.rates[:0]
	for _, rate := range m.rates {
		if rate.ItemID != compositionID {
			rates = append(rates, rate)
		}
	}
	m.rates = rates
	return nil
}

func (m *compositionRepoMock) CreateTeamMembers(_ context.Context, members []composition.TeamMember) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.team = append(m.team, members...)
	return nil
}

func (m *compositionRepoMock) TeamByComposition(_ context.Context, compositionID uuid.UUID) ([]composition.TeamMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []composition.TeamMember
	for _, member := range m.team {
		if member.CompositionItemID == compositionID {
			out = append(out, member)
		}
	}
	return out, nil
}

func (m *compositionRepoMock) CreateProductionRates(_ context.Context, rates []composition.ProductionRate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rates = append(m.rates, rates...)
	return nil
}

func (m *compositionRepoMock) ProductionByItem(_ context.Context, itemID uuid.UUID) ([]composition.ProductionRate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []composition.ProductionRate
	for _, rate := range m.rates {
		if rate.ItemID == itemID {
			out = append(out, rate)
		}
	}
	return out, nil
}
