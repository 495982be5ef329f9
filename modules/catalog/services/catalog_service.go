package services

import (
	"context"
	"sort"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/domain/aggregates/catalogitem"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/domain/aggregates/source"
)

const defaultSearchLimit = 50

// SearchParams filters a catalog search. Source narrows by publisher name
// ("SINAPI", "SICRO"); empty keeps all.
type SearchParams struct {
	Q      string
	Source string
	Kind   catalogitem.Kind
	Limit  int
}

// CatalogService is the read side of the catalog: item lookup and ranked
// search. Candidate retrieval is a plain substring match in SQL; ranking is
// fuzzy so "concreto usinado" surfaces before rows that merely contain the
// words far apart.
type CatalogService struct {
	items   catalogitem.Repository
	sources source.Repository
}

func NewCatalogService(items catalogitem.Repository, sources source.Repository) *CatalogService {
	return &CatalogService{items: items, sources: sources}
}

func (s *CatalogService) GetItem(ctx context.Context, id uuid.UUID) (catalogitem.Item, error) {
	return s.items.GetByID(ctx, id)
}

func (s *CatalogService) Search(ctx context.Context, params *SearchParams) ([]catalogitem.Item, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	var sourceID int32
	if params.Source != "" {
		src, err := s.sources.GetByName(ctx, params.Source)
		if errors.Is(err, source.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		sourceID = src.ID()
	}

	// Over-fetch so fuzzy ranking has candidates to reorder.
	candidates, err := s.items.Find(ctx, &catalogitem.FindParams{
		SourceID: sourceID,
		Q:        params.Q,
		Kind:     params.Kind,
		Limit:    limit * 4,
	})
	if err != nil {
		return nil, err
	}

	type ranked struct {
		item catalogitem.Item
		rank int
	}
	rankedItems := make([]ranked, 0, len(candidates))
	for _, item := range candidates {
		rank := fuzzy.RankMatchNormalizedFold(params.Q, item.Description())
		if rank < 0 {
			// Code-only hits still belong in the result, after text matches.
			rank = int(^uint(0) >> 1)
		}
		rankedItems = append(rankedItems, ranked{item: item, rank: rank})
	}
	sort.SliceStable(rankedItems, func(i, j int) bool { return rankedItems[i].rank < rankedItems[j].rank })

	if len(rankedItems) > limit {
		rankedItems = rankedItems[:limit]
	}
	out := make([]catalogitem.Item, len(rankedItems))
	for i, r := range rankedItems {
		out[i] = r.item
	}
	return out, nil
}
