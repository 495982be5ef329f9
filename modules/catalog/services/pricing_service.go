package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/domain/aggregates/catalogitem"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/domain/aggregates/pricing"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/domain/entities/composition"
	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/configuration"
	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/serrors"
)

var ErrPriceNotFound = serrors.NewError(
	"PRICE_NOT_FOUND",
	"no active price observation for the item in any region",
	"",
)

// ResolvedPrice is the outcome of the regional fallback chain. Region tells
// which region actually supplied the price; Fallback is true when it is not
// the one the caller asked for.
type ResolvedPrice struct {
	Observation pricing.Observation
	Region      string
	Fallback    bool
}

// PricingService answers "what does this item cost" under the configured
// regional fallback policy: requested region first, then the primary and
// secondary fallback regions, then whatever region has a price at all. The
// official catalogs have uneven regional coverage, so a hard miss on the
// requested region is the norm, not the exception.
type PricingService struct {
	items        catalogitem.Repository
	prices       pricing.Repository
	compositions composition.Repository
	conf         configuration.PricingOptions
}

func NewPricingService(
	items catalogitem.Repository,
	prices pricing.Repository,
	compositions composition.Repository,
	conf configuration.PricingOptions,
) *PricingService {
	return &PricingService{items: items, prices: prices, compositions: compositions, conf: conf}
}

func (s *PricingService) Resolve(ctx context.Context, itemID uuid.UUID, region string, chargeType pricing.ChargeType) (ResolvedPrice, error) {
	observations, err := s.prices.ActiveByItem(ctx, itemID)
	if err != nil {
		return ResolvedPrice{}, err
	}
	return s.pick(observations, region, chargeType)
}

// ResolveMany resolves prices for a batch of items in one round trip.
// Items with no price anywhere are absent from the result.
func (s *PricingService) ResolveMany(ctx context.Context, itemIDs []uuid.UUID, region string, chargeType pricing.ChargeType) (map[uuid.UUID]ResolvedPrice, error) {
	byItem, err := s.prices.ActiveByItems(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]ResolvedPrice, len(byItem))
	for itemID, observations := range byItem {
		resolved, err := s.pick(observations, region, chargeType)
		if err != nil {
			continue
		}
		out[itemID] = resolved
	}
	return out, nil
}

// pick assumes observations are sorted most recent first, so the first hit
// per region is the latest one.
func (s *PricingService) pick(observations []pricing.Observation, region string, chargeType pricing.ChargeType) (ResolvedPrice, error) {
	matching := observations[:0:0]
	for _, o := range observations {
		if chargeType != "" && o.ChargeType() != chargeType {
			continue
		}
		matching = append(matching, o)
	}
	if len(matching) == 0 {
		return ResolvedPrice{}, ErrPriceNotFound
	}

	for _, candidate := range s.regionChain(region) {
		for _, o := range matching {
			if o.Region() == candidate {
				return ResolvedPrice{Observation: o, Region: candidate, Fallback: candidate != region}, nil
			}
		}
	}
	first := matching[0]
	return ResolvedPrice{Observation: first, Region: first.Region(), Fallback: first.Region() != region}, nil
}

func (s *PricingService) regionChain(region string) []string {
	chain := make([]string, 0, 3)
	for _, r := range []string{region, s.conf.PrimaryRegion, s.conf.SecondaryRegion} {
		if r == "" || contains(chain, r) {
			continue
		}
		chain = append(chain, r)
	}
	return chain
}

// CompositionLine is one priced ingredient of a composition breakdown.
type CompositionLine struct {
	Item        catalogitem.Item
	Coefficient decimal.Decimal
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
	Region      string
}

// CompositionCost is a composition's full priced breakdown.
type CompositionCost struct {
	Item       catalogitem.Item
	Lines      []CompositionLine
	Team       []CompositionLine
	CrewHourly decimal.Decimal
	Production decimal.Decimal
	Total      decimal.Decimal
}

// CostComposition prices a composition one level deep. Unitary compositions
// cost the weighted sum of their ingredient links; production compositions
// (SICRO) add the hourly crew cost divided by the production rate. Children
// without a resolvable price enter the sum at zero rather than failing the
// whole breakdown.
func (s *PricingService) CostComposition(ctx context.Context, itemID uuid.UUID, region string, chargeType pricing.ChargeType) (*CompositionCost, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	links, err := s.compositions.LinksByParent(ctx, itemID)
	if err != nil {
		return nil, err
	}

	var team []composition.TeamMember
	var rates []composition.ProductionRate
	if item.Methodology() == catalogitem.MethodologyProduction {
		if team, err = s.compositions.TeamByComposition(ctx, itemID); err != nil {
			return nil, err
		}
		if rates, err = s.compositions.ProductionByItem(ctx, itemID); err != nil {
			return nil, err
		}
	}

	childIDs := make([]uuid.UUID, 0, len(links)+len(team))
	for _, link := range links {
		childIDs = append(childIDs, link.ChildItemID)
	}
	for _, member := range team {
		childIDs = append(childIDs, member.MemberItemID)
	}
	resolved, err := s.ResolveMany(ctx, childIDs, region, chargeType)
	if err != nil {
		return nil, err
	}

	cost := &CompositionCost{Item: item}
	for _, link := range links {
		line := s.buildLine(ctx, link.ChildItemID, link.Coefficient, resolved)
		cost.Lines = append(cost.Lines, line)
		cost.Total = cost.Total.Add(line.Total)
	}
	for _, member := range team {
		line := s.buildLine(ctx, member.MemberItemID, member.Quantity, resolved)
		cost.Team = append(cost.Team, line)
		cost.CrewHourly = cost.CrewHourly.Add(line.Total)
	}
	if len(rates) > 0 {
		cost.Production = rates[0].HourlyRate
		if cost.Production.IsPositive() {
			cost.Total = cost.Total.Add(cost.CrewHourly.Div(cost.Production))
		}
	}
	return cost, nil
}

func (s *PricingService) buildLine(ctx context.Context, childID uuid.UUID, quantity decimal.Decimal, resolved map[uuid.UUID]ResolvedPrice) CompositionLine {
	line := CompositionLine{Coefficient: quantity}
	if child, err := s.items.GetByID(ctx, childID); err == nil {
		line.Item = child
	}
	if price, ok := resolved[childID]; ok {
		line.UnitPrice = price.Observation.Price()
		line.Region = price.Region
	}
	line.Total = quantity.Mul(line.UnitPrice)
	return line
}

func contains(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
