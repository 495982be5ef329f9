package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/budget/domain/aggregates/budgetitem"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/budget/domain/entities/bdi"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/domain/aggregates/catalogitem"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/domain/aggregates/pricing"
	catalogservices "github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/services"
	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/composables"
	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/configuration"
	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/eventbus"
)

// AddItemCommand creates one budget line. A zero UnitPrice together with a
// ReferenceItemID triggers a price snapshot through the resolver.
type AddItemCommand struct {
	BudgetID          uuid.UUID
	ReferenceItemID   *uuid.UUID
	CustomCode        string
	CustomDescription string
	ParentID          *uuid.UUID
	Numbering         string
	ItemType          budgetitem.Type
	Quantity          decimal.Decimal
	UnitPrice         decimal.Decimal
	BDIApplied        decimal.Decimal
}

// BDIUpdatedEvent is published after a markup recalculation was broadcast
// onto a budget's lines.
type BDIUpdatedEvent struct {
	BudgetID    uuid.UUID
	RatePercent decimal.Decimal
}

type BudgetService struct {
	items     budgetitem.Repository
	configs   bdi.Repository
	catalog   catalogitem.Repository
	pricing   *catalogservices.PricingService
	publisher eventbus.EventBus
	logger    *logrus.Logger
	conf      configuration.PricingOptions
}

func NewBudgetService(
	items budgetitem.Repository,
	configs bdi.Repository,
	catalog catalogitem.Repository,
	pricingService *catalogservices.PricingService,
	publisher eventbus.EventBus,
	logger *logrus.Logger,
	conf configuration.PricingOptions,
) *BudgetService {
	return &BudgetService{
		items:     items,
		configs:   configs,
		catalog:   catalog,
		pricing:   pricingService,
		publisher: publisher,
		logger:    logger,
		conf:      conf,
	}
}

// AddItem persists a new budget line. When the line references a catalog item
// and carries no price, the current resolved price is snapshotted; a line
// without any resolvable price enters at zero rather than failing.
func (s *BudgetService) AddItem(ctx context.Context, cmd *AddItemCommand) (budgetitem.Item, error) {
	unitPrice := cmd.UnitPrice
	if cmd.ReferenceItemID != nil {
		if _, err := s.catalog.GetByID(ctx, *cmd.ReferenceItemID); err != nil {
			return budgetitem.Item{}, errors.Wrap(err, "reference item lookup failed")
		}
		if unitPrice.IsZero() {
			resolved, err := s.pricing.Resolve(ctx, *cmd.ReferenceItemID, s.conf.PrimaryRegion, pricing.ChargeDesonerado)
			switch {
			case err == nil:
				unitPrice = resolved.Observation.Price()
			case errors.Is(err, catalogservices.ErrPriceNotFound):
				s.logger.WithField("reference_item_id", cmd.ReferenceItemID).
					Warn("no resolvable price for budget line, snapshotting zero")
			default:
				return budgetitem.Item{}, errors.Wrap(err, "price snapshot failed")
			}
		}
	}

	item := budgetitem.New(
		cmd.BudgetID,
		cmd.ReferenceItemID,
		cmd.CustomCode,
		cmd.CustomDescription,
		cmd.ParentID,
		cmd.Numbering,
		cmd.ItemType,
		cmd.Quantity,
		unitPrice,
		cmd.BDIApplied,
	)
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		return s.items.Create(txCtx, item)
	})
	if err != nil {
		return budgetitem.Item{}, errors.Wrap(err, "failed to create budget item")
	}
	return item, nil
}

func (s *BudgetService) RemoveItem(ctx context.Context, budgetID, itemID uuid.UUID) error {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item.BudgetID() != budgetID {
		return budgetitem.ErrNotFound
	}
	return composables.InTx(ctx, func(txCtx context.Context) error {
		return s.items.Delete(txCtx, itemID)
	})
}

func (s *BudgetService) Items(ctx context.Context, budgetID uuid.UUID) ([]budgetitem.Item, error) {
	return s.items.ByBudget(ctx, budgetID)
}

// Structure returns the budget's WBS tree with rolled-up totals.
func (s *BudgetService) Structure(ctx context.Context, budgetID uuid.UUID) ([]*StructureNode, error) {
	items, err := s.items.ByBudget(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	return BuildStructure(items), nil
}

// RenumberBudget recomputes dotted-decimal labels for the whole budget and
// applies them in one bulk update. Returns how many items were relabeled.
func (s *BudgetService) RenumberBudget(ctx context.Context, budgetID uuid.UUID) (int, error) {
	items, err := s.items.ByBudget(ctx, budgetID)
	if err != nil {
		return 0, err
	}
	updates := Renumber(items)
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		return s.items.UpdateNumbering(txCtx, budgetID, updates)
	})
	if err != nil {
		return 0, errors.Wrap(err, "failed to apply renumbering")
	}
	return len(updates), nil
}

// BDIConfig returns the budget's markup configuration, falling back to the
// reference defaults when none was saved yet.
func (s *BudgetService) BDIConfig(ctx context.Context, budgetID uuid.UUID) (bdi.Config, error) {
	config, err := s.configs.GetByBudget(ctx, budgetID)
	if errors.Is(err, bdi.ErrNotFound) {
		return bdi.DefaultConfig(), nil
	}
	return config, err
}

// UpdateBDI saves the markup configuration, recomputes the rate and
// broadcasts it as the applied percentage onto every line of the budget.
func (s *BudgetService) UpdateBDI(ctx context.Context, budgetID uuid.UUID, config bdi.Config) (decimal.Decimal, error) {
	percent := config.RatePercent()
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		if err := s.configs.Save(txCtx, budgetID, config); err != nil {
			return err
		}
		affected, err := s.items.ApplyBDI(txCtx, budgetID, percent)
		if err != nil {
			return err
		}
		s.logger.WithFields(logrus.Fields{
			"budget_id": budgetID, "rate_percent": percent.String(), "items": affected,
		}).Info("bdi broadcast onto budget lines")
		return nil
	})
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "failed to update bdi configuration")
	}
	s.publisher.Publish(&BDIUpdatedEvent{BudgetID: budgetID, RatePercent: percent})
	return percent, nil
}
