package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/domain/aggregates/catalogitem"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/domain/entities/composition"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/infrastructure/intake"
	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/composables"
	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/metrics"
)

// ImportSICROAnalytic deep-parses a SICRO analytic cost report: per
// composition it rebuilds the crew, ingredient links and production rate.
// The whole run is one transaction; if any composition ends up without a
// single material link the import is considered truncated and rolls back.
func (s *ImportService) ImportSICROAnalytic(ctx context.Context, cmd *ImportCommand) (*ImportResult, error) {
	progress(cmd, 2, "lendo relatório analítico")

	wb, err := intake.OpenWorkbook(cmd.Filename, cmd.Data)
	if err != nil {
		metrics.ImportFailures.WithLabelValues(SourceSICRO).Inc()
		return nil, err
	}
	defer wb.Close()

	sheets := wb.SheetNames()
	if len(sheets) == 0 {
		metrics.ImportFailures.WithLabelValues(SourceSICRO).Inc()
		return nil, intake.ErrNoCatalogSheets
	}
	rows, err := wb.Rows(sheets[0])
	if err != nil {
		metrics.ImportFailures.WithLabelValues(SourceSICRO).Inc()
		return nil, err
	}

	src, err := s.ensureSource(ctx, SourceSICRO)
	if err != nil {
		metrics.ImportFailures.WithLabelValues(SourceSICRO).Inc()
		return nil, err
	}

	codeIndex, err := s.items.CodeIndex(ctx, src.ID())
	if err != nil {
		metrics.ImportFailures.WithLabelValues(SourceSICRO).Inc()
		return nil, err
	}
	// The analytic report pads codes with leading zeros; the synthetic
	// catalog does not. Resolution always goes through normalized codes.
	index := make(map[string]uuid.UUID, len(codeIndex))
	for code, id := range codeIndex {
		index[catalogitem.NormalizeCode(code)] = id
	}

	release := s.acquireLock()
	defer release()

	result := &ImportResult{Source: SourceSICRO, Month: cmd.Month, Year: cmd.Year}
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		run := &analyticRun{
			service: s,
			index:   index,
			src:     src.ID(),
			result:  result,
		}
		scanner := intake.NewCompositionScanner(func(code string) bool {
			_, ok := index[code]
			return ok
		})
		for _, row := range rows {
			for _, event := range scanner.Next(row) {
				if err := run.handle(txCtx, event); err != nil {
					return err
				}
			}
		}
		if err := run.flush(txCtx); err != nil {
			return err
		}

		missing := 0
		for id := range run.processed {
			if _, ok := run.withMaterials[id]; !ok {
				missing++
			}
		}
		if missing > 0 {
			return ErrIncompleteAnalytic.WithMessage(
				fmt.Sprintf("%d of %d compositions have no material links", missing, len(run.processed)),
			)
		}
		progress(cmd, 95, fmt.Sprintf("%d composições processadas", len(run.processed)))
		return nil
	})
	if err != nil {
		metrics.ImportFailures.WithLabelValues(SourceSICRO).Inc()
		return nil, err
	}

	s.publisher.Publish(&ImportCompletedEvent{Result: *result})
	progress(cmd, 100, "importação analítica concluída")
	return result, nil
}

// analyticRun buffers one composition block at a time and flushes it when
// the next block opens. Buffering per block keeps a repeated composition in
// the file correct: its re-parse deletes what the first pass inserted.
type analyticRun struct {
	service *ImportService
	index   map[string]uuid.UUID
	src     int32
	result  *ImportResult

	current       uuid.UUID
	members       map[uuid.UUID]struct{}
	newItems      []catalogitem.Item
	links         []composition.Link
	team          []composition.TeamMember
	rates         []composition.ProductionRate
	processed     map[uuid.UUID]struct{}
	withMaterials map[uuid.UUID]struct{}
}

func (r *analyticRun) handle(ctx context.Context, event intake.Event) error {
	switch e := event.(type) {
	case intake.StartComposition:
		if err := r.flush(ctx); err != nil {
			return err
		}
		id := r.index[catalogitem.NormalizeCode(e.Code)]
		r.current = id
		r.members = map[uuid.UUID]struct{}{}
		if r.processed == nil {
			r.processed = map[uuid.UUID]struct{}{}
			r.withMaterials = map[uuid.UUID]struct{}{}
		}
		r.processed[id] = struct{}{}
		return r.service.compositions.DeleteByComposition(ctx, id)

	case intake.ProductionRate:
		r.rates = append(r.rates, composition.ProductionRate{
			ItemID:     r.current,
			HourlyRate: e.Rate,
			Unit:       e.Unit,
			Scenario:   "DEFAULT",
		})

	case intake.MemberRow:
		childID, ok := r.index[catalogitem.NormalizeCode(e.Code)]
		if !ok {
			if e.Description == "" {
				metrics.SkippedRows.WithLabelValues(SourceSICRO, "unknown_member").Inc()
				return nil
			}
			item := catalogitem.New(r.src, e.Code, e.Description, e.Unit, sectionKind(e.Section), catalogitem.MethodologyUnitary)
			childID = item.ID()
			r.index[catalogitem.NormalizeCode(e.Code)] = childID
			r.newItems = append(r.newItems, item)
		}
		if _, dup := r.members[childID]; dup {
			return nil
		}
		r.members[childID] = struct{}{}

		if e.Section == intake.SectionMaterial {
			r.links = append(r.links, composition.Link{
				ParentItemID: r.current,
				ChildItemID:  childID,
				Coefficient:  e.Quantity,
			})
			r.withMaterials[r.current] = struct{}{}
		} else {
			r.team = append(r.team, composition.TeamMember{
				CompositionItemID: r.current,
				MemberItemID:      childID,
				Quantity:          e.Quantity,
			})
		}
	}
	return nil
}

func (r *analyticRun) flush(ctx context.Context) error {
	if r.current == uuid.Nil {
		return nil
	}
	if err := r.service.items.CreateMany(ctx, r.newItems); err != nil {
		return err
	}
	if err := r.service.compositions.CreateTeamMembers(ctx, r.team); err != nil {
		return err
	}
	if err := r.service.compositions.CreateLinks(ctx, r.links); err != nil {
		return err
	}
	if err := r.service.compositions.CreateProductionRates(ctx, r.rates); err != nil {
		return err
	}
	r.result.Items += len(r.newItems)
	r.result.Links += len(r.links)

	r.current = uuid.Nil
	r.newItems = nil
	r.links = nil
	r.team = nil
	r.rates = nil
	return nil
}

func sectionKind(section intake.MemberSection) catalogitem.Kind {
	switch section {
	case intake.SectionEquipment:
		return catalogitem.KindEquipment
	case intake.SectionLabor:
		return catalogitem.KindLabor
	default:
		return catalogitem.KindMaterial
	}
}
