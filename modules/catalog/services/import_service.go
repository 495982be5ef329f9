package services

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/domain/aggregates/catalogitem"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/domain/aggregates/pricing"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/domain/aggregates/source"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/domain/entities/composition"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/infrastructure/intake"
	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/composables"
	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/configuration"
	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/eventbus"
	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/metrics"
	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/serrors"
)

const (
	SourceSINAPI = "SINAPI"
	SourceSICRO  = "SICRO"
)

var sourceDescriptions = map[string]string{
	SourceSINAPI: "Sistema Nacional de Pesquisa de Custos e Índices da Construção Civil",
	SourceSICRO:  "Sistema de Custos Referenciais de Obras - DNIT",
}

var ErrIncompleteAnalytic = serrors.NewError(
	"IMPORT_INCOMPLETE",
	"analytic import left compositions without material links",
	"re-run with the full analytic report; partial reports roll back entirely",
)

// ProgressFunc reports import progress as a 0-100 percentage.
type ProgressFunc func(percent int, message string)

// ImportCommand is one catalog file to ingest. Month and Year may be zero,
// in which case the period is read from the filename. Region narrows the
// import to one UF; "" or "ALL" keeps every region the file quotes.
type ImportCommand struct {
	Filename   string
	Data       []byte
	Region     string
	Month      int
	Year       int
	Replace    bool
	UserID     *uuid.UUID
	OnProgress ProgressFunc
}

// ImportResult summarizes a finished import.
type ImportResult struct {
	Source string
	Month  int
	Year   int
	Items  int
	Prices int
	Links  int
}

// ImportCompletedEvent is published after a successful import commit.
type ImportCompletedEvent struct {
	Result ImportResult
}

// ImportService drives catalog ingestion end to end: parse, identity
// resolution, deduplicated price inserts and link rebuilds. All writes run
// in bounded-size transactions so multi-hundred-thousand-row files never
// hold one transaction open for minutes.
type ImportService struct {
	sources      source.Repository
	items        catalogitem.Repository
	prices       pricing.Repository
	compositions composition.Repository
	publisher    eventbus.EventBus
	logger       *logrus.Logger
	importConf   configuration.ImportOptions
	currency     string
}

func NewImportService(
	sources source.Repository,
	items catalogitem.Repository,
	prices pricing.Repository,
	compositions composition.Repository,
	publisher eventbus.EventBus,
	logger *logrus.Logger,
	importConf configuration.ImportOptions,
	currency string,
) *ImportService {
	return &ImportService{
		sources:      sources,
		items:        items,
		prices:       prices,
		compositions: compositions,
		publisher:    publisher,
		logger:       logger,
		importConf:   importConf,
		currency:     currency,
	}
}

// ImportSINAPI ingests a SINAPI workbook (or zipped bundle): every
// classified composition/input sheet plus analytic link sheets.
func (s *ImportService) ImportSINAPI(ctx context.Context, cmd *ImportCommand) (*ImportResult, error) {
	progress(cmd, 2, "lendo arquivo")

	wb, err := intake.OpenWorkbook(cmd.Filename, cmd.Data)
	if err != nil {
		metrics.ImportFailures.WithLabelValues(SourceSINAPI).Inc()
		return nil, err
	}
	defer wb.Close()

	parsed, err := intake.ParseCatalog(wb, cmd.Region)
	if err != nil {
		metrics.ImportFailures.WithLabelValues(SourceSINAPI).Inc()
		return nil, err
	}
	if parsed.Skipped > 0 {
		metrics.SkippedRows.WithLabelValues(SourceSINAPI, "malformed_row").Add(float64(parsed.Skipped))
	}

	month, year, err := s.resolvePeriod(cmd, wb.Filename)
	if err != nil {
		metrics.ImportFailures.WithLabelValues(SourceSINAPI).Inc()
		return nil, err
	}
	progress(cmd, 10, fmt.Sprintf("arquivo lido, período %02d/%d", month, year))

	result, err := s.runImport(ctx, cmd, SourceSINAPI, month, year, func(ctx context.Context, st *importState) error {
		totalSheets := len(parsed.Sheets)
		for i, sheet := range parsed.Sheets {
			progress(cmd, 10+i*40/max(totalSheets, 1), fmt.Sprintf("processando aba %s (%d itens)", sheet.Name, len(sheet.Items)))

			if err := s.importSheet(ctx, st, sheet, month, year); err != nil {
				return err
			}
		}
		if len(parsed.Links) > 0 {
			progress(cmd, 90, fmt.Sprintf("processando %d vínculos analíticos", len(parsed.Links)))
			if err := s.rebuildLinks(ctx, st, parsed.Links); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		metrics.ImportFailures.WithLabelValues(SourceSINAPI).Inc()
		return nil, err
	}
	progress(cmd, 100, "importação concluída")
	return result, nil
}

// ImportSICRO ingests a SICRO synthetic cost report: single sheet, fixed
// column positions, one region.
func (s *ImportService) ImportSICRO(ctx context.Context, cmd *ImportCommand) (*ImportResult, error) {
	progress(cmd, 2, "lendo arquivo")

	wb, err := intake.OpenWorkbook(cmd.Filename, cmd.Data)
	if err != nil {
		metrics.ImportFailures.WithLabelValues(SourceSICRO).Inc()
		return nil, err
	}
	defer wb.Close()

	month, year, err := s.resolvePeriod(cmd, wb.Filename)
	if err != nil {
		metrics.ImportFailures.WithLabelValues(SourceSICRO).Inc()
		return nil, err
	}

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

	region := cmd.Region
	if region == "" || region == "ALL" {
		if region = intake.RegionFromFilename(wb.Filename); region == "" {
			region = "BR"
		}
	}

	sheet := syntheticSheet(rows, region)
	progress(cmd, 10, fmt.Sprintf("aba %s lida, período %02d/%d", sheets[0], month, year))

	result, err := s.runImport(ctx, cmd, SourceSICRO, month, year, func(ctx context.Context, st *importState) error {
		return s.importSheet(ctx, st, sheet, month, year)
	})
	if err != nil {
		metrics.ImportFailures.WithLabelValues(SourceSICRO).Inc()
		return nil, err
	}
	progress(cmd, 100, "importação concluída")
	return result, nil
}

// importState carries the caches shared by every batch of one import run.
type importState struct {
	source     source.Source
	codeIndex  map[string]uuid.UUID
	activeKeys map[pricing.Key]struct{}
	result     *ImportResult
}

func (s *ImportService) runImport(
	ctx context.Context,
	cmd *ImportCommand,
	sourceName string,
	month, year int,
	body func(ctx context.Context, st *importState) error,
) (*ImportResult, error) {
	src, err := s.ensureSource(ctx, sourceName)
	if err != nil {
		return nil, err
	}

	if cmd.Replace {
		region := cmd.Region
		if region == "ALL" {
			region = ""
		}
		err := composables.InTx(ctx, func(txCtx context.Context) error {
			n, err := s.prices.DeactivateWindow(txCtx, src.ID(), month, year, region, cmd.UserID)
			if err == nil && n > 0 {
				s.logger.WithFields(logrus.Fields{
					"source": sourceName, "month": month, "year": year, "deactivated": n,
				}).Info("deactivated previous price window")
			}
			return err
		})
		if err != nil {
			return nil, err
		}
	}

	release := s.acquireLock()
	defer release()

	codeIndex, err := s.items.CodeIndex(ctx, src.ID())
	if err != nil {
		return nil, err
	}
	activeKeys, err := s.prices.ActiveKeys(ctx, src.ID(), month, year)
	if err != nil {
		return nil, err
	}

	st := &importState{
		source:     src,
		codeIndex:  codeIndex,
		activeKeys: activeKeys,
		result:     &ImportResult{Source: sourceName, Month: month, Year: year},
	}
	if err := body(ctx, st); err != nil {
		return nil, err
	}

	metrics.ImportedPriceRows.WithLabelValues(sourceName).Add(float64(st.result.Prices))
	s.publisher.Publish(&ImportCompletedEvent{Result: *st.result})
	return st.result, nil
}

// importSheet creates unknown items, then inserts deduplicated prices.
// Composition sheets list priced services; input sheets are classified by
// their description text.
func (s *ImportService) importSheet(
	ctx context.Context,
	st *importState,
	sheet intake.ParsedSheet,
	month, year int,
) error {
	var newItems []catalogitem.Item
	for _, row := range sheet.Items {
		if _, ok := st.codeIndex[row.Code]; ok {
			continue
		}
		kind := catalogitem.KindFromDescription(row.Description)
		if sheet.Class.Catalog == intake.CatalogComposition {
			kind = catalogitem.KindService
		}
		methodology := catalogitem.MethodologyUnitary
		if st.result.Source == SourceSICRO && kind == catalogitem.KindComposition {
			methodology = catalogitem.MethodologyProduction
		}
		item := catalogitem.New(st.source.ID(), row.Code, row.Description, row.Unit, kind, methodology)
		st.codeIndex[row.Code] = item.ID()
		newItems = append(newItems, item)
	}

	for _, batch := range chunk(newItems, s.importConf.ItemBatchSize) {
		batch := batch
		if err := composables.InTx(ctx, func(txCtx context.Context) error {
			return s.items.CreateMany(txCtx, batch)
		}); err != nil {
			return errors.Wrap(err, "failed to create catalog items")
		}
		st.result.Items += len(batch)
	}

	validity := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	var observations []pricing.Observation
	for _, row := range sheet.Items {
		itemID, ok := st.codeIndex[row.Code]
		if !ok {
			continue
		}
		for region, price := range row.Prices {
			key := pricing.Key{ItemID: itemID, Region: region, ChargeType: sheet.Class.ChargeType}
			if _, seen := st.activeKeys[key]; seen {
				continue
			}
			st.activeKeys[key] = struct{}{}
			observations = append(observations, pricing.New(itemID, region, price, s.currency, validity, sheet.Class.ChargeType))
		}
	}

	for _, batch := range chunk(observations, s.importConf.PriceBatchSize) {
		batch := batch
		if err := composables.InTx(ctx, func(txCtx context.Context) error {
			return s.prices.CreateMany(txCtx, batch)
		}); err != nil {
			return errors.Wrap(err, "failed to create price observations")
		}
		st.result.Prices += len(batch)
	}
	return nil
}

// rebuildLinks replaces the source's whole ingredient graph with the links
// the file declares. Links naming codes absent from the catalog are dropped.
func (s *ImportService) rebuildLinks(ctx context.Context, st *importState, links []intake.AnalyticLink) error {
	return composables.InTx(ctx, func(txCtx context.Context) error {
		if err := s.compositions.DeleteLinksBySource(txCtx, st.source.ID()); err != nil {
			return err
		}
		var resolved []composition.Link
		for _, link := range links {
			parentID, ok := st.codeIndex[link.ParentCode]
			if !ok {
				continue
			}
			childID, ok := st.codeIndex[link.ChildCode]
			if !ok {
				continue
			}
			resolved = append(resolved, composition.Link{
				ParentItemID: parentID,
				ChildItemID:  childID,
				Coefficient:  link.Coefficient,
			})
		}
		for _, batch := range chunk(resolved, s.importConf.LinkBatchSize) {
			if err := s.compositions.CreateLinks(txCtx, batch); err != nil {
				return err
			}
			st.result.Links += len(batch)
		}
		return nil
	})
}

func (s *ImportService) ensureSource(ctx context.Context, name string) (source.Source, error) {
	src, err := s.sources.GetByName(ctx, name)
	if errors.Is(err, source.ErrNotFound) {
		return composables.InTxResult(ctx, func(txCtx context.Context) (source.Source, error) {
			return s.sources.Create(txCtx, source.New(name, sourceDescriptions[name]))
		})
	}
	return src, err
}

func (s *ImportService) resolvePeriod(cmd *ImportCommand, filename string) (int, int, error) {
	if cmd.Month != 0 && cmd.Year != 0 {
		return cmd.Month, cmd.Year, nil
	}
	return intake.ParsePeriod(filename)
}

// acquireLock is a best-effort guard against concurrent manual imports. A
// stale lock file only produces a warning.
func (s *ImportService) acquireLock() func() {
	lockFile := s.importConf.LockFile
	if lockFile == "" {
		return func() {}
	}
	if _, err := os.Stat(lockFile); err == nil {
		s.logger.WithField("lock_file", lockFile).Warn("lock file found, proceeding anyway")
	} else if err := os.WriteFile(lockFile, []byte(time.Now().Format(time.RFC3339)), 0o644); err != nil {
		s.logger.WithError(err).Warn("could not write import lock file")
	}
	return func() {
		_ = os.Remove(lockFile)
	}
}

// syntheticSheet adapts a SICRO synthetic report to the generic sheet form:
// header found by the code keyword, fixed columns, one price per row.
func syntheticSheet(rows [][]string, region string) intake.ParsedSheet {
	layout := intake.HeaderLayout{CodeCol: 0, DescCol: 1, UnitCol: 2, RegionCols: map[string]int{}}
	for i := 0; i < min(20, len(rows)); i++ {
		joined := intake.NormalizeToken(strings.Join(rows[i], " "))
		if strings.Contains(joined, "CODIGO") {
			layout.HeaderRow = i
			break
		}
	}
	priceCol := 3
	if layout.HeaderRow < len(rows) && len(rows[layout.HeaderRow]) > 4 {
		priceCol = 4
	}
	layout.RegionCols[region] = priceCol

	items, _ := intake.ExtractRows(rows, layout)

	// Synthetic codes run 3..20 chars; anything else is report chrome.
	filtered := items[:0]
	for _, item := range items {
		if len(item.Code) >= 3 && len(item.Code) <= 20 {
			filtered = append(filtered, item)
		}
	}
	return intake.ParsedSheet{
		Name:  "synthetic",
		Class: intake.SheetClass{Catalog: intake.CatalogInput, ChargeType: pricing.ChargeNaoDesonerado},
		Items: filtered,
	}
}

func progress(cmd *ImportCommand, pct int, message string) {
	if cmd.OnProgress == nil {
		return
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	cmd.OnProgress(pct, message)
}

func chunk[T any](xs []T, size int) [][]T {
	if size <= 0 {
		size = len(xs)
	}
	var out [][]T
	for len(xs) > 0 {
		n := min(size, len(xs))
		out = append(out, xs[:n])
		xs = xs[n:]
	}
	return out
}
