package intake

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ScanState is where the analytic report scanner currently is inside a
// composition block.
type ScanState int

const (
	ScanSearch ScanState = iota
	ScanMetadata
	ScanEquipment
	ScanLabor
	ScanMaterial
)

// MemberSection tells which block of a composition a member row came from.
type MemberSection string

const (
	SectionEquipment MemberSection = "EQUIPMENT"
	SectionLabor     MemberSection = "LABOR"
	SectionMaterial  MemberSection = "MATERIAL"
)

// Event is one fact extracted from an analytic report row. The scanner is
// pure: it never touches storage, the import orchestrator consumes the
// stream and decides what to persist.
type Event interface{ isEvent() }

// StartComposition opens a new composition block. Code keeps the file's
// leading zeros; normalization is the consumer's job.
type StartComposition struct {
	Code string
}

// ProductionRate is the hourly output stated in the block metadata.
type ProductionRate struct {
	Rate decimal.Decimal
	Unit string
}

// MemberRow is one equipment, labor or material line of the open block.
// Description and Unit may be empty when the row references an already
// known code.
type MemberRow struct {
	Code        string
	Description string
	Unit        string
	Quantity    decimal.Decimal
	Section     MemberSection
}

// EndComposition closes the open block on its cost total line.
type EndComposition struct{}

func (StartComposition) isEvent() {}
func (ProductionRate) isEvent()   {}
func (MemberRow) isEvent()        {}
func (EndComposition) isEvent()   {}

var compositionCodeRe = regexp.MustCompile(`^\d{7}$`)

// CompositionScanner walks an analytic cost report row by row. The report
// interleaves composition headers, a metadata strip, and three member
// sections per composition, so the scanner is a small state machine keyed
// on marker strings.
//
// isKnown answers whether a leading-zero-stripped code already exists in
// the catalog; headers with unknown codes open nothing and their block is
// skipped until the next recognizable header.
type CompositionScanner struct {
	state   ScanState
	active  bool
	isKnown func(code string) bool
}

func NewCompositionScanner(isKnown func(code string) bool) *CompositionScanner {
	return &CompositionScanner{state: ScanSearch, isKnown: isKnown}
}

func (s *CompositionScanner) Next(row []string) []Event {
	val0 := cellAt(row, 0)
	val1 := cellAt(row, 1)

	// A 7-digit code with a real description opens a new block, from any
	// state except the metadata strip (where numeric cells are data).
	if s.state != ScanMetadata && compositionCodeRe.MatchString(val0) && len(val1) > 5 {
		if s.isKnown(strings.TrimLeft(val0, "0")) {
			s.state = ScanMetadata
			s.active = true
			return []Event{StartComposition{Code: val0}}
		}
		s.active = false
		s.state = ScanSearch
		return nil
	}
	if !s.active {
		return nil
	}

	joined := NormalizeToken(strings.Join(row, " "))

	var events []Event
	if s.state == ScanMetadata && strings.Contains(joined, "ODUCAO DA EQUIP") {
		if rate, ok := s.productionRate(row); ok {
			events = append(events, rate)
		}
	}

	switch {
	case strings.Contains(joined, " - EQUIPAMENTOS"):
		s.state = ScanEquipment
		return events
	case strings.Contains(joined, " - MAO DE OBRA"):
		s.state = ScanLabor
		return events
	case strings.Contains(joined, " - MATERIAL"):
		s.state = ScanMaterial
		return events
	case strings.Contains(joined, "CUSTO TOTAL"):
		s.state = ScanSearch
		return append(events, EndComposition{})
	}

	switch s.state {
	case ScanEquipment:
		events = s.appendMember(events, row, SectionEquipment)
	case ScanLabor:
		events = s.appendMember(events, row, SectionLabor)
	case ScanMaterial:
		events = s.appendMember(events, row, SectionMaterial)
	}
	return events
}

// productionRate probes columns 7, 6 then 8 for the first numeric rate; the
// unit sits in the neighboring cell.
func (s *CompositionScanner) productionRate(row []string) (ProductionRate, bool) {
	probes := []struct{ rateCol, unitCol int }{{7, 8}, {6, 7}, {8, 7}}
	for _, p := range probes {
		rate, ok := ParseDecimal(cellAt(row, p.rateCol))
		if !ok {
			continue
		}
		unit := cellAt(row, p.unitCol)
		if unit == "" {
			unit = "UN"
		}
		return ProductionRate{Rate: rate, Unit: unit}, true
	}
	return ProductionRate{}, false
}

func (s *CompositionScanner) appendMember(events []Event, row []string, section MemberSection) []Event {
	code := cellAt(row, 0)
	if code == "" {
		return events
	}
	qty, ok := ParseDecimal(cellAt(row, 2))
	if !ok {
		return events
	}
	return append(events, MemberRow{
		Code:        code,
		Description: cellAt(row, 1),
		Unit:        cellAt(row, 3),
		Quantity:    qty,
		Section:     section,
	})
}
