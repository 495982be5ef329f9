package catalogitem

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("catalog item not found")

type Kind string

const (
	KindService     Kind = "SERVICE"
	KindComposition Kind = "COMPOSITION"
	KindMaterial    Kind = "MATERIAL"
	KindLabor       Kind = "LABOR"
	KindEquipment   Kind = "EQUIPMENT"
	KindInput       Kind = "INPUT"
)

type Methodology string

const (
	// MethodologyUnitary prices a composition as a weighted sum of inputs
	// (SINAPI). MethodologyProduction derives it from crew cost over an
	// hourly production rate (SICRO).
	MethodologyUnitary    Methodology = "UNITARY"
	MethodologyProduction Methodology = "PRODUCTION"
)

// Item is a catalog entry identified by (sourceID, code). Official locked
// items are immutable here; edits go through a copy-on-write clone outside
// this engine.
type Item struct {
	id          uuid.UUID
	sourceID    int32
	code        string
	description string
	unit        string
	kind        Kind
	methodology Methodology
	official    bool
	locked      bool
}

func New(sourceID int32, code, description, unit string, kind Kind, methodology Methodology) Item {
	return Item{
		id:          uuid.New(),
		sourceID:    sourceID,
		code:        strings.TrimSpace(code),
		description: strings.TrimSpace(description),
		unit:        normalizeUnit(unit),
		kind:        kind,
		methodology: methodology,
		official:    true,
		locked:      true,
	}
}

func Hydrate(
	id uuid.UUID,
	sourceID int32,
	code string,
	description string,
	unit string,
	kind Kind,
	methodology Methodology,
	official bool,
	locked bool,
) Item {
	return Item{
		id:          id,
		sourceID:    sourceID,
		code:        strings.TrimSpace(code),
		description: description,
		unit:        unit,
		kind:        kind,
		methodology: methodology,
		official:    official,
		locked:      locked,
	}
}

func (i Item) ID() uuid.UUID            { return i.id }
func (i Item) SourceID() int32          { return i.sourceID }
func (i Item) Code() string             { return i.code }
func (i Item) Description() string      { return i.description }
func (i Item) Unit() string             { return i.unit }
func (i Item) Kind() Kind               { return i.kind }
func (i Item) Methodology() Methodology { return i.methodology }
func (i Item) IsOfficial() bool         { return i.official }
func (i Item) IsLocked() bool           { return i.locked }
func (i Item) IsZero() bool             { return i.id == uuid.Nil && i.code == "" }

func normalizeUnit(unit string) string {
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return "UN"
	}
	return unit
}

// KindFromDescription classifies an input row by its description text when the
// sheet itself does not carry a type column.
func KindFromDescription(description string) Kind {
	upper := strings.ToUpper(description)
	switch {
	case strings.Contains(upper, "COMPOSI"):
		return KindComposition
	case strings.Contains(upper, "MAO DE OBRA"), strings.Contains(upper, "MÃO DE OBRA"), strings.Contains(upper, "ENCARGOS"):
		return KindLabor
	case strings.Contains(upper, "EQUIPAMENTO"):
		return KindEquipment
	default:
		return KindMaterial
	}
}

// NormalizeCode strips leading zeros so SICRO analytic codes ("0005914")
// match the synthetic catalog codes ("5914").
func NormalizeCode(code string) string {
	return strings.TrimLeft(strings.TrimSpace(code), "0")
}
