package viewmodels

// Monetary values are serialized as decimal strings to keep API consumers
// away from float rounding.

type Item struct {
	ID          string `json:"id"`
	SourceID    int32  `json:"source_id"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Unit        string `json:"unit"`
	Kind        string `json:"kind"`
	Methodology string `json:"methodology"`
	Official    bool   `json:"official"`
	Locked      bool   `json:"locked"`
}

type Price struct {
	Price      string `json:"price"`
	Currency   string `json:"currency"`
	Region     string `json:"region"`
	ChargeType string `json:"charge_type"`
	Validity   string `json:"validity"`
	Fallback   bool   `json:"fallback"`
}

type CompositionLine struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Unit        string `json:"unit"`
	Coefficient string `json:"coefficient"`
	UnitPrice   string `json:"unit_price"`
	Total       string `json:"total"`
	Region      string `json:"region,omitempty"`
}

type CompositionCost struct {
	Item       Item              `json:"item"`
	Lines      []CompositionLine `json:"lines"`
	Team       []CompositionLine `json:"team,omitempty"`
	CrewHourly string            `json:"crew_hourly,omitempty"`
	Production string            `json:"production,omitempty"`
	Total      string            `json:"total"`
}
