package viewmodels

type BudgetItem struct {
	ID                string `json:"id"`
	BudgetID          string `json:"budget_id"`
	ReferenceItemID   string `json:"reference_item_id,omitempty"`
	CustomCode        string `json:"custom_code,omitempty"`
	CustomDescription string `json:"custom_description,omitempty"`
	ParentID          string `json:"parent_id,omitempty"`
	Numbering         string `json:"numbering"`
	ItemType          string `json:"item_type"`
	Quantity          string `json:"quantity"`
	UnitPrice         string `json:"unit_price"`
	BDIApplied        string `json:"bdi_applied"`
	TotalPrice        string `json:"total_price"`
}

// StructureNode mirrors the WBS tree; quantity/unit_price/total carry the
// rolled-up values for aggregator nodes.
type StructureNode struct {
	Item      BudgetItem       `json:"item"`
	Quantity  string           `json:"quantity"`
	UnitPrice string           `json:"unit_price"`
	Total     string           `json:"total"`
	Children  []*StructureNode `json:"children"`
}

type BDIConfig struct {
	Administration string `json:"administration_rate"`
	Insurance      string `json:"insurance_rate"`
	Risk           string `json:"risk_rate"`
	Financial      string `json:"financial_rate"`
	Profit         string `json:"profit_rate"`
	PIS            string `json:"pis_rate"`
	COFINS         string `json:"cofins_rate"`
	ISS            string `json:"iss_rate"`
	CPRB           string `json:"cprb_rate"`
	RatePercent    string `json:"rate_percent"`
}
