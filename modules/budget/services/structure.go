package services

import (
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/budget/domain/aggregates/budgetitem"
)

// StructureNode is one node of the WBS tree. Quantity, UnitPrice and Total
// are the effective display values: for aggregator nodes they are overridden
// by the children roll-up and differ from the stored item fields.
type StructureNode struct {
	Item      budgetitem.Item
	Children  []*StructureNode
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
}

// BuildStructure turns a flat parent-linked item list into a totals-rolled-up
// tree. Any node with children (and any CHAPTER) becomes a pure aggregator:
// total = Σ children, quantity forced to 1, unit price = total. Directly
// entered values on aggregators are ignored.
func BuildStructure(items []budgetitem.Item) []*StructureNode {
	children := map[uuid.UUID][]budgetitem.Item{}
	var roots []budgetitem.Item
	for _, item := range items {
		if parent := item.ParentID(); parent != nil {
			children[*parent] = append(children[*parent], item)
		} else {
			roots = append(roots, item)
		}
	}

	var build func(item budgetitem.Item) *StructureNode
	build = func(item budgetitem.Item) *StructureNode {
		node := &StructureNode{
			Item:      item,
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice(),
			Total:     item.TotalPrice(),
		}
		kids := sortByNumbering(children[item.ID()])
		sum := decimal.Zero
		for _, kid := range kids {
			childNode := build(kid)
			node.Children = append(node.Children, childNode)
			sum = sum.Add(childNode.Total)
		}
		if len(kids) > 0 || item.ItemType() == budgetitem.TypeChapter {
			node.Total = sum
			node.UnitPrice = sum
			node.Quantity = decimal.NewFromInt(1)
		}
		return node
	}

	out := make([]*StructureNode, 0, len(roots))
	for _, root := range sortByNumbering(roots) {
		out = append(out, build(root))
	}
	return out
}

// Renumber assigns sequential dotted-decimal labels root-to-leaf, sorting
// siblings by their existing numbering. It returns the id→label map for a
// bulk update instead of mutating anything.
func Renumber(items []budgetitem.Item) map[uuid.UUID]string {
	children := map[uuid.UUID][]budgetitem.Item{}
	var roots []budgetitem.Item
	for _, item := range items {
		if parent := item.ParentID(); parent != nil {
			children[*parent] = append(children[*parent], item)
		} else {
			roots = append(roots, item)
		}
	}

	updates := map[uuid.UUID]string{}
	var walk func(siblings []budgetitem.Item, prefix string)
	walk = func(siblings []budgetitem.Item, prefix string) {
		for i, item := range sortByNumbering(siblings) {
			label := strconv.Itoa(i + 1)
			if prefix != "" {
				label = prefix + "." + label
			}
			updates[item.ID()] = label
			walk(children[item.ID()], label)
		}
	}
	walk(roots, "")
	return updates
}

func sortByNumbering(items []budgetitem.Item) []budgetitem.Item {
	sorted := make([]budgetitem.Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Numbering() < sorted[j].Numbering()
	})
	return sorted
}
