package mappers

import (
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/budget/domain/aggregates/budgetitem"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/budget/domain/entities/bdi"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/budget/presentation/viewmodels"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/budget/services"
)

func ItemToViewModel(item budgetitem.Item) viewmodels.BudgetItem {
	vm := viewmodels.BudgetItem{
		ID:                item.ID().String(),
		BudgetID:          item.BudgetID().String(),
		CustomCode:        item.CustomCode(),
		CustomDescription: item.CustomDescription(),
		Numbering:         item.Numbering(),
		ItemType:          string(item.ItemType()),
		Quantity:          item.Quantity().String(),
		UnitPrice:         item.UnitPrice().String(),
		BDIApplied:        item.BDIApplied().String(),
		TotalPrice:        item.TotalPrice().String(),
	}
	if ref := item.ReferenceItemID(); ref != nil {
		vm.ReferenceItemID = ref.String()
	}
	if parent := item.ParentID(); parent != nil {
		vm.ParentID = parent.String()
	}
	return vm
}

func NodeToViewModel(node *services.StructureNode) *viewmodels.StructureNode {
	vm := &viewmodels.StructureNode{
		Item:      ItemToViewModel(node.Item),
		Quantity:  node.Quantity.String(),
		UnitPrice: node.UnitPrice.String(),
		Total:     node.Total.String(),
		Children:  make([]*viewmodels.StructureNode, 0, len(node.Children)),
	}
	for _, child := range node.Children {
		vm.Children = append(vm.Children, NodeToViewModel(child))
	}
	return vm
}

func ConfigToViewModel(config bdi.Config) viewmodels.BDIConfig {
	return viewmodels.BDIConfig{
		Administration: config.Administration.String(),
		Insurance:      config.Insurance.String(),
		Risk:           config.Risk.String(),
		Financial:      config.Financial.String(),
		Profit:         config.Profit.String(),
		PIS:            config.PIS.String(),
		COFINS:         config.COFINS.String(),
		ISS:            config.ISS.String(),
		CPRB:           config.CPRB.String(),
		RatePercent:    config.RatePercent().String(),
	}
}
