package mappers

import (
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/domain/aggregates/catalogitem"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/presentation/viewmodels"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/services"
)

func ItemToViewModel(item catalogitem.Item) viewmodels.Item {
	return viewmodels.Item{
		ID:          item.ID().String(),
		SourceID:    item.SourceID(),
		Code:        item.Code(),
		Description: item.Description(),
		Unit:        item.Unit(),
		Kind:        string(item.Kind()),
		Methodology: string(item.Methodology()),
		Official:    item.IsOfficial(),
		Locked:      item.IsLocked(),
	}
}

func PriceToViewModel(resolved services.ResolvedPrice) viewmodels.Price {
	o := resolved.Observation
	return viewmodels.Price{
		Price:      o.Price().String(),
		Currency:   o.Currency(),
		Region:     resolved.Region,
		ChargeType: string(o.ChargeType()),
		Validity:   o.Validity().Format("2006-01-02"),
		Fallback:   resolved.Fallback,
	}
}

func LineToViewModel(line services.CompositionLine) viewmodels.CompositionLine {
	return viewmodels.CompositionLine{
		Code:        line.Item.Code(),
		Description: line.Item.Description(),
		Unit:        line.Item.Unit(),
		Coefficient: line.Coefficient.String(),
		UnitPrice:   line.UnitPrice.String(),
		Total:       line.Total.String(),
		Region:      line.Region,
	}
}

func CostToViewModel(cost *services.CompositionCost) viewmodels.CompositionCost {
	vm := viewmodels.CompositionCost{
		Item:  ItemToViewModel(cost.Item),
		Lines: make([]viewmodels.CompositionLine, 0, len(cost.Lines)),
		Total: cost.Total.String(),
	}
	for _, line := range cost.Lines {
		vm.Lines = append(vm.Lines, LineToViewModel(line))
	}
	for _, line := range cost.Team {
		vm.Team = append(vm.Team, LineToViewModel(line))
	}
	if len(cost.Team) > 0 {
		vm.CrewHourly = cost.CrewHourly.String()
		vm.Production = cost.Production.String()
	}
	return vm
}
