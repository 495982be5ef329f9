package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/budget/domain/aggregates/budgetitem"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/budget/domain/entities/bdi"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/budget/presentation/controllers/dtos"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/budget/presentation/mappers"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/budget/presentation/viewmodels"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/budget/services"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/domain/aggregates/catalogitem"
	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/application"
)

type BudgetController struct {
	app      application.Application
	budgets  *services.BudgetService
	basePath string
}

func NewBudgetController(app application.Application) application.Controller {
	return &BudgetController{
		app:      app,
		budgets:  app.Service(services.BudgetService{}).(*services.BudgetService),
		basePath: "/budget/api/budgets",
	}
}

func (c *BudgetController) Key() string {
	return c.basePath
}

func (c *BudgetController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/{id}/items", c.ListItems).Methods(http.MethodGet)
	router.HandleFunc("/{id}/items", c.AddItem).Methods(http.MethodPost)
	router.HandleFunc("/{id}/items/{itemID}", c.RemoveItem).Methods(http.MethodDelete)
	router.HandleFunc("/{id}/structure", c.Structure).Methods(http.MethodGet)
	router.HandleFunc("/{id}/renumber", c.Renumber).Methods(http.MethodPost)
	router.HandleFunc("/{id}/bdi", c.GetBDI).Methods(http.MethodGet)
	router.HandleFunc("/{id}/bdi", c.UpdateBDI).Methods(http.MethodPut)
}

func (c *BudgetController) ListItems(w http.ResponseWriter, r *http.Request) {
	budgetID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	items, err := c.budgets.Items(r.Context(), budgetID)
	if err != nil {
		writeAPIError(w, r, http.StatusInternalServerError, "BUDGET_INTERNAL", "could not list budget items")
		return
	}
	out := make([]viewmodels.BudgetItem, 0, len(items))
	for _, item := range items {
		out = append(out, mappers.ItemToViewModel(item))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (c *BudgetController) AddItem(w http.ResponseWriter, r *http.Request) {
	budgetID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var dto dtos.BudgetItemDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "BUDGET_INVALID_JSON", "invalid json")
		return
	}
	if errs, ok := dto.Ok(); !ok {
		message := "validation failed"
		for field, tag := range errs {
			message = fmt.Sprintf("%s: %s", field, tag)
			break
		}
		writeAPIError(w, r, http.StatusUnprocessableEntity, "BUDGET_VALIDATION_FAILED", message)
		return
	}

	cmd := &services.AddItemCommand{
		BudgetID:          budgetID,
		CustomCode:        dto.CustomCode,
		CustomDescription: dto.CustomDescription,
		Numbering:         dto.Numbering,
		ItemType:          budgetitem.Type(dto.ItemType),
		Quantity:          dto.Quantity,
		UnitPrice:         dto.UnitPrice,
		BDIApplied:        dto.BDIApplied,
	}
	if dto.ReferenceItemID != "" {
		id := uuid.MustParse(dto.ReferenceItemID)
		cmd.ReferenceItemID = &id
	}
	if dto.ParentID != "" {
		id := uuid.MustParse(dto.ParentID)
		cmd.ParentID = &id
	}

	item, err := c.budgets.AddItem(r.Context(), cmd)
	if errors.Is(err, catalogitem.ErrNotFound) {
		writeAPIError(w, r, http.StatusNotFound, "BUDGET_REFERENCE_NOT_FOUND", "reference item not found")
		return
	}
	if err != nil {
		writeAPIError(w, r, http.StatusInternalServerError, "BUDGET_INTERNAL", "could not create the budget item")
		return
	}
	writeJSON(w, http.StatusCreated, mappers.ItemToViewModel(item))
}

func (c *BudgetController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	budgetID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	itemID, ok := pathUUID(w, r, "itemID")
	if !ok {
		return
	}
	err := c.budgets.RemoveItem(r.Context(), budgetID, itemID)
	if errors.Is(err, budgetitem.ErrNotFound) {
		writeAPIError(w, r, http.StatusNotFound, "BUDGET_ITEM_NOT_FOUND", "no budget item with that id")
		return
	}
	if err != nil {
		writeAPIError(w, r, http.StatusInternalServerError, "BUDGET_INTERNAL", "could not delete the budget item")
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (c *BudgetController) Structure(w http.ResponseWriter, r *http.Request) {
	budgetID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	nodes, err := c.budgets.Structure(r.Context(), budgetID)
	if err != nil {
		writeAPIError(w, r, http.StatusInternalServerError, "BUDGET_INTERNAL", "could not build the structure")
		return
	}
	out := make([]*viewmodels.StructureNode, 0, len(nodes))
	for _, node := range nodes {
		out = append(out, mappers.NodeToViewModel(node))
	}
	writeJSON(w, http.StatusOK, map[string]any{"structure": out})
}

func (c *BudgetController) Renumber(w http.ResponseWriter, r *http.Request) {
	budgetID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	count, err := c.budgets.RenumberBudget(r.Context(), budgetID)
	if err != nil {
		writeAPIError(w, r, http.StatusInternalServerError, "BUDGET_INTERNAL", "renumbering failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"updated_count": count})
}

func (c *BudgetController) GetBDI(w http.ResponseWriter, r *http.Request) {
	budgetID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	config, err := c.budgets.BDIConfig(r.Context(), budgetID)
	if err != nil {
		writeAPIError(w, r, http.StatusInternalServerError, "BUDGET_INTERNAL", "could not load the bdi configuration")
		return
	}
	writeJSON(w, http.StatusOK, mappers.ConfigToViewModel(config))
}

func (c *BudgetController) UpdateBDI(w http.ResponseWriter, r *http.Request) {
	budgetID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var dto dtos.BDIConfigDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "BUDGET_INVALID_JSON", "invalid json")
		return
	}
	if errs, ok := dto.Ok(); !ok {
		message := "validation failed"
		for field, tag := range errs {
			message = fmt.Sprintf("%s: %s", field, tag)
			break
		}
		writeAPIError(w, r, http.StatusUnprocessableEntity, "BUDGET_VALIDATION_FAILED", message)
		return
	}

	config := bdi.Config{
		Administration: dto.Administration,
		Insurance:      dto.Insurance,
		Risk:           dto.Risk,
		Financial:      dto.Financial,
		Profit:         dto.Profit,
		PIS:            dto.PIS,
		COFINS:         dto.COFINS,
		ISS:            dto.ISS,
		CPRB:           dto.CPRB,
	}
	percent, err := c.budgets.UpdateBDI(r.Context(), budgetID, config)
	if err != nil {
		writeAPIError(w, r, http.StatusInternalServerError, "BUDGET_INTERNAL", "could not update the bdi configuration")
		return
	}
	vm := mappers.ConfigToViewModel(config)
	vm.RatePercent = percent.String()
	writeJSON(w, http.StatusOK, vm)
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "BUDGET_INVALID_ID", name+" must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}
