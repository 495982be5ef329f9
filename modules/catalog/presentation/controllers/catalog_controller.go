package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/domain/aggregates/catalogitem"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/domain/aggregates/pricing"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/presentation/mappers"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/presentation/viewmodels"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/services"
	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/application"
	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/configuration"
)

// CatalogController is the read-only API over the reference catalogs. There
// are deliberately no write routes: official items are locked and price
// history only changes through imports.
type CatalogController struct {
	app      application.Application
	catalog  *services.CatalogService
	pricing  *services.PricingService
	conf     configuration.PricingOptions
	basePath string
}

func NewCatalogController(app application.Application, conf configuration.PricingOptions) application.Controller {
	return &CatalogController{
		app:      app,
		catalog:  app.Service(services.CatalogService{}).(*services.CatalogService),
		pricing:  app.Service(services.PricingService{}).(*services.PricingService),
		conf:     conf,
		basePath: "/catalog/api",
	}
}

func (c *CatalogController) Key() string {
	return c.basePath
}

func (c *CatalogController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/items", c.Search).Methods(http.MethodGet)
	router.HandleFunc("/items/{id}", c.Get).Methods(http.MethodGet)
	router.HandleFunc("/items/{id}/price", c.Price).Methods(http.MethodGet)
	router.HandleFunc("/items/{id}/composition", c.Composition).Methods(http.MethodGet)
}

func (c *CatalogController) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := 0
	if v := strings.TrimSpace(query.Get("limit")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}

	items, err := c.catalog.Search(r.Context(), &services.SearchParams{
		Q:      strings.TrimSpace(query.Get("q")),
		Source: strings.ToUpper(strings.TrimSpace(query.Get("source"))),
		Kind:   catalogitem.Kind(strings.ToUpper(strings.TrimSpace(query.Get("kind")))),
		Limit:  limit,
	})
	if err != nil {
		writeAPIError(w, r, http.StatusInternalServerError, "CATALOG_INTERNAL", "search failed")
		return
	}

	out := make([]viewmodels.Item, 0, len(items))
	for _, item := range items {
		out = append(out, mappers.ItemToViewModel(item))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (c *CatalogController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := c.itemID(w, r)
	if !ok {
		return
	}
	item, err := c.catalog.GetItem(r.Context(), id)
	if errors.Is(err, catalogitem.ErrNotFound) {
		writeAPIError(w, r, http.StatusNotFound, "CATALOG_ITEM_NOT_FOUND", "no catalog item with that id")
		return
	}
	if err != nil {
		writeAPIError(w, r, http.StatusInternalServerError, "CATALOG_INTERNAL", "could not load the item")
		return
	}
	writeJSON(w, http.StatusOK, mappers.ItemToViewModel(item))
}

func (c *CatalogController) Price(w http.ResponseWriter, r *http.Request) {
	id, ok := c.itemID(w, r)
	if !ok {
		return
	}
	region, chargeType, ok := c.pricingParams(w, r)
	if !ok {
		return
	}

	resolved, err := c.pricing.Resolve(r.Context(), id, region, chargeType)
	if errors.Is(err, services.ErrPriceNotFound) {
		writeAPIError(w, r, http.StatusNotFound, "PRICE_NOT_FOUND", "no active price for the item in any region")
		return
	}
	if err != nil {
		writeAPIError(w, r, http.StatusInternalServerError, "CATALOG_INTERNAL", "price resolution failed")
		return
	}
	writeJSON(w, http.StatusOK, mappers.PriceToViewModel(resolved))
}

func (c *CatalogController) Composition(w http.ResponseWriter, r *http.Request) {
	id, ok := c.itemID(w, r)
	if !ok {
		return
	}
	region, chargeType, ok := c.pricingParams(w, r)
	if !ok {
		return
	}

	cost, err := c.pricing.CostComposition(r.Context(), id, region, chargeType)
	if errors.Is(err, catalogitem.ErrNotFound) {
		writeAPIError(w, r, http.StatusNotFound, "CATALOG_ITEM_NOT_FOUND", "no catalog item with that id")
		return
	}
	if err != nil {
		writeAPIError(w, r, http.StatusInternalServerError, "CATALOG_INTERNAL", "composition costing failed")
		return
	}
	writeJSON(w, http.StatusOK, mappers.CostToViewModel(cost))
}

func (c *CatalogController) itemID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "CATALOG_INVALID_ID", "item id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

func (c *CatalogController) pricingParams(w http.ResponseWriter, r *http.Request) (string, pricing.ChargeType, bool) {
	query := r.URL.Query()

	region := strings.ToUpper(strings.TrimSpace(query.Get("region")))
	if region == "" {
		region = c.conf.PrimaryRegion
	}

	chargeType := pricing.ChargeDesonerado
	switch strings.ToUpper(strings.TrimSpace(query.Get("charge_type"))) {
	case "", string(pricing.ChargeDesonerado):
	case string(pricing.ChargeNaoDesonerado):
		chargeType = pricing.ChargeNaoDesonerado
	default:
		writeAPIError(w, r, http.StatusBadRequest, "CATALOG_INVALID_CHARGE_TYPE",
			"charge_type must be DESONERADO or NAO_DESONERADO")
		return "", "", false
	}
	return region, chargeType, true
}
