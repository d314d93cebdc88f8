package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"shutter-pricing-service/internal/domain"
	"shutter-pricing-service/internal/logger"
	"shutter-pricing-service/internal/rules"
	"shutter-pricing-service/internal/schema"
	"shutter-pricing-service/internal/service"
	"shutter-pricing-service/internal/store"
)

// HTTPHandler holds dependencies for HTTP handlers.
type HTTPHandler struct {
	catalogStore store.CatalogStorer // nil when the catalog is read from files
	sessions     *service.Sessions
	log          *logger.Logger
	validate     *validator.Validate
}

// NewHTTPHandler creates a new HTTPHandler with dependencies. cs may be nil,
// in which case the catalog maintenance routes are not registered.
func NewHTTPHandler(cs store.CatalogStorer, sessions *service.Sessions, log *logger.Logger) *HTTPHandler {
	if log == nil {
		log = logger.NewNop()
	}
	v := validator.New()
	_ = v.RegisterValidation("price", validPrice)
	return &HTTPHandler{
		catalogStore: cs,
		sessions:     sessions,
		log:          log,
		validate:     v,
	}
}

// --- Helpers ---

// ErrorResponse defines the structure for JSON error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			http.Error(w, `{"error": "Internal server error during JSON encoding"}`, http.StatusInternalServerError)
		}
	}
}

// statusFor maps package sentinels to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, schema.ErrSchemaNotFound),
		errors.Is(err, store.ErrCatalogItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUnsupportedProduct), errors.Is(err, store.ErrInvalidPrice):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNoProductSelected),
		errors.Is(err, service.ErrSupersededSelection),
		errors.Is(err, store.ErrStockCodeExists):
		return http.StatusConflict
	case errors.Is(err, service.ErrTooManySessions):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// respondWithServiceError writes err with its mapped status. Server-side
// failures are logged and answered with fallback instead of the error text.
func (h *HTTPHandler) respondWithServiceError(w http.ResponseWriter, err error, fallback string) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		h.log.Error(fallback, "error", err)
		if code == http.StatusInternalServerError {
			respondWithError(w, code, fallback)
			return
		}
	}
	respondWithError(w, code, err.Error())
}

func (h *HTTPHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return false
	}
	return true
}

func validPrice(fl validator.FieldLevel) bool {
	raw := fl.Field().String()
	if strings.TrimSpace(raw) == "" {
		return false
	}
	return !domain.ParsePrice(raw).IsZero() || strings.Trim(raw, "0.,TL ₺") == ""
}

// --- Pricing Handlers ---

// CalculateInput prices a state without opening a session.
type CalculateInput struct {
	ProductID string         `json:"productId" validate:"required,max=64"`
	OptionID  string         `json:"optionId" validate:"omitempty,max=64"`
	TypeID    int            `json:"typeId" validate:"gte=0,lte=20"`
	State     map[string]any `json:"state" validate:"required"`
	Settle    bool           `json:"settle"` // run the rules from defaults before pricing
}

// CalculateResponse is the settled state together with its price.
type CalculateResponse struct {
	State    domain.State             `json:"state"`
	Warnings []rules.Warning          `json:"warnings"`
	Result   domain.CalculationResult `json:"result"`
}

func (h *HTTPHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var input CalculateInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}

	sel := service.Selection{ProductID: input.ProductID, OptionID: input.OptionID, TypeID: input.TypeID}
	result, outcome, err := h.sessions.Calculate(r.Context(), sel, domain.State(input.State), input.Settle)
	if err != nil {
		h.respondWithServiceError(w, err, "Failed to calculate price")
		return
	}

	respondWithJSON(w, http.StatusOK, CalculateResponse{
		State:    outcome.State,
		Warnings: outcome.Warnings,
		Result:   result,
	})
}

func (h *HTTPHandler) GetProductFields(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	typeID := 0
	if s := r.URL.Query().Get("typeId"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			respondWithError(w, http.StatusBadRequest, "Invalid typeId format")
			return
		}
		typeID = n
	}

	sel := service.Selection{ProductID: productID, OptionID: r.URL.Query().Get("optionId"), TypeID: typeID}
	s, err := h.sessions.Fields(r.Context(), sel)
	if err != nil {
		h.respondWithServiceError(w, err, "Failed to load product fields")
		return
	}

	respondWithJSON(w, http.StatusOK, s)
}

// --- Session Handlers ---

// SelectProductInput switches a session to a product.
type SelectProductInput struct {
	ProductID string `json:"productId" validate:"required,max=64"`
	OptionID  string `json:"optionId" validate:"omitempty,max=64"`
	TypeID    int    `json:"typeId" validate:"gte=0,lte=20"`
}

// UpdateStateInput carries field edits of a session.
type UpdateStateInput struct {
	Changes map[string]any `json:"changes" validate:"required"`
}

// PositionInput sets the quantity of an offer position.
type PositionInput struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

func (h *HTTPHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	v, err := h.sessions.Create(r.Context())
	if err != nil {
		h.respondWithServiceError(w, err, "Failed to create session")
		return
	}
	respondWithJSON(w, http.StatusCreated, v)
}

func (h *HTTPHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	v, err := h.sessions.Get(r.Context(), chi.URLParam(r, "sessionId"))
	if err != nil {
		h.respondWithServiceError(w, err, "Failed to retrieve session")
		return
	}
	respondWithJSON(w, http.StatusOK, v)
}

func (h *HTTPHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(r.Context(), chi.URLParam(r, "sessionId")); err != nil {
		h.respondWithServiceError(w, err, "Failed to delete session")
		return
	}
	respondWithJSON(w, http.StatusNoContent, nil)
}

func (h *HTTPHandler) SelectProduct(w http.ResponseWriter, r *http.Request) {
	var input SelectProductInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}

	sel := service.Selection{ProductID: input.ProductID, OptionID: input.OptionID, TypeID: input.TypeID}
	v, err := h.sessions.SelectProduct(r.Context(), chi.URLParam(r, "sessionId"), sel)
	if err != nil {
		h.respondWithServiceError(w, err, "Failed to select product")
		return
	}
	respondWithJSON(w, http.StatusOK, v)
}

func (h *HTTPHandler) UpdateSessionState(w http.ResponseWriter, r *http.Request) {
	var input UpdateStateInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}

	v, err := h.sessions.Update(r.Context(), chi.URLParam(r, "sessionId"), input.Changes)
	if err != nil {
		h.respondWithServiceError(w, err, "Failed to update session")
		return
	}
	respondWithJSON(w, http.StatusOK, v)
}

func (h *HTTPHandler) CreatePosition(w http.ResponseWriter, r *http.Request) {
	var input PositionInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}

	pos, err := h.sessions.Position(r.Context(), chi.URLParam(r, "sessionId"), input.Quantity)
	if err != nil {
		h.respondWithServiceError(w, err, "Failed to build position")
		return
	}
	respondWithJSON(w, http.StatusCreated, pos)
}

// --- Catalog Handlers ---

// CatalogItemInput defines the expected input for creating or replacing a catalog item.
type CatalogItemInput struct {
	ProductID        string             `json:"product_id" validate:"required,max=64"`
	Kind             domain.CatalogKind `json:"kind" validate:"required,oneof=price accessory"`
	Description      string             `json:"description" validate:"required,max=512"`
	StockCode        string             `json:"stock_code" validate:"omitempty,max=100"`
	ManufacturerCode string             `json:"uretici_kodu" validate:"omitempty,max=100"`
	Type             string             `json:"type" validate:"required,max=100"`
	Color            string             `json:"color" validate:"omitempty,max=100"`
	Unit             string             `json:"unit" validate:"required,max=32"`
	Price            string             `json:"price" validate:"required,price"`
}

func (in CatalogItemInput) item() *domain.CatalogItem {
	return &domain.CatalogItem{
		ProductID:        in.ProductID,
		Kind:             in.Kind,
		Description:      in.Description,
		StockCode:        in.StockCode,
		ManufacturerCode: in.ManufacturerCode,
		Type:             in.Type,
		Color:            in.Color,
		Unit:             in.Unit,
		Price:            in.Price,
	}
}

func catalogItemID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "itemId"), 10, 64)
	if err != nil || id <= 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid catalog item ID format")
		return 0, false
	}
	return id, true
}

func (h *HTTPHandler) CreateCatalogItem(w http.ResponseWriter, r *http.Request) {
	var input CatalogItemInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}

	created, err := h.catalogStore.CreateCatalogItem(r.Context(), input.item())
	if err != nil {
		h.respondWithServiceError(w, err, "Failed to create catalog item")
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}

// Pagination mirrors the page envelope of list responses.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// CatalogListResponse is one page of catalog items.
type CatalogListResponse struct {
	Data       []domain.CatalogItem `json:"data"`
	Pagination Pagination           `json:"pagination"`
}

func (h *HTTPHandler) ListCatalogItems(w http.ResponseWriter, r *http.Request) {
	qParams := r.URL.Query()

	limit, err := strconv.Atoi(qParams.Get("limit"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	if limit > 200 {
		limit = 200
	}
	page, err := strconv.Atoi(qParams.Get("page"))
	if err != nil || page <= 0 {
		page = 1
	}

	params := store.ListCatalogParams{Limit: limit, Offset: (page - 1) * limit}
	if p := qParams.Get("product_id"); p != "" {
		params.ProductID = &p
	}
	if k := qParams.Get("kind"); k != "" {
		kind := domain.CatalogKind(k)
		if kind != domain.KindPrice && kind != domain.KindAccessory {
			respondWithError(w, http.StatusBadRequest, "Invalid kind value: must be price or accessory")
			return
		}
		params.Kind = &kind
	}
	if t := qParams.Get("type"); t != "" {
		params.Type = &t
	}
	if q := qParams.Get("q"); q != "" {
		params.SearchQuery = &q
	}

	items, totalCount, err := h.catalogStore.ListCatalogItems(r.Context(), params)
	if err != nil {
		h.respondWithServiceError(w, err, "Failed to retrieve catalog items")
		return
	}
	if items == nil {
		items = []domain.CatalogItem{}
	}

	totalPages := 0
	if totalCount > 0 {
		totalPages = (totalCount + limit - 1) / limit
	}
	respondWithJSON(w, http.StatusOK, CatalogListResponse{
		Data:       items,
		Pagination: Pagination{Page: page, Limit: limit, TotalItems: totalCount, TotalPages: totalPages},
	})
}

func (h *HTTPHandler) GetCatalogItemByID(w http.ResponseWriter, r *http.Request) {
	id, ok := catalogItemID(w, r)
	if !ok {
		return
	}

	item, err := h.catalogStore.GetCatalogItemByID(r.Context(), id)
	if err != nil {
		h.respondWithServiceError(w, err, "Failed to retrieve catalog item")
		return
	}
	respondWithJSON(w, http.StatusOK, item)
}

func (h *HTTPHandler) UpdateCatalogItem(w http.ResponseWriter, r *http.Request) {
	id, ok := catalogItemID(w, r)
	if !ok {
		return
	}
	var input CatalogItemInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}

	item := input.item()
	item.ID = id
	updated, err := h.catalogStore.UpdateCatalogItem(r.Context(), item)
	if err != nil {
		h.respondWithServiceError(w, err, "Failed to update catalog item")
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

func (h *HTTPHandler) DeleteCatalogItem(w http.ResponseWriter, r *http.Request) {
	id, ok := catalogItemID(w, r)
	if !ok {
		return
	}

	if err := h.catalogStore.DeleteCatalogItem(r.Context(), id); err != nil {
		h.respondWithServiceError(w, err, "Failed to delete catalog item")
		return
	}
	respondWithJSON(w, http.StatusNoContent, nil)
}

// --- Route Registration ---

// RegisterRoutes sets up the HTTP routes for the service.
func (h *HTTPHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/v1/calculate", h.Calculate)
	r.Get("/api/v1/products/{productId}/fields", h.GetProductFields)

	r.Route("/api/v1/sessions", func(r chi.Router) {
		r.Post("/", h.CreateSession)
		r.Route("/{sessionId}", func(r chi.Router) {
			r.Get("/", h.GetSession)
			r.Delete("/", h.DeleteSession)
			r.Put("/product", h.SelectProduct)
			r.Patch("/state", h.UpdateSessionState)
			r.Post("/position", h.CreatePosition)
		})
	})

	if h.catalogStore == nil {
		return
	}
	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Post("/", h.CreateCatalogItem)
		r.Get("/", h.ListCatalogItems)
		r.Route("/{itemId}", func(r chi.Router) {
			r.Get("/", h.GetCatalogItemByID)
			r.Put("/", h.UpdateCatalogItem)
			r.Delete("/", h.DeleteCatalogItem)
		})
	})
}
