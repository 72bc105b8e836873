package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"mini-mercado/internal/model"
	"mini-mercado/internal/service"

	"github.com/rs/zerolog"
)

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// productRequest mirrors ProductInput with pointer fields so missing
// keys can be told apart from zero values.
type productRequest struct {
	Name  *string  `json:"name"`
	Price *float64 `json:"price"`
	Stock *int64   `json:"stock"`
}

// input validates that all editable fields were supplied.
func (r *productRequest) input() (model.ProductInput, bool) {
	if r.Name == nil || *r.Name == "" || r.Price == nil || r.Stock == nil {
		return model.ProductInput{}, false
	}
	return model.ProductInput{Name: *r.Name, Price: *r.Price, Stock: *r.Stock}, true
}

// GetAll handles GET /products requests with pagination.
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	limitStr := r.URL.Query().Get("limit")
	offsetStr := r.URL.Query().Get("offset")

	limit := 0 // service applies the default
	if limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit parameter", h.logger)
			return
		}
	}

	offset := 0
	if offsetStr != "" {
		var err error
		offset, err = strconv.Atoi(offsetStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid offset parameter", h.logger)
			return
		}
	}

	products, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	if products == nil {
		products = []model.Product{}
	}

	writeJSON(w, http.StatusOK, products)
}

// GetByID handles GET /products/{id} requests.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	product, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Create handles POST /products requests.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid request body", h.logger)
		return
	}

	input, ok := req.input()
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "name, price and stock are required", h.logger)
		return
	}

	product, err := h.service.Create(r.Context(), input)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

// Update handles PUT /products/{id} requests; all editable fields are
// required.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid request body", h.logger)
		return
	}

	input, ok := req.input()
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "name, price and stock are required", h.logger)
		return
	}

	product, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Patch handles PATCH /products/{id} requests; any subset of editable
// fields may be supplied and the rest are left untouched.
func (h *ProductHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	var patch model.ProductPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid request body", h.logger)
		return
	}

	product, err := h.service.Patch(r.Context(), id, patch)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Delete handles DELETE /products/{id} requests.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"detail": "product deleted",
	})
}

// productID extracts the numeric id from /products/{id}.
func (h *ProductHandler) productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	path := r.URL.Path
	if len(path) <= len("/products/") {
		writeError(w, http.StatusBadRequest, "product ID is required", h.logger)
		return 0, false
	}
	idStr := path[len("/products/"):]

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product ID format", h.logger)
		return 0, false
	}

	return id, true
}
