// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tomtom215/salonbook/internal/beautyfacts"
	"github.com/tomtom215/salonbook/internal/models"
)

// ListProducts returns the product catalog, optionally for one category.
//
// @Summary List products
// @Tags Products
// @Produce json
// @Param category query string false "Category filter"
// @Success 200 {object} APIResponse{data=[]models.Product}
// @Security BearerAuth
// @Router /products [get]
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.ListProducts(r.Context(), strings.TrimSpace(r.URL.Query().Get("category")))
	rw := NewResponseWriter(w, r)
	if err != nil {
		rw.ServiceError(err)
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	rw.Success(products)
}

// GetProduct returns one catalog product.
//
// @Summary Get product
// @Tags Products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} APIResponse{data=models.Product}
// @Failure 404 {object} APIResponse
// @Security BearerAuth
// @Router /products/{id} [get]
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.store.GetProduct(r.Context(), chi.URLParam(r, "id"))
	rw := NewResponseWriter(w, r)
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Success(product)
}

// CreateProduct adds a catalog product.
//
// @Summary Create product
// @Tags Products
// @Accept json
// @Produce json
// @Param body body ProductRequest true "Product"
// @Success 201 {object} APIResponse{data=models.Product}
// @Security BearerAuth
// @Router /products [post]
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !bindJSON(w, r, &req, false) {
		return
	}

	product := &models.Product{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(req.Name),
		Brand:       strings.TrimSpace(req.Brand),
		Category:    strings.ToLower(strings.TrimSpace(req.Category)),
		Description: req.Description,
		PriceCents:  req.PriceCents,
		ImageURL:    req.ImageURL,
		Barcode:     req.Barcode,
		CreatedAt:   time.Now().UTC(),
	}

	rw := NewResponseWriter(w, r)
	if err := h.store.CreateProduct(r.Context(), product); err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Created(product)
}

// LookupProduct fetches ingredients for a barcode from Open Beauty Facts.
//
// @Summary Look up a product by barcode
// @Tags Products
// @Produce json
// @Param barcode path string true "EAN/GTIN barcode"
// @Success 200 {object} APIResponse{data=beautyfacts.ProductInfo}
// @Failure 400 {object} APIResponse "Malformed barcode"
// @Failure 404 {object} APIResponse "Unknown barcode"
// @Failure 503 {object} APIResponse "Lookup disabled or upstream unavailable"
// @Security BearerAuth
// @Router /products/lookup/{barcode} [get]
func (h *Handler) LookupProduct(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.products == nil {
		rw.ServiceError(beautyfacts.ErrDisabled)
		return
	}

	info, err := h.products.Lookup(r.Context(), chi.URLParam(r, "barcode"))
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Success(info)
}
