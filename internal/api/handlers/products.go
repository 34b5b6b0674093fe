package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Pratham-Dabhane/Smart-Coupons/internal/api/dto"
	"github.com/Pratham-Dabhane/Smart-Coupons/internal/domain/catalog"
)

// ProductsHandler serves the catalog.
type ProductsHandler struct {
	*Base
	catalog *catalog.Catalog
}

// NewProductsHandler creates a new products handler.
func NewProductsHandler(cat *catalog.Catalog, logger *slog.Logger) *ProductsHandler {
	return &ProductsHandler{
		Base:    NewBase(logger),
		catalog: cat,
	}
}

// List handles GET /products.
func (h *ProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	products := h.catalog.All()
	h.WriteJSON(w, http.StatusOK, dto.ProductListResponse{
		Products: products,
		Count:    len(products),
	})
}
