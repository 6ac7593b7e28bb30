package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rollabike/storefront/internal/domain"
	"github.com/rollabike/storefront/internal/usecase"
)

type CatalogHandler struct {
	uc     *usecase.CatalogUsecase
	logger *slog.Logger
}

func NewCatalogHandler(uc *usecase.CatalogUsecase, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{uc: uc, logger: logger.With("component", "catalog_handler")}
}

type createProductRequest struct {
	Name        string         `json:"name"          binding:"required,max=256"`
	Description string         `json:"description"`
	ImageURL    string         `json:"image_url"     binding:"omitempty,url"`
	PriceCents  int64          `json:"price_cents"   binding:"required,min=1"`
	MinOrderQty int            `json:"min_order_qty" binding:"omitempty,min=1"`
	Available   int            `json:"available"     binding:"min=0"`
	Attributes  map[string]any `json:"attributes"`
}

type productResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	ImageURL    string         `json:"image_url,omitempty"`
	PriceCents  int64          `json:"price_cents"`
	MinOrderQty int            `json:"min_order_qty"`
	Available   int            `json:"available"`
	Attributes  map[string]any `json:"attributes,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func toProductResponse(p *domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		PriceCents:  p.PriceCents,
		MinOrderQty: p.MinOrderQty,
		Available:   p.Available,
		Attributes:  p.Attributes,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// GET /products — public catalog browsing, no gate.
func (h *CatalogHandler) List(c *gin.Context) {
	products, err := h.uc.List(c.Request.Context())
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list products", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	c.JSON(http.StatusOK, out)
}

// GET /products/:id?email= — authenticated; the email query parameter is
// reconciled against the token by the route's gate.
func (h *CatalogHandler) GetByID(c *gin.Context) {
	product, err := h.uc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errProductNotFound})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "get product", "product_id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, toProductResponse(product))
}

// POST /products — admin only.
func (h *CatalogHandler) Create(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.uc.Create(c.Request.Context(), usecase.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		PriceCents:  req.PriceCents,
		MinOrderQty: req.MinOrderQty,
		Available:   req.Available,
		Attributes:  req.Attributes,
	})
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "create product", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusCreated, toProductResponse(product))
}

// DELETE /products/:id — admin only.
func (h *CatalogHandler) Delete(c *gin.Context) {
	if err := h.uc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errProductNotFound})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "delete product", "product_id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}
	c.Status(http.StatusNoContent)
}

type setStockRequest struct {
	Available *int `json:"available" binding:"required,min=0"`
}

// PATCH /products/:id/stock — admin only.
func (h *CatalogHandler) SetStock(c *gin.Context) {
	var req setStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.uc.SetAvailable(c.Request.Context(), c.Param("id"), *req.Available); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errProductNotFound})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "set stock", "product_id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}
	c.Status(http.StatusNoContent)
}
