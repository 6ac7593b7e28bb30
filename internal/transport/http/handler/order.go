package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rollabike/storefront/internal/auth"
	"github.com/rollabike/storefront/internal/domain"
	"github.com/rollabike/storefront/internal/usecase"
)

type OrderHandler struct {
	uc     *usecase.OrderUsecase
	logger *slog.Logger
}

func NewOrderHandler(uc *usecase.OrderUsecase, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{uc: uc, logger: logger.With("component", "order_handler")}
}

type placeOrderRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Email     string `json:"email"      binding:"required,email"`
	Quantity  int    `json:"quantity"   binding:"required,min=1"`
}

type orderResponse struct {
	ID              string             `json:"id"`
	ProductID       string             `json:"product_id"`
	Email           string             `json:"email"`
	Quantity        int                `json:"quantity"`
	TotalCents      int64              `json:"total_cents"`
	Status          domain.OrderStatus `json:"status"`
	PaymentIntentID *string            `json:"payment_intent_id,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

func toOrderResponse(o *domain.Order) orderResponse {
	return orderResponse{
		ID:              o.ID,
		ProductID:       o.ProductID,
		Email:           o.Email,
		Quantity:        o.Quantity,
		TotalCents:      o.TotalCents,
		Status:          o.Status,
		PaymentIntentID: o.PaymentIntentID,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// POST /orders
// The body email is a caller-claimed identity and must match the token's.
func (h *OrderHandler) Place(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	grant := auth.GrantFromContext(c.Request.Context())
	if grant == nil || req.Email != grant.Identity {
		c.JSON(http.StatusForbidden, gin.H{"error": errForbidden})
		return
	}

	order, err := h.uc.Place(c.Request.Context(), usecase.PlaceOrderInput{
		ProductID: req.ProductID,
		Email:     grant.Identity,
		Quantity:  req.Quantity,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errProductNotFound})
		case errors.Is(err, domain.ErrInsufficientStock):
			c.JSON(http.StatusConflict, gin.H{"error": errOutOfStock})
		case errors.Is(err, domain.ErrBelowMinOrder):
			c.JSON(http.StatusBadRequest, gin.H{"error": errBelowMinOrder})
		default:
			h.logger.ErrorContext(c.Request.Context(), "place order", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusCreated, toOrderResponse(order))
}

// GET /orders?email= — the caller's own orders; email reconciled by the gate.
func (h *OrderHandler) ListMine(c *gin.Context) {
	grant := auth.GrantFromContext(c.Request.Context())

	orders, err := h.uc.ListByEmail(c.Request.Context(), grant.Identity)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list orders", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	c.JSON(http.StatusOK, out)
}

// GET /admin/orders — admin only.
func (h *OrderHandler) ListAll(c *gin.Context) {
	orders, err := h.uc.ListAll(c.Request.Context())
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list all orders", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	c.JSON(http.StatusOK, out)
}

// DELETE /orders/:id — cancel the caller's own pending order.
func (h *OrderHandler) Cancel(c *gin.Context) {
	grant := auth.GrantFromContext(c.Request.Context())

	err := h.uc.Cancel(c.Request.Context(), c.Param("id"), grant.Identity)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errOrderNotFound})
		case errors.Is(err, domain.ErrIdentityMismatch):
			c.JSON(http.StatusForbidden, gin.H{"error": errForbidden})
		case errors.Is(err, domain.ErrOrderNotCancelable):
			c.JSON(http.StatusConflict, gin.H{"error": errNotCancelable})
		default:
			h.logger.ErrorContext(c.Request.Context(), "cancel order", "order_id", c.Param("id"), "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /orders/:id/payment-intent
// Pass-through to the payment gateway for the caller's own pending order.
func (h *OrderHandler) CreatePaymentIntent(c *gin.Context) {
	grant := auth.GrantFromContext(c.Request.Context())

	intent, err := h.uc.CreatePaymentIntent(c.Request.Context(), c.Param("id"), grant.Identity)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errOrderNotFound})
		case errors.Is(err, domain.ErrIdentityMismatch):
			c.JSON(http.StatusForbidden, gin.H{"error": errForbidden})
		case errors.Is(err, domain.ErrOrderNotPayable):
			c.JSON(http.StatusConflict, gin.H{"error": errNotPayable})
		default:
			h.logger.ErrorContext(c.Request.Context(), "create payment intent", "order_id", c.Param("id"), "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"intent_id":     intent.ID,
		"client_secret": intent.ClientSecret,
	})
}

type updateOrderStatusRequest struct {
	Status domain.OrderStatus `json:"status" binding:"required,oneof=pending paid shipped cancelled"`
}

// PATCH /admin/orders/:id/status — admin only.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.uc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errOrderNotFound})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "update order status", "order_id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}
	c.Status(http.StatusNoContent)
}
