package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rollabike/storefront/internal/auth"
	"github.com/rollabike/storefront/internal/domain"
	"github.com/rollabike/storefront/internal/usecase"
)

type ReviewHandler struct {
	uc     *usecase.ReviewUsecase
	logger *slog.Logger
}

func NewReviewHandler(uc *usecase.ReviewUsecase, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{uc: uc, logger: logger.With("component", "review_handler")}
}

type addReviewRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Email     string `json:"email"      binding:"required,email"`
	Rating    int    `json:"rating"     binding:"required,min=1,max=5"`
	Comment   string `json:"comment"    binding:"max=2000"`
}

type reviewResponse struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Email     string    `json:"email"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toReviewResponse(r *domain.Review) reviewResponse {
	return reviewResponse{
		ID:        r.ID,
		ProductID: r.ProductID,
		Email:     r.Email,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}

// POST /reviews
// The body email is a caller-claimed identity and must match the token's.
func (h *ReviewHandler) Add(c *gin.Context) {
	var req addReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	grant := auth.GrantFromContext(c.Request.Context())
	if grant == nil || req.Email != grant.Identity {
		c.JSON(http.StatusForbidden, gin.H{"error": errForbidden})
		return
	}

	review, err := h.uc.Add(c.Request.Context(), usecase.AddReviewInput{
		ProductID: req.ProductID,
		Email:     grant.Identity,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errProductNotFound})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "add review", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusCreated, toReviewResponse(review))
}

// GET /reviews?limit= — recent reviews, public.
func (h *ReviewHandler) ListRecent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	reviews, err := h.uc.ListRecent(c.Request.Context(), limit)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list recent reviews", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, toReviewResponses(reviews))
}

// GET /products/:id/reviews — public.
func (h *ReviewHandler) ListByProduct(c *gin.Context) {
	reviews, err := h.uc.ListByProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list product reviews", "product_id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, toReviewResponses(reviews))
}

func toReviewResponses(reviews []*domain.Review) []reviewResponse {
	out := make([]reviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, toReviewResponse(r))
	}
	return out
}
