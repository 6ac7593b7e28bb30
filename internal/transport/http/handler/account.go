package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rollabike/storefront/internal/domain"
	"github.com/rollabike/storefront/internal/usecase"
)

// accountUsecaser is the subset of AccountUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type accountUsecaser interface {
	UpsertProfile(ctx context.Context, email string, profile map[string]any) (*usecase.UpsertResult, error)
	GrantAdmin(ctx context.Context, email string) error
	RevokeAdmin(ctx context.Context, email string) error
	IsAdmin(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]*domain.User, error)
}

type AccountHandler struct {
	uc     accountUsecaser
	logger *slog.Logger
}

func NewAccountHandler(uc accountUsecaser, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{uc: uc, logger: logger.With("component", "account_handler")}
}

type userResponse struct {
	Email     string         `json:"email"`
	Role      domain.Role    `json:"role,omitempty"`
	Profile   map[string]any `json:"profile"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		Email:     u.Email,
		Role:      u.Role,
		Profile:   u.Profile,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// PUT /users/:email
// Upserts the profile document and returns a fresh 1-day token alongside it,
// so clients refresh their credential on every profile write.
func (h *AccountHandler) Upsert(c *gin.Context) {
	var profile map[string]any
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.uc.UpsertProfile(c.Request.Context(), c.Param("email"), profile)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "upsert profile", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result": toUserResponse(result.User),
		"token":  result.Token,
	})
}

// GET /users — admin only.
func (h *AccountHandler) List(c *gin.Context) {
	users, err := h.uc.List(c.Request.Context())
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list users", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	c.JSON(http.StatusOK, out)
}

// GET /users/:email/admin
// Lets a signed-in client ask whether it has the admin role. The email path
// parameter is reconciled against the token by the route's gate.
func (h *AccountHandler) AdminStatus(c *gin.Context) {
	isAdmin, err := h.uc.IsAdmin(c.Request.Context(), c.Param("email"))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "admin status", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, gin.H{"admin": isAdmin})
}

// PUT /users/:email/admin — admin only.
func (h *AccountHandler) GrantAdmin(c *gin.Context) {
	h.setRole(c, h.uc.GrantAdmin)
}

// DELETE /users/:email/admin — admin only.
func (h *AccountHandler) RevokeAdmin(c *gin.Context) {
	h.setRole(c, h.uc.RevokeAdmin)
}

func (h *AccountHandler) setRole(c *gin.Context, op func(ctx context.Context, email string) error) {
	if err := op(c.Request.Context(), c.Param("email")); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "set role", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}
	c.Status(http.StatusNoContent)
}
