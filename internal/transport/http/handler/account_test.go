package handler_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rollabike/storefront/internal/domain"
	"github.com/rollabike/storefront/internal/transport/http/handler"
	"github.com/rollabike/storefront/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeAccountUsecase implements the unexported accountUsecaser interface via
// method matching.
type fakeAccountUsecase struct {
	upsertProfile func(ctx context.Context, email string, profile map[string]any) (*usecase.UpsertResult, error)
	grantAdmin    func(ctx context.Context, email string) error
	revokeAdmin   func(ctx context.Context, email string) error
	isAdmin       func(ctx context.Context, email string) (bool, error)
	list          func(ctx context.Context) ([]*domain.User, error)
}

func (f *fakeAccountUsecase) UpsertProfile(ctx context.Context, email string, profile map[string]any) (*usecase.UpsertResult, error) {
	return f.upsertProfile(ctx, email, profile)
}
func (f *fakeAccountUsecase) GrantAdmin(ctx context.Context, email string) error {
	return f.grantAdmin(ctx, email)
}
func (f *fakeAccountUsecase) RevokeAdmin(ctx context.Context, email string) error {
	return f.revokeAdmin(ctx, email)
}
func (f *fakeAccountUsecase) IsAdmin(ctx context.Context, email string) (bool, error) {
	return f.isAdmin(ctx, email)
}
func (f *fakeAccountUsecase) List(ctx context.Context) ([]*domain.User, error) {
	return f.list(ctx)
}

func newTestEngine(uc *fakeAccountUsecase) *gin.Engine {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	h := handler.NewAccountHandler(uc, logger)

	r := gin.New()
	r.PUT("/users/:email", h.Upsert)
	r.GET("/users/:email/admin", h.AdminStatus)
	r.PUT("/users/:email/admin", h.GrantAdmin)
	return r
}

// ---- Upsert ----

func TestUpsert_InvalidJSON_Returns400(t *testing.T) {
	uc := &fakeAccountUsecase{}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/users/a@x.com", strings.NewReader(`{bad json}`))
	req.Header.Set("Content-Type", "application/json")
	newTestEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestUpsert_Success_ReturnsTokenAndProfile(t *testing.T) {
	const fakeToken = "header.payload.signature"
	var gotEmail string
	uc := &fakeAccountUsecase{
		upsertProfile: func(_ context.Context, email string, profile map[string]any) (*usecase.UpsertResult, error) {
			gotEmail = email
			return &usecase.UpsertResult{
				User:  &domain.User{Email: email, Profile: profile},
				Token: fakeToken,
			}, nil
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/users/a@x.com", strings.NewReader(`{"name":"Ada"}`))
	req.Header.Set("Content-Type", "application/json")
	newTestEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if gotEmail != "a@x.com" {
		t.Errorf("usecase email = %q, want a@x.com", gotEmail)
	}
	if !strings.Contains(w.Body.String(), fakeToken) {
		t.Errorf("body %q does not contain issued token", w.Body.String())
	}
}

func TestUpsert_UsecaseError_Returns500(t *testing.T) {
	uc := &fakeAccountUsecase{
		upsertProfile: func(_ context.Context, _ string, _ map[string]any) (*usecase.UpsertResult, error) {
			return nil, errors.New("db down")
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/users/a@x.com", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	newTestEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

// ---- AdminStatus ----

func TestAdminStatus_Admin_ReturnsTrue(t *testing.T) {
	uc := &fakeAccountUsecase{
		isAdmin: func(_ context.Context, _ string) (bool, error) { return true, nil },
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/root@x.com/admin", nil)
	newTestEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"admin":true`) {
		t.Errorf("body = %q, want admin:true", w.Body.String())
	}
}

func TestAdminStatus_UnknownUser_Returns404(t *testing.T) {
	uc := &fakeAccountUsecase{
		isAdmin: func(_ context.Context, _ string) (bool, error) {
			return false, domain.ErrUserNotFound
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/ghost@x.com/admin", nil)
	newTestEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

// ---- GrantAdmin ----

func TestGrantAdmin_UnknownUser_Returns404(t *testing.T) {
	uc := &fakeAccountUsecase{
		grantAdmin: func(_ context.Context, _ string) error { return domain.ErrUserNotFound },
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/users/ghost@x.com/admin", nil)
	newTestEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestGrantAdmin_Success_Returns204(t *testing.T) {
	var granted string
	uc := &fakeAccountUsecase{
		grantAdmin: func(_ context.Context, email string) error {
			granted = email
			return nil
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/users/a@x.com/admin", nil)
	newTestEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", w.Code)
	}
	if granted != "a@x.com" {
		t.Errorf("granted = %q, want a@x.com", granted)
	}
}
