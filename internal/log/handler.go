package log

import (
	"context"
	"log/slog"

	"github.com/rollabike/storefront/internal/auth"
	"github.com/rollabike/storefront/internal/requestid"
)

// ContextHandler wraps an slog.Handler and enriches every record with
// request-scoped values: request_id, and the authenticated identity once the
// access gate has allowed the request.
type ContextHandler struct {
	inner slog.Handler
}

func NewContextHandler(inner slog.Handler) *ContextHandler {
	return &ContextHandler{inner: inner}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := requestid.FromContext(ctx); id != "" {
		r.AddAttrs(slog.String("request_id", id))
	}
	if g := auth.GrantFromContext(ctx); g != nil {
		r.AddAttrs(slog.String("identity", g.Identity))
	}
	return h.inner.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{inner: h.inner.WithGroup(name)}
}
