package httptransport

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/rollabike/storefront/internal/auth"
	"github.com/rollabike/storefront/internal/transport/http/handler"
	"github.com/rollabike/storefront/internal/transport/http/middleware"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(
	logger *slog.Logger,
	gate *auth.Gate,
	accountHandler *handler.AccountHandler,
	catalogHandler *handler.CatalogHandler,
	orderHandler *handler.OrderHandler,
	reviewHandler *handler.ReviewHandler,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	// Per-route gate chains. The claimed-identity source is route-specific;
	// its reconciliation semantics live in the gate.
	authed := middleware.Authenticate(gate, nil)
	authedQueryEmail := middleware.Authenticate(gate, middleware.ClaimedFromQuery("email"))
	authedParamEmail := middleware.Authenticate(gate, middleware.ClaimedFromParam("email"))
	adminOnly := middleware.RequireAdmin(gate)

	// Catalog
	r.GET("/products", catalogHandler.List)
	r.GET("/products/:id", authedQueryEmail, catalogHandler.GetByID)
	r.GET("/products/:id/reviews", reviewHandler.ListByProduct)
	r.POST("/products", authed, adminOnly, catalogHandler.Create)
	r.DELETE("/products/:id", authed, adminOnly, catalogHandler.Delete)
	r.PATCH("/products/:id/stock", authed, adminOnly, catalogHandler.SetStock)

	// Orders
	r.POST("/orders", authed, orderHandler.Place)
	r.GET("/orders", authedQueryEmail, orderHandler.ListMine)
	r.DELETE("/orders/:id", authed, orderHandler.Cancel)
	r.POST("/orders/:id/payment-intent", authed, orderHandler.CreatePaymentIntent)
	r.GET("/admin/orders", authed, adminOnly, orderHandler.ListAll)
	r.PATCH("/admin/orders/:id/status", authed, adminOnly, orderHandler.UpdateStatus)

	// Reviews
	r.GET("/reviews", reviewHandler.ListRecent)
	r.POST("/reviews", authed, reviewHandler.Add)

	// Accounts. The profile upsert is the login path: it returns a fresh
	// token, so it cannot sit behind the gate itself.
	r.PUT("/users/:email", accountHandler.Upsert)
	r.GET("/users", authed, adminOnly, accountHandler.List)
	r.GET("/users/:email/admin", authedParamEmail, accountHandler.AdminStatus)
	r.PUT("/users/:email/admin", authed, adminOnly, accountHandler.GrantAdmin)
	r.DELETE("/users/:email/admin", authed, adminOnly, accountHandler.RevokeAdmin)

	return r
}
