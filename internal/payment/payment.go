package payment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// Intent is the slice of a gateway payment intent the storefront cares
// about. ClientSecret goes back to the browser to complete the payment.
type Intent struct {
	ID           string
	ClientSecret string
}

type Gateway interface {
	CreateIntent(ctx context.Context, orderID string, amountCents int64, currency string) (*Intent, error)
}

// LogGateway fabricates intents and logs them instead of charging anyone —
// used in ENV=local.
type LogGateway struct {
	logger *slog.Logger
}

func (g *LogGateway) CreateIntent(_ context.Context, orderID string, amountCents int64, currency string) (*Intent, error) {
	id := "pi_local_" + uuid.NewString()
	g.logger.Info("payment intent (local dev)",
		"order_id", orderID, "amount_cents", amountCents, "currency", currency, "intent_id", id)
	return &Intent{ID: id, ClientSecret: id + "_secret"}, nil
}

// StripeGateway creates real payment intents — used in staging/production.
type StripeGateway struct {
	api *client.API
}

func (g *StripeGateway) CreateIntent(ctx context.Context, orderID string, amountCents int64, currency string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(currency),
	}
	params.Context = ctx
	params.AddMetadata("order_id", orderID)

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	return &Intent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

// NewGateway returns a LogGateway for ENV=local, StripeGateway otherwise.
func NewGateway(env, apiKey string, logger *slog.Logger) Gateway {
	if env == "local" {
		return &LogGateway{logger: logger}
	}
	api := &client.API{}
	api.Init(apiKey, nil)
	return &StripeGateway{api: api}
}
