package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rollabike/storefront/internal/domain"
	"github.com/rollabike/storefront/internal/email"
	"github.com/rollabike/storefront/internal/metrics"
	"github.com/rollabike/storefront/internal/payment"
	"github.com/rollabike/storefront/internal/repository"
)

type OrderUsecase struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	gateway  payment.Gateway
	email    email.Sender
	logger   *slog.Logger
	currency string
}

func NewOrderUsecase(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	gateway payment.Gateway,
	emailSender email.Sender,
	logger *slog.Logger,
) *OrderUsecase {
	return &OrderUsecase{
		orders:   orders,
		products: products,
		gateway:  gateway,
		email:    emailSender,
		logger:   logger.With("component", "order_usecase"),
		currency: "usd",
	}
}

type PlaceOrderInput struct {
	ProductID string
	Email     string
	Quantity  int
}

// Place reserves stock, records the order, and sends a confirmation email.
// The email is best-effort: a delivery failure never fails the order.
func (u *OrderUsecase) Place(ctx context.Context, input PlaceOrderInput) (*domain.Order, error) {
	product, err := u.products.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if input.Quantity < product.MinOrderQty {
		return nil, domain.ErrBelowMinOrder
	}

	if err := u.products.ReserveStock(ctx, product.ID, input.Quantity); err != nil {
		return nil, err
	}

	order := &domain.Order{
		ProductID:  product.ID,
		Email:      input.Email,
		Quantity:   input.Quantity,
		TotalCents: product.PriceCents * int64(input.Quantity),
		Status:     domain.OrderPending,
	}

	created, err := u.orders.Create(ctx, order)
	if err != nil {
		if restoreErr := u.products.RestoreStock(ctx, product.ID, input.Quantity); restoreErr != nil {
			u.logger.ErrorContext(ctx, "restore stock after failed order", "product_id", product.ID, "error", restoreErr)
		}
		return nil, fmt.Errorf("create order: %w", err)
	}
	metrics.OrdersPlacedTotal.Inc()

	subject := fmt.Sprintf("Order confirmed: %s", product.Name)
	body := fmt.Sprintf(
		`<p>Thanks for your order!</p><p>%d × %s — total $%.2f</p><p>Order ID: %s</p>`,
		created.Quantity, product.Name, float64(created.TotalCents)/100, created.ID,
	)
	if err := u.email.Send(ctx, created.Email, subject, body); err != nil {
		u.logger.ErrorContext(ctx, "send order confirmation", "order_id", created.ID, "error", err)
	}

	return created, nil
}

// CreatePaymentIntent passes the order through to the payment gateway.
// Only the order's owner may create an intent, and only while pending.
func (u *OrderUsecase) CreatePaymentIntent(ctx context.Context, orderID, identity string) (*payment.Intent, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Email != identity {
		return nil, domain.ErrIdentityMismatch
	}
	if order.Status != domain.OrderPending {
		return nil, domain.ErrOrderNotPayable
	}

	intent, err := u.gateway.CreateIntent(ctx, order.ID, order.TotalCents, u.currency)
	if err != nil {
		return nil, fmt.Errorf("payment gateway: %w", err)
	}

	if err := u.orders.SetPaymentIntent(ctx, order.ID, intent.ID); err != nil {
		return nil, err
	}
	return intent, nil
}

// Cancel cancels the caller's own pending order and restores its stock.
func (u *OrderUsecase) Cancel(ctx context.Context, orderID, identity string) error {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.Email != identity {
		return domain.ErrIdentityMismatch
	}
	if order.Status != domain.OrderPending {
		return domain.ErrOrderNotCancelable
	}

	if err := u.orders.UpdateStatus(ctx, order.ID, domain.OrderCancelled); err != nil {
		return err
	}
	if err := u.products.RestoreStock(ctx, order.ProductID, order.Quantity); err != nil {
		u.logger.ErrorContext(ctx, "restore stock after cancel", "order_id", order.ID, "error", err)
	}
	return nil
}

func (u *OrderUsecase) ListByEmail(ctx context.Context, email string) ([]*domain.Order, error) {
	return u.orders.ListByEmail(ctx, email)
}

func (u *OrderUsecase) ListAll(ctx context.Context) ([]*domain.Order, error) {
	return u.orders.ListAll(ctx)
}

// UpdateStatus is the admin path for fulfilment transitions (paid, shipped).
func (u *OrderUsecase) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	return u.orders.UpdateStatus(ctx, orderID, status)
}
