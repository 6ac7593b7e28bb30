package usecase_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/rollabike/storefront/internal/domain"
	"github.com/rollabike/storefront/internal/payment"
	"github.com/rollabike/storefront/internal/usecase"
)

// ---- fakes ----

type fakeOrderRepo struct {
	create           func(ctx context.Context, o *domain.Order) (*domain.Order, error)
	getByID          func(ctx context.Context, id string) (*domain.Order, error)
	listByEmail      func(ctx context.Context, email string) ([]*domain.Order, error)
	listAll          func(ctx context.Context) ([]*domain.Order, error)
	updateStatus     func(ctx context.Context, id string, status domain.OrderStatus) error
	setPaymentIntent func(ctx context.Context, id, intentID string) error
	cancelStale      func(ctx context.Context, cutoff time.Time) ([]*domain.Order, error)
}

func (r *fakeOrderRepo) Create(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	return r.create(ctx, o)
}
func (r *fakeOrderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	return r.getByID(ctx, id)
}
func (r *fakeOrderRepo) ListByEmail(ctx context.Context, email string) ([]*domain.Order, error) {
	return r.listByEmail(ctx, email)
}
func (r *fakeOrderRepo) ListAll(ctx context.Context) ([]*domain.Order, error) {
	return r.listAll(ctx)
}
func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	return r.updateStatus(ctx, id, status)
}
func (r *fakeOrderRepo) SetPaymentIntent(ctx context.Context, id, intentID string) error {
	return r.setPaymentIntent(ctx, id, intentID)
}
func (r *fakeOrderRepo) CancelStale(ctx context.Context, cutoff time.Time) ([]*domain.Order, error) {
	return r.cancelStale(ctx, cutoff)
}

type fakeProductRepo struct {
	getByID      func(ctx context.Context, id string) (*domain.Product, error)
	reserveStock func(ctx context.Context, id string, qty int) error
	restoreStock func(ctx context.Context, id string, qty int) error
}

func (r *fakeProductRepo) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	return p, nil
}
func (r *fakeProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return r.getByID(ctx, id)
}
func (r *fakeProductRepo) List(_ context.Context) ([]*domain.Product, error) { return nil, nil }
func (r *fakeProductRepo) Delete(_ context.Context, _ string) error          { return nil }
func (r *fakeProductRepo) SetAvailable(_ context.Context, _ string, _ int) error {
	return nil
}
func (r *fakeProductRepo) ReserveStock(ctx context.Context, id string, qty int) error {
	return r.reserveStock(ctx, id, qty)
}
func (r *fakeProductRepo) RestoreStock(ctx context.Context, id string, qty int) error {
	return r.restoreStock(ctx, id, qty)
}

type fakeGateway struct {
	createIntent func(ctx context.Context, orderID string, amountCents int64, currency string) (*payment.Intent, error)
}

func (g *fakeGateway) CreateIntent(ctx context.Context, orderID string, amountCents int64, currency string) (*payment.Intent, error) {
	return g.createIntent(ctx, orderID, amountCents, currency)
}

type fakeSender struct {
	send func(ctx context.Context, to, subject, body string) error
}

func (s *fakeSender) Send(ctx context.Context, to, subject, body string) error {
	if s.send == nil {
		return nil
	}
	return s.send(ctx, to, subject, body)
}

var testProduct = &domain.Product{
	ID:          "prod-1",
	Name:        "Trail Bike",
	PriceCents:  125000,
	MinOrderQty: 1,
	Available:   10,
}

func newOrderUsecase(orders *fakeOrderRepo, products *fakeProductRepo, gw *fakeGateway, sender *fakeSender) *usecase.OrderUsecase {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	return usecase.NewOrderUsecase(orders, products, gw, sender, logger)
}

// ---- Place ----

func TestPlace_ReservesStockAndComputesTotal(t *testing.T) {
	var reservedQty int
	products := &fakeProductRepo{
		getByID: func(_ context.Context, _ string) (*domain.Product, error) { return testProduct, nil },
		reserveStock: func(_ context.Context, _ string, qty int) error {
			reservedQty = qty
			return nil
		},
	}
	orders := &fakeOrderRepo{
		create: func(_ context.Context, o *domain.Order) (*domain.Order, error) {
			o.ID = "order-1"
			return o, nil
		},
	}

	uc := newOrderUsecase(orders, products, &fakeGateway{}, &fakeSender{})
	created, err := uc.Place(context.Background(), usecase.PlaceOrderInput{
		ProductID: "prod-1", Email: "a@x.com", Quantity: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reservedQty != 2 {
		t.Errorf("reserved qty = %d, want 2", reservedQty)
	}
	if created.TotalCents != 250000 {
		t.Errorf("total = %d, want 250000", created.TotalCents)
	}
	if created.Status != domain.OrderPending {
		t.Errorf("status = %q, want pending", created.Status)
	}
}

func TestPlace_BelowMinimumQuantity_Rejected(t *testing.T) {
	bulk := *testProduct
	bulk.MinOrderQty = 5
	products := &fakeProductRepo{
		getByID: func(_ context.Context, _ string) (*domain.Product, error) { return &bulk, nil },
		reserveStock: func(_ context.Context, _ string, _ int) error {
			t.Error("stock reserved for a rejected order")
			return nil
		},
	}

	uc := newOrderUsecase(&fakeOrderRepo{}, products, &fakeGateway{}, &fakeSender{})
	_, err := uc.Place(context.Background(), usecase.PlaceOrderInput{
		ProductID: "prod-1", Email: "a@x.com", Quantity: 2,
	})
	if !errors.Is(err, domain.ErrBelowMinOrder) {
		t.Errorf("want ErrBelowMinOrder, got %v", err)
	}
}

func TestPlace_InsufficientStock_Propagates(t *testing.T) {
	products := &fakeProductRepo{
		getByID: func(_ context.Context, _ string) (*domain.Product, error) { return testProduct, nil },
		reserveStock: func(_ context.Context, _ string, _ int) error {
			return domain.ErrInsufficientStock
		},
	}

	uc := newOrderUsecase(&fakeOrderRepo{}, products, &fakeGateway{}, &fakeSender{})
	_, err := uc.Place(context.Background(), usecase.PlaceOrderInput{
		ProductID: "prod-1", Email: "a@x.com", Quantity: 2,
	})
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Errorf("want ErrInsufficientStock, got %v", err)
	}
}

func TestPlace_CreateFails_RestoresStock(t *testing.T) {
	var restored bool
	products := &fakeProductRepo{
		getByID:      func(_ context.Context, _ string) (*domain.Product, error) { return testProduct, nil },
		reserveStock: func(_ context.Context, _ string, _ int) error { return nil },
		restoreStock: func(_ context.Context, _ string, _ int) error {
			restored = true
			return nil
		},
	}
	orders := &fakeOrderRepo{
		create: func(_ context.Context, _ *domain.Order) (*domain.Order, error) {
			return nil, errors.New("insert failed")
		},
	}

	uc := newOrderUsecase(orders, products, &fakeGateway{}, &fakeSender{})
	_, err := uc.Place(context.Background(), usecase.PlaceOrderInput{
		ProductID: "prod-1", Email: "a@x.com", Quantity: 1,
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if !restored {
		t.Error("stock was not restored after failed create")
	}
}

func TestPlace_EmailFailure_OrderStillSucceeds(t *testing.T) {
	products := &fakeProductRepo{
		getByID:      func(_ context.Context, _ string) (*domain.Product, error) { return testProduct, nil },
		reserveStock: func(_ context.Context, _ string, _ int) error { return nil },
	}
	orders := &fakeOrderRepo{
		create: func(_ context.Context, o *domain.Order) (*domain.Order, error) {
			o.ID = "order-1"
			return o, nil
		},
	}
	sender := &fakeSender{
		send: func(_ context.Context, _, _, _ string) error { return errors.New("smtp unavailable") },
	}

	uc := newOrderUsecase(orders, products, &fakeGateway{}, sender)
	if _, err := uc.Place(context.Background(), usecase.PlaceOrderInput{
		ProductID: "prod-1", Email: "a@x.com", Quantity: 1,
	}); err != nil {
		t.Fatalf("order failed because of email: %v", err)
	}
}

// ---- CreatePaymentIntent ----

func TestCreatePaymentIntent_OwnerMismatch_Forbidden(t *testing.T) {
	orders := &fakeOrderRepo{
		getByID: func(_ context.Context, _ string) (*domain.Order, error) {
			return &domain.Order{ID: "order-1", Email: "a@x.com", Status: domain.OrderPending}, nil
		},
	}

	uc := newOrderUsecase(orders, &fakeProductRepo{}, &fakeGateway{}, &fakeSender{})
	_, err := uc.CreatePaymentIntent(context.Background(), "order-1", "b@x.com")
	if !errors.Is(err, domain.ErrIdentityMismatch) {
		t.Errorf("want ErrIdentityMismatch, got %v", err)
	}
}

func TestCreatePaymentIntent_NonPendingOrder_Rejected(t *testing.T) {
	orders := &fakeOrderRepo{
		getByID: func(_ context.Context, _ string) (*domain.Order, error) {
			return &domain.Order{ID: "order-1", Email: "a@x.com", Status: domain.OrderShipped}, nil
		},
	}

	uc := newOrderUsecase(orders, &fakeProductRepo{}, &fakeGateway{}, &fakeSender{})
	_, err := uc.CreatePaymentIntent(context.Background(), "order-1", "a@x.com")
	if !errors.Is(err, domain.ErrOrderNotPayable) {
		t.Errorf("want ErrOrderNotPayable, got %v", err)
	}
}

func TestCreatePaymentIntent_StoresIntentID(t *testing.T) {
	var storedIntent string
	orders := &fakeOrderRepo{
		getByID: func(_ context.Context, _ string) (*domain.Order, error) {
			return &domain.Order{ID: "order-1", Email: "a@x.com", Status: domain.OrderPending, TotalCents: 5000}, nil
		},
		setPaymentIntent: func(_ context.Context, _, intentID string) error {
			storedIntent = intentID
			return nil
		},
	}
	gw := &fakeGateway{
		createIntent: func(_ context.Context, _ string, amount int64, _ string) (*payment.Intent, error) {
			if amount != 5000 {
				t.Errorf("amount = %d, want 5000", amount)
			}
			return &payment.Intent{ID: "pi_123", ClientSecret: "pi_123_secret"}, nil
		},
	}

	uc := newOrderUsecase(orders, &fakeProductRepo{}, gw, &fakeSender{})
	intent, err := uc.CreatePaymentIntent(context.Background(), "order-1", "a@x.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if intent.ID != "pi_123" || storedIntent != "pi_123" {
		t.Errorf("intent id = %q stored %q, want pi_123", intent.ID, storedIntent)
	}
}

// ---- Cancel ----

func TestCancel_NonPendingOrder_Rejected(t *testing.T) {
	orders := &fakeOrderRepo{
		getByID: func(_ context.Context, _ string) (*domain.Order, error) {
			return &domain.Order{ID: "order-1", Email: "a@x.com", Status: domain.OrderPaid}, nil
		},
	}

	uc := newOrderUsecase(orders, &fakeProductRepo{}, &fakeGateway{}, &fakeSender{})
	err := uc.Cancel(context.Background(), "order-1", "a@x.com")
	if !errors.Is(err, domain.ErrOrderNotCancelable) {
		t.Errorf("want ErrOrderNotCancelable, got %v", err)
	}
}

func TestCancel_RestoresStock(t *testing.T) {
	var restoredQty int
	orders := &fakeOrderRepo{
		getByID: func(_ context.Context, _ string) (*domain.Order, error) {
			return &domain.Order{
				ID: "order-1", ProductID: "prod-1", Email: "a@x.com",
				Quantity: 3, Status: domain.OrderPending,
			}, nil
		},
		updateStatus: func(_ context.Context, _ string, status domain.OrderStatus) error {
			if status != domain.OrderCancelled {
				t.Errorf("status = %q, want cancelled", status)
			}
			return nil
		},
	}
	products := &fakeProductRepo{
		restoreStock: func(_ context.Context, _ string, qty int) error {
			restoredQty = qty
			return nil
		},
	}

	uc := newOrderUsecase(orders, products, &fakeGateway{}, &fakeSender{})
	if err := uc.Cancel(context.Background(), "order-1", "a@x.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if restoredQty != 3 {
		t.Errorf("restored qty = %d, want 3", restoredQty)
	}
}
