package domain

import (
	"errors"
	"time"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderNotCancelable = errors.New("order can no longer be cancelled")
	ErrInsufficientStock  = errors.New("not enough stock available")
	ErrBelowMinOrder      = errors.New("quantity is below the minimum order quantity")
	ErrOrderNotPayable    = errors.New("order is not awaiting payment")
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderShipped   OrderStatus = "shipped"
	OrderCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID         string
	ProductID  string
	Email      string
	Quantity   int
	TotalCents int64

	Status          OrderStatus
	PaymentIntentID *string // nil until a payment intent has been created

	CreatedAt time.Time
	UpdatedAt time.Time
}
