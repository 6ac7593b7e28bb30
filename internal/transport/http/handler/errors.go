package handler

const (
	errInternalServer  = "Internal server error"
	errForbidden       = "Forbidden Access"
	errProductNotFound = "Product not found"
	errOrderNotFound   = "Order not found"
	errUserNotFound    = "User not found"
	errNotCancelable   = "Order can no longer be cancelled"
	errNotPayable      = "Order is not awaiting payment"
	errOutOfStock      = "Not enough stock available"
	errBelowMinOrder   = "Quantity is below the minimum order quantity"
)
