package inventory

import (
	"errors"
	"time"
)

// ErrNotFound is returned by the stores when an order, product or stock counter does not exist.
var ErrNotFound = errors.New("not found")

// ErrCorrupt is returned when a stored stock counter holds a value that is not a count.
var ErrCorrupt = errors.New("corrupt stock counter")

// OrderStatus is the lifecycle state of an order in the ledger.
type OrderStatus string

const (
	StatusPendingPayment OrderStatus = "PENDING_PAYMENT" // stock reserved, waiting for payment
	StatusPaid           OrderStatus = "PAID"
	StatusTimeout        OrderStatus = "TIMEOUT" // reservation expired and released
	StatusCancelled      OrderStatus = "CANCELLED"
)

// IsTerminal reports whether no further transition is allowed from the status.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case StatusPaid, StatusTimeout, StatusCancelled:
		return true
	default:
		return false
	}
}

// Order is a ledger entry holding a stock reservation for one SKU.
type Order struct {
	ID        string
	SKU       string
	UserID    string
	Quantity  int64
	Status    OrderStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StockCounter is the live stock of one SKU as tracked by the cache.
type StockCounter struct {
	Available int64 `json:"available"`
	Reserved  int64 `json:"reserved"`
}
