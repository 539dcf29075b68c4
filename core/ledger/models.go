package ledger

import (
	"time"

	"inventory-guard/core/inventory"
)

// OrderModel is the GORM mapping of the orders table.
type OrderModel struct {
	ID        string    `gorm:"primaryKey;size:64"`
	SKU       string    `gorm:"column:sku;size:64;not null;index:idx_orders_sku_status,priority:1"`
	UserID    string    `gorm:"size:64;not null"`
	Quantity  int64     `gorm:"not null;default:1"`
	Status    string    `gorm:"size:32;not null;index:idx_orders_sku_status,priority:2;index:idx_orders_status_created,priority:1"`
	CreatedAt time.Time `gorm:"not null;index:idx_orders_status_created,priority:2"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName pins the table name.
func (OrderModel) TableName() string { return "orders" }

// ToDomain converts the row to an inventory.Order.
func (m OrderModel) ToDomain() inventory.Order {
	return inventory.Order{
		ID:        m.ID,
		SKU:       m.SKU,
		UserID:    m.UserID,
		Quantity:  m.Quantity,
		Status:    inventory.OrderStatus(m.Status),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// SaleProduct is a SKU taking part in a flash sale.
type SaleProduct struct {
	SKU          string `gorm:"column:sku;primaryKey;size:64"`
	InitialStock int64  `gorm:"not null"`
	Active       bool   `gorm:"not null;default:true;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName pins the table name.
func (SaleProduct) TableName() string { return "sale_products" }

// requiredColumns lists, per table, the columns the repository queries.
var requiredColumns = map[string][]string{
	"orders":        {"id", "sku", "user_id", "quantity", "status", "created_at", "updated_at"},
	"sale_products": {"sku", "initial_stock", "active"},
}
