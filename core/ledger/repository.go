package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"inventory-guard/core/database"
	"inventory-guard/core/inventory"

	"gorm.io/gorm"
)

// Repository is the GORM implementation of the order ledger.
type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewRepository creates a ledger repository on top of an open connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Migrate creates or updates the ledger tables.
func (r *Repository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&OrderModel{}, &SaleProduct{})
}

// VerifySchema checks that every column the repository relies on exists.
func (r *Repository) VerifySchema(ctx context.Context) error {
	tables := make([]string, 0, len(requiredColumns))
	for table := range requiredColumns {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	var problems []string
	for _, table := range tables {
		missing, err := database.MissingColumns(r.db.WithContext(ctx), table, requiredColumns[table])
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			problems = append(problems, fmt.Sprintf("%s: missing %s", table, strings.Join(missing, ", ")))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("ledger schema mismatch: %s", strings.Join(problems, "; "))
	}
	return nil
}

// FindByID loads a single order.
func (r *Repository) FindByID(ctx context.Context, id string) (*inventory.Order, error) {
	var row OrderModel
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("order %s: %w", id, inventory.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order %s: %w", id, err)
	}
	order := row.ToDomain()
	return &order, nil
}

// FindByStatusOlderThan returns up to limit orders in the given status created at or before cutoff,
// oldest first.
func (r *Repository) FindByStatusOlderThan(ctx context.Context, status inventory.OrderStatus, cutoff time.Time, limit int) ([]inventory.Order, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("batch limit must be positive, got %d", limit)
	}

	var rows []OrderModel
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at <= ?", string(status), cutoff.UTC()).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query %s orders: %w", status, err)
	}

	orders := make([]inventory.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, row.ToDomain())
	}
	return orders, nil
}

// ConditionalSetStatus moves an order from expected to next in a single UPDATE.
// It returns false without error when the stored status no longer matches expected.
func (r *Repository) ConditionalSetStatus(ctx context.Context, id string, expected, next inventory.OrderStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&OrderModel{}).
		Where("id = ? AND status = ?", id, string(expected)).
		Updates(map[string]any{
			"status":     string(next),
			"updated_at": r.now(),
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to set order %s to %s: %w", id, next, res.Error)
	}
	return res.RowsAffected == 1, nil
}

// SumPaidQuantity returns the quantity committed by PAID orders of a SKU.
func (r *Repository) SumPaidQuantity(ctx context.Context, sku string) (int64, error) {
	return r.sumQuantity(ctx, sku, inventory.StatusPaid)
}

// SumPendingQuantity returns the quantity held by PENDING_PAYMENT orders of a SKU.
func (r *Repository) SumPendingQuantity(ctx context.Context, sku string) (int64, error) {
	return r.sumQuantity(ctx, sku, inventory.StatusPendingPayment)
}

func (r *Repository) sumQuantity(ctx context.Context, sku string, status inventory.OrderStatus) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&OrderModel{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("sku = ? AND status = ?", sku, string(status)).
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum %s quantity for %s: %w", status, sku, err)
	}
	return total, nil
}

// InitialStock returns the stock a SKU entered the sale with.
func (r *Repository) InitialStock(ctx context.Context, sku string) (int64, error) {
	var product SaleProduct
	err := r.db.WithContext(ctx).Where("sku = ?", sku).Take(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("sale product %s: %w", sku, inventory.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load sale product %s: %w", sku, err)
	}
	return product.InitialStock, nil
}

// ActiveProducts returns the SKUs with an active sale, sorted.
func (r *Repository) ActiveProducts(ctx context.Context) ([]string, error) {
	var skus []string
	err := r.db.WithContext(ctx).
		Model(&SaleProduct{}).
		Where("active = ?", true).
		Order("sku ASC").
		Pluck("sku", &skus).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active products: %w", err)
	}
	return skus, nil
}
