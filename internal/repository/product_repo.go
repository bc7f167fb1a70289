package repository

import (
	"context"
	"errors"

	"go-inventory-api/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrInsufficientStock is returned by ReserveStock when the product cannot cover the quantity
var ErrInsufficientStock = errors.New("insufficient stock")

// LowStockThreshold marks products that need restocking on the dashboard
const LowStockThreshold = 10

type ProductRepository interface {
	WithTx(tx *gorm.DB) ProductRepository
	Create(ctx context.Context, product *model.Product) error
	FindAll(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uint) error
	DeleteBySupplier(ctx context.Context, supplierID uint) error

	// ReserveStock locks the product row and decrements its stock by quantity.
	// The returned product reflects the stock after the decrement. On ErrInsufficientStock
	// the product is still returned (unchanged) so callers can name it in messages.
	ReserveStock(ctx context.Context, id uint, quantity int) (*model.Product, error)
	ReleaseStock(ctx context.Context, id uint, quantity int) error

	GetInventoryStats(ctx context.Context) (*InventoryStats, error)
}

// InventoryStats backs the dashboard overview
type InventoryStats struct {
	TotalProducts   int64   `json:"total_products"`
	LowStockCount   int64   `json:"low_stock_count"`
	OutOfStockCount int64   `json:"out_of_stock_count"`
	TotalValuation  float64 `json:"total_valuation"`
	TotalStockUnits int64   `json:"total_stock_units"`
	Threshold       int     `json:"low_stock_threshold"`
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepo{tx}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error
}

func (r *productRepo) FindAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Preload("Supplier").Order("id ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Preload("Supplier").First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(product).Error
}

func (r *productRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Product{}, "id = ?", id).Error
}

func (r *productRepo) DeleteBySupplier(ctx context.Context, supplierID uint) error {
	return r.db.WithContext(ctx).Where("supplier_id = ?", supplierID).Delete(&model.Product{}).Error
}

func (r *productRepo) ReserveStock(ctx context.Context, id uint, quantity int) (*model.Product, error) {
	var product model.Product
	// Pessimistic lock; a no-op on SQLite, which serialises writers anyway
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}

	if product.Stock < quantity {
		return &product, ErrInsufficientStock
	}

	// The guard in WHERE keeps stock non-negative even if the lock is not honoured
	result := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND stock >= ?", id, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return &product, ErrInsufficientStock
	}

	product.Stock -= quantity
	return &product, nil
}

func (r *productRepo) ReleaseStock(ctx context.Context, id uint, quantity int) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", quantity)).Error
}

func (r *productRepo) GetInventoryStats(ctx context.Context) (*InventoryStats, error) {
	stats := InventoryStats{Threshold: LowStockThreshold}
	db := r.db.WithContext(ctx).Model(&model.Product{})

	if err := db.Session(&gorm.Session{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).Where("stock < ?", LowStockThreshold).Count(&stats.LowStockCount).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).Where("stock = 0").Count(&stats.OutOfStockCount).Error; err != nil {
		return nil, err
	}

	var totals struct {
		Units     int64
		Valuation float64
	}
	if err := db.Session(&gorm.Session{}).
		Select("COALESCE(SUM(stock), 0) AS units, COALESCE(SUM(stock * selling_price), 0) AS valuation").
		Scan(&totals).Error; err != nil {
		return nil, err
	}
	stats.TotalStockUnits = totals.Units
	stats.TotalValuation = totals.Valuation

	return &stats, nil
}
