package repository

import (
	"context"
	"time"

	"go-inventory-api/internal/model"

	"gorm.io/gorm"
)

type SaleRepository interface {
	WithTx(tx *gorm.DB) SaleRepository
	Create(ctx context.Context, sale *model.Sale) error
	FindAll(ctx context.Context) ([]model.Sale, error)
	SumProfit(ctx context.Context) (float64, error)
	DeleteAll(ctx context.Context) (int64, error)
	GetDailySummary(ctx context.Context, from, to time.Time) ([]DailySales, error)
}

// DailySales is one row of the dashboard sales chart
type DailySales struct {
	Day      string  `gorm:"column:day" json:"date"`
	Quantity int64   `json:"quantity"`
	Revenue  float64 `json:"revenue"`
	Profit   float64 `json:"profit"`
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

func (r *saleRepo) WithTx(tx *gorm.DB) SaleRepository {
	return &saleRepo{tx}
}

func (r *saleRepo) Create(ctx context.Context, sale *model.Sale) error {
	return r.db.WithContext(ctx).Create(sale).Error
}

func (r *saleRepo) FindAll(ctx context.Context) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).Order("sold_at DESC, sale_id DESC").Find(&sales).Error
	return sales, err
}

func (r *saleRepo) SumProfit(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select("COALESCE(SUM(profit_earned), 0)").
		Scan(&total).Error
	return total, err
}

func (r *saleRepo) DeleteAll(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Sale{})
	return result.RowsAffected, result.Error
}

// GetDailySummary groups sales in [from, to) by calendar day (database time zone)
func (r *saleRepo) GetDailySummary(ctx context.Context, from, to time.Time) ([]DailySales, error) {
	var rows []DailySales
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select(`CAST(DATE(sold_at) AS TEXT) AS day,
			COALESCE(SUM(quantity_sold), 0) AS quantity,
			COALESCE(SUM(total_bill_amount), 0) AS revenue,
			COALESCE(SUM(profit_earned), 0) AS profit`).
		Where("sold_at >= ? AND sold_at < ?", from, to).
		Group("CAST(DATE(sold_at) AS TEXT)").
		Order("day ASC").
		Scan(&rows).Error
	return rows, err
}
