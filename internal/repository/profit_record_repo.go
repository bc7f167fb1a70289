package repository

import (
	"context"

	"go-inventory-api/internal/model"

	"gorm.io/gorm"
)

type ProfitRecordRepository interface {
	WithTx(tx *gorm.DB) ProfitRecordRepository
	Create(ctx context.Context, record *model.ProfitRecord) error
	FindLatest(ctx context.Context) (*model.ProfitRecord, error)
}

type profitRecordRepo struct {
	db *gorm.DB
}

func NewProfitRecordRepo(db *gorm.DB) ProfitRecordRepository {
	return &profitRecordRepo{db}
}

func (r *profitRecordRepo) WithTx(tx *gorm.DB) ProfitRecordRepository {
	return &profitRecordRepo{tx}
}

func (r *profitRecordRepo) Create(ctx context.Context, record *model.ProfitRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// FindLatest returns gorm.ErrRecordNotFound when no record exists yet
func (r *profitRecordRepo) FindLatest(ctx context.Context) (*model.ProfitRecord, error) {
	var record model.ProfitRecord
	if err := r.db.WithContext(ctx).Order("recorded_at DESC, id DESC").First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}
