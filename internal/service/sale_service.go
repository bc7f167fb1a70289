package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SaleItem is one requested line of a sale batch. A field that is absent or not
// a JSON number decodes to nil and rejects the batch.
type SaleItem struct {
	ProductID *uint `json:"id"`
	Quantity  *int  `json:"quantity"`
}

func (i *SaleItem) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	i.ProductID, i.Quantity = nil, nil
	if n, ok := raw["id"].(float64); ok && n >= 0 && n <= math.MaxUint32 {
		id := uint(n)
		i.ProductID = &id
	}
	if n, ok := raw["quantity"].(float64); ok && math.Abs(n) <= math.MaxInt32 {
		q := int(n)
		i.Quantity = &q
	}
	return nil
}

// NewSaleItem is a convenience constructor for callers that already hold typed values
func NewSaleItem(productID uint, quantity int) SaleItem {
	return SaleItem{ProductID: &productID, Quantity: &quantity}
}

type SaleService interface {
	// RecordSale sells every item in one transaction and returns the batch profit
	RecordSale(ctx context.Context, items []SaleItem) (float64, error)
	GetTotalProfit(ctx context.Context) (float64, error)
	// GetLatestProfitRecord returns nil when no record exists
	GetLatestProfitRecord(ctx context.Context) (*model.ProfitRecord, error)
	// ResetSales clears sale history and returns the reset timestamp. Stock is not restored.
	ResetSales(ctx context.Context) (time.Time, error)
	ListSales(ctx context.Context) ([]model.Sale, error)
}

type saleService struct {
	db          *gorm.DB
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
	profitRepo  repository.ProfitRecordRepository
	broadcaster Broadcaster
	logger      *zap.Logger
}

func NewSaleService(db *gorm.DB, pRepo repository.ProductRepository, sRepo repository.SaleRepository, prRepo repository.ProfitRecordRepository, b Broadcaster, logger *zap.Logger) SaleService {
	return &saleService{
		db:          db,
		productRepo: pRepo,
		saleRepo:    sRepo,
		profitRepo:  prRepo,
		broadcaster: broadcasterOrNoop(b),
		logger:      logger.Named("sale"),
	}
}

func (s *saleService) RecordSale(ctx context.Context, items []SaleItem) (float64, error) {
	batchProfit := decimal.Zero
	var record model.ProfitRecord
	var sold []model.Sale

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := s.productRepo.WithTx(tx)
		sales := s.saleRepo.WithTx(tx)
		now := time.Now().UTC()

		for _, item := range items {
			if item.ProductID == nil || item.Quantity == nil {
				return errSaleInvalid("missing product id or quantity")
			}
			productID, quantity := *item.ProductID, *item.Quantity
			if quantity <= 0 {
				return errSaleInvalid("quantity must be positive")
			}

			// Later lines see the decrement of earlier lines for the same product
			product, err := products.ReserveStock(ctx, productID, quantity)
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				return errSaleProductNotFound(productID)
			case errors.Is(err, repository.ErrInsufficientStock):
				return errSaleInsufficientStock(product.Name)
			case err != nil:
				return fmt.Errorf("reserve stock for product %d: %w", productID, err)
			}

			qty := decimal.NewFromInt(int64(quantity))
			sellingPrice := decimal.NewFromFloat(product.SellingPrice)
			lineProfit := sellingPrice.Sub(decimal.NewFromFloat(product.Price)).Mul(qty)

			sale := model.Sale{
				ProductName:     product.Name,
				QuantitySold:    quantity,
				TotalBillAmount: sellingPrice.Mul(qty).InexactFloat64(),
				ProfitEarned:    lineProfit.InexactFloat64(),
				Timestamp:       now,
			}
			if err := sales.Create(ctx, &sale); err != nil {
				return fmt.Errorf("save sale for product %d: %w", productID, err)
			}
			sold = append(sold, sale)
			batchProfit = batchProfit.Add(lineProfit)
		}

		// The snapshot covers every sale, including this batch
		total, err := sales.SumProfit(ctx)
		if err != nil {
			return fmt.Errorf("sum profit: %w", err)
		}
		record = model.ProfitRecord{Profit: total, Timestamp: now}
		if err := s.profitRepo.WithTx(tx).Create(ctx, &record); err != nil {
			return fmt.Errorf("save profit record: %w", err)
		}
		return nil
	})
	if err != nil {
		if _, ok := AsError(err); !ok {
			s.logger.Error("failed to record sale", zap.Int("items", len(items)), zap.Error(err))
		}
		return 0, err
	}

	profit := batchProfit.InexactFloat64()
	s.logger.Info("sale recorded",
		zap.Int("items", len(sold)),
		zap.Float64("batch_profit", profit),
		zap.Float64("total_profit", record.Profit),
	)
	s.broadcaster.Publish(newEvent(EventSaleRecorded, map[string]any{
		"sales":        sold,
		"batchProfit":  profit,
		"profitRecord": record,
	}))

	return profit, nil
}

func (s *saleService) GetTotalProfit(ctx context.Context) (float64, error) {
	return s.saleRepo.SumProfit(ctx)
}

func (s *saleService) GetLatestProfitRecord(ctx context.Context) (*model.ProfitRecord, error) {
	record, err := s.profitRepo.FindLatest(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return record, err
}

func (s *saleService) ResetSales(ctx context.Context) (time.Time, error) {
	now := time.Now().UTC()
	var deleted int64

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if deleted, err = s.saleRepo.WithTx(tx).DeleteAll(ctx); err != nil {
			return fmt.Errorf("delete sales: %w", err)
		}
		record := model.ProfitRecord{Profit: 0, Timestamp: now}
		if err := s.profitRepo.WithTx(tx).Create(ctx, &record); err != nil {
			return fmt.Errorf("save reset profit record: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to reset sales", zap.Error(err))
		return time.Time{}, err
	}

	s.logger.Info("sales reset", zap.Int64("deleted", deleted), zap.Time("reset_timestamp", now))
	s.broadcaster.Publish(newEvent(EventSalesReset, map[string]any{"resetTimestamp": now}))
	return now, nil
}

func (s *saleService) ListSales(ctx context.Context) ([]model.Sale, error) {
	return s.saleRepo.FindAll(ctx)
}
