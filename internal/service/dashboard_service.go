package service

import (
	"context"
	"time"

	"go-inventory-api/internal/repository"
)

const (
	defaultChartDays = 7
	maxChartDays     = 365
)

type DashboardStats struct {
	repository.InventoryStats
	TotalProfit float64 `json:"total_profit"`
}

type DashboardService interface {
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
	// GetSalesChart returns one row per day with sales in the last days days, today included
	GetSalesChart(ctx context.Context, days int) ([]repository.DailySales, error)
}

type dashboardService struct {
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
}

func NewDashboardService(pRepo repository.ProductRepository, sRepo repository.SaleRepository) DashboardService {
	return &dashboardService{productRepo: pRepo, saleRepo: sRepo}
}

func (s *dashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	inventory, err := s.productRepo.GetInventoryStats(ctx)
	if err != nil {
		return nil, err
	}
	profit, err := s.saleRepo.SumProfit(ctx)
	if err != nil {
		return nil, err
	}
	return &DashboardStats{InventoryStats: *inventory, TotalProfit: profit}, nil
}

func (s *dashboardService) GetSalesChart(ctx context.Context, days int) ([]repository.DailySales, error) {
	if days <= 0 {
		days = defaultChartDays
	}
	if days > maxChartDays {
		days = maxChartDays
	}

	now := time.Now().UTC()
	endDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	startDate := endDate.AddDate(0, 0, -days)

	rows, err := s.saleRepo.GetDailySummary(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []repository.DailySales{}
	}
	return rows, nil
}
