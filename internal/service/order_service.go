package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type OrderRequest struct {
	ProductID uint `json:"productId" validate:"required"`
	UserID    uint `json:"userId" validate:"required"`
	Quantity  int  `json:"quantity" validate:"gt=0"`
}

type OrderService interface {
	CreateOrder(ctx context.Context, req *OrderRequest) (*model.Order, error)
	// GetOrderByID returns nil, nil when the order does not exist
	GetOrderByID(ctx context.Context, id uint) (*model.Order, error)
	GetAllOrders(ctx context.Context) ([]model.Order, error)
	// UpdateOrder moves the reserved stock from the old product/quantity to the new one
	UpdateOrder(ctx context.Context, id uint, req *OrderRequest) (*model.Order, error)
	// DeleteOrder returns the order's quantity to stock; a missing order is a no-op
	DeleteOrder(ctx context.Context, id uint) error
}

type orderService struct {
	db          *gorm.DB
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	broadcaster Broadcaster
	logger      *zap.Logger
}

func NewOrderService(db *gorm.DB, oRepo repository.OrderRepository, pRepo repository.ProductRepository, uRepo repository.UserRepository, b Broadcaster, logger *zap.Logger) OrderService {
	return &orderService{
		db:          db,
		orderRepo:   oRepo,
		productRepo: pRepo,
		userRepo:    uRepo,
		broadcaster: broadcasterOrNoop(b),
		logger:      logger.Named("order"),
	}
}

func (s *orderService) CreateOrder(ctx context.Context, req *OrderRequest) (*model.Order, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var order *model.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, user, err := s.reserve(ctx, tx, req)
		if err != nil {
			return err
		}

		order = &model.Order{
			OrderDate: time.Now().UTC(),
			Quantity:  req.Quantity,
			ProductID: product.ID,
			UserID:    user.ID,
		}
		if err := s.orderRepo.WithTx(tx).Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		order.Product = product
		order.User = user
		return nil
	})
	if err != nil {
		s.logFailure("failed to create order", err)
		return nil, err
	}

	s.logger.Info("order created",
		zap.Uint("order_id", order.ID),
		zap.Uint("product_id", order.ProductID),
		zap.Int("quantity", order.Quantity),
		zap.Int("stock_left", order.Product.Stock),
	)
	s.broadcaster.Publish(newEvent(EventOrderCreated, order))
	return order, nil
}

func (s *orderService) GetOrderByID(ctx context.Context, id uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return order, err
}

func (s *orderService) GetAllOrders(ctx context.Context) ([]model.Order, error) {
	return s.orderRepo.FindAll(ctx)
}

func (s *orderService) UpdateOrder(ctx context.Context, id uint, req *OrderRequest) (*model.Order, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var order *model.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders := s.orderRepo.WithTx(tx)

		existing, err := orders.FindByIDForUpdate(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound(id)
		}
		if err != nil {
			return fmt.Errorf("find order %d: %w", id, err)
		}

		if err := s.productRepo.WithTx(tx).ReleaseStock(ctx, existing.ProductID, existing.Quantity); err != nil {
			return fmt.Errorf("release stock for order %d: %w", id, err)
		}

		product, user, err := s.reserve(ctx, tx, req)
		if err != nil {
			return err
		}

		existing.ProductID = product.ID
		existing.UserID = user.ID
		existing.Quantity = req.Quantity
		if err := orders.Update(ctx, existing); err != nil {
			return fmt.Errorf("update order %d: %w", id, err)
		}
		existing.Product = product
		existing.User = user
		order = existing
		return nil
	})
	if err != nil {
		s.logFailure("failed to update order", err)
		return nil, err
	}

	s.logger.Info("order updated", zap.Uint("order_id", order.ID), zap.Int("quantity", order.Quantity))
	s.broadcaster.Publish(newEvent(EventOrderUpdated, order))
	return order, nil
}

func (s *orderService) DeleteOrder(ctx context.Context, id uint) error {
	deleted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders := s.orderRepo.WithTx(tx)

		existing, err := orders.FindByIDForUpdate(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("find order %d: %w", id, err)
		}

		if err := s.productRepo.WithTx(tx).ReleaseStock(ctx, existing.ProductID, existing.Quantity); err != nil {
			return fmt.Errorf("release stock for order %d: %w", id, err)
		}
		if err := orders.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete order %d: %w", id, err)
		}
		deleted = true
		return nil
	})
	if err != nil {
		s.logFailure("failed to delete order", err)
		return err
	}

	if deleted {
		s.logger.Info("order deleted", zap.Uint("order_id", id))
		s.broadcaster.Publish(newEvent(EventOrderDeleted, map[string]any{"id": id}))
	}
	return nil
}

// reserve resolves the product and user of req and takes the ordered quantity out of stock
func (s *orderService) reserve(ctx context.Context, tx *gorm.DB, req *OrderRequest) (*model.Product, *model.User, error) {
	products := s.productRepo.WithTx(tx)

	if _, err := products.FindByID(ctx, req.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrProductNotFound(req.ProductID)
		}
		return nil, nil, fmt.Errorf("find product %d: %w", req.ProductID, err)
	}

	user, err := s.userRepo.WithTx(tx).FindByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrUserNotFound(req.UserID)
		}
		return nil, nil, fmt.Errorf("find user %d: %w", req.UserID, err)
	}

	product, err := products.ReserveStock(ctx, req.ProductID, req.Quantity)
	switch {
	case errors.Is(err, repository.ErrInsufficientStock):
		return nil, nil, ErrOutOfStock(product.Name)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil, ErrProductNotFound(req.ProductID)
	case err != nil:
		return nil, nil, fmt.Errorf("reserve stock for product %d: %w", req.ProductID, err)
	}
	return product, user, nil
}

func (s *orderService) logFailure(msg string, err error) {
	if _, ok := AsError(err); ok {
		s.logger.Debug(msg, zap.Error(err))
		return
	}
	s.logger.Error(msg, zap.Error(err))
}
