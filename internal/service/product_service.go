package service

import (
	"context"
	"errors"
	"fmt"

	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProductRequest is the create/update body. A nil SupplierID leaves the current supplier in place on update.
type ProductRequest struct {
	Name         string  `json:"name" validate:"required,max=255"`
	Description  string  `json:"description"`
	Price        float64 `json:"price" validate:"gte=0"`
	SellingPrice float64 `json:"sellingPrice" validate:"gte=0"`
	Stock        int     `json:"stock" validate:"gte=0"`
	SupplierID   *uint   `json:"supplierId"`
}

type ProductService interface {
	CreateProduct(ctx context.Context, req *ProductRequest) (*model.Product, error)
	// GetProductByID returns nil, nil when the product does not exist
	GetProductByID(ctx context.Context, id uint) (*model.Product, error)
	GetAllProducts(ctx context.Context) ([]model.Product, error)
	UpdateProduct(ctx context.Context, id uint, req *ProductRequest) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
	GetAllProductsForSale(ctx context.Context) ([]model.ProductSaleInfo, error)
}

type productService struct {
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
	broadcaster  Broadcaster
	logger       *zap.Logger
}

func NewProductService(pRepo repository.ProductRepository, sRepo repository.SupplierRepository, b Broadcaster, logger *zap.Logger) ProductService {
	return &productService{
		productRepo:  pRepo,
		supplierRepo: sRepo,
		broadcaster:  broadcasterOrNoop(b),
		logger:       logger.Named("product"),
	}
}

func (s *productService) CreateProduct(ctx context.Context, req *ProductRequest) (*model.Product, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		SellingPrice: req.SellingPrice,
		Stock:        req.Stock,
	}
	if err := s.applySupplier(ctx, product, req.SupplierID); err != nil {
		return nil, err
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.logger.Info("product created", zap.Uint("product_id", product.ID), zap.String("name", product.Name))
	s.broadcaster.Publish(newEvent(EventProductCreated, product))
	return product, nil
}

func (s *productService) GetProductByID(ctx context.Context, id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return product, err
}

func (s *productService) GetAllProducts(ctx context.Context) ([]model.Product, error) {
	return s.productRepo.FindAll(ctx)
}

func (s *productService) UpdateProduct(ctx context.Context, id uint, req *ProductRequest) (*model.Product, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("find product %d: %w", id, err)
	}

	oldStock := product.Stock
	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	product.SellingPrice = req.SellingPrice
	product.Stock = req.Stock
	if err := s.applySupplier(ctx, product, req.SupplierID); err != nil {
		return nil, err
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product %d: %w", id, err)
	}

	s.logger.Info("product updated",
		zap.Uint("product_id", product.ID),
		zap.Int("old_stock", oldStock),
		zap.Int("new_stock", product.Stock),
	)
	s.broadcaster.Publish(newEvent(EventProductUpdated, product))
	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	s.broadcaster.Publish(newEvent(EventProductDeleted, map[string]any{"id": id}))
	return nil
}

func (s *productService) GetAllProductsForSale(ctx context.Context) ([]model.ProductSaleInfo, error) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]model.ProductSaleInfo, 0, len(products))
	for i := range products {
		infos = append(infos, products[i].ToSaleInfo())
	}
	return infos, nil
}

func (s *productService) applySupplier(ctx context.Context, product *model.Product, supplierID *uint) error {
	if supplierID == nil {
		return nil
	}

	supplier, err := s.supplierRepo.FindByID(ctx, *supplierID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrSupplierNotFound(*supplierID)
	}
	if err != nil {
		return fmt.Errorf("find supplier %d: %w", *supplierID, err)
	}

	product.SupplierID = &supplier.ID
	product.Supplier = supplier
	return nil
}
