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

type SupplierRequest struct {
	Name          string `json:"name" validate:"required,max=255"`
	ContactPerson string `json:"contactPerson" validate:"required,max=255"`
	Email         string `json:"email" validate:"omitempty,email"`
	Phone         string `json:"phone" validate:"required,max=50"`
	Address       string `json:"address"`
}

type SupplierService interface {
	CreateSupplier(ctx context.Context, req *SupplierRequest) (*model.Supplier, error)
	// GetSupplierByID returns nil, nil when the supplier does not exist
	GetSupplierByID(ctx context.Context, id uint) (*model.Supplier, error)
	GetAllSuppliers(ctx context.Context) ([]model.Supplier, error)
	UpdateSupplier(ctx context.Context, id uint, req *SupplierRequest) (*model.Supplier, error)
	// DeleteSupplier removes the supplier together with its products
	DeleteSupplier(ctx context.Context, id uint) error
}

type supplierService struct {
	db           *gorm.DB
	supplierRepo repository.SupplierRepository
	productRepo  repository.ProductRepository
	logger       *zap.Logger
}

func NewSupplierService(db *gorm.DB, sRepo repository.SupplierRepository, pRepo repository.ProductRepository, logger *zap.Logger) SupplierService {
	return &supplierService{
		db:           db,
		supplierRepo: sRepo,
		productRepo:  pRepo,
		logger:       logger.Named("supplier"),
	}
}

func (s *supplierService) CreateSupplier(ctx context.Context, req *SupplierRequest) (*model.Supplier, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	supplier := &model.Supplier{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
	}
	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, fmt.Errorf("create supplier: %w", err)
	}
	return supplier, nil
}

func (s *supplierService) GetSupplierByID(ctx context.Context, id uint) (*model.Supplier, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return supplier, err
}

func (s *supplierService) GetAllSuppliers(ctx context.Context) ([]model.Supplier, error) {
	return s.supplierRepo.FindAll(ctx)
}

func (s *supplierService) UpdateSupplier(ctx context.Context, id uint, req *SupplierRequest) (*model.Supplier, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSupplierNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("find supplier %d: %w", id, err)
	}

	supplier.Name = req.Name
	supplier.ContactPerson = req.ContactPerson
	supplier.Email = req.Email
	supplier.Phone = req.Phone
	supplier.Address = req.Address

	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, fmt.Errorf("update supplier %d: %w", id, err)
	}
	return supplier, nil
}

func (s *supplierService) DeleteSupplier(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.productRepo.WithTx(tx).DeleteBySupplier(ctx, id); err != nil {
			return fmt.Errorf("delete products of supplier %d: %w", id, err)
		}
		if err := s.supplierRepo.WithTx(tx).Delete(ctx, id); err != nil {
			return fmt.Errorf("delete supplier %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to delete supplier", zap.Uint("supplier_id", id), zap.Error(err))
		return err
	}

	s.logger.Info("supplier deleted", zap.Uint("supplier_id", id))
	return nil
}
