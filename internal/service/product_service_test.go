package service

import (
	"context"
	"testing"

	"go-inventory-api/internal/model"
	"go-inventory-api/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductService_CreateProduct(t *testing.T) {
	t.Run("with supplier", func(t *testing.T) {
		f := newFixture(t)
		s := testutil.SeedSupplier(t, f.db, "Acme")

		p, err := f.productSvc.CreateProduct(context.Background(), &ProductRequest{
			Name: "Widget", Price: 10, SellingPrice: 15, Stock: 100, SupplierID: &s.ID,
		})
		require.NoError(t, err)
		assert.NotZero(t, p.ID)
		require.NotNil(t, p.Supplier)
		assert.Equal(t, "Acme", p.Supplier.Name)
		assert.Equal(t, []string{EventProductCreated}, f.events.Types())
	})

	t.Run("unknown supplier", func(t *testing.T) {
		f := newFixture(t)
		missing := uint(77)

		_, err := f.productSvc.CreateProduct(context.Background(), &ProductRequest{Name: "Widget", SupplierID: &missing})
		e, ok := AsError(err)
		require.True(t, ok)
		assert.Equal(t, KindNotFound, e.Kind)
		assert.Equal(t, "Supplier not found with id 77", e.Message)
		assert.Zero(t, countRows(t, f, &model.Product{}))
	})

	t.Run("validation", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.productSvc.CreateProduct(context.Background(), &ProductRequest{Name: "Widget", Stock: -1})
		e, ok := AsError(err)
		require.True(t, ok)
		assert.Equal(t, KindInvalidInput, e.Kind)
		assert.Equal(t, CodeValidationFailed, e.Code)
		assert.Contains(t, e.Message, "stock")
	})
}

func TestProductService_GetAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := testutil.SeedProduct(t, f.db, "Widget", 10, 15, 7)

	found, err := f.productSvc.GetProductByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget", found.Name)

	missing, err := f.productSvc.GetProductByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	infos, err := f.productSvc.GetAllProductsForSale(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.ProductSaleInfo{{ID: p.ID, Name: "Widget", SellingPrice: 15, Price: 10, Quantity: 7}}, infos)
}

func TestProductService_UpdateProduct(t *testing.T) {
	t.Run("overwrites fields and keeps supplier when omitted", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		s := testutil.SeedSupplier(t, f.db, "Acme")
		created, err := f.productSvc.CreateProduct(ctx, &ProductRequest{Name: "Widget", Price: 1, SellingPrice: 2, Stock: 3, SupplierID: &s.ID})
		require.NoError(t, err)

		updated, err := f.productSvc.UpdateProduct(ctx, created.ID, &ProductRequest{Name: "Gadget", Description: "new", Price: 4, SellingPrice: 6, Stock: 9})
		require.NoError(t, err)
		assert.Equal(t, "Gadget", updated.Name)

		reloaded, err := f.productSvc.GetProductByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "new", reloaded.Description)
		assert.Equal(t, 9, reloaded.Stock)
		require.NotNil(t, reloaded.SupplierID)
		assert.Equal(t, s.ID, *reloaded.SupplierID)
	})

	t.Run("missing product", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.productSvc.UpdateProduct(context.Background(), 5, &ProductRequest{Name: "Gadget"})
		e, ok := AsError(err)
		require.True(t, ok)
		assert.Equal(t, KindNotFound, e.Kind)
		assert.Equal(t, "Product not found with id 5", e.Message)
	})
}

func TestProductService_DeleteProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := testutil.SeedProduct(t, f.db, "Widget", 10, 15, 7)

	require.NoError(t, f.productSvc.DeleteProduct(ctx, p.ID))
	require.NoError(t, f.productSvc.DeleteProduct(ctx, p.ID))

	found, err := f.productSvc.GetProductByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestSupplierService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s, err := f.supplierSvc.CreateSupplier(ctx, &SupplierRequest{Name: "Acme", ContactPerson: "Wile", Phone: "555", Email: "wile@acme.test"})
	require.NoError(t, err)

	_, err = f.supplierSvc.CreateSupplier(ctx, &SupplierRequest{Name: "NoPhone", ContactPerson: "X"})
	assert.True(t, IsKind(err, KindInvalidInput))

	updated, err := f.supplierSvc.UpdateSupplier(ctx, s.ID, &SupplierRequest{Name: "Acme Corp", ContactPerson: "Wile", Phone: "556"})
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", updated.Name)
	assert.Empty(t, updated.Email)

	_, err = f.supplierSvc.UpdateSupplier(ctx, 999, &SupplierRequest{Name: "A", ContactPerson: "B", Phone: "C"})
	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, "Supplier not found with id 999", e.Message)

	all, err := f.supplierSvc.GetAllSuppliers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	missing, err := f.supplierSvc.GetSupplierByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSupplierService_DeleteCascadesToProducts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	acme := testutil.SeedSupplier(t, f.db, "Acme")
	other := testutil.SeedSupplier(t, f.db, "Other")

	_, err := f.productSvc.CreateProduct(ctx, &ProductRequest{Name: "A", SupplierID: &acme.ID})
	require.NoError(t, err)
	_, err = f.productSvc.CreateProduct(ctx, &ProductRequest{Name: "B", SupplierID: &other.ID})
	require.NoError(t, err)
	_, err = f.productSvc.CreateProduct(ctx, &ProductRequest{Name: "C"})
	require.NoError(t, err)

	require.NoError(t, f.supplierSvc.DeleteSupplier(ctx, acme.ID))

	products, err := f.productSvc.GetAllProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "B", products[0].Name)
	assert.Equal(t, "C", products[1].Name)

	gone, err := f.supplierSvc.GetSupplierByID(ctx, acme.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	// Deleting again is a no-op
	assert.NoError(t, f.supplierSvc.DeleteSupplier(ctx, acme.ID))
}
