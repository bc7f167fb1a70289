package service

import (
	"context"
	"testing"
	"time"

	"go-inventory-api/internal/testutil"
	"go-inventory-api/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUserService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.userSvc.CreateUser(ctx, &CreateUserRequest{Name: "Ana", Email: " Ana@Example.com ", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.True(t, user.CheckPassword("secret123"))

	_, err = f.userSvc.CreateUser(ctx, &CreateUserRequest{Name: "Other", Email: "ana@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrEmailExists)

	_, err = f.userSvc.CreateUser(ctx, &CreateUserRequest{Name: "Short", Email: "short@example.com", Password: "123"})
	assert.True(t, IsKind(err, KindInvalidInput))

	found, err := f.userSvc.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", found.Name)

	missing, err := f.userSvc.GetUserByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	all, err := f.userSvc.GetAllUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUserService_ResetPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	testutil.SeedUser(t, f.db, "Ana", "ana@example.com")
	auth := NewAuthService(f.users, jwt.NewManager("secret", time.Hour, "test"), zap.NewNop())

	session, err := auth.Login(ctx, &LoginRequest{Email: "ana@example.com", Password: "secret123"})
	require.NoError(t, err)

	user, err := f.userSvc.ResetPassword(ctx, " ANA@example.com", "n3w-pass")
	require.NoError(t, err)
	assert.True(t, user.CheckPassword("n3w-pass"))

	_, err = auth.Authenticate(ctx, session.Token)
	assert.ErrorIs(t, err, ErrSessionReplaced)

	_, err = auth.Login(ctx, &LoginRequest{Email: "ana@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = auth.Login(ctx, &LoginRequest{Email: "ana@example.com", Password: "n3w-pass"})
	assert.NoError(t, err)

	_, err = f.userSvc.ResetPassword(ctx, "bob@example.com", "n3w-pass")
	assert.True(t, IsKind(err, KindNotFound))

	_, err = f.userSvc.ResetPassword(ctx, "ana@example.com", "123")
	assert.True(t, IsKind(err, KindInvalidInput))
}

func TestAuthService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := testutil.SeedUser(t, f.db, "Ana", "ana@example.com")
	auth := NewAuthService(f.users, jwt.NewManager("secret", time.Hour, "test"), zap.NewNop())

	t.Run("wrong password", func(t *testing.T) {
		_, err := auth.Login(ctx, &LoginRequest{Email: "ana@example.com", Password: "nope"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := auth.Login(ctx, &LoginRequest{Email: "bob@example.com", Password: "secret123"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("new login replaces the previous session", func(t *testing.T) {
		first, err := auth.Login(ctx, &LoginRequest{Email: "ana@example.com", Password: "secret123"})
		require.NoError(t, err)
		assert.Equal(t, u.ID, first.User.ID)

		authed, err := auth.Authenticate(ctx, first.Token)
		require.NoError(t, err)
		assert.Equal(t, u.ID, authed.ID)

		second, err := auth.Login(ctx, &LoginRequest{Email: "ana@example.com", Password: "secret123"})
		require.NoError(t, err)

		_, err = auth.Authenticate(ctx, first.Token)
		assert.ErrorIs(t, err, ErrSessionReplaced)
		_, err = auth.Authenticate(ctx, second.Token)
		assert.NoError(t, err)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := auth.Authenticate(ctx, "garbage")
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})
}

func TestDashboardService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := testutil.SeedProduct(t, f.db, "Widget", 10, 15, 12)
	testutil.SeedProduct(t, f.db, "Empty", 1, 2, 0)
	dashboard := NewDashboardService(f.products, f.sales)

	_, err := f.saleSvc.RecordSale(ctx, []SaleItem{NewSaleItem(p.ID, 4)})
	require.NoError(t, err)

	stats, err := dashboard.GetDashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalProducts)
	assert.Equal(t, int64(2), stats.LowStockCount)
	assert.Equal(t, int64(1), stats.OutOfStockCount)
	assert.InDelta(t, 120.0, stats.TotalValuation, 1e-9)
	assert.InDelta(t, 20.0, stats.TotalProfit, 1e-9)

	chart, err := dashboard.GetSalesChart(ctx, 0)
	require.NoError(t, err)
	require.Len(t, chart, 1)
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), chart[0].Day)
	assert.Equal(t, int64(4), chart[0].Quantity)
	assert.InDelta(t, 60.0, chart[0].Revenue, 1e-9)
}
