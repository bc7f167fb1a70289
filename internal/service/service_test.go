package service

import (
	"sync"
	"testing"

	"go-inventory-api/internal/repository"
	"go-inventory-api/internal/testutil"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingBroadcaster) Publish(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingBroadcaster) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]string, 0, len(r.events))
	for _, e := range r.events {
		types = append(types, e.Type)
	}
	return types
}

// fixture wires every service against one private sqlite database
type fixture struct {
	db          *gorm.DB
	events      *recordingBroadcaster
	products    repository.ProductRepository
	suppliers   repository.SupplierRepository
	sales       repository.SaleRepository
	profits     repository.ProfitRecordRepository
	orders      repository.OrderRepository
	users       repository.UserRepository
	saleSvc     SaleService
	productSvc  ProductService
	supplierSvc SupplierService
	orderSvc    OrderService
	userSvc     UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewSQLiteDB(t)
	log := zap.NewNop()
	f := &fixture{
		db:        db,
		events:    &recordingBroadcaster{},
		products:  repository.NewProductRepo(db),
		suppliers: repository.NewSupplierRepo(db),
		sales:     repository.NewSaleRepo(db),
		profits:   repository.NewProfitRecordRepo(db),
		orders:    repository.NewOrderRepo(db),
		users:     repository.NewUserRepo(db),
	}
	f.saleSvc = NewSaleService(db, f.products, f.sales, f.profits, f.events, log)
	f.productSvc = NewProductService(f.products, f.suppliers, f.events, log)
	f.supplierSvc = NewSupplierService(db, f.suppliers, f.products, log)
	f.orderSvc = NewOrderService(db, f.orders, f.products, f.users, f.events, log)
	f.userSvc = NewUserService(f.users, log)
	return f
}
