package service

import (
	"context"
	"sync"
	"testing"

	"inventory/internal/database/dbtest"
	"inventory/internal/model"
	"inventory/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []OrderEvent
}

func (p *recordingPublisher) Publish(v interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, v.(OrderEvent))
}

func (p *recordingPublisher) Events() []OrderEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]OrderEvent(nil), p.events...)
}

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []string
}

func (o *recordingObserver) OrderRecorded(kind, outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, kind+":"+outcome)
}

type fixture struct {
	db        *gorm.DB
	products  repository.ProductRepository
	suppliers repository.SupplierRepository
	orders    OrderService
	catalog   ProductService
	publisher *recordingPublisher
	observer  *recordingObserver
}

func newFixture(t *testing.T, allowOversell bool) *fixture {
	t.Helper()
	db := dbtest.New(t)
	f := &fixture{
		db:        db,
		products:  repository.NewProductRepository(db),
		suppliers: repository.NewSupplierRepository(db),
		publisher: &recordingPublisher{},
		observer:  &recordingObserver{},
	}
	movements := repository.NewStockMovementRepository(db)
	f.orders = NewOrderService(
		repository.NewTransactionManager(db),
		f.products,
		repository.NewPurchaseRepository(db),
		repository.NewSaleRepository(db),
		movements,
		f.publisher,
		f.observer,
		allowOversell,
	)
	f.catalog = NewProductService(f.products, movements)
	return f
}

func (f *fixture) product(t *testing.T, sku string, qty int, price string) *model.Product {
	t.Helper()
	p := &model.Product{
		Name:         "Product " + sku,
		SKU:          sku,
		Category:     "Electronics",
		Quantity:     qty,
		UnitPrice:    decimal.RequireFromString(price),
		ReorderLevel: 10,
	}
	require.NoError(t, f.products.Create(context.Background(), p))
	return p
}

func (f *fixture) supplier(t *testing.T, name string) *model.Supplier {
	t.Helper()
	s := &model.Supplier{Name: name, Email: name + "@example.com"}
	require.NoError(t, f.suppliers.Create(context.Background(), s))
	return s
}

func (f *fixture) quantity(t *testing.T, id uint) int {
	t.Helper()
	p, err := f.products.FindByID(context.Background(), id)
	require.NoError(t, err)
	return p.Quantity
}

func (f *fixture) count(t *testing.T, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(m).Count(&n).Error)
	return n
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
