package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"inventory/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTotals(t *testing.T) {
	lines := []LineAmount{
		{Quantity: 2, Price: decimal.RequireFromString("10.00")},
		{Quantity: 3, Price: decimal.RequireFromString("5.00")},
	}

	totals := ComputeTotals(lines, decimal.Zero, decimal.NewFromInt(10))
	assert.Equal(t, "35.00", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "0.00", totals.TaxAmount.StringFixed(2))
	assert.Equal(t, "3.50", totals.DiscountAmount.StringFixed(2))
	assert.Equal(t, "31.50", totals.TotalAmount.StringFixed(2))

	withTax := ComputeTotals(lines, decimal.RequireFromString("7.5"), decimal.NewFromInt(10))
	assert.Equal(t, "2.63", withTax.TaxAmount.StringFixed(2))
	assert.True(t, withTax.TotalAmount.Equal(withTax.Subtotal.Add(withTax.TaxAmount).Sub(withTax.DiscountAmount)))
}

func TestCreatePurchase_EndToEnd(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	supplier := f.supplier(t, "acme")
	product := f.product(t, "WM-001", 150, "5.00")

	id, err := f.orders.CreatePurchase(ctx, CreatePurchaseRequest{
		InvoiceNo:    "INV-1",
		SupplierID:   supplier.ID,
		PurchaseDate: "2024-01-01",
		Items:        []PurchaseItemRequest{{ProductID: product.ID, Quantity: 10, UnitPrice: dec("5.00")}},
		TaxPercent:   dec("10"),
	})
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.Equal(t, 160, f.quantity(t, product.ID))

	purchase, err := f.orders.GetPurchase(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 50.0, purchase.Subtotal)
	assert.Equal(t, 5.0, purchase.TaxAmount)
	assert.Equal(t, 0.0, purchase.DiscountAmount)
	assert.Equal(t, 55.0, purchase.TotalAmount)
	assert.Equal(t, "2024-01-01", purchase.PurchaseDate)
	assert.Equal(t, model.OrderStatusPending, purchase.Status)
	assert.Equal(t, "acme", purchase.SupplierName)
	require.Len(t, purchase.Items, 1)
	assert.Equal(t, "Product WM-001", purchase.Items[0].ProductName)
	assert.Equal(t, 50.0, purchase.Items[0].TotalPrice)

	movements, err := f.catalog.ListMovements(ctx, product.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, 10, movements[0].Quantity)
	assert.Equal(t, model.MovementTypePurchase, movements[0].MovementType)
	assert.Equal(t, id, movements[0].ReferenceID)

	events := f.publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, EventOrderRecorded, events[0].Event)
	assert.Equal(t, []StockDelta{{ProductID: product.ID, Delta: 10}}, events[0].Data.Movements)
	assert.Equal(t, []string{"purchase:recorded"}, f.observer.outcomes)
}

func TestCreatePurchase_MissingProductRollsBack(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	supplier := f.supplier(t, "acme")
	product := f.product(t, "OK-1", 7, "1.00")

	_, err := f.orders.CreatePurchase(ctx, CreatePurchaseRequest{
		InvoiceNo:    "INV-ATOMIC",
		SupplierID:   supplier.ID,
		PurchaseDate: "2024-01-01",
		Items: []PurchaseItemRequest{
			{ProductID: product.ID, Quantity: 5, UnitPrice: dec("1.00")},
			{ProductID: 999, Quantity: 1, UnitPrice: dec("1.00")},
		},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "Product 999 not found", err.Error())

	assert.Zero(t, f.count(t, &model.Purchase{}))
	assert.Zero(t, f.count(t, &model.PurchaseItem{}))
	assert.Zero(t, f.count(t, &model.StockMovement{}))
	assert.Equal(t, 7, f.quantity(t, product.ID))
	assert.Empty(t, f.publisher.Events())
	assert.Equal(t, []string{"purchase:not_found"}, f.observer.outcomes)
}

func TestCreatePurchase_UnknownSupplier(t *testing.T) {
	f := newFixture(t, true)
	product := f.product(t, "P", 0, "1.00")

	_, err := f.orders.CreatePurchase(context.Background(), CreatePurchaseRequest{
		InvoiceNo:    "INV-S",
		SupplierID:   42,
		PurchaseDate: "2024-01-01",
		Items:        []PurchaseItemRequest{{ProductID: product.ID, Quantity: 1, UnitPrice: dec("1")}},
	})
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "Supplier not found", err.Error())
	assert.Zero(t, f.count(t, &model.Purchase{}))
}

func TestCreatePurchase_DuplicateInvoice(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	supplier := f.supplier(t, "acme")
	product := f.product(t, "P", 0, "1.00")

	req := CreatePurchaseRequest{
		InvoiceNo:    "INV-DUP",
		SupplierID:   supplier.ID,
		PurchaseDate: "2024-01-01",
		Items:        []PurchaseItemRequest{{ProductID: product.ID, Quantity: 4, UnitPrice: dec("1")}},
	}
	_, err := f.orders.CreatePurchase(ctx, req)
	require.NoError(t, err)

	_, err = f.orders.CreatePurchase(ctx, req)
	assert.True(t, errors.Is(err, ErrConflict))
	assert.EqualValues(t, 1, f.count(t, &model.Purchase{}))
	assert.EqualValues(t, 1, f.count(t, &model.StockMovement{}))
	assert.Equal(t, 4, f.quantity(t, product.ID))
}

// failingTx fails the test if the engine opens a transaction.
type failingTx struct{ t *testing.T }

func (f failingTx) RunInTx(context.Context, func(context.Context) error) error {
	f.t.Fatal("storage must not be touched")
	return nil
}

func TestCreateOrder_ValidationBeforeStorage(t *testing.T) {
	svc := NewOrderService(failingTx{t}, nil, nil, nil, nil, nil, nil, true)
	ctx := context.Background()

	purchases := []CreatePurchaseRequest{
		{InvoiceNo: "A", SupplierID: 1, PurchaseDate: "2024-01-01"},
		{SupplierID: 1, PurchaseDate: "2024-01-01", Items: []PurchaseItemRequest{{ProductID: 1, Quantity: 1, UnitPrice: dec("1")}}},
		{InvoiceNo: "A", PurchaseDate: "2024-01-01", Items: []PurchaseItemRequest{{ProductID: 1, Quantity: 1, UnitPrice: dec("1")}}},
		{InvoiceNo: "A", SupplierID: 1, PurchaseDate: "01/01/2024", Items: []PurchaseItemRequest{{ProductID: 1, Quantity: 1, UnitPrice: dec("1")}}},
		{InvoiceNo: "A", SupplierID: 1, PurchaseDate: "2024-01-01", Items: []PurchaseItemRequest{{ProductID: 1, Quantity: 0, UnitPrice: dec("1")}}},
		{InvoiceNo: "A", SupplierID: 1, PurchaseDate: "2024-01-01", Items: []PurchaseItemRequest{{ProductID: 1, Quantity: 1}}},
		{InvoiceNo: "A", SupplierID: 1, PurchaseDate: "2024-01-01", Items: []PurchaseItemRequest{{ProductID: 1, Quantity: 1, UnitPrice: dec("-1")}}},
		{InvoiceNo: "A", SupplierID: 1, PurchaseDate: "2024-01-01", Items: []PurchaseItemRequest{{ProductID: 1, Quantity: 1, UnitPrice: dec("1")}}, DiscountPercent: dec("120")},
		{InvoiceNo: "A", SupplierID: 1, PurchaseDate: "2024-01-01", Items: []PurchaseItemRequest{{ProductID: 1, Quantity: 3, UnitPrice: dec("0.333")}}},
	}
	for i, req := range purchases {
		_, err := svc.CreatePurchase(ctx, req)
		assert.Truef(t, errors.Is(err, ErrValidation), "purchase case %d: %v", i, err)
	}

	sales := []CreateSaleRequest{
		{InvoiceNo: "S", CustomerName: "Jane", SaleDate: "2024-01-01"},
		{InvoiceNo: "S", SaleDate: "2024-01-01", Items: []SaleItemRequest{{ProductID: 1, Quantity: 1, SellingPrice: dec("1")}}},
		{InvoiceNo: "S", CustomerName: "Jane", SaleDate: "2024-01-01", Items: []SaleItemRequest{{ProductID: 1, Quantity: 1}}},
		{InvoiceNo: "S", CustomerName: "Jane", SaleDate: "2024-01-01", Items: []SaleItemRequest{{ProductID: 1, Quantity: 1, SellingPrice: dec("9.999")}}},
		{InvoiceNo: "S", CustomerName: "Jane", SaleDate: "2024-01-01", Items: []SaleItemRequest{{ProductID: 1, Quantity: 1, SellingPrice: dec("10"), UnitPrice: dec("7.125")}}},
	}
	for i, req := range sales {
		_, err := svc.CreateSale(ctx, req)
		assert.Truef(t, errors.Is(err, ErrValidation), "sale case %d: %v", i, err)
	}
}

func TestCreateSale_StockDecreasesAndTotals(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	a := f.product(t, "A", 20, "10.00")
	b := f.product(t, "B", 20, "5.00")

	id, err := f.orders.CreateSale(ctx, CreateSaleRequest{
		InvoiceNo:    "SAL-1",
		CustomerName: "John Smith",
		SaleDate:     "2024-02-10",
		Items: []SaleItemRequest{
			{ProductID: a.ID, Quantity: 2, SellingPrice: dec("10.00")},
			{ProductID: b.ID, Quantity: 3, SellingPrice: dec("5.00"), UnitPrice: dec("3.00")},
		},
		DiscountPercent: dec("10"),
		PaymentStatus:   "paid",
	})
	require.NoError(t, err)

	assert.Equal(t, 18, f.quantity(t, a.ID))
	assert.Equal(t, 17, f.quantity(t, b.ID))

	sale, err := f.orders.GetSale(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 35.0, sale.Subtotal)
	assert.Equal(t, 3.5, sale.DiscountAmount)
	assert.Equal(t, 31.5, sale.TotalAmount)
	assert.Equal(t, "paid", sale.PaymentStatus)
	require.Len(t, sale.Items, 2)
	assert.Equal(t, 10.0, sale.Items[0].UnitPrice, "unit price defaults to selling price")
	assert.Equal(t, 3.0, sale.Items[1].UnitPrice)
	assert.Equal(t, 15.0, sale.Items[1].TotalPrice)

	movements, err := f.catalog.ListMovements(ctx, a.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, -2, movements[0].Quantity)
	assert.Equal(t, model.MovementTypeSale, movements[0].ReferenceType)
}

func TestCreateSale_OversellPolicy(t *testing.T) {
	ctx := context.Background()
	req := func(productID uint) CreateSaleRequest {
		return CreateSaleRequest{
			InvoiceNo:    "SAL-OVER",
			CustomerName: "Jane",
			SaleDate:     "2024-02-10",
			Items:        []SaleItemRequest{{ProductID: productID, Quantity: 5, SellingPrice: dec("1")}},
		}
	}

	t.Run("allowed", func(t *testing.T) {
		f := newFixture(t, true)
		p := f.product(t, "LOW", 2, "1.00")
		_, err := f.orders.CreateSale(ctx, req(p.ID))
		require.NoError(t, err)
		assert.Equal(t, -3, f.quantity(t, p.ID))
	})

	t.Run("refused", func(t *testing.T) {
		f := newFixture(t, false)
		p := f.product(t, "LOW", 2, "1.00")
		_, err := f.orders.CreateSale(ctx, req(p.ID))
		assert.True(t, errors.Is(err, ErrConflict))
		assert.Equal(t, 2, f.quantity(t, p.ID))
		assert.Zero(t, f.count(t, &model.Sale{}))
		assert.Zero(t, f.count(t, &model.SaleItem{}))
		assert.Equal(t, []string{"sale:conflict"}, f.observer.outcomes)
	})
}

func TestCreateSale_ConcurrentOrdersKeepEveryDecrement(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	p := f.product(t, "HOT", 100, "1.00")

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.orders.CreateSale(ctx, CreateSaleRequest{
				InvoiceNo:    fmt.Sprintf("SAL-%03d", i),
				CustomerName: "Walk-in",
				SaleDate:     "2024-02-10",
				Items:        []SaleItemRequest{{ProductID: p.ID, Quantity: 3, SellingPrice: dec("1")}},
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, 40, f.quantity(t, p.ID))
	assert.EqualValues(t, workers, f.count(t, &model.StockMovement{}))
}

func TestListOrders(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	supplier := f.supplier(t, "acme")
	p := f.product(t, "P", 0, "1.00")

	for i, date := range []string{"2024-01-05", "2024-03-01", "2024-02-01"} {
		_, err := f.orders.CreatePurchase(ctx, CreatePurchaseRequest{
			InvoiceNo:    fmt.Sprintf("INV-%d", i),
			SupplierID:   supplier.ID,
			PurchaseDate: date,
			Items:        []PurchaseItemRequest{{ProductID: p.ID, Quantity: 1, UnitPrice: dec("2")}},
		})
		require.NoError(t, err)
	}

	purchases, err := f.orders.ListPurchases(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, purchases, 3)
	assert.Equal(t, "2024-03-01", purchases[0].PurchaseDate)
	assert.Equal(t, "2024-01-05", purchases[2].PurchaseDate)
	assert.Equal(t, "acme", purchases[0].SupplierName)
	assert.Empty(t, purchases[0].Items)

	_, err = f.orders.GetPurchase(ctx, 999)
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = f.orders.GetSale(ctx, 999)
	assert.True(t, errors.Is(err, ErrNotFound))

	sales, err := f.orders.ListSales(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, sales)
}
