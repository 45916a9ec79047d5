package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"inventory/internal/database/dbtest"
	"inventory/internal/model"
	"inventory/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newProduct(sku string, qty int) *model.Product {
	return &model.Product{
		Name:         "Product " + sku,
		SKU:          sku,
		Category:     "Electronics",
		Quantity:     qty,
		UnitPrice:    decimal.RequireFromString("5.00"),
		ReorderLevel: 10,
	}
}

func TestProductRepository_DuplicateSKU(t *testing.T) {
	db := dbtest.New(t)
	repo := repository.NewProductRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newProduct("SKU-1", 1)))
	err := repo.Create(ctx, newProduct("SKU-1", 2))
	require.Error(t, err)
	assert.True(t, repository.IsDuplicateKeyErr(err))

	products, err := repo.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 1, products[0].Quantity)
}

func TestProductRepository_ListNewestFirst(t *testing.T) {
	db := dbtest.New(t)
	repo := repository.NewProductRepository(db)
	ctx := context.Background()

	for _, sku := range []string{"A", "B", "C"} {
		require.NoError(t, repo.Create(ctx, newProduct(sku, 0)))
	}

	products, err := repo.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "C", products[0].SKU)
	assert.Equal(t, "A", products[2].SKU)

	page, err := repo.List(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "A", page[0].SKU)
}

func TestProductRepository_AdjustStock(t *testing.T) {
	db := dbtest.New(t)
	repo := repository.NewProductRepository(db)
	ctx := context.Background()

	p := newProduct("ADJ", 3)
	require.NoError(t, repo.Create(ctx, p))

	ok, err := repo.AdjustStock(ctx, p.ID, -5, false)
	require.NoError(t, err)
	assert.False(t, ok, "conditional decrement must not apply below zero")

	ok, err = repo.AdjustStock(ctx, p.ID, -5, true)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, -2, got.Quantity)

	ok, err = repo.AdjustStock(ctx, 9999, 1, true)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProductRepository_DeleteReferencedProduct(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	products := repository.NewProductRepository(db)
	sales := repository.NewSaleRepository(db)

	p := newProduct("REF", 10)
	require.NoError(t, products.Create(ctx, p))

	sale := newSale("S-1", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "10.00")
	require.NoError(t, sales.Create(ctx, sale))
	require.NoError(t, sales.CreateItem(ctx, &model.SaleItem{
		SaleID: sale.ID, ProductID: p.ID, Quantity: 1,
		UnitPrice: decimal.NewFromInt(10), SellingPrice: decimal.NewFromInt(10), TotalPrice: decimal.NewFromInt(10),
	}))

	err := products.Delete(ctx, p.ID)
	require.Error(t, err)
	assert.True(t, repository.IsForeignKeyErr(err))

	exists, err := products.Exists(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSupplierRepository_ListByName(t *testing.T) {
	db := dbtest.New(t)
	repo := repository.NewSupplierRepository(db)
	ctx := context.Background()

	for _, name := range []string{"Zeta", "Alpha", "Mid"} {
		require.NoError(t, repo.Create(ctx, &model.Supplier{Name: name, Email: name + "@example.com"}))
	}
	err := repo.Create(ctx, &model.Supplier{Name: "Other", Email: "Alpha@example.com"})
	assert.True(t, repository.IsDuplicateKeyErr(err))

	suppliers, err := repo.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, suppliers, 3)
	assert.Equal(t, []string{"Alpha", "Mid", "Zeta"}, []string{suppliers[0].Name, suppliers[1].Name, suppliers[2].Name})

	_, err = repo.FindByID(ctx, 9999)
	assert.True(t, repository.IsNotFoundErr(err))
}

func newSale(invoice string, day time.Time, total string) *model.Sale {
	amount := decimal.RequireFromString(total)
	return &model.Sale{
		InvoiceNo:      invoice,
		CustomerName:   "Walk-in",
		SaleDate:       day,
		Subtotal:       amount,
		DiscountAmount: decimal.Zero,
		TotalAmount:    amount,
		PaymentStatus:  model.OrderStatusPending,
	}
}

func seedPurchase(t *testing.T, db *gorm.DB, invoice string, day time.Time, total string) (*model.Purchase, *model.Product) {
	t.Helper()
	ctx := context.Background()

	supplier := &model.Supplier{Name: "Supplier " + invoice, Email: invoice + "@example.com"}
	require.NoError(t, repository.NewSupplierRepository(db).Create(ctx, supplier))
	product := newProduct("P-"+invoice, 0)
	require.NoError(t, repository.NewProductRepository(db).Create(ctx, product))

	amount := decimal.RequireFromString(total)
	purchase := &model.Purchase{
		InvoiceNo:      invoice,
		SupplierID:     supplier.ID,
		PurchaseDate:   day,
		Subtotal:       amount,
		TaxAmount:      decimal.Zero,
		DiscountAmount: decimal.Zero,
		TotalAmount:    amount,
		Status:         model.OrderStatusPending,
	}
	repo := repository.NewPurchaseRepository(db)
	require.NoError(t, repo.Create(ctx, purchase))
	require.NoError(t, repo.CreateItem(ctx, &model.PurchaseItem{
		PurchaseID: purchase.ID, ProductID: product.ID, Quantity: 2,
		UnitPrice: amount.Div(decimal.NewFromInt(2)), TotalPrice: amount,
	}))
	return purchase, product
}

func TestPurchaseRepository_FindWithItems(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	purchase, product := seedPurchase(t, db, "INV-1", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "50.00")

	repo := repository.NewPurchaseRepository(db)
	got, err := repo.FindByIDWithItems(ctx, purchase.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Supplier)
	assert.Equal(t, "Supplier INV-1", got.Supplier.Name)
	require.Len(t, got.Items, 1)
	require.NotNil(t, got.Items[0].Product)
	assert.Equal(t, product.Name, got.Items[0].Product.Name)
	assert.True(t, got.Items[0].TotalPrice.Equal(decimal.NewFromInt(50)))

	_, err = repo.FindByIDWithItems(ctx, 9999)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestPurchaseRepository_UnknownSupplier(t *testing.T) {
	db := dbtest.New(t)
	err := repository.NewPurchaseRepository(db).Create(context.Background(), &model.Purchase{
		InvoiceNo:    "INV-X",
		SupplierID:   42,
		PurchaseDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:       model.OrderStatusPending,
	})
	require.Error(t, err)
	assert.True(t, repository.IsForeignKeyErr(err))
}

func TestPurchaseRepository_DeleteCascadesToItems(t *testing.T) {
	db := dbtest.New(t)
	purchase, _ := seedPurchase(t, db, "INV-C", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "10.00")

	require.NoError(t, db.Delete(&model.Purchase{}, purchase.ID).Error)

	var orphans int64
	require.NoError(t, db.Model(&model.PurchaseItem{}).Where("purchase_id = ?", purchase.ID).Count(&orphans).Error)
	assert.Zero(t, orphans)
}

func TestTransactionManager_RollsBack(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	txm := repository.NewTransactionManager(db)
	products := repository.NewProductRepository(db)

	boom := errors.New("boom")
	err := txm.RunInTx(ctx, func(txCtx context.Context) error {
		assert.True(t, repository.InTx(txCtx))
		require.NoError(t, products.Create(txCtx, newProduct("TX", 1)))
		// nested calls join the outer unit of work
		return txm.RunInTx(txCtx, func(context.Context) error { return boom })
	})
	assert.ErrorIs(t, err, boom)

	all, err := products.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestStockMovementRepository_ListByProduct(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	p := newProduct("MOV", 0)
	require.NoError(t, repository.NewProductRepository(db).Create(ctx, p))

	repo := repository.NewStockMovementRepository(db)
	require.NoError(t, repo.Create(ctx, &model.StockMovement{ProductID: p.ID, MovementType: model.MovementTypePurchase, Quantity: 5, ReferenceType: model.MovementTypePurchase, ReferenceID: 1}))
	require.NoError(t, repo.Create(ctx, &model.StockMovement{ProductID: p.ID, MovementType: model.MovementTypeSale, Quantity: -2, ReferenceType: model.MovementTypeSale, ReferenceID: 1}))

	err := repo.Create(ctx, &model.StockMovement{ProductID: 9999, MovementType: model.MovementTypeSale, Quantity: -1})
	assert.True(t, repository.IsForeignKeyErr(err))

	movements, err := repo.ListByProduct(ctx, p.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, movements, 2)
	assert.Equal(t, -2, movements[0].Quantity)
	assert.Equal(t, 5, movements[1].Quantity)
}

func TestDashboardRepository(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	today := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	seedPurchase(t, db, "INV-T", today, "55.00")
	seedPurchase(t, db, "INV-Y", today.AddDate(0, 0, -1), "20.00")

	sales := repository.NewSaleRepository(db)
	require.NoError(t, sales.Create(ctx, newSale("S-T1", today, "10.25")))
	require.NoError(t, sales.Create(ctx, newSale("S-T2", today, "4.75")))
	require.NoError(t, sales.Create(ctx, newSale("S-OLD", today.AddDate(0, -8, 0), "99.00")))

	// quantity 0 with reorder level 10 counts as low stock; this one does not
	healthy := newProduct("HEALTHY", 20)
	healthy.Category = "Furniture"
	require.NoError(t, repository.NewProductRepository(db).Create(ctx, healthy))
	uncategorized := newProduct("NOCAT", 4)
	uncategorized.Category = ""
	require.NoError(t, repository.NewProductRepository(db).Create(ctx, uncategorized))

	repo := repository.NewDashboardRepository(db)

	stats, err := repo.Stats(ctx, today, today.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.EqualValues(t, 4, stats.TotalProducts)
	assert.EqualValues(t, 3, stats.LowStockCount)
	assert.Equal(t, "15.00", stats.TodaySales.StringFixed(2))
	assert.Equal(t, "55.00", stats.TodayPurchases.StringFixed(2))

	empty, err := repo.Stats(ctx, today.AddDate(1, 0, 0), today.AddDate(1, 0, 1))
	require.NoError(t, err)
	assert.True(t, empty.TodaySales.IsZero())
	assert.True(t, empty.TodayPurchases.IsZero())

	amounts, err := repo.SaleAmountsSince(ctx, today.AddDate(0, -5, 0))
	require.NoError(t, err)
	require.Len(t, amounts, 2)
	assert.True(t, amounts[0].Date.Equal(today))

	valuation, err := repo.CategoryValuation(ctx)
	require.NoError(t, err)
	require.Len(t, valuation, 2)
	assert.Equal(t, "Electronics", valuation[0].Category)
	assert.Equal(t, "0.00", valuation[0].Value.StringFixed(2))
	assert.Equal(t, "Furniture", valuation[1].Category)
	assert.Equal(t, "100.00", valuation[1].Value.StringFixed(2))
}
