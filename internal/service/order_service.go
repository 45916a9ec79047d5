package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"inventory/internal/logger"
	"inventory/internal/model"
	"inventory/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Outcomes reported to an OrderObserver.
const (
	OutcomeRecorded   = "recorded"
	OutcomeValidation = "validation_error"
	OutcomeNotFound   = "not_found"
	OutcomeConflict   = "conflict"
	OutcomeError      = "error"
)

// EventOrderRecorded names the event published for a committed order.
const EventOrderRecorded = "order_recorded"

var hundred = decimal.NewFromInt(100)

// PurchaseItemRequest is one purchase line.
type PurchaseItemRequest struct {
	ProductID uint             `json:"product_id" binding:"required"`
	Quantity  int              `json:"quantity" binding:"required,gt=0"`
	UnitPrice *decimal.Decimal `json:"unit_price" binding:"required" swaggertype:"number"`
}

// CreatePurchaseRequest is the body of POST /api/purchases.
type CreatePurchaseRequest struct {
	InvoiceNo       string                `json:"invoice_no" binding:"required"`
	SupplierID      uint                  `json:"supplier_id" binding:"required"`
	PurchaseDate    string                `json:"purchase_date" binding:"required" example:"2024-01-01"`
	Items           []PurchaseItemRequest `json:"items" binding:"required,min=1,dive"`
	TaxPercent      *decimal.Decimal      `json:"tax_percent" swaggertype:"number"`
	DiscountPercent *decimal.Decimal      `json:"discount_percent" swaggertype:"number"`
	Status          string                `json:"status"`
}

// SaleItemRequest is one sale line.
type SaleItemRequest struct {
	ProductID    uint             `json:"product_id" binding:"required"`
	Quantity     int              `json:"quantity" binding:"required,gt=0"`
	SellingPrice *decimal.Decimal `json:"selling_price" binding:"required" swaggertype:"number"`
	UnitPrice    *decimal.Decimal `json:"unit_price" swaggertype:"number"` // defaults to selling_price
}

// CreateSaleRequest is the body of POST /api/sales.
type CreateSaleRequest struct {
	InvoiceNo       string            `json:"invoice_no" binding:"required"`
	CustomerName    string            `json:"customer_name" binding:"required"`
	SaleDate        string            `json:"sale_date" binding:"required" example:"2024-01-01"`
	Items           []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
	DiscountPercent *decimal.Decimal  `json:"discount_percent" swaggertype:"number"`
	PaymentStatus   string            `json:"payment_status"`
}

type PurchaseItemResponse struct {
	ID          uint    `json:"id"`
	PurchaseID  uint    `json:"purchase_id"`
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TotalPrice  float64 `json:"total_price"`
}

// PurchaseResponse is a purchase header with the supplier name and, for a single purchase, its lines.
type PurchaseResponse struct {
	ID             uint                   `json:"id"`
	InvoiceNo      string                 `json:"invoice_no"`
	SupplierID     uint                   `json:"supplier_id"`
	SupplierName   string                 `json:"supplier_name"`
	PurchaseDate   string                 `json:"purchase_date"`
	Subtotal       float64                `json:"subtotal"`
	TaxAmount      float64                `json:"tax_amount"`
	DiscountAmount float64                `json:"discount_amount"`
	TotalAmount    float64                `json:"total_amount"`
	Status         string                 `json:"status"`
	CreatedAt      string                 `json:"created_at"`
	Items          []PurchaseItemResponse `json:"items,omitempty"`
}

type SaleItemResponse struct {
	ID           uint    `json:"id"`
	SaleID       uint    `json:"sale_id"`
	ProductID    uint    `json:"product_id"`
	ProductName  string  `json:"product_name"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unit_price"`
	SellingPrice float64 `json:"selling_price"`
	TotalPrice   float64 `json:"total_price"`
}

// SaleResponse is a sale header and, for a single sale, its lines.
type SaleResponse struct {
	ID             uint               `json:"id"`
	InvoiceNo      string             `json:"invoice_no"`
	CustomerName   string             `json:"customer_name"`
	SaleDate       string             `json:"sale_date"`
	Subtotal       float64            `json:"subtotal"`
	DiscountAmount float64            `json:"discount_amount"`
	TotalAmount    float64            `json:"total_amount"`
	PaymentStatus  string             `json:"payment_status"`
	CreatedAt      string             `json:"created_at"`
	Items          []SaleItemResponse `json:"items,omitempty"`
}

// OrderEvent is published after an order commits.
type OrderEvent struct {
	Event string         `json:"event"`
	Data  OrderEventData `json:"data"`
}

// OrderEventData identifies the order and the stock it moved.
type OrderEventData struct {
	Kind      string       `json:"kind"`
	ID        uint         `json:"id"`
	InvoiceNo string       `json:"invoice_no"`
	Movements []StockDelta `json:"movements"`
}

// StockDelta is the signed quantity change applied to one product.
type StockDelta struct {
	ProductID uint `json:"product_id"`
	Delta     int  `json:"delta"`
}

// EventPublisher must not block the caller.
type EventPublisher interface {
	Publish(v interface{})
}

// OrderObserver receives the outcome of every recording attempt.
type OrderObserver interface {
	OrderRecorded(kind, outcome string)
}

// LineAmount is the quantity and the price that counts toward the subtotal.
type LineAmount struct {
	Quantity int
	Price    decimal.Decimal
}

type OrderTotals struct {
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	TotalAmount    decimal.Decimal
}

// ComputeTotals derives the header amounts from the submitted lines. Tax and
// discount are rounded to cents so that the stored total always equals
// subtotal + tax - discount exactly.
func ComputeTotals(lines []LineAmount, taxPercent, discountPercent decimal.Decimal) OrderTotals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(taxPercent).Div(hundred).Round(2)
	discount := subtotal.Mul(discountPercent).Div(hundred).Round(2)

	return OrderTotals{
		Subtotal:       subtotal,
		TaxAmount:      tax,
		DiscountAmount: discount,
		TotalAmount:    subtotal.Add(tax).Sub(discount),
	}
}

type OrderService interface {
	CreatePurchase(ctx context.Context, req CreatePurchaseRequest) (uint, error)
	CreateSale(ctx context.Context, req CreateSaleRequest) (uint, error)
	ListPurchases(ctx context.Context, limit, offset int) ([]PurchaseResponse, error)
	GetPurchase(ctx context.Context, id uint) (PurchaseResponse, error)
	ListSales(ctx context.Context, limit, offset int) ([]SaleResponse, error)
	GetSale(ctx context.Context, id uint) (SaleResponse, error)
}

type orderService struct {
	txManager     repository.TransactionManager
	productRepo   repository.ProductRepository
	purchaseRepo  repository.PurchaseRepository
	saleRepo      repository.SaleRepository
	movementRepo  repository.StockMovementRepository
	publisher     EventPublisher
	observer      OrderObserver
	allowOversell bool
}

// NewOrderService builds the order recording engine. publisher and observer may be nil.
func NewOrderService(
	txManager repository.TransactionManager,
	productRepo repository.ProductRepository,
	purchaseRepo repository.PurchaseRepository,
	saleRepo repository.SaleRepository,
	movementRepo repository.StockMovementRepository,
	publisher EventPublisher,
	observer OrderObserver,
	allowOversell bool,
) OrderService {
	return &orderService{
		txManager:     txManager,
		productRepo:   productRepo,
		purchaseRepo:  purchaseRepo,
		saleRepo:      saleRepo,
		movementRepo:  movementRepo,
		publisher:     publisher,
		observer:      observer,
		allowOversell: allowOversell,
	}
}

func (s *orderService) CreatePurchase(ctx context.Context, req CreatePurchaseRequest) (uint, error) {
	purchase, err := buildPurchase(req)
	if err != nil {
		s.observe(model.MovementTypePurchase, err)
		return 0, err
	}

	deltas := make([]StockDelta, 0, len(purchase.Items))
	items := purchase.Items
	purchase.Items = nil

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.purchaseRepo.Create(txCtx, purchase); err != nil {
			return headerError(err, purchase.InvoiceNo, "Supplier not found")
		}

		for i := range items {
			item := &items[i]
			item.PurchaseID = purchase.ID
			if err := s.purchaseRepo.CreateItem(txCtx, item); err != nil {
				return lineError(err, item.ProductID)
			}
			if err := s.moveStock(txCtx, model.MovementTypePurchase, purchase.ID, item.ProductID, item.Quantity); err != nil {
				return err
			}
			deltas = append(deltas, StockDelta{ProductID: item.ProductID, Delta: item.Quantity})
		}
		return nil
	})
	s.observe(model.MovementTypePurchase, err)
	if err != nil {
		return 0, err
	}

	s.publish(ctx, model.MovementTypePurchase, purchase.ID, purchase.InvoiceNo, deltas)
	return purchase.ID, nil
}

func (s *orderService) CreateSale(ctx context.Context, req CreateSaleRequest) (uint, error) {
	sale, err := buildSale(req)
	if err != nil {
		s.observe(model.MovementTypeSale, err)
		return 0, err
	}

	deltas := make([]StockDelta, 0, len(sale.Items))
	items := sale.Items
	sale.Items = nil

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.saleRepo.Create(txCtx, sale); err != nil {
			return headerError(err, sale.InvoiceNo, "")
		}

		for i := range items {
			item := &items[i]
			item.SaleID = sale.ID
			if err := s.saleRepo.CreateItem(txCtx, item); err != nil {
				return lineError(err, item.ProductID)
			}
			if err := s.moveStock(txCtx, model.MovementTypeSale, sale.ID, item.ProductID, -item.Quantity); err != nil {
				return err
			}
			deltas = append(deltas, StockDelta{ProductID: item.ProductID, Delta: -item.Quantity})
		}
		return nil
	})
	s.observe(model.MovementTypeSale, err)
	if err != nil {
		return 0, err
	}

	s.publish(ctx, model.MovementTypeSale, sale.ID, sale.InvoiceNo, deltas)
	return sale.ID, nil
}

// moveStock applies delta with a single conditional UPDATE and appends the
// matching ledger row. A decrement below zero is refused unless oversell is on.
func (s *orderService) moveStock(ctx context.Context, kind string, orderID, productID uint, delta int) error {
	allowNegative := s.allowOversell || delta >= 0

	applied, err := s.productRepo.AdjustStock(ctx, productID, delta, allowNegative)
	if err != nil {
		return fmt.Errorf("failed to adjust stock of product %d: %w", productID, err)
	}
	if !applied {
		exists, err := s.productRepo.Exists(ctx, productID)
		if err != nil {
			return fmt.Errorf("failed to check product %d: %w", productID, err)
		}
		if !exists {
			return notFoundError("Product %d not found", productID)
		}
		return conflictError(nil, "Insufficient stock for product %d", productID)
	}

	movement := &model.StockMovement{
		ProductID:     productID,
		MovementType:  kind,
		Quantity:      delta,
		ReferenceType: kind,
		ReferenceID:   orderID,
	}
	if err := s.movementRepo.Create(ctx, movement); err != nil {
		return lineError(err, productID)
	}
	return nil
}

func (s *orderService) observe(kind string, err error) {
	if s.observer == nil {
		return
	}
	outcome := OutcomeRecorded
	switch {
	case err == nil:
	case errors.Is(err, ErrValidation):
		outcome = OutcomeValidation
	case errors.Is(err, ErrNotFound):
		outcome = OutcomeNotFound
	case errors.Is(err, ErrConflict):
		outcome = OutcomeConflict
	default:
		outcome = OutcomeError
	}
	s.observer.OrderRecorded(kind, outcome)
}

func (s *orderService) publish(ctx context.Context, kind string, id uint, invoiceNo string, deltas []StockDelta) {
	logger.FromContext(ctx).Info("order recorded",
		zap.String("kind", kind),
		zap.Uint("order_id", id),
		zap.String("invoice_no", invoiceNo),
		zap.Int("lines", len(deltas)),
	)
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(OrderEvent{
		Event: EventOrderRecorded,
		Data: OrderEventData{
			Kind:      kind,
			ID:        id,
			InvoiceNo: invoiceNo,
			Movements: deltas,
		},
	})
}

// headerError classifies a failed header insert. An empty fkMsg means the
// header has no foreign key and the error is passed through.
func headerError(err error, invoiceNo, fkMsg string) error {
	switch {
	case repository.IsDuplicateKeyErr(err):
		return conflictError(err, "Invoice number %q already exists", invoiceNo)
	case fkMsg != "" && repository.IsForeignKeyErr(err):
		return notFoundCause(err, "%s", fkMsg)
	}
	return fmt.Errorf("failed to create order header: %w", err)
}

func lineError(err error, productID uint) error {
	if repository.IsForeignKeyErr(err) {
		return notFoundCause(err, "Product %d not found", productID)
	}
	return fmt.Errorf("failed to record line for product %d: %w", productID, err)
}

// buildPurchase validates the request and computes every amount. It never
// touches storage.
func buildPurchase(req CreatePurchaseRequest) (*model.Purchase, error) {
	invoiceNo := strings.TrimSpace(req.InvoiceNo)
	if invoiceNo == "" {
		return nil, validationError("invoice_no is required")
	}
	if req.SupplierID == 0 {
		return nil, validationError("supplier_id is required")
	}
	date, err := parseDate("purchase_date", strings.TrimSpace(req.PurchaseDate))
	if err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, validationError("items must contain at least one line")
	}
	taxPercent, err := percent("tax_percent", req.TaxPercent, false)
	if err != nil {
		return nil, err
	}
	discountPercent, err := percent("discount_percent", req.DiscountPercent, true)
	if err != nil {
		return nil, err
	}

	items := make([]model.PurchaseItem, 0, len(req.Items))
	amounts := make([]LineAmount, 0, len(req.Items))
	for i, line := range req.Items {
		if err := validateLine(i, line.ProductID, line.Quantity); err != nil {
			return nil, err
		}
		price, err := linePrice(i, "unit_price", line.UnitPrice)
		if err != nil {
			return nil, err
		}
		items = append(items, model.PurchaseItem{
			ProductID:  line.ProductID,
			Quantity:   line.Quantity,
			UnitPrice:  price,
			TotalPrice: price.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2),
		})
		amounts = append(amounts, LineAmount{Quantity: line.Quantity, Price: price})
	}

	totals := ComputeTotals(amounts, taxPercent, discountPercent)
	return &model.Purchase{
		InvoiceNo:      invoiceNo,
		SupplierID:     req.SupplierID,
		PurchaseDate:   date,
		Subtotal:       totals.Subtotal,
		TaxAmount:      totals.TaxAmount,
		DiscountAmount: totals.DiscountAmount,
		TotalAmount:    totals.TotalAmount,
		Status:         statusOrDefault(req.Status),
		Items:          items,
	}, nil
}

func buildSale(req CreateSaleRequest) (*model.Sale, error) {
	invoiceNo := strings.TrimSpace(req.InvoiceNo)
	if invoiceNo == "" {
		return nil, validationError("invoice_no is required")
	}
	customer := strings.TrimSpace(req.CustomerName)
	if customer == "" {
		return nil, validationError("customer_name is required")
	}
	date, err := parseDate("sale_date", strings.TrimSpace(req.SaleDate))
	if err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, validationError("items must contain at least one line")
	}
	discountPercent, err := percent("discount_percent", req.DiscountPercent, true)
	if err != nil {
		return nil, err
	}

	items := make([]model.SaleItem, 0, len(req.Items))
	amounts := make([]LineAmount, 0, len(req.Items))
	for i, line := range req.Items {
		if err := validateLine(i, line.ProductID, line.Quantity); err != nil {
			return nil, err
		}
		selling, err := linePrice(i, "selling_price", line.SellingPrice)
		if err != nil {
			return nil, err
		}
		unit := selling
		if line.UnitPrice != nil {
			if unit, err = linePrice(i, "unit_price", line.UnitPrice); err != nil {
				return nil, err
			}
		}
		items = append(items, model.SaleItem{
			ProductID:    line.ProductID,
			Quantity:     line.Quantity,
			UnitPrice:    unit,
			SellingPrice: selling,
			TotalPrice:   selling.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2),
		})
		amounts = append(amounts, LineAmount{Quantity: line.Quantity, Price: selling})
	}

	totals := ComputeTotals(amounts, decimal.Zero, discountPercent)
	return &model.Sale{
		InvoiceNo:      invoiceNo,
		CustomerName:   customer,
		SaleDate:       date,
		Subtotal:       totals.Subtotal,
		DiscountAmount: totals.DiscountAmount,
		TotalAmount:    totals.TotalAmount,
		PaymentStatus:  statusOrDefault(req.PaymentStatus),
		Items:          items,
	}, nil
}

func validateLine(i int, productID uint, quantity int) error {
	if productID == 0 {
		return validationError("items[%d].product_id is required", i)
	}
	if quantity <= 0 {
		return validationError("items[%d].quantity must be greater than 0", i)
	}
	return nil
}

func linePrice(i int, field string, v *decimal.Decimal) (decimal.Decimal, error) {
	if v == nil {
		return decimal.Zero, validationError("items[%d].%s is required", i, field)
	}
	if v.IsNegative() {
		return decimal.Zero, validationError("items[%d].%s cannot be negative", i, field)
	}
	if !hasCents(*v) {
		return decimal.Zero, validationError("items[%d].%s cannot have more than 2 decimal places", i, field)
	}
	return *v, nil
}

func hasCents(v decimal.Decimal) bool {
	return v.Equal(v.Round(2))
}

// percent defaults to 0. Discounts are capped at 100 so a total never goes negative.
func percent(field string, v *decimal.Decimal, capped bool) (decimal.Decimal, error) {
	if v == nil {
		return decimal.Zero, nil
	}
	if v.IsNegative() {
		return decimal.Zero, validationError("%s cannot be negative", field)
	}
	if capped && v.GreaterThan(hundred) {
		return decimal.Zero, validationError("%s cannot exceed 100", field)
	}
	return *v, nil
}

func statusOrDefault(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.OrderStatusPending
	}
	return s
}

func (s *orderService) ListPurchases(ctx context.Context, limit, offset int) ([]PurchaseResponse, error) {
	purchases, err := s.purchaseRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}

	res := make([]PurchaseResponse, 0, len(purchases))
	for i := range purchases {
		res = append(res, toPurchaseResponse(&purchases[i]))
	}
	return res, nil
}

func (s *orderService) GetPurchase(ctx context.Context, id uint) (PurchaseResponse, error) {
	purchase, err := s.purchaseRepo.FindByIDWithItems(ctx, id)
	if err != nil {
		if repository.IsNotFoundErr(err) {
			return PurchaseResponse{}, notFoundError("Purchase not found")
		}
		return PurchaseResponse{}, fmt.Errorf("failed to get purchase: %w", err)
	}

	res := toPurchaseResponse(purchase)
	res.Items = make([]PurchaseItemResponse, 0, len(purchase.Items))
	for _, it := range purchase.Items {
		item := PurchaseItemResponse{
			ID:         it.ID,
			PurchaseID: it.PurchaseID,
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			UnitPrice:  money(it.UnitPrice),
			TotalPrice: money(it.TotalPrice),
		}
		if it.Product != nil {
			item.ProductName = it.Product.Name
		}
		res.Items = append(res.Items, item)
	}
	return res, nil
}

func (s *orderService) ListSales(ctx context.Context, limit, offset int) ([]SaleResponse, error) {
	sales, err := s.saleRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}

	res := make([]SaleResponse, 0, len(sales))
	for i := range sales {
		res = append(res, toSaleResponse(&sales[i]))
	}
	return res, nil
}

func (s *orderService) GetSale(ctx context.Context, id uint) (SaleResponse, error) {
	sale, err := s.saleRepo.FindByIDWithItems(ctx, id)
	if err != nil {
		if repository.IsNotFoundErr(err) {
			return SaleResponse{}, notFoundError("Sale not found")
		}
		return SaleResponse{}, fmt.Errorf("failed to get sale: %w", err)
	}

	res := toSaleResponse(sale)
	res.Items = make([]SaleItemResponse, 0, len(sale.Items))
	for _, it := range sale.Items {
		item := SaleItemResponse{
			ID:           it.ID,
			SaleID:       it.SaleID,
			ProductID:    it.ProductID,
			Quantity:     it.Quantity,
			UnitPrice:    money(it.UnitPrice),
			SellingPrice: money(it.SellingPrice),
			TotalPrice:   money(it.TotalPrice),
		}
		if it.Product != nil {
			item.ProductName = it.Product.Name
		}
		res.Items = append(res.Items, item)
	}
	return res, nil
}

func toPurchaseResponse(p *model.Purchase) PurchaseResponse {
	res := PurchaseResponse{
		ID:             p.ID,
		InvoiceNo:      p.InvoiceNo,
		SupplierID:     p.SupplierID,
		PurchaseDate:   formatDate(p.PurchaseDate),
		Subtotal:       money(p.Subtotal),
		TaxAmount:      money(p.TaxAmount),
		DiscountAmount: money(p.DiscountAmount),
		TotalAmount:    money(p.TotalAmount),
		Status:         p.Status,
		CreatedAt:      formatTimestamp(p.CreatedAt),
	}
	if p.Supplier != nil {
		res.SupplierName = p.Supplier.Name
	}
	return res
}

func toSaleResponse(s *model.Sale) SaleResponse {
	return SaleResponse{
		ID:             s.ID,
		InvoiceNo:      s.InvoiceNo,
		CustomerName:   s.CustomerName,
		SaleDate:       formatDate(s.SaleDate),
		Subtotal:       money(s.Subtotal),
		DiscountAmount: money(s.DiscountAmount),
		TotalAmount:    money(s.TotalAmount),
		PaymentStatus:  s.PaymentStatus,
		CreatedAt:      formatTimestamp(s.CreatedAt),
	}
}
