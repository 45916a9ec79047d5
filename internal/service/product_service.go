package service

import (
	"context"
	"fmt"
	"strings"

	"inventory/internal/model"
	"inventory/internal/repository"

	"github.com/shopspring/decimal"
)

const defaultReorderLevel = 10

// DTOs
type ProductRequest struct {
	Name         string          `json:"name"`
	SKU          string          `json:"sku"`
	Category     string          `json:"category"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price" swaggertype:"number"`
	ReorderLevel *int            `json:"reorder_level"` // defaults to 10
	ImageURL     string          `json:"image_url"`
	Description  string          `json:"description"`
}

type ProductResponse struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	SKU          string  `json:"sku"`
	Category     string  `json:"category"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unit_price"`
	ReorderLevel int     `json:"reorder_level"`
	ImageURL     string  `json:"image_url"`
	Description  string  `json:"description"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

type StockMovementResponse struct {
	ID            uint   `json:"id"`
	ProductID     uint   `json:"product_id"`
	MovementType  string `json:"movement_type"`
	Quantity      int    `json:"quantity"`
	ReferenceType string `json:"reference_type"`
	ReferenceID   uint   `json:"reference_id"`
	Notes         string `json:"notes"`
	CreatedAt     string `json:"created_at"`
}

type ProductService interface {
	ListProducts(ctx context.Context, limit, offset int) ([]ProductResponse, error)
	GetProduct(ctx context.Context, id uint) (ProductResponse, error)
	CreateProduct(ctx context.Context, req ProductRequest) (ProductResponse, error)
	UpdateProduct(ctx context.Context, id uint, req ProductRequest) (ProductResponse, error)
	DeleteProduct(ctx context.Context, id uint) error
	ListMovements(ctx context.Context, productID uint, limit, offset int) ([]StockMovementResponse, error)
}

type productService struct {
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
}

func NewProductService(productRepo repository.ProductRepository, movementRepo repository.StockMovementRepository) ProductService {
	return &productService{
		productRepo:  productRepo,
		movementRepo: movementRepo,
	}
}

func (s *productService) ListProducts(ctx context.Context, limit, offset int) ([]ProductResponse, error) {
	products, err := s.productRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	res := make([]ProductResponse, 0, len(products))
	for i := range products {
		res = append(res, toProductResponse(&products[i]))
	}
	return res, nil
}

func (s *productService) GetProduct(ctx context.Context, id uint) (ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFoundErr(err) {
			return ProductResponse{}, notFoundError("Product not found")
		}
		return ProductResponse{}, fmt.Errorf("failed to get product: %w", err)
	}
	return toProductResponse(product), nil
}

func (s *productService) CreateProduct(ctx context.Context, req ProductRequest) (ProductResponse, error) {
	product, err := productFromRequest(req)
	if err != nil {
		return ProductResponse{}, err
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		if repository.IsDuplicateKeyErr(err) {
			return ProductResponse{}, conflictError(err, "Product with SKU %q already exists", product.SKU)
		}
		return ProductResponse{}, fmt.Errorf("failed to create product: %w", err)
	}
	return toProductResponse(product), nil
}

// UpdateProduct replaces every mutable field, then re-reads the row: a missing
// row after the update is reported as not found.
func (s *productService) UpdateProduct(ctx context.Context, id uint, req ProductRequest) (ProductResponse, error) {
	product, err := productFromRequest(req)
	if err != nil {
		return ProductResponse{}, err
	}

	if err := s.productRepo.Update(ctx, id, product); err != nil {
		if repository.IsDuplicateKeyErr(err) {
			return ProductResponse{}, conflictError(err, "Product with SKU %q already exists", product.SKU)
		}
		return ProductResponse{}, fmt.Errorf("failed to update product: %w", err)
	}
	return s.GetProduct(ctx, id)
}

// DeleteProduct succeeds when the row is already gone.
func (s *productService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		if repository.IsForeignKeyErr(err) {
			return conflictError(err, "Product is referenced by existing orders")
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

func (s *productService) ListMovements(ctx context.Context, productID uint, limit, offset int) ([]StockMovementResponse, error) {
	exists, err := s.productRepo.Exists(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to check product: %w", err)
	}
	if !exists {
		return nil, notFoundError("Product not found")
	}

	movements, err := s.movementRepo.ListByProduct(ctx, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock movements: %w", err)
	}

	res := make([]StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		res = append(res, StockMovementResponse{
			ID:            m.ID,
			ProductID:     m.ProductID,
			MovementType:  m.MovementType,
			Quantity:      m.Quantity,
			ReferenceType: m.ReferenceType,
			ReferenceID:   m.ReferenceID,
			Notes:         m.Notes,
			CreatedAt:     formatTimestamp(m.CreatedAt),
		})
	}
	return res, nil
}

func productFromRequest(req ProductRequest) (*model.Product, error) {
	name := strings.TrimSpace(req.Name)
	sku := strings.TrimSpace(req.SKU)
	if name == "" || sku == "" {
		return nil, validationError("Name and SKU are required")
	}
	if req.UnitPrice.IsNegative() {
		return nil, validationError("unit_price cannot be negative")
	}
	if !hasCents(req.UnitPrice) {
		return nil, validationError("unit_price cannot have more than 2 decimal places")
	}

	reorderLevel := defaultReorderLevel
	if req.ReorderLevel != nil {
		reorderLevel = *req.ReorderLevel
	}

	return &model.Product{
		Name:         name,
		SKU:          sku,
		Category:     strings.TrimSpace(req.Category),
		Quantity:     req.Quantity,
		UnitPrice:    req.UnitPrice,
		ReorderLevel: reorderLevel,
		ImageURL:     req.ImageURL,
		Description:  req.Description,
	}, nil
}

func toProductResponse(p *model.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		SKU:          p.SKU,
		Category:     p.Category,
		Quantity:     p.Quantity,
		UnitPrice:    money(p.UnitPrice),
		ReorderLevel: p.ReorderLevel,
		ImageURL:     p.ImageURL,
		Description:  p.Description,
		CreatedAt:    formatTimestamp(p.CreatedAt),
		UpdatedAt:    formatTimestamp(p.UpdatedAt),
	}
}
