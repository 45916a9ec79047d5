package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"inventory/internal/model"
	"inventory/internal/repository"

	"github.com/shopspring/decimal"
)

type SupplierRequest struct {
	Name               string          `json:"name"`
	ContactPerson      string          `json:"contact_person"`
	Email              string          `json:"email"`
	Phone              string          `json:"phone"`
	Address            string          `json:"address"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance" swaggertype:"number"`
}

type SupplierResponse struct {
	ID                 uint    `json:"id"`
	Name               string  `json:"name"`
	ContactPerson      string  `json:"contact_person"`
	Email              string  `json:"email"`
	Phone              string  `json:"phone"`
	Address            string  `json:"address"`
	OutstandingBalance float64 `json:"outstanding_balance"`
	CreatedAt          string  `json:"created_at"`
	UpdatedAt          string  `json:"updated_at"`
}

type SupplierService interface {
	ListSuppliers(ctx context.Context, limit, offset int) ([]SupplierResponse, error)
	GetSupplier(ctx context.Context, id uint) (SupplierResponse, error)
	CreateSupplier(ctx context.Context, req SupplierRequest) (SupplierResponse, error)
	UpdateSupplier(ctx context.Context, id uint, req SupplierRequest) (SupplierResponse, error)
	DeleteSupplier(ctx context.Context, id uint) error
}

type supplierService struct {
	supplierRepo repository.SupplierRepository
}

func NewSupplierService(supplierRepo repository.SupplierRepository) SupplierService {
	return &supplierService{supplierRepo: supplierRepo}
}

func (s *supplierService) ListSuppliers(ctx context.Context, limit, offset int) ([]SupplierResponse, error) {
	suppliers, err := s.supplierRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}

	res := make([]SupplierResponse, 0, len(suppliers))
	for i := range suppliers {
		res = append(res, toSupplierResponse(&suppliers[i]))
	}
	return res, nil
}

func (s *supplierService) GetSupplier(ctx context.Context, id uint) (SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFoundErr(err) {
			return SupplierResponse{}, notFoundError("Supplier not found")
		}
		return SupplierResponse{}, fmt.Errorf("failed to get supplier: %w", err)
	}
	return toSupplierResponse(supplier), nil
}

func (s *supplierService) CreateSupplier(ctx context.Context, req SupplierRequest) (SupplierResponse, error) {
	supplier, err := supplierFromRequest(req)
	if err != nil {
		return SupplierResponse{}, err
	}

	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		if repository.IsDuplicateKeyErr(err) {
			return SupplierResponse{}, conflictError(err, "Supplier with email %q already exists", supplier.Email)
		}
		return SupplierResponse{}, fmt.Errorf("failed to create supplier: %w", err)
	}
	return toSupplierResponse(supplier), nil
}

func (s *supplierService) UpdateSupplier(ctx context.Context, id uint, req SupplierRequest) (SupplierResponse, error) {
	supplier, err := supplierFromRequest(req)
	if err != nil {
		return SupplierResponse{}, err
	}

	if err := s.supplierRepo.Update(ctx, id, supplier); err != nil {
		if repository.IsDuplicateKeyErr(err) {
			return SupplierResponse{}, conflictError(err, "Supplier with email %q already exists", supplier.Email)
		}
		return SupplierResponse{}, fmt.Errorf("failed to update supplier: %w", err)
	}
	return s.GetSupplier(ctx, id)
}

func (s *supplierService) DeleteSupplier(ctx context.Context, id uint) error {
	if err := s.supplierRepo.Delete(ctx, id); err != nil {
		if repository.IsForeignKeyErr(err) {
			return conflictError(err, "Supplier is referenced by existing purchases")
		}
		return fmt.Errorf("failed to delete supplier: %w", err)
	}
	return nil
}

func supplierFromRequest(req SupplierRequest) (*model.Supplier, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" {
		return nil, validationError("Name and email are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, validationError("invalid email format")
	}
	if !hasCents(req.OutstandingBalance) {
		return nil, validationError("outstanding_balance cannot have more than 2 decimal places")
	}

	return &model.Supplier{
		Name:               name,
		ContactPerson:      strings.TrimSpace(req.ContactPerson),
		Email:              email,
		Phone:              strings.TrimSpace(req.Phone),
		Address:            req.Address,
		OutstandingBalance: req.OutstandingBalance,
	}, nil
}

func toSupplierResponse(s *model.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:                 s.ID,
		Name:               s.Name,
		ContactPerson:      s.ContactPerson,
		Email:              s.Email,
		Phone:              s.Phone,
		Address:            s.Address,
		OutstandingBalance: money(s.OutstandingBalance),
		CreatedAt:          formatTimestamp(s.CreatedAt),
		UpdatedAt:          formatTimestamp(s.UpdatedAt),
	}
}
