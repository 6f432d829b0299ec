package services

import (
	"context"
	"strings"

	"ricemill-backend/internal/apperrors"
	"ricemill-backend/internal/models"
)

type SupplierService struct {
	Suppliers SupplierStore
}

func NewSupplierService(suppliers SupplierStore) *SupplierService {
	return &SupplierService{Suppliers: suppliers}
}

func (s *SupplierService) CreateSupplier(ctx context.Context, req *models.CreateSupplierRequest) (*models.Supplier, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.Validation("supplier name is required")
	}

	status := req.Status
	if status == "" {
		status = models.SupplierActive
	}
	if status != models.SupplierActive && status != models.SupplierInactive {
		return nil, apperrors.Validation("status must be 'active' or 'inactive'")
	}

	supplier := &models.Supplier{
		Name:    name,
		Phone:   strings.TrimSpace(req.Phone),
		Address: strings.TrimSpace(req.Address),
		Status:  status,
	}
	if err := s.Suppliers.Create(ctx, supplier); err != nil {
		return nil, err
	}
	invalidateDashboard(ctx)
	return supplier, nil
}

func (s *SupplierService) GetSupplier(ctx context.Context, id int) (*models.Supplier, error) {
	return s.Suppliers.Get(ctx, id)
}

func (s *SupplierService) ListSuppliers(ctx context.Context, filter models.SupplierFilter) ([]*models.Supplier, error) {
	return s.Suppliers.List(ctx, filter)
}

func (s *SupplierService) UpdateSupplier(ctx context.Context, id int, req *models.UpdateSupplierRequest) (*models.Supplier, error) {
	supplier, err := s.Suppliers.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.Validation("supplier name cannot be empty")
		}
		supplier.Name = name
	}
	if req.Phone != nil {
		supplier.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		supplier.Address = strings.TrimSpace(*req.Address)
	}
	if req.Status != nil {
		if *req.Status != models.SupplierActive && *req.Status != models.SupplierInactive {
			return nil, apperrors.Validation("status must be 'active' or 'inactive'")
		}
		supplier.Status = *req.Status
	}

	if err := s.Suppliers.Update(ctx, supplier); err != nil {
		return nil, err
	}
	invalidateDashboard(ctx)
	return supplier, nil
}

// DeleteSupplier removes a supplier. Existing purchases keep their rows; the
// foreign key nulls out their supplier reference.
func (s *SupplierService) DeleteSupplier(ctx context.Context, id int) error {
	if err := s.Suppliers.Delete(ctx, id); err != nil {
		return err
	}
	invalidateDashboard(ctx)
	return nil
}

// SetStatus flips a supplier between active and inactive
func (s *SupplierService) SetStatus(ctx context.Context, id int, status string) (*models.Supplier, error) {
	if status != models.SupplierActive && status != models.SupplierInactive {
		return nil, apperrors.Validation("status must be 'active' or 'inactive'")
	}

	supplier, err := s.Suppliers.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	supplier.Status = status

	if err := s.Suppliers.Update(ctx, supplier); err != nil {
		return nil, err
	}
	invalidateDashboard(ctx)
	return supplier, nil
}
