package services

import (
	"context"
	"time"

	"ricemill-backend/internal/apperrors"
	"ricemill-backend/internal/models"
	"ricemill-backend/internal/timeutil"
)

type PurchaseService struct {
	Purchases PurchaseStore
	Suppliers SupplierStore
	Tx        TxRunner
}

func NewPurchaseService(purchases PurchaseStore, suppliers SupplierStore, tx TxRunner) *PurchaseService {
	return &PurchaseService{
		Purchases: purchases,
		Suppliers: suppliers,
		Tx:        tx,
	}
}

// resolveSupplier loads the supplier and rejects inactive ones. New purchases
// may only be associated with active suppliers; old purchases keep their link
// when a supplier is deactivated later.
func (s *PurchaseService) resolveSupplier(ctx context.Context, id int) (*models.Supplier, error) {
	supplier, err := s.Suppliers.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if supplier.Status != models.SupplierActive {
		return nil, apperrors.BusinessRule("supplier %d (%s) is inactive", supplier.ID, supplier.Name)
	}
	return supplier, nil
}

func validatePurchaseInputs(quantity int, weight, extraWeight, price, truckCost, laborCost, pelletCost float64) error {
	if quantity < 1 {
		return apperrors.Validation("quantity must be at least 1")
	}
	if weight < 0.01 {
		return apperrors.Validation("weight must be at least 0.01 kg")
	}
	if extraWeight < 0 {
		return apperrors.Validation("extra weight cannot be negative")
	}
	if price < 0.01 {
		return apperrors.Validation("price must be at least 0.01")
	}
	if truckCost < 0 || laborCost < 0 || pelletCost < 0 {
		return apperrors.Validation("costs cannot be negative")
	}
	return nil
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return timeutil.StartOfDay(timeutil.Now()), nil
	}
	t, err := timeutil.ParseInWIB(timeutil.DateLayout, value)
	if err != nil {
		return time.Time{}, apperrors.Validation("invalid date %q, expected YYYY-MM-DD", value)
	}
	return t, nil
}

func (s *PurchaseService) CreatePurchase(ctx context.Context, req *models.CreatePurchaseRequest) (*models.Purchase, error) {
	if err := validatePurchaseInputs(req.Quantity, req.Weight, req.ExtraWeight, req.Price,
		req.TruckCost, req.LaborCost, req.PelletCost); err != nil {
		return nil, err
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	purchase := &models.Purchase{
		Date:         date,
		SupplierID:   req.SupplierID,
		SupplierName: req.SupplierName,
		Quantity:     req.Quantity,
		Weight:       req.Weight,
		ExtraWeight:  req.ExtraWeight,
		Price:        req.Price,
		TruckCost:    req.TruckCost,
		LaborCost:    req.LaborCost,
		PelletCost:   req.PelletCost,
	}

	if req.SupplierID != nil {
		supplier, err := s.resolveSupplier(ctx, *req.SupplierID)
		if err != nil {
			return nil, err
		}
		purchase.SupplierName = supplier.Name
	}

	purchase.TotalCost = PurchaseTotalCost(purchase.Quantity, purchase.Weight, purchase.ExtraWeight,
		purchase.Price, purchase.TruckCost, purchase.LaborCost, purchase.PelletCost)

	if err := s.Purchases.Create(ctx, purchase); err != nil {
		return nil, err
	}
	invalidateDashboard(ctx)
	return purchase, nil
}

func (s *PurchaseService) GetPurchase(ctx context.Context, id int) (*models.Purchase, error) {
	return s.Purchases.Get(ctx, id)
}

func (s *PurchaseService) ListPurchases(ctx context.Context, filter models.PurchaseFilter) ([]*models.Purchase, error) {
	return s.Purchases.List(ctx, filter)
}

// UpdatePurchase merges the patch onto the stored purchase and recomputes
// total_cost from the merged field set. A changed supplier link is
// re-validated against existence and active status.
func (s *PurchaseService) UpdatePurchase(ctx context.Context, id int, req *models.UpdatePurchaseRequest) (*models.Purchase, error) {
	var purchase *models.Purchase

	err := s.Tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		purchase, err = s.Purchases.Get(ctx, id)
		if err != nil {
			return err
		}

		if req.Date != nil {
			date, err := parseDate(*req.Date)
			if err != nil {
				return err
			}
			purchase.Date = date
		}
		if req.SupplierID != nil {
			supplier, err := s.resolveSupplier(ctx, *req.SupplierID)
			if err != nil {
				return err
			}
			purchase.SupplierID = req.SupplierID
			purchase.SupplierName = supplier.Name
		}
		if req.SupplierName != nil {
			purchase.SupplierName = *req.SupplierName
		}
		if req.Quantity != nil {
			purchase.Quantity = *req.Quantity
		}
		if req.Weight != nil {
			purchase.Weight = *req.Weight
		}
		if req.ExtraWeight != nil {
			purchase.ExtraWeight = *req.ExtraWeight
		}
		if req.Price != nil {
			purchase.Price = *req.Price
		}
		if req.TruckCost != nil {
			purchase.TruckCost = *req.TruckCost
		}
		if req.LaborCost != nil {
			purchase.LaborCost = *req.LaborCost
		}
		if req.PelletCost != nil {
			purchase.PelletCost = *req.PelletCost
		}

		if err := validatePurchaseInputs(purchase.Quantity, purchase.Weight, purchase.ExtraWeight,
			purchase.Price, purchase.TruckCost, purchase.LaborCost, purchase.PelletCost); err != nil {
			return err
		}

		// Always recompute from scratch, never incrementally
		purchase.TotalCost = PurchaseTotalCost(purchase.Quantity, purchase.Weight, purchase.ExtraWeight,
			purchase.Price, purchase.TruckCost, purchase.LaborCost, purchase.PelletCost)

		return s.Purchases.Update(ctx, purchase)
	})
	if err != nil {
		return nil, err
	}
	invalidateDashboard(ctx)
	return purchase, nil
}

// DeletePurchase refuses to remove a purchase that still has sales recorded
// against it, so no sale is left pointing at a vanished cost basis.
func (s *PurchaseService) DeletePurchase(ctx context.Context, id int) error {
	err := s.Tx.InTx(ctx, func(ctx context.Context) error {
		if _, err := s.Purchases.Get(ctx, id); err != nil {
			return err
		}

		hasSales, err := s.Purchases.HasSales(ctx, id)
		if err != nil {
			return err
		}
		if hasSales {
			return apperrors.BusinessRule("purchase %d has associated sales and cannot be deleted", id)
		}

		return s.Purchases.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	invalidateDashboard(ctx)
	return nil
}
