package services

import (
	"context"

	"ricemill-backend/internal/apperrors"
	"ricemill-backend/internal/metrics"
	"ricemill-backend/internal/models"
)

type SaleService struct {
	Sales     SaleStore
	Purchases PurchaseStore
	Tx        TxRunner
}

func NewSaleService(sales SaleStore, purchases PurchaseStore, tx TxRunner) *SaleService {
	return &SaleService{
		Sales:     sales,
		Purchases: purchases,
		Tx:        tx,
	}
}

func validateSaleInputs(quantity int, weight, extraWeight, price, pelletCost, fuelCost, laborCost float64) error {
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
	if pelletCost < 0 || fuelCost < 0 || laborCost < 0 {
		return apperrors.Validation("costs cannot be negative")
	}
	return nil
}

// checkInventory verifies that the sale fits in what remains of its linked
// purchase. The purchase row is locked for the surrounding transaction so a
// concurrent sale against the same purchase cannot oversell. excludeSaleID
// keeps a sale's own previous weight out of the sum on update.
func (s *SaleService) checkInventory(ctx context.Context, sale *models.Sale, excludeSaleID int) (*models.Purchase, error) {
	if sale.PurchaseID == nil {
		return nil, nil
	}

	purchase, err := s.Purchases.GetForUpdate(ctx, *sale.PurchaseID)
	if err != nil {
		return nil, err
	}

	sold, err := s.Sales.SumSoldWeight(ctx, purchase.ID, excludeSaleID)
	if err != nil {
		return nil, err
	}

	available := purchase.TotalWeight() - sold
	requested := sale.SoldWeight()
	if requested > available {
		metrics.SalesRejected.Inc()
		return nil, apperrors.BusinessRule(
			"insufficient inventory for purchase %d: available %.2f kg, requested %.2f kg",
			purchase.ID, available, requested)
	}
	return purchase, nil
}

func (s *SaleService) CreateSale(ctx context.Context, req *models.CreateSaleRequest) (*models.Sale, error) {
	if err := validateSaleInputs(req.Quantity, req.Weight, req.ExtraWeight, req.Price,
		req.PelletCost, req.FuelCost, req.LaborCost); err != nil {
		return nil, err
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	sale := &models.Sale{
		Date:        date,
		PurchaseID:  req.PurchaseID,
		Quantity:    req.Quantity,
		Weight:      req.Weight,
		ExtraWeight: req.ExtraWeight,
		Price:       req.Price,
		PelletCost:  req.PelletCost,
		FuelCost:    req.FuelCost,
		LaborCost:   req.LaborCost,
	}

	err = s.Tx.InTx(ctx, func(ctx context.Context) error {
		purchase, err := s.checkInventory(ctx, sale, 0)
		if err != nil {
			return err
		}

		derived := DeriveSale(sale, purchase)
		sale.NetProfit = derived.NetProfit
		sale.Rendement = derived.Rendement
		sale.TotalWeight = derived.SoldWeight
		sale.Revenue = derived.Revenue

		return s.Sales.Create(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	invalidateDashboard(ctx)
	return sale, nil
}

func (s *SaleService) GetSale(ctx context.Context, id int) (*models.Sale, error) {
	sale, err := s.Sales.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.fillReadDerived(sale)
	return sale, nil
}

func (s *SaleService) ListSales(ctx context.Context, filter models.SaleFilter) ([]*models.Sale, error) {
	sales, err := s.Sales.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, sale := range sales {
		s.fillReadDerived(sale)
	}
	return sales, nil
}

func (s *SaleService) fillReadDerived(sale *models.Sale) {
	sale.TotalWeight = Round2(sale.SoldWeight())
	sale.Revenue = Round2(sale.SoldWeight() * sale.Price)
}

// UpdateSale merges the patch onto the stored sale, re-checks the inventory
// invariant against the linked purchase with the sale's own old weight
// excluded, and recomputes the derived fields. A rejected update leaves the
// stored sale untouched.
func (s *SaleService) UpdateSale(ctx context.Context, id int, req *models.UpdateSaleRequest) (*models.Sale, error) {
	var sale *models.Sale

	err := s.Tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		sale, err = s.Sales.Get(ctx, id)
		if err != nil {
			return err
		}

		if req.Date != nil {
			date, err := parseDate(*req.Date)
			if err != nil {
				return err
			}
			sale.Date = date
		}
		if req.PurchaseID != nil {
			sale.PurchaseID = req.PurchaseID
		}
		if req.Quantity != nil {
			sale.Quantity = *req.Quantity
		}
		if req.Weight != nil {
			sale.Weight = *req.Weight
		}
		if req.ExtraWeight != nil {
			sale.ExtraWeight = *req.ExtraWeight
		}
		if req.Price != nil {
			sale.Price = *req.Price
		}
		if req.PelletCost != nil {
			sale.PelletCost = *req.PelletCost
		}
		if req.FuelCost != nil {
			sale.FuelCost = *req.FuelCost
		}
		if req.LaborCost != nil {
			sale.LaborCost = *req.LaborCost
		}

		if err := validateSaleInputs(sale.Quantity, sale.Weight, sale.ExtraWeight, sale.Price,
			sale.PelletCost, sale.FuelCost, sale.LaborCost); err != nil {
			return err
		}

		purchase, err := s.checkInventory(ctx, sale, sale.ID)
		if err != nil {
			return err
		}

		derived := DeriveSale(sale, purchase)
		sale.NetProfit = derived.NetProfit
		sale.Rendement = derived.Rendement
		sale.TotalWeight = derived.SoldWeight
		sale.Revenue = derived.Revenue

		return s.Sales.Update(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	invalidateDashboard(ctx)
	return sale, nil
}

func (s *SaleService) DeleteSale(ctx context.Context, id int) error {
	if _, err := s.Sales.Get(ctx, id); err != nil {
		return err
	}
	if err := s.Sales.Delete(ctx, id); err != nil {
		return err
	}
	invalidateDashboard(ctx)
	return nil
}
