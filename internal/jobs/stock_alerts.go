package jobs

import (
	"context"
	"log"

	"ordermart/internal/repositories"

	"github.com/google/uuid"
)

// StockAlertService sweeps the product store for items at or below a stock
// threshold so operators can restock before orders start failing with
// insufficient-stock errors.
type StockAlertService struct {
	productRepo repositories.ProductRepository
}

type StockAlert struct {
	ProductID    uuid.UUID
	ProductName  string
	CurrentStock int
	Threshold    int
}

func NewStockAlertService(productRepo repositories.ProductRepository) *StockAlertService {
	return &StockAlertService{
		productRepo: productRepo,
	}
}

func (a *StockAlertService) CheckLowStock(ctx context.Context, threshold int) ([]StockAlert, error) {
	if threshold <= 0 {
		threshold = 10 // Default threshold
	}

	products, err := a.productRepo.ListBelowQuantity(ctx, threshold)
	if err != nil {
		log.Printf("Failed to list low-stock products: %v", err)
		return nil, err
	}

	var alerts []StockAlert
	for _, product := range products {
		alerts = append(alerts, StockAlert{
			ProductID:    product.ID,
			ProductName:  product.Name,
			CurrentStock: product.Quantity,
			Threshold:    threshold,
		})
	}

	return alerts, nil
}

func (a *StockAlertService) LogLowStockAlerts(alerts []StockAlert) {
	if len(alerts) == 0 {
		log.Println("No low stock alerts to log")
		return
	}

	log.Printf("%d products at or below stock threshold:", len(alerts))
	for _, alert := range alerts {
		log.Printf("- Product %q (%s) has %d units (threshold: %d)",
			alert.ProductName,
			alert.ProductID.String(),
			alert.CurrentStock,
			alert.Threshold)
	}
}

// ScheduledLowStockCheck is the entry point the background scheduler runs.
func (a *StockAlertService) ScheduledLowStockCheck(ctx context.Context, threshold int) error {
	alerts, err := a.CheckLowStock(ctx, threshold)
	if err != nil {
		return err
	}
	a.LogLowStockAlerts(alerts)
	return nil
}
