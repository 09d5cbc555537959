package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"ordermart/internal/caching"
	"ordermart/internal/common"
	"ordermart/internal/models"
	"ordermart/internal/repositories"

	"github.com/google/uuid"
)

// OrderProductRequest is one requested line of an order: which product and
// how many units.
type OrderProductRequest struct {
	ID       uuid.UUID `json:"id"`
	Quantity int       `json:"quantity"`
}

// CreateOrderRequest is the full order-creation input.
type CreateOrderRequest struct {
	CustomerID uuid.UUID             `json:"customer_id"`
	Products   []OrderProductRequest `json:"products"`
}

// OrderServiceInterface defines the interface for order service operations
type OrderServiceInterface interface {
	CreateOrder(ctx context.Context, req *CreateOrderRequest) (*models.Order, error)
	GetOrderByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, limit, offset int) ([]*models.Order, error)
}

type orderService struct {
	orderRepo    repositories.OrderRepository
	productRepo  repositories.ProductRepository
	customerRepo repositories.CustomerRepository
	cacheService caching.CacheService
}

// NewOrderService creates a new order service instance
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, customerRepo repositories.CustomerRepository, cacheService caching.CacheService) OrderServiceInterface {
	return &orderService{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		cacheService: cacheService,
	}
}

// CreateOrder validates and persists a new order. The sequence is strict:
// resolve customer, batch-resolve products, validate each requested line
// against a working copy of stock, persist the order with its line items in
// one transaction, then apply the stock decrements. Unit prices are captured
// into the line items at this moment and never change afterwards.
func (s *orderService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*models.Order, error) {
	customer, err := s.customerRepo.GetByID(ctx, req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("look up customer: %w", err)
	}
	if customer == nil {
		return nil, fmt.Errorf("%w: %s", common.ErrCustomerNotFound, req.CustomerID)
	}

	if len(req.Products) == 0 {
		return nil, common.ErrEmptyOrder
	}

	ids := make([]uuid.UUID, 0, len(req.Products))
	for _, p := range req.Products {
		ids = append(ids, p.ID)
	}

	found, err := s.productRepo.FindAllByID(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("look up products: %w", err)
	}

	// Working copies of the fetched products, keyed by id. Decrements below
	// mutate these copies, so a product id that appears twice in one request
	// is validated against its already-reduced quantity.
	working := make(map[uuid.UUID]*models.Product, len(found))
	original := make(map[uuid.UUID]int, len(found))
	for _, p := range found {
		working[p.ID] = p
		original[p.ID] = p.Quantity
	}

	orderID := uuid.New()
	now := time.Now()
	var affected []uuid.UUID
	items := make([]*models.OrderProduct, 0, len(req.Products))

	for _, reqProduct := range req.Products {
		product, ok := working[reqProduct.ID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", common.ErrProductNotFound, reqProduct.ID)
		}

		if reqProduct.Quantity <= 0 {
			return nil, fmt.Errorf("%w: product %s", common.ErrInvalidQuantity, reqProduct.ID)
		}

		if reqProduct.Quantity > product.Quantity {
			return nil, fmt.Errorf("%w: product %q has %d on hand, %d requested",
				common.ErrInsufficientStock, product.Name, product.Quantity, reqProduct.Quantity)
		}

		if product.Quantity == original[product.ID] {
			affected = append(affected, product.ID)
		}
		product.Quantity -= reqProduct.Quantity

		items = append(items, &models.OrderProduct{
			ID:        uuid.New(),
			OrderID:   orderID,
			ProductID: product.ID,
			Price:     product.Price,
			Quantity:  reqProduct.Quantity,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	var total float64
	for _, item := range items {
		total += float64(item.Quantity) * item.Price
	}

	order := &models.Order{
		ID:            orderID,
		CustomerID:    customer.ID,
		Price:         total,
		Customer:      customer,
		OrderProducts: items,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}

	adjustments := make([]models.StockAdjustment, 0, len(affected))
	for _, id := range affected {
		adjustments = append(adjustments, models.StockAdjustment{
			ProductID: id,
			Previous:  original[id],
			Remaining: working[id].Quantity,
		})
	}

	// The order is already committed at this point. A failed decrement is
	// surfaced to the caller with the order id; nothing is rolled back.
	if err := s.productRepo.UpdateQuantities(ctx, adjustments); err != nil {
		return nil, fmt.Errorf("order %s created but stock update failed: %w", order.ID, err)
	}

	for _, id := range affected {
		if cacheErr := s.cacheService.DeleteProduct(ctx, id); cacheErr != nil {
			log.Printf("Failed to invalidate cache for product %s: %v", id.String(), cacheErr)
		}
	}

	return order, nil
}

// GetOrderByID retrieves an order with its customer and line items attached
func (s *orderService) GetOrderByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: %s", common.ErrOrderNotFound, orderID)
	}
	return order, nil
}

// ListOrders lists orders with pagination
func (s *orderService) ListOrders(ctx context.Context, limit, offset int) ([]*models.Order, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.orderRepo.List(ctx, limit, offset)
}
