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

const customerCacheTTL = 15 * time.Minute

type CustomerService interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	List(ctx context.Context, limit, offset int) ([]*models.Customer, error)
}

type customerService struct {
	customerRepo repositories.CustomerRepository
	cacheService caching.CacheService
}

func NewCustomerService(customerRepo repositories.CustomerRepository, cacheService caching.CacheService) CustomerService {
	return &customerService{
		customerRepo: customerRepo,
		cacheService: cacheService,
	}
}

// Create persists a new customer, rejecting a duplicate email address.
func (s *customerService) Create(ctx context.Context, customer *models.Customer) error {
	if err := common.ValidateRequiredString(customer.Name, "name"); err != nil {
		return err
	}
	if err := common.ValidateEmail(customer.Email, "email"); err != nil {
		return err
	}

	existing, err := s.customerRepo.GetByEmail(ctx, customer.Email)
	if err != nil {
		return fmt.Errorf("look up customer by email: %w", err)
	}
	if existing != nil {
		return fmt.Errorf("%w: %q", common.ErrDuplicateCustomer, customer.Email)
	}

	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	customer.CreatedAt = time.Now()
	customer.UpdatedAt = time.Now()

	return s.customerRepo.Create(ctx, customer)
}

func (s *customerService) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	cached, err := s.cacheService.GetCustomer(ctx, id)
	if err != nil {
		log.Printf("Cache lookup failed for customer %s: %v", id.String(), err)
	}
	if cached != nil {
		return cached, nil
	}

	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("%w: %s", common.ErrCustomerNotFound, id)
	}

	if cacheErr := s.cacheService.SetCustomer(ctx, customer, customerCacheTTL); cacheErr != nil {
		log.Printf("Failed to cache customer %s: %v", id.String(), cacheErr)
	}

	return customer, nil
}

func (s *customerService) List(ctx context.Context, limit, offset int) ([]*models.Customer, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.customerRepo.List(ctx, limit, offset)
}
