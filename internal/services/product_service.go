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

const productCacheTTL = 15 * time.Minute

type ProductService interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetByName(ctx context.Context, name string) (*models.Product, error)
	List(ctx context.Context, limit, offset int) ([]*models.Product, error)
}

type productService struct {
	productRepo  repositories.ProductRepository
	cacheService caching.CacheService
}

func NewProductService(productRepo repositories.ProductRepository, cacheService caching.CacheService) ProductService {
	return &productService{
		productRepo:  productRepo,
		cacheService: cacheService,
	}
}

// Create persists a new product. A product whose exact name already exists
// is rejected; negative price or quantity never reach the store.
func (s *productService) Create(ctx context.Context, product *models.Product) error {
	if err := common.ValidateRequiredString(product.Name, "name"); err != nil {
		return err
	}
	if err := common.ValidateNonNegativeFloat(product.Price, "price"); err != nil {
		return err
	}
	if err := common.ValidateNonNegativeInteger(product.Quantity, "quantity"); err != nil {
		return err
	}

	existing, err := s.productRepo.GetByName(ctx, product.Name)
	if err != nil {
		return fmt.Errorf("look up product by name: %w", err)
	}
	if existing != nil {
		return fmt.Errorf("%w: %q", common.ErrDuplicateProduct, product.Name)
	}

	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	if err := s.productRepo.Create(ctx, product); err != nil {
		return err
	}

	if cacheErr := s.cacheService.SetProduct(ctx, product, productCacheTTL); cacheErr != nil {
		log.Printf("Failed to cache product %s: %v", product.ID.String(), cacheErr)
	}

	return nil
}

// GetByID reads through the cache; misses fall back to the store and warm
// the cache on the way out.
func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	cached, err := s.cacheService.GetProduct(ctx, id)
	if err != nil {
		log.Printf("Cache lookup failed for product %s: %v", id.String(), err)
	}
	if cached != nil {
		return cached, nil
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: %s", common.ErrProductNotFound, id)
	}

	if cacheErr := s.cacheService.SetProduct(ctx, product, productCacheTTL); cacheErr != nil {
		log.Printf("Failed to cache product %s: %v", id.String(), cacheErr)
	}

	return product, nil
}

func (s *productService) GetByName(ctx context.Context, name string) (*models.Product, error) {
	return s.productRepo.GetByName(ctx, name)
}

func (s *productService) List(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.productRepo.List(ctx, limit, offset)
}
