package repositories

import (
	"context"
	"errors"
	"fmt"

	"ordermart/internal/common"
	"ordermart/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetByName(ctx context.Context, name string) (*models.Product, error)
	FindAllByID(ctx context.Context, ids []uuid.UUID) ([]*models.Product, error)
	UpdateQuantities(ctx context.Context, adjustments []models.StockAdjustment) error
	List(ctx context.Context, limit, offset int) ([]*models.Product, error)
	ListBelowQuantity(ctx context.Context, threshold int) ([]*models.Product, error)
}

type productRepo struct {
	db Database
}

func NewProductRepo(db Database) ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, name, price, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, product.ID, product.Name, product.Price, product.Quantity)
	return err
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product := &models.Product{}
	query := `
		SELECT id, name, price, quantity, created_at, updated_at
		FROM products
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&product.ID, &product.Name, &product.Price, &product.Quantity, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return product, nil
}

// GetByName matches the exact product name. Returns (nil, nil) when absent.
func (r *productRepo) GetByName(ctx context.Context, name string) (*models.Product, error) {
	product := &models.Product{}
	query := `
		SELECT id, name, price, quantity, created_at, updated_at
		FROM products
		WHERE name = $1
	`
	err := r.db.QueryRow(ctx, query, name).Scan(&product.ID, &product.Name, &product.Price, &product.Quantity, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return product, nil
}

// FindAllByID resolves a batch of ids in one query. Only the subset that
// exists comes back, in no particular order.
func (r *productRepo) FindAllByID(ctx context.Context, ids []uuid.UUID) ([]*models.Product, error) {
	query := `
		SELECT id, name, price, quantity, created_at, updated_at
		FROM products
		WHERE id = ANY($1)
	`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product := &models.Product{}
		if err := rows.Scan(&product.ID, &product.Name, &product.Price, &product.Quantity, &product.CreatedAt, &product.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

// UpdateQuantities persists post-order stock levels, one compare-and-set per
// product inside a single transaction. A row whose quantity no longer equals
// the value the workflow validated against fails the whole batch with
// common.ErrStockConflict, so stock can never be driven negative by two
// orders racing on the same product.
func (r *productRepo) UpdateQuantities(ctx context.Context, adjustments []models.StockAdjustment) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE products
		SET quantity = $1, updated_at = NOW()
		WHERE id = $2 AND quantity = $3
	`
	for _, adj := range adjustments {
		tag, err := tx.Exec(ctx, query, adj.Remaining, adj.ProductID, adj.Previous)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: product %s", common.ErrStockConflict, adj.ProductID)
		}
	}

	return tx.Commit(ctx)
}

func (r *productRepo) List(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	query := `
		SELECT id, name, price, quantity, created_at, updated_at
		FROM products
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product := &models.Product{}
		if err := rows.Scan(&product.ID, &product.Name, &product.Price, &product.Quantity, &product.CreatedAt, &product.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

// ListBelowQuantity feeds the low-stock alert sweep.
func (r *productRepo) ListBelowQuantity(ctx context.Context, threshold int) ([]*models.Product, error) {
	query := `
		SELECT id, name, price, quantity, created_at, updated_at
		FROM products
		WHERE quantity <= $1
		ORDER BY quantity ASC
	`
	rows, err := r.db.Query(ctx, query, threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product := &models.Product{}
		if err := rows.Scan(&product.ID, &product.Name, &product.Price, &product.Quantity, &product.CreatedAt, &product.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}
