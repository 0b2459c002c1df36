package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/galaydia/marketplace/internal/domain/models"
)

var ErrProductNotFound = errors.New("product not found")

// ProductFilter narrows ListProducts. When either filter is set, zero-stock
// products are hidden; a direct GetProductByID still returns them.
type ProductFilter struct {
	CategoryID *int64
	Location   *string
}

type ProductStorage interface {
	ListProducts(ctx context.Context, filter ProductFilter) ([]*models.Product, error)
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	GetProductByIDTx(ctx context.Context, tx *sql.Tx, id int64) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	UpdateProductQuantity(ctx context.Context, id int64, quantity int) error
	DeleteProduct(ctx context.Context, id int64) error
	// DecrementForOrderTx lowers each product's stock by the number of
	// line items referencing it on the given order, never below zero.
	DecrementForOrderTx(ctx context.Context, tx *sql.Tx, orderID int64) error
}

type productRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) ProductStorage {
	return &productRepository{db: db}
}

const productColumns = "id, customer_id, product_type_id, name, price, description, quantity, location, created_at"

func scanProduct(row interface{ Scan(...interface{}) error }) (*models.Product, error) {
	p := &models.Product{}
	err := row.Scan(&p.ID, &p.CustomerID, &p.ProductTypeID, &p.Name, &p.Price,
		&p.Description, &p.Quantity, &p.Location, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *productRepository) ListProducts(ctx context.Context, filter ProductFilter) ([]*models.Product, error) {
	query := "SELECT " + productColumns + " FROM products"

	var conds []string
	var args []interface{}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		conds = append(conds, fmt.Sprintf("product_type_id = $%d", len(args)))
	}
	if filter.Location != nil {
		args = append(args, *filter.Location)
		conds = append(conds, fmt.Sprintf("location = $%d", len(args)))
	}
	if len(conds) > 0 {
		// filtered browsing hides sold-out products
		conds = append(conds, "quantity > 0")
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY product_type_id, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = $1", id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *productRepository) GetProductByIDTx(ctx context.Context, tx *sql.Tx, id int64) (*models.Product, error) {
	row := tx.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = $1", id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO products (customer_id, product_type_id, name, price, description, quantity, location)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at`,
		product.CustomerID, product.ProductTypeID, product.Name, product.Price,
		product.Description, product.Quantity, product.Location,
	).Scan(&product.ID, &product.CreatedAt)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepository) UpdateProductQuantity(ctx context.Context, id int64, quantity int) error {
	res, err := r.db.ExecContext(ctx, "UPDATE products SET quantity = $1 WHERE id = $2", quantity, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *productRepository) DeleteProduct(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *productRepository) DecrementForOrderTx(ctx context.Context, tx *sql.Tx, orderID int64) error {
	query := `
		UPDATE products p
		SET quantity = GREATEST(p.quantity - li.cnt, 0)
		FROM (
			SELECT product_id, COUNT(*) AS cnt
			FROM order_products
			WHERE order_id = $1
			GROUP BY product_id
		) li
		WHERE p.id = li.product_id`
	if _, err := tx.ExecContext(ctx, query, orderID); err != nil {
		return fmt.Errorf("failed to decrement product quantities: %w", err)
	}
	return nil
}
