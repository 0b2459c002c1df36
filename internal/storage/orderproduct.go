package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/galaydia/marketplace/internal/domain/models"
)

var ErrOrderProductNotFound = errors.New("order line item not found")

type OrderProductStorage interface {
	CreateOrderProductTx(ctx context.Context, tx *sql.Tx, orderID, productID int64) (*models.OrderProduct, error)
	ListOrderProducts(ctx context.Context) ([]*models.OrderProduct, error)
	GetOrderProductByID(ctx context.Context, id int64) (*models.OrderProduct, error)
	DeleteOrderProduct(ctx context.Context, id int64) error
	// DeleteOneByOrderAndProductTx removes a single line item for the
	// pair. Duplicate rows are individual cart units, so only one goes.
	DeleteOneByOrderAndProductTx(ctx context.Context, tx *sql.Tx, orderID, productID int64) error
	DeleteByOrderIDTx(ctx context.Context, tx *sql.Tx, orderID int64) error
	// ListCartProducts returns the products referenced by an order's
	// line items, one entry per line item.
	ListCartProducts(ctx context.Context, orderID int64) ([]*models.Product, error)
}

type orderProductRepository struct {
	db *sql.DB
}

func NewOrderProductRepository(db *sql.DB) OrderProductStorage {
	return &orderProductRepository{db: db}
}

func (r *orderProductRepository) CreateOrderProductTx(ctx context.Context, tx *sql.Tx, orderID, productID int64) (*models.OrderProduct, error) {
	item := &models.OrderProduct{OrderID: orderID, ProductID: productID}
	err := tx.QueryRowContext(ctx,
		"INSERT INTO order_products (order_id, product_id) VALUES ($1, $2) RETURNING id",
		orderID, productID,
	).Scan(&item.ID)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *orderProductRepository) ListOrderProducts(ctx context.Context) ([]*models.OrderProduct, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, order_id, product_id FROM order_products ORDER BY order_id, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.OrderProduct
	for rows.Next() {
		item := &models.OrderProduct{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *orderProductRepository) GetOrderProductByID(ctx context.Context, id int64) (*models.OrderProduct, error) {
	item := &models.OrderProduct{}
	row := r.db.QueryRowContext(ctx,
		"SELECT id, order_id, product_id FROM order_products WHERE id = $1", id)
	if err := row.Scan(&item.ID, &item.OrderID, &item.ProductID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderProductNotFound
		}
		return nil, err
	}
	return item, nil
}

func (r *orderProductRepository) DeleteOrderProduct(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM order_products WHERE id = $1", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderProductNotFound
	}
	return nil
}

func (r *orderProductRepository) DeleteOneByOrderAndProductTx(ctx context.Context, tx *sql.Tx, orderID, productID int64) error {
	res, err := tx.ExecContext(ctx,
		`DELETE FROM order_products
		 WHERE id = (
			SELECT id FROM order_products
			WHERE order_id = $1 AND product_id = $2
			ORDER BY id
			LIMIT 1
		 )`,
		orderID, productID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderProductNotFound
	}
	return nil
}

func (r *orderProductRepository) DeleteByOrderIDTx(ctx context.Context, tx *sql.Tx, orderID int64) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM order_products WHERE order_id = $1", orderID)
	return err
}

func (r *orderProductRepository) ListCartProducts(ctx context.Context, orderID int64) ([]*models.Product, error) {
	query := `
		SELECT p.id, p.customer_id, p.product_type_id, p.name, p.price, p.description, p.quantity, p.location, p.created_at
		FROM order_products op
		JOIN products p ON op.product_id = p.id
		WHERE op.order_id = $1
		ORDER BY op.id`
	rows, err := r.db.QueryContext(ctx, query, orderID)
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
