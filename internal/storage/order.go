package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/galaydia/marketplace/internal/domain/models"
)

var ErrOrderNotFound = errors.New("order not found")

// ErrOpenOrderExists is returned when inserting an open order collides with
// the partial unique index on (customer_id) WHERE payment_type_id IS NULL.
// Callers should re-read the open order and use that one.
var ErrOpenOrderExists = errors.New("customer already has an open order")

type OrderStorage interface {
	GetOpenOrderByCustomerID(ctx context.Context, customerID int64) (*models.Order, error)
	// LockOpenOrderTx reads the customer's open order FOR UPDATE so that
	// concurrent cart mutations serialize on the order row.
	LockOpenOrderTx(ctx context.Context, tx *sql.Tx, customerID int64) (*models.Order, error)
	CreateOrderTx(ctx context.Context, tx *sql.Tx, customerID int64) (*models.Order, error)
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
	LockOrderByIDTx(ctx context.Context, tx *sql.Tx, id int64) (*models.Order, error)
	ListOrdersByCustomerID(ctx context.Context, customerID int64) ([]*models.Order, error)
	ListCompletedOrdersByCustomerID(ctx context.Context, customerID int64) ([]*models.Order, error)
	AttachPaymentTypeTx(ctx context.Context, tx *sql.Tx, orderID, paymentTypeID int64) error
	DeleteOrderTx(ctx context.Context, tx *sql.Tx, id int64) error
}

type orderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) OrderStorage {
	return &orderRepository{db: db}
}

const orderColumns = "id, customer_id, payment_type_id, created_at"

func scanOrder(row interface{ Scan(...interface{}) error }) (*models.Order, error) {
	order := &models.Order{}
	var paymentTypeID sql.NullInt64
	if err := row.Scan(&order.ID, &order.CustomerID, &paymentTypeID, &order.CreatedAt); err != nil {
		return nil, err
	}
	if paymentTypeID.Valid {
		order.PaymentTypeID = &paymentTypeID.Int64
	}
	return order, nil
}

func (r *orderRepository) GetOpenOrderByCustomerID(ctx context.Context, customerID int64) (*models.Order, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE customer_id = $1 AND payment_type_id IS NULL", customerID)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) LockOpenOrderTx(ctx context.Context, tx *sql.Tx, customerID int64) (*models.Order, error) {
	row := tx.QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE customer_id = $1 AND payment_type_id IS NULL FOR UPDATE", customerID)
	order, err := scanOrder(row)
	if err != nil {
		if isLockNotAvailable(err) {
			return nil, fmt.Errorf("order row is locked, please try again: %w", err)
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// CreateOrderTx inserts the customer's open order. The insert runs under a
// savepoint: a unique violation on the one-open-per-customer index aborts
// only the savepoint, not the enclosing transaction, so the caller can
// re-read the order a concurrent request created.
func (r *orderRepository) CreateOrderTx(ctx context.Context, tx *sql.Tx, customerID int64) (*models.Order, error) {
	if _, err := tx.ExecContext(ctx, "SAVEPOINT create_open_order"); err != nil {
		return nil, err
	}

	order := &models.Order{CustomerID: customerID}
	err := tx.QueryRowContext(ctx,
		"INSERT INTO orders (customer_id) VALUES ($1) RETURNING id, created_at",
		customerID,
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			if _, rbErr := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT create_open_order"); rbErr != nil {
				return nil, rbErr
			}
			return nil, ErrOpenOrderExists
		}
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, "RELEASE SAVEPOINT create_open_order"); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id = $1", id)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) LockOrderByIDTx(ctx context.Context, tx *sql.Tx, id int64) (*models.Order, error) {
	row := tx.QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id = $1 FOR UPDATE", id)
	order, err := scanOrder(row)
	if err != nil {
		if isLockNotAvailable(err) {
			return nil, fmt.Errorf("order row is locked, please try again: %w", err)
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) ListOrdersByCustomerID(ctx context.Context, customerID int64) ([]*models.Order, error) {
	return r.listOrders(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE customer_id = $1 ORDER BY created_at DESC", customerID)
}

func (r *orderRepository) ListCompletedOrdersByCustomerID(ctx context.Context, customerID int64) ([]*models.Order, error) {
	return r.listOrders(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE customer_id = $1 AND payment_type_id IS NOT NULL ORDER BY created_at DESC", customerID)
}

func (r *orderRepository) listOrders(ctx context.Context, query string, args ...interface{}) ([]*models.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

// AttachPaymentTypeTx is the sole open-to-completed transition. The WHERE
// clause refuses to touch an already completed order.
func (r *orderRepository) AttachPaymentTypeTx(ctx context.Context, tx *sql.Tx, orderID, paymentTypeID int64) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE orders SET payment_type_id = $1 WHERE id = $2 AND payment_type_id IS NULL",
		paymentTypeID, orderID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) DeleteOrderTx(ctx context.Context, tx *sql.Tx, id int64) error {
	res, err := tx.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
