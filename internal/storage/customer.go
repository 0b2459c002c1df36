package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/galaydia/marketplace/internal/domain/models"
)

var ErrCustomerNotFound = errors.New("customer not found")

type CustomerStorage interface {
	CreateCustomerTx(ctx context.Context, tx *sql.Tx, customer *models.Customer) (*models.Customer, error)
	GetCustomerByID(ctx context.Context, id int64) (*models.Customer, error)
	// GetCustomerByUserID resolves the customer profile for an
	// authenticated user id.
	GetCustomerByUserID(ctx context.Context, userID int64) (*models.Customer, error)
	ListCustomers(ctx context.Context) ([]*models.Customer, error)
	UpdateCustomerProfile(ctx context.Context, id int64, address, phoneNumber string) error
}

type customerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) CustomerStorage {
	return &customerRepository{db: db}
}

func (r *customerRepository) CreateCustomerTx(ctx context.Context, tx *sql.Tx, customer *models.Customer) (*models.Customer, error) {
	err := tx.QueryRowContext(ctx,
		"INSERT INTO customers (user_id, address, phone_number) VALUES ($1, $2, $3) RETURNING id",
		customer.UserID, customer.Address, customer.PhoneNumber,
	).Scan(&customer.ID)
	if err != nil {
		return nil, err
	}
	return customer, nil
}

func (r *customerRepository) GetCustomerByID(ctx context.Context, id int64) (*models.Customer, error) {
	customer := &models.Customer{}
	row := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, address, phone_number FROM customers WHERE id = $1", id)
	if err := row.Scan(&customer.ID, &customer.UserID, &customer.Address, &customer.PhoneNumber); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return customer, nil
}

func (r *customerRepository) GetCustomerByUserID(ctx context.Context, userID int64) (*models.Customer, error) {
	customer := &models.Customer{}
	row := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, address, phone_number FROM customers WHERE user_id = $1", userID)
	if err := row.Scan(&customer.ID, &customer.UserID, &customer.Address, &customer.PhoneNumber); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return customer, nil
}

func (r *customerRepository) ListCustomers(ctx context.Context) ([]*models.Customer, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, user_id, address, phone_number FROM customers ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		customer := &models.Customer{}
		if err := rows.Scan(&customer.ID, &customer.UserID, &customer.Address, &customer.PhoneNumber); err != nil {
			return nil, err
		}
		customers = append(customers, customer)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *customerRepository) UpdateCustomerProfile(ctx context.Context, id int64, address, phoneNumber string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE customers SET address = $1, phone_number = $2 WHERE id = $3", address, phoneNumber, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCustomerNotFound
	}
	return nil
}
