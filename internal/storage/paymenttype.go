package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/galaydia/marketplace/internal/domain/models"
)

var ErrPaymentTypeNotFound = errors.New("payment type not found")

type PaymentTypeStorage interface {
	ListPaymentTypes(ctx context.Context) ([]*models.PaymentType, error)
	GetPaymentTypeByID(ctx context.Context, id int64) (*models.PaymentType, error)
	GetPaymentTypeByIDTx(ctx context.Context, tx *sql.Tx, id int64) (*models.PaymentType, error)
	CreatePaymentType(ctx context.Context, pt *models.PaymentType) (*models.PaymentType, error)
	UpdatePaymentType(ctx context.Context, pt *models.PaymentType) error
	DeletePaymentType(ctx context.Context, id int64) error
}

type paymentTypeRepository struct {
	db *sql.DB
}

func NewPaymentTypeRepository(db *sql.DB) PaymentTypeStorage {
	return &paymentTypeRepository{db: db}
}

const paymentTypeColumns = "id, customer_id, merchant_name, account_number, expiration_date, created_at"

func scanPaymentType(row interface{ Scan(...interface{}) error }) (*models.PaymentType, error) {
	pt := &models.PaymentType{}
	err := row.Scan(&pt.ID, &pt.CustomerID, &pt.MerchantName, &pt.AccountNumber,
		&pt.ExpirationDate, &pt.CreatedAt)
	if err != nil {
		return nil, err
	}
	return pt, nil
}

func (r *paymentTypeRepository) ListPaymentTypes(ctx context.Context) ([]*models.PaymentType, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+paymentTypeColumns+" FROM payment_types ORDER BY customer_id, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []*models.PaymentType
	for rows.Next() {
		pt, err := scanPaymentType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, pt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return types, nil
}

func (r *paymentTypeRepository) GetPaymentTypeByID(ctx context.Context, id int64) (*models.PaymentType, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+paymentTypeColumns+" FROM payment_types WHERE id = $1", id)
	pt, err := scanPaymentType(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentTypeNotFound
		}
		return nil, err
	}
	return pt, nil
}

func (r *paymentTypeRepository) GetPaymentTypeByIDTx(ctx context.Context, tx *sql.Tx, id int64) (*models.PaymentType, error) {
	row := tx.QueryRowContext(ctx,
		"SELECT "+paymentTypeColumns+" FROM payment_types WHERE id = $1", id)
	pt, err := scanPaymentType(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentTypeNotFound
		}
		return nil, err
	}
	return pt, nil
}

func (r *paymentTypeRepository) CreatePaymentType(ctx context.Context, pt *models.PaymentType) (*models.PaymentType, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO payment_types (customer_id, merchant_name, account_number, expiration_date)
		 VALUES ($1, $2, $3, $4) RETURNING id, created_at`,
		pt.CustomerID, pt.MerchantName, pt.AccountNumber, pt.ExpirationDate,
	).Scan(&pt.ID, &pt.CreatedAt)
	if err != nil {
		return nil, err
	}
	return pt, nil
}

func (r *paymentTypeRepository) UpdatePaymentType(ctx context.Context, pt *models.PaymentType) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE payment_types
		 SET merchant_name = $1, account_number = $2, expiration_date = $3
		 WHERE id = $4`,
		pt.MerchantName, pt.AccountNumber, pt.ExpirationDate, pt.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPaymentTypeNotFound
	}
	return nil
}

func (r *paymentTypeRepository) DeletePaymentType(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM payment_types WHERE id = $1", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPaymentTypeNotFound
	}
	return nil
}
