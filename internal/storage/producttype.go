package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/galaydia/marketplace/internal/domain/models"
)

var ErrProductTypeNotFound = errors.New("product type not found")

type ProductTypeStorage interface {
	ListProductTypes(ctx context.Context) ([]*models.ProductType, error)
	GetProductTypeByID(ctx context.Context, id int64) (*models.ProductType, error)
	CreateProductType(ctx context.Context, name string) (*models.ProductType, error)
	UpdateProductType(ctx context.Context, id int64, name string) error
	DeleteProductType(ctx context.Context, id int64) error
}

type productTypeRepository struct {
	db *sql.DB
}

func NewProductTypeRepository(db *sql.DB) ProductTypeStorage {
	return &productTypeRepository{db: db}
}

func (r *productTypeRepository) ListProductTypes(ctx context.Context) ([]*models.ProductType, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM product_types ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []*models.ProductType
	for rows.Next() {
		pt := &models.ProductType{}
		if err := rows.Scan(&pt.ID, &pt.Name); err != nil {
			return nil, err
		}
		types = append(types, pt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return types, nil
}

func (r *productTypeRepository) GetProductTypeByID(ctx context.Context, id int64) (*models.ProductType, error) {
	pt := &models.ProductType{}
	row := r.db.QueryRowContext(ctx, "SELECT id, name FROM product_types WHERE id = $1", id)
	if err := row.Scan(&pt.ID, &pt.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductTypeNotFound
		}
		return nil, err
	}
	return pt, nil
}

func (r *productTypeRepository) CreateProductType(ctx context.Context, name string) (*models.ProductType, error) {
	pt := &models.ProductType{Name: name}
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO product_types (name) VALUES ($1) RETURNING id", name).Scan(&pt.ID)
	if err != nil {
		return nil, err
	}
	return pt, nil
}

func (r *productTypeRepository) UpdateProductType(ctx context.Context, id int64, name string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE product_types SET name = $1 WHERE id = $2", name, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductTypeNotFound
	}
	return nil
}

func (r *productTypeRepository) DeleteProductType(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM product_types WHERE id = $1", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductTypeNotFound
	}
	return nil
}
