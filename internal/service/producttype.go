package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/galaydia/marketplace/internal/domain/models"
	"github.com/galaydia/marketplace/internal/storage"
)

type ProductTypeService interface {
	ListProductTypes(ctx context.Context) ([]*models.ProductType, error)
	GetProductType(ctx context.Context, id int64) (*models.ProductType, error)
	CreateProductType(ctx context.Context, name string) (*models.ProductType, error)
	UpdateProductType(ctx context.Context, id int64, name string) error
	DeleteProductType(ctx context.Context, id int64) error
}

type productTypeService struct {
	log             *slog.Logger
	productTypeRepo storage.ProductTypeStorage
}

func NewProductTypeService(log *slog.Logger, productTypeRepo storage.ProductTypeStorage) ProductTypeService {
	return &productTypeService{log: log, productTypeRepo: productTypeRepo}
}

func (s *productTypeService) ListProductTypes(ctx context.Context) ([]*models.ProductType, error) {
	const op = "service.ProductTypeService.ListProductTypes"

	types, err := s.productTypeRepo.ListProductTypes(ctx)
	if err != nil {
		s.log.Error("failed to list product types", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to list product types: %w", op, err)
	}
	return types, nil
}

func (s *productTypeService) GetProductType(ctx context.Context, id int64) (*models.ProductType, error) {
	const op = "service.ProductTypeService.GetProductType"

	pt, err := s.productTypeRepo.GetProductTypeByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get product type: %w", op, err)
	}
	return pt, nil
}

func (s *productTypeService) CreateProductType(ctx context.Context, name string) (*models.ProductType, error) {
	const op = "service.ProductTypeService.CreateProductType"

	pt, err := s.productTypeRepo.CreateProductType(ctx, name)
	if err != nil {
		s.log.Error("failed to create product type", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create product type: %w", op, err)
	}
	return pt, nil
}

func (s *productTypeService) UpdateProductType(ctx context.Context, id int64, name string) error {
	const op = "service.ProductTypeService.UpdateProductType"

	if err := s.productTypeRepo.UpdateProductType(ctx, id, name); err != nil {
		return fmt.Errorf("%s: failed to update product type: %w", op, err)
	}
	return nil
}

func (s *productTypeService) DeleteProductType(ctx context.Context, id int64) error {
	const op = "service.ProductTypeService.DeleteProductType"

	if err := s.productTypeRepo.DeleteProductType(ctx, id); err != nil {
		return fmt.Errorf("%s: failed to delete product type: %w", op, err)
	}
	return nil
}
