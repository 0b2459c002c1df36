package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/galaydia/marketplace/internal/domain/models"
	"github.com/galaydia/marketplace/internal/storage"
)

// NewProductInput carries the seller-supplied fields for a listing; the
// owning customer always comes from the authenticated caller.
type NewProductInput struct {
	Name          string
	Price         float64
	Description   string
	Quantity      int
	Location      string
	ProductTypeID int64
}

type ProductService interface {
	ListProducts(ctx context.Context, filter storage.ProductFilter) ([]*models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	CreateProduct(ctx context.Context, userID int64, input NewProductInput) (*models.Product, error)
	UpdateProductQuantity(ctx context.Context, id int64, quantity int) error
	DeleteProduct(ctx context.Context, id int64) error
}

type productService struct {
	log             *slog.Logger
	customerRepo    storage.CustomerStorage
	productRepo     storage.ProductStorage
	productTypeRepo storage.ProductTypeStorage
}

func NewProductService(log *slog.Logger, customerRepo storage.CustomerStorage, productRepo storage.ProductStorage, productTypeRepo storage.ProductTypeStorage) ProductService {
	return &productService{
		log:             log,
		customerRepo:    customerRepo,
		productRepo:     productRepo,
		productTypeRepo: productTypeRepo,
	}
}

func (s *productService) ListProducts(ctx context.Context, filter storage.ProductFilter) ([]*models.Product, error) {
	const op = "service.ProductService.ListProducts"

	products, err := s.productRepo.ListProducts(ctx, filter)
	if err != nil {
		s.log.Error("failed to list products", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to list products: %w", op, err)
	}
	return products, nil
}

func (s *productService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	const op = "service.ProductService.GetProduct"

	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get product: %w", op, err)
	}
	return product, nil
}

func (s *productService) CreateProduct(ctx context.Context, userID int64, input NewProductInput) (*models.Product, error) {
	const op = "service.ProductService.CreateProduct"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID))

	customer, err := s.customerRepo.GetCustomerByUserID(ctx, userID)
	if err != nil {
		logger.Error("failed to resolve customer", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to resolve customer: %w", op, err)
	}

	// referenced category must exist before the insert
	if _, err := s.productTypeRepo.GetProductTypeByID(ctx, input.ProductTypeID); err != nil {
		logger.Error("failed to get product type", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get product type: %w", op, err)
	}

	product := &models.Product{
		CustomerID:    customer.ID,
		ProductTypeID: input.ProductTypeID,
		Name:          input.Name,
		Price:         input.Price,
		Description:   input.Description,
		Quantity:      input.Quantity,
		Location:      input.Location,
	}
	product, err = s.productRepo.CreateProduct(ctx, product)
	if err != nil {
		logger.Error("failed to create product", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create product: %w", op, err)
	}

	logger.Info("product created", slog.Int64("productID", product.ID))
	return product, nil
}

func (s *productService) UpdateProductQuantity(ctx context.Context, id int64, quantity int) error {
	const op = "service.ProductService.UpdateProductQuantity"

	if err := s.productRepo.UpdateProductQuantity(ctx, id, quantity); err != nil {
		return fmt.Errorf("%s: failed to update quantity: %w", op, err)
	}
	return nil
}

func (s *productService) DeleteProduct(ctx context.Context, id int64) error {
	const op = "service.ProductService.DeleteProduct"

	if err := s.productRepo.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("%s: failed to delete product: %w", op, err)
	}
	return nil
}
