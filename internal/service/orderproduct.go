package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/galaydia/marketplace/internal/domain/models"
	"github.com/galaydia/marketplace/internal/storage"
)

// OrderProductService is the plain resource view over line items. Creation
// always goes through the cart (CartService.AddToCart).
type OrderProductService interface {
	ListOrderProducts(ctx context.Context) ([]*models.OrderProduct, error)
	GetOrderProduct(ctx context.Context, id int64) (*models.OrderProduct, error)
	DeleteOrderProduct(ctx context.Context, id int64) error
}

type orderProductService struct {
	log           *slog.Logger
	orderItemRepo storage.OrderProductStorage
}

func NewOrderProductService(log *slog.Logger, orderItemRepo storage.OrderProductStorage) OrderProductService {
	return &orderProductService{log: log, orderItemRepo: orderItemRepo}
}

func (s *orderProductService) ListOrderProducts(ctx context.Context) ([]*models.OrderProduct, error) {
	const op = "service.OrderProductService.ListOrderProducts"

	items, err := s.orderItemRepo.ListOrderProducts(ctx)
	if err != nil {
		s.log.Error("failed to list line items", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to list line items: %w", op, err)
	}
	return items, nil
}

func (s *orderProductService) GetOrderProduct(ctx context.Context, id int64) (*models.OrderProduct, error) {
	const op = "service.OrderProductService.GetOrderProduct"

	item, err := s.orderItemRepo.GetOrderProductByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get line item: %w", op, err)
	}
	return item, nil
}

func (s *orderProductService) DeleteOrderProduct(ctx context.Context, id int64) error {
	const op = "service.OrderProductService.DeleteOrderProduct"

	if err := s.orderItemRepo.DeleteOrderProduct(ctx, id); err != nil {
		return fmt.Errorf("%s: failed to delete line item: %w", op, err)
	}
	return nil
}
