package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/galaydia/marketplace/internal/domain/models"
	"github.com/galaydia/marketplace/internal/storage"
)

// ErrOrderAlreadyCompleted is returned when a payment type is attached to
// an order that already has one. Completion is a one-way transition.
var ErrOrderAlreadyCompleted = errors.New("order already completed")

// CartService maintains the invariant that each customer has at most one
// open (unpaid) order, which acts as their cart, and performs the inventory
// decrement exactly once when an order completes.
type CartService interface {
	AddToCart(ctx context.Context, userID, productID int64) (*models.OrderProduct, error)
	GetOrder(ctx context.Context, userID, orderID int64) (*models.Order, error)
	GetCurrentOrder(ctx context.Context, userID int64) (*models.Order, error)
	ListOrders(ctx context.Context, userID int64) ([]*models.Order, error)
	ListCompletedOrders(ctx context.Context, userID int64) ([]*models.Order, error)
	ListCartContents(ctx context.Context, userID int64) ([]*models.Product, error)
	CompleteOrder(ctx context.Context, userID, orderID, paymentTypeID int64) error
	RemoveFromCart(ctx context.Context, userID, productID int64) error
	DeleteOrder(ctx context.Context, userID, orderID int64) error
}

type cartService struct {
	log             *slog.Logger
	db              *sql.DB
	customerRepo    storage.CustomerStorage
	productRepo     storage.ProductStorage
	orderRepo       storage.OrderStorage
	orderItemRepo   storage.OrderProductStorage
	paymentTypeRepo storage.PaymentTypeStorage
}

func NewCartService(
	log *slog.Logger,
	db *sql.DB,
	customerRepo storage.CustomerStorage,
	productRepo storage.ProductStorage,
	orderRepo storage.OrderStorage,
	orderItemRepo storage.OrderProductStorage,
	paymentTypeRepo storage.PaymentTypeStorage,
) CartService {
	return &cartService{
		log:             log,
		db:              db,
		customerRepo:    customerRepo,
		productRepo:     productRepo,
		orderRepo:       orderRepo,
		orderItemRepo:   orderItemRepo,
		paymentTypeRepo: paymentTypeRepo,
	}
}

// AddToCart appends one line item for the product to the customer's open
// order, creating the order first if none exists. Repeated calls for the
// same product add duplicate line items, one per unit.
func (s *cartService) AddToCart(ctx context.Context, userID, productID int64) (*models.OrderProduct, error) {
	const op = "service.CartService.AddToCart"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID), slog.Int64("productID", productID))

	customer, err := s.customerRepo.GetCustomerByUserID(ctx, userID)
	if err != nil {
		logger.Error("failed to resolve customer", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to resolve customer: %w", op, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	if _, err := s.productRepo.GetProductByIDTx(ctx, tx, productID); err != nil {
		s.rollback(tx, logger)
		logger.Error("failed to get product", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get product: %w", op, err)
	}

	order, err := s.orderRepo.LockOpenOrderTx(ctx, tx, customer.ID)
	if errors.Is(err, storage.ErrOrderNotFound) {
		order, err = s.orderRepo.CreateOrderTx(ctx, tx, customer.ID)
		if errors.Is(err, storage.ErrOpenOrderExists) {
			// a concurrent request created the open order first; use it
			order, err = s.orderRepo.LockOpenOrderTx(ctx, tx, customer.ID)
		}
	}
	if err != nil {
		s.rollback(tx, logger)
		logger.Error("failed to find or create open order", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to find or create open order: %w", op, err)
	}

	item, err := s.orderItemRepo.CreateOrderProductTx(ctx, tx, order.ID, productID)
	if err != nil {
		s.rollback(tx, logger)
		logger.Error("failed to create line item", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create line item: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	logger.Info("product added to cart", slog.Int64("orderID", order.ID), slog.Int64("lineItemID", item.ID))
	return item, nil
}

// GetOrder returns one of the caller's orders. Orders belonging to another
// customer read as not found.
func (s *cartService) GetOrder(ctx context.Context, userID, orderID int64) (*models.Order, error) {
	const op = "service.CartService.GetOrder"

	customer, err := s.customerRepo.GetCustomerByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to resolve customer: %w", op, err)
	}

	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get order: %w", op, err)
	}
	if order.CustomerID != customer.ID {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrOrderNotFound)
	}
	return order, nil
}

// GetCurrentOrder returns the customer's open order. A customer with an
// empty cart has no order row at all until the first AddToCart.
func (s *cartService) GetCurrentOrder(ctx context.Context, userID int64) (*models.Order, error) {
	const op = "service.CartService.GetCurrentOrder"

	customer, err := s.customerRepo.GetCustomerByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to resolve customer: %w", op, err)
	}

	order, err := s.orderRepo.GetOpenOrderByCustomerID(ctx, customer.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get open order: %w", op, err)
	}
	return order, nil
}

func (s *cartService) ListOrders(ctx context.Context, userID int64) ([]*models.Order, error) {
	const op = "service.CartService.ListOrders"

	customer, err := s.customerRepo.GetCustomerByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to resolve customer: %w", op, err)
	}

	orders, err := s.orderRepo.ListOrdersByCustomerID(ctx, customer.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list orders: %w", op, err)
	}
	return orders, nil
}

func (s *cartService) ListCompletedOrders(ctx context.Context, userID int64) ([]*models.Order, error) {
	const op = "service.CartService.ListCompletedOrders"

	customer, err := s.customerRepo.GetCustomerByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to resolve customer: %w", op, err)
	}

	orders, err := s.orderRepo.ListCompletedOrdersByCustomerID(ctx, customer.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list completed orders: %w", op, err)
	}
	return orders, nil
}

// ListCartContents returns the products referenced by the open order's line
// items, one entry per unit. An open order with no items yields an empty
// list; no open order at all is ErrOrderNotFound.
func (s *cartService) ListCartContents(ctx context.Context, userID int64) ([]*models.Product, error) {
	const op = "service.CartService.ListCartContents"

	customer, err := s.customerRepo.GetCustomerByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to resolve customer: %w", op, err)
	}

	order, err := s.orderRepo.GetOpenOrderByCustomerID(ctx, customer.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get open order: %w", op, err)
	}

	products, err := s.orderItemRepo.ListCartProducts(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list cart products: %w", op, err)
	}
	return products, nil
}

// CompleteOrder attaches the payment type and decrements stock for every
// line-itemed product in a single transaction. Any failure rolls back both
// the payment attachment and the decrements.
func (s *cartService) CompleteOrder(ctx context.Context, userID, orderID, paymentTypeID int64) error {
	const op = "service.CartService.CompleteOrder"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID), slog.Int64("orderID", orderID))
	logger.Info("starting order completion transaction")

	customer, err := s.customerRepo.GetCustomerByUserID(ctx, userID)
	if err != nil {
		logger.Error("failed to resolve customer", slog.Any("error", err))
		return fmt.Errorf("%s: failed to resolve customer: %w", op, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	order, err := s.orderRepo.LockOrderByIDTx(ctx, tx, orderID)
	if err != nil {
		s.rollback(tx, logger)
		logger.Error("failed to lock order", slog.Any("error", err))
		return fmt.Errorf("%s: failed to lock order: %w", op, err)
	}
	if order.CustomerID != customer.ID {
		s.rollback(tx, logger)
		logger.Warn("order belongs to another customer")
		return fmt.Errorf("%s: %w", op, storage.ErrOrderNotFound)
	}
	if order.Completed() {
		s.rollback(tx, logger)
		logger.Warn("order already completed")
		return fmt.Errorf("%s: %w", op, ErrOrderAlreadyCompleted)
	}

	paymentType, err := s.paymentTypeRepo.GetPaymentTypeByIDTx(ctx, tx, paymentTypeID)
	if err != nil {
		s.rollback(tx, logger)
		logger.Error("failed to get payment type", slog.Any("error", err))
		return fmt.Errorf("%s: failed to get payment type: %w", op, err)
	}
	if paymentType.CustomerID != customer.ID {
		s.rollback(tx, logger)
		logger.Warn("payment type belongs to another customer")
		return fmt.Errorf("%s: %w", op, storage.ErrPaymentTypeNotFound)
	}

	if err := s.orderRepo.AttachPaymentTypeTx(ctx, tx, orderID, paymentTypeID); err != nil {
		s.rollback(tx, logger)
		logger.Error("failed to attach payment type", slog.Any("error", err))
		return fmt.Errorf("%s: failed to attach payment type: %w", op, err)
	}

	if err := s.productRepo.DecrementForOrderTx(ctx, tx, orderID); err != nil {
		s.rollback(tx, logger)
		logger.Error("failed to decrement inventory", slog.Any("error", err))
		return fmt.Errorf("%s: failed to decrement inventory: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	logger.Info("order completed", slog.Int64("paymentTypeID", paymentTypeID))
	return nil
}

// RemoveFromCart deletes exactly one line item for the product from the
// open order; duplicates are separate units and are removed one at a time.
func (s *cartService) RemoveFromCart(ctx context.Context, userID, productID int64) error {
	const op = "service.CartService.RemoveFromCart"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID), slog.Int64("productID", productID))

	customer, err := s.customerRepo.GetCustomerByUserID(ctx, userID)
	if err != nil {
		logger.Error("failed to resolve customer", slog.Any("error", err))
		return fmt.Errorf("%s: failed to resolve customer: %w", op, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	order, err := s.orderRepo.LockOpenOrderTx(ctx, tx, customer.ID)
	if err != nil {
		s.rollback(tx, logger)
		logger.Error("failed to lock open order", slog.Any("error", err))
		return fmt.Errorf("%s: failed to lock open order: %w", op, err)
	}

	if err := s.orderItemRepo.DeleteOneByOrderAndProductTx(ctx, tx, order.ID, productID); err != nil {
		s.rollback(tx, logger)
		logger.Error("failed to delete line item", slog.Any("error", err))
		return fmt.Errorf("%s: failed to delete line item: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	logger.Info("product removed from cart", slog.Int64("orderID", order.ID))
	return nil
}

// DeleteOrder removes the order and its line items in one transaction.
// The line-item delete is explicit rather than left to the FK cascade.
func (s *cartService) DeleteOrder(ctx context.Context, userID, orderID int64) error {
	const op = "service.CartService.DeleteOrder"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID), slog.Int64("orderID", orderID))

	customer, err := s.customerRepo.GetCustomerByUserID(ctx, userID)
	if err != nil {
		logger.Error("failed to resolve customer", slog.Any("error", err))
		return fmt.Errorf("%s: failed to resolve customer: %w", op, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	order, err := s.orderRepo.LockOrderByIDTx(ctx, tx, orderID)
	if err != nil {
		s.rollback(tx, logger)
		logger.Error("failed to lock order", slog.Any("error", err))
		return fmt.Errorf("%s: failed to lock order: %w", op, err)
	}
	if order.CustomerID != customer.ID {
		s.rollback(tx, logger)
		logger.Warn("order belongs to another customer")
		return fmt.Errorf("%s: %w", op, storage.ErrOrderNotFound)
	}

	if err := s.orderItemRepo.DeleteByOrderIDTx(ctx, tx, orderID); err != nil {
		s.rollback(tx, logger)
		logger.Error("failed to delete line items", slog.Any("error", err))
		return fmt.Errorf("%s: failed to delete line items: %w", op, err)
	}

	if err := s.orderRepo.DeleteOrderTx(ctx, tx, orderID); err != nil {
		s.rollback(tx, logger)
		logger.Error("failed to delete order", slog.Any("error", err))
		return fmt.Errorf("%s: failed to delete order: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	logger.Info("order deleted")
	return nil
}

func (s *cartService) rollback(tx *sql.Tx, logger *slog.Logger) {
	if rbErr := tx.Rollback(); rbErr != nil {
		logger.Error("transaction rollback failed", slog.Any("error", rbErr))
	}
}
