package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/galaydia/marketplace/internal/domain/models"
	"github.com/galaydia/marketplace/internal/storage"
)

// CustomerService exposes profile updates and deactivation as two distinct
// operations: updating a profile never touches the login identity, and
// deactivation only flips the linked user's active flag.
type CustomerService interface {
	ListCustomers(ctx context.Context) ([]*models.Customer, error)
	GetCustomer(ctx context.Context, id int64) (*models.Customer, error)
	UpdateCustomerProfile(ctx context.Context, id int64, address, phoneNumber string) error
	DeactivateCustomer(ctx context.Context, id int64) error
}

type customerService struct {
	log          *slog.Logger
	customerRepo storage.CustomerStorage
	userRepo     storage.UserStorage
}

func NewCustomerService(log *slog.Logger, customerRepo storage.CustomerStorage, userRepo storage.UserStorage) CustomerService {
	return &customerService{
		log:          log,
		customerRepo: customerRepo,
		userRepo:     userRepo,
	}
}

func (s *customerService) ListCustomers(ctx context.Context) ([]*models.Customer, error) {
	const op = "service.CustomerService.ListCustomers"

	customers, err := s.customerRepo.ListCustomers(ctx)
	if err != nil {
		s.log.Error("failed to list customers", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to list customers: %w", op, err)
	}
	return customers, nil
}

func (s *customerService) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	const op = "service.CustomerService.GetCustomer"

	customer, err := s.customerRepo.GetCustomerByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get customer: %w", op, err)
	}
	return customer, nil
}

func (s *customerService) UpdateCustomerProfile(ctx context.Context, id int64, address, phoneNumber string) error {
	const op = "service.CustomerService.UpdateCustomerProfile"

	if err := s.customerRepo.UpdateCustomerProfile(ctx, id, address, phoneNumber); err != nil {
		return fmt.Errorf("%s: failed to update profile: %w", op, err)
	}
	return nil
}

func (s *customerService) DeactivateCustomer(ctx context.Context, id int64) error {
	const op = "service.CustomerService.DeactivateCustomer"
	logger := s.log.With(slog.String("op", op), slog.Int64("customerID", id))

	customer, err := s.customerRepo.GetCustomerByID(ctx, id)
	if err != nil {
		logger.Error("failed to get customer", slog.Any("error", err))
		return fmt.Errorf("%s: failed to get customer: %w", op, err)
	}

	if err := s.userRepo.SetUserActive(ctx, customer.UserID, false); err != nil {
		logger.Error("failed to deactivate user", slog.Any("error", err))
		return fmt.Errorf("%s: failed to deactivate user: %w", op, err)
	}

	logger.Info("customer deactivated", slog.Int64("userID", customer.UserID))
	return nil
}
