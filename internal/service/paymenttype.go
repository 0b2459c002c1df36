package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/galaydia/marketplace/internal/domain/models"
	"github.com/galaydia/marketplace/internal/storage"
)

// NewPaymentTypeInput carries the stored-card fields. The owning customer
// is always the authenticated caller, never taken from the request body.
type NewPaymentTypeInput struct {
	MerchantName   string
	AccountNumber  string
	ExpirationDate time.Time
}

type PaymentTypeService interface {
	ListPaymentTypes(ctx context.Context) ([]*models.PaymentType, error)
	GetPaymentType(ctx context.Context, id int64) (*models.PaymentType, error)
	CreatePaymentType(ctx context.Context, userID int64, input NewPaymentTypeInput) (*models.PaymentType, error)
	UpdatePaymentType(ctx context.Context, id int64, input NewPaymentTypeInput) error
	DeletePaymentType(ctx context.Context, id int64) error
}

type paymentTypeService struct {
	log             *slog.Logger
	customerRepo    storage.CustomerStorage
	paymentTypeRepo storage.PaymentTypeStorage
}

func NewPaymentTypeService(log *slog.Logger, customerRepo storage.CustomerStorage, paymentTypeRepo storage.PaymentTypeStorage) PaymentTypeService {
	return &paymentTypeService{
		log:             log,
		customerRepo:    customerRepo,
		paymentTypeRepo: paymentTypeRepo,
	}
}

func (s *paymentTypeService) ListPaymentTypes(ctx context.Context) ([]*models.PaymentType, error) {
	const op = "service.PaymentTypeService.ListPaymentTypes"

	types, err := s.paymentTypeRepo.ListPaymentTypes(ctx)
	if err != nil {
		s.log.Error("failed to list payment types", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to list payment types: %w", op, err)
	}
	return types, nil
}

func (s *paymentTypeService) GetPaymentType(ctx context.Context, id int64) (*models.PaymentType, error) {
	const op = "service.PaymentTypeService.GetPaymentType"

	pt, err := s.paymentTypeRepo.GetPaymentTypeByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get payment type: %w", op, err)
	}
	return pt, nil
}

func (s *paymentTypeService) CreatePaymentType(ctx context.Context, userID int64, input NewPaymentTypeInput) (*models.PaymentType, error) {
	const op = "service.PaymentTypeService.CreatePaymentType"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID))

	customer, err := s.customerRepo.GetCustomerByUserID(ctx, userID)
	if err != nil {
		logger.Error("failed to resolve customer", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to resolve customer: %w", op, err)
	}

	pt := &models.PaymentType{
		CustomerID:     customer.ID,
		MerchantName:   input.MerchantName,
		AccountNumber:  input.AccountNumber,
		ExpirationDate: input.ExpirationDate,
	}
	pt, err = s.paymentTypeRepo.CreatePaymentType(ctx, pt)
	if err != nil {
		logger.Error("failed to create payment type", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create payment type: %w", op, err)
	}

	logger.Info("payment type created", slog.Int64("paymentTypeID", pt.ID))
	return pt, nil
}

func (s *paymentTypeService) UpdatePaymentType(ctx context.Context, id int64, input NewPaymentTypeInput) error {
	const op = "service.PaymentTypeService.UpdatePaymentType"

	pt := &models.PaymentType{
		ID:             id,
		MerchantName:   input.MerchantName,
		AccountNumber:  input.AccountNumber,
		ExpirationDate: input.ExpirationDate,
	}
	if err := s.paymentTypeRepo.UpdatePaymentType(ctx, pt); err != nil {
		return fmt.Errorf("%s: failed to update payment type: %w", op, err)
	}
	return nil
}

func (s *paymentTypeService) DeletePaymentType(ctx context.Context, id int64) error {
	const op = "service.PaymentTypeService.DeletePaymentType"

	if err := s.paymentTypeRepo.DeletePaymentType(ctx, id); err != nil {
		return fmt.Errorf("%s: failed to delete payment type: %w", op, err)
	}
	return nil
}
