package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/galaydia/marketplace/internal/domain/models"
	"github.com/galaydia/marketplace/internal/security"
	"github.com/galaydia/marketplace/internal/storage"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService interface {
	// Register creates the user identity and its customer profile in one
	// transaction and returns a token for the new account.
	Register(ctx context.Context, username, password, address, phoneNumber string) (string, error)
	Login(ctx context.Context, username, password string) (string, error)
}

type authService struct {
	log          *slog.Logger
	db           *sql.DB
	userRepo     storage.UserStorage
	customerRepo storage.CustomerStorage
	tokenTTL     time.Duration
}

func NewAuthService(log *slog.Logger, db *sql.DB, userRepo storage.UserStorage, customerRepo storage.CustomerStorage, tokenTTL time.Duration) AuthService {
	return &authService{
		log:          log,
		db:           db,
		userRepo:     userRepo,
		customerRepo: customerRepo,
		tokenTTL:     tokenTTL,
	}
}

func (a *authService) Register(ctx context.Context, username, password, address, phoneNumber string) (string, error) {
	const op = "service.AuthService.Register"
	logger := a.log.With(slog.String("op", op), slog.String("username", username))
	logger.Info("registering user")

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("failed to hash password", slog.Any("error", err))
		return "", fmt.Errorf("%s: failed to hash password: %w", op, err)
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return "", fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	user, err := a.userRepo.CreateUserTx(ctx, tx, &models.User{
		Username: username,
		PassHash: passHash,
	})
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to create user", slog.Any("error", err))
		return "", fmt.Errorf("%s: failed to create user: %w", op, err)
	}

	if _, err := a.customerRepo.CreateCustomerTx(ctx, tx, &models.Customer{
		UserID:      user.ID,
		Address:     address,
		PhoneNumber: phoneNumber,
	}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to create customer", slog.Any("error", err))
		return "", fmt.Errorf("%s: failed to create customer: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return "", fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	token, err := security.NewToken(ctx, user, a.tokenTTL)
	if err != nil {
		logger.Error("failed to generate token", slog.Any("error", err))
		return "", fmt.Errorf("%s: failed to generate token: %w", op, err)
	}

	logger.Info("user registered", slog.Int64("userID", user.ID))
	return token, nil
}

func (a *authService) Login(ctx context.Context, username, password string) (string, error) {
	const op = "service.AuthService.Login"
	logger := a.log.With(slog.String("op", op), slog.String("username", username))
	logger.Info("checking user")

	user, err := a.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			logger.Warn("user not found")
			return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		logger.Error("failed to get user", slog.Any("error", err))
		return "", fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	// deactivated accounts cannot log in
	if !user.IsActive {
		logger.Warn("user is deactivated")
		return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(password)); err != nil {
		logger.Warn("invalid password")
		return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := security.NewToken(ctx, user, a.tokenTTL)
	if err != nil {
		logger.Error("failed to generate token", slog.Any("error", err))
		return "", fmt.Errorf("%s: failed to generate token: %w", op, err)
	}

	logger.Info("user logged in successfully", slog.Int64("userID", user.ID))
	return token, nil
}
