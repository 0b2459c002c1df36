package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/galaydia/marketplace/internal/domain/models"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserAlreadyExists = errors.New("user already exists")

type UserStorage interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUserTx(ctx context.Context, tx *sql.Tx, user *models.User) (*models.User, error)
	SetUserActive(ctx context.Context, id int64, active bool) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserStorage {
	return &userRepository{db: db}
}

func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}
	row := r.db.QueryRowContext(ctx,
		"SELECT id, username, pass_hash, is_active, created_at FROM users WHERE username = $1", username)
	if err := row.Scan(&user.ID, &user.Username, &user.PassHash, &user.IsActive, &user.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// CreateUserTx inserts a user inside the caller's transaction so the
// customer profile can be created atomically alongside it.
func (r *userRepository) CreateUserTx(ctx context.Context, tx *sql.Tx, user *models.User) (*models.User, error) {
	err := tx.QueryRowContext(ctx,
		"INSERT INTO users (username, pass_hash) VALUES ($1, $2) RETURNING id, is_active, created_at",
		user.Username, user.PassHash,
	).Scan(&user.ID, &user.IsActive, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepository) SetUserActive(ctx context.Context, id int64, active bool) error {
	res, err := r.db.ExecContext(ctx, "UPDATE users SET is_active = $1 WHERE id = $2", active, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}
