package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Belkadi-hamza/Inventory-Management-System/internal/domain"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = "id, email, password_hash, verified, verification_token, created_at"

func (s *UserStore) Create(ctx context.Context, email, passwordHash, verificationToken string) (*domain.User, error) {
	id := uuid.NewString()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, verified, verification_token, created_at)
		VALUES (?, ?, ?, 0, ?, ?)
	`, id, email, passwordHash, verificationToken, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user := &domain.User{}
	err := s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = ?
	`, id).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Verified, &user.VerificationToken, &user.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user := &domain.User{}
	err := s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE email = ?
	`, email).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Verified, &user.VerificationToken, &user.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// GetByVerificationToken looks up the user holding token. Used tokens are
// cleared by MarkVerified, so a token resolves at most once.
func (s *UserStore) GetByVerificationToken(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, nil
	}

	user := &domain.User{}
	err := s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE verification_token = ?
	`, token).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Verified, &user.VerificationToken, &user.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

func (s *UserStore) MarkVerified(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET verified = 1, verification_token = '' WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to mark user verified: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *UserStore) SetVerificationToken(ctx context.Context, id, token string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET verification_token = ? WHERE id = ?
	`, token, id)
	if err != nil {
		return fmt.Errorf("failed to set verification token: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
