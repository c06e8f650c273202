package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/officialryder1/couplequest-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

// CreateUser creates a new user
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, username, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.Exec(ctx, query, user.ID, user.Email, user.Username, user.PasswordHash, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// UserByID retrieves a user by ID
func (s *Store) UserByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, email, username, password_hash, created_at
		FROM users
		WHERE id = $1
	`
	return s.scanUser(ctx, query, id)
}

// UserByEmail retrieves a user by email
func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, username, password_hash, created_at
		FROM users
		WHERE email = $1
	`
	return s.scanUser(ctx, query, email)
}

func (s *Store) scanUser(ctx context.Context, query string, args ...any) (*models.User, error) {
	var user models.User
	err := s.db.QueryRow(ctx, query, args...).Scan(
		&user.ID, &user.Email, &user.Username, &user.PasswordHash, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
