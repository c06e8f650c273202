package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/officialryder1/couplequest-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

// CreateProfile creates a new user profile
func (s *Store) CreateProfile(ctx context.Context, profile *models.UserProfile) error {
	query := `
		INSERT INTO user_profiles (user_id, xp, level, streak, last_active)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.Exec(ctx, query,
		profile.UserID, profile.XP, profile.Level, profile.Streak, profile.LastActive,
	)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// ProfileByUser retrieves a profile by user ID
func (s *Store) ProfileByUser(ctx context.Context, userID string) (*models.UserProfile, error) {
	query := `
		SELECT user_id, xp, level, streak, last_active
		FROM user_profiles
		WHERE user_id = $1
	`
	return s.scanProfile(ctx, query, userID)
}

// ProfileForUpdate retrieves a profile by user ID with a row lock
func (s *Store) ProfileForUpdate(ctx context.Context, userID string) (*models.UserProfile, error) {
	query := `
		SELECT user_id, xp, level, streak, last_active
		FROM user_profiles
		WHERE user_id = $1
		FOR UPDATE
	`
	return s.scanProfile(ctx, query, userID)
}

// UpdateProfile persists xp, level, streak and last-active
func (s *Store) UpdateProfile(ctx context.Context, profile *models.UserProfile) error {
	query := `
		UPDATE user_profiles
		SET xp = $2, level = $3, streak = $4, last_active = $5
		WHERE user_id = $1
	`
	_, err := s.db.Exec(ctx, query,
		profile.UserID, profile.XP, profile.Level, profile.Streak, profile.LastActive,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

func (s *Store) scanProfile(ctx context.Context, query string, args ...any) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.db.QueryRow(ctx, query, args...).Scan(
		&profile.UserID, &profile.XP, &profile.Level, &profile.Streak, &profile.LastActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}
