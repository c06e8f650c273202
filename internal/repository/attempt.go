package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/officialryder1/couplequest-backend/internal/models"
)

// RecordAttempt appends a pairing attempt to the audit log
func (s *Store) RecordAttempt(ctx context.Context, attempt *models.PairingAttempt) error {
	query := `
		INSERT INTO pairing_attempts (id, user_id, ip_address, code_attempt, attempted_at, was_successful)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.Exec(ctx, query,
		attempt.ID, attempt.UserID, attempt.IPAddress, attempt.CodeAttempt,
		attempt.AttemptedAt, attempt.WasSuccessful,
	)
	if err != nil {
		return fmt.Errorf("failed to record pairing attempt: %w", err)
	}
	return nil
}

// MarkAttemptSuccessful flags a recorded attempt as successful
func (s *Store) MarkAttemptSuccessful(ctx context.Context, attemptID string) error {
	query := `UPDATE pairing_attempts SET was_successful = true WHERE id = $1`
	_, err := s.db.Exec(ctx, query, attemptID)
	if err != nil {
		return fmt.Errorf("failed to mark attempt successful: %w", err)
	}
	return nil
}

// CountRecentFailedAttempts counts failed attempts from an IP since the
// given time
func (s *Store) CountRecentFailedAttempts(ctx context.Context, ip string, since time.Time) (int, error) {
	query := `
		SELECT count(*)
		FROM pairing_attempts
		WHERE ip_address = $1 AND was_successful = false AND attempted_at >= $2
	`
	var count int
	if err := s.db.QueryRow(ctx, query, ip, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count pairing attempts: %w", err)
	}
	return count, nil
}
