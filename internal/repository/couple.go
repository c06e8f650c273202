package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/officialryder1/couplequest-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

const coupleColumns = `id, user1_id, user2_id, name, combined_points, pairing_code,
	pairing_code_expires, is_active, initiated_by, current_streak, longest_streak,
	last_activity_date, created_at, updated_at`

// CreateCouple creates a new couple row
func (s *Store) CreateCouple(ctx context.Context, couple *models.Couple) error {
	query := `
		INSERT INTO couples (id, user1_id, user2_id, name, combined_points, pairing_code,
			pairing_code_expires, is_active, initiated_by, current_streak, longest_streak,
			last_activity_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := s.db.Exec(ctx, query,
		couple.ID, couple.User1ID, couple.User2ID, couple.Name, couple.CombinedPoints,
		couple.PairingCode, couple.PairingCodeExpires, couple.IsActive, couple.InitiatedBy,
		couple.CurrentStreak, couple.LongestStreak, couple.LastActivityDate,
		couple.CreatedAt, couple.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create couple: %w", err)
	}
	return nil
}

// CoupleByID retrieves a couple by ID
func (s *Store) CoupleByID(ctx context.Context, id string) (*models.Couple, error) {
	query := `SELECT ` + coupleColumns + ` FROM couples WHERE id = $1`
	return s.scanCouple(ctx, query, id)
}

// CoupleForUpdate retrieves a couple by ID with a row lock, serializing
// concurrent completions against the same couple
func (s *Store) CoupleForUpdate(ctx context.Context, id string) (*models.Couple, error) {
	query := `SELECT ` + coupleColumns + ` FROM couples WHERE id = $1 FOR UPDATE`
	return s.scanCouple(ctx, query, id)
}

// ActiveCoupleByUser retrieves the active couple a user belongs to
func (s *Store) ActiveCoupleByUser(ctx context.Context, userID string) (*models.Couple, error) {
	query := `
		SELECT ` + coupleColumns + `
		FROM couples
		WHERE (user1_id = $1 OR user2_id = $1) AND is_active = true
		LIMIT 1
	`
	return s.scanCouple(ctx, query, userID)
}

// PendingCoupleByInitiator retrieves an inactive couple with a live code
// initiated by the user
func (s *Store) PendingCoupleByInitiator(ctx context.Context, userID string, now time.Time) (*models.Couple, error) {
	query := `
		SELECT ` + coupleColumns + `
		FROM couples
		WHERE user1_id = $1 AND is_active = false AND pairing_code_expires > $2
		LIMIT 1
	`
	return s.scanCouple(ctx, query, userID, now)
}

// PendingCoupleByInvitee retrieves an inactive couple with a live code
// where the user is the invited second member
func (s *Store) PendingCoupleByInvitee(ctx context.Context, userID string, now time.Time) (*models.Couple, error) {
	query := `
		SELECT ` + coupleColumns + `
		FROM couples
		WHERE user2_id = $1 AND is_active = false AND pairing_code_expires > $2
		LIMIT 1
	`
	return s.scanCouple(ctx, query, userID, now)
}

// CoupleByLiveCode retrieves an inactive couple by an unexpired pairing code
func (s *Store) CoupleByLiveCode(ctx context.Context, code string, now time.Time) (*models.Couple, error) {
	query := `
		SELECT ` + coupleColumns + `
		FROM couples
		WHERE pairing_code = $1 AND is_active = false AND pairing_code_expires > $2
	`
	return s.scanCouple(ctx, query, code, now)
}

// PairingCodeExists checks whether any couple row holds the code.
// The column is globally unique, so collisions are checked across all
// rows, expired ones included.
func (s *Store) PairingCodeExists(ctx context.Context, code string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM couples WHERE pairing_code = $1)`
	var exists bool
	if err := s.db.QueryRow(ctx, query, code).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check pairing code: %w", err)
	}
	return exists, nil
}

// ActivateCouple assigns the second member, activates the couple and
// clears the pairing code in one statement
func (s *Store) ActivateCouple(ctx context.Context, coupleID, user2ID string) error {
	query := `
		UPDATE couples
		SET user2_id = $2, is_active = true, pairing_code = NULL,
			pairing_code_expires = NULL, updated_at = now()
		WHERE id = $1 AND is_active = false
	`
	result, err := s.db.Exec(ctx, query, coupleID, user2ID)
	if err != nil {
		return fmt.Errorf("failed to activate couple: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("couple %s not found or already active", coupleID)
	}
	return nil
}

// UpdateCoupleProgress persists the streak fields, activity date and
// combined points
func (s *Store) UpdateCoupleProgress(ctx context.Context, couple *models.Couple) error {
	query := `
		UPDATE couples
		SET current_streak = $2, longest_streak = $3, last_activity_date = $4,
			combined_points = $5, updated_at = now()
		WHERE id = $1
	`
	_, err := s.db.Exec(ctx, query,
		couple.ID, couple.CurrentStreak, couple.LongestStreak,
		couple.LastActivityDate, couple.CombinedPoints,
	)
	if err != nil {
		return fmt.Errorf("failed to update couple progress: %w", err)
	}
	return nil
}

// TopCouples retrieves the active couples with the most combined points
func (s *Store) TopCouples(ctx context.Context, limit int) ([]models.Couple, error) {
	query := `
		SELECT ` + coupleColumns + `
		FROM couples
		WHERE is_active = true
		ORDER BY combined_points DESC
		LIMIT $1
	`
	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var couples []models.Couple
	for rows.Next() {
		couple, err := scanCoupleRow(rows)
		if err != nil {
			return nil, err
		}
		couples = append(couples, *couple)
	}
	return couples, rows.Err()
}

func (s *Store) scanCouple(ctx context.Context, query string, args ...any) (*models.Couple, error) {
	couple, err := scanCoupleRow(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return couple, nil
}

func scanCoupleRow(row pgx.Row) (*models.Couple, error) {
	var couple models.Couple
	err := row.Scan(
		&couple.ID, &couple.User1ID, &couple.User2ID, &couple.Name, &couple.CombinedPoints,
		&couple.PairingCode, &couple.PairingCodeExpires, &couple.IsActive, &couple.InitiatedBy,
		&couple.CurrentStreak, &couple.LongestStreak, &couple.LastActivityDate,
		&couple.CreatedAt, &couple.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan couple: %w", err)
	}
	return &couple, nil
}
