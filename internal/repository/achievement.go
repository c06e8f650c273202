package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/officialryder1/couplequest-backend/internal/models"
)

// ListAchievements retrieves the full achievement catalog
func (s *Store) ListAchievements(ctx context.Context) ([]models.Achievement, error) {
	query := `
		SELECT id, name, description, icon, xp_reward, unlock_rules
		FROM achievements
	`
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	defer rows.Close()

	var achievements []models.Achievement
	for rows.Next() {
		var a models.Achievement
		var rawRule []byte
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.Icon, &a.XPReward, &rawRule); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		if err := json.Unmarshal(rawRule, &a.UnlockRule); err != nil {
			return nil, fmt.Errorf("achievement %s has invalid unlock rule: %w", a.ID, err)
		}
		achievements = append(achievements, a)
	}
	return achievements, rows.Err()
}

// UnlockedAchievementIDs retrieves the set of achievement IDs a couple has
// already unlocked
func (s *Store) UnlockedAchievementIDs(ctx context.Context, coupleID string) (map[string]bool, error) {
	query := `SELECT achievement_id FROM couple_achievements WHERE couple_id = $1`
	rows, err := s.db.Query(ctx, query, coupleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list unlocked achievements: %w", err)
	}
	defer rows.Close()

	unlocked := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan achievement id: %w", err)
		}
		unlocked[id] = true
	}
	return unlocked, rows.Err()
}

// GrantAchievement records a one-time unlock. The (couple, achievement)
// primary key is the backstop against double grants; a conflicting insert
// is ignored.
func (s *Store) GrantAchievement(ctx context.Context, coupleID, achievementID string, at time.Time) error {
	query := `
		INSERT INTO couple_achievements (couple_id, achievement_id, unlocked_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (couple_id, achievement_id) DO NOTHING
	`
	_, err := s.db.Exec(ctx, query, coupleID, achievementID, at)
	if err != nil {
		return fmt.Errorf("failed to grant achievement: %w", err)
	}
	return nil
}

// ListCoupleAchievements retrieves a couple's unlock records
func (s *Store) ListCoupleAchievements(ctx context.Context, coupleID string) ([]models.CoupleAchievement, error) {
	query := `
		SELECT couple_id, achievement_id, unlocked_at
		FROM couple_achievements
		WHERE couple_id = $1
		ORDER BY unlocked_at DESC
	`
	rows, err := s.db.Query(ctx, query, coupleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list couple achievements: %w", err)
	}
	defer rows.Close()

	var records []models.CoupleAchievement
	for rows.Next() {
		var r models.CoupleAchievement
		if err := rows.Scan(&r.CoupleID, &r.AchievementID, &r.UnlockedAt); err != nil {
			return nil, fmt.Errorf("failed to scan couple achievement: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
