package services

import (
	"context"
	"time"

	"github.com/officialryder1/couplequest-backend/internal/gamification"
	"github.com/officialryder1/couplequest-backend/internal/models"
)

// AchievementService exposes the achievement catalog and a couple's
// unlock history
type AchievementService struct {
	store Store
	now   func() time.Time
}

// NewAchievementService creates a new achievement service
func NewAchievementService(store Store) *AchievementService {
	return &AchievementService{store: store, now: time.Now}
}

// Catalog returns every achievement
func (s *AchievementService) Catalog(ctx context.Context) ([]models.Achievement, error) {
	return s.store.ListAchievements(ctx)
}

// UnlockedFor returns a couple's unlock records
func (s *AchievementService) UnlockedFor(ctx context.Context, coupleID string) ([]models.CoupleAchievement, error) {
	return s.store.ListCoupleAchievements(ctx, coupleID)
}

// CheckAll evaluates the catalog against the couple's current history and
// grants anything newly satisfied
func (s *AchievementService) CheckAll(ctx context.Context, couple *models.Couple) ([]models.Achievement, error) {
	var unlocked []models.Achievement
	err := s.store.InTx(ctx, func(tx Store) error {
		var err error
		unlocked, err = checkAllAchievements(ctx, tx, couple, s.now())
		return err
	})
	return unlocked, err
}

// checkAllAchievements iterates the catalog, skips anything already
// unlocked, evaluates each rule against a snapshot of the couple's task
// history and streak, and grants the rest. Each grant credits the XP
// reward to BOTH members' profiles; the unique (couple, achievement)
// constraint is the backstop against double grants.
//
// Callers running inside a transaction pass the tx-bound store.
func checkAllAchievements(ctx context.Context, store Store, couple *models.Couple, now time.Time) ([]models.Achievement, error) {
	catalog, err := store.ListAchievements(ctx)
	if err != nil {
		return nil, err
	}
	if len(catalog) == 0 {
		return nil, nil
	}

	already, err := store.UnlockedAchievementIDs(ctx, couple.ID)
	if err != nil {
		return nil, err
	}

	stats, err := store.CoupleTaskStats(ctx, couple.ID)
	if err != nil {
		return nil, err
	}
	stats.CurrentStreak = couple.CurrentStreak

	var unlocked []models.Achievement
	for _, achievement := range catalog {
		if already[achievement.ID] {
			continue
		}
		if !gamification.Evaluate(achievement.UnlockRule, stats) {
			continue
		}
		if err := grantAchievement(ctx, store, couple, achievement, now); err != nil {
			return nil, err
		}
		unlocked = append(unlocked, achievement)
	}
	return unlocked, nil
}

// grantAchievement records the unlock and credits the reward to both
// members. This is the symmetric crediting policy: unlike task completion,
// an achievement rewards the couple, not the completer.
func grantAchievement(ctx context.Context, store Store, couple *models.Couple, achievement models.Achievement, now time.Time) error {
	if err := store.GrantAchievement(ctx, couple.ID, achievement.ID, now); err != nil {
		return err
	}

	memberIDs := []string{couple.User1ID}
	if couple.User2ID != nil {
		memberIDs = append(memberIDs, *couple.User2ID)
	}
	for _, userID := range memberIDs {
		profile, err := store.ProfileForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if profile == nil {
			continue
		}
		profile.XP += achievement.XPReward
		profile.Level = gamification.LevelFor(profile.XP)
		if err := store.UpdateProfile(ctx, profile); err != nil {
			return err
		}
	}
	return nil
}
