package services

import (
	"context"
	"time"

	"github.com/officialryder1/couplequest-backend/internal/gamification"
	"github.com/officialryder1/couplequest-backend/internal/models"
)

// Store is the persistence contract the services are written against.
// It is implemented by repository.Store over PostgreSQL and by an
// in-memory fake in tests.
//
// Lookup methods return (nil, nil) when no row matches; an error means the
// store itself failed. Unique constraints (pairing code, couple per user,
// one unlock per couple+achievement) are enforced by the implementation.
type Store interface {
	// Users and profiles
	CreateUser(ctx context.Context, user *models.User) error
	UserByID(ctx context.Context, id string) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateProfile(ctx context.Context, profile *models.UserProfile) error
	ProfileByUser(ctx context.Context, userID string) (*models.UserProfile, error)
	ProfileForUpdate(ctx context.Context, userID string) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, profile *models.UserProfile) error

	// Couples
	CreateCouple(ctx context.Context, couple *models.Couple) error
	CoupleByID(ctx context.Context, id string) (*models.Couple, error)
	CoupleForUpdate(ctx context.Context, id string) (*models.Couple, error)
	ActiveCoupleByUser(ctx context.Context, userID string) (*models.Couple, error)
	PendingCoupleByInitiator(ctx context.Context, userID string, now time.Time) (*models.Couple, error)
	PendingCoupleByInvitee(ctx context.Context, userID string, now time.Time) (*models.Couple, error)
	CoupleByLiveCode(ctx context.Context, code string, now time.Time) (*models.Couple, error)
	PairingCodeExists(ctx context.Context, code string) (bool, error)
	ActivateCouple(ctx context.Context, coupleID, user2ID string) error
	UpdateCoupleProgress(ctx context.Context, couple *models.Couple) error
	TopCouples(ctx context.Context, limit int) ([]models.Couple, error)

	// Pairing attempts (append-only)
	RecordAttempt(ctx context.Context, attempt *models.PairingAttempt) error
	MarkAttemptSuccessful(ctx context.Context, attemptID string) error
	CountRecentFailedAttempts(ctx context.Context, ip string, since time.Time) (int, error)

	// Tasks
	CreateTask(ctx context.Context, task *models.Task) error
	TaskByID(ctx context.Context, id string) (*models.Task, error)
	TaskForUpdate(ctx context.Context, id string) (*models.Task, error)
	MarkTaskCompleted(ctx context.Context, task *models.Task) error
	ListTasks(ctx context.Context, coupleID string, completed *bool) ([]models.Task, error)
	CoupleTaskStats(ctx context.Context, coupleID string) (gamification.CoupleStats, error)

	// Achievements
	ListAchievements(ctx context.Context) ([]models.Achievement, error)
	UnlockedAchievementIDs(ctx context.Context, coupleID string) (map[string]bool, error)
	GrantAchievement(ctx context.Context, coupleID, achievementID string, at time.Time) error
	ListCoupleAchievements(ctx context.Context, coupleID string) ([]models.CoupleAchievement, error)

	// Messages
	CreateMessage(ctx context.Context, msg *models.CoupleMessage) error
	MessageHistory(ctx context.Context, coupleID string, limit int) ([]models.CoupleMessage, error)
	MarkMessagesRead(ctx context.Context, coupleID, senderID string) error

	// InTx runs fn against a view of the store bound to a single
	// transaction. Returning an error rolls everything back. ForUpdate
	// lookups inside fn take row locks, serializing concurrent mutations
	// of the same couple.
	InTx(ctx context.Context, fn func(Store) error) error
}
