package services

import (
	"context"
	"fmt"
	"time"

	"github.com/officialryder1/couplequest-backend/internal/gamification"
	"github.com/officialryder1/couplequest-backend/internal/models"
	"github.com/officialryder1/couplequest-backend/internal/notify"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const defaultTaskPoints = 10

var validCategories = map[string]bool{
	models.CategoryRomance:   true,
	models.CategoryChores:    true,
	models.CategoryFitness:   true,
	models.CategoryAdventure: true,
	models.CategoryOther:     true,
}

var validDifficulties = map[string]bool{
	models.DifficultyEasy:   true,
	models.DifficultyMedium: true,
	models.DifficultyHard:   true,
}

// TaskService handles task CRUD and the completion orchestration
type TaskService struct {
	store     Store
	publisher notify.Publisher
	now       func() time.Time
}

// NewTaskService creates a new task service
func NewTaskService(store Store, publisher notify.Publisher) *TaskService {
	return &TaskService{
		store:     store,
		publisher: publisher,
		now:       time.Now,
	}
}

// CreateTaskInput carries the caller-supplied task fields
type CreateTaskInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Points      int        `json:"points"`
	Category    string     `json:"category"`
	Difficulty  string     `json:"difficulty"`
	AssignedTo  *string    `json:"assigned_to,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// CompletionResult is returned by Complete. BonusPoints is reported but
// not credited anywhere; a redemption flow can consume it later.
type CompletionResult struct {
	Task            *models.Task         `json:"task"`
	NewAchievements []models.Achievement `json:"new_achievements"`
	Streak          int                  `json:"streak"`
	StreakBonus     float64              `json:"streak_bonus"`
	BonusPoints     int                  `json:"bonus_points"`
	XPAwarded       int                  `json:"xp_awarded"`
	Profile         *models.UserProfile  `json:"profile"`
}

type pendingEvent struct {
	event   string
	payload any
}

// Create adds a task to the caller's active couple
func (s *TaskService) Create(ctx context.Context, userID string, in CreateTaskInput) (*models.Task, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if in.Points <= 0 {
		in.Points = defaultTaskPoints
	}
	if in.Category == "" {
		in.Category = models.CategoryOther
	}
	if in.Difficulty == "" {
		in.Difficulty = models.DifficultyMedium
	}
	if !validCategories[in.Category] {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, in.Category)
	}
	if !validDifficulties[in.Difficulty] {
		return nil, fmt.Errorf("%w: unknown difficulty %q", ErrValidation, in.Difficulty)
	}

	couple, err := s.store.ActiveCoupleByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if couple == nil {
		return nil, fmt.Errorf("%w: you need an active couple to create tasks", ErrUnauthorized)
	}

	task := &models.Task{
		ID:          uuid.New().String(),
		CoupleID:    couple.ID,
		Title:       in.Title,
		Description: in.Description,
		Points:      in.Points,
		Category:    in.Category,
		Difficulty:  in.Difficulty,
		AssignedTo:  in.AssignedTo,
		DueDate:     in.DueDate,
		CreatedBy:   userID,
		CreatedAt:   s.now(),
	}
	if err := s.store.CreateTask(ctx, task); err != nil {
		return nil, err
	}

	s.publish(ctx, couple.ID, notify.EventTaskCreated, map[string]any{
		"task":    task,
		"message": "A new task was created",
	})
	return task, nil
}

// List returns the caller's couple tasks. filter is "done", "undone" or ""
func (s *TaskService) List(ctx context.Context, userID, filter string) ([]models.Task, error) {
	couple, err := s.store.ActiveCoupleByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if couple == nil {
		return nil, fmt.Errorf("%w: no active couple", ErrUnauthorized)
	}

	var completed *bool
	switch filter {
	case "done":
		v := true
		completed = &v
	case "undone":
		v := false
		completed = &v
	case "":
	default:
		return nil, fmt.Errorf("%w: unknown status filter %q", ErrValidation, filter)
	}
	return s.store.ListTasks(ctx, couple.ID, completed)
}

// Complete marks the task done exactly once and applies every derived
// mutation in one transaction: achievement grants, the couple streak,
// the completer's XP and level, and the couple's combined points.
// Notifications are queued during the transaction and published after
// commit, best-effort.
func (s *TaskService) Complete(ctx context.Context, taskID, userID string) (*CompletionResult, error) {
	now := s.now()
	result := &CompletionResult{}
	var coupleID string
	var events []pendingEvent

	err := s.store.InTx(ctx, func(tx Store) error {
		task, err := tx.TaskForUpdate(ctx, taskID)
		if err != nil {
			return err
		}
		if task == nil {
			return fmt.Errorf("%w: task", ErrNotFound)
		}

		// Lock the couple row before anything else so concurrent
		// completions for the same couple serialize here.
		couple, err := tx.CoupleForUpdate(ctx, task.CoupleID)
		if err != nil {
			return err
		}
		if couple == nil {
			return fmt.Errorf("%w: couple", ErrNotFound)
		}
		coupleID = couple.ID

		if !couple.HasMember(userID) {
			return fmt.Errorf("%w: not a member of this couple", ErrUnauthorized)
		}
		if task.IsCompleted {
			return ErrAlreadyCompleted
		}

		task.IsCompleted = true
		task.CompletedAt = &now
		task.CompletedBy = &userID
		if err := tx.MarkTaskCompleted(ctx, task); err != nil {
			return err
		}
		result.Task = task
		events = append(events, pendingEvent{notify.EventTaskUpdated, map[string]any{
			"task":    task,
			"message": "A task was completed!",
		}})

		// Achievements see the streak as it was before this completion
		unlocked, err := checkAllAchievements(ctx, tx, couple, now)
		if err != nil {
			return err
		}
		result.NewAchievements = unlocked
		for _, achievement := range unlocked {
			events = append(events, pendingEvent{notify.EventAchievementUnlocked, map[string]any{
				"achievement": achievement,
				"message":     "Achievement unlocked!",
			}})
		}

		couple.CurrentStreak, couple.LongestStreak = gamification.AdvanceStreak(
			couple.LastActivityDate, now, couple.CurrentStreak, couple.LongestStreak,
		)
		couple.LastActivityDate = now
		result.Streak = couple.CurrentStreak
		result.StreakBonus = gamification.StreakBonus(couple.CurrentStreak)
		result.BonusPoints = gamification.BonusPoints(task.Points, couple.CurrentStreak)
		events = append(events, pendingEvent{notify.EventStreakUpdated, map[string]any{
			"streak": couple.CurrentStreak,
		}})

		// Task points go to the completer only; achievement rewards above
		// went to both members.
		profile, err := tx.ProfileForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if profile == nil {
			return fmt.Errorf("%w: profile", ErrNotFound)
		}
		profile.XP += task.Points
		profile.Level = gamification.LevelFor(profile.XP)
		profile.LastActive = now
		if err := tx.UpdateProfile(ctx, profile); err != nil {
			return err
		}
		result.XPAwarded = task.Points
		result.Profile = profile

		combined, err := s.combinedPoints(ctx, tx, couple)
		if err != nil {
			return err
		}
		couple.CombinedPoints = combined
		return tx.UpdateCoupleProgress(ctx, couple)
	})
	if err != nil {
		return nil, err
	}

	for _, e := range events {
		s.publish(ctx, coupleID, e.event, e.payload)
	}

	log.Info().
		Str("task_id", taskID).
		Str("user_id", userID).
		Int("streak", result.Streak).
		Int("xp_awarded", result.XPAwarded).
		Int("new_achievements", len(result.NewAchievements)).
		Msg("Task completed")

	return result, nil
}

// combinedPoints sums both members' XP, counting an absent member as 0
func (s *TaskService) combinedPoints(ctx context.Context, tx Store, couple *models.Couple) (int, error) {
	total := 0
	p1, err := tx.ProfileByUser(ctx, couple.User1ID)
	if err != nil {
		return 0, err
	}
	if p1 != nil {
		total += p1.XP
	}
	if couple.User2ID != nil {
		p2, err := tx.ProfileByUser(ctx, *couple.User2ID)
		if err != nil {
			return 0, err
		}
		if p2 != nil {
			total += p2.XP
		}
	}
	return total, nil
}

func (s *TaskService) publish(ctx context.Context, coupleID, event string, payload any) {
	if err := s.publisher.Publish(ctx, notify.CoupleChannel(coupleID), event, payload); err != nil {
		log.Error().Err(err).Str("couple_id", coupleID).Str("event", event).Msg("Failed to publish event")
	}
}
