package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/officialryder1/couplequest-backend/internal/gamification"
	"github.com/officialryder1/couplequest-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

const taskColumns = `id, couple_id, title, description, points, category, difficulty,
	assigned_to, due_date, is_completed, created_by, created_at, completed_at, completed_by`

// CreateTask creates a new task
func (s *Store) CreateTask(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (id, couple_id, title, description, points, category, difficulty,
			assigned_to, due_date, is_completed, created_by, created_at, completed_at, completed_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := s.db.Exec(ctx, query,
		task.ID, task.CoupleID, task.Title, task.Description, task.Points, task.Category,
		task.Difficulty, task.AssignedTo, task.DueDate, task.IsCompleted, task.CreatedBy,
		task.CreatedAt, task.CompletedAt, task.CompletedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// TaskByID retrieves a task by ID
func (s *Store) TaskByID(ctx context.Context, id string) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	return s.scanTask(ctx, query, id)
}

// TaskForUpdate retrieves a task by ID with a row lock
func (s *Store) TaskForUpdate(ctx context.Context, id string) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 FOR UPDATE`
	return s.scanTask(ctx, query, id)
}

// MarkTaskCompleted persists the completion fields of a task
func (s *Store) MarkTaskCompleted(ctx context.Context, task *models.Task) error {
	query := `
		UPDATE tasks
		SET is_completed = true, completed_at = $2, completed_by = $3
		WHERE id = $1 AND is_completed = false
	`
	result, err := s.db.Exec(ctx, query, task.ID, task.CompletedAt, task.CompletedBy)
	if err != nil {
		return fmt.Errorf("failed to mark task completed: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("task %s already completed", task.ID)
	}
	return nil
}

// ListTasks retrieves a couple's tasks, optionally filtered by completion
func (s *Store) ListTasks(ctx context.Context, coupleID string, completed *bool) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE couple_id = $1`
	args := []any{coupleID}
	if completed != nil {
		query += ` AND is_completed = $2`
		args = append(args, *completed)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var task models.Task
		if err := scanTaskRow(rows, &task); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// CoupleTaskStats aggregates the couple's completed-task counts by
// category and difficulty. CurrentStreak is left for the caller to fill
// from the couple row.
func (s *Store) CoupleTaskStats(ctx context.Context, coupleID string) (gamification.CoupleStats, error) {
	query := `
		SELECT category, difficulty, count(*)
		FROM tasks
		WHERE couple_id = $1 AND is_completed = true
		GROUP BY category, difficulty
	`
	stats := gamification.CoupleStats{
		CompletedByCat:  make(map[string]int),
		CompletedByDiff: make(map[string]int),
	}

	rows, err := s.db.Query(ctx, query, coupleID)
	if err != nil {
		return stats, fmt.Errorf("failed to aggregate task stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var category, difficulty string
		var count int
		if err := rows.Scan(&category, &difficulty, &count); err != nil {
			return stats, fmt.Errorf("failed to scan task stats: %w", err)
		}
		stats.CompletedTasks += count
		stats.CompletedByCat[category] += count
		stats.CompletedByDiff[difficulty] += count
	}
	return stats, rows.Err()
}

func (s *Store) scanTask(ctx context.Context, query string, args ...any) (*models.Task, error) {
	var task models.Task
	err := scanTaskRow(s.db.QueryRow(ctx, query, args...), &task)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &task, nil
}

func scanTaskRow(row pgx.Row, task *models.Task) error {
	err := row.Scan(
		&task.ID, &task.CoupleID, &task.Title, &task.Description, &task.Points,
		&task.Category, &task.Difficulty, &task.AssignedTo, &task.DueDate,
		&task.IsCompleted, &task.CreatedBy, &task.CreatedAt, &task.CompletedAt, &task.CompletedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return err
		}
		return fmt.Errorf("failed to scan task: %w", err)
	}
	return nil
}
