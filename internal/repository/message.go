package repository

import (
	"context"
	"fmt"

	"github.com/officialryder1/couplequest-backend/internal/models"
)

// CreateMessage appends a couple chat message
func (s *Store) CreateMessage(ctx context.Context, msg *models.CoupleMessage) error {
	query := `
		INSERT INTO couple_messages (id, couple_id, sender_id, content, sent_at, is_read)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.Exec(ctx, query, msg.ID, msg.CoupleID, msg.SenderID, msg.Content, msg.SentAt, msg.IsRead)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// MessageHistory retrieves a couple's latest messages, newest first
func (s *Store) MessageHistory(ctx context.Context, coupleID string, limit int) ([]models.CoupleMessage, error) {
	query := `
		SELECT id, couple_id, sender_id, content, sent_at, is_read
		FROM couple_messages
		WHERE couple_id = $1
		ORDER BY sent_at DESC
		LIMIT $2
	`
	rows, err := s.db.Query(ctx, query, coupleID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get message history: %w", err)
	}
	defer rows.Close()

	var messages []models.CoupleMessage
	for rows.Next() {
		var m models.CoupleMessage
		if err := rows.Scan(&m.ID, &m.CoupleID, &m.SenderID, &m.Content, &m.SentAt, &m.IsRead); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// MarkMessagesRead marks all unread messages from a sender as read
func (s *Store) MarkMessagesRead(ctx context.Context, coupleID, senderID string) error {
	query := `
		UPDATE couple_messages
		SET is_read = true
		WHERE couple_id = $1 AND sender_id = $2 AND is_read = false
	`
	_, err := s.db.Exec(ctx, query, coupleID, senderID)
	if err != nil {
		return fmt.Errorf("failed to mark messages read: %w", err)
	}
	return nil
}
