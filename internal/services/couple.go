package services

import (
	"context"
	"fmt"
	"time"

	"github.com/officialryder1/couplequest-backend/internal/models"
	"github.com/officialryder1/couplequest-backend/internal/notify"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	leaderboardSize    = 20
	messageHistorySize = 50
)

// CoupleService handles the couple-facing reads and the chat between
// members
type CoupleService struct {
	store     Store
	publisher notify.Publisher
	now       func() time.Time
}

// NewCoupleService creates a new couple service
func NewCoupleService(store Store, publisher notify.Publisher) *CoupleService {
	return &CoupleService{
		store:     store,
		publisher: publisher,
		now:       time.Now,
	}
}

// ActiveCoupleFor returns the caller's active couple, or ErrUnauthorized
// if they have none
func (s *CoupleService) ActiveCoupleFor(ctx context.Context, userID string) (*models.Couple, error) {
	couple, err := s.store.ActiveCoupleByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if couple == nil {
		return nil, fmt.Errorf("%w: no active couple", ErrUnauthorized)
	}
	return couple, nil
}

// Leaderboard returns the top active couples by combined points
func (s *CoupleService) Leaderboard(ctx context.Context) ([]models.Couple, error) {
	return s.store.TopCouples(ctx, leaderboardSize)
}

// MessageHistory returns the caller couple's latest messages
func (s *CoupleService) MessageHistory(ctx context.Context, userID string) ([]models.CoupleMessage, error) {
	couple, err := s.ActiveCoupleFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.store.MessageHistory(ctx, couple.ID, messageHistorySize)
}

// SendMessage persists a chat message and broadcasts it on the couple's
// channel
func (s *CoupleService) SendMessage(ctx context.Context, userID, content string) (*models.CoupleMessage, error) {
	if content == "" {
		return nil, fmt.Errorf("%w: message content is required", ErrValidation)
	}
	couple, err := s.ActiveCoupleFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	msg := &models.CoupleMessage{
		ID:       uuid.New().String(),
		CoupleID: couple.ID,
		SenderID: userID,
		Content:  content,
		SentAt:   s.now(),
	}
	if err := s.store.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(ctx, notify.CoupleChannel(couple.ID), notify.EventNewMessage, msg); err != nil {
		log.Error().Err(err).Str("couple_id", couple.ID).Msg("Failed to publish message event")
	}
	return msg, nil
}

// MarkMessagesRead marks every unread message from the caller's partner
// as read
func (s *CoupleService) MarkMessagesRead(ctx context.Context, userID string) error {
	couple, err := s.ActiveCoupleFor(ctx, userID)
	if err != nil {
		return err
	}
	partnerID := couple.PartnerOf(userID)
	if partnerID == "" {
		return nil
	}
	return s.store.MarkMessagesRead(ctx, couple.ID, partnerID)
}
