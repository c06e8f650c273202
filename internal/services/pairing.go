package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/officialryder1/couplequest-backend/internal/models"
	"github.com/officialryder1/couplequest-backend/internal/notify"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	pairingCodeTTL     = 15 * time.Minute
	rateLimitWindow    = time.Hour
	maxFailedAttempts  = 5
	codeGenMaxAttempts = 10
)

// PairingService governs the couple lifecycle: unpaired with a pending
// code, then active once a partner confirms.
type PairingService struct {
	store     Store
	publisher notify.Publisher
	now       func() time.Time
}

// NewPairingService creates a new pairing service
func NewPairingService(store Store, publisher notify.Publisher) *PairingService {
	return &PairingService{
		store:     store,
		publisher: publisher,
		now:       time.Now,
	}
}

// PairingInvite is returned by InitiatePairing
type PairingInvite struct {
	CoupleID    string    `json:"couple_id"`
	PairingCode string    `json:"pairing_code"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// PairingStatus is the read-only projection returned by CheckStatus
type PairingStatus struct {
	IsPaired        bool       `json:"is_paired"`
	CoupleID        *string    `json:"couple_id,omitempty"`
	PartnerID       *string    `json:"partner_id,omitempty"`
	PartnerUsername *string    `json:"partner_username,omitempty"`
	PendingInvite   bool       `json:"pending_invite"`
	PendingCode     bool       `json:"pending_code"`
	CodeExpiresAt   *time.Time `json:"code_expires_at,omitempty"`
}

// InitiatePairing creates an inactive couple owned by the user with a
// fresh 6-digit code valid for 15 minutes
func (s *PairingService) InitiatePairing(ctx context.Context, userID, coupleName string) (*PairingInvite, error) {
	active, err := s.store.ActiveCoupleByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, ErrAlreadyPaired
	}

	code, err := s.generateUniqueCode(ctx)
	if err != nil {
		return nil, err
	}

	if coupleName == "" {
		if user, err := s.store.UserByID(ctx, userID); err == nil && user != nil && user.Username != "" {
			coupleName = fmt.Sprintf("%s's Couple", user.Username)
		} else {
			coupleName = "New Couple"
		}
	}

	now := s.now()
	expires := now.Add(pairingCodeTTL)
	couple := &models.Couple{
		ID:                 uuid.New().String(),
		User1ID:            userID,
		Name:               coupleName,
		PairingCode:        &code,
		PairingCodeExpires: &expires,
		IsActive:           false,
		InitiatedBy:        userID,
		LastActivityDate:   now,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.store.CreateCouple(ctx, couple); err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", userID).
		Str("couple_id", couple.ID).
		Time("expires_at", expires).
		Msg("Pairing initiated")

	return &PairingInvite{
		CoupleID:    couple.ID,
		PairingCode: code,
		ExpiresAt:   expires,
	}, nil
}

// ConfirmPairing activates a pending couple using its code. The attempt is
// recorded before any validation so failures still count toward the per-IP
// rate limit.
func (s *PairingService) ConfirmPairing(ctx context.Context, userID, code, ip string) (*models.Couple, error) {
	attempt := &models.PairingAttempt{
		ID:          uuid.New().String(),
		UserID:      &userID,
		IPAddress:   ip,
		CodeAttempt: code,
		AttemptedAt: s.now(),
	}
	if err := s.store.RecordAttempt(ctx, attempt); err != nil {
		return nil, err
	}

	if code == "" {
		return nil, ErrMissingCode
	}

	// The attempt just recorded is part of the count, so the limit trips
	// once maxFailedAttempts PRIOR failures exist in the window.
	failures, err := s.store.CountRecentFailedAttempts(ctx, ip, s.now().Add(-rateLimitWindow))
	if err != nil {
		return nil, err
	}
	if failures > maxFailedAttempts {
		log.Warn().Str("ip", ip).Int("failures", failures).Msg("Pairing rate limit hit")
		return nil, ErrRateLimited
	}

	// An expired code looks exactly like a non-existent one
	couple, err := s.store.CoupleByLiveCode(ctx, code, s.now())
	if err != nil {
		return nil, err
	}
	if couple == nil {
		return nil, ErrInvalidOrExpiredCode
	}

	if couple.User1ID == userID {
		return nil, ErrSelfPairing
	}

	active, err := s.store.ActiveCoupleByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, ErrAlreadyPaired
	}

	err = s.store.InTx(ctx, func(tx Store) error {
		if err := tx.ActivateCouple(ctx, couple.ID, userID); err != nil {
			return err
		}
		return tx.MarkAttemptSuccessful(ctx, attempt.ID)
	})
	if err != nil {
		return nil, err
	}

	couple.User2ID = &userID
	couple.IsActive = true
	couple.PairingCode = nil
	couple.PairingCodeExpires = nil

	log.Info().
		Str("couple_id", couple.ID).
		Str("user_id", userID).
		Msg("Pairing completed")

	s.publish(ctx, couple.ID, notify.EventPairingCompleted, map[string]any{
		"couple_id": couple.ID,
		"partner":   userID,
		"message":   "Pairing completed!",
	})

	return couple, nil
}

// CheckStatus reports the user's pairing state
func (s *PairingService) CheckStatus(ctx context.Context, userID string) (*PairingStatus, error) {
	status := &PairingStatus{}

	active, err := s.store.ActiveCoupleByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		status.IsPaired = true
		status.CoupleID = &active.ID
		partnerID := active.PartnerOf(userID)
		status.PartnerID = &partnerID
		if partner, err := s.store.UserByID(ctx, partnerID); err == nil && partner != nil {
			status.PartnerUsername = &partner.Username
		}
	}

	invite, err := s.store.PendingCoupleByInvitee(ctx, userID, s.now())
	if err != nil {
		return nil, err
	}
	status.PendingInvite = invite != nil

	pending, err := s.store.PendingCoupleByInitiator(ctx, userID, s.now())
	if err != nil {
		return nil, err
	}
	if pending != nil {
		status.PendingCode = true
		status.CodeExpiresAt = pending.PairingCodeExpires
	}

	return status, nil
}

// generateUniqueCode draws 6-digit numeric codes until one is free.
// Uniqueness is checked against every row, expired codes included, since
// the column is globally unique.
func (s *PairingService) generateUniqueCode(ctx context.Context) (string, error) {
	for i := 0; i < codeGenMaxAttempts; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(900000))
		if err != nil {
			return "", fmt.Errorf("failed to draw pairing code: %w", err)
		}
		code := fmt.Sprintf("%06d", n.Int64()+100000)

		exists, err := s.store.PairingCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique pairing code after %d attempts", codeGenMaxAttempts)
}

func (s *PairingService) publish(ctx context.Context, coupleID, event string, payload any) {
	if err := s.publisher.Publish(ctx, notify.CoupleChannel(coupleID), event, payload); err != nil {
		log.Error().Err(err).Str("couple_id", coupleID).Str("event", event).Msg("Failed to publish event")
	}
}
