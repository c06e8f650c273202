package services

import (
	"context"
	"time"

	"github.com/officialryder1/couplequest-backend/internal/gamification"
	"github.com/officialryder1/couplequest-backend/internal/models"
)

// memStore is an in-memory Store for service tests. Methods return copies
// so mutations only become visible through the update methods, matching
// how the SQL store behaves. InTx runs fn against the same store; the
// tests are single-goroutine, so no extra serialization is needed.
type memStore struct {
	users        map[string]models.User
	profiles     map[string]models.UserProfile
	couples      map[string]models.Couple
	attempts     map[string]models.PairingAttempt
	tasks        map[string]models.Task
	achievements []models.Achievement
	unlocked     map[string]map[string]time.Time
	messages     []models.CoupleMessage
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]models.User),
		profiles: make(map[string]models.UserProfile),
		couples:  make(map[string]models.Couple),
		attempts: make(map[string]models.PairingAttempt),
		tasks:    make(map[string]models.Task),
		unlocked: make(map[string]map[string]time.Time),
	}
}

func (m *memStore) InTx(ctx context.Context, fn func(Store) error) error {
	return fn(m)
}

func (m *memStore) CreateUser(ctx context.Context, user *models.User) error {
	m.users[user.ID] = *user
	return nil
}

func (m *memStore) UserByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		copied := u
		return &copied, nil
	}
	return nil, nil
}

func (m *memStore) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			copied := u
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memStore) CreateProfile(ctx context.Context, profile *models.UserProfile) error {
	m.profiles[profile.UserID] = *profile
	return nil
}

func (m *memStore) ProfileByUser(ctx context.Context, userID string) (*models.UserProfile, error) {
	if p, ok := m.profiles[userID]; ok {
		copied := p
		return &copied, nil
	}
	return nil, nil
}

func (m *memStore) ProfileForUpdate(ctx context.Context, userID string) (*models.UserProfile, error) {
	return m.ProfileByUser(ctx, userID)
}

func (m *memStore) UpdateProfile(ctx context.Context, profile *models.UserProfile) error {
	m.profiles[profile.UserID] = *profile
	return nil
}

func (m *memStore) CreateCouple(ctx context.Context, couple *models.Couple) error {
	m.couples[couple.ID] = *couple
	return nil
}

func (m *memStore) CoupleByID(ctx context.Context, id string) (*models.Couple, error) {
	if c, ok := m.couples[id]; ok {
		copied := c
		return &copied, nil
	}
	return nil, nil
}

func (m *memStore) CoupleForUpdate(ctx context.Context, id string) (*models.Couple, error) {
	return m.CoupleByID(ctx, id)
}

func (m *memStore) ActiveCoupleByUser(ctx context.Context, userID string) (*models.Couple, error) {
	for _, c := range m.couples {
		if c.IsActive && c.HasMember(userID) {
			copied := c
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memStore) PendingCoupleByInitiator(ctx context.Context, userID string, now time.Time) (*models.Couple, error) {
	for _, c := range m.couples {
		if !c.IsActive && c.User1ID == userID && c.PairingCodeExpires != nil && c.PairingCodeExpires.After(now) {
			copied := c
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memStore) PendingCoupleByInvitee(ctx context.Context, userID string, now time.Time) (*models.Couple, error) {
	for _, c := range m.couples {
		if !c.IsActive && c.User2ID != nil && *c.User2ID == userID &&
			c.PairingCodeExpires != nil && c.PairingCodeExpires.After(now) {
			copied := c
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memStore) CoupleByLiveCode(ctx context.Context, code string, now time.Time) (*models.Couple, error) {
	for _, c := range m.couples {
		if !c.IsActive && c.PairingCode != nil && *c.PairingCode == code &&
			c.PairingCodeExpires != nil && c.PairingCodeExpires.After(now) {
			copied := c
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memStore) PairingCodeExists(ctx context.Context, code string) (bool, error) {
	for _, c := range m.couples {
		if c.PairingCode != nil && *c.PairingCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ActivateCouple(ctx context.Context, coupleID, user2ID string) error {
	c, ok := m.couples[coupleID]
	if !ok || c.IsActive {
		return ErrNotFound
	}
	c.User2ID = &user2ID
	c.IsActive = true
	c.PairingCode = nil
	c.PairingCodeExpires = nil
	m.couples[coupleID] = c
	return nil
}

func (m *memStore) UpdateCoupleProgress(ctx context.Context, couple *models.Couple) error {
	c, ok := m.couples[couple.ID]
	if !ok {
		return ErrNotFound
	}
	c.CurrentStreak = couple.CurrentStreak
	c.LongestStreak = couple.LongestStreak
	c.LastActivityDate = couple.LastActivityDate
	c.CombinedPoints = couple.CombinedPoints
	m.couples[couple.ID] = c
	return nil
}

func (m *memStore) TopCouples(ctx context.Context, limit int) ([]models.Couple, error) {
	var out []models.Couple
	for _, c := range m.couples {
		if c.IsActive {
			out = append(out, c)
		}
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].CombinedPoints > out[i].CombinedPoints {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) RecordAttempt(ctx context.Context, attempt *models.PairingAttempt) error {
	m.attempts[attempt.ID] = *attempt
	return nil
}

func (m *memStore) MarkAttemptSuccessful(ctx context.Context, attemptID string) error {
	a, ok := m.attempts[attemptID]
	if !ok {
		return ErrNotFound
	}
	a.WasSuccessful = true
	m.attempts[attemptID] = a
	return nil
}

func (m *memStore) CountRecentFailedAttempts(ctx context.Context, ip string, since time.Time) (int, error) {
	count := 0
	for _, a := range m.attempts {
		if a.IPAddress == ip && !a.WasSuccessful && !a.AttemptedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (m *memStore) CreateTask(ctx context.Context, task *models.Task) error {
	m.tasks[task.ID] = *task
	return nil
}

func (m *memStore) TaskByID(ctx context.Context, id string) (*models.Task, error) {
	if t, ok := m.tasks[id]; ok {
		copied := t
		return &copied, nil
	}
	return nil, nil
}

func (m *memStore) TaskForUpdate(ctx context.Context, id string) (*models.Task, error) {
	return m.TaskByID(ctx, id)
}

func (m *memStore) MarkTaskCompleted(ctx context.Context, task *models.Task) error {
	t, ok := m.tasks[task.ID]
	if !ok || t.IsCompleted {
		return ErrAlreadyCompleted
	}
	t.IsCompleted = true
	t.CompletedAt = task.CompletedAt
	t.CompletedBy = task.CompletedBy
	m.tasks[task.ID] = t
	return nil
}

func (m *memStore) ListTasks(ctx context.Context, coupleID string, completed *bool) ([]models.Task, error) {
	var out []models.Task
	for _, t := range m.tasks {
		if t.CoupleID != coupleID {
			continue
		}
		if completed != nil && t.IsCompleted != *completed {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (m *memStore) CoupleTaskStats(ctx context.Context, coupleID string) (gamification.CoupleStats, error) {
	stats := gamification.CoupleStats{
		CompletedByCat:  make(map[string]int),
		CompletedByDiff: make(map[string]int),
	}
	for _, t := range m.tasks {
		if t.CoupleID != coupleID || !t.IsCompleted {
			continue
		}
		stats.CompletedTasks++
		stats.CompletedByCat[t.Category]++
		stats.CompletedByDiff[t.Difficulty]++
	}
	return stats, nil
}

func (m *memStore) ListAchievements(ctx context.Context) ([]models.Achievement, error) {
	return append([]models.Achievement(nil), m.achievements...), nil
}

func (m *memStore) UnlockedAchievementIDs(ctx context.Context, coupleID string) (map[string]bool, error) {
	out := make(map[string]bool)
	for id := range m.unlocked[coupleID] {
		out[id] = true
	}
	return out, nil
}

func (m *memStore) GrantAchievement(ctx context.Context, coupleID, achievementID string, at time.Time) error {
	if m.unlocked[coupleID] == nil {
		m.unlocked[coupleID] = make(map[string]time.Time)
	}
	if _, ok := m.unlocked[coupleID][achievementID]; ok {
		// mirror ON CONFLICT DO NOTHING
		return nil
	}
	m.unlocked[coupleID][achievementID] = at
	return nil
}

func (m *memStore) ListCoupleAchievements(ctx context.Context, coupleID string) ([]models.CoupleAchievement, error) {
	var out []models.CoupleAchievement
	for id, at := range m.unlocked[coupleID] {
		out = append(out, models.CoupleAchievement{CoupleID: coupleID, AchievementID: id, UnlockedAt: at})
	}
	return out, nil
}

func (m *memStore) CreateMessage(ctx context.Context, msg *models.CoupleMessage) error {
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *memStore) MessageHistory(ctx context.Context, coupleID string, limit int) ([]models.CoupleMessage, error) {
	var out []models.CoupleMessage
	for i := len(m.messages) - 1; i >= 0 && len(out) < limit; i-- {
		if m.messages[i].CoupleID == coupleID {
			out = append(out, m.messages[i])
		}
	}
	return out, nil
}

func (m *memStore) MarkMessagesRead(ctx context.Context, coupleID, senderID string) error {
	for i := range m.messages {
		if m.messages[i].CoupleID == coupleID && m.messages[i].SenderID == senderID {
			m.messages[i].IsRead = true
		}
	}
	return nil
}

// fakePublisher records published events in order
type fakePublisher struct {
	events []publishedEvent
}

type publishedEvent struct {
	channel string
	event   string
	payload any
}

func (p *fakePublisher) Publish(ctx context.Context, channel, event string, payload any) error {
	p.events = append(p.events, publishedEvent{channel: channel, event: event, payload: payload})
	return nil
}

func (p *fakePublisher) byEvent(event string) []publishedEvent {
	var out []publishedEvent
	for _, e := range p.events {
		if e.event == event {
			out = append(out, e)
		}
	}
	return out
}
