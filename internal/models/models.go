package models

import (
	"time"

	"github.com/officialryder1/couplequest-backend/internal/gamification"
)

// Task categories
const (
	CategoryRomance   = "ROMANCE"
	CategoryChores    = "CHORES"
	CategoryFitness   = "FITNESS"
	CategoryAdventure = "ADVENTURE"
	CategoryOther     = "OTHER"
)

// Task difficulties
const (
	DifficultyEasy   = "EASY"
	DifficultyMedium = "MEDIUM"
	DifficultyHard   = "HARD"
)

// User represents a registered account
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Couple represents two users sharing tasks, points and a streak.
// While is_active is false the couple is a pending invite: only user1 is
// set and a pairing code with an expiry is live. Activation assigns user2
// and clears the code; a couple never goes back to unpaired.
type Couple struct {
	ID                 string     `json:"id"`
	User1ID            string     `json:"user1_id"`
	User2ID            *string    `json:"user2_id,omitempty"`
	Name               string     `json:"name"`
	CombinedPoints     int        `json:"combined_points"`
	PairingCode        *string    `json:"-"`
	PairingCodeExpires *time.Time `json:"-"`
	IsActive           bool       `json:"is_active"`
	InitiatedBy        string     `json:"initiated_by"`
	CurrentStreak      int        `json:"current_streak"`
	LongestStreak      int        `json:"longest_streak"`
	LastActivityDate   time.Time  `json:"last_activity_date"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// HasMember reports whether the user is one of the couple's two members.
func (c *Couple) HasMember(userID string) bool {
	if c.User1ID == userID {
		return true
	}
	return c.User2ID != nil && *c.User2ID == userID
}

// PartnerOf returns the other member relative to userID, or "" if the
// couple has no second member yet.
func (c *Couple) PartnerOf(userID string) string {
	if c.User1ID == userID {
		if c.User2ID != nil {
			return *c.User2ID
		}
		return ""
	}
	return c.User1ID
}

// PairingAttempt is an append-only audit record of a confirm attempt,
// used for per-IP rate limiting.
type PairingAttempt struct {
	ID            string    `json:"id"`
	UserID        *string   `json:"user_id,omitempty"`
	IPAddress     string    `json:"ip_address"`
	CodeAttempt   string    `json:"code_attempt"`
	AttemptedAt   time.Time `json:"attempted_at"`
	WasSuccessful bool      `json:"was_successful"`
}

// Task represents a shared task owned by a couple
type Task struct {
	ID          string     `json:"id"`
	CoupleID    string     `json:"couple_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Points      int        `json:"points"`
	Category    string     `json:"category"`
	Difficulty  string     `json:"difficulty"`
	AssignedTo  *string    `json:"assigned_to,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	IsCompleted bool       `json:"is_completed"`
	CreatedBy   string     `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CompletedBy *string    `json:"completed_by,omitempty"`
}

// UserProfile tracks a single user's progression. XP never decreases;
// level is always recomputed from XP.
type UserProfile struct {
	UserID     string    `json:"user_id"`
	XP         int       `json:"xp"`
	Level      int       `json:"level"`
	Streak     int       `json:"streak"`
	LastActive time.Time `json:"last_active"`
}

// Achievement is an immutable catalog entry gated by a declarative rule
type Achievement struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Icon        string                  `json:"icon"`
	XPReward    int                     `json:"xp_reward"`
	UnlockRule  gamification.UnlockRule `json:"unlock_rule"`
}

// CoupleAchievement records a one-time unlock of an achievement by a couple
type CoupleAchievement struct {
	CoupleID      string    `json:"couple_id"`
	AchievementID string    `json:"achievement_id"`
	UnlockedAt    time.Time `json:"unlocked_at"`
}

// CoupleMessage is a chat message between the two members of a couple
type CoupleMessage struct {
	ID       string    `json:"id"`
	CoupleID string    `json:"couple_id"`
	SenderID string    `json:"sender_id"`
	Content  string    `json:"content"`
	SentAt   time.Time `json:"sent_at"`
	IsRead   bool      `json:"is_read"`
}
