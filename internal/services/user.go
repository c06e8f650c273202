package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/officialryder1/couplequest-backend/internal/gamification"
	"github.com/officialryder1/couplequest-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const jwtExpDays = 30

// UserService handles accounts, credentials and profile projections
type UserService struct {
	store     Store
	jwtSecret string
	now       func() time.Time
}

// NewUserService creates a new user service
func NewUserService(store Store, jwtSecret string) *UserService {
	return &UserService{
		store:     store,
		jwtSecret: jwtSecret,
		now:       time.Now,
	}
}

// AuthResult is returned by Register and Login
type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Register creates an account with a fresh profile and issues a JWT
func (s *UserService) Register(ctx context.Context, email, username, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	existing, err := s.store.UserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email already registered", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    now,
	}
	profile := &models.UserProfile{
		UserID:     user.ID,
		XP:         0,
		Level:      gamification.LevelFor(0),
		Streak:     0,
		LastActive: now,
	}

	err = s.store.InTx(ctx, func(tx Store) error {
		if err := tx.CreateUser(ctx, user); err != nil {
			return err
		}
		return tx.CreateProfile(ctx, profile)
	})
	if err != nil {
		return nil, err
	}

	token, err := s.GenerateJWT(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

// Login verifies credentials and issues a JWT
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.store.UserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	token, err := s.GenerateJWT(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

// ProfileFor returns the progression profile for a user
func (s *UserService) ProfileFor(ctx context.Context, userID string) (*models.UserProfile, error) {
	profile, err := s.store.ProfileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("%w: profile", ErrNotFound)
	}
	return profile, nil
}

// GenerateJWT generates a signed token for a user
func (s *UserService) GenerateJWT(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     s.now().AddDate(0, 0, jwtExpDays).Unix(),
		"iat":     s.now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateJWT validates a token and returns the user ID
func (s *UserService) ValidateJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}
	userID, ok := claims["user_id"].(string)
	if !ok {
		return "", fmt.Errorf("user_id not found in token")
	}
	return userID, nil
}
