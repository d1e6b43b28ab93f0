package user

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	userRepo "datex/database/repository/user"
	"datex/models"
	"datex/services/product"
	"datex/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Validation and credential errors surfaced to the user.
var (
	ErrInvalidEmail       = errors.New("enter a valid email address")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrEmailInUse         = errors.New("this email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

const (
	tokenTTL         = 72 * time.Hour
	sessionKeyPrefix = "session:"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func sessionKey(userID string) string {
	return sessionKeyPrefix + userID
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo     userRepo.UserRepository
	Sessions *redis.Client
	Cache    *product.SnapshotCache
}

func NewDefaultUserService(repo userRepo.UserRepository, sessions *redis.Client, cache *product.SnapshotCache) *DefaultUserService {
	return &DefaultUserService{Repo: repo, Sessions: sessions, Cache: cache}
}

// Register creates an email/password account and signs the user in.
func (s *DefaultUserService) Register(ctx context.Context, email, password string) (*AuthResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if len(password) < 6 {
		return nil, ErrWeakPassword
	}

	existing, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		utils.GetLogger().Error("Register: failed to check for existing user", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}
	if existing != nil {
		return nil, ErrEmailInUse
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		AuthProvider: models.AuthProviderPassword,
	}
	if err := s.Repo.Create(ctx, account); err != nil {
		utils.GetLogger().Error("Register: failed to create user", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}

	return s.issueSession(ctx, account)
}

// Authenticate verifies email/password credentials and signs the user in.
func (s *DefaultUserService) Authenticate(ctx context.Context, email, password string) (*AuthResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	account, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		utils.GetLogger().Error("Authenticate: failed to fetch user", zap.Error(err))
		return nil, fmt.Errorf("authentication failed, please try again")
	}
	if account == nil || account.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueSession(ctx, account)
}

// Logout revokes the session and clears the cached product snapshot so
// the next sign-in on this deployment never sees another user's data.
func (s *DefaultUserService) Logout(ctx context.Context, userID string) error {
	if err := s.Sessions.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to revoke session for user %s: %w", userID, err)
	}
	if err := s.Cache.Clear(ctx, userID); err != nil {
		return err
	}
	return nil
}

// GetUserByID retrieves an account by its ID.
func (s *DefaultUserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.Repo.GetByID(ctx, id)
}

// RegisterDeviceToken stores an FCM device token for push delivery.
func (s *DefaultUserService) RegisterDeviceToken(ctx context.Context, userID, token string) error {
	if token == "" {
		return fmt.Errorf("device token is required")
	}
	return s.Repo.SetFCMToken(ctx, userID, token)
}

// issueSession generates a JWT and stores its hash so the auth
// middleware can reject tokens revoked by logout.
func (s *DefaultUserService) issueSession(ctx context.Context, account *models.User) (*AuthResponse, error) {
	token, err := utils.GenerateToken(account.ID, account.Email, tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	if err := s.Sessions.Set(ctx, sessionKey(account.ID), utils.HashToken(token), tokenTTL).Err(); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return &AuthResponse{Token: token, User: account}, nil
}
