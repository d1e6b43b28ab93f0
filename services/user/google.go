package user

import (
	"context"
	"fmt"

	"datex/config"
	"datex/models"
	"datex/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/api/idtoken"
)

// GoogleSignIn verifies a Google ID token and signs the user in. The
// account is created on first use; password accounts with the same email
// are reused so a user can mix sign-in methods.
func (s *DefaultUserService) GoogleSignIn(ctx context.Context, rawToken string) (*AuthResponse, error) {
	if rawToken == "" {
		return nil, fmt.Errorf("google id token is required")
	}

	payload, err := idtoken.Validate(ctx, rawToken, config.AppConfig.GoogleClientID)
	if err != nil {
		return nil, fmt.Errorf("google sign-in failed: invalid id token: %w", err)
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, fmt.Errorf("google sign-in failed: token carries no email")
	}
	if verified, _ := payload.Claims["email_verified"].(bool); !verified {
		return nil, fmt.Errorf("google sign-in failed: email not verified")
	}

	account, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		utils.GetLogger().Error("GoogleSignIn: failed to fetch user", zap.Error(err))
		return nil, fmt.Errorf("authentication failed, please try again")
	}

	if account == nil {
		account = &models.User{
			ID:           uuid.NewString(),
			Email:        email,
			AuthProvider: models.AuthProviderGoogle,
		}
		if err := s.Repo.Create(ctx, account); err != nil {
			utils.GetLogger().Error("GoogleSignIn: failed to create user", zap.Error(err))
			return nil, fmt.Errorf("authentication failed, please try again")
		}
	}

	return s.issueSession(ctx, account)
}
