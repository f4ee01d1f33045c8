package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"veggie-shop/models"
	"veggie-shop/storage"
	"veggie-shop/utils"
)

type AuthConfig struct {
	SessionSecret  string
	SessionTTL     time.Duration
	ProviderSecret string
	AdminEmails    []string
}

type AuthService struct {
	users  storage.UserStore
	cfg    AuthConfig
	admins map[string]struct{}
}

func NewAuthService(users storage.UserStore, cfg AuthConfig) *AuthService {
	admins := make(map[string]struct{}, len(cfg.AdminEmails))
	for _, email := range cfg.AdminEmails {
		if email = strings.ToLower(strings.TrimSpace(email)); email != "" {
			admins[email] = struct{}{}
		}
	}
	return &AuthService{users: users, cfg: cfg, admins: admins}
}

func (s *AuthService) roleFor(email string) string {
	if _, ok := s.admins[strings.ToLower(email)]; ok {
		return models.RoleAdmin
	}
	return models.RoleCustomer
}

// CompleteLogin verifies the provider's assertion, records the user and
// returns a fresh session token.
func (s *AuthService) CompleteLogin(ctx context.Context, assertion string) (string, *models.User, error) {
	claims, err := utils.ParseProviderToken(s.cfg.ProviderSecret, assertion)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	user, err := s.users.UpsertUser(ctx, models.User{
		ID:              claims.Subject,
		Email:           claims.Email,
		FirstName:       claims.FirstName,
		LastName:        claims.LastName,
		ProfileImageURL: claims.ProfileImageURL,
		Role:            s.roleFor(claims.Email),
	})
	if err != nil {
		return "", nil, fmt.Errorf("upsert user: %w", err)
	}

	token, err := s.IssueSession(user)
	if err != nil {
		return "", nil, err
	}

	log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("user logged in")
	return token, user, nil
}

func (s *AuthService) IssueSession(user *models.User) (string, error) {
	token, err := utils.GenerateSessionToken(s.cfg.SessionSecret, user.ID, user.Email, user.Role, s.cfg.SessionTTL)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return token, nil
}

// Authenticate resolves a session token to its claims.
func (s *AuthService) Authenticate(token string) (*utils.SessionClaims, error) {
	claims, err := utils.ValidateSessionToken(s.cfg.SessionSecret, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return claims, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	return s.users.GetUser(ctx, userID)
}
