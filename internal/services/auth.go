package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vmilosev/ledara-api/internal/apperr"
	"github.com/vmilosev/ledara-api/internal/database"
	"github.com/vmilosev/ledara-api/internal/models"
	"github.com/vmilosev/ledara-api/internal/oauth"
)

// AuthService coordinates registration, login, logout, refresh and OAuth
// login on top of the user records and the token issuer.
type AuthService struct {
	db    *database.DB
	users *UserService
	jwt   *JWTService
}

// AuthResult is what every successful authentication operation returns: the
// sanitized user plus a fresh token pair.
type AuthResult struct {
	User   *models.User
	Tokens *TokenPair
}

func NewAuthService(db *database.DB, users *UserService, jwt *JWTService) *AuthService {
	return &AuthService{db: db, users: users, jwt: jwt}
}

// Register creates the account and immediately opens a session for it.
func (s *AuthService) Register(ctx context.Context, p CreateUserParams) (*AuthResult, error) {
	user, err := s.users.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	return s.openSession(ctx, user)
}

// Login verifies the password and issues a new token pair. Unknown email and
// wrong password produce the same error so callers cannot probe for accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Authentication("invalid credentials")
	}

	if !s.users.VerifyPassword(password, user.Password) {
		return nil, apperr.Authentication("invalid credentials")
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to update last login: %w", err)
	}

	return s.openSession(ctx, user)
}

// Refresh rotates a refresh token: the supplied token is verified against
// the refresh secret and the stored hash, then replaced in one conditional
// update so it can never be redeemed twice. Every failure collapses to the
// same authentication error.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperr.Authentication("invalid refresh token")
	}

	userUUID, err := claims.UserUUID()
	if err != nil {
		return nil, apperr.Authentication("invalid refresh token")
	}

	user, err := s.users.GetByUUID(ctx, userUUID)
	if err != nil || user.RefreshToken == nil {
		return nil, apperr.Authentication("invalid refresh token")
	}

	if !s.users.VerifyRefreshToken(refreshToken, *user.RefreshToken) {
		return nil, apperr.Authentication("invalid refresh token")
	}

	pair, err := s.jwt.GenerateTokenPair(user.UUID, user.Email, user.Roles)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	newHash, err := s.users.HashRefreshToken(pair.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to hash refresh token: %w", err)
	}

	rotated, err := s.users.RotateRefreshTokenHash(ctx, user.ID, *user.RefreshToken, newHash)
	if err != nil {
		return nil, err
	}
	if !rotated {
		// A concurrent refresh won the swap; this token is spent.
		return nil, apperr.Authentication("invalid refresh token")
	}

	return pair, nil
}

// Logout clears the stored refresh-token hash, invalidating any outstanding
// refresh token regardless of its expiry.
func (s *AuthService) Logout(ctx context.Context, userUUID uuid.UUID) error {
	user, err := s.users.GetByUUID(ctx, userUUID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	return s.users.SetRefreshTokenHash(ctx, user.ID, nil)
}

// GoogleLogin signs in a verified Google profile. A missing local account is
// created with an unusable random password; an existing account gets an
// auth-provider link at most once. Linking never touches the account's own
// credentials.
func (s *AuthService) GoogleLogin(ctx context.Context, profile *oauth.UserInfo) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, profile.Email)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		placeholder, err := randomPassword()
		if err != nil {
			return nil, fmt.Errorf("failed to generate placeholder password: %w", err)
		}

		user, err = s.users.Create(ctx, CreateUserParams{
			Email:     profile.Email,
			Username:  deriveUsername(profile.Name, profile.Email),
			Password:  placeholder,
			FirstName: nullableString(profile.GivenName),
			LastName:  nullableString(profile.FamilyName),
		})
		if err != nil {
			return nil, err
		}

		if err := s.createAuthProvider(ctx, user.ID, models.ProviderGoogle, profile); err != nil {
			return nil, err
		}

	case err != nil:
		return nil, fmt.Errorf("failed to look up user: %w", err)

	default:
		linked, err := s.hasAuthProvider(ctx, user.ID, models.ProviderGoogle)
		if err != nil {
			return nil, err
		}
		if !linked {
			if err := s.createAuthProvider(ctx, user.ID, models.ProviderGoogle, profile); err != nil {
				return nil, err
			}
		}
	}

	return s.openSession(ctx, user)
}

// ValidateUser resolves a public UUID for downstream token consumers.
func (s *AuthService) ValidateUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByUUID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user.Sanitized(), nil
}

func (s *AuthService) openSession(ctx context.Context, user *models.User) (*AuthResult, error) {
	pair, err := s.jwt.GenerateTokenPair(user.UUID, user.Email, user.Roles)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	hash, err := s.users.HashRefreshToken(pair.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to hash refresh token: %w", err)
	}

	if err := s.users.SetRefreshTokenHash(ctx, user.ID, &hash); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &AuthResult{User: user.Sanitized(), Tokens: pair}, nil
}

func (s *AuthService) hasAuthProvider(ctx context.Context, userID int64, provider string) (bool, error) {
	var exists bool
	err := s.db.Pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM auth_providers WHERE user_id = $1 AND provider = $2)
	`, userID, provider).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check auth provider: %w", err)
	}
	return exists, nil
}

func (s *AuthService) createAuthProvider(ctx context.Context, userID int64, provider string, profile *oauth.UserInfo) error {
	_, err := s.db.Pool.Exec(ctx, `
		INSERT INTO auth_providers (user_id, provider, provider_id, provider_data)
		VALUES ($1, $2, $3, $4)
	`, userID, provider, profile.ID, profile.Raw)
	if err != nil {
		return fmt.Errorf("failed to create auth provider: %w", err)
	}
	return nil
}

// deriveUsername normalizes the display name, falling back to the email's
// local part.
func deriveUsername(displayName, email string) string {
	username := strings.ToLower(strings.Join(strings.Fields(displayName), ""))
	if username == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}
	return username
}

// randomPassword produces an unusable placeholder for OAuth-only accounts.
func randomPassword() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
