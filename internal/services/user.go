package services

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/vmilosev/ledara-api/internal/apperr"
	"github.com/vmilosev/ledara-api/internal/database"
	"github.com/vmilosev/ledara-api/internal/models"
)

const userColumns = `id, uuid, email, username, password, refresh_token, roles, status,
		first_name, last_name, phone, completed_welcome, completed_additional_information,
		metadata, last_login_time, deleted_at, created_at, updated_at`

type UserService struct {
	db         *database.DB
	bcryptCost int
}

type CreateUserParams struct {
	Email     string
	Username  string
	Password  string
	FirstName *string
	LastName  *string
	Phone     *string
}

type UpdateProfileParams struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Metadata  json.RawMessage
}

func NewUserService(db *database.DB, bcryptCost int) *UserService {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{db: db, bcryptCost: bcryptCost}
}

// Create registers a new user with the default AppUser role and Pending
// status. A duplicate email fails with a validation error before any write.
func (s *UserService) Create(ctx context.Context, p CreateUserParams) (*models.User, error) {
	_, err := s.GetByEmail(ctx, p.Email)
	if err == nil {
		return nil, apperr.Validation("user with this email already exists")
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hashed, err := s.HashPassword(p.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	row := s.db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, username, password, roles, status, first_name, last_name, phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+userColumns+`
	`, p.Email, p.Username, hashed, []string{models.RoleAppUser}, models.StatusPending,
		p.FirstName, p.LastName, p.Phone)

	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE email = $1
	`, email)
	return scanUser(row)
}

func (s *UserService) GetByUUID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := s.db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE uuid = $1
	`, id)
	return scanUser(row)
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	row := s.db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = $1
	`, id)
	return scanUser(row)
}

// UpdateProfile patches the mutable profile fields; nil parameters leave the
// stored value untouched.
func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, p UpdateProfileParams) (*models.User, error) {
	row := s.db.Pool.QueryRow(ctx, `
		UPDATE users SET
			first_name = COALESCE($1, first_name),
			last_name = COALESCE($2, last_name),
			phone = COALESCE($3, phone),
			metadata = COALESCE($4, metadata),
			updated_at = NOW()
		WHERE uuid = $5
		RETURNING `+userColumns+`
	`, p.FirstName, p.LastName, p.Phone, p.Metadata, id)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

func (s *UserService) SetCompletedWelcome(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.setCompletionFlag(ctx, id, "completed_welcome")
}

func (s *UserService) SetCompletedAdditionalInformation(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.setCompletionFlag(ctx, id, "completed_additional_information")
}

func (s *UserService) setCompletionFlag(ctx context.Context, id uuid.UUID, column string) (*models.User, error) {
	row := s.db.Pool.QueryRow(ctx, `
		UPDATE users SET `+column+` = TRUE, updated_at = NOW()
		WHERE uuid = $1
		RETURNING `+userColumns+`
	`, id)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// SoftDelete marks the account deactivated. The row is never removed.
func (s *UserService) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, `
		UPDATE users SET status = $1, deleted_at = NOW(), updated_at = NOW()
		WHERE uuid = $2 AND deleted_at IS NULL
	`, models.StatusDeactivated, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

func (s *UserService) UpdateLastLogin(ctx context.Context, id int64) error {
	_, err := s.db.Pool.Exec(ctx, `
		UPDATE users SET last_login_time = NOW(), updated_at = NOW() WHERE id = $1
	`, id)
	return err
}

// SetRefreshTokenHash stores (or clears, when nil) the single refresh-token
// hash kept per user. Only one session can hold a valid refresh token at a
// time by construction.
func (s *UserService) SetRefreshTokenHash(ctx context.Context, id int64, hash *string) error {
	_, err := s.db.Pool.Exec(ctx, `
		UPDATE users SET refresh_token = $1, updated_at = NOW() WHERE id = $2
	`, hash, id)
	return err
}

// RotateRefreshTokenHash swaps oldHash for newHash in a single conditional
// update. The compare-and-swap guarantees exactly-once rotation when two
// refresh attempts race with the same token: only one write matches the old
// hash.
func (s *UserService) RotateRefreshTokenHash(ctx context.Context, id int64, oldHash, newHash string) (bool, error) {
	tag, err := s.db.Pool.Exec(ctx, `
		UPDATE users SET refresh_token = $1, updated_at = NOW()
		WHERE id = $2 AND refresh_token = $3
	`, newHash, id, oldHash)
	if err != nil {
		return false, fmt.Errorf("failed to rotate refresh token: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *UserService) HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword is a constant-time comparison via bcrypt.
func (s *UserService) VerifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// HashRefreshToken bcrypt-hashes a refresh token. Tokens are SHA-256 digested
// first because bcrypt rejects inputs longer than 72 bytes and signed JWTs
// always exceed that.
func (s *UserService) HashRefreshToken(token string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(tokenDigest(token), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (s *UserService) VerifyRefreshToken(token, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), tokenDigest(token)) == nil
}

func tokenDigest(token string) []byte {
	sum := sha256.Sum256([]byte(token))
	return []byte(base64.RawStdEncoding.EncodeToString(sum[:]))
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.UUID, &user.Email, &user.Username, &user.Password,
		&user.RefreshToken, &user.Roles, &user.Status, &user.FirstName,
		&user.LastName, &user.Phone, &user.CompletedWelcome,
		&user.CompletedAdditionalInformation, &user.Metadata,
		&user.LastLoginTime, &user.DeletedAt, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
