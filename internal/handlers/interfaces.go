package handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/vmilosev/ledara-api/internal/models"
	"github.com/vmilosev/ledara-api/internal/oauth"
	"github.com/vmilosev/ledara-api/internal/services"
)

// AuthServiceInterface defines the methods used by handlers from AuthService
type AuthServiceInterface interface {
	Register(ctx context.Context, p services.CreateUserParams) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, userUUID uuid.UUID) error
	GoogleLogin(ctx context.Context, profile *oauth.UserInfo) (*services.AuthResult, error)
	ValidateUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// ProfileServiceInterface defines the methods used by handlers from ProfileService
type ProfileServiceInterface interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, p services.UpdateProfileParams) (*models.User, error)
	CompleteWelcome(ctx context.Context, id uuid.UUID) (*models.User, error)
	CompleteAdditionalInformation(ctx context.Context, id uuid.UUID) (*models.User, error)
	DeleteProfile(ctx context.Context, id uuid.UUID) error
}

// ActivityServiceInterface defines the methods used by handlers from ActivityService
type ActivityServiceInterface interface {
	GetActivityFeed(ctx context.Context, userUUID uuid.UUID, limit, offset int) ([]models.ActivityItem, error)
	GetRecentConversations(ctx context.Context, userUUID uuid.UUID, limit int) ([]models.ConversationSummary, error)
	GetCollectionActivities(ctx context.Context, userUUID uuid.UUID, limit int) ([]models.CollectionActivity, error)
}

// QuotaServiceInterface defines the methods used by handlers from QuotaService
type QuotaServiceInterface interface {
	GetUserQuota(ctx context.Context, userUUID uuid.UUID) (*models.QuotaOverview, error)
	GetQuotaEvents(ctx context.Context, userUUID uuid.UUID, limit int) ([]models.QuotaEvent, error)
	CheckQuotaAvailable(ctx context.Context, userUUID, definitionUUID uuid.UUID) (bool, error)
}
