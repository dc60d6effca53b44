package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"

	"github.com/vmilosev/ledara-api/internal/config"
	"github.com/vmilosev/ledara-api/internal/middleware"
	"github.com/vmilosev/ledara-api/internal/oauth"
	"github.com/vmilosev/ledara-api/internal/services"
	"github.com/vmilosev/ledara-api/pkg/dto"
)

type AuthHandler struct {
	authService AuthServiceInterface
	providers   map[string]oauth.Provider
	states      sync.Map
}

type stateData struct {
	expiresAt time.Time
}

func NewAuthHandler(cfg *config.Config, authService AuthServiceInterface) *AuthHandler {
	h := &AuthHandler{
		authService: authService,
		providers:   make(map[string]oauth.Provider),
	}

	if cfg.Google.ClientID != "" {
		h.providers["google"] = oauth.NewGoogleProvider(cfg.Google)
	}

	go h.cleanupStates()

	return h
}

func (h *AuthHandler) cleanupStates() {
	ticker := time.NewTicker(1 * time.Minute)
	for range ticker.C {
		now := time.Now()
		h.states.Range(func(key, value interface{}) bool {
			if sd, ok := value.(stateData); ok && now.After(sd.expiresAt) {
				h.states.Delete(key)
			}
			return true
		})
	}
}

func (h *AuthHandler) Register(c *drift.Context) {
	var req dto.RegisterRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		c.BadRequest(err.Error())
		return
	}

	result, err := h.authService.Register(context.Background(), services.CreateUserParams{
		Email:     req.Email,
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(201, authResponse(result))
}

func (h *AuthHandler) Login(c *drift.Context) {
	var req dto.LoginRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		c.BadRequest(err.Error())
		return
	}

	result, err := h.authService.Login(context.Background(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(200, authResponse(result))
}

func (h *AuthHandler) RefreshToken(c *drift.Context) {
	var req dto.RefreshTokenRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.RefreshToken == "" {
		c.BadRequest("refresh_token is required")
		return
	}

	pair, err := h.authService.Refresh(context.Background(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(200, dto.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	})
}

func (h *AuthHandler) Logout(c *drift.Context) {
	userUUID := middleware.GetUserUUID(c)
	if userUUID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	if err := h.authService.Logout(context.Background(), userUUID); err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(200, map[string]string{"message": "logged out"})
}

func (h *AuthHandler) Me(c *drift.Context) {
	userUUID := middleware.GetUserUUID(c)
	if userUUID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	user, err := h.authService.ValidateUser(context.Background(), userUUID)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(200, user)
}

func (h *AuthHandler) GetConsentURL(c *drift.Context) {
	provider := c.Param("provider")

	p, ok := h.providers[provider]
	if !ok {
		c.BadRequest("unsupported provider: " + provider)
		return
	}

	state, err := oauth.GenerateState()
	if err != nil {
		c.InternalServerError("failed to generate state")
		return
	}

	h.states.Store(state, stateData{expiresAt: time.Now().Add(10 * time.Minute)})

	_ = c.JSON(200, dto.ConsentURLResponse{
		URL: p.GetConsentURL(state),
	})
}

func (h *AuthHandler) Callback(c *drift.Context) {
	provider := c.Param("provider")

	p, ok := h.providers[provider]
	if !ok {
		c.BadRequest("unsupported provider: " + provider)
		return
	}

	state := c.QueryParam("state")
	if state == "" {
		c.BadRequest("missing state parameter")
		return
	}

	sd, ok := h.states.LoadAndDelete(state)
	if !ok {
		c.Unauthorized("invalid or expired state")
		return
	}

	sdTyped, ok := sd.(stateData)
	if !ok || time.Now().After(sdTyped.expiresAt) {
		c.Unauthorized("state expired")
		return
	}

	code := c.QueryParam("code")
	if code == "" {
		c.BadRequest("missing authorization code")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	userInfo, err := p.ExchangeCode(ctx, code)
	if err != nil {
		c.Unauthorized("failed to exchange authorization code")
		return
	}

	result, err := h.authService.GoogleLogin(ctx, userInfo)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(200, authResponse(result))
}

func authResponse(result *services.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		User:         result.User,
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
		ExpiresIn:    result.Tokens.ExpiresIn,
	}
}
