package handlers

import (
	"context"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"

	"github.com/vmilosev/ledara-api/internal/middleware"
	"github.com/vmilosev/ledara-api/internal/services"
	"github.com/vmilosev/ledara-api/pkg/dto"
)

type ProfileHandler struct {
	profileService ProfileServiceInterface
}

func NewProfileHandler(profileService ProfileServiceInterface) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

func (h *ProfileHandler) Get(c *drift.Context) {
	userUUID := middleware.GetUserUUID(c)
	if userUUID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	user, err := h.profileService.GetProfile(context.Background(), userUUID)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(200, user)
}

func (h *ProfileHandler) Update(c *drift.Context) {
	userUUID := middleware.GetUserUUID(c)
	if userUUID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	user, err := h.profileService.UpdateProfile(context.Background(), userUUID, services.UpdateProfileParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Metadata:  req.Metadata,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(200, user)
}

func (h *ProfileHandler) CompleteWelcome(c *drift.Context) {
	userUUID := middleware.GetUserUUID(c)
	if userUUID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	user, err := h.profileService.CompleteWelcome(context.Background(), userUUID)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(200, user)
}

func (h *ProfileHandler) CompleteAdditionalInformation(c *drift.Context) {
	userUUID := middleware.GetUserUUID(c)
	if userUUID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	user, err := h.profileService.CompleteAdditionalInformation(context.Background(), userUUID)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(200, user)
}

func (h *ProfileHandler) Delete(c *drift.Context) {
	userUUID := middleware.GetUserUUID(c)
	if userUUID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	if err := h.profileService.DeleteProfile(context.Background(), userUUID); err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(200, map[string]string{"message": "account deactivated"})
}
