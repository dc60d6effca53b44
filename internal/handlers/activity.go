package handlers

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"

	"github.com/vmilosev/ledara-api/internal/middleware"
)

type ActivityHandler struct {
	activityService ActivityServiceInterface
}

func NewActivityHandler(activityService ActivityServiceInterface) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

func (h *ActivityHandler) GetFeed(c *drift.Context) {
	userUUID := middleware.GetUserUUID(c)
	if userUUID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)

	items, err := h.activityService.GetActivityFeed(context.Background(), userUUID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(200, items)
}

func (h *ActivityHandler) GetConversations(c *drift.Context) {
	userUUID := middleware.GetUserUUID(c)
	if userUUID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	limit := queryInt(c, "limit", 10)

	conversations, err := h.activityService.GetRecentConversations(context.Background(), userUUID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(200, conversations)
}

func (h *ActivityHandler) GetCollectionActivities(c *drift.Context) {
	userUUID := middleware.GetUserUUID(c)
	if userUUID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	limit := queryInt(c, "limit", 20)

	activities, err := h.activityService.GetCollectionActivities(context.Background(), userUUID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(200, activities)
}

func queryInt(c *drift.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
