package handlers

import (
	"context"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"

	"github.com/vmilosev/ledara-api/internal/middleware"
	"github.com/vmilosev/ledara-api/pkg/dto"
)

type QuotaHandler struct {
	quotaService QuotaServiceInterface
}

func NewQuotaHandler(quotaService QuotaServiceInterface) *QuotaHandler {
	return &QuotaHandler{quotaService: quotaService}
}

func (h *QuotaHandler) Get(c *drift.Context) {
	userUUID := middleware.GetUserUUID(c)
	if userUUID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	overview, err := h.quotaService.GetUserQuota(context.Background(), userUUID)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(200, overview)
}

func (h *QuotaHandler) GetEvents(c *drift.Context) {
	userUUID := middleware.GetUserUUID(c)
	if userUUID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	limit := queryInt(c, "limit", 50)

	events, err := h.quotaService.GetQuotaEvents(context.Background(), userUUID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(200, events)
}

func (h *QuotaHandler) Check(c *drift.Context) {
	userUUID := middleware.GetUserUUID(c)
	if userUUID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	definitionUUID, err := uuid.Parse(c.Param("definitionUuid"))
	if err != nil {
		c.BadRequest("invalid quota definition uuid")
		return
	}

	available, err := h.quotaService.CheckQuotaAvailable(context.Background(), userUUID, definitionUUID)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(200, dto.QuotaCheckResponse{Available: available})
}
