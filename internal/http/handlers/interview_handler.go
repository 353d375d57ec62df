package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/expertnet-backend/internal/http/handlers/common"
	"github.com/ignatzorin/expertnet-backend/internal/http/response"
	"github.com/ignatzorin/expertnet-backend/internal/models"
)

// InterviewService операции над интервью.
type InterviewService interface {
	ListInterviews(ctx context.Context, userID string, filter models.InterviewFilter) ([]models.Interview, error)
	GetInterview(ctx context.Context, id uuid.UUID, userID string) (*models.Interview, error)
	ScheduleInterview(ctx context.Context, userID string, in models.InterviewInput) (*models.Interview, error)
	UpdateInterview(ctx context.Context, id uuid.UUID, userID string, patch models.InterviewPatch) (*models.Interview, error)
	DeleteInterview(ctx context.Context, id uuid.UUID, userID string) error
}

// InterviewHandler обслуживает /api/interviews.
type InterviewHandler struct {
	interviews InterviewService
}

func NewInterviewHandler(interviews InterviewService) *InterviewHandler {
	return &InterviewHandler{interviews: interviews}
}

// ListInterviews обрабатывает GET /api/interviews?campaign_id=&status=.
func (h *InterviewHandler) ListInterviews(c *gin.Context) {
	userID, ok := common.RequireUserID(c)
	if !ok {
		return
	}
	campaignID, ok := common.OptionalUUIDQuery(c, "campaign_id")
	if !ok {
		return
	}

	filter := models.InterviewFilter{CampaignID: campaignID, Status: c.Query("status")}
	items, err := h.interviews.ListInterviews(c.Request.Context(), userID, filter)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	response.List(c, items)
}

// GetInterview обрабатывает GET /api/interviews/:id.
func (h *InterviewHandler) GetInterview(c *gin.Context) {
	userID, ok := common.RequireUserID(c)
	if !ok {
		return
	}
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	interview, err := h.interviews.GetInterview(c.Request.Context(), id, userID)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	response.OK(c, interview)
}

// ScheduleInterview обрабатывает POST /api/interviews.
func (h *InterviewHandler) ScheduleInterview(c *gin.Context) {
	userID, ok := common.RequireUserID(c)
	if !ok {
		return
	}

	var req models.InterviewInput
	if !common.BindJSON(c, &req) {
		return
	}

	interview, err := h.interviews.ScheduleInterview(c.Request.Context(), userID, req)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	response.Created(c, interview)
}

// UpdateInterview обрабатывает PATCH /api/interviews/:id.
func (h *InterviewHandler) UpdateInterview(c *gin.Context) {
	userID, ok := common.RequireUserID(c)
	if !ok {
		return
	}
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	var req models.InterviewPatch
	if !common.BindJSON(c, &req) {
		return
	}

	interview, err := h.interviews.UpdateInterview(c.Request.Context(), id, userID, req)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	response.OK(c, interview)
}

// DeleteInterview обрабатывает DELETE /api/interviews/:id.
func (h *InterviewHandler) DeleteInterview(c *gin.Context) {
	userID, ok := common.RequireUserID(c)
	if !ok {
		return
	}
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.interviews.DeleteInterview(c.Request.Context(), id, userID); err != nil {
		common.RespondError(c, err)
		return
	}
	response.Deleted(c, "Interview deleted successfully")
}
