package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/expertnet-backend/internal/http/handlers/common"
	"github.com/ignatzorin/expertnet-backend/internal/http/response"
	"github.com/ignatzorin/expertnet-backend/internal/models"
)

// ExpertService операции над экспертами и их скрининговыми ответами.
type ExpertService interface {
	ListExperts(ctx context.Context, userID string, filter models.ExpertFilter) ([]models.Expert, error)
	GetExpert(ctx context.Context, id uuid.UUID, userID string) (*models.Expert, error)
	CreateExpert(ctx context.Context, userID string, in models.ExpertInput) (*models.Expert, error)
	UpdateExpert(ctx context.Context, id uuid.UUID, userID string, patch models.ExpertPatch) (*models.Expert, error)
	DeleteExpert(ctx context.Context, id uuid.UUID, userID string) error
	ListScreeningResponses(ctx context.Context, expertID uuid.UUID, userID string) ([]models.ScreeningResponse, error)
	AddScreeningResponse(ctx context.Context, expertID uuid.UUID, userID string, in models.ScreeningResponseInput) (*models.ScreeningResponse, error)
}

// ExpertHandler обслуживает /api/experts.
type ExpertHandler struct {
	experts ExpertService
}

// NewExpertHandler создаёт новый хэндлер.
func NewExpertHandler(experts ExpertService) *ExpertHandler {
	return &ExpertHandler{experts: experts}
}

// ListExperts обрабатывает GET /api/experts?campaign_id=&status=&vendor_id=.
func (h *ExpertHandler) ListExperts(c *gin.Context) {
	userID, ok := common.RequireUserID(c)
	if !ok {
		return
	}

	campaignID, ok := common.OptionalUUIDQuery(c, "campaign_id")
	if !ok {
		return
	}
	if campaignID == nil {
		response.BadRequest(c, "campaign_id query parameter is required")
		return
	}
	vendorID, ok := common.OptionalUUIDQuery(c, "vendor_id")
	if !ok {
		return
	}

	filter := models.ExpertFilter{
		CampaignID: *campaignID,
		Status:     c.Query("status"),
		VendorID:   vendorID,
	}
	items, err := h.experts.ListExperts(c.Request.Context(), userID, filter)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	response.List(c, items)
}

// GetExpert обрабатывает GET /api/experts/:id. Ответ включает screening_responses.
func (h *ExpertHandler) GetExpert(c *gin.Context) {
	userID, ok := common.RequireUserID(c)
	if !ok {
		return
	}
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	expert, err := h.experts.GetExpert(c.Request.Context(), id, userID)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	response.OK(c, expert)
}

// CreateExpert обрабатывает POST /api/experts.
func (h *ExpertHandler) CreateExpert(c *gin.Context) {
	userID, ok := common.RequireUserID(c)
	if !ok {
		return
	}

	var req models.ExpertInput
	if !common.BindJSON(c, &req) {
		return
	}

	expert, err := h.experts.CreateExpert(c.Request.Context(), userID, req)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	response.Created(c, expert)
}

// UpdateExpert обрабатывает PATCH /api/experts/:id.
func (h *ExpertHandler) UpdateExpert(c *gin.Context) {
	userID, ok := common.RequireUserID(c)
	if !ok {
		return
	}
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	var req models.ExpertPatch
	if !common.BindJSON(c, &req) {
		return
	}

	expert, err := h.experts.UpdateExpert(c.Request.Context(), id, userID, req)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	response.OK(c, expert)
}

// DeleteExpert обрабатывает DELETE /api/experts/:id.
func (h *ExpertHandler) DeleteExpert(c *gin.Context) {
	userID, ok := common.RequireUserID(c)
	if !ok {
		return
	}
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.experts.DeleteExpert(c.Request.Context(), id, userID); err != nil {
		common.RespondError(c, err)
		return
	}
	response.Deleted(c, "Expert deleted successfully")
}

// ListScreeningResponses обрабатывает GET /api/experts/:id/screening.
func (h *ExpertHandler) ListScreeningResponses(c *gin.Context) {
	userID, ok := common.RequireUserID(c)
	if !ok {
		return
	}
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	items, err := h.experts.ListScreeningResponses(c.Request.Context(), id, userID)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	response.List(c, items)
}

// AddScreeningResponse обрабатывает POST /api/experts/:id/screening.
// expert_id в теле обязан совпадать с параметром пути.
func (h *ExpertHandler) AddScreeningResponse(c *gin.Context) {
	userID, ok := common.RequireUserID(c)
	if !ok {
		return
	}
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	var req models.ScreeningResponseInput
	if !common.BindJSON(c, &req) {
		return
	}

	result, err := h.experts.AddScreeningResponse(c.Request.Context(), id, userID, req)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	response.Created(c, result)
}
