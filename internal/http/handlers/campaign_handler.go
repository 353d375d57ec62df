package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/expertnet-backend/internal/dto"
	"github.com/ignatzorin/expertnet-backend/internal/http/handlers/common"
	"github.com/ignatzorin/expertnet-backend/internal/http/response"
	"github.com/ignatzorin/expertnet-backend/internal/models"
)

// CampaignService операции над кампаниями и подключениями вендоров.
type CampaignService interface {
	ListCampaigns(ctx context.Context, userID string, filter models.CampaignFilter) ([]models.Campaign, error)
	GetCampaign(ctx context.Context, id uuid.UUID, userID string) (*models.Campaign, error)
	CreateCampaign(ctx context.Context, userID string, in models.CampaignInput) (*models.Campaign, error)
	UpdateCampaign(ctx context.Context, id uuid.UUID, userID string, patch models.CampaignPatch) (*models.Campaign, error)
	DeleteCampaign(ctx context.Context, id uuid.UUID, userID string) error

	ListEnrollments(ctx context.Context, campaignID uuid.UUID, userID string) ([]models.VendorEnrollment, error)
	EnrollVendor(ctx context.Context, campaignID, vendorID uuid.UUID, userID string) (*models.VendorEnrollment, error)
	UpdateEnrollmentStatus(ctx context.Context, campaignID, vendorID uuid.UUID, userID, status string) (*models.VendorEnrollment, error)
	UnenrollVendor(ctx context.Context, campaignID, vendorID uuid.UUID, userID string) error
}

// CampaignHandler обслуживает /api/campaigns и /api/campaigns/:id/vendors.
type CampaignHandler struct {
	campaigns CampaignService
}

// NewCampaignHandler создаёт новый хэндлер.
func NewCampaignHandler(campaigns CampaignService) *CampaignHandler {
	return &CampaignHandler{campaigns: campaigns}
}

// ListCampaigns обрабатывает GET /api/campaigns?project_id=.
func (h *CampaignHandler) ListCampaigns(c *gin.Context) {
	userID, ok := common.RequireUserID(c)
	if !ok {
		return
	}
	projectID, ok := common.OptionalUUIDQuery(c, "project_id")
	if !ok {
		return
	}

	items, err := h.campaigns.ListCampaigns(c.Request.Context(), userID, models.CampaignFilter{ProjectID: projectID})
	if err != nil {
		common.RespondError(c, err)
		return
	}
	response.List(c, items)
}

// GetCampaign обрабатывает GET /api/campaigns/:id.
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	userID, ok := common.RequireUserID(c)
	if !ok {
		return
	}
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	campaign, err := h.campaigns.GetCampaign(c.Request.Context(), id, userID)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	response.OK(c, campaign)
}

// CreateCampaign обрабатывает POST /api/campaigns.
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	userID, ok := common.RequireUserID(c)
	if !ok {
		return
	}

	var req models.CampaignInput
	if !common.BindJSON(c, &req) {
		return
	}

	campaign, err := h.campaigns.CreateCampaign(c.Request.Context(), userID, req)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	response.Created(c, campaign)
}

// UpdateCampaign обрабатывает PATCH /api/campaigns/:id.
func (h *CampaignHandler) UpdateCampaign(c *gin.Context) {
	userID, ok := common.RequireUserID(c)
	if !ok {
		return
	}
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	var req models.CampaignPatch
	if !common.BindJSON(c, &req) {
		return
	}

	campaign, err := h.campaigns.UpdateCampaign(c.Request.Context(), id, userID, req)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	response.OK(c, campaign)
}

// DeleteCampaign обрабатывает DELETE /api/campaigns/:id.
func (h *CampaignHandler) DeleteCampaign(c *gin.Context) {
	userID, ok := common.RequireUserID(c)
	if !ok {
		return
	}
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.campaigns.DeleteCampaign(c.Request.Context(), id, userID); err != nil {
		common.RespondError(c, err)
		return
	}
	response.Deleted(c, "Campaign deleted successfully")
}

// ListEnrollments обрабатывает GET /api/campaigns/:id/vendors.
func (h *CampaignHandler) ListEnrollments(c *gin.Context) {
	userID, ok := common.RequireUserID(c)
	if !ok {
		return
	}
	campaignID, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	items, err := h.campaigns.ListEnrollments(c.Request.Context(), campaignID, userID)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	response.List(c, items)
}

// EnrollVendor обрабатывает POST /api/campaigns/:id/vendors.
// Повторное подключение сбрасывает статус в pending.
func (h *CampaignHandler) EnrollVendor(c *gin.Context) {
	userID, ok := common.RequireUserID(c)
	if !ok {
		return
	}
	campaignID, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.EnrollVendorRequest
	if !common.BindJSON(c, &req) {
		return
	}

	enrollment, err := h.campaigns.EnrollVendor(c.Request.Context(), campaignID, req.VendorPlatformID, userID)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	response.Created(c, enrollment)
}

// UpdateEnrollment обрабатывает PATCH /api/campaigns/:id/vendors/:vendor_id.
func (h *CampaignHandler) UpdateEnrollment(c *gin.Context) {
	userID, ok := common.RequireUserID(c)
	if !ok {
		return
	}
	campaignID, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}
	vendorID, ok := common.UUIDParam(c, "vendor_id")
	if !ok {
		return
	}

	var req dto.UpdateEnrollmentRequest
	if !common.BindJSON(c, &req) {
		return
	}

	enrollment, err := h.campaigns.UpdateEnrollmentStatus(c.Request.Context(), campaignID, vendorID, userID, req.Status)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	response.OK(c, enrollment)
}

// UnenrollVendor обрабатывает DELETE /api/campaigns/:id/vendors/:vendor_id.
func (h *CampaignHandler) UnenrollVendor(c *gin.Context) {
	userID, ok := common.RequireUserID(c)
	if !ok {
		return
	}
	campaignID, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}
	vendorID, ok := common.UUIDParam(c, "vendor_id")
	if !ok {
		return
	}

	if err := h.campaigns.UnenrollVendor(c.Request.Context(), campaignID, vendorID, userID); err != nil {
		common.RespondError(c, err)
		return
	}
	response.Deleted(c, "Vendor removed from campaign")
}
