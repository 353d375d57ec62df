package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/h2non/filetype"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/expertnet-backend/internal/http/handlers/common"
	"github.com/ignatzorin/expertnet-backend/internal/http/response"
	"github.com/ignatzorin/expertnet-backend/internal/logger"
	"github.com/ignatzorin/expertnet-backend/internal/models"
)

// Разрешённые типы аватаров (по магическим байтам)
var allowedAvatarTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// filetype смотрит не дальше 262 байт заголовка
const sniffLen = 262

// TeamMemberService операции над командой пользователя и назначениями на кампании.
type TeamMemberService interface {
	ListTeamMembers(ctx context.Context, userID string) ([]models.TeamMember, error)
	GetTeamMember(ctx context.Context, id uuid.UUID, userID string) (*models.TeamMember, error)
	CreateTeamMember(ctx context.Context, userID string, in models.TeamMemberInput) (*models.TeamMember, error)
	UpdateTeamMember(ctx context.Context, id uuid.UUID, userID string, patch models.TeamMemberPatch) (*models.TeamMember, error)
	DeleteTeamMember(ctx context.Context, id uuid.UUID, userID string) error
	UploadAvatar(ctx context.Context, id uuid.UUID, userID, ext string, r io.Reader) (*models.TeamMember, error)
	ListCampaignTeam(ctx context.Context, campaignID uuid.UUID, userID string) ([]models.TeamMember, error)
	AssignToCampaign(ctx context.Context, campaignID, memberID uuid.UUID, userID string) error
	UnassignFromCampaign(ctx context.Context, campaignID, memberID uuid.UUID, userID string) error
}

// TeamMemberHandler обслуживает /api/team-members.
type TeamMemberHandler struct {
	members        TeamMemberService
	maxUploadBytes int64
}

// NewTeamMemberHandler создаёт новый хэндлер. maxUploadBytes <= 0 отключает ранний отказ по размеру,
// лимит всё равно проверяет хранилище.
func NewTeamMemberHandler(members TeamMemberService, maxUploadBytes int64) *TeamMemberHandler {
	return &TeamMemberHandler{members: members, maxUploadBytes: maxUploadBytes}
}

// ListTeamMembers обрабатывает GET /api/team-members.
func (h *TeamMemberHandler) ListTeamMembers(c *gin.Context) {
	userID, ok := common.RequireUserID(c)
	if !ok {
		return
	}

	items, err := h.members.ListTeamMembers(c.Request.Context(), userID)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	response.List(c, items)
}

// GetTeamMember обрабатывает GET /api/team-members/:id.
func (h *TeamMemberHandler) GetTeamMember(c *gin.Context) {
	userID, ok := common.RequireUserID(c)
	if !ok {
		return
	}
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	member, err := h.members.GetTeamMember(c.Request.Context(), id, userID)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	response.OK(c, member)
}

// CreateTeamMember обрабатывает POST /api/team-members.
func (h *TeamMemberHandler) CreateTeamMember(c *gin.Context) {
	userID, ok := common.RequireUserID(c)
	if !ok {
		return
	}

	var req models.TeamMemberInput
	if !common.BindJSON(c, &req) {
		return
	}

	member, err := h.members.CreateTeamMember(c.Request.Context(), userID, req)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	response.Created(c, member)
}

// UpdateTeamMember обрабатывает PATCH /api/team-members/:id.
func (h *TeamMemberHandler) UpdateTeamMember(c *gin.Context) {
	userID, ok := common.RequireUserID(c)
	if !ok {
		return
	}
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	var req models.TeamMemberPatch
	if !common.BindJSON(c, &req) {
		return
	}

	member, err := h.members.UpdateTeamMember(c.Request.Context(), id, userID, req)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	response.OK(c, member)
}

// DeleteTeamMember обрабатывает DELETE /api/team-members/:id, ответ 204.
func (h *TeamMemberHandler) DeleteTeamMember(c *gin.Context) {
	userID, ok := common.RequireUserID(c)
	if !ok {
		return
	}
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.members.DeleteTeamMember(c.Request.Context(), id, userID); err != nil {
		common.RespondError(c, err)
		return
	}
	response.NoContent(c)
}

// UploadAvatar обрабатывает POST /api/team-members/:id/avatar (multipart, поле file).
// Тип файла определяется по содержимому, имя и Content-Type клиента не учитываются.
func (h *TeamMemberHandler) UploadAvatar(c *gin.Context) {
	userID, ok := common.RequireUserID(c)
	if !ok {
		return
	}
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "Field 'file' is required")
		return
	}
	if file.Size == 0 {
		response.BadRequest(c, "File must not be empty")
		return
	}
	if h.maxUploadBytes > 0 && file.Size > h.maxUploadBytes {
		response.BadRequest(c, "File is too large")
		return
	}

	src, err := file.Open()
	if err != nil {
		common.RespondError(c, err)
		return
	}
	defer src.Close()

	// Читаем заголовок для проверки магических байтов
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		response.BadRequest(c, "Unable to read file")
		return
	}

	kind, err := filetype.Match(head[:n])
	if err != nil || kind == filetype.Unknown || !allowedAvatarTypes[kind.MIME.Value] {
		response.BadRequest(c, "Unsupported file type. Allowed: png, jpeg, gif, webp")
		return
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		common.RespondError(c, err)
		return
	}

	member, err := h.members.UploadAvatar(c.Request.Context(), id, userID, "."+kind.Extension, src)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	logger.Entry(logrus.Fields{"team_member_id": id, "mime": kind.MIME.Value, "size": file.Size}).Info("аватар загружен")
	c.JSON(http.StatusOK, member)
}

// ListCampaignTeam обрабатывает GET /api/team-members/campaigns/:campaign_id.
func (h *TeamMemberHandler) ListCampaignTeam(c *gin.Context) {
	userID, ok := common.RequireUserID(c)
	if !ok {
		return
	}
	campaignID, ok := common.UUIDParam(c, "campaign_id")
	if !ok {
		return
	}

	items, err := h.members.ListCampaignTeam(c.Request.Context(), campaignID, userID)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	response.List(c, items)
}

// AssignToCampaign обрабатывает POST /api/team-members/campaigns/:campaign_id/assign/:member_id.
// Повторное назначение ничего не меняет.
func (h *TeamMemberHandler) AssignToCampaign(c *gin.Context) {
	campaignID, memberID, userID, ok := assignmentParams(c)
	if !ok {
		return
	}

	if err := h.members.AssignToCampaign(c.Request.Context(), campaignID, memberID, userID); err != nil {
		common.RespondError(c, err)
		return
	}
	response.NoContent(c)
}

// UnassignFromCampaign обрабатывает DELETE /api/team-members/campaigns/:campaign_id/assign/:member_id.
func (h *TeamMemberHandler) UnassignFromCampaign(c *gin.Context) {
	campaignID, memberID, userID, ok := assignmentParams(c)
	if !ok {
		return
	}

	if err := h.members.UnassignFromCampaign(c.Request.Context(), campaignID, memberID, userID); err != nil {
		common.RespondError(c, err)
		return
	}
	response.NoContent(c)
}

func assignmentParams(c *gin.Context) (campaignID, memberID uuid.UUID, userID string, ok bool) {
	if userID, ok = common.RequireUserID(c); !ok {
		return
	}
	if campaignID, ok = common.UUIDParam(c, "campaign_id"); !ok {
		return
	}
	memberID, ok = common.UUIDParam(c, "member_id")
	return
}
