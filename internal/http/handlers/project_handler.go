package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/expertnet-backend/internal/http/handlers/common"
	"github.com/ignatzorin/expertnet-backend/internal/http/response"
	"github.com/ignatzorin/expertnet-backend/internal/models"
)

// ProjectService операции над проектами, нужные хэндлеру.
type ProjectService interface {
	ListProjects(ctx context.Context, userID string) ([]models.Project, error)
	GetProject(ctx context.Context, id uuid.UUID, userID string) (*models.Project, error)
	CreateProject(ctx context.Context, userID string, in models.ProjectInput) (*models.Project, error)
	UpdateProject(ctx context.Context, id uuid.UUID, userID string, patch models.ProjectPatch) (*models.Project, error)
	DeleteProject(ctx context.Context, id uuid.UUID, userID string) error
}

// ProjectHandler обслуживает /api/projects.
type ProjectHandler struct {
	projects ProjectService
}

// NewProjectHandler создаёт новый хэндлер.
func NewProjectHandler(projects ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

// ListProjects обрабатывает GET /api/projects.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userID, ok := common.RequireUserID(c)
	if !ok {
		return
	}

	items, err := h.projects.ListProjects(c.Request.Context(), userID)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	response.List(c, items)
}

// GetProject обрабатывает GET /api/projects/:id.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	userID, ok := common.RequireUserID(c)
	if !ok {
		return
	}
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	project, err := h.projects.GetProject(c.Request.Context(), id, userID)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	response.OK(c, project)
}

// CreateProject обрабатывает POST /api/projects.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, ok := common.RequireUserID(c)
	if !ok {
		return
	}

	var req models.ProjectInput
	if !common.BindJSON(c, &req) {
		return
	}

	project, err := h.projects.CreateProject(c.Request.Context(), userID, req)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	response.Created(c, project)
}

// UpdateProject обрабатывает PATCH /api/projects/:id.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	userID, ok := common.RequireUserID(c)
	if !ok {
		return
	}
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	var req models.ProjectPatch
	if !common.BindJSON(c, &req) {
		return
	}

	project, err := h.projects.UpdateProject(c.Request.Context(), id, userID, req)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	response.OK(c, project)
}

// DeleteProject обрабатывает DELETE /api/projects/:id.
// Кампании проекта не удаляются, а отвязываются.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	userID, ok := common.RequireUserID(c)
	if !ok {
		return
	}
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.projects.DeleteProject(c.Request.Context(), id, userID); err != nil {
		common.RespondError(c, err)
		return
	}
	response.Deleted(c, "Project deleted successfully")
}
