package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/expertnet-backend/internal/http/handlers/common"
	"github.com/ignatzorin/expertnet-backend/internal/http/response"
	"github.com/ignatzorin/expertnet-backend/internal/models"
)

// ScreeningQuestionService дерево скрининговых вопросов кампании.
type ScreeningQuestionService interface {
	ListQuestionTree(ctx context.Context, campaignID uuid.UUID, userID string) ([]*models.ScreeningQuestionNode, error)
	CreateQuestion(ctx context.Context, campaignID uuid.UUID, userID string, in models.ScreeningQuestionInput) (*models.ScreeningQuestion, error)
	UpdateQuestion(ctx context.Context, campaignID, questionID uuid.UUID, userID string, patch models.ScreeningQuestionPatch) (*models.ScreeningQuestion, error)
	DeleteQuestion(ctx context.Context, campaignID, questionID uuid.UUID, userID string) error
}

// ScreeningQuestionHandler обслуживает /api/campaigns/:id/screening-questions.
type ScreeningQuestionHandler struct {
	questions ScreeningQuestionService
}

func NewScreeningQuestionHandler(questions ScreeningQuestionService) *ScreeningQuestionHandler {
	return &ScreeningQuestionHandler{questions: questions}
}

// ListQuestions отдаёт корневые вопросы с вложенными sub_questions.
func (h *ScreeningQuestionHandler) ListQuestions(c *gin.Context) {
	userID, ok := common.RequireUserID(c)
	if !ok {
		return
	}
	campaignID, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	tree, err := h.questions.ListQuestionTree(c.Request.Context(), campaignID, userID)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	response.List(c, tree)
}

func (h *ScreeningQuestionHandler) CreateQuestion(c *gin.Context) {
	userID, ok := common.RequireUserID(c)
	if !ok {
		return
	}
	campaignID, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	var req models.ScreeningQuestionInput
	if !common.BindJSON(c, &req) {
		return
	}

	question, err := h.questions.CreateQuestion(c.Request.Context(), campaignID, userID, req)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	response.Created(c, question)
}

func (h *ScreeningQuestionHandler) UpdateQuestion(c *gin.Context) {
	userID, ok := common.RequireUserID(c)
	if !ok {
		return
	}
	campaignID, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}
	questionID, ok := common.UUIDParam(c, "question_id")
	if !ok {
		return
	}

	var req models.ScreeningQuestionPatch
	if !common.BindJSON(c, &req) {
		return
	}

	question, err := h.questions.UpdateQuestion(c.Request.Context(), campaignID, questionID, userID, req)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	response.OK(c, question)
}

// DeleteQuestion удаляет вопрос вместе с подвопросами, ответ 204.
func (h *ScreeningQuestionHandler) DeleteQuestion(c *gin.Context) {
	userID, ok := common.RequireUserID(c)
	if !ok {
		return
	}
	campaignID, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}
	questionID, ok := common.UUIDParam(c, "question_id")
	if !ok {
		return
	}

	if err := h.questions.DeleteQuestion(c.Request.Context(), campaignID, questionID, userID); err != nil {
		common.RespondError(c, err)
		return
	}
	response.NoContent(c)
}
