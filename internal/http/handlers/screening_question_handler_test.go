package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/expertnet-backend/internal/models"
	"github.com/ignatzorin/expertnet-backend/internal/pkg/apperror"
)

func questionEngine(svc *mockQuestionService) *gin.Engine {
	h := NewScreeningQuestionHandler(svc)
	return newTestEngine(func(api *gin.RouterGroup) {
		api.GET("/campaigns/:id/screening-questions", h.ListQuestions)
		api.POST("/campaigns/:id/screening-questions", h.CreateQuestion)
		api.PATCH("/campaigns/:id/screening-questions/:question_id", h.UpdateQuestion)
		api.DELETE("/campaigns/:id/screening-questions/:question_id", h.DeleteQuestion)
	})
}

func node(text string, children ...*models.ScreeningQuestionNode) *models.ScreeningQuestionNode {
	if children == nil {
		children = []*models.ScreeningQuestionNode{}
	}
	return &models.ScreeningQuestionNode{
		ScreeningQuestion: models.ScreeningQuestion{ID: uuid.New(), QuestionText: text, QuestionType: models.QuestionTypeText, Options: models.JSONObject{}},
		SubQuestions:      children,
	}
}

func TestScreeningQuestionHandler_ListTree(t *testing.T) {
	svc := new(mockQuestionService)
	campaignID := uuid.New()
	svc.On("ListQuestionTree", mock.Anything, campaignID, testUserID).
		Return([]*models.ScreeningQuestionNode{node("Q1", node("Q3")), node("Q2")}, nil)

	w := doJSON(questionEngine(svc), http.MethodGet, "/api/campaigns/"+campaignID.String()+"/screening-questions", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	items, total := decodeList(t, w)
	assert.Equal(t, 2, total)
	assert.Equal(t, "Q1", items[0]["question_text"])
	sub := items[0]["sub_questions"].([]interface{})
	assert.Len(t, sub, 1)
	assert.Equal(t, "Q3", sub[0].(map[string]interface{})["question_text"])
	assert.Equal(t, []interface{}{}, items[1]["sub_questions"])
}

func TestScreeningQuestionHandler_Create_MissingParent(t *testing.T) {
	svc := new(mockQuestionService)
	campaignID, parentID := uuid.New(), uuid.New()
	in := models.ScreeningQuestionInput{QuestionText: "Follow-up", ParentQuestionID: &parentID}
	svc.On("CreateQuestion", mock.Anything, campaignID, testUserID, in).Return(nil, apperror.ErrParentQuestionNotFound)

	w := doJSON(questionEngine(svc), http.MethodPost, "/api/campaigns/"+campaignID.String()+"/screening-questions",
		map[string]interface{}{"question_text": "Follow-up", "parent_question_id": parentID.String()})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Parent question not found", decodeErr(t, w).Detail)
}

func TestScreeningQuestionHandler_Update_InvalidQuestionID(t *testing.T) {
	svc := new(mockQuestionService)

	w := doJSON(questionEngine(svc), http.MethodPatch,
		"/api/campaigns/"+uuid.NewString()+"/screening-questions/nope", `{"question_text":"x"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid question_id: must be a valid UUID", decodeErr(t, w).Detail)
}

func TestScreeningQuestionHandler_Delete(t *testing.T) {
	svc := new(mockQuestionService)
	campaignID, questionID := uuid.New(), uuid.New()
	svc.On("DeleteQuestion", mock.Anything, campaignID, questionID, testUserID).Return(nil)

	w := doJSON(questionEngine(svc), http.MethodDelete,
		"/api/campaigns/"+campaignID.String()+"/screening-questions/"+questionID.String(), nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}
