package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/expertnet-backend/internal/models"
	"github.com/ignatzorin/expertnet-backend/internal/pkg/apperror"
)

func expertEngine(svc *mockExpertService) *gin.Engine {
	h := NewExpertHandler(svc)
	return newTestEngine(func(api *gin.RouterGroup) {
		api.GET("/experts", h.ListExperts)
		api.POST("/experts", h.CreateExpert)
		api.GET("/experts/:id", h.GetExpert)
		api.PATCH("/experts/:id", h.UpdateExpert)
		api.DELETE("/experts/:id", h.DeleteExpert)
		api.GET("/experts/:id/screening", h.ListScreeningResponses)
		api.POST("/experts/:id/screening", h.AddScreeningResponse)
	})
}

func TestExpertHandler_List_RequiresCampaign(t *testing.T) {
	svc := new(mockExpertService)

	w := doJSON(expertEngine(svc), http.MethodGet, "/api/experts", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "campaign_id query parameter is required", decodeErr(t, w).Detail)
}

func TestExpertHandler_List_PassesFilters(t *testing.T) {
	svc := new(mockExpertService)
	campaignID, vendorID := uuid.New(), uuid.New()
	filter := models.ExpertFilter{CampaignID: campaignID, Status: models.ExpertStatusProposed, VendorID: &vendorID}
	svc.On("ListExperts", mock.Anything, testUserID, filter).Return([]models.Expert{
		{ID: uuid.New(), ExpertName: "Jane Doe", Status: models.ExpertStatusProposed, IsNew: true},
	}, nil)

	w := doJSON(expertEngine(svc), http.MethodGet,
		"/api/experts?campaign_id="+campaignID.String()+"&status=proposed&vendor_id="+vendorID.String(), nil)

	require.Equal(t, http.StatusOK, w.Code)
	items, total := decodeList(t, w)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Jane Doe", items[0]["expert_name"])
	assert.NotContains(t, items[0], "internal_notes")
}

func TestExpertHandler_Get_IncludesScreening(t *testing.T) {
	svc := new(mockExpertService)
	id := uuid.New()
	notes := "strong candidate"
	svc.On("GetExpert", mock.Anything, id, testUserID).Return(&models.Expert{
		ID:            id,
		ExpertName:    "Jane Doe",
		InternalNotes: &notes,
		ScreeningResponses: []models.ScreeningResponse{
			{ID: uuid.New(), ExpertID: id, QuestionID: uuid.New(), ResponseText: "Ten years in payments"},
		},
	}, nil)

	w := doJSON(expertEngine(svc), http.MethodGet, "/api/experts/"+id.String(), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"internal_notes":"strong candidate"`)
	assert.Contains(t, w.Body.String(), `"response_text":"Ten years in payments"`)
}

func TestExpertHandler_Update_Status(t *testing.T) {
	svc := new(mockExpertService)
	id := uuid.New()
	status := models.ExpertStatusApproved
	reviewedAt := time.Date(2025, time.May, 1, 10, 0, 0, 0, time.UTC)
	svc.On("UpdateExpert", mock.Anything, id, testUserID, models.ExpertPatch{Status: &status}).
		Return(&models.Expert{ID: id, Status: status, ReviewedAt: &reviewedAt}, nil)

	w := doJSON(expertEngine(svc), http.MethodPatch, "/api/experts/"+id.String(), `{"status":"approved"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"is_new":false`)
	assert.Contains(t, w.Body.String(), `"reviewed_at":"2025-05-01T10:00:00Z"`)
}

func TestExpertHandler_AddScreeningResponse_Mismatch(t *testing.T) {
	svc := new(mockExpertService)
	pathID, bodyID, questionID := uuid.New(), uuid.New(), uuid.New()
	in := models.ScreeningResponseInput{ExpertID: bodyID, QuestionID: questionID, ResponseText: "Yes"}
	svc.On("AddScreeningResponse", mock.Anything, pathID, testUserID, in).Return(nil, apperror.ErrExpertIDMismatch)

	w := doJSON(expertEngine(svc), http.MethodPost, "/api/experts/"+pathID.String()+"/screening", map[string]interface{}{
		"expert_id":     bodyID.String(),
		"question_id":   questionID.String(),
		"response_text": "Yes",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Expert ID mismatch", decodeErr(t, w).Detail)
}

func TestExpertHandler_AddScreeningResponse_Created(t *testing.T) {
	svc := new(mockExpertService)
	id, questionID := uuid.New(), uuid.New()
	rating := 4
	in := models.ScreeningResponseInput{ExpertID: id, QuestionID: questionID, ResponseText: "Yes", Rating: &rating}
	svc.On("AddScreeningResponse", mock.Anything, id, testUserID, in).
		Return(&models.ScreeningResponse{ID: uuid.New(), ExpertID: id, QuestionID: questionID, ResponseText: "Yes", Rating: &rating}, nil)

	w := doJSON(expertEngine(svc), http.MethodPost, "/api/experts/"+id.String()+"/screening", map[string]interface{}{
		"expert_id":     id.String(),
		"question_id":   questionID.String(),
		"response_text": "Yes",
		"rating":        4,
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"rating":4`)
}

func TestExpertHandler_Delete_OtherUser(t *testing.T) {
	svc := new(mockExpertService)
	id := uuid.New()
	svc.On("DeleteExpert", mock.Anything, id, testUserID).Return(apperror.ErrExpertNotFound)

	w := doJSON(expertEngine(svc), http.MethodDelete, "/api/experts/"+id.String(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Expert not found", decodeErr(t, w).Detail)
}
