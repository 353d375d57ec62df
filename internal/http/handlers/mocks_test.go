package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/expertnet-backend/internal/dto"
	"github.com/ignatzorin/expertnet-backend/internal/http/middleware"
	"github.com/ignatzorin/expertnet-backend/internal/models"
)

const testUserID = "usr_1"

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestEngine собирает движок с фиксированным пользователем вместо проверки токена.
func newTestEngine(register func(r *gin.RouterGroup)) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery())
	api := r.Group("/api", func(c *gin.Context) {
		c.Set(middleware.ContextIdentityKey, models.Identity{UserID: testUserID})
		c.Next()
	})
	register(api)
	return r
}

func doJSON(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeErr(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) (items []map[string]interface{}, total int) {
	t.Helper()
	var body struct {
		Items []map[string]interface{} `json:"items"`
		Total int                      `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Items, body.Total
}

type mockProjectService struct{ mock.Mock }

func (m *mockProjectService) ListProjects(ctx context.Context, userID string) ([]models.Project, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]models.Project)
	return items, args.Error(1)
}

func (m *mockProjectService) GetProject(ctx context.Context, id uuid.UUID, userID string) (*models.Project, error) {
	args := m.Called(ctx, id, userID)
	p, _ := args.Get(0).(*models.Project)
	return p, args.Error(1)
}

func (m *mockProjectService) CreateProject(ctx context.Context, userID string, in models.ProjectInput) (*models.Project, error) {
	args := m.Called(ctx, userID, in)
	p, _ := args.Get(0).(*models.Project)
	return p, args.Error(1)
}

func (m *mockProjectService) UpdateProject(ctx context.Context, id uuid.UUID, userID string, patch models.ProjectPatch) (*models.Project, error) {
	args := m.Called(ctx, id, userID, patch)
	p, _ := args.Get(0).(*models.Project)
	return p, args.Error(1)
}

func (m *mockProjectService) DeleteProject(ctx context.Context, id uuid.UUID, userID string) error {
	return m.Called(ctx, id, userID).Error(0)
}

type mockCampaignService struct{ mock.Mock }

func (m *mockCampaignService) ListCampaigns(ctx context.Context, userID string, filter models.CampaignFilter) ([]models.Campaign, error) {
	args := m.Called(ctx, userID, filter)
	items, _ := args.Get(0).([]models.Campaign)
	return items, args.Error(1)
}

func (m *mockCampaignService) GetCampaign(ctx context.Context, id uuid.UUID, userID string) (*models.Campaign, error) {
	args := m.Called(ctx, id, userID)
	c, _ := args.Get(0).(*models.Campaign)
	return c, args.Error(1)
}

func (m *mockCampaignService) CreateCampaign(ctx context.Context, userID string, in models.CampaignInput) (*models.Campaign, error) {
	args := m.Called(ctx, userID, in)
	c, _ := args.Get(0).(*models.Campaign)
	return c, args.Error(1)
}

func (m *mockCampaignService) UpdateCampaign(ctx context.Context, id uuid.UUID, userID string, patch models.CampaignPatch) (*models.Campaign, error) {
	args := m.Called(ctx, id, userID, patch)
	c, _ := args.Get(0).(*models.Campaign)
	return c, args.Error(1)
}

func (m *mockCampaignService) DeleteCampaign(ctx context.Context, id uuid.UUID, userID string) error {
	return m.Called(ctx, id, userID).Error(0)
}

func (m *mockCampaignService) ListEnrollments(ctx context.Context, campaignID uuid.UUID, userID string) ([]models.VendorEnrollment, error) {
	args := m.Called(ctx, campaignID, userID)
	items, _ := args.Get(0).([]models.VendorEnrollment)
	return items, args.Error(1)
}

func (m *mockCampaignService) EnrollVendor(ctx context.Context, campaignID, vendorID uuid.UUID, userID string) (*models.VendorEnrollment, error) {
	args := m.Called(ctx, campaignID, vendorID, userID)
	e, _ := args.Get(0).(*models.VendorEnrollment)
	return e, args.Error(1)
}

func (m *mockCampaignService) UpdateEnrollmentStatus(ctx context.Context, campaignID, vendorID uuid.UUID, userID, status string) (*models.VendorEnrollment, error) {
	args := m.Called(ctx, campaignID, vendorID, userID, status)
	e, _ := args.Get(0).(*models.VendorEnrollment)
	return e, args.Error(1)
}

func (m *mockCampaignService) UnenrollVendor(ctx context.Context, campaignID, vendorID uuid.UUID, userID string) error {
	return m.Called(ctx, campaignID, vendorID, userID).Error(0)
}

type mockExpertService struct{ mock.Mock }

func (m *mockExpertService) ListExperts(ctx context.Context, userID string, filter models.ExpertFilter) ([]models.Expert, error) {
	args := m.Called(ctx, userID, filter)
	items, _ := args.Get(0).([]models.Expert)
	return items, args.Error(1)
}

func (m *mockExpertService) GetExpert(ctx context.Context, id uuid.UUID, userID string) (*models.Expert, error) {
	args := m.Called(ctx, id, userID)
	e, _ := args.Get(0).(*models.Expert)
	return e, args.Error(1)
}

func (m *mockExpertService) CreateExpert(ctx context.Context, userID string, in models.ExpertInput) (*models.Expert, error) {
	args := m.Called(ctx, userID, in)
	e, _ := args.Get(0).(*models.Expert)
	return e, args.Error(1)
}

func (m *mockExpertService) UpdateExpert(ctx context.Context, id uuid.UUID, userID string, patch models.ExpertPatch) (*models.Expert, error) {
	args := m.Called(ctx, id, userID, patch)
	e, _ := args.Get(0).(*models.Expert)
	return e, args.Error(1)
}

func (m *mockExpertService) DeleteExpert(ctx context.Context, id uuid.UUID, userID string) error {
	return m.Called(ctx, id, userID).Error(0)
}

func (m *mockExpertService) ListScreeningResponses(ctx context.Context, expertID uuid.UUID, userID string) ([]models.ScreeningResponse, error) {
	args := m.Called(ctx, expertID, userID)
	items, _ := args.Get(0).([]models.ScreeningResponse)
	return items, args.Error(1)
}

func (m *mockExpertService) AddScreeningResponse(ctx context.Context, expertID uuid.UUID, userID string, in models.ScreeningResponseInput) (*models.ScreeningResponse, error) {
	args := m.Called(ctx, expertID, userID, in)
	r, _ := args.Get(0).(*models.ScreeningResponse)
	return r, args.Error(1)
}

type mockInterviewService struct{ mock.Mock }

func (m *mockInterviewService) ListInterviews(ctx context.Context, userID string, filter models.InterviewFilter) ([]models.Interview, error) {
	args := m.Called(ctx, userID, filter)
	items, _ := args.Get(0).([]models.Interview)
	return items, args.Error(1)
}

func (m *mockInterviewService) GetInterview(ctx context.Context, id uuid.UUID, userID string) (*models.Interview, error) {
	args := m.Called(ctx, id, userID)
	i, _ := args.Get(0).(*models.Interview)
	return i, args.Error(1)
}

func (m *mockInterviewService) ScheduleInterview(ctx context.Context, userID string, in models.InterviewInput) (*models.Interview, error) {
	args := m.Called(ctx, userID, in)
	i, _ := args.Get(0).(*models.Interview)
	return i, args.Error(1)
}

func (m *mockInterviewService) UpdateInterview(ctx context.Context, id uuid.UUID, userID string, patch models.InterviewPatch) (*models.Interview, error) {
	args := m.Called(ctx, id, userID, patch)
	i, _ := args.Get(0).(*models.Interview)
	return i, args.Error(1)
}

func (m *mockInterviewService) DeleteInterview(ctx context.Context, id uuid.UUID, userID string) error {
	return m.Called(ctx, id, userID).Error(0)
}

type mockQuestionService struct{ mock.Mock }

func (m *mockQuestionService) ListQuestionTree(ctx context.Context, campaignID uuid.UUID, userID string) ([]*models.ScreeningQuestionNode, error) {
	args := m.Called(ctx, campaignID, userID)
	items, _ := args.Get(0).([]*models.ScreeningQuestionNode)
	return items, args.Error(1)
}

func (m *mockQuestionService) CreateQuestion(ctx context.Context, campaignID uuid.UUID, userID string, in models.ScreeningQuestionInput) (*models.ScreeningQuestion, error) {
	args := m.Called(ctx, campaignID, userID, in)
	q, _ := args.Get(0).(*models.ScreeningQuestion)
	return q, args.Error(1)
}

func (m *mockQuestionService) UpdateQuestion(ctx context.Context, campaignID, questionID uuid.UUID, userID string, patch models.ScreeningQuestionPatch) (*models.ScreeningQuestion, error) {
	args := m.Called(ctx, campaignID, questionID, userID, patch)
	q, _ := args.Get(0).(*models.ScreeningQuestion)
	return q, args.Error(1)
}

func (m *mockQuestionService) DeleteQuestion(ctx context.Context, campaignID, questionID uuid.UUID, userID string) error {
	return m.Called(ctx, campaignID, questionID, userID).Error(0)
}

type mockTeamService struct{ mock.Mock }

func (m *mockTeamService) ListTeamMembers(ctx context.Context, userID string) ([]models.TeamMember, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]models.TeamMember)
	return items, args.Error(1)
}

func (m *mockTeamService) GetTeamMember(ctx context.Context, id uuid.UUID, userID string) (*models.TeamMember, error) {
	args := m.Called(ctx, id, userID)
	t, _ := args.Get(0).(*models.TeamMember)
	return t, args.Error(1)
}

func (m *mockTeamService) CreateTeamMember(ctx context.Context, userID string, in models.TeamMemberInput) (*models.TeamMember, error) {
	args := m.Called(ctx, userID, in)
	t, _ := args.Get(0).(*models.TeamMember)
	return t, args.Error(1)
}

func (m *mockTeamService) UpdateTeamMember(ctx context.Context, id uuid.UUID, userID string, patch models.TeamMemberPatch) (*models.TeamMember, error) {
	args := m.Called(ctx, id, userID, patch)
	t, _ := args.Get(0).(*models.TeamMember)
	return t, args.Error(1)
}

func (m *mockTeamService) DeleteTeamMember(ctx context.Context, id uuid.UUID, userID string) error {
	return m.Called(ctx, id, userID).Error(0)
}

func (m *mockTeamService) UploadAvatar(ctx context.Context, id uuid.UUID, userID, ext string, r io.Reader) (*models.TeamMember, error) {
	args := m.Called(ctx, id, userID, ext, r)
	t, _ := args.Get(0).(*models.TeamMember)
	return t, args.Error(1)
}

func (m *mockTeamService) ListCampaignTeam(ctx context.Context, campaignID uuid.UUID, userID string) ([]models.TeamMember, error) {
	args := m.Called(ctx, campaignID, userID)
	items, _ := args.Get(0).([]models.TeamMember)
	return items, args.Error(1)
}

func (m *mockTeamService) AssignToCampaign(ctx context.Context, campaignID, memberID uuid.UUID, userID string) error {
	return m.Called(ctx, campaignID, memberID, userID).Error(0)
}

func (m *mockTeamService) UnassignFromCampaign(ctx context.Context, campaignID, memberID uuid.UUID, userID string) error {
	return m.Called(ctx, campaignID, memberID, userID).Error(0)
}

type mockVendorService struct{ mock.Mock }

func (m *mockVendorService) ListVendors(ctx context.Context) ([]models.VendorPlatform, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]models.VendorPlatform)
	return items, args.Error(1)
}

func (m *mockVendorService) GetVendor(ctx context.Context, id uuid.UUID) (*models.VendorPlatform, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*models.VendorPlatform)
	return v, args.Error(1)
}
