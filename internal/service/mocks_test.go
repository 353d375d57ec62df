package service

import (
	"context"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/expertnet-backend/internal/models"
	"github.com/ignatzorin/expertnet-backend/internal/repository"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.Event
	users  []string
}

func (p *recordingPublisher) Publish(userID string, event models.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.users = append(p.users, userID)
	p.events = append(p.events, event)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type mockProjectRepo struct {
	mock.Mock
}

func (m *mockProjectRepo) List(ctx context.Context, userID string) ([]models.Project, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Project), args.Error(1)
}

func (m *mockProjectRepo) GetByID(ctx context.Context, id uuid.UUID, userID string) (*models.Project, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *mockProjectRepo) Create(ctx context.Context, userID string, in models.ProjectInput) (*models.Project, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *mockProjectRepo) Update(ctx context.Context, id uuid.UUID, userID string, patch models.ProjectPatch) (*models.Project, error) {
	args := m.Called(ctx, id, userID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *mockProjectRepo) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	return m.Called(ctx, id, userID).Error(0)
}

type mockCampaignRepo struct {
	mock.Mock
}

func (m *mockCampaignRepo) List(ctx context.Context, userID string, filter models.CampaignFilter) ([]models.Campaign, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]models.Campaign), args.Error(1)
}

func (m *mockCampaignRepo) GetByID(ctx context.Context, id uuid.UUID, userID string) (*models.Campaign, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Campaign), args.Error(1)
}

func (m *mockCampaignRepo) Create(ctx context.Context, userID string, in models.CampaignInput) (*models.Campaign, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Campaign), args.Error(1)
}

func (m *mockCampaignRepo) Update(ctx context.Context, id uuid.UUID, userID string, patch models.CampaignPatch) (*models.Campaign, error) {
	args := m.Called(ctx, id, userID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Campaign), args.Error(1)
}

func (m *mockCampaignRepo) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	return m.Called(ctx, id, userID).Error(0)
}

type mockEnrollmentRepo struct {
	mock.Mock
}

func (m *mockEnrollmentRepo) List(ctx context.Context, campaignID uuid.UUID, userID string) ([]models.VendorEnrollment, error) {
	args := m.Called(ctx, campaignID, userID)
	return args.Get(0).([]models.VendorEnrollment), args.Error(1)
}

func (m *mockEnrollmentRepo) Enroll(ctx context.Context, campaignID, vendorID uuid.UUID, userID string) (*models.VendorEnrollment, error) {
	args := m.Called(ctx, campaignID, vendorID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VendorEnrollment), args.Error(1)
}

func (m *mockEnrollmentRepo) UpdateStatus(ctx context.Context, campaignID, vendorID uuid.UUID, userID, status string) (*models.VendorEnrollment, error) {
	args := m.Called(ctx, campaignID, vendorID, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VendorEnrollment), args.Error(1)
}

func (m *mockEnrollmentRepo) Remove(ctx context.Context, campaignID, vendorID uuid.UUID, userID string) error {
	return m.Called(ctx, campaignID, vendorID, userID).Error(0)
}

type mockVendorRepo struct {
	mock.Mock
}

func (m *mockVendorRepo) ListActive(ctx context.Context) ([]models.VendorPlatform, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.VendorPlatform), args.Error(1)
}

func (m *mockVendorRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.VendorPlatform, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VendorPlatform), args.Error(1)
}

type mockExpertRepo struct {
	mock.Mock
	// locked состояние, которое Update передаёт в stamper.
	locked repository.ExpertState
}

func (m *mockExpertRepo) List(ctx context.Context, userID string, filter models.ExpertFilter) ([]models.ExpertRow, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]models.ExpertRow), args.Error(1)
}

func (m *mockExpertRepo) GetByID(ctx context.Context, id uuid.UUID, userID string) (*models.ExpertRow, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExpertRow), args.Error(1)
}

func (m *mockExpertRepo) Create(ctx context.Context, userID string, in models.ExpertInput) (*models.ExpertRow, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExpertRow), args.Error(1)
}

func (m *mockExpertRepo) Update(ctx context.Context, id uuid.UUID, userID string, patch models.ExpertPatch, stamper repository.ExpertStamper) (*models.ExpertRow, error) {
	var stamps repository.ExpertStamps
	if stamper != nil {
		stamps = stamper(m.locked)
	}
	args := m.Called(ctx, id, userID, patch, stamps)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExpertRow), args.Error(1)
}

func (m *mockExpertRepo) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	return m.Called(ctx, id, userID).Error(0)
}

func (m *mockExpertRepo) ListScreeningResponses(ctx context.Context, expertID uuid.UUID, userID string) ([]models.ScreeningResponse, error) {
	args := m.Called(ctx, expertID, userID)
	return args.Get(0).([]models.ScreeningResponse), args.Error(1)
}

func (m *mockExpertRepo) AddScreeningResponse(ctx context.Context, userID string, in models.ScreeningResponseInput) (*models.ScreeningResponse, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScreeningResponse), args.Error(1)
}

type mockInterviewRepo struct {
	mock.Mock
}

func (m *mockInterviewRepo) List(ctx context.Context, userID string, filter models.InterviewFilter) ([]models.Interview, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]models.Interview), args.Error(1)
}

func (m *mockInterviewRepo) GetByID(ctx context.Context, id uuid.UUID, userID string) (*models.Interview, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Interview), args.Error(1)
}

func (m *mockInterviewRepo) Create(ctx context.Context, userID string, in models.InterviewInput) (*models.Interview, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Interview), args.Error(1)
}

func (m *mockInterviewRepo) Update(ctx context.Context, id uuid.UUID, userID string, patch models.InterviewPatch, stamps repository.InterviewStamps) (*models.Interview, error) {
	args := m.Called(ctx, id, userID, patch, stamps)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Interview), args.Error(1)
}

func (m *mockInterviewRepo) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	return m.Called(ctx, id, userID).Error(0)
}

type mockQuestionRepo struct {
	mock.Mock
}

func (m *mockQuestionRepo) ListByCampaign(ctx context.Context, campaignID uuid.UUID, userID string) ([]models.ScreeningQuestionRow, error) {
	args := m.Called(ctx, campaignID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ScreeningQuestionRow), args.Error(1)
}

func (m *mockQuestionRepo) Create(ctx context.Context, campaignID uuid.UUID, userID string, in models.ScreeningQuestionInput) (*models.ScreeningQuestionRow, error) {
	args := m.Called(ctx, campaignID, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScreeningQuestionRow), args.Error(1)
}

func (m *mockQuestionRepo) Update(ctx context.Context, campaignID, questionID uuid.UUID, userID string, patch models.ScreeningQuestionPatch) (*models.ScreeningQuestionRow, error) {
	args := m.Called(ctx, campaignID, questionID, userID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScreeningQuestionRow), args.Error(1)
}

func (m *mockQuestionRepo) Delete(ctx context.Context, campaignID, questionID uuid.UUID, userID string) error {
	return m.Called(ctx, campaignID, questionID, userID).Error(0)
}

type mockTeamRepo struct {
	mock.Mock
}

func (m *mockTeamRepo) List(ctx context.Context, userID string) ([]models.TeamMember, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.TeamMember), args.Error(1)
}

func (m *mockTeamRepo) GetByID(ctx context.Context, id uuid.UUID, userID string) (*models.TeamMember, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TeamMember), args.Error(1)
}

func (m *mockTeamRepo) Create(ctx context.Context, userID string, in models.TeamMemberInput) (*models.TeamMember, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TeamMember), args.Error(1)
}

func (m *mockTeamRepo) Update(ctx context.Context, id uuid.UUID, userID string, patch models.TeamMemberPatch) (*models.TeamMember, error) {
	args := m.Called(ctx, id, userID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TeamMember), args.Error(1)
}

func (m *mockTeamRepo) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	return m.Called(ctx, id, userID).Error(0)
}

func (m *mockTeamRepo) ListForCampaign(ctx context.Context, campaignID uuid.UUID, userID string) ([]models.TeamMember, error) {
	args := m.Called(ctx, campaignID, userID)
	return args.Get(0).([]models.TeamMember), args.Error(1)
}

func (m *mockTeamRepo) Assign(ctx context.Context, campaignID, memberID uuid.UUID, userID string) error {
	return m.Called(ctx, campaignID, memberID, userID).Error(0)
}

func (m *mockTeamRepo) Unassign(ctx context.Context, campaignID, memberID uuid.UUID, userID string) error {
	return m.Called(ctx, campaignID, memberID, userID).Error(0)
}

type mockAvatarStorage struct {
	mock.Mock
}

func (m *mockAvatarStorage) Save(ctx context.Context, owner, ext string, r io.Reader) (string, int64, error) {
	args := m.Called(ctx, owner, ext, r)
	return args.String(0), args.Get(1).(int64), args.Error(2)
}

func (m *mockAvatarStorage) Delete(ctx context.Context, relativePath string) error {
	return m.Called(ctx, relativePath).Error(0)
}

type mockSessionStore struct {
	mock.Mock
}

func (m *mockSessionStore) FindIdentity(ctx context.Context, token string) (*models.Identity, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Identity), args.Error(1)
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
