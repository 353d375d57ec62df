package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/expertnet-backend/internal/db"
	"github.com/ignatzorin/expertnet-backend/internal/models"
	"github.com/ignatzorin/expertnet-backend/internal/repository/common"
)

// newIntegrationDB подключается к настоящему PostgreSQL из TEST_DATABASE_URL и накатывает миграции.
func newIntegrationDB(t *testing.T) *sqlx.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL не задан")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := db.NewPostgres(ctx, dsn, db.PoolOptions{MaxOpenConns: 4})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, db.RunMigrations(ctx, conn, "../../migrations"))
	return conn
}

func newCampaignInput(projectID *uuid.UUID) models.CampaignInput {
	return models.CampaignInput{
		ProjectID:            projectID,
		CampaignName:         "Payments landscape",
		IndustryVertical:     "Fintech",
		StartDate:            models.NewDate(2025, time.March, 1),
		TargetCompletionDate: models.NewDate(2025, time.April, 1),
	}
}

// seededVendor возвращает первую активную платформу из справочника миграций.
func seededVendor(t *testing.T, conn *sqlx.DB) uuid.UUID {
	t.Helper()
	vendors, err := NewVendorRepository(conn).ListActive(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, vendors)
	return vendors[0].ID
}

func TestIntegration_DeleteProjectDetachesCampaigns(t *testing.T) {
	conn := newIntegrationDB(t)
	ctx := context.Background()
	userID := "it_" + uuid.NewString()

	projects := NewProjectRepository(conn)
	campaigns := NewCampaignRepository(conn)

	project, err := projects.Create(ctx, userID, models.ProjectInput{ProjectName: "Q3 diligence"})
	require.NoError(t, err)

	campaign, err := campaigns.Create(ctx, userID, newCampaignInput(&project.ID))
	require.NoError(t, err)
	require.NotNil(t, campaign.ProjectID)

	require.NoError(t, projects.Delete(ctx, project.ID, userID))

	reloaded, err := campaigns.GetByID(ctx, campaign.ID, userID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.ProjectID)

	_, err = projects.GetByID(ctx, project.ID, userID)
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestIntegration_CampaignIsolationBetweenUsers(t *testing.T) {
	conn := newIntegrationDB(t)
	ctx := context.Background()
	owner := "it_" + uuid.NewString()
	stranger := "it_" + uuid.NewString()

	campaigns := NewCampaignRepository(conn)
	campaign, err := campaigns.Create(ctx, owner, newCampaignInput(nil))
	require.NoError(t, err)

	_, err = campaigns.GetByID(ctx, campaign.ID, stranger)
	assert.ErrorIs(t, err, ErrCampaignNotFound)
	assert.ErrorIs(t, campaigns.Delete(ctx, campaign.ID, stranger), ErrCampaignNotFound)

	require.NoError(t, campaigns.Delete(ctx, campaign.ID, owner))
	_, err = campaigns.GetByID(ctx, campaign.ID, owner)
	assert.ErrorIs(t, err, ErrCampaignNotFound)
}

func TestIntegration_QuestionTreeCascade(t *testing.T) {
	conn := newIntegrationDB(t)
	ctx := context.Background()
	userID := "it_" + uuid.NewString()

	campaign, err := NewCampaignRepository(conn).Create(ctx, userID, newCampaignInput(nil))
	require.NoError(t, err)

	questions := NewScreeningQuestionRepository(conn)
	root, err := questions.Create(ctx, campaign.ID, userID, models.ScreeningQuestionInput{QuestionText: "Role?"})
	require.NoError(t, err)
	child, err := questions.Create(ctx, campaign.ID, userID, models.ScreeningQuestionInput{
		ParentQuestionID: &root.ID,
		QuestionText:     "Years in role?",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, child.DisplayOrder)

	rows, err := questions.ListByCampaign(ctx, campaign.ID, userID)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	require.NoError(t, questions.Delete(ctx, campaign.ID, root.ID, userID))

	rows, err = questions.ListByCampaign(ctx, campaign.ID, userID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestIntegration_DeleteCampaignCascades(t *testing.T) {
	conn := newIntegrationDB(t)
	ctx := context.Background()
	userID := "it_" + uuid.NewString()

	campaigns := NewCampaignRepository(conn)
	experts := NewExpertRepository(conn)
	interviews := NewInterviewRepository(conn)

	campaign, err := campaigns.Create(ctx, userID, newCampaignInput(nil))
	require.NoError(t, err)

	expert, err := experts.Create(ctx, userID, models.ExpertInput{
		CampaignID:       campaign.ID,
		VendorPlatformID: seededVendor(t, conn),
		ExpertName:       "Ann Lee",
	})
	require.NoError(t, err)

	interview, err := interviews.Create(ctx, userID, models.InterviewInput{
		CampaignID:    campaign.ID,
		ExpertID:      expert.ID,
		ScheduledDate: time.Date(2025, time.March, 10, 15, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.NoError(t, campaigns.Delete(ctx, campaign.ID, userID))

	_, err = experts.GetByID(ctx, expert.ID, userID)
	assert.ErrorIs(t, err, ErrExpertNotFound)
	_, err = interviews.GetByID(ctx, interview.ID, userID)
	assert.ErrorIs(t, err, ErrInterviewNotFound)
}

func TestIntegration_RepeatedPartialUpdateOnlyMovesUpdatedAt(t *testing.T) {
	conn := newIntegrationDB(t)
	ctx := context.Background()
	userID := "it_" + uuid.NewString()

	campaigns := NewCampaignRepository(conn)
	campaign, err := campaigns.Create(ctx, userID, newCampaignInput(nil))
	require.NoError(t, err)

	patch := models.CampaignPatch{CampaignName: strPtr("Payments landscape II"), MaxCalls: intPtr(8)}
	first, err := campaigns.Update(ctx, campaign.ID, userID, patch)
	require.NoError(t, err)
	second, err := campaigns.Update(ctx, campaign.ID, userID, patch)
	require.NoError(t, err)

	assert.False(t, second.UpdatedAt.Before(first.UpdatedAt))
	first.UpdatedAt, second.UpdatedAt = time.Time{}, time.Time{}
	assert.Equal(t, first, second)
	assert.Equal(t, "Payments landscape II", second.CampaignName)
	assert.Equal(t, campaign.IndustryVertical, second.IndustryVertical)
}

func TestIntegration_ReenrollResetsStatus(t *testing.T) {
	conn := newIntegrationDB(t)
	ctx := context.Background()
	userID := "it_" + uuid.NewString()

	campaign, err := NewCampaignRepository(conn).Create(ctx, userID, newCampaignInput(nil))
	require.NoError(t, err)
	vendorID := seededVendor(t, conn)

	enrollments := NewEnrollmentRepository(conn)
	first, err := enrollments.Enroll(ctx, campaign.ID, vendorID, userID)
	require.NoError(t, err)

	active, err := enrollments.UpdateStatus(ctx, campaign.ID, vendorID, userID, models.EnrollmentStatusActive)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusActive, active.Status)

	again, err := enrollments.Enroll(ctx, campaign.ID, vendorID, userID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	rows, err := enrollments.List(ctx, campaign.ID, userID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.EnrollmentStatusPending, rows[0].Status)
}

func TestIntegration_CallBoundsCheckRejectsInvertedRow(t *testing.T) {
	conn := newIntegrationDB(t)
	ctx := context.Background()
	userID := "it_" + uuid.NewString()

	campaigns := NewCampaignRepository(conn)
	in := newCampaignInput(nil)
	in.MinCalls, in.MaxCalls = intPtr(5), intPtr(10)
	campaign, err := campaigns.Create(ctx, userID, in)
	require.NoError(t, err)

	_, err = campaigns.Update(ctx, campaign.ID, userID, models.CampaignPatch{MaxCalls: intPtr(1)})
	require.Error(t, err)
	assert.True(t, common.IsConstraintViolation(err))
	assert.Equal(t, "campaigns_call_bounds_check", common.ConstraintName(err))

	reloaded, err := campaigns.GetByID(ctx, campaign.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, 10, *reloaded.MaxCalls)
}
