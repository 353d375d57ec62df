package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/expertnet-backend/internal/models"
	"github.com/ignatzorin/expertnet-backend/internal/pkg/apperror"
	"github.com/ignatzorin/expertnet-backend/internal/repository"
)

func TestInterviewService_ScheduleInterview_Defaults(t *testing.T) {
	repo := new(mockInterviewRepo)
	events := &recordingPublisher{}
	svc := NewInterviewService(repo, events)
	ctx := context.Background()

	in := models.InterviewInput{
		CampaignID:    uuid.New(),
		ExpertID:      uuid.New(),
		ScheduledDate: time.Date(2025, time.May, 5, 14, 0, 0, 0, time.UTC),
	}
	expected := in
	expected.DurationMinutes = models.DefaultInterviewDuration
	expected.Status = models.InterviewStatusScheduled

	created := &models.Interview{ID: uuid.New(), DurationMinutes: 60, Status: models.InterviewStatusScheduled}
	repo.On("Create", ctx, "usr_1", expected).Return(created, nil)

	interview, err := svc.ScheduleInterview(ctx, "usr_1", in)
	require.NoError(t, err)
	assert.Equal(t, 60, interview.DurationMinutes)
	assert.Equal(t, []string{"interview.created"}, events.types())
}

func TestInterviewService_ScheduleInterview_Validation(t *testing.T) {
	repo := new(mockInterviewRepo)
	svc := NewInterviewService(repo, nil)
	ctx := context.Background()
	when := time.Date(2025, time.May, 5, 14, 0, 0, 0, time.UTC)

	cases := map[string]models.InterviewInput{
		"too short":      {ScheduledDate: when, DurationMinutes: 10},
		"too long":       {ScheduledDate: when, DurationMinutes: 241},
		"unknown status": {ScheduledDate: when, Status: "postponed"},
		"ftp recording":  {ScheduledDate: when, RecordingURL: strPtr("ftp://files/call.mp3")},
		"no date":        {},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ScheduleInterview(ctx, "usr_1", in)
			assert.True(t, apperror.IsValidation(err))
		})
	}
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestInterviewService_ScheduleInterview_ExpertNotInCampaign(t *testing.T) {
	repo := new(mockInterviewRepo)
	svc := NewInterviewService(repo, nil)
	ctx := context.Background()

	in := models.InterviewInput{
		CampaignID:      uuid.New(),
		ExpertID:        uuid.New(),
		ScheduledDate:   time.Now(),
		DurationMinutes: 30,
		Status:          models.InterviewStatusScheduled,
	}
	repo.On("Create", ctx, "usr_1", in).Return(nil, repository.ErrExpertNotInCampaign)

	_, err := svc.ScheduleInterview(ctx, "usr_1", in)
	assert.ErrorIs(t, err, apperror.ErrExpertNotInCampaign)
}

func TestInterviewService_UpdateInterview_StatusStamps(t *testing.T) {
	now := time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)
	ctx := context.Background()

	cases := []struct {
		status string
		stamps repository.InterviewStamps
	}{
		{models.InterviewStatusCompleted, repository.InterviewStamps{CompletedAt: &now}},
		{models.InterviewStatusCancelled, repository.InterviewStamps{CancelledAt: &now}},
		{models.InterviewStatusNoShow, repository.InterviewStamps{}},
	}

	for _, tc := range cases {
		t.Run(tc.status, func(t *testing.T) {
			repo := new(mockInterviewRepo)
			svc := NewInterviewService(repo, nil)
			svc.now = func() time.Time { return now }

			id := uuid.New()
			patch := models.InterviewPatch{Status: strPtr(tc.status)}
			repo.On("Update", ctx, id, "usr_1", patch, tc.stamps).Return(&models.Interview{ID: id, Status: tc.status}, nil)

			interview, err := svc.UpdateInterview(ctx, id, "usr_1", patch)
			require.NoError(t, err)
			assert.Equal(t, tc.status, interview.Status)
			repo.AssertExpectations(t)
		})
	}
}

func TestInterviewService_UpdateInterview_EmptyPatch(t *testing.T) {
	svc := NewInterviewService(new(mockInterviewRepo), nil)

	_, err := svc.UpdateInterview(context.Background(), uuid.New(), "usr_1", models.InterviewPatch{})
	assert.ErrorIs(t, err, apperror.ErrNoFieldsToUpdate)
}

func TestInterviewService_DeleteInterview_NotFound(t *testing.T) {
	repo := new(mockInterviewRepo)
	events := &recordingPublisher{}
	svc := NewInterviewService(repo, events)
	ctx := context.Background()
	id := uuid.New()

	repo.On("Delete", ctx, id, "usr_2").Return(repository.ErrInterviewNotFound)

	assert.ErrorIs(t, svc.DeleteInterview(ctx, id, "usr_2"), apperror.ErrInterviewNotFound)
	assert.Empty(t, events.types())
}
