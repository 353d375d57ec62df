package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/expertnet-backend/internal/models"
	"github.com/ignatzorin/expertnet-backend/internal/pkg/apperror"
	"github.com/ignatzorin/expertnet-backend/internal/repository"
	"github.com/ignatzorin/expertnet-backend/internal/validation"
)

const entityInterview = "interview"

// InterviewRepository описывает хранилище интервью.
type InterviewRepository interface {
	List(ctx context.Context, userID string, filter models.InterviewFilter) ([]models.Interview, error)
	GetByID(ctx context.Context, id uuid.UUID, userID string) (*models.Interview, error)
	Create(ctx context.Context, userID string, in models.InterviewInput) (*models.Interview, error)
	Update(ctx context.Context, id uuid.UUID, userID string, patch models.InterviewPatch, stamps repository.InterviewStamps) (*models.Interview, error)
	Delete(ctx context.Context, id uuid.UUID, userID string) error
}

// InterviewService планирует звонки с экспертами и ведёт их статусы.
type InterviewService struct {
	repo   InterviewRepository
	events EventPublisher
	now    func() time.Time
}

// NewInterviewService создаёт сервис интервью. events может быть nil.
func NewInterviewService(repo InterviewRepository, events EventPublisher) *InterviewService {
	return &InterviewService{repo: repo, events: events, now: time.Now}
}

func (s *InterviewService) ListInterviews(ctx context.Context, userID string, filter models.InterviewFilter) ([]models.Interview, error) {
	if filter.Status != "" {
		if err := validation.ValidateEnum("status", filter.Status, models.ValidInterviewStatuses); err != nil {
			return nil, validationError(err)
		}
	}

	items, err := s.repo.List(ctx, userID, filter)
	return items, translateError(err)
}

func (s *InterviewService) GetInterview(ctx context.Context, id uuid.UUID, userID string) (*models.Interview, error) {
	interview, err := s.repo.GetByID(ctx, id, userID)
	return interview, translateError(err)
}

// ScheduleInterview создаёт интервью с экспертом кампании.
func (s *InterviewService) ScheduleInterview(ctx context.Context, userID string, in models.InterviewInput) (*models.Interview, error) {
	if in.DurationMinutes == 0 {
		in.DurationMinutes = models.DefaultInterviewDuration
	}
	if in.Status == "" {
		in.Status = models.InterviewStatusScheduled
	}

	if in.ScheduledDate.IsZero() {
		return nil, validationError(fmt.Errorf("scheduled_date is required"))
	}
	if err := validation.FirstError(
		validation.ValidateRange("duration_minutes", in.DurationMinutes, models.MinInterviewDuration, models.MaxInterviewDuration),
		validation.ValidateEnum("status", in.Status, models.ValidInterviewStatuses),
		validation.ValidateURL("recording_url", in.RecordingURL),
		validation.ValidateOptionalLength("interviewer_name", in.InterviewerName, validation.MaxNameLength),
	); err != nil {
		return nil, validationError(err)
	}

	interview, err := s.repo.Create(ctx, userID, in)
	if err != nil {
		return nil, translateError(err)
	}

	publish(s.events, userID, entityInterview, models.ActionCreated, interview)
	return interview, nil
}

// UpdateInterview применяет частичное обновление и проставляет отметки завершения или отмены.
func (s *InterviewService) UpdateInterview(ctx context.Context, id uuid.UUID, userID string, patch models.InterviewPatch) (*models.Interview, error) {
	if patch.IsEmpty() {
		return nil, apperror.ErrNoFieldsToUpdate
	}

	var statusErr error
	if patch.Status != nil {
		statusErr = validation.ValidateEnum("status", *patch.Status, models.ValidInterviewStatuses)
	}
	if patch.ScheduledDate != nil && patch.ScheduledDate.IsZero() {
		return nil, validationError(fmt.Errorf("scheduled_date must not be null"))
	}
	if err := validation.FirstError(
		statusErr,
		validation.ValidateOptionalRange("duration_minutes", patch.DurationMinutes, models.MinInterviewDuration, models.MaxInterviewDuration),
		validation.ValidateURL("recording_url", patch.RecordingURL),
		validation.ValidateOptionalLength("interviewer_name", patch.InterviewerName, validation.MaxNameLength),
	); err != nil {
		return nil, validationError(err)
	}

	var stamps repository.InterviewStamps
	if patch.Status != nil {
		now := s.now()
		switch *patch.Status {
		case models.InterviewStatusCompleted:
			stamps.CompletedAt = &now
		case models.InterviewStatusCancelled:
			stamps.CancelledAt = &now
		}
	}

	interview, err := s.repo.Update(ctx, id, userID, patch, stamps)
	if err != nil {
		return nil, translateError(err)
	}

	publish(s.events, userID, entityInterview, models.ActionUpdated, interview)
	return interview, nil
}

func (s *InterviewService) DeleteInterview(ctx context.Context, id uuid.UUID, userID string) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return translateError(err)
	}

	publish(s.events, userID, entityInterview, models.ActionDeleted, map[string]uuid.UUID{"id": id})
	return nil
}
