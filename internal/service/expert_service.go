package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/expertnet-backend/internal/models"
	"github.com/ignatzorin/expertnet-backend/internal/pkg/apperror"
	"github.com/ignatzorin/expertnet-backend/internal/repository"
	"github.com/ignatzorin/expertnet-backend/internal/validation"
)

const entityExpert = "expert"

// ExpertRepository описывает хранилище экспертов и их ответов на скрининг.
type ExpertRepository interface {
	List(ctx context.Context, userID string, filter models.ExpertFilter) ([]models.ExpertRow, error)
	GetByID(ctx context.Context, id uuid.UUID, userID string) (*models.ExpertRow, error)
	Create(ctx context.Context, userID string, in models.ExpertInput) (*models.ExpertRow, error)
	Update(ctx context.Context, id uuid.UUID, userID string, patch models.ExpertPatch, stamper repository.ExpertStamper) (*models.ExpertRow, error)
	Delete(ctx context.Context, id uuid.UUID, userID string) error
	ListScreeningResponses(ctx context.Context, expertID uuid.UUID, userID string) ([]models.ScreeningResponse, error)
	AddScreeningResponse(ctx context.Context, userID string, in models.ScreeningResponseInput) (*models.ScreeningResponse, error)
}

// ExpertService ведёт воронку экспертов кампании.
type ExpertService struct {
	repo   ExpertRepository
	events EventPublisher
	now    func() time.Time
}

// NewExpertService создаёт сервис экспертов. events может быть nil.
func NewExpertService(repo ExpertRepository, events EventPublisher) *ExpertService {
	return &ExpertService{repo: repo, events: events, now: time.Now}
}

// ListExperts возвращает экспертов кампании без внутренних заметок.
func (s *ExpertService) ListExperts(ctx context.Context, userID string, filter models.ExpertFilter) ([]models.Expert, error) {
	if filter.Status != "" {
		if err := validation.ValidateEnum("status", filter.Status, models.ValidExpertStatuses); err != nil {
			return nil, validationError(err)
		}
	}

	rows, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		return nil, translateError(err)
	}

	items := make([]models.Expert, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.ToExpert(false))
	}
	return items, nil
}

// GetExpert возвращает карточку эксперта вместе с ответами на скрининг.
func (s *ExpertService) GetExpert(ctx context.Context, id uuid.UUID, userID string) (*models.Expert, error) {
	row, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, translateError(err)
	}

	responses, err := s.repo.ListScreeningResponses(ctx, id, userID)
	if err != nil {
		return nil, translateError(err)
	}

	expert := row.ToExpert(true)
	expert.ScreeningResponses = responses
	return &expert, nil
}

// CreateExpert добавляет эксперта, предложенного вендором.
func (s *ExpertService) CreateExpert(ctx context.Context, userID string, in models.ExpertInput) (*models.Expert, error) {
	if err := validateExpertInput(in); err != nil {
		return nil, validationError(err)
	}

	row, err := s.repo.Create(ctx, userID, in)
	if err != nil {
		return nil, translateError(err)
	}

	expert := row.ToExpert(true)
	publish(s.events, userID, entityExpert, models.ActionCreated, expert)
	return &expert, nil
}

// UpdateExpert применяет частичное обновление. Смена статуса снимает флаг is_new,
// а первый уход из proposed фиксирует reviewed_at.
func (s *ExpertService) UpdateExpert(ctx context.Context, id uuid.UUID, userID string, patch models.ExpertPatch) (*models.Expert, error) {
	if patch.IsEmpty() {
		return nil, apperror.ErrNoFieldsToUpdate
	}
	if err := validateExpertPatch(patch); err != nil {
		return nil, validationError(err)
	}

	// Текущий статус читается под блокировкой внутри транзакции обновления.
	var stamper repository.ExpertStamper
	if patch.Status != nil {
		status, now := *patch.Status, s.now()
		stamper = func(current repository.ExpertState) repository.ExpertStamps {
			return expertStamps(current, status, now)
		}
	}

	row, err := s.repo.Update(ctx, id, userID, patch, stamper)
	if err != nil {
		return nil, translateError(err)
	}

	expert := row.ToExpert(true)
	publish(s.events, userID, entityExpert, models.ActionUpdated, expert)
	return &expert, nil
}

// DeleteExpert удаляет эксперта вместе с его интервью и ответами.
func (s *ExpertService) DeleteExpert(ctx context.Context, id uuid.UUID, userID string) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return translateError(err)
	}

	publish(s.events, userID, entityExpert, models.ActionDeleted, map[string]uuid.UUID{"id": id})
	return nil
}

// ListScreeningResponses возвращает ответы эксперта после проверки владельца.
func (s *ExpertService) ListScreeningResponses(ctx context.Context, expertID uuid.UUID, userID string) ([]models.ScreeningResponse, error) {
	if _, err := s.repo.GetByID(ctx, expertID, userID); err != nil {
		return nil, translateError(err)
	}

	items, err := s.repo.ListScreeningResponses(ctx, expertID, userID)
	return items, translateError(err)
}

// AddScreeningResponse сохраняет ответ эксперта. expertID из пути должен совпадать с телом запроса.
func (s *ExpertService) AddScreeningResponse(ctx context.Context, expertID uuid.UUID, userID string, in models.ScreeningResponseInput) (*models.ScreeningResponse, error) {
	if in.ExpertID != expertID {
		return nil, apperror.ErrExpertIDMismatch
	}
	if err := validation.FirstError(
		validation.ValidateNonEmpty("response_text", in.ResponseText),
		validation.ValidateOptionalRange("rating", in.Rating, models.MinScreeningRating, models.MaxScreeningRating),
	); err != nil {
		return nil, validationError(err)
	}

	response, err := s.repo.AddScreeningResponse(ctx, userID, in)
	return response, translateError(err)
}

func expertStamps(current repository.ExpertState, status string, now time.Time) repository.ExpertStamps {
	var stamps repository.ExpertStamps
	if status == current.Status {
		return stamps
	}

	isNew := false
	stamps.IsNew = &isNew
	if current.Status == models.ExpertStatusProposed && current.ReviewedAt == nil {
		stamps.ReviewedAt = &now
	}
	return stamps
}

func validateExpertInput(in models.ExpertInput) error {
	var statusErr error
	if in.Status != "" {
		statusErr = validation.ValidateEnum("status", in.Status, models.ValidExpertStatuses)
	}

	return validation.FirstError(
		validation.ValidateRequiredName("expert_name", in.ExpertName, validation.MaxNameLength),
		validation.ValidateOptionalLength("vendor_expert_id", in.VendorExpertID, validation.MaxNameLength),
		validation.ValidateOptionalLength("current_company", in.CurrentCompany, validation.MaxNameLength),
		validation.ValidateOptionalLength("current_title", in.CurrentTitle, validation.MaxNameLength),
		validation.ValidateOptionalLength("location", in.Location, validation.MaxNameLength),
		validation.ValidateOptionalLength("phone", in.Phone, validation.MaxPhoneLength),
		validation.ValidateOptionalEmail(in.Email),
		validation.ValidateURL("linkedin_url", in.LinkedinURL),
		validation.ValidateOptionalRange("years_experience", in.YearsExperience, 0, validation.MaxYearsExperience),
		validation.ValidateNonNegative("hourly_rate", in.HourlyRate),
		validation.ValidateStringList("expertise_areas", in.ExpertiseAreas, validation.MaxExpertiseCount, validation.MaxExpertiseLength),
		statusErr,
	)
}

func validateExpertPatch(p models.ExpertPatch) error {
	var errs []error
	if p.ExpertName != nil {
		errs = append(errs, validation.ValidateRequiredName("expert_name", *p.ExpertName, validation.MaxNameLength))
	}
	if p.Status != nil {
		errs = append(errs, validation.ValidateEnum("status", *p.Status, models.ValidExpertStatuses))
	}
	if p.ExpertiseAreas != nil {
		errs = append(errs, validation.ValidateStringList("expertise_areas", *p.ExpertiseAreas, validation.MaxExpertiseCount, validation.MaxExpertiseLength))
	}

	errs = append(errs,
		validation.ValidateOptionalLength("current_company", p.CurrentCompany, validation.MaxNameLength),
		validation.ValidateOptionalLength("current_title", p.CurrentTitle, validation.MaxNameLength),
		validation.ValidateOptionalLength("location", p.Location, validation.MaxNameLength),
		validation.ValidateOptionalLength("phone", p.Phone, validation.MaxPhoneLength),
		validation.ValidateOptionalEmail(p.Email),
		validation.ValidateURL("linkedin_url", p.LinkedinURL),
		validation.ValidateOptionalRange("years_experience", p.YearsExperience, 0, validation.MaxYearsExperience),
		validation.ValidateNonNegative("hourly_rate", p.HourlyRate),
	)
	return validation.FirstError(errs...)
}
