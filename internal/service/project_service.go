package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ignatzorin/expertnet-backend/internal/models"
	"github.com/ignatzorin/expertnet-backend/internal/pkg/apperror"
	"github.com/ignatzorin/expertnet-backend/internal/validation"
)

// ProjectRepository описывает взаимодействие сервиса с хранилищем проектов.
type ProjectRepository interface {
	List(ctx context.Context, userID string) ([]models.Project, error)
	GetByID(ctx context.Context, id uuid.UUID, userID string) (*models.Project, error)
	Create(ctx context.Context, userID string, in models.ProjectInput) (*models.Project, error)
	Update(ctx context.Context, id uuid.UUID, userID string, patch models.ProjectPatch) (*models.Project, error)
	Delete(ctx context.Context, id uuid.UUID, userID string) error
}

// ProjectService содержит бизнес-логику работы с проектами.
type ProjectService struct {
	repo ProjectRepository
}

// NewProjectService создаёт сервис проектов.
func NewProjectService(repo ProjectRepository) *ProjectService {
	return &ProjectService{repo: repo}
}

// ListProjects возвращает проекты пользователя.
func (s *ProjectService) ListProjects(ctx context.Context, userID string) ([]models.Project, error) {
	items, err := s.repo.List(ctx, userID)
	return items, translateError(err)
}

// GetProject возвращает проект пользователя.
func (s *ProjectService) GetProject(ctx context.Context, id uuid.UUID, userID string) (*models.Project, error) {
	project, err := s.repo.GetByID(ctx, id, userID)
	return project, translateError(err)
}

// CreateProject проверяет данные и создаёт проект.
func (s *ProjectService) CreateProject(ctx context.Context, userID string, in models.ProjectInput) (*models.Project, error) {
	if err := validation.FirstError(
		validation.ValidateRequiredName("project_name", in.ProjectName, validation.MaxNameLength),
		validation.ValidateOptionalLength("project_code", in.ProjectCode, validation.MaxProjectCodeLength),
		validation.ValidateOptionalLength("client_name", in.ClientName, validation.MaxNameLength),
		validateDateOrder("end_date", in.StartDate, in.EndDate),
	); err != nil {
		return nil, validationError(err)
	}

	project, err := s.repo.Create(ctx, userID, in)
	return project, translateError(err)
}

// UpdateProject применяет частичное обновление.
func (s *ProjectService) UpdateProject(ctx context.Context, id uuid.UUID, userID string, patch models.ProjectPatch) (*models.Project, error) {
	if patch.IsEmpty() {
		return nil, apperror.ErrNoFieldsToUpdate
	}

	var nameErr error
	if patch.ProjectName != nil {
		nameErr = validation.ValidateRequiredName("project_name", *patch.ProjectName, validation.MaxNameLength)
	}
	if err := validation.FirstError(
		nameErr,
		validation.ValidateOptionalLength("project_code", patch.ProjectCode, validation.MaxProjectCodeLength),
		validation.ValidateOptionalLength("client_name", patch.ClientName, validation.MaxNameLength),
		validateDateOrder("end_date", patch.StartDate, patch.EndDate),
	); err != nil {
		return nil, validationError(err)
	}

	// Одна дата из пары сверяется с сохранённой второй.
	if (patch.StartDate == nil) != (patch.EndDate == nil) {
		current, err := s.repo.GetByID(ctx, id, userID)
		if err != nil {
			return nil, translateError(err)
		}
		start, end := current.StartDate, current.EndDate
		if patch.StartDate != nil {
			start = patch.StartDate
		}
		if patch.EndDate != nil {
			end = patch.EndDate
		}
		if err := validateDateOrder("end_date", start, end); err != nil {
			return nil, validationError(err)
		}
	}

	project, err := s.repo.Update(ctx, id, userID, patch)
	return project, translateError(err)
}

// DeleteProject удаляет проект; его кампании остаются без проекта.
func (s *ProjectService) DeleteProject(ctx context.Context, id uuid.UUID, userID string) error {
	return translateError(s.repo.Delete(ctx, id, userID))
}

// validateDateOrder проверяет, что конечная дата не раньше начальной (если заданы обе).
func validateDateOrder(endField string, start, end *models.Date) error {
	if start == nil || end == nil || start.IsZero() || end.IsZero() {
		return nil
	}
	if end.Before(start.Time) {
		return fmt.Errorf("%s must not be before start_date", endField)
	}
	return nil
}
