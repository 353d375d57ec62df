package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/expertnet-backend/internal/models"
	"github.com/ignatzorin/expertnet-backend/internal/pkg/apperror"
	"github.com/ignatzorin/expertnet-backend/internal/validation"
)

// ScreeningQuestionRepository описывает хранилище скрининговых вопросов.
type ScreeningQuestionRepository interface {
	ListByCampaign(ctx context.Context, campaignID uuid.UUID, userID string) ([]models.ScreeningQuestionRow, error)
	Create(ctx context.Context, campaignID uuid.UUID, userID string, in models.ScreeningQuestionInput) (*models.ScreeningQuestionRow, error)
	Update(ctx context.Context, campaignID, questionID uuid.UUID, userID string, patch models.ScreeningQuestionPatch) (*models.ScreeningQuestionRow, error)
	Delete(ctx context.Context, campaignID, questionID uuid.UUID, userID string) error
}

// ScreeningQuestionService управляет деревом вопросов кампании.
type ScreeningQuestionService struct {
	repo ScreeningQuestionRepository
}

func NewScreeningQuestionService(repo ScreeningQuestionRepository) *ScreeningQuestionService {
	return &ScreeningQuestionService{repo: repo}
}

// ListQuestionTree возвращает вопросы кампании в виде дерева.
func (s *ScreeningQuestionService) ListQuestionTree(ctx context.Context, campaignID uuid.UUID, userID string) ([]*models.ScreeningQuestionNode, error) {
	rows, err := s.repo.ListByCampaign(ctx, campaignID, userID)
	if err != nil {
		return nil, translateError(err)
	}
	return BuildQuestionTree(rows), nil
}

func (s *ScreeningQuestionService) CreateQuestion(ctx context.Context, campaignID uuid.UUID, userID string, in models.ScreeningQuestionInput) (*models.ScreeningQuestion, error) {
	var typeErr error
	if in.QuestionType != "" {
		typeErr = validation.ValidateEnum("question_type", in.QuestionType, models.ValidQuestionTypes)
	}
	if err := validation.FirstError(
		validation.ValidateNonEmpty("question_text", in.QuestionText),
		typeErr,
	); err != nil {
		return nil, validationError(err)
	}

	row, err := s.repo.Create(ctx, campaignID, userID, in)
	if err != nil {
		return nil, translateError(err)
	}
	question := row.ToQuestion()
	return &question, nil
}

func (s *ScreeningQuestionService) UpdateQuestion(ctx context.Context, campaignID, questionID uuid.UUID, userID string, patch models.ScreeningQuestionPatch) (*models.ScreeningQuestion, error) {
	if patch.IsEmpty() {
		return nil, apperror.ErrNoFieldsToUpdate
	}

	var errs []error
	if patch.QuestionText != nil {
		errs = append(errs, validation.ValidateNonEmpty("question_text", *patch.QuestionText))
	}
	if patch.QuestionType != nil {
		errs = append(errs, validation.ValidateEnum("question_type", *patch.QuestionType, models.ValidQuestionTypes))
	}
	if err := validation.FirstError(errs...); err != nil {
		return nil, validationError(err)
	}

	row, err := s.repo.Update(ctx, campaignID, questionID, userID, patch)
	if err != nil {
		return nil, translateError(err)
	}
	question := row.ToQuestion()
	return &question, nil
}

// DeleteQuestion удаляет вопрос вместе с подвопросами.
func (s *ScreeningQuestionService) DeleteQuestion(ctx context.Context, campaignID, questionID uuid.UUID, userID string) error {
	return translateError(s.repo.Delete(ctx, campaignID, questionID, userID))
}
