package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/expertnet-backend/internal/models"
	"github.com/ignatzorin/expertnet-backend/internal/repository/common"
)

var (
	ErrQuestionNotFound       = errors.New("question not found")
	ErrParentQuestionNotFound = errors.New("parent question not found")
)

// ScreeningQuestionRepository хранит дерево скрининговых вопросов кампании.
type ScreeningQuestionRepository struct {
	db *sqlx.DB
}

func NewScreeningQuestionRepository(db *sqlx.DB) *ScreeningQuestionRepository {
	return &ScreeningQuestionRepository{db: db}
}

// ListByCampaign возвращает плоский список вопросов в порядке отображения.
func (r *ScreeningQuestionRepository) ListByCampaign(ctx context.Context, campaignID uuid.UUID, userID string) ([]models.ScreeningQuestionRow, error) {
	owned, err := campaignOwned(ctx, r.db, campaignID, userID, false)
	if err != nil {
		return nil, fmt.Errorf("screening question repository: check campaign: %w", err)
	}
	if !owned {
		return nil, ErrCampaignNotFound
	}

	rows, err := common.SelectAll[models.ScreeningQuestionRow](ctx, r.db, `
		SELECT * FROM expert_network.screening_questions
		WHERE campaign_id = $1
		ORDER BY display_order, created_at
	`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("screening question repository: list: %w", err)
	}
	return rows, nil
}

// Create добавляет вопрос. Родитель, если указан, должен быть в той же кампании.
// Без явного display_order вопрос встаёт последним среди соседей.
func (r *ScreeningQuestionRepository) Create(ctx context.Context, campaignID uuid.UUID, userID string, in models.ScreeningQuestionInput) (*models.ScreeningQuestionRow, error) {
	var row models.ScreeningQuestionRow

	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		owned, err := campaignOwned(ctx, tx, campaignID, userID, false)
		if err != nil {
			return fmt.Errorf("check campaign: %w", err)
		}
		if !owned {
			return ErrCampaignNotFound
		}

		if in.ParentQuestionID != nil {
			exists, err := common.Exists(ctx, tx,
				`SELECT 1 FROM expert_network.screening_questions WHERE id = $1 AND campaign_id = $2`,
				*in.ParentQuestionID, campaignID)
			if err != nil {
				return fmt.Errorf("check parent: %w", err)
			}
			if !exists {
				return ErrParentQuestionNotFound
			}
		}

		displayOrder := in.DisplayOrder
		if displayOrder <= 0 {
			if err := tx.GetContext(ctx, &displayOrder, `
				SELECT COALESCE(MAX(display_order), 0) + 1
				FROM expert_network.screening_questions
				WHERE campaign_id = $1 AND parent_question_id IS NOT DISTINCT FROM $2::uuid
			`, campaignID, in.ParentQuestionID); err != nil {
				return fmt.Errorf("next display order: %w", err)
			}
		}

		qType := in.QuestionType
		if qType == "" {
			qType = models.QuestionTypeText
		}

		values := common.Assignments{}.
			Set("campaign_id", campaignID).
			Set("parent_question_id", in.ParentQuestionID).
			Set("question_text", in.QuestionText).
			Set("question_type", qType).
			SetCast("options", in.Options, "jsonb").
			Set("display_order", displayOrder)

		return common.ExecInsert(ctx, tx, common.InsertQuery{
			Table:  common.Table("screening_questions"),
			Values: values,
		}, &row)
	})
	if err != nil {
		if isDomainNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("screening question repository: create: %w", err)
	}
	return &row, nil
}

// Update меняет текст, тип, варианты или порядок вопроса. Родителя сменить нельзя.
func (r *ScreeningQuestionRepository) Update(ctx context.Context, campaignID, questionID uuid.UUID, userID string, patch models.ScreeningQuestionPatch) (*models.ScreeningQuestionRow, error) {
	var row models.ScreeningQuestionRow

	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		owned, err := campaignOwned(ctx, tx, campaignID, userID, false)
		if err != nil {
			return fmt.Errorf("check campaign: %w", err)
		}
		if !owned {
			return ErrCampaignNotFound
		}

		found, err := common.ExecUpdate(ctx, tx, common.UpdateQuery{
			Table:     common.Table("screening_questions"),
			Set:       questionAssignments(patch),
			Where:     "id = $1 AND campaign_id = $2",
			WhereArgs: []interface{}{questionID, campaignID},
		}, &row)
		if err != nil {
			return err
		}
		if !found {
			return ErrQuestionNotFound
		}
		return nil
	})
	if err != nil {
		if isDomainNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("screening question repository: update: %w", err)
	}
	return &row, nil
}

// Delete удаляет вопрос; подвопросы и ответы на них удаляются каскадно.
func (r *ScreeningQuestionRepository) Delete(ctx context.Context, campaignID, questionID uuid.UUID, userID string) error {
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		owned, err := campaignOwned(ctx, tx, campaignID, userID, false)
		if err != nil {
			return fmt.Errorf("check campaign: %w", err)
		}
		if !owned {
			return ErrCampaignNotFound
		}

		res, err := tx.ExecContext(ctx,
			`DELETE FROM expert_network.screening_questions WHERE id = $1 AND campaign_id = $2`,
			questionID, campaignID)
		if err != nil {
			return fmt.Errorf("delete: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("rows affected: %w", err)
		} else if n == 0 {
			return ErrQuestionNotFound
		}
		return nil
	})
	if err != nil && !isDomainNotFound(err) {
		return fmt.Errorf("screening question repository: delete: %w", err)
	}
	return err
}

func questionAssignments(p models.ScreeningQuestionPatch) common.Assignments {
	a := common.Assignments{}
	a = common.SetIf(a, "question_text", p.QuestionText)
	a = common.SetIf(a, "question_type", p.QuestionType)
	if p.Options != nil {
		a = a.SetCast("options", *p.Options, "jsonb")
	}
	a = common.SetIf(a, "display_order", p.DisplayOrder)
	return a
}
