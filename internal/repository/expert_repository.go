package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/expertnet-backend/internal/models"
	"github.com/ignatzorin/expertnet-backend/internal/repository/common"
)

var (
	ErrExpertNotFound           = errors.New("expert not found")
	ErrScreeningQuestionMissing = errors.New("screening question not found")
)

const expertSelect = `
	SELECT e.*,
		vp.name AS vendor_name,
		vp.logo_url AS vendor_logo_url,
		(SELECT COUNT(*) FROM expert_network.interviews i WHERE i.expert_id = e.id) AS interview_count
	FROM expert_network.experts e
	JOIN expert_network.campaigns c ON c.id = e.campaign_id
	LEFT JOIN expert_network.vendor_platforms vp ON vp.id = e.vendor_platform_id
`

// ExpertStamps служебные поля, которые сервис проставляет при смене статуса.
type ExpertStamps struct {
	ReviewedAt *time.Time
	IsNew      *bool
}

// ExpertState статус эксперта, прочитанный под блокировкой строки.
type ExpertState struct {
	Status     string     `db:"status"`
	ReviewedAt *time.Time `db:"reviewed_at"`
}

// ExpertStamper считает служебные отметки по заблокированному состоянию эксперта.
type ExpertStamper func(current ExpertState) ExpertStamps

// ExpertRepository отвечает за экспертов кампаний и их ответы на скрининг.
type ExpertRepository struct {
	db *sqlx.DB
}

func NewExpertRepository(db *sqlx.DB) *ExpertRepository {
	return &ExpertRepository{db: db}
}

// List возвращает экспертов кампании, новые первыми.
func (r *ExpertRepository) List(ctx context.Context, userID string, filter models.ExpertFilter) ([]models.ExpertRow, error) {
	owned, err := campaignOwned(ctx, r.db, filter.CampaignID, userID, false)
	if err != nil {
		return nil, fmt.Errorf("expert repository: check campaign: %w", err)
	}
	if !owned {
		return nil, ErrCampaignNotFound
	}

	conditions := []string{"e.campaign_id = $1", "c.user_id = $2"}
	args := []interface{}{filter.CampaignID, userID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("e.status = $%d", len(args)))
	}
	if filter.VendorID != nil {
		args = append(args, *filter.VendorID)
		conditions = append(conditions, fmt.Sprintf("e.vendor_platform_id = $%d", len(args)))
	}

	query := expertSelect + " WHERE " + strings.Join(conditions, " AND ") + " ORDER BY e.created_at DESC"
	items, err := common.SelectAll[models.ExpertRow](ctx, r.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("expert repository: list: %w", err)
	}
	return items, nil
}

// GetByID возвращает эксперта, если его кампания принадлежит пользователю.
func (r *ExpertRepository) GetByID(ctx context.Context, id uuid.UUID, userID string) (*models.ExpertRow, error) {
	return r.get(ctx, r.db, id, userID)
}

func (r *ExpertRepository) get(ctx context.Context, q sqlx.QueryerContext, id uuid.UUID, userID string) (*models.ExpertRow, error) {
	row, err := common.GetOne[models.ExpertRow](ctx, q, ErrExpertNotFound,
		expertSelect+" WHERE e.id = $1 AND c.user_id = $2", id, userID)
	if err != nil && !errors.Is(err, ErrExpertNotFound) {
		return nil, fmt.Errorf("expert repository: get by id: %w", err)
	}
	return row, err
}

// Create добавляет эксперта в кампанию пользователя.
func (r *ExpertRepository) Create(ctx context.Context, userID string, in models.ExpertInput) (*models.ExpertRow, error) {
	var expert *models.ExpertRow

	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		owned, err := campaignOwned(ctx, tx, in.CampaignID, userID, false)
		if err != nil {
			return fmt.Errorf("check campaign: %w", err)
		}
		if !owned {
			return ErrCampaignNotFound
		}

		exists, err := common.Exists(ctx, tx,
			`SELECT 1 FROM expert_network.vendor_platforms WHERE id = $1`, in.VendorPlatformID)
		if err != nil {
			return fmt.Errorf("check vendor: %w", err)
		}
		if !exists {
			return ErrVendorNotFound
		}

		skills := in.ExpertiseAreas
		if skills == nil {
			skills = models.StringList{}
		}
		status := in.Status
		if status == "" {
			status = models.ExpertStatusProposed
		}

		values := common.Assignments{}.
			Set("campaign_id", in.CampaignID).
			Set("vendor_platform_id", in.VendorPlatformID).
			Set("vendor_expert_id", in.VendorExpertID).
			Set("name", in.ExpertName).
			Set("title", in.CurrentTitle).
			Set("company", in.CurrentCompany).
			Set("location", in.Location).
			Set("linkedin_url", in.LinkedinURL).
			Set("email", in.Email).
			Set("phone", in.Phone).
			Set("years_experience", in.YearsExperience).
			Set("skills", skills).
			Set("description", in.Bio).
			Set("hourly_rate", in.HourlyRate).
			Set("status", status)

		var created models.ExpertRow
		if err := common.ExecInsert(ctx, tx, common.InsertQuery{
			Table:  common.Table("experts"),
			Values: values,
		}, &created); err != nil {
			return err
		}

		expert, err = r.get(ctx, tx, created.ID, userID)
		return err
	})
	if err != nil {
		if isDomainNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("expert repository: create: %w", err)
	}
	return expert, nil
}

// Update применяет патч к эксперту. Если stamper задан, текущий статус читается
// с FOR UPDATE в той же транзакции, и отметки считаются по нему.
func (r *ExpertRepository) Update(ctx context.Context, id uuid.UUID, userID string, patch models.ExpertPatch, stamper ExpertStamper) (*models.ExpertRow, error) {
	var expert *models.ExpertRow

	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var stamps ExpertStamps
		if stamper != nil {
			var current ExpertState
			err := tx.GetContext(ctx, &current, `
				SELECT e.status, e.reviewed_at
				FROM expert_network.experts e
				JOIN expert_network.campaigns c ON c.id = e.campaign_id
				WHERE e.id = $1 AND c.user_id = $2
				FOR UPDATE OF e
			`, id, userID)
			if err != nil {
				if isNoRows(err) {
					return ErrExpertNotFound
				}
				return fmt.Errorf("lock expert: %w", err)
			}
			stamps = stamper(current)
		}

		set := expertAssignments(patch)
		set = common.SetIf(set, "reviewed_at", stamps.ReviewedAt)
		set = common.SetIf(set, "is_new", stamps.IsNew)

		var updatedID uuid.UUID
		found, err := common.ExecUpdate(ctx, tx, common.UpdateQuery{
			Table: common.Table("experts"),
			Set:   set,
			Where: `id = $1 AND campaign_id IN (
				SELECT id FROM expert_network.campaigns WHERE user_id = $2
			)`,
			WhereArgs: []interface{}{id, userID},
			Returning: "id",
		}, &updatedID)
		if err != nil {
			return err
		}
		if !found {
			return ErrExpertNotFound
		}

		expert, err = r.get(ctx, tx, id, userID)
		return err
	})
	if err != nil {
		if isDomainNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("expert repository: update: %w", err)
	}
	return expert, nil
}

// Delete удаляет эксперта вместе с ответами и интервью.
func (r *ExpertRepository) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM expert_network.experts e
		USING expert_network.campaigns c
		WHERE c.id = e.campaign_id AND e.id = $1 AND c.user_id = $2
	`, id, userID)
	if err != nil {
		return fmt.Errorf("expert repository: delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("expert repository: rows affected: %w", err)
	}
	if n == 0 {
		return ErrExpertNotFound
	}
	return nil
}

// ListScreeningResponses возвращает ответы эксперта вместе с текстом вопросов.
// Чужой эксперт даёт пустой список.
func (r *ExpertRepository) ListScreeningResponses(ctx context.Context, expertID uuid.UUID, userID string) ([]models.ScreeningResponse, error) {
	items, err := common.SelectAll[models.ScreeningResponse](ctx, r.db, `
		SELECT r.*, q.question_text
		FROM expert_network.expert_screening_responses r
		JOIN expert_network.experts e ON e.id = r.expert_id
		JOIN expert_network.campaigns c ON c.id = e.campaign_id
		LEFT JOIN expert_network.screening_questions q ON q.id = r.question_id
		WHERE r.expert_id = $1 AND c.user_id = $2
		ORDER BY r.created_at
	`, expertID, userID)
	if err != nil {
		return nil, fmt.Errorf("expert repository: list screening responses: %w", err)
	}
	return items, nil
}

// AddScreeningResponse сохраняет ответ эксперта. Вопрос должен принадлежать той же кампании.
func (r *ExpertRepository) AddScreeningResponse(ctx context.Context, userID string, in models.ScreeningResponseInput) (*models.ScreeningResponse, error) {
	var response models.ScreeningResponse

	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var campaignID uuid.UUID
		err := tx.GetContext(ctx, &campaignID, `
			SELECT e.campaign_id
			FROM expert_network.experts e
			JOIN expert_network.campaigns c ON c.id = e.campaign_id
			WHERE e.id = $1 AND c.user_id = $2
		`, in.ExpertID, userID)
		if err != nil {
			if isNoRows(err) {
				return ErrExpertNotFound
			}
			return fmt.Errorf("check expert: %w", err)
		}

		var questionText string
		err = tx.GetContext(ctx, &questionText, `
			SELECT question_text FROM expert_network.screening_questions
			WHERE id = $1 AND campaign_id = $2
		`, in.QuestionID, campaignID)
		if err != nil {
			if isNoRows(err) {
				return ErrScreeningQuestionMissing
			}
			return fmt.Errorf("check question: %w", err)
		}

		values := common.Assignments{}.
			Set("expert_id", in.ExpertID).
			Set("question_id", in.QuestionID).
			Set("response_text", in.ResponseText).
			Set("rating", in.Rating)

		if err := common.ExecInsert(ctx, tx, common.InsertQuery{
			Table:     common.Table("expert_screening_responses"),
			Values:    values,
			Returning: "id, expert_id, question_id, response_text, rating, created_at, updated_at",
		}, &response); err != nil {
			return err
		}
		response.QuestionText = &questionText
		return nil
	})
	if err != nil {
		if isDomainNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("expert repository: add screening response: %w", err)
	}
	return &response, nil
}

func expertAssignments(p models.ExpertPatch) common.Assignments {
	a := common.Assignments{}
	a = common.SetIf(a, "name", p.ExpertName)
	a = common.SetIf(a, "company", p.CurrentCompany)
	a = common.SetIf(a, "title", p.CurrentTitle)
	a = common.SetIf(a, "location", p.Location)
	a = common.SetIf(a, "linkedin_url", p.LinkedinURL)
	a = common.SetIf(a, "email", p.Email)
	a = common.SetIf(a, "phone", p.Phone)
	a = common.SetIf(a, "years_experience", p.YearsExperience)
	a = common.SetIf(a, "skills", p.ExpertiseAreas)
	a = common.SetIf(a, "description", p.Bio)
	a = common.SetIf(a, "hourly_rate", p.HourlyRate)
	a = common.SetIf(a, "status", p.Status)
	a = common.SetIf(a, "internal_notes", p.InternalNotes)
	return a
}
