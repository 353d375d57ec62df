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
	ErrInterviewNotFound   = errors.New("interview not found")
	ErrExpertNotInCampaign = errors.New("expert not found in this campaign")
)

const interviewSelect = `
	SELECT i.*,
		e.name AS expert_name,
		e.company AS expert_company,
		e.title AS expert_title,
		e.vendor_platform_id,
		vp.name AS vendor_name
	FROM expert_network.interviews i
	JOIN expert_network.campaigns c ON c.id = i.campaign_id
	LEFT JOIN expert_network.experts e ON e.id = i.expert_id
	LEFT JOIN expert_network.vendor_platforms vp ON vp.id = e.vendor_platform_id
`

// InterviewStamps отметки времени, которые сервис проставляет при смене статуса.
type InterviewStamps struct {
	CompletedAt *time.Time
	CancelledAt *time.Time
}

type InterviewRepository struct {
	db *sqlx.DB
}

func NewInterviewRepository(db *sqlx.DB) *InterviewRepository {
	return &InterviewRepository{db: db}
}

// List возвращает интервью пользователя, ближайшие по дате последними.
func (r *InterviewRepository) List(ctx context.Context, userID string, filter models.InterviewFilter) ([]models.Interview, error) {
	conditions := []string{"c.user_id = $1"}
	args := []interface{}{userID}

	if filter.CampaignID != nil {
		args = append(args, *filter.CampaignID)
		conditions = append(conditions, fmt.Sprintf("i.campaign_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("i.status = $%d", len(args)))
	}

	query := interviewSelect + " WHERE " + strings.Join(conditions, " AND ") + " ORDER BY i.scheduled_date DESC"
	items, err := common.SelectAll[models.Interview](ctx, r.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("interview repository: list: %w", err)
	}
	return items, nil
}

func (r *InterviewRepository) GetByID(ctx context.Context, id uuid.UUID, userID string) (*models.Interview, error) {
	return r.get(ctx, r.db, id, userID)
}

func (r *InterviewRepository) get(ctx context.Context, q sqlx.QueryerContext, id uuid.UUID, userID string) (*models.Interview, error) {
	interview, err := common.GetOne[models.Interview](ctx, q, ErrInterviewNotFound,
		interviewSelect+" WHERE i.id = $1 AND c.user_id = $2", id, userID)
	if err != nil && !errors.Is(err, ErrInterviewNotFound) {
		return nil, fmt.Errorf("interview repository: get by id: %w", err)
	}
	return interview, err
}

// Create планирует интервью. Эксперт должен состоять в той же кампании.
func (r *InterviewRepository) Create(ctx context.Context, userID string, in models.InterviewInput) (*models.Interview, error) {
	var interview *models.Interview

	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		owned, err := campaignOwned(ctx, tx, in.CampaignID, userID, false)
		if err != nil {
			return fmt.Errorf("check campaign: %w", err)
		}
		if !owned {
			return ErrCampaignNotFound
		}

		inCampaign, err := common.Exists(ctx, tx,
			`SELECT 1 FROM expert_network.experts WHERE id = $1 AND campaign_id = $2`,
			in.ExpertID, in.CampaignID)
		if err != nil {
			return fmt.Errorf("check expert: %w", err)
		}
		if !inCampaign {
			return ErrExpertNotInCampaign
		}

		duration := in.DurationMinutes
		if duration == 0 {
			duration = models.DefaultInterviewDuration
		}
		status := in.Status
		if status == "" {
			status = models.InterviewStatusScheduled
		}

		values := common.Assignments{}.
			Set("campaign_id", in.CampaignID).
			Set("expert_id", in.ExpertID).
			Set("user_id", userID).
			Set("scheduled_date", in.ScheduledDate).
			Set("duration_minutes", duration).
			Set("status", status).
			Set("interview_notes", in.InterviewNotes).
			Set("key_insights", in.KeyInsights).
			Set("recording_url", in.RecordingURL).
			Set("transcript_text", in.TranscriptText).
			Set("interviewer_name", in.InterviewerName)

		var id uuid.UUID
		if err := common.ExecInsert(ctx, tx, common.InsertQuery{
			Table:     common.Table("interviews"),
			Values:    values,
			Returning: "id",
		}, &id); err != nil {
			return err
		}

		interview, err = r.get(ctx, tx, id, userID)
		return err
	})
	if err != nil {
		if isDomainNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("interview repository: create: %w", err)
	}
	return interview, nil
}

// Update применяет патч и отметки завершения или отмены.
func (r *InterviewRepository) Update(ctx context.Context, id uuid.UUID, userID string, patch models.InterviewPatch, stamps InterviewStamps) (*models.Interview, error) {
	var interview *models.Interview

	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		set := interviewAssignments(patch)
		set = common.SetIf(set, "completed_at", stamps.CompletedAt)
		set = common.SetIf(set, "cancelled_at", stamps.CancelledAt)

		var updatedID uuid.UUID
		found, err := common.ExecUpdate(ctx, tx, common.UpdateQuery{
			Table: common.Table("interviews"),
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
			return ErrInterviewNotFound
		}

		interview, err = r.get(ctx, tx, id, userID)
		return err
	})
	if err != nil {
		if isDomainNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("interview repository: update: %w", err)
	}
	return interview, nil
}

func (r *InterviewRepository) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM expert_network.interviews i
		USING expert_network.campaigns c
		WHERE c.id = i.campaign_id AND i.id = $1 AND c.user_id = $2
	`, id, userID)
	if err != nil {
		return fmt.Errorf("interview repository: delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("interview repository: rows affected: %w", err)
	}
	if n == 0 {
		return ErrInterviewNotFound
	}
	return nil
}

func interviewAssignments(p models.InterviewPatch) common.Assignments {
	a := common.Assignments{}
	a = common.SetIf(a, "scheduled_date", p.ScheduledDate)
	a = common.SetIf(a, "duration_minutes", p.DurationMinutes)
	a = common.SetIf(a, "status", p.Status)
	a = common.SetIf(a, "interview_notes", p.InterviewNotes)
	a = common.SetIf(a, "key_insights", p.KeyInsights)
	a = common.SetIf(a, "recording_url", p.RecordingURL)
	a = common.SetIf(a, "transcript_text", p.TranscriptText)
	a = common.SetIf(a, "interviewer_name", p.InterviewerName)
	return a
}
