package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/expertnet-backend/internal/models"
	"github.com/ignatzorin/expertnet-backend/internal/repository/common"
)

var ErrCampaignNotFound = errors.New("campaign not found")

// Счётчики считаются подзапросами, чтобы JOIN по экспертам и интервью не размножал строки.
const campaignSelect = `
	SELECT c.*,
		p.project_name,
		p.project_code,
		(SELECT COUNT(*) FROM expert_network.experts e WHERE e.campaign_id = c.id) AS expert_count,
		(SELECT COUNT(*) FROM expert_network.interviews i WHERE i.campaign_id = c.id) AS interview_count,
		(SELECT COUNT(*) FROM expert_network.campaign_vendor_enrollments v WHERE v.campaign_id = c.id) AS vendor_enrollment_count
	FROM expert_network.campaigns c
	LEFT JOIN expert_network.projects p ON p.id = c.project_id
`

// CampaignRepository отвечает за работу с кампаниями.
type CampaignRepository struct {
	db *sqlx.DB
}

func NewCampaignRepository(db *sqlx.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

// campaignOwned проверяет владельца кампании. forUpdate блокирует строку до конца транзакции.
func campaignOwned(ctx context.Context, q sqlx.QueryerContext, campaignID uuid.UUID, userID string, forUpdate bool) (bool, error) {
	query := `SELECT 1 FROM expert_network.campaigns WHERE id = $1 AND user_id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	return common.Exists(ctx, q, query, campaignID, userID)
}

// List возвращает кампании пользователя, опционально только одного проекта.
func (r *CampaignRepository) List(ctx context.Context, userID string, filter models.CampaignFilter) ([]models.Campaign, error) {
	conditions := []string{"c.user_id = $1"}
	args := []interface{}{userID}

	if filter.ProjectID != nil {
		args = append(args, *filter.ProjectID)
		conditions = append(conditions, fmt.Sprintf("c.project_id = $%d", len(args)))
	}

	query := campaignSelect + " WHERE " + strings.Join(conditions, " AND ") +
		" ORDER BY c.display_order, c.created_at DESC"

	items, err := common.SelectAll[models.Campaign](ctx, r.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("campaign repository: list: %w", err)
	}
	return items, nil
}

// GetByID возвращает кампанию пользователя со счётчиками.
func (r *CampaignRepository) GetByID(ctx context.Context, id uuid.UUID, userID string) (*models.Campaign, error) {
	campaign, err := common.GetOne[models.Campaign](ctx, r.db, ErrCampaignNotFound,
		campaignSelect+" WHERE c.id = $1 AND c.user_id = $2", id, userID)
	if err != nil && !errors.Is(err, ErrCampaignNotFound) {
		return nil, fmt.Errorf("campaign repository: get by id: %w", err)
	}
	return campaign, err
}

// Owned сообщает, что кампания существует и принадлежит пользователю.
func (r *CampaignRepository) Owned(ctx context.Context, id uuid.UUID, userID string) (bool, error) {
	ok, err := campaignOwned(ctx, r.db, id, userID, false)
	if err != nil {
		return false, fmt.Errorf("campaign repository: owned: %w", err)
	}
	return ok, nil
}

// Create создаёт кампанию. Проект, если указан, должен принадлежать тому же пользователю.
func (r *CampaignRepository) Create(ctx context.Context, userID string, in models.CampaignInput) (*models.Campaign, error) {
	var created models.Campaign

	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		if in.ProjectID != nil {
			if err := checkProjectOwner(ctx, tx, *in.ProjectID, userID); err != nil {
				return err
			}
		}

		var nextOrder int
		if err := tx.GetContext(ctx, &nextOrder,
			`SELECT COALESCE(MAX(display_order), 0) + 1 FROM expert_network.campaigns WHERE user_id = $1`,
			userID,
		); err != nil {
			return fmt.Errorf("next display order: %w", err)
		}

		regions := in.TargetRegions
		if regions == nil {
			regions = models.StringList{}
		}

		values := common.Assignments{}.
			Set("user_id", userID).
			Set("project_id", in.ProjectID).
			Set("campaign_name", in.CampaignName).
			Set("industry_vertical", in.IndustryVertical).
			Set("custom_industry", in.CustomIndustry).
			Set("brief_description", in.BriefDescription).
			Set("start_date", in.StartDate).
			Set("target_completion_date", in.TargetCompletionDate).
			Set("target_regions", regions).
			Set("custom_regions", in.CustomRegions).
			Set("min_calls", in.MinCalls).
			Set("max_calls", in.MaxCalls).
			Set("display_order", nextOrder)

		return common.ExecInsert(ctx, tx, common.InsertQuery{
			Table:  common.Table("campaigns"),
			Values: values,
		}, &created)
	})
	if err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("campaign repository: create: %w", err)
	}

	return r.GetByID(ctx, created.ID, userID)
}

// Update применяет частичное обновление кампании.
func (r *CampaignRepository) Update(ctx context.Context, id uuid.UUID, userID string, patch models.CampaignPatch) (*models.Campaign, error) {
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		if patch.ProjectID != nil {
			if err := checkProjectOwner(ctx, tx, *patch.ProjectID, userID); err != nil {
				return err
			}
		}

		var updated models.Campaign
		found, err := common.ExecUpdate(ctx, tx, common.UpdateQuery{
			Table:     common.Table("campaigns"),
			Set:       campaignAssignments(patch),
			Where:     "id = $1::uuid AND user_id = $2::text",
			WhereArgs: []interface{}{id, userID},
		}, &updated)
		if err != nil {
			return err
		}
		if !found {
			return ErrCampaignNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCampaignNotFound) || errors.Is(err, ErrProjectNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("campaign repository: update: %w", err)
	}

	return r.GetByID(ctx, id, userID)
}

// Delete удаляет кампанию. Эксперты, интервью, вопросы, подключения и назначения удаляются каскадно.
func (r *CampaignRepository) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM expert_network.campaigns WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("campaign repository: delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("campaign repository: rows affected: %w", err)
	}
	if n == 0 {
		return ErrCampaignNotFound
	}
	return nil
}

func checkProjectOwner(ctx context.Context, q sqlx.QueryerContext, projectID uuid.UUID, userID string) error {
	ok, err := common.Exists(ctx, q,
		`SELECT 1 FROM expert_network.projects WHERE id = $1 AND user_id = $2`, projectID, userID)
	if err != nil {
		return fmt.Errorf("check project owner: %w", err)
	}
	if !ok {
		return ErrProjectNotFound
	}
	return nil
}

func campaignAssignments(p models.CampaignPatch) common.Assignments {
	a := common.Assignments{}
	a = common.SetIf(a, "project_id", p.ProjectID)
	a = common.SetIf(a, "campaign_name", p.CampaignName)
	a = common.SetIf(a, "industry_vertical", p.IndustryVertical)
	a = common.SetIf(a, "custom_industry", p.CustomIndustry)
	a = common.SetIf(a, "brief_description", p.BriefDescription)
	a = common.SetIf(a, "start_date", p.StartDate)
	a = common.SetIf(a, "target_completion_date", p.TargetCompletionDate)
	a = common.SetIf(a, "target_regions", p.TargetRegions)
	a = common.SetIf(a, "custom_regions", p.CustomRegions)
	a = common.SetIf(a, "min_calls", p.MinCalls)
	a = common.SetIf(a, "max_calls", p.MaxCalls)
	return a
}
