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
	ErrTeamMemberNotFound    = errors.New("team member not found")
	ErrTeamMemberNotAssigned = errors.New("team member not assigned to campaign")
)

// TeamMemberRepository хранит участников команды и их назначения на кампании.
type TeamMemberRepository struct {
	db *sqlx.DB
}

func NewTeamMemberRepository(db *sqlx.DB) *TeamMemberRepository {
	return &TeamMemberRepository{db: db}
}

// List возвращает команду пользователя по алфавиту.
func (r *TeamMemberRepository) List(ctx context.Context, userID string) ([]models.TeamMember, error) {
	items, err := common.SelectAll[models.TeamMember](ctx, r.db,
		`SELECT * FROM expert_network.team_members WHERE user_id = $1 ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("team member repository: list: %w", err)
	}
	return items, nil
}

func (r *TeamMemberRepository) GetByID(ctx context.Context, id uuid.UUID, userID string) (*models.TeamMember, error) {
	member, err := common.GetOne[models.TeamMember](ctx, r.db, ErrTeamMemberNotFound,
		`SELECT * FROM expert_network.team_members WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil && !errors.Is(err, ErrTeamMemberNotFound) {
		return nil, fmt.Errorf("team member repository: get by id: %w", err)
	}
	return member, err
}

func (r *TeamMemberRepository) Create(ctx context.Context, userID string, in models.TeamMemberInput) (*models.TeamMember, error) {
	var member models.TeamMember
	err := common.ExecInsert(ctx, r.db, common.InsertQuery{
		Table: common.Table("team_members"),
		Values: common.Assignments{}.
			Set("user_id", userID).
			Set("name", in.Name).
			Set("email", in.Email).
			Set("designation", in.Designation).
			Set("avatar_url", in.AvatarURL),
	}, &member)
	if err != nil {
		return nil, fmt.Errorf("team member repository: create: %w", err)
	}
	return &member, nil
}

func (r *TeamMemberRepository) Update(ctx context.Context, id uuid.UUID, userID string, patch models.TeamMemberPatch) (*models.TeamMember, error) {
	a := common.Assignments{}
	a = common.SetIf(a, "name", patch.Name)
	a = common.SetIf(a, "email", patch.Email)
	a = common.SetIf(a, "designation", patch.Designation)
	a = common.SetIf(a, "avatar_url", patch.AvatarURL)

	var member models.TeamMember
	found, err := common.ExecUpdate(ctx, r.db, common.UpdateQuery{
		Table:     common.Table("team_members"),
		Set:       a,
		Where:     "id = $1 AND user_id = $2",
		WhereArgs: []interface{}{id, userID},
	}, &member)
	if err != nil {
		return nil, fmt.Errorf("team member repository: update: %w", err)
	}
	if !found {
		return nil, ErrTeamMemberNotFound
	}
	return &member, nil
}

// Delete удаляет участника; его назначения удаляются каскадно.
func (r *TeamMemberRepository) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM expert_network.team_members WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("team member repository: delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("team member repository: rows affected: %w", err)
	}
	if n == 0 {
		return ErrTeamMemberNotFound
	}
	return nil
}

// ListForCampaign возвращает участников, назначенных на кампанию.
func (r *TeamMemberRepository) ListForCampaign(ctx context.Context, campaignID uuid.UUID, userID string) ([]models.TeamMember, error) {
	owned, err := campaignOwned(ctx, r.db, campaignID, userID, false)
	if err != nil {
		return nil, fmt.Errorf("team member repository: check campaign: %w", err)
	}
	if !owned {
		return nil, ErrCampaignNotFound
	}

	items, err := common.SelectAll[models.TeamMember](ctx, r.db, `
		SELECT tm.*
		FROM expert_network.team_members tm
		JOIN expert_network.campaign_team_assignments a ON a.team_member_id = tm.id
		WHERE a.campaign_id = $1
		ORDER BY tm.name
	`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("team member repository: list for campaign: %w", err)
	}
	return items, nil
}

// Assign назначает участника на кампанию. Повторное назначение ничего не меняет.
func (r *TeamMemberRepository) Assign(ctx context.Context, campaignID, memberID uuid.UUID, userID string) error {
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		owned, err := campaignOwned(ctx, tx, campaignID, userID, false)
		if err != nil {
			return fmt.Errorf("check campaign: %w", err)
		}
		if !owned {
			return ErrCampaignNotFound
		}

		exists, err := common.Exists(ctx, tx,
			`SELECT 1 FROM expert_network.team_members WHERE id = $1 AND user_id = $2`, memberID, userID)
		if err != nil {
			return fmt.Errorf("check member: %w", err)
		}
		if !exists {
			return ErrTeamMemberNotFound
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO expert_network.campaign_team_assignments (campaign_id, team_member_id)
			VALUES ($1, $2)
			ON CONFLICT (campaign_id, team_member_id) DO NOTHING
		`, campaignID, memberID)
		if err != nil {
			return fmt.Errorf("insert: %w", err)
		}
		return nil
	})
	if err != nil && !isDomainNotFound(err) {
		return fmt.Errorf("team member repository: assign: %w", err)
	}
	return err
}

// Unassign снимает участника с кампании.
func (r *TeamMemberRepository) Unassign(ctx context.Context, campaignID, memberID uuid.UUID, userID string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM expert_network.campaign_team_assignments a
		USING expert_network.campaigns c
		WHERE c.id = a.campaign_id AND a.campaign_id = $1 AND a.team_member_id = $2 AND c.user_id = $3
	`, campaignID, memberID, userID)
	if err != nil {
		return fmt.Errorf("team member repository: unassign: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("team member repository: rows affected: %w", err)
	}
	if n == 0 {
		return ErrTeamMemberNotAssigned
	}
	return nil
}
