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

// ErrProjectNotFound возвращается, когда проект не найден или принадлежит другому пользователю.
var ErrProjectNotFound = errors.New("project not found")

const projectSelect = `
	SELECT p.*, COUNT(c.id) AS campaign_count
	FROM expert_network.projects p
	LEFT JOIN expert_network.campaigns c ON c.project_id = p.id
`

// ProjectRepository отвечает за работу с проектами.
type ProjectRepository struct {
	db *sqlx.DB
}

// NewProjectRepository создаёт экземпляр репозитория.
func NewProjectRepository(db *sqlx.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// List возвращает проекты пользователя с количеством кампаний.
func (r *ProjectRepository) List(ctx context.Context, userID string) ([]models.Project, error) {
	query := projectSelect + `
		WHERE p.user_id = $1
		GROUP BY p.id
		ORDER BY p.display_order, p.created_at DESC
	`
	items, err := common.SelectAll[models.Project](ctx, r.db, query, userID)
	if err != nil {
		return nil, fmt.Errorf("project repository: list: %w", err)
	}
	return items, nil
}

// GetByID возвращает проект пользователя.
func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID, userID string) (*models.Project, error) {
	return r.get(ctx, r.db, id, userID)
}

func (r *ProjectRepository) get(ctx context.Context, q sqlx.QueryerContext, id uuid.UUID, userID string) (*models.Project, error) {
	query := projectSelect + `
		WHERE p.id = $1 AND p.user_id = $2
		GROUP BY p.id
	`
	project, err := common.GetOne[models.Project](ctx, q, ErrProjectNotFound, query, id, userID)
	if err != nil && !errors.Is(err, ErrProjectNotFound) {
		return nil, fmt.Errorf("project repository: get by id: %w", err)
	}
	return project, err
}

// Owned сообщает, что проект существует и принадлежит пользователю.
func (r *ProjectRepository) Owned(ctx context.Context, id uuid.UUID, userID string) (bool, error) {
	ok, err := common.Exists(ctx, r.db,
		`SELECT 1 FROM expert_network.projects WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("project repository: owned: %w", err)
	}
	return ok, nil
}

// Create создаёт проект в конце списка пользователя.
func (r *ProjectRepository) Create(ctx context.Context, userID string, in models.ProjectInput) (*models.Project, error) {
	var project models.Project

	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var nextOrder int
		if err := tx.GetContext(ctx, &nextOrder,
			`SELECT COALESCE(MAX(display_order), 0) + 1 FROM expert_network.projects WHERE user_id = $1`,
			userID,
		); err != nil {
			return fmt.Errorf("next display order: %w", err)
		}

		values := common.Assignments{}.
			Set("user_id", userID).
			Set("project_name", in.ProjectName).
			Set("project_code", in.ProjectCode).
			Set("client_name", in.ClientName).
			Set("start_date", in.StartDate).
			Set("end_date", in.EndDate).
			Set("description", in.Description).
			Set("display_order", nextOrder)

		return common.ExecInsert(ctx, tx, common.InsertQuery{
			Table:  common.Table("projects"),
			Values: values,
		}, &project)
	})
	if err != nil {
		return nil, fmt.Errorf("project repository: create: %w", err)
	}

	return &project, nil
}

// Update применяет частичное обновление. Возвращает ErrProjectNotFound, если проект чужой.
func (r *ProjectRepository) Update(ctx context.Context, id uuid.UUID, userID string, patch models.ProjectPatch) (*models.Project, error) {
	var updated models.Project
	found, err := common.ExecUpdate(ctx, r.db, common.UpdateQuery{
		Table:     common.Table("projects"),
		Set:       projectAssignments(patch),
		Where:     "id = $1::uuid AND user_id = $2::text",
		WhereArgs: []interface{}{id, userID},
	}, &updated)
	if err != nil {
		return nil, fmt.Errorf("project repository: update: %w", err)
	}
	if !found {
		return nil, ErrProjectNotFound
	}

	return r.GetByID(ctx, id, userID)
}

// Delete удаляет проект, отвязывая его кампании (они остаются без проекта).
func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		owned, err := common.Exists(ctx, tx,
			`SELECT 1 FROM expert_network.projects WHERE id = $1 AND user_id = $2 FOR UPDATE`, id, userID)
		if err != nil {
			return fmt.Errorf("project repository: check owner: %w", err)
		}
		if !owned {
			return ErrProjectNotFound
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE expert_network.campaigns SET project_id = NULL, updated_at = NOW() WHERE project_id = $1`, id,
		); err != nil {
			return fmt.Errorf("project repository: detach campaigns: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM expert_network.projects WHERE id = $1`, id); err != nil {
			return fmt.Errorf("project repository: delete: %w", err)
		}
		return nil
	})
}

func projectAssignments(p models.ProjectPatch) common.Assignments {
	a := common.Assignments{}
	a = common.SetIf(a, "project_name", p.ProjectName)
	a = common.SetIf(a, "project_code", p.ProjectCode)
	a = common.SetIf(a, "client_name", p.ClientName)
	a = common.SetIf(a, "start_date", p.StartDate)
	a = common.SetIf(a, "end_date", p.EndDate)
	a = common.SetIf(a, "description", p.Description)
	return a
}
