package models

import (
	"time"

	"github.com/google/uuid"
)

// Project группирует кампании (например, одна сделка или исследование рынка).
type Project struct {
	ID            uuid.UUID `db:"id" json:"id"`
	UserID        string    `db:"user_id" json:"user_id"`
	ProjectName   string    `db:"project_name" json:"project_name"`
	ProjectCode   *string   `db:"project_code" json:"project_code"`
	ClientName    *string   `db:"client_name" json:"client_name"`
	StartDate     *Date     `db:"start_date" json:"start_date"`
	EndDate       *Date     `db:"end_date" json:"end_date"`
	Description   *string   `db:"description" json:"description"`
	DisplayOrder  int       `db:"display_order" json:"display_order"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
	CampaignCount int       `db:"campaign_count" json:"campaign_count"`
}

// ProjectInput данные для создания проекта.
type ProjectInput struct {
	ProjectName string  `json:"project_name" binding:"required"`
	ProjectCode *string `json:"project_code"`
	ClientName  *string `json:"client_name"`
	StartDate   *Date   `json:"start_date"`
	EndDate     *Date   `json:"end_date"`
	Description *string `json:"description"`
}

// ProjectPatch частичное обновление проекта; nil означает "не менять".
type ProjectPatch struct {
	ProjectName *string `json:"project_name"`
	ProjectCode *string `json:"project_code"`
	ClientName  *string `json:"client_name"`
	StartDate   *Date   `json:"start_date"`
	EndDate     *Date   `json:"end_date"`
	Description *string `json:"description"`
}

// IsEmpty сообщает, что в патче нет ни одного поля.
func (p ProjectPatch) IsEmpty() bool {
	return p.ProjectName == nil && p.ProjectCode == nil && p.ClientName == nil &&
		p.StartDate == nil && p.EndDate == nil && p.Description == nil
}
