package models

import (
	"time"

	"github.com/google/uuid"
)

// TeamMember человек из пула пользователя, которого можно назначать на кампании.
type TeamMember struct {
	ID          uuid.UUID `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	Name        string    `db:"name" json:"name"`
	Email       *string   `db:"email" json:"email"`
	Designation string    `db:"designation" json:"designation"`
	AvatarURL   *string   `db:"avatar_url" json:"avatar_url"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// TeamMemberInput данные для создания участника команды.
type TeamMemberInput struct {
	Name        string  `json:"name" binding:"required"`
	Email       *string `json:"email"`
	Designation string  `json:"designation" binding:"required"`
	AvatarURL   *string `json:"avatar_url"`
}

// TeamMemberPatch частичное обновление участника команды.
type TeamMemberPatch struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	Designation *string `json:"designation"`
	AvatarURL   *string `json:"avatar_url"`
}

func (p TeamMemberPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Designation == nil && p.AvatarURL == nil
}
