package models

import (
	"time"

	"github.com/google/uuid"
)

// ExpertRow строка таблицы experts с присоединёнными полями вендора.
// Имена колонок хранилища отличаются от публичного API, см. ToExpert.
type ExpertRow struct {
	ID               uuid.UUID  `db:"id"`
	CampaignID       uuid.UUID  `db:"campaign_id"`
	VendorPlatformID uuid.UUID  `db:"vendor_platform_id"`
	VendorExpertID   *string    `db:"vendor_expert_id"`
	Name             string     `db:"name"`
	Title            *string    `db:"title"`
	Company          *string    `db:"company"`
	Location         *string    `db:"location"`
	LinkedinURL      *string    `db:"linkedin_url"`
	Email            *string    `db:"email"`
	Phone            *string    `db:"phone"`
	YearsExperience  *int       `db:"years_experience"`
	Skills           StringList `db:"skills"`
	Description      *string    `db:"description"`
	HourlyRate       *int       `db:"hourly_rate"`
	AvatarURL        *string    `db:"avatar_url"`
	Rating           *float64   `db:"rating"`
	AIFitScore       *float64   `db:"ai_fit_score"`
	Status           string     `db:"status"`
	IsNew            bool       `db:"is_new"`
	ReviewedAt       *time.Time `db:"reviewed_at"`
	InternalNotes    *string    `db:"internal_notes"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`

	VendorName     *string `db:"vendor_name"`
	VendorLogoURL  *string `db:"vendor_logo_url"`
	InterviewCount int     `db:"interview_count"`
}

// Expert публичное представление эксперта.
type Expert struct {
	ID                 uuid.UUID           `json:"id"`
	CampaignID         uuid.UUID           `json:"campaign_id"`
	VendorPlatformID   uuid.UUID           `json:"vendor_platform_id"`
	VendorName         *string             `json:"vendor_name"`
	VendorLogoURL      *string             `json:"vendor_logo_url"`
	VendorExpertID     *string             `json:"vendor_expert_id"`
	ExpertName         string              `json:"expert_name"`
	CurrentCompany     *string             `json:"current_company"`
	CurrentTitle       *string             `json:"current_title"`
	Location           *string             `json:"location"`
	LinkedinURL        *string             `json:"linkedin_url"`
	Email              *string             `json:"email"`
	Phone              *string             `json:"phone"`
	YearsExperience    *int                `json:"years_experience"`
	ExpertiseAreas     StringList          `json:"expertise_areas"`
	Bio                *string             `json:"bio"`
	HourlyRate         *int                `json:"hourly_rate"`
	AvatarURL          *string             `json:"avatar_url"`
	Rating             *float64            `json:"rating"`
	RelevanceScore     *float64            `json:"relevance_score"`
	Status             string              `json:"status"`
	IsNew              bool                `json:"is_new"`
	ReviewedAt         *time.Time          `json:"reviewed_at"`
	InternalNotes      *string             `json:"internal_notes,omitempty"`
	InterviewCount     int                 `json:"interview_count"`
	ScreeningResponses []ScreeningResponse `json:"screening_responses,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// ToExpert переводит строку хранилища в публичную форму.
// Внутренние заметки попадают в ответ только при withInternal (карточка эксперта, не список).
func (r ExpertRow) ToExpert(withInternal bool) Expert {
	e := Expert{
		ID:               r.ID,
		CampaignID:       r.CampaignID,
		VendorPlatformID: r.VendorPlatformID,
		VendorName:       r.VendorName,
		VendorLogoURL:    r.VendorLogoURL,
		VendorExpertID:   r.VendorExpertID,
		ExpertName:       r.Name,
		CurrentCompany:   r.Company,
		CurrentTitle:     r.Title,
		Location:         r.Location,
		LinkedinURL:      r.LinkedinURL,
		Email:            r.Email,
		Phone:            r.Phone,
		YearsExperience:  r.YearsExperience,
		ExpertiseAreas:   r.Skills,
		Bio:              r.Description,
		HourlyRate:       r.HourlyRate,
		AvatarURL:        r.AvatarURL,
		Rating:           r.Rating,
		RelevanceScore:   r.AIFitScore,
		Status:           r.Status,
		IsNew:            r.IsNew,
		ReviewedAt:       r.ReviewedAt,
		InterviewCount:   r.InterviewCount,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
	if withInternal {
		e.InternalNotes = r.InternalNotes
	}
	return e
}

// ExpertInput данные для добавления эксперта в кампанию.
type ExpertInput struct {
	CampaignID       uuid.UUID  `json:"campaign_id" binding:"required"`
	VendorPlatformID uuid.UUID  `json:"vendor_platform_id" binding:"required"`
	VendorExpertID   *string    `json:"vendor_expert_id"`
	ExpertName       string     `json:"expert_name" binding:"required"`
	CurrentCompany   *string    `json:"current_company"`
	CurrentTitle     *string    `json:"current_title"`
	Location         *string    `json:"location"`
	LinkedinURL      *string    `json:"linkedin_url"`
	Email            *string    `json:"email"`
	Phone            *string    `json:"phone"`
	YearsExperience  *int       `json:"years_experience"`
	ExpertiseAreas   StringList `json:"expertise_areas"`
	Bio              *string    `json:"bio"`
	HourlyRate       *int       `json:"hourly_rate"`
	Status           string     `json:"status"`
}

// ExpertPatch частичное обновление эксперта.
type ExpertPatch struct {
	ExpertName      *string     `json:"expert_name"`
	CurrentCompany  *string     `json:"current_company"`
	CurrentTitle    *string     `json:"current_title"`
	Location        *string     `json:"location"`
	LinkedinURL     *string     `json:"linkedin_url"`
	Email           *string     `json:"email"`
	Phone           *string     `json:"phone"`
	YearsExperience *int        `json:"years_experience"`
	ExpertiseAreas  *StringList `json:"expertise_areas"`
	Bio             *string     `json:"bio"`
	HourlyRate      *int        `json:"hourly_rate"`
	Status          *string     `json:"status"`
	InternalNotes   *string     `json:"internal_notes"`
}

func (p ExpertPatch) IsEmpty() bool {
	return p.ExpertName == nil && p.CurrentCompany == nil && p.CurrentTitle == nil &&
		p.Location == nil && p.LinkedinURL == nil && p.Email == nil && p.Phone == nil &&
		p.YearsExperience == nil && p.ExpertiseAreas == nil && p.Bio == nil &&
		p.HourlyRate == nil && p.Status == nil && p.InternalNotes == nil
}

// ExpertFilter фильтры списка экспертов кампании.
type ExpertFilter struct {
	CampaignID uuid.UUID
	Status     string
	VendorID   *uuid.UUID
}

// ScreeningResponse ответ эксперта на скрининговый вопрос.
type ScreeningResponse struct {
	ID           uuid.UUID `db:"id" json:"id"`
	ExpertID     uuid.UUID `db:"expert_id" json:"expert_id"`
	QuestionID   uuid.UUID `db:"question_id" json:"question_id"`
	QuestionText *string   `db:"question_text" json:"question_text"`
	ResponseText string    `db:"response_text" json:"response_text"`
	Rating       *int      `db:"rating" json:"rating"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// ScreeningResponseInput данные ответа на вопрос.
type ScreeningResponseInput struct {
	ExpertID     uuid.UUID `json:"expert_id" binding:"required"`
	QuestionID   uuid.UUID `json:"question_id" binding:"required"`
	ResponseText string    `json:"response_text" binding:"required"`
	Rating       *int      `json:"rating"`
}
