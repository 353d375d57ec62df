package models

import (
	"time"

	"github.com/google/uuid"
)

// Campaign исследовательская кампания с целями, сроками и воронкой экспертов.
type Campaign struct {
	ID                   uuid.UUID  `db:"id" json:"id"`
	UserID               string     `db:"user_id" json:"user_id"`
	ProjectID            *uuid.UUID `db:"project_id" json:"project_id"`
	CampaignName         string     `db:"campaign_name" json:"campaign_name"`
	IndustryVertical     string     `db:"industry_vertical" json:"industry_vertical"`
	CustomIndustry       *string    `db:"custom_industry" json:"custom_industry"`
	BriefDescription     *string    `db:"brief_description" json:"brief_description"`
	StartDate            Date       `db:"start_date" json:"start_date"`
	TargetCompletionDate Date       `db:"target_completion_date" json:"target_completion_date"`
	TargetRegions        StringList `db:"target_regions" json:"target_regions"`
	CustomRegions        *string    `db:"custom_regions" json:"custom_regions"`
	MinCalls             *int       `db:"min_calls" json:"min_calls"`
	MaxCalls             *int       `db:"max_calls" json:"max_calls"`
	DisplayOrder         int        `db:"display_order" json:"display_order"`
	CreatedAt            time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at" json:"updated_at"`

	// Поля из связанных таблиц
	ProjectName           *string `db:"project_name" json:"project_name"`
	ProjectCode           *string `db:"project_code" json:"project_code"`
	ExpertCount           int     `db:"expert_count" json:"expert_count"`
	InterviewCount        int     `db:"interview_count" json:"interview_count"`
	VendorEnrollmentCount int     `db:"vendor_enrollment_count" json:"vendor_enrollment_count"`
}

// CampaignInput данные для создания кампании.
type CampaignInput struct {
	ProjectID            *uuid.UUID `json:"project_id"`
	CampaignName         string     `json:"campaign_name" binding:"required"`
	IndustryVertical     string     `json:"industry_vertical" binding:"required"`
	CustomIndustry       *string    `json:"custom_industry"`
	BriefDescription     *string    `json:"brief_description"`
	StartDate            Date       `json:"start_date"`
	TargetCompletionDate Date       `json:"target_completion_date"`
	TargetRegions        StringList `json:"target_regions"`
	CustomRegions        *string    `json:"custom_regions"`
	MinCalls             *int       `json:"min_calls"`
	MaxCalls             *int       `json:"max_calls"`
}

// CampaignPatch частичное обновление кампании.
type CampaignPatch struct {
	ProjectID            *uuid.UUID  `json:"project_id"`
	CampaignName         *string     `json:"campaign_name"`
	IndustryVertical     *string     `json:"industry_vertical"`
	CustomIndustry       *string     `json:"custom_industry"`
	BriefDescription     *string     `json:"brief_description"`
	StartDate            *Date       `json:"start_date"`
	TargetCompletionDate *Date       `json:"target_completion_date"`
	TargetRegions        *StringList `json:"target_regions"`
	CustomRegions        *string     `json:"custom_regions"`
	MinCalls             *int        `json:"min_calls"`
	MaxCalls             *int        `json:"max_calls"`
}

func (p CampaignPatch) IsEmpty() bool {
	return p.ProjectID == nil && p.CampaignName == nil && p.IndustryVertical == nil &&
		p.CustomIndustry == nil && p.BriefDescription == nil && p.StartDate == nil &&
		p.TargetCompletionDate == nil && p.TargetRegions == nil && p.CustomRegions == nil &&
		p.MinCalls == nil && p.MaxCalls == nil
}

// CampaignFilter фильтры списка кампаний.
type CampaignFilter struct {
	ProjectID *uuid.UUID
}

// VendorEnrollment подключение вендорской платформы к кампании.
type VendorEnrollment struct {
	ID               uuid.UUID `db:"id" json:"id"`
	CampaignID       uuid.UUID `db:"campaign_id" json:"campaign_id"`
	VendorPlatformID uuid.UUID `db:"vendor_platform_id" json:"vendor_platform_id"`
	Status           string    `db:"status" json:"status"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`

	VendorName               *string `db:"vendor_name" json:"vendor_name"`
	VendorLogoURL            *string `db:"vendor_logo_url" json:"vendor_logo_url"`
	ExpertsProposedCount     int     `db:"experts_proposed_count" json:"experts_proposed_count"`
	ExpertsReviewedCount     int     `db:"experts_reviewed_count" json:"experts_reviewed_count"`
	InterviewsScheduledCount int     `db:"interviews_scheduled_count" json:"interviews_scheduled_count"`
}
