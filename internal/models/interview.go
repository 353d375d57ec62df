package models

import (
	"time"

	"github.com/google/uuid"
)

// Interview запланированный звонок с экспертом.
type Interview struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	CampaignID      uuid.UUID  `db:"campaign_id" json:"campaign_id"`
	ExpertID        uuid.UUID  `db:"expert_id" json:"expert_id"`
	UserID          string     `db:"user_id" json:"user_id"`
	ScheduledDate   time.Time  `db:"scheduled_date" json:"scheduled_date"`
	DurationMinutes int        `db:"duration_minutes" json:"duration_minutes"`
	Status          string     `db:"status" json:"status"`
	InterviewNotes  *string    `db:"interview_notes" json:"interview_notes"`
	KeyInsights     *string    `db:"key_insights" json:"key_insights"`
	RecordingURL    *string    `db:"recording_url" json:"recording_url"`
	TranscriptText  *string    `db:"transcript_text" json:"transcript_text"`
	InterviewerName *string    `db:"interviewer_name" json:"interviewer_name"`
	CompletedAt     *time.Time `db:"completed_at" json:"completed_at"`
	CancelledAt     *time.Time `db:"cancelled_at" json:"cancelled_at"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`

	ExpertName       *string    `db:"expert_name" json:"expert_name"`
	ExpertCompany    *string    `db:"expert_company" json:"expert_company"`
	ExpertTitle      *string    `db:"expert_title" json:"expert_title"`
	VendorPlatformID *uuid.UUID `db:"vendor_platform_id" json:"vendor_platform_id"`
	VendorName       *string    `db:"vendor_name" json:"vendor_name"`
}

// InterviewInput данные для планирования интервью.
type InterviewInput struct {
	CampaignID      uuid.UUID `json:"campaign_id" binding:"required"`
	ExpertID        uuid.UUID `json:"expert_id" binding:"required"`
	ScheduledDate   time.Time `json:"scheduled_date" binding:"required"`
	DurationMinutes int       `json:"duration_minutes"`
	Status          string    `json:"status"`
	InterviewNotes  *string   `json:"interview_notes"`
	KeyInsights     *string   `json:"key_insights"`
	RecordingURL    *string   `json:"recording_url"`
	TranscriptText  *string   `json:"transcript_text"`
	InterviewerName *string   `json:"interviewer_name"`
}

// InterviewPatch частичное обновление интервью.
type InterviewPatch struct {
	ScheduledDate   *time.Time `json:"scheduled_date"`
	DurationMinutes *int       `json:"duration_minutes"`
	Status          *string    `json:"status"`
	InterviewNotes  *string    `json:"interview_notes"`
	KeyInsights     *string    `json:"key_insights"`
	RecordingURL    *string    `json:"recording_url"`
	TranscriptText  *string    `json:"transcript_text"`
	InterviewerName *string    `json:"interviewer_name"`
}

func (p InterviewPatch) IsEmpty() bool {
	return p.ScheduledDate == nil && p.DurationMinutes == nil && p.Status == nil &&
		p.InterviewNotes == nil && p.KeyInsights == nil && p.RecordingURL == nil &&
		p.TranscriptText == nil && p.InterviewerName == nil
}

// InterviewFilter фильтры списка интервью.
type InterviewFilter struct {
	CampaignID *uuid.UUID
	Status     string
}
