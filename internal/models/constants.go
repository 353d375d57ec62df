package models

// EnrollmentStatus константы статусов подключения вендора к кампании
const (
	EnrollmentStatusPending   = "pending"
	EnrollmentStatusActive    = "active"
	EnrollmentStatusPaused    = "paused"
	EnrollmentStatusCompleted = "completed"
)

// ExpertStatus константы статусов эксперта в воронке
const (
	ExpertStatusProposed  = "proposed"
	ExpertStatusReviewed  = "reviewed"
	ExpertStatusApproved  = "approved"
	ExpertStatusRejected  = "rejected"
	ExpertStatusScheduled = "scheduled"
)

// InterviewStatus константы статусов интервью
const (
	InterviewStatusScheduled = "scheduled"
	InterviewStatusCompleted = "completed"
	InterviewStatusCancelled = "cancelled"
	InterviewStatusNoShow    = "no_show"
)

// QuestionType константы типов скрининговых вопросов
const (
	QuestionTypeText           = "text"
	QuestionTypeMultipleChoice = "multiple-choice"
	QuestionTypeRating         = "rating"
)

// Ограничения полей
const (
	DefaultInterviewDuration = 60
	MinInterviewDuration     = 15
	MaxInterviewDuration     = 240
	MinScreeningRating       = 1
	MaxScreeningRating       = 5
)

// ValidEnrollmentStatuses список валидных статусов подключения
var ValidEnrollmentStatuses = map[string]struct{}{
	EnrollmentStatusPending:   {},
	EnrollmentStatusActive:    {},
	EnrollmentStatusPaused:    {},
	EnrollmentStatusCompleted: {},
}

// ValidExpertStatuses список валидных статусов эксперта
var ValidExpertStatuses = map[string]struct{}{
	ExpertStatusProposed:  {},
	ExpertStatusReviewed:  {},
	ExpertStatusApproved:  {},
	ExpertStatusRejected:  {},
	ExpertStatusScheduled: {},
}

// ValidInterviewStatuses список валидных статусов интервью
var ValidInterviewStatuses = map[string]struct{}{
	InterviewStatusScheduled: {},
	InterviewStatusCompleted: {},
	InterviewStatusCancelled: {},
	InterviewStatusNoShow:    {},
}

// ValidQuestionTypes список валидных типов вопросов
var ValidQuestionTypes = map[string]struct{}{
	QuestionTypeText:           {},
	QuestionTypeMultipleChoice: {},
	QuestionTypeRating:         {},
}
