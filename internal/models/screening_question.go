package models

import (
	"time"

	"github.com/google/uuid"
)

// ScreeningQuestionRow строка screening_questions; options хранятся как сырой JSONB.
type ScreeningQuestionRow struct {
	ID               uuid.UUID  `db:"id"`
	CampaignID       uuid.UUID  `db:"campaign_id"`
	ParentQuestionID *uuid.UUID `db:"parent_question_id"`
	QuestionText     string     `db:"question_text"`
	QuestionType     string     `db:"question_type"`
	Options          []byte     `db:"options"`
	DisplayOrder     int        `db:"display_order"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
}

// ScreeningQuestion публичное представление вопроса.
type ScreeningQuestion struct {
	ID               uuid.UUID  `json:"id"`
	CampaignID       uuid.UUID  `json:"campaign_id"`
	ParentQuestionID *uuid.UUID `json:"parent_question_id"`
	QuestionText     string     `json:"question_text"`
	QuestionType     string     `json:"question_type"`
	Options          JSONObject `json:"options"`
	DisplayOrder     int        `json:"display_order"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ToQuestion переводит строку в публичную форму, нормализуя options.
func (r ScreeningQuestionRow) ToQuestion() ScreeningQuestion {
	qType := r.QuestionType
	if qType == "" {
		qType = QuestionTypeText
	}
	return ScreeningQuestion{
		ID:               r.ID,
		CampaignID:       r.CampaignID,
		ParentQuestionID: r.ParentQuestionID,
		QuestionText:     r.QuestionText,
		QuestionType:     qType,
		Options:          NormalizeOptions(r.Options),
		DisplayOrder:     r.DisplayOrder,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

// ScreeningQuestionNode вопрос с вложенными подвопросами.
type ScreeningQuestionNode struct {
	ScreeningQuestion
	SubQuestions []*ScreeningQuestionNode `json:"sub_questions"`
}

// ScreeningQuestionInput данные для создания вопроса.
type ScreeningQuestionInput struct {
	ParentQuestionID *uuid.UUID `json:"parent_question_id"`
	QuestionText     string     `json:"question_text" binding:"required"`
	QuestionType     string     `json:"question_type"`
	Options          JSONObject `json:"options"`
	DisplayOrder     int        `json:"display_order"`
}

// ScreeningQuestionPatch частичное обновление вопроса.
type ScreeningQuestionPatch struct {
	QuestionText *string     `json:"question_text"`
	QuestionType *string     `json:"question_type"`
	Options      *JSONObject `json:"options"`
	DisplayOrder *int        `json:"display_order"`
}

func (p ScreeningQuestionPatch) IsEmpty() bool {
	return p.QuestionText == nil && p.QuestionType == nil && p.Options == nil && p.DisplayOrder == nil
}
