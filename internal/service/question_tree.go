package service

import (
	"github.com/google/uuid"

	"github.com/ignatzorin/expertnet-backend/internal/models"
)

// BuildQuestionTree собирает плоский список вопросов в лес по parent_question_id.
// Порядок строк сохраняется на каждом уровне, поэтому строки должны приходить
// отсортированными по (display_order, created_at). Вопрос с неизвестным родителем
// становится корнем.
func BuildQuestionTree(rows []models.ScreeningQuestionRow) []*models.ScreeningQuestionNode {
	nodes := make(map[uuid.UUID]*models.ScreeningQuestionNode, len(rows))
	ordered := make([]*models.ScreeningQuestionNode, 0, len(rows))

	for _, row := range rows {
		node := &models.ScreeningQuestionNode{
			ScreeningQuestion: row.ToQuestion(),
			SubQuestions:      []*models.ScreeningQuestionNode{},
		}
		nodes[row.ID] = node
		ordered = append(ordered, node)
	}

	roots := make([]*models.ScreeningQuestionNode, 0)
	for _, node := range ordered {
		if node.ParentQuestionID != nil {
			if parent, ok := nodes[*node.ParentQuestionID]; ok && parent != node {
				parent.SubQuestions = append(parent.SubQuestions, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}
