package service

import (
	"errors"

	"github.com/ignatzorin/expertnet-backend/internal/pkg/apperror"
	"github.com/ignatzorin/expertnet-backend/internal/repository"
	"github.com/ignatzorin/expertnet-backend/internal/repository/common"
)

var notFoundMapping = []struct {
	repoErr error
	appErr  *apperror.AppError
}{
	{repository.ErrProjectNotFound, apperror.ErrProjectNotFound},
	{repository.ErrCampaignNotFound, apperror.ErrCampaignNotFound},
	{repository.ErrVendorNotFound, apperror.ErrVendorNotFound},
	{repository.ErrEnrollmentNotFound, apperror.ErrEnrollmentNotFound},
	{repository.ErrExpertNotFound, apperror.ErrExpertNotFound},
	{repository.ErrExpertNotInCampaign, apperror.ErrExpertNotInCampaign},
	{repository.ErrInterviewNotFound, apperror.ErrInterviewNotFound},
	{repository.ErrQuestionNotFound, apperror.ErrQuestionNotFound},
	{repository.ErrParentQuestionNotFound, apperror.ErrParentQuestionNotFound},
	{repository.ErrScreeningQuestionMissing, apperror.ErrScreeningQuestionMissing},
	{repository.ErrTeamMemberNotFound, apperror.ErrTeamMemberNotFound},
	{repository.ErrTeamMemberNotAssigned, apperror.ErrTeamMemberNotAssigned},
}

// Сообщения для именованных CHECK ограничений между колонками.
var constraintMessages = map[string]string{
	"projects_date_order_check":   "end_date must not be before start_date",
	"campaigns_date_order_check":  "target_completion_date must not be before start_date",
	"campaigns_call_bounds_check": "min_calls must not exceed max_calls",
}

// translateError переводит ошибки хранилища в ошибки приложения.
// Неизвестные ошибки возвращаются как есть и превращаются в 500 на границе HTTP.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperror.As(err); ok {
		return err
	}

	for _, m := range notFoundMapping {
		if errors.Is(err, m.repoErr) {
			return m.appErr
		}
	}

	switch {
	case errors.Is(err, common.ErrNoFieldsToUpdate):
		return apperror.ErrNoFieldsToUpdate
	case common.IsForeignKeyViolation(err):
		return apperror.Wrap(err, apperror.ErrCodeValidation, "Referenced record does not exist")
	case common.IsUniqueViolation(err):
		return apperror.Wrap(err, apperror.ErrCodeConflict, "Record already exists")
	case common.IsConstraintViolation(err):
		if msg, ok := constraintMessages[common.ConstraintName(err)]; ok {
			return apperror.Wrap(err, apperror.ErrCodeValidation, msg)
		}
		return apperror.Wrap(err, apperror.ErrCodeValidation, "Invalid field value")
	}
	return err
}

// validationError оборачивает ошибку валидатора в 400.
func validationError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperror.As(err); ok {
		return err
	}
	return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
}
