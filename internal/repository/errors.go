package repository

import (
	"database/sql"
	"errors"
)

var notFoundErrors = []error{
	ErrProjectNotFound,
	ErrCampaignNotFound,
	ErrVendorNotFound,
	ErrEnrollmentNotFound,
	ErrExpertNotFound,
	ErrExpertNotInCampaign,
	ErrInterviewNotFound,
	ErrQuestionNotFound,
	ErrParentQuestionNotFound,
	ErrScreeningQuestionMissing,
	ErrTeamMemberNotFound,
	ErrTeamMemberNotAssigned,
}

// isDomainNotFound сообщает, что ошибка является одной из sentinel-ошибок "не найдено".
// Такие ошибки возвращаются из транзакций без обёртки, чтобы сервисы сравнивали их через errors.Is.
func isDomainNotFound(err error) bool {
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
