package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest   ErrorCode = "BAD_REQUEST"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation   ErrorCode = "VALIDATION_ERROR"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Title возвращает короткий заголовок ошибки для поля "error" ответа.
func (e *AppError) Title() string {
	switch e.Code {
	case ErrCodeNotFound:
		return "Not Found"
	case ErrCodeUnauthorized:
		return "Unauthorized"
	case ErrCodeForbidden:
		return "Forbidden"
	case ErrCodeBadRequest, ErrCodeValidation:
		return "Bad Request"
	case ErrCodeConflict:
		return "Conflict"
	default:
		return "Internal Server Error"
	}
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

// NotFound создаёт ошибку "не найдено" с сообщением для клиента.
func NotFound(message string) *AppError {
	return New(ErrCodeNotFound, message)
}

// Validation создаёт ошибку валидации с сообщением для клиента.
func Validation(message string) *AppError {
	return New(ErrCodeValidation, message)
}

// Validationf форматирует сообщение ошибки валидации.
func Validationf(format string, args ...interface{}) *AppError {
	return New(ErrCodeValidation, fmt.Sprintf(format, args...))
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// As извлекает AppError из цепочки ошибок.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeNotFound
}

func IsValidation(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeValidation
}

func IsConflict(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeConflict
}

var (
	ErrProjectNotFound          = NotFound("Project not found")
	ErrCampaignNotFound         = NotFound("Campaign not found")
	ErrVendorNotFound           = NotFound("Vendor platform not found")
	ErrEnrollmentNotFound       = NotFound("Vendor enrollment not found")
	ErrExpertNotFound           = NotFound("Expert not found")
	ErrExpertNotInCampaign      = NotFound("Expert not found in this campaign")
	ErrInterviewNotFound        = NotFound("Interview not found")
	ErrQuestionNotFound         = NotFound("Question not found")
	ErrParentQuestionNotFound   = NotFound("Parent question not found")
	ErrScreeningQuestionMissing = NotFound("Screening question not found")
	ErrTeamMemberNotFound       = NotFound("Team member not found")
	ErrTeamMemberNotAssigned    = NotFound("Team member not assigned to campaign")
	ErrNoFieldsToUpdate         = Validation("No fields to update")
	ErrExpertIDMismatch         = Validation("Expert ID mismatch")
	ErrUnauthorized             = New(ErrCodeUnauthorized, "Invalid or expired session")
	ErrInternal                 = New(ErrCodeInternal, "An unexpected error occurred")
)
