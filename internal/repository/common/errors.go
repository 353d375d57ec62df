package common

import (
	"errors"

	"github.com/lib/pq"
)

// Общие ошибки для всех репозиториев
var (
	ErrNotFound              = errors.New("entity not found")
	ErrNoFieldsToUpdate      = errors.New("no fields to update")
	ErrInvalidIdentifier     = errors.New("invalid sql identifier")
	ErrPlaceholderOutOfRange = errors.New("placeholder has no bound parameter")
	ErrUnusedParameter       = errors.New("bound parameter is not referenced")
	ErrMalformedTemplate     = errors.New("malformed where template")
)

// Коды ошибок PostgreSQL, которые сервисы переводят в клиентские ошибки.
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
	pgNotNullViolation    = "23502"
	pgInvalidTextRepr     = "22P02"
)

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// IsForeignKeyViolation сообщает, что запись ссылается на несуществующую строку.
func IsForeignKeyViolation(err error) bool {
	return pqCode(err) == pgForeignKeyViolation
}

// IsUniqueViolation сообщает о нарушении уникального индекса.
func IsUniqueViolation(err error) bool {
	return pqCode(err) == pgUniqueViolation
}

// IsConstraintViolation покрывает CHECK, NOT NULL и некорректный ввод (например, невалидный uuid).
func IsConstraintViolation(err error) bool {
	switch pqCode(err) {
	case pgCheckViolation, pgNotNullViolation, pgInvalidTextRepr:
		return true
	}
	return false
}

// ConstraintName возвращает имя нарушенного ограничения, если оно известно.
func ConstraintName(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}
	return ""
}
