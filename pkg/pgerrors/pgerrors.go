package pgerrors

import (
	"errors"

	"github.com/lib/pq"
)

// Коды ошибок PostgreSQL, которые сервис обрабатывает явно
const (
	ForeignKeyViolation = "23503"
	UniqueViolation     = "23505"
	CheckViolation      = "23514"
	ExclusionViolation  = "23P01"
)

// Code возвращает SQLSTATE ошибки lib/pq или пустую строку
func Code(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// Constraint возвращает имя нарушенного ограничения или пустую строку
func Constraint(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}
	return ""
}

// Is проверяет, что err является ошибкой PostgreSQL с кодом code
func Is(err error, code string) bool {
	return Code(err) == code
}
