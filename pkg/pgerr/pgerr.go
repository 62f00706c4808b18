// Package pgerr распознает коды ошибок PostgreSQL, возвращаемые lib/pq
package pgerr

import (
	"errors"

	"github.com/lib/pq"
)

const (
	codeExclusionViolation   = "23P01"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

func code(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// IsExclusionViolation нарушение EXCLUDE ограничения (пересечение интервалов)
func IsExclusionViolation(err error) bool {
	return code(err) == codeExclusionViolation
}

// IsSerializationFailure конфликт сериализуемой транзакции или deadlock
func IsSerializationFailure(err error) bool {
	c := code(err)
	return c == codeSerializationFailure || c == codeDeadlockDetected
}
