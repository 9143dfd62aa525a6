package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

const (
	codeUniqueViolation   pq.ErrorCode = "23505"
	codeInvalidTextFormat pq.ErrorCode = "22P02"
)

func hasCode(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == code
}

// isMissing reports whether err means the row cannot exist: either no rows
// or an id that is not a valid UUID.
func isMissing(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || hasCode(err, codeInvalidTextFormat)
}
