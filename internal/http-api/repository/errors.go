package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"reviewhub/internal/http-api/apierr"
)

// Postgres unique_violation
const uniqueViolationCode = "23505"

// translate maps storage errors onto the API taxonomy. The resource name
// feeds the client-facing message, e.g. "user not found" or
// "review already exists". Unique-index violations must come back as
// conflicts, never as opaque faults: under concurrent requests the index is
// the final arbiter for duplicate usernames, emails, slugs and reviews.
func translate(err error, resource string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierr.Wrap(apierr.NotFound, resource+" not found", err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return apierr.Wrap(apierr.Conflict, resource+" already exists", err)
	}
	return err
}
