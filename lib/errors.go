package lib

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Database errors
var (
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")
	ErrForeignKey = errors.New("foreign key violation")
)

// Request errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidImage = errors.New("invalid image")
)

// RequestError carries a message that is safe to show to whoever sent the request.
type RequestError struct {
	Kind    error
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Kind
}

func Invalid(message string) error {
	return &RequestError{Kind: ErrInvalidInput, Message: message}
}

func NotFound(message string) error {
	return &RequestError{Kind: ErrNotFound, Message: message}
}

func Conflict(message string) error {
	return &RequestError{Kind: ErrConflict, Message: message}
}

// SQLState returns the SQLSTATE code of a Postgres error from either driver.
func SQLState(err error) string {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C')
	}
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code
	}
	return ""
}

func MapPgError(err error) error {
	if err == nil {
		return nil
	}
	switch SQLState(err) {
	case "23505": // unique_violation
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case "23503": // foreign_key_violation
		return fmt.Errorf("%w: %w", ErrForeignKey, err)
	case "P0002": // no_data_found
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}
