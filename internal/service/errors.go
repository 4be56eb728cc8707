package service

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrNotFound means a referenced employee, team, session, pause, leave,
	// shift or template does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict means the request was rejected and nothing was changed.
	ErrConflict = errors.New("conflict")
)

func notFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func conflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// invalid turns a validation failure into a conflict naming the first bad field.
func invalid(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Param() != "" {
			return conflict("invalid %s: must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param())
		}
		return conflict("invalid %s: %s", fe.Field(), fe.Tag())
	}
	return conflict("invalid input: %v", err)
}
