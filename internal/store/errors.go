package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// ErrNotFound is wrapped by errors for updates and deletes that matched no row.
var ErrNotFound = errors.New("record not found")

// Error is returned by every table operation. Message is meant to be shown
// to the operator as is.
type Error struct {
	Op      string
	Table   string
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

func wrap(op, table string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = ErrNotFound
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return &Error{Op: op, Table: table, Message: validationMessage(verrs), Err: err}
	}
	return &Error{Op: op, Table: table, Message: err.Error(), Err: err}
}

func validationMessage(verrs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be a number no less than %s", fe.Field(), fe.Param()))
		case "min", "max":
			msgs = append(msgs, fmt.Sprintf("%s must be between 1 and 5", fe.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return strings.Join(msgs, "; ")
}
