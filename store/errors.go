package store

import (
	"errors"
	"fmt"
)

var (
	ErrHelpRequestNotFound = fmt.Errorf("help request not found")
	ErrEmptyArticles       = fmt.Errorf("help request has no articles")

	ErrAccountNotFound = fmt.Errorf("account not found")
	ErrAccountTaken    = fmt.Errorf("the email has been registered")

	ErrProfileNotFound = fmt.Errorf("profile not found")
)

// PersistenceError wraps a failure of the underlying database
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func persistenceError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}
