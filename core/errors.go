package core

import "errors"

var (
	ErrNotFound       = errors.New("hello: not found")
	ErrEmptySecret    = errors.New("hello: session secret is empty")
	ErrInvalidSession = errors.New("hello: invalid session")
)

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
