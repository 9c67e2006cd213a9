package core

import "errors"

var (
	ErrDBConn = errors.New("db connection failure")

	ErrFieldIsEmpty      = errors.New("field is empty")
	ErrFieldTooLong      = errors.New("field is too long")
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderExists       = errors.New("user already has an open order")
	ErrGeneratorDisabled = errors.New("reply generator is not configured")
	ErrEmptyGeneration   = errors.New("generator returned an empty reply")
)
