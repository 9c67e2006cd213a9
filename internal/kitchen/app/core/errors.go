package core

import "errors"

var (
	ErrInvalidEvent   = errors.New("invalid order event")
	ErrOrderNotFound  = errors.New("order not found")
	ErrDeliveryClosed = errors.New("delivery channel closed")
)
