package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for decoding and validation.
var (
	ErrMissingID     = errors.New("id is required")
	ErrInvalidNodeID = errors.New("invalid node id")
	ErrEmptyKeyword  = errors.New("keyword is required")
)

// ErrReservedRoot is returned for commands aimed at the hidden root node.
var ErrReservedRoot = errors.New("operation on the reserved root node is not allowed")

// ErrFieldTooLong returns an error indicating a field exceeds its maximum length.
func ErrFieldTooLong(field string, maxLen int) error {
	return fmt.Errorf("%s exceeds maximum length of %d", field, maxLen)
}
