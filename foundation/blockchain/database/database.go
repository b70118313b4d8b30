// Package database handles the lower level support for blocks: construction,
// hashing, mining and the checks that keep a chain of blocks honest.
package database

import (
	"errors"
	"fmt"
)

// Reason identifies which chain invariant a block failed.
type Reason string

// Set of reasons a block can fail validation.
const (
	ReasonDigest      Reason = "digest mismatch"
	ReasonLinkage     Reason = "linkage mismatch"
	ReasonProofOfWork Reason = "proof of work mismatch"
)

// ValidationError reports the first block in a chain that failed validation.
type ValidationError struct {
	Index  uint64
	Reason Reason
	Got    string
	Exp    string
}

// Error implements the error interface.
func (ve *ValidationError) Error() string {
	return fmt.Sprintf("block %d: %s, got %s, exp %s", ve.Index, ve.Reason, ve.Got, ve.Exp)
}

// IsValidationError checks if an error of type ValidationError exists.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// GetValidationError returns a copy of the ValidationError pointer.
func GetValidationError(err error) *ValidationError {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return nil
	}
	return ve
}
