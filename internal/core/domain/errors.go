package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent validation and input failures.
// These are distinct from remote API errors, which live in the connector.
var (
	// ErrUnsupportedFormat indicates the input file extension is not recognised.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrUnreadableFile indicates the input file could not be parsed.
	ErrUnreadableFile = errors.New("unreadable file")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidLanguage indicates a language code outside the accepted set.
	ErrInvalidLanguage = errors.New("invalid language")

	// ErrNotAuthenticated indicates an API call was attempted before login.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNoPredictions indicates no predictions are ready for a question yet.
	ErrNoPredictions = errors.New("no predictions available")
)

// MissingColumnError indicates a required column name was not found in the
// input table. Fatal: the run aborts before any network call.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("column %q does not exist in the input file", e.Column)
}

// UnknownCodeError indicates a code id referenced by an answer is absent
// from the codebook. Fatal before upload: sending an unknown id would
// silently corrupt the remote training set.
type UnknownCodeError struct {
	ID int
}

func (e *UnknownCodeError) Error() string {
	return fmt.Sprintf("code with id %d was found in answers but not in the codebook", e.ID)
}

// DuplicateCodeError indicates two codebook entries share an id.
type DuplicateCodeError struct {
	ID int
}

func (e *DuplicateCodeError) Error() string {
	return fmt.Sprintf("duplicate code id %d in codebook", e.ID)
}

// IsMissingColumn checks if the error indicates a missing input column.
func IsMissingColumn(err error) bool {
	var mc *MissingColumnError
	return errors.As(err, &mc)
}

// IsUnknownCode checks if the error indicates an unknown code id.
func IsUnknownCode(err error) bool {
	var uc *UnknownCodeError
	return errors.As(err, &uc)
}
