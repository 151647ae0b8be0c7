package verifier

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrInvalidModulus  = errors.New("modulus must be > 0")
	ErrInvalidEncoding = errors.New("invalid base58 blockhash")
	ErrInvalidLength   = errors.New("invalid decoded blockhash length")
	ErrVersionMismatch = errors.New("rng version mismatch")
)

type Kind string

const (
	KindInvalidModulus  Kind = "invalid_modulus"
	KindInvalidEncoding Kind = "invalid_encoding"
	KindInvalidLength   Kind = "invalid_length"
	KindVersionMismatch Kind = "version_mismatch"
	KindUnknown         Kind = "unknown"
)

// KindOf classifies err into one of the verification error kinds. Wrapped
// errors are classified by their cause.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrInvalidModulus):
		return KindInvalidModulus
	case errors.Is(err, ErrInvalidEncoding):
		return KindInvalidEncoding
	case errors.Is(err, ErrInvalidLength):
		return KindInvalidLength
	case errors.Is(err, ErrVersionMismatch):
		return KindVersionMismatch
	default:
		return KindUnknown
	}
}

func newInvalidEncodingError(err error) *InvalidEncodingError {
	return &InvalidEncodingError{Err: err}
}

type InvalidEncodingError struct {
	Err error
}

func (e *InvalidEncodingError) Error() string {
	return fmt.Sprintf("%s: %v", ErrInvalidEncoding.Error(), e.Err)
}

func (e *InvalidEncodingError) Unwrap() error { return e.Err }

func (e *InvalidEncodingError) Is(target error) bool { return target == ErrInvalidEncoding }

func newInvalidLengthError(length int) *InvalidLengthError {
	return &InvalidLengthError{Length: length}
}

type InvalidLengthError struct {
	Length int
}

func (e *InvalidLengthError) Error() string {
	return errors.Errorf("decoded blockhash must be %d bytes, got %d", BlockhashSize, e.Length).Error()
}

func (e *InvalidLengthError) Is(target error) bool { return target == ErrInvalidLength }

func newVersionMismatchError(got, want Version) *VersionMismatchError {
	return &VersionMismatchError{Got: got, Want: want}
}

// VersionMismatchError is returned when a declared algorithm version is not
// the one expected, or is not known at all (Want is empty).
type VersionMismatchError struct {
	Got  Version
	Want Version
}

func (e *VersionMismatchError) Error() string {
	if e.Want == "" {
		return fmt.Sprintf("unsupported rng_version %q", e.Got)
	}
	return fmt.Sprintf("unsupported rng_version %q, expected %q", e.Got, e.Want)
}

func (e *VersionMismatchError) Is(target error) bool { return target == ErrVersionMismatch }
