// SPDX-License-Identifier: MPL-2.0

package shadermod

import (
	"errors"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
)

const (
	// SignatureStrict treats a change of content, size or modification time as
	// a change. Touching a file without editing it triggers a rebuild.
	SignatureStrict SignatureMode = "strict"
	// SignatureContent compares content hash and size only.
	SignatureContent SignatureMode = "content"
)

// ErrInvalidSignatureMode is returned when a SignatureMode value is not recognized.
var ErrInvalidSignatureMode = errors.New("invalid signature mode")

type (
	// Signature is a comparable fingerprint of a module's bytes.
	Signature struct {
		// Hash is the xxhash64 digest of the content.
		Hash uint64
		// Size is the content length in bytes.
		Size int64
		// ModTime is the file modification time; zero for inline modules.
		ModTime time.Time
	}

	// SignatureMode selects which Signature fields take part in comparisons.
	SignatureMode string

	// InvalidSignatureModeError is returned when a SignatureMode value is not recognized.
	// It wraps ErrInvalidSignatureMode for errors.Is() compatibility.
	InvalidSignatureModeError struct {
		Value SignatureMode
	}
)

// Sign computes the signature of data observed with the given modification time.
func Sign(data []byte, modTime time.Time) Signature {
	return Signature{
		Hash:    xxhash.Sum64(data),
		Size:    int64(len(data)),
		ModTime: modTime,
	}
}

// SignString is Sign for text that did not come from a file.
func SignString(s string) Signature {
	return Signature{
		Hash: xxhash.Sum64String(s),
		Size: int64(len(s)),
	}
}

// Equal reports whether s and other describe the same content under mode.
// An unrecognized mode compares strictly.
func (s Signature) Equal(other Signature, mode SignatureMode) bool {
	if s.Hash != other.Hash || s.Size != other.Size {
		return false
	}
	if mode == SignatureContent {
		return true
	}
	return s.ModTime.Equal(other.ModTime)
}

// IsZero reports whether the signature was never computed.
func (s Signature) IsZero() bool {
	return s.Hash == 0 && s.Size == 0 && s.ModTime.IsZero()
}

// String renders the signature for diagnostics.
func (s Signature) String() string {
	if s.ModTime.IsZero() {
		return fmt.Sprintf("xxh64:%016x/%dB", s.Hash, s.Size)
	}
	return fmt.Sprintf("xxh64:%016x/%dB@%s", s.Hash, s.Size, s.ModTime.UTC().Format(time.RFC3339Nano))
}

// String returns the string representation of the SignatureMode.
func (m SignatureMode) String() string { return string(m) }

// IsValid returns whether the SignatureMode is one of the defined modes.
func (m SignatureMode) IsValid() (bool, []error) {
	switch m {
	case SignatureStrict, SignatureContent:
		return true, nil
	default:
		return false, []error{&InvalidSignatureModeError{Value: m}}
	}
}

// Error implements the error interface for InvalidSignatureModeError.
func (e *InvalidSignatureModeError) Error() string {
	return fmt.Sprintf("invalid signature mode %q (valid: %s, %s)", e.Value, SignatureStrict, SignatureContent)
}

// Unwrap returns ErrInvalidSignatureMode for errors.Is() compatibility.
func (e *InvalidSignatureModeError) Unwrap() error { return ErrInvalidSignatureMode }
