package paillier

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	// ErrNoInverse reports that a modular inverse was requested for a
	// non-invertible pair.
	ErrNoInverse = errors.New("paillier: modular inverse does not exist")

	// ErrNonceExhausted reports that the encryptor could not draw an
	// invertible random nonce within its attempt budget.
	ErrNonceExhausted = errors.New("paillier: could not draw an invertible nonce")

	// ErrPlaintextOutOfRange reports a plaintext outside [0, n).
	ErrPlaintextOutOfRange = errors.New("paillier: plaintext out of range")
)

// ParseError reports a malformed wire message. Field names the first
// missing or invalid field; an empty Field means the message as a whole
// could not be parsed.
type ParseError struct {
	Field  string
	Reason string
}

func (e *ParseError) Error() string {
	switch {
	case e.Field == "":
		return "paillier: malformed message: " + e.Reason
	case e.Reason == "":
		return fmt.Sprintf("paillier: no %q field in message", e.Field)
	default:
		return fmt.Sprintf("paillier: field %q %s", e.Field, e.Reason)
	}
}

// ComputationError reports that a remote computation failed. It is
// returned when a caller attempts to decrypt an Error response, so a
// server-side failure can never be mistaken for a valid plaintext.
type ComputationError struct {
	Message string
}

func (e *ComputationError) Error() string {
	return "paillier: remote computation failed: " + e.Message
}
