package errors

import (
	"errors"
	"fmt"
)

var (
	ErrProtocolDisconnect    = errors.New("engine output ended before the expected sentinel")
	ErrMalformedNumericField = errors.New("malformed numeric field in engine output")
	ErrMissingToken          = errors.New("expected token is missing from engine output")
	ErrLookupMiss            = errors.New("best move has no aggregated record")
	ErrSessionClosed         = errors.New("engine session is closed")
	ErrInvalidChess960ID     = errors.New("chess960 id out of range")
	ErrInvalidRequest        = errors.New("invalid analysis request")
	ErrAnalysisNotFound      = errors.New("analysis not found")
	ErrVariantMismatch       = errors.New("engine session runs a different rule variant")
	ErrInternal              = errors.New("internal error")
)

// FieldError reports a depth or score token that did not parse as an integer, or a token that is
// not terminated where the engine protocol requires it.
type FieldError struct {
	Field  string
	Value  string
	Reason string
	Fen    string
}

// ReasonNotNumeric is the default FieldError reason.
const ReasonNotNumeric = "not numeric"

func (e *FieldError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = ReasonNotNumeric
	}
	if e.Fen == "" {
		return fmt.Sprintf("%s %s >%s", e.Field, reason, e.Value)
	}
	return fmt.Sprintf("%s %s >%s for %s", e.Field, reason, e.Value, e.Fen)
}

func (e *FieldError) Unwrap() error {
	return ErrMalformedNumericField
}
