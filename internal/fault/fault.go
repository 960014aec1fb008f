// Package fault defines the typed failure envelope returned by every public
// engine operation.
//
// A Fault carries a machine-readable code (e.g. "WIP.EXCEEDED"), an optional
// sub-code for finer dispatch (e.g. "pr_url_missing"), a human message, a
// recoverability flag, and a remediation hint. The CLI renders the hint as the
// actionable next step; callers branch on Code/Sub, never on message text.
package fault

import (
	"errors"
	"fmt"
)

// Code identifies a failure class. Codes are namespaced by component.
type Code string

const (
	// Configuration faults. Fatal: fail closed, no partial operation.
	ConfigInvalid  Code = "CONFIG.INVALID"
	ConfigMissing  Code = "CONFIG.MISSING"
	ConfigProvider Code = "CONFIG.PROVIDER"

	// Store faults.
	StoreIO            Code = "STORE.IO"
	StoreNotFound      Code = "STORE.NOT_FOUND"
	StoreDuplicateCard Code = "STORE.DUPLICATE_CARD"
	StoreLocked        Code = "STORE.LOCKED"

	// Schema faults. Always recoverable by correcting the input.
	SchemaMissingField Code = "SCHEMA.MISSING_FIELD"
	SchemaUnknownField Code = "SCHEMA.UNKNOWN_FIELD"
	SchemaWrongType    Code = "SCHEMA.WRONG_TYPE"

	// Card selector faults.
	CardNotFound Code = "CARD.NOT_FOUND"

	// Transition faults.
	GateValidation    Code = "GATE.VALIDATION"
	WIPExceeded       Code = "WIP.EXCEEDED"
	ScrubMissingField Code = "SCRUB.MISSING_FIELD"
)

// Fault is the failure half of the operation envelope.
type Fault struct {
	Code        Code   `json:"code"`
	Sub         string `json:"sub,omitempty"`
	Message     string `json:"message"`
	Recoverable bool   `json:"recoverable"`
	Hint        string `json:"hint,omitempty"`
}

func (f *Fault) Error() string {
	if f.Sub != "" {
		return fmt.Sprintf("%s (%s): %s", f.Code, f.Sub, f.Message)
	}
	return fmt.Sprintf("%s: %s", f.Code, f.Message)
}

// New creates a fault with the given code and formatted message.
// Recoverability defaults per code class; use WithHint/WithSub to enrich.
func New(code Code, format string, args ...interface{}) *Fault {
	return &Fault{
		Code:        code,
		Message:     fmt.Sprintf(format, args...),
		Recoverable: defaultRecoverable(code),
	}
}

// WithSub attaches a machine-readable sub-code.
func (f *Fault) WithSub(sub string) *Fault {
	f.Sub = sub
	return f
}

// WithHint attaches a remediation hint shown to the user.
func (f *Fault) WithHint(format string, args ...interface{}) *Fault {
	f.Hint = fmt.Sprintf(format, args...)
	return f
}

// Wrap converts an underlying error into a fault, preserving its message.
func Wrap(code Code, err error, context string) *Fault {
	return New(code, "%s: %v", context, err)
}

// defaultRecoverable encodes the taxonomy's recoverability policy.
// CONFIG.* and store consistency faults are fatal; everything the caller can
// fix by changing input or retrying the same operation is recoverable.
func defaultRecoverable(code Code) bool {
	switch code {
	case ConfigInvalid, ConfigMissing, StoreDuplicateCard:
		return false
	case StoreIO, StoreNotFound:
		// Transient I/O may be retried by the caller; consistency decides.
		return false
	default:
		return true
	}
}

// As extracts a *Fault from an error chain.
func As(err error) (*Fault, bool) {
	var f *Fault
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// Is reports whether err is a fault with the given code.
func Is(err error, code Code) bool {
	f, ok := As(err)
	return ok && f.Code == code
}

// IsRecoverable reports whether err is a fault the caller can fix and retry.
// Non-fault errors are treated as fatal.
func IsRecoverable(err error) bool {
	f, ok := As(err)
	return ok && f.Recoverable
}
