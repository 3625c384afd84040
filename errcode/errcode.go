package errcode

import "pulp-go/registry"

// Code is a stable, bus-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK             Code = "ok"
	InvalidTopic   Code = "invalid_topic"
	InvalidPayload Code = "invalid_payload"
	UnknownKind    Code = "unknown_kind"
	UnknownField   Code = "unknown_field"
	UnknownCommand Code = "unknown_command"
	InvalidValue   Code = "invalid_value"
	Timeout        Code = "timeout"

	// Registry outcomes.
	IntegrityFailure Code = "integrity_failure"
	NotReady         Code = "not_ready"
	BackupInvalid    Code = "backup_invalid"
	StorageFailure   Code = "storage_failure"
	ShutDown         Code = "shut_down"

	Error Code = "error" // generic fallback
)

// Optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}

// FromResult maps a registry outcome onto its bus code.
func FromResult(r registry.Result) Code {
	switch r {
	case registry.Success:
		return OK
	case registry.IntegrityFailure:
		return IntegrityFailure
	case registry.NotReady:
		return NotReady
	case registry.BackupInvalid:
		return BackupInvalid
	case registry.UnknownKind:
		return UnknownKind
	case registry.InvalidValue:
		return InvalidValue
	case registry.StorageFailure:
		return StorageFailure
	case registry.ShutDown:
		return ShutDown
	default:
		return Error
	}
}
