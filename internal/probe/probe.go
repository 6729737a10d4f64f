// Package probe defines the result type shared by all diagnostic probes.
//
// A probe is a single bounded operation (subprocess run, DNS lookup,
// gateway discovery). Probes never propagate errors to their callers:
// every invocation resolves to an Outcome, and failures carry a Kind so
// callers can render them without inspecting error chains.
package probe

// Kind classifies why a probe failed.
type Kind int

const (
	KindNone Kind = iota
	KindTimeout
	KindNotFound
	KindResolutionError
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindTimeout:
		return "timeout"
	case KindNotFound:
		return "not_found"
	case KindResolutionError:
		return "resolution_error"
	case KindUnknown:
		return "unknown"
	}
	return "invalid"
}

// Outcome is the terminal result of one probe invocation.
//
// OK means the operation itself ran to completion. For subprocess probes
// a nonzero exit still yields OK with ExitCode set; only failures to
// invoke (timeout, missing binary, anything else) produce a failure
// Outcome.
type Outcome struct {
	OK       bool
	Payload  string
	ExitCode int
	Kind     Kind
	Message  string
}

// Success returns an OK outcome carrying a payload.
func Success(payload string) Outcome {
	return Outcome{OK: true, Payload: payload}
}

// Exited returns an OK outcome for a process that ran to completion,
// whatever its exit code.
func Exited(stdout string, code int) Outcome {
	return Outcome{OK: true, Payload: stdout, ExitCode: code}
}

// Failure returns a failed outcome of the given kind.
func Failure(kind Kind, message string) Outcome {
	return Outcome{Kind: kind, Message: message}
}

// TimedOut reports whether the probe failed by exceeding its deadline.
func (o Outcome) TimedOut() bool {
	return !o.OK && o.Kind == KindTimeout
}
