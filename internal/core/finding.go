package core

import "fmt"

// Severity classifies a finding. Only errors affect the verdict.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is one reported violation or diagnostic. Findings are accumulated
// across all stages and never removed; the validator's job is to surface the
// complete set of problems in a single run.
type Finding struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`

	// Line is the 1-based source line the finding refers to, 0 if the
	// finding is not tied to a single line.
	Line int `json:"line,omitempty"`

	// RequestID is set for findings scoped to one request's timeline.
	RequestID string `json:"request_id,omitempty"`
}

func (f Finding) String() string {
	switch {
	case f.Line > 0:
		return fmt.Sprintf("line %d: %s", f.Line, f.Message)
	case f.RequestID != "":
		return fmt.Sprintf("request %s: %s", f.RequestID, f.Message)
	default:
		return f.Message
	}
}

// Errorf builds an error-severity finding.
func Errorf(format string, args ...any) Finding {
	return Finding{Severity: SeverityError, Message: fmt.Sprintf(format, args...)}
}

// Warnf builds a warning-severity finding.
func Warnf(format string, args ...any) Finding {
	return Finding{Severity: SeverityWarning, Message: fmt.Sprintf(format, args...)}
}

// AtLine returns a copy of the finding pinned to a source line.
func (f Finding) AtLine(line int) Finding {
	f.Line = line
	return f
}

// ForRequest returns a copy of the finding scoped to a request id.
func (f Finding) ForRequest(id string) Finding {
	f.RequestID = id
	return f
}
