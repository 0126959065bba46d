package core

// Request types with special lifecycle rules.
const (
	RequestTypeExport  = "export"
	RequestTypeErasure = "erasure"
)

// AuditEvent is one decoded record of the DSR audit log.
//
// The required fields are optional pointers: nil means the field was absent
// from the record (or carried a type the decoder could not use), which is
// exactly what the schema validator reports on. An event is constructed once
// by the decoder and never mutated afterwards.
type AuditEvent struct {
	// Timestamp is the event time in epoch milliseconds.
	Timestamp *int64

	// UserIDHash is the one-way hash of the data subject's identifier.
	// Raw identifiers must never appear here.
	UserIDHash *string

	// RequestID groups all events belonging to one DSR case.
	RequestID *string

	// RequestType is e.g. "export" or "erasure".
	RequestType *string

	// Status and Action carry the raw external vocabulary. They are
	// normalized during sequencing, never in place.
	Status *string
	Action *string

	// Meta contains free-form metadata, possibly including URIs.
	Meta map[string]any

	// Extra holds unknown top-level fields. They have no semantics, but
	// their string values are still scanned for PII.
	Extra map[string]any

	// SourceLine is the 1-based line number in the input, for diagnostics
	// only.
	SourceLine int
}

// StrValue returns the value of a pointer field, or "" if absent.
func StrValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
