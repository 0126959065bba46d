package schema

import (
	"strings"
	"testing"

	"github.com/dsrkit/auditlint/internal/core"
)

func strp(s string) *string { return &s }
func i64p(v int64) *int64   { return &v }

func fullEvent() core.AuditEvent {
	return core.AuditEvent{
		Timestamp:   i64p(1700000000000),
		UserIDHash:  strp(strings.Repeat("a", 64)),
		RequestID:   strp("req-1"),
		RequestType: strp("export"),
		Status:      strp("pending"),
		Action:      strp("create"),
		SourceLine:  7,
	}
}

func TestCheckCompleteEventHasNoFindings(t *testing.T) {
	if findings := Check(fullEvent()); len(findings) != 0 {
		t.Errorf("Check() = %v, want no findings", findings)
	}
}

func TestCheckMissingFields(t *testing.T) {
	ev := fullEvent()
	ev.UserIDHash = nil
	ev.Action = nil

	findings := Check(ev)
	if len(findings) != 1 {
		t.Fatalf("Check() = %v, want exactly one finding", findings)
	}

	f := findings[0]
	if f.Severity != core.SeverityError {
		t.Errorf("severity = %s, want error", f.Severity)
	}
	if f.Line != 7 {
		t.Errorf("line = %d, want 7", f.Line)
	}
	// exactly the missing subset, by name
	want := "missing required fields: action, user_id_hash"
	if f.Message != want {
		t.Errorf("message = %q, want %q", f.Message, want)
	}
}

func TestCheckTimestampFloor(t *testing.T) {
	tests := []struct {
		name      string
		ts        *int64
		wantError bool
	}{
		{"exactly at floor", i64p(MinEpochMillis), false},
		{"above floor", i64p(1700000000000), false},
		{"one below floor", i64p(MinEpochMillis - 1), true},
		{"epoch seconds", i64p(1700000000), true},
		{"zero", i64p(0), true},
		{"negative", i64p(-1), true},
		{"absent", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := fullEvent()
			ev.Timestamp = tt.ts

			got := false
			for _, f := range Check(ev) {
				if f.Message == "ts must be epoch milliseconds" {
					got = true
				}
			}
			if got != tt.wantError {
				t.Errorf("ts error present = %v, want %v", got, tt.wantError)
			}
		})
	}
}

func TestCheckAbsentTimestampTripsBothRules(t *testing.T) {
	ev := fullEvent()
	ev.Timestamp = nil

	findings := Check(ev)
	if len(findings) != 2 {
		t.Fatalf("Check() = %v, want missing-field and ts findings", findings)
	}
}

func TestCheckHashLengthHeuristic(t *testing.T) {
	tests := []struct {
		name        string
		hash        string
		wantWarning bool
	}{
		{"sha256 hex", strings.Repeat("ab", 32), false},
		{"exactly 32 chars", strings.Repeat("a", 32), false},
		{"31 chars", strings.Repeat("a", 31), true},
		{"raw-looking id", "user-1234", true},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := fullEvent()
			ev.UserIDHash = strp(tt.hash)

			var warning *core.Finding
			for _, f := range Check(ev) {
				if f.Severity == core.SeverityWarning {
					warning = &f
				}
			}
			if (warning != nil) != tt.wantWarning {
				t.Fatalf("warning present = %v, want %v", warning != nil, tt.wantWarning)
			}
			if warning != nil && warning.Message != "user_id_hash looks suspiciously short" {
				t.Errorf("warning message = %q", warning.Message)
			}
		})
	}
}
