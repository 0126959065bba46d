// Package schema checks decoded events against the required-field contract
// and field-level format rules. The rules are independent: every rule runs
// for every event, nothing short-circuits.
package schema

import (
	"strings"

	"github.com/dsrkit/auditlint/internal/core"
)

const (
	// MinEpochMillis is the plausibility floor for timestamps: anything
	// below 10^12 is seconds (or garbage), not milliseconds. Fixed so
	// certification results are reproducible across runs.
	MinEpochMillis = 1_000_000_000_000

	// MinHashLength is a lenient floor for user_id_hash. A 256-bit hash in
	// hex is 64 characters; 32 avoids false positives on other encodings
	// while still catching raw identifiers.
	MinHashLength = 32
)

// requiredFields uses the wire names, in report order.
var requiredFields = []struct {
	name    string
	present func(core.AuditEvent) bool
}{
	{"action", func(ev core.AuditEvent) bool { return ev.Action != nil }},
	{"request_id", func(ev core.AuditEvent) bool { return ev.RequestID != nil }},
	{"request_type", func(ev core.AuditEvent) bool { return ev.RequestType != nil }},
	{"status", func(ev core.AuditEvent) bool { return ev.Status != nil }},
	{"ts", func(ev core.AuditEvent) bool { return ev.Timestamp != nil }},
	{"user_id_hash", func(ev core.AuditEvent) bool { return ev.UserIDHash != nil }},
}

// Check returns the schema findings for one event.
func Check(ev core.AuditEvent) []core.Finding {
	var findings []core.Finding

	var missing []string
	for _, field := range requiredFields {
		if !field.present(ev) {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		findings = append(findings,
			core.Errorf("missing required fields: %s", strings.Join(missing, ", ")).AtLine(ev.SourceLine))
	}

	// An absent ts fails this rule too; the rules are independent.
	if ev.Timestamp == nil || *ev.Timestamp < MinEpochMillis {
		findings = append(findings,
			core.Errorf("ts must be epoch milliseconds").AtLine(ev.SourceLine))
	}

	if ev.UserIDHash != nil && *ev.UserIDHash != "" && len(*ev.UserIDHash) < MinHashLength {
		findings = append(findings,
			core.Warnf("user_id_hash looks suspiciously short").AtLine(ev.SourceLine))
	}

	return findings
}
