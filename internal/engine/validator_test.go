package engine

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/dsrkit/auditlint/internal/core"
	"github.com/dsrkit/auditlint/internal/vocab"
)

const hash = "d2f1a9c4e8b7665544332211aabbccddeeff00112233445566778899aabbccdd"

func newValidator() *Validator {
	return New(vocab.New(), false)
}

func run(t *testing.T, input string) *core.Report {
	t.Helper()
	report, err := newValidator().Run(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return report
}

func TestRunErasureLifecyclePasses(t *testing.T) {
	input := strings.Join([]string{
		`{"ts": 1700000000000, "user_id_hash": "` + hash + `", "request_id": "req-1", "request_type": "erasure", "status": "started", "action": "submitted"}`,
		`{"ts": 1700000000500, "user_id_hash": "` + hash + `", "request_id": "req-1", "request_type": "erasure", "status": "completed", "action": "confirmed"}`,
	}, "\n")

	report := run(t, input)
	if !report.Passed() {
		t.Fatalf("Passed() = false, errors: %v", report.Errors)
	}
	if report.EventCount != 2 {
		t.Errorf("EventCount = %d, want 2", report.EventCount)
	}
	if len(report.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", report.Warnings)
	}
	if report.RunID == "" {
		t.Error("RunID is empty")
	}
}

func TestRunExportNeedsNoConfirmation(t *testing.T) {
	input := strings.Join([]string{
		`{"ts": 1700000000000, "user_id_hash": "` + hash + `", "request_id": "req-1", "request_type": "export", "status": "started", "action": "submitted"}`,
		`{"ts": 1700000000500, "user_id_hash": "` + hash + `", "request_id": "req-1", "request_type": "export", "status": "completed", "action": "ready"}`,
	}, "\n")

	if report := run(t, input); !report.Passed() {
		t.Fatalf("Passed() = false, errors: %v", report.Errors)
	}
}

func TestRunTerminalRegressionFails(t *testing.T) {
	input := strings.Join([]string{
		`{"ts": 1700000000000, "user_id_hash": "` + hash + `", "request_id": "req-1", "request_type": "export", "status": "completed", "action": "create"}`,
		`{"ts": 1700000000500, "user_id_hash": "` + hash + `", "request_id": "req-1", "request_type": "export", "status": "processing", "action": "processing"}`,
	}, "\n")

	report := run(t, input)
	if report.Passed() {
		t.Fatal("Passed() = true, want fail")
	}
	want := []string{"invalid status transition completed -> inProgress"}
	var got []string
	for _, f := range report.Errors {
		got = append(got, f.Message)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("error messages mismatch (-want +got):\n%s", diff)
	}
}

func TestRunAccumulatesAcrossStages(t *testing.T) {
	input := strings.Join([]string{
		// decode failure
		`not json`,
		// schema failure (ts in seconds) + PII leak + bad opening action
		`{"ts": 1700000000, "user_id_hash": "` + hash + `", "request_id": "req-1", "request_type": "export", "status": "pending", "action": "queued", "note": "jane.doe@example.com", "meta": {"url": "https://x/y?token=abc"}}`,
	}, "\n")

	report := run(t, input)
	if report.Passed() {
		t.Fatal("Passed() = true, want fail")
	}

	wantMessages := []string{
		"invalid JSON at line 1",
		"ts must be epoch milliseconds",
		"email pattern found",
		"sensitive URI parameter 'token' found",
		"first event should be 'create', got 'queued'",
	}
	for _, want := range wantMessages {
		found := false
		for _, f := range report.Errors {
			if strings.Contains(f.Message, want) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("errors missing %q; got %v", want, report.Errors)
		}
	}
	if report.EventCount != 1 {
		t.Errorf("EventCount = %d, want 1", report.EventCount)
	}
}

func TestRunEmptyInputFails(t *testing.T) {
	report := run(t, "\n\n")
	if report.Passed() {
		t.Fatal("Passed() = true, want fail on empty log")
	}
	if len(report.Errors) != 1 || report.Errors[0].Message != "no audit events found in log" {
		t.Errorf("Errors = %v, want the no-events error", report.Errors)
	}
}

func TestRunWarningsDoNotAffectVerdict(t *testing.T) {
	input := `{"ts": 1700000000000, "user_id_hash": "shorthash", "request_id": "req-1", "request_type": "export", "status": "pending", "action": "create"}`

	report := run(t, input)
	if !report.Passed() {
		t.Fatalf("Passed() = false, errors: %v", report.Errors)
	}
	if len(report.Warnings) != 1 {
		t.Fatalf("Warnings = %v, want the short-hash warning", report.Warnings)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	input := strings.Join([]string{
		`{"ts": 1700000000000, "user_id_hash": "x", "request_id": "req-2", "request_type": "erasure", "status": "completed", "action": "queued", "meta": {"a": "https://x/?password=1&token=2", "b": "https://x/?secret=3"}}`,
		`{"ts": 1700000000100, "request_id": "req-1", "request_type": "export", "status": "pending", "action": "create", "who": "Jane Doe"}`,
		`broken`,
	}, "\n")

	first := run(t, input)
	second := run(t, input)

	ignoreRunID := cmpopts.IgnoreFields(core.Report{}, "RunID")
	if diff := cmp.Diff(first, second, ignoreRunID); diff != "" {
		t.Errorf("repeated runs differ (-first +second):\n%s", diff)
	}
}
