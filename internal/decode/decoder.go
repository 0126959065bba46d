// Package decode turns a newline-delimited audit log into typed events.
//
// Every non-blank line is decoded independently: a malformed line yields one
// error finding carrying its line number and decoding continues, so a single
// bad record never aborts the batch.
package decode

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dsrkit/auditlint/internal/core"
)

// maxLineBytes caps a single log line. Audit events are small; anything near
// this size is broken tooling upstream. Oversized lines are skipped with a
// finding, they never abort the batch.
const maxLineBytes = 1024 * 1024

var (
	errLineTooLong  = errors.New("line too long")
	errTrailingData = errors.New("unexpected content after JSON object")
)

// All reads the full log, returning the decoded events and one finding per
// malformed line. A read failure of the underlying source is fatal and
// returned as an error with no partial results.
func All(r io.Reader) ([]core.AuditEvent, []core.Finding, error) {
	var (
		events   []core.AuditEvent
		findings []core.Finding
	)

	reader := bufio.NewReaderSize(r, 64*1024)
	lineNum := 0
	for {
		lineNum++
		line, err := readLine(reader)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, errLineTooLong) {
			return nil, nil, fmt.Errorf("reading audit log: %w", err)
		}

		if errors.Is(err, errLineTooLong) {
			findings = append(findings,
				core.Errorf("line %d exceeds maximum length of %d bytes", lineNum, maxLineBytes).AtLine(lineNum))
			continue
		}

		if trimmed := strings.TrimSpace(line); trimmed != "" {
			ev, decErr := decodeLine(trimmed, lineNum)
			if decErr != nil {
				findings = append(findings,
					core.Errorf("invalid JSON at line %d: %v", lineNum, decErr).AtLine(lineNum))
			} else {
				events = append(events, ev)
			}
		}

		if errors.Is(err, io.EOF) {
			break
		}
	}

	return events, findings, nil
}

// readLine returns the next line without its newline. A line exceeding
// maxLineBytes is drained up to the next newline and reported as
// errLineTooLong, so the scan continues with the following line; only real
// read failures propagate as-is.
func readLine(reader *bufio.Reader) (string, error) {
	var buf []byte
	for {
		chunk, err := reader.ReadSlice('\n')
		buf = append(buf, chunk...)

		switch {
		case err == nil, errors.Is(err, io.EOF):
			line := strings.TrimSuffix(string(buf), "\n")
			if len(line) > maxLineBytes {
				return "", errLineTooLong
			}
			if errors.Is(err, io.EOF) {
				return line, io.EOF
			}
			return line, nil
		case errors.Is(err, bufio.ErrBufferFull):
			if len(buf) > maxLineBytes {
				return "", drainLine(reader)
			}
		default:
			return "", err
		}
	}
}

// drainLine discards the rest of an oversized line.
func drainLine(reader *bufio.Reader) error {
	for {
		_, err := reader.ReadSlice('\n')
		switch {
		case err == nil, errors.Is(err, io.EOF):
			return errLineTooLong
		case errors.Is(err, bufio.ErrBufferFull):
			// keep draining
		default:
			return err
		}
	}
}

// decodeLine decodes exactly one JSON object. Anything non-whitespace after
// the object makes the whole line invalid, matching a strict one-record-per-
// line contract; otherwise PII in the dropped remainder would escape the scan.
func decodeLine(line string, lineNum int) (core.AuditEvent, error) {
	dec := json.NewDecoder(strings.NewReader(line))
	dec.UseNumber()

	var record map[string]any
	if err := dec.Decode(&record); err != nil {
		return core.AuditEvent{}, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return core.AuditEvent{}, errTrailingData
	}

	return eventFromRecord(record, lineNum), nil
}

// eventFromRecord maps the open JSON object onto the typed event. A known
// field with an unusable type is left nil rather than failing the line, so the
// schema validator can report it as a field-level problem. Unknown top-level
// fields land in Extra; they carry no semantics but are still PII-scanned.
func eventFromRecord(record map[string]any, lineNum int) core.AuditEvent {
	ev := core.AuditEvent{SourceLine: lineNum}

	for key, value := range record {
		switch key {
		case "ts":
			if num, ok := value.(json.Number); ok {
				if ts, err := num.Int64(); err == nil {
					ev.Timestamp = &ts
				}
			}
		case "user_id_hash":
			ev.UserIDHash = asString(value)
		case "request_id":
			ev.RequestID = asString(value)
		case "request_type":
			ev.RequestType = asString(value)
		case "status":
			ev.Status = asString(value)
		case "action":
			ev.Action = asString(value)
		case "meta":
			if m, ok := value.(map[string]any); ok {
				ev.Meta = m
			}
		default:
			if ev.Extra == nil {
				ev.Extra = make(map[string]any)
			}
			ev.Extra[key] = value
		}
	}

	return ev
}

func asString(value any) *string {
	if s, ok := value.(string); ok {
		return &s
	}
	return nil
}
