// Package pii scans decoded events for leaked personal data.
//
// Detection is three independent predicates over a single string, not a
// unified grammar. The patterns are coarse on purpose: false positives are
// accepted as the cost of catching leaked names.
package pii

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/dsrkit/auditlint/internal/core"
)

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`)

	// North-American-style 10-digit layouts with optional country code,
	// separators, and parentheses around the exchange. Only string fields
	// are scanned, so numeric timestamps can never trip this.
	phonePattern = regexp.MustCompile(`\b(\+?\d{1,3}[-.\s]?)?\(?(\d{3})\)?[-.\s]?(\d{3})[-.\s]?(\d{4})\b`)

	// Two or more consecutive capitalized words, e.g. "Jane Doe".
	namePattern = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)+\b`)
)

// sensitiveParams is the fixed vocabulary of URI query-parameter names that
// must never appear in audit metadata. Matching is case-insensitive by
// substring.
var sensitiveParams = []string{
	"password", "token", "secret", "key", "auth", "api_key",
	"session", "bearer", "authorization", "credentials",
}

// Scan returns one error finding per pattern match in the event. String
// fields are scanned directly; meta values only go through the URI
// query-parameter check. Multiple matches produce multiple findings.
func Scan(ev core.AuditEvent) []core.Finding {
	var findings []core.Finding

	scan := func(value string) {
		if emailPattern.MatchString(value) {
			findings = append(findings, core.Errorf("email pattern found").AtLine(ev.SourceLine))
		}
		if phonePattern.MatchString(value) {
			findings = append(findings, core.Errorf("phone pattern found").AtLine(ev.SourceLine))
		}
		if namePattern.MatchString(value) {
			findings = append(findings, core.Errorf("name pattern found").AtLine(ev.SourceLine))
		}
	}

	for _, field := range []*string{ev.UserIDHash, ev.RequestID, ev.RequestType, ev.Status, ev.Action} {
		if field != nil {
			scan(*field)
		}
	}
	// sorted key order keeps findings byte-identical across runs
	for _, key := range sortedKeys(ev.Extra) {
		if s, ok := ev.Extra[key].(string); ok {
			scan(s)
		}
	}

	for _, key := range sortedKeys(ev.Meta) {
		s, ok := ev.Meta[key].(string)
		if !ok {
			continue
		}
		for _, param := range sensitiveQueryParams(s) {
			findings = append(findings,
				core.Errorf("sensitive URI parameter '%s' found", param).AtLine(ev.SourceLine))
		}
	}

	return findings
}

// sensitiveQueryParams parses value as a URI and returns the names of query
// parameters matching the sensitive vocabulary. Values that do not parse as a
// URI (or carry no query) are not assumed malicious, just not applicable.
func sensitiveQueryParams(value string) []string {
	parsed, err := url.Parse(value)
	if err != nil || parsed.RawQuery == "" {
		return nil
	}
	query, err := url.ParseQuery(parsed.RawQuery)
	if err != nil {
		return nil
	}

	var matches []string
	for name := range query {
		lower := strings.ToLower(name)
		for _, sensitive := range sensitiveParams {
			if strings.Contains(lower, sensitive) {
				matches = append(matches, name)
				break
			}
		}
	}
	sort.Strings(matches)
	return matches
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
