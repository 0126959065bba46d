package core

// Report is the aggregated outcome of one validation run. It is the only
// surface the CLI/report layer consumes; rendering and persistence live
// outside this package.
type Report struct {
	// RunID uniquely identifies this validation run in exported reports.
	RunID string `json:"run_id"`

	// EventCount is the number of successfully decoded events.
	EventCount int `json:"event_count"`

	Errors   []Finding `json:"errors"`
	Warnings []Finding `json:"warnings"`
}

// Add routes a finding into the matching severity bucket.
func (r *Report) Add(f Finding) {
	switch f.Severity {
	case SeverityWarning:
		r.Warnings = append(r.Warnings, f)
	default:
		r.Errors = append(r.Errors, f)
	}
}

// AddAll routes a batch of findings.
func (r *Report) AddAll(findings []Finding) {
	for _, f := range findings {
		r.Add(f)
	}
}

// Passed reports the verdict. Decode failures are recorded as error findings,
// so an empty error list implies the whole batch was analyzable.
func (r *Report) Passed() bool {
	return len(r.Errors) == 0
}
