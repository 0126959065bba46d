// Package engine wires the validation stages into a single batch pipeline:
// decode, per-event scans, per-request sequencing, report assembly.
package engine

import (
	"io"
	"runtime"

	"github.com/rs/xid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/dsrkit/auditlint/internal/core"
	"github.com/dsrkit/auditlint/internal/decode"
	"github.com/dsrkit/auditlint/internal/pii"
	"github.com/dsrkit/auditlint/internal/schema"
	"github.com/dsrkit/auditlint/internal/sequence"
	"github.com/dsrkit/auditlint/internal/vocab"
)

// Validator runs the full compliance pipeline over one audit log batch.
type Validator struct {
	sequencer *sequence.Sequencer
}

// New creates a Validator using the given vocabulary.
func New(n *vocab.Normalizer, strictVocab bool) *Validator {
	return &Validator{
		sequencer: sequence.New(n, strictVocab),
	}
}

// Run consumes the log source once and returns the assembled report. Only a
// read failure of the source itself is returned as an error; every other
// problem becomes a finding.
func (v *Validator) Run(r io.Reader) (*core.Report, error) {
	report := &core.Report{RunID: xid.New().String()}

	events, decodeFindings, err := decode.All(r)
	if err != nil {
		return nil, err
	}
	report.EventCount = len(events)
	report.AddAll(decodeFindings)

	if len(events) == 0 {
		report.Add(core.Errorf("no audit events found in log"))
		return report, nil
	}
	log.Debug().Int("events", len(events)).Msg("decoded audit events")

	report.AddAll(v.scanEvents(events))
	report.AddAll(v.sequencer.Check(events))

	log.Debug().
		Int("errors", len(report.Errors)).
		Int("warnings", len(report.Warnings)).
		Bool("passed", report.Passed()).
		Msg("validation finished")
	return report, nil
}

// scanEvents runs the order-independent per-event checks (schema, PII)
// concurrently. Each event writes into its own result slot, so the flattened
// output keeps log order without any locking.
func (v *Validator) scanEvents(events []core.AuditEvent) []core.Finding {
	results := make([][]core.Finding, len(events))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, ev := range events {
		i, ev := i, ev
		g.Go(func() error {
			results[i] = append(schema.Check(ev), pii.Scan(ev)...)
			return nil
		})
	}
	_ = g.Wait() // scan funcs never return errors

	var findings []core.Finding
	for _, fs := range results {
		findings = append(findings, fs...)
	}
	return findings
}
