// Package sequence replays the per-request lifecycle protocol. It is the only
// stage that enforces cross-event, order-sensitive invariants: the opening
// action, the erasure confirmation requirement, and the status transition
// graph.
package sequence

import (
	"sort"

	"github.com/dsrkit/auditlint/internal/core"
	"github.com/dsrkit/auditlint/internal/vocab"
)

// transitions is the directed status graph. It intentionally has no
// back-edges: once work moves forward, regressing to an earlier phase is a
// violation. Terminal statuses have no outgoing edges at all.
var transitions = map[string]map[string]struct{}{
	vocab.StatusPending: {
		vocab.StatusInProgress: {}, vocab.StatusReady: {}, vocab.StatusCompleted: {},
		vocab.StatusFailed: {}, vocab.StatusCanceled: {},
	},
	vocab.StatusInProgress: {
		vocab.StatusReady: {}, vocab.StatusCompleted: {},
		vocab.StatusFailed: {}, vocab.StatusCanceled: {},
	},
	vocab.StatusReady: {
		vocab.StatusCompleted: {}, vocab.StatusFailed: {}, vocab.StatusCanceled: {},
	},
	vocab.StatusCompleted: {},
	vocab.StatusFailed:    {},
	vocab.StatusCanceled:  {},
}

// Sequencer groups events by request id and checks every timeline against the
// lifecycle protocol.
type Sequencer struct {
	vocab *vocab.Normalizer

	// strictVocab escalates unrecognized action/status diagnostics from
	// warnings to errors.
	strictVocab bool
}

// New creates a Sequencer using the given vocabulary.
func New(n *vocab.Normalizer, strictVocab bool) *Sequencer {
	return &Sequencer{vocab: n, strictVocab: strictVocab}
}

// timelineEvent pairs an event with its normalized vocabulary. The normalized
// values live only here; they are never written back to the source event.
type timelineEvent struct {
	ev     core.AuditEvent
	action string
	status string
}

// Check runs the per-request lifecycle checks over the full batch. Events
// without a request id cannot be sequenced and are skipped here (their absence
// is already a schema error).
func (s *Sequencer) Check(events []core.AuditEvent) []core.Finding {
	groups := make(map[string][]core.AuditEvent)
	for _, ev := range events {
		id := core.StrValue(ev.RequestID)
		if id == "" {
			continue
		}
		groups[id] = append(groups[id], ev)
	}

	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var findings []core.Finding
	for _, id := range ids {
		findings = append(findings, s.checkTimeline(id, groups[id])...)
	}
	return findings
}

func (s *Sequencer) checkTimeline(id string, events []core.AuditEvent) []core.Finding {
	// Stable sort: equal timestamps keep the log's own emission order.
	sort.SliceStable(events, func(i, j int) bool {
		return sortKey(events[i]) < sortKey(events[j])
	})

	var findings []core.Finding

	timeline := make([]timelineEvent, 0, len(events))
	for _, ev := range events {
		te := timelineEvent{ev: ev}
		if ev.Action != nil {
			te.action = s.vocab.NormalizeAction(*ev.Action)
			if !s.vocab.KnownAction(*ev.Action) {
				findings = append(findings,
					s.vocabFinding("unrecognized action '%s'", *ev.Action, ev, id))
			}
		}
		if ev.Status != nil {
			te.status = s.vocab.NormalizeStatus(*ev.Status)
			if !s.vocab.KnownStatus(*ev.Status) {
				findings = append(findings,
					s.vocabFinding("unrecognized status '%s'", *ev.Status, ev, id))
			}
		}
		timeline = append(timeline, te)
	}

	first := timeline[0]
	if first.action != vocab.ActionCreate {
		findings = append(findings,
			core.Errorf("first event should be '%s', got '%s'",
				vocab.ActionCreate, core.StrValue(first.ev.Action)).ForRequest(id))
	}

	if core.StrValue(first.ev.RequestType) == core.RequestTypeErasure {
		confirmed := false
		for _, te := range timeline {
			if te.action == vocab.ActionConfirm {
				confirmed = true
				break
			}
		}
		if !confirmed {
			findings = append(findings,
				core.Errorf("erasure request missing '%s' action", vocab.ActionConfirm).ForRequest(id))
		}
	}

	findings = append(findings, checkProgression(id, timeline)...)
	return findings
}

// checkProgression walks the normalized status sequence and verifies every
// status change against the transition graph. Repeated identical statuses are
// not transitions; statuses outside the graph allow no outgoing edges.
func checkProgression(id string, timeline []timelineEvent) []core.Finding {
	var findings []core.Finding

	previous := ""
	for _, te := range timeline {
		if previous != "" && te.status != previous {
			if _, ok := transitions[previous][te.status]; !ok {
				findings = append(findings,
					core.Errorf("invalid status transition %s -> %s", previous, te.status).ForRequest(id))
			}
		}
		previous = te.status
	}
	return findings
}

func (s *Sequencer) vocabFinding(format, raw string, ev core.AuditEvent, id string) core.Finding {
	f := core.Warnf(format, raw)
	if s.strictVocab {
		f.Severity = core.SeverityError
	}
	return f.AtLine(ev.SourceLine).ForRequest(id)
}

// sortKey orders events by timestamp; events without a usable timestamp sort
// first (they already carry a schema error).
func sortKey(ev core.AuditEvent) int64 {
	if ev.Timestamp == nil {
		return 0
	}
	return *ev.Timestamp
}
