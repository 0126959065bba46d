// Package vocab maps the heterogeneous external action/status vocabulary onto
// the small canonical set the state machine understands. Unknown values pass
// through unchanged, so new upstream vocabulary never breaks decoding; the
// sequencer surfaces such values as diagnostics instead.
package vocab

// Canonical actions.
const (
	ActionCreate     = "create"
	ActionConfirm    = "confirm"
	ActionQueued     = "queued"
	ActionProcessing = "processing"
	ActionReady      = "ready"
	ActionFailed     = "failed"
)

// Canonical statuses.
const (
	StatusPending    = "pending"
	StatusInProgress = "inProgress"
	StatusReady      = "ready"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
	StatusCanceled   = "canceled"
)

// Normalizer holds the external-to-canonical mapping tables. The zero value is
// not usable; construct with New.
type Normalizer struct {
	actions  map[string]string
	statuses map[string]string
}

// New returns a Normalizer with the built-in vocabulary.
func New() *Normalizer {
	return &Normalizer{
		actions: map[string]string{
			"submitted": ActionCreate,
			"confirmed": ActionConfirm,
			// passthroughs
			ActionCreate:     ActionCreate,
			ActionQueued:     ActionQueued,
			ActionProcessing: ActionProcessing,
			ActionReady:      ActionReady,
			ActionFailed:     ActionFailed,
			ActionConfirm:    ActionConfirm,
		},
		statuses: map[string]string{
			"started":    StatusPending,
			"processing": StatusInProgress,
			// passthroughs
			StatusPending:    StatusPending,
			StatusInProgress: StatusInProgress,
			StatusReady:      StatusReady,
			StatusCompleted:  StatusCompleted,
			StatusFailed:     StatusFailed,
			StatusCanceled:   StatusCanceled,
		},
	}
}

// NormalizeAction maps a raw action to its canonical form. Unknown values are
// returned unchanged.
func (n *Normalizer) NormalizeAction(raw string) string {
	if canonical, ok := n.actions[raw]; ok {
		return canonical
	}
	return raw
}

// NormalizeStatus maps a raw status to its canonical form. Unknown values are
// returned unchanged.
func (n *Normalizer) NormalizeStatus(raw string) string {
	if canonical, ok := n.statuses[raw]; ok {
		return canonical
	}
	return raw
}

// KnownAction reports whether the raw value maps to canonical vocabulary.
func (n *Normalizer) KnownAction(raw string) bool {
	_, ok := n.actions[raw]
	return ok
}

// KnownStatus reports whether the raw value maps to canonical vocabulary.
func (n *Normalizer) KnownStatus(raw string) bool {
	_, ok := n.statuses[raw]
	return ok
}

// Actions returns a copy of the action mapping table, for display.
func (n *Normalizer) Actions() map[string]string {
	return copyTable(n.actions)
}

// Statuses returns a copy of the status mapping table, for display.
func (n *Normalizer) Statuses() map[string]string {
	return copyTable(n.statuses)
}

func copyTable(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
