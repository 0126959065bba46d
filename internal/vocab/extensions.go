package vocab

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Extensions is a deployment-specific vocabulary file. It may add new external
// terms, but never redefine the built-in ones: the canonical set is part of the
// certification contract.
//
//	actions:
//	  requested: create
//	statuses:
//	  enqueued: pending
type Extensions struct {
	Actions  map[string]string `yaml:"actions"`
	Statuses map[string]string `yaml:"statuses"`
}

func (e *Extensions) validate(base *Normalizer) error {
	canonicalActions := map[string]struct{}{
		ActionCreate: {}, ActionConfirm: {}, ActionQueued: {},
		ActionProcessing: {}, ActionReady: {}, ActionFailed: {},
	}
	canonicalStatuses := map[string]struct{}{
		StatusPending: {}, StatusInProgress: {}, StatusReady: {},
		StatusCompleted: {}, StatusFailed: {}, StatusCanceled: {},
	}

	for external, canonical := range e.Actions {
		if base.KnownAction(external) {
			return fmt.Errorf("action '%s' redefines built-in vocabulary", external)
		}
		if _, ok := canonicalActions[canonical]; !ok {
			return fmt.Errorf("action '%s' maps to unknown canonical value '%s'", external, canonical)
		}
	}
	for external, canonical := range e.Statuses {
		if base.KnownStatus(external) {
			return fmt.Errorf("status '%s' redefines built-in vocabulary", external)
		}
		if _, ok := canonicalStatuses[canonical]; !ok {
			return fmt.Errorf("status '%s' maps to unknown canonical value '%s'", external, canonical)
		}
	}
	return nil
}

// LoadExtensions reads a vocabulary extension file and merges it into the
// normalizer's tables.
func (n *Normalizer) LoadExtensions(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading vocab file: %w", err)
	}

	var ext Extensions
	if err := yaml.Unmarshal(data, &ext); err != nil {
		return fmt.Errorf("parsing vocab file: %w", err)
	}
	if err := ext.validate(n); err != nil {
		return fmt.Errorf("validating vocab file: %w", err)
	}

	for external, canonical := range ext.Actions {
		n.actions[external] = canonical
	}
	for external, canonical := range ext.Statuses {
		n.statuses[external] = canonical
	}
	return nil
}
