package reconciler

import (
	"github.com/agentstation/coreoffset/pkg/coretemp"
	"github.com/agentstation/coreoffset/pkg/provenance"
)

// StrategyType names a conflict resolution strategy.
type StrategyType string

// String returns the string representation of a strategy type.
func (s StrategyType) String() string {
	return string(s)
}

const (
	// StrategyTypeFirstConfident keeps the first real core index and lets
	// any later finding replace NoCoreTemperature.
	StrategyTypeFirstConfident StrategyType = "first-confident"
)

// Strategy decides which value survives when a source disagrees with the
// stored value. It is only consulted for differing values.
type Strategy interface {
	// Type returns the strategy type
	Type() StrategyType

	// Description returns a human-readable description
	Description() string

	// Resolve returns the value to keep and what happened to the incoming one
	Resolve(existing, incoming coretemp.Classification) (coretemp.Classification, provenance.Action)
}

// firstConfident is the default strategy.
type firstConfident struct{}

// NewFirstConfidentStrategy returns the default strategy: an existing
// NoCoreTemperature is superseded by whatever arrives next, and every
// other disagreement keeps the existing value.
func NewFirstConfidentStrategy() Strategy {
	return firstConfident{}
}

// Type returns the strategy type.
func (firstConfident) Type() StrategyType {
	return StrategyTypeFirstConfident
}

// Description returns a human-readable description.
func (firstConfident) Description() string {
	return "no core temperature is the weakest claim; first core index wins"
}

// Resolve implements Strategy.
func (firstConfident) Resolve(existing, incoming coretemp.Classification) (coretemp.Classification, provenance.Action) {
	if existing.IsNoCoreTemperature() {
		return incoming, provenance.ActionSuperseded
	}
	return existing, provenance.ActionSuppressed
}
