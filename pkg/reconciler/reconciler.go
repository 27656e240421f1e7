// Package reconciler merges the records of all sources into one
// model → classification map.
//
// Records are observed one at a time in canonical source order. A model
// seen for the first time is inserted; a repeat of the stored value is a
// no-op; a disagreement is always reported as a Mismatch and resolved by
// the Strategy (by default NoCoreTemperature is the weakest claim and is
// superseded, while the first real core index wins).
package reconciler

import (
	"context"
	"fmt"
	"time"

	"github.com/agentstation/utc"
	"github.com/rs/zerolog"

	"github.com/agentstation/coreoffset/pkg/coretemp"
	"github.com/agentstation/coreoffset/pkg/errors"
	"github.com/agentstation/coreoffset/pkg/logging"
	"github.com/agentstation/coreoffset/pkg/provenance"
	"github.com/agentstation/coreoffset/pkg/sources"
)

// Reconciler owns the result map. It is not safe for concurrent use; the
// merge is a single sequential pass.
type Reconciler struct {
	strategy   Strategy
	provenance provenance.Tracker
	logger     *zerolog.Logger

	values     Map
	mismatches []Mismatch
	stats      Statistics
	sources    []sources.ID
	started    utc.Time
	frozen     *Result
}

// New creates a new Reconciler with options.
func New(opts ...Option) (*Reconciler, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}

	logger := options.logger
	if logger == nil {
		logger = logging.Default()
	}

	return &Reconciler{
		strategy:   options.strategy,
		provenance: provenance.NewTracker(options.tracking),
		logger:     logger,
		values:     make(Map),
		stats:      newStatistics(),
		started:    utc.Now(),
	}, nil
}

// Observe applies one record to the map. It fails only once the
// reconciler has been frozen.
func (r *Reconciler) Observe(model string, c coretemp.Classification, source sources.ID) error {
	if r.frozen != nil {
		return fmt.Errorf("observe %s from %s: %w", model, source, errors.ErrReadOnly)
	}

	r.stats.RecordsBySource[source]++

	existing, ok := r.values[model]
	if !ok {
		r.values[model] = c
		r.provenance.Track(model, provenance.Provenance{
			Source: source,
			Value:  c,
			Action: provenance.ActionInserted,
		})
		return nil
	}

	if existing == c {
		r.provenance.Track(model, provenance.Provenance{
			Source: source,
			Value:  c,
			Action: provenance.ActionConfirmed,
		})
		return nil
	}

	winner, action := r.strategy.Resolve(existing, c)
	r.values[model] = winner

	m := Mismatch{
		Model:      model,
		Was:        existing,
		New:        c,
		Source:     source,
		Resolution: action,
	}
	r.mismatches = append(r.mismatches, m)
	switch action {
	case provenance.ActionSuperseded:
		r.stats.Superseded++
	case provenance.ActionSuppressed:
		r.stats.Suppressed++
	}

	r.provenance.Track(model, provenance.Provenance{
		Source:        source,
		Value:         c,
		PreviousValue: &existing,
		Action:        action,
		Reason:        r.strategy.Description(),
	})

	r.logger.Warn().
		Str("model", model).
		Stringer("was", existing).
		Stringer("new", c).
		Str("source", source.String()).
		Str("resolution", action.String()).
		Msg(m.String())

	return nil
}

// ObserveRecord is Observe for a sources.Record.
func (r *Reconciler) ObserveRecord(rec sources.Record) error {
	return r.Observe(rec.Model, rec.Classification, rec.Source)
}

// Sources drains every source in canonical order and freezes the result.
// Each source must already have been fetched.
func (r *Reconciler) Sources(ctx context.Context, srcs []sources.Source) (*Result, error) {
	for _, src := range sources.Sort(srcs) {
		logger := logging.FromContext(ctx).With().Str("source", src.ID().String()).Logger()
		before := r.stats.RecordsBySource[src.ID()]

		for rec := range src.Records() {
			if err := ctx.Err(); err != nil {
				return nil, errors.Join(errors.ErrCanceled, err)
			}
			if err := r.ObserveRecord(rec); err != nil {
				return nil, err
			}
		}

		r.sources = append(r.sources, src.ID())
		logger.Debug().
			Int("records", r.stats.RecordsBySource[src.ID()]-before).
			Msg("Source drained")
	}

	result := r.Freeze()
	logging.FromContext(ctx).Info().
		Int("models", result.Map.Len()).
		Int("mismatches", len(result.Mismatches)).
		Msg("Reconciliation complete")
	return result, nil
}

// Value returns the current classification of a model.
func (r *Reconciler) Value(model string) (coretemp.Classification, bool) {
	c, ok := r.values[model]
	return c, ok
}

// Mismatches returns the mismatches reported so far.
func (r *Reconciler) Mismatches() []Mismatch {
	return append([]Mismatch(nil), r.mismatches...)
}

// Frozen reports whether Freeze has been called.
func (r *Reconciler) Frozen() bool {
	return r.frozen != nil
}

// Freeze finalizes the map. Later Observe calls fail with ErrReadOnly;
// repeated Freeze calls return the same result.
func (r *Reconciler) Freeze() *Result {
	if r.frozen != nil {
		return r.frozen
	}

	ended := utc.Now()
	r.stats.Models = len(r.values)
	r.stats.Mismatches = len(r.mismatches)

	r.frozen = &Result{
		Map:        r.values.clone(),
		Mismatches: r.Mismatches(),
		Provenance: r.provenance.Map(),
		Metadata: Metadata{
			StartTime: r.started,
			EndTime:   ended,
			Duration:  ended.Sub(r.started).Round(time.Microsecond),
			Sources:   append([]sources.ID(nil), r.sources...),
			Strategy:  r.strategy.Type(),
			Stats:     r.stats.clone(),
		},
	}
	return r.frozen
}
