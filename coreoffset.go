// Package coreoffset merges the core-temperature key indices reported by
// SMC dumps, the SMC firmware database and the iStat aggregator log into
// one per-model mapping, and renders it as a property list followed by the
// one-indexed model array.
package coreoffset

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/spf13/afero"

	"github.com/agentstation/coreoffset/pkg/emitter"
	"github.com/agentstation/coreoffset/pkg/pipeline"
	"github.com/agentstation/coreoffset/pkg/reconciler"
)

// CoreOffset reconciles a documentation tree and notifies registered hooks.
type CoreOffset interface {
	// Reconcile merges the sources under root into a frozen result
	Reconcile(ctx context.Context, root string) (*reconciler.Result, error)

	// ReconcileFS merges the sources found in fsys
	ReconcileFS(ctx context.Context, fsys afero.Fs) (*reconciler.Result, error)

	// Generate reconciles root and writes the rendered output to w.
	// Nothing is written when any step fails.
	Generate(ctx context.Context, root string, w io.Writer) (*reconciler.Result, error)

	// Last returns the most recent successful result, or nil
	Last() *reconciler.Result

	// OnMismatch registers a callback for every conflicting observation
	OnMismatch(MismatchHook)

	// OnModel registers a callback for every model in a finished result
	OnModel(ModelHook)
}

type coreOffset struct {
	mu       sync.RWMutex
	config   *config
	pipeline *pipeline.Pipeline
	emitter  *emitter.Emitter
	hooks    *hooks
	last     *reconciler.Result
}

// New creates a CoreOffset with the given options.
func New(opts ...Option) (CoreOffset, error) {
	c := &coreOffset{hooks: newHooks()}

	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("applying options: %w", err)
	}
	c.config = cfg

	c.pipeline = pipeline.New(cfg.pipelineOptions()...)
	c.emitter = emitter.New(cfg.emitterOptions()...)

	return c, nil
}

func (c *coreOffset) Reconcile(ctx context.Context, root string) (*reconciler.Result, error) {
	result, err := c.pipeline.RunDir(ctx, root)
	if err != nil {
		return nil, err
	}
	c.finish(result)
	return result, nil
}

func (c *coreOffset) ReconcileFS(ctx context.Context, fsys afero.Fs) (*reconciler.Result, error) {
	result, err := c.pipeline.Run(ctx, fsys)
	if err != nil {
		return nil, err
	}
	c.finish(result)
	return result, nil
}

func (c *coreOffset) Generate(ctx context.Context, root string, w io.Writer) (*reconciler.Result, error) {
	result, err := c.pipeline.RunDir(ctx, root)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := c.emitter.Render(&buf, result.Map); err != nil {
		return nil, err
	}
	if _, err := buf.WriteTo(w); err != nil {
		return nil, fmt.Errorf("writing output: %w", err)
	}

	c.finish(result)
	return result, nil
}

func (c *coreOffset) Last() *reconciler.Result {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last
}

func (c *coreOffset) finish(result *reconciler.Result) {
	c.mu.Lock()
	c.last = result
	c.mu.Unlock()

	c.hooks.trigger(result)
}
