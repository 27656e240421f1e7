package coreoffset

import (
	"sync"

	"github.com/agentstation/coreoffset/pkg/coretemp"
	"github.com/agentstation/coreoffset/pkg/reconciler"
)

// MismatchHook is called for each conflicting observation in a result.
type MismatchHook func(m reconciler.Mismatch)

// ModelHook is called for each model of a finished result, in sorted order.
type ModelHook func(model string, c coretemp.Classification)

type hooks struct {
	mu         sync.RWMutex
	onMismatch []MismatchHook
	onModel    []ModelHook
}

func newHooks() *hooks {
	return &hooks{}
}

func (c *coreOffset) OnMismatch(fn MismatchHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onMismatch = append(c.hooks.onMismatch, fn)
}

func (c *coreOffset) OnModel(fn ModelHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onModel = append(c.hooks.onModel, fn)
}

func (h *hooks) trigger(result *reconciler.Result) {
	h.mu.RLock()
	onMismatch := append([]MismatchHook(nil), h.onMismatch...)
	onModel := append([]ModelHook(nil), h.onModel...)
	h.mu.RUnlock()

	for _, m := range result.Mismatches {
		for _, hook := range onMismatch {
			hook(m)
		}
	}

	if len(onModel) == 0 {
		return
	}
	for _, model := range result.Map.Models() {
		c := result.Map[model]
		for _, hook := range onModel {
			hook(model, c)
		}
	}
}
