package observe

import (
	"context"

	"github.com/zoobzio/hookz"
)

// Hook event keys, one per event name.
const (
	HookRuleEvaluated   = hookz.Key(RuleEvaluated)
	HookRecordValidated = hookz.Key(RecordValidated)
	HookExportCompleted = hookz.Key(ExportCompleted)
	HookExportFailed    = hookz.Key(ExportFailed)
	HookBatchCompleted  = hookz.Key(BatchCompleted)
)

// Hooks publishes events to asynchronous hookz subscribers. Handlers run
// after Observe returns and their errors are dropped.
type Hooks struct {
	hooks *hookz.Hooks[Event]
}

// NewHooks returns an observer with no subscribers.
func NewHooks() *Hooks {
	return &Hooks{hooks: hookz.New[Event]()}
}

// Observe implements Observer.
func (h *Hooks) Observe(ctx context.Context, e Event) {
	_ = h.hooks.Emit(ctx, hookz.Key(e.Name), e) //nolint:errcheck
}

// OnRuleEvaluated registers a handler called after every rule evaluation.
func (h *Hooks) OnRuleEvaluated(handler func(context.Context, Event) error) error {
	_, err := h.hooks.Hook(HookRuleEvaluated, handler)
	return err
}

// OnRecordValidated registers a handler called after every record.
func (h *Hooks) OnRecordValidated(handler func(context.Context, Event) error) error {
	_, err := h.hooks.Hook(HookRecordValidated, handler)
	return err
}

// OnExport registers a handler called after the export step, whether it
// succeeded or failed.
func (h *Hooks) OnExport(handler func(context.Context, Event) error) error {
	if _, err := h.hooks.Hook(HookExportCompleted, handler); err != nil {
		return err
	}

	_, err := h.hooks.Hook(HookExportFailed, handler)
	return err
}

// OnBatchCompleted registers a handler called once per processed batch.
func (h *Hooks) OnBatchCompleted(handler func(context.Context, Event) error) error {
	_, err := h.hooks.Hook(HookBatchCompleted, handler)
	return err
}

// Close releases the hook registry. Observe must not be called afterwards.
func (h *Hooks) Close() {
	h.hooks.Close()
}
