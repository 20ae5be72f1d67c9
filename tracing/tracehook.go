package tracing

import (
	"github.com/ndnapps/ndnapps/sim"
)

// CollectTrace let the tracer to collect trace from a domain. The domain
// rejects a second hook for the same tracer.
func CollectTrace(domain NamedHookable, tracer Tracer) {
	domain.AcceptHook(traceHook{t: tracer})
}

// A traceHook is a hook that converts hook contexts into records. Hooks of the
// same tracer compare equal.
type traceHook struct {
	t Tracer
}

// Func calls the tracer when the hook is triggered at a packet position.
func (h traceHook) Func(ctx sim.HookCtx) {
	r, ok := RecordFromHookCtx(ctx)
	if !ok {
		return
	}

	h.t.Trace(r)
}
