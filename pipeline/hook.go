package pipeline

// HookPos names a point in the cycle at which hooks are invoked.
type HookPos struct {
	Name string
}

var (
	HOOK_FETCH     = &HookPos{Name: "fetch"}     // An instruction was fetched.
	HOOK_RETIRE    = &HookPos{Name: "retire"}    // An instruction left writeback.
	HOOK_FLUSH     = &HookPos{Name: "flush"}     // An instruction was discarded.
	HOOK_STALL     = &HookPos{Name: "stall"}     // A stage was held this cycle.
	HOOK_FAULT     = &HookPos{Name: "fault"}     // A non-fatal fault was raised.
	HOOK_CYCLE_END = &HookPos{Name: "cycle_end"} // The cycle completed.
)

// HookCtx describes the site a hook is invoked from.
type HookCtx struct {
	Engine *Engine
	Pos    *HookPos
	Cycle  uint64
	Stage  Stage
	Slot   *Slot // Subject instruction, if any. Hooks must not modify it.
	Err    error // Set for HOOK_FAULT.
}

// Hook is invoked by the engine at each HookPos.
type Hook interface {
	Func(ctx HookCtx)
}

// HookFunc adapts a function to the Hook interface.
type HookFunc func(ctx HookCtx)

func (hf HookFunc) Func(ctx HookCtx) {
	hf(ctx)
}

// hookable keeps the list of registered hooks.
type hookable struct {
	hookList []Hook
}

// NumHooks returns the number of hooks registered.
func (h *hookable) NumHooks() int {
	return len(h.hookList)
}

// AcceptHook registers a hook. Hooks are registered before the engine runs
// and are never removed.
func (h *hookable) AcceptHook(hook Hook) {
	h.hookList = append(h.hookList, hook)
}

func (h *hookable) invokeHook(ctx HookCtx) {
	for _, hook := range h.hookList {
		hook.Func(ctx)
	}
}
