// Package hooking provides the observation-hook infrastructure that lets
// external sinks (waveform writers, loggers) watch a simulation domain
// without participating in its logic.
package hooking

// HookPos names a location in a domain's lifecycle where hooks fire.
type HookPos struct {
	Name string
}

// HookCtx carries the information about the site that triggered a hook.
type HookCtx struct {
	// Domain is the hookable object raising the hook.
	Domain Hookable

	// Pos identifies where in the domain's lifecycle the hook fires.
	Pos *HookPos

	// Item is the primary subject of the hook. For edge hooks it is the
	// virtual edge count.
	Item any
}

// A Hook is a short piece of program invoked by a hookable domain.
type Hook interface {
	Func(ctx HookCtx)
}

// Hookable is an object that accepts hooks.
//
// Hooks must be attached during single-threaded setup, before the domain
// starts running, and stay attached for the lifetime of the domain.
type Hookable interface {
	AcceptHook(hook Hook)
	Hooks() []Hook
	InvokeHook(ctx HookCtx)
}

// HookableBase provides a default implementation of Hookable that other
// types can embed.
type HookableBase struct {
	hooks []Hook
}

// NewHookableBase creates a HookableBase with no hooks attached.
func NewHookableBase() *HookableBase {
	return &HookableBase{}
}

// AcceptHook attaches a hook. Attaching the same hook twice panics.
func (h *HookableBase) AcceptHook(hook Hook) {
	for _, existing := range h.hooks {
		if existing == hook {
			panic("hooking: hook attached twice")
		}
	}

	h.hooks = append(h.hooks, hook)
}

// Hooks returns the attached hooks.
func (h *HookableBase) Hooks() []Hook {
	return h.hooks
}

// InvokeHook triggers all attached hooks in attachment order.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hooks {
		hook.Func(ctx)
	}
}

var _ Hookable = (*HookableBase)(nil)
