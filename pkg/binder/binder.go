// Package binder resolves the per-run session handle set against the
// attached host. Handles are rebuilt fresh before every execution and never
// cached across turns: the active part and edition context may change between
// operator instructions.
package binder

import (
	"fmt"
	"log/slog"

	"cadagent/pkg/host"
)

// AttachmentError reports a failure to attach to the running host. It is
// fatal for the whole session; no turn can proceed without an attached host.
type AttachmentError struct {
	Err error
}

func (e *AttachmentError) Error() string {
	return fmt.Sprintf("host attachment failed: %v", e.Err)
}

func (e *AttachmentError) Unwrap() error { return e.Err }

// AttachFunc locates a running host instance. Implementations: com.Attach,
// hosttest fakes.
type AttachFunc func() (host.Application, error)

// Attach wraps an implementation's attachment failure as an AttachmentError.
func Attach(attach AttachFunc) (host.Application, error) {
	app, err := attach()
	if err != nil {
		return nil, &AttachmentError{Err: err}
	}
	return app, nil
}

// Handles is the immutable-per-run session handle set. Part may be non-nil
// with PartCapable false: the originally active object is kept as a
// best-effort context, and part-only operations in a script then fail loudly
// during execution.
type Handles struct {
	App       host.Application
	Editor    host.Editor
	Selection host.Selection
	Active    host.Object

	Part        host.Part
	PartCapable bool

	// Optional factory handles, each resolved independently. A nil entry
	// simply leaves that name unbound for the script.
	HSF    host.HybridShapeFactory
	SF     host.ShapeFactory
	Bodies host.Bodies
}

// Resolve builds the handle set for one execution. An error here means the
// editor-level handles themselves could not be read; part detection never
// fails the resolution.
func Resolve(app host.Application) (h *Handles, err error) {
	defer func() {
		if r := recover(); r != nil {
			h, err = nil, fmt.Errorf("resolving session context: %v", r)
		}
	}()

	h = &Handles{App: app}
	h.Editor = app.ActiveEditor()
	h.Active = h.Editor.ActiveObject()
	h.Selection = h.Editor.Selection()

	resolvePart(h)
	resolveFactories(h)
	return h, nil
}

func resolvePart(h *Handles) {
	if p, ok := host.AsPart(h.Active); ok {
		h.Part, h.PartCapable = p, true
		return
	}

	slog.Debug("Active object is not a part, searching for 3D part context",
		"active", safeName(h.Active))

	func() {
		defer func() {
			if r := recover(); r != nil {
				slog.Debug("Part search failed", "cause", fmt.Sprint(r))
			}
		}()
		h.Selection.Clear()
		h.Selection.Search(host.PartSearchQuery)
		if h.Selection.Count() > 0 {
			if p, ok := host.AsPart(h.Selection.Item(1)); ok {
				h.Part, h.PartCapable = p, true
				slog.Info("Found part via search", "part", p.Name())
			}
		}
	}()

	if !h.PartCapable {
		// Best-effort: keep the active object so scripts that only need
		// object-level operations still run.
		if p, ok := h.Active.(host.Part); ok {
			h.Part = p
		}
		slog.Warn("No part-capable object found, proceeding with best-effort context")
	}
}

// resolveFactories binds each optional factory handle on its own; a failure
// for one never blocks the others.
func resolveFactories(h *Handles) {
	if h.Part == nil {
		return
	}
	safe := func(bind func()) {
		defer func() {
			if r := recover(); r != nil {
				slog.Debug("Optional factory unavailable", "cause", fmt.Sprint(r))
			}
		}()
		bind()
	}
	safe(func() { h.HSF = h.Part.HybridShapeFactory() })
	safe(func() { h.SF = h.Part.ShapeFactory() })
	safe(func() { h.Bodies = h.Part.Bodies() })
}

func safeName(o host.Object) (name string) {
	defer func() {
		if recover() != nil {
			name = "<unnamed>"
		}
	}()
	if o == nil {
		return "<none>"
	}
	return o.Name()
}
