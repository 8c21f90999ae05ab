// Package heuristics holds the deterministic resolution helpers injected
// into every generated script: get-or-create named body/geoset and the
// top-face heuristic for stacking solids.
package heuristics

import (
	"fmt"
	"log/slog"

	"cadagent/pkg/binder"
	"cadagent/pkg/host"
)

// FacePicker selects one planar face from n search matches (1-indexed).
// The host API has no "face produced by feature X, oriented up" query, so the
// choice is a policy, not a guarantee.
type FacePicker func(n int) int

// LastFound is the default policy: the last match in search order is
// empirically the top face of an extrusion.
func LastFound(n int) int { return n }

// Heuristics binds the helper set. TopFace re-attaches through Attach rather
// than using any caller-supplied handle, so the helper works even when
// invoked from a script context that never received the outer session.
type Heuristics struct {
	Attach binder.AttachFunc
	Pick   FacePicker
}

// New builds a helper set with the LastFound policy.
func New(attach binder.AttachFunc) *Heuristics {
	return &Heuristics{Attach: attach, Pick: LastFound}
}

// RequireBody returns the body with the given name, creating and naming one
// if no such body exists. Calling it twice with the same name yields the same
// body; it never fails for "not found". Host-level faults propagate as
// execution errors.
func (h *Heuristics) RequireBody(part host.Part, name string) host.Body {
	coll := part.Bodies()
	if b, ok := coll.Item(name); ok {
		return b
	}
	b := coll.Add()
	b.SetName(name)
	return b
}

// RequireGeoset is RequireBody scoped to the part's geometrical sets.
func (h *Heuristics) RequireGeoset(part host.Part, name string) host.HybridBody {
	coll := part.HybridBodies()
	if g, ok := coll.Item(name); ok {
		return g
	}
	g := coll.Add()
	g.SetName(name)
	return g
}

// TopFace returns a stable reference to the heuristic "top" planar face of a
// just-created solid feature, or nil when no planar face is found or any host
// call fails. Callers must treat nil as "stacking surface unavailable". The
// result is computed fresh on every call; the underlying topology changes
// with the next modification.
func (h *Heuristics) TopFace(feature host.Object) (ref host.Reference) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("TopFace failed", "cause", fmt.Sprint(r))
			ref = nil
		}
	}()

	app, err := h.Attach()
	if err != nil {
		slog.Warn("TopFace could not re-attach to host", "error", err)
		return nil
	}

	sel := app.ActiveEditor().Selection()
	sel.Clear()
	sel.Add(feature)
	sel.Search(host.PlanarFaceQuery)

	n := sel.Count()
	slog.Debug("TopFace planar search", "feature", feature.Name(), "matches", n)
	if n == 0 {
		slog.Warn("TopFace found no planar faces", "feature", feature.Name())
		return nil
	}

	pick := h.Pick
	if pick == nil {
		pick = LastFound
	}
	face := sel.Item(pick(n))

	part, ok := owningPart(feature)
	if !ok {
		slog.Warn("TopFace could not locate the feature's part", "feature", feature.Name())
		return nil
	}
	return part.CreateReferenceFromObject(face)
}

// owningPart walks the parent chain until an object with the part capability
// set turns up. Features sit two levels below their part (body, then part),
// but the depth is host-defined, so walk rather than count.
func owningPart(o host.Object) (host.Part, bool) {
	cur := o
	for i := 0; i < 8 && cur != nil; i++ {
		if p, ok := host.AsPart(cur); ok {
			return p, true
		}
		cur = cur.Parent()
	}
	return nil, false
}
