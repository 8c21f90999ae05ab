// Package hosttest provides an in-memory, instrumented implementation of the
// host boundary. Every call is recorded on a shared Recorder so tests can
// assert exactly which host mutations a turn performed (including none).
package hosttest

import (
	"fmt"
	"sync"

	"cadagent/pkg/host"
)

// Recorder captures host calls in order.
type Recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *Recorder) record(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

// Calls returns a copy of all recorded calls.
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// Count returns how many recorded calls start with prefix.
func (r *Recorder) Count(prefix string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

type object struct {
	name   string
	parent host.Object
}

func (o *object) Name() string        { return o.name }
func (o *object) Parent() host.Object { return o.parent }

// Ref is a fake stable reference.
type Ref struct {
	object
	Target host.Object
}

// Plain returns an object with no part capability at all, for exercising the
// best-effort context fallback.
func Plain(name string) host.Object {
	return &object{name: name}
}

// App is the fake attached application.
type App struct {
	Rec    *Recorder
	editor *Editor

	// Searchable lists additional parts returned by the part search query.
	Searchable []*Part

	// FailOps maps an operation name (e.g. "Selection.Search") to an error;
	// a matching call panics with a host.Fault carrying that error.
	FailOps map[string]error
}

// NewApp builds an application whose active object is a fully capable part
// named "Part1".
func NewApp() *App {
	a := &App{Rec: &Recorder{}, FailOps: map[string]error{}}
	p := NewPart(a, "Part1")
	a.editor = &Editor{app: a, active: p}
	a.editor.sel = &Selection{app: a}
	return a
}

func (a *App) failIf(op string) {
	if err, ok := a.FailOps[op]; ok {
		host.Fail(op, err)
	}
}

func (a *App) ActiveEditor() host.Editor {
	a.failIf("ActiveEditor")
	return a.editor
}

// SetActiveObject replaces the editor's active object.
func (a *App) SetActiveObject(o host.Object) { a.editor.active = o }

// ActivePart returns the active object as a part, for test setup.
func (a *App) ActivePart() *Part { return a.editor.active.(*Part) }

// Editor is the fake active editor.
type Editor struct {
	app    *App
	active host.Object
	sel    *Selection
}

func (e *Editor) ActiveObject() host.Object {
	e.app.failIf("ActiveObject")
	return e.active
}

func (e *Editor) Selection() host.Selection { return e.sel }

// Selection implements the selection set and its search queries.
type Selection struct {
	app   *App
	items []host.Object
}

func (s *Selection) Clear() {
	s.app.failIf("Selection.Clear")
	s.items = nil
}

func (s *Selection) Add(o host.Object) {
	s.app.failIf("Selection.Add")
	s.items = append(s.items, o)
}

func (s *Selection) Search(query string) {
	s.app.failIf("Selection.Search")
	switch query {
	case host.PlanarFaceQuery:
		var faces []host.Object
		for _, it := range s.items {
			if pad, ok := it.(*Pad); ok {
				for _, f := range pad.Faces {
					if f.Planar {
						faces = append(faces, f)
					}
				}
			}
		}
		s.items = faces
	case host.PartSearchQuery:
		s.items = nil
		for _, p := range s.app.searchableParts() {
			s.items = append(s.items, p)
		}
	default:
		host.Fail("Selection.Search", fmt.Errorf("unknown query %q", query))
	}
}

func (s *Selection) Count() int { return len(s.items) }

func (s *Selection) Item(i int) host.Object {
	if i < 1 || i > len(s.items) {
		host.Fail("Selection.Item", fmt.Errorf("index %d out of range (count %d)", i, len(s.items)))
	}
	return s.items[i-1]
}

func (a *App) searchableParts() []*Part {
	var parts []*Part
	if p, ok := a.editor.active.(*Part); ok && !p.NoFactories {
		parts = append(parts, p)
	}
	return append(parts, a.Searchable...)
}

// Part is a fake part. With NoFactories set, factory accessors fault, so the
// part capability probe fails against it.
type Part struct {
	object
	app         *App
	NoFactories bool

	hsf    *HybridShapeFactory
	sf     *ShapeFactory
	bodies *Bodies
	hb     *HybridBodies
	origin *OriginElements
}

// NewPart builds a part with a MainBody ("PartBody") and empty collections.
func NewPart(a *App, name string) *Part {
	p := &Part{object: object{name: name}, app: a}
	p.hsf = &HybridShapeFactory{app: a, part: p}
	p.sf = &ShapeFactory{app: a, part: p}
	p.bodies = &Bodies{app: a, part: p}
	p.hb = &HybridBodies{app: a, part: p}
	p.origin = &OriginElements{part: p}
	main := &Body{object: object{name: "PartBody", parent: p}, app: a}
	p.bodies.items = append(p.bodies.items, main)
	return p
}

func (p *Part) failIf(op string) {
	if p.NoFactories {
		host.Fail(op, fmt.Errorf("object %q is not a part", p.name))
	}
	p.app.failIf(op)
}

func (p *Part) HybridShapeFactory() host.HybridShapeFactory {
	p.failIf("HybridShapeFactory")
	return p.hsf
}

func (p *Part) ShapeFactory() host.ShapeFactory {
	p.failIf("ShapeFactory")
	return p.sf
}

func (p *Part) Bodies() host.Bodies {
	p.failIf("Bodies")
	return p.bodies
}

func (p *Part) HybridBodies() host.HybridBodies {
	p.failIf("HybridBodies")
	return p.hb
}

func (p *Part) MainBody() host.Body {
	p.failIf("MainBody")
	return p.bodies.items[0]
}

func (p *Part) OriginElements() host.OriginElements { return p.origin }

func (p *Part) SetInWorkObject(o host.Object) {
	p.app.Rec.record("SetInWorkObject(%s)", o.Name())
}

func (p *Part) Update() {
	p.app.failIf("Update")
	p.app.Rec.record("Update()")
}

func (p *Part) CreateReferenceFromObject(o host.Object) host.Reference {
	p.app.failIf("CreateReferenceFromObject")
	p.app.Rec.record("CreateReferenceFromObject(%s)", o.Name())
	return &Ref{object: object{name: "Ref:" + o.Name(), parent: p}, Target: o}
}

// BodyCount reports how many solid bodies the part holds.
func (p *Part) BodyCount() int { return len(p.bodies.items) }

// GeosetCount reports how many geometrical sets the part holds.
func (p *Part) GeosetCount() int { return len(p.hb.items) }

// OriginElements exposes the default planes.
type OriginElements struct {
	part *Part
}

func (o *OriginElements) PlaneXY() host.Object {
	return &object{name: "PlaneXY", parent: o.part}
}

func (o *OriginElements) PlaneYZ() host.Object {
	return &object{name: "PlaneYZ", parent: o.part}
}

func (o *OriginElements) PlaneZX() host.Object {
	return &object{name: "PlaneZX", parent: o.part}
}

// Bodies is the solid body collection.
type Bodies struct {
	app   *App
	part  *Part
	items []*Body
}

func (b *Bodies) Item(name string) (host.Body, bool) {
	b.app.failIf("Bodies.Item")
	for _, it := range b.items {
		if it.name == name {
			return it, true
		}
	}
	return nil, false
}

func (b *Bodies) Add() host.Body {
	b.app.failIf("Bodies.Add")
	nb := &Body{object: object{name: fmt.Sprintf("Body.%d", len(b.items)+1), parent: b.part}, app: b.app}
	b.items = append(b.items, nb)
	b.app.Rec.record("Bodies.Add()")
	return nb
}

func (b *Bodies) Count() int { return len(b.items) }

// Body is a fake solid body.
type Body struct {
	object
	app      *App
	sketches []*Sketch
}

func (b *Body) SetName(name string) {
	b.app.Rec.record("Body.SetName(%s)", name)
	b.name = name
}

func (b *Body) Sketches() host.Sketches { return &Sketches{app: b.app, body: b} }

// HybridBodies is the geometrical set collection.
type HybridBodies struct {
	app   *App
	part  *Part
	items []*HybridBody
}

func (h *HybridBodies) Item(name string) (host.HybridBody, bool) {
	h.app.failIf("HybridBodies.Item")
	for _, it := range h.items {
		if it.name == name {
			return it, true
		}
	}
	return nil, false
}

func (h *HybridBodies) Add() host.HybridBody {
	h.app.failIf("HybridBodies.Add")
	nh := &HybridBody{object: object{name: fmt.Sprintf("Geoset.%d", len(h.items)+1), parent: h.part}, app: h.app}
	h.items = append(h.items, nh)
	h.app.Rec.record("HybridBodies.Add()")
	return nh
}

func (h *HybridBodies) Count() int { return len(h.items) }

// HybridBody is a fake geometrical set.
type HybridBody struct {
	object
	app    *App
	shapes []host.Object
}

func (h *HybridBody) SetName(name string) {
	h.app.Rec.record("HybridBody.SetName(%s)", name)
	h.name = name
}

func (h *HybridBody) AppendHybridShape(o host.Object) {
	h.app.Rec.record("AppendHybridShape(%s)", o.Name())
	h.shapes = append(h.shapes, o)
}

// Sketches is a body's sketch collection.
type Sketches struct {
	app  *App
	body *Body
}

func (s *Sketches) Add(support host.Reference) host.Sketch {
	s.app.failIf("Sketches.Add")
	sk := &Sketch{object: object{name: fmt.Sprintf("Sketch.%d", len(s.body.sketches)+1), parent: s.body}, app: s.app}
	s.body.sketches = append(s.body.sketches, sk)
	s.app.Rec.record("Sketches.Add(%s)", support.Name())
	return sk
}

// Sketch is a fake sketch.
type Sketch struct {
	object
	app  *App
	open bool
}

func (s *Sketch) OpenEdition() host.Factory2D {
	s.open = true
	s.app.Rec.record("OpenEdition(%s)", s.name)
	return &Factory2D{app: s.app, sketch: s}
}

func (s *Sketch) CloseEdition() {
	s.open = false
	s.app.Rec.record("CloseEdition(%s)", s.name)
}

// Factory2D records 2D geometry creation.
type Factory2D struct {
	app    *App
	sketch *Sketch
}

func (f *Factory2D) CreatePoint(x, y float64) host.Object {
	f.app.Rec.record("CreatePoint(%g,%g)", x, y)
	return &object{name: "Point2D", parent: f.sketch}
}

func (f *Factory2D) CreateLine(x1, y1, x2, y2 float64) host.Object {
	f.app.Rec.record("CreateLine(%g,%g,%g,%g)", x1, y1, x2, y2)
	return &object{name: "Line2D", parent: f.sketch}
}

func (f *Factory2D) CreateClosedCircle(cx, cy, r float64) host.Object {
	f.app.Rec.record("CreateClosedCircle(%g,%g,%g)", cx, cy, r)
	return &object{name: "Circle2D", parent: f.sketch}
}

// HybridShapeFactory records wireframe creation.
type HybridShapeFactory struct {
	app  *App
	part *Part
}

func (h *HybridShapeFactory) AddNewPointCoord(x, y, z float64) host.Object {
	h.app.failIf("AddNewPointCoord")
	h.app.Rec.record("AddNewPointCoord(%g,%g,%g)", x, y, z)
	return &object{name: "Point", parent: h.part}
}

// ShapeFactory records solid feature creation.
type ShapeFactory struct {
	app  *App
	part *Part
	pads int
}

// newPad builds a pad with the usual extrusion topology: bottom and top
// planar faces around a non-planar side, top last in search order.
func (s *ShapeFactory) newPad(kind string) *Pad {
	s.pads++
	pad := &Pad{object: object{name: fmt.Sprintf("%s.%d", kind, s.pads), parent: s.part}, app: s.app}
	pad.Faces = []*Face{
		{object: object{name: pad.name + "/bottom", parent: pad}, Planar: true},
		{object: object{name: pad.name + "/side", parent: pad}, Planar: false},
		{object: object{name: pad.name + "/top", parent: pad}, Planar: true},
	}
	return pad
}

func (s *ShapeFactory) AddNewPad(sk host.Sketch, height float64) host.Pad {
	s.app.failIf("AddNewPad")
	s.app.Rec.record("AddNewPad(%s,%g)", sk.Name(), height)
	return s.newPad("Pad")
}

func (s *ShapeFactory) AddNewPocket(sk host.Sketch, depth float64) host.Pad {
	s.app.failIf("AddNewPocket")
	s.app.Rec.record("AddNewPocket(%s,%g)", sk.Name(), depth)
	return s.newPad("Pocket")
}

func (s *ShapeFactory) AddNewHoleFromPoint(x, y, z float64, support host.Reference, depth float64) host.Object {
	s.app.failIf("AddNewHoleFromPoint")
	s.app.Rec.record("AddNewHoleFromPoint(%g,%g,%g,%s,%g)", x, y, z, support.Name(), depth)
	return &object{name: "Hole", parent: s.part}
}

// Pad is a fake solid feature carrying its topological faces.
type Pad struct {
	object
	app         *App
	Faces       []*Face
	Orientation int
}

func (p *Pad) SetDirectionOrientation(o int) {
	p.app.Rec.record("SetDirectionOrientation(%s,%d)", p.name, o)
	p.Orientation = o
}

// Face is a topological face of a feature.
type Face struct {
	object
	Planar bool
}
