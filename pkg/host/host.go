// Package host defines the boundary to the CAD application's automation
// object model (documents, parts, bodies, sketches, features, selection).
//
// The boundary is consumed, not specified: implementations wrap whatever the
// running host exposes. Two contracts apply everywhere:
//
//   - Collection lookups return (value, ok). A miss is a normal result, not a
//     fault.
//   - Every other call panics with *Fault on a host-level failure. The
//     boundary is a dynamic scripting surface; agent code recovers at
//     documented points (the execution sandbox, the binder, TopFace) and
//     converts the fault into a structured outcome.
//
// Collections are 1-indexed, following the host's COM convention.
package host

import "fmt"

// Search query constants understood by Selection.Search.
const (
	// PlanarFaceQuery selects the planar faces of the current selection.
	PlanarFaceQuery = "Topology.Face.Planar,sel"
	// PartSearchQuery finds 3D parts anywhere in the current edition context.
	PartSearchQuery = "CATGmoSearch.Part,all"
)

// Fault is a host-level failure raised (via panic) by any boundary call.
type Fault struct {
	Op  string
	Err error
}

func (f *Fault) Error() string {
	if f.Err == nil {
		return fmt.Sprintf("host: %s failed", f.Op)
	}
	return fmt.Sprintf("host: %s: %v", f.Op, f.Err)
}

func (f *Fault) Unwrap() error { return f.Err }

// Fail raises a Fault. Implementations call it on any host error.
func Fail(op string, err error) {
	panic(&Fault{Op: op, Err: err})
}

// Object is any entity of the host object model.
type Object interface {
	Name() string
	Parent() Object
}

// Reference is a stable handle to geometry, usable as a feature input
// (e.g. a sketch support).
type Reference interface {
	Object
}

// Application is the attached host application instance.
type Application interface {
	ActiveEditor() Editor
}

// Editor is the host's active document editor.
type Editor interface {
	ActiveObject() Object
	Selection() Selection
}

// Selection is the editor's selection set, which doubles as the host's
// topological search mechanism.
type Selection interface {
	Clear()
	Add(Object)
	// Search runs a host query (see the query constants) and replaces the
	// selection with the result.
	Search(query string)
	Count() int
	// Item returns the value of the i-th selected element, 1-indexed.
	Item(i int) Object
}

// Part is an object exposing the part-level capability set required for
// geometry creation.
type Part interface {
	Object
	HybridShapeFactory() HybridShapeFactory
	ShapeFactory() ShapeFactory
	Bodies() Bodies
	HybridBodies() HybridBodies
	MainBody() Body
	OriginElements() OriginElements
	SetInWorkObject(Object)
	Update()
	CreateReferenceFromObject(Object) Reference
}

// OriginElements exposes the part's default planes.
type OriginElements interface {
	PlaneXY() Object
	PlaneYZ() Object
	PlaneZX() Object
}

// Bodies is the part's solid body collection.
type Bodies interface {
	Item(name string) (Body, bool)
	Add() Body
	Count() int
}

// Body is a solid body holding sketches and solid features.
type Body interface {
	Object
	SetName(string)
	Sketches() Sketches
}

// HybridBodies is the part's geometrical-set collection.
type HybridBodies interface {
	Item(name string) (HybridBody, bool)
	Add() HybridBody
	Count() int
}

// HybridBody is a geometrical set (wireframe/surface container).
type HybridBody interface {
	Object
	SetName(string)
	AppendHybridShape(Object)
}

// Sketches is a body's sketch collection.
type Sketches interface {
	Add(support Reference) Sketch
}

// Sketch is a 2D sketch on a planar support.
type Sketch interface {
	Object
	OpenEdition() Factory2D
	CloseEdition()
}

// Factory2D creates 2D geometry inside an open sketch edition.
type Factory2D interface {
	CreatePoint(x, y float64) Object
	CreateLine(x1, y1, x2, y2 float64) Object
	CreateClosedCircle(cx, cy, r float64) Object
}

// HybridShapeFactory creates wireframe geometry.
type HybridShapeFactory interface {
	AddNewPointCoord(x, y, z float64) Object
}

// ShapeFactory creates solid features.
type ShapeFactory interface {
	AddNewPad(sk Sketch, height float64) Pad
	AddNewPocket(sk Sketch, depth float64) Pad
	AddNewHoleFromPoint(x, y, z float64, support Reference, depth float64) Object
}

// Pad is a solid feature. Orientation: 0 drives the feature into the base
// solid, 1 drives it outward.
type Pad interface {
	Object
	SetDirectionOrientation(int)
}

// AsPart reports whether o exposes the part capability set, probing the
// factory accessor under recover. Hosts hand out editor-active objects that
// satisfy the Part interface statically but fault on part-only calls, so a
// type assertion alone is not enough.
func AsPart(o Object) (p Part, ok bool) {
	p, ok = o.(Part)
	if !ok {
		return nil, false
	}
	defer func() {
		if recover() != nil {
			p, ok = nil, false
		}
	}()
	p.HybridShapeFactory()
	return p, true
}
