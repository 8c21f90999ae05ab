//go:build windows

// Package com attaches to a running CATIA session over COM and exposes it
// through the host boundary interfaces. All wrappers are thin IDispatch
// shims: property and method dispatch errors raise host.Fault, matching the
// boundary contract.
package com

import (
	"fmt"
	"sync"

	ole "github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"

	"cadagent/pkg/host"
)

const progID = "CATIA.Application"

var initOnce sync.Once

// Attach locates the single running host instance. It fails when the host is
// not running or exposes no active document, which is fatal for the session.
func Attach() (host.Application, error) {
	initOnce.Do(func() {
		// S_FALSE (already initialized) is fine; real failures surface on
		// GetActiveObject below.
		_ = ole.CoInitialize(0)
	})

	unknown, err := oleutil.GetActiveObject(progID)
	if err != nil {
		return nil, fmt.Errorf("attach %s (is CATIA running with an active part?): %w", progID, err)
	}
	disp, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		unknown.Release()
		return nil, fmt.Errorf("attach %s: %w", progID, err)
	}
	return application{obj{disp}}, nil
}

// dispatcher unwraps a boundary value back to its IDispatch for use as a COM
// call argument.
type dispatcher interface {
	dispatch() *ole.IDispatch
}

type obj struct {
	d *ole.IDispatch
}

func (o obj) dispatch() *ole.IDispatch { return o.d }

func (o obj) get(name string, args ...any) *ole.VARIANT {
	v, err := oleutil.GetProperty(o.d, name, args...)
	if err != nil {
		host.Fail("get "+name, err)
	}
	return v
}

func (o obj) put(name string, value any) {
	if _, err := oleutil.PutProperty(o.d, name, value); err != nil {
		host.Fail("put "+name, err)
	}
}

func (o obj) call(name string, args ...any) *ole.VARIANT {
	v, err := oleutil.CallMethod(o.d, name, args...)
	if err != nil {
		host.Fail("call "+name, err)
	}
	return v
}

func (o obj) getObj(name string, args ...any) obj {
	d := o.get(name, args...).ToIDispatch()
	if d == nil {
		host.Fail("get "+name, fmt.Errorf("nil dispatch"))
	}
	return obj{d}
}

func (o obj) callObj(name string, args ...any) obj {
	d := o.call(name, args...).ToIDispatch()
	if d == nil {
		host.Fail("call "+name, fmt.Errorf("nil dispatch"))
	}
	return obj{d}
}

func arg(v any) any {
	if d, ok := v.(dispatcher); ok {
		return d.dispatch()
	}
	return v
}

func (o obj) Name() string { return o.get("Name").ToString() }

// Parent is wrapped as a part: whether the object actually carries the part
// capability set is decided by host.AsPart's probe, exactly like every other
// object handed across this boundary.
func (o obj) Parent() host.Object { return part{o.getObj("Parent")} }

type application struct{ obj }

func (a application) ActiveEditor() host.Editor { return editor{a.getObj("ActiveEditor")} }

type editor struct{ obj }

func (e editor) ActiveObject() host.Object { return part{e.getObj("ActiveObject")} }
func (e editor) Selection() host.Selection { return selection{e.getObj("Selection")} }

type selection struct{ obj }

func (s selection) Clear()              { s.call("Clear") }
func (s selection) Add(o host.Object)   { s.call("Add", arg(o)) }
func (s selection) Search(query string) { s.call("Search", query) }
func (s selection) Count() int          { return int(s.get("Count").Val) }

func (s selection) Item(i int) host.Object {
	element := s.getObj("Item", i)
	return part{element.getObj("Value")}
}

type part struct{ obj }

func (p part) HybridShapeFactory() host.HybridShapeFactory {
	return hybridShapeFactory{p.getObj("HybridShapeFactory")}
}

func (p part) ShapeFactory() host.ShapeFactory { return shapeFactory{p.getObj("ShapeFactory")} }
func (p part) Bodies() host.Bodies             { return bodies{p.getObj("Bodies")} }
func (p part) HybridBodies() host.HybridBodies { return hybridBodies{p.getObj("HybridBodies")} }
func (p part) MainBody() host.Body             { return body{p.getObj("MainBody")} }
func (p part) OriginElements() host.OriginElements {
	return originElements{p.getObj("OriginElements")}
}

func (p part) SetInWorkObject(o host.Object) { p.put("InWorkObject", arg(o)) }
func (p part) Update()                       { p.call("Update") }

func (p part) CreateReferenceFromObject(o host.Object) host.Reference {
	return reference{p.callObj("CreateReferenceFromObject", arg(o))}
}

type reference struct{ obj }

type originElements struct{ obj }

func (o originElements) PlaneXY() host.Object { return part{o.getObj("PlaneXY")} }
func (o originElements) PlaneYZ() host.Object { return part{o.getObj("PlaneYZ")} }
func (o originElements) PlaneZX() host.Object { return part{o.getObj("PlaneZX")} }

type bodies struct{ obj }

func (b bodies) Item(name string) (bd host.Body, ok bool) {
	// The host raises on a missing name; a miss is a normal lookup result
	// at this boundary.
	defer func() {
		if recover() != nil {
			bd, ok = nil, false
		}
	}()
	return body{b.getObj("Item", name)}, true
}

func (b bodies) Add() host.Body { return body{b.callObj("Add")} }
func (b bodies) Count() int     { return int(b.get("Count").Val) }

type body struct{ obj }

func (b body) SetName(name string)     { b.put("Name", name) }
func (b body) Sketches() host.Sketches { return sketches{b.getObj("Sketches")} }

type hybridBodies struct{ obj }

func (h hybridBodies) Item(name string) (hb host.HybridBody, ok bool) {
	defer func() {
		if recover() != nil {
			hb, ok = nil, false
		}
	}()
	return hybridBody{h.getObj("Item", name)}, true
}

func (h hybridBodies) Add() host.HybridBody { return hybridBody{h.callObj("Add")} }
func (h hybridBodies) Count() int           { return int(h.get("Count").Val) }

type hybridBody struct{ obj }

func (h hybridBody) SetName(name string)             { h.put("Name", name) }
func (h hybridBody) AppendHybridShape(o host.Object) { h.call("AppendHybridShape", arg(o)) }

type sketches struct{ obj }

func (s sketches) Add(support host.Reference) host.Sketch {
	return sketch{s.callObj("Add", arg(support))}
}

type sketch struct{ obj }

func (s sketch) OpenEdition() host.Factory2D { return factory2D{s.callObj("OpenEdition")} }
func (s sketch) CloseEdition()               { s.call("CloseEdition") }

type factory2D struct{ obj }

func (f factory2D) CreatePoint(x, y float64) host.Object {
	return part{f.callObj("CreatePoint", x, y)}
}

func (f factory2D) CreateLine(x1, y1, x2, y2 float64) host.Object {
	return part{f.callObj("CreateLine", x1, y1, x2, y2)}
}

func (f factory2D) CreateClosedCircle(cx, cy, r float64) host.Object {
	return part{f.callObj("CreateClosedCircle", cx, cy, r)}
}

type hybridShapeFactory struct{ obj }

func (h hybridShapeFactory) AddNewPointCoord(x, y, z float64) host.Object {
	return part{h.callObj("AddNewPointCoord", x, y, z)}
}

type shapeFactory struct{ obj }

func (s shapeFactory) AddNewPad(sk host.Sketch, height float64) host.Pad {
	return pad{s.callObj("AddNewPad", arg(sk), height)}
}

func (s shapeFactory) AddNewPocket(sk host.Sketch, depth float64) host.Pad {
	return pad{s.callObj("AddNewPocket", arg(sk), depth)}
}

func (s shapeFactory) AddNewHoleFromPoint(x, y, z float64, support host.Reference, depth float64) host.Object {
	return part{s.callObj("AddNewHoleFromPoint", x, y, z, arg(support), depth)}
}

type pad struct{ obj }

func (p pad) SetDirectionOrientation(orientation int) { p.put("DirectionOrientation", orientation) }
