package sandbox_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cadagent/pkg/binder"
	"cadagent/pkg/heuristics"
	"cadagent/pkg/host"
	"cadagent/pkg/host/hosttest"
	"cadagent/pkg/sandbox"
)

func newRunner(app *hosttest.App) *sandbox.Runner {
	return sandbox.New(heuristics.New(func() (host.Application, error) { return app, nil }))
}

func resolve(t *testing.T, app *hosttest.App) *binder.Handles {
	t.Helper()
	h, err := binder.Resolve(app)
	require.NoError(t, err)
	return h
}

func TestRunPointScript(t *testing.T) {
	app := hosttest.NewApp()
	r := newRunner(app)

	script := `p := HSF.AddNewPointCoord(10.0, 20.0, 30.0)
Log("created %s", p.Name())
Part.Update()`

	res := r.Run(context.Background(), script, resolve(t, app))
	require.True(t, res.OK(), "failure: %v", res.Failure)
	assert.Contains(t, res.Output, "created Point")
	assert.Equal(t, 1, app.Rec.Count("AddNewPointCoord(10,20,30)"))
	assert.Equal(t, 1, app.Rec.Count("Update()"))
}

func TestRunFlangeScript(t *testing.T) {
	app := hosttest.NewApp()
	r := newRunner(app)

	script := `body := Part.MainBody()
Part.SetInWorkObject(body)

refXY := Part.CreateReferenceFromObject(Part.OriginElements().PlaneXY())
sk1 := body.Sketches().Add(refXY)
f2d := sk1.OpenEdition()
f2d.CreateClosedCircle(0.0, 0.0, 50.0)
sk1.CloseEdition()
Part.Update()

pad1 := SF.AddNewPad(sk1, 20.0)
Part.Update()

refTop := TopFace(pad1)
if refTop == nil {
	Log("no stacking surface on pad1")
	return
}
sk2 := body.Sketches().Add(refTop)
f2d2 := sk2.OpenEdition()
f2d2.CreateClosedCircle(0.0, 0.0, 30.0)
sk2.CloseEdition()
Part.Update()

pad2 := SF.AddNewPad(sk2, 10.0)
pad2.SetDirectionOrientation(1)
Part.Update()`

	res := r.Run(context.Background(), script, resolve(t, app))
	require.True(t, res.OK(), "failure: %v", res.Failure)
	assert.NotContains(t, res.Output, "no stacking surface")

	assert.Equal(t, 2, app.Rec.Count("AddNewPad"))
	assert.Equal(t, 1, app.Rec.Count("CreateReferenceFromObject(Pad.1/top)"))
	assert.Equal(t, 1, app.Rec.Count("Sketches.Add(Ref:Pad.1/top)"))
	assert.Equal(t, 1, app.Rec.Count("SetDirectionOrientation(Pad.2,1)"))
}

func TestRunRequireHelpers(t *testing.T) {
	app := hosttest.NewApp()
	r := newRunner(app)

	script := `geoset := RequireGeoset(Part, "AI_Generated")
p := HSF.AddNewPointCoord(0.0, 0.0, 5.0)
geoset.AppendHybridShape(p)
Part.Update()`

	res := r.Run(context.Background(), script, resolve(t, app))
	require.True(t, res.OK(), "failure: %v", res.Failure)
	assert.Equal(t, 1, app.Rec.Count("HybridBodies.Add()"))
	assert.Equal(t, 1, app.Rec.Count("AppendHybridShape(Point)"))
	assert.Equal(t, 1, app.ActivePart().GeosetCount())
}

func TestRunHostFaultBecomesFailure(t *testing.T) {
	app := hosttest.NewApp()
	app.FailOps["Update"] = errors.New("update rejected by host")
	r := newRunner(app)

	script := `Log("about to update")
Part.Update()`

	res := r.Run(context.Background(), script, resolve(t, app))
	require.False(t, res.OK())
	assert.Contains(t, res.Failure.Message, "Update")
	assert.Contains(t, res.Failure.Message, "update rejected by host")
	assert.NotEmpty(t, res.Failure.Trace)
	// Output emitted before the fault is preserved for the report.
	assert.Contains(t, res.Output, "about to update")
}

func TestRunRejectsInvalidScript(t *testing.T) {
	app := hosttest.NewApp()
	r := newRunner(app)

	res := r.Run(context.Background(), "this is prose, not a script", resolve(t, app))
	require.False(t, res.OK())
	assert.Contains(t, res.Failure.Message, "script rejected")
	assert.Empty(t, app.Rec.Calls())
}

func TestRunUnboundFactoryName(t *testing.T) {
	// With no part-capable object the factory names stay unbound, so a script
	// using them fails at evaluation instead of panicking mid-mutation.
	app := hosttest.NewApp()
	app.ActivePart().NoFactories = true
	r := newRunner(app)

	res := r.Run(context.Background(), `HSF.AddNewPointCoord(1.0, 2.0, 3.0)`, resolve(t, app))
	require.False(t, res.OK())
	assert.Contains(t, res.Failure.Message, "script rejected")
	assert.Zero(t, app.Rec.Count("AddNewPointCoord"))
}

func TestRunNoAmbientReference(t *testing.T) {
	app := hosttest.NewApp()
	r := newRunner(app)

	res := r.Run(context.Background(), `x := 1 + 1
_ = x`, resolve(t, app))
	assert.True(t, res.OK(), "failure: %v", res.Failure)
	assert.Empty(t, app.Rec.Calls())
}
