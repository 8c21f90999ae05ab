package binder_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cadagent/pkg/binder"
	"cadagent/pkg/host"
	"cadagent/pkg/host/hosttest"
)

func TestAttachWrapsFailure(t *testing.T) {
	cause := errors.New("no running instance")
	_, err := binder.Attach(func() (host.Application, error) { return nil, cause })
	require.Error(t, err)
	var ae *binder.AttachmentError
	require.ErrorAs(t, err, &ae)
	assert.ErrorIs(t, err, cause)
}

func TestAttachPassesThrough(t *testing.T) {
	app := hosttest.NewApp()
	got, err := binder.Attach(func() (host.Application, error) { return app, nil })
	require.NoError(t, err)
	assert.Equal(t, host.Application(app), got)
}

func TestResolveActivePart(t *testing.T) {
	app := hosttest.NewApp()
	h, err := binder.Resolve(app)
	require.NoError(t, err)

	assert.True(t, h.PartCapable)
	require.NotNil(t, h.Part)
	assert.Equal(t, "Part1", h.Part.Name())
	assert.NotNil(t, h.Editor)
	assert.NotNil(t, h.Selection)
	assert.NotNil(t, h.HSF)
	assert.NotNil(t, h.SF)
	assert.NotNil(t, h.Bodies)
}

func TestResolveFallsBackToSearch(t *testing.T) {
	app := hosttest.NewApp()
	app.ActivePart().NoFactories = true
	app.Searchable = []*hosttest.Part{hosttest.NewPart(app, "Part2")}

	h, err := binder.Resolve(app)
	require.NoError(t, err)
	assert.True(t, h.PartCapable)
	assert.Equal(t, "Part2", h.Part.Name())
	assert.NotNil(t, h.SF)
}

func TestResolveBestEffortWithoutPart(t *testing.T) {
	app := hosttest.NewApp()
	app.ActivePart().NoFactories = true

	h, err := binder.Resolve(app)
	require.NoError(t, err)
	assert.False(t, h.PartCapable)
	// The active object is kept as context; its factory handles stay unbound.
	assert.NotNil(t, h.Part)
	assert.Nil(t, h.HSF)
	assert.Nil(t, h.SF)
	assert.Nil(t, h.Bodies)
}

func TestResolvePlainActiveObject(t *testing.T) {
	app := hosttest.NewApp()
	app.SetActiveObject(hosttest.Plain("Drawing.1"))

	h, err := binder.Resolve(app)
	require.NoError(t, err)
	assert.False(t, h.PartCapable)
	assert.Nil(t, h.Part)
	assert.Equal(t, "Drawing.1", h.Active.Name())
}

func TestResolveEditorFault(t *testing.T) {
	app := hosttest.NewApp()
	app.FailOps["ActiveEditor"] = errors.New("no editor")

	h, err := binder.Resolve(app)
	require.Error(t, err)
	assert.Nil(t, h)
	assert.Contains(t, err.Error(), "resolving session context")
}
