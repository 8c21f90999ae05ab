package host_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cadagent/pkg/host"
	"cadagent/pkg/host/hosttest"
)

func TestAsPartCapable(t *testing.T) {
	app := hosttest.NewApp()
	p, ok := host.AsPart(app.ActivePart())
	require.True(t, ok)
	assert.Equal(t, "Part1", p.Name())
}

func TestAsPartProbeFailure(t *testing.T) {
	// The static type says part, but the factory probe faults, so the object
	// does not count as part-capable.
	app := hosttest.NewApp()
	app.ActivePart().NoFactories = true
	_, ok := host.AsPart(app.ActivePart())
	assert.False(t, ok)
}

func TestAsPartPlainObject(t *testing.T) {
	_, ok := host.AsPart(hosttest.Plain("Drawing.1"))
	assert.False(t, ok)
}

func TestFaultMessage(t *testing.T) {
	cause := errors.New("RPC server unavailable")
	f := func() {
		defer func() {
			r := recover()
			require.NotNil(t, r)
			fault, ok := r.(*host.Fault)
			require.True(t, ok)
			assert.Equal(t, "host: Update: RPC server unavailable", fault.Error())
			assert.ErrorIs(t, fault, cause)
		}()
		host.Fail("Update", cause)
	}
	f()
}
