package prompt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cadagent/pkg/prompt"
)

func TestCompileVerbatim(t *testing.T) {
	req := prompt.Compile("create a point at 10,20,30", 0.1)
	assert.Equal(t, "create a point at 10,20,30", req.Instruction)
	assert.Equal(t, prompt.System, req.System)
	assert.Equal(t, float32(0.1), req.Temperature)
}

func TestSystemNamesEveryAmbientName(t *testing.T) {
	// The contract the model writes against has to mention everything the
	// interpreter will pre-define.
	for _, name := range prompt.AmbientNames {
		assert.Contains(t, prompt.System, name)
	}
}

func TestSystemStatesTheStackingRules(t *testing.T) {
	assert.Contains(t, prompt.System, "SetDirectionOrientation(1)")
	assert.Contains(t, prompt.System, "CreateReferenceFromObject")
	assert.Contains(t, prompt.System, "nil")
}
