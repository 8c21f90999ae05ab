package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cadagent/pkg/extract"
)

func TestScriptGoFence(t *testing.T) {
	raw := "Here is the script:\n```go\np := HSF.AddNewPointCoord(10.0, 20.0, 30.0)\nLog(\"done %s\", p.Name())\n```\nLet me know if you need more."
	script, ok := extract.Script(raw)
	require.True(t, ok)
	assert.Equal(t, "p := HSF.AddNewPointCoord(10.0, 20.0, 30.0)\nLog(\"done %s\", p.Name())", script)
}

func TestScriptGolangTag(t *testing.T) {
	script, ok := extract.Script("```golang\nPart.Update()\n```")
	require.True(t, ok)
	assert.Equal(t, "Part.Update()", script)
}

func TestScriptUntaggedFenceWithAmbientName(t *testing.T) {
	script, ok := extract.Script("```\nbody := Part.MainBody()\n```")
	require.True(t, ok)
	assert.Equal(t, "body := Part.MainBody()", script)
}

func TestScriptUntaggedFenceWithoutAmbientName(t *testing.T) {
	_, ok := extract.Script("```\njust some text\n```")
	assert.False(t, ok)
}

func TestScriptForeignFenceFallsBackToRawText(t *testing.T) {
	// A fence in another language is not a candidate block, but the lenient
	// fallback still applies to the text as a whole when it carries session
	// names. The confirm gate and the interpreter screen out what is not Go.
	raw := "Try this:\n```python\nHSF.AddNewPointCoord(1.0, 2.0, 3.0)\nPart.Update()\n```"
	script, ok := extract.Script(raw)
	require.True(t, ok)
	assert.Equal(t, raw, script)
}

func TestScriptForeignFenceWithoutAmbientNames(t *testing.T) {
	_, ok := extract.Script("```python\nprint('hello')\n```")
	assert.False(t, ok)
}

func TestScriptBareCode(t *testing.T) {
	raw := "p := HSF.AddNewPointCoord(0.0, 0.0, 5.0)\nPart.Update()\n"
	script, ok := extract.Script(raw)
	require.True(t, ok)
	assert.Equal(t, "p := HSF.AddNewPointCoord(0.0, 0.0, 5.0)\nPart.Update()", script)
}

func TestScriptProseOnly(t *testing.T) {
	_, ok := extract.Script("I cannot create geometry without more detail. What radius do you want?")
	assert.False(t, ok)
}

func TestScriptEmpty(t *testing.T) {
	_, ok := extract.Script("")
	assert.False(t, ok)
}

func TestScriptFirstFenceWins(t *testing.T) {
	raw := "```go\nPart.Update()\n```\nAnd a second option:\n```go\nHSF.AddNewPointCoord(1.0, 2.0, 3.0)\n```"
	script, ok := extract.Script(raw)
	require.True(t, ok)
	assert.Equal(t, "Part.Update()", script)
	assert.NotContains(t, script, "AddNewPointCoord")
}

func TestScriptEmptyFence(t *testing.T) {
	_, ok := extract.Script("```go\n```")
	assert.False(t, ok)
}

func TestScriptEmptyFenceIsTerminal(t *testing.T) {
	// An empty go fence means the model produced no script; the surrounding
	// prose must not be promoted to a candidate even when it mentions session
	// names.
	_, ok := extract.Script("You could call HSF.AddNewPointCoord(1.0, 2.0, 3.0):\n```go\n```")
	assert.False(t, ok)
}
