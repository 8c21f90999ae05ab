package agent_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cadagent/pkg/agent"
)

func TestTranscriptAppendOrder(t *testing.T) {
	tr := agent.NewTranscript()
	id1 := tr.Append(agent.KindInstruction, "first")
	id2 := tr.Append(agent.KindScript, "second")
	assert.NotEqual(t, id1, id2)

	entries := tr.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "first", entries[0].Text)
	assert.Equal(t, "second", entries[1].Text)
	assert.Equal(t, id1, entries[0].ID)
	assert.False(t, entries[0].Timestamp.IsZero())
}

func TestTranscriptEntriesIsACopy(t *testing.T) {
	tr := agent.NewTranscript()
	tr.Append(agent.KindInstruction, "original")
	entries := tr.Entries()
	entries[0].Text = "mutated"
	assert.Equal(t, "original", tr.Entries()[0].Text)
}

func TestTranscriptConcurrentAppend(t *testing.T) {
	tr := agent.NewTranscript()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Append(agent.KindOutcome, "done")
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, tr.Len())
}
