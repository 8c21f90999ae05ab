package gemini

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"cadagent/pkg/models"
)

func TestClassifyDeadline(t *testing.T) {
	err := classify(fmt.Errorf("calling service: %w", context.DeadlineExceeded))
	var te *models.TimeoutError
	require.ErrorAs(t, err, &te)
}

func TestClassifyHTTPStatus(t *testing.T) {
	err := classify(fmt.Errorf("request failed: %w", &googleapi.Error{
		Code: 401,
		Body: " API key not valid \n",
	}))
	var he *models.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, 401, he.Status)
	assert.Equal(t, "API key not valid", he.Body)
}

func TestClassifyTransport(t *testing.T) {
	cause := errors.New("connection refused")
	err := classify(cause)
	var tre *models.TransportError
	require.ErrorAs(t, err, &tre)
	assert.ErrorIs(t, err, cause)
}

func TestFlatten(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: nil},
			{Content: &genai.Content{Parts: []genai.Part{
				genai.Text("```go\n"),
				genai.Text("Part.Update()\n```"),
			}}},
		},
	}
	assert.Equal(t, "```go\nPart.Update()\n```", flatten(resp))
}

func TestFlattenEmpty(t *testing.T) {
	assert.Equal(t, "", flatten(&genai.GenerateContentResponse{}))
}
