package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentrace/agentrace/internal/trace"
)

func TestParseSteps(t *testing.T) {
	data := `
{"id":"s1","node_id":"n1","type":"node","status":"running","start_time":100}
{"id":"s2","node_id":"n1","type":"tool_call","status":"completed","start_time":110,"end_time":150,"duration_ms":40}

not json at all
{"id":"","node_id":"n1","type":"thought","start_time":120}
{"id":"s3","node_id":"n1","type":"model_call","status":"error","start_time":160,"model":"gpt-4o","total_tokens":900}
`
	steps := ParseSteps(strings.NewReader(data))
	require.Len(t, steps, 3, "malformed and id-less lines are skipped")

	assert.Equal(t, "s1", steps[0].ID)
	assert.Equal(t, trace.StepNode, steps[0].Type)
	assert.Equal(t, trace.StatusRunning, steps[0].Status)
	assert.Nil(t, steps[0].EndTime)

	require.NotNil(t, steps[1].EndTime)
	assert.Equal(t, int64(150), *steps[1].EndTime)
	require.NotNil(t, steps[1].Duration)
	assert.Equal(t, int64(40), *steps[1].Duration)

	assert.Equal(t, trace.StatusError, steps[2].Status)
	assert.Equal(t, 900, steps[2].TotalTokens)
}

func TestParseStepsNormalizesEngineEnums(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		wantType   trace.StepType
		wantStatus trace.Status
	}{
		{
			name:       "span becomes container node",
			line:       `{"id":"a","node_id":"n","type":"SPAN","status":"RUNNING","start_time":1}`,
			wantType:   trace.StepNode,
			wantStatus: trace.StatusRunning,
		},
		{
			name:       "generation becomes model call",
			line:       `{"id":"a","node_id":"n","type":"GENERATION","status":"COMPLETED","start_time":1}`,
			wantType:   trace.StepModelCall,
			wantStatus: trace.StatusCompleted,
		},
		{
			name:       "tool keeps tool kind",
			line:       `{"id":"a","node_id":"n","type":"TOOL","status":"FAILED","start_time":1}`,
			wantType:   trace.StepToolCall,
			wantStatus: trace.StatusError,
		},
		{
			name:       "event becomes thought, interrupted becomes error",
			line:       `{"id":"a","node_id":"n","type":"EVENT","status":"INTERRUPTED","start_time":1}`,
			wantType:   trace.StepThought,
			wantStatus: trace.StatusError,
		},
		{
			name:       "missing status defaults to pending",
			line:       `{"id":"a","node_id":"n","type":"thought","start_time":1}`,
			wantType:   trace.StepThought,
			wantStatus: trace.StatusPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps := ParseSteps(strings.NewReader(tt.line))
			require.Len(t, steps, 1)
			assert.Equal(t, tt.wantType, steps[0].Type)
			assert.Equal(t, tt.wantStatus, steps[0].Status)
		})
	}
}

func TestFollowerPollsOnlyNewSteps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "steps.jsonl")
	write := func(content string) {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		require.NoError(t, err)
		_, err = f.WriteString(content)
		require.NoError(t, err)
		require.NoError(t, f.Close())
	}

	write(`{"id":"s1","node_id":"n1","type":"node","status":"running","start_time":1}` + "\n")

	follower := NewFollower(path, true)
	steps, err := follower.Poll()
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.Equal(t, "s1", steps[0].ID)

	// Nothing new.
	steps, err = follower.Poll()
	require.NoError(t, err)
	assert.Empty(t, steps)

	write(`{"id":"s2","node_id":"n1","type":"tool_call","status":"completed","start_time":2}` + "\n")
	steps, err = follower.Poll()
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.Equal(t, "s2", steps[0].ID)
}

func TestFollowerSkipsExistingContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "steps.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"id":"old","node_id":"n","type":"node","start_time":1}`+"\n"), 0o644))

	follower := NewFollower(path, false)
	steps, err := follower.Poll()
	require.NoError(t, err)
	assert.Empty(t, steps, "pre-existing content is skipped when not reading from start")
}

func TestFollowerMissingFile(t *testing.T) {
	follower := NewFollower(filepath.Join(t.TempDir(), "absent.jsonl"), true)
	steps, err := follower.Poll()
	assert.NoError(t, err)
	assert.Empty(t, steps)
}
