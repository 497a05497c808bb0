package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runPredict(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPredictCommand_Text(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains []string
	}{
		{
			name: "defaults sit on the indifference point",
			contains: []string{
				"✗ NOT TRANSPORTED",
				"The passenger was not affected by the spacetime anomaly",
				"Confidence Score: 50%",
				"Age group: Adult",
			},
		},
		{
			name: "cryo sleeper",
			args: []string{"--cryo-sleep"},
			contains: []string{
				"✓ TRANSPORTED",
				"Confidence Score: 90%",
				"CryoSleep status: Active (High impact)",
			},
		},
		{
			name:     "numeric flags are coerced",
			args:     []string{"--age", "abc", "--spa", "1500.7"},
			contains: []string{"Age group: Child", "Total spending: 1,500 credits"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runPredict(t, tt.args...)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
		})
	}
}

func TestPredictCommand_JSON(t *testing.T) {
	out, err := runPredict(t, "--json", "--breakdown", "--home-planet", "Europa", "--destination", "PSO J318.5-22", "--age", "10", "--food-court", "20")
	require.NoError(t, err)

	var got output
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, got.Result.Transported)
	assert.Equal(t, 60, got.Result.Confidence)
	require.NotNil(t, got.Breakdown)
	assert.NotEmpty(t, got.Breakdown.Contributions)
}

func TestPredictCommand_RejectsUnknownLabels(t *testing.T) {
	_, err := runPredict(t, "--home-planet", "Venus")
	assert.Error(t, err)

	_, err = runPredict(t, "--destination", "Mars")
	assert.Error(t, err)

	_, err = runPredict(t, "extra-arg")
	assert.Error(t, err)
}
