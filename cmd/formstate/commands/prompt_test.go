package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formstate/pkg/renderers/tui"
)

func TestPrompt_JSON(t *testing.T) {
	driver := &scriptedDriver{
		inputs:  []string{"ada@example.com", "36"},
		selects: []int{1},
	}
	out, err := execute(t, &app{driver: driver}, "prompt", signupPath)
	require.NoError(t, err)

	var data map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &data))
	assert.Equal(t, map[string]any{"email": "ada@example.com", "age": float64(36), "plan": "pro"}, data)
}

func TestPrompt_RepromptsInvalidValues(t *testing.T) {
	driver := &scriptedDriver{
		inputs:  []string{"", "ada@example.com", "12", "40"},
		selects: []int{0},
	}
	out, err := execute(t, &app{driver: driver}, "prompt", signupPath, "--output", "pretty")
	require.NoError(t, err)
	assert.Equal(t, "age=40\nemail=ada@example.com\nplan=free\n\n", out)
	require.Len(t, driver.infos, 2)
	assert.Contains(t, driver.infos[0], "Invalid Email address")
	assert.Contains(t, driver.infos[1], "min(18)")
}

func TestPrompt_MaxAttempts(t *testing.T) {
	driver := &scriptedDriver{inputs: []string{"", ""}}
	_, err := execute(t, &app{driver: driver}, "prompt", signupPath, "--max-attempts", "2")
	require.ErrorIs(t, err, tui.ErrTooManyAttempts)
}

func TestPrompt_OutputFromConfig(t *testing.T) {
	cfg := writeConfig(t, "output: form\n")
	driver := &scriptedDriver{
		inputs:  []string{"ada@example.com", "36"},
		selects: []int{0},
	}
	out, err := execute(t, &app{driver: driver}, "--config", cfg, "prompt", signupPath)
	require.NoError(t, err)
	assert.Equal(t, "age=36&email=ada%40example.com&plan=free\n", out)
}

func TestPrompt_UnknownOutputFormat(t *testing.T) {
	_, err := execute(t, &app{driver: &scriptedDriver{}}, "prompt", signupPath, "--output", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}
