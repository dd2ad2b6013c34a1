package commands

import (
	"encoding/json"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formstate/pkg/formstate"
)

func TestCheck_Valid(t *testing.T) {
	out, err := execute(t, nil, "check", signupPath, "--set", "email=ada@example.com", "--set", "age=36")
	require.NoError(t, err)
	assert.Contains(t, out, "FIELD")
	assert.Contains(t, out, `"ada@example.com"`)
	assert.Contains(t, out, "form: valid, dirty")
}

func TestCheck_PristineDefaultsAreInvalid(t *testing.T) {
	out, err := execute(t, nil, "check", signupPath)
	require.ErrorIs(t, err, ErrFormInvalid)
	assert.Contains(t, out, "required")
	assert.Contains(t, out, "form: invalid, pristine")
}

func TestCheck_JSON(t *testing.T) {
	out, err := execute(t, nil, "check", signupPath, "--json",
		"--set", "email=ada@example.com", "--set", "age=12")
	require.ErrorIs(t, err, ErrFormInvalid)

	var report struct {
		Form   formstate.FormState            `json:"form"`
		Fields map[string]formstate.FieldState `json:"fields"`
		Data   map[string]any                 `json:"data"`
		Fails  map[string][]string            `json:"fails"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))

	assert.True(t, report.Form.Invalid)
	assert.True(t, report.Form.Dirty)
	assert.Equal(t, []string{"min(18)"}, report.Fails["age"])
	assert.True(t, report.Fields["age"].Touched)
	assert.True(t, report.Fields["plan"].Untouched)
	assert.Equal(t, float64(12), report.Data["age"])
}

func TestCheck_Submit(t *testing.T) {
	out, err := execute(t, nil, "check", signupPath, "--json", "--submit",
		"--set", "email=ada@example.com")
	require.NoError(t, err)

	var report struct {
		Form   formstate.FormState            `json:"form"`
		Fields map[string]formstate.FieldState `json:"fields"`
		Data   map[string]any                 `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.True(t, report.Form.Pristine)
	assert.True(t, report.Fields["email"].Untouched)
	assert.Equal(t, "ada@example.com", report.Data["email"])
}

func TestCheck_UnknownField(t *testing.T) {
	_, err := execute(t, nil, "check", signupPath, "--set", "nickname=ada")

	var unknown *formstate.UnknownFieldError
	require.True(t, errors.As(err, &unknown), "got %v", err)
	assert.Equal(t, "nickname", unknown.Field)
	assert.ErrorIs(t, err, formstate.ErrUnknownField)
}

func TestCheck_MalformedAssignment(t *testing.T) {
	_, err := execute(t, nil, "check", signupPath, "--set", "email")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected name=value")
}

func TestCheck_UnparsableValue(t *testing.T) {
	_, err := execute(t, nil, "check", signupPath, "--set", "age=old")
	require.ErrorIs(t, err, formstate.ErrInvalidValue)
}
