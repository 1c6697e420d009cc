package harness

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/launchcheck/internal/testutil"
)

func TestLoadTestFile_YAML(t *testing.T) {
	tf, err := LoadTestFile(filepath.Join("testdata", "talker_listener.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "talker_listener", tf.Name)
	assert.Equal(t, []string{"rate", "mode"}, tf.Generator.Params)
	require.Len(t, tf.Generator.Parametrize, 2)
	assert.Equal(t, "rate", tf.Generator.Parametrize[0].Name)
	assert.Len(t, tf.Generator.Parametrize[0].Values, 2)
	require.Len(t, tf.Generator.Description, 3)
	assert.Equal(t, "execute_process", tf.Generator.Description[0].Action)
	assert.Equal(t, `mode == "sim"`, tf.Generator.Description[1].If)
	assert.Equal(t, "fragments/ready_after_delay.yaml", tf.Generator.Description[2].Include)
	assert.Equal(t, filepath.Join("testdata", "talker_listener.yaml"), tf.Path())
}

func TestLoadTestFile_CUE(t *testing.T) {
	tf, err := LoadTestFile(filepath.Join("testdata", "talker_listener.cue"))
	require.NoError(t, err)

	assert.Equal(t, "talker_listener_cue", tf.Name)
	assert.Equal(t, []string{"rate"}, tf.Generator.Params)
	require.Len(t, tf.Generator.Description, 2)
	require.NotNil(t, tf.Generator.Description[1].Timer)
	assert.Equal(t, 2.5, *tf.Generator.Description[1].Timer)
	assert.True(t, tf.Generator.Description[1].Actions[0].ReadyToTest)
}

func TestLoadTestFile_Errors(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		wantCode string
		wantMsg  string
	}{
		{
			name: "unknown field",
			file: "typo.yaml",
			content: `name: typo
generate_test_description:
  parametrise: []
  description: [{ready_to_test: true}]
`,
			wantCode: ErrCodeParseFailed,
			wantMsg:  "parametrise",
		},
		{
			name:     "unsupported extension",
			file:     "test.json",
			content:  `{}`,
			wantCode: ErrCodeUnsupported,
		},
		{
			name: "empty name fails schema",
			file: "noname.yaml",
			content: `generate_test_description:
  description: [{ready_to_test: true}]
`,
			wantCode: ErrCodeSchema,
		},
		{
			name:     "missing description fails schema",
			file:     "nodesc.yaml",
			content:  "name: nodesc\ngenerate_test_description:\n  params: []\n",
			wantCode: ErrCodeSchema,
		},
		{
			name: "two forms in one entry",
			file: "twoforms.yaml",
			content: `name: twoforms
generate_test_description:
  description:
    - action: log_info
      ready_to_test: true
`,
			wantCode: ErrCodeInvalidEntry,
			wantMsg:  "exactly one of",
		},
		{
			name: "empty entry",
			file: "empty.yaml",
			content: `name: empty
generate_test_description:
  description:
    - if: "true"
`,
			wantCode: ErrCodeInvalidEntry,
		},
		{
			name: "non-positive timer",
			file: "timer.yaml",
			content: `name: timer
generate_test_description:
  description:
    - timer: 0
      actions: [{ready_to_test: true}]
`,
			wantCode: ErrCodeInvalidEntry,
			wantMsg:  "timer period must be positive",
		},
		{
			name: "if and unless together",
			file: "both.yaml",
			content: `name: both
generate_test_description:
  description:
    - action: log_info
      if: "a"
      unless: "b"
    - ready_to_test: true
`,
			wantCode: ErrCodeInvalidEntry,
			wantMsg:  "both if and unless",
		},
		{
			name: "malformed condition",
			file: "cond.yaml",
			content: `name: cond
generate_test_description:
  description:
    - action: log_info
      if: "mode =="
    - ready_to_test: true
`,
			wantCode: ErrCodeInvalidEntry,
		},
		{
			name: "nested entry error reports path",
			file: "nested.yaml",
			content: `name: nested
generate_test_description:
  description:
    - timer: 1
      actions:
        - args: {a: 1}
`,
			wantCode: ErrCodeInvalidEntry,
		},
		{
			name: "float sweep value",
			file: "float.yaml",
			content: `name: float
generate_test_description:
  params: [rate]
  parametrize:
    - name: rate
      values: [1.5]
  description: [{ready_to_test: true}]
`,
			wantCode: ErrCodeInvalidSweep,
			wantMsg:  "floats are not valid literals",
		},
		{
			name: "null sweep value",
			file: "null.yaml",
			content: `name: "null"
generate_test_description:
  params: [rate]
  parametrize:
    - name: rate
      values: [~]
  description: [{ready_to_test: true}]
`,
			wantCode: ErrCodeInvalidSweep,
		},
		{
			name:     "cue conflict",
			file:     "conflict.cue",
			content:  "name: 1 & \"x\"\n",
			wantCode: ErrCodeBuildFailed,
		},
		{
			name:     "cue not concrete",
			file:     "abstract.cue",
			content:  "name: string\ngenerate_test_description: description: []\n",
			wantCode: ErrCodeBuildFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteFile(t, t.TempDir(), tt.file, tt.content)

			_, err := LoadTestFile(path)
			require.Error(t, err)

			var le *LoadError
			require.True(t, errors.As(err, &le), "expected *LoadError, got %T: %v", err, err)
			assert.Equal(t, tt.wantCode, le.Code, "error: %v", err)
			assert.Equal(t, tt.wantCode, LoadErrorCode(err))
			assert.Contains(t, err.Error(), path)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestLoadTestFile_NotFound(t *testing.T) {
	_, err := LoadTestFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, ErrCodeNotFound, LoadErrorCode(err))
}

func TestLoadError_Format(t *testing.T) {
	err := &LoadError{
		Code:    ErrCodeInvalidEntry,
		File:    "t.yaml",
		Field:   "generate_test_description.description[0]",
		Line:    4,
		Message: "bad entry",
	}
	assert.Equal(t, "t.yaml:4: E102 generate_test_description.description[0]: bad entry", err.Error())

	assert.Equal(t, "", LoadErrorCode(errors.New("plain")))
}
