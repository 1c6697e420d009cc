package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Golden files live in testdata/golden. Regenerate with:
//
//	go test ./internal/harness -run TestGolden -update
func TestGolden(t *testing.T) {
	tests := []struct {
		name string
		pass bool
	}{
		{"parametrized", true},
		{"nested_ready", true},
		{"talker_listener", true},
		{"extra_argument", false},
		{"bad_parametrization", false},
		{"missing_ready", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := RunWithGolden(t, tt.name, filepath.Join("testdata", tt.name+".yaml"))
			require.NoError(t, err)
			assert.Equal(t, tt.pass, result.Pass)
		})
	}
}

func TestAssertGolden_IgnoresSessionAndRunIDs(t *testing.T) {
	h := New()
	result, err := h.RunFile(t.Context(), filepath.Join("testdata", "parametrized.yaml"))
	require.NoError(t, err)

	result.SessionID = "something-else"
	for i := range result.Runs {
		result.Runs[i].ID = "different"
	}
	require.NoError(t, AssertGolden(t, "parametrized", result))
}
