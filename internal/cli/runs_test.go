package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/launchcheck/internal/testutil"
)

type runsReportJSON struct {
	Generator string   `json:"generator"`
	Params    []string `json:"params"`
	Sweeps    []string `json:"sweeps"`
	Runs      []struct {
		Index int        `json:"index"`
		Label string     `json:"label"`
		ID    string     `json:"id"`
		Tree  []TreeLine `json:"tree"`
		Error string     `json:"error"`
	} `json:"runs"`
}

func TestRuns_Text(t *testing.T) {
	out, err := execute(t, "runs", fixture("talker_listener.yaml"))
	require.NoError(t, err)

	assert.Contains(t, out, "talker_listener ("+fixture("talker_listener.yaml")+")")
	assert.Contains(t, out, "params: [rate, mode]")
	assert.Contains(t, out, "sweeps: [rate, mode]")
	assert.Contains(t, out, "4 run(s)")
	assert.Contains(t, out, `#0 [rate=10, mode="sim"]`)
	assert.Contains(t, out, `#3 [rate=20, mode="real"]`)
	assert.NotContains(t, out, "ReadyToTest", "trees are only printed with --tree")
}

func TestRuns_NoSweeps(t *testing.T) {
	out, err := execute(t, "runs", fixture("nested_ready.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "1 run(s)")
	assert.Contains(t, out, "#0 (no parameters)")
	assert.NotContains(t, out, "sweeps:")
}

func TestRuns_Tree(t *testing.T) {
	out, err := execute(t, "runs", "--tree", fixture("talker_listener.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "talker --rate 10")
	assert.Contains(t, out, "talker --rate 20")
	assert.Contains(t, out, "include(fragments/ready_after_delay.yaml)")
	assert.Contains(t, out, "timer(2.5s)")
	assert.Contains(t, out, "ReadyToTest")
}

func TestRuns_JSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "runs", "--tree", fixture("talker_listener.yaml"))
	require.NoError(t, err)

	var report runsReportJSON
	resp := decodeData(t, out, &report)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "talker_listener", report.Generator)
	assert.Equal(t, []string{"rate", "mode"}, report.Params)
	require.Len(t, report.Runs, 4)

	ids := map[string]bool{}
	for i, run := range report.Runs {
		assert.Equal(t, i, run.Index)
		assert.Len(t, run.ID, 64)
		ids[run.ID] = true
		assert.Empty(t, run.Error)

		last := run.Tree[len(run.Tree)-1]
		assert.Equal(t, TreeLine{Depth: 2, Node: "ReadyToTest"}, last)
	}
	assert.Len(t, ids, 4, "every run has its own ID")
}

func TestRuns_TreeReportsMismatch(t *testing.T) {
	out, err := execute(t, "runs", "--tree", fixture("bad_parametrization.yaml"))
	require.NoError(t, err, "listing runs does not validate them")
	assert.Contains(t, out, "3 run(s)")
	assert.Contains(t, out, "✗ E202")
}

func TestRuns_FixedArgs(t *testing.T) {
	out, err := execute(t, "runs", "--tree", "--fixed", "extra_arg=on", fixture("extra_argument.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "ReadyToTest")
	assert.NotContains(t, out, "✗")
}

func TestRuns_LoadError(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "bad.json", "{}")

	out, err := execute(t, "runs", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E008]")
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "0123456789ab", shortID("0123456789abcdef"))
	assert.Equal(t, "abc", shortID("abc"))
	assert.Equal(t, "", shortID(""))
}
