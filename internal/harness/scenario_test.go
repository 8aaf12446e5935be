package harness

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *Scenario {
	t.Helper()
	s, err := ParseScenario([]byte(src))
	require.NoError(t, err)
	return s
}

func TestParseScenario(t *testing.T) {
	s := mustParse(t, `
name: parsed
description: "all optional parts present"
mode: FourPlayers
start:
  board: ".-.-.-.-.-/.-.-.-.-.-/.-.-.-.-.-/.-.-.-.-.-/.-.-.-.-.-"
  current_player: 2
  first_round: false
steps:
  - from: [0, 0]
    to: [0, 4]
    facing: Right
  - {from: [1, 1], to: [1, 4], expect_error: NOT_PERIPHERAL}
expect:
  status: InProgress
  cells:
    - {at: [0, 4], symbol: Cross, facing: Right}
`)

	assert.Equal(t, "parsed", s.Name)
	assert.Equal(t, "FourPlayers", s.Mode)
	require.NotNil(t, s.Start)
	assert.Equal(t, 2, s.Start.CurrentPlayer)
	require.NotNil(t, s.Start.FirstRound)
	assert.False(t, *s.Start.FirstRound)
	require.Len(t, s.Steps, 2)
	assert.Equal(t, []int{0, 0}, s.Steps[0].From)
	assert.Equal(t, "Right", s.Steps[0].Facing)
	assert.Equal(t, "NOT_PERIPHERAL", s.Steps[1].ExpectError)
	require.NotNil(t, s.Expect)
	require.Len(t, s.Expect.Cells, 1)
	require.NotNil(t, s.Expect.Cells[0].Facing)
	assert.Equal(t, "Right", *s.Expect.Cells[0].Facing)
}

func TestParseScenario_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown top-level field", `
name: x
description: d
mode: TwoPlayers
stepz: []
steps: [{from: [0, 0], to: [0, 4]}]
`},
		{"missing description", `
name: x
mode: TwoPlayers
steps: [{from: [0, 0], to: [0, 4]}]
`},
		{"unknown mode", `
name: x
description: d
mode: ThreePlayers
steps: [{from: [0, 0], to: [0, 4]}]
`},
		{"no steps", `
name: x
description: d
mode: TwoPlayers
steps: []
`},
		{"position of three numbers", `
name: x
description: d
mode: TwoPlayers
steps: [{from: [0, 0, 0], to: [0, 4]}]
`},
		{"unknown error code", `
name: x
description: d
mode: TwoPlayers
steps: [{from: [0, 0], to: [0, 4], expect_error: NOPE}]
`},
		{"unreachable error code", `
name: x
description: d
mode: TwoPlayers
steps: [{from: [0, 0], to: [0, 4], expect_error: MALFORMED_MOVE}]
`},
		{"unknown facing", `
name: x
description: d
mode: FourPlayers
steps: [{from: [0, 0], to: [0, 4], facing: Up}]
`},
		{"malformed start board", `
name: x
description: d
mode: TwoPlayers
start: {board: "O-O-O"}
steps: [{from: [0, 0], to: [0, 4]}]
`},
		{"unknown status", `
name: x
description: d
mode: TwoPlayers
steps: [{from: [0, 0], to: [0, 4]}]
expect: {status: Draw}
`},
		{"bad name", `
name: Has Spaces
description: d
mode: TwoPlayers
steps: [{from: [0, 0], to: [0, 4]}]
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.src))
			require.Error(t, err)
			var se *SchemaError
			assert.ErrorAs(t, err, &se)
		})
	}
}

func TestParseScenario_NotYAML(t *testing.T) {
	_, err := ParseScenario([]byte("name: [unclosed"))
	assert.Error(t, err)

	_, err = ParseScenario([]byte(""))
	assert.Error(t, err)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestRunPaths(t *testing.T) {
	dir := t.TempDir()
	write := func(name, src string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(src), 0o644))
		return p
	}
	write("a_pass.yaml", `
name: a_pass
description: d
mode: TwoPlayers
steps: [{from: [0, 0], to: [0, 4]}]
expect: {current_player: 2}
`)
	write("b_fail.yaml", `
name: b_fail
description: d
mode: TwoPlayers
steps: [{from: [0, 0], to: [0, 4]}]
expect: {current_player: 1}
`)
	write("c_broken.yml", "name: [")
	write("notes.txt", "ignored")

	paths, err := FindScenarios(dir)
	require.NoError(t, err)
	require.Len(t, paths, 3)

	res := RunPaths(paths, nil)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 1, res.Passed)
	assert.Equal(t, 2, res.Failed)
	require.Len(t, res.Scenarios, 3)
	assert.True(t, res.Scenarios[0].Pass)

	failures := res.Failures()
	require.Len(t, failures, 2)
	assert.Equal(t, "b_fail", failures[0].Scenario)
	assert.Equal(t, "c_broken.yml", failures[1].Scenario)
	assert.Contains(t, failures[1].Errors[0], "failed to load scenario")

	var checked []string
	res = RunPaths(paths, func(path string, s *Scenario, r *Result) error {
		checked = append(checked, s.Name)
		if s.Name == "a_pass" {
			r.AddError("trace mismatch")
		}
		return nil
	})
	assert.Equal(t, []string{"a_pass", "b_fail"}, checked)
	assert.Equal(t, 0, res.Passed)
	assert.Equal(t, []string{"trace mismatch"}, res.Scenarios[0].Errors)

	res = RunPaths(paths[:1], func(string, *Scenario, *Result) error {
		return errors.New("golden unreadable")
	})
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, []string{"golden unreadable"}, res.Scenarios[0].Errors)
}
