package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/quixo/internal/quixo"
)

// Harness plays one scenario against the rules engine.
type Harness struct {
	state     quixo.GameState
	moveCount int
	logger    *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Steps run in order against a fresh game (or the scenario's start
// position). A step whose outcome differs from its expect_error is
// recorded as a failure and the remaining steps still run. The returned
// error is reserved for scenarios that cannot be set up.
func Run(s *Scenario) (*Result, error) {
	return RunWithLogger(s, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger is Run with step-level debug logging sent to logger.
func RunWithLogger(s *Scenario, logger *slog.Logger) (*Result, error) {
	state, err := s.initialState()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	h := &Harness{state: state, logger: logger}

	result := NewResult()
	for i, step := range s.Steps {
		h.executeStep(i+1, step, result)
	}
	result.Final = FinalState{
		Status:        h.state.Status.String(),
		CurrentPlayer: h.state.CurrentPlayer,
		FirstRound:    h.state.FirstRound,
		MoveCount:     h.moveCount,
		Board:         quixo.EncodeBoard(h.state.Board),
	}

	if s.Expect != nil {
		for _, msg := range EvaluateExpectations(result.Final, h.state.Board, *s.Expect) {
			result.AddError(msg)
		}
	}
	return result, nil
}

func (h *Harness) executeStep(n int, step Step, result *Result) {
	ev := TraceEvent{
		Step:   n,
		Player: h.state.CurrentPlayer,
		From:   formatPosition(step.From),
		To:     formatPosition(step.To),
		Facing: step.Facing,
	}

	outcome := OutcomeApplied
	move, err := step.Move()
	if err != nil {
		outcome = string(quixo.ErrCodeInvalidFacing)
	} else {
		next, _, err := quixo.ApplyMove(h.state, move)
		if err != nil {
			outcome = string(quixo.ErrorCode(err))
		} else {
			h.state = next
			h.moveCount++
		}
	}

	ev.Outcome = outcome
	ev.Board = quixo.EncodeBoard(h.state.Board)
	ev.Status = h.state.Status.String()
	result.AddTrace(ev)

	h.logger.Debug("scenario step",
		"step", n,
		"player", ev.Player,
		"from", ev.From,
		"to", ev.To,
		"outcome", outcome,
		"status", ev.Status,
	)

	want := step.ExpectError
	if want == "" {
		want = OutcomeApplied
	}
	if outcome != want {
		result.AddError(fmt.Sprintf("step %d (%s -> %s): expected %s, got %s", n, ev.From, ev.To, want, outcome))
	}
}

func formatPosition(p []int) string {
	return fmt.Sprintf("%d,%d", p[0], p[1])
}
