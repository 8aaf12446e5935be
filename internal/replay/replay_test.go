package replay

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/quixo/internal/export"
	"github.com/roach88/quixo/internal/quixo"
	"github.com/roach88/quixo/internal/store"
)

var epoch = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func pos(r, c int) quixo.Position { return quixo.Position{Row: r, Col: c} }

// record plays moves from a fresh game and returns what the store would hold.
func record(t *testing.T, mode quixo.Mode, moves ...quixo.Move) (store.Game, []store.MoveRecord) {
	t.Helper()
	g := store.NewGame("g1", mode, epoch)
	var log []store.MoveRecord
	for i, m := range moves {
		next, applied, err := quixo.ApplyMove(g.State(), m)
		require.NoError(t, err, "move %d", i+1)
		g = g.WithState(next)
		g.MoveCount = i + 1
		log = append(log, store.MoveRecord{
			GameID:     g.ID,
			Number:     i + 1,
			Player:     applied.Player,
			From:       m.From,
			To:         m.To,
			Symbol:     applied.Symbol,
			Facing:     applied.Facing,
			BoardAfter: next.Board,
			Elapsed:    time.Duration(i+1) * time.Second,
		})
	}
	return g, log
}

func sampleGame(t *testing.T) (store.Game, []store.MoveRecord) {
	return record(t, quixo.FourPlayers,
		quixo.Move{From: pos(0, 0), To: pos(0, 4), Facing: quixo.Top},
		quixo.Move{From: pos(4, 0), To: pos(4, 4), Facing: quixo.Right},
		quixo.Move{From: pos(2, 0), To: pos(2, 4), Facing: quixo.Bottom},
	)
}

func TestFrames(t *testing.T) {
	_, log := sampleGame(t)

	frames := Frames(log)
	require.Len(t, frames, 4)
	assert.Equal(t, Frame{Board: quixo.NewBoard()}, frames[0])
	for i, m := range log {
		assert.Equal(t, m.Number, frames[i+1].Number)
		assert.Equal(t, m.BoardAfter, frames[i+1].Board)
		assert.Equal(t, m.Player, frames[i+1].Player)
	}
}

func TestVerify_Deterministic(t *testing.T) {
	g, log := sampleGame(t)

	r := Verify(g, log)
	assert.True(t, r.Deterministic)
	assert.Nil(t, r.Divergence)
	assert.Equal(t, 3, r.Moves)
}

func TestVerify_EmptyLog(t *testing.T) {
	r := Verify(store.NewGame("g0", quixo.TwoPlayers, epoch), nil)
	assert.True(t, r.Deterministic)
}

func TestVerify_Divergences(t *testing.T) {
	tests := []struct {
		name   string
		tamper func(g *store.Game, log []store.MoveRecord)
		move   int
		field  string
	}{
		{"player", func(_ *store.Game, log []store.MoveRecord) { log[1].Player = 4 }, 2, "player"},
		{"symbol", func(_ *store.Game, log []store.MoveRecord) { log[0].Symbol = quixo.Cross }, 1, "symbol"},
		{"facing", func(_ *store.Game, log []store.MoveRecord) { log[2].Facing = quixo.Left }, 3, "board_after"},
		{"board", func(_ *store.Game, log []store.MoveRecord) { log[1].BoardAfter[2][2] = quixo.Cell{Symbol: quixo.Circle} }, 2, "board_after"},
		{"numbering", func(_ *store.Game, log []store.MoveRecord) { log[1].Number = 5 }, 2, "move_number"},
		{"illegal", func(_ *store.Game, log []store.MoveRecord) { log[1].From = pos(2, 2) }, 2, "legality"},
		{"final status", func(g *store.Game, _ []store.MoveRecord) { g.Status = quixo.WonByTeamA }, 0, "status"},
		{"final player", func(g *store.Game, _ []store.MoveRecord) { g.CurrentPlayer = 1 }, 0, "current_player"},
		{"move count", func(g *store.Game, _ []store.MoveRecord) { g.MoveCount = 7 }, 0, "move_count"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, log := sampleGame(t)
			tt.tamper(&g, log)

			r := Verify(g, log)
			assert.False(t, r.Deterministic)
			require.NotNil(t, r.Divergence)
			assert.Equal(t, tt.move, r.Divergence.MoveNumber)
			assert.Equal(t, tt.field, r.Divergence.Field)
			assert.NotEmpty(t, r.Divergence.String())
		})
	}
}

func TestVerify_TwoPlayerFacingDropped(t *testing.T) {
	g, log := record(t, quixo.TwoPlayers,
		quixo.Move{From: pos(0, 0), To: pos(0, 4), Facing: quixo.Top},
	)
	assert.Equal(t, quixo.NoDirection, log[0].Facing)

	log[0].Facing = quixo.Top
	r := Verify(g, log)
	require.NotNil(t, r.Divergence)
	assert.Equal(t, "point_direction", r.Divergence.Field)
	assert.Equal(t, "Top", r.Divergence.Recorded)
	assert.Equal(t, "", r.Divergence.Replayed)
}

func TestFromExport_RoundTrip(t *testing.T) {
	g, log := sampleGame(t)

	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, g, log))
	doc, err := export.Parse(&buf)
	require.NoError(t, err)

	gotGame, gotLog, err := FromExport(doc)
	require.NoError(t, err)
	assert.Equal(t, g, gotGame)
	assert.Equal(t, log, gotLog)
	assert.True(t, Verify(gotGame, gotLog).Deterministic)
}

func TestFromExport_BadFields(t *testing.T) {
	g, log := sampleGame(t)
	doc := export.Build(g, log)
	doc.Moves.Move[0].TimeElapsed = "1:99:00"
	_, _, err := FromExport(doc)
	assert.Error(t, err)

	doc = export.Build(g, log)
	doc.Mode = "ThreePlayers"
	_, _, err = FromExport(doc)
	assert.Error(t, err)
}
