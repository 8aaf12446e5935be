package session

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/roach88/quixo/internal/quixo"
	"github.com/roach88/quixo/internal/store"
	"github.com/roach88/quixo/internal/testutil"
)

type recordingNotifier struct {
	mu    sync.Mutex
	views []GameView
}

func (n *recordingNotifier) GameUpdated(v GameView) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.views = append(n.views, v)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.views)
}

type notifierFunc func(GameView)

func (f notifierFunc) GameUpdated(v GameView) { f(v) }

type fixture struct {
	svc      *Service
	store    *store.Store
	clock    *testutil.ManualClock
	notifier *recordingNotifier
}

func newFixture(t *testing.T, opts ...Option) fixture {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "quixo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	f := fixture{
		store:    st,
		clock:    testutil.NewManualClock(time.Time{}),
		notifier: &recordingNotifier{},
	}
	base := []Option{
		WithClock(f.clock),
		WithIDGenerator(testutil.NewSequenceIDGenerator()),
		WithNotifier(f.notifier),
	}
	f.svc = New(st, append(base, opts...)...)
	return f
}

func req(id string, fromRow, fromCol, toRow, toCol int) MoveRequest {
	return MoveRequest{GameID: id, FromRow: fromRow, FromCol: fromCol, ToRow: toRow, ToCol: toCol}
}

func TestNewGame(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	v, err := f.svc.NewGame(ctx, quixo.TwoPlayers)
	require.NoError(t, err)

	assert.Equal(t, "game-1", v.ID)
	assert.Equal(t, quixo.InProgress, v.Status)
	assert.Equal(t, 1, v.CurrentPlayer)
	assert.Equal(t, "Circle", v.CurrentSymbol)
	assert.True(t, v.IsFirstRound)
	assert.Equal(t, quixo.NewBoard(), v.Board)
	assert.Len(t, v.Pickable, 16, "every peripheral cube is neutral")
	assert.Equal(t, testutil.Epoch, v.CreatedAt)
	assert.Nil(t, v.FinishedAt)
	assert.Empty(t, v.Winner)

	got, err := f.svc.Game(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, v, got)
}

func TestGame_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Game(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMakeMove_FirstMove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	g, err := f.svc.NewGame(ctx, quixo.TwoPlayers)
	require.NoError(t, err)

	f.clock.Advance(7 * time.Second)
	res, err := f.svc.MakeMove(ctx, req(g.ID, 0, 0, 0, 2))
	require.NoError(t, err)
	require.True(t, res.Success, res.Error)

	assert.Equal(t, quixo.Cell{Symbol: quixo.Circle}, res.Game.Board[0][2])
	assert.False(t, res.Game.IsFirstRound)
	assert.Equal(t, 2, res.Game.CurrentPlayer)
	assert.Equal(t, int64(7000), res.Game.ElapsedMs)

	require.NotNil(t, res.Move)
	assert.Equal(t, 1, res.Move.Number)
	assert.Equal(t, 1, res.Move.Player)
	assert.Equal(t, "Circle", res.Move.Symbol)
	assert.Nil(t, res.Move.PointDirection)
	assert.Equal(t, int64(7000), res.Move.ElapsedMs)

	assert.Equal(t, 1, f.notifier.count())
}

func TestMakeMove_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	g, err := f.svc.NewGame(ctx, quixo.TwoPlayers)
	require.NoError(t, err)

	tests := []struct {
		name string
		req  MoveRequest
		code string
		msg  string
	}{
		{"unknown game", req("missing", 0, 0, 0, 4), CodeGameNotFound, "game not found"},
		{"out of range", req(g.ID, 0, 5, 0, 0), string(quixo.ErrCodeOutOfRange), "coordinates must be between 0 and 4"},
		{"interior", req(g.ID, 1, 1, 1, 0), string(quixo.ErrCodeNotPeripheral), "only cubes on the periphery can be taken"},
		{"bad destination", req(g.ID, 0, 0, 4, 4), string(quixo.ErrCodeInvalidDestination), "invalid destination"},
		{"bad direction", MoveRequest{GameID: g.ID, ToCol: 4, PointDirection: "North"}, CodeInvalidDirection, "invalid point direction"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.svc.MakeMove(ctx, tt.req)
			require.NoError(t, err)
			assert.False(t, res.Success)
			assert.Equal(t, tt.code, res.Code)
			assert.Equal(t, tt.msg, res.Error)
		})
	}

	after, err := f.svc.Game(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, after.MoveCount)
	assert.Equal(t, 0, f.notifier.count())
}

func TestMakeMove_RejectionCarriesGameView(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	g, err := f.svc.NewGame(ctx, quixo.TwoPlayers)
	require.NoError(t, err)

	res, err := f.svc.MakeMove(ctx, req(g.ID, 2, 2, 2, 0))
	require.NoError(t, err)
	require.NotNil(t, res.Game)
	assert.Equal(t, g.ID, res.Game.ID)
	assert.Nil(t, res.Move)
}

// playToWin plays a two-player game where player 1 fills row 0 with
// Circles while player 2 takes cubes from row 4.
func playToWin(t *testing.T, f fixture, id string) MoveResult {
	t.Helper()
	ctx := context.Background()
	moves := []MoveRequest{
		req(id, 0, 4, 0, 0), // O at (0,0)
		req(id, 4, 4, 4, 0),
		req(id, 0, 4, 0, 0), // O at (0,0), (0,1)
		req(id, 4, 4, 4, 0),
		req(id, 0, 4, 0, 0),
		req(id, 4, 4, 4, 0),
		req(id, 0, 4, 0, 0),
		req(id, 4, 4, 4, 0),
	}
	for i, m := range moves {
		f.clock.Advance(10 * time.Second)
		res, err := f.svc.MakeMove(ctx, m)
		require.NoError(t, err)
		require.True(t, res.Success, "move %d: %s", i+1, res.Error)
	}

	// row 0 holds OOOO.; pushing (2,4) in at (0,4) completes it
	f.clock.Advance(10 * time.Second)
	res, err := f.svc.MakeMove(ctx, req(id, 2, 4, 0, 4))
	require.NoError(t, err)
	return res
}

func TestMakeMove_WinFinishesGame(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	g, err := f.svc.NewGame(ctx, quixo.TwoPlayers)
	require.NoError(t, err)

	res := playToWin(t, f, g.ID)
	require.True(t, res.Success, res.Error)
	assert.Equal(t, quixo.WonByPlayer1, res.Game.Status)
	assert.Equal(t, "Player 1", res.Game.Winner)
	assert.Equal(t, "Circle", res.Game.WinnerSymbol)
	require.NotNil(t, res.Game.FinishedAt)
	assert.Equal(t, testutil.Epoch.Add(90*time.Second), *res.Game.FinishedAt)
	assert.Equal(t, int64(90000), res.Game.ElapsedMs)
	assert.Empty(t, res.Game.Pickable)

	// terminal is absorbing
	again, err := f.svc.MakeMove(ctx, req(g.ID, 4, 4, 4, 0))
	require.NoError(t, err)
	assert.False(t, again.Success)
	assert.Equal(t, string(quixo.ErrCodeGameOver), again.Code)
	assert.Equal(t, "the game has already finished", again.Error)

	history, err := f.svc.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, g.ID, history[0].ID)

	stats, err := f.svc.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, Standing{Name: "Player 1", GamesWon: 1, TotalGames: 1, Effectiveness: 100}, stats.Players[0])
	assert.Equal(t, Standing{Name: "Player 2", GamesWon: 0, TotalGames: 1, Effectiveness: 0}, stats.Players[1])
	assert.Equal(t, Standing{Name: "Team A"}, stats.Teams[0])
}

func TestMakeMove_FourPlayersKeepsDirection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	g, err := f.svc.NewGame(ctx, quixo.FourPlayers)
	require.NoError(t, err)

	r := req(g.ID, 0, 0, 0, 4)
	r.PointDirection = "Top"
	res, err := f.svc.MakeMove(ctx, r)
	require.NoError(t, err)
	require.True(t, res.Success, res.Error)

	assert.Equal(t, quixo.Cell{Symbol: quixo.Circle, Facing: quixo.Top}, res.Game.Board[0][4])
	require.NotNil(t, res.Move.PointDirection)
	assert.Equal(t, "Top", *res.Move.PointDirection)
	assert.Equal(t, 2, res.Game.CurrentPlayer)
	assert.Equal(t, "Cross", res.Game.CurrentSymbol)
}

func TestMakeMove_ConcurrentSameGame(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	g, err := f.svc.NewGame(ctx, quixo.TwoPlayers)
	require.NoError(t, err)

	const writers = 8
	results := make([]MoveResult, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := f.svc.MakeMove(ctx, req(g.ID, 0, 0, 0, 4))
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}
	wg.Wait()

	// Each writer is validated against the state its predecessor left.
	// Row 0 fills from the right until a Circle reaches (0,0), which
	// player 2 may not take: five moves are accepted, in turn order.
	moves, err := f.svc.Moves(ctx, g.ID)
	require.NoError(t, err)
	for i, m := range moves {
		assert.Equal(t, i+1, m.Number)
		assert.Equal(t, i%2+1, m.Player, "turns alternate")
	}

	var accepted int
	for _, r := range results {
		if r.Success {
			accepted++
		}
	}
	assert.Len(t, moves, 5)
	assert.Equal(t, len(moves), accepted)
	assert.Equal(t, 0, f.svc.locks.len())
}

func TestReset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	g, err := f.svc.NewGame(ctx, quixo.TwoPlayers)
	require.NoError(t, err)

	res, err := f.svc.MakeMove(ctx, req(g.ID, 0, 0, 0, 4))
	require.NoError(t, err)
	require.True(t, res.Success)

	f.clock.Advance(time.Minute)
	v, err := f.svc.Reset(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, quixo.NewBoard(), v.Board)
	assert.True(t, v.IsFirstRound)
	assert.Equal(t, 1, v.CurrentPlayer)
	assert.Equal(t, 0, v.MoveCount)
	assert.Equal(t, testutil.Epoch.Add(time.Minute), v.CreatedAt)

	moves, err := f.svc.Moves(ctx, g.ID)
	require.NoError(t, err)
	assert.Empty(t, moves)
	assert.Equal(t, 2, f.notifier.count())

	_, err = f.svc.Reset(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMoveState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	g, err := f.svc.NewGame(ctx, quixo.TwoPlayers)
	require.NoError(t, err)

	f.clock.Advance(3 * time.Second)
	first, err := f.svc.MakeMove(ctx, req(g.ID, 0, 0, 0, 4))
	require.NoError(t, err)
	f.clock.Advance(3 * time.Second)
	second, err := f.svc.MakeMove(ctx, req(g.ID, 4, 4, 4, 0))
	require.NoError(t, err)

	initial, err := f.svc.MoveState(ctx, g.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, quixo.NewBoard(), initial.Board)
	assert.Nil(t, initial.Move)
	assert.Zero(t, initial.ElapsedMs)

	s1, err := f.svc.MoveState(ctx, g.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, first.Game.Board, s1.Board)
	assert.Equal(t, int64(3000), s1.ElapsedMs)

	s2, err := f.svc.MoveState(ctx, g.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, second.Game.Board, s2.Board)
	assert.Equal(t, int64(6000), s2.ElapsedMs)

	_, err = f.svc.MoveState(ctx, g.ID, 3)
	assert.ErrorIs(t, err, ErrMoveNotFound)
	_, err = f.svc.MoveState(ctx, g.ID, -1)
	assert.ErrorIs(t, err, ErrMoveNotFound)
	_, err = f.svc.MoveState(ctx, "missing", 0)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSpanishLabels(t *testing.T) {
	f := newFixture(t, WithLanguage(language.Spanish))
	ctx := context.Background()

	res, err := f.svc.MakeMove(ctx, req("missing", 0, 0, 0, 4))
	require.NoError(t, err)
	assert.Equal(t, "Partida no encontrada", res.Error)

	stats, err := f.svc.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Jugador 1", stats.Players[0].Name)
	assert.Equal(t, "Equipo B", stats.Teams[1].Name)
	assert.Equal(t, "Equipo A", f.svc.Labels().Winner(quixo.WonByTeamA))
}

func TestRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	g, err := f.svc.NewGame(ctx, quixo.TwoPlayers)
	require.NoError(t, err)
	res := playToWin(t, f, g.ID)
	require.True(t, res.Success, res.Error)

	row, moves, err := f.svc.Record(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, quixo.WonByPlayer1, row.Status)
	assert.Equal(t, 9, row.MoveCount)
	require.Len(t, moves, 9)
	assert.Equal(t, row.Board, moves[8].BoardAfter)

	_, _, err = f.svc.Record(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMakeMove_DoubleLineMoverLoses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// pushing (4,4) in at (0,4) completes row 0 for Circle and row 4 for Cross
	board, err := quixo.DecodeBoard("O-O-O-O-X-/.-.-.-.-X-/.-.-.-.-X-/.-.-.-.-X-/X-X-X-X-O-")
	require.NoError(t, err)
	g := store.NewGame("double-line", quixo.TwoPlayers, f.clock.Now())
	g.Board = board
	g.FirstRound = false
	require.NoError(t, f.store.CreateGame(ctx, g))

	f.clock.Advance(time.Minute)
	res, err := f.svc.MakeMove(ctx, req(g.ID, 4, 4, 0, 4))
	require.NoError(t, err)
	require.True(t, res.Success, res.Error)
	assert.Equal(t, 1, res.Move.Player)
	assert.Equal(t, "Circle", res.Move.Symbol)
	assert.Equal(t, quixo.WonByPlayer2, res.Game.Status)
	assert.Equal(t, "Player 2", res.Game.Winner)
	assert.Equal(t, "Cross", res.Game.WinnerSymbol)
	assert.Equal(t, 1, res.Game.CurrentPlayer, "turn does not pass after a win")

	stored, err := f.svc.Game(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, quixo.WonByPlayer2, stored.Status)
	assert.Equal(t, int64(60000), stored.ElapsedMs)

	history, err := f.svc.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Player 2", history[0].Winner)

	stats, err := f.svc.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, Standing{Name: "Player 1", GamesWon: 0, TotalGames: 1, Effectiveness: 0}, stats.Players[0])
	assert.Equal(t, Standing{Name: "Player 2", GamesWon: 1, TotalGames: 1, Effectiveness: 100}, stats.Players[1])
}

func TestLegal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	g, err := f.svc.NewGame(ctx, quixo.TwoPlayers)
	require.NoError(t, err)

	lm, err := f.svc.Legal(ctx, g.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, lm.Player)
	assert.Len(t, lm.Pickable, 16)
	assert.Nil(t, lm.From)
	assert.Nil(t, lm.Placements)

	res, err := f.svc.MakeMove(ctx, req(g.ID, 0, 0, 0, 4))
	require.NoError(t, err)
	require.True(t, res.Success, res.Error)

	lm, err = f.svc.Legal(ctx, g.ID, &quixo.Position{Row: 4, Col: 4})
	require.NoError(t, err)
	assert.Equal(t, 2, lm.Player)
	assert.Len(t, lm.Pickable, 15)
	assert.NotContains(t, lm.Pickable, quixo.Position{Row: 0, Col: 4}, "player 2 may not take a Circle")
	assert.Equal(t, res.Game.Pickable, lm.Pickable)
	assert.Equal(t, quixo.ValidPlacements(4, 4), lm.Placements)

	lm, err = f.svc.Legal(ctx, g.ID, &quixo.Position{Row: 0, Col: 4})
	require.NoError(t, err)
	assert.Empty(t, lm.Placements)

	_, err = f.svc.Legal(ctx, "missing", nil)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestWatch_ViewPrecedesConcurrentMove(t *testing.T) {
	var (
		mu    sync.Mutex
		order []int
	)
	record := func(v GameView) {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, v.MoveCount)
	}
	recorded := func() int {
		mu.Lock()
		defer mu.Unlock()
		return len(order)
	}

	f := newFixture(t, WithNotifier(notifierFunc(record)))
	ctx := context.Background()
	g, err := f.svc.NewGame(ctx, quixo.TwoPlayers)
	require.NoError(t, err)

	done := make(chan MoveResult, 1)
	err = f.svc.Watch(ctx, g.ID, func(v GameView) {
		record(v)
		go func() {
			res, err := f.svc.MakeMove(ctx, req(g.ID, 0, 0, 0, 4))
			assert.NoError(t, err)
			done <- res
		}()
		// the move waits for the watch to finish
		time.Sleep(50 * time.Millisecond)
		assert.Equal(t, 1, recorded())
	})
	require.NoError(t, err)

	res := <-done
	require.True(t, res.Success, res.Error)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{0, 1}, order)
}

func TestWatch_NotFound(t *testing.T) {
	f := newFixture(t)

	called := false
	err := f.svc.Watch(context.Background(), "missing", func(GameView) { called = true })
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.False(t, called)
}
