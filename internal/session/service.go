package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/text/language"

	"github.com/roach88/quixo/internal/quixo"
	"github.com/roach88/quixo/internal/store"
)

// ErrMoveNotFound is returned by MoveState for a move number the game
// does not have.
var ErrMoveNotFound = errors.New("move not found")

// Repository is the persistence the service needs. *store.Store implements it.
type Repository interface {
	CreateGame(ctx context.Context, g store.Game) error
	GetGame(ctx context.Context, id string) (store.Game, error)
	AppendMove(ctx context.Context, prevCount int, next store.Game, m store.MoveRecord) (store.Game, store.MoveRecord, error)
	ResetGame(ctx context.Context, id string, createdAt time.Time) (store.Game, error)
	ListFinishedGames(ctx context.Context) ([]store.Game, error)
	ListMoves(ctx context.Context, gameID string) ([]store.MoveRecord, error)
	GetMove(ctx context.Context, gameID string, n int) (store.MoveRecord, error)
	Statistics(ctx context.Context, mode quixo.Mode) (store.Tally, error)
}

// Notifier is told about every game whose state changed.
type Notifier interface {
	GameUpdated(v GameView)
}

// Service runs games on top of a Repository.
//
// Thread-safety: all methods are safe for concurrent use. Mutations of
// one game id are serialized.
type Service struct {
	repo     Repository
	clock    Clock
	ids      IDGenerator
	notifier Notifier
	labels   Labeler
	locks    *gameLocks
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the clock used for creation times and elapsed time.
// Default: wall clock.
func WithClock(c Clock) Option {
	return func(s *Service) {
		s.clock = c
	}
}

// WithIDGenerator sets the game id generator. Default: UUIDv7Generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Service) {
		s.ids = g
	}
}

// WithNotifier registers n for game updates.
func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

// WithLanguage sets the language of winner labels and rejection messages.
// Default: English.
func WithLanguage(tag language.Tag) Option {
	return func(s *Service) {
		s.labels = NewLabeler(tag)
	}
}

// New creates a Service over repo.
func New(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		clock:  wallClock{},
		ids:    UUIDv7Generator{},
		labels: NewLabeler(language.English),
		locks:  newGameLocks(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Labels returns the service's Labeler.
func (s *Service) Labels() Labeler {
	return s.labels
}

// NewGame creates and stores a game in its initial state.
func (s *Service) NewGame(ctx context.Context, mode quixo.Mode) (GameView, error) {
	g := store.NewGame(s.ids.Generate(), mode, s.clock.Now())
	if err := s.repo.CreateGame(ctx, g); err != nil {
		return GameView{}, fmt.Errorf("new game: %w", err)
	}

	slog.Info("game created", "game_id", g.ID, "mode", mode)
	return s.view(g), nil
}

// Game returns the current view of a game.
// Returns an error wrapping store.ErrNotFound for an unknown id.
func (s *Service) Game(ctx context.Context, id string) (GameView, error) {
	g, err := s.repo.GetGame(ctx, id)
	if err != nil {
		return GameView{}, fmt.Errorf("game: %w", err)
	}
	return s.view(g), nil
}

// Watch calls fn with the current view of a game while holding the game's
// lock, so no move or reset lands between the read and fn. Notifications
// are sent under the same lock; a notifier subscribed inside fn receives
// every later update after that view.
// Returns an error wrapping store.ErrNotFound for an unknown id.
func (s *Service) Watch(ctx context.Context, id string, fn func(GameView)) error {
	unlock := s.locks.lock(id)
	defer unlock()

	g, err := s.repo.GetGame(ctx, id)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	fn(s.view(g))
	return nil
}

// Reset clears the move log of a game and restores its initial state.
// Returns an error wrapping store.ErrNotFound for an unknown id.
func (s *Service) Reset(ctx context.Context, id string) (GameView, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	g, err := s.repo.ResetGame(ctx, id, s.clock.Now())
	if err != nil {
		return GameView{}, fmt.Errorf("reset: %w", err)
	}

	slog.Info("game reset", "game_id", id, "mode", g.Mode)
	v := s.view(g)
	s.notify(v)
	return v, nil
}

// History lists finished games, newest first.
func (s *Service) History(ctx context.Context) ([]GameView, error) {
	games, err := s.repo.ListFinishedGames(ctx)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}

	views := make([]GameView, 0, len(games))
	for _, g := range games {
		views = append(views, s.view(g))
	}
	return views, nil
}

// Moves returns the move log of a game in order.
// Returns an error wrapping store.ErrNotFound for an unknown id.
func (s *Service) Moves(ctx context.Context, id string) ([]MoveView, error) {
	if _, err := s.repo.GetGame(ctx, id); err != nil {
		return nil, fmt.Errorf("moves: %w", err)
	}
	records, err := s.repo.ListMoves(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("moves: %w", err)
	}

	views := make([]MoveView, 0, len(records))
	for _, m := range records {
		views = append(views, moveView(m))
	}
	return views, nil
}

// Record returns the stored game row and its full move log, the input of
// export and replay verification.
func (s *Service) Record(ctx context.Context, id string) (store.Game, []store.MoveRecord, error) {
	g, err := s.repo.GetGame(ctx, id)
	if err != nil {
		return store.Game{}, nil, fmt.Errorf("record: %w", err)
	}
	moves, err := s.repo.ListMoves(ctx, id)
	if err != nil {
		return store.Game{}, nil, fmt.Errorf("record: %w", err)
	}
	return g, moves, nil
}

// MoveState returns the board after move n. Move 0 is the initial board.
// Returns ErrMoveNotFound when n is negative or past the last move.
func (s *Service) MoveState(ctx context.Context, id string, n int) (BoardState, error) {
	g, err := s.repo.GetGame(ctx, id)
	if err != nil {
		return BoardState{}, fmt.Errorf("move state: %w", err)
	}
	if n == 0 {
		return BoardState{GameID: id, Board: quixo.NewBoard()}, nil
	}
	if n < 0 || n > g.MoveCount {
		return BoardState{}, fmt.Errorf("move state %s/%d: %w", id, n, ErrMoveNotFound)
	}

	m, err := s.repo.GetMove(ctx, id, n)
	if errors.Is(err, store.ErrNotFound) {
		return BoardState{}, fmt.Errorf("move state %s/%d: %w", id, n, ErrMoveNotFound)
	}
	if err != nil {
		return BoardState{}, fmt.Errorf("move state: %w", err)
	}

	mv := moveView(m)
	return BoardState{
		GameID:    id,
		Number:    m.Number,
		Board:     m.BoardAfter,
		ElapsedMs: m.Elapsed.Milliseconds(),
		Move:      &mv,
	}, nil
}

// Legal returns the cubes the player to move may take. When from is not
// nil and names one of them, the destinations for that cube are included.
// Returns an error wrapping store.ErrNotFound for an unknown id.
func (s *Service) Legal(ctx context.Context, id string, from *quixo.Position) (LegalMoves, error) {
	g, err := s.repo.GetGame(ctx, id)
	if err != nil {
		return LegalMoves{}, fmt.Errorf("legal: %w", err)
	}

	lm := LegalMoves{
		GameID:   id,
		Player:   g.CurrentPlayer,
		Pickable: quixo.LegalOrigins(g.State()),
	}
	if from == nil {
		return lm, nil
	}
	lm.From = from
	lm.Placements = []quixo.Position{}
	for _, p := range lm.Pickable {
		if p == *from {
			lm.Placements = quixo.ValidPlacements(from.Row, from.Col)
			break
		}
	}
	return lm, nil
}

// Statistics returns player standings over finished two-player games and
// team standings over finished four-player games. Every finished game
// counts towards the total of both sides.
func (s *Service) Statistics(ctx context.Context) (Statistics, error) {
	players, err := s.repo.Statistics(ctx, quixo.TwoPlayers)
	if err != nil {
		return Statistics{}, fmt.Errorf("statistics: %w", err)
	}
	teams, err := s.repo.Statistics(ctx, quixo.FourPlayers)
	if err != nil {
		return Statistics{}, fmt.Errorf("statistics: %w", err)
	}

	return Statistics{
		Players: []Standing{
			newStanding(s.labels.Player(1), players.First, players.Total),
			newStanding(s.labels.Player(2), players.Second, players.Total),
		},
		Teams: []Standing{
			newStanding(s.labels.Team(quixo.TeamA), teams.First, teams.Total),
			newStanding(s.labels.Team(quixo.TeamB), teams.Second, teams.Total),
		},
	}, nil
}

func (s *Service) notify(v GameView) {
	if s.notifier != nil {
		s.notifier.GameUpdated(v)
	}
}
