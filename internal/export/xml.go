package export

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/roach88/quixo/internal/quixo"
	"github.com/roach88/quixo/internal/store"
)

// TimeLayout is the layout of CreatedAt and FinishedAt.
const TimeLayout = "2006-01-02 15:04:05"

// Header is written before the Game element.
const Header = `<?xml version="1.0" encoding="utf-8" standalone="yes"?>` + "\n"

// Game is the root element of an exported game.
type Game struct {
	XMLName       xml.Name `xml:"Game"`
	ID            string   `xml:"Id"`
	Mode          string   `xml:"Mode"`
	CreatedAt     string   `xml:"CreatedAt"`
	FinishedAt    string   `xml:"FinishedAt"`
	Duration      string   `xml:"Duration"`
	Status        string   `xml:"Status"`
	CurrentPlayer int      `xml:"CurrentPlayer"`
	IsFirstRound  bool     `xml:"IsFirstRound"`
	BoardState    string   `xml:"BoardState"`
	Moves         Moves    `xml:"Moves"`
}

// Moves wraps the move list so an empty log still yields <Moves></Moves>.
type Moves struct {
	Move []Move `xml:"Move"`
}

// Move is one exported move.
type Move struct {
	MoveNumber      int    `xml:"MoveNumber"`
	Player          int    `xml:"Player"`
	FromRow         int    `xml:"FromRow"`
	FromCol         int    `xml:"FromCol"`
	ToRow           int    `xml:"ToRow"`
	ToCol           int    `xml:"ToCol"`
	Symbol          string `xml:"Symbol"`
	PointDirection  string `xml:"PointDirection"`
	TimeElapsed     string `xml:"TimeElapsed"`
	BoardStateAfter string `xml:"BoardStateAfter"`
}

// Build maps g and its moves onto the document, preserving move order.
func Build(g store.Game, moves []store.MoveRecord) Game {
	doc := Game{
		XMLName:       xml.Name{Local: "Game"},
		ID:            g.ID,
		Mode:          g.Mode.String(),
		CreatedAt:     g.CreatedAt.Format(TimeLayout),
		Status:        g.Status.String(),
		CurrentPlayer: g.CurrentPlayer,
		IsFirstRound:  g.FirstRound,
		BoardState:    quixo.EncodeBoard(g.Board),
		Moves:         Moves{Move: make([]Move, 0, len(moves))},
	}
	if !g.FinishedAt.IsZero() {
		doc.FinishedAt = g.FinishedAt.Format(TimeLayout)
		doc.Duration = FormatDuration(g.Duration)
	}
	for _, m := range moves {
		doc.Moves.Move = append(doc.Moves.Move, Move{
			MoveNumber:      m.Number,
			Player:          m.Player,
			FromRow:         m.From.Row,
			FromCol:         m.From.Col,
			ToRow:           m.To.Row,
			ToCol:           m.To.Col,
			Symbol:          m.Symbol.String(),
			PointDirection:  m.Facing.String(),
			TimeElapsed:     FormatDuration(m.Elapsed),
			BoardStateAfter: quixo.EncodeBoard(m.BoardAfter),
		})
	}
	return doc
}

// Write writes the XML declaration and the indented document to w.
func Write(w io.Writer, g store.Game, moves []store.MoveRecord) error {
	if _, err := io.WriteString(w, Header); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(Build(g, moves)); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

// FormatDuration renders d as hh:mm:ss, truncating to whole seconds.
// Hours are not wrapped at 24.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs/60%60, secs%60)
}

// Filename returns the default export file name for game id at time at:
// quixo_game_<id>_<yyyyMMddHHmmss>.xml.
func Filename(id string, at time.Time) string {
	return "quixo_game_" + id + "_" + at.Format("20060102150405") + ".xml"
}

// EnsureXMLExtension appends ".xml" to name unless it already ends with it.
func EnsureXMLExtension(name string) string {
	if strings.HasSuffix(name, ".xml") {
		return name
	}
	return name + ".xml"
}

// Parse reads a document written by Write. It is the inverse of Build for
// the fields the document carries.
func Parse(r io.Reader) (Game, error) {
	var doc Game
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return Game{}, fmt.Errorf("parse export: %w", err)
	}
	return doc, nil
}

// Board decodes BoardState.
func (g Game) Board() (quixo.Board, error) {
	return quixo.DecodeBoard(g.BoardState)
}
