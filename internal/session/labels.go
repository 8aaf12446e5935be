package session

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/roach88/quixo/internal/quixo"
)

// Message keys. English text doubles as the key.
const (
	msgPlayer         = "Player %d"
	msgTeam           = "Team %s"
	msgGameNotFound   = "game not found"
	msgGameFinished   = "the game has already finished"
	msgConcurrentMove = "another move was applied to this game first"
	msgBadDirection   = "invalid point direction"
	msgOutOfRange     = "coordinates must be between 0 and 4"
	msgNotPeripheral  = "only cubes on the periphery can be taken"
	msgCannotPick     = "you cannot take this cube"
	msgBadDestination = "invalid destination"
	msgMalformedMove  = "malformed move"
	msgInvalidPlayer  = "invalid player"
	msgInvalidFacing  = "invalid facing"
)

var labels = buildCatalog()

func buildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))

	en := map[string]string{
		msgPlayer: msgPlayer,
		msgTeam:   msgTeam,
	}
	es := map[string]string{
		msgPlayer:         "Jugador %d",
		msgTeam:           "Equipo %s",
		msgGameNotFound:   "Partida no encontrada",
		msgGameFinished:   "La partida ya ha finalizado",
		msgConcurrentMove: "Otro movimiento se aplicó antes a esta partida",
		msgBadDirection:   "Dirección inválida",
		msgOutOfRange:     "Las coordenadas deben estar entre 0 y 4",
		msgNotPeripheral:  "Solo se pueden retirar cubos de la periferia",
		msgCannotPick:     "No puedes retirar este cubo",
		msgBadDestination: "Posición de destino inválida",
		msgMalformedMove:  "Movimiento mal formado",
		msgInvalidPlayer:  "Jugador inválido",
		msgInvalidFacing:  "Orientación inválida",
	}
	for k, v := range en {
		b.SetString(language.English, k, v)
	}
	for k, v := range es {
		b.SetString(language.Spanish, k, v)
	}
	return b
}

var matcher = language.NewMatcher([]language.Tag{language.English, language.Spanish})

// ParseLanguage resolves a BCP 47 tag such as "es" or "en-GB" to one of
// the supported languages. Unknown or empty input resolves to English.
func ParseLanguage(s string) language.Tag {
	if s == "" {
		return language.English
	}
	tag, _, _ := matcher.Match(language.Make(s))
	base, _ := tag.Base()
	switch base.String() {
	case "es":
		return language.Spanish
	default:
		return language.English
	}
}

// Labeler renders user-facing text in one language.
type Labeler struct {
	p *message.Printer
}

// NewLabeler returns a Labeler for tag.
func NewLabeler(tag language.Tag) Labeler {
	return Labeler{p: message.NewPrinter(tag, message.Catalog(labels))}
}

// Winner returns the label of the winning side of status, or "" when
// status has no winner.
func (l Labeler) Winner(status quixo.Status) string {
	switch status {
	case quixo.WonByPlayer1:
		return l.p.Sprintf(msgPlayer, 1)
	case quixo.WonByPlayer2:
		return l.p.Sprintf(msgPlayer, 2)
	case quixo.WonByTeamA:
		return l.p.Sprintf(msgTeam, "A")
	case quixo.WonByTeamB:
		return l.p.Sprintf(msgTeam, "B")
	default:
		return ""
	}
}

// Player returns the label of a seat.
func (l Labeler) Player(n int) string {
	return l.p.Sprintf(msgPlayer, n)
}

// Team returns the label of a four-player team.
func (l Labeler) Team(t quixo.Team) string {
	return l.p.Sprintf(msgTeam, t.String())
}

// Text translates one of the fixed messages above.
func (l Labeler) Text(key string) string {
	return l.p.Sprintf(key)
}

// RuleMessage translates the message for a rule rejection code.
func (l Labeler) RuleMessage(code quixo.RuleErrorCode) string {
	switch code {
	case quixo.ErrCodeOutOfRange:
		return l.Text(msgOutOfRange)
	case quixo.ErrCodeGameOver:
		return l.Text(msgGameFinished)
	case quixo.ErrCodeNotPeripheral:
		return l.Text(msgNotPeripheral)
	case quixo.ErrCodeCannotPick:
		return l.Text(msgCannotPick)
	case quixo.ErrCodeInvalidDestination:
		return l.Text(msgBadDestination)
	case quixo.ErrCodeMalformedMove:
		return l.Text(msgMalformedMove)
	case quixo.ErrCodeInvalidFacing:
		return l.Text(msgInvalidFacing)
	case quixo.ErrCodeInvalidPlayer:
		return l.Text(msgInvalidPlayer)
	default:
		return string(code)
	}
}
