// Package server exposes a session.Service over HTTP.
//
// Routes:
//
//	POST /games                  create a game, body {"mode": "TwoPlayers"}
//	GET  /games/:id              current game view
//	POST /games/:id/moves        apply a move, body is a session.MoveRequest
//	POST /games/:id/reset        clear the move log
//	GET  /games/:id/moves        move log
//	GET  /games/:id/moves/:n     board after move n (0 is the initial board)
//	GET  /games/:id/export       XML export as an attachment
//	GET  /games/:id/watch        websocket feed of game views
//	GET  /history                finished games, newest first
//	GET  /stats                  player and team standings
//
// Errors are JSON objects {"error": "...", "code": "..."}. A move refused by
// the rules is not an HTTP error: it answers 200 with success false, as a
// client needs the message and the unchanged game.
package server
