// Package export renders a stored game and its move log as an XML document.
//
// The document has one element per field and lists moves in move order. It
// carries no game logic: every value is copied from the store rows.
package export
