// Package replay rebuilds games from their move logs.
//
// A stored game is fully determined by its mode and its move log: replaying
// every move through quixo.ApplyMove from a fresh state must reproduce each
// recorded board and the final game row. Verify checks exactly that and
// reports the first place where the log and the rules disagree.
//
// Frames serves move-by-move viewing; frame 0 is the initial board.
package replay
