package session

import (
	"tictacbot/internal/game"
	"tictacbot/internal/protocol"
)

// TurnController holds the latest board and whether a move is owed. Only the
// session goroutine touches it.
type TurnController struct {
	board   game.Board
	pending bool
	updates int
}

// Apply replaces the board with u's snapshot and sets the pending flag to
// u.IsMyTurn. A "not my turn" update clears an unplayed obligation.
func (t *TurnController) Apply(u protocol.Update) {
	t.board = u.Board
	t.pending = u.IsMyTurn
	t.updates++
}

// ConsumePending returns the pending flag and clears it.
func (t *TurnController) ConsumePending() bool {
	p := t.pending
	t.pending = false
	return p
}

// Pending reports the flag without clearing it.
func (t *TurnController) Pending() bool { return t.pending }

// Board returns a copy of the current board.
func (t *TurnController) Board() game.Board { return t.board }

// Updates counts applied updates.
func (t *TurnController) Updates() int { return t.updates }
