package game

import (
	"context"

	"github.com/justinabrahms/chessvariants/internal/chess"
)

// State is the controller state of a game.
type State string

const (
	StateSetup            State = "setup"
	StateToMove           State = "to_move"
	StateCheck            State = "check"
	StatePendingPromotion State = "pending_promotion"
	StateCheckmate        State = "checkmate"
	StateStalemate        State = "stalemate"
	StateWon              State = "won"
)

// Terminal reports whether the state only accepts a reset.
func (s State) Terminal() bool {
	return s == StateCheckmate || s == StateStalemate || s == StateWon
}

// Mover supplies a move for side. Implementations may take arbitrarily long
// or fail; the game is not touched until a move is applied.
type Mover interface {
	ChooseMove(ctx context.Context, p *chess.Position, side chess.Side) (chess.Move, error)
}

type MoveResult struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
	FEN       string `json:"fen"`
	Check     bool   `json:"check"`
	Checkmate bool   `json:"checkmate"`
	Stalemate bool   `json:"stalemate"`
	GameOver  bool   `json:"gameOver"`
	Result    string `json:"result"`
	Pending   bool   `json:"pending"`
	Castle    bool   `json:"castle,omitempty"`
	EnPassant bool   `json:"enPassant,omitempty"`
	Captured  string `json:"captured,omitempty"`
	Version   uint64 `json:"version"`
}

type Status struct {
	Variant  string              `json:"variant"`
	State    State               `json:"state"`
	Turn     string              `json:"turn"`
	FEN      string              `json:"fen"`
	Check    bool                `json:"check"`
	Winner   string              `json:"winner,omitempty"`
	Result   string              `json:"result"`
	Plies    int                 `json:"plies"`
	Version  uint64              `json:"version"`
	Material chess.MaterialCount `json:"material"`
}

// EngineTurn is a detached copy of the game handed to a Mover. Version ties
// the eventual move back to the state it was computed for.
type EngineTurn struct {
	Position *chess.Position
	Side     chess.Side
	Version  uint64
}
