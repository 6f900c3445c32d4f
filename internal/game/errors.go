package game

import (
	"fmt"

	"github.com/justinabrahms/chessvariants/internal/chess"
)

// Each error wraps chess.ErrIllegalMove or chess.ErrInvalidState so callers
// can classify with errors.Is at either level.
var (
	ErrNoPiece     = fmt.Errorf("no piece on that cell: %w", chess.ErrIllegalMove)
	ErrNotYourTurn = fmt.Errorf("not your turn: %w", chess.ErrIllegalMove)
	ErrKingCapture = fmt.Errorf("kings cannot be captured: %w", chess.ErrIllegalMove)

	ErrGameOver           = fmt.Errorf("game is over: %w", chess.ErrInvalidState)
	ErrPromotionPending   = fmt.Errorf("promotion pending: %w", chess.ErrInvalidState)
	ErrNoPromotionPending = fmt.Errorf("no promotion pending: %w", chess.ErrInvalidState)

	// ErrStale is returned when an engine move arrives after the game moved on.
	ErrStale = fmt.Errorf("game advanced since the engine started: %w", chess.ErrInvalidState)
)
