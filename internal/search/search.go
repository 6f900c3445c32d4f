// Package search implements a depth-limited minimax player over material
// evaluation. Candidate moves are applied to the position in place and
// reverted before the search returns.
package search

import (
	"context"
	"errors"
	"math"

	"github.com/justinabrahms/chessvariants/internal/chess"
)

// ErrSearchExhausted means the side to search has no candidate move. It only
// coincides with checkmate or stalemate for that side.
var ErrSearchExhausted = errors.New("search: no move available")

const (
	DefaultDepth = 2
	historySize  = 10
)

// Result is the chosen move and its score from the searching side's view.
type Result struct {
	Move  chess.Move
	Score int
}

// AI is a minimax player. It is not safe for concurrent use; run one search
// at a time against a position nothing else mutates.
type AI struct {
	gen     chess.Generator
	depth   int
	history []string
}

type Option func(*AI)

// WithDepth sets the search depth in plies. Values below 1 are clamped to 1.
func WithDepth(depth int) Option {
	return func(a *AI) {
		if depth < 1 {
			depth = 1
		}
		a.depth = depth
	}
}

func New(gen chess.Generator, opts ...Option) *AI {
	a := &AI{gen: gen, depth: DefaultDepth}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *AI) Depth() int { return a.depth }

// ChooseMove searches p for side and records the chosen move in the
// repetition history. The move's piece pointers refer to p.
func (a *AI) ChooseMove(ctx context.Context, p *chess.Position, side chess.Side) (chess.Move, error) {
	if err := ctx.Err(); err != nil {
		return chess.Move{}, err
	}
	res, err := a.Search(p, side)
	if err != nil {
		return chess.Move{}, err
	}
	a.Record(res.Move)
	return res.Move, nil
}

// Search scores every candidate for side and returns the first move with the
// best score. p is left exactly as it was.
func (a *AI) Search(p *chess.Position, side chess.Side) (Result, error) {
	moves := a.candidates(p, side)
	if len(moves) == 0 {
		return Result{}, ErrSearchExhausted
	}
	best := Result{Move: moves[0], Score: math.MinInt}
	for _, m := range moves {
		u := p.Apply(m)
		score := a.minimax(p, a.depth-1, side.Opposite(), side)
		p.Revert(u)
		if score > best.Score {
			best = Result{Move: m, Score: score}
		}
	}
	return best, nil
}

func (a *AI) minimax(p *chess.Position, depth int, toMove, self chess.Side) int {
	if depth <= 0 {
		return evaluate(p, self)
	}
	var moves []chess.Move
	if toMove == self {
		moves = a.candidates(p, toMove)
	} else {
		moves = chess.Moves(p, a.gen, toMove, chess.Queen)
	}
	if len(moves) == 0 {
		return evaluate(p, self)
	}

	maximizing := toMove == self
	best := math.MaxInt
	if maximizing {
		best = math.MinInt
	}
	for _, m := range moves {
		u := p.Apply(m)
		score := a.minimax(p, depth-1, toMove.Opposite(), self)
		p.Revert(u)
		if maximizing && score > best || !maximizing && score < best {
			best = score
		}
	}
	return best
}

// candidates lists self's moves minus those that would repeat the last two
// recorded moves. If that removes everything the filter is dropped.
func (a *AI) candidates(p *chess.Position, side chess.Side) []chess.Move {
	all := chess.Moves(p, a.gen, side, chess.Queen)
	n := len(a.history)
	if n < 2 || a.history[n-1] != a.history[n-2] {
		return all
	}
	repeated := a.history[n-1]
	filtered := make([]chess.Move, 0, len(all))
	for _, m := range all {
		if m.Signature() != repeated {
			filtered = append(filtered, m)
		}
	}
	if len(filtered) == 0 {
		return all
	}
	return filtered
}

// Record appends a move played by this AI to its history.
func (a *AI) Record(m chess.Move) {
	a.history = append(a.history, m.Signature())
	if len(a.history) > historySize {
		a.history = a.history[len(a.history)-historySize:]
	}
}

// History returns the recorded signatures, oldest first.
func (a *AI) History() []string {
	return append([]string(nil), a.history...)
}

// Reset forgets the move history.
func (a *AI) Reset() { a.history = nil }

// evaluate scores p from self's side. Material is White-positive, so Black
// maximizes its negation.
func evaluate(p *chess.Position, self chess.Side) int {
	score := chess.Evaluate(p)
	if self == chess.Black {
		return -score
	}
	return score
}
