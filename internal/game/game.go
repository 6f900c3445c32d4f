// Package game is the turn controller: it owns the live position, routes
// moves through the active rule set and tracks the game state.
package game

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/justinabrahms/chessvariants/internal/chess"
	"github.com/justinabrahms/chessvariants/internal/variant"
)

// Game is a single game session. It is not safe for concurrent use.
type Game struct {
	rules     variant.RuleSet
	pos       *chess.Position
	state     State
	winner    chess.Side
	hasWinner bool
	plies     int
	version   uint64
	log       zerolog.Logger
}

type Option func(*Game)

func WithLogger(l zerolog.Logger) Option {
	return func(g *Game) { g.log = l }
}

// New starts a game in the setup state on the rule set's initial board.
func New(rules variant.RuleSet, opts ...Option) *Game {
	g := &Game{rules: rules, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(g)
	}
	g.Reset()
	return g
}

// Reset discards the position and starts over from the initial board.
func (g *Game) Reset() {
	g.pos = g.rules.InitializeBoard()
	g.state = StateSetup
	g.hasWinner = false
	g.plies = 0
	g.version++
	g.log.Info().Str("variant", g.rules.Name()).Str("fen", g.pos.FEN()).Msg("Game reset")
}

func (g *Game) Rules() variant.RuleSet { return g.rules }
func (g *Game) State() State           { return g.state }
func (g *Game) Turn() chess.Side       { return g.pos.Turn() }
func (g *Game) FEN() string            { return g.pos.FEN() }
func (g *Game) Version() uint64        { return g.version }

// Winner returns the winning side once the game is decided.
func (g *Game) Winner() (chess.Side, bool) { return g.winner, g.hasWinner }

// Snapshot returns a copy of the live position.
func (g *Game) Snapshot() *chess.Position { return g.pos.Clone() }

// Piece returns the piece on c, or nil.
func (g *Game) Piece(c chess.Cell) *chess.Piece { return g.pos.At(c) }

// Destinations returns the legal destinations of the piece on c for move
// highlighting. It is empty for an empty cell, during a pending promotion
// and once the game is over.
func (g *Game) Destinations(c chess.Cell) chess.CellSet {
	pc := g.pos.At(c)
	if pc == nil || g.state.Terminal() || g.state == StatePendingPromotion {
		return 0
	}
	return g.rules.LegalDestinations(g.pos, pc)
}

// Fogged returns the cells hidden from the fog viewer, if the rule set
// hides any.
func (g *Game) Fogged() (chess.CellSet, bool) {
	if f, ok := g.rules.(interface{ Fogged() chess.CellSet }); ok {
		return f.Fogged(), true
	}
	return 0, false
}

// Move plays the piece on from to to. A pawn reaching its last rank with
// promotion NoKind leaves the game pending until Promote. Any error leaves
// the game unchanged.
func (g *Game) Move(from, to chess.Cell, promotion chess.Kind) (*MoveResult, error) {
	switch {
	case g.state.Terminal():
		return nil, ErrGameOver
	case g.state == StatePendingPromotion:
		return nil, ErrPromotionPending
	}
	pc := g.pos.At(from)
	if pc == nil {
		return nil, fmt.Errorf("%s: %w", from, ErrNoPiece)
	}
	if pc.Side != g.pos.Turn() {
		return nil, fmt.Errorf("%s moves next: %w", g.pos.Turn(), ErrNotYourTurn)
	}
	if target := g.pos.At(to); target != nil && target.Kind == chess.King && target.Side != pc.Side {
		return nil, ErrKingCapture
	}
	if !g.rules.IsMoveLegal(g.pos, pc, to) {
		return nil, fmt.Errorf("%w: %s %s to %s", chess.ErrIllegalMove, pc.Kind, from, to)
	}
	if promotion != chess.NoKind && !promotion.CanPromoteTo() {
		return nil, fmt.Errorf("%w: cannot promote to %s", chess.ErrIllegalMove, promotion)
	}

	m, err := chess.BuildMove(g.pos, from, to, promotion)
	if err != nil {
		return nil, err
	}
	g.pos.Apply(m)

	res := &MoveResult{
		From:      from.String(),
		To:        to.String(),
		Castle:    m.Castle,
		EnPassant: m.EnPassant,
	}
	if m.Captured != nil {
		res.Captured = m.Captured.Kind.String()
	}
	if g.pos.Pending() != nil {
		g.rules.AfterMove(g.pos)
		g.state = StatePendingPromotion
		g.version++
		res.Pending = true
		res.FEN = g.pos.FEN()
		res.Version = g.version
		g.log.Debug().Str("from", res.From).Str("to", res.To).Msg("Promotion pending")
		return res, nil
	}
	if m.IsPromotion() {
		res.Promotion = m.Promotion.String()
	}
	g.finish(res)
	return res, nil
}

// Promote completes a pending promotion.
func (g *Game) Promote(kind chess.Kind) (*MoveResult, error) {
	if g.state != StatePendingPromotion {
		return nil, ErrNoPromotionPending
	}
	pawn := g.pos.Pending()
	if err := g.pos.Promote(kind); err != nil {
		return nil, err
	}
	res := &MoveResult{
		To:        pawn.Cell.String(),
		Promotion: kind.String(),
	}
	g.finish(res)
	return res, nil
}

// finish runs the turn-end bookkeeping after a completed move.
func (g *Game) finish(res *MoveResult) {
	g.plies++
	g.rules.AfterMove(g.pos)
	g.evaluate()
	g.version++

	res.FEN = g.pos.FEN()
	res.Check = g.state == StateCheck
	res.Checkmate = g.state == StateCheckmate
	res.Stalemate = g.state == StateStalemate
	res.GameOver = g.state.Terminal()
	res.Result = g.result()
	res.Version = g.version

	ev := g.log.Debug()
	if res.GameOver {
		ev = g.log.Info()
	}
	ev.Str("from", res.From).Str("to", res.To).Str("state", string(g.state)).Str("fen", res.FEN).Msg("Move applied")
}

func (g *Game) evaluate() {
	if side, ok := g.rules.Winner(g.pos); ok {
		g.state, g.winner, g.hasWinner = StateWon, side, true
		return
	}
	toMove := g.pos.Turn()
	switch {
	case g.rules.IsCheckmate(g.pos, toMove):
		g.state, g.winner, g.hasWinner = StateCheckmate, toMove.Opposite(), true
	case g.rules.IsStalemate(g.pos, toMove):
		g.state = StateStalemate
	case g.rules.IsKingInCheck(g.pos, toMove):
		g.state = StateCheck
	default:
		g.state = StateToMove
	}
}

// result renders the outcome as "1-0", "0-1", "1/2-1/2", or "*" while the
// game is still running.
func (g *Game) result() string {
	switch {
	case g.hasWinner && g.winner == chess.White:
		return "1-0"
	case g.hasWinner:
		return "0-1"
	case g.state == StateStalemate:
		return "1/2-1/2"
	}
	return "*"
}

func (g *Game) Status() Status {
	s := Status{
		Variant:  g.rules.Name(),
		State:    g.state,
		Turn:     g.pos.Turn().String(),
		FEN:      g.pos.FEN(),
		Check:    g.rules.IsKingInCheck(g.pos, g.pos.Turn()),
		Result:   g.result(),
		Plies:    g.plies,
		Version:  g.version,
		Material: chess.CountMaterial(g.pos),
	}
	if g.hasWinner {
		s.Winner = g.winner.String()
	}
	return s
}

// PrepareEngineTurn detaches a copy of the position for side to think on.
func (g *Game) PrepareEngineTurn(side chess.Side) (EngineTurn, error) {
	switch {
	case g.state.Terminal():
		return EngineTurn{}, ErrGameOver
	case g.state == StatePendingPromotion:
		return EngineTurn{}, ErrPromotionPending
	case g.pos.Turn() != side:
		return EngineTurn{}, fmt.Errorf("%s moves next: %w", g.pos.Turn(), ErrNotYourTurn)
	}
	return EngineTurn{Position: g.pos.Clone(), Side: side, Version: g.version}, nil
}

// ApplyEngineMove plays a move computed for turn. It fails with ErrStale if
// the game changed since turn was prepared. Engines always promote to a
// queen unless they say otherwise.
func (g *Game) ApplyEngineMove(turn EngineTurn, m chess.Move) (*MoveResult, error) {
	if turn.Version != g.version {
		return nil, ErrStale
	}
	promotion := m.Promotion
	if promotion == chess.NoKind && isPromotion(g.pos, m.From, m.To) {
		promotion = chess.Queen
	}
	return g.Move(m.From, m.To, promotion)
}

// PlayEngine runs mover synchronously for the side to move and applies its
// move. A failed or canceled search leaves the game unchanged.
func (g *Game) PlayEngine(ctx context.Context, mover Mover) (*MoveResult, error) {
	turn, err := g.PrepareEngineTurn(g.pos.Turn())
	if err != nil {
		return nil, err
	}
	m, err := mover.ChooseMove(ctx, turn.Position, turn.Side)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	return g.ApplyEngineMove(turn, m)
}

func isPromotion(p *chess.Position, from, to chess.Cell) bool {
	pc := p.At(from)
	if pc == nil || pc.Kind != chess.Pawn {
		return false
	}
	return (pc.Side == chess.White && to.Rank() == 7) || (pc.Side == chess.Black && to.Rank() == 0)
}
