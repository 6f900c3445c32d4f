package chess

// Generator yields the legal destinations of a piece. Variants may narrow
// the standard rules by wrapping LegalDestinations.
type Generator interface {
	LegalDestinations(p *Position, pc *Piece) CellSet
}

// Standard is the Generator for orthodox legality.
type Standard struct{}

func (Standard) LegalDestinations(p *Position, pc *Piece) CellSet {
	return LegalDestinations(p, pc)
}

// ExposesKing plays m on p, reports whether the mover's own king is then
// attacked, and reverts. Every self-check question goes through here.
func ExposesKing(p *Position, m Move) bool {
	u := p.Apply(m)
	defer p.Revert(u)
	return IsKingInCheck(p, m.Piece.Side)
}

// LegalDestinations returns the cells pc may legally move to, independent of
// whose turn it is. Nothing is legal while a promotion is pending.
func LegalDestinations(p *Position, pc *Piece) CellSet {
	if p.pending != nil || p.board[pc.Cell] != pc {
		return 0
	}
	cands := CandidateDestinations(p, pc)
	if pc.Kind == Pawn {
		cands |= enPassantCandidate(p, pc)
	}
	var legal CellSet
	for _, to := range cands.Cells() {
		if target := p.board[to]; target != nil && target.Kind == King {
			continue
		}
		m, err := BuildMove(p, pc.Cell, to, NoKind)
		if err != nil {
			continue
		}
		if m.Castle {
			c, _ := castleFor(p, pc, to)
			if !castleSafe(p, pc, c) {
				continue
			}
		} else if ExposesKing(p, m) {
			continue
		}
		legal = legal.Add(to)
	}
	return legal
}

// enPassantCandidate returns the en-passant target if pc can capture onto it.
// The victim sits one rank behind the target, not on it.
func enPassantCandidate(p *Position, pc *Piece) CellSet {
	ep := p.enPassant
	if !ep.Valid() || ep.Rank()-pc.Cell.Rank() != pc.Side.forward() || abs(ep.File()-pc.Cell.File()) != 1 {
		return 0
	}
	behind, _ := ep.Offset(0, -pc.Side.forward())
	victim := p.board[behind]
	if victim == nil || victim.Kind != Pawn || victim.Side == pc.Side || p.board[ep] != nil {
		return 0
	}
	return CellSet(0).Add(ep)
}

// castleSafe checks the attack conditions of a castle: the king is not in
// check now, at any cell it crosses, or on arrival.
func castleSafe(p *Position, king *Piece, c castle) bool {
	if IsKingInCheck(p, king.Side) {
		return false
	}
	if !crossingSafe(p, king, c) {
		return false
	}
	m := Move{
		From: king.Cell, To: c.kingTo, Piece: king, CaptureCell: NoCell,
		Castle: true, RookFrom: c.rookFrom, RookTo: c.rookTo,
	}
	return !ExposesKing(p, m)
}

// isStep reports whether to is one king step from from.
func isStep(from, to Cell) bool {
	return abs(to.File()-from.File()) <= 1 && abs(to.Rank()-from.Rank()) <= 1
}

// crossingSafe simulates the king stepping onto each crossed cell. The
// castling rook is lifted meanwhile since a shuffled rook may sit on the
// king's path.
func crossingSafe(p *Position, king *Piece, c castle) bool {
	rook := p.board[c.rookFrom]
	p.board[c.rookFrom] = nil
	defer func() { p.board[c.rookFrom] = rook }()
	for _, cell := range c.path[:len(c.path)-1] {
		step := Move{From: king.Cell, To: cell, Piece: king, CaptureCell: NoCell, RookFrom: NoCell, RookTo: NoCell}
		if ExposesKing(p, step) {
			return false
		}
	}
	return true
}

// Moves lists side's legal moves: pieces in board-scan order, each piece's
// destinations in board-scan order. Pawn moves to the last rank carry
// promotion.
func Moves(p *Position, gen Generator, side Side, promotion Kind) []Move {
	var out []Move
	for _, pc := range p.Pieces(side) {
		for _, to := range gen.LegalDestinations(p, pc).Cells() {
			m, err := BuildMove(p, pc.Cell, to, promotion)
			if err != nil {
				continue
			}
			out = append(out, m)
		}
	}
	return out
}

// HasLegalMove reports whether side has at least one legal move.
func HasLegalMove(p *Position, gen Generator, side Side) bool {
	for _, pc := range p.Pieces(side) {
		if !gen.LegalDestinations(p, pc).Empty() {
			return true
		}
	}
	return false
}

// Classify returns side's status: checkmate or stalemate when it has no
// legal move, check when attacked, ongoing otherwise.
func Classify(p *Position, gen Generator, side Side) Outcome {
	inCheck := IsKingInCheck(p, side)
	if !HasLegalMove(p, gen, side) {
		if inCheck {
			return Checkmate
		}
		return Stalemate
	}
	if inCheck {
		return Check
	}
	return Ongoing
}
