package chess

type delta struct{ df, dr int }

var (
	knightOffsets = [...]delta{
		{1, 2}, {2, 1}, {2, -1}, {1, -2},
		{-1, -2}, {-2, -1}, {-2, 1}, {-1, 2},
	}
	kingOffsets = [...]delta{
		{0, 1}, {1, 1}, {1, 0}, {1, -1},
		{0, -1}, {-1, -1}, {-1, 0}, {-1, 1},
	}
	rookDirections   = [...]delta{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}
	bishopDirections = [...]delta{{1, 1}, {1, -1}, {-1, -1}, {-1, 1}}
)

// CandidateDestinations returns the pseudo-legal destinations of pc: the
// cells its movement shape reaches, honoring obstruction, never onto a
// friendly piece. It ignores whose turn it is and whether the mover's king is
// left attacked. En passant is not included; the generator adds it.
func CandidateDestinations(p *Position, pc *Piece) CellSet {
	switch pc.Kind {
	case Pawn:
		return pawnCandidates(p, pc)
	case Knight:
		return stepCandidates(p, pc, knightOffsets[:])
	case Bishop:
		return slide(p, pc, bishopDirections[:], false)
	case Rook:
		return slide(p, pc, rookDirections[:], false)
	case Queen:
		return slide(p, pc, rookDirections[:], false) | slide(p, pc, bishopDirections[:], false)
	case King:
		moves := stepCandidates(p, pc, kingOffsets[:])
		for _, wing := range []Wing{KingSide, QueenSide} {
			if c, ok := castlePlan(p, pc, wing); ok {
				moves = moves.Add(c.kingTo)
			}
		}
		return moves
	}
	return 0
}

func pawnCandidates(p *Position, pc *Piece) CellSet {
	var moves CellSet
	fwd := pc.Side.forward()
	if one, ok := pc.Cell.Offset(0, fwd); ok && p.board[one] == nil {
		moves = moves.Add(one)
		if pc.Cell.Rank() == pc.Side.homeRank()+fwd {
			if two, ok := pc.Cell.Offset(0, 2*fwd); ok && p.board[two] == nil {
				moves = moves.Add(two)
			}
		}
	}
	for _, df := range []int{-1, 1} {
		if c, ok := pc.Cell.Offset(df, fwd); ok {
			if victim := p.board[c]; victim != nil && victim.Side != pc.Side {
				moves = moves.Add(c)
			}
		}
	}
	return moves
}

func stepCandidates(p *Position, pc *Piece, offsets []delta) CellSet {
	var moves CellSet
	for _, d := range offsets {
		c, ok := pc.Cell.Offset(d.df, d.dr)
		if !ok {
			continue
		}
		if occ := p.board[c]; occ == nil || occ.Side != pc.Side {
			moves = moves.Add(c)
		}
	}
	return moves
}

// slide walks each ray until the first occupied cell. The occupied cell is
// included when it holds an enemy piece, or any piece when defended is set.
func slide(p *Position, pc *Piece, dirs []delta, defended bool) CellSet {
	var moves CellSet
	for _, d := range dirs {
		for c, ok := pc.Cell.Offset(d.df, d.dr); ok; c, ok = c.Offset(d.df, d.dr) {
			occ := p.board[c]
			if occ == nil {
				moves = moves.Add(c)
				continue
			}
			if defended || occ.Side != pc.Side {
				moves = moves.Add(c)
			}
			break
		}
	}
	return moves
}

// PathClear reports whether every cell strictly between from and to is empty.
func PathClear(p *Position, from, to Cell) bool {
	for _, c := range between(from, to) {
		if p.board[c] != nil {
			return false
		}
	}
	return true
}

// attacks returns the cells pc attacks: capture reach regardless of what
// occupies the target. Pawns attack diagonally only and kings never
// attack through castling.
func attacks(p *Position, pc *Piece) CellSet {
	var set CellSet
	switch pc.Kind {
	case Pawn:
		for _, df := range []int{-1, 1} {
			if c, ok := pc.Cell.Offset(df, pc.Side.forward()); ok {
				set = set.Add(c)
			}
		}
	case Knight:
		for _, d := range knightOffsets {
			if c, ok := pc.Cell.Offset(d.df, d.dr); ok {
				set = set.Add(c)
			}
		}
	case King:
		for _, d := range kingOffsets {
			if c, ok := pc.Cell.Offset(d.df, d.dr); ok {
				set = set.Add(c)
			}
		}
	case Bishop:
		set = slide(p, pc, bishopDirections[:], true)
	case Rook:
		set = slide(p, pc, rookDirections[:], true)
	case Queen:
		set = slide(p, pc, rookDirections[:], true) | slide(p, pc, bishopDirections[:], true)
	}
	return set
}

type castle struct {
	wing             Wing
	kingTo           Cell
	rookFrom, rookTo Cell
	// path lists the cells the king crosses after leaving its origin,
	// destination included.
	path []Cell
}

// castlePlan checks the structural castling conditions for a wing: rights,
// king and rook unmoved, and every cell the king or rook must reach or cross
// empty apart from the castling pair themselves. Attack conditions are left
// to the legal move generator. The king lands on the g or c file and the rook
// next to it on the f or d file.
func castlePlan(p *Position, king *Piece, wing Wing) (castle, bool) {
	side := king.Side
	rank := side.homeRank()
	if king.Moved || king.Cell.Rank() != rank || !p.castling.Has(side, wing) {
		return castle{}, false
	}
	rookFrom, _ := NewCell(p.rookFiles[wing], rank)
	rook := p.board[rookFrom]
	if rook == nil || rook.Kind != Rook || rook.Side != side || rook.Moved {
		return castle{}, false
	}
	kingFile, rookFile := 6, 5
	if wing == QueenSide {
		kingFile, rookFile = 2, 3
	}
	kingTo, _ := NewCell(kingFile, rank)
	rookTo, _ := NewCell(rookFile, rank)
	if kingTo == king.Cell || kingTo == rookFrom {
		return castle{}, false
	}
	if (wing == KingSide) != (rookFrom.File() > king.Cell.File()) {
		return castle{}, false
	}
	if !PathClear(p, king.Cell, rookFrom) {
		return castle{}, false
	}
	path := append(between(king.Cell, kingTo), kingTo)
	for _, c := range path {
		if occ := p.board[c]; occ != nil && occ != rook {
			return castle{}, false
		}
	}
	if rookTo != rookFrom {
		for _, c := range append(between(rookFrom, rookTo), rookTo) {
			if occ := p.board[c]; occ != nil && occ != king {
				return castle{}, false
			}
		}
	}
	return castle{wing: wing, kingTo: kingTo, rookFrom: rookFrom, rookTo: rookTo, path: path}, true
}

// castleFor returns the castle whose king destination is to, if any.
func castleFor(p *Position, king *Piece, to Cell) (castle, bool) {
	for _, wing := range []Wing{KingSide, QueenSide} {
		if c, ok := castlePlan(p, king, wing); ok && c.kingTo == to {
			return c, true
		}
	}
	return castle{}, false
}
