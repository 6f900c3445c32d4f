package chess

import "fmt"

// Wing selects the castling side.
type Wing uint8

const (
	KingSide Wing = iota
	QueenSide
)

// CastlingRights holds the four independent castling booleans as bits.
type CastlingRights uint8

const (
	WhiteKingSide CastlingRights = 1 << iota
	WhiteQueenSide
	BlackKingSide
	BlackQueenSide

	NoCastling  CastlingRights = 0
	AllCastling                = WhiteKingSide | WhiteQueenSide | BlackKingSide | BlackQueenSide
)

// CastlingRight returns the single right for a side and wing.
func CastlingRight(side Side, wing Wing) CastlingRights {
	r := WhiteKingSide << (uint(side)*2 + uint(wing))
	return r
}

func (r CastlingRights) Has(side Side, wing Wing) bool {
	return r&CastlingRight(side, wing) != 0
}

func (r CastlingRights) Without(x CastlingRights) CastlingRights { return r &^ x }

func (r CastlingRights) WithoutSide(side Side) CastlingRights {
	return r &^ (CastlingRight(side, KingSide) | CastlingRight(side, QueenSide))
}

// String renders the rights as export letters, "-" when empty.
func (r CastlingRights) String() string {
	var b []byte
	for _, x := range []struct {
		right  CastlingRights
		letter byte
	}{{WhiteKingSide, 'K'}, {WhiteQueenSide, 'Q'}, {BlackKingSide, 'k'}, {BlackQueenSide, 'q'}} {
		if r&x.right != 0 {
			b = append(b, x.letter)
		}
	}
	if len(b) == 0 {
		return "-"
	}
	return string(b)
}

// Position is the full game state: placement, side to move, castling rights,
// en-passant target and a pending promotion if a pawn is waiting for its
// replacement kind. At most one piece occupies a cell.
type Position struct {
	board     [64]*Piece
	turn      Side
	castling  CastlingRights
	enPassant Cell
	pending   *Piece

	// rookFiles holds the starting file of the castling rook per wing.
	rookFiles [2]int
}

// NewPosition returns an empty board with White to move.
func NewPosition() *Position {
	return &Position{
		enPassant: NoCell,
		rookFiles: [2]int{7, 0},
	}
}

// Place puts a new piece on c, replacing any occupant, and returns it.
func (p *Position) Place(side Side, kind Kind, c Cell) *Piece {
	pc := &Piece{Kind: kind, Side: side, Cell: c}
	p.board[c] = pc
	return pc
}

// Remove clears c and returns what was there.
func (p *Position) Remove(c Cell) *Piece {
	pc := p.board[c]
	p.board[c] = nil
	return pc
}

func (p *Position) At(c Cell) *Piece {
	if !c.Valid() {
		return nil
	}
	return p.board[c]
}

func (p *Position) Turn() Side               { return p.turn }
func (p *Position) SetTurn(s Side)           { p.turn = s }
func (p *Position) Castling() CastlingRights { return p.castling }
func (p *Position) EnPassant() Cell          { return p.enPassant }
func (p *Position) SetEnPassant(c Cell)      { p.enPassant = c }

// Pending returns the pawn awaiting a promotion choice, or nil.
func (p *Position) Pending() *Piece { return p.pending }

// SetCastling replaces the rights and syncs the Moved flags of kings and
// castling rooks on their home cells.
func (p *Position) SetCastling(r CastlingRights) {
	p.castling = r
	for _, side := range []Side{White, Black} {
		rank := side.homeRank()
		if k, ok := p.King(side); ok {
			k.Moved = k.Cell.Rank() != rank ||
				(!r.Has(side, KingSide) && !r.Has(side, QueenSide))
		}
		for _, wing := range []Wing{KingSide, QueenSide} {
			c, _ := NewCell(p.rookFiles[wing], rank)
			if rk := p.board[c]; rk != nil && rk.Kind == Rook && rk.Side == side {
				rk.Moved = !r.Has(side, wing)
			}
		}
	}
}

// RookFile returns the starting file of the castling rook on a wing.
func (p *Position) RookFile(w Wing) int { return p.rookFiles[w] }

// SetRookFiles records the castling rook files for shuffled back ranks.
func (p *Position) SetRookFiles(kingSide, queenSide int) {
	p.rookFiles = [2]int{kingSide, queenSide}
}

// Pieces returns the side's pieces in board-scan order.
func (p *Position) Pieces(side Side) []*Piece {
	var out []*Piece
	for _, pc := range p.board {
		if pc != nil && pc.Side == side {
			out = append(out, pc)
		}
	}
	return out
}

// King returns the side's king.
func (p *Position) King(side Side) (*Piece, bool) {
	for _, pc := range p.board {
		if pc != nil && pc.Side == side && pc.Kind == King {
			return pc, true
		}
	}
	return nil, false
}

// Clone returns a deep copy that shares no pieces with p.
func (p *Position) Clone() *Position {
	cp := *p
	cp.pending = nil
	for i, pc := range p.board {
		if pc == nil {
			continue
		}
		dup := *pc
		cp.board[i] = &dup
		if pc == p.pending {
			cp.pending = &dup
		}
	}
	return &cp
}

// Move describes a single ply. Moves are built by BuildMove so the capture,
// castle and en-passant fields agree with the position.
type Move struct {
	From, To Cell
	Piece    *Piece

	Captured    *Piece
	CaptureCell Cell

	Castle           bool
	RookFrom, RookTo Cell

	EnPassant bool

	// Promotion is the replacement kind when a pawn reaches its last rank.
	// NoKind leaves the position pending until Promote is called.
	Promotion Kind
}

// Signature is the origin-destination pair, e.g. "e2-e4".
func (m Move) Signature() string {
	return m.From.String() + "-" + m.To.String()
}

// UCI renders the move in long algebraic form, e.g. "e7e8q".
func (m Move) UCI() string {
	s := m.From.String() + m.To.String()
	if m.Promotion != NoKind {
		s += string(m.Promotion.Letter())
	}
	return s
}

func (m Move) String() string { return m.UCI() }

// IsPromotion reports whether the move brings a pawn to its last rank.
func (m Move) IsPromotion() bool {
	return m.Piece != nil && m.Piece.Kind == Pawn && m.To.Rank() == m.Piece.Side.lastRank()
}

// BuildMove derives the full move for the piece on from going to to. It does
// not check legality beyond the presence of a piece, except to tell a castle
// from a king step that reaches the same cell.
func BuildMove(p *Position, from, to Cell, promotion Kind) (Move, error) {
	pc := p.At(from)
	if pc == nil {
		return Move{}, fmt.Errorf("%w: no piece on %s", ErrIllegalMove, from)
	}
	if !to.Valid() {
		return Move{}, fmt.Errorf("%w: destination", ErrInvalidCell)
	}
	m := Move{From: from, To: to, Piece: pc, CaptureCell: NoCell, RookFrom: NoCell, RookTo: NoCell}
	if target := p.board[to]; target != nil && target.Side != pc.Side {
		m.Captured = target
		m.CaptureCell = to
	}
	switch pc.Kind {
	case Pawn:
		if to == p.enPassant && m.Captured == nil && from.File() != to.File() {
			behind, _ := to.Offset(0, -pc.Side.forward())
			if victim := p.board[behind]; victim != nil && victim.Kind == Pawn && victim.Side != pc.Side {
				m.EnPassant = true
				m.Captured = victim
				m.CaptureCell = behind
			}
		}
		if m.IsPromotion() {
			m.Promotion = promotion
		}
	case King:
		// A castle landing one step away is only taken when it is legal;
		// otherwise the same cell is reached by a plain king step.
		castle, ok := castleFor(p, pc, to)
		if ok && isStep(from, to) && !castleSafe(p, pc, castle) {
			ok = false
		}
		if ok {
			m.Castle = true
			m.RookFrom = castle.rookFrom
			m.RookTo = castle.rookTo
		}
	}
	return m, nil
}

// Undo restores the position to its state before an Apply.
type Undo struct {
	move      Move
	turn      Side
	castling  CastlingRights
	enPassant Cell
	pending   *Piece
	moved     bool
	rookMoved bool
	kind      Kind
}

// Apply performs m in place without legality checks and returns the state
// needed to revert it exactly. Captured pieces are detached, not discarded,
// so Revert reinstates the same piece values.
func (p *Position) Apply(m Move) Undo {
	pc := m.Piece
	u := Undo{
		move:      m,
		turn:      p.turn,
		castling:  p.castling,
		enPassant: p.enPassant,
		pending:   p.pending,
		moved:     pc.Moved,
		kind:      pc.Kind,
	}

	if m.Captured != nil {
		p.board[m.CaptureCell] = nil
		p.castling = p.castling.Without(p.rookRight(m.Captured, m.CaptureCell))
		if m.Captured.Kind == King {
			p.castling = p.castling.WithoutSide(m.Captured.Side)
		}
	}

	var rook *Piece
	if m.Castle {
		rook = p.board[m.RookFrom]
		u.rookMoved = rook.Moved
		p.board[m.RookFrom] = nil
	}
	p.board[m.From] = nil
	p.board[m.To] = pc
	pc.Cell = m.To
	pc.Moved = true
	if rook != nil {
		p.board[m.RookTo] = rook
		rook.Cell = m.RookTo
		rook.Moved = true
	}

	switch pc.Kind {
	case King:
		p.castling = p.castling.WithoutSide(pc.Side)
	case Rook:
		p.castling = p.castling.Without(p.rookRight(pc, m.From))
	}

	p.enPassant = NoCell
	if pc.Kind == Pawn && abs(m.To.Rank()-m.From.Rank()) == 2 {
		p.enPassant, _ = m.From.Offset(0, pc.Side.forward())
	}

	if m.IsPromotion() {
		if m.Promotion.CanPromoteTo() {
			pc.Kind = m.Promotion
		} else {
			p.pending = pc
			return u
		}
	}
	p.turn = p.turn.Opposite()
	return u
}

// Revert undoes the Apply that produced u. Undos must be reverted in
// reverse order of application.
func (p *Position) Revert(u Undo) {
	m := u.move
	pc := m.Piece
	pc.Kind = u.kind
	pc.Moved = u.moved

	p.board[m.To] = nil
	if m.Castle {
		rook := p.board[m.RookTo]
		p.board[m.RookTo] = nil
		p.board[m.RookFrom] = rook
		rook.Cell = m.RookFrom
		rook.Moved = u.rookMoved
	}
	p.board[m.From] = pc
	pc.Cell = m.From
	if m.Captured != nil {
		p.board[m.CaptureCell] = m.Captured
		m.Captured.Cell = m.CaptureCell
	}

	p.turn = u.turn
	p.castling = u.castling
	p.enPassant = u.enPassant
	p.pending = u.pending
}

// Promote completes a pending promotion and passes the turn.
func (p *Position) Promote(kind Kind) error {
	if p.pending == nil {
		return fmt.Errorf("%w: no promotion pending", ErrInvalidState)
	}
	if !kind.CanPromoteTo() {
		return fmt.Errorf("%w: cannot promote to %s", ErrIllegalMove, kind)
	}
	p.pending.Kind = kind
	p.pending = nil
	p.turn = p.turn.Opposite()
	return nil
}

// rookRight returns the castling right lost when the rook on c leaves or is
// captured, or NoCastling if pc is not a castling rook on its home cell.
func (p *Position) rookRight(pc *Piece, c Cell) CastlingRights {
	if pc.Kind != Rook || c.Rank() != pc.Side.homeRank() {
		return NoCastling
	}
	switch c.File() {
	case p.rookFiles[KingSide]:
		return CastlingRight(pc.Side, KingSide)
	case p.rookFiles[QueenSide]:
		return CastlingRight(pc.Side, QueenSide)
	}
	return NoCastling
}
