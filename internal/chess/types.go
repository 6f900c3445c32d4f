package chess

import "fmt"

type Side uint8

const (
	White Side = iota
	Black
)

func (s Side) Opposite() Side {
	if s == White {
		return Black
	}
	return White
}

// forward is the rank direction pawns of this side advance in.
func (s Side) forward() int {
	if s == White {
		return 1
	}
	return -1
}

// homeRank is the zero-based back rank of the side.
func (s Side) homeRank() int {
	if s == White {
		return 0
	}
	return 7
}

// lastRank is the zero-based rank where this side's pawns promote.
func (s Side) lastRank() int {
	if s == White {
		return 7
	}
	return 0
}

func (s Side) String() string {
	if s == White {
		return "white"
	}
	return "black"
}

// ParseSide accepts "white"/"black" and the export letters "w"/"b".
func ParseSide(s string) (Side, error) {
	switch s {
	case "white", "w":
		return White, nil
	case "black", "b":
		return Black, nil
	}
	return White, fmt.Errorf("unknown side %q", s)
}

// Kind is the closed set of piece kinds. NoKind is used for "no promotion".
type Kind uint8

const (
	NoKind Kind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var kindNames = [...]string{"", "pawn", "knight", "bishop", "rook", "queen", "king"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Letter returns the lowercase export letter of the kind.
func (k Kind) Letter() byte {
	return " pnbrqk"[k]
}

func kindFromLetter(b byte) (Kind, bool) {
	switch b | 0x20 {
	case 'p':
		return Pawn, true
	case 'n':
		return Knight, true
	case 'b':
		return Bishop, true
	case 'r':
		return Rook, true
	case 'q':
		return Queen, true
	case 'k':
		return King, true
	}
	return NoKind, false
}

// CanPromoteTo reports whether a pawn may become this kind.
func (k Kind) CanPromoteTo() bool {
	return k == Queen || k == Rook || k == Bishop || k == Knight
}

// ParsePromotion maps "q", "r", "b", "n" (or the full names) to a kind.
func ParsePromotion(p string) Kind {
	switch p {
	case "q", "queen":
		return Queen
	case "r", "rook":
		return Rook
	case "b", "bishop":
		return Bishop
	case "n", "knight":
		return Knight
	default:
		return NoKind
	}
}

// Piece is a piece on the board. Moved is tracked for kings and rooks and
// gates castling.
type Piece struct {
	Kind  Kind
	Side  Side
	Cell  Cell
	Moved bool
}

// Letter returns the export letter, uppercase for White.
func (p *Piece) Letter() byte {
	l := p.Kind.Letter()
	if p.Side == White {
		return l - 0x20
	}
	return l
}

func (p *Piece) String() string {
	return fmt.Sprintf("%s %s@%s", p.Side, p.Kind, p.Cell)
}

// Outcome classifies a position for the side to move.
type Outcome uint8

const (
	Ongoing Outcome = iota
	Check
	Checkmate
	Stalemate
)

func (o Outcome) String() string {
	switch o {
	case Check:
		return "check"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	default:
		return "ongoing"
	}
}
