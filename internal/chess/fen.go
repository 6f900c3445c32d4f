package chess

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the export of the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// FEN exports the position: placement from rank 8 down to rank 1 with empty
// runs compressed, then side, castling letters and en-passant target. The
// move counters are not tracked and always read "0 1".
func (p *Position) FEN() string {
	var b strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			pc := p.board[rank*8+file]
			if pc == nil {
				empty++
				continue
			}
			if empty > 0 {
				b.WriteByte(byte('0' + empty))
				empty = 0
			}
			b.WriteByte(pc.Letter())
		}
		if empty > 0 {
			b.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			b.WriteByte('/')
		}
	}
	if p.turn == White {
		b.WriteString(" w ")
	} else {
		b.WriteString(" b ")
	}
	b.WriteString(p.castling.String())
	b.WriteByte(' ')
	b.WriteString(p.enPassant.String())
	b.WriteString(" 0 1")
	return b.String()
}

// ParseFEN reads an exported position. The move counters are optional and
// ignored. Castling rights are checked against the standard rook files.
func ParseFEN(s string) (*Position, error) {
	fields := strings.Fields(s)
	if len(fields) < 4 || len(fields) > 6 {
		return nil, fmt.Errorf("%w: want 4 to 6 fields, got %d", ErrInvalidPosition, len(fields))
	}
	p := NewPosition()
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("%w: want 8 ranks, got %d", ErrInvalidPosition, len(ranks))
	}
	kings := [2]int{}
	for i, row := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(row); j++ {
			ch := row[j]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			kind, ok := kindFromLetter(ch)
			if !ok {
				return nil, fmt.Errorf("%w: bad piece letter %q", ErrInvalidPosition, ch)
			}
			if file > 7 {
				return nil, fmt.Errorf("%w: rank %d overflows", ErrInvalidPosition, rank+1)
			}
			side := Black
			if ch < 'a' {
				side = White
			}
			if kind == King {
				kings[side]++
			}
			p.Place(side, kind, Cell(rank*8+file))
			file++
		}
		if file != 8 {
			return nil, fmt.Errorf("%w: rank %d has %d files", ErrInvalidPosition, rank+1, file)
		}
	}
	if kings[White] > 1 || kings[Black] > 1 {
		return nil, fmt.Errorf("%w: more than one king per side", ErrInvalidPosition)
	}

	side, err := ParseSide(fields[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPosition, err)
	}
	p.turn = side

	rights := NoCastling
	if fields[2] != "-" {
		for _, ch := range []byte(fields[2]) {
			switch ch {
			case 'K':
				rights |= WhiteKingSide
			case 'Q':
				rights |= WhiteQueenSide
			case 'k':
				rights |= BlackKingSide
			case 'q':
				rights |= BlackQueenSide
			default:
				return nil, fmt.Errorf("%w: bad castling letter %q", ErrInvalidPosition, ch)
			}
		}
	}
	p.SetCastling(rights)

	if fields[3] != "-" {
		ep, err := ParseCell(fields[3])
		if err != nil {
			return nil, fmt.Errorf("%w: en passant: %v", ErrInvalidPosition, err)
		}
		p.enPassant = ep
	}
	for _, f := range fields[4:] {
		if _, err := strconv.Atoi(f); err != nil {
			return nil, fmt.Errorf("%w: move counter %q", ErrInvalidPosition, f)
		}
	}
	return p, nil
}

// MustParseFEN is ParseFEN for literals known to be valid.
func MustParseFEN(s string) *Position {
	p, err := ParseFEN(s)
	if err != nil {
		panic(err)
	}
	return p
}
