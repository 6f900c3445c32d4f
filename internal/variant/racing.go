package variant

import "github.com/justinabrahms/chessvariants/internal/chess"

// racingLayout is read file a to h; Black holds a-d and White e-h.
var racingLayout = [2][8]chess.Kind{
	// rank 8
	{chess.Queen, chess.Rook, chess.Bishop, chess.Knight, chess.Knight, chess.Bishop, chess.Rook, chess.Queen},
	// rank 7
	{chess.King, chess.Rook, chess.Bishop, chess.Knight, chess.Knight, chess.Bishop, chess.Rook, chess.King},
}

// Racing is a race of kings from the top ranks to rank 1. There are no pawns
// and no castling. A move may never give check, so checkmate cannot occur; a
// side without legal moves and without a winner is a draw.
type Racing struct{}

func (Racing) Name() string { return "racing" }

func (Racing) InitializeBoard() *chess.Position {
	p := chess.NewPosition()
	for i, row := range racingLayout {
		rank := 7 - i
		for file, kind := range row {
			side := chess.White
			if file < 4 {
				side = chess.Black
			}
			c, _ := chess.NewCell(file, rank)
			p.Place(side, kind, c)
		}
	}
	p.SetCastling(chess.NoCastling)
	return p
}

// LegalDestinations narrows the standard set to moves that leave the
// opponent's king unattacked.
func (Racing) LegalDestinations(p *chess.Position, pc *chess.Piece) chess.CellSet {
	var out chess.CellSet
	for _, to := range chess.LegalDestinations(p, pc).Cells() {
		m, err := chess.BuildMove(p, pc.Cell, to, chess.Queen)
		if err != nil {
			continue
		}
		u := p.Apply(m)
		checks := chess.IsKingInCheck(p, pc.Side.Opposite())
		p.Revert(u)
		if !checks {
			out = out.Add(to)
		}
	}
	return out
}

func (r Racing) IsMoveLegal(p *chess.Position, pc *chess.Piece, target chess.Cell) bool {
	return r.LegalDestinations(p, pc).Has(target)
}

func (Racing) IsKingInCheck(p *chess.Position, side chess.Side) bool {
	return chess.IsKingInCheck(p, side)
}

func (Racing) IsCheckmate(*chess.Position, chess.Side) bool { return false }

func (r Racing) IsStalemate(p *chess.Position, side chess.Side) bool {
	if _, won := r.Winner(p); won {
		return false
	}
	return !chess.HasLegalMove(p, r, side)
}

// Winner reports the side whose king stands on rank 1.
func (Racing) Winner(p *chess.Position) (chess.Side, bool) {
	for _, side := range []chess.Side{chess.White, chess.Black} {
		if k, ok := p.King(side); ok && k.Cell.Rank() == 0 {
			return side, true
		}
	}
	return chess.White, false
}

func (Racing) AfterMove(*chess.Position) {}
