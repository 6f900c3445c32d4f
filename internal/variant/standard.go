package variant

import "github.com/justinabrahms/chessvariants/internal/chess"

var standardBackRank = [8]chess.Kind{
	chess.Rook, chess.Knight, chess.Bishop, chess.Queen,
	chess.King, chess.Bishop, chess.Knight, chess.Rook,
}

// Standard is orthodox chess.
type Standard struct{}

func (Standard) Name() string { return "standard" }

func (Standard) InitializeBoard() *chess.Position {
	return backRankPosition(standardBackRank)
}

func (Standard) LegalDestinations(p *chess.Position, pc *chess.Piece) chess.CellSet {
	return chess.LegalDestinations(p, pc)
}

func (Standard) IsMoveLegal(p *chess.Position, pc *chess.Piece, target chess.Cell) bool {
	return chess.LegalDestinations(p, pc).Has(target)
}

func (Standard) IsKingInCheck(p *chess.Position, side chess.Side) bool {
	return chess.IsKingInCheck(p, side)
}

func (s Standard) IsCheckmate(p *chess.Position, side chess.Side) bool {
	return chess.Classify(p, s, side) == chess.Checkmate
}

func (s Standard) IsStalemate(p *chess.Position, side chess.Side) bool {
	return chess.Classify(p, s, side) == chess.Stalemate
}

func (Standard) Winner(*chess.Position) (chess.Side, bool) { return chess.White, false }

func (Standard) AfterMove(*chess.Position) {}
