package chess

// IsCellAttacked reports whether any piece of by attacks c. Knights jump;
// sliding pieces need a clear path to c.
func IsCellAttacked(p *Position, c Cell, by Side) bool {
	for _, pc := range p.board {
		if pc == nil || pc.Side != by {
			continue
		}
		if attacks(p, pc).Has(c) {
			return true
		}
	}
	return false
}

// Attackers returns the cells of by's pieces attacking c, in board-scan order.
func Attackers(p *Position, c Cell, by Side) CellSet {
	var set CellSet
	for _, pc := range p.board {
		if pc != nil && pc.Side == by && attacks(p, pc).Has(c) {
			set = set.Add(pc.Cell)
		}
	}
	return set
}

// IsKingInCheck reports whether side's king is attacked. A side without a
// king is never in check.
func IsKingInCheck(p *Position, side Side) bool {
	king, ok := p.King(side)
	if !ok {
		return false
	}
	return IsCellAttacked(p, king.Cell, side.Opposite())
}
