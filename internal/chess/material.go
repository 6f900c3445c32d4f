package chess

// SearchValues are the centipawn values used by the search evaluation.
var SearchValues = [...]int{
	Pawn:   100,
	Knight: 320,
	Bishop: 330,
	Rook:   500,
	Queen:  900,
	King:   20000,
}

// StandardValues are the conventional point values shown to players.
var StandardValues = [...]int{
	Pawn:   1,
	Knight: 3,
	Bishop: 3,
	Rook:   5,
	Queen:  9,
	King:   0,
}

// Evaluate sums SearchValues positive for White and negative for Black.
func Evaluate(p *Position) int {
	score := 0
	for _, pc := range p.board {
		if pc == nil {
			continue
		}
		if pc.Side == White {
			score += SearchValues[pc.Kind]
		} else {
			score -= SearchValues[pc.Kind]
		}
	}
	return score
}

// MaterialCount is the point total per side.
type MaterialCount struct {
	White int `json:"white"`
	Black int `json:"black"`
}

// Balance is White's total minus Black's.
func (m MaterialCount) Balance() int { return m.White - m.Black }

// CountMaterial totals StandardValues per side.
func CountMaterial(p *Position) MaterialCount {
	var m MaterialCount
	for _, pc := range p.board {
		if pc == nil {
			continue
		}
		if pc.Side == White {
			m.White += StandardValues[pc.Kind]
		} else {
			m.Black += StandardValues[pc.Kind]
		}
	}
	return m
}

// PieceValues returns StandardValues keyed by kind name.
func PieceValues() map[string]int {
	out := make(map[string]int, 6)
	for k := Pawn; k <= King; k++ {
		out[k.String()] = StandardValues[k]
	}
	return out
}
