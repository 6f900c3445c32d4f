package variant

import "github.com/justinabrahms/chessvariants/internal/chess"

// Fog plays standard chess but tracks which cells the viewer can see: the
// cells its pieces occupy and their legal destinations. Visibility affects
// display only.
type Fog struct {
	Standard
	Viewer  chess.Side
	visible chess.CellSet
}

func NewFog(viewer chess.Side) *Fog {
	return &Fog{Viewer: viewer}
}

func (*Fog) Name() string { return "fog" }

func (f *Fog) InitializeBoard() *chess.Position {
	p := f.Standard.InitializeBoard()
	f.AfterMove(p)
	return p
}

// AfterMove recomputes visibility. While a promotion is pending nothing is
// legal, so the viewer sees the pseudo-legal reach of its pieces instead.
func (f *Fog) AfterMove(p *chess.Position) {
	if p.Pending() != nil {
		var set chess.CellSet
		for _, pc := range p.Pieces(f.Viewer) {
			set = set.Add(pc.Cell) | chess.CandidateDestinations(p, pc)
		}
		f.visible = set
		return
	}
	f.visible = Visibility(p, f.Standard, f.Viewer)
}

// Visible returns the cells the viewer saw after the last move.
func (f *Fog) Visible() chess.CellSet { return f.visible }

// Fogged is the complement of Visible.
func (f *Fog) Fogged() chess.CellSet { return ^f.visible }

// Visibility computes the cells side can see in p.
func Visibility(p *chess.Position, gen chess.Generator, side chess.Side) chess.CellSet {
	var set chess.CellSet
	for _, pc := range p.Pieces(side) {
		set = set.Add(pc.Cell) | gen.LegalDestinations(p, pc)
	}
	return set
}
