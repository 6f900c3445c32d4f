package chess

import (
	"math/rand"
	"sort"
	"testing"

	nchess "github.com/notnil/chess"
	"github.com/stretchr/testify/require"
)

// referenceMoves lists the (from, to) pairs notnil/chess accepts for the side
// to move, collapsing the four promotion choices into one pair.
func referenceMoves(t *testing.T, fen string) []string {
	t.Helper()
	opt, err := nchess.FEN(fen)
	require.NoError(t, err, fen)
	seen := map[string]bool{}
	var out []string
	for _, m := range nchess.NewGame(opt).ValidMoves() {
		sig := m.S1().String() + "-" + m.S2().String()
		if !seen[sig] {
			seen[sig] = true
			out = append(out, sig)
		}
	}
	sort.Strings(out)
	return out
}

func ourMoves(p *Position) []string {
	var out []string
	for _, m := range Moves(p, Standard{}, p.Turn(), Queen) {
		out = append(out, m.Signature())
	}
	sort.Strings(out)
	return out
}

func TestLegalMovesMatchReference(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3",
	}
	for _, fen := range fens {
		p := MustParseFEN(fen)
		require.Equal(t, referenceMoves(t, fen), ourMoves(p), fen)
	}
}

func TestRandomGamesMatchReference(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for game := 0; game < 8; game++ {
		p := MustParseFEN(StartFEN)
		for ply := 0; ply < 120; ply++ {
			fen := p.FEN()
			moves := Moves(p, Standard{}, p.Turn(), Queen)
			require.Equal(t, referenceMoves(t, fen), ourMoves(p), fen)
			if len(moves) == 0 {
				break
			}
			for _, m := range moves {
				require.False(t, ExposesKing(p, m), "%s leaves the king attacked in %s", m, fen)
			}
			p.Apply(moves[rng.Intn(len(moves))])
		}
	}
}
