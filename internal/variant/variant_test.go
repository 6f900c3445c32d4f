package variant

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justinabrahms/chessvariants/internal/chess"
)

func TestStandardInitializeBoard(t *testing.T) {
	p := Standard{}.InitializeBoard()
	assert.Equal(t, chess.StartFEN, p.FEN())
}

func TestByName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"", "standard"},
		{"standard", "standard"},
		{"Chess960", "shuffled"},
		{"shuffled", "shuffled"},
		{"racing", "racing"},
		{"racing-kings", "racing"},
		{"fog", "fog"},
		{"fogofwar", "fog"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ByName(tt.name, Options{Seed: 1})
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Name())
		})
	}

	_, err := ByName("crazyhouse", Options{})
	assert.True(t, errors.Is(err, ErrUnknownVariant))
}

func TestGenerateBackRankConstraints(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		rank := GenerateBackRank(rng)

		counts := map[chess.Kind]int{}
		var bishops, rooks []int
		king := -1
		for file, kind := range rank {
			counts[kind]++
			switch kind {
			case chess.Bishop:
				bishops = append(bishops, file)
			case chess.Rook:
				rooks = append(rooks, file)
			case chess.King:
				king = file
			}
		}
		require.Equal(t, map[chess.Kind]int{
			chess.Rook: 2, chess.Knight: 2, chess.Bishop: 2, chess.Queen: 1, chess.King: 1,
		}, counts, "rank %v", rank)

		b0, _ := chess.NewCell(bishops[0], 0)
		b1, _ := chess.NewCell(bishops[1], 0)
		require.NotEqual(t, b0.IsLight(), b1.IsLight(), "bishops share a color in %v", rank)
		require.True(t, rooks[0] < king && king < rooks[1], "king not between rooks in %v", rank)
	}
}

func TestShuffledIsDeterministicPerSeed(t *testing.T) {
	a := NewShuffled(99).InitializeBoard().FEN()
	b := NewShuffled(99).InitializeBoard().FEN()
	assert.Equal(t, a, b)

	p := NewShuffled(99).InitializeBoard()
	assert.Equal(t, "KQkq", p.Castling().String())
	for file := 0; file < 8; file++ {
		w, _ := chess.NewCell(file, 0)
		bl, _ := chess.NewCell(file, 7)
		assert.Equal(t, p.At(w).Kind, p.At(bl).Kind, "file %d is not mirrored", file)
	}
}

func TestShuffledRookFilesFollowLayout(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 50; i++ {
		rank := GenerateBackRank(rng)
		p := backRankPosition(rank)
		assert.Equal(t, chess.Rook, rank[p.RookFile(chess.KingSide)])
		assert.Equal(t, chess.Rook, rank[p.RookFile(chess.QueenSide)])
		assert.Less(t, p.RookFile(chess.QueenSide), p.RookFile(chess.KingSide))
	}
}

func TestShuffledCastling(t *testing.T) {
	// King on d1, rooks on b1 and f1.
	p := chess.NewPosition()
	p.SetRookFiles(5, 1)
	p.Place(chess.White, chess.King, chess.MustCell("d1"))
	p.Place(chess.White, chess.Rook, chess.MustCell("b1"))
	p.Place(chess.White, chess.Rook, chess.MustCell("f1"))
	p.Place(chess.Black, chess.King, chess.MustCell("e8"))
	p.SetCastling(chess.WhiteKingSide | chess.WhiteQueenSide)

	king := p.At(chess.MustCell("d1"))
	require.True(t, chess.LegalDestinations(p, king).Has(chess.MustCell("g1")))

	m, err := chess.BuildMove(p, king.Cell, chess.MustCell("g1"), chess.NoKind)
	require.NoError(t, err)
	require.True(t, m.Castle)
	u := p.Apply(m)
	assert.Equal(t, "4k3/8/8/8/8/8/8/1R3RK1 b - - 0 1", p.FEN())
	p.Revert(u)
	assert.Equal(t, "4k3/8/8/8/8/8/8/1R1K1R2 w KQ - 0 1", p.FEN())

	// A black rook covering e1 forbids the king-side crossing.
	p.Place(chess.Black, chess.Rook, chess.MustCell("e7"))
	assert.False(t, chess.LegalDestinations(p, king).Has(chess.MustCell("g1")))
}

func TestRacingInitializeBoard(t *testing.T) {
	p := Racing{}.InitializeBoard()
	assert.Equal(t, "qrbnNBRQ/krbnNBRK/8/8/8/8/8/8 w - - 0 1", p.FEN())
	assert.False(t, chess.IsKingInCheck(p, chess.White))
	assert.False(t, chess.IsKingInCheck(p, chess.Black))
	assert.True(t, chess.HasLegalMove(p, Racing{}, chess.White))
}

func TestRacingForbidsGivingCheck(t *testing.T) {
	p := chess.MustParseFEN("8/8/8/8/8/8/k7/4K2R w - - 0 1")
	rook := p.At(chess.MustCell("h1"))
	assert.True(t, Standard{}.IsMoveLegal(p, rook, chess.MustCell("h2")))
	assert.False(t, Racing{}.IsMoveLegal(p, rook, chess.MustCell("h2")))
	assert.True(t, Racing{}.IsMoveLegal(p, rook, chess.MustCell("h3")))
}

func TestRacingWinner(t *testing.T) {
	r := Racing{}
	_, won := r.Winner(r.InitializeBoard())
	assert.False(t, won)

	p := chess.MustParseFEN("8/k7/8/8/8/8/8/6K1 b - - 0 1")
	side, won := r.Winner(p)
	require.True(t, won)
	assert.Equal(t, chess.White, side)
	assert.False(t, r.IsStalemate(p, chess.Black))
	assert.False(t, r.IsCheckmate(p, chess.Black))
}

func TestRacingDrawWithoutMoves(t *testing.T) {
	// Black king boxed in by White with no safe, non-checking move.
	p := chess.MustParseFEN("k7/2Q5/1K6/8/8/8/8/8 b - - 0 1")
	assert.True(t, Racing{}.IsStalemate(p, chess.Black))
}

func TestFogVisibility(t *testing.T) {
	f := NewFog(chess.Black)
	p := f.InitializeBoard()

	for c := chess.Cell(0); c < 64; c++ {
		assert.Equal(t, c.Rank() >= 4, f.Visible().Has(c), "cell %s", c)
	}
	assert.True(t, f.Fogged().Has(chess.MustCell("e2")))

	for _, mv := range [][2]string{{"e2", "e4"}, {"d7", "d5"}} {
		pc := p.At(chess.MustCell(mv[0]))
		to := chess.MustCell(mv[1])
		legal := f.LegalDestinations(p, pc)
		require.Equal(t, chess.LegalDestinations(p, pc), legal)
		require.True(t, f.IsMoveLegal(p, pc, to))
		m, err := chess.BuildMove(p, pc.Cell, to, chess.NoKind)
		require.NoError(t, err)
		p.Apply(m)
		f.AfterMove(p)
	}

	assert.True(t, f.Visible().Has(chess.MustCell("e4")), "d5 pawn sees its capture")
	assert.True(t, f.Visible().Has(chess.MustCell("h3")), "c8 bishop diagonal opened")
	assert.True(t, f.Fogged().Has(chess.MustCell("e2")))
	assert.True(t, f.Visible().Has(chess.MustCell("d4")))
	assert.False(t, f.Visible().Has(chess.MustCell("a4")))
}

func TestFogWhiteViewer(t *testing.T) {
	f := NewFog(chess.White)
	f.InitializeBoard()
	assert.True(t, f.Visible().Has(chess.MustCell("a1")))
	assert.True(t, f.Visible().Has(chess.MustCell("h4")))
	assert.False(t, f.Visible().Has(chess.MustCell("a5")))
}
