package variant

import (
	"math/rand"

	"github.com/justinabrahms/chessvariants/internal/chess"
)

// Shuffled randomizes the back rank. Bishops stand on opposite colors and
// the king stands between the rooks, so castling stays possible on both
// wings. Every InitializeBoard draws a new layout from the seeded source.
type Shuffled struct {
	Standard
	rng *rand.Rand
}

func NewShuffled(seed int64) *Shuffled {
	return &Shuffled{rng: rand.New(rand.NewSource(seed))}
}

func (*Shuffled) Name() string { return "shuffled" }

func (s *Shuffled) InitializeBoard() *chess.Position {
	return backRankPosition(GenerateBackRank(s.rng))
}

// GenerateBackRank draws a layout file by file from a to h: one bishop on a
// dark file and one on a light file, then the queen and both knights in
// free files, then rook, king, rook in the three files left.
func GenerateBackRank(rng *rand.Rand) [8]chess.Kind {
	var rank [8]chess.Kind
	rank[2*rng.Intn(4)] = chess.Bishop
	rank[2*rng.Intn(4)+1] = chess.Bishop

	for _, kind := range []chess.Kind{chess.Queen, chess.Knight, chess.Knight} {
		free := freeFiles(rank)
		rank[free[rng.Intn(len(free))]] = kind
	}

	free := freeFiles(rank)
	rank[free[0]] = chess.Rook
	rank[free[1]] = chess.King
	rank[free[2]] = chess.Rook
	return rank
}

func freeFiles(rank [8]chess.Kind) []int {
	var out []int
	for file, kind := range rank {
		if kind == chess.NoKind {
			out = append(out, file)
		}
	}
	return out
}
