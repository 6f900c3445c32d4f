// Package variant holds the rule sets a game can be played under. Each rule
// set supplies the initial layout and answers legality and terminal-state
// questions using the shared primitives in package chess.
package variant

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/justinabrahms/chessvariants/internal/chess"
)

var ErrUnknownVariant = errors.New("unknown variant")

// RuleSet is the strategy a game controller plays through.
type RuleSet interface {
	chess.Generator

	Name() string

	// InitializeBoard returns a fresh starting position.
	InitializeBoard() *chess.Position

	IsMoveLegal(p *chess.Position, pc *chess.Piece, target chess.Cell) bool
	IsKingInCheck(p *chess.Position, side chess.Side) bool
	IsCheckmate(p *chess.Position, side chess.Side) bool
	IsStalemate(p *chess.Position, side chess.Side) bool

	// Winner reports a variant-specific win that ends the game outright.
	Winner(p *chess.Position) (chess.Side, bool)

	// AfterMove is called after every move, including one that leaves a
	// promotion pending and the promotion that completes it.
	AfterMove(p *chess.Position)
}

// Options configure ByName.
type Options struct {
	// Seed drives the shuffled back rank. Zero picks a time-based seed.
	Seed int64
	// Viewer is the side whose view the fog variant computes.
	Viewer chess.Side
}

// Names lists the canonical variant names.
func Names() []string {
	return []string{"standard", "shuffled", "racing", "fog"}
}

// ByName builds a rule set from its name or a common alias.
func ByName(name string, opts Options) (RuleSet, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "standard", "classic":
		return Standard{}, nil
	case "shuffled", "chess960", "960":
		seed := opts.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		return NewShuffled(seed), nil
	case "racing", "racingkings", "racing-kings":
		return Racing{}, nil
	case "fog", "fogofwar", "fog-of-war":
		return NewFog(opts.Viewer), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
}

// backRankPosition sets up both sides with the given back rank, a full rank
// of pawns in front and all castling rights, rooks taken from the layout.
func backRankPosition(rank [8]chess.Kind) *chess.Position {
	p := chess.NewPosition()
	var rooks []int
	for file, kind := range rank {
		if kind == chess.Rook {
			rooks = append(rooks, file)
		}
		for _, side := range []chess.Side{chess.White, chess.Black} {
			home, pawns := 0, 1
			if side == chess.Black {
				home, pawns = 7, 6
			}
			c, _ := chess.NewCell(file, home)
			p.Place(side, kind, c)
			c, _ = chess.NewCell(file, pawns)
			p.Place(side, chess.Pawn, c)
		}
	}
	if len(rooks) == 2 {
		p.SetRookFiles(rooks[1], rooks[0])
	}
	p.SetCastling(chess.AllCastling)
	return p
}
