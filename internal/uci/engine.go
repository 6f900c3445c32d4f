// Package uci drives an external UCI engine over a local process pipe and
// exposes it as a game.Mover.
package uci

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	nchess "github.com/notnil/chess"
	nuci "github.com/notnil/chess/uci"
	"github.com/rs/zerolog"

	"github.com/justinabrahms/chessvariants/internal/chess"
	"github.com/justinabrahms/chessvariants/internal/search"
)

var ErrEngineClosed = errors.New("uci: engine closed")

type Config struct {
	Path    string
	Depth   int
	Timeout time.Duration
}

// Engine is one running engine process. Searches are serialized; a search
// abandoned by its caller still occupies the process until it answers.
type Engine struct {
	mu      sync.Mutex
	eng     *nuci.Engine
	depth   int
	timeout time.Duration
	log     zerolog.Logger
	closed  atomic.Bool
}

// Start launches the engine binary and performs the UCI handshake.
func Start(cfg Config, logger zerolog.Logger) (*Engine, error) {
	eng, err := nuci.New(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("start engine %s: %w", cfg.Path, err)
	}
	if err := eng.Run(nuci.CmdUCI, nuci.CmdIsReady, nuci.CmdUCINewGame); err != nil {
		_ = eng.Close()
		return nil, fmt.Errorf("engine handshake: %w", err)
	}
	depth := cfg.Depth
	if depth < 1 {
		depth = 1
	}
	logger.Info().Str("path", cfg.Path).Int("depth", depth).Msg("UCI engine ready")
	return &Engine{eng: eng, depth: depth, timeout: cfg.Timeout, log: logger}, nil
}

type answer struct {
	move *nchess.Move
	err  error
}

// ChooseMove asks the engine for side's move in p. p is only read. On
// timeout or cancellation the caller gets ctx's error and no move.
func (e *Engine) ChooseMove(ctx context.Context, p *chess.Position, side chess.Side) (chess.Move, error) {
	if p.Turn() != side {
		return chess.Move{}, fmt.Errorf("%w: %s is not to move", chess.ErrInvalidState, side)
	}
	fen := p.FEN()
	opt, err := nchess.FEN(fen)
	if err != nil {
		return chess.Move{}, fmt.Errorf("engine position %q: %w", fen, err)
	}
	pos := nchess.NewGame(opt).Position()

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	started := time.Now()
	ch := make(chan answer, 1)
	go func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.closed.Load() {
			ch <- answer{err: ErrEngineClosed}
			return
		}
		if err := e.eng.Run(nuci.CmdPosition{Position: pos}, nuci.CmdGo{Depth: e.depth}); err != nil {
			ch <- answer{err: err}
			return
		}
		ch <- answer{move: e.eng.SearchResults().BestMove}
	}()

	var a answer
	select {
	case <-ctx.Done():
		e.log.Warn().Err(ctx.Err()).Str("fen", fen).Msg("UCI search abandoned")
		return chess.Move{}, ctx.Err()
	case a = <-ch:
	}
	if a.err != nil {
		return chess.Move{}, fmt.Errorf("engine search: %w", a.err)
	}
	if a.move == nil {
		return chess.Move{}, search.ErrSearchExhausted
	}

	m, err := chess.BuildMove(p, chess.Cell(a.move.S1()), chess.Cell(a.move.S2()), kindOf(a.move.Promo()))
	if err != nil {
		return chess.Move{}, fmt.Errorf("engine answered %s: %w", a.move, err)
	}
	e.log.Debug().Str("fen", fen).Str("move", m.UCI()).Dur("took", time.Since(started)).Msg("UCI best move")
	return m, nil
}

// Close stops the engine process. A search still waiting on the process
// fails once it exits.
func (e *Engine) Close() error {
	if e.closed.Swap(true) {
		return nil
	}
	return e.eng.Close()
}

func kindOf(pt nchess.PieceType) chess.Kind {
	switch pt {
	case nchess.Queen:
		return chess.Queen
	case nchess.Rook:
		return chess.Rook
	case nchess.Bishop:
		return chess.Bishop
	case nchess.Knight:
		return chess.Knight
	}
	return chess.NoKind
}
