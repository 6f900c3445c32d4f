package uci

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	nchess "github.com/notnil/chess"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justinabrahms/chessvariants/internal/chess"
)

// fakeEngine writes a shell script speaking just enough UCI. goReply is the
// line printed in answer to "go"; empty means never answer.
func fakeEngine(t *testing.T, goReply string) string {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	onGo := ":"
	if goReply != "" {
		onGo = "echo '" + goReply + "'"
	}
	script := `#!/bin/sh
while read -r line; do
  case "$line" in
    uci) echo "id name fake"; echo "uciok" ;;
    isready) echo "readyok" ;;
    go*) ` + onGo + ` ;;
    quit) exit 0 ;;
  esac
done
`
	path := filepath.Join(t.TempDir(), "engine.sh")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func start(t *testing.T, path string, timeout time.Duration) *Engine {
	t.Helper()
	eng, err := Start(Config{Path: path, Depth: 3, Timeout: timeout}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })
	return eng
}

func TestChooseMove(t *testing.T) {
	eng := start(t, fakeEngine(t, "bestmove e7e5"), 5*time.Second)

	p := chess.MustParseFEN("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1")
	m, err := eng.ChooseMove(context.Background(), p, chess.Black)
	require.NoError(t, err)
	assert.Equal(t, "e7-e5", m.Signature())
	assert.Equal(t, chess.Pawn, m.Piece.Kind)
	assert.Equal(t, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1", p.FEN())
}

func TestChooseMoveWrongSide(t *testing.T) {
	eng := start(t, fakeEngine(t, "bestmove e7e5"), time.Second)
	_, err := eng.ChooseMove(context.Background(), chess.MustParseFEN(chess.StartFEN), chess.Black)
	assert.True(t, errors.Is(err, chess.ErrInvalidState))
}

func TestChooseMoveTimeout(t *testing.T) {
	eng := start(t, fakeEngine(t, ""), 100*time.Millisecond)

	p := chess.MustParseFEN(chess.StartFEN)
	_, err := eng.ChooseMove(context.Background(), p, chess.White)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, chess.StartFEN, p.FEN())
}

func TestStartMissingBinary(t *testing.T) {
	_, err := Start(Config{Path: filepath.Join(t.TempDir(), "missing")}, zerolog.Nop())
	assert.Error(t, err)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, chess.Queen, kindOf(nchess.Queen))
	assert.Equal(t, chess.Knight, kindOf(nchess.Knight))
	assert.Equal(t, chess.NoKind, kindOf(nchess.NoPieceType))
	assert.Equal(t, chess.NoKind, kindOf(nchess.King))
}
