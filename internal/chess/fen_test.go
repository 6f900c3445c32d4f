package chess

import (
	"errors"
	"testing"

	nchess "github.com/notnil/chess"
)

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
		"r3k2r/8/8/8/8/8/8/R3K2R w Kq - 0 1",
		"8/8/8/8/8/p7/P7/R3K2k w - - 0 1",
		"7k/5Q2/6K1/8/8/8/8/8 b - - 0 1",
	}
	for _, fen := range fens {
		p, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		if got := p.FEN(); got != fen {
			t.Errorf("round trip:\n got %s\nwant %s", got, fen)
		}
	}
}

func TestFENMoveCountersAreFixed(t *testing.T) {
	p := MustParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 12 40")
	if got := p.FEN(); got != StartFEN {
		t.Errorf("got %s", got)
	}
	p = MustParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -")
	if got := p.FEN(); got != StartFEN {
		t.Errorf("got %s", got)
	}
}

func TestFENAfterDoublePush(t *testing.T) {
	p := MustParseFEN(StartFEN)
	m, err := BuildMove(p, MustCell("e2"), MustCell("e4"), NoKind)
	if err != nil {
		t.Fatal(err)
	}
	p.Apply(m)
	want := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"
	if got := p.FEN(); got != want {
		t.Errorf("got %s, want %s", got, want)
	}

	m, _ = BuildMove(p, MustCell("g8"), MustCell("f6"), NoKind)
	p.Apply(m)
	want = "rnbqkb1r/pppppppp/5n2/8/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 1"
	if got := p.FEN(); got != want {
		t.Errorf("en passant target must clear: got %s", got)
	}
}

func TestParseFENRejectsInvalidInput(t *testing.T) {
	testCases := []struct {
		name string
		fen  string
	}{
		{"Empty", ""},
		{"Too few sections", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq"},
		{"Invalid board", "invalid/board/config/here w KQkq - 0 1"},
		{"Seven ranks", "rnbqkbnr/pppppppp/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{"Overlong rank", "rnbqkbnrr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{"Short rank", "rnbqkbn/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{"Bad side", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1"},
		{"Bad castling", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KX - 0 1"},
		{"Bad en passant", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq z9 0 1"},
		{"Two white kings", "4k3/8/8/8/8/8/8/3KK3 w - - 0 1"},
		{"Bad counter", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - x 1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseFEN(tc.fen); !errors.Is(err, ErrInvalidPosition) {
				t.Errorf("expected ErrInvalidPosition, got %v", err)
			}
		})
	}
}

func TestFENAcceptedByIndependentParser(t *testing.T) {
	p := MustParseFEN(StartFEN)
	for _, mv := range [][2]string{{"e2", "e4"}, {"c7", "c5"}, {"g1", "f3"}} {
		m, _ := BuildMove(p, MustCell(mv[0]), MustCell(mv[1]), NoKind)
		p.Apply(m)
		if _, err := nchess.FEN(p.FEN()); err != nil {
			t.Errorf("exported %q rejected: %v", p.FEN(), err)
		}
	}
}

func TestParsePromotion(t *testing.T) {
	tests := []struct {
		input    string
		expected Kind
	}{
		{"q", Queen},
		{"r", Rook},
		{"b", Bishop},
		{"n", Knight},
		{"knight", Knight},
		{"queen", Queen},
		{"k", NoKind},
		{"x", NoKind},
		{"", NoKind},
	}

	for _, test := range tests {
		result := ParsePromotion(test.input)
		if result != test.expected {
			t.Errorf("ParsePromotion(%s) = %v, expected %v", test.input, result, test.expected)
		}
	}
}
