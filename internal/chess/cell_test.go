package chess

import (
	"errors"
	"testing"
)

func TestParseCellRoundTrip(t *testing.T) {
	for c := Cell(0); c < 64; c++ {
		got, err := ParseCell(c.String())
		if err != nil {
			t.Fatalf("ParseCell(%s): %v", c, err)
		}
		if got != c {
			t.Errorf("ParseCell(%s) = %d, want %d", c, got, c)
		}
	}
}

func TestParseCellRejectsInvalid(t *testing.T) {
	for _, s := range []string{"", "e", "e9", "i1", "a0", "E4", "e44"} {
		if _, err := ParseCell(s); !errors.Is(err, ErrInvalidCell) {
			t.Errorf("ParseCell(%q): expected ErrInvalidCell, got %v", s, err)
		}
	}
}

func TestCellCoordinates(t *testing.T) {
	tests := []struct {
		cell  string
		file  int
		rank  int
		light bool
	}{
		{"a1", 0, 0, false},
		{"h1", 7, 0, true},
		{"e4", 4, 3, true},
		{"d8", 3, 7, false},
		{"d1", 3, 0, true},
		{"h8", 7, 7, false},
	}
	for _, tt := range tests {
		c := MustCell(tt.cell)
		if c.File() != tt.file || c.Rank() != tt.rank {
			t.Errorf("%s: got file %d rank %d", tt.cell, c.File(), c.Rank())
		}
		if c.IsLight() != tt.light {
			t.Errorf("%s: IsLight = %v", tt.cell, c.IsLight())
		}
	}

	if _, ok := MustCell("h4").Offset(1, 0); ok {
		t.Error("Offset off the board should fail")
	}
	if NoCell.String() != "-" {
		t.Errorf("NoCell.String() = %q", NoCell.String())
	}
}

func TestCellSetOrder(t *testing.T) {
	var s CellSet
	for _, c := range []string{"h8", "a1", "e4", "b1"} {
		s = s.Add(MustCell(c))
	}
	s = s.Add(NoCell)
	if s.Len() != 4 {
		t.Fatalf("Len = %d", s.Len())
	}
	if got := s.String(); got != "{a1 b1 e4 h8}" {
		t.Errorf("String = %s", got)
	}
	s = s.Remove(MustCell("e4"))
	if s.Has(MustCell("e4")) || !s.Has(MustCell("h8")) {
		t.Errorf("Remove: %s", s)
	}
}

func TestBetween(t *testing.T) {
	tests := []struct {
		a, b string
		want []string
	}{
		{"e1", "h1", []string{"f1", "g1"}},
		{"h1", "e1", []string{"g1", "f1"}},
		{"a1", "d4", []string{"b2", "c3"}},
		{"e1", "e2", nil},
		{"a1", "b3", nil},
	}
	for _, tt := range tests {
		got := between(MustCell(tt.a), MustCell(tt.b))
		if len(got) != len(tt.want) {
			t.Errorf("between(%s, %s) = %v", tt.a, tt.b, got)
			continue
		}
		for i := range got {
			if got[i].String() != tt.want[i] {
				t.Errorf("between(%s, %s)[%d] = %s", tt.a, tt.b, i, got[i])
			}
		}
	}
}
