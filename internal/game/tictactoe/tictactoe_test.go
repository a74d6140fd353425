package tictactoe

import (
	"errors"
	"testing"

	"tictacbot/internal/game"
)

func TestLastEmptyPicksLastOpenCell(t *testing.T) {
	m, err := LastEmpty{}.Choose(game.ParseBoard("120000000"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m != (game.Move{Row: 2, Col: 2}) {
		t.Fatalf("expected (2,2), got %v", m)
	}
}

func TestLastEmptyScansPastEarlierCells(t *testing.T) {
	// Empty cells at (0,1) and (1,2); the later one in row-major order wins.
	m, err := LastEmpty{}.Choose(game.ParseBoard("102110121"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m != (game.Move{Row: 1, Col: 2}) {
		t.Fatalf("expected (1,2), got %v", m)
	}
}

func TestSingleEmptyCell(t *testing.T) {
	b := game.ParseBoard("121201212")
	for _, s := range []game.Strategy{LastEmpty{}, FirstEmpty{}, NewRandom(1)} {
		m, err := s.Choose(b)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", s.Name(), err)
		}
		if m != (game.Move{Row: 1, Col: 1}) {
			t.Fatalf("%s: expected (1,1), got %v", s.Name(), m)
		}
	}
}

func TestFullBoardHasNoLegalMove(t *testing.T) {
	b := game.ParseBoard("121212121")
	for _, s := range []game.Strategy{LastEmpty{}, FirstEmpty{}, NewRandom(1)} {
		m, err := s.Choose(b)
		if !errors.Is(err, game.ErrNoLegalMove) {
			t.Fatalf("%s: expected ErrNoLegalMove, got %v", s.Name(), err)
		}
		if b.Legal(m) {
			t.Fatalf("%s: returned a legal-looking move %v on a full board", s.Name(), m)
		}
	}
}

func TestFirstEmpty(t *testing.T) {
	m, err := FirstEmpty{}.Choose(game.ParseBoard("120000000"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m != (game.Move{Row: 0, Col: 2}) {
		t.Fatalf("expected (0,2), got %v", m)
	}
}

func TestRandomOnlyPicksEmptyCells(t *testing.T) {
	b := game.ParseBoard("102010201")
	r := NewRandom(42)
	for i := 0; i < 100; i++ {
		m, err := r.Choose(b)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !b.Legal(m) {
			t.Fatalf("random picked occupied cell %v", m)
		}
	}
}

func TestRandomDeterministicForSeed(t *testing.T) {
	b := game.Board{}
	a, c := NewRandom(7), NewRandom(7)
	for i := 0; i < 20; i++ {
		m1, _ := a.Choose(b)
		m2, _ := c.Choose(b)
		if m1 != m2 {
			t.Fatalf("move %d differs for equal seeds: %v vs %v", i, m1, m2)
		}
	}
}

func TestRegister(t *testing.T) {
	r := game.NewRegistry()
	Register(r, 1)
	for _, name := range []string{"last-empty", "first-empty", "random"} {
		if _, ok := r.Get(name); !ok {
			t.Fatalf("expected %s to be registered", name)
		}
	}
}
