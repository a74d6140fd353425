package game

import "testing"

func TestParseBoardRowMajor(t *testing.T) {
	b := ParseBoard("120000102")
	want := Board{
		{CellX, CellO, Empty},
		{Empty, Empty, Empty},
		{CellX, Empty, CellO},
	}
	if b != want {
		t.Fatalf("expected %v, got %v", want, b)
	}
}

func TestParseBoardSkipsNonDigits(t *testing.T) {
	// The server has been seen sending the board as a nested JSON array.
	b := ParseBoard("[[1,0,0],[0,2,0],[0,0,1]]")
	if b.String() != "100020001" {
		t.Fatalf("expected 100020001, got %s", b.String())
	}
}

func TestParseBoardSkipsOutOfRangeDigits(t *testing.T) {
	b := ParseBoard("3912")
	if b[0][0] != CellX || b[0][1] != CellO {
		t.Fatalf("expected digits 3 and 9 to be skipped, got %s", b.String())
	}
}

func TestParseBoardShortLeavesEmpty(t *testing.T) {
	b := ParseBoard("21")
	if b.String() != "210000000" {
		t.Fatalf("expected 210000000, got %s", b.String())
	}
}

func TestParseBoardIgnoresExtraDigits(t *testing.T) {
	b := ParseBoard("1111111112222")
	if b.String() != "111111111" {
		t.Fatalf("expected 111111111, got %s", b.String())
	}
}

func TestBoardLegal(t *testing.T) {
	b := ParseBoard("100000000")
	cases := []struct {
		m    Move
		want bool
	}{
		{Move{0, 0}, false},
		{Move{0, 1}, true},
		{Move{2, 2}, true},
		{NoMove, false},
		{Move{3, 0}, false},
		{Move{0, -1}, false},
	}
	for _, tc := range cases {
		if got := b.Legal(tc.m); got != tc.want {
			t.Errorf("Legal(%v) = %v, want %v", tc.m, got, tc.want)
		}
	}
}

func TestBoardFull(t *testing.T) {
	if ParseBoard("121212120").Full() {
		t.Fatal("board with one empty cell reported full")
	}
	if !ParseBoard("121212121").Full() {
		t.Fatal("expected full board")
	}
}

func TestBoardWinner(t *testing.T) {
	cases := []struct {
		board string
		want  Cell
	}{
		{"111000000", CellX},
		{"200200200", CellO},
		{"102010201", CellX},
		{"001020100", Empty},
		{"120000000", Empty},
	}
	for _, tc := range cases {
		if got := ParseBoard(tc.board).Winner(); got != tc.want {
			t.Errorf("Winner(%s) = %v, want %v", tc.board, got, tc.want)
		}
	}
}
