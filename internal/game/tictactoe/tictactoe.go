package tictactoe

import (
	"math/rand"
	"sync"

	"tictacbot/internal/game"
)

// Register adds every strategy in this package to r. seed feeds Random.
func Register(r *game.Registry, seed int64) {
	r.Register(LastEmpty{})
	r.Register(FirstEmpty{})
	r.Register(NewRandom(seed))
}

// LastEmpty scans the board in row-major order and plays the last empty cell
// it passes. The scan never stops early.
type LastEmpty struct{}

func (LastEmpty) Name() string { return "last-empty" }

func (LastEmpty) Choose(b game.Board) (game.Move, error) {
	m := game.NoMove
	for row := 0; row < game.Size; row++ {
		for col := 0; col < game.Size; col++ {
			if b[row][col] == game.Empty {
				m = game.Move{Row: row, Col: col}
			}
		}
	}
	if !m.Valid() {
		return m, game.ErrNoLegalMove
	}
	return m, nil
}

// FirstEmpty plays the first empty cell in row-major order.
type FirstEmpty struct{}

func (FirstEmpty) Name() string { return "first-empty" }

func (FirstEmpty) Choose(b game.Board) (game.Move, error) {
	for row := 0; row < game.Size; row++ {
		for col := 0; col < game.Size; col++ {
			if b[row][col] == game.Empty {
				return game.Move{Row: row, Col: col}, nil
			}
		}
	}
	return game.NoMove, game.ErrNoLegalMove
}

// Random plays a uniformly chosen empty cell.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom returns a Random strategy. The same seed gives the same moves.
func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (*Random) Name() string { return "random" }

func (r *Random) Choose(b game.Board) (game.Move, error) {
	var open []game.Move
	for row := 0; row < game.Size; row++ {
		for col := 0; col < game.Size; col++ {
			if b[row][col] == game.Empty {
				open = append(open, game.Move{Row: row, Col: col})
			}
		}
	}
	if len(open) == 0 {
		return game.NoMove, game.ErrNoLegalMove
	}
	r.mu.Lock()
	i := r.rng.Intn(len(open))
	r.mu.Unlock()
	return open[i], nil
}
