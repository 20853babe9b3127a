package battle

import "math/rand"

// Source is the randomness provider for combat rolls. Tests supply scripted
// implementations; production uses the shared math/rand/v2 generator.
type Source interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// IntN returns a non-negative value in [0, n). n must be positive.
	IntN(n int) int
}

type systemSource struct{}

func (systemSource) Float64() float64 { return rand.Float64() }
func (systemSource) IntN(n int) int   { return rand.Intn(n) }

// rollRange returns a value in [min, max] inclusive.
func rollRange(src Source, min, max int) int {
	if min >= max {
		return min
	}
	return min + src.IntN(max-min+1)
}
