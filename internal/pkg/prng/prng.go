// Package prng provides a deterministic pseudo-random source for
// reproducible dungeon and loot generation. The same seed always yields
// the same sequence, on any platform — generation must be replayable
// from a recorded seed alone.
package prng

const (
	lcgMultiplier = 1103515245
	lcgIncrement  = 12345
	lcgModulus    = 1 << 31
)

// Source is a linear-congruential generator over a single integer state.
// It is not safe for concurrent use; each generation run owns its own Source.
type Source struct {
	seed  int64
	state int64
}

// New creates a Source from a 32-bit-range seed.
func New(seed int64) *Source {
	return &Source{
		seed:  seed,
		state: seed % lcgModulus,
	}
}

// Seed returns the seed the Source was created with. The seed is never
// mutated; only the internal state advances.
func (s *Source) Seed() int64 {
	return s.seed
}

// Next advances the generator and returns a value in [0, 1).
func (s *Source) Next() float64 {
	s.state = (s.state*lcgMultiplier + lcgIncrement) % lcgModulus
	if s.state < 0 {
		s.state += lcgModulus
	}
	return float64(s.state) / float64(lcgModulus)
}

// Between returns a uniform integer in [minVal, maxVal] inclusive.
func (s *Source) Between(minVal, maxVal int) int {
	if maxVal <= minVal {
		return minVal
	}
	return minVal + int(s.Next()*float64(maxVal-minVal+1))
}

// Chance returns true with the given probability in [0, 1].
func (s *Source) Chance(p float64) bool {
	return s.Next() < p
}

// Pick returns a uniformly chosen element of list. It panics on an empty
// list; callers pick from fixed non-empty tables.
func Pick[T any](s *Source, list []T) T {
	return list[s.Between(0, len(list)-1)]
}

// DeriveFloorSeed mixes a run seed with a floor number so each floor can be
// re-generated independently of how much of the stream earlier floors
// consumed.
func DeriveFloorSeed(base int64, floor int) int64 {
	seed := uint32(base) ^ (uint32(floor) * 2654435761)
	seed = (seed ^ (seed >> 16)) * 0x85ebca6b
	seed = (seed ^ (seed >> 13)) * 0xc2b2ae35
	return int64(seed^(seed>>16)) % lcgModulus
}
