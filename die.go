package dicemen

import "math/rand"

// DefaultStartingDice is the classic starting set used when a game is
// created without an explicit dice specification.
var DefaultStartingDice = []int{4, 6, 8, 10, 20}

// MaxStartingDice caps how many dice a single player may start with.
const MaxStartingDice = 10

// Die is a single rolled die: a face count and the value currently showing.
// A Die never changes once rolled; rerolling replaces it with a fresh roll
// of the same size.
type Die struct {
	Size  int `json:"size"`
	Value int `json:"value"`
}

// rollDie rolls a single die with the given number of faces.
// Value is uniform in [1, size].
func rollDie(rng *rand.Rand, size int) Die {
	return Die{Size: size, Value: rng.Intn(size) + 1}
}

// Pool is one player's dice for the current round. Indices are positional
// and only stable within a single resolved action: capturing a die shifts
// every later index down by one.
type Pool []Die

// rollPool rolls a fresh pool from a list of face counts.
func rollPool(rng *rand.Rand, sizes []int) Pool {
	pool := make(Pool, len(sizes))
	for i, size := range sizes {
		pool[i] = rollDie(rng, size)
	}
	return pool
}

// Reroll replaces the die at index with a fresh roll of the same size.
func (p Pool) Reroll(rng *rand.Rand, index int) error {
	if index < 0 || index >= len(p) {
		return newError(CodeInvalidDieIndex, "die index %d out of range (pool has %d dice)", index, len(p))
	}
	p[index] = rollDie(rng, p[index].Size)
	return nil
}

// Capture removes and returns the die at index. Later dice shift down; the
// pool never contains placeholder entries.
func (p *Pool) Capture(index int) (Die, error) {
	if index < 0 || index >= len(*p) {
		return Die{}, newError(CodeInvalidDieIndex, "die index %d out of range (pool has %d dice)", index, len(*p))
	}
	die := (*p)[index]
	*p = append((*p)[:index], (*p)[index+1:]...)
	return die, nil
}

// validateStartingDice checks a starting-dice specification.
func validateStartingDice(sizes []int) error {
	if len(sizes) == 0 {
		return newError(CodeInvalidDiceSpec, "starting dice must not be empty")
	}
	if len(sizes) > MaxStartingDice {
		return newError(CodeInvalidDiceSpec, "too many starting dice: %d (max %d)", len(sizes), MaxStartingDice)
	}
	for _, size := range sizes {
		if size <= 0 {
			return newError(CodeInvalidDiceSpec, "invalid die size %d", size)
		}
	}
	return nil
}
