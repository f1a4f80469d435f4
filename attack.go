package dicemen

import "sort"

// AttackKind distinguishes the two attack types. The kind is fixed when the
// attack is constructed at the boundary, never re-inferred from the shape of
// the selection.
type AttackKind string

const (
	// AttackPower is a single-die attack. It succeeds when the attacker
	// die's value is greater than or equal to the defender die's value.
	AttackPower AttackKind = "power"

	// AttackSkill is a multi-die attack. It succeeds when the sum of the
	// selected attacker values equals the defender die's value exactly.
	AttackSkill AttackKind = "skill"
)

// Attack is a validated attack selection: which attacker dice are spent
// against which defender die.
type Attack struct {
	Kind         AttackKind
	AttackerDice []int
	DefenderDie  int
}

// NewAttack validates a raw selection and tags it as a power or skill
// attack. Index bounds are checked later against the live pools; this only
// enforces the shape of the selection.
func NewAttack(attackerDice []int, defenderDie int) (Attack, error) {
	if len(attackerDice) == 0 {
		return Attack{}, newError(CodeEmptyAttackSelection, "attack requires at least one attacker die")
	}
	seen := make(map[int]bool, len(attackerDice))
	for _, index := range attackerDice {
		if seen[index] {
			return Attack{}, newError(CodeDuplicateDieIndex, "attacker die index %d selected twice", index)
		}
		seen[index] = true
	}
	kind := AttackPower
	if len(attackerDice) > 1 {
		kind = AttackSkill
	}
	return Attack{Kind: kind, AttackerDice: attackerDice, DefenderDie: defenderDie}, nil
}

// resolveAttack reports whether the attack succeeds against the given pools.
// It mutates nothing; bounds violations on either side are errors, a losing
// roll is a plain false.
func resolveAttack(attacker, defender Pool, attack Attack) (bool, error) {
	if attack.DefenderDie < 0 || attack.DefenderDie >= len(defender) {
		return false, newError(CodeInvalidDieIndex, "defender die index %d out of range (pool has %d dice)", attack.DefenderDie, len(defender))
	}
	total := 0
	for _, index := range attack.AttackerDice {
		if index < 0 || index >= len(attacker) {
			return false, newError(CodeInvalidDieIndex, "attacker die index %d out of range (pool has %d dice)", index, len(attacker))
		}
		total += attacker[index].Value
	}
	target := defender[attack.DefenderDie].Value

	switch attack.Kind {
	case AttackPower:
		return total >= target, nil
	default:
		return total == target, nil
	}
}

// findPowerAttack reports whether any single attacker die can beat any
// defender die.
func findPowerAttack(attacker, defender Pool) bool {
	for _, a := range attacker {
		for _, d := range defender {
			if a.Value >= d.Value {
				return true
			}
		}
	}
	return false
}

// findSkillAttack reports whether some set of two or more attacker dice sums
// exactly to any defender die's value.
func findSkillAttack(attacker, defender Pool) bool {
	for _, d := range defender {
		if subsetSums(attacker, d.Value) {
			return true
		}
	}
	return false
}

// subsetSums reports whether at least two dice from the pool sum exactly to
// target. Pools are at most MaxStartingDice dice, so the exponential search
// is fine.
func subsetSums(pool Pool, target int) bool {
	var walk func(index, sum, used int) bool
	walk = func(index, sum, used int) bool {
		if sum > target {
			return false
		}
		if index == len(pool) {
			return sum == target && used >= 2
		}
		if walk(index+1, sum+pool[index].Value, used+1) {
			return true
		}
		return walk(index+1, sum, used)
	}
	return walk(0, 0, 0)
}

// hasLegalAttack reports whether any power or skill attack is available.
// Passing is only legal when this is false.
func hasLegalAttack(attacker, defender Pool) bool {
	return findPowerAttack(attacker, defender) || findSkillAttack(attacker, defender)
}

// startingPlayer picks who acts first: whoever rolled the single lowest
// value. Ties compare the next lowest values, walking up both sorted pools;
// a full tie leaves player 0 first.
func startingPlayer(pools [2]Pool) int {
	sorted := [2][]int{}
	for i, pool := range pools {
		values := make([]int, len(pool))
		for j, die := range pool {
			values[j] = die.Value
		}
		sort.Ints(values)
		sorted[i] = values
	}
	for i := 0; i < len(sorted[0]) && i < len(sorted[1]); i++ {
		if sorted[1][i] < sorted[0][i] {
			return 1
		}
		if sorted[0][i] < sorted[1][i] {
			return 0
		}
	}
	return 0
}
