package dicemen

import (
	"math/rand"
	"sync"
	"time"
)

// Game is the authoritative state of one dice duel. All mutations go
// through its methods and are serialized by the game's own mutex; the
// registry never reaches into a game directly.
type Game struct {
	ID        string
	Players   [2]Slot
	Current   int // index of the player to act, 0 or 1
	Round     int
	RoundOver bool
	Scores    [][2]int // captured-size totals per finished round
	CreatedAt time.Time
	UpdatedAt time.Time

	startingDice []int
	rng          *rand.Rand
	mutex        sync.Mutex
}

// NewGame creates a game with the creator in slot 0 and slot 1 open.
// The creator's pool is rolled immediately; the same starting-dice
// specification is used for the joiner and for every round reset.
func NewGame(id, creator string, startingDice []int, rng *rand.Rand) (*Game, error) {
	if len(startingDice) == 0 {
		startingDice = DefaultStartingDice
	}
	if err := validateStartingDice(startingDice); err != nil {
		return nil, err
	}
	sizes := make([]int, len(startingDice))
	copy(sizes, startingDice)

	now := time.Now().UTC()
	game := &Game{
		ID:           id,
		Current:      0,
		CreatedAt:    now,
		UpdatedAt:    now,
		startingDice: sizes,
		rng:          rng,
	}
	game.Players[0] = Slot{Identity: creator, Pool: rollPool(rng, sizes)}
	return game, nil
}

// Started reports whether both slots are filled.
func (g *Game) Started() bool {
	return g.Players[0].Filled() && g.Players[1].Filled()
}

// Join fills the open slot, rolls its pool, and determines who acts first
// (lowest roll goes first).
func (g *Game) Join(identity string) error {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if g.Players[0].Identity == identity || g.Players[1].Identity == identity {
		return newError(CodeAlreadyJoined, "player %s has already joined game %s", identity, g.ID)
	}
	if g.Started() {
		return newError(CodeGameFull, "game %s is full", g.ID)
	}

	g.Players[1] = Slot{Identity: identity, Pool: rollPool(g.rng, g.startingDice)}
	g.Current = startingPlayer([2]Pool{g.Players[0].Pool, g.Players[1].Pool})
	g.touch()
	return nil
}

// Attack resolves an attack by the caller. The bool result reports whether
// the attack landed: a losing roll is not an error, leaves every field
// untouched, and does not consume the turn. On success the defender die is
// captured, the spent attacker dice are rerolled, and the turn passes — or
// the round ends if the defender's pool is now empty, crediting the
// attacker with the win.
func (g *Game) Attack(identity string, attackerDice []int, defenderDie int) (bool, error) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	attackerIdx, err := g.turnOf(identity)
	if err != nil {
		return false, err
	}
	if g.RoundOver {
		return false, newError(CodeRoundAlreadyOver, "round is over in game %s", g.ID)
	}

	attack, err := NewAttack(attackerDice, defenderDie)
	if err != nil {
		return false, err
	}

	defenderIdx := 1 - attackerIdx
	attacker := &g.Players[attackerIdx]
	defender := &g.Players[defenderIdx]

	success, err := resolveAttack(attacker.Pool, defender.Pool, attack)
	if err != nil {
		return false, err
	}
	if !success {
		return false, nil
	}

	captured, err := defender.Pool.Capture(attack.DefenderDie)
	if err != nil {
		return false, err
	}
	attacker.Captured = append(attacker.Captured, captured)
	for _, index := range attack.AttackerDice {
		if err := attacker.Pool.Reroll(g.rng, index); err != nil {
			return false, err
		}
	}

	if len(defender.Pool) == 0 {
		g.RoundOver = true
		attacker.Wins++
	} else {
		g.Current = defenderIdx
	}
	g.touch()
	return true, nil
}

// Pass forfeits the turn. Only legal when the caller has no power or skill
// attack available; pools, captures, and wins are untouched.
func (g *Game) Pass(identity string) error {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	current, err := g.turnOf(identity)
	if err != nil {
		return err
	}
	if g.RoundOver {
		return newError(CodeRoundAlreadyOver, "round is over in game %s", g.ID)
	}
	if hasLegalAttack(g.Players[current].Pool, g.Players[1-current].Pool) {
		return newError(CodePassNotAllowed, "an attack is still possible")
	}

	g.Current = 1 - current
	g.touch()
	return nil
}

// NextRound starts a fresh round: the finished round's captured totals are
// recorded, both pools are rerolled from the original starting dice, both
// captured lists are cleared, and the round counter advances. Wins carry
// over. Either player may call it.
func (g *Game) NextRound(identity string) error {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, err := g.slotOf(identity); err != nil {
		return err
	}
	if !g.RoundOver {
		return newError(CodeRoundNotOver, "round is not over yet in game %s", g.ID)
	}

	g.Scores = append(g.Scores, [2]int{g.Players[0].Score(), g.Players[1].Score()})
	for i := range g.Players {
		g.Players[i].Pool = rollPool(g.rng, g.startingDice)
		g.Players[i].Captured = nil
	}
	g.Round++
	g.RoundOver = false
	g.Current = startingPlayer([2]Pool{g.Players[0].Pool, g.Players[1].Pool})
	g.touch()
	return nil
}

// slotOf returns the slot index occupied by identity.
func (g *Game) slotOf(identity string) (int, error) {
	for i := range g.Players {
		if g.Players[i].Filled() && g.Players[i].Identity == identity {
			return i, nil
		}
	}
	return 0, newError(CodeNotParticipant, "player %s has not joined game %s", identity, g.ID)
}

// turnOf verifies the game is in play and that it is identity's turn.
func (g *Game) turnOf(identity string) (int, error) {
	if !g.Started() {
		return 0, newError(CodeGameNotStarted, "game %s is waiting for an opponent", g.ID)
	}
	index, err := g.slotOf(identity)
	if err != nil {
		return 0, err
	}
	if index != g.Current {
		return 0, newError(CodeNotYourTurn, "it is not your turn")
	}
	return index, nil
}

func (g *Game) touch() {
	g.UpdatedAt = time.Now().UTC()
}

// LastUpdated returns the time of the last completed action.
func (g *Game) LastUpdated() time.Time {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	return g.UpdatedAt
}
