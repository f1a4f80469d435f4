package dicemen

import "time"

// GameView is the read model handed to polling clients. It mirrors the full
// game state so a client can render without follow-up queries.
type GameView struct {
	ID            string    `json:"id"`
	Players       [2]string `json:"players"`
	CurrentPlayer int       `json:"currentPlayer"`
	StartingDice  []int     `json:"startingDice"`
	Dice          [2][]Die  `json:"dice"`
	Captured      [2][]Die  `json:"captured"`
	Wins          [2]int    `json:"wins"`
	Scores        [][2]int  `json:"scores"`
	Round         int       `json:"round"`
	IsStarted     bool      `json:"isStarted"`
	IsRoundOver   bool      `json:"isRoundOver"`
	IsPassAllowed bool      `json:"isPassAllowed"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Snapshot returns a consistent deep copy of the game state. Safe to call
// concurrently with mutations; the copy never shows a half-applied action.
func (g *Game) Snapshot() GameView {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	return g.snapshotLocked()
}

func (g *Game) snapshotLocked() GameView {
	view := GameView{
		ID:            g.ID,
		CurrentPlayer: g.Current,
		StartingDice:  append([]int(nil), g.startingDice...),
		Scores:        append([][2]int(nil), g.Scores...),
		Round:         g.Round,
		IsStarted:     g.Started(),
		IsRoundOver:   g.RoundOver,
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
	}
	for i := range g.Players {
		view.Players[i] = g.Players[i].Identity
		view.Dice[i] = append([]Die(nil), g.Players[i].Pool...)
		view.Captured[i] = append([]Die(nil), g.Players[i].Captured...)
		view.Wins[i] = g.Players[i].Wins
	}
	if view.IsStarted && !view.IsRoundOver {
		view.IsPassAllowed = !hasLegalAttack(g.Players[g.Current].Pool, g.Players[1-g.Current].Pool)
	}
	return view
}

// AwaitingTurnOf reports whether the game is in play and identity is the
// player to act.
func (g *Game) AwaitingTurnOf(identity string) bool {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	return g.Started() && !g.RoundOver && g.Players[g.Current].Identity == identity
}

// Open reports whether the game still has an empty slot.
func (g *Game) Open() bool {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	return !g.Started()
}
