package dicemen

// Slot is one side of a game: an identity (empty until joined), the dice
// still in play, the dice captured from the opponent this round, and the
// win count carried across rounds.
type Slot struct {
	Identity string `json:"identity"`
	Pool     Pool   `json:"pool"`
	Captured []Die  `json:"captured"`
	Wins     int    `json:"wins"`
}

// Filled reports whether a player occupies the slot.
func (s *Slot) Filled() bool {
	return s.Identity != ""
}

// Score is the sum of captured die sizes for the current round.
func (s *Slot) Score() int {
	score := 0
	for _, die := range s.Captured {
		score += die.Size
	}
	return score
}
