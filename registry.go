package dicemen

import (
	"context"
	"log/slog"
	"math/rand"
	"sort"
	"sync"
	"time"
)

const (
	// DefaultGameTTL is how long an idle game is kept before cleanup.
	DefaultGameTTL = 24 * time.Hour

	// DefaultOpenListLimit caps the open-games listing.
	DefaultOpenListLimit = 10

	cleanupInterval    = time.Minute
	monitoringInterval = time.Minute
)

// Registry is the keyed collection of in-flight games. Its own RWMutex
// guards only the maps; each game serializes its mutations with its own
// lock, so unrelated games never contend.
type Registry struct {
	gameTTL       time.Duration
	openListLimit int

	mu       sync.RWMutex
	games    map[string]*Game
	byPlayer map[string][]string

	seed func() int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRegistry creates an empty registry with default limits.
func NewRegistry() *Registry {
	ctx, cancel := context.WithCancel(context.Background())
	return &Registry{
		gameTTL:       DefaultGameTTL,
		openListLimit: DefaultOpenListLimit,
		games:         make(map[string]*Game),
		byPlayer:      make(map[string][]string),
		seed:          func() int64 { return time.Now().UnixNano() },
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Start launches the cleanup and monitoring workers.
func (r *Registry) Start() {
	r.wg.Add(2)
	go r.cleanupWorker()
	go r.monitoringWorker()
}

// Stop shuts the workers down and waits for them.
func (r *Registry) Stop() {
	r.cancel()
	r.wg.Wait()
}

// Create registers a new game with the caller in slot 0. An empty dice
// specification falls back to the default starting set.
func (r *Registry) Create(identity string, startingDice []int) (GameView, error) {
	id := newGameID()
	rng := rand.New(rand.NewSource(r.seed()))
	game, err := NewGame(id, identity, startingDice, rng)
	if err != nil {
		return GameView{}, err
	}

	r.mu.Lock()
	r.games[id] = game
	r.byPlayer[identity] = append(r.byPlayer[identity], id)
	r.mu.Unlock()

	return game.Snapshot(), nil
}

// Join adds the caller to the open slot of a game.
func (r *Registry) Join(id, identity string) (GameView, error) {
	game, err := r.lookup(id)
	if err != nil {
		return GameView{}, err
	}
	if err := game.Join(identity); err != nil {
		return GameView{}, err
	}

	r.mu.Lock()
	r.byPlayer[identity] = append(r.byPlayer[identity], id)
	r.mu.Unlock()

	return game.Snapshot(), nil
}

// Attack resolves an attack in the named game. The bool result is the
// success flag; a failed attack is not an error and mutates nothing.
func (r *Registry) Attack(id, identity string, attackerDice []int, defenderDie int) (GameView, bool, error) {
	game, err := r.lookup(id)
	if err != nil {
		return GameView{}, false, err
	}
	success, err := game.Attack(identity, attackerDice, defenderDie)
	if err != nil {
		return GameView{}, false, err
	}
	return game.Snapshot(), success, nil
}

// Pass forfeits the caller's turn in the named game.
func (r *Registry) Pass(id, identity string) (GameView, error) {
	game, err := r.lookup(id)
	if err != nil {
		return GameView{}, err
	}
	if err := game.Pass(identity); err != nil {
		return GameView{}, err
	}
	return game.Snapshot(), nil
}

// NextRound resets the named game for a fresh round.
func (r *Registry) NextRound(id, identity string) (GameView, error) {
	game, err := r.lookup(id)
	if err != nil {
		return GameView{}, err
	}
	if err := game.NextRound(identity); err != nil {
		return GameView{}, err
	}
	return game.Snapshot(), nil
}

// Status returns a snapshot of the named game.
func (r *Registry) Status(id string) (GameView, error) {
	game, err := r.lookup(id)
	if err != nil {
		return GameView{}, err
	}
	return game.Snapshot(), nil
}

// ListOpen returns the newest games that still have an empty slot.
func (r *Registry) ListOpen() []GameView {
	games := r.all()
	views := make([]GameView, 0, r.openListLimit)
	for _, game := range games {
		if !game.Open() {
			continue
		}
		views = append(views, game.Snapshot())
		if len(views) == r.openListLimit {
			break
		}
	}
	return views
}

// ListAwaiting returns the games where it is the given player's turn.
func (r *Registry) ListAwaiting(identity string) []GameView {
	views := []GameView{}
	for _, game := range r.gamesOf(identity) {
		if game.AwaitingTurnOf(identity) {
			views = append(views, game.Snapshot())
		}
	}
	return views
}

// ListByPlayer returns every game the given player has joined, newest first.
func (r *Registry) ListByPlayer(identity string) []GameView {
	games := r.gamesOf(identity)
	views := make([]GameView, len(games))
	for i, game := range games {
		views[i] = game.Snapshot()
	}
	return views
}

// ActiveCount returns the number of registered games.
func (r *Registry) ActiveCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}

func (r *Registry) lookup(id string) (*Game, error) {
	r.mu.RLock()
	game, ok := r.games[id]
	r.mu.RUnlock()
	if !ok {
		return nil, newError(CodeGameNotFound, "game not found: %s", id)
	}
	return game, nil
}

// all returns every game, newest first. Collected under the read lock;
// snapshots are taken by the caller outside it.
func (r *Registry) all() []*Game {
	r.mu.RLock()
	games := make([]*Game, 0, len(r.games))
	for _, game := range r.games {
		games = append(games, game)
	}
	r.mu.RUnlock()
	sort.Slice(games, func(i, j int) bool {
		return games[i].CreatedAt.After(games[j].CreatedAt)
	})
	return games
}

// gamesOf returns the player's games, newest first.
func (r *Registry) gamesOf(identity string) []*Game {
	r.mu.RLock()
	ids := r.byPlayer[identity]
	games := make([]*Game, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		if game, ok := r.games[ids[i]]; ok {
			games = append(games, game)
		}
	}
	r.mu.RUnlock()
	return games
}

func (r *Registry) cleanupWorker() {
	defer r.wg.Done()

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.cleanupStaleGames()
		case <-r.ctx.Done():
			return
		}
	}
}

// cleanupStaleGames drops games that have seen no action for longer than
// the TTL, along with their player-index entries.
func (r *Registry) cleanupStaleGames() {
	cutoff := time.Now().UTC().Add(-r.gameTTL)

	r.mu.Lock()
	defer r.mu.Unlock()

	stale := map[string]bool{}
	for id, game := range r.games {
		if game.LastUpdated().Before(cutoff) {
			stale[id] = true
		}
	}
	if len(stale) == 0 {
		return
	}
	for id := range stale {
		delete(r.games, id)
		slog.Info("cleaned up stale game", slog.String("game_id", id))
	}
	for identity, ids := range r.byPlayer {
		kept := ids[:0]
		for _, id := range ids {
			if !stale[id] {
				kept = append(kept, id)
			}
		}
		if len(kept) == 0 {
			delete(r.byPlayer, identity)
			continue
		}
		r.byPlayer[identity] = kept
	}
}

func (r *Registry) monitoringWorker() {
	defer r.wg.Done()

	ticker := time.NewTicker(monitoringInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.mu.RLock()
			games, players := len(r.games), len(r.byPlayer)
			r.mu.RUnlock()
			slog.Info("registry metrics",
				slog.Int("active_games", games),
				slog.Int("known_players", players))
		case <-r.ctx.Done():
			return
		}
	}
}
