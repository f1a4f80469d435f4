package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	gws "github.com/gorilla/websocket"

	"github.com/tkahng/dicemen"
	"github.com/tkahng/dicemen/websocket"
)

var startTime = time.Now()

// GameServer exposes the dice engine over HTTP and websocket.
type GameServer struct {
	registry *dicemen.Registry
	hub      *websocket.Hub
	upgrader gws.Upgrader
	router   chi.Router
	timeout  time.Duration
}

// NewGameServer wires the registry and realtime hub into a router.
func NewGameServer(registry *dicemen.Registry, cfg Config) *GameServer {
	gs := &GameServer{
		registry: registry,
		hub:      websocket.NewHub(),
		upgrader: gws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		router:  chi.NewRouter(),
		timeout: cfg.RequestTimeout,
	}
	if gs.timeout <= 0 {
		gs.timeout = 15 * time.Second
	}
	if len(cfg.AllowedOrigins) > 0 {
		allowed := make(map[string]bool, len(cfg.AllowedOrigins))
		for _, origin := range cfg.AllowedOrigins {
			allowed[origin] = true
		}
		gs.upgrader.CheckOrigin = func(r *http.Request) bool {
			return allowed[r.Header.Get("Origin")]
		}
		gs.router.Use(Cors(cfg.AllowedOrigins))
	}
	gs.routes()
	return gs
}

// Handler returns the root HTTP handler.
func (gs *GameServer) Handler() http.Handler {
	return gs.router
}

func (gs *GameServer) routes() {
	// The stream endpoint lives outside the timeout group: a websocket is
	// long-lived by design.
	gs.router.Get("/api/games/{id}/ws", gs.gameStream)

	gs.router.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(gs.timeout))
		r.Use(PlayerID)

		r.Route("/api/games", func(r chi.Router) {
			r.Get("/", gs.listOpenGames)
			r.Post("/", gs.createGame)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", gs.gameStatus)
				r.Post("/join", gs.joinGame)
				r.Post("/attack", gs.attack)
				r.Post("/pass", gs.pass)
				r.Post("/next-round", gs.nextRound)
			})
		})
		r.Route("/api/users/{id}", func(r chi.Router) {
			r.Get("/games", gs.playerGames)
			r.Get("/turn", gs.playerTurnGames)
		})
	})

	gs.router.Get("/api/health", gs.handleHealth)
	gs.router.Get("/api/stats", gs.handleStats)
}

type createGameRequest struct {
	StartingDice []int `json:"startingDice"`
}

type attackRequest struct {
	AttackerDice []int `json:"attackerDice"`
	DefenderDie  int   `json:"defenderDie"`
}

type attackResponse struct {
	Success bool             `json:"success"`
	Game    dicemen.GameView `json:"game"`
}

func (gs *GameServer) createGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, "invalid request body")
			return
		}
	}
	view, err := gs.registry.Create(playerIDFromContext(r.Context()), req.StartingDice)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (gs *GameServer) joinGame(w http.ResponseWriter, r *http.Request) {
	view, err := gs.registry.Join(chi.URLParam(r, "id"), playerIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	gs.publish(view)
	writeJSON(w, http.StatusOK, view)
}

func (gs *GameServer) attack(w http.ResponseWriter, r *http.Request) {
	var req attackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	view, success, err := gs.registry.Attack(
		chi.URLParam(r, "id"),
		playerIDFromContext(r.Context()),
		req.AttackerDice,
		req.DefenderDie,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	if success {
		gs.publish(view)
	}
	writeJSON(w, http.StatusOK, attackResponse{Success: success, Game: view})
}

func (gs *GameServer) pass(w http.ResponseWriter, r *http.Request) {
	view, err := gs.registry.Pass(chi.URLParam(r, "id"), playerIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	gs.publish(view)
	writeJSON(w, http.StatusOK, view)
}

func (gs *GameServer) nextRound(w http.ResponseWriter, r *http.Request) {
	view, err := gs.registry.NextRound(chi.URLParam(r, "id"), playerIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	gs.publish(view)
	writeJSON(w, http.StatusOK, view)
}

func (gs *GameServer) gameStatus(w http.ResponseWriter, r *http.Request) {
	view, err := gs.registry.Status(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (gs *GameServer) listOpenGames(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, gs.registry.ListOpen())
}

func (gs *GameServer) playerGames(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, gs.registry.ListByPlayer(chi.URLParam(r, "id")))
}

func (gs *GameServer) playerTurnGames(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, gs.registry.ListAwaiting(chi.URLParam(r, "id")))
}

func (gs *GameServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(startTime).String(),
	})
}

func (gs *GameServer) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"activeGames": gs.registry.ActiveCount(),
		"timestamp":   time.Now().Unix(),
	})
}

// publish pushes a snapshot to everyone streaming the game.
func (gs *GameServer) publish(view dicemen.GameView) {
	payload, err := json.Marshal(view)
	if err != nil {
		slog.Error("marshal snapshot", slog.Any("error", err))
		return
	}
	gs.hub.Publish(view.ID, payload)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write response", slog.Any("error", err))
	}
}
