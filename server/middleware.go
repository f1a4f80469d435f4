package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type contextKey string // custom type for context keys to avoid collisions

const playerIDKey contextKey = "player_id"

const (
	playerIDCookie = "player_id"
	playerIDHeader = "X-Player-ID"
)

func playerIDFromContext(ctx context.Context) string {
	playerID, _ := ctx.Value(playerIDKey).(string)
	return playerID
}

func withPlayerID(ctx context.Context, playerID string) context.Context {
	return context.WithValue(ctx, playerIDKey, playerID)
}

// Cors allows browser clients on the configured origins to call the API.
func Cors(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(origins))
	for _, origin := range origins {
		allowed[origin] = true
	}
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin := r.Header.Get("Origin"); allowed[origin] {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, X-Player-ID")
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			h.ServeHTTP(w, r)
		})
	}
}

// PlayerID resolves the caller's identity: the X-Player-ID header wins,
// then the player_id cookie, and a fresh identity is minted otherwise. The
// cookie is refreshed on every response so browser clients keep a stable
// identity across polls.
func PlayerID(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		playerID := r.Header.Get(playerIDHeader)
		if playerID == "" {
			if cookie, err := r.Cookie(playerIDCookie); err == nil {
				playerID = cookie.Value
			}
		}
		if playerID == "" {
			playerID = generatePlayerID()
		}

		http.SetCookie(w, &http.Cookie{
			Name:     playerIDCookie,
			Value:    playerID,
			Expires:  time.Now().Add(30 * 24 * time.Hour),
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		h.ServeHTTP(w, r.WithContext(withPlayerID(r.Context(), playerID)))
	})
}

func generatePlayerID() string {
	return fmt.Sprintf("player_%s", uuid.NewString())
}
