package dicemen

import (
	"sync"
	"testing"
)

func TestRegistry_CreateAndStatus(t *testing.T) {
	registry := NewRegistry()

	view, err := registry.Create("bob", nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if view.ID == "" {
		t.Fatal("Create() returned empty game id")
	}
	if view.Players[0] != "bob" || view.Players[1] != "" {
		t.Errorf("players = %v, want bob and an open slot", view.Players)
	}
	if view.IsStarted {
		t.Error("IsStarted = true before join")
	}

	got, err := registry.Status(view.ID)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if got.ID != view.ID {
		t.Errorf("Status() id = %s, want %s", got.ID, view.ID)
	}

	if _, err := registry.Status("missing"); !IsCode(err, CodeGameNotFound) {
		t.Errorf("Status() code = %s, want %s", GetCode(err), CodeGameNotFound)
	}
}

func TestRegistry_Create_InvalidDice(t *testing.T) {
	registry := NewRegistry()
	if _, err := registry.Create("bob", []int{-4}); !IsCode(err, CodeInvalidDiceSpec) {
		t.Errorf("Create() code = %s, want %s", GetCode(err), CodeInvalidDiceSpec)
	}
}

func TestRegistry_Join(t *testing.T) {
	registry := NewRegistry()
	created, err := registry.Create("bob", nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	view, err := registry.Join(created.ID, "alice")
	if err != nil {
		t.Fatalf("Join() error = %v", err)
	}
	if !view.IsStarted {
		t.Error("IsStarted = false after join")
	}
	if view.Players != [2]string{"bob", "alice"} {
		t.Errorf("players = %v", view.Players)
	}

	if _, err := registry.Join(created.ID, "eve"); !IsCode(err, CodeGameFull) {
		t.Errorf("Join() code = %s, want %s", GetCode(err), CodeGameFull)
	}
	if _, err := registry.Join("missing", "eve"); !IsCode(err, CodeGameNotFound) {
		t.Errorf("Join() code = %s, want %s", GetCode(err), CodeGameNotFound)
	}
}

func TestRegistry_ListOpen(t *testing.T) {
	registry := NewRegistry()

	open, err := registry.Create("bob", nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	full, err := registry.Create("carol", nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := registry.Join(full.ID, "dave"); err != nil {
		t.Fatalf("Join() error = %v", err)
	}

	views := registry.ListOpen()
	if len(views) != 1 {
		t.Fatalf("ListOpen() len = %d, want 1", len(views))
	}
	if views[0].ID != open.ID {
		t.Errorf("ListOpen() id = %s, want %s", views[0].ID, open.ID)
	}
}

func TestRegistry_ListByPlayer(t *testing.T) {
	registry := NewRegistry()

	first, err := registry.Create("bob", nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	second, err := registry.Create("alice", nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := registry.Join(second.ID, "bob"); err != nil {
		t.Fatalf("Join() error = %v", err)
	}

	views := registry.ListByPlayer("bob")
	if len(views) != 2 {
		t.Fatalf("ListByPlayer() len = %d, want 2", len(views))
	}
	// Newest first.
	if views[0].ID != second.ID || views[1].ID != first.ID {
		t.Errorf("ListByPlayer() order = [%s, %s], want [%s, %s]",
			views[0].ID, views[1].ID, second.ID, first.ID)
	}

	if got := registry.ListByPlayer("eve"); len(got) != 0 {
		t.Errorf("ListByPlayer(eve) len = %d, want 0", len(got))
	}
}

func TestRegistry_ListAwaiting(t *testing.T) {
	registry := NewRegistry()

	created, err := registry.Create("bob", nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	// Not started yet: nobody is awaited.
	if got := registry.ListAwaiting("bob"); len(got) != 0 {
		t.Errorf("ListAwaiting() len = %d, want 0 before join", len(got))
	}

	view, err := registry.Join(created.ID, "alice")
	if err != nil {
		t.Fatalf("Join() error = %v", err)
	}

	current := view.Players[view.CurrentPlayer]
	other := view.Players[1-view.CurrentPlayer]
	if got := registry.ListAwaiting(current); len(got) != 1 {
		t.Errorf("ListAwaiting(current) len = %d, want 1", len(got))
	}
	if got := registry.ListAwaiting(other); len(got) != 0 {
		t.Errorf("ListAwaiting(other) len = %d, want 0", len(got))
	}
}

func TestRegistry_AttackFlow(t *testing.T) {
	registry := NewRegistry()

	created, err := registry.Create("bob", nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	view, err := registry.Join(created.ID, "alice")
	if err != nil {
		t.Fatalf("Join() error = %v", err)
	}

	current := view.Players[view.CurrentPlayer]
	other := view.Players[1-view.CurrentPlayer]

	if _, _, err := registry.Attack(created.ID, other, []int{0}, 0); !IsCode(err, CodeNotYourTurn) {
		t.Errorf("Attack() code = %s, want %s", GetCode(err), CodeNotYourTurn)
	}

	after, success, err := registry.Attack(created.ID, current, []int{0}, 0)
	if err != nil {
		t.Fatalf("Attack() error = %v", err)
	}
	if success {
		// Exactly one die was captured and the turn changed hands.
		captured := len(after.Captured[0]) + len(after.Captured[1])
		if captured != 1 {
			t.Errorf("captured count = %d, want 1", captured)
		}
		if after.Players[after.CurrentPlayer] != other {
			t.Errorf("current player = %s, want %s", after.Players[after.CurrentPlayer], other)
		}
	} else {
		if after.Players[after.CurrentPlayer] != current {
			t.Errorf("current player = %s, want %s after failed attack", after.Players[after.CurrentPlayer], current)
		}
	}

	if _, _, err := registry.Attack("missing", current, []int{0}, 0); !IsCode(err, CodeGameNotFound) {
		t.Errorf("Attack() code = %s, want %s", GetCode(err), CodeGameNotFound)
	}
}

func TestRegistry_ConcurrentActions(t *testing.T) {
	registry := NewRegistry()

	created, err := registry.Create("bob", nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := registry.Join(created.ID, "alice"); err != nil {
		t.Fatalf("Join() error = %v", err)
	}

	// Hammer the same game from both sides while reading snapshots. The
	// race detector verifies serialization; the assertions verify no die
	// is lost or duplicated.
	var wg sync.WaitGroup
	for _, identity := range []string{"bob", "alice"} {
		wg.Add(1)
		go func(identity string) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_, _, _ = registry.Attack(created.ID, identity, []int{0}, 0)
			}
		}(identity)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			if _, err := registry.Status(created.ID); err != nil {
				t.Errorf("Status() error = %v", err)
				return
			}
		}
	}()
	wg.Wait()

	view, err := registry.Status(created.ID)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	for i := range view.Dice {
		total := len(view.Dice[i]) + len(view.Captured[1-i])
		if total != len(DefaultStartingDice) {
			t.Errorf("player %d dice accounted = %d, want %d", i, total, len(DefaultStartingDice))
		}
	}
}
