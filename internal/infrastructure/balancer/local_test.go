package balancer

import (
	"context"
	"testing"

	"github.com/riskibarqy/futgol/internal/domain/match"
)

func TestLocalBalancer_SplitsGoalkeepersAndSizes(t *testing.T) {
	t.Parallel()

	candidates := []match.Candidate{
		{ID: "p1", Name: "A", Rating: 5, Position: "ATACANTE"},
		{ID: "p2", Name: "B", Rating: 4, Position: "MEIO"},
		{ID: "gk1", Name: "C", Rating: 3, Position: "GOLEIRO"},
		{ID: "p3", Name: "D", Rating: 3, Position: "DEFENSOR"},
		{ID: "gk2", Name: "E", Rating: 2.5, Position: "GOLEIRO"},
		{ID: "p4", Name: "F", Rating: 2, Position: "MEIO"},
		{ID: "p5", Name: "G", Rating: 1.5, Position: "MEIO"},
	}

	got, err := NewLocalBalancer().Balance(context.Background(), candidates)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if len(got.TeamA)+len(got.TeamB) != len(candidates) {
		t.Fatalf("every candidate must be assigned, got A=%v B=%v", got.TeamA, got.TeamB)
	}
	if diff := len(got.TeamA) - len(got.TeamB); diff < -1 || diff > 1 {
		t.Fatalf("team sizes differ by %d", diff)
	}
	if got.TeamA[0] != "gk1" || got.TeamB[0] != "gk2" {
		t.Fatalf("expected goalkeepers on opposite sides, got A=%v B=%v", got.TeamA, got.TeamB)
	}
	if got.Reasoning == "" {
		t.Fatalf("expected reasoning")
	}

	again, err := NewLocalBalancer().Balance(context.Background(), candidates)
	if err != nil {
		t.Fatalf("second balance: %v", err)
	}
	for i := range got.TeamA {
		if got.TeamA[i] != again.TeamA[i] {
			t.Fatalf("draft must be deterministic: %v vs %v", got.TeamA, again.TeamA)
		}
	}
}

func TestLocalBalancer_RequiresTwoPlayers(t *testing.T) {
	t.Parallel()

	if _, err := NewLocalBalancer().Balance(context.Background(), []match.Candidate{{ID: "p1", Rating: 3}}); err == nil {
		t.Fatalf("expected error for a single player")
	}
}
