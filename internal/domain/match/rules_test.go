package match

import (
	"errors"
	"slices"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/futgol/internal/domain/group"
)

func activeMatch() Match {
	return Match{
		ID:                 "m1",
		GroupID:            "g1",
		Date:               "2026-03-14",
		Time:               "20:00",
		ConfirmedPlayerIDs: []string{"p1", "p2", "p3", "p4"},
		TeamA:              []string{"p1", "p2"},
		TeamB:              []string{"p3", "p4"},
	}
}

func TestTogglePresence_UnconfirmRemovesFromTeams(t *testing.T) {
	t.Parallel()

	m := activeMatch()
	m.PaidPlayerIDs = []string{"p3"}

	confirmed, err := m.TogglePresence("p3")
	if err != nil {
		t.Fatalf("toggle presence: %v", err)
	}
	if confirmed {
		t.Fatalf("expected p3 to be unconfirmed")
	}
	if m.IsConfirmed("p3") || slices.Contains(m.TeamA, "p3") || slices.Contains(m.TeamB, "p3") {
		t.Fatalf("p3 must leave confirmed list and both teams: %+v", m)
	}
	if !m.IsPaid("p3") {
		t.Fatalf("paid list must be untouched by unconfirm")
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("match must stay valid: %v", err)
	}

	confirmed, err = m.TogglePresence("p3")
	if err != nil || !confirmed {
		t.Fatalf("expected re-confirm, got confirmed=%v err=%v", confirmed, err)
	}
	if slices.Contains(m.TeamB, "p3") {
		t.Fatalf("re-confirm must not restore team assignment")
	}
}

func TestTogglePresence_RejectedWhenFinished(t *testing.T) {
	t.Parallel()

	m := activeMatch()
	m.Finished = true
	if _, err := m.TogglePresence("p1"); !errors.Is(err, ErrMatchFinished) {
		t.Fatalf("expected ErrMatchFinished, got %v", err)
	}
	if err := m.AssignTeams([]string{"p1"}, []string{"p2"}); !errors.Is(err, ErrMatchFinished) {
		t.Fatalf("expected ErrMatchFinished for teams, got %v", err)
	}
}

func TestTogglePaid(t *testing.T) {
	t.Parallel()

	m := activeMatch()
	if _, err := m.TogglePaid("p9"); !errors.Is(err, ErrPlayerNotConfirmed) {
		t.Fatalf("expected ErrPlayerNotConfirmed, got %v", err)
	}

	paid, err := m.TogglePaid("p1")
	if err != nil || !paid {
		t.Fatalf("expected paid, got paid=%v err=%v", paid, err)
	}
	paid, err = m.TogglePaid("p1")
	if err != nil || paid {
		t.Fatalf("expected unpaid, got paid=%v err=%v", paid, err)
	}
}

func TestAssignTeams_FiltersToConfirmedAndKeepsDisjoint(t *testing.T) {
	t.Parallel()

	m := activeMatch()
	m.ConfirmedPlayerIDs = []string{"p1", "p2", "p3"}

	if err := m.AssignTeams([]string{"p1", "ghost", "p1", "p2"}, []string{"p2", "p3", "p4"}); err != nil {
		t.Fatalf("assign teams: %v", err)
	}
	if !slices.Equal(m.TeamA, []string{"p1", "p2"}) {
		t.Fatalf("unexpected team A: %v", m.TeamA)
	}
	if !slices.Equal(m.TeamB, []string{"p3"}) {
		t.Fatalf("unexpected team B: %v", m.TeamB)
	}
	for _, id := range m.TeamA {
		if slices.Contains(m.TeamB, id) {
			t.Fatalf("teams overlap on %s", id)
		}
	}
}

func TestCanGenerateTeams(t *testing.T) {
	t.Parallel()

	m := activeMatch()
	m.ConfirmedPlayerIDs = []string{"p1"}
	if err := m.CanGenerateTeams(); !errors.Is(err, ErrNotEnoughPlayers) {
		t.Fatalf("expected ErrNotEnoughPlayers, got %v", err)
	}
	m.ConfirmedPlayerIDs = []string{"p1", "p2"}
	if err := m.CanGenerateTeams(); err != nil {
		t.Fatalf("expected two players to be enough: %v", err)
	}
}

func TestFinalizeAndReopen(t *testing.T) {
	t.Parallel()

	m := activeMatch()
	if _, err := m.Finalize(-1, 0, ""); !errors.Is(err, ErrInvalidScore) {
		t.Fatalf("expected ErrInvalidScore, got %v", err)
	}
	if _, err := m.Finalize(1, 0, "p9"); !errors.Is(err, ErrPlayerNotConfirmed) {
		t.Fatalf("expected mvp confirmation error, got %v", err)
	}

	first, err := m.Finalize(3, 2, "p1")
	if err != nil || !first {
		t.Fatalf("expected first finalize, got first=%v err=%v", first, err)
	}
	first, err = m.Finalize(4, 2, "")
	if err != nil || first {
		t.Fatalf("expected overwrite finalize, got first=%v err=%v", first, err)
	}
	if m.ScoreA != 4 || m.ScoreB != 2 || m.MVPID != "" || !m.Finished {
		t.Fatalf("unexpected result after overwrite: %+v", m)
	}

	if err := m.Reopen(); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if m.Finished {
		t.Fatalf("expected active match after reopen")
	}
	if err := m.Reopen(); !errors.Is(err, ErrMatchNotFinished) {
		t.Fatalf("expected ErrMatchNotFinished, got %v", err)
	}
}

func TestCostPerPerson(t *testing.T) {
	t.Parallel()

	hundred := decimal.NewFromInt(100)
	rate := decimal.NewFromInt(200)

	tests := []struct {
		name      string
		mode      group.PaymentMode
		fixed     decimal.Decimal
		rate      decimal.Decimal
		confirmed int
		want      string
	}{
		{name: "fixed ignores roster", mode: group.PaymentModeFixed, fixed: decimal.NewFromInt(25), rate: rate, confirmed: 7, want: "25"},
		{name: "fixed with nobody", mode: group.PaymentModeFixed, fixed: decimal.NewFromInt(25), rate: rate, confirmed: 0, want: "25"},
		{name: "split four players", mode: group.PaymentModeSplit, fixed: hundred, rate: rate, confirmed: 4, want: "50"},
		{name: "split rounds to cents", mode: group.PaymentModeSplit, fixed: hundred, rate: rate, confirmed: 3, want: "66.67"},
		{name: "split no players", mode: group.PaymentModeSplit, fixed: hundred, rate: rate, confirmed: 0, want: "0"},
		{name: "split no rate", mode: group.PaymentModeSplit, fixed: hundred, rate: decimal.Zero, confirmed: 4, want: "0"},
	}

	for _, tc := range tests {
		got := CostPerPerson(tc.mode, tc.fixed, tc.rate, tc.confirmed)
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Fatalf("%s: got %s want %s", tc.name, got, tc.want)
		}
	}
}

func TestCostPerPerson_SplitSumsToRate(t *testing.T) {
	t.Parallel()

	rate := decimal.NewFromInt(200)
	for n := 1; n <= 20; n++ {
		cost := CostPerPerson(group.PaymentModeSplit, decimal.Zero, rate, n)
		diff := cost.Mul(decimal.NewFromInt(int64(n))).Sub(rate).Abs()
		if diff.GreaterThan(decimal.NewFromFloat(0.01).Mul(decimal.NewFromInt(int64(n)))) {
			t.Fatalf("n=%d cost=%s drifts %s from rate", n, cost, diff)
		}
	}
}

func TestRemovePlayer(t *testing.T) {
	t.Parallel()

	m := activeMatch()
	m.PaidPlayerIDs = []string{"p2"}
	if !m.RemovePlayer("p2") {
		t.Fatalf("expected removal")
	}
	if m.IsConfirmed("p2") || m.IsPaid("p2") || slices.Contains(m.TeamA, "p2") {
		t.Fatalf("p2 must be gone: %+v", m)
	}
	if m.RemovePlayer("p2") {
		t.Fatalf("second removal must be a no-op")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	m := activeMatch()
	if err := m.Validate(); err != nil {
		t.Fatalf("expected valid match: %v", err)
	}

	bad := activeMatch()
	bad.Date = "14/03/2026"
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected date error")
	}

	overlap := activeMatch()
	overlap.TeamB = append(overlap.TeamB, "p1")
	if err := overlap.Validate(); err == nil {
		t.Fatalf("expected overlap error")
	}

	stranger := activeMatch()
	stranger.TeamA = []string{"p9"}
	if err := stranger.Validate(); !errors.Is(err, ErrPlayerNotConfirmed) {
		t.Fatalf("expected ErrPlayerNotConfirmed, got %v", err)
	}
}
