package match

import (
	"errors"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/futgol/internal/domain/group"
)

var (
	ErrMatchFinished      = errors.New("match is finished")
	ErrMatchNotFinished   = errors.New("match is not finished")
	ErrNotEnoughPlayers   = errors.New("at least two confirmed players are required")
	ErrPlayerNotConfirmed = errors.New("player is not confirmed")
	ErrInvalidScore       = errors.New("invalid score")
)

// MinPlayersForTeams is the smallest roster that can be split in two.
const MinPlayersForTeams = 2

// TogglePresence flips playerID's confirmation and reports the new state.
// Unconfirming also drops the player from both teams; the paid list is left
// as is since the money was already collected.
func (m *Match) TogglePresence(playerID string) (bool, error) {
	if m.Finished {
		return false, ErrMatchFinished
	}
	if playerID == "" {
		return false, fmt.Errorf("player id is required")
	}

	if m.IsConfirmed(playerID) {
		m.ConfirmedPlayerIDs = removeID(m.ConfirmedPlayerIDs, playerID)
		m.TeamA = removeID(m.TeamA, playerID)
		m.TeamB = removeID(m.TeamB, playerID)
		return false, nil
	}

	m.ConfirmedPlayerIDs = append(m.ConfirmedPlayerIDs, playerID)
	return true, nil
}

// TogglePaid flips playerID's per-match payment and reports the new state.
// Only confirmed players can be marked paid.
func (m *Match) TogglePaid(playerID string) (bool, error) {
	if m.Finished {
		return false, ErrMatchFinished
	}
	if playerID == "" {
		return false, fmt.Errorf("player id is required")
	}

	if m.IsPaid(playerID) {
		m.PaidPlayerIDs = removeID(m.PaidPlayerIDs, playerID)
		return false, nil
	}
	if !m.IsConfirmed(playerID) {
		return false, ErrPlayerNotConfirmed
	}

	m.PaidPlayerIDs = append(m.PaidPlayerIDs, playerID)
	return true, nil
}

// AssignTeams overwrites both rosters with the given ids filtered to
// confirmed players. Duplicates are dropped and an id listed on both sides
// stays on team A.
func (m *Match) AssignTeams(teamA, teamB []string) error {
	if m.Finished {
		return ErrMatchFinished
	}

	nextA := make([]string, 0, len(teamA))
	for _, id := range teamA {
		if m.IsConfirmed(id) && !slices.Contains(nextA, id) {
			nextA = append(nextA, id)
		}
	}
	nextB := make([]string, 0, len(teamB))
	for _, id := range teamB {
		if m.IsConfirmed(id) && !slices.Contains(nextA, id) && !slices.Contains(nextB, id) {
			nextB = append(nextB, id)
		}
	}

	m.TeamA = nextA
	m.TeamB = nextB
	return nil
}

// CanGenerateTeams checks the preconditions for balancing.
func (m Match) CanGenerateTeams() error {
	if m.Finished {
		return ErrMatchFinished
	}
	if m.ConfirmedCount() < MinPlayersForTeams {
		return fmt.Errorf("%w: confirmed=%d", ErrNotEnoughPlayers, m.ConfirmedCount())
	}
	return nil
}

// Finalize records the result. It may be called again on a finished match to
// overwrite the result; the returned bool is true only on the transition from
// active to finished.
func (m *Match) Finalize(scoreA, scoreB int, mvpID string) (bool, error) {
	if scoreA < 0 || scoreB < 0 {
		return false, fmt.Errorf("%w: scores must not be negative", ErrInvalidScore)
	}
	if mvpID != "" && !m.IsConfirmed(mvpID) {
		return false, fmt.Errorf("%w: mvp %s", ErrPlayerNotConfirmed, mvpID)
	}

	first := !m.Finished
	m.Finished = true
	m.ScoreA = scoreA
	m.ScoreB = scoreB
	m.MVPID = mvpID
	return first, nil
}

// Reopen reverts a finished match to active, keeping the recorded result.
func (m *Match) Reopen() error {
	if !m.Finished {
		return ErrMatchNotFinished
	}
	m.Finished = false
	return nil
}

// RemovePlayer drops playerID from every roster list of an active match.
func (m *Match) RemovePlayer(playerID string) bool {
	if m.Finished {
		return false
	}
	before := len(m.ConfirmedPlayerIDs) + len(m.PaidPlayerIDs) + len(m.TeamA) + len(m.TeamB)
	m.ConfirmedPlayerIDs = removeID(m.ConfirmedPlayerIDs, playerID)
	m.PaidPlayerIDs = removeID(m.PaidPlayerIDs, playerID)
	m.TeamA = removeID(m.TeamA, playerID)
	m.TeamB = removeID(m.TeamB, playerID)
	after := len(m.ConfirmedPlayerIDs) + len(m.PaidPlayerIDs) + len(m.TeamA) + len(m.TeamB)
	return before != after
}

// CostPerPerson is the per-match due of one non-subscriber. Fixed mode
// ignores the roster size; split mode divides the field rate by the confirmed
// count, rounded to cents, and is zero without a rate or without players.
func CostPerPerson(mode group.PaymentMode, fixedAmount, hourlyRate decimal.Decimal, confirmedCount int) decimal.Decimal {
	switch mode {
	case group.PaymentModeSplit:
		if confirmedCount <= 0 || !hourlyRate.IsPositive() {
			return decimal.Zero
		}
		return hourlyRate.DivRound(decimal.NewFromInt(int64(confirmedCount)), 2)
	default:
		if fixedAmount.IsNegative() {
			return decimal.Zero
		}
		return fixedAmount
	}
}

func removeID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
