package match

import (
	"fmt"
	"slices"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Match is one game day of a group. While not finished, TeamA and TeamB are
// disjoint subsets of ConfirmedPlayerIDs.
type Match struct {
	ID                 string
	GroupID            string
	Date               string
	Time               string
	FieldID            string
	ConfirmedPlayerIDs []string
	PaidPlayerIDs      []string
	TeamA              []string
	TeamB              []string
	Finished           bool
	ScoreA             int
	ScoreB             int
	MVPID              string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ValidateSchedule checks the date and kickoff time formats.
func ValidateSchedule(date, kickoff string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("match date must be YYYY-MM-DD, got %q", date)
	}
	if _, err := time.Parse(TimeLayout, kickoff); err != nil {
		return fmt.Errorf("match time must be HH:MM, got %q", kickoff)
	}
	return nil
}

func (m Match) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("match id is required")
	}
	if m.GroupID == "" {
		return fmt.Errorf("match group id is required")
	}
	if err := ValidateSchedule(m.Date, m.Time); err != nil {
		return err
	}
	if m.ScoreA < 0 || m.ScoreB < 0 {
		return fmt.Errorf("%w: scores must not be negative", ErrInvalidScore)
	}
	for _, id := range m.TeamA {
		if slices.Contains(m.TeamB, id) {
			return fmt.Errorf("player %s is on both teams", id)
		}
	}
	if !m.Finished {
		for _, id := range append(slices.Clone(m.TeamA), m.TeamB...) {
			if !m.IsConfirmed(id) {
				return fmt.Errorf("%w: team player %s", ErrPlayerNotConfirmed, id)
			}
		}
	}

	return nil
}

// StartsAt combines Date and Time in loc.
func (m Match) StartsAt(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(DateLayout+" "+TimeLayout, m.Date+" "+m.Time, loc)
}

func (m Match) IsConfirmed(playerID string) bool {
	return slices.Contains(m.ConfirmedPlayerIDs, playerID)
}

func (m Match) IsPaid(playerID string) bool {
	return slices.Contains(m.PaidPlayerIDs, playerID)
}

func (m Match) ConfirmedCount() int {
	return len(m.ConfirmedPlayerIDs)
}

// Month returns the YYYY-MM part of Date.
func (m Match) Month() string {
	if len(m.Date) < 7 {
		return ""
	}
	return m.Date[:7]
}
