package player

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Position is the preferred pitch role of a player.
type Position string

const (
	PositionGoalkeeper Position = "GOLEIRO"
	PositionDefender   Position = "DEFENSOR"
	PositionMidfielder Position = "MEIO"
	PositionForward    Position = "ATACANTE"
)

var AllPositions = map[Position]struct{}{
	PositionGoalkeeper: {},
	PositionDefender:   {},
	PositionMidfielder: {},
	PositionForward:    {},
}

const (
	MinRating     = 1.0
	MaxRating     = 5.0
	DefaultRating = 3.0
)

// MonthLayout is the YYYY-MM format used for subscription months.
const MonthLayout = "2006-01"

// ParsePosition accepts any casing and falls back to fallback when raw is empty.
func ParsePosition(raw string, fallback Position) (Position, error) {
	value := strings.ToUpper(strings.TrimSpace(raw))
	if value == "" {
		return fallback, nil
	}
	pos := Position(value)
	if _, ok := AllPositions[pos]; !ok {
		return "", fmt.Errorf("invalid player position: %s", raw)
	}
	return pos, nil
}

// Player is a group-scoped roster entry. A user has at most one per group;
// guests have no user.
type Player struct {
	ID                  string
	GroupID             string
	UserID              string
	Name                string
	Nickname            string
	Position            Position
	Rating              float64
	IsMonthlySubscriber bool
	IsGuest             bool
	MonthlyStartMonth   string
	MatchesPlayed       int
	Phone               string
	Email               string
	AvatarURL           string
	BirthDate           string
	FavoriteTeam        string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// ValidRating reports whether r is within 1..5 in half steps.
func ValidRating(r float64) bool {
	if r < MinRating || r > MaxRating {
		return false
	}
	return math.Mod(r*2, 1) == 0
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.GroupID == "" {
		return fmt.Errorf("player group id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("player name is required")
	}
	if _, ok := AllPositions[p.Position]; !ok {
		return fmt.Errorf("invalid player position: %s", p.Position)
	}
	if !ValidRating(p.Rating) {
		return fmt.Errorf("player rating must be between 1 and 5 in steps of 0.5, got %v", p.Rating)
	}
	if p.IsGuest && p.IsMonthlySubscriber {
		return fmt.Errorf("guest players cannot be monthly subscribers")
	}
	if p.MonthlyStartMonth != "" {
		if _, err := time.Parse(MonthLayout, p.MonthlyStartMonth); err != nil {
			return fmt.Errorf("monthly start month must be YYYY-MM, got %q", p.MonthlyStartMonth)
		}
	}
	if p.MatchesPlayed < 0 {
		return fmt.Errorf("matches played must not be negative")
	}

	return nil
}

func (p Player) DisplayName() string {
	if nick := strings.TrimSpace(p.Nickname); nick != "" {
		return nick
	}
	return p.Name
}

// SubscribedIn reports whether a monthly subscriber owes the fee for month
// (YYYY-MM). Months before MonthlyStartMonth are not billed.
func (p Player) SubscribedIn(month string) bool {
	if !p.IsMonthlySubscriber {
		return false
	}
	return p.MonthlyStartMonth == "" || month >= p.MonthlyStartMonth
}
