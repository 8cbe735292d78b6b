package match

import "context"

// Candidate is what a balancer knows about a confirmed player.
type Candidate struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Rating   float64 `json:"rating"`
	Position string  `json:"position"`
}

// Lineup is a balancer answer: two rosters and an explanation.
type Lineup struct {
	TeamA     []string `json:"teamAIds"`
	TeamB     []string `json:"teamBIds"`
	Reasoning string   `json:"reasoning"`
}

// TeamBalancer splits confirmed players into two even teams.
type TeamBalancer interface {
	Balance(ctx context.Context, candidates []Candidate) (Lineup, error)
}
