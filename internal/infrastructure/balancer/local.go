package balancer

import (
	"context"
	"fmt"
	"sort"

	"github.com/riskibarqy/futgol/internal/domain/match"
	"github.com/riskibarqy/futgol/internal/domain/player"
)

// LocalBalancer splits players without calling out. Goalkeepers are drafted
// first so two keepers never end up on the same side, then everyone else
// follows in rating order on an A B B A snake.
type LocalBalancer struct{}

func NewLocalBalancer() *LocalBalancer {
	return &LocalBalancer{}
}

func (b *LocalBalancer) Balance(ctx context.Context, candidates []match.Candidate) (match.Lineup, error) {
	if err := ctx.Err(); err != nil {
		return match.Lineup{}, err
	}
	if len(candidates) < 2 {
		return match.Lineup{}, fmt.Errorf("need at least 2 players, got %d", len(candidates))
	}

	ordered := append([]match.Candidate(nil), candidates...)
	sort.SliceStable(ordered, func(i, j int) bool {
		gi := ordered[i].Position == string(player.PositionGoalkeeper)
		gj := ordered[j].Position == string(player.PositionGoalkeeper)
		if gi != gj {
			return gi
		}
		if ordered[i].Rating != ordered[j].Rating {
			return ordered[i].Rating > ordered[j].Rating
		}
		return ordered[i].ID < ordered[j].ID
	})

	out := match.Lineup{
		TeamA: make([]string, 0, len(ordered)/2+1),
		TeamB: make([]string, 0, len(ordered)/2+1),
	}
	var totalA, totalB float64
	for i, c := range ordered {
		// 0 1 2 3 -> A B B A
		if i%4 == 0 || i%4 == 3 {
			out.TeamA = append(out.TeamA, c.ID)
			totalA += c.Rating
			continue
		}
		out.TeamB = append(out.TeamB, c.ID)
		totalB += c.Rating
	}
	out.Reasoning = fmt.Sprintf(
		"Snake draft by rating with goalkeepers split first. Team A %d players (%.1f), team B %d players (%.1f).",
		len(out.TeamA), totalA, len(out.TeamB), totalB,
	)
	return out, nil
}
