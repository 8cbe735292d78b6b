package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/futgol/internal/domain/field"
	"github.com/riskibarqy/futgol/internal/domain/finance"
	"github.com/riskibarqy/futgol/internal/domain/group"
	"github.com/riskibarqy/futgol/internal/domain/match"
	"github.com/riskibarqy/futgol/internal/domain/player"
)

type GroupOverview struct {
	Group    group.Group
	Players  []player.Player
	Fields   []field.Field
	Upcoming []MatchDetails
	Finished []MatchDetails
	Ledger   finance.Summary
}

type OverviewService struct {
	groups       group.Repository
	players      player.Repository
	fields       field.Repository
	matches      match.Repository
	transactions finance.TransactionRepository
}

func NewOverviewService(
	groups group.Repository,
	players player.Repository,
	fields field.Repository,
	matches match.Repository,
	transactions finance.TransactionRepository,
) *OverviewService {
	return &OverviewService{
		groups:       groups,
		players:      players,
		fields:       fields,
		matches:      matches,
		transactions: transactions,
	}
}

// Get loads the group dashboard. The four reads run concurrently and the
// first failure cancels the rest.
func (s *OverviewService) Get(ctx context.Context, actorID, groupID string) (GroupOverview, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OverviewService.Get", attribute.String("futgol.group_id", groupID))
	defer span.End()

	actorID, err := requireActor(actorID)
	if err != nil {
		return GroupOverview{}, err
	}
	g, err := loadGroup(ctx, s.groups, groupID)
	if err != nil {
		return GroupOverview{}, err
	}
	if err := requireMember(g, actorID); err != nil {
		return GroupOverview{}, err
	}

	var (
		players      []player.Player
		fields       []field.Field
		matches      []match.Match
		transactions []finance.Transaction
	)
	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		items, err := s.players.ListByGroup(ctx, g.ID)
		if err != nil {
			return fmt.Errorf("list players by group: %w", err)
		}
		players = items
		return nil
	})
	p.Go(func(ctx context.Context) error {
		items, err := s.fields.ListByGroup(ctx, g.ID)
		if err != nil {
			return fmt.Errorf("list fields by group: %w", err)
		}
		fields = items
		return nil
	})
	p.Go(func(ctx context.Context) error {
		items, err := s.matches.ListByGroup(ctx, g.ID)
		if err != nil {
			return fmt.Errorf("list matches by group: %w", err)
		}
		matches = items
		return nil
	})
	p.Go(func(ctx context.Context) error {
		items, err := s.transactions.ListByGroup(ctx, g.ID, finance.Filter{})
		if err != nil {
			return fmt.Errorf("list transactions by group: %w", err)
		}
		transactions = items
		return nil
	})
	if err := p.Wait(); err != nil {
		return GroupOverview{}, err
	}

	fieldsByID := make(map[string]field.Field, len(fields))
	for _, f := range fields {
		fieldsByID[f.ID] = f
	}
	out := GroupOverview{
		Group:    g,
		Players:  players,
		Fields:   fields,
		Upcoming: make([]MatchDetails, 0),
		Finished: make([]MatchDetails, 0),
		Ledger:   finance.Summarize(transactions),
	}
	for _, m := range matches {
		details := detailsOf(m, costOf(g, fieldsByID[m.FieldID], m))
		if m.Finished {
			out.Finished = append(out.Finished, details)
			continue
		}
		out.Upcoming = append(out.Upcoming, details)
	}
	// next game first
	sort.SliceStable(out.Upcoming, func(i, j int) bool {
		a, b := out.Upcoming[i].Match, out.Upcoming[j].Match
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		return a.Time < b.Time
	})
	return out, nil
}
