package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/futgol/internal/domain/comment"
	"github.com/riskibarqy/futgol/internal/domain/field"
	"github.com/riskibarqy/futgol/internal/domain/finance"
	"github.com/riskibarqy/futgol/internal/domain/group"
	"github.com/riskibarqy/futgol/internal/domain/match"
	"github.com/riskibarqy/futgol/internal/domain/player"
	idgen "github.com/riskibarqy/futgol/internal/platform/id"
	"github.com/riskibarqy/futgol/internal/platform/logging"
)

// MatchDetails is a match with its dues computed from the group's payment
// mode and the field rate.
type MatchDetails struct {
	Match          match.Match
	FieldName      string
	CostPerPerson  decimal.Decimal
	TotalCollected decimal.Decimal
}

type TeamsResult struct {
	Details   MatchDetails
	Reasoning string
}

type MatchInput struct {
	ActorID string
	GroupID string
	MatchID string
	Date    string
	Time    string
	FieldID string
}

type MatchPlayerInput struct {
	ActorID  string
	MatchID  string
	PlayerID string
}

type FinalizeMatchInput struct {
	ActorID string
	MatchID string
	ScoreA  int
	ScoreB  int
	MVPID   string
}

type MatchRepositories struct {
	Groups       group.Repository
	Players      player.Repository
	Fields       field.Repository
	Matches      match.Repository
	Transactions finance.TransactionRepository
	Comments     comment.Repository
}

type MatchService struct {
	repos    MatchRepositories
	balancer match.TeamBalancer
	ledger   matchLedger
	idGen    idgen.Generator
	logger   *logging.Logger
	now      func() time.Time
}

func NewMatchService(repos MatchRepositories, balancer match.TeamBalancer, idGen idgen.Generator, logger *logging.Logger) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}
	s := &MatchService{
		repos:    repos,
		balancer: balancer,
		idGen:    idGen,
		logger:   logger,
		now:      time.Now,
	}
	s.ledger = matchLedger{
		fields:       repos.Fields,
		transactions: repos.Transactions,
		now:          func() time.Time { return s.now() },
	}
	return s
}

func (s *MatchService) ListByGroup(ctx context.Context, actorID, groupID string) ([]MatchDetails, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListByGroup")
	defer span.End()

	actorID, err := requireActor(actorID)
	if err != nil {
		return nil, err
	}
	g, err := loadGroup(ctx, s.repos.Groups, groupID)
	if err != nil {
		return nil, err
	}
	if err := requireMember(g, actorID); err != nil {
		return nil, err
	}

	matches, err := s.repos.Matches.ListByGroup(ctx, g.ID)
	if err != nil {
		return nil, fmt.Errorf("list matches by group: %w", err)
	}
	fields, err := s.repos.Fields.ListByGroup(ctx, g.ID)
	if err != nil {
		return nil, fmt.Errorf("list fields by group: %w", err)
	}
	fieldsByID := make(map[string]field.Field, len(fields))
	for _, f := range fields {
		fieldsByID[f.ID] = f
	}

	out := make([]MatchDetails, 0, len(matches))
	for _, m := range matches {
		out = append(out, detailsOf(m, costOf(g, fieldsByID[m.FieldID], m)))
	}
	return out, nil
}

func (s *MatchService) Get(ctx context.Context, actorID, matchID string) (MatchDetails, error) {
	actorID, err := requireActor(actorID)
	if err != nil {
		return MatchDetails{}, err
	}
	m, g, err := s.load(ctx, matchID)
	if err != nil {
		return MatchDetails{}, err
	}
	if err := requireMember(g, actorID); err != nil {
		return MatchDetails{}, err
	}

	c, err := s.ledger.cost(ctx, g, m)
	if err != nil {
		return MatchDetails{}, err
	}
	return detailsOf(m, c), nil
}

func (s *MatchService) Create(ctx context.Context, input MatchInput) (MatchDetails, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Create")
	defer span.End()

	actorID, err := requireActor(input.ActorID)
	if err != nil {
		return MatchDetails{}, err
	}
	g, err := loadGroup(ctx, s.repos.Groups, input.GroupID)
	if err != nil {
		return MatchDetails{}, err
	}
	if err := requireAdmin(g, actorID); err != nil {
		return MatchDetails{}, err
	}
	f, err := s.groupField(ctx, g, input.FieldID)
	if err != nil {
		return MatchDetails{}, err
	}
	date, kickoff := strings.TrimSpace(input.Date), strings.TrimSpace(input.Time)
	if err := match.ValidateSchedule(date, kickoff); err != nil {
		return MatchDetails{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	matchID, err := s.idGen.NewID()
	if err != nil {
		return MatchDetails{}, fmt.Errorf("generate match id: %w", err)
	}
	now := s.now().UTC()
	m := match.Match{
		ID:                 matchID,
		GroupID:            g.ID,
		Date:               date,
		Time:               kickoff,
		FieldID:            f.ID,
		ConfirmedPlayerIDs: []string{},
		PaidPlayerIDs:      []string{},
		TeamA:              []string{},
		TeamB:              []string{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := m.Validate(); err != nil {
		return MatchDetails{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.repos.Matches.Create(ctx, m); err != nil {
		return MatchDetails{}, fmt.Errorf("create match: %w", err)
	}

	s.logger.InfoContext(ctx, "match created", "group_id", g.ID, "match_id", m.ID, "date", m.Date)
	return detailsOf(m, costOf(g, f, m)), nil
}

func (s *MatchService) Update(ctx context.Context, input MatchInput) (MatchDetails, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Update")
	defer span.End()

	m, g, err := s.loadAsAdmin(ctx, input.ActorID, input.MatchID)
	if err != nil {
		return MatchDetails{}, err
	}
	if m.Finished {
		return MatchDetails{}, match.ErrMatchFinished
	}

	setIfPresent(&m.Date, input.Date)
	setIfPresent(&m.Time, input.Time)
	if fieldID := strings.TrimSpace(input.FieldID); fieldID != "" && fieldID != m.FieldID {
		f, err := s.groupField(ctx, g, fieldID)
		if err != nil {
			return MatchDetails{}, err
		}
		m.FieldID = f.ID
	}

	return s.saveAndSettle(ctx, g, m)
}

// Delete removes the match with its comments and derived transactions.
func (s *MatchService) Delete(ctx context.Context, actorID, matchID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Delete")
	defer span.End()

	m, g, err := s.loadAsAdmin(ctx, actorID, matchID)
	if err != nil {
		return err
	}

	if err := s.repos.Comments.DeleteByMatch(ctx, m.ID); err != nil {
		return fmt.Errorf("delete match comments: %w", err)
	}
	if err := s.repos.Transactions.DeleteByMatch(ctx, m.ID); err != nil {
		return fmt.Errorf("delete match transactions: %w", err)
	}
	if err := s.repos.Matches.Delete(ctx, m.ID); err != nil {
		return fmt.Errorf("delete match: %w", err)
	}

	s.logger.InfoContext(ctx, "match deleted", "group_id", g.ID, "match_id", m.ID)
	return nil
}

// TogglePresence confirms or unconfirms a player. Admins may toggle anyone,
// members only their own player.
func (s *MatchService) TogglePresence(ctx context.Context, input MatchPlayerInput) (MatchDetails, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.TogglePresence")
	defer span.End()

	actorID, err := requireActor(input.ActorID)
	if err != nil {
		return MatchDetails{}, err
	}
	m, g, err := s.load(ctx, input.MatchID)
	if err != nil {
		return MatchDetails{}, err
	}
	if err := requireMember(g, actorID); err != nil {
		return MatchDetails{}, err
	}
	p, err := s.groupPlayer(ctx, g, input.PlayerID)
	if err != nil {
		return MatchDetails{}, err
	}
	if !g.IsAdmin(actorID) && p.UserID != actorID {
		return MatchDetails{}, fmt.Errorf("%w: you can only change your own presence", ErrForbidden)
	}

	confirmed, err := m.TogglePresence(p.ID)
	if err != nil {
		return MatchDetails{}, matchRuleError(err)
	}

	details, err := s.saveAndSettle(ctx, g, m)
	if err != nil {
		return MatchDetails{}, err
	}
	s.logger.InfoContext(ctx, "match presence toggled", "match_id", m.ID, "player_id", p.ID, "confirmed", confirmed)
	return details, nil
}

// TogglePayment flips a per-match payment and re-syncs the revenue row.
// Monthly subscribers settle through monthly fees instead.
func (s *MatchService) TogglePayment(ctx context.Context, input MatchPlayerInput) (MatchDetails, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.TogglePayment")
	defer span.End()

	m, g, err := s.loadAsAdmin(ctx, input.ActorID, input.MatchID)
	if err != nil {
		return MatchDetails{}, err
	}
	p, err := s.groupPlayer(ctx, g, input.PlayerID)
	if err != nil {
		return MatchDetails{}, err
	}
	if p.IsMonthlySubscriber && !m.IsPaid(p.ID) {
		return MatchDetails{}, fmt.Errorf("%w: monthly subscribers pay through monthly fees", ErrInvalidInput)
	}

	paid, err := m.TogglePaid(p.ID)
	if err != nil {
		return MatchDetails{}, matchRuleError(err)
	}

	details, err := s.saveAndSettle(ctx, g, m)
	if err != nil {
		return MatchDetails{}, err
	}
	s.logger.InfoContext(ctx, "match payment toggled",
		"match_id", m.ID,
		"player_id", p.ID,
		"paid", paid,
		"total_collected", details.TotalCollected.String(),
	)
	return details, nil
}

// GenerateTeams asks the balancer to split the confirmed players. Nothing is
// stored when the balancer fails.
func (s *MatchService) GenerateTeams(ctx context.Context, actorID, matchID string) (TeamsResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.GenerateTeams", attribute.String("futgol.match_id", matchID))
	defer span.End()

	m, g, err := s.loadAsAdmin(ctx, actorID, matchID)
	if err != nil {
		return TeamsResult{}, err
	}
	if err := m.CanGenerateTeams(); err != nil {
		return TeamsResult{}, matchRuleError(err)
	}

	players, err := s.repos.Players.ListByGroup(ctx, g.ID)
	if err != nil {
		return TeamsResult{}, fmt.Errorf("list players by group: %w", err)
	}
	byID := make(map[string]player.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}
	candidates := make([]match.Candidate, 0, m.ConfirmedCount())
	for _, id := range m.ConfirmedPlayerIDs {
		p, ok := byID[id]
		if !ok {
			continue
		}
		candidates = append(candidates, match.Candidate{
			ID:       p.ID,
			Name:     p.DisplayName(),
			Rating:   p.Rating,
			Position: string(p.Position),
		})
	}
	if len(candidates) < match.MinPlayersForTeams {
		return TeamsResult{}, matchRuleError(match.ErrNotEnoughPlayers)
	}

	lineup, err := s.balancer.Balance(ctx, candidates)
	if err != nil {
		s.logger.WarnContext(ctx, "team balancing failed", "match_id", m.ID, "players", len(candidates), "error", err)
		return TeamsResult{}, fmt.Errorf("%w: failed to generate teams", ErrDependencyUnavailable)
	}
	if err := m.AssignTeams(lineup.TeamA, lineup.TeamB); err != nil {
		return TeamsResult{}, matchRuleError(err)
	}
	if len(m.TeamA)+len(m.TeamB) == 0 {
		s.logger.WarnContext(ctx, "team balancing returned no confirmed players", "match_id", m.ID)
		return TeamsResult{}, fmt.Errorf("%w: failed to generate teams", ErrDependencyUnavailable)
	}

	details, err := s.saveAndSettle(ctx, g, m)
	if err != nil {
		return TeamsResult{}, err
	}
	return TeamsResult{Details: details, Reasoning: strings.TrimSpace(lineup.Reasoning)}, nil
}

// Finalize records the result and settles the ledger. matchesPlayed only
// moves on the first transition to finished.
func (s *MatchService) Finalize(ctx context.Context, input FinalizeMatchInput) (MatchDetails, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Finalize")
	defer span.End()

	m, g, err := s.loadAsAdmin(ctx, input.ActorID, input.MatchID)
	if err != nil {
		return MatchDetails{}, err
	}

	prev := m
	first, err := m.Finalize(input.ScoreA, input.ScoreB, strings.TrimSpace(input.MVPID))
	if err != nil {
		return MatchDetails{}, matchRuleError(err)
	}
	if err := s.save(ctx, &m); err != nil {
		return MatchDetails{}, err
	}
	if first {
		if err := s.adjustMatchesPlayed(ctx, m.ConfirmedPlayerIDs, 1); err != nil {
			s.revert(ctx, prev)
			return MatchDetails{}, err
		}
	}

	c, err := s.ledger.settle(ctx, g, m)
	if err != nil {
		return MatchDetails{}, err
	}
	details := detailsOf(m, c)
	s.logger.InfoContext(ctx, "match finalized",
		"match_id", m.ID,
		"score_a", m.ScoreA,
		"score_b", m.ScoreB,
		"first", first,
	)
	return details, nil
}

// Reopen moves a finished match back to active. Ledger rows stay until the
// next finalize re-settles them.
func (s *MatchService) Reopen(ctx context.Context, actorID, matchID string) (MatchDetails, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Reopen")
	defer span.End()

	m, g, err := s.loadAsAdmin(ctx, actorID, matchID)
	if err != nil {
		return MatchDetails{}, err
	}
	prev := m
	if err := m.Reopen(); err != nil {
		return MatchDetails{}, err
	}
	if err := s.save(ctx, &m); err != nil {
		return MatchDetails{}, err
	}
	if err := s.adjustMatchesPlayed(ctx, m.ConfirmedPlayerIDs, -1); err != nil {
		s.revert(ctx, prev)
		return MatchDetails{}, err
	}

	c, err := s.ledger.cost(ctx, g, m)
	if err != nil {
		return MatchDetails{}, err
	}
	return detailsOf(m, c), nil
}

func (s *MatchService) save(ctx context.Context, m *match.Match) error {
	m.UpdatedAt = s.now().UTC()
	if err := m.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.repos.Matches.Update(ctx, *m); err != nil {
		return fmt.Errorf("update match: %w", err)
	}
	return nil
}

// revert puts back the stored match after a follow-up write failed.
func (s *MatchService) revert(ctx context.Context, prev match.Match) {
	if err := s.repos.Matches.Update(ctx, prev); err != nil {
		s.logger.ErrorContext(ctx, "revert match failed", "match_id", prev.ID, "error", err)
	}
}

func (s *MatchService) saveAndSettle(ctx context.Context, g group.Group, m match.Match) (MatchDetails, error) {
	if err := s.save(ctx, &m); err != nil {
		return MatchDetails{}, err
	}

	c, err := s.ledger.settle(ctx, g, m)
	if err != nil {
		return MatchDetails{}, err
	}
	return detailsOf(m, c), nil
}

// adjustMatchesPlayed moves the counter of every listed player by delta. On
// failure the players already written are restored.
func (s *MatchService) adjustMatchesPlayed(ctx context.Context, playerIDs []string, delta int) error {
	now := s.now().UTC()
	done := make([]player.Player, 0, len(playerIDs))
	for _, id := range playerIDs {
		p, exists, err := s.repos.Players.GetByID(ctx, id)
		if err != nil {
			s.restorePlayers(ctx, done)
			return fmt.Errorf("get player by id: %w", err)
		}
		if !exists {
			continue
		}
		before := p
		p.MatchesPlayed = max(p.MatchesPlayed+delta, 0)
		p.UpdatedAt = now
		if err := s.repos.Players.Update(ctx, p); err != nil {
			s.restorePlayers(ctx, done)
			return fmt.Errorf("update matches played: %w", err)
		}
		done = append(done, before)
	}
	return nil
}

func (s *MatchService) restorePlayers(ctx context.Context, players []player.Player) {
	for _, p := range players {
		if err := s.repos.Players.Update(ctx, p); err != nil {
			s.logger.ErrorContext(ctx, "restore matches played failed", "player_id", p.ID, "error", err)
		}
	}
}

func (s *MatchService) load(ctx context.Context, matchID string) (match.Match, group.Group, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, group.Group{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	m, exists, err := s.repos.Matches.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, group.Group{}, fmt.Errorf("get match by id: %w", err)
	}
	if !exists {
		return match.Match{}, group.Group{}, fmt.Errorf("%w: match not found", ErrNotFound)
	}
	g, err := loadGroup(ctx, s.repos.Groups, m.GroupID)
	if err != nil {
		return match.Match{}, group.Group{}, err
	}
	return m, g, nil
}

func (s *MatchService) loadAsAdmin(ctx context.Context, actorID, matchID string) (match.Match, group.Group, error) {
	actorID, err := requireActor(actorID)
	if err != nil {
		return match.Match{}, group.Group{}, err
	}
	m, g, err := s.load(ctx, matchID)
	if err != nil {
		return match.Match{}, group.Group{}, err
	}
	if err := requireAdmin(g, actorID); err != nil {
		return match.Match{}, group.Group{}, err
	}
	return m, g, nil
}

func (s *MatchService) groupField(ctx context.Context, g group.Group, fieldID string) (field.Field, error) {
	fieldID = strings.TrimSpace(fieldID)
	if fieldID == "" {
		return field.Field{}, fmt.Errorf("%w: field id is required", ErrInvalidInput)
	}
	f, exists, err := s.repos.Fields.GetByID(ctx, fieldID)
	if err != nil {
		return field.Field{}, fmt.Errorf("get field by id: %w", err)
	}
	if !exists || f.GroupID != g.ID {
		return field.Field{}, fmt.Errorf("%w: field not found in group", ErrNotFound)
	}
	return f, nil
}

func (s *MatchService) groupPlayer(ctx context.Context, g group.Group, playerID string) (player.Player, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return player.Player{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	p, exists, err := s.repos.Players.GetByID(ctx, playerID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player by id: %w", err)
	}
	if !exists || p.GroupID != g.ID {
		return player.Player{}, fmt.Errorf("%w: player not found in group", ErrNotFound)
	}
	return p, nil
}

func detailsOf(m match.Match, c matchCost) MatchDetails {
	return MatchDetails{
		Match:          m,
		FieldName:      c.Field.Name,
		CostPerPerson:  c.CostPerPerson,
		TotalCollected: c.TotalCollected,
	}
}

// matchRuleError keeps finished-state errors as they are and marks other
// rule violations as invalid input.
func matchRuleError(err error) error {
	if errors.Is(err, match.ErrMatchFinished) || errors.Is(err, match.ErrMatchNotFinished) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrInvalidInput, err)
}
