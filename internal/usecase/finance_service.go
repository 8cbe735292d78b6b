package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/futgol/internal/domain/field"
	"github.com/riskibarqy/futgol/internal/domain/finance"
	"github.com/riskibarqy/futgol/internal/domain/group"
	"github.com/riskibarqy/futgol/internal/domain/match"
	"github.com/riskibarqy/futgol/internal/domain/player"
	idgen "github.com/riskibarqy/futgol/internal/platform/id"
	"github.com/riskibarqy/futgol/internal/platform/logging"
)

const defaultReconcileWorkers = 4

const (
	reconcileStatusSuccess = "success"
	reconcileStatusFailed  = "failed"
)

type TransactionInput struct {
	ActorID         string
	GroupID         string
	TransactionID   string
	Type            string
	Category        string
	Description     string
	Amount          *decimal.Decimal
	Date            string
	RelatedPlayerID string
	RelatedMatchID  string
}

type LedgerQuery struct {
	ActorID string
	GroupID string
	From    string
	To      string
}

type UpsertMatchRevenueInput struct {
	ActorID     string
	GroupID     string
	MatchID     string
	Total       decimal.Decimal
	Description string
	Date        string
}

type MonthlyFeeInput struct {
	ActorID  string
	GroupID  string
	PlayerID string
	Month    string
}

type MonthlyFeeStatus struct {
	Player player.Player
	Month  string
	Paid   bool
	Amount decimal.Decimal
	PaidAt *time.Time
}

type MonthlyFeeToggle struct {
	Status    MonthlyFeeStatus
	PaidCount int
	Aggregate decimal.Decimal
}

type ReconcileMatchResult struct {
	MatchID        string
	Date           string
	Finished       bool
	Status         string
	Message        string
	TotalCollected decimal.Decimal
}

type ReconcileResult struct {
	GroupID      string
	Matches      []ReconcileMatchResult
	SuccessCount int
	FailedCount  int
}

type FinanceRepositories struct {
	Groups       group.Repository
	Players      player.Repository
	Fields       field.Repository
	Matches      match.Repository
	Transactions finance.TransactionRepository
	MonthlyFees  finance.MonthlyFeeRepository
}

type FinanceService struct {
	repos   FinanceRepositories
	ledger  matchLedger
	workers int
	idGen   idgen.Generator
	logger  *logging.Logger
	now     func() time.Time
}

func NewFinanceService(repos FinanceRepositories, workers int, idGen idgen.Generator, logger *logging.Logger) *FinanceService {
	if logger == nil {
		logger = logging.Default()
	}
	if workers <= 0 {
		workers = defaultReconcileWorkers
	}
	s := &FinanceService{
		repos:   repos,
		workers: workers,
		idGen:   idGen,
		logger:  logger,
		now:     time.Now,
	}
	s.ledger = matchLedger{
		fields:       repos.Fields,
		transactions: repos.Transactions,
		now:          func() time.Time { return s.now() },
	}
	return s
}

func (s *FinanceService) ListTransactions(ctx context.Context, query LedgerQuery) ([]finance.Transaction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FinanceService.ListTransactions")
	defer span.End()

	g, filter, err := s.loadLedgerQuery(ctx, query)
	if err != nil {
		return nil, err
	}
	items, err := s.repos.Transactions.ListByGroup(ctx, g.ID, filter)
	if err != nil {
		return nil, fmt.Errorf("list transactions by group: %w", err)
	}
	return items, nil
}

func (s *FinanceService) Summary(ctx context.Context, query LedgerQuery) (finance.Summary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FinanceService.Summary")
	defer span.End()

	g, filter, err := s.loadLedgerQuery(ctx, query)
	if err != nil {
		return finance.Summary{}, err
	}
	items, err := s.repos.Transactions.ListByGroup(ctx, g.ID, filter)
	if err != nil {
		return finance.Summary{}, fmt.Errorf("list transactions by group: %w", err)
	}
	return finance.Summarize(items), nil
}

func (s *FinanceService) GetTransaction(ctx context.Context, actorID, transactionID string) (finance.Transaction, error) {
	actorID, err := requireActor(actorID)
	if err != nil {
		return finance.Transaction{}, err
	}
	t, g, err := s.loadTransaction(ctx, transactionID)
	if err != nil {
		return finance.Transaction{}, err
	}
	if err := requireMember(g, actorID); err != nil {
		return finance.Transaction{}, err
	}
	return t, nil
}

func (s *FinanceService) CreateTransaction(ctx context.Context, input TransactionInput) (finance.Transaction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FinanceService.CreateTransaction")
	defer span.End()

	actorID, err := requireActor(input.ActorID)
	if err != nil {
		return finance.Transaction{}, err
	}
	g, err := loadGroup(ctx, s.repos.Groups, input.GroupID)
	if err != nil {
		return finance.Transaction{}, err
	}
	if err := requireAdmin(g, actorID); err != nil {
		return finance.Transaction{}, err
	}
	if input.Amount == nil {
		return finance.Transaction{}, fmt.Errorf("%w: amount is required", ErrInvalidInput)
	}

	transactionID, err := s.idGen.NewID()
	if err != nil {
		return finance.Transaction{}, fmt.Errorf("generate transaction id: %w", err)
	}
	now := s.now().UTC()
	t := finance.Transaction{
		ID:        transactionID,
		GroupID:   g.ID,
		Date:      now.Format(finance.DateLayout),
		CreatedAt: now,
	}
	applyTransactionInput(&t, input)
	t.UpdatedAt = now

	if err := t.Validate(); err != nil {
		return finance.Transaction{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.repos.Transactions.Create(ctx, t); err != nil {
		return finance.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	s.logger.InfoContext(ctx, "transaction created",
		"group_id", g.ID,
		"transaction_id", t.ID,
		"type", string(t.Type),
		"amount", t.Amount.String(),
	)
	return t, nil
}

func (s *FinanceService) UpdateTransaction(ctx context.Context, input TransactionInput) (finance.Transaction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FinanceService.UpdateTransaction")
	defer span.End()

	actorID, err := requireActor(input.ActorID)
	if err != nil {
		return finance.Transaction{}, err
	}
	t, g, err := s.loadTransaction(ctx, input.TransactionID)
	if err != nil {
		return finance.Transaction{}, err
	}
	if err := requireAdmin(g, actorID); err != nil {
		return finance.Transaction{}, err
	}

	applyTransactionInput(&t, input)
	t.UpdatedAt = s.now().UTC()
	if err := t.Validate(); err != nil {
		return finance.Transaction{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.repos.Transactions.Update(ctx, t); err != nil {
		return finance.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	return t, nil
}

func (s *FinanceService) DeleteTransaction(ctx context.Context, actorID, transactionID string) error {
	actorID, err := requireActor(actorID)
	if err != nil {
		return err
	}
	t, g, err := s.loadTransaction(ctx, transactionID)
	if err != nil {
		return err
	}
	if err := requireAdmin(g, actorID); err != nil {
		return err
	}
	if err := s.repos.Transactions.Delete(ctx, t.ID); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

// UpsertMatchRevenue writes the revenue row of a match directly: created or
// overwritten when total is positive, removed otherwise.
func (s *FinanceService) UpsertMatchRevenue(ctx context.Context, input UpsertMatchRevenueInput) (finance.Transaction, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FinanceService.UpsertMatchRevenue")
	defer span.End()

	actorID, err := requireActor(input.ActorID)
	if err != nil {
		return finance.Transaction{}, false, err
	}
	g, err := loadGroup(ctx, s.repos.Groups, input.GroupID)
	if err != nil {
		return finance.Transaction{}, false, err
	}
	if err := requireAdmin(g, actorID); err != nil {
		return finance.Transaction{}, false, err
	}
	matchID := strings.TrimSpace(input.MatchID)
	if matchID == "" {
		return finance.Transaction{}, false, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	m, exists, err := s.repos.Matches.GetByID(ctx, matchID)
	if err != nil {
		return finance.Transaction{}, false, fmt.Errorf("get match by id: %w", err)
	}
	if !exists || m.GroupID != g.ID {
		return finance.Transaction{}, false, fmt.Errorf("%w: match not found", ErrNotFound)
	}

	id := finance.MatchRevenueID(m.ID)
	if !input.Total.IsPositive() {
		if err := s.repos.Transactions.Delete(ctx, id); err != nil {
			return finance.Transaction{}, false, fmt.Errorf("delete match revenue: %w", err)
		}
		return finance.Transaction{}, false, nil
	}

	now := s.now().UTC()
	t := finance.Transaction{
		ID:             id,
		GroupID:        g.ID,
		Type:           finance.TypeIncome,
		Category:       finance.CategoryMatchRevenue,
		Description:    strings.TrimSpace(input.Description),
		Amount:         input.Total,
		Date:           strings.TrimSpace(input.Date),
		RelatedMatchID: matchID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if t.Description == "" {
		t.Description = finance.MatchRevenueDescription(t.Date, "")
	}
	if err := t.Validate(); err != nil {
		return finance.Transaction{}, false, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.repos.Transactions.Upsert(ctx, t); err != nil {
		return finance.Transaction{}, false, fmt.Errorf("upsert match revenue: %w", err)
	}
	return t, true, nil
}

// ListMonthlyFees reports every subscriber billed in month with their paid
// state.
func (s *FinanceService) ListMonthlyFees(ctx context.Context, actorID, groupID, month string) ([]MonthlyFeeStatus, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FinanceService.ListMonthlyFees")
	defer span.End()

	actorID, err := requireActor(actorID)
	if err != nil {
		return nil, err
	}
	month, err = parseMonth(month)
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

	players, err := s.repos.Players.ListByGroup(ctx, g.ID)
	if err != nil {
		return nil, fmt.Errorf("list players by group: %w", err)
	}
	fees, err := s.repos.MonthlyFees.ListByGroupMonth(ctx, g.ID, month)
	if err != nil {
		return nil, fmt.Errorf("list monthly fees: %w", err)
	}
	paid := make(map[string]finance.MonthlyFee, len(fees))
	for _, fee := range fees {
		paid[fee.PlayerID] = fee
	}

	out := make([]MonthlyFeeStatus, 0)
	for _, p := range players {
		if !p.SubscribedIn(month) {
			continue
		}
		status := MonthlyFeeStatus{Player: p, Month: month, Amount: g.MonthlyUnitFee()}
		if fee, ok := paid[p.ID]; ok {
			paidAt := fee.PaidAt
			status.Paid = true
			status.Amount = fee.Amount
			status.PaidAt = &paidAt
		}
		out = append(out, status)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Player.DisplayName() < out[j].Player.DisplayName()
	})
	return out, nil
}

// ToggleMonthlyFee marks or unmarks a subscriber's month and recomputes the
// month's aggregate income row.
func (s *FinanceService) ToggleMonthlyFee(ctx context.Context, input MonthlyFeeInput) (MonthlyFeeToggle, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FinanceService.ToggleMonthlyFee")
	defer span.End()

	actorID, err := requireActor(input.ActorID)
	if err != nil {
		return MonthlyFeeToggle{}, err
	}
	month, err := parseMonth(input.Month)
	if err != nil {
		return MonthlyFeeToggle{}, err
	}
	g, err := loadGroup(ctx, s.repos.Groups, input.GroupID)
	if err != nil {
		return MonthlyFeeToggle{}, err
	}
	if err := requireAdmin(g, actorID); err != nil {
		return MonthlyFeeToggle{}, err
	}

	p, exists, err := s.repos.Players.GetByID(ctx, strings.TrimSpace(input.PlayerID))
	if err != nil {
		return MonthlyFeeToggle{}, fmt.Errorf("get player by id: %w", err)
	}
	if !exists || p.GroupID != g.ID {
		return MonthlyFeeToggle{}, fmt.Errorf("%w: player not found in group", ErrNotFound)
	}
	if !p.SubscribedIn(month) {
		return MonthlyFeeToggle{}, fmt.Errorf("%w: player is not a monthly subscriber in %s", ErrInvalidInput, month)
	}

	status := MonthlyFeeStatus{Player: p, Month: month, Amount: g.MonthlyUnitFee()}
	removed, err := s.repos.MonthlyFees.Delete(ctx, g.ID, p.ID, month)
	if err != nil {
		return MonthlyFeeToggle{}, fmt.Errorf("delete monthly fee: %w", err)
	}
	if !removed {
		paidAt := s.now().UTC()
		fee := finance.MonthlyFee{
			GroupID:  g.ID,
			PlayerID: p.ID,
			Month:    month,
			Amount:   g.MonthlyUnitFee(),
			PaidAt:   paidAt,
		}
		if err := fee.Validate(); err != nil {
			return MonthlyFeeToggle{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if err := s.repos.MonthlyFees.Create(ctx, fee); err != nil {
			return MonthlyFeeToggle{}, fmt.Errorf("create monthly fee: %w", err)
		}
		status.Paid = true
		status.PaidAt = &paidAt
	}

	count, aggregate, err := s.syncMonthlyAggregate(ctx, g, month)
	if err != nil {
		return MonthlyFeeToggle{}, err
	}

	s.logger.InfoContext(ctx, "monthly fee toggled",
		"group_id", g.ID,
		"player_id", p.ID,
		"month", month,
		"paid", status.Paid,
		"aggregate", aggregate.String(),
	)
	return MonthlyFeeToggle{Status: status, PaidCount: count, Aggregate: aggregate}, nil
}

// Reconcile re-derives the revenue and field rent rows of every match in the
// group on a bounded worker pool.
func (s *FinanceService) Reconcile(ctx context.Context, actorID, groupID string) (ReconcileResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FinanceService.Reconcile", attribute.String("futgol.group_id", groupID))
	defer span.End()

	actorID, err := requireActor(actorID)
	if err != nil {
		return ReconcileResult{}, err
	}
	g, err := loadGroup(ctx, s.repos.Groups, groupID)
	if err != nil {
		return ReconcileResult{}, err
	}
	if err := requireAdmin(g, actorID); err != nil {
		return ReconcileResult{}, err
	}

	matches, err := s.repos.Matches.ListByGroup(ctx, g.ID)
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("list matches by group: %w", err)
	}
	result := ReconcileResult{GroupID: g.ID, Matches: make([]ReconcileMatchResult, 0, len(matches))}
	if len(matches) == 0 {
		return result, nil
	}

	pool, err := ants.NewPool(min(s.workers, len(matches)))
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan ReconcileMatchResult, len(matches))
	var failed atomic.Int32
	var workers sync.WaitGroup
	for _, m := range matches {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			row := ReconcileMatchResult{MatchID: m.ID, Date: m.Date, Finished: m.Finished, Status: reconcileStatusSuccess}
			c, err := s.ledger.settle(ctx, g, m)
			if err != nil {
				failed.Add(1)
				row.Status = reconcileStatusFailed
				row.Message = err.Error()
				s.logger.WarnContext(ctx, "reconcile match failed", "group_id", g.ID, "match_id", m.ID, "error", err)
			} else {
				row.TotalCollected = c.TotalCollected
			}
			results <- row
		}); err != nil {
			workers.Done()
			return ReconcileResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for row := range results {
		result.Matches = append(result.Matches, row)
	}
	sort.SliceStable(result.Matches, func(i, j int) bool {
		if result.Matches[i].Date != result.Matches[j].Date {
			return result.Matches[i].Date > result.Matches[j].Date
		}
		return result.Matches[i].MatchID < result.Matches[j].MatchID
	})
	result.FailedCount = int(failed.Load())
	result.SuccessCount = len(result.Matches) - result.FailedCount

	s.logger.InfoContext(ctx, "ledger reconciled",
		"group_id", g.ID,
		"matches", len(result.Matches),
		"failed", result.FailedCount,
	)
	return result, nil
}

func (s *FinanceService) syncMonthlyAggregate(ctx context.Context, g group.Group, month string) (int, decimal.Decimal, error) {
	fees, err := s.repos.MonthlyFees.ListByGroupMonth(ctx, g.ID, month)
	if err != nil {
		return 0, decimal.Zero, fmt.Errorf("list monthly fees: %w", err)
	}

	count := len(fees)
	total := g.MonthlyUnitFee().Mul(decimal.NewFromInt(int64(count)))
	id := finance.MonthlyFeeID(g.ID, month)
	if !total.IsPositive() {
		if err := s.repos.Transactions.Delete(ctx, id); err != nil {
			return 0, decimal.Zero, fmt.Errorf("delete monthly fee aggregate: %w", err)
		}
		return count, decimal.Zero, nil
	}

	now := s.now().UTC()
	t := finance.Transaction{
		ID:          id,
		GroupID:     g.ID,
		Type:        finance.TypeIncome,
		Category:    finance.CategoryMonthlyFee,
		Description: finance.MonthlyFeeDescription(month),
		Amount:      total,
		Date:        month + "-01",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repos.Transactions.Upsert(ctx, t); err != nil {
		return 0, decimal.Zero, fmt.Errorf("upsert monthly fee aggregate: %w", err)
	}
	return count, total, nil
}

func (s *FinanceService) loadLedgerQuery(ctx context.Context, query LedgerQuery) (group.Group, finance.Filter, error) {
	actorID, err := requireActor(query.ActorID)
	if err != nil {
		return group.Group{}, finance.Filter{}, err
	}
	filter := finance.Filter{From: strings.TrimSpace(query.From), To: strings.TrimSpace(query.To)}
	for _, date := range []string{filter.From, filter.To} {
		if date == "" {
			continue
		}
		if _, err := time.Parse(finance.DateLayout, date); err != nil {
			return group.Group{}, finance.Filter{}, fmt.Errorf("%w: date filter must be YYYY-MM-DD", ErrInvalidInput)
		}
	}
	g, err := loadGroup(ctx, s.repos.Groups, query.GroupID)
	if err != nil {
		return group.Group{}, finance.Filter{}, err
	}
	if err := requireMember(g, actorID); err != nil {
		return group.Group{}, finance.Filter{}, err
	}
	return g, filter, nil
}

func (s *FinanceService) loadTransaction(ctx context.Context, transactionID string) (finance.Transaction, group.Group, error) {
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return finance.Transaction{}, group.Group{}, fmt.Errorf("%w: transaction id is required", ErrInvalidInput)
	}
	t, exists, err := s.repos.Transactions.GetByID(ctx, transactionID)
	if err != nil {
		return finance.Transaction{}, group.Group{}, fmt.Errorf("get transaction by id: %w", err)
	}
	if !exists {
		return finance.Transaction{}, group.Group{}, fmt.Errorf("%w: transaction not found", ErrNotFound)
	}
	g, err := loadGroup(ctx, s.repos.Groups, t.GroupID)
	if err != nil {
		return finance.Transaction{}, group.Group{}, err
	}
	return t, g, nil
}

func applyTransactionInput(t *finance.Transaction, input TransactionInput) {
	if v := strings.TrimSpace(input.Type); v != "" {
		t.Type = finance.Type(strings.ToUpper(v))
	}
	if v := strings.TrimSpace(input.Category); v != "" {
		t.Category = finance.Category(strings.ToUpper(v))
	}
	setIfPresent(&t.Description, input.Description)
	setIfPresent(&t.Date, input.Date)
	setIfPresent(&t.RelatedPlayerID, input.RelatedPlayerID)
	setIfPresent(&t.RelatedMatchID, input.RelatedMatchID)
	if input.Amount != nil {
		t.Amount = *input.Amount
	}
}

func parseMonth(raw string) (string, error) {
	month := strings.TrimSpace(raw)
	if _, err := time.Parse(finance.MonthLayout, month); err != nil {
		return "", fmt.Errorf("%w: month must be YYYY-MM", ErrInvalidInput)
	}
	return month, nil
}
