package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/futgol/internal/domain/finance"
	"github.com/riskibarqy/futgol/internal/domain/group"
	"github.com/riskibarqy/futgol/internal/domain/match"
	matchmock "github.com/riskibarqy/futgol/internal/mocks/domain/match"
)

func TestOverviewService_Get(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, group.PaymentModeSplit)
	seed := []match.Match{
		{ID: "m-late", GroupID: testGroup, Date: "2026-03-28", Time: "20:00", FieldID: testField},
		{ID: "m-done", GroupID: testGroup, Date: "2026-03-01", Time: "20:00", FieldID: testField, Finished: true, ConfirmedPlayerIDs: []string{"p-owner", "p-member"}},
	}
	for _, m := range seed {
		if err := env.matches.Create(ctx, m); err != nil {
			t.Fatalf("seed match %s: %v", m.ID, err)
		}
	}
	if err := env.transactions.Create(ctx, finance.Transaction{
		ID: "t1", GroupID: testGroup, Type: finance.TypeIncome, Category: finance.CategoryDonation,
		Description: "Vaquinha", Amount: decimal.NewFromInt(40), Date: "2026-03-02",
	}); err != nil {
		t.Fatalf("seed transaction: %v", err)
	}

	svc := NewOverviewService(env.groups, env.players, env.fields, env.matches, env.transactions)
	got, err := svc.Get(ctx, memberID, testGroup)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if len(got.Players) != 4 || len(got.Fields) != 1 {
		t.Fatalf("unexpected roster: players=%d fields=%d", len(got.Players), len(got.Fields))
	}
	if len(got.Upcoming) != 2 || got.Upcoming[0].Match.ID != testMatch {
		t.Fatalf("expected next match first, got %+v", got.Upcoming)
	}
	if len(got.Finished) != 1 || !got.Finished[0].CostPerPerson.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("unexpected finished matches: %+v", got.Finished)
	}
	if !got.Ledger.Balance.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("unexpected ledger: %+v", got.Ledger)
	}

	if _, err := svc.Get(ctx, outsiderID, testGroup); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected outsider to be forbidden, got %v", err)
	}
}

func TestOverviewService_Get_PropagatesFailureUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, group.PaymentModeFixed)
	matchRepo := matchmock.NewRepository(t)
	matchRepo.
		On("ListByGroup", mock.Anything, testGroup).
		Return(nil, errors.New("statement timeout")).
		Once()

	svc := NewOverviewService(env.groups, env.players, env.fields, matchRepo, env.transactions)
	if _, err := svc.Get(ctx, ownerID, testGroup); err == nil {
		t.Fatalf("expected overview to fail when matches cannot be loaded")
	}
}
