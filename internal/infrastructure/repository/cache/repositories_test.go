package cache

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/futgol/internal/domain/field"
	"github.com/riskibarqy/futgol/internal/domain/group"
	"github.com/riskibarqy/futgol/internal/domain/player"
	"github.com/riskibarqy/futgol/internal/infrastructure/repository/memory"
	groupmock "github.com/riskibarqy/futgol/internal/mocks/domain/group"
	basecache "github.com/riskibarqy/futgol/internal/platform/cache"
)

func TestGroupRepository_CachesLookupsAndInvalidatesOnUpdate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	g := group.Group{
		ID:          "g1",
		Name:        "Pelada",
		AdminID:     "u1",
		Admins:      []string{"u1"},
		Members:     []string{"u1"},
		InviteCode:  "ABCD2345",
		PaymentMode: group.PaymentModeSplit,
		FixedAmount: decimal.NewFromInt(20),
		MonthlyFee:  decimal.RequireFromString("80.50"),
	}

	next := groupmock.NewRepository(t)
	next.On("GetByID", mock.Anything, "g1").Return(g, true, nil).Twice()
	next.On("Update", mock.Anything, mock.AnythingOfType("group.Group")).Return(nil).Once()

	repo := NewGroupRepository(next, basecache.NewMemoryStore(time.Minute))
	for i := 0; i < 3; i++ {
		got, ok, err := repo.GetByID(ctx, "g1")
		if err != nil || !ok {
			t.Fatalf("get %d: ok=%v err=%v", i, ok, err)
		}
		if got.Name != "Pelada" || !got.MonthlyFee.Equal(g.MonthlyFee) || len(got.Members) != 1 {
			t.Fatalf("unexpected cached group: %+v", got)
		}
	}

	if err := repo.Update(ctx, g); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, _, err := repo.GetByID(ctx, "g1"); err != nil {
		t.Fatalf("get after update: %v", err)
	}
}

func TestGroupRepository_CachesMisses(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := groupmock.NewRepository(t)
	next.On("GetByID", mock.Anything, "missing").Return(group.Group{}, false, nil).Once()

	repo := NewGroupRepository(next, basecache.NewMemoryStore(time.Minute))
	for i := 0; i < 2; i++ {
		if _, ok, err := repo.GetByID(ctx, "missing"); err != nil || ok {
			t.Fatalf("get %d: ok=%v err=%v", i, ok, err)
		}
	}
}

func TestPlayerRepository_InvalidatesRosterOnWrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	base := memory.NewPlayerRepository([]player.Player{
		{ID: "p1", GroupID: "g1", Name: "Carlos", Position: player.PositionGoalkeeper, Rating: 4},
	})
	repo := NewPlayerRepository(base, basecache.NewMemoryStore(time.Minute))

	items, err := repo.ListByGroup(ctx, "g1")
	if err != nil || len(items) != 1 {
		t.Fatalf("first list: len=%d err=%v", len(items), err)
	}

	// writes that bypass the decorator stay invisible until invalidation
	if err := base.Create(ctx, player.Player{ID: "p-hidden", GroupID: "g1", Name: "Hidden", Rating: 3}); err != nil {
		t.Fatalf("create on base: %v", err)
	}
	if items, _ := repo.ListByGroup(ctx, "g1"); len(items) != 1 {
		t.Fatalf("expected cached roster, got %d players", len(items))
	}

	if err := repo.Create(ctx, player.Player{ID: "p2", GroupID: "g1", Name: "Bruno", Rating: 3}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if items, _ := repo.ListByGroup(ctx, "g1"); len(items) != 3 {
		t.Fatalf("expected invalidated roster with 3 players, got %d", len(items))
	}

	if err := repo.Delete(ctx, "p-hidden"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if items, _ := repo.ListByGroup(ctx, "g1"); len(items) != 2 {
		t.Fatalf("expected 2 players after delete, got %d", len(items))
	}
}

func TestFieldRepository_InvalidatesOnDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	base := memory.NewFieldRepository([]field.Field{
		{ID: "f1", GroupID: "g1", Name: "Arena", HourlyRate: decimal.NewFromInt(200)},
		{ID: "f2", GroupID: "g1", Name: "Quadra", HourlyRate: decimal.NewFromInt(150)},
	})
	repo := NewFieldRepository(base, basecache.NewMemoryStore(time.Minute))

	items, err := repo.ListByGroup(ctx, "g1")
	if err != nil || len(items) != 2 {
		t.Fatalf("list: len=%d err=%v", len(items), err)
	}
	if !items[0].HourlyRate.IsPositive() {
		t.Fatalf("decimal lost in cache round trip: %+v", items[0])
	}
	if err := repo.Delete(ctx, "f2"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if items, _ := repo.ListByGroup(ctx, "g1"); len(items) != 1 {
		t.Fatalf("expected 1 field after delete, got %d", len(items))
	}
}
