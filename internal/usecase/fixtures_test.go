package usecase

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/futgol/internal/domain/field"
	"github.com/riskibarqy/futgol/internal/domain/group"
	"github.com/riskibarqy/futgol/internal/domain/match"
	"github.com/riskibarqy/futgol/internal/domain/player"
	"github.com/riskibarqy/futgol/internal/domain/user"
	"github.com/riskibarqy/futgol/internal/infrastructure/repository/memory"
	idgen "github.com/riskibarqy/futgol/internal/platform/id"
)

const (
	ownerID    = "11999990001"
	memberID   = "11999990002"
	outsiderID = "11999990003"
	testGroup  = "g1"
	testField  = "f1"
	testMatch  = "m1"
)

var fixedNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

type fakeTokens struct{}

func (fakeTokens) IssueAccessToken(_ context.Context, principal user.Principal, ttl time.Duration) (AccessToken, error) {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return AccessToken{Token: "access-" + principal.UserID, ExpiresAt: fixedNow.Add(ttl)}, nil
}

func (fakeTokens) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	id, ok := strings.CutPrefix(token, "access-")
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: bad token", ErrUnauthorized)
	}
	return user.Principal{UserID: id}, nil
}

func (fakeTokens) IssueInviteToken(_ context.Context, groupID, _ string) (InviteToken, error) {
	return InviteToken{Token: "invite-" + groupID, GroupID: groupID, ExpiresAt: fixedNow.Add(7 * 24 * time.Hour)}, nil
}

func (fakeTokens) ParseInviteToken(_ context.Context, token string) (string, error) {
	id, ok := strings.CutPrefix(token, "invite-")
	if !ok {
		return "", fmt.Errorf("%w: invalid invite token", ErrInvalidInput)
	}
	return id, nil
}

type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

func (plainHasher) Compare(hash, plain string) error {
	if hash != "hashed:"+plain {
		return fmt.Errorf("password mismatch")
	}
	return nil
}

type testEnv struct {
	users        *memory.UserRepository
	groups       *memory.GroupRepository
	players      *memory.PlayerRepository
	fields       *memory.FieldRepository
	matches      *memory.MatchRepository
	transactions *memory.TransactionRepository
	fees         *memory.MonthlyFeeRepository
	comments     *memory.CommentRepository
}

// newTestEnv seeds one group owned by ownerID with memberID as a plain
// member, a 200/h field, four players and one upcoming match.
func newTestEnv(t *testing.T, mode group.PaymentMode) *testEnv {
	t.Helper()

	users := []user.User{
		{ID: ownerID, Name: "Carlos Souza", Nickname: "Carlos", Phone: ownerID, Email: "carlos@example.com", Position: "GOLEIRO", PasswordHash: "hashed:secret1"},
		{ID: memberID, Name: "Bruno Lima", Nickname: "Bruno", Phone: memberID, Email: "bruno@example.com", Position: "ATACANTE", PasswordHash: "hashed:secret2"},
		{ID: outsiderID, Name: "Diego Alves", Nickname: "Diego", Phone: outsiderID, Position: "DEFENSOR", PasswordHash: "hashed:secret3"},
	}
	g := group.Group{
		ID:          testGroup,
		AdminID:     ownerID,
		Admins:      []string{ownerID},
		Members:     []string{ownerID, memberID},
		Name:        "Pelada dos Amigos",
		Sport:       group.DefaultSport,
		City:        "Campinas",
		InviteCode:  "ABCD2345",
		PaymentMode: mode,
		FixedAmount: decimal.NewFromInt(20),
		MonthlyFee:  decimal.NewFromInt(80),
	}
	players := []player.Player{
		{ID: "p-owner", GroupID: testGroup, UserID: ownerID, Name: "Carlos Souza", Position: player.PositionGoalkeeper, Rating: 4, Phone: ownerID},
		{ID: "p-member", GroupID: testGroup, UserID: memberID, Name: "Bruno Lima", Position: player.PositionForward, Rating: 3.5, Phone: memberID},
		{ID: "p-guest", GroupID: testGroup, Name: "Zeca", Position: player.PositionMidfielder, Rating: 2.5, IsGuest: true},
		{ID: "p-sub", GroupID: testGroup, Name: "Marcos", Position: player.PositionDefender, Rating: 3, IsMonthlySubscriber: true, MonthlyStartMonth: "2026-02"},
	}
	fields := []field.Field{
		{ID: testField, GroupID: testGroup, Name: "Arena Society", HourlyRate: decimal.NewFromInt(200)},
	}
	matches := []match.Match{
		{ID: testMatch, GroupID: testGroup, Date: "2026-03-14", Time: "20:00", FieldID: testField},
	}

	return &testEnv{
		users:        memory.NewUserRepository(users),
		groups:       memory.NewGroupRepository([]group.Group{g}),
		players:      memory.NewPlayerRepository(players),
		fields:       memory.NewFieldRepository(fields),
		matches:      memory.NewMatchRepository(matches),
		transactions: memory.NewTransactionRepository(nil),
		fees:         memory.NewMonthlyFeeRepository(),
		comments:     memory.NewCommentRepository(),
	}
}

func (e *testEnv) authService() *AuthService {
	s := NewAuthService(e.users, e.players, e.groups, fakeTokens{}, plainHasher{}, nil)
	s.now = func() time.Time { return fixedNow }
	return s
}

func (e *testEnv) groupService() *GroupService {
	s := NewGroupService(GroupRepositories{
		Groups:       e.groups,
		Players:      e.players,
		Fields:       e.fields,
		Matches:      e.matches,
		Transactions: e.transactions,
		MonthlyFees:  e.fees,
		Comments:     e.comments,
		Users:        e.users,
	}, fakeTokens{}, idgen.NewSequenceGenerator("id"), nil)
	s.now = func() time.Time { return fixedNow }
	return s
}

func (e *testEnv) playerService() *PlayerService {
	s := NewPlayerService(PlayerRepositories{
		Groups:       e.groups,
		Players:      e.players,
		Fields:       e.fields,
		Matches:      e.matches,
		Transactions: e.transactions,
	}, idgen.NewSequenceGenerator("player"), nil)
	s.now = func() time.Time { return fixedNow }
	return s
}

func (e *testEnv) fieldService() *FieldService {
	s := NewFieldService(e.groups, e.fields, e.matches, idgen.NewSequenceGenerator("field"), nil)
	s.now = func() time.Time { return fixedNow }
	return s
}

func (e *testEnv) matchService(balancer match.TeamBalancer) *MatchService {
	s := NewMatchService(MatchRepositories{
		Groups:       e.groups,
		Players:      e.players,
		Fields:       e.fields,
		Matches:      e.matches,
		Transactions: e.transactions,
		Comments:     e.comments,
	}, balancer, idgen.NewSequenceGenerator("match"), nil)
	s.now = func() time.Time { return fixedNow }
	return s
}

func (e *testEnv) financeService() *FinanceService {
	s := NewFinanceService(FinanceRepositories{
		Groups:       e.groups,
		Players:      e.players,
		Fields:       e.fields,
		Matches:      e.matches,
		Transactions: e.transactions,
		MonthlyFees:  e.fees,
	}, 2, idgen.NewSequenceGenerator("tx"), nil)
	s.now = func() time.Time { return fixedNow }
	return s
}

func (e *testEnv) commentService() *CommentService {
	s := NewCommentService(e.groups, e.players, e.matches, e.comments, idgen.NewSequenceGenerator("comment"), nil)
	s.now = func() time.Time { return fixedNow }
	return s
}

func mustMatch(t *testing.T, e *testEnv, matchID string) match.Match {
	t.Helper()
	m, ok, err := e.matches.GetByID(context.Background(), matchID)
	if err != nil || !ok {
		t.Fatalf("load match %s: ok=%v err=%v", matchID, ok, err)
	}
	return m
}

func mustPlayer(t *testing.T, e *testEnv, playerID string) player.Player {
	t.Helper()
	p, ok, err := e.players.GetByID(context.Background(), playerID)
	if err != nil || !ok {
		t.Fatalf("load player %s: ok=%v err=%v", playerID, ok, err)
	}
	return p
}

func mustGroup(t *testing.T, e *testEnv) group.Group {
	t.Helper()
	g, ok, err := e.groups.GetByID(context.Background(), testGroup)
	if err != nil || !ok {
		t.Fatalf("load group: ok=%v err=%v", ok, err)
	}
	return g
}
