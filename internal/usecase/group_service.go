package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/futgol/internal/domain/comment"
	"github.com/riskibarqy/futgol/internal/domain/field"
	"github.com/riskibarqy/futgol/internal/domain/finance"
	"github.com/riskibarqy/futgol/internal/domain/group"
	"github.com/riskibarqy/futgol/internal/domain/match"
	"github.com/riskibarqy/futgol/internal/domain/player"
	"github.com/riskibarqy/futgol/internal/domain/user"
	idgen "github.com/riskibarqy/futgol/internal/platform/id"
	"github.com/riskibarqy/futgol/internal/platform/logging"
	"github.com/riskibarqy/futgol/internal/platform/storage"
)

type CreateGroupInput struct {
	UserID      string
	Name        string
	Sport       string
	City        string
	LogoURL     string
	PaymentMode string
	FixedAmount decimal.Decimal
	MonthlyFee  decimal.Decimal
}

type UpdateGroupInput struct {
	UserID      string
	GroupID     string
	Name        string
	Sport       string
	City        string
	LogoURL     string
	PaymentMode string
	FixedAmount *decimal.Decimal
	MonthlyFee  *decimal.Decimal
}

type MemberActionInput struct {
	ActorID      string
	GroupID      string
	TargetUserID string
}

type JoinWithInviteInput struct {
	UserID     string
	Token      string
	InviteCode string
}

type GroupInvite struct {
	GroupID    string
	Token      string
	InviteCode string
	ExpiresAt  time.Time
}

// GroupRepositories bundles every store a group owns so deleting a group can
// cascade.
type GroupRepositories struct {
	Groups       group.Repository
	Players      player.Repository
	Fields       field.Repository
	Matches      match.Repository
	Transactions finance.TransactionRepository
	MonthlyFees  finance.MonthlyFeeRepository
	Comments     comment.Repository
	Users        user.Repository
}

type GroupService struct {
	repos  GroupRepositories
	tokens TokenIssuer
	idGen  idgen.Generator
	logger *logging.Logger
	now    func() time.Time
}

func NewGroupService(repos GroupRepositories, tokens TokenIssuer, idGen idgen.Generator, logger *logging.Logger) *GroupService {
	if logger == nil {
		logger = logging.Default()
	}
	return &GroupService{
		repos:  repos,
		tokens: tokens,
		idGen:  idGen,
		logger: logger,
		now:    time.Now,
	}
}

func (s *GroupService) Create(ctx context.Context, input CreateGroupInput) (group.Group, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GroupService.Create")
	defer span.End()

	actorID, err := requireActor(input.UserID)
	if err != nil {
		return group.Group{}, err
	}
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return group.Group{}, fmt.Errorf("%w: group name is required", ErrInvalidInput)
	}
	mode, err := parsePaymentMode(input.PaymentMode)
	if err != nil {
		return group.Group{}, err
	}

	groupID, err := s.idGen.NewID()
	if err != nil {
		return group.Group{}, fmt.Errorf("generate group id: %w", err)
	}
	inviteCode, err := generateInviteCode(inviteCodeLength)
	if err != nil {
		return group.Group{}, fmt.Errorf("generate invite code: %w", err)
	}

	now := s.now().UTC()
	g := group.Group{
		ID:          groupID,
		AdminID:     actorID,
		Admins:      []string{actorID},
		Members:     []string{actorID},
		Name:        input.Name,
		Sport:       strings.TrimSpace(input.Sport),
		City:        strings.TrimSpace(input.City),
		LogoURL:     strings.TrimSpace(input.LogoURL),
		InviteCode:  inviteCode,
		PaymentMode: mode,
		FixedAmount: input.FixedAmount,
		MonthlyFee:  input.MonthlyFee,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	g.Normalize()
	if err := g.Validate(); err != nil {
		return group.Group{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.repos.Groups.Create(ctx, g); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return group.Group{}, fmt.Errorf("%w: duplicate group invite code", ErrConflict)
		}
		return group.Group{}, fmt.Errorf("create group: %w", err)
	}
	if _, err := s.ensureMemberPlayer(ctx, g, actorID); err != nil {
		return group.Group{}, err
	}

	s.logger.InfoContext(ctx, "group created", "group_id", g.ID, "owner", actorID)
	return g, nil
}

func (s *GroupService) Get(ctx context.Context, actorID, groupID string) (group.Group, error) {
	actorID, err := requireActor(actorID)
	if err != nil {
		return group.Group{}, err
	}
	g, err := loadGroup(ctx, s.repos.Groups, groupID)
	if err != nil {
		return group.Group{}, err
	}
	if err := requireMember(g, actorID); err != nil {
		return group.Group{}, err
	}
	return g, nil
}

func (s *GroupService) ListMine(ctx context.Context, actorID string) ([]group.Group, error) {
	actorID, err := requireActor(actorID)
	if err != nil {
		return nil, err
	}
	items, err := s.repos.Groups.ListByMember(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("list groups by member: %w", err)
	}
	return items, nil
}

// Directory lists every group with public fields only, for join requests.
func (s *GroupService) Directory(ctx context.Context) ([]group.Summary, error) {
	items, err := s.repos.Groups.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	out := make([]group.Summary, 0, len(items))
	for _, g := range items {
		out = append(out, g.Summary())
	}
	return out, nil
}

func (s *GroupService) Update(ctx context.Context, input UpdateGroupInput) (group.Group, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GroupService.Update")
	defer span.End()

	g, err := s.loadAsAdmin(ctx, input.UserID, input.GroupID)
	if err != nil {
		return group.Group{}, err
	}

	setIfPresent(&g.Name, input.Name)
	setIfPresent(&g.Sport, input.Sport)
	setIfPresent(&g.City, input.City)
	setIfPresent(&g.LogoURL, input.LogoURL)
	if strings.TrimSpace(input.PaymentMode) != "" {
		mode, err := parsePaymentMode(input.PaymentMode)
		if err != nil {
			return group.Group{}, err
		}
		g.PaymentMode = mode
	}
	if input.FixedAmount != nil {
		g.FixedAmount = *input.FixedAmount
	}
	if input.MonthlyFee != nil {
		g.MonthlyFee = *input.MonthlyFee
	}

	return s.save(ctx, g)
}

// Delete removes the group and everything it owns. Only the owner may do it.
func (s *GroupService) Delete(ctx context.Context, actorID, groupID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.GroupService.Delete")
	defer span.End()

	actorID, err := requireActor(actorID)
	if err != nil {
		return err
	}
	g, err := loadGroup(ctx, s.repos.Groups, groupID)
	if err != nil {
		return err
	}
	if !g.IsOwner(actorID) {
		return fmt.Errorf("%w: only the group owner can delete it", ErrForbidden)
	}

	steps := []struct {
		name string
		run  func(context.Context, string) error
	}{
		{name: "comments", run: s.repos.Comments.DeleteByGroup},
		{name: "monthly fees", run: s.repos.MonthlyFees.DeleteByGroup},
		{name: "transactions", run: s.repos.Transactions.DeleteByGroup},
		{name: "matches", run: s.repos.Matches.DeleteByGroup},
		{name: "fields", run: s.repos.Fields.DeleteByGroup},
		{name: "players", run: s.repos.Players.DeleteByGroup},
		{name: "group", run: s.repos.Groups.Delete},
	}
	for _, step := range steps {
		if err := step.run(ctx, g.ID); err != nil {
			return fmt.Errorf("delete group %s: %w", step.name, err)
		}
	}

	s.logger.InfoContext(ctx, "group deleted", "group_id", g.ID, "owner", actorID)
	return nil
}

func (s *GroupService) RequestJoin(ctx context.Context, actorID, groupID string) (group.Group, error) {
	actorID, err := requireActor(actorID)
	if err != nil {
		return group.Group{}, err
	}
	g, err := loadGroup(ctx, s.repos.Groups, groupID)
	if err != nil {
		return group.Group{}, err
	}
	if g.IsMember(actorID) {
		return group.Group{}, fmt.Errorf("%w: you are already a member", ErrConflict)
	}
	if g.IsPending(actorID) {
		return g, nil
	}

	g.PendingRequests = append(g.PendingRequests, actorID)
	return s.save(ctx, g)
}

func (s *GroupService) CancelRequest(ctx context.Context, actorID, groupID string) (group.Group, error) {
	actorID, err := requireActor(actorID)
	if err != nil {
		return group.Group{}, err
	}
	g, err := loadGroup(ctx, s.repos.Groups, groupID)
	if err != nil {
		return group.Group{}, err
	}
	if !g.IsPending(actorID) {
		return group.Group{}, fmt.Errorf("%w: no pending request", ErrNotFound)
	}

	g.PendingRequests = group.RemoveID(g.PendingRequests, actorID)
	return s.save(ctx, g)
}

// ApproveRequest admits a pending user and creates their player record.
func (s *GroupService) ApproveRequest(ctx context.Context, input MemberActionInput) (group.Group, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GroupService.ApproveRequest")
	defer span.End()

	g, target, err := s.loadMemberAction(ctx, input)
	if err != nil {
		return group.Group{}, err
	}
	if !g.IsPending(target) {
		return group.Group{}, fmt.Errorf("%w: user has no pending request", ErrNotFound)
	}

	g.PendingRequests = group.RemoveID(g.PendingRequests, target)
	g.Members = append(g.Members, target)
	saved, err := s.save(ctx, g)
	if err != nil {
		return group.Group{}, err
	}
	if _, err := s.ensureMemberPlayer(ctx, saved, target); err != nil {
		return group.Group{}, err
	}
	return saved, nil
}

func (s *GroupService) RejectRequest(ctx context.Context, input MemberActionInput) (group.Group, error) {
	g, target, err := s.loadMemberAction(ctx, input)
	if err != nil {
		return group.Group{}, err
	}
	if !g.IsPending(target) {
		return group.Group{}, fmt.Errorf("%w: user has no pending request", ErrNotFound)
	}

	g.PendingRequests = group.RemoveID(g.PendingRequests, target)
	return s.save(ctx, g)
}

// RemoveMember drops a member and their admin role. Player records stay so
// past matches keep their rosters.
func (s *GroupService) RemoveMember(ctx context.Context, input MemberActionInput) (group.Group, error) {
	g, target, err := s.loadMemberAction(ctx, input)
	if err != nil {
		return group.Group{}, err
	}
	if g.IsOwner(target) {
		return group.Group{}, fmt.Errorf("%w: the group owner cannot be removed", ErrInvalidInput)
	}
	if !g.IsMember(target) {
		return group.Group{}, fmt.Errorf("%w: user is not a member", ErrNotFound)
	}

	g.Members = group.RemoveID(g.Members, target)
	g.Admins = group.RemoveID(g.Admins, target)
	return s.save(ctx, g)
}

func (s *GroupService) PromoteMember(ctx context.Context, input MemberActionInput) (group.Group, error) {
	g, target, err := s.loadMemberAction(ctx, input)
	if err != nil {
		return group.Group{}, err
	}
	if !g.IsMember(target) {
		return group.Group{}, fmt.Errorf("%w: user is not a member", ErrNotFound)
	}
	if g.IsAdmin(target) {
		return g, nil
	}

	g.Admins = append(g.Admins, target)
	return s.save(ctx, g)
}

func (s *GroupService) DemoteMember(ctx context.Context, input MemberActionInput) (group.Group, error) {
	g, target, err := s.loadMemberAction(ctx, input)
	if err != nil {
		return group.Group{}, err
	}
	if g.IsOwner(target) {
		return group.Group{}, fmt.Errorf("%w: the group owner cannot be demoted", ErrInvalidInput)
	}
	if !slices.Contains(g.Admins, target) {
		return g, nil
	}

	g.Admins = group.RemoveID(g.Admins, target)
	return s.save(ctx, g)
}

func (s *GroupService) Leave(ctx context.Context, actorID, groupID string) error {
	actorID, err := requireActor(actorID)
	if err != nil {
		return err
	}
	g, err := loadGroup(ctx, s.repos.Groups, groupID)
	if err != nil {
		return err
	}
	if g.IsOwner(actorID) {
		return fmt.Errorf("%w: the group owner cannot leave, delete the group instead", ErrInvalidInput)
	}
	if !g.IsMember(actorID) {
		return fmt.Errorf("%w: you are not a member of this group", ErrNotFound)
	}

	g.Members = group.RemoveID(g.Members, actorID)
	g.Admins = group.RemoveID(g.Admins, actorID)
	_, err = s.save(ctx, g)
	return err
}

func (s *GroupService) GenerateInvite(ctx context.Context, actorID, groupID string) (GroupInvite, error) {
	g, err := s.loadAsAdmin(ctx, actorID, groupID)
	if err != nil {
		return GroupInvite{}, err
	}

	invite, err := s.tokens.IssueInviteToken(ctx, g.ID, actorID)
	if err != nil {
		return GroupInvite{}, fmt.Errorf("issue invite token: %w", err)
	}
	return GroupInvite{
		GroupID:    g.ID,
		Token:      invite.Token,
		InviteCode: g.InviteCode,
		ExpiresAt:  invite.ExpiresAt,
	}, nil
}

// JoinWithInvite admits the caller directly using a signed invite token or
// the group's invite code.
func (s *GroupService) JoinWithInvite(ctx context.Context, input JoinWithInviteInput) (group.Group, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GroupService.JoinWithInvite")
	defer span.End()

	actorID, err := requireActor(input.UserID)
	if err != nil {
		return group.Group{}, err
	}

	var g group.Group
	switch {
	case strings.TrimSpace(input.Token) != "":
		groupID, err := s.tokens.ParseInviteToken(ctx, input.Token)
		if err != nil {
			return group.Group{}, err
		}
		if g, err = loadGroup(ctx, s.repos.Groups, groupID); err != nil {
			return group.Group{}, err
		}
	case strings.TrimSpace(input.InviteCode) != "":
		code := strings.ToUpper(strings.TrimSpace(input.InviteCode))
		found, exists, err := s.repos.Groups.GetByInviteCode(ctx, code)
		if err != nil {
			return group.Group{}, fmt.Errorf("get group by invite code: %w", err)
		}
		if !exists {
			return group.Group{}, fmt.Errorf("%w: invite code not found", ErrNotFound)
		}
		g = found
	default:
		return group.Group{}, fmt.Errorf("%w: invite token or code is required", ErrInvalidInput)
	}

	if !g.IsMember(actorID) {
		g.Members = append(g.Members, actorID)
		saved, err := s.save(ctx, g)
		if err != nil {
			return group.Group{}, err
		}
		g = saved
	}
	if _, err := s.ensureMemberPlayer(ctx, g, actorID); err != nil {
		return group.Group{}, err
	}
	return g, nil
}

func (s *GroupService) loadAsAdmin(ctx context.Context, actorID, groupID string) (group.Group, error) {
	actorID, err := requireActor(actorID)
	if err != nil {
		return group.Group{}, err
	}
	g, err := loadGroup(ctx, s.repos.Groups, groupID)
	if err != nil {
		return group.Group{}, err
	}
	if err := requireAdmin(g, actorID); err != nil {
		return group.Group{}, err
	}
	return g, nil
}

func (s *GroupService) loadMemberAction(ctx context.Context, input MemberActionInput) (group.Group, string, error) {
	target := strings.TrimSpace(input.TargetUserID)
	if target == "" {
		return group.Group{}, "", fmt.Errorf("%w: target user id is required", ErrInvalidInput)
	}
	g, err := s.loadAsAdmin(ctx, input.ActorID, input.GroupID)
	if err != nil {
		return group.Group{}, "", err
	}
	return g, target, nil
}

func (s *GroupService) save(ctx context.Context, g group.Group) (group.Group, error) {
	g.Normalize()
	g.UpdatedAt = s.now().UTC()
	if err := g.Validate(); err != nil {
		return group.Group{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.repos.Groups.Update(ctx, g); err != nil {
		return group.Group{}, fmt.Errorf("update group: %w", err)
	}
	return g, nil
}

// ensureMemberPlayer returns the caller's player in g, creating one from the
// user profile when missing.
func (s *GroupService) ensureMemberPlayer(ctx context.Context, g group.Group, userID string) (player.Player, error) {
	existing, exists, err := s.repos.Players.GetByGroupAndUser(ctx, g.ID, userID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player by group and user: %w", err)
	}
	if exists {
		return existing, nil
	}

	playerID, err := s.idGen.NewID()
	if err != nil {
		return player.Player{}, fmt.Errorf("generate player id: %w", err)
	}
	now := s.now().UTC()
	p := player.Player{
		ID:        playerID,
		GroupID:   g.ID,
		UserID:    userID,
		Name:      userID,
		Position:  player.PositionMidfielder,
		Rating:    player.DefaultRating,
		Phone:     userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if s.repos.Users != nil {
		u, found, err := s.repos.Users.GetByID(ctx, userID)
		if err != nil {
			return player.Player{}, fmt.Errorf("get user profile for player: %w", err)
		}
		if found {
			applyProfile(&p, u)
		}
	}

	if err := s.repos.Players.Create(ctx, p); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			if again, ok, getErr := s.repos.Players.GetByGroupAndUser(ctx, g.ID, userID); getErr == nil && ok {
				return again, nil
			}
		}
		return player.Player{}, fmt.Errorf("create member player: %w", err)
	}
	return p, nil
}

func parsePaymentMode(raw string) (group.PaymentMode, error) {
	value := group.PaymentMode(strings.ToLower(strings.TrimSpace(raw)))
	if value == "" {
		return group.PaymentModeFixed, nil
	}
	if !value.Valid() {
		return "", fmt.Errorf("%w: payment mode must be fixed or split", ErrInvalidInput)
	}
	return value, nil
}
