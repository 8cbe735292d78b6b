package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

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

type CreatePlayerInput struct {
	ActorID             string
	GroupID             string
	UserID              string
	Name                string
	Nickname            string
	Position            string
	Rating              *float64
	IsMonthlySubscriber bool
	IsGuest             bool
	MonthlyStartMonth   string
	Phone               string
	Email               string
	AvatarURL           string
	BirthDate           string
	FavoriteTeam        string
}

// UpdatePlayerInput changes only the fields that are set. Rating, subscription
// and guest flags are admin-only.
type UpdatePlayerInput struct {
	ActorID             string
	PlayerID            string
	Name                string
	Nickname            string
	Position            string
	Phone               string
	Email               string
	AvatarURL           string
	BirthDate           string
	FavoriteTeam        string
	Rating              *float64
	IsMonthlySubscriber *bool
	IsGuest             *bool
	MonthlyStartMonth   *string
}

type PlayerRepositories struct {
	Groups       group.Repository
	Players      player.Repository
	Fields       field.Repository
	Matches      match.Repository
	Transactions finance.TransactionRepository
}

type PlayerService struct {
	groups  group.Repository
	players player.Repository
	matches match.Repository
	ledger  matchLedger
	idGen   idgen.Generator
	logger  *logging.Logger
	now     func() time.Time
}

func NewPlayerService(repos PlayerRepositories, idGen idgen.Generator, logger *logging.Logger) *PlayerService {
	if logger == nil {
		logger = logging.Default()
	}
	s := &PlayerService{
		groups:  repos.Groups,
		players: repos.Players,
		matches: repos.Matches,
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

func (s *PlayerService) ListByGroup(ctx context.Context, actorID, groupID string) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.ListByGroup")
	defer span.End()

	actorID, err := requireActor(actorID)
	if err != nil {
		return nil, err
	}
	g, err := loadGroup(ctx, s.groups, groupID)
	if err != nil {
		return nil, err
	}
	if err := requireMember(g, actorID); err != nil {
		return nil, err
	}

	items, err := s.players.ListByGroup(ctx, g.ID)
	if err != nil {
		return nil, fmt.Errorf("list players by group: %w", err)
	}
	return items, nil
}

func (s *PlayerService) Get(ctx context.Context, actorID, playerID string) (player.Player, error) {
	actorID, err := requireActor(actorID)
	if err != nil {
		return player.Player{}, err
	}
	p, g, err := s.load(ctx, playerID)
	if err != nil {
		return player.Player{}, err
	}
	if err := requireMember(g, actorID); err != nil {
		return player.Player{}, err
	}
	return p, nil
}

func (s *PlayerService) Create(ctx context.Context, input CreatePlayerInput) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Create")
	defer span.End()

	actorID, err := requireActor(input.ActorID)
	if err != nil {
		return player.Player{}, err
	}
	g, err := loadGroup(ctx, s.groups, input.GroupID)
	if err != nil {
		return player.Player{}, err
	}
	if err := requireAdmin(g, actorID); err != nil {
		return player.Player{}, err
	}

	position, err := player.ParsePosition(input.Position, player.PositionMidfielder)
	if err != nil {
		return player.Player{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	rating := player.DefaultRating
	if input.Rating != nil {
		rating = *input.Rating
	}
	phone, err := optionalPhone(input.Phone)
	if err != nil {
		return player.Player{}, err
	}

	playerID, err := s.idGen.NewID()
	if err != nil {
		return player.Player{}, fmt.Errorf("generate player id: %w", err)
	}
	now := s.now().UTC()
	p := player.Player{
		ID:                  playerID,
		GroupID:             g.ID,
		UserID:              strings.TrimSpace(input.UserID),
		Name:                strings.TrimSpace(input.Name),
		Nickname:            strings.TrimSpace(input.Nickname),
		Position:            position,
		Rating:              rating,
		IsMonthlySubscriber: input.IsMonthlySubscriber,
		IsGuest:             input.IsGuest,
		MonthlyStartMonth:   strings.TrimSpace(input.MonthlyStartMonth),
		Phone:               phone,
		Email:               strings.ToLower(strings.TrimSpace(input.Email)),
		AvatarURL:           strings.TrimSpace(input.AvatarURL),
		BirthDate:           strings.TrimSpace(input.BirthDate),
		FavoriteTeam:        strings.TrimSpace(input.FavoriteTeam),
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if p.IsGuest {
		p.UserID = ""
	}
	if p.Nickname == "" {
		p.Nickname = user.DefaultNickname(p.Name)
	}
	if err := p.Validate(); err != nil {
		return player.Player{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.ensureUnique(ctx, p); err != nil {
		return player.Player{}, err
	}

	if err := s.players.Create(ctx, p); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return player.Player{}, fmt.Errorf("%w: player already exists in group", ErrConflict)
		}
		return player.Player{}, fmt.Errorf("create player: %w", err)
	}

	s.logger.InfoContext(ctx, "player created", "group_id", g.ID, "player_id", p.ID)
	return p, nil
}

func (s *PlayerService) Update(ctx context.Context, input UpdatePlayerInput) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Update")
	defer span.End()

	actorID, err := requireActor(input.ActorID)
	if err != nil {
		return player.Player{}, err
	}
	p, g, err := s.load(ctx, input.PlayerID)
	if err != nil {
		return player.Player{}, err
	}

	isAdmin := g.IsAdmin(actorID)
	isSelf := p.UserID != "" && p.UserID == actorID
	if !isAdmin && !isSelf {
		return player.Player{}, fmt.Errorf("%w: only admins or the player can edit this player", ErrForbidden)
	}
	adminOnly := input.Rating != nil || input.IsMonthlySubscriber != nil || input.IsGuest != nil || input.MonthlyStartMonth != nil
	if adminOnly && !isAdmin {
		return player.Player{}, fmt.Errorf("%w: only admins can change rating or subscription", ErrForbidden)
	}

	setIfPresent(&p.Name, input.Name)
	setIfPresent(&p.Nickname, input.Nickname)
	setIfPresent(&p.AvatarURL, input.AvatarURL)
	setIfPresent(&p.BirthDate, input.BirthDate)
	setIfPresent(&p.FavoriteTeam, input.FavoriteTeam)
	if email := strings.TrimSpace(input.Email); email != "" {
		p.Email = strings.ToLower(email)
	}
	if strings.TrimSpace(input.Phone) != "" {
		phone, err := optionalPhone(input.Phone)
		if err != nil {
			return player.Player{}, err
		}
		p.Phone = phone
	}
	if strings.TrimSpace(input.Position) != "" {
		position, err := player.ParsePosition(input.Position, p.Position)
		if err != nil {
			return player.Player{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		p.Position = position
	}
	if input.Rating != nil {
		p.Rating = *input.Rating
	}
	if input.IsMonthlySubscriber != nil {
		p.IsMonthlySubscriber = *input.IsMonthlySubscriber
	}
	if input.IsGuest != nil {
		p.IsGuest = *input.IsGuest
	}
	if input.MonthlyStartMonth != nil {
		p.MonthlyStartMonth = strings.TrimSpace(*input.MonthlyStartMonth)
	}
	p.UpdatedAt = s.now().UTC()

	if err := p.Validate(); err != nil {
		return player.Player{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.ensureUnique(ctx, p); err != nil {
		return player.Player{}, err
	}
	if err := s.players.Update(ctx, p); err != nil {
		return player.Player{}, fmt.Errorf("update player: %w", err)
	}
	return p, nil
}

// Delete removes the player and drops them from every match that is still
// open, re-settling the revenue row of each match it touched. Finished
// matches keep their rosters.
func (s *PlayerService) Delete(ctx context.Context, actorID, playerID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Delete")
	defer span.End()

	actorID, err := requireActor(actorID)
	if err != nil {
		return err
	}
	p, g, err := s.load(ctx, playerID)
	if err != nil {
		return err
	}
	if err := requireAdmin(g, actorID); err != nil {
		return err
	}

	matches, err := s.matches.ListByGroup(ctx, g.ID)
	if err != nil {
		return fmt.Errorf("list matches by group: %w", err)
	}
	now := s.now().UTC()
	for _, m := range matches {
		if !m.RemovePlayer(p.ID) {
			continue
		}
		m.UpdatedAt = now
		if err := s.matches.Update(ctx, m); err != nil {
			return fmt.Errorf("remove player from match %s: %w", m.ID, err)
		}
		if _, err := s.ledger.settle(ctx, g, m); err != nil {
			return fmt.Errorf("settle match %s: %w", m.ID, err)
		}
	}

	if err := s.players.Delete(ctx, p.ID); err != nil {
		return fmt.Errorf("delete player: %w", err)
	}

	s.logger.InfoContext(ctx, "player deleted", "group_id", g.ID, "player_id", p.ID)
	return nil
}

func (s *PlayerService) load(ctx context.Context, playerID string) (player.Player, group.Group, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return player.Player{}, group.Group{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	p, exists, err := s.players.GetByID(ctx, playerID)
	if err != nil {
		return player.Player{}, group.Group{}, fmt.Errorf("get player by id: %w", err)
	}
	if !exists {
		return player.Player{}, group.Group{}, fmt.Errorf("%w: player not found", ErrNotFound)
	}
	g, err := loadGroup(ctx, s.groups, p.GroupID)
	if err != nil {
		return player.Player{}, group.Group{}, err
	}
	return p, g, nil
}

// ensureUnique rejects a second player in the group with the same user or
// phone.
func (s *PlayerService) ensureUnique(ctx context.Context, p player.Player) error {
	if p.UserID == "" && p.Phone == "" {
		return nil
	}
	items, err := s.players.ListByGroup(ctx, p.GroupID)
	if err != nil {
		return fmt.Errorf("list players by group: %w", err)
	}
	for _, other := range items {
		if other.ID == p.ID {
			continue
		}
		if p.UserID != "" && other.UserID == p.UserID {
			return fmt.Errorf("%w: user already has a player in this group", ErrConflict)
		}
		if p.Phone != "" && other.Phone == p.Phone {
			return fmt.Errorf("%w: phone already used by another player in this group", ErrConflict)
		}
	}
	return nil
}

func optionalPhone(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	phone, err := user.ParsePhone(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return phone, nil
}
