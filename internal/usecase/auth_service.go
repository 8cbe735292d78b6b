package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/riskibarqy/futgol/internal/domain/group"
	"github.com/riskibarqy/futgol/internal/domain/player"
	"github.com/riskibarqy/futgol/internal/domain/user"
	"github.com/riskibarqy/futgol/internal/platform/logging"
	"github.com/riskibarqy/futgol/internal/platform/storage"
)

const (
	minPasswordLength   = 6
	minAccessTTLMinutes = 5
	maxAccessTTLMinutes = 24 * 60
)

type RegisterInput struct {
	Name         string
	Email        string
	Password     string
	Phone        string
	Nickname     string
	BirthDate    string
	FavoriteTeam string
	Position     string
}

type LoginInput struct {
	Identifier       string
	Password         string
	AccessTTLMinutes int
}

type UpdateProfileInput struct {
	UserID       string
	Name         string
	Nickname     string
	Email        string
	AvatarURL    string
	BirthDate    string
	FavoriteTeam string
	Position     string
}

type AuthResult struct {
	User   user.User
	Access AccessToken
}

type PhoneLookup struct {
	Found   bool
	Source  string
	Profile user.User
	Groups  []group.Summary
}

const (
	LookupSourceProfile = "profile"
	LookupSourcePlayer  = "player"
)

type AuthService struct {
	users   user.Repository
	players player.Repository
	groups  group.Repository
	tokens  TokenIssuer
	hasher  PasswordHasher
	logger  *logging.Logger
	now     func() time.Time
}

func NewAuthService(
	users user.Repository,
	players player.Repository,
	groups group.Repository,
	tokens TokenIssuer,
	hasher PasswordHasher,
	logger *logging.Logger,
) *AuthService {
	if logger == nil {
		logger = logging.Default()
	}
	return &AuthService{
		users:   users,
		players: players,
		groups:  groups,
		tokens:  tokens,
		hasher:  hasher,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.Register")
	defer span.End()

	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Name == "" {
		return AuthResult{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len(input.Password) < minPasswordLength {
		return AuthResult{}, fmt.Errorf("%w: password must have at least %d characters", ErrInvalidInput, minPasswordLength)
	}
	phone, err := user.ParsePhone(input.Phone)
	if err != nil {
		return AuthResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	position, err := player.ParsePosition(input.Position, "")
	if err != nil {
		return AuthResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if _, exists, err := s.users.GetByID(ctx, phone); err != nil {
		return AuthResult{}, fmt.Errorf("get user by phone: %w", err)
	} else if exists {
		return AuthResult{}, fmt.Errorf("%w: phone already registered", ErrConflict)
	}
	if input.Email != "" {
		if _, exists, err := s.users.GetByEmail(ctx, input.Email); err != nil {
			return AuthResult{}, fmt.Errorf("get user by email: %w", err)
		} else if exists {
			return AuthResult{}, fmt.Errorf("%w: email already registered", ErrConflict)
		}
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	nickname := strings.TrimSpace(input.Nickname)
	if nickname == "" {
		nickname = user.DefaultNickname(input.Name)
	}

	now := s.now().UTC()
	u := user.User{
		ID:           phone,
		Name:         input.Name,
		Nickname:     nickname,
		Email:        input.Email,
		Phone:        phone,
		AvatarURL:    defaultAvatarURL(input.Name),
		BirthDate:    strings.TrimSpace(input.BirthDate),
		FavoriteTeam: strings.TrimSpace(input.FavoriteTeam),
		Position:     string(position),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.Validate(); err != nil {
		return AuthResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return AuthResult{}, fmt.Errorf("%w: phone or email already registered", ErrConflict)
		}
		return AuthResult{}, fmt.Errorf("create user: %w", err)
	}

	access, err := s.tokens.IssueAccessToken(ctx, principalOf(u), 0)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue access token: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", u.ID)
	return AuthResult{User: u, Access: access}, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.Login")
	defer span.End()

	identifier := strings.TrimSpace(input.Identifier)
	if identifier == "" || input.Password == "" {
		return AuthResult{}, fmt.Errorf("%w: identifier and password are required", ErrInvalidInput)
	}

	var ttl time.Duration
	if input.AccessTTLMinutes != 0 {
		if input.AccessTTLMinutes < minAccessTTLMinutes || input.AccessTTLMinutes > maxAccessTTLMinutes {
			return AuthResult{}, fmt.Errorf("%w: access ttl must be between %d and %d minutes", ErrInvalidInput, minAccessTTLMinutes, maxAccessTTLMinutes)
		}
		ttl = time.Duration(input.AccessTTLMinutes) * time.Minute
	}

	var (
		u      user.User
		exists bool
		err    error
	)
	if strings.Contains(identifier, "@") {
		u, exists, err = s.users.GetByEmail(ctx, strings.ToLower(identifier))
	} else {
		u, exists, err = s.users.GetByID(ctx, user.NormalizePhone(identifier))
	}
	if err != nil {
		return AuthResult{}, fmt.Errorf("get user for login: %w", err)
	}
	if !exists || u.PasswordHash == "" {
		return AuthResult{}, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}
	if err := s.hasher.Compare(u.PasswordHash, input.Password); err != nil {
		return AuthResult{}, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	access, err := s.tokens.IssueAccessToken(ctx, principalOf(u), ttl)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue access token: %w", err)
	}
	return AuthResult{User: u, Access: access}, nil
}

func (s *AuthService) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	return s.tokens.VerifyAccessToken(ctx, token)
}

func (s *AuthService) Me(ctx context.Context, userID string) (user.User, error) {
	userID, err := requireActor(userID)
	if err != nil {
		return user.User{}, err
	}

	u, exists, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, fmt.Errorf("get user by id: %w", err)
	}
	if !exists {
		return user.User{}, fmt.Errorf("%w: user not found", ErrNotFound)
	}
	return u, nil
}

// UpdateMe changes the caller's profile and copies it onto every player
// record linked to the caller. Empty fields are left unchanged.
func (s *AuthService) UpdateMe(ctx context.Context, input UpdateProfileInput) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.UpdateMe")
	defer span.End()

	u, err := s.Me(ctx, input.UserID)
	if err != nil {
		return user.User{}, err
	}

	setIfPresent(&u.Name, input.Name)
	setIfPresent(&u.Nickname, input.Nickname)
	setIfPresent(&u.AvatarURL, input.AvatarURL)
	setIfPresent(&u.BirthDate, input.BirthDate)
	setIfPresent(&u.FavoriteTeam, input.FavoriteTeam)
	if email := strings.ToLower(strings.TrimSpace(input.Email)); email != "" && email != u.Email {
		other, exists, err := s.users.GetByEmail(ctx, email)
		if err != nil {
			return user.User{}, fmt.Errorf("get user by email: %w", err)
		}
		if exists && other.ID != u.ID {
			return user.User{}, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		u.Email = email
	}
	if strings.TrimSpace(input.Position) != "" {
		position, err := player.ParsePosition(input.Position, "")
		if err != nil {
			return user.User{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		u.Position = string(position)
	}
	u.UpdatedAt = s.now().UTC()
	if err := u.Validate(); err != nil {
		return user.User{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.users.Update(ctx, u); err != nil {
		return user.User{}, fmt.Errorf("update user: %w", err)
	}

	linked, err := s.players.ListByUser(ctx, u.ID)
	if err != nil {
		return user.User{}, fmt.Errorf("list players by user: %w", err)
	}
	for _, p := range linked {
		applyProfile(&p, u)
		p.UpdatedAt = u.UpdatedAt
		if err := s.players.Update(ctx, p); err != nil {
			return user.User{}, fmt.Errorf("propagate profile to player=%s: %w", p.ID, err)
		}
	}

	return u, nil
}

// LookupByPhone tells a client whether a phone already has an account or is
// known as a player somewhere, so sign-up can be prefilled.
func (s *AuthService) LookupByPhone(ctx context.Context, rawPhone string) (PhoneLookup, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.LookupByPhone")
	defer span.End()

	phone, err := user.ParsePhone(rawPhone)
	if err != nil {
		return PhoneLookup{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	linked, err := s.players.ListByUser(ctx, phone)
	if err != nil {
		return PhoneLookup{}, fmt.Errorf("list players by phone: %w", err)
	}

	out := PhoneLookup{}
	u, exists, err := s.users.GetByID(ctx, phone)
	if err != nil {
		return PhoneLookup{}, fmt.Errorf("get user by phone: %w", err)
	}
	switch {
	case exists:
		u.PasswordHash = ""
		out.Found = true
		out.Source = LookupSourceProfile
		out.Profile = u
	case len(linked) > 0:
		p := linked[0]
		out.Found = true
		out.Source = LookupSourcePlayer
		out.Profile = user.User{
			ID:           phone,
			Name:         p.Name,
			Nickname:     p.Nickname,
			Email:        p.Email,
			Phone:        phone,
			AvatarURL:    p.AvatarURL,
			BirthDate:    p.BirthDate,
			FavoriteTeam: p.FavoriteTeam,
			Position:     string(p.Position),
		}
	default:
		return out, nil
	}

	seen := make(map[string]struct{}, len(linked))
	for _, p := range linked {
		if _, ok := seen[p.GroupID]; ok {
			continue
		}
		seen[p.GroupID] = struct{}{}
		g, exists, err := s.groups.GetByID(ctx, p.GroupID)
		if err != nil {
			return PhoneLookup{}, fmt.Errorf("get group for lookup: %w", err)
		}
		if exists {
			out.Groups = append(out.Groups, g.Summary())
		}
	}

	return out, nil
}

func principalOf(u user.User) user.Principal {
	return user.Principal{UserID: u.ID, Name: u.Name, Email: u.Email}
}

func applyProfile(p *player.Player, u user.User) {
	p.Name = u.Name
	p.Nickname = u.Nickname
	p.Email = u.Email
	p.AvatarURL = u.AvatarURL
	p.BirthDate = u.BirthDate
	p.FavoriteTeam = u.FavoriteTeam
	p.Phone = u.Phone
	if pos, err := player.ParsePosition(u.Position, p.Position); err == nil && pos != "" {
		p.Position = pos
	}
}

func setIfPresent(dst *string, value string) {
	if v := strings.TrimSpace(value); v != "" {
		*dst = v
	}
}

func defaultAvatarURL(name string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=random"
}
