package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/riskibarqy/futgol/internal/app"
	"github.com/riskibarqy/futgol/internal/domain/field"
	"github.com/riskibarqy/futgol/internal/domain/group"
	"github.com/riskibarqy/futgol/internal/domain/match"
	"github.com/riskibarqy/futgol/internal/domain/player"
	"github.com/riskibarqy/futgol/internal/domain/user"
	"github.com/riskibarqy/futgol/internal/platform/logging"
	"github.com/riskibarqy/futgol/internal/usecase"
)

type seedFile struct {
	Users  []seedUser  `yaml:"users"`
	Groups []seedGroup `yaml:"groups"`
}

type seedUser struct {
	Name         string `yaml:"name"`
	Nickname     string `yaml:"nickname"`
	Email        string `yaml:"email"`
	Phone        string `yaml:"phone"`
	Password     string `yaml:"password"`
	Position     string `yaml:"position"`
	FavoriteTeam string `yaml:"favoriteTeam"`
}

type seedGroup struct {
	ID          string       `yaml:"id"`
	Name        string       `yaml:"name"`
	City        string       `yaml:"city"`
	Owner       string       `yaml:"owner"`
	Admins      []string     `yaml:"admins"`
	Members     []string     `yaml:"members"`
	InviteCode  string       `yaml:"inviteCode"`
	PaymentMode string       `yaml:"paymentMode"`
	FixedAmount string       `yaml:"fixedAmount"`
	MonthlyFee  string       `yaml:"monthlyFee"`
	Fields      []seedField  `yaml:"fields"`
	Players     []seedPlayer `yaml:"players"`
	Matches     []seedMatch  `yaml:"matches"`
}

type seedField struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	Location     string   `yaml:"location"`
	HourlyRate   string   `yaml:"hourlyRate"`
	ContactName  string   `yaml:"contactName"`
	ContactPhone string   `yaml:"contactPhone"`
	Latitude     *float64 `yaml:"latitude"`
	Longitude    *float64 `yaml:"longitude"`
}

type seedPlayer struct {
	ID                string  `yaml:"id"`
	User              string  `yaml:"user"`
	Name              string  `yaml:"name"`
	Nickname          string  `yaml:"nickname"`
	Position          string  `yaml:"position"`
	Rating            float64 `yaml:"rating"`
	MonthlySubscriber bool    `yaml:"monthlySubscriber"`
	MonthlyStartMonth string  `yaml:"monthlyStartMonth"`
	Guest             bool    `yaml:"guest"`
}

type seedMatch struct {
	ID        string   `yaml:"id"`
	Date      string   `yaml:"date"`
	Time      string   `yaml:"time"`
	Field     string   `yaml:"field"`
	Confirmed []string `yaml:"confirmed"`
	Paid      []string `yaml:"paid"`
	Finished  bool     `yaml:"finished"`
	ScoreA    int      `yaml:"scoreA"`
	ScoreB    int      `yaml:"scoreB"`
	MVP       string   `yaml:"mvp"`
}

func parseSeed(r io.Reader) (seedFile, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var out seedFile
	if err := dec.Decode(&out); err != nil {
		return seedFile{}, fmt.Errorf("decode seed yaml: %w", err)
	}
	return out, nil
}

type seedReport struct {
	Users   int
	Groups  int
	Fields  int
	Players int
	Matches int
	Skipped int
}

// seeder writes records with their declared ids and skips ids that already
// exist, so running it twice is harmless.
type seeder struct {
	repos   app.Repositories
	hasher  usecase.PasswordHasher
	finance *usecase.FinanceService
	logger  *logging.Logger
	now     func() time.Time
}

func (s *seeder) apply(ctx context.Context, file seedFile) (seedReport, error) {
	var report seedReport
	for _, u := range file.Users {
		created, err := s.seedUser(ctx, u)
		if err != nil {
			return report, err
		}
		report.count(created, &report.Users)
	}

	for _, g := range file.Groups {
		if err := s.seedGroup(ctx, g, &report); err != nil {
			return report, fmt.Errorf("group %s: %w", g.ID, err)
		}
	}
	return report, nil
}

func (r *seedReport) count(created bool, counter *int) {
	if created {
		*counter++
		return
	}
	r.Skipped++
}

func (s *seeder) seedUser(ctx context.Context, in seedUser) (bool, error) {
	phone, err := user.ParsePhone(in.Phone)
	if err != nil {
		return false, fmt.Errorf("user %q: %w", in.Name, err)
	}
	if _, exists, err := s.repos.Users.GetByID(ctx, phone); err != nil {
		return false, fmt.Errorf("get user %s: %w", phone, err)
	} else if exists {
		return false, nil
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return false, err
	}
	nickname := strings.TrimSpace(in.Nickname)
	if nickname == "" {
		nickname = user.DefaultNickname(in.Name)
	}

	now := s.now().UTC()
	u := user.User{
		ID:           phone,
		Name:         strings.TrimSpace(in.Name),
		Nickname:     nickname,
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:        phone,
		FavoriteTeam: in.FavoriteTeam,
		Position:     strings.ToUpper(strings.TrimSpace(in.Position)),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.Validate(); err != nil {
		return false, fmt.Errorf("user %s: %w", phone, err)
	}
	if err := s.repos.Users.Create(ctx, u); err != nil {
		return false, fmt.Errorf("create user %s: %w", phone, err)
	}
	return true, nil
}

func (s *seeder) seedGroup(ctx context.Context, in seedGroup, report *seedReport) error {
	owner := user.NormalizePhone(in.Owner)
	g := group.Group{
		ID:          in.ID,
		AdminID:     owner,
		Admins:      normalizePhones(in.Admins),
		Members:     normalizePhones(in.Members),
		Name:        in.Name,
		City:        in.City,
		InviteCode:  strings.ToUpper(strings.TrimSpace(in.InviteCode)),
		PaymentMode: group.PaymentMode(strings.ToLower(strings.TrimSpace(in.PaymentMode))),
	}
	var err error
	if g.FixedAmount, err = parseAmount(in.FixedAmount); err != nil {
		return fmt.Errorf("fixedAmount: %w", err)
	}
	if g.MonthlyFee, err = parseAmount(in.MonthlyFee); err != nil {
		return fmt.Errorf("monthlyFee: %w", err)
	}
	g.Normalize()
	g.CreatedAt = s.now().UTC()
	g.UpdatedAt = g.CreatedAt
	if err := g.Validate(); err != nil {
		return err
	}

	if _, exists, err := s.repos.Groups.GetByID(ctx, g.ID); err != nil {
		return fmt.Errorf("get group: %w", err)
	} else if exists {
		report.Skipped++
	} else {
		if err := s.repos.Groups.Create(ctx, g); err != nil {
			return fmt.Errorf("create group: %w", err)
		}
		report.Groups++
	}

	for _, f := range in.Fields {
		created, err := s.seedField(ctx, g.ID, f)
		if err != nil {
			return err
		}
		report.count(created, &report.Fields)
	}
	for _, p := range in.Players {
		created, err := s.seedPlayer(ctx, g, p)
		if err != nil {
			return err
		}
		report.count(created, &report.Players)
	}
	for _, m := range in.Matches {
		created, err := s.seedMatch(ctx, g.ID, m)
		if err != nil {
			return err
		}
		report.count(created, &report.Matches)
	}

	if len(in.Matches) == 0 || s.finance == nil {
		return nil
	}
	res, err := s.finance.Reconcile(ctx, g.AdminID, g.ID)
	if err != nil {
		return fmt.Errorf("reconcile ledger: %w", err)
	}
	s.logger.Info("seed ledger reconciled",
		"group_id", g.ID,
		"success_count", res.SuccessCount,
		"failed_count", res.FailedCount,
	)
	return nil
}

func (s *seeder) seedField(ctx context.Context, groupID string, in seedField) (bool, error) {
	if _, exists, err := s.repos.Fields.GetByID(ctx, in.ID); err != nil {
		return false, fmt.Errorf("get field %s: %w", in.ID, err)
	} else if exists {
		return false, nil
	}

	rate, err := parseAmount(in.HourlyRate)
	if err != nil {
		return false, fmt.Errorf("field %s hourlyRate: %w", in.ID, err)
	}
	now := s.now().UTC()
	f := field.Field{
		ID:           in.ID,
		GroupID:      groupID,
		Name:         in.Name,
		Location:     in.Location,
		HourlyRate:   rate,
		ContactName:  in.ContactName,
		ContactPhone: in.ContactPhone,
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := f.Validate(); err != nil {
		return false, fmt.Errorf("field %s: %w", in.ID, err)
	}
	if err := s.repos.Fields.Create(ctx, f); err != nil {
		return false, fmt.Errorf("create field %s: %w", in.ID, err)
	}
	return true, nil
}

func (s *seeder) seedPlayer(ctx context.Context, g group.Group, in seedPlayer) (bool, error) {
	if _, exists, err := s.repos.Players.GetByID(ctx, in.ID); err != nil {
		return false, fmt.Errorf("get player %s: %w", in.ID, err)
	} else if exists {
		return false, nil
	}

	position, err := player.ParsePosition(in.Position, player.PositionMidfielder)
	if err != nil {
		return false, fmt.Errorf("player %s: %w", in.ID, err)
	}
	userID := user.NormalizePhone(in.User)
	if userID != "" && !g.IsMember(userID) {
		return false, fmt.Errorf("player %s: user %s is not a member of the group", in.ID, userID)
	}

	now := s.now().UTC()
	p := player.Player{
		ID:                  in.ID,
		GroupID:             g.ID,
		UserID:              userID,
		Name:                in.Name,
		Nickname:            in.Nickname,
		Position:            position,
		Rating:              in.Rating,
		IsMonthlySubscriber: in.MonthlySubscriber,
		IsGuest:             in.Guest,
		MonthlyStartMonth:   in.MonthlyStartMonth,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if userID != "" {
		if u, exists, err := s.repos.Users.GetByID(ctx, userID); err != nil {
			return false, fmt.Errorf("get player user %s: %w", userID, err)
		} else if exists {
			p.Phone = u.Phone
			p.Email = u.Email
			if p.Nickname == "" {
				p.Nickname = u.Nickname
			}
		}
	}
	if err := p.Validate(); err != nil {
		return false, fmt.Errorf("player %s: %w", in.ID, err)
	}
	if err := s.repos.Players.Create(ctx, p); err != nil {
		return false, fmt.Errorf("create player %s: %w", in.ID, err)
	}
	return true, nil
}

func (s *seeder) seedMatch(ctx context.Context, groupID string, in seedMatch) (bool, error) {
	if _, exists, err := s.repos.Matches.GetByID(ctx, in.ID); err != nil {
		return false, fmt.Errorf("get match %s: %w", in.ID, err)
	} else if exists {
		return false, nil
	}

	now := s.now().UTC()
	m := match.Match{
		ID:                 in.ID,
		GroupID:            groupID,
		Date:               in.Date,
		Time:               in.Time,
		FieldID:            in.Field,
		ConfirmedPlayerIDs: in.Confirmed,
		PaidPlayerIDs:      in.Paid,
		Finished:           in.Finished,
		ScoreA:             in.ScoreA,
		ScoreB:             in.ScoreB,
		MVPID:              in.MVP,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := m.Validate(); err != nil {
		return false, fmt.Errorf("match %s: %w", in.ID, err)
	}
	if err := s.repos.Matches.Create(ctx, m); err != nil {
		return false, fmt.Errorf("create match %s: %w", in.ID, err)
	}
	return true, nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}

func normalizePhones(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if phone := user.NormalizePhone(item); phone != "" {
			out = append(out, phone)
		}
	}
	return out
}
