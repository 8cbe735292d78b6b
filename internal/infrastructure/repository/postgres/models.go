package postgres

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/riskibarqy/futgol/internal/domain/comment"
	"github.com/riskibarqy/futgol/internal/domain/field"
	"github.com/riskibarqy/futgol/internal/domain/finance"
	"github.com/riskibarqy/futgol/internal/domain/group"
	"github.com/riskibarqy/futgol/internal/domain/match"
	"github.com/riskibarqy/futgol/internal/domain/player"
	"github.com/riskibarqy/futgol/internal/domain/user"
)

type userTableModel struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Nickname     string    `db:"nickname"`
	Email        string    `db:"email"`
	Phone        string    `db:"phone"`
	AvatarURL    string    `db:"avatar_url"`
	BirthDate    string    `db:"birth_date"`
	FavoriteTeam string    `db:"favorite_team"`
	Position     string    `db:"position"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func userToRow(u user.User) userTableModel {
	return userTableModel{
		ID:           u.ID,
		Name:         u.Name,
		Nickname:     u.Nickname,
		Email:        u.Email,
		Phone:        u.Phone,
		AvatarURL:    u.AvatarURL,
		BirthDate:    u.BirthDate,
		FavoriteTeam: u.FavoriteTeam,
		Position:     u.Position,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func userFromRow(row userTableModel) user.User {
	return user.User(row)
}

type groupTableModel struct {
	ID              string          `db:"id"`
	AdminID         string          `db:"admin_id"`
	Admins          pq.StringArray  `db:"admins"`
	Members         pq.StringArray  `db:"members"`
	PendingRequests pq.StringArray  `db:"pending_requests"`
	Name            string          `db:"name"`
	Sport           string          `db:"sport"`
	City            string          `db:"city"`
	LogoURL         string          `db:"logo_url"`
	InviteCode      string          `db:"invite_code"`
	PaymentMode     string          `db:"payment_mode"`
	FixedAmount     decimal.Decimal `db:"fixed_amount"`
	MonthlyFee      decimal.Decimal `db:"monthly_fee"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

func groupToRow(g group.Group) groupTableModel {
	return groupTableModel{
		ID:              g.ID,
		AdminID:         g.AdminID,
		Admins:          copyStrings(g.Admins),
		Members:         copyStrings(g.Members),
		PendingRequests: copyStrings(g.PendingRequests),
		Name:            g.Name,
		Sport:           g.Sport,
		City:            g.City,
		LogoURL:         g.LogoURL,
		InviteCode:      g.InviteCode,
		PaymentMode:     string(g.PaymentMode),
		FixedAmount:     g.FixedAmount,
		MonthlyFee:      g.MonthlyFee,
		CreatedAt:       g.CreatedAt,
		UpdatedAt:       g.UpdatedAt,
	}
}

func groupFromRow(row groupTableModel) group.Group {
	return group.Group{
		ID:              row.ID,
		AdminID:         row.AdminID,
		Admins:          copyStrings(row.Admins),
		Members:         copyStrings(row.Members),
		PendingRequests: copyStrings(row.PendingRequests),
		Name:            row.Name,
		Sport:           row.Sport,
		City:            row.City,
		LogoURL:         row.LogoURL,
		InviteCode:      row.InviteCode,
		PaymentMode:     group.PaymentMode(row.PaymentMode),
		FixedAmount:     row.FixedAmount,
		MonthlyFee:      row.MonthlyFee,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

type playerTableModel struct {
	ID                  string    `db:"id"`
	GroupID             string    `db:"group_id"`
	UserID              string    `db:"user_id"`
	Name                string    `db:"name"`
	Nickname            string    `db:"nickname"`
	Position            string    `db:"position"`
	Rating              float64   `db:"rating"`
	IsMonthlySubscriber bool      `db:"is_monthly_subscriber"`
	IsGuest             bool      `db:"is_guest"`
	MonthlyStartMonth   string    `db:"monthly_start_month"`
	MatchesPlayed       int       `db:"matches_played"`
	Phone               string    `db:"phone"`
	Email               string    `db:"email"`
	AvatarURL           string    `db:"avatar_url"`
	BirthDate           string    `db:"birth_date"`
	FavoriteTeam        string    `db:"favorite_team"`
	CreatedAt           time.Time `db:"created_at"`
	UpdatedAt           time.Time `db:"updated_at"`
}

func playerToRow(p player.Player) playerTableModel {
	return playerTableModel{
		ID:                  p.ID,
		GroupID:             p.GroupID,
		UserID:              p.UserID,
		Name:                p.Name,
		Nickname:            p.Nickname,
		Position:            string(p.Position),
		Rating:              p.Rating,
		IsMonthlySubscriber: p.IsMonthlySubscriber,
		IsGuest:             p.IsGuest,
		MonthlyStartMonth:   p.MonthlyStartMonth,
		MatchesPlayed:       p.MatchesPlayed,
		Phone:               p.Phone,
		Email:               p.Email,
		AvatarURL:           p.AvatarURL,
		BirthDate:           p.BirthDate,
		FavoriteTeam:        p.FavoriteTeam,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

func playerFromRow(row playerTableModel) player.Player {
	return player.Player{
		ID:                  row.ID,
		GroupID:             row.GroupID,
		UserID:              row.UserID,
		Name:                row.Name,
		Nickname:            row.Nickname,
		Position:            player.Position(row.Position),
		Rating:              row.Rating,
		IsMonthlySubscriber: row.IsMonthlySubscriber,
		IsGuest:             row.IsGuest,
		MonthlyStartMonth:   row.MonthlyStartMonth,
		MatchesPlayed:       row.MatchesPlayed,
		Phone:               row.Phone,
		Email:               row.Email,
		AvatarURL:           row.AvatarURL,
		BirthDate:           row.BirthDate,
		FavoriteTeam:        row.FavoriteTeam,
		CreatedAt:           row.CreatedAt,
		UpdatedAt:           row.UpdatedAt,
	}
}

type fieldTableModel struct {
	ID           string          `db:"id"`
	GroupID      string          `db:"group_id"`
	Name         string          `db:"name"`
	Location     string          `db:"location"`
	HourlyRate   decimal.Decimal `db:"hourly_rate"`
	ContactName  string          `db:"contact_name"`
	ContactPhone string          `db:"contact_phone"`
	Latitude     *float64        `db:"latitude"`
	Longitude    *float64        `db:"longitude"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

func fieldToRow(f field.Field) fieldTableModel {
	return fieldTableModel(f)
}

func fieldFromRow(row fieldTableModel) field.Field {
	return field.Field(row)
}

type matchTableModel struct {
	ID                 string         `db:"id"`
	GroupID            string         `db:"group_id"`
	Date               string         `db:"match_date"`
	Time               string         `db:"match_time"`
	FieldID            string         `db:"field_id"`
	ConfirmedPlayerIDs pq.StringArray `db:"confirmed_player_ids"`
	PaidPlayerIDs      pq.StringArray `db:"paid_player_ids"`
	TeamA              pq.StringArray `db:"team_a"`
	TeamB              pq.StringArray `db:"team_b"`
	Finished           bool           `db:"finished"`
	ScoreA             int            `db:"score_a"`
	ScoreB             int            `db:"score_b"`
	MVPID              string         `db:"mvp_id"`
	CreatedAt          time.Time      `db:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at"`
}

func matchToRow(m match.Match) matchTableModel {
	return matchTableModel{
		ID:                 m.ID,
		GroupID:            m.GroupID,
		Date:               m.Date,
		Time:               m.Time,
		FieldID:            m.FieldID,
		ConfirmedPlayerIDs: copyStrings(m.ConfirmedPlayerIDs),
		PaidPlayerIDs:      copyStrings(m.PaidPlayerIDs),
		TeamA:              copyStrings(m.TeamA),
		TeamB:              copyStrings(m.TeamB),
		Finished:           m.Finished,
		ScoreA:             m.ScoreA,
		ScoreB:             m.ScoreB,
		MVPID:              m.MVPID,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func matchFromRow(row matchTableModel) match.Match {
	return match.Match{
		ID:                 row.ID,
		GroupID:            row.GroupID,
		Date:               row.Date,
		Time:               row.Time,
		FieldID:            row.FieldID,
		ConfirmedPlayerIDs: copyStrings(row.ConfirmedPlayerIDs),
		PaidPlayerIDs:      copyStrings(row.PaidPlayerIDs),
		TeamA:              copyStrings(row.TeamA),
		TeamB:              copyStrings(row.TeamB),
		Finished:           row.Finished,
		ScoreA:             row.ScoreA,
		ScoreB:             row.ScoreB,
		MVPID:              row.MVPID,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
}

type transactionTableModel struct {
	ID              string          `db:"id"`
	GroupID         string          `db:"group_id"`
	Type            string          `db:"type"`
	Category        string          `db:"category"`
	Description     string          `db:"description"`
	Amount          decimal.Decimal `db:"amount"`
	Date            string          `db:"tx_date"`
	RelatedPlayerID string          `db:"related_player_id"`
	RelatedMatchID  string          `db:"related_match_id"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

func transactionToRow(t finance.Transaction) transactionTableModel {
	return transactionTableModel{
		ID:              t.ID,
		GroupID:         t.GroupID,
		Type:            string(t.Type),
		Category:        string(t.Category),
		Description:     t.Description,
		Amount:          t.Amount,
		Date:            t.Date,
		RelatedPlayerID: t.RelatedPlayerID,
		RelatedMatchID:  t.RelatedMatchID,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func transactionFromRow(row transactionTableModel) finance.Transaction {
	return finance.Transaction{
		ID:              row.ID,
		GroupID:         row.GroupID,
		Type:            finance.Type(row.Type),
		Category:        finance.Category(row.Category),
		Description:     row.Description,
		Amount:          row.Amount,
		Date:            row.Date,
		RelatedPlayerID: row.RelatedPlayerID,
		RelatedMatchID:  row.RelatedMatchID,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

type monthlyFeeTableModel struct {
	GroupID  string          `db:"group_id"`
	PlayerID string          `db:"player_id"`
	Month    string          `db:"month"`
	Amount   decimal.Decimal `db:"amount"`
	PaidAt   time.Time       `db:"paid_at"`
}

type commentTableModel struct {
	ID             string    `db:"id"`
	GroupID        string    `db:"group_id"`
	MatchID        string    `db:"match_id"`
	ParentID       string    `db:"parent_id"`
	AuthorPlayerID string    `db:"author_player_id"`
	Content        string    `db:"content"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func commentToRow(c comment.Comment) commentTableModel {
	return commentTableModel(c)
}

func commentFromRow(row commentTableModel) comment.Comment {
	return comment.Comment(row)
}

var (
	userColumns        = []string{"id", "name", "nickname", "email", "phone", "avatar_url", "birth_date", "favorite_team", "position", "password_hash", "created_at", "updated_at"}
	groupColumns       = []string{"id", "admin_id", "admins", "members", "pending_requests", "name", "sport", "city", "logo_url", "invite_code", "payment_mode", "fixed_amount", "monthly_fee", "created_at", "updated_at"}
	playerColumns      = []string{"id", "group_id", "user_id", "name", "nickname", "position", "rating", "is_monthly_subscriber", "is_guest", "monthly_start_month", "matches_played", "phone", "email", "avatar_url", "birth_date", "favorite_team", "created_at", "updated_at"}
	fieldColumns       = []string{"id", "group_id", "name", "location", "hourly_rate", "contact_name", "contact_phone", "latitude", "longitude", "created_at", "updated_at"}
	matchColumns       = []string{"id", "group_id", "match_date", "match_time", "field_id", "confirmed_player_ids", "paid_player_ids", "team_a", "team_b", "finished", "score_a", "score_b", "mvp_id", "created_at", "updated_at"}
	transactionColumns = []string{"id", "group_id", "type", "category", "description", "amount", "tx_date", "related_player_id", "related_match_id", "created_at", "updated_at"}
	monthlyFeeColumns  = []string{"group_id", "player_id", "month", "amount", "paid_at"}
	commentColumns     = []string{"id", "group_id", "match_id", "parent_id", "author_player_id", "content", "created_at", "updated_at"}
)
