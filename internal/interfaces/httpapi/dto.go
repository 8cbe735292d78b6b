package httpapi

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/futgol/internal/domain/comment"
	"github.com/riskibarqy/futgol/internal/domain/field"
	"github.com/riskibarqy/futgol/internal/domain/finance"
	"github.com/riskibarqy/futgol/internal/domain/group"
	"github.com/riskibarqy/futgol/internal/domain/player"
	"github.com/riskibarqy/futgol/internal/domain/user"
	"github.com/riskibarqy/futgol/internal/usecase"
)

type registerRequest struct {
	Name         string `json:"name" validate:"required,max=120"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=6"`
	Phone        string `json:"phone" validate:"required"`
	Nickname     string `json:"nickname" validate:"omitempty,max=60"`
	BirthDate    string `json:"birthDate"`
	FavoriteTeam string `json:"favoriteTeam"`
	Position     string `json:"position"`
}

type loginRequest struct {
	Identifier       string `json:"identifier" validate:"required"`
	Password         string `json:"password" validate:"required"`
	AccessTTLMinutes int    `json:"accessTtlMinutes" validate:"omitempty,min=5,max=1440"`
}

type updateProfileRequest struct {
	Name         string `json:"name" validate:"omitempty,max=120"`
	Nickname     string `json:"nickname" validate:"omitempty,max=60"`
	Email        string `json:"email" validate:"omitempty,email"`
	AvatarURL    string `json:"avatar" validate:"omitempty,url"`
	BirthDate    string `json:"birthDate"`
	FavoriteTeam string `json:"favoriteTeam"`
	Position     string `json:"position"`
}

type groupRequest struct {
	Name        string           `json:"name" validate:"omitempty,max=120"`
	Sport       string           `json:"sport" validate:"omitempty,max=60"`
	City        string           `json:"city" validate:"omitempty,max=120"`
	LogoURL     string           `json:"logo" validate:"omitempty,url"`
	PaymentMode string           `json:"paymentMode" validate:"omitempty,oneof=fixed split"`
	FixedAmount *decimal.Decimal `json:"fixedAmount"`
	MonthlyFee  *decimal.Decimal `json:"monthlyFee"`
}

type memberActionRequest struct {
	UserID string `json:"userId" validate:"required"`
}

type joinWithInviteRequest struct {
	Token      string `json:"token" validate:"required_without=InviteCode"`
	InviteCode string `json:"inviteCode" validate:"required_without=Token"`
}

type playerRequest struct {
	GroupID             string   `json:"groupId"`
	UserID              string   `json:"userId"`
	Name                string   `json:"name" validate:"omitempty,max=120"`
	Nickname            string   `json:"nickname" validate:"omitempty,max=60"`
	Position            string   `json:"position"`
	Rating              *float64 `json:"rating" validate:"omitempty,min=1,max=5"`
	IsMonthlySubscriber *bool    `json:"isMonthlySubscriber"`
	IsGuest             *bool    `json:"isGuest"`
	MonthlyStartMonth   *string  `json:"monthlyStartMonth"`
	Phone               string   `json:"phone"`
	Email               string   `json:"email" validate:"omitempty,email"`
	AvatarURL           string   `json:"avatar" validate:"omitempty,url"`
	BirthDate           string   `json:"birthDate"`
	FavoriteTeam        string   `json:"favoriteTeam"`
}

type fieldRequest struct {
	GroupID      string           `json:"groupId"`
	Name         string           `json:"name" validate:"omitempty,max=120"`
	Location     string           `json:"location"`
	HourlyRate   *decimal.Decimal `json:"hourlyRate"`
	ContactName  string           `json:"contactName"`
	ContactPhone string           `json:"contactPhone"`
	Latitude     *float64         `json:"latitude" validate:"omitempty,latitude"`
	Longitude    *float64         `json:"longitude" validate:"omitempty,longitude"`
}

type matchRequest struct {
	GroupID string `json:"groupId"`
	Date    string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Time    string `json:"time" validate:"omitempty,datetime=15:04"`
	FieldID string `json:"fieldId"`
}

type matchPlayerRequest struct {
	PlayerID string `json:"playerId" validate:"required"`
}

type finalizeMatchRequest struct {
	ScoreA int    `json:"scoreA" validate:"min=0"`
	ScoreB int    `json:"scoreB" validate:"min=0"`
	MVPID  string `json:"mvpId"`
}

type transactionRequest struct {
	GroupID         string           `json:"groupId"`
	Type            string           `json:"type" validate:"omitempty,oneof=INCOME EXPENSE"`
	Category        string           `json:"category"`
	Description     string           `json:"description" validate:"omitempty,max=240"`
	Amount          *decimal.Decimal `json:"amount"`
	Date            string           `json:"date" validate:"omitempty,datetime=2006-01-02"`
	RelatedPlayerID string           `json:"relatedPlayerId"`
	RelatedMatchID  string           `json:"relatedMatchId"`
}

type upsertMatchRevenueRequest struct {
	GroupID     string          `json:"groupId" validate:"required"`
	MatchID     string          `json:"matchId" validate:"required"`
	Total       decimal.Decimal `json:"total"`
	Description string          `json:"description"`
	Date        string          `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

type toggleMonthlyFeeRequest struct {
	GroupID  string `json:"groupId" validate:"required"`
	PlayerID string `json:"playerId" validate:"required"`
	Month    string `json:"month" validate:"required,datetime=2006-01"`
}

type commentRequest struct {
	MatchID  string `json:"matchId"`
	ParentID string `json:"parentId"`
	Content  string `json:"content" validate:"required,max=1000"`
}

type authDTO struct {
	User        userDTO   `json:"user"`
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type userDTO struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Nickname     string    `json:"nickname"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	AvatarURL    string    `json:"avatar"`
	BirthDate    string    `json:"birthDate,omitempty"`
	FavoriteTeam string    `json:"favoriteTeam,omitempty"`
	Position     string    `json:"position,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type phoneLookupDTO struct {
	Found   bool              `json:"found"`
	Source  string            `json:"source,omitempty"`
	Profile *userDTO          `json:"profile,omitempty"`
	Groups  []groupSummaryDTO `json:"groups"`
}

type groupDTO struct {
	ID              string          `json:"id"`
	AdminID         string          `json:"adminId"`
	Admins          []string        `json:"admins"`
	Members         []string        `json:"members"`
	PendingRequests []string        `json:"pendingRequests"`
	Name            string          `json:"name"`
	Sport           string          `json:"sport"`
	City            string          `json:"city"`
	LogoURL         string          `json:"logo,omitempty"`
	InviteCode      string          `json:"inviteCode,omitempty"`
	PaymentMode     string          `json:"paymentMode"`
	FixedAmount     decimal.Decimal `json:"fixedAmount"`
	MonthlyFee      decimal.Decimal `json:"monthlyFee"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

type groupSummaryDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Sport       string `json:"sport"`
	City        string `json:"city"`
	LogoURL     string `json:"logo,omitempty"`
	MemberCount int    `json:"memberCount"`
}

type inviteDTO struct {
	GroupID    string    `json:"groupId"`
	Token      string    `json:"token"`
	InviteCode string    `json:"inviteCode"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

type playerDTO struct {
	ID                  string    `json:"id"`
	GroupID             string    `json:"groupId"`
	UserID              string    `json:"userId,omitempty"`
	Name                string    `json:"name"`
	Nickname            string    `json:"nickname"`
	Position            string    `json:"position"`
	Rating              float64   `json:"rating"`
	IsMonthlySubscriber bool      `json:"isMonthlySubscriber"`
	IsGuest             bool      `json:"isGuest"`
	MonthlyStartMonth   string    `json:"monthlyStartMonth,omitempty"`
	MatchesPlayed       int       `json:"matchesPlayed"`
	Phone               string    `json:"phone,omitempty"`
	Email               string    `json:"email,omitempty"`
	AvatarURL           string    `json:"avatar,omitempty"`
	BirthDate           string    `json:"birthDate,omitempty"`
	FavoriteTeam        string    `json:"favoriteTeam,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
}

type fieldDTO struct {
	ID           string          `json:"id"`
	GroupID      string          `json:"groupId"`
	Name         string          `json:"name"`
	Location     string          `json:"location"`
	HourlyRate   decimal.Decimal `json:"hourlyRate"`
	ContactName  string          `json:"contactName,omitempty"`
	ContactPhone string          `json:"contactPhone,omitempty"`
	Latitude     *float64        `json:"latitude,omitempty"`
	Longitude    *float64        `json:"longitude,omitempty"`
}

type matchDTO struct {
	ID                 string          `json:"id"`
	GroupID            string          `json:"groupId"`
	Date               string          `json:"date"`
	Time               string          `json:"time"`
	FieldID            string          `json:"fieldId"`
	FieldName          string          `json:"fieldName,omitempty"`
	ConfirmedPlayerIDs []string        `json:"confirmedPlayerIds"`
	PaidPlayerIDs      []string        `json:"paidPlayerIds"`
	TeamA              []string        `json:"teamA"`
	TeamB              []string        `json:"teamB"`
	Finished           bool            `json:"finished"`
	ScoreA             int             `json:"scoreA"`
	ScoreB             int             `json:"scoreB"`
	MVPID              string          `json:"mvpId,omitempty"`
	CostPerPerson      decimal.Decimal `json:"costPerPerson"`
	TotalCollected     decimal.Decimal `json:"totalCollected"`
}

type teamsDTO struct {
	Match     matchDTO `json:"match"`
	Reasoning string   `json:"reasoning"`
}

type transactionDTO struct {
	ID              string          `json:"id"`
	GroupID         string          `json:"groupId"`
	Type            string          `json:"type"`
	Category        string          `json:"category"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	Date            string          `json:"date"`
	RelatedPlayerID string          `json:"relatedPlayerId,omitempty"`
	RelatedMatchID  string          `json:"relatedMatchId,omitempty"`
}

type upsertMatchRevenueDTO struct {
	Transaction *transactionDTO `json:"transaction,omitempty"`
	Deleted     bool            `json:"deleted"`
}

type summaryDTO struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

type monthlyFeeStatusDTO struct {
	Player playerDTO       `json:"player"`
	Month  string          `json:"month"`
	Paid   bool            `json:"paid"`
	Amount decimal.Decimal `json:"amount"`
	PaidAt *time.Time      `json:"paidAt,omitempty"`
}

type monthlyFeeToggleDTO struct {
	Status    monthlyFeeStatusDTO `json:"status"`
	PaidCount int                 `json:"paidCount"`
	Aggregate decimal.Decimal     `json:"aggregate"`
}

type reconcileMatchDTO struct {
	MatchID        string          `json:"matchId"`
	Date           string          `json:"date"`
	Finished       bool            `json:"finished"`
	Status         string          `json:"status"`
	Message        string          `json:"message,omitempty"`
	TotalCollected decimal.Decimal `json:"totalCollected"`
}

type reconcileDTO struct {
	GroupID      string              `json:"groupId"`
	Matches      []reconcileMatchDTO `json:"matches"`
	SuccessCount int                 `json:"successCount"`
	FailedCount  int                 `json:"failedCount"`
}

type commentDTO struct {
	ID             string    `json:"id"`
	GroupID        string    `json:"groupId"`
	MatchID        string    `json:"matchId"`
	ParentID       string    `json:"parentId,omitempty"`
	AuthorPlayerID string    `json:"authorPlayerId"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type commentThreadDTO struct {
	commentDTO
	Replies []commentDTO `json:"replies"`
}

type overviewDTO struct {
	Group    groupDTO    `json:"group"`
	Players  []playerDTO `json:"players"`
	Fields   []fieldDTO  `json:"fields"`
	Upcoming []matchDTO  `json:"upcoming"`
	Finished []matchDTO  `json:"finished"`
	Ledger   summaryDTO  `json:"ledger"`
}

type deletedDTO struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

func authToDTO(res usecase.AuthResult) authDTO {
	return authDTO{
		User:        userToDTO(res.User),
		AccessToken: res.Access.Token,
		ExpiresAt:   res.Access.ExpiresAt,
	}
}

func userToDTO(u user.User) userDTO {
	return userDTO{
		ID:           u.ID,
		Name:         u.Name,
		Nickname:     u.Nickname,
		Email:        u.Email,
		Phone:        u.Phone,
		AvatarURL:    u.AvatarURL,
		BirthDate:    u.BirthDate,
		FavoriteTeam: u.FavoriteTeam,
		Position:     u.Position,
		CreatedAt:    u.CreatedAt,
	}
}

func lookupToDTO(res usecase.PhoneLookup) phoneLookupDTO {
	out := phoneLookupDTO{
		Found:  res.Found,
		Source: res.Source,
		Groups: make([]groupSummaryDTO, 0, len(res.Groups)),
	}
	if res.Found {
		profile := userToDTO(res.Profile)
		out.Profile = &profile
	}
	for _, g := range res.Groups {
		out.Groups = append(out.Groups, groupSummaryToDTO(g))
	}
	return out
}

// groupToDTO hides the invite code from non-admins.
func groupToDTO(g group.Group, viewerID string) groupDTO {
	out := groupDTO{
		ID:              g.ID,
		AdminID:         g.AdminID,
		Admins:          nonNil(g.Admins),
		Members:         nonNil(g.Members),
		PendingRequests: nonNil(g.PendingRequests),
		Name:            g.Name,
		Sport:           g.Sport,
		City:            g.City,
		LogoURL:         g.LogoURL,
		PaymentMode:     string(g.PaymentMode),
		FixedAmount:     g.FixedAmount,
		MonthlyFee:      g.MonthlyFee,
		CreatedAt:       g.CreatedAt,
		UpdatedAt:       g.UpdatedAt,
	}
	if g.IsAdmin(viewerID) {
		out.InviteCode = g.InviteCode
	}
	return out
}

func groupSummaryToDTO(s group.Summary) groupSummaryDTO {
	return groupSummaryDTO{
		ID:          s.ID,
		Name:        s.Name,
		Sport:       s.Sport,
		City:        s.City,
		LogoURL:     s.LogoURL,
		MemberCount: s.MemberCount,
	}
}

func playerToDTO(p player.Player) playerDTO {
	return playerDTO{
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
	}
}

func playersToDTO(items []player.Player) []playerDTO {
	out := make([]playerDTO, 0, len(items))
	for _, p := range items {
		out = append(out, playerToDTO(p))
	}
	return out
}

func fieldToDTO(f field.Field) fieldDTO {
	return fieldDTO{
		ID:           f.ID,
		GroupID:      f.GroupID,
		Name:         f.Name,
		Location:     f.Location,
		HourlyRate:   f.HourlyRate,
		ContactName:  f.ContactName,
		ContactPhone: f.ContactPhone,
		Latitude:     f.Latitude,
		Longitude:    f.Longitude,
	}
}

func fieldsToDTO(items []field.Field) []fieldDTO {
	out := make([]fieldDTO, 0, len(items))
	for _, f := range items {
		out = append(out, fieldToDTO(f))
	}
	return out
}

func matchToDTO(d usecase.MatchDetails) matchDTO {
	m := d.Match
	return matchDTO{
		ID:                 m.ID,
		GroupID:            m.GroupID,
		Date:               m.Date,
		Time:               m.Time,
		FieldID:            m.FieldID,
		FieldName:          d.FieldName,
		ConfirmedPlayerIDs: nonNil(m.ConfirmedPlayerIDs),
		PaidPlayerIDs:      nonNil(m.PaidPlayerIDs),
		TeamA:              nonNil(m.TeamA),
		TeamB:              nonNil(m.TeamB),
		Finished:           m.Finished,
		ScoreA:             m.ScoreA,
		ScoreB:             m.ScoreB,
		MVPID:              m.MVPID,
		CostPerPerson:      d.CostPerPerson,
		TotalCollected:     d.TotalCollected,
	}
}

func matchesToDTO(items []usecase.MatchDetails) []matchDTO {
	out := make([]matchDTO, 0, len(items))
	for _, d := range items {
		out = append(out, matchToDTO(d))
	}
	return out
}

func transactionToDTO(t finance.Transaction) transactionDTO {
	return transactionDTO{
		ID:              t.ID,
		GroupID:         t.GroupID,
		Type:            string(t.Type),
		Category:        string(t.Category),
		Description:     t.Description,
		Amount:          t.Amount,
		Date:            t.Date,
		RelatedPlayerID: t.RelatedPlayerID,
		RelatedMatchID:  t.RelatedMatchID,
	}
}

func summaryToDTO(s finance.Summary) summaryDTO {
	return summaryDTO{Income: s.Income, Expense: s.Expense, Balance: s.Balance}
}

func monthlyFeeStatusToDTO(s usecase.MonthlyFeeStatus) monthlyFeeStatusDTO {
	return monthlyFeeStatusDTO{
		Player: playerToDTO(s.Player),
		Month:  s.Month,
		Paid:   s.Paid,
		Amount: s.Amount,
		PaidAt: s.PaidAt,
	}
}

func reconcileToDTO(res usecase.ReconcileResult) reconcileDTO {
	out := reconcileDTO{
		GroupID:      res.GroupID,
		Matches:      make([]reconcileMatchDTO, 0, len(res.Matches)),
		SuccessCount: res.SuccessCount,
		FailedCount:  res.FailedCount,
	}
	for _, m := range res.Matches {
		out.Matches = append(out.Matches, reconcileMatchDTO{
			MatchID:        m.MatchID,
			Date:           m.Date,
			Finished:       m.Finished,
			Status:         m.Status,
			Message:        m.Message,
			TotalCollected: m.TotalCollected,
		})
	}
	return out
}

func commentToDTO(c comment.Comment) commentDTO {
	return commentDTO{
		ID:             c.ID,
		GroupID:        c.GroupID,
		MatchID:        c.MatchID,
		ParentID:       c.ParentID,
		AuthorPlayerID: c.AuthorPlayerID,
		Content:        c.Content,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func threadsToDTO(threads []comment.Thread) []commentThreadDTO {
	out := make([]commentThreadDTO, 0, len(threads))
	for _, th := range threads {
		replies := make([]commentDTO, 0, len(th.Replies))
		for _, r := range th.Replies {
			replies = append(replies, commentToDTO(r))
		}
		out = append(out, commentThreadDTO{commentDTO: commentToDTO(th.Comment), Replies: replies})
	}
	return out
}

func overviewToDTO(o usecase.GroupOverview, viewerID string) overviewDTO {
	return overviewDTO{
		Group:    groupToDTO(o.Group, viewerID),
		Players:  playersToDTO(o.Players),
		Fields:   fieldsToDTO(o.Fields),
		Upcoming: matchesToDTO(o.Upcoming),
		Finished: matchesToDTO(o.Finished),
		Ledger:   summaryToDTO(o.Ledger),
	}
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
