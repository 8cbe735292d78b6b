package group

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMode decides how per-match dues are computed.
type PaymentMode string

const (
	// PaymentModeFixed charges every player the group's fixed amount.
	PaymentModeFixed PaymentMode = "fixed"
	// PaymentModeSplit divides the field's hourly rate among confirmed players.
	PaymentModeSplit PaymentMode = "split"
)

func (m PaymentMode) Valid() bool {
	return m == PaymentModeFixed || m == PaymentModeSplit
}

const DefaultSport = "Futebol"

// Group is the tenant: every player, field, match and transaction belongs to one.
type Group struct {
	ID              string
	AdminID         string
	Admins          []string
	Members         []string
	PendingRequests []string
	Name            string
	Sport           string
	City            string
	LogoURL         string
	InviteCode      string
	PaymentMode     PaymentMode
	FixedAmount     decimal.Decimal
	MonthlyFee      decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Normalize restores the membership invariants: the owner is an admin, every
// admin is a member, lists hold no duplicates and nobody is both pending and
// a member.
func (g *Group) Normalize() {
	g.AdminID = strings.TrimSpace(g.AdminID)

	g.Admins = uniqueIDs(g.Admins)
	if g.AdminID != "" && !slices.Contains(g.Admins, g.AdminID) {
		g.Admins = append([]string{g.AdminID}, g.Admins...)
	}

	g.Members = uniqueIDs(g.Members)
	for _, admin := range g.Admins {
		if !slices.Contains(g.Members, admin) {
			g.Members = append(g.Members, admin)
		}
	}

	pending := uniqueIDs(g.PendingRequests)
	g.PendingRequests = slices.DeleteFunc(pending, func(id string) bool {
		return slices.Contains(g.Members, id)
	})

	if g.PaymentMode == "" {
		g.PaymentMode = PaymentModeFixed
	}
	if strings.TrimSpace(g.Sport) == "" {
		g.Sport = DefaultSport
	}
}

func (g Group) Validate() error {
	if g.ID == "" {
		return fmt.Errorf("group id is required")
	}
	if strings.TrimSpace(g.Name) == "" {
		return fmt.Errorf("group name is required")
	}
	if g.AdminID == "" {
		return fmt.Errorf("group admin id is required")
	}
	if !slices.Contains(g.Admins, g.AdminID) {
		return fmt.Errorf("group owner must be an admin")
	}
	if !slices.Contains(g.Members, g.AdminID) {
		return fmt.Errorf("group owner must be a member")
	}
	if !g.PaymentMode.Valid() {
		return fmt.Errorf("invalid payment mode: %s", g.PaymentMode)
	}
	if g.FixedAmount.IsNegative() {
		return fmt.Errorf("fixed amount must not be negative")
	}
	if g.MonthlyFee.IsNegative() {
		return fmt.Errorf("monthly fee must not be negative")
	}

	return nil
}

func (g Group) IsOwner(userID string) bool {
	return userID != "" && g.AdminID == userID
}

func (g Group) IsAdmin(userID string) bool {
	return userID != "" && (g.AdminID == userID || slices.Contains(g.Admins, userID))
}

func (g Group) IsMember(userID string) bool {
	return userID != "" && (g.IsAdmin(userID) || slices.Contains(g.Members, userID))
}

func (g Group) IsPending(userID string) bool {
	return userID != "" && slices.Contains(g.PendingRequests, userID)
}

// MonthlyUnitFee is what one subscriber pays per month. Groups without an
// explicit monthly fee fall back to the fixed per-match amount.
func (g Group) MonthlyUnitFee() decimal.Decimal {
	if g.MonthlyFee.IsPositive() {
		return g.MonthlyFee
	}
	return g.FixedAmount
}

// Summary is the public directory view of a group.
type Summary struct {
	ID          string
	Name        string
	Sport       string
	City        string
	LogoURL     string
	MemberCount int
}

func (g Group) Summary() Summary {
	return Summary{
		ID:          g.ID,
		Name:        g.Name,
		Sport:       g.Sport,
		City:        g.City,
		LogoURL:     g.LogoURL,
		MemberCount: len(g.Members),
	}
}

// RemoveID returns ids without id, preserving order.
func RemoveID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func uniqueIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, raw := range ids {
		id := strings.TrimSpace(raw)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
