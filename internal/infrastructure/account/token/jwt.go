package token

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/riskibarqy/futgol/internal/domain/user"
	"github.com/riskibarqy/futgol/internal/usecase"
)

const (
	issuer          = "futgol"
	audienceAccess  = "access"
	audienceInvite  = "group-invite"
	defaultTokenTTL = 24 * time.Hour
)

// Manager issues and verifies HS256 tokens for API access and group invites.
type Manager struct {
	secretKey []byte
	accessTTL time.Duration
	inviteTTL time.Duration
	now       func() time.Time
}

type accessClaims struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

type inviteClaims struct {
	GroupID   string `json:"group_id"`
	InvitedBy string `json:"invited_by"`
	jwt.RegisteredClaims
}

func NewManager(secretKey string, accessTTL, inviteTTL time.Duration) *Manager {
	if accessTTL <= 0 {
		accessTTL = defaultTokenTTL
	}
	if inviteTTL <= 0 {
		inviteTTL = 7 * defaultTokenTTL
	}
	return &Manager{
		secretKey: []byte(secretKey),
		accessTTL: accessTTL,
		inviteTTL: inviteTTL,
		now:       time.Now,
	}
}

func (m *Manager) IssueAccessToken(_ context.Context, principal user.Principal, ttl time.Duration) (usecase.AccessToken, error) {
	if strings.TrimSpace(principal.UserID) == "" {
		return usecase.AccessToken{}, fmt.Errorf("principal user id is required")
	}
	if ttl <= 0 {
		ttl = m.accessTTL
	}

	now := m.now()
	expiresAt := now.Add(ttl)
	claims := accessClaims{
		Name:  principal.Name,
		Email: principal.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   principal.UserID,
			Audience:  jwt.ClaimStrings{audienceAccess},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secretKey)
	if err != nil {
		return usecase.AccessToken{}, fmt.Errorf("sign access token: %w", err)
	}
	return usecase.AccessToken{Token: signed, ExpiresAt: expiresAt}, nil
}

func (m *Manager) VerifyAccessToken(_ context.Context, raw string) (user.Principal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	claims := &accessClaims{}
	if err := m.parse(raw, claims, audienceAccess); err != nil {
		return user.Principal{}, err
	}
	if claims.Subject == "" {
		return user.Principal{}, fmt.Errorf("%w: token subject is empty", usecase.ErrUnauthorized)
	}

	return user.Principal{
		UserID: claims.Subject,
		Name:   claims.Name,
		Email:  claims.Email,
	}, nil
}

func (m *Manager) IssueInviteToken(_ context.Context, groupID, invitedBy string) (usecase.InviteToken, error) {
	if strings.TrimSpace(groupID) == "" {
		return usecase.InviteToken{}, fmt.Errorf("group id is required")
	}

	now := m.now()
	expiresAt := now.Add(m.inviteTTL)
	claims := inviteClaims{
		GroupID:   groupID,
		InvitedBy: invitedBy,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   groupID,
			Audience:  jwt.ClaimStrings{audienceInvite},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secretKey)
	if err != nil {
		return usecase.InviteToken{}, fmt.Errorf("sign invite token: %w", err)
	}
	return usecase.InviteToken{Token: signed, GroupID: groupID, ExpiresAt: expiresAt}, nil
}

func (m *Manager) ParseInviteToken(_ context.Context, raw string) (string, error) {
	claims := &inviteClaims{}
	if err := m.parse(strings.TrimSpace(raw), claims, audienceInvite); err != nil {
		return "", fmt.Errorf("%w: invalid or expired invite", usecase.ErrInvalidInput)
	}
	if claims.GroupID == "" {
		return "", fmt.Errorf("%w: invite has no group", usecase.ErrInvalidInput)
	}
	return claims.GroupID, nil
}

func (m *Manager) parse(raw string, claims jwt.Claims, audience string) error {
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secretKey, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithTimeFunc(m.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", usecase.ErrUnauthorized, err)
	}
	return nil
}
