package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/futgol/internal/domain/user"
)

type AccessToken struct {
	Token     string
	ExpiresAt time.Time
}

type InviteToken struct {
	Token     string
	GroupID   string
	ExpiresAt time.Time
}

// TokenIssuer signs and verifies access and group invite tokens.
type TokenIssuer interface {
	IssueAccessToken(ctx context.Context, principal user.Principal, ttl time.Duration) (AccessToken, error)
	VerifyAccessToken(ctx context.Context, token string) (user.Principal, error)
	IssueInviteToken(ctx context.Context, groupID, invitedBy string) (InviteToken, error)
	ParseInviteToken(ctx context.Context, token string) (string, error)
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) error
}
