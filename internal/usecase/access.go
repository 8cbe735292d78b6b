package usecase

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/riskibarqy/futgol/internal/domain/group"
)

const inviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const inviteCodeLength = 8

func loadGroup(ctx context.Context, repo group.Repository, groupID string) (group.Group, error) {
	groupID = strings.TrimSpace(groupID)
	if groupID == "" {
		return group.Group{}, fmt.Errorf("%w: group id is required", ErrInvalidInput)
	}

	g, exists, err := repo.GetByID(ctx, groupID)
	if err != nil {
		return group.Group{}, fmt.Errorf("get group by id: %w", err)
	}
	if !exists {
		return group.Group{}, fmt.Errorf("%w: group not found", ErrNotFound)
	}
	return g, nil
}

func requireActor(actorID string) (string, error) {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return "", fmt.Errorf("%w: user id is required", ErrUnauthorized)
	}
	return actorID, nil
}

func requireMember(g group.Group, actorID string) error {
	if !g.IsMember(actorID) {
		return fmt.Errorf("%w: you are not a member of this group", ErrForbidden)
	}
	return nil
}

func requireAdmin(g group.Group, actorID string) error {
	if !g.IsAdmin(actorID) {
		return fmt.Errorf("%w: only group admins can do this", ErrForbidden)
	}
	return nil
}

func generateInviteCode(length int) (string, error) {
	if length < 6 {
		length = 6
	}

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes for invite code: %w", err)
	}

	out := make([]byte, length)
	for i, b := range buf {
		out[i] = inviteCodeAlphabet[int(b)%len(inviteCodeAlphabet)]
	}
	return string(out), nil
}
