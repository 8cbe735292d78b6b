package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/futgol/internal/domain/comment"
	"github.com/riskibarqy/futgol/internal/domain/group"
	"github.com/riskibarqy/futgol/internal/domain/match"
	"github.com/riskibarqy/futgol/internal/domain/player"
	idgen "github.com/riskibarqy/futgol/internal/platform/id"
	"github.com/riskibarqy/futgol/internal/platform/logging"
)

type CreateCommentInput struct {
	ActorID  string
	MatchID  string
	ParentID string
	Content  string
}

type UpdateCommentInput struct {
	ActorID   string
	CommentID string
	Content   string
}

type CommentService struct {
	groups   group.Repository
	players  player.Repository
	matches  match.Repository
	comments comment.Repository
	idGen    idgen.Generator
	logger   *logging.Logger
	now      func() time.Time
}

func NewCommentService(
	groups group.Repository,
	players player.Repository,
	matches match.Repository,
	comments comment.Repository,
	idGen idgen.Generator,
	logger *logging.Logger,
) *CommentService {
	if logger == nil {
		logger = logging.Default()
	}
	return &CommentService{
		groups:   groups,
		players:  players,
		matches:  matches,
		comments: comments,
		idGen:    idGen,
		logger:   logger,
		now:      time.Now,
	}
}

// ListByMatch returns top-level comments oldest first with their replies.
func (s *CommentService) ListByMatch(ctx context.Context, actorID, matchID string) ([]comment.Thread, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CommentService.ListByMatch")
	defer span.End()

	actorID, err := requireActor(actorID)
	if err != nil {
		return nil, err
	}
	m, g, err := s.loadMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if err := requireMember(g, actorID); err != nil {
		return nil, err
	}

	items, err := s.comments.ListByMatch(ctx, m.ID)
	if err != nil {
		return nil, fmt.Errorf("list comments by match: %w", err)
	}
	return comment.BuildThreads(items), nil
}

func (s *CommentService) Create(ctx context.Context, input CreateCommentInput) (comment.Comment, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CommentService.Create")
	defer span.End()

	actorID, err := requireActor(input.ActorID)
	if err != nil {
		return comment.Comment{}, err
	}
	m, g, err := s.loadMatch(ctx, input.MatchID)
	if err != nil {
		return comment.Comment{}, err
	}
	if err := requireMember(g, actorID); err != nil {
		return comment.Comment{}, err
	}
	author, exists, err := s.players.GetByGroupAndUser(ctx, g.ID, actorID)
	if err != nil {
		return comment.Comment{}, fmt.Errorf("get author player: %w", err)
	}
	if !exists {
		return comment.Comment{}, fmt.Errorf("%w: you have no player in this group", ErrForbidden)
	}

	parentID := strings.TrimSpace(input.ParentID)
	if parentID != "" {
		parent, exists, err := s.comments.GetByID(ctx, parentID)
		if err != nil {
			return comment.Comment{}, fmt.Errorf("get parent comment: %w", err)
		}
		if !exists || parent.MatchID != m.ID {
			return comment.Comment{}, fmt.Errorf("%w: parent comment not found on this match", ErrNotFound)
		}
		if parent.IsReply() {
			return comment.Comment{}, fmt.Errorf("%w: replies cannot be nested", ErrInvalidInput)
		}
	}

	commentID, err := s.idGen.NewID()
	if err != nil {
		return comment.Comment{}, fmt.Errorf("generate comment id: %w", err)
	}
	now := s.now().UTC()
	c := comment.Comment{
		ID:             commentID,
		GroupID:        g.ID,
		MatchID:        m.ID,
		ParentID:       parentID,
		AuthorPlayerID: author.ID,
		Content:        strings.TrimSpace(input.Content),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := c.Validate(); err != nil {
		return comment.Comment{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return comment.Comment{}, fmt.Errorf("create comment: %w", err)
	}
	return c, nil
}

func (s *CommentService) Update(ctx context.Context, input UpdateCommentInput) (comment.Comment, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CommentService.Update")
	defer span.End()

	c, err := s.loadEditable(ctx, input.ActorID, input.CommentID)
	if err != nil {
		return comment.Comment{}, err
	}

	c.Content = strings.TrimSpace(input.Content)
	c.UpdatedAt = s.now().UTC()
	if err := c.Validate(); err != nil {
		return comment.Comment{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.comments.Update(ctx, c); err != nil {
		return comment.Comment{}, fmt.Errorf("update comment: %w", err)
	}
	return c, nil
}

// Delete removes a comment; deleting a top-level comment removes its replies.
func (s *CommentService) Delete(ctx context.Context, actorID, commentID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.CommentService.Delete")
	defer span.End()

	c, err := s.loadEditable(ctx, actorID, commentID)
	if err != nil {
		return err
	}
	if err := s.comments.DeleteThread(ctx, c.ID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

// loadEditable allows the author or a group admin.
func (s *CommentService) loadEditable(ctx context.Context, actorID, commentID string) (comment.Comment, error) {
	actorID, err := requireActor(actorID)
	if err != nil {
		return comment.Comment{}, err
	}
	commentID = strings.TrimSpace(commentID)
	if commentID == "" {
		return comment.Comment{}, fmt.Errorf("%w: comment id is required", ErrInvalidInput)
	}
	c, exists, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return comment.Comment{}, fmt.Errorf("get comment by id: %w", err)
	}
	if !exists {
		return comment.Comment{}, fmt.Errorf("%w: comment not found", ErrNotFound)
	}
	g, err := loadGroup(ctx, s.groups, c.GroupID)
	if err != nil {
		return comment.Comment{}, err
	}
	if g.IsAdmin(actorID) {
		return c, nil
	}

	author, exists, err := s.players.GetByID(ctx, c.AuthorPlayerID)
	if err != nil {
		return comment.Comment{}, fmt.Errorf("get comment author: %w", err)
	}
	if !exists || author.UserID != actorID {
		return comment.Comment{}, fmt.Errorf("%w: only the author or an admin can change this comment", ErrForbidden)
	}
	return c, nil
}

func (s *CommentService) loadMatch(ctx context.Context, matchID string) (match.Match, group.Group, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, group.Group{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	m, exists, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, group.Group{}, fmt.Errorf("get match by id: %w", err)
	}
	if !exists {
		return match.Match{}, group.Group{}, fmt.Errorf("%w: match not found", ErrNotFound)
	}
	g, err := loadGroup(ctx, s.groups, m.GroupID)
	if err != nil {
		return match.Match{}, group.Group{}, err
	}
	return m, g, nil
}
