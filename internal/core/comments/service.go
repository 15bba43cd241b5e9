package comments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"HappyDog/internal/clock"
	"HappyDog/internal/core/notifications"
	"HappyDog/internal/core/users"
)

// mentionPattern matches @nickname tokens. Nicknames are word characters
// only, so punctuation directly after a mention terminates it.
var mentionPattern = regexp.MustCompile(`@(\w+)`)

type commentService struct {
	repo     Repository
	users    users.Repository
	notifier notifications.Notifier
	clock    clock.Clock
	logger   *slog.Logger
}

// NewService creates a comment service.
func NewService(repo Repository, userRepo users.Repository, notifier notifications.Notifier, clk clock.Clock, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &commentService{
		repo:     repo,
		users:    userRepo,
		notifier: notifier,
		clock:    clk,
		logger:   logger,
	}
}

func (s *commentService) Create(ctx context.Context, postID, userID string, req *CreateRequest) (*Comment, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, NewValidationError("text", "is required")
	}
	if len([]rune(req.Text)) > MaxTextLength {
		return nil, NewValidationError("text", fmt.Sprintf("must be at most %d characters", MaxTextLength))
	}

	author, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolving author: %w", err)
	}

	comment := &Comment{
		CommentID: clock.NewUUID(),
		PostID:    postID,
		Author:    author.Snapshot(),
		Text:      req.Text,
		CreatedAt: s.clock.Now(),
	}
	post, err := s.repo.CreateWithCount(ctx, comment)
	if err != nil {
		return nil, fmt.Errorf("creating comment: %w", err)
	}

	// Fan-out happens after the transaction committed. The post author
	// gets a COMMENT notification; each mentioned user gets a MENTION.
	summary := truncateSummary(req.Text, 100)
	s.notifier.Notify(ctx, post.AuthorID, userID, notifications.TypeComment, postID, &summary)
	s.fanOutMentions(ctx, req.Text, userID, postID, summary)

	s.logger.Info("comment created", "comment_id", comment.CommentID, "post_id", postID, "author", userID)
	return comment, nil
}

// fanOutMentions resolves @nickname tokens and notifies each mentioned
// user once. Only self-mentions are excluded; a mentioned post author
// gets the MENTION on top of the COMMENT notification. Unknown
// nicknames are skipped.
func (s *commentService) fanOutMentions(ctx context.Context, text, commenterID, postID, summary string) {
	seen := make(map[string]struct{})
	for _, match := range mentionPattern.FindAllStringSubmatch(text, -1) {
		nickname := match[1]
		if _, dup := seen[nickname]; dup {
			continue
		}
		seen[nickname] = struct{}{}

		mentioned, err := s.users.GetByNickname(ctx, nickname)
		if err != nil {
			if !errors.Is(err, users.ErrNotFound) {
				s.logger.Warn("mention lookup failed", "nickname", nickname, "error", err)
			}
			continue
		}
		if mentioned.UserID == commenterID {
			continue
		}
		s.notifier.Notify(ctx, mentioned.UserID, commenterID, notifications.TypeMention, postID, &summary)
	}
}

func (s *commentService) Delete(ctx context.Context, commentID, callerID string) error {
	if err := s.repo.DeleteWithCount(ctx, commentID, callerID); err != nil {
		return err
	}
	s.logger.Info("comment deleted", "comment_id", commentID, "caller", callerID)
	return nil
}

func (s *commentService) ListByPost(ctx context.Context, postID string, limit int, cursor string) ([]*Comment, string, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.repo.ListByPost(ctx, postID, limit, cursor)
}

func truncateSummary(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}
