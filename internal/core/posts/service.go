package posts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"HappyDog/internal/clock"
	"HappyDog/internal/core/likes"
	"HappyDog/internal/core/pets"
	"HappyDog/internal/core/users"
)

type postService struct {
	repo   Repository
	users  users.Repository
	pets   pets.Repository
	media  MediaStore
	liked  LikeChecker
	clock  clock.Clock
	logger *slog.Logger
}

// NewService creates a post service.
func NewService(repo Repository, userRepo users.Repository, petRepo pets.Repository, media MediaStore, liked LikeChecker, clk clock.Clock, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &postService{
		repo:   repo,
		users:  userRepo,
		pets:   petRepo,
		media:  media,
		liked:  liked,
		clock:  clk,
		logger: logger,
	}
}

func (s *postService) Create(ctx context.Context, userID string, req *CreateRequest) (*Post, error) {
	if err := validateText(req.Text); err != nil {
		return nil, err
	}
	if len(req.FileIDs) == 0 {
		return nil, NewValidationError("file_ids", "at least one image is required")
	}

	author, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolving author: %w", err)
	}
	pet, err := s.pets.FirstByOwner(ctx, userID)
	if err != nil {
		if errors.Is(err, pets.ErrNotFound) {
			return nil, ErrNoPet
		}
		return nil, fmt.Errorf("resolving pet: %w", err)
	}

	// Promote every staged upload before touching the database. A failed
	// promotion aborts the whole post; already-promoted files stay public
	// and are harmless.
	urls := make([]string, 0, len(req.FileIDs))
	for _, fileID := range req.FileIDs {
		url, err := s.media.MakePublic(ctx, fileID)
		if err != nil {
			return nil, fmt.Errorf("promoting upload %s: %w", fileID, err)
		}
		urls = append(urls, url)
	}

	now := s.clock.Now()
	post := &Post{
		PostID: clock.NewUUID(),
		Author: author.Snapshot(),
		Pet: PetInfo{
			PetID: pet.PetID,
			Name:  pet.Name,
			Breed: pet.Breed,
		},
		Text:      req.Text,
		ImageURLs: urls,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}

	s.logger.Info("post created", "post_id", post.PostID, "author", userID, "images", len(urls))
	return post, nil
}

func (s *postService) CreateFromGenerated(ctx context.Context, userID, text string, imageURLs []string) (*Post, error) {
	if len(imageURLs) == 0 {
		return nil, NewValidationError("image_urls", "at least one image is required")
	}

	author, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolving author: %w", err)
	}
	pet, err := s.pets.FirstByOwner(ctx, userID)
	if err != nil {
		if errors.Is(err, pets.ErrNotFound) {
			return nil, ErrNoPet
		}
		return nil, fmt.Errorf("resolving pet: %w", err)
	}

	now := s.clock.Now()
	post := &Post{
		PostID: clock.NewUUID(),
		Author: author.Snapshot(),
		Pet: PetInfo{
			PetID: pet.PetID,
			Name:  pet.Name,
			Breed: pet.Breed,
		},
		Text:      text,
		ImageURLs: imageURLs,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("creating generated post: %w", err)
	}
	return post, nil
}

func (s *postService) Get(ctx context.Context, postID, viewerID string) (*FeedPost, error) {
	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if viewerID == "" {
		return &FeedPost{Post: post}, nil
	}
	likedMap, err := s.liked.LikedSubjects(ctx, likes.SubjectPost, viewerID, []string{postID})
	if err != nil {
		return nil, fmt.Errorf("checking like state: %w", err)
	}
	return &FeedPost{Post: post, IsLiked: likedMap[postID]}, nil
}

func (s *postService) Feed(ctx context.Context, viewerID string, limit int, cursor string) ([]*FeedPost, string, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	page, next, err := s.repo.List(ctx, limit, cursor)
	if err != nil {
		return nil, "", fmt.Errorf("listing feed: %w", err)
	}
	if len(page) == 0 {
		return []*FeedPost{}, next, nil
	}

	// Anonymous viewers read uniform is_liked=false; no lookups needed.
	if viewerID == "" {
		feed := make([]*FeedPost, len(page))
		for i, p := range page {
			feed[i] = &FeedPost{Post: p}
		}
		return feed, next, nil
	}

	ids := make([]string, len(page))
	for i, p := range page {
		ids[i] = p.PostID
	}
	likedMap, err := s.liked.LikedSubjects(ctx, likes.SubjectPost, viewerID, ids)
	if err != nil {
		return nil, "", fmt.Errorf("checking like state: %w", err)
	}

	feed := make([]*FeedPost, len(page))
	for i, p := range page {
		feed[i] = &FeedPost{Post: p, IsLiked: likedMap[p.PostID]}
	}
	return feed, next, nil
}

func (s *postService) UpdateText(ctx context.Context, postID, callerID, text string) (*Post, error) {
	if err := validateText(text); err != nil {
		return nil, err
	}
	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.Author.UserID != callerID {
		return nil, ErrNotAuthor
	}
	return s.repo.UpdateText(ctx, postID, text, s.clock.Now())
}

func (s *postService) Delete(ctx context.Context, postID, callerID string) error {
	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.Author.UserID != callerID {
		return ErrNotAuthor
	}
	if err := s.repo.Delete(ctx, postID); err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}

	// Image cleanup is best effort. The post is already gone; an orphaned
	// blob is preferable to a failed delete. Externally hosted images
	// (generated cartoons) have no key in our store and are left alone.
	for _, url := range post.ImageURLs {
		key, ok := s.media.KeyFromURL(url)
		if !ok {
			continue
		}
		if err := s.media.Delete(ctx, key); err != nil {
			s.logger.Warn("post image cleanup failed", "post_id", postID, "key", key, "error", err)
		}
	}

	s.logger.Info("post deleted", "post_id", postID, "author", callerID)
	return nil
}

func validateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return NewValidationError("text", "is required")
	}
	if len([]rune(text)) > MaxTextLength {
		return NewValidationError("text", fmt.Sprintf("must be at most %d characters", MaxTextLength))
	}
	return nil
}
