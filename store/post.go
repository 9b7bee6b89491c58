package store

import (
	"context"
	"time"
)

// PostStatus is the publication state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

func (s PostStatus) String() string {
	return string(s)
}

type Post struct {
	ID          string
	UserEmail   string
	Title       string
	Content     string // rich editor markup
	PlainText   string
	Status      PostStatus
	CreatedTs   int64
	UpdatedTs   int64
	PublishedTs *int64
	WordCount   int32
}

type FindPost struct {
	ID        *string
	UserEmail *string
	Status    *PostStatus

	// Results are ordered by updated_ts descending.
	Limit *int
}

// UpdatePost changes the post with ID. When UserEmail is set, only a post
// owned by that user matches.
type UpdatePost struct {
	ID          string
	UserEmail   *string
	Title       *string
	Content     *string
	PlainText   *string
	WordCount   *int32
	Status      *PostStatus
	PublishedTs *int64
	UpdatedTs   *int64
}

func (s *Store) CreatePost(ctx context.Context, create *Post) (*Post, error) {
	now := time.Now().Unix()
	if create.CreatedTs == 0 {
		create.CreatedTs = now
	}
	if create.UpdatedTs == 0 {
		create.UpdatedTs = create.CreatedTs
	}
	if create.Status == "" {
		create.Status = PostStatusDraft
	}
	return s.driver.CreatePost(ctx, create)
}

func (s *Store) ListPosts(ctx context.Context, find *FindPost) ([]*Post, error) {
	return s.driver.ListPosts(ctx, find)
}

// GetPost returns the matching post, or nil when there is none.
func (s *Store) GetPost(ctx context.Context, find *FindPost) (*Post, error) {
	limit := 1
	find.Limit = &limit
	list, err := s.driver.ListPosts(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// UpdatePost returns sql.ErrNoRows when no post matches.
func (s *Store) UpdatePost(ctx context.Context, update *UpdatePost) (*Post, error) {
	if update.UpdatedTs == nil {
		now := time.Now().Unix()
		update.UpdatedTs = &now
	}
	return s.driver.UpdatePost(ctx, update)
}
