package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// User model related methods.
	CreateUser(ctx context.Context, create *User) (*User, error)
	ListUsers(ctx context.Context, find *FindUser) ([]*User, error)

	// Post model related methods.
	CreatePost(ctx context.Context, create *Post) (*Post, error)
	ListPosts(ctx context.Context, find *FindPost) ([]*Post, error)
	UpdatePost(ctx context.Context, update *UpdatePost) (*Post, error)

	// Draft model related methods.
	CreateDraft(ctx context.Context, create *Draft) (*Draft, error)
	ListDrafts(ctx context.Context, find *FindDraft) ([]*Draft, error)
	UpdateDraft(ctx context.Context, update *UpdateDraft) (*Draft, error)
	DeleteDraft(ctx context.Context, delete *DeleteDraft) error
}
