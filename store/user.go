package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// ErrUserExists is returned by CreateUser when the email is already taken.
var ErrUserExists = errors.New("user already exists")

type User struct {
	Email        string
	Name         string
	PasswordHash string
	CreatedTs    int64
	ID           int32
}

type FindUser struct {
	ID    *int32
	Email *string
}

func (s *Store) CreateUser(ctx context.Context, create *User) (*User, error) {
	if create.CreatedTs == 0 {
		create.CreatedTs = time.Now().Unix()
	}
	user, err := s.driver.CreateUser(ctx, create)
	if err != nil {
		return nil, err
	}
	s.userCache.Set(user.Email, user, 0)
	return user, nil
}

func (s *Store) ListUsers(ctx context.Context, find *FindUser) ([]*User, error) {
	return s.driver.ListUsers(ctx, find)
}

// GetUser returns the matching user, or nil when there is none.
func (s *Store) GetUser(ctx context.Context, find *FindUser) (*User, error) {
	if find.ID == nil && find.Email != nil {
		if user, ok := s.userCache.Get(*find.Email); ok {
			return user, nil
		}
	}

	list, err := s.driver.ListUsers(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}

	user := list[0]
	s.userCache.Set(user.Email, user, 0)
	return user, nil
}
