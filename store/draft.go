package store

import (
	"context"
	"time"
)

// DraftStatusDraft is the only status an autosaved draft carries.
const DraftStatusDraft = "draft"

// Draft is an anonymous autosave document.
type Draft struct {
	ID        string
	Title     string
	Content   string
	PlainText string
	Status    string
	CreatedTs int64
	UpdatedTs int64
	WordCount int32
}

type FindDraft struct {
	ID     *string
	Status *string

	// Results are ordered by updated_ts descending.
	Limit *int
}

type UpdateDraft struct {
	ID        string
	Title     *string
	Content   *string
	PlainText *string
	WordCount *int32
	UpdatedTs *int64
}

type DeleteDraft struct {
	ID string
}

func (s *Store) CreateDraft(ctx context.Context, create *Draft) (*Draft, error) {
	if create.CreatedTs == 0 {
		create.CreatedTs = time.Now().Unix()
	}
	if create.UpdatedTs == 0 {
		create.UpdatedTs = create.CreatedTs
	}
	if create.Status == "" {
		create.Status = DraftStatusDraft
	}
	return s.driver.CreateDraft(ctx, create)
}

func (s *Store) ListDrafts(ctx context.Context, find *FindDraft) ([]*Draft, error) {
	return s.driver.ListDrafts(ctx, find)
}

// GetDraft returns the matching draft, or nil when there is none.
func (s *Store) GetDraft(ctx context.Context, find *FindDraft) (*Draft, error) {
	limit := 1
	find.Limit = &limit
	list, err := s.driver.ListDrafts(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// UpdateDraft returns sql.ErrNoRows when the draft does not exist.
func (s *Store) UpdateDraft(ctx context.Context, update *UpdateDraft) (*Draft, error) {
	if update.UpdatedTs == nil {
		now := time.Now().Unix()
		update.UpdatedTs = &now
	}
	return s.driver.UpdateDraft(ctx, update)
}

// DeleteDraft returns sql.ErrNoRows when the draft does not exist.
func (s *Store) DeleteDraft(ctx context.Context, delete *DeleteDraft) error {
	return s.driver.DeleteDraft(ctx, delete)
}
