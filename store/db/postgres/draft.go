package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/quillzy/quillzy/store"
)

const draftFields = "id, title, content, plain_text, word_count, status, created_ts, updated_ts"

func (d *DB) CreateDraft(ctx context.Context, create *store.Draft) (*store.Draft, error) {
	args := []any{
		create.ID,
		create.Title,
		create.Content,
		create.PlainText,
		create.WordCount,
		create.Status,
		create.CreatedTs,
		create.UpdatedTs,
	}
	stmt := `INSERT INTO draft (` + draftFields + `) VALUES (` + placeholders(len(args)) + `)`
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return nil, fmt.Errorf("failed to create draft: %w", err)
	}
	return create, nil
}

func (d *DB) ListDrafts(ctx context.Context, find *store.FindDraft) ([]*store.Draft, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.Status != nil {
		where, args = append(where, "status = "+placeholder(len(args)+1)), append(args, *find.Status)
	}

	query := `SELECT ` + draftFields + ` FROM draft WHERE ` + strings.Join(where, " AND ") + ` ORDER BY updated_ts DESC, created_ts DESC, id DESC`
	if find.Limit != nil {
		query += " LIMIT " + placeholder(len(args)+1)
		args = append(args, *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Draft, 0)
	for rows.Next() {
		draft, err := scanDraft(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, draft)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate drafts: %w", err)
	}

	return list, nil
}

func (d *DB) UpdateDraft(ctx context.Context, update *store.UpdateDraft) (*store.Draft, error) {
	set, args := []string{}, []any{}

	if update.Title != nil {
		set, args = append(set, "title = "+placeholder(len(args)+1)), append(args, *update.Title)
	}
	if update.Content != nil {
		set, args = append(set, "content = "+placeholder(len(args)+1)), append(args, *update.Content)
	}
	if update.PlainText != nil {
		set, args = append(set, "plain_text = "+placeholder(len(args)+1)), append(args, *update.PlainText)
	}
	if update.WordCount != nil {
		set, args = append(set, "word_count = "+placeholder(len(args)+1)), append(args, *update.WordCount)
	}
	if update.UpdatedTs != nil {
		set, args = append(set, "updated_ts = "+placeholder(len(args)+1)), append(args, *update.UpdatedTs)
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	args = append(args, update.ID)
	stmt := `UPDATE draft SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args)) + ` RETURNING ` + draftFields
	draft, err := scanDraft(d.db.QueryRowContext(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return draft, nil
}

func (d *DB) DeleteDraft(ctx context.Context, delete *store.DeleteDraft) error {
	result, err := d.db.ExecContext(ctx, `DELETE FROM draft WHERE id = `+placeholder(1), delete.ID)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to count deleted drafts: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanDraft(row rowScanner) (*store.Draft, error) {
	draft := &store.Draft{}
	if err := row.Scan(
		&draft.ID,
		&draft.Title,
		&draft.Content,
		&draft.PlainText,
		&draft.WordCount,
		&draft.Status,
		&draft.CreatedTs,
		&draft.UpdatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to scan draft: %w", err)
	}
	return draft, nil
}
