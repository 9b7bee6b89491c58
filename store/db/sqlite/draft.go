package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	"github.com/quillzy/quillzy/store"
)

const draftFields = "id, title, content, plain_text, word_count, status, created_ts, updated_ts"

func (d *DB) CreateDraft(ctx context.Context, create *store.Draft) (*store.Draft, error) {
	stmt := `INSERT INTO draft (` + draftFields + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := d.db.ExecContext(ctx, stmt,
		create.ID,
		create.Title,
		create.Content,
		create.PlainText,
		create.WordCount,
		create.Status,
		create.CreatedTs,
		create.UpdatedTs,
	); err != nil {
		return nil, errors.Wrap(err, "failed to create draft")
	}
	return create, nil
}

func (d *DB) ListDrafts(ctx context.Context, find *store.FindDraft) ([]*store.Draft, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = ?"), append(args, *find.ID)
	}
	if find.Status != nil {
		where, args = append(where, "status = ?"), append(args, *find.Status)
	}

	query := `SELECT ` + draftFields + ` FROM draft WHERE ` + strings.Join(where, " AND ") + ` ORDER BY updated_ts DESC, created_ts DESC, rowid DESC`
	if find.Limit != nil {
		query += " LIMIT ?"
		args = append(args, *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list drafts")
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
		return nil, errors.Wrap(err, "failed to iterate drafts")
	}

	return list, nil
}

func (d *DB) UpdateDraft(ctx context.Context, update *store.UpdateDraft) (*store.Draft, error) {
	set, args := []string{}, []any{}

	if update.Title != nil {
		set, args = append(set, "title = ?"), append(args, *update.Title)
	}
	if update.Content != nil {
		set, args = append(set, "content = ?"), append(args, *update.Content)
	}
	if update.PlainText != nil {
		set, args = append(set, "plain_text = ?"), append(args, *update.PlainText)
	}
	if update.WordCount != nil {
		set, args = append(set, "word_count = ?"), append(args, *update.WordCount)
	}
	if update.UpdatedTs != nil {
		set, args = append(set, "updated_ts = ?"), append(args, *update.UpdatedTs)
	}
	if len(set) == 0 {
		return nil, errors.New("no fields to update")
	}

	args = append(args, update.ID)
	stmt := `UPDATE draft SET ` + strings.Join(set, ", ") + ` WHERE id = ? RETURNING ` + draftFields
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
	result, err := d.db.ExecContext(ctx, `DELETE FROM draft WHERE id = ?`, delete.ID)
	if err != nil {
		return errors.Wrap(err, "failed to delete draft")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to count deleted drafts")
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
		return nil, errors.Wrap(err, "failed to scan draft")
	}
	return draft, nil
}
