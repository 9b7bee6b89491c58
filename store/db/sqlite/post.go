package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	"github.com/quillzy/quillzy/store"
)

const postFields = "id, user_email, title, content, plain_text, word_count, status, created_ts, updated_ts, published_ts"

func (d *DB) CreatePost(ctx context.Context, create *store.Post) (*store.Post, error) {
	stmt := `INSERT INTO post (` + postFields + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := d.db.ExecContext(ctx, stmt,
		create.ID,
		create.UserEmail,
		create.Title,
		create.Content,
		create.PlainText,
		create.WordCount,
		create.Status,
		create.CreatedTs,
		create.UpdatedTs,
		create.PublishedTs,
	); err != nil {
		return nil, errors.Wrap(err, "failed to create post")
	}
	return create, nil
}

func (d *DB) ListPosts(ctx context.Context, find *store.FindPost) ([]*store.Post, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = ?"), append(args, *find.ID)
	}
	if find.UserEmail != nil {
		where, args = append(where, "user_email = ?"), append(args, *find.UserEmail)
	}
	if find.Status != nil {
		where, args = append(where, "status = ?"), append(args, *find.Status)
	}

	query := `SELECT ` + postFields + ` FROM post WHERE ` + strings.Join(where, " AND ") + ` ORDER BY updated_ts DESC, created_ts DESC, rowid DESC`
	if find.Limit != nil {
		query += " LIMIT ?"
		args = append(args, *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list posts")
	}
	defer rows.Close()

	list := make([]*store.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, post)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate posts")
	}

	return list, nil
}

func (d *DB) UpdatePost(ctx context.Context, update *store.UpdatePost) (*store.Post, error) {
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
	if update.Status != nil {
		set, args = append(set, "status = ?"), append(args, *update.Status)
	}
	if update.PublishedTs != nil {
		set, args = append(set, "published_ts = ?"), append(args, *update.PublishedTs)
	}
	if update.UpdatedTs != nil {
		set, args = append(set, "updated_ts = ?"), append(args, *update.UpdatedTs)
	}
	if len(set) == 0 {
		return nil, errors.New("no fields to update")
	}

	where := []string{"id = ?"}
	args = append(args, update.ID)
	if update.UserEmail != nil {
		where, args = append(where, "user_email = ?"), append(args, *update.UserEmail)
	}

	stmt := `UPDATE post SET ` + strings.Join(set, ", ") + ` WHERE ` + strings.Join(where, " AND ") + ` RETURNING ` + postFields
	post, err := scanPost(d.db.QueryRowContext(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return post, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*store.Post, error) {
	post := &store.Post{}
	var publishedTs sql.NullInt64
	if err := row.Scan(
		&post.ID,
		&post.UserEmail,
		&post.Title,
		&post.Content,
		&post.PlainText,
		&post.WordCount,
		&post.Status,
		&post.CreatedTs,
		&post.UpdatedTs,
		&publishedTs,
	); err != nil {
		return nil, errors.Wrap(err, "failed to scan post")
	}
	if publishedTs.Valid {
		post.PublishedTs = &publishedTs.Int64
	}
	return post, nil
}
