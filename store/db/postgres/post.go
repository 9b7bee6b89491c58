package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/quillzy/quillzy/store"
)

const postFields = "id, user_email, title, content, plain_text, word_count, status, created_ts, updated_ts, published_ts"

func (d *DB) CreatePost(ctx context.Context, create *store.Post) (*store.Post, error) {
	args := []any{
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
	}
	stmt := `INSERT INTO post (` + postFields + `) VALUES (` + placeholders(len(args)) + `)`
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return create, nil
}

func (d *DB) ListPosts(ctx context.Context, find *store.FindPost) ([]*store.Post, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.UserEmail != nil {
		where, args = append(where, "user_email = "+placeholder(len(args)+1)), append(args, *find.UserEmail)
	}
	if find.Status != nil {
		where, args = append(where, "status = "+placeholder(len(args)+1)), append(args, *find.Status)
	}

	query := `SELECT ` + postFields + ` FROM post WHERE ` + strings.Join(where, " AND ") + ` ORDER BY updated_ts DESC, created_ts DESC, id DESC`
	if find.Limit != nil {
		query += " LIMIT " + placeholder(len(args)+1)
		args = append(args, *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
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
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}

	return list, nil
}

func (d *DB) UpdatePost(ctx context.Context, update *store.UpdatePost) (*store.Post, error) {
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
	if update.Status != nil {
		set, args = append(set, "status = "+placeholder(len(args)+1)), append(args, *update.Status)
	}
	if update.PublishedTs != nil {
		set, args = append(set, "published_ts = "+placeholder(len(args)+1)), append(args, *update.PublishedTs)
	}
	if update.UpdatedTs != nil {
		set, args = append(set, "updated_ts = "+placeholder(len(args)+1)), append(args, *update.UpdatedTs)
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	args = append(args, update.ID)
	where := []string{"id = " + placeholder(len(args))}
	if update.UserEmail != nil {
		args = append(args, *update.UserEmail)
		where = append(where, "user_email = "+placeholder(len(args)))
	}

	// RETURNING all fields to avoid a second query
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
		return nil, fmt.Errorf("failed to scan post: %w", err)
	}
	if publishedTs.Valid {
		post.PublishedTs = &publishedTs.Int64
	}
	return post, nil
}
