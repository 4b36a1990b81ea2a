// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"govportal/internal/model"
	"govportal/internal/publish"
)

const newsColumns = `id, title, body, is_published, published_at, author_id, created_at, updated_at`

func scanNews(s interface{ Scan(...any) error }) (model.News, error) {
	var n model.News
	err := s.Scan(&n.ID, &n.Title, &n.Body, &n.IsPublished, &n.PublishedAt,
		&n.AuthorID, &n.CreatedAt, &n.UpdatedAt)
	return n, err
}

// GetNewsByID returns a news item by primary key.
func (q *Queries) GetNewsByID(ctx context.Context, id int64) (model.News, error) {
	return scanNews(q.db.QueryRowContext(ctx,
		`SELECT `+newsColumns+` FROM news WHERE id = ?`, id))
}

// GetPublishedNewsByID returns a news item only when it is published.
func (q *Queries) GetPublishedNewsByID(ctx context.Context, id int64) (model.News, error) {
	return scanNews(q.db.QueryRowContext(ctx,
		`SELECT `+newsColumns+` FROM news WHERE id = ? AND is_published = 1`, id))
}

// CreateNewsParams holds the fields for CreateNews.
type CreateNewsParams struct {
	Title    string
	Body     string
	State    publish.State
	AuthorID int64
}

// CreateNews inserts a news item.
func (q *Queries) CreateNews(ctx context.Context, p CreateNewsParams) (model.News, error) {
	now := time.Now()
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO news (title, body, is_published, published_at, author_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Title, p.Body, p.State.Published, p.State.PublishedAt, p.AuthorID, now, now)
	if err != nil {
		return model.News{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return model.News{}, err
	}
	return q.GetNewsByID(ctx, id)
}

// UpdateNewsParams holds the fields for UpdateNews.
type UpdateNewsParams struct {
	ID       int64
	Title    string
	Body     string
	State    publish.State
	AuthorID int64
}

// UpdateNews overwrites a news item.
func (q *Queries) UpdateNews(ctx context.Context, p UpdateNewsParams) (model.News, error) {
	_, err := q.db.ExecContext(ctx,
		`UPDATE news SET title = ?, body = ?, is_published = ?, published_at = ?,
		   author_id = ?, updated_at = ? WHERE id = ?`,
		p.Title, p.Body, p.State.Published, p.State.PublishedAt, p.AuthorID, time.Now(), p.ID)
	if err != nil {
		return model.News{}, err
	}
	return q.GetNewsByID(ctx, p.ID)
}

// DeleteNews removes a news item.
func (q *Queries) DeleteNews(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM news WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListNewsParams controls pagination and reader visibility.
type ListNewsParams struct {
	PublishedOnly bool
	Limit         int64
	Offset        int64
}

// ListNews returns news items, newest first. Public listings order by
// publication time, administrative listings by creation time.
func (q *Queries) ListNews(ctx context.Context, p ListNewsParams) ([]model.News, error) {
	query := `SELECT ` + newsColumns + ` FROM news`
	if p.PublishedOnly {
		query += ` WHERE is_published = 1 ORDER BY published_at DESC, id DESC`
	} else {
		query += ` ORDER BY created_at DESC, id DESC`
	}
	query += ` LIMIT ? OFFSET ?`

	rows, err := q.db.QueryContext(ctx, query, p.Limit, p.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.News
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

// CountNews counts news items, optionally restricted to published ones.
func (q *Queries) CountNews(ctx context.Context, publishedOnly bool) (int64, error) {
	query := `SELECT COUNT(*) FROM news`
	if publishedOnly {
		query += ` WHERE is_published = 1`
	}
	var n int64
	err := q.db.QueryRowContext(ctx, query).Scan(&n)
	return n, err
}
