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

const noticeColumns = `id, title, body, is_published, published_at, author_id, created_at, updated_at`

func scanNotice(s interface{ Scan(...any) error }) (model.Notice, error) {
	var n model.Notice
	err := s.Scan(&n.ID, &n.Title, &n.Body, &n.IsPublished, &n.PublishedAt,
		&n.AuthorID, &n.CreatedAt, &n.UpdatedAt)
	return n, err
}

// GetNoticeByID returns a notice by primary key.
func (q *Queries) GetNoticeByID(ctx context.Context, id int64) (model.Notice, error) {
	return scanNotice(q.db.QueryRowContext(ctx,
		`SELECT `+noticeColumns+` FROM notices WHERE id = ?`, id))
}

// GetPublishedNoticeByID returns a notice only when it is published.
func (q *Queries) GetPublishedNoticeByID(ctx context.Context, id int64) (model.Notice, error) {
	return scanNotice(q.db.QueryRowContext(ctx,
		`SELECT `+noticeColumns+` FROM notices WHERE id = ? AND is_published = 1`, id))
}

// CreateNoticeParams holds the fields for CreateNotice.
type CreateNoticeParams struct {
	Title    string
	Body     string
	State    publish.State
	AuthorID int64
}

// CreateNotice inserts a notice.
func (q *Queries) CreateNotice(ctx context.Context, p CreateNoticeParams) (model.Notice, error) {
	now := time.Now()
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO notices (title, body, is_published, published_at, author_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Title, p.Body, p.State.Published, p.State.PublishedAt, p.AuthorID, now, now)
	if err != nil {
		return model.Notice{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return model.Notice{}, err
	}
	return q.GetNoticeByID(ctx, id)
}

// UpdateNoticeParams holds the fields for UpdateNotice.
type UpdateNoticeParams struct {
	ID       int64
	Title    string
	Body     string
	State    publish.State
	AuthorID int64
}

// UpdateNotice overwrites a notice.
func (q *Queries) UpdateNotice(ctx context.Context, p UpdateNoticeParams) (model.Notice, error) {
	_, err := q.db.ExecContext(ctx,
		`UPDATE notices SET title = ?, body = ?, is_published = ?, published_at = ?,
		   author_id = ?, updated_at = ? WHERE id = ?`,
		p.Title, p.Body, p.State.Published, p.State.PublishedAt, p.AuthorID, time.Now(), p.ID)
	if err != nil {
		return model.Notice{}, err
	}
	return q.GetNoticeByID(ctx, p.ID)
}

// DeleteNotice removes a notice.
func (q *Queries) DeleteNotice(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM notices WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListNoticesParams controls pagination and reader visibility.
type ListNoticesParams struct {
	PublishedOnly bool
	Limit         int64
	Offset        int64
}

// ListNotices returns notices, newest first.
func (q *Queries) ListNotices(ctx context.Context, p ListNoticesParams) ([]model.Notice, error) {
	query := `SELECT ` + noticeColumns + ` FROM notices`
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

	var items []model.Notice
	for rows.Next() {
		n, err := scanNotice(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

// CountNotices counts notices, optionally restricted to published ones.
func (q *Queries) CountNotices(ctx context.Context, publishedOnly bool) (int64, error) {
	query := `SELECT COUNT(*) FROM notices`
	if publishedOnly {
		query += ` WHERE is_published = 1`
	}
	var n int64
	err := q.db.QueryRowContext(ctx, query).Scan(&n)
	return n, err
}
