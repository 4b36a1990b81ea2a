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

const pageColumns = `id, title, slug, body, is_published, published_at,
	show_in_menu, menu_order, author_id, created_at, updated_at`

func scanPage(s interface{ Scan(...any) error }) (model.Page, error) {
	var p model.Page
	err := s.Scan(&p.ID, &p.Title, &p.Slug, &p.Body, &p.IsPublished, &p.PublishedAt,
		&p.ShowInMenu, &p.MenuOrder, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// GetPageByID returns a page by primary key.
func (q *Queries) GetPageByID(ctx context.Context, id int64) (model.Page, error) {
	return scanPage(q.db.QueryRowContext(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE id = ?`, id))
}

// GetPublishedPageBySlug resolves a page by its unique slug for anonymous
// readers. Draft pages are invisible here: absent and unpublished look the same.
func (q *Queries) GetPublishedPageBySlug(ctx context.Context, slug string) (model.Page, error) {
	return scanPage(q.db.QueryRowContext(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE slug = ? AND is_published = 1`, slug))
}

// PageSlugExists is the advisory pre-check for slug uniqueness. The unique
// index remains the source of truth; a false result here does not guarantee
// a later insert will succeed.
func (q *Queries) PageSlugExists(ctx context.Context, slug string) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pages WHERE slug = ?`, slug).Scan(&n)
	return n > 0, err
}

// CreatePageParams holds the fields for CreatePage.
type CreatePageParams struct {
	Title      string
	Slug       string
	Body       string
	State      publish.State
	ShowInMenu bool
	MenuOrder  int64
	AuthorID   int64
}

// CreatePage inserts a page. A duplicate slug returns ErrDuplicateKey and
// nothing is persisted.
func (q *Queries) CreatePage(ctx context.Context, p CreatePageParams) (model.Page, error) {
	now := time.Now()
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO pages (title, slug, body, is_published, published_at,
		   show_in_menu, menu_order, author_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Title, p.Slug, p.Body, p.State.Published, p.State.PublishedAt,
		p.ShowInMenu, p.MenuOrder, p.AuthorID, now, now)
	if err != nil {
		return model.Page{}, mapWriteError(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return model.Page{}, err
	}
	return q.GetPageByID(ctx, id)
}

// UpdatePageParams holds the fields for UpdatePage.
type UpdatePageParams struct {
	ID         int64
	Title      string
	Slug       string
	Body       string
	State      publish.State
	ShowInMenu bool
	MenuOrder  int64
	AuthorID   int64
}

// UpdatePage overwrites a page. Content updates are irreversible: there is
// no version history. A slug collision returns ErrDuplicateKey.
func (q *Queries) UpdatePage(ctx context.Context, p UpdatePageParams) (model.Page, error) {
	_, err := q.db.ExecContext(ctx,
		`UPDATE pages SET title = ?, slug = ?, body = ?, is_published = ?,
		   published_at = ?, show_in_menu = ?, menu_order = ?, author_id = ?, updated_at = ?
		 WHERE id = ?`,
		p.Title, p.Slug, p.Body, p.State.Published, p.State.PublishedAt,
		p.ShowInMenu, p.MenuOrder, p.AuthorID, time.Now(), p.ID)
	if err != nil {
		return model.Page{}, mapWriteError(err)
	}
	return q.GetPageByID(ctx, p.ID)
}

// DeletePage removes a page.
func (q *Queries) DeletePage(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM pages WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListPagesParams controls pagination and reader visibility.
type ListPagesParams struct {
	PublishedOnly bool
	Limit         int64
	Offset        int64
}

// ListPages returns pages for administrative or public listings.
func (q *Queries) ListPages(ctx context.Context, p ListPagesParams) ([]model.Page, error) {
	query := `SELECT ` + pageColumns + ` FROM pages`
	if p.PublishedOnly {
		query += ` WHERE is_published = 1`
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`

	rows, err := q.db.QueryContext(ctx, query, p.Limit, p.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPages(rows)
}

// CountPages counts pages, optionally restricted to published ones.
func (q *Queries) CountPages(ctx context.Context, publishedOnly bool) (int64, error) {
	query := `SELECT COUNT(*) FROM pages`
	if publishedOnly {
		query += ` WHERE is_published = 1`
	}
	var n int64
	err := q.db.QueryRowContext(ctx, query).Scan(&n)
	return n, err
}

// ListMenuPages returns the navigation projection: published pages flagged
// for the menu, ordered by menu_order ascending with creation time breaking
// ties deterministically.
func (q *Queries) ListMenuPages(ctx context.Context) ([]model.Page, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+pageColumns+` FROM pages
		 WHERE is_published = 1 AND show_in_menu = 1
		 ORDER BY menu_order, created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPages(rows)
}

func collectPages(rows *sql.Rows) ([]model.Page, error) {
	var pages []model.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}
