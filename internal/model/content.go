// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Page represents a static portal page. Slug is unique across all pages and
// is the public lookup key. Menu placement is a derived projection over
// published pages with ShowInMenu set.
type Page struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Slug        string       `json:"slug"`
	Body        string       `json:"body"`
	IsPublished bool         `json:"is_published"`
	PublishedAt sql.NullTime `json:"published_at,omitempty"`
	ShowInMenu  bool         `json:"show_in_menu"`
	MenuOrder   int64        `json:"menu_order"`
	AuthorID    int64        `json:"author_id"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// News represents a dated news item.
type News struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Body        string       `json:"body"`
	IsPublished bool         `json:"is_published"`
	PublishedAt sql.NullTime `json:"published_at,omitempty"`
	AuthorID    int64        `json:"author_id"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Notice represents an official notice or announcement.
type Notice struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Body        string       `json:"body"`
	IsPublished bool         `json:"is_published"`
	PublishedAt sql.NullTime `json:"published_at,omitempty"`
	AuthorID    int64        `json:"author_id"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
