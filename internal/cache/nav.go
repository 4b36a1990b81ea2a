package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"govportal/internal/store"
)

const navKey = "navigation"

// NavItem is one entry of the public navigation menu.
type NavItem struct {
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	MenuOrder int64  `json:"menu_order"`
}

// Navigation caches the menu projection: published pages flagged for the
// menu, in menu order. The cache is advisory; on any cache failure the
// database is consulted directly.
type Navigation struct {
	queries *store.Queries
	cache   Cache
	ttl     time.Duration
}

// NewNavigation creates the navigation cache around a query layer and backend.
func NewNavigation(queries *store.Queries, cache Cache, ttl time.Duration) *Navigation {
	return &Navigation{queries: queries, cache: cache, ttl: ttl}
}

// Get returns the navigation items, from cache when possible.
func (n *Navigation) Get(ctx context.Context) ([]NavItem, error) {
	if data, err := n.cache.Get(ctx, navKey); err == nil {
		var items []NavItem
		if err := json.Unmarshal(data, &items); err == nil {
			return items, nil
		}
		// Corrupt entry: drop it and fall through to the database
		_ = n.cache.Delete(ctx, navKey)
	}

	pages, err := n.queries.ListMenuPages(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]NavItem, 0, len(pages))
	for _, p := range pages {
		items = append(items, NavItem{Title: p.Title, Slug: p.Slug, MenuOrder: p.MenuOrder})
	}

	if data, err := json.Marshal(items); err == nil {
		if err := n.cache.Set(ctx, navKey, data, n.ttl); err != nil {
			slog.Warn("failed to cache navigation", "error", err)
		}
	}

	return items, nil
}

// Invalidate drops the cached menu. Called after every page mutation.
func (n *Navigation) Invalidate(ctx context.Context) {
	if err := n.cache.Delete(ctx, navKey); err != nil {
		slog.Warn("failed to invalidate navigation cache", "error", err)
	}
}
