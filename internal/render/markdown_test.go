// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTML(t *testing.T) {
	r := New()

	t.Run("basic markdown", func(t *testing.T) {
		out, err := r.HTML("# Title\n\nSome **bold** text.")
		require.NoError(t, err)
		assert.Contains(t, out, "<h1")
		assert.Contains(t, out, "<strong>bold</strong>")
	})

	t.Run("script is stripped", func(t *testing.T) {
		out, err := r.HTML("hello <script>alert(1)</script> world")
		require.NoError(t, err)
		assert.NotContains(t, out, "<script")
	})

	t.Run("raw html event handlers are stripped", func(t *testing.T) {
		out, err := r.HTML(`<img src="x" onerror="alert(1)">`)
		require.NoError(t, err)
		assert.NotContains(t, out, "onerror")
	})

	t.Run("links keep href", func(t *testing.T) {
		out, err := r.HTML("[portal](https://example.gov)")
		require.NoError(t, err)
		assert.Contains(t, out, `href="https://example.gov"`)
	})

	t.Run("tables render", func(t *testing.T) {
		out, err := r.HTML("| Fee | Amount |\n|---|---|\n| Visa | 50 |")
		require.NoError(t, err)
		assert.Contains(t, out, "<table")
		assert.Contains(t, out, "<td>Visa</td>")
	})
}
