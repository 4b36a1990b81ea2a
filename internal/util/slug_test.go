// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "About Us", "about-us"},
		{"already slug", "about-us", "about-us"},
		{"accents", "Éducation Générale", "education-generale"},
		{"cyrillic", "Новости портала", "novosti-portala"},
		{"punctuation", "Hello, World!", "hello-world"},
		{"multiple spaces", "a  b   c", "a-b-c"},
		{"leading trailing", " -about- ", "about"},
		{"numbers", "Budget 2026", "budget-2026"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsValidSlug(t *testing.T) {
	valid := []string{"about", "about-us", "budget-2026", "a"}
	for _, s := range valid {
		if !IsValidSlug(s) {
			t.Errorf("IsValidSlug(%q) = false, want true", s)
		}
	}

	invalid := []string{"", "-about", "about-", "about--us", "About", "über", "a b"}
	for _, s := range invalid {
		if IsValidSlug(s) {
			t.Errorf("IsValidSlug(%q) = true, want false", s)
		}
	}
}
