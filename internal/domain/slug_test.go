package domain

import "testing"

func TestSlugifyName(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Engineering Team", "engineering-team"},
		{"PRODUCT", "product"},
		{"Product & Design", "product-design"},
		{"Engineering@Team", "engineering-team"},
		{"  spaced out  ", "spaced-out"},
		{"---", "org"},
		{"", "org"},
	}

	for _, tc := range cases {
		if got := SlugifyName(tc.name); got != tc.want {
			t.Errorf("SlugifyName(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestSlugifyNameCapsLength(t *testing.T) {
	long := "this is a very long circle name that keeps going and going and going"
	slug := SlugifyName(long)
	if len(slug) > 48 {
		t.Errorf("expected slug capped at 48 chars, got %d: %q", len(slug), slug)
	}
}

func TestEnsureUniqueSlug(t *testing.T) {
	set := func(slugs ...string) map[string]struct{} {
		out := make(map[string]struct{}, len(slugs))
		for _, s := range slugs {
			out[s] = struct{}{}
		}
		return out
	}

	cases := []struct {
		base     string
		existing map[string]struct{}
		want     string
	}{
		{"engineering", set("other-slug"), "engineering"},
		{"engineering", set("engineering"), "engineering-1"},
		{"engineering", set("engineering", "engineering-1"), "engineering-2"},
		{"engineering", set("engineering", "engineering-1", "engineering-3"), "engineering-2"},
		{"engineering", set("engineering", "engineering-1", "engineering-5"), "engineering-2"},
	}

	for _, tc := range cases {
		if got := EnsureUniqueSlug(tc.base, tc.existing); got != tc.want {
			t.Errorf("EnsureUniqueSlug(%q, %v) = %q, want %q", tc.base, tc.existing, got, tc.want)
		}
	}
}
