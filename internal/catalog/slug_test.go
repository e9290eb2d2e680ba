package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Cotton Kurta", "cotton-kurta"},
		{"currency and punctuation", "Saree (Silk) — ₹Premium!", "saree-silk-premium"},
		{"collapses runs", "A   B---C", "a-b-c"},
		{"trims edges", "  --Classic--  ", "classic"},
		{"digits kept", "Tee 2XL v2", "tee-2xl-v2"},
		{"empty", "", ""},
		{"only symbols", "!!!", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Slugify(tc.in))
		})
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	inputs := []string{"Cotton Kurta", "A   B---C", "Tee 2XL v2", "Block-Print Saree"}
	for _, in := range inputs {
		once := Slugify(in)
		assert.Equal(t, once, Slugify(once), "slugify should be stable on its own output: %q", in)
	}
}

func TestSlugWithID(t *testing.T) {
	assert.Equal(t, "cotton-kurta-7", SlugWithID("Cotton Kurta", 7))

	// Same name, different rows: the id keeps the slugs apart.
	assert.NotEqual(t, SlugWithID("Cotton Kurta", 7), SlugWithID("Cotton Kurta", 8))
}
