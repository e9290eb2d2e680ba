package catalog

import (
	"strconv"
	"strings"
)

// Slugify derives a URL-safe token from a display name: lowercase, every
// maximal run of characters outside [a-z0-9] collapses to one hyphen,
// leading and trailing hyphens trimmed. Idempotent: Slugify(Slugify(n))
// == Slugify(n). Slugs are never user-supplied.
func Slugify(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	pendingHyphen := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// SlugWithID appends the database identifier to the name slug. Names may
// collide; identifiers cannot, so this form is injective over database
// rows.
func SlugWithID(name string, id int64) string {
	slug := Slugify(name)
	if slug == "" {
		return strconv.FormatInt(id, 10)
	}
	return slug + "-" + strconv.FormatInt(id, 10)
}
