package menus

import (
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"
)

var (
	nonSlug   = regexp.MustCompile(`[^a-z0-9\-]+`)
	multiDash = regexp.MustCompile(`-+`)
)

// MakeSlug generates a URL-safe base slug from a menu name.
// Example: "La Bella Pizzeria" -> "la-bella-pizzeria"
func MakeSlug(name string) string {
	base := strings.ToLower(strings.TrimSpace(name))
	base = strings.ReplaceAll(base, " ", "-")
	base = nonSlug.ReplaceAllString(base, "")
	base = multiDash.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-")

	if base == "" {
		base = "menu"
	}
	return base
}

// EnsureSlug persists a unique slug for the menu. Must be called after the
// menu row exists: the row id is the uniqueness suffix, so the result is
// stable for the life of the menu (public pages link by slug).
func EnsureSlug(db *gorm.DB, m *Menu) (string, error) {
	if m == nil {
		return "", fmt.Errorf("menu is nil")
	}
	if strings.TrimSpace(m.Slug) != "" {
		return m.Slug, nil
	}
	if m.ID == 0 {
		return "", fmt.Errorf("menu ID missing (call EnsureSlug after Create)")
	}

	slug := fmt.Sprintf("%s-%d", MakeSlug(m.Name), m.ID)
	m.Slug = slug

	if err := db.
		Model(&Menu{}).
		Where("id = ?", m.ID).
		Update("slug", slug).Error; err != nil {
		return "", err
	}
	return slug, nil
}
