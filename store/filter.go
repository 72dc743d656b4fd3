package store

import (
	"strings"

	"gorm.io/gorm"
)

// likeEscaper neutralizes LIKE metacharacters so a search term only ever
// matches literally. "!" is the escape character because a bare backslash is
// not portable between MySQL and SQLite string literals.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// searchScope builds a GORM scope matching posts whose title, content, or
// category contains the trimmed term, case-insensitively. A blank term matches
// everything. Literal substring match, not token match, and no ranking.
func searchScope(term string) func(*gorm.DB) *gorm.DB {
	term = strings.TrimSpace(term)
	return func(db *gorm.DB) *gorm.DB {
		if term == "" {
			return db
		}
		pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
		return db.Where(
			"LOWER(title) LIKE ? ESCAPE '!' OR LOWER(content) LIKE ? ESCAPE '!' OR LOWER(category) LIKE ? ESCAPE '!'",
			pattern, pattern, pattern,
		)
	}
}
