package store

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/mrz1836/taskmd/internal/constants"
)

// maxSlugLength caps the slug portion of a task file name.
const maxSlugLength = 60

// fileName builds the record file name <id>-<slug>.md.
func fileName(id int, title string) string {
	return strconv.Itoa(id) + "-" + slugify(title) + constants.TaskFileExt
}

// slugify lowercases the title and reduces it to a filesystem-safe
// slug: runs of anything outside [a-z0-9] collapse into single
// hyphens. An empty result falls back to "task".
func slugify(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) && r < 128, unicode.IsDigit(r) && r < 128:
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
		if b.Len() >= maxSlugLength {
			break
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "task"
	}
	return slug
}
