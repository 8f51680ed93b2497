package service

import (
	"strings"
	"unicode"
)

const maxSlugLen = 50

// Slugify lowercases title, turns every character that is not a letter,
// digit, '-' or '_' into a hyphen, collapses hyphen runs, trims hyphens at
// both ends and caps the result at 50 characters.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := false
	for _, r := range strings.ToLower(title) {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			r = '-'
		}
		if r == '-' {
			if lastHyphen {
				continue
			}
			lastHyphen = true
		} else {
			lastHyphen = false
		}
		b.WriteRune(r)
	}
	slug := strings.Trim(b.String(), "-")

	runes := []rune(slug)
	if len(runes) > maxSlugLen {
		slug = strings.TrimRight(string(runes[:maxSlugLen]), "-")
	}
	return slug
}

// WordCount counts whitespace-delimited tokens.
func WordCount(content string) int64 {
	return int64(len(strings.Fields(content)))
}

// noteFileName builds notes/<uuid>-<slug>.md for a note id of the form
// note-<uuid>.
func noteFileName(id, title string) string {
	u := strings.TrimPrefix(id, kindNote+"-")
	slug := Slugify(title)
	if slug == "" {
		slug = "untitled"
	}
	return "notes/" + u + "-" + slug + ".md"
}
