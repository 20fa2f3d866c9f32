package utils

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	nonSlugChars = regexp.MustCompile("[^a-z0-9-]")
	dashRuns     = regexp.MustCompile("-+")

	turkishFold = strings.NewReplacer(
		"ç", "c", "Ç", "c",
		"ğ", "g", "Ğ", "g",
		"ı", "i", "İ", "i",
		"ö", "o", "Ö", "o",
		"ş", "s", "Ş", "s",
		"ü", "u", "Ü", "u",
	)
)

// Slugify converts a string to a URL-friendly slug. Turkish letters are
// folded to their ASCII base.
func Slugify(s string) string {
	s = turkishFold.Replace(s)
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")
	s = nonSlugChars.ReplaceAllString(s, "")
	s = dashRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ShortID returns eight upper-case hex characters from a fresh UUID.
func ShortID() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
}

// GenerateReferenceNo generates a reference such as "SAT-1A2B3C4D"
func GenerateReferenceNo(prefix string) string {
	return prefix + "-" + ShortID()
}
