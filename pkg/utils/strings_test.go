package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "pirlanta-tektas-yuzuk", Slugify("Pırlanta Tektaş Yüzük"))
	assert.Equal(t, "22-ayar-bilezik", Slugify("  22 Ayar   Bilezik! "))
	assert.Equal(t, "cicek-kolye", Slugify("ÇİÇEK Kolye"))
}

func TestGenerateReferenceNo(t *testing.T) {
	ref := GenerateReferenceNo("SAT")
	assert.Regexp(t, regexp.MustCompile(`^SAT-[0-9A-F]{8}$`), ref)
	assert.NotEqual(t, ref, GenerateReferenceNo("SAT"))
}
