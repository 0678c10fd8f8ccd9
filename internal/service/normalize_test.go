package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCourseCode(t *testing.T) {
	cases := map[string]string{
		"CSCI 104":    "CSCI104",
		"CSCI-104":    "CSCI104",
		"csci104":     "CSCI104",
		" writ - 150": "WRIT150",
		"":            "",
		"MATH-126-L":  "MATH126L",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeCourseCode(in), in)
	}
	assert.Equal(t, NormalizeCourseCode("CSCI 104"), NormalizeCourseCode("CSCI-104"))
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{"CSCI 104", "csci-104", "  a-b c ", "29937", "299 37", "", "---", "ÄB-c"}
	for _, in := range inputs {
		once := NormalizeCourseCode(in)
		assert.Equal(t, once, NormalizeCourseCode(once), in)

		sid := NormalizeSectionID(in)
		assert.Equal(t, sid, NormalizeSectionID(sid), in)
	}
}

func TestNormalizeSectionIDKeepsDashes(t *testing.T) {
	assert.Equal(t, "29937", NormalizeSectionID(" 299 37 "))
	assert.Equal(t, "29937-D", NormalizeSectionID("29937-D"))
}
