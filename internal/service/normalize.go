package service

import "strings"

var courseCodeReplacer = strings.NewReplacer(" ", "", "-", "")

// NormalizeCourseCode uppercases code and strips spaces and dashes, so
// "csci 104" and "CSCI-104" both become "CSCI104".
func NormalizeCourseCode(code string) string {
	return strings.ToUpper(courseCodeReplacer.Replace(code))
}

// NormalizeSectionID strips spaces from a section id.
func NormalizeSectionID(id string) string {
	return strings.ReplaceAll(id, " ", "")
}
