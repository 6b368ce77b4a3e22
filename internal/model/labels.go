package model

import (
	"regexp"
	"strings"
	"unicode"
)

var splitWordsPattern = regexp.MustCompile(`[_\-\s.]+`)

// DefaultLabeler converts a field name into a human-friendly label, splitting
// on separators and camelCase boundaries: "confirmPassword" becomes
// "Confirm Password", "is_urgent" becomes "Is Urgent".
func DefaultLabeler(name string) string {
	var words []string
	for _, chunk := range splitWordsPattern.Split(name, -1) {
		for _, word := range splitCamel(chunk) {
			words = append(words, capitalize(word))
		}
	}
	return strings.Join(words, " ")
}

func splitCamel(input string) []string {
	if input == "" {
		return nil
	}
	runes := []rune(input)
	var (
		words []string
		start int
	)
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		switch {
		case unicode.IsLower(prev) && unicode.IsUpper(cur),
			unicode.IsLetter(prev) && unicode.IsDigit(cur),
			unicode.IsDigit(prev) && unicode.IsLetter(cur):
			words = append(words, string(runes[start:i]))
			start = i
		}
	}
	return append(words, string(runes[start:]))
}

func capitalize(word string) string {
	runes := []rune(strings.ToLower(word))
	if len(runes) == 0 {
		return ""
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// applyLabels fills empty labels recursively.
func applyLabels(fields []Field, labeler func(string) string) {
	for i := range fields {
		if strings.TrimSpace(fields[i].Label) == "" {
			fields[i].Label = labeler(fields[i].Name)
		}
		applyLabels(fields[i].Items, labeler)
	}
}
