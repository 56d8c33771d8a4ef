// Package gematria validates Hebrew-letter numerals as used for seif
// (section) markers in transcripts.
package gematria

import "strings"

// values maps each Hebrew letter, final forms included, to its numeric value.
var values = map[rune]int{
	'א': 1, 'ב': 2, 'ג': 3, 'ד': 4, 'ה': 5, 'ו': 6, 'ז': 7, 'ח': 8, 'ט': 9,
	'י': 10, 'כ': 20, 'ך': 20, 'ל': 30, 'מ': 40, 'ם': 40, 'נ': 50, 'ן': 50,
	'ס': 60, 'ע': 70, 'פ': 80, 'ף': 80, 'צ': 90, 'ץ': 90,
	'ק': 100, 'ר': 200, 'ש': 300, 'ת': 400,
}

// LetterValue returns the numeric value of a single letter and whether the
// letter is part of the alphabet.
func LetterValue(r rune) (int, bool) {
	v, ok := values[r]
	return v, ok
}

// IsValid reports whether text is a well-formed numeral: every letter known
// and letter values non-increasing from left to right. Surrounding
// whitespace is ignored; an empty string is not valid.
func IsValid(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}

	prev := -1
	for _, r := range text {
		v, ok := values[r]
		if !ok {
			return false
		}
		if prev >= 0 && v > prev {
			return false
		}
		prev = v
	}
	return true
}

// Value returns the sum of the letter values when text is valid, otherwise 0.
func Value(text string) int {
	if !IsValid(text) {
		return 0
	}
	total := 0
	for _, r := range strings.TrimSpace(text) {
		total += values[r]
	}
	return total
}
