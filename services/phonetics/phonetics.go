// Package phonetics converts between spoken digit words and digit strings
// for the voice channel: callers dictate phone numbers as words, and the
// TTS engine needs digits spelled back out as Georgian words.
package phonetics

import (
	"regexp"
	"strings"
)

// digitToGeorgian maps each digit to its spoken Georgian word for TTS.
var digitToGeorgian = map[rune]string{
	'0': "ნული",
	'1': "ერთი",
	'2': "ორი",
	'3': "სამი",
	'4': "ოთხი",
	'5': "ხუთი",
	'6': "ექვსი",
	'7': "შვიდი",
	'8': "რვა",
	'9': "ცხრა",
}

// wordToDigit maps spoken digit words (English and Georgian, including
// common dialectal forms of zero) to digits.
var wordToDigit = map[string]string{
	// English
	"zero": "0", "oh": "0",
	"one": "1", "two": "2", "three": "3", "four": "4",
	"five": "5", "six": "6", "seven": "7", "eight": "8", "nine": "9",

	// Georgian
	"ნული": "0", "ნოლი": "0", "ნოლ": "0",
	"ერთი": "1",
	"ორი":  "2",
	"სამი": "3",
	"ოთხი": "4",
	"ხუთი": "5",
	"ექვსი": "6",
	"შვიდი": "7",
	"რვა":  "8",
	"ცხრა": "9",
}

// tokenPattern matches maximal runs of letters and digits. RE2's \b only
// knows ASCII word characters, so Georgian words are matched as whole
// tokens instead of with word-boundary anchors.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

var digitRunPattern = regexp.MustCompile(`[0-9]+`)

// NormalizePhoneToDigits lowercases the input, replaces every whole word
// that is a known digit word with its digit, and strips everything that is
// not an ASCII digit. An empty result means no phone was provided.
func NormalizePhoneToDigits(text string) string {
	t := strings.ToLower(text)
	t = tokenPattern.ReplaceAllStringFunc(t, func(token string) string {
		if digit, ok := wordToDigit[token]; ok {
			return digit
		}
		return token
	})
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, t)
}

// GeorgianizeDigitsForTTS replaces every run of digits with the digits'
// Georgian words, space-separated, leaving all other text untouched.
// Already-worded text contains no digit runs, so re-applying is harmless.
func GeorgianizeDigitsForTTS(text string) string {
	return digitRunPattern.ReplaceAllStringFunc(text, func(run string) string {
		words := make([]string, 0, len(run))
		for _, r := range run {
			if word, ok := digitToGeorgian[r]; ok {
				words = append(words, word)
			}
		}
		return strings.Join(words, " ")
	})
}
