package handlers

import (
	"fmt"
	"strings"
)

const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// closingPhraseVariants lists the accepted phrasings of the goodbye line
// the persona is instructed to end calls with. Punctuation and spacing
// differences are handled by normalizeForMatch; a model that rewords the
// phrase beyond these variants will not trigger hangup.
func closingPhraseVariants(companyName string) []string {
	return []string{
		fmt.Sprintf("დიდი მადლობა ზარისთვის %s-ში ნახვამდის!", companyName),
		fmt.Sprintf("დიდი მადლობა ზარისთვის %s-ში. ნახვამდის!", companyName),
		fmt.Sprintf("დიდი მადლობა ზარისთვის %s ნახვამდის!", companyName),
	}
}

// normalizeForMatch lowercases, strips punctuation, and collapses
// whitespace so end-call detection survives formatting drift.
func normalizeForMatch(s string) string {
	s = strings.ToLower(s)
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(asciiPunctuation, r) {
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

func shouldEndCall(finalResponse, companyName string) bool {
	normalized := normalizeForMatch(finalResponse)
	if normalized == "" {
		return false
	}
	for _, variant := range closingPhraseVariants(companyName) {
		if strings.Contains(normalized, normalizeForMatch(variant)) {
			return true
		}
	}
	return false
}
