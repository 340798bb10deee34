package skills

import (
	"strings"
	"unicode"
)

// mineStopWords filters common words that would otherwise fuzzy-match catalog
// names by accident.
var mineStopWords = map[string]bool{
	"and": true, "the": true, "for": true, "with": true, "you": true,
	"are": true, "have": true, "will": true, "this": true, "that": true,
	"from": true, "our": true, "your": true, "their": true, "they": true,
	"work": true, "team": true, "role": true, "job": true, "join": true,
	"about": true, "which": true, "what": true, "who": true, "how": true,
	"can": true, "not": true, "but": true, "all": true, "also": true,
	"more": true, "than": true, "into": true, "has": true, "its": true,
	"was": true, "were": true, "been": true, "each": true, "new": true,
	"use": true, "using": true, "used": true, "well": true, "high": true,
	"good": true, "able": true, "get": true, "set": true, "such": true,
	"a": true, "an": true, "i": true, "in": true, "on": true, "at": true,
	"of": true, "to": true, "my": true, "as": true, "by": true, "or": true,
}

// MineText tokenizes resume text into candidate skill mentions, lowercased
// and deduplicated in first-seen order. Tech suffixes like "c++", "c#" and
// "node.js" survive tokenization because + # . count as word characters.
// The output is meant to be fed through Normalizer.NormalizeAll; anything the
// catalog does not recognise is dropped there.
func MineText(text string) []string {
	var mentions []string
	seen := make(map[string]bool)

	var word strings.Builder
	flush := func() {
		w := strings.TrimRight(word.String(), ".")
		word.Reset()
		if w == "" || mineStopWords[w] || seen[w] {
			return
		}
		seen[w] = true
		mentions = append(mentions, w)
	}

	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' || r == '.' {
			word.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return mentions
}
