// Package index holds the tokenizer and posting types of the inverted
// term-frequency index.
package index

import (
	"regexp"
	"sort"
	"strings"
)

// wordRegex matches runs of at least two word characters; hashtagRegex the
// same with a leading '#'. Anything shorter than two word characters is
// dropped.
var (
	wordRegex    = regexp.MustCompile(`\w\w+`)
	hashtagRegex = regexp.MustCompile(`#\w\w+`)
)

// TermCount is one distinct term with its occurrence count in a document.
type TermCount struct {
	Term  string
	Count int
}

// Tokenize lower-cases the text and returns its distinct terms with counts,
// sorted by term so the output is deterministic. Each hashtag contributes two
// terms: the '#'-prefixed hashtag itself and its body as a plain word, so
// hashtag content stays reachable by word search. Empty or unmatchable input
// yields an empty slice.
func Tokenize(text string) []TermCount {
	lowered := strings.ToLower(text)
	counts := make(map[string]int)
	for _, tok := range wordRegex.FindAllString(lowered, -1) {
		counts[tok]++
	}
	for _, tok := range hashtagRegex.FindAllString(lowered, -1) {
		counts[tok]++
	}

	out := make([]TermCount, 0, len(counts))
	for term, n := range counts {
		out = append(out, TermCount{Term: term, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Term < out[j].Term })
	return out
}

// SearchTokens tokenizes a query and partitions the distinct terms into plain
// words and hashtag terms (which keep their '#'). Unlike Tokenize, a
// hashtag's body does not double as a word here: a hashtag query term is a
// pure membership filter. Both slices are sorted and empty when nothing
// tokenizes.
func SearchTokens(text string) (words, hashtags []string) {
	lowered := strings.ToLower(text)

	seenTags := make(map[string]bool)
	for _, tok := range hashtagRegex.FindAllString(lowered, -1) {
		if !seenTags[tok] {
			seenTags[tok] = true
			hashtags = append(hashtags, tok)
		}
	}

	seenWords := make(map[string]bool)
	stripped := hashtagRegex.ReplaceAllString(lowered, " ")
	for _, tok := range wordRegex.FindAllString(stripped, -1) {
		if !seenWords[tok] {
			seenWords[tok] = true
			words = append(words, tok)
		}
	}

	sort.Strings(words)
	sort.Strings(hashtags)
	return words, hashtags
}
