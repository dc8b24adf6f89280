// Package analyzer contains the pure text-analysis functions shared by every
// provider adapter: mention extraction, sentiment scoring, and confidence
// scoring. Everything here is deterministic given its inputs and never blocks —
// there's no I/O, no clocks, no shared state. That's what makes the adapters
// easy to test: the only hard-to-test part of an adapter is the network call.
package analyzer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// NeutralConfidence is returned when a query tracks no keywords — with nothing
// to match, mention density is meaningless and we report a fixed midpoint.
const NeutralConfidence = 0.5

// ExtractMentions returns the sentences of response that contain at least one
// of the tracked keywords, matched case-insensitively as substrings.
//
// Sentences are delimited by '.', '!' and '?'. Duplicate keywords are ignored
// at match time, and a sentence matched by several keywords appears only once,
// at its first-seen position. An empty keyword list yields no mentions.
func ExtractMentions(response string, keywords []string) []string {
	if len(keywords) == 0 {
		return nil
	}

	sentences := splitSentences(response)
	lowered := make([]string, len(sentences))
	for i, s := range sentences {
		lowered[i] = strings.ToLower(s)
	}

	// Go doesn't have a built-in Set type — map[string]struct{} is the idiom
	// (struct{} takes zero bytes). One set dedupes keywords, one dedupes
	// matched sentences so multi-keyword hits don't repeat.
	seenKeywords := make(map[string]struct{}, len(keywords))
	seenSentences := make(map[string]struct{})

	var mentions []string
	for _, kw := range keywords {
		k := strings.ToLower(strings.TrimSpace(kw))
		if k == "" {
			continue
		}
		if _, dup := seenKeywords[k]; dup {
			continue
		}
		seenKeywords[k] = struct{}{}

		for i, sentence := range sentences {
			if !strings.Contains(lowered[i], k) {
				continue
			}
			if _, dup := seenSentences[sentence]; dup {
				continue
			}
			seenSentences[sentence] = struct{}{}
			mentions = append(mentions, sentence)
		}
	}

	return mentions
}

// positiveLexicon and negativeLexicon are the fixed word lists sentiment
// scoring tallies against. Matching is whole-word and case-insensitive, so
// "excellent" hits but "excellently" does not.
var positiveLexicon = map[string]struct{}{
	"excellent":   {},
	"great":       {},
	"good":        {},
	"best":        {},
	"leading":     {},
	"leader":      {},
	"innovative":  {},
	"trusted":     {},
	"reliable":    {},
	"strong":      {},
	"popular":     {},
	"outstanding": {},
	"impressive":  {},
	"recommended": {},
	"successful":  {},
}

var negativeLexicon = map[string]struct{}{
	"bad":           {},
	"poor":          {},
	"terrible":      {},
	"awful":         {},
	"weak":          {},
	"worst":         {},
	"unreliable":    {},
	"disappointing": {},
	"failing":       {},
	"failure":       {},
	"decline":       {},
	"declining":     {},
	"lawsuit":       {},
	"scandal":       {},
	"overpriced":    {},
}

// ScoreSentiment computes a continuous sentiment score in [-1, 1] from the
// fixed lexicons: +1 means only positive words appeared, -1 only negative,
// 0 means a tie or no lexicon hits at all.
//
// The score stays continuous internally; model.SentimentLabel derives the
// positive/neutral/negative category at presentation time.
func ScoreSentiment(response string) float64 {
	var pos, neg int
	for _, word := range tokenize(response) {
		if _, ok := positiveLexicon[word]; ok {
			pos++
		}
		if _, ok := negativeLexicon[word]; ok {
			neg++
		}
	}

	total := pos + neg
	if total == 0 {
		return 0
	}
	return float64(pos-neg) / float64(total)
}

// ScoreConfidence derives a confidence value in [0, 1] from mention density:
// mentions per 100 characters of response, scaled by 0.4 on top of a 0.5
// floor. Zero mentions with keywords present is exactly 0.5; no keywords at
// all short-circuits to NeutralConfidence.
func ScoreConfidence(response string, keywords []string) float64 {
	if len(keywords) == 0 {
		return NeutralConfidence
	}

	mentionCount := len(ExtractMentions(response, keywords))

	// Guard against tiny responses inflating density: the denominator is at
	// least one "hundred-character unit" regardless of actual length.
	// Characters, not bytes — multi-byte runes shouldn't deflate density.
	units := float64(utf8.RuneCountInString(response)) / 100
	if units < 1 {
		units = 1
	}
	density := float64(mentionCount) / units

	confidence := 0.5 + density*0.4
	if confidence > 1 {
		return 1
	}
	if confidence < 0 {
		return 0
	}
	return confidence
}

// splitSentences breaks text on sentence terminators and trims the pieces.
// Empty fragments (e.g. from "?!" or trailing periods) are dropped.
func splitSentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	sentences := parts[:0]
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// tokenize splits text into lowercase words for word-boundary lexicon
// matching. Anything that isn't a letter or digit is a boundary.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
