package intent

import (
	"unicode/utf8"

	"cantina-chat/internal/xpkg/fuzz"
)

// IsSimilar reports whether text is close enough to any of the reference phrases: the best of
// the full ratio, the partial ratio and the token set ratio meets threshold for some pattern.
// Both sides are folded (lower case, no accents) before scoring; threshold is on a 0-100 scale.
func IsSimilar(text string, patterns []string, threshold int) bool {
	folded := fuzz.Fold(text)
	for _, p := range patterns {
		if score(folded, fuzz.Fold(p)) >= threshold {
			return true
		}
	}
	return false
}

// BestScore returns the highest score of text against patterns, 0 for an empty set.
func BestScore(text string, patterns []string) int {
	return bestScore(fuzz.Fold(text), patterns, 0)
}

// MentionsAny reports whether text names one of the catalog items, so "suco" mentions
// "suco de laranja".
func MentionsAny(text string, names []string, threshold int) bool {
	return IsSimilar(text, names, threshold)
}

// score is the best of the three scorers.
func score(text, pattern string) int {
	return scoreWithin(text, pattern, 0)
}

// scoreWithin is score with the partial ratio left out when the shorter side has fewer than
// minPartial runes. Two letters slid along a long phrase match almost anything.
func scoreWithin(text, pattern string, minPartial int) int {
	if text == "" || pattern == "" {
		return 0
	}
	best := max(fuzz.Ratio(text, pattern), fuzz.TokenSetRatio(text, pattern))
	if min(utf8.RuneCountInString(text), utf8.RuneCountInString(pattern)) >= minPartial {
		best = max(best, fuzz.PartialRatio(text, pattern))
	}
	return best
}

func bestScore(folded string, patterns []string, minPartial int) int {
	best := 0
	for _, p := range patterns {
		if s := scoreWithin(folded, fuzz.Fold(p), minPartial); s > best {
			best = s
			if best == 100 {
				break
			}
		}
	}
	return best
}

// bestRatio is the highest whole phrase ratio of folded against patterns.
func bestRatio(folded string, patterns []string) int {
	best := 0
	for _, p := range patterns {
		best = max(best, fuzz.Ratio(folded, fuzz.Fold(p)))
	}
	return best
}
