// Package fuzz scores the textual similarity of two strings on a 0-100 scale.
//
// Three scorers are provided and mirror the familiar fuzzywuzzy family:
//
//   - Ratio compares the whole sequences.
//   - PartialRatio slides the shorter string over the longer one and keeps the best window.
//   - TokenSetRatio compares the sets of words, ignoring order and repetition.
//
// All scorers work on runes and are case sensitive; callers fold their input with Fold first.
package fuzz

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// Ratio returns 100 * 2*LCS / (len(a)+len(b)), where LCS is the longest common subsequence.
// This is the indel-distance normalisation: only insertions and deletions are counted.
// Empty input on either side scores 0.
func Ratio(a, b string) int {
	return ratioRunes([]rune(a), []rune(b))
}

// PartialRatio returns the best Ratio between the shorter string and every window of the
// longer string with the same length.
func PartialRatio(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}

	short, long := ra, rb
	if len(short) > len(long) {
		short, long = long, short
	}

	best := 0
	for i := 0; i+len(short) <= len(long); i++ {
		if score := ratioRunes(short, long[i:i+len(short)]); score > best {
			best = score
			if best == 100 {
				break
			}
		}
	}
	return best
}

// TokenSetRatio compares the word sets of a and b. The shared words are sorted and joined
// into a common prefix which is then compared with each side's full sorted word list.
// When one word set contains the other the score is 100.
func TokenSetRatio(a, b string) int {
	ta, tb := tokenSet(a), tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	var sect, onlyA, onlyB []string
	for tok := range ta {
		if tb[tok] {
			sect = append(sect, tok)
		} else {
			onlyA = append(onlyA, tok)
		}
	}
	for tok := range tb {
		if !ta[tok] {
			onlyB = append(onlyB, tok)
		}
	}

	sorted := func(toks []string) string {
		sort.Strings(toks)
		return strings.Join(toks, " ")
	}
	sectStr := sorted(sect)
	combinedA := strings.TrimSpace(sectStr + " " + sorted(onlyA))
	combinedB := strings.TrimSpace(sectStr + " " + sorted(onlyB))

	if sectStr != "" && (len(onlyA) == 0 || len(onlyB) == 0) {
		return 100
	}

	return max(
		Ratio(sectStr, combinedA),
		Ratio(sectStr, combinedB),
		Ratio(combinedA, combinedB),
	)
}

// Tokens splits s into words made of letters and digits.
func Tokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range Tokens(s) {
		set[tok] = true
	}
	return set
}

func ratioRunes(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	common := lcs(a, b)
	return int(math.Floor(100*float64(2*common)/float64(len(a)+len(b)) + 0.5))
}

// lcs returns the length of the longest common subsequence of a and b.
// Two rows are kept instead of the full matrix.
func lcs(a, b []rune) int {
	if len(a) > len(b) {
		a, b = b, a
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)

	for j := 1; j <= len(b); j++ {
		for i := 1; i <= len(a); i++ {
			if a[i-1] == b[j-1] {
				curr[i] = prev[i-1] + 1
			} else {
				curr[i] = max(prev[i], curr[i-1])
			}
		}
		prev, curr = curr, prev
	}

	return prev[len(a)]
}
