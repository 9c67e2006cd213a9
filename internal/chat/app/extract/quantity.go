package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"cantina-chat/internal/chat/app/core"
	"cantina-chat/internal/chat/domain/models"
	"cantina-chat/internal/xpkg/fuzz"
)

// NameThreshold is the word set score above which a catalog name counts as mentioned
// even when it is not written literally ("paes de queijo" for "pao de queijo").
const NameThreshold = 75

var numberWords = map[string]int{
	"um": 1, "uma": 1, "one": 1,
	"dois": 2, "duas": 2, "two": 2,
	"tres": 3, "three": 3,
	"quatro": 4, "four": 4,
	"cinco": 5, "five": 5,
	"seis": 6, "six": 6,
	"sete": 7, "seven": 7,
	"oito": 8, "eight": 8,
	"nove": 9, "nine": 9,
	"dez": 10, "ten": 10,
}

var (
	quantityRe  = regexp.MustCompile(`\b(?:x\s*)?(\d+)(?:\s*x)?\b|\b(` + wordAlternation() + `)\b`)
	separatorRe = regexp.MustCompile(`,|;|\+|\be\b|\band\b|\bcom\b|\bmais\b`)
	wordRe      = regexp.MustCompile(`[\p{L}\p{N}]+`)
)

// Longest words first so "dois" is never read as "do" + something.
func wordAlternation() string {
	words := make([]string, 0, len(numberWords))
	for w := range numberWords {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if len(words[i]) != len(words[j]) {
			return len(words[i]) > len(words[j])
		}
		return words[i] < words[j]
	})
	return strings.Join(words, "|")
}

// Extracted is one catalog item found in a message with its quantity.
type Extracted struct {
	Item     models.CatalogItem
	Quantity int
}

type hit struct {
	pos int
	Extracted
}

// Extract finds the catalog items named in message and the quantity written next to each.
//
// Names are tried longest first against the folded message. Once an item is found its name and
// its quantity token are blanked out of the working text, so a number is never counted for two
// items and a shorter name cannot match inside a longer one already taken. Each catalog name is
// returned at most once, in the order the items appear in the message.
func Extract(message string, catalog []models.CatalogItem) []Extracted {
	text := fuzz.Fold(message)
	if text == "" || len(catalog) == 0 {
		return nil
	}

	items := make([]models.CatalogItem, 0, len(catalog))
	for _, item := range catalog {
		if strings.TrimSpace(item.Name) != "" {
			items = append(items, item)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return len(fuzz.Fold(items[i].Name)) > len(fuzz.Fold(items[j].Name))
	})

	var hits []hit
	seen := make(map[string]bool)
	for _, item := range items {
		name := fuzz.Fold(item.Name)
		if seen[name] {
			continue
		}
		if !strings.Contains(text, name) && fuzz.TokenSetRatio(text, name) < NameThreshold {
			continue
		}
		start, end, ok := locate(text, name)
		if !ok {
			continue
		}

		qty := 1
		if qStart, qEnd, n, found := findQuantity(text, start, end); found {
			qty = n
			text = blank(text, qStart, qEnd)
		}
		text = blank(text, start, end)

		seen[name] = true
		hits = append(hits, hit{pos: start, Extracted: Extracted{Item: item, Quantity: qty}})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })
	out := make([]Extracted, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.Extracted)
	}
	return out
}

// locate returns the span of name in text. A name matched only by word overlap spans the longest
// run of adjacent message words that are close to one of its words, so "sucos de laranja" is
// taken whole for "suco de laranja" and no plural is left behind for a shorter name.
func locate(text, name string) (int, int, bool) {
	if i := strings.Index(text, name); i >= 0 {
		return i, i + len(name), true
	}

	nameWords := fuzz.Tokens(name)
	bestStart, bestEnd, bestCover := -1, -1, 0
	runStart := -1
	var covered map[string]bool
	for _, loc := range wordRe.FindAllStringIndex(text, -1) {
		nw, ok := closestWord(text[loc[0]:loc[1]], nameWords)
		if !ok {
			runStart = -1
			continue
		}
		if runStart < 0 {
			runStart = loc[0]
			covered = make(map[string]bool)
		}
		covered[nw] = true
		if len(covered) > bestCover {
			bestStart, bestEnd, bestCover = runStart, loc[1], len(covered)
		}
	}
	if bestStart < 0 {
		return 0, 0, false
	}
	return bestStart, bestEnd, true
}

// closestWord returns the name word that word spells, exactly or within NameThreshold.
func closestWord(word string, nameWords []string) (string, bool) {
	best, bestScore := "", 0
	for _, nw := range nameWords {
		if word == nw {
			return nw, true
		}
		if s := fuzz.Ratio(word, nw); s >= NameThreshold && s > bestScore {
			best, bestScore = nw, s
		}
	}
	return best, bestScore > 0
}

// findQuantity looks for a quantity token ("2", "2x", "x2", "dois") within QuantityWindow bytes
// of the item span. The closest token before the item wins, else the first one after it. A token
// separated from the item by a list separator ("," "e" "and" ...) belongs to another item and is
// skipped. The returned span covers the whole token, "x" included.
func findQuantity(text string, start, end int) (qStart, qEnd, qty int, found bool) {
	lo := max(0, start-core.QuantityWindow)
	hi := min(len(text), end+core.QuantityWindow)

	beforeFound, afterFound := false, false
	var before, after [3]int
	for _, m := range quantityRe.FindAllStringSubmatchIndex(text, -1) {
		s, e := m[0], m[1]
		if s < lo || e > hi {
			continue
		}
		var token string
		switch {
		case m[2] >= 0:
			token = text[m[2]:m[3]]
		case m[4] >= 0:
			token = text[m[4]:m[5]]
		}
		n, ok := parseQuantity(token)
		if !ok {
			continue
		}
		switch {
		case e <= start:
			if !separatorRe.MatchString(text[e:start]) {
				before, beforeFound = [3]int{s, e, n}, true
			}
		case s >= end && !afterFound:
			if !separatorRe.MatchString(text[end:s]) {
				after, afterFound = [3]int{s, e, n}, true
			}
		}
	}

	switch {
	case beforeFound:
		return before[0], before[1], before[2], true
	case afterFound:
		return after[0], after[1], after[2], true
	}
	return 0, 0, 0, false
}

func parseQuantity(token string) (int, bool) {
	if n, ok := numberWords[token]; ok {
		return n, true
	}
	n, err := strconv.Atoi(token)
	if err != nil || n <= 0 || n > core.MaxItemQuantity {
		return 0, false
	}
	return n, true
}

func blank(text string, start, end int) string {
	return text[:start] + strings.Repeat(" ", end-start) + text[end:]
}
