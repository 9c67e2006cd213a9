package intent

import (
	"cantina-chat/internal/chat/domain/models"
	"cantina-chat/internal/xpkg/fuzz"
)

type Intent string

const (
	History     Intent = "history"
	Cancel      Intent = "cancel_order"
	OrderStatus Intent = "order_status"
	Finalize    Intent = "finalize_order"
	OrderItems  Intent = "order_items"
	Greeting    Intent = "greeting"
	Thanks      Intent = "thanks"
	Menu        Intent = "menu"
	Fallback    Intent = "fallback"
)

// CatalogThreshold is the score a catalog name needs for a message to count as an item mention.
const CatalogThreshold = 80

// Rule is one entry of the priority list.
//
// A rule matches when the message scores at least Threshold against one of its Patterns, or when
// Match (optional) reports true. A matching rule still steps aside when one of the DefersTo
// intents scores higher on the same message, so "cancelar meu pedido" is a cancel and not a
// status query even though both pattern sets score. On equal scores the rule whose closest
// phrase is nearer to the whole message wins, which makes "fechar meu pedido" a finalize.
//
// MinPartialRunes keeps the partial ratio out of this rule's score for messages or patterns
// shorter than that many runes.
type Rule struct {
	Intent          Intent
	Threshold       int
	Patterns        []string
	DefersTo        []Intent
	MinPartialRunes int
	Match           func(text string, catalogNames []string) bool
}

// DefaultRules is the evaluation order used by the assistant. Stateful and destructive intents
// come before the broad item detector, history before status.
func DefaultRules() []Rule {
	return []Rule{
		{Intent: History, Threshold: 75, Patterns: historyPatterns, DefersTo: []Intent{OrderStatus, Cancel}},
		{Intent: Cancel, Threshold: 75, Patterns: cancelPatterns, DefersTo: []Intent{OrderStatus}},
		{Intent: OrderStatus, Threshold: 75, Patterns: statusPatterns, DefersTo: []Intent{Finalize}},
		{Intent: Finalize, Threshold: 75, Patterns: finalizePatterns},
		{Intent: OrderItems, Threshold: 70, Patterns: orderPatterns, Match: mentionsCatalogItem},
		{Intent: Greeting, Threshold: 75, Patterns: greetingPatterns, MinPartialRunes: 3},
		{Intent: Thanks, Threshold: 80, Patterns: thanksPatterns},
		{Intent: Menu, Threshold: 70, Patterns: menuPatterns},
	}
}

func mentionsCatalogItem(text string, names []string) bool {
	return len(names) > 0 && MentionsAny(text, names, CatalogThreshold)
}

// Classifier picks exactly one intent per message. It holds no per-user state.
type Classifier struct {
	rules    []Rule
	byIntent map[Intent]Rule
}

func NewClassifier(rules []Rule) *Classifier {
	byIntent := make(map[Intent]Rule, len(rules))
	for _, r := range rules {
		byIntent[r.Intent] = r
	}
	return &Classifier{rules: rules, byIntent: byIntent}
}

// Rules returns the rules in evaluation order.
func (c *Classifier) Rules() []Rule {
	return c.rules
}

// Classify returns the intent of text. A message that is exactly one of a rule's phrases goes to
// the first such rule. Otherwise the rules are walked in order and the first one that matches and
// is not outscored by a rule it defers to wins. Nothing matching yields Fallback.
func (c *Classifier) Classify(text string, catalog []models.CatalogItem) Intent {
	folded := fuzz.Fold(text)
	if r, ok := c.exact(folded); ok {
		return r.Intent
	}

	names := catalogNames(catalog)
	for _, r := range c.rules {
		if !r.matches(folded, names) {
			continue
		}
		if c.outscored(r, folded) {
			continue
		}
		return r.Intent
	}
	return Fallback
}

func (c *Classifier) exact(folded string) (Rule, bool) {
	if folded == "" {
		return Rule{}, false
	}
	for _, r := range c.rules {
		for _, p := range r.Patterns {
			if fuzz.Fold(p) == folded {
				return r, true
			}
		}
	}
	return Rule{}, false
}

func (r Rule) score(folded string) int {
	return bestScore(folded, r.Patterns, r.MinPartialRunes)
}

func (r Rule) matches(folded string, names []string) bool {
	if r.Match != nil && r.Match(folded, names) {
		return true
	}
	return len(r.Patterns) > 0 && r.score(folded) >= r.Threshold
}

func (c *Classifier) outscored(r Rule, folded string) bool {
	if len(r.DefersTo) == 0 {
		return false
	}
	own := r.score(folded)
	for _, intent := range r.DefersTo {
		other, ok := c.byIntent[intent]
		if !ok {
			continue
		}
		switch s := other.score(folded); {
		case s > own:
			return true
		case s == own && bestRatio(folded, other.Patterns) > bestRatio(folded, r.Patterns):
			return true
		}
	}
	return false
}

func catalogNames(catalog []models.CatalogItem) []string {
	names := make([]string, 0, len(catalog))
	for _, item := range catalog {
		if item.Name != "" {
			names = append(names, item.Name)
		}
	}
	return names
}
