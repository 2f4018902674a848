package core

import (
	"strings"

	"github.com/phasetrack/phasetrack/pkg/models"
)

// RelevanceScorer scores how related two tasks are. Higher is more
// related; zero means unrelated. Implementations must be pure so ranking
// stays deterministic for a fixed task set.
type RelevanceScorer interface {
	Score(a, b *models.Task) float64
}

// stopwords are tokens too common to signal relatedness.
var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "from": true,
	"that": true, "this": true, "into": true, "all": true, "add": true,
	"new": true, "task": true, "implement": true, "create": true,
	"update": true, "support": true, "using": true,
}

// lexicalScorer scores tasks by shared significant tokens between their
// IDs and descriptions. Tokens shared by both IDs count double, since task
// IDs tend to encode the component being worked on.
type lexicalScorer struct{}

// NewLexicalScorer creates the default RelevanceScorer.
func NewLexicalScorer() RelevanceScorer {
	return &lexicalScorer{}
}

func (s *lexicalScorer) Score(a, b *models.Task) float64 {
	aID := tokenize(a.ID)
	bID := tokenize(b.ID)
	aAll := union(aID, tokenize(a.Description))
	bAll := union(bID, tokenize(b.Description))

	var score float64
	for tok := range aAll {
		if !bAll[tok] {
			continue
		}
		if aID[tok] && bID[tok] {
			score += 2
		} else {
			score++
		}
	}
	return score
}

// tokenize lowercases the text and splits it on non-alphanumeric runes,
// dropping stopwords and tokens shorter than three characters.
func tokenize(text string) map[string]bool {
	tokens := make(map[string]bool)
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
	for _, f := range fields {
		if len(f) < 3 || stopwords[f] {
			continue
		}
		tokens[f] = true
	}
	return tokens
}

func union(a, b map[string]bool) map[string]bool {
	out := make(map[string]bool, len(a)+len(b))
	for t := range a {
		out[t] = true
	}
	for t := range b {
		out[t] = true
	}
	return out
}
