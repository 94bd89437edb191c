package services

import (
	"sort"
	"strings"

	"github.com/jdkato/prose/v2"
)

// KeywordExtractor pulls the salient terms out of a query for retrieval
// diagnostics. Nouns and proper nouns weigh more than adjectives; named
// entities get a boost.
type KeywordExtractor struct {
	minLength int
	stopWords map[string]bool
}

type keywordCandidate struct {
	word  string
	score float64
	order int
}

// NewKeywordExtractor creates an extractor with default English stopwords
func NewKeywordExtractor() *KeywordExtractor {
	stopWords := map[string]bool{
		"the": true, "a": true, "an": true, "and": true, "or": true,
		"but": true, "is": true, "are": true, "was": true, "were": true,
		"in": true, "on": true, "at": true, "to": true, "for": true,
		"of": true, "with": true, "by": true, "from": true, "about": true,
		"what": true, "which": true, "who": true, "when": true, "where": true,
		"how": true, "why": true, "this": true, "that": true, "these": true,
		"those": true, "it": true, "its": true, "be": true, "been": true,
		"do": true, "does": true, "did": true, "can": true, "could": true,
		"will": true, "would": true, "should": true, "there": true,
	}

	return &KeywordExtractor{
		minLength: 3,
		stopWords: stopWords,
	}
}

// ExtractKeywords returns the ranked keywords of the given text
func (ke *KeywordExtractor) ExtractKeywords(text string) ([]string, error) {
	doc, err := prose.NewDocument(text)
	if err != nil {
		return nil, err
	}

	candidates := make(map[string]*keywordCandidate)
	order := 0

	for _, tok := range doc.Tokens() {
		word := strings.ToLower(tok.Text)
		if len(word) < ke.minLength || ke.stopWords[word] {
			continue
		}

		score := ke.tagScore(tok.Tag)
		if score == 0 {
			continue
		}

		if existing, ok := candidates[word]; ok {
			existing.score += score
		} else {
			candidates[word] = &keywordCandidate{word: word, score: score, order: order}
			order++
		}
	}

	// Named entities outrank plain tokens
	for _, ent := range doc.Entities() {
		word := strings.ToLower(ent.Text)
		if len(word) < ke.minLength || ke.stopWords[word] {
			continue
		}
		if existing, ok := candidates[word]; ok {
			existing.score += 2.0
		} else {
			candidates[word] = &keywordCandidate{word: word, score: 2.0, order: order}
			order++
		}
	}

	ranked := make([]*keywordCandidate, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, c)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].order < ranked[j].order
	})

	keywords := make([]string, len(ranked))
	for i, c := range ranked {
		keywords[i] = c.word
	}
	return keywords, nil
}

// tagScore weighs a Penn Treebank POS tag for keyword ranking
func (ke *KeywordExtractor) tagScore(tag string) float64 {
	switch {
	case strings.HasPrefix(tag, "NNP"):
		return 3.0
	case strings.HasPrefix(tag, "NN"):
		return 2.0
	case strings.HasPrefix(tag, "JJ"):
		return 1.0
	case strings.HasPrefix(tag, "VB"):
		return 0.5
	default:
		return 0
	}
}
