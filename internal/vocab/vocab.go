// Package vocab builds word-frequency tables from the French text of
// processed sections, for the learner-facing vocabulary views.
package vocab

import (
	"strings"
	"sync"
	"unicode"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/lang/fr"
)

// one row of a frequency table
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Counter accumulates word frequencies, remembering first-encounter order
// so ranking can break ties stably.
type Counter struct {
	counts map[string]int
	order  []string
}

func NewCounter() *Counter {
	return &Counter{counts: make(map[string]int)}
}

func (c *Counter) Add(word string) {
	if _, seen := c.counts[word]; !seen {
		c.order = append(c.order, word)
	}
	c.counts[word]++
}

func (c *Counter) Count(word string) int {
	return c.counts[word]
}

func (c *Counter) Len() int {
	return len(c.counts)
}

// Counts returns a copy of the underlying frequency map.
func (c *Counter) Counts() map[string]int {
	out := make(map[string]int, len(c.counts))
	for w, n := range c.counts {
		out[w] = n
	}
	return out
}

// Ranked returns the table sorted by descending frequency; ties keep
// first-encounter order.
func (c *Counter) Ranked() []WordCount {
	ranked := make([]WordCount, 0, len(c.order))
	for _, w := range c.order {
		ranked = append(ranked, WordCount{Word: w, Count: c.counts[w]})
	}
	// insertion sort keeps the scan stable; tables stay small
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0 && ranked[j].Count > ranked[j-1].Count; j-- {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
		}
	}
	return ranked
}

var (
	stopOnce  sync.Once
	stopWords analysis.TokenMap
)

// frenchStopwords loads bleve's French stopword list once per process.
func frenchStopwords() analysis.TokenMap {
	stopOnce.Do(func() {
		stopWords = analysis.NewTokenMap()
		_ = stopWords.LoadBytes(fr.FrenchStopWords)
	})
	return stopWords
}

// Extract tokenizes the given texts on whitespace and counts every
// lowercase token that is purely alphabetic, not a French stopword, and
// not in the caller's exclusion set.
func Extract(texts []string, excluded map[string]bool) *Counter {
	stop := frenchStopwords()
	counter := NewCounter()

	for _, text := range texts {
		for _, token := range strings.Fields(text) {
			word := strings.ToLower(token)
			if !isAlphabetic(word) {
				continue
			}
			if _, isStop := stop[word]; isStop {
				continue
			}
			if excluded[word] {
				continue
			}
			counter.Add(word)
		}
	}

	return counter
}

// ParseFilterWords turns free-text user input (comma- or newline-
// separated) into a lowercase exclusion set.
func ParseFilterWords(input string) map[string]bool {
	words := make(map[string]bool)
	for _, line := range strings.Split(input, "\n") {
		for _, field := range strings.Split(line, ",") {
			w := strings.ToLower(strings.TrimSpace(field))
			if w != "" {
				words[w] = true
			}
		}
	}
	return words
}

func isAlphabetic(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
