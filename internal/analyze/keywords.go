package analyze

import (
	"sort"

	"github.com/TobiSchelling/SectionTrends/internal/article"
)

// DefaultTopN is the number of keywords returned when none is requested.
const DefaultTopN = 5

// KeywordCount is a keyword with its number of occurrences.
type KeywordCount struct {
	Keyword string
	Count   int
}

// CountKeywords flattens every article's keywords and counts occurrences.
// The result is in first-seen order.
func CountKeywords(articles []article.Article) []KeywordCount {
	index := make(map[string]int)
	var counts []KeywordCount
	for _, a := range articles {
		for _, kw := range a.Keywords {
			if i, ok := index[kw]; ok {
				counts[i].Count++
				continue
			}
			index[kw] = len(counts)
			counts = append(counts, KeywordCount{Keyword: kw, Count: 1})
		}
	}
	return counts
}

// TopKeywords returns the n most frequent keywords, highest count first.
// Equal counts keep the order in which the keywords were first seen.
func TopKeywords(articles []article.Article, n int) []KeywordCount {
	if n <= 0 {
		n = DefaultTopN
	}
	counts := CountKeywords(articles)
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// TotalKeywords returns the number of keyword occurrences across all articles.
func TotalKeywords(articles []article.Article) int {
	var total int
	for _, a := range articles {
		total += len(a.Keywords)
	}
	return total
}

// MaxCount returns the largest count in counts, or 0 if empty.
func MaxCount(counts []KeywordCount) int {
	var m int
	for _, c := range counts {
		if c.Count > m {
			m = c.Count
		}
	}
	return m
}
