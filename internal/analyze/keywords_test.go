package analyze

import (
	"fmt"
	"testing"
	"time"

	"github.com/TobiSchelling/SectionTrends/internal/article"
)

func art(date string, keywords ...string) article.Article {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return article.Article{Headline: "h", PubDate: d, Keywords: keywords}
}

func TestTopKeywordsSharedKeyword(t *testing.T) {
	var articles []article.Article
	for i := 0; i < 12; i++ {
		articles = append(articles, art("2024-01-01", "Artificial Intelligence", fmt.Sprintf("Unique %d", i)))
	}

	top := TopKeywords(articles, 5)
	if len(top) != 5 {
		t.Fatalf("expected 5 keywords, got %d", len(top))
	}
	if top[0].Keyword != "Artificial Intelligence" || top[0].Count != 12 {
		t.Errorf("expected Artificial Intelligence x12 first, got %+v", top[0])
	}
	for i, kc := range top[1:] {
		if kc.Count != 1 {
			t.Errorf("entry %d: expected count 1, got %d", i+1, kc.Count)
		}
		// Ties keep first-seen order.
		if want := fmt.Sprintf("Unique %d", i); kc.Keyword != want {
			t.Errorf("entry %d: expected %q, got %q", i+1, want, kc.Keyword)
		}
	}
}

func TestTopKeywordsProperties(t *testing.T) {
	articles := []article.Article{
		art("2024-01-01", "a", "b", "c"),
		art("2024-01-02", "b", "c"),
		art("2024-01-03", "c"),
		art("2024-01-04"),
		art("2024-01-05", "d", "a", "c"),
	}
	total := TotalKeywords(articles)

	for n := 1; n <= 6; n++ {
		top := TopKeywords(articles, n)

		wantLen := n
		if wantLen > 4 {
			wantLen = 4
		}
		if len(top) != wantLen {
			t.Errorf("n=%d: expected length %d, got %d", n, wantLen, len(top))
		}

		sum := 0
		for i, kc := range top {
			sum += kc.Count
			if i > 0 && top[i-1].Count < kc.Count {
				t.Errorf("n=%d: not sorted descending at %d: %+v", n, i, top)
			}
		}
		if sum > total {
			t.Errorf("n=%d: sum %d exceeds total %d", n, sum, total)
		}
	}

	top := TopKeywords(articles, 2)
	if top[0].Keyword != "c" || top[0].Count != 4 {
		t.Errorf("expected c x4, got %+v", top[0])
	}
	// a and b both appear twice; a was seen first.
	if top[1].Keyword != "a" || top[1].Count != 2 {
		t.Errorf("expected a x2, got %+v", top[1])
	}
}

func TestTopKeywordsDefaultN(t *testing.T) {
	articles := []article.Article{art("2024-01-01", "a", "b", "c", "d", "e", "f", "g")}
	if got := len(TopKeywords(articles, 0)); got != DefaultTopN {
		t.Errorf("expected %d keywords, got %d", DefaultTopN, got)
	}
}

func TestTopKeywordsEmpty(t *testing.T) {
	if got := TopKeywords(nil, 5); len(got) != 0 {
		t.Errorf("expected no keywords, got %v", got)
	}
	if MaxCount(nil) != 0 {
		t.Error("expected max count 0")
	}
}
