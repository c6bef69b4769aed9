package compose

import (
	"fmt"
	"strings"

	"github.com/TobiSchelling/SectionTrends/internal/analyze"
	"github.com/TobiSchelling/SectionTrends/internal/article"
)

// MaxHeadlines caps the headline list in a report.
const MaxHeadlines = 20

// Summary is everything a run report is composed from.
type Summary struct {
	Section     string
	BeginDate   string
	EndDate     string
	Source      string
	Periodicity analyze.Periodicity
	Articles    []article.Article
	Keywords    []analyze.KeywordCount
	Periods     []analyze.PeriodCount
}

// Report renders a run summary as markdown.
func Report(s Summary) string {
	var sections []string

	header := fmt.Sprintf("# %s: %s to %s\n\n%d articles from %s.",
		titleCase(s.Section), FormatQueryDate(s.BeginDate), FormatQueryDate(s.EndDate), len(s.Articles), s.Source)
	sections = append(sections, header)

	sections = append(sections, keywordSection(s.Keywords))
	sections = append(sections, periodSection(s.Periods, s.Periodicity))

	if len(s.Articles) > 0 {
		sections = append(sections, headlineSection(s.Articles))
	}

	return strings.Join(sections, "\n\n")
}

func keywordSection(counts []analyze.KeywordCount) string {
	if len(counts) == 0 {
		return "## Top Keywords\n\nNo keywords found."
	}
	lines := []string{
		fmt.Sprintf("## Top %d Keywords", len(counts)),
		"",
		"| Rank | Keyword | Count |",
		"|---:|---|---:|",
	}
	for i, c := range counts {
		lines = append(lines, fmt.Sprintf("| %d | %s | %d |", i+1, escapeCell(c.Keyword), c.Count))
	}
	return strings.Join(lines, "\n")
}

func periodSection(periods []analyze.PeriodCount, p analyze.Periodicity) string {
	lines := []string{
		fmt.Sprintf("## Articles Published (%s)", p.Title()),
		"",
		"| Period | Articles |",
		"|---|---:|",
	}
	for _, pc := range periods {
		lines = append(lines, fmt.Sprintf("| %s | %d |", pc.Label, pc.Count))
	}
	return strings.Join(lines, "\n")
}

func headlineSection(articles []article.Article) string {
	lines := []string{"## Headlines", ""}
	for i, a := range articles {
		if i == MaxHeadlines {
			lines = append(lines, fmt.Sprintf("- ...and %d more", len(articles)-MaxHeadlines))
			break
		}
		lines = append(lines, fmt.Sprintf("- %s (%s)", a.Headline, article.FormatDate(a.PubDate)))
	}
	return strings.Join(lines, "\n")
}

// FormatQueryDate turns YYYYMMDD into YYYY-MM-DD, leaving other input as is.
func FormatQueryDate(d string) string {
	if len(d) != 8 {
		return d
	}
	for _, r := range d {
		if r < '0' || r > '9' {
			return d
		}
	}
	return d[:4] + "-" + d[4:6] + "-" + d[6:]
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
