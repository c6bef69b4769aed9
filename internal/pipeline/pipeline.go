package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"gonum.org/v1/plot"

	"github.com/TobiSchelling/SectionTrends/internal/analyze"
	"github.com/TobiSchelling/SectionTrends/internal/article"
	"github.com/TobiSchelling/SectionTrends/internal/chart"
	"github.com/TobiSchelling/SectionTrends/internal/collect"
	"github.com/TobiSchelling/SectionTrends/internal/compose"
	"github.com/TobiSchelling/SectionTrends/internal/config"
	"github.com/TobiSchelling/SectionTrends/internal/database"
	"github.com/TobiSchelling/SectionTrends/internal/prompt"
)

// File names inside a run directory.
const (
	KeywordChartFile  = "keywords.png"
	TimelineChartFile = "timeline.png"
	ReportFile        = "report.md"
)

// Options pre-answer the interactive prompts. Empty fields are asked for.
type Options struct {
	Section     string
	BeginDate   string
	EndDate     string
	Periodicity string
	TopN        int
}

// Result holds the outcome of a run.
type Result struct {
	Section       string
	Articles      int
	Keywords      []analyze.KeywordCount
	Periodicity   analyze.Periodicity
	Periods       []analyze.PeriodCount
	Dir           string
	KeywordChart  string
	TimelineChart string
	RunID         int64
}

// Empty reports whether the run stopped because no articles were found.
func (r *Result) Empty() bool {
	return r.Articles == 0
}

// Pipeline drives one run: fetch, extract, analyze, chart, record.
type Pipeline struct {
	cfg    *config.Config
	source collect.Source
	db     *database.DB
	ui     *prompt.Prompter

	// OpenChart shows a rendered chart. Defaults to chart.Open.
	OpenChart func(path string) error
	// Now stamps run directories. Defaults to time.Now.
	Now func() time.Time
}

// New creates a pipeline. db may be nil to skip recording run history.
func New(cfg *config.Config, source collect.Source, db *database.DB, ui *prompt.Prompter) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		source:    source,
		db:        db,
		ui:        ui,
		OpenChart: chart.Open,
		Now:       time.Now,
	}
}

// Run executes the interactive pipeline. A fetch failure or an empty result
// ends the run early with an empty Result and no error.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	section, err := p.ui.Section(opts.Section, p.cfg.IsValidSection, p.cfg.Sections)
	if err != nil {
		return nil, err
	}
	begin, err := p.ui.Value(opts.BeginDate, "Enter the start date (YYYYMMDD): ")
	if err != nil {
		return nil, err
	}
	end, err := p.ui.Value(opts.EndDate, "Enter the end date (YYYYMMDD): ")
	if err != nil {
		return nil, err
	}

	r := &Result{Section: section}

	p.ui.Println("Fetching articles...")
	raws, err := p.source.Fetch(ctx, collect.Query{Section: section, BeginDate: begin, EndDate: end})
	if err != nil {
		p.reportFetchError(err)
		raws = nil
	}
	if len(raws) == 0 {
		p.ui.Println("No articles found for the given parameters.")
		return r, nil
	}

	articles, err := article.Extract(raws)
	if err != nil {
		return nil, fmt.Errorf("extracting articles: %w", err)
	}
	r.Articles = len(articles)
	if p.cfg.IsDebug() {
		log.Printf("Extracted keywords: %v", keywordLists(articles))
	}
	p.ui.Printf("Extracted %d articles.\n", len(articles))

	r.Dir = filepath.Join(p.cfg.GetChartDir(), runDirName(section, begin, end, p.Now()))

	topN := opts.TopN
	if topN <= 0 {
		topN = p.cfg.Analysis.TopN
	}
	r.Keywords = analyze.TopKeywords(articles, topN)
	if len(r.Keywords) == 0 {
		p.ui.Warn("No keywords found; skipping keyword chart.")
	} else {
		p.ui.KeywordTable(r.Keywords)
		plt, err := chart.KeywordChart(r.Keywords)
		if err != nil {
			return nil, err
		}
		r.KeywordChart, err = p.saveChart(plt, r.Dir, KeywordChartFile)
		if err != nil {
			return nil, err
		}
	}

	answer, err := p.ui.Value(opts.Periodicity, "Enter the periodicity for visualization (daily, weekly, monthly): ")
	if err != nil {
		return nil, err
	}
	if answer == "" {
		answer = p.cfg.Analysis.Periodicity
	}
	periodicity, ok := analyze.ParsePeriodicity(answer)
	if !ok {
		log.Printf("Invalid periodicity %q", answer)
		p.ui.Warn("Invalid periodicity selected. Defaulting to daily.")
	}
	r.Periodicity = periodicity
	r.Periods = analyze.CountByPeriod(articles, periodicity)
	p.ui.PeriodTable(r.Periods)

	plt, err := chart.TimelineChart(r.Periods, periodicity)
	if err != nil {
		return nil, err
	}
	r.TimelineChart, err = p.saveChart(plt, r.Dir, TimelineChartFile)
	if err != nil {
		return nil, err
	}

	report := compose.Report(compose.Summary{
		Section:     section,
		BeginDate:   begin,
		EndDate:     end,
		Source:      p.source.Name(),
		Periodicity: periodicity,
		Articles:    articles,
		Keywords:    r.Keywords,
		Periods:     r.Periods,
	})
	if err := os.WriteFile(filepath.Join(r.Dir, ReportFile), []byte(report), 0o644); err != nil {
		return nil, fmt.Errorf("writing report: %w", err)
	}

	if p.db != nil {
		r.RunID, err = p.db.InsertRun(newRun(r, begin, end, p.source.Name(), report))
		if err != nil {
			return nil, fmt.Errorf("recording run: %w", err)
		}
		log.Printf("Recorded run %d", r.RunID)
	}

	p.ui.Printf("Charts and report saved to %s\n", r.Dir)
	return r, nil
}

func (p *Pipeline) reportFetchError(err error) {
	var se *collect.StatusError
	if errors.As(err, &se) {
		p.ui.Printf("Error: Unable to fetch articles (status code %d)\n", se.Code)
		return
	}
	p.ui.Printf("Error: Unable to fetch articles (%v)\n", err)
}

func (p *Pipeline) saveChart(plt *plot.Plot, dir, name string) (string, error) {
	path := filepath.Join(dir, name)
	if err := chart.SavePNG(plt, path); err != nil {
		return "", err
	}
	log.Printf("Saved chart %s", path)

	if p.cfg.Output.OpenCharts && p.OpenChart != nil {
		if err := p.OpenChart(path); err != nil {
			log.Printf("Could not open chart viewer: %v", err)
		}
	}
	return path, nil
}

func newRun(r *Result, begin, end, source, report string) database.NewRun {
	run := database.NewRun{
		Section:        r.Section,
		BeginDate:      begin,
		EndDate:        end,
		Periodicity:    string(r.Periodicity),
		Source:         source,
		ArticleCount:   r.Articles,
		ReportMarkdown: report,
	}
	if r.KeywordChart != "" {
		run.KeywordChart = &r.KeywordChart
	}
	if r.TimelineChart != "" {
		run.TimelineChart = &r.TimelineChart
	}
	for i, kc := range r.Keywords {
		run.Keywords = append(run.Keywords, database.RunKeyword{Rank: i + 1, Keyword: kc.Keyword, Count: kc.Count})
	}
	for _, pc := range r.Periods {
		run.Periods = append(run.Periods, database.RunPeriod{Label: pc.Label, Count: pc.Count})
	}
	return run
}

func keywordLists(articles []article.Article) [][]string {
	lists := make([][]string, len(articles))
	for i, a := range articles {
		lists[i] = a.Keywords
	}
	return lists
}

func runDirName(section, begin, end string, now time.Time) string {
	return strings.Join([]string{slug(section), slug(begin), slug(end), now.Format("20060102-150405")}, "_")
}

func slug(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return '-'
	}, s)
	s = strings.Trim(s, "-")
	if s == "" {
		return "x"
	}
	return s
}
