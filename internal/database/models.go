package database

// Run is a recorded analysis run. It holds derived results only; fetched
// articles are never stored.
type Run struct {
	ID             int64
	Section        string
	BeginDate      string
	EndDate        string
	Periodicity    string
	Source         string
	ArticleCount   int
	KeywordChart   *string
	TimelineChart  *string
	ReportMarkdown string
	CreatedAt      *string
}

// RunKeyword is one ranked keyword of a run.
type RunKeyword struct {
	Rank    int
	Keyword string
	Count   int
}

// RunPeriod is the article count of one period of a run.
type RunPeriod struct {
	Label string
	Count int
}

// NewRun holds everything InsertRun stores.
type NewRun struct {
	Section        string
	BeginDate      string
	EndDate        string
	Periodicity    string
	Source         string
	ArticleCount   int
	KeywordChart   *string
	TimelineChart  *string
	ReportMarkdown string
	Keywords       []RunKeyword
	Periods        []RunPeriod
}

// Stats contains aggregate database statistics.
type Stats struct {
	Runs          int
	Sections      int
	TotalArticles int
	LastRunAt     *string
}

// SectionCount is the number of runs recorded for a section.
type SectionCount struct {
	Section string
	Runs    int
}
