package database

import (
	"database/sql"
	"fmt"
)

const runColumns = `id, section, begin_date, end_date, periodicity, source, article_count,
	keyword_chart, timeline_chart, report_markdown, created_at`

// InsertRun records a run with its ranked keywords and period counts.
func (db *DB) InsertRun(r NewRun) (int64, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO runs (section, begin_date, end_date, periodicity, source, article_count,
		keyword_chart, timeline_chart, report_markdown)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Section, r.BeginDate, r.EndDate, r.Periodicity, r.Source, r.ArticleCount,
		r.KeywordChart, r.TimelineChart, r.ReportMarkdown,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, kw := range r.Keywords {
		if _, err := tx.Exec(
			"INSERT INTO run_keywords (run_id, rank, keyword, count) VALUES (?, ?, ?, ?)",
			runID, kw.Rank, kw.Keyword, kw.Count,
		); err != nil {
			return 0, fmt.Errorf("inserting keyword %q: %w", kw.Keyword, err)
		}
	}

	for i, p := range r.Periods {
		if _, err := tx.Exec(
			"INSERT INTO run_periods (run_id, position, label, count) VALUES (?, ?, ?, ?)",
			runID, i, p.Label, p.Count,
		); err != nil {
			return 0, fmt.Errorf("inserting period %q: %w", p.Label, err)
		}
	}

	return runID, tx.Commit()
}

// GetRun returns a single run by ID, or nil if it does not exist.
func (db *DB) GetRun(runID int64) (*Run, error) {
	row := db.conn.QueryRow("SELECT "+runColumns+" FROM runs WHERE id = ?", runID)
	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// GetRecentRuns returns the most recent runs first. limit <= 0 returns all.
func (db *DB) GetRecentRuns(limit int) ([]Run, error) {
	query := "SELECT " + runColumns + " FROM runs ORDER BY id DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return db.queryRuns(query, args...)
}

// GetRunsForSection returns all runs of a section, most recent first.
func (db *DB) GetRunsForSection(section string) ([]Run, error) {
	return db.queryRuns("SELECT "+runColumns+" FROM runs WHERE section = ? ORDER BY id DESC", section)
}

// GetRunKeywords returns a run's keywords ordered by rank.
func (db *DB) GetRunKeywords(runID int64) ([]RunKeyword, error) {
	rows, err := db.conn.Query(
		"SELECT rank, keyword, count FROM run_keywords WHERE run_id = ? ORDER BY rank", runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keywords []RunKeyword
	for rows.Next() {
		var kw RunKeyword
		if err := rows.Scan(&kw.Rank, &kw.Keyword, &kw.Count); err != nil {
			return nil, err
		}
		keywords = append(keywords, kw)
	}
	return keywords, rows.Err()
}

// GetRunPeriods returns a run's period counts in period order.
func (db *DB) GetRunPeriods(runID int64) ([]RunPeriod, error) {
	rows, err := db.conn.Query(
		"SELECT label, count FROM run_periods WHERE run_id = ? ORDER BY position", runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var periods []RunPeriod
	for rows.Next() {
		var p RunPeriod
		if err := rows.Scan(&p.Label, &p.Count); err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

// DeleteRun removes a run and its keywords and periods.
func (db *DB) DeleteRun(runID int64) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, q := range []string{
		"DELETE FROM run_keywords WHERE run_id = ?",
		"DELETE FROM run_periods WHERE run_id = ?",
		"DELETE FROM runs WHERE id = ?",
	} {
		if _, err := tx.Exec(q, runID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetSectionCounts returns how many runs each section has, busiest first.
func (db *DB) GetSectionCounts() ([]SectionCount, error) {
	rows, err := db.conn.Query(
		"SELECT section, COUNT(*) AS n FROM runs GROUP BY section ORDER BY n DESC, section",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []SectionCount
	for rows.Next() {
		var c SectionCount
		if err := rows.Scan(&c.Section, &c.Runs); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// GetStats returns aggregate database statistics.
func (db *DB) GetStats() (*Stats, error) {
	s := &Stats{}

	queries := []struct {
		sql  string
		dest any
	}{
		{"SELECT COUNT(*) FROM runs", &s.Runs},
		{"SELECT COUNT(DISTINCT section) FROM runs", &s.Sections},
		{"SELECT COALESCE(SUM(article_count), 0) FROM runs", &s.TotalArticles},
		{"SELECT MAX(created_at) FROM runs", &s.LastRunAt},
	}

	for _, q := range queries {
		if err := db.conn.QueryRow(q.sql).Scan(q.dest); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (db *DB) queryRuns(query string, args ...any) ([]Run, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var r Run
	if err := row.Scan(&r.ID, &r.Section, &r.BeginDate, &r.EndDate, &r.Periodicity, &r.Source,
		&r.ArticleCount, &r.KeywordChart, &r.TimelineChart, &r.ReportMarkdown, &r.CreatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}
