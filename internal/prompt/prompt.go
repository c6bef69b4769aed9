// Package prompt handles interactive console input and output for a run.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/TobiSchelling/SectionTrends/internal/analyze"
)

// ErrNoInput is returned when input ends before a question is answered.
var ErrNoInput = errors.New("no input")

// Prompter asks questions on an input stream and prints results.
type Prompter struct {
	in   *bufio.Reader
	out  io.Writer
	warn *color.Color
	bold *color.Color
}

// New creates a prompter reading answers from in and writing to out.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:   bufio.NewReader(in),
		out:  out,
		warn: color.New(color.FgYellow),
		bold: color.New(color.Bold),
	}
}

// Ask prints question and returns the trimmed answer line.
func (p *Prompter) Ask(question string) (string, error) {
	fmt.Fprint(p.out, question)
	line, err := p.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("reading input: %w", err)
		}
		if line == "" {
			fmt.Fprintln(p.out)
			return "", ErrNoInput
		}
	}
	return strings.TrimSpace(line), nil
}

// Section asks for a section until the lowercased answer is valid. A
// non-empty initial value is checked first instead of asking.
func (p *Prompter) Section(initial string, isValid func(string) bool, sections []string) (string, error) {
	section := strings.ToLower(strings.TrimSpace(initial))
	if section == "" {
		answer, err := p.Ask("Enter the section (e.g., Technology, Politics): ")
		if err != nil {
			return "", err
		}
		section = strings.ToLower(answer)
	}

	for !isValid(section) {
		p.Warn("Invalid section. Available sections are: %s", quoteList(sections))
		answer, err := p.Ask("Enter a valid section: ")
		if err != nil {
			return "", err
		}
		section = strings.ToLower(answer)
	}
	return section, nil
}

// Value returns initial if set, otherwise asks question.
func (p *Prompter) Value(initial, question string) (string, error) {
	if initial != "" {
		return initial, nil
	}
	return p.Ask(question)
}

// Println writes a line of output.
func (p *Prompter) Println(a ...any) {
	fmt.Fprintln(p.out, a...)
}

// Printf writes formatted output.
func (p *Prompter) Printf(format string, a ...any) {
	fmt.Fprintf(p.out, format, a...)
}

// Warn writes a highlighted warning line.
func (p *Prompter) Warn(format string, a ...any) {
	p.warn.Fprintf(p.out, format, a...)
	fmt.Fprintln(p.out)
}

// KeywordTable prints the ranked keyword counts.
func (p *Prompter) KeywordTable(counts []analyze.KeywordCount) {
	p.bold.Fprintln(p.out, "Top keywords:")
	rows := make([][]string, len(counts))
	for i, c := range counts {
		rows[i] = []string{strconv.Itoa(i + 1), c.Keyword, strconv.Itoa(c.Count)}
	}
	p.table([]string{"Rank", "Keyword", "Count"}, rows)
}

// PeriodTable prints article counts per period.
func (p *Prompter) PeriodTable(periods []analyze.PeriodCount) {
	p.bold.Fprintln(p.out, "Articles per period:")
	rows := make([][]string, len(periods))
	for i, pc := range periods {
		rows[i] = []string{pc.Label, strconv.Itoa(pc.Count)}
	}
	p.table([]string{"Period", "Articles"}, rows)
}

func (p *Prompter) table(header []string, rows [][]string) {
	table := tablewriter.NewTable(p.out,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
		}),
	)
	table.Header(header)
	table.Bulk(rows)
	table.Render()
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = strconv.Quote(s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
