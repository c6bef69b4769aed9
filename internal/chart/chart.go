// Package chart renders keyword and timeline charts as PNG images.
package chart

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/TobiSchelling/SectionTrends/internal/analyze"
)

// Figure size shared by both charts.
const (
	Width  = 10 * vg.Inch
	Height = 6 * vg.Inch
)

// KeywordChart builds a bar chart with one bar per keyword. The count axis
// carries an integer tick for every value from 0 to the highest count.
func KeywordChart(counts []analyze.KeywordCount) (*plot.Plot, error) {
	if len(counts) == 0 {
		return nil, fmt.Errorf("no keywords to chart")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Top %d Most Frequent Keywords", len(counts))
	p.X.Label.Text = "Keyword"
	p.Y.Label.Text = "Count"

	values := make(plotter.Values, len(counts))
	names := make([]string, len(counts))
	for i, c := range counts {
		values[i] = float64(c.Count)
		names[i] = c.Keyword
	}

	bars, err := plotter.NewBarChart(values, vg.Points(40))
	if err != nil {
		return nil, fmt.Errorf("creating bar chart: %w", err)
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = plotutil.Color(0)
	p.Add(bars)
	p.NominalX(names...)

	maxCount := analyze.MaxCount(counts)
	p.Y.Min = 0
	p.Y.Max = float64(maxCount)
	p.Y.Tick.Marker = integerTicks(maxCount)

	return p, nil
}

// TimelineChart builds a line chart of article counts per period. Period
// labels are placed on a nominal X axis and rotated for readability.
func TimelineChart(periods []analyze.PeriodCount, periodicity analyze.Periodicity) (*plot.Plot, error) {
	if len(periods) == 0 {
		return nil, fmt.Errorf("no periods to chart")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Number of Articles Published (%s)", periodicity.Title())
	p.X.Label.Text = "pub_date"
	p.Y.Label.Text = "article_count"

	pts := make(plotter.XYs, len(periods))
	labels := make([]string, len(periods))
	maxCount := 0
	for i, pc := range periods {
		pts[i].X = float64(i)
		pts[i].Y = float64(pc.Count)
		labels[i] = pc.Label
		if pc.Count > maxCount {
			maxCount = pc.Count
		}
	}

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return nil, fmt.Errorf("creating line: %w", err)
	}
	p.Add(line, points)
	p.NominalX(labels...)

	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	p.Y.Min = 0
	p.Y.Max = float64(maxCount)
	p.Y.Tick.Marker = integerTicks(maxCount)

	return p, nil
}

// maxTicks bounds the labels on the count axis; the step grows 1, 2, 5, 10, 20, ...
const maxTicks = 20

func integerTicks(maxCount int) plot.ConstantTicks {
	step, mult := 1, 1
	for maxCount/step > maxTicks {
		for _, m := range []int{2, 5, 10} {
			step = m * mult
			if maxCount/step <= maxTicks {
				break
			}
		}
		mult *= 10
	}
	ticks := make(plot.ConstantTicks, 0, maxCount/step+1)
	for v := 0; v <= maxCount; v += step {
		ticks = append(ticks, plot.Tick{Value: float64(v), Label: strconv.Itoa(v)})
	}
	return ticks
}

// WritePNG renders p as a PNG image to w.
func WritePNG(p *plot.Plot, w io.Writer) error {
	wt, err := p.WriterTo(Width, Height, "png")
	if err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("writing chart: %w", err)
	}
	return nil
}

// SavePNG renders p into the file at path, creating parent directories.
func SavePNG(p *plot.Plot, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating chart directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart file: %w", err)
	}
	if err := WritePNG(p, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
