// =============================================================================
// Uruguay Card Payments - Chart Renderer
// =============================================================================
//
// This module draws the report figures as PNG files with gonum/plot.
//
// FIGURES:
//   trend_amount_million_cards.png      amount lines, complete years only
//   share_debit_credit.png              stacked share bars, every year
//   avg_ticket_usd_part1.png            average ticket, early half
//   avg_ticket_usd_part2.png            average ticket, late half
//   pospandemia_semester_amount_...png  grouped semester bars
//
// Every figure carries a rotated, translucent watermark centred on the data
// area. A figure whose input is empty is skipped without error.
//
// =============================================================================

package charts

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/uycards/annual-summary/internal/analysis"
	"github.com/uycards/annual-summary/internal/types"
)

// =============================================================================
// FILE NAMES AND SIZES
// =============================================================================

const (
	TrendFile        = "trend_amount_million_cards.png"
	ShareFile        = "share_debit_credit.png"
	AvgTicketEarly   = "avg_ticket_usd_part1.png"
	AvgTicketLate    = "avg_ticket_usd_part2.png"
	PostPandemicFile = "pospandemia_semester_amount_million_2022_2025.png"
)

// DefaultDPI is used when the renderer is given a non-positive DPI.
const DefaultDPI = 300

type size struct {
	width, height vg.Length
}

var (
	portrait  = size{6 * vg.Inch, 8 * vg.Inch}
	landscape = size{8 * vg.Inch, 5 * vg.Inch}
	wide      = size{10 * vg.Inch, 5 * vg.Inch}
)

// =============================================================================
// RENDERER
// =============================================================================

// Renderer writes figures into FiguresDir.
type Renderer struct {
	// FiguresDir must exist before rendering.
	FiguresDir string

	// Watermark is drawn on every figure. Empty disables it.
	Watermark string

	// DPI is the raster resolution of the PNG files.
	DPI int
}

// NewRenderer creates a Renderer, falling back to DefaultDPI.
func NewRenderer(figuresDir, watermark string, dpi int) *Renderer {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Renderer{FiguresDir: figuresDir, Watermark: watermark, DPI: dpi}
}

// Input carries everything the figures are drawn from.
type Input struct {
	// Annual is the full wide annual table.
	Annual *types.AnnualTable

	// LatestFullYear gates the trend and average-ticket figures.
	LatestFullYear int

	// Completeness labels partial years on the x axis.
	Completeness *analysis.Completeness

	// Semesters feeds the post-pandemic semester figure.
	Semesters []types.SemesterAmount

	// SemesterFrom and SemesterTo appear in the semester figure title.
	SemesterFrom, SemesterTo int
}

// RenderAll draws every figure and returns the paths written, in order.
// Skipped figures are not listed.
func (r *Renderer) RenderAll(in Input) ([]string, error) {
	var written []string
	if in.Annual == nil {
		in.Annual = &types.AnnualTable{}
	}

	record := func(path string, err error) error {
		if err != nil {
			return err
		}
		if path != "" {
			written = append(written, path)
		}
		return nil
	}

	labels := labelFunc(in.Completeness)

	if err := record(r.Trend(in.Annual.UpTo(in.LatestFullYear), labels)); err != nil {
		return written, err
	}
	if err := record(r.Share(in.Annual, labels)); err != nil {
		return written, err
	}

	paths, err := r.AvgTicket(in.Annual, in.LatestFullYear, labels)
	written = append(written, paths...)
	if err != nil {
		return written, err
	}

	if err := record(r.SemesterAmounts(in.Semesters, in.SemesterFrom, in.SemesterTo)); err != nil {
		return written, err
	}

	return written, nil
}

func labelFunc(c *analysis.Completeness) func(int) string {
	if c == nil {
		return func(year int) string { return fmt.Sprint(year) }
	}
	return c.YearLabel
}

// =============================================================================
// FIGURES
// =============================================================================

// Trend draws the yearly amount of each observed method. The table should
// already be limited to complete years.
func (r *Renderer) Trend(table *types.AnnualTable, label func(int) string) (string, error) {
	if table.IsEmpty() {
		return "", nil
	}

	years := table.Years()
	p := r.newPlot(
		fmt.Sprintf("Uruguay - Uso de tarjetas Crédito/Débito (%d-%d)", years[0], years[len(years)-1]),
		"Año",
		"Monto (millones de USD)",
	)
	p.X.Tick.Marker = yearTicks(years, label)
	rotateTicks(p)

	if err := addMethodLines(p, table, types.AnnualRow.Amount); err != nil {
		return "", fmt.Errorf("failed to build trend lines: %w", err)
	}

	return r.save(p, portrait, TrendFile)
}

// Share draws stacked percentage bars, debit at the bottom, for every year in
// the table.
func (r *Renderer) Share(table *types.AnnualTable, label func(int) string) (string, error) {
	if table.IsEmpty() {
		return "", nil
	}

	p := r.newPlot("Uruguay Débito vs Crédito uso sobre total operado", "Año", "Participación (%)")

	n := len(table.Rows)
	width := barWidth(landscape.width, n, 0.7)

	debit := make(plotter.Values, n)
	credit := make(plotter.Values, n)
	for i, row := range table.Rows {
		debit[i] = finite(row.ShareDebit * 100)
		credit[i] = finite(row.ShareCredit * 100)
	}

	debitBars, err := newBars(debit, width, 0)
	if err != nil {
		return "", fmt.Errorf("failed to build debit share bars: %w", err)
	}
	creditBars, err := newBars(credit, width, 1)
	if err != nil {
		return "", fmt.Errorf("failed to build credit share bars: %w", err)
	}
	creditBars.StackOn(debitBars)

	p.Add(debitBars, creditBars)
	p.Legend.Add(types.DebitCard, debitBars)
	p.Legend.Add(types.CreditCard, creditBars)

	names := make([]string, n)
	for i, year := range table.Years() {
		names[i] = label(year)
	}
	p.NominalX(names...)
	rotateTicks(p)

	p.Y.Min = 0
	p.Y.Max = 100

	return r.save(p, landscape, ShareFile)
}

// AvgTicket draws the average ticket per method in two figures split at the
// midpoint year of the full table. Nothing is drawn when no year up to
// latestFullYear exists.
func (r *Renderer) AvgTicket(table *types.AnnualTable, latestFullYear int, label func(int) string) ([]string, error) {
	if table.UpTo(latestFullYear).IsEmpty() {
		return nil, nil
	}

	early, late := analysis.SplitAtMidpoint(table)

	var written []string
	for _, half := range []struct {
		table *types.AnnualTable
		file  string
	}{
		{early, AvgTicketEarly},
		{late, AvgTicketLate},
	} {
		if half.table.IsEmpty() {
			continue
		}

		years := half.table.Years()
		p := r.newPlot(
			fmt.Sprintf("Uruguay Ticket promedio (Débito vs Crédito) %d-%d", years[0], years[len(years)-1]),
			"Año",
			"Ticket promedio por txn (USD)",
		)
		p.X.Tick.Marker = yearTicks(years, label)
		rotateTicks(p)

		if err := addMethodLines(p, half.table, types.AnnualRow.AvgUSD); err != nil {
			return written, fmt.Errorf("failed to build average ticket lines: %w", err)
		}

		path, err := r.save(p, landscape, half.file)
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}

	return written, nil
}

// SemesterAmounts draws debit and credit side by side for each semester.
func (r *Renderer) SemesterAmounts(semesters []types.SemesterAmount, fromYear, toYear int) (string, error) {
	if len(semesters) == 0 {
		return "", nil
	}

	p := r.newPlot(
		fmt.Sprintf("Uruguay Monto semestral pospandemia (%d-%d)", fromYear, toYear),
		"Año / Semestre",
		"Monto operado (millones de USD)",
	)

	n := len(semesters)
	width := barWidth(wide.width, n, 0.4)

	debit := make(plotter.Values, n)
	credit := make(plotter.Values, n)
	names := make([]string, n)
	for i, s := range semesters {
		debit[i] = finite(s.Debit)
		credit[i] = finite(s.Credit)
		names[i] = s.Label
	}

	debitBars, err := newBars(debit, width, 0)
	if err != nil {
		return "", fmt.Errorf("failed to build debit semester bars: %w", err)
	}
	debitBars.Offset = -width / 2

	creditBars, err := newBars(credit, width, 1)
	if err != nil {
		return "", fmt.Errorf("failed to build credit semester bars: %w", err)
	}
	creditBars.Offset = width / 2

	p.Add(debitBars, creditBars)
	p.Legend.Add("Débito", debitBars)
	p.Legend.Add("Crédito", creditBars)

	p.NominalX(names...)
	rotateTicks(p)
	p.Y.Min = 0

	return r.save(p, wide, PostPandemicFile)
}

// =============================================================================
// HELPERS
// =============================================================================

func (r *Renderer) newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Legend.Top = true

	grid := plotter.NewGrid()
	grid.Vertical.Color = color.Gray{Y: 220}
	grid.Horizontal.Color = color.Gray{Y: 220}
	p.Add(grid)

	if r.Watermark != "" {
		p.Add(watermark{text: r.Watermark})
	}
	return p
}

// addMethodLines adds one line with point markers per observed method.
func addMethodLines(p *plot.Plot, table *types.AnnualTable, value func(types.AnnualRow, string) float64) error {
	for i, method := range types.PaymentMethods {
		if !table.HasMethod(method) {
			continue
		}

		xys := make(plotter.XYs, len(table.Rows))
		for j, row := range table.Rows {
			xys[j].X = float64(row.Year)
			xys[j].Y = finite(value(row, method))
		}

		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1.5)
		points.Shape = draw.CircleGlyph{}
		points.Color = plotutil.Color(i)

		p.Add(line, points)
		p.Legend.Add(method, line, points)
	}
	return nil
}

func newBars(values plotter.Values, width vg.Length, series int) (*plotter.BarChart, error) {
	bars, err := plotter.NewBarChart(values, width)
	if err != nil {
		return nil, err
	}
	bars.Color = plotutil.Color(series)
	bars.LineStyle.Width = vg.Length(0)
	return bars, nil
}

// barWidth spreads n bar slots over most of the canvas width.
func barWidth(canvas vg.Length, n int, fraction float64) vg.Length {
	return vg.Length(float64(canvas) * 0.8 / float64(n) * fraction)
}

func yearTicks(years []int, label func(int) string) plot.ConstantTicks {
	ticks := make(plot.ConstantTicks, len(years))
	for i, year := range years {
		ticks[i] = plot.Tick{Value: float64(year), Label: label(year)}
	}
	return ticks
}

func rotateTicks(p *plot.Plot) {
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
}

// finite maps NaN and infinities to 0; gonum rejects them.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func (r *Renderer) save(p *plot.Plot, sz size, name string) (path string, err error) {
	path = filepath.Join(r.FiguresDir, name)

	canvas := vgimg.NewWith(vgimg.UseWH(sz.width, sz.height), vgimg.UseDPI(r.DPI))
	p.Draw(draw.New(canvas))

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, closeErr)
		}
	}()

	if _, err := (vgimg.PngCanvas{Canvas: canvas}).WriteTo(file); err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return path, nil
}
