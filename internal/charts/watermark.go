// =============================================================================
// Uruguay Card Payments - Chart Watermark
// =============================================================================

package charts

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// watermark is a plot.Plotter that writes large, faint, rotated text across
// the centre of the data area. It has no data range, so axes ignore it.
type watermark struct {
	text string
}

var watermarkColor = color.NRGBA{R: 128, G: 128, B: 128, A: 20}

// Plot implements plot.Plotter.
func (w watermark) Plot(c draw.Canvas, p *plot.Plot) {
	sty := p.Title.TextStyle
	sty.Font.Size = vg.Points(40)
	sty.Color = watermarkColor
	sty.Rotation = math.Pi / 6
	sty.XAlign = draw.XCenter
	sty.YAlign = draw.YCenter

	c.FillText(sty, c.Center(), w.text)
}
