// Package chart renders the four-panel analysis visualization:
// sentiment-class pie, abusive-vs-non-abusive bars, and polarity and
// subjectivity histograms with mean markers. Panels are rendered
// individually and composited into a single PNG.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"
	"strings"

	chartlib "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/forensiq/abusescan/pkg/abusescan/pipeline"
	"github.com/forensiq/abusescan/pkg/abusescan/sentiment"
	"github.com/forensiq/abusescan/pkg/abusescan/summary"
)

// Options controls chart geometry and colors. Colors are hex strings,
// with or without a leading '#'.
type Options struct {
	Width  int
	Height int
	Bins   int

	ColorNegative     string
	ColorNeutral      string
	ColorPositive     string
	ColorAbusive      string
	ColorSafe         string
	ColorPolarity     string
	ColorSubjectivity string
}

// DefaultOptions mirrors the standard palette.
func DefaultOptions() Options {
	return Options{
		Width:             1400,
		Height:            1000,
		Bins:              30,
		ColorNegative:     "#e74c3c",
		ColorNeutral:      "#95a5a6",
		ColorPositive:     "#2ecc71",
		ColorAbusive:      "#e74c3c",
		ColorSafe:         "#2ecc71",
		ColorPolarity:     "#3498db",
		ColorSubjectivity: "#f39c12",
	}
}

func (o Options) normalized() Options {
	def := DefaultOptions()
	if o.Width <= 0 {
		o.Width = def.Width
	}
	if o.Height <= 0 {
		o.Height = def.Height
	}
	if o.Bins <= 0 {
		o.Bins = def.Bins
	}
	for dst, fallback := range map[*string]string{
		&o.ColorNegative:     def.ColorNegative,
		&o.ColorNeutral:      def.ColorNeutral,
		&o.ColorPositive:     def.ColorPositive,
		&o.ColorAbusive:      def.ColorAbusive,
		&o.ColorSafe:         def.ColorSafe,
		&o.ColorPolarity:     def.ColorPolarity,
		&o.ColorSubjectivity: def.ColorSubjectivity,
	} {
		if *dst == "" {
			*dst = fallback
		}
	}
	return o
}

// Render draws the four panels and writes one PNG to path. Rendering
// an empty table is an error; callers treat any failure here as
// non-fatal and keep the run going.
func Render(rows []pipeline.AnalyzedRecord, sum summary.Summary, path string, opts Options) error {
	if len(rows) == 0 {
		return errors.New("no analyzed rows to render")
	}
	opts = opts.normalized()

	pw, ph := opts.Width/2, opts.Height/2

	polarity := make([]float64, len(rows))
	subjectivity := make([]float64, len(rows))
	for i, row := range rows {
		polarity[i] = row.Polarity
		subjectivity[i] = row.Subjectivity
	}

	panels := make([]image.Image, 0, 4)
	renderers := []func() (image.Image, error){
		func() (image.Image, error) { return renderPie(sum, pw, ph, opts) },
		func() (image.Image, error) { return renderAbuseBars(sum, pw, ph, opts) },
		func() (image.Image, error) {
			return renderHistogram("Sentiment Polarity Distribution", "Polarity Score",
				polarity, -1, 1, sum.AvgPolarity, opts.ColorPolarity, pw, ph, opts.Bins)
		},
		func() (image.Image, error) {
			return renderHistogram("Sentiment Subjectivity Distribution", "Subjectivity Score",
				subjectivity, 0, 1, sum.AvgSubjectivity, opts.ColorSubjectivity, pw, ph, opts.Bins)
		},
	}
	for _, render := range renderers {
		img, err := render()
		if err != nil {
			return err
		}
		panels = append(panels, img)
	}

	out := image.NewRGBA(image.Rect(0, 0, pw*2, ph*2))
	draw.Draw(out, out.Bounds(), image.White, image.Point{}, draw.Src)
	for i, panel := range panels {
		x := (i % 2) * pw
		y := (i / 2) * ph
		draw.Draw(out, image.Rect(x, y, x+pw, y+ph), panel, panel.Bounds().Min, draw.Src)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return fmt.Errorf("encode chart: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func renderPie(sum summary.Summary, w, h int, opts Options) (image.Image, error) {
	classColors := map[sentiment.Class]string{
		sentiment.ClassNegative: opts.ColorNegative,
		sentiment.ClassNeutral:  opts.ColorNeutral,
		sentiment.ClassPositive: opts.ColorPositive,
	}

	var values []chartlib.Value
	for _, class := range sentiment.Classes() {
		count, ok := sum.SentimentCounts[class]
		if !ok {
			continue
		}
		values = append(values, chartlib.Value{
			Value: float64(count),
			Label: fmt.Sprintf("%s %.1f%%", class, sum.ClassPercentage(class)),
			Style: chartlib.Style{FillColor: colorFromHex(classColors[class])},
		})
	}

	pie := chartlib.PieChart{
		Title:  "Sentiment Class Distribution",
		Width:  w,
		Height: h,
		Values: values,
	}
	return renderToImage(pie.Render)
}

func renderAbuseBars(sum summary.Summary, w, h int, opts Options) (image.Image, error) {
	nonAbusive := sum.NonAbusiveCount()
	maxCount := sum.AbusiveCount
	if nonAbusive > maxCount {
		maxCount = nonAbusive
	}
	if maxCount == 0 {
		maxCount = 1
	}

	bars := chartlib.BarChart{
		Title:    "Abuse Detection Results",
		Width:    w,
		Height:   h,
		BarWidth: 80,
		Bars: []chartlib.Value{
			{
				Value: float64(nonAbusive),
				Label: fmt.Sprintf("Non-Abusive (%d)", nonAbusive),
				Style: chartlib.Style{FillColor: colorFromHex(opts.ColorSafe)},
			},
			{
				Value: float64(sum.AbusiveCount),
				Label: fmt.Sprintf("Abusive (%d)", sum.AbusiveCount),
				Style: chartlib.Style{FillColor: colorFromHex(opts.ColorAbusive)},
			},
		},
		YAxis: chartlib.YAxis{
			Range: &chartlib.ContinuousRange{Min: 0, Max: float64(maxCount)},
		},
	}
	return renderToImage(bars.Render)
}

func renderHistogram(title, xLabel string, values []float64, domainMin, domainMax, mean float64, color string, w, h, bins int) (image.Image, error) {
	xs, ys, maxCount := histogram(values, bins, domainMin, domainMax)

	yMax := float64(maxCount)
	if yMax == 0 {
		yMax = 1
	}

	c := colorFromHex(color)
	hist := chartlib.ContinuousSeries{
		XValues: xs,
		YValues: ys,
		Style: chartlib.Style{
			StrokeColor: c,
			FillColor:   c.WithAlpha(180),
		},
	}
	meanLine := chartlib.ContinuousSeries{
		Name:    fmt.Sprintf("Mean: %.3f", mean),
		XValues: []float64{mean, mean},
		YValues: []float64{0, yMax},
		Style: chartlib.Style{
			StrokeColor:     chartlib.ColorRed,
			StrokeWidth:     2,
			StrokeDashArray: []float64{5, 5},
		},
	}

	graph := chartlib.Chart{
		Title:  title,
		Width:  w,
		Height: h,
		XAxis: chartlib.XAxis{
			Name:  xLabel,
			Range: &chartlib.ContinuousRange{Min: domainMin, Max: domainMax},
		},
		YAxis: chartlib.YAxis{
			Name:  "Frequency",
			Range: &chartlib.ContinuousRange{Min: 0, Max: yMax * 1.1},
		},
		Series: []chartlib.Series{hist, meanLine},
	}
	graph.Elements = []chartlib.Renderable{chartlib.Legend(&graph)}
	return renderToImage(graph.Render)
}

// histogram bins values over [min, max] and returns a staircase
// outline suitable for an area series, plus the tallest bin count.
func histogram(values []float64, bins int, min, max float64) (xs, ys []float64, maxCount int) {
	counts := make([]int, bins)
	width := (max - min) / float64(bins)
	for _, v := range values {
		idx := int((v - min) / width)
		if idx < 0 {
			idx = 0
		}
		if idx >= bins {
			idx = bins - 1
		}
		counts[idx]++
		if counts[idx] > maxCount {
			maxCount = counts[idx]
		}
	}

	xs = make([]float64, 0, bins*2)
	ys = make([]float64, 0, bins*2)
	for i, count := range counts {
		lo := min + float64(i)*width
		hi := lo + width
		xs = append(xs, lo, hi)
		ys = append(ys, float64(count), float64(count))
	}
	return xs, ys, maxCount
}

func renderToImage(render func(chartlib.RendererProvider, io.Writer) error) (image.Image, error) {
	var buf bytes.Buffer
	if err := render(chartlib.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render panel: %w", err)
	}
	img, err := png.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("decode panel: %w", err)
	}
	return img, nil
}

func colorFromHex(s string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(s, "#"))
}
