package chart

import (
	"fmt"
	"html"
	"strings"
)

// Rendering palette. The green family is used when the series closed at or
// above its first value, the red family otherwise.
const (
	colorUp       = "#16a34a"
	colorDown     = "#dc2626"
	colorBg       = "#0f172a"
	colorGrid     = "#334155"
	colorLabel    = "#94a3b8"
	colorTitle    = "#e2e8f0"
	areaOpacity   = "0.15"
	lineWidth     = 2
	markerRadius  = 3
	labelFontSize = 11
	titleFontSize = 14
)

// SVG renders the chart as a standalone SVG fragment. An empty series
// renders a placeholder message instead.
func (c *Chart) SVG() string {
	if len(c.Points) == 0 {
		return fmt.Sprintf(`<div class="chart-placeholder">No price data available for %s</div>`,
			html.EscapeString(c.Symbol))
	}

	color := colorUp
	if !c.Up {
		color = colorDown
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg class="price-chart" viewBox="0 0 %d %d" xmlns="http://www.w3.org/2000/svg">`, c.Width, c.Height)

	// Background
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="%s"/>`, c.Width, c.Height, colorBg)

	// Horizontal gridlines with price labels
	for i := 0; i <= gridBands; i++ {
		y := c.gridY(i)
		fmt.Fprintf(&b, `<line x1="%d" y1="%.1f" x2="%d" y2="%.1f" stroke="%s" stroke-width="1"/>`,
			padding, y, c.Width-padding, y, colorGrid)
		fmt.Fprintf(&b, `<text x="%d" y="%.1f" text-anchor="end" font-size="%d" fill="%s">%.2f</text>`,
			padding-8, y+4, labelFontSize, colorLabel, c.gridPrice(i))
	}

	// Area fill and line only make sense with at least two points.
	if len(c.Points) > 1 {
		bottom := float64(c.Height - padding)

		var area strings.Builder
		fmt.Fprintf(&area, "M %.1f %.1f", c.Points[0].X, c.Points[0].Y)
		for _, p := range c.Points[1:] {
			fmt.Fprintf(&area, " L %.1f %.1f", p.X, p.Y)
		}
		fmt.Fprintf(&area, " L %.1f %.1f L %.1f %.1f Z",
			c.Points[len(c.Points)-1].X, bottom, c.Points[0].X, bottom)
		fmt.Fprintf(&b, `<path d="%s" fill="%s" fill-opacity="%s"/>`, area.String(), color, areaOpacity)

		var line strings.Builder
		fmt.Fprintf(&line, "M %.1f %.1f", c.Points[0].X, c.Points[0].Y)
		for _, p := range c.Points[1:] {
			fmt.Fprintf(&line, " L %.1f %.1f", p.X, p.Y)
		}
		fmt.Fprintf(&b, `<path d="%s" fill="none" stroke="%s" stroke-width="%d"/>`, line.String(), color, lineWidth)
	}

	// Point markers
	for _, p := range c.Points {
		fmt.Fprintf(&b, `<circle cx="%.1f" cy="%.1f" r="%d" fill="%s"/>`, p.X, p.Y, markerRadius, color)
	}

	// X-axis date labels: every 5th tick plus the final tick
	n := len(c.Points)
	for i, p := range c.Points {
		if !labelledTick(i, n) {
			continue
		}
		fmt.Fprintf(&b, `<text x="%.1f" y="%d" text-anchor="middle" font-size="%d" fill="%s">%s</text>`,
			p.X, c.Height-padding+20, labelFontSize, colorLabel, html.EscapeString(p.Date))
	}

	// Title
	fmt.Fprintf(&b, `<text x="%d" y="%d" font-size="%d" fill="%s">%s</text>`,
		padding, padding-16, titleFontSize, colorTitle,
		html.EscapeString(c.Symbol)+" daily close")

	b.WriteString(`</svg>`)
	return b.String()
}
