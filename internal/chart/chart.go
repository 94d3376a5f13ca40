// Package chart builds line-chart geometry for a daily price series and
// renders it as an SVG fragment. Hit-testing for hover tooltips is exposed
// separately so the tooltip endpoint and tests can query it without a DOM.
package chart

import (
	"math"

	"github.com/kmcdade/finboard/internal/models"
)

const (
	defaultWidth  = 800
	defaultHeight = 400
	padding       = 50

	// gridBands is the number of horizontal price bands.
	gridBands = 5

	// xLabelInterval controls which ticks get a date label; the final tick
	// is always labelled.
	xLabelInterval = 5

	// hitRadius is the pointer distance within which Nearest matches.
	hitRadius = 25.0
)

// Point is one plotted data point in pixel space.
type Point struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

// Chart holds the computed geometry for one price series.
type Chart struct {
	Symbol string
	Width  int
	Height int
	Points []Point

	MinPrice   float64
	MaxPrice   float64
	PriceRange float64

	// Up is true when the net change over the series is non-negative;
	// it selects the green or red rendering family.
	Up bool
}

// Build computes chart geometry for the given series. The series arrives
// newest-first (adapter order) and is reversed into chronological order.
// An empty series yields a chart with no points; SVG renders a placeholder.
func Build(series []models.PricePoint, symbol string) *Chart {
	c := &Chart{
		Symbol: symbol,
		Width:  defaultWidth,
		Height: defaultHeight,
		Up:     true,
	}
	if len(series) == 0 {
		return c
	}

	// Reverse into chronological order, oldest first.
	points := make([]models.PricePoint, len(series))
	for i, p := range series {
		points[len(series)-1-i] = p
	}

	minPrice := points[0].Close
	maxPrice := points[0].Close
	for _, p := range points {
		if p.Close < minPrice {
			minPrice = p.Close
		}
		if p.Close > maxPrice {
			maxPrice = p.Close
		}
	}
	priceRange := maxPrice - minPrice
	if priceRange < 1 {
		// All prices equal (or nearly so): avoid division by zero.
		priceRange = 1
	}

	c.MinPrice = minPrice
	c.MaxPrice = maxPrice
	c.PriceRange = priceRange
	c.Up = points[len(points)-1].Close >= points[0].Close

	chartWidth := float64(c.Width - 2*padding)
	chartHeight := float64(c.Height - 2*padding)

	n := len(points)
	c.Points = make([]Point, n)
	for i, p := range points {
		var x float64
		if n == 1 {
			// A single point has no horizontal extent; center it instead
			// of dividing by n-1.
			x = padding + chartWidth/2
		} else {
			x = padding + chartWidth/float64(n-1)*float64(i)
		}
		y := padding + chartHeight - (p.Close-minPrice)/priceRange*chartHeight
		c.Points[i] = Point{X: x, Y: y, Date: p.Date, Price: p.Close}
	}
	return c
}

// Nearest returns the data point closest to (x, y) by Euclidean distance,
// if any lies within the hit radius.
func (c *Chart) Nearest(x, y float64) (Point, bool) {
	var best Point
	bestDist := math.Inf(1)
	for _, p := range c.Points {
		d := math.Hypot(p.X-x, p.Y-y)
		if d < bestDist {
			bestDist = d
			best = p
		}
	}
	if bestDist > hitRadius {
		return Point{}, false
	}
	return best, true
}

// gridPrice returns the price label for gridline band i (0 = top).
func (c *Chart) gridPrice(i int) float64 {
	return c.MaxPrice - (c.MaxPrice-c.MinPrice)/float64(gridBands)*float64(i)
}

// gridY returns the pixel y for gridline band i (0 = top).
func (c *Chart) gridY(i int) float64 {
	chartHeight := float64(c.Height - 2*padding)
	return padding + chartHeight/float64(gridBands)*float64(i)
}

// labelledTick reports whether tick i of n gets an x-axis date label.
func labelledTick(i, n int) bool {
	return i%xLabelInterval == 0 || i == n-1
}
