// Package render draws a PNG preview of a path and its velocity
// profile: the external "on-screen plotting" collaborator from the
// core's point of view, reimplemented as an image renderer rather than
// an interactive plot window. It only reads path and profile data; it
// never mutates core state.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"

	"pathplan.dev/path"
	"pathplan.dev/planning"
	"pathplan.dev/vector2"
)

// Options configures the preview canvas.
type Options struct {
	Width, Height int
	// Margin, in pixels, left around the path's bounding box.
	Margin int
	// StrokeWidth, in pixels, of the drawn curve.
	StrokeWidth int
	// RailOffset, if positive, draws dashed left/right wheel rails at
	// pos +/- unit_normal*RailOffset alongside the centerline, in the
	// same units as the path's coordinates (typically robot.Width/2).
	RailOffset float64
}

func (o *Options) withDefaults() Options {
	out := Options{Width: 800, Height: 600, Margin: 20, StrokeWidth: 2}
	if o != nil {
		if o.Width > 0 {
			out.Width = o.Width
		}
		if o.Height > 0 {
			out.Height = o.Height
		}
		if o.Margin > 0 {
			out.Margin = o.Margin
		}
		if o.StrokeWidth > 0 {
			out.StrokeWidth = o.StrokeWidth
		}
		out.RailOffset = o.RailOffset
	}
	return out
}

// transform maps path-space points into the pixel canvas, fitting the
// path's bounding box within the canvas minus margins.
type transform struct {
	minX, minY float64
	scale      float64
	margin     float64
	height     float64
}

func fitTransform(p *path.Path, opts Options) transform {
	const samples = 512
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i := 0; i <= samples; i++ {
		t := float64(i) / samples
		v := p.Eval(t)
		minX, maxX = math.Min(minX, v.X), math.Max(maxX, v.X)
		minY, maxY = math.Min(minY, v.Y), math.Max(maxY, v.Y)
	}
	dx, dy := maxX-minX, maxY-minY
	if dx == 0 {
		dx = 1
	}
	if dy == 0 {
		dy = 1
	}
	availW := float64(opts.Width - 2*opts.Margin)
	availH := float64(opts.Height - 2*opts.Margin)
	scale := math.Min(availW/dx, availH/dy)
	return transform{minX: minX, minY: minY, scale: scale, margin: float64(opts.Margin), height: float64(opts.Height)}
}

func (tr transform) point(v vector2.Vector2) fixed.Point26_6 {
	x := tr.margin + (v.X-tr.minX)*tr.scale
	// Flip Y so the path's +Y direction renders upward.
	y := tr.height - (tr.margin + (v.Y-tr.minY)*tr.scale)
	return rasterx.ToFixedP(x, y)
}

// Path renders the path's curve onto a new RGBA canvas. If
// opts.RailOffset is positive, it also draws the left and right
// wheel-offset rails (pos +/- unit_normal*offset) as dashed lines
// alongside the centerline.
func Path(p *path.Path, opts *Options) *image.RGBA {
	o := opts.withDefaults()
	img := image.NewRGBA(image.Rect(0, 0, o.Width, o.Height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	tr := fitTransform(p, o)

	const samples = 1024
	center := make([]fixed.Point26_6, 0, samples+1)
	var left, right []fixed.Point26_6
	if o.RailOffset > 0 {
		left = make([]fixed.Point26_6, 0, samples+1)
		right = make([]fixed.Point26_6, 0, samples+1)
	}
	for i := 0; i <= samples; i++ {
		t := float64(i) / samples
		v := p.Eval(t)
		center = append(center, tr.point(v))
		if o.RailOffset > 0 {
			normal, err := p.UnitNormal(t)
			if err != nil {
				continue
			}
			offset := normal.Scale(o.RailOffset)
			left = append(left, tr.point(v.Add(offset)))
			right = append(right, tr.point(v.Sub(offset)))
		}
	}
	drawPolyline(img, o, center, fixed.I(o.StrokeWidth), nil, color.Black)
	if o.RailOffset > 0 {
		dash := []fixed.Int26_6{fixed.I(6), fixed.I(4)}
		rail := color.RGBA{R: 200, A: 255}
		drawPolyline(img, o, left, fixed.I(1), dash, rail)
		drawPolyline(img, o, right, fixed.I(1), dash, rail)
	}
	return img
}

// drawPolyline strokes pts as a single connected line into img, using a
// fresh rasterx scanner/dasher per call (mirroring the one-path-per-
// dasher usage throughout this package).
func drawPolyline(img *image.RGBA, o Options, pts []fixed.Point26_6, width fixed.Int26_6, dash []fixed.Int26_6, col color.Color) {
	if len(pts) == 0 {
		return
	}
	scanner := rasterx.NewScannerGV(o.Width, o.Height, img, img.Bounds())
	dasher := rasterx.NewDasher(o.Width, o.Height, scanner)
	dasher.SetStroke(width, 0, rasterx.RoundCap, rasterx.RoundCap, rasterx.RoundGap, rasterx.ArcClip, dash, 0)
	dasher.SetColor(col)
	dasher.Start(pts[0])
	for _, pt := range pts[1:] {
		dasher.Line(pt)
	}
	dasher.Stop(false)
	dasher.Draw()
}

// Profile renders the path (with its wheel-offset rails, reimplementing
// visualize.py's __draw_curve) with each planning point marked and
// colored by its actual velocity relative to the profile's fastest
// sample: blue for slow, red for fast.
func Profile(vp *planning.VelocityProfile, opts *Options) *image.RGBA {
	o := opts.withDefaults()
	if o.RailOffset == 0 {
		o.RailOffset = vp.Robot().Width / 2
	}
	img := Path(vp.Path(), &o)

	points := vp.Points()
	maxV := 0.0
	for _, pt := range points {
		maxV = math.Max(maxV, pt.ActualVelocity)
	}
	tr := fitTransform(vp.Path(), o)

	const dotRadius = 2.5
	for _, pt := range points {
		frac := 0.0
		if maxV > 0 {
			frac = pt.ActualVelocity / maxV
		}
		col := color.RGBA{
			R: uint8(255 * frac),
			G: 0,
			B: uint8(255 * (1 - frac)),
			A: 255,
		}
		center := tr.point(pt.Position)
		drawDot(img, center, dotRadius, col)
	}
	return img
}

func drawDot(img *image.RGBA, center fixed.Point26_6, radius float64, c color.RGBA) {
	cx, cy := float64(center.X)/64, float64(center.Y)/64
	x0, y0 := int(cx-radius), int(cy-radius)
	x1, y1 := int(cx+radius), int(cy+radius)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			if dx*dx+dy*dy <= radius*radius {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

// timeSeries maps (time, value) pairs into the pixel canvas for the
// velocity-vs-time diagnostics, always including a zero baseline.
type timeSeries struct {
	maxT             float64
	minV, maxV       float64
	left, right      float64
	top, bottom      float64
}

func fitTimeSeries(totalTime float64, series [][]float64, o Options) timeSeries {
	minV, maxV := 0.0, 0.0
	for _, values := range series {
		for _, v := range values {
			minV = math.Min(minV, v)
			maxV = math.Max(maxV, v)
		}
	}
	if maxV == minV {
		maxV = minV + 1
	}
	if totalTime == 0 {
		totalTime = 1
	}
	margin := float64(o.Margin)
	return timeSeries{
		maxT:  totalTime,
		minV:  minV,
		maxV:  maxV,
		left:  margin,
		right: float64(o.Width) - margin,
		top:   margin,
		bottom: float64(o.Height) - margin,
	}
}

func (tr timeSeries) point(t, v float64) fixed.Point26_6 {
	x := tr.left + t/tr.maxT*(tr.right-tr.left)
	y := tr.bottom - (v-tr.minV)/(tr.maxV-tr.minV)*(tr.bottom-tr.top)
	return rasterx.ToFixedP(x, y)
}

func drawAxes(img *image.RGBA, o Options, tr timeSeries) {
	axis := color.Gray{Y: 160}
	drawPolyline(img, o, []fixed.Point26_6{
		rasterx.ToFixedP(tr.left, tr.bottom),
		rasterx.ToFixedP(tr.right, tr.bottom),
	}, fixed.I(1), nil, axis)
	drawPolyline(img, o, []fixed.Point26_6{
		rasterx.ToFixedP(tr.left, tr.top),
		rasterx.ToFixedP(tr.left, tr.bottom),
	}, fixed.I(1), nil, axis)
}

// Velocity renders actual_velocity against external_time as a line
// plot, reimplementing visualize.py's __draw_velocities.
func Velocity(vp *planning.VelocityProfile, opts *Options) *image.RGBA {
	o := opts.withDefaults()
	img := image.NewRGBA(image.Rect(0, 0, o.Width, o.Height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	points := vp.Points()
	actual := make([]float64, len(points))
	for i, p := range points {
		actual[i] = p.ActualVelocity
	}
	tr := fitTimeSeries(vp.TotalTime(), [][]float64{actual}, o)
	drawAxes(img, o, tr)

	pts := make([]fixed.Point26_6, len(points))
	for i, p := range points {
		pts[i] = tr.point(p.ExternalTime, p.ActualVelocity)
	}
	drawPolyline(img, o, pts, fixed.I(o.StrokeWidth), nil, color.Black)
	return img
}

// WheelVelocity renders left_velocity and right_velocity against
// external_time as two overlaid line plots (left in red, right in
// blue), reimplementing visualize.py's __draw_wheel_velocities.
func WheelVelocity(vp *planning.VelocityProfile, opts *Options) *image.RGBA {
	o := opts.withDefaults()
	img := image.NewRGBA(image.Rect(0, 0, o.Width, o.Height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	points := vp.Points()
	left := make([]float64, len(points))
	right := make([]float64, len(points))
	for i, p := range points {
		left[i] = p.LeftVelocity
		right[i] = p.RightVelocity
	}
	tr := fitTimeSeries(vp.TotalTime(), [][]float64{left, right}, o)
	drawAxes(img, o, tr)

	leftPts := make([]fixed.Point26_6, len(points))
	rightPts := make([]fixed.Point26_6, len(points))
	for i, p := range points {
		leftPts[i] = tr.point(p.ExternalTime, p.LeftVelocity)
		rightPts[i] = tr.point(p.ExternalTime, p.RightVelocity)
	}
	drawPolyline(img, o, leftPts, fixed.I(o.StrokeWidth), nil, color.RGBA{R: 200, A: 255})
	drawPolyline(img, o, rightPts, fixed.I(o.StrokeWidth), nil, color.RGBA{B: 200, A: 255})
	return img
}
