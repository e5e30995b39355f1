package track

// Point is a normalized (x, y) pair in [0, 1] frame space. It doubles as
// a width/height pair for object sizes, which use the same normalization.
type Point struct {
	X float64
	Y float64
}

// BoundingBox describes one detected object in normalized frame
// coordinates. Every field is derived from the landmark points the
// detector reported; construct via BoxFromPoints so the derived fields
// stay consistent.
type BoundingBox struct {
	XMin    float64
	YMin    float64
	XMax    float64
	YMax    float64
	Width   float64
	Height  float64
	Area    float64
	CenterX float64
	CenterY float64
}

// BoxFromPoints builds the bounding box enclosing a set of landmark
// points. ok is false when points is empty.
func BoxFromPoints(points []Point) (box BoundingBox, ok bool) {
	if len(points) == 0 {
		return BoundingBox{}, false
	}

	xMin, xMax := points[0].X, points[0].X
	yMin, yMax := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		if p.X < xMin {
			xMin = p.X
		}
		if p.X > xMax {
			xMax = p.X
		}
		if p.Y < yMin {
			yMin = p.Y
		}
		if p.Y > yMax {
			yMax = p.Y
		}
	}

	w := xMax - xMin
	h := yMax - yMin

	return BoundingBox{
		XMin:    xMin,
		YMin:    yMin,
		XMax:    xMax,
		YMax:    yMax,
		Width:   w,
		Height:  h,
		Area:    w * h,
		CenterX: (xMin + xMax) / 2,
		CenterY: (yMin + yMax) / 2,
	}, true
}

// Center returns the box center as a Point.
func (b BoundingBox) Center() Point {
	return Point{X: b.CenterX, Y: b.CenterY}
}

// Size returns the box width/height as a Point.
func (b BoundingBox) Size() Point {
	return Point{X: b.Width, Y: b.Height}
}
