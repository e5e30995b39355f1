package track

// Rect is a crop rectangle in pixel space.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// PlaceCrop computes the crop rectangle for one frame. (cx, cy) is the
// object center in pixels; hRatio/vRatio say where inside the crop the
// object should land (0.5 centers it). When the ideal placement would
// leave the frame, the rectangle snaps to the nearest edge, trading
// exact anchor placement for containment; corrected reports whether that
// happened.
//
// Provided cropW <= frameW and cropH <= frameH, the result always
// satisfies 0 <= X, 0 <= Y, X+Width <= frameW and Y+Height <= frameH.
func PlaceCrop(cx, cy float64, cropW, cropH, frameW, frameH int, hRatio, vRatio float64) (rect Rect, corrected bool) {
	x1 := cx - float64(cropW)*hRatio
	y1 := cy - float64(cropH)*vRatio

	if x1 < 0 {
		x1 = 0
		corrected = true
	} else if x1+float64(cropW) > float64(frameW) {
		x1 = float64(frameW - cropW)
		corrected = true
	}

	if y1 < 0 {
		y1 = 0
		corrected = true
	} else if y1+float64(cropH) > float64(frameH) {
		y1 = float64(frameH - cropH)
		corrected = true
	}

	return Rect{
		X:      int(x1),
		Y:      int(y1),
		Width:  cropW,
		Height: cropH,
	}, corrected
}
