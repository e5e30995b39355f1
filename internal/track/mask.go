package track

// BuildMask converts per-frame detections into a boolean presence mask.
// mask[i] is true iff any box observed in frame i passes the validity
// rule. A frame with no detections is simply false.
func BuildMask(frames [][]BoundingBox, valid func(BoundingBox) bool) []bool {
	mask := make([]bool, len(frames))
	for i, boxes := range frames {
		for _, box := range boxes {
			if valid(box) {
				mask[i] = true
				break
			}
		}
	}
	return mask
}

// BuildTrack picks the single best detection per frame. A box is a
// candidate only when it passes the same validity rule the mask uses;
// among candidates the one with the largest selectionKey wins. Frames
// with no candidate get nil in both series, so the returned positions
// are always a refinement of BuildMask over the same input.
func BuildTrack(frames [][]BoundingBox, valid func(BoundingBox) bool, selectionKey func(BoundingBox) float64) (positions, sizes []*Point) {
	positions = make([]*Point, len(frames))
	sizes = make([]*Point, len(frames))

	for i, boxes := range frames {
		var best *BoundingBox
		bestKey := 0.0
		for _, box := range boxes {
			if !valid(box) {
				continue
			}
			key := selectionKey(box)
			if best == nil || key > bestKey {
				b := box
				best = &b
				bestKey = key
			}
		}
		if best != nil {
			pos := best.Center()
			size := best.Size()
			positions[i] = &pos
			sizes[i] = &size
		}
	}

	return positions, sizes
}
