package tree

// noSplitGain is the starting best gain; any valid candidate beats it.
const noSplitGain = -1.0

// split is the winning (feature, threshold) test at one node together with
// the two row partitions it implies. It lives only for the duration of the
// grow call that requested it.
type split struct {
	feature   int
	threshold float64
	gain      float64
	left      dataset
	right     dataset
}

// bestSplit searches every feature and every distinct value of that feature
// for the threshold with the highest information gain. Features are visited
// in ascending order and thresholds in first-occurrence order; only a
// strictly greater gain replaces the current best, so the first maximum wins.
//
// ok is false when no candidate leaves both partitions non-empty.
func bestSplit(d dataset) (best split, ok bool) {
	n := d.nrow()
	best.gain = noSplitGain

	col := make([]float64, 0, n)
	leftY := make([]int, 0, n)
	rightY := make([]int, 0, n)

	for f := 0; f < d.ncol; f++ {
		col = d.column(f, col)
		for _, v := range uniqueValues(col) {
			leftY, rightY = leftY[:0], rightY[:0]
			for r, x := range col {
				if x <= v {
					leftY = append(leftY, d.y[r])
				} else {
					rightY = append(rightY, d.y[r])
				}
			}
			if len(leftY) == 0 || len(rightY) == 0 {
				continue
			}

			if g := informationGain(d.y, leftY, rightY); g > best.gain {
				best.feature = f
				best.threshold = v
				best.gain = g
				ok = true
			}
		}
	}

	if ok {
		best.left, best.right = partition(d, best.feature, best.threshold)
	}
	return best, ok
}

// partition copies the full rows of d into the group with
// x[feature] <= threshold and the group with x[feature] > threshold,
// preserving row order within each group.
func partition(d dataset, feature int, threshold float64) (left, right dataset) {
	left.ncol, right.ncol = d.ncol, d.ncol
	for r := 0; r < d.nrow(); r++ {
		row := d.row(r)
		if row[feature] <= threshold {
			left.x = append(left.x, row...)
			left.y = append(left.y, d.y[r])
		} else {
			right.x = append(right.x, row...)
			right.y = append(right.y, d.y[r])
		}
	}
	return left, right
}
