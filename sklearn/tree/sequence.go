package tree

import "math"

// uniqueValues returns the distinct values of seq in first-occurrence order.
func uniqueValues[T comparable](seq []T) []T {
	seen := make(map[T]struct{}, len(seq))
	out := make([]T, 0, 8)
	for _, v := range seq {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// isPure reports whether labels holds exactly one distinct class.
func isPure(labels []int) bool {
	return len(uniqueValues(labels)) == 1
}

// binCounts returns counts[c] = occurrences of c for every c in [0, max(seq)].
// seq must not contain negative values.
func binCounts(seq []int) []int {
	max := 0
	for _, v := range seq {
		if v > max {
			max = v
		}
	}
	counts := make([]int, max+1)
	for _, v := range seq {
		counts[v]++
	}
	return counts
}

// entropy is the Shannon entropy, in bits, of the class distribution in labels.
// Terms are accumulated in first-occurrence order of the classes.
func entropy(labels []int) float64 {
	n := float64(len(labels))
	counts := binCounts(labels)

	var h float64
	for _, c := range uniqueValues(labels) {
		if p := float64(counts[c]) / n; p > 0 {
			h += p * math.Log2(p)
		}
	}
	if h == 0 {
		return 0
	}
	return -h
}

// informationGain is the entropy reduction from splitting parent into left and right.
func informationGain(parent, left, right []int) float64 {
	n := float64(len(parent))
	lprop := float64(len(left)) / n
	rprop := float64(len(right)) / n
	return entropy(parent) - (lprop*entropy(left) + rprop*entropy(right))
}

// majority returns the most frequent class in labels together with the
// per-class counts. Ties go to the lowest class index.
func majority(labels []int) (int, []int) {
	counts := binCounts(labels)
	best := 0
	for c, n := range counts {
		if n > counts[best] {
			best = c
		}
	}
	return best, counts
}
