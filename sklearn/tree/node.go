package tree

import (
	"github.com/YuminosukeSato/dtree/core/parallel"
	"github.com/YuminosukeSato/dtree/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// parallelPredictThreshold is the row count above which PredictBatch fans out
// across goroutines.
const parallelPredictThreshold = 1000

// Node is either a *Leaf or an *Internal.
type Node interface {
	node()
}

// Leaf is a terminal node carrying the predicted class.
type Leaf struct {
	// Value is the class predicted for every row reaching this leaf.
	Value int
	// Counts holds per-class training counts, one entry per class of the tree.
	Counts []int
	// Samples is the number of training rows that reached this leaf.
	Samples int
}

// Internal is a decision node. Rows with x[Feature] <= Threshold go Left.
type Internal struct {
	Feature   int
	Threshold float64
	Gain      float64
	Samples   int
	Left      Node
	Right     Node
}

func (*Leaf) node()     {}
func (*Internal) node() {}

// Tree is an induced decision tree.
type Tree struct {
	Root Node
	// NFeatures is the row width the tree was trained on.
	NFeatures int
	// NClasses is max(label)+1 over the training labels.
	NClasses int
	// NSamples is the number of training rows.
	NSamples int
}

// leafFor walks from the root to the leaf responsible for row.
func (t *Tree) leafFor(row []float64) *Leaf {
	n := t.Root
	for {
		switch v := n.(type) {
		case *Leaf:
			return v
		case *Internal:
			if row[v.Feature] <= v.Threshold {
				n = v.Left
			} else {
				n = v.Right
			}
		default:
			panic("tree: malformed node")
		}
	}
}

func (t *Tree) checkRow(op string, row []float64) error {
	if t == nil || t.Root == nil {
		return errors.NewNotFittedError("Tree", op)
	}
	if mf := maxFeatureIndex(t.Root); len(row) <= mf {
		return errors.NewFeatureIndexError(op, mf, len(row))
	}
	if len(row) != t.NFeatures {
		return errors.NewDimensionError(op, t.NFeatures, len(row), 1)
	}
	return errors.CheckNumericalStability(op, row)
}

// PredictOne returns the class predicted for a single row.
func (t *Tree) PredictOne(row []float64) (int, error) {
	if err := t.checkRow("PredictOne", row); err != nil {
		return 0, err
	}
	return t.leafFor(row).Value, nil
}

// PredictProba returns the class distribution of the leaf reached by row.
// The result has NClasses entries summing to 1.
func (t *Tree) PredictProba(row []float64) ([]float64, error) {
	if err := t.checkRow("PredictProba", row); err != nil {
		return nil, err
	}
	leaf := t.leafFor(row)
	proba := make([]float64, t.NClasses)
	for c, n := range leaf.Counts {
		proba[c] = float64(n)
	}
	if sum := floats.Sum(proba); sum > 0 {
		floats.Scale(1/sum, proba)
	}
	return proba, nil
}

// PredictBatch predicts nrow rows laid out row-major in features.
// The result has exactly nrow entries in row order.
func (t *Tree) PredictBatch(features []float64, ncol, nrow int) ([]int, error) {
	const op = "PredictBatch"
	if t == nil || t.Root == nil {
		return nil, errors.NewNotFittedError("Tree", op)
	}
	if nrow <= 0 {
		return nil, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if mf := maxFeatureIndex(t.Root); ncol <= mf {
		return nil, errors.NewFeatureIndexError(op, mf, ncol)
	}
	if ncol != t.NFeatures {
		return nil, errors.NewDimensionError(op, t.NFeatures, ncol, 1)
	}
	if len(features) != ncol*nrow {
		return nil, errors.NewDimensionError(op, ncol*nrow, len(features), 0)
	}
	if err := errors.CheckNumericalStability(op, features); err != nil {
		return nil, err
	}

	out := make([]int, nrow)
	parallel.ParallelizeWithThreshold(nrow, parallelPredictThreshold, func(start, end int) {
		for r := start; r < end; r++ {
			out[r] = t.leafFor(features[r*ncol : (r+1)*ncol]).Value
		}
	})
	return out, nil
}

// Release drops every node of the tree. Further predictions return a
// NotFittedError. Calling Release more than once is a no-op.
func (t *Tree) Release() {
	if t == nil {
		return
	}
	release(t.Root)
	t.Root = nil
}

func release(n Node) {
	in, ok := n.(*Internal)
	if !ok {
		return
	}
	release(in.Left)
	release(in.Right)
	in.Left, in.Right = nil, nil
}

// walk visits every node in pre-order, left before right.
func walk(n Node, depth int, fn func(n Node, depth int)) {
	if n == nil {
		return
	}
	fn(n, depth)
	if in, ok := n.(*Internal); ok {
		walk(in.Left, depth+1, fn)
		walk(in.Right, depth+1, fn)
	}
}

// Depth is the number of edges on the longest root-to-leaf path.
func (t *Tree) Depth() int {
	if t == nil {
		return 0
	}
	max := 0
	walk(t.Root, 0, func(_ Node, d int) {
		if d > max {
			max = d
		}
	})
	return max
}

// NLeaves counts the leaves of the tree.
func (t *Tree) NLeaves() int {
	if t == nil {
		return 0
	}
	n := 0
	walk(t.Root, 0, func(nd Node, _ int) {
		if _, ok := nd.(*Leaf); ok {
			n++
		}
	})
	return n
}

// NNodes counts every node of the tree.
func (t *Tree) NNodes() int {
	if t == nil {
		return 0
	}
	n := 0
	walk(t.Root, 0, func(Node, int) { n++ })
	return n
}

// FeatureImportances returns, per feature, the sample-weighted information
// gain of the splits on that feature, normalized to sum to 1. A tree without
// any split yields all zeros.
func (t *Tree) FeatureImportances() []float64 {
	if t == nil {
		return nil
	}
	imp := make([]float64, t.NFeatures)
	walk(t.Root, 0, func(nd Node, _ int) {
		if in, ok := nd.(*Internal); ok {
			imp[in.Feature] += float64(in.Samples) / float64(t.NSamples) * in.Gain
		}
	})
	if sum := floats.Sum(imp); sum > 0 {
		floats.Scale(1/sum, imp)
	}
	return imp
}

// maxFeatureIndex is the largest feature tested anywhere in the tree, or -1.
func maxFeatureIndex(root Node) int {
	max := -1
	walk(root, 0, func(nd Node, _ int) {
		if in, ok := nd.(*Internal); ok && in.Feature > max {
			max = in.Feature
		}
	})
	return max
}
