package tree

import (
	"context"
	"time"

	"github.com/YuminosukeSato/dtree/pkg/errors"
	"github.com/YuminosukeSato/dtree/pkg/log"
)

const (
	// DefaultMaxDepth is the depth at which growth stops unless configured otherwise.
	DefaultMaxDepth = 5
	// DefaultMinSamplesSplit is the smallest node size that may still be split.
	DefaultMinSamplesSplit = 1
)

// Params controls tree growth.
type Params struct {
	// MaxDepth: nodes at this depth become leaves. The root is depth 0.
	MaxDepth int
	// MinSamplesSplit: nodes with fewer rows become leaves.
	MinSamplesSplit int
}

// DefaultParams returns MaxDepth=5, MinSamplesSplit=1.
func DefaultParams() Params {
	return Params{MaxDepth: DefaultMaxDepth, MinSamplesSplit: DefaultMinSamplesSplit}
}

// Validate rejects parameters that cannot produce a tree.
func (p Params) Validate() error {
	if p.MaxDepth < 0 {
		return errors.NewValidationError("max_depth", "must be non-negative", p.MaxDepth)
	}
	if p.MinSamplesSplit < 1 {
		return errors.NewValidationError("min_samples_split", "must be at least 1", p.MinSamplesSplit)
	}
	return nil
}

// Train induces an ID3 tree from nrow rows of ncol features laid out
// row-major in features, with one non-negative class label per row.
//
// Train is deterministic: identical inputs always produce identical trees.
func Train(features []float64, labels []int, ncol, nrow int, params Params) (*Tree, error) {
	return train(features, labels, ncol, nrow, params, log.GetLoggerWithName("tree.induction"))
}

func train(features []float64, labels []int, ncol, nrow int, params Params, logger log.Logger) (out *Tree, err error) {
	const op = "tree.Train"
	defer errors.Recover(&err, op)

	if err := params.Validate(); err != nil {
		return nil, err
	}
	d, nClasses, err := newDataset(op, features, labels, ncol, nrow)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	b := &builder{params: params, nClasses: nClasses, logger: logger}
	root := b.grow(d, 0)

	out = &Tree{
		Root:      root,
		NFeatures: ncol,
		NClasses:  nClasses,
		NSamples:  nrow,
	}

	logger.Info("Tree induced",
		log.SamplesKey, nrow,
		log.FeaturesKey, ncol,
		log.ClassesKey, nClasses,
		log.DepthKey, out.Depth(),
		log.LeavesKey, out.NLeaves(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return out, nil
}

// builder carries the per-induction settings through the recursion.
type builder struct {
	params   Params
	nClasses int
	logger   log.Logger
}

// grow returns the subtree for d, rooted at the given depth.
func (b *builder) grow(d dataset, depth int) Node {
	if d.nrow() == 0 {
		panic("tree: grow called with an empty partition")
	}

	if isPure(d.y) || d.nrow() < b.params.MinSamplesSplit || depth == b.params.MaxDepth {
		return b.leaf(d.y)
	}

	s, ok := bestSplit(d)
	if !ok {
		// identical rows carrying different labels
		leaf := b.leaf(d.y)
		errors.Warn(errors.NewUnsplittableNodeWarning(depth, d.nrow(), len(uniqueValues(d.y))))
		return leaf
	}

	if b.logger.Enabled(context.Background(), log.LevelDebug) {
		b.logger.Debug("Split chosen",
			log.DepthKey, depth,
			log.SamplesKey, d.nrow(),
			log.FeatureIndexKey, s.feature,
			log.ThresholdKey, s.threshold,
			log.GainKey, s.gain,
		)
	}

	return &Internal{
		Feature:   s.feature,
		Threshold: s.threshold,
		Gain:      s.gain,
		Samples:   d.nrow(),
		Left:      b.grow(s.left, depth+1),
		Right:     b.grow(s.right, depth+1),
	}
}

func (b *builder) leaf(labels []int) *Leaf {
	value, counts := majority(labels)
	padded := make([]int, b.nClasses)
	copy(padded, counts)
	return &Leaf{Value: value, Counts: padded, Samples: len(labels)}
}
