package tree

import (
	"math"

	"github.com/YuminosukeSato/dtree/pkg/errors"
)

// dataset is a row-major feature matrix paired with its labels.
// ncol is fixed for the lifetime of one induction; nrow is len(y).
type dataset struct {
	x    []float64
	y    []int
	ncol int
}

func (d dataset) nrow() int { return len(d.y) }

// row returns the contiguous slice holding row r.
func (d dataset) row(r int) []float64 {
	return d.x[r*d.ncol : (r+1)*d.ncol]
}

// column copies feature f of every row into dst and returns it.
func (d dataset) column(f int, dst []float64) []float64 {
	dst = dst[:0]
	for r := 0; r < d.nrow(); r++ {
		dst = append(dst, d.x[r*d.ncol+f])
	}
	return dst
}

// minLabelLimit is the smallest label bound newDataset enforces. Labels
// size the per-node count vectors, so they are capped at max(nrow, minLabelLimit).
const minLabelLimit = 1024

// newDataset validates caller input once at the training boundary.
// Everything downstream assumes the checks below hold.
func newDataset(op string, features []float64, labels []int, ncol, nrow int) (dataset, int, error) {
	if nrow <= 0 || len(labels) == 0 {
		return dataset{}, 0, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if ncol < 1 {
		return dataset{}, 0, errors.NewValidationError("ncol", "must be at least 1", ncol)
	}
	if len(labels) != nrow {
		return dataset{}, 0, errors.NewDimensionError(op, nrow, len(labels), 0)
	}
	if len(features) != ncol*nrow {
		return dataset{}, 0, errors.NewDimensionError(op, ncol*nrow, len(features), 1)
	}
	if err := errors.CheckNumericalStability(op, features); err != nil {
		return dataset{}, 0, err
	}

	limit := max(nrow, minLabelLimit)
	maxLabel := 0
	for i, c := range labels {
		if c < 0 {
			return dataset{}, 0, errors.NewInvalidLabelError(op, i, float64(c), "label must be non-negative")
		}
		if c >= limit {
			return dataset{}, 0, errors.NewInvalidLabelError(op, i, float64(c), "label too large for dataset size")
		}
		if c > maxLabel {
			maxLabel = c
		}
	}

	return dataset{x: features, y: labels, ncol: ncol}, maxLabel + 1, nil
}

// LabelsFromFloat converts class labels stored as floats into the integer
// labels Train expects. Each value must be a finite, non-negative integer.
func LabelsFromFloat(y []float64) ([]int, error) {
	labels := make([]int, len(y))
	for i, v := range y {
		switch {
		case math.IsNaN(v) || math.IsInf(v, 0):
			return nil, errors.NewInvalidLabelError("tree.LabelsFromFloat", i, v, "label must be finite")
		case v < 0:
			return nil, errors.NewInvalidLabelError("tree.LabelsFromFloat", i, v, "label must be non-negative")
		case v != math.Trunc(v):
			return nil, errors.NewInvalidLabelError("tree.LabelsFromFloat", i, v, "label must be integral")
		case v > math.MaxInt32:
			return nil, errors.NewInvalidLabelError("tree.LabelsFromFloat", i, v, "label too large")
		}
		labels[i] = int(v)
	}
	return labels, nil
}
