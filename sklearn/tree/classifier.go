package tree

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/dtree/core/model"
	"github.com/YuminosukeSato/dtree/datasets"
	"github.com/YuminosukeSato/dtree/metrics"
	"github.com/YuminosukeSato/dtree/pkg/errors"
	"github.com/YuminosukeSato/dtree/pkg/log"
)

var _ model.Classifier = (*DecisionTreeClassifier)(nil)

// DecisionTreeClassifier is a scikit-learn style estimator around Train.
//
// Example:
//
//	clf := tree.NewDecisionTreeClassifier(tree.WithMaxDepth(3))
//	if err := clf.Fit(X, y); err != nil {
//	    return err
//	}
//	pred, err := clf.Predict(XTest)
type DecisionTreeClassifier struct {
	state  *model.StateManager
	logger log.Logger

	maxDepth        int
	minSamplesSplit int

	tree_      *Tree
	nClasses_  int
	nFeatures_ int
}

// Option configures a DecisionTreeClassifier.
type Option func(*DecisionTreeClassifier)

// WithMaxDepth sets the depth at which nodes become leaves.
func WithMaxDepth(depth int) Option {
	return func(dt *DecisionTreeClassifier) {
		dt.maxDepth = depth
	}
}

// WithMinSamplesSplit sets the minimum node size eligible for splitting.
func WithMinSamplesSplit(n int) Option {
	return func(dt *DecisionTreeClassifier) {
		dt.minSamplesSplit = n
	}
}

// WithLogger replaces the default component logger.
func WithLogger(l log.Logger) Option {
	return func(dt *DecisionTreeClassifier) {
		dt.logger = l
	}
}

// NewDecisionTreeClassifier creates an unfitted classifier with
// max_depth=5 and min_samples_split=1 unless overridden.
func NewDecisionTreeClassifier(opts ...Option) *DecisionTreeClassifier {
	dt := &DecisionTreeClassifier{
		state:           model.NewStateManager(),
		logger:          log.GetLoggerWithName("tree.classifier"),
		maxDepth:        DefaultMaxDepth,
		minSamplesSplit: DefaultMinSamplesSplit,
	}
	for _, opt := range opts {
		opt(dt)
	}
	return dt
}

func (dt *DecisionTreeClassifier) params() Params {
	return Params{MaxDepth: dt.maxDepth, MinSamplesSplit: dt.minSamplesSplit}
}

// Fit trains the classifier. y must be a single column of integral,
// non-negative class labels. Refitting discards the previous tree.
func (dt *DecisionTreeClassifier) Fit(X, y mat.Matrix) error {
	start := time.Now()
	logger := dt.logger.With(log.OperationKey, log.OperationFit, log.PhaseKey, log.PhaseTraining)

	features, rows, cols := datasets.Flatten(X)
	yRows, yCols := y.Dims()
	if yCols != 1 {
		return errors.NewDimensionError("DecisionTreeClassifier.Fit", 1, yCols, 1)
	}
	if yRows != rows {
		return errors.NewDimensionError("DecisionTreeClassifier.Fit", rows, yRows, 0)
	}
	labels, err := LabelsFromFloat(datasets.Column(y, 0))
	if err != nil {
		return err
	}

	t, err := train(features, labels, cols, rows, dt.params(), dt.logger)
	if err != nil {
		logger.Error("Fit failed", err)
		return err
	}

	if dt.tree_ != nil {
		dt.tree_.Release()
	}
	dt.tree_ = t
	dt.nClasses_ = t.NClasses
	dt.nFeatures_ = cols
	dt.state.SetFitted(cols, rows)

	logger.Info("Model fitted",
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.ClassesKey, t.NClasses,
		log.DepthKey, t.Depth(),
		log.LeavesKey, t.NLeaves(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// Predict returns an n×1 matrix of predicted class labels.
func (dt *DecisionTreeClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := dt.state.RequireFitted("DecisionTreeClassifier", "Predict"); err != nil {
		return nil, err
	}

	features, rows, cols := datasets.Flatten(X)
	pred, err := dt.tree_.PredictBatch(features, cols, rows)
	if err != nil {
		return nil, err
	}

	out := mat.NewDense(rows, 1, nil)
	for i, c := range pred {
		out.Set(i, 0, float64(c))
	}

	dt.logger.Debug("Prediction completed",
		log.OperationKey, log.OperationPredict,
		log.PhaseKey, log.PhaseInference,
		log.PredsKey, rows,
	)
	return out, nil
}

// PredictProba returns an n×NClasses matrix of leaf class frequencies.
func (dt *DecisionTreeClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if err := dt.state.RequireFitted("DecisionTreeClassifier", "PredictProba"); err != nil {
		return nil, err
	}

	rows, _ := X.Dims()
	out := mat.NewDense(rows, dt.nClasses_, nil)
	for i := 0; i < rows; i++ {
		proba, err := dt.tree_.PredictProba(mat.Row(nil, i, X))
		if err != nil {
			return nil, err
		}
		out.SetRow(i, proba)
	}

	dt.logger.Debug("Probability prediction completed",
		log.OperationKey, log.OperationPredictProba,
		log.PredsKey, rows,
	)
	return out, nil
}

// Score returns the mean accuracy on X and y, or 0 if prediction fails.
func (dt *DecisionTreeClassifier) Score(X, y mat.Matrix) float64 {
	pred, err := dt.Predict(X)
	if err != nil {
		dt.logger.Error("Score failed", err, log.OperationKey, log.OperationScore)
		return 0
	}

	rows, _ := y.Dims()
	acc, err := metrics.Accuracy(
		mat.NewVecDense(rows, datasets.Column(y, 0)),
		mat.NewVecDense(rows, datasets.Column(pred, 0)),
	)
	if err != nil {
		dt.logger.Error("Score failed", err, log.OperationKey, log.OperationScore)
		return 0
	}
	return acc
}

// Classes returns the labels 0..NClasses-1 the tree can predict.
func (dt *DecisionTreeClassifier) Classes() []int {
	classes := make([]int, dt.nClasses_)
	for i := range classes {
		classes[i] = i
	}
	return classes
}

// NClasses returns the number of classes seen during Fit.
func (dt *DecisionTreeClassifier) NClasses() int { return dt.nClasses_ }

// IsFitted reports whether Fit has completed successfully.
func (dt *DecisionTreeClassifier) IsFitted() bool { return dt.state.IsFitted() }

// Tree returns the fitted tree, or nil before Fit.
func (dt *DecisionTreeClassifier) Tree() *Tree { return dt.tree_ }

// GetDepth returns the depth of the fitted tree.
func (dt *DecisionTreeClassifier) GetDepth() int { return dt.tree_.Depth() }

// GetNLeaves returns the number of leaves of the fitted tree.
func (dt *DecisionTreeClassifier) GetNLeaves() int { return dt.tree_.NLeaves() }

// GetFeatureImportances returns the normalized importance of each feature.
func (dt *DecisionTreeClassifier) GetFeatureImportances() []float64 {
	return dt.tree_.FeatureImportances()
}

// GetParams returns the hyperparameters.
func (dt *DecisionTreeClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"max_depth":         dt.maxDepth,
		"min_samples_split": dt.minSamplesSplit,
	}
}

// SetParams updates hyperparameters. Unknown keys and values that are not
// ints are rejected. The change applies to the next Fit.
func (dt *DecisionTreeClassifier) SetParams(params map[string]interface{}) error {
	next := dt.params()
	for key, value := range params {
		v, ok := value.(int)
		if !ok {
			return errors.NewValidationError(key, fmt.Sprintf("expected int, got %T", value), value)
		}
		switch key {
		case "max_depth":
			next.MaxDepth = v
		case "min_samples_split":
			next.MinSamplesSplit = v
		default:
			return errors.NewValidationError(key, "unknown parameter", value)
		}
	}
	if err := next.Validate(); err != nil {
		return err
	}
	dt.maxDepth = next.MaxDepth
	dt.minSamplesSplit = next.MinSamplesSplit
	return nil
}
