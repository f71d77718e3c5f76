// Package log defines standard attribute keys for tree induction and prediction.
//
// Using these keys keeps log records from the tree package, the estimator
// wrapper and the CLI consistent, so they can be filtered by field.
//
// Keys follow a hierarchical naming convention (e.g., "model.name",
// "data.samples").
package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of model.
	// Examples: "DecisionTreeClassifier", "Tree"
	ModelNameKey = "model.name"

	// EstimatorIDKey provides a unique identifier for a specific model instance.
	EstimatorIDKey = "estimator.id"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "predict_proba", "score"
	OperationKey = "ml.operation"

	// ComponentKey identifies which component is performing the operation.
	// Examples: "tree.classifier", "tree.induction", "cli"
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of model lifecycle.
	PhaseKey = "ml.phase"
)

// Data Shape
const (
	// SamplesKey indicates the number of samples (rows).
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns).
	FeaturesKey = "data.features"

	// ClassesKey indicates the number of distinct classes in the labels.
	ClassesKey = "data.classes"
)

// Performance Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// AccuracyKey records accuracy on the given data, in [0.0, 1.0].
	AccuracyKey = "metrics.accuracy"
)

// Tree Structure
// These attributes describe an induced tree and individual split decisions.
const (
	// DepthKey records the depth of an induced tree or of the node being grown.
	DepthKey = "tree.depth"

	// LeavesKey records the number of leaves in an induced tree.
	LeavesKey = "tree.leaves"

	// NodesKey records the total number of nodes in an induced tree.
	NodesKey = "tree.nodes"

	// FeatureIndexKey records the feature column tested by a split.
	FeatureIndexKey = "split.feature"

	// ThresholdKey records the threshold of a split.
	ThresholdKey = "split.threshold"

	// GainKey records the information gain of a split.
	GainKey = "split.gain"

	// HyperParamsKey contains model hyperparameters as a structured object.
	HyperParamsKey = "model.hyperparams"
)

// Prediction Context
const (
	// PredsKey indicates the number of predictions made.
	PredsKey = "preds.count"
)

// Error Context
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	ErrorCodeKey = "error.code"

	// SuggestionKey provides a hint for resolving the issue.
	SuggestionKey = "error.suggestion"
)

// Standard attribute values.
const (
	OperationFit          = "fit"
	OperationPredict      = "predict"
	OperationPredictProba = "predict_proba"
	OperationScore        = "score"

	PhaseTraining  = "training"
	PhaseInference = "inference"

	ErrorNotFitted         = "NOT_FITTED"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorEmptyData         = "EMPTY_DATA"
	ErrorInvalidLabel      = "INVALID_LABEL"
	ErrorInvalidInput      = "INVALID_INPUT"
)
