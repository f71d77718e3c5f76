// Package dtree provides ID3 decision tree classification for Go,
// designed for small numeric datasets and embedded inference.
//
// dtree induces binary trees with information-gain splits of the form
// x[f] <= t and exposes them both as a plain tree value and through a
// scikit-learn-like estimator.
//
// # Features
//
// - Deterministic induction: identical inputs always yield identical trees
// - scikit-learn-like API: Fit, Predict, PredictProba, Score
// - Structured errors built on cockroachdb/errors
// - Structured logging through zerolog and log/slog
// - NumPy .npy input and output, Graphviz rendering
//
// # Installation
//
//	go get github.com/YuminosukeSato/dtree
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/dtree/sklearn/tree"
//	)
//
//	func main() {
//	    features := []float64{
//	        1, 1,
//	        0, 1,
//	        1, 0,
//	        0, 0,
//	    }
//	    labels := []int{0, 1, 1, 0}
//
//	    t, err := tree.Train(features, labels, 2, 4, tree.DefaultParams())
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer t.Release()
//
//	    pred, err := t.PredictBatch(features, 2, 4)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(pred) // [0 1 1 0]
//	}
//
// # Packages
//
//   - sklearn/tree: induction, prediction, rendering and DecisionTreeClassifier
//   - metrics: accuracy, classification error and confusion matrices
//   - datasets: .npy loading and saving
//   - core/model: estimator interfaces and fitted-state management
//   - core/parallel: row-range parallelism for batch prediction
//   - pkg/errors: error types and the warning system
//   - pkg/log: logger interface with zerolog and slog backends
//   - cmd/dtree: command line interface
//
// # Command Line
//
//	dtree xor
//	dtree train --features x.npy --labels y.npy --max-depth 3 --graph tree.svg --graph-format svg
package dtree
