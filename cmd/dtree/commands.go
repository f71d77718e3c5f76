package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/dtree/datasets"
	"github.com/YuminosukeSato/dtree/metrics"
	"github.com/YuminosukeSato/dtree/pkg/errors"
	"github.com/YuminosukeSato/dtree/pkg/log"
	"github.com/YuminosukeSato/dtree/sklearn/tree"
)

type rootOptions struct {
	logLevel string
}

type treeOptions struct {
	maxDepth        int
	minSamplesSplit int
	graphPath       string
	graphFormat     string
}

func (o *treeOptions) bind(cmd *cobra.Command) {
	cmd.Flags().IntVar(&o.maxDepth, "max-depth", tree.DefaultMaxDepth, "depth at which nodes become leaves")
	cmd.Flags().IntVar(&o.minSamplesSplit, "min-samples-split", tree.DefaultMinSamplesSplit, "nodes with fewer rows become leaves")
	cmd.Flags().StringVar(&o.graphPath, "graph", "", "write the tree to this file")
	cmd.Flags().StringVar(&o.graphFormat, "graph-format", "dot", "graph format: dot, svg, png or jpg")
}

func (o *treeOptions) params() tree.Params {
	return tree.Params{MaxDepth: o.maxDepth, MinSamplesSplit: o.minSamplesSplit}
}

func (o *treeOptions) renderGraph(t *tree.Tree) error {
	if o.graphPath == "" {
		return nil
	}
	format, ok := tree.GraphFormats[o.graphFormat]
	if !ok {
		return errors.NewValidationError("graph-format", "must be one of dot, svg, png, jpg", o.graphFormat)
	}
	return t.RenderFile(o.graphPath, format)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "dtree",
		Short:         "Train ID3 decision trees",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return log.SetupLogger(cmd.ErrOrStderr(), opts.logLevel)
		},
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn or error")

	cmd.AddCommand(newTrainCmd(), newXORCmd())
	return cmd
}

type trainOptions struct {
	treeOptions
	featuresPath    string
	labelsPath      string
	predictionsPath string
}

func newTrainCmd() *cobra.Command {
	opts := &trainOptions{}
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a tree on .npy features and labels and report training accuracy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTrain(cmd.OutOrStdout(), opts)
		},
	}
	opts.bind(cmd)
	cmd.Flags().StringVar(&opts.featuresPath, "features", "", "2-D float64 .npy feature matrix")
	cmd.Flags().StringVar(&opts.labelsPath, "labels", "", "1-D float64 .npy class labels")
	cmd.Flags().StringVar(&opts.predictionsPath, "predictions", "", "write training-set predictions to this .npy file")
	_ = cmd.MarkFlagRequired("features")
	_ = cmd.MarkFlagRequired("labels")
	return cmd
}

func runTrain(out io.Writer, opts *trainOptions) error {
	logger := log.GetLoggerWithName("cli")

	X, err := datasets.LoadNpyFile(opts.featuresPath)
	if err != nil {
		return err
	}
	Y, err := datasets.LoadNpyFile(opts.labelsPath)
	if err != nil {
		return err
	}
	labels, err := tree.LabelsFromFloat(datasets.Column(Y, 0))
	if err != nil {
		return err
	}

	features, rows, cols := datasets.Flatten(X)
	logger.Info("Dataset loaded", log.SamplesKey, rows, log.FeaturesKey, cols)

	t, err := tree.Train(features, labels, cols, rows, opts.params())
	if err != nil {
		return err
	}
	defer t.Release()

	pred, err := t.PredictBatch(features, cols, rows)
	if err != nil {
		return err
	}

	yPred := mat.NewVecDense(rows, nil)
	for i, c := range pred {
		yPred.SetVec(i, float64(c))
	}
	acc, err := metrics.Accuracy(mat.NewVecDense(len(labels), datasets.Column(Y, 0)), yPred)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "samples:  %d\n", rows)
	fmt.Fprintf(out, "features: %d\n", cols)
	fmt.Fprintf(out, "classes:  %d\n", t.NClasses)
	fmt.Fprintf(out, "depth:    %d\n", t.Depth())
	fmt.Fprintf(out, "leaves:   %d\n", t.NLeaves())
	fmt.Fprintf(out, "accuracy: %.4f\n", acc)

	if opts.predictionsPath != "" {
		if err := datasets.SaveNpyFile(opts.predictionsPath, yPred); err != nil {
			return err
		}
	}
	return opts.renderGraph(t)
}

func newXORCmd() *cobra.Command {
	opts := &treeOptions{}
	cmd := &cobra.Command{
		Use:   "xor",
		Short: "Fit the four-point XOR problem and print the predictions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runXOR(cmd.OutOrStdout(), opts)
		},
	}
	opts.bind(cmd)
	return cmd
}

func runXOR(out io.Writer, opts *treeOptions) error {
	features := []float64{
		1, 1,
		0, 1,
		1, 0,
		0, 0,
	}
	labels := []int{0, 1, 1, 0}

	t, err := tree.Train(features, labels, 2, 4, opts.params())
	if err != nil {
		return err
	}
	defer t.Release()

	pred, err := t.PredictBatch(features, 2, 4)
	if err != nil {
		return err
	}
	one, err := t.PredictOne([]float64{1, 0})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "predictions: %v\n", pred)
	fmt.Fprintf(out, "[1 0] -> %d\n", one)
	return opts.renderGraph(t)
}
