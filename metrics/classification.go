// Package metrics は分類器の評価指標を提供する
package metrics

import (
	"github.com/YuminosukeSato/dtree/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// checkPair は2つのラベルベクトルが空でなく同じ長さであることを検証する
func checkPair(op string, yTrue, yPred *mat.VecDense) (int, error) {
	if yTrue == nil || yTrue.Len() == 0 {
		return 0, errors.NewModelError(op, "empty vector", errors.ErrEmptyData)
	}
	n := yTrue.Len()
	if yPred == nil {
		return 0, errors.NewDimensionError(op, n, 0, 0)
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	return n, nil
}

// Accuracy は正解率（予測ラベルが真のラベルと一致した割合）を計算する
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("Accuracy", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}
	return errors.SafeDivide(float64(correct), float64(n)), nil
}

// ClassificationError は誤分類率（1 - Accuracy）を計算する
func ClassificationError(yTrue, yPred *mat.VecDense) (float64, error) {
	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return 1 - acc, nil
}

// ConfusionMatrix は nClasses × nClasses の混同行列を返す。
// 行が真のクラス、列が予測クラスを表す。ラベルは 0, 1, ..., nClasses-1 の整数でなければならない。
func ConfusionMatrix(yTrue, yPred *mat.VecDense, nClasses int) (*mat.Dense, error) {
	n, err := checkPair("ConfusionMatrix", yTrue, yPred)
	if err != nil {
		return nil, err
	}
	if nClasses < 1 {
		return nil, errors.NewValidationError("n_classes", "must be at least 1", nClasses)
	}

	cm := mat.NewDense(nClasses, nClasses, nil)
	for i := 0; i < n; i++ {
		t, p := yTrue.AtVec(i), yPred.AtVec(i)
		ti, pi := int(t), int(p)
		if float64(ti) != t || ti < 0 || ti >= nClasses {
			return nil, errors.NewInvalidLabelError("ConfusionMatrix", i, t, "true label outside [0, n_classes)")
		}
		if float64(pi) != p || pi < 0 || pi >= nClasses {
			return nil, errors.NewInvalidLabelError("ConfusionMatrix", i, p, "predicted label outside [0, n_classes)")
		}
		cm.Set(ti, pi, cm.At(ti, pi)+1)
	}
	return cm, nil
}
