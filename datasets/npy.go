// Package datasets は NumPy の .npy ファイルと gonum 行列の相互変換を提供する
package datasets

import (
	"io"
	"os"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/dtree/pkg/errors"
)

// LoadNpy は float64 の1次元または2次元配列を読み込む。
// 1次元配列は n×1 の列ベクトルとして返す。
func LoadNpy(r io.Reader) (*mat.Dense, error) {
	npy, err := npyio.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "datasets: read npy header")
	}

	shape := npy.Header.Descr.Shape
	var rows, cols int
	switch len(shape) {
	case 1:
		rows, cols = shape[0], 1
	case 2:
		rows, cols = shape[0], shape[1]
	default:
		return nil, errors.NewValueError("LoadNpy", "only 1-D and 2-D arrays are supported")
	}
	if rows == 0 || cols == 0 {
		return nil, errors.NewModelError("LoadNpy", "empty array", errors.ErrEmptyData)
	}

	var data []float64
	if err := npy.Read(&data); err != nil {
		return nil, errors.Wrapf(err, "datasets: read npy data (dtype %s)", npy.Header.Descr.Type)
	}
	if len(data) != rows*cols {
		return nil, errors.NewDimensionError("LoadNpy", rows*cols, len(data), 0)
	}

	if npy.Header.Descr.Fortran && len(shape) == 2 {
		// column-major on disk
		return mat.DenseCopyOf(mat.NewDense(cols, rows, data).T()), nil
	}
	return mat.NewDense(rows, cols, data), nil
}

// LoadNpyFile は path の .npy ファイルを読み込む
func LoadNpyFile(path string) (m *mat.Dense, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "datasets: open %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "datasets: close %s", path)
		}
	}()
	return LoadNpy(f)
}

// SaveNpy は m を2次元 float64 配列として書き出す。
// npyio は連続した *mat.Dense しか扱えないため、それ以外の行列はコピーしてから書き出す。
func SaveNpy(w io.Writer, m mat.Matrix) error {
	dense, ok := m.(*mat.Dense)
	if !ok || dense.RawMatrix().Stride != dense.RawMatrix().Cols {
		dense = mat.DenseCopyOf(m)
	}
	if err := npyio.Write(w, dense); err != nil {
		return errors.Wrap(err, "datasets: write npy")
	}
	return nil
}

// SaveNpyFile は m を path に書き出す。既存のファイルは上書きされる。
func SaveNpyFile(path string, m mat.Matrix) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "datasets: create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "datasets: close %s", path)
		}
	}()
	return SaveNpy(f, m)
}

// Flatten は m を行優先の新しいスライスにコピーし、行数と列数と共に返す
func Flatten(m mat.Matrix) (data []float64, rows, cols int) {
	rows, cols = m.Dims()
	data = make([]float64, rows*cols)

	if rm, ok := m.(mat.RawMatrixer); ok {
		raw := rm.RawMatrix()
		if raw.Stride == cols {
			copy(data, raw.Data[:rows*cols])
			return data, rows, cols
		}
		for i := 0; i < rows; i++ {
			copy(data[i*cols:(i+1)*cols], raw.Data[i*raw.Stride:i*raw.Stride+cols])
		}
		return data, rows, cols
	}

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			data[i*cols+j] = m.At(i, j)
		}
	}
	return data, rows, cols
}

// Column は m の j 列目をコピーして返す
func Column(m mat.Matrix, j int) []float64 {
	return mat.Col(nil, j, m)
}
