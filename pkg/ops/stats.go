package ops

import (
	"fmt"
	"math"

	"github.com/akhildatla/reshape/pkg/command"
	"github.com/akhildatla/reshape/pkg/table"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// TestResult is the outcome of a two-sample comparison.
type TestResult struct {
	Strategy  command.Strategy
	Statistic float64
	PValue    float64
	// DF is the degrees of freedom; zero for the z-test.
	DF float64
}

// Test compares two rows or two columns of t. Samples are taken along the
// given axis: the Row axis compares columns label1 and label2 (each column
// holds one sample across its rows), the Column axis compares rows. All
// tests are two-sided. The table is not modified.
//
//   - t-test: independent two-sample Student's t-test with pooled variance.
//   - z-test: two-sample z-test using the sample variances.
//   - chi-squared: Pearson test of independence on the contingency table of
//     the samples' joint (value1, value2) pairs.
func Test(t *table.Table, label1, label2 string, strategy command.Strategy, axis command.Axis) (TestResult, error) {
	if err := checkAxis(axis); err != nil {
		return TestResult{}, err
	}
	sampleAxis := command.Column
	if axis == command.Column {
		sampleAxis = command.Row
	}
	a, err := cells(t, label1, sampleAxis)
	if err != nil {
		return TestResult{}, err
	}
	b, err := cells(t, label2, sampleAxis)
	if err != nil {
		return TestResult{}, err
	}

	var res TestResult
	switch strategy {
	case command.TTest:
		res, err = tTest(a, b)
	case command.ZTest:
		res, err = zTest(a, b)
	case command.ChiSquared:
		res, err = chiSquared(a, b)
	default:
		return TestResult{}, fmt.Errorf("%w: %s", ErrUnsupportedStrategy, strategy)
	}
	if err != nil {
		return TestResult{}, err
	}
	res.Strategy = strategy
	res.PValue = clamp01(res.PValue)
	return res, nil
}

func sample(cells []any, label string) ([]float64, error) {
	vals, _ := numbers(cells)
	if len(vals) < 2 {
		return nil, fmt.Errorf("%w: %q has %d numeric values, need at least 2", ErrInsufficientData, label, len(vals))
	}
	return vals, nil
}

func tTest(a, b []any) (TestResult, error) {
	x, err := sample(a, "sample 1")
	if err != nil {
		return TestResult{}, err
	}
	y, err := sample(b, "sample 2")
	if err != nil {
		return TestResult{}, err
	}
	n1, n2 := float64(len(x)), float64(len(y))
	m1, v1 := stat.MeanVariance(x, nil)
	m2, v2 := stat.MeanVariance(y, nil)

	df := n1 + n2 - 2
	pooled := ((n1-1)*v1 + (n2-1)*v2) / df
	se := math.Sqrt(pooled * (1/n1 + 1/n2))
	if se == 0 {
		return TestResult{}, fmt.Errorf("%w: both samples have zero variance", ErrInsufficientData)
	}
	tstat := (m1 - m2) / se
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return TestResult{
		Statistic: tstat,
		PValue:    2 * dist.CDF(-math.Abs(tstat)),
		DF:        df,
	}, nil
}

func zTest(a, b []any) (TestResult, error) {
	x, err := sample(a, "sample 1")
	if err != nil {
		return TestResult{}, err
	}
	y, err := sample(b, "sample 2")
	if err != nil {
		return TestResult{}, err
	}
	m1, v1 := stat.MeanVariance(x, nil)
	m2, v2 := stat.MeanVariance(y, nil)
	se := math.Sqrt(v1/float64(len(x)) + v2/float64(len(y)))
	if se == 0 {
		return TestResult{}, fmt.Errorf("%w: both samples have zero variance", ErrInsufficientData)
	}
	z := (m1 - m2) / se
	return TestResult{
		Statistic: z,
		PValue:    2 * distuv.UnitNormal.CDF(-math.Abs(z)),
	}, nil
}

func chiSquared(a, b []any) (TestResult, error) {
	var rowKeys, colKeys []string
	rowPos := make(map[string]int)
	colPos := make(map[string]int)
	type pair struct{ r, c int }
	var pairs []pair

	for i := range a {
		if table.IsMissing(a[i]) || table.IsMissing(b[i]) {
			continue
		}
		rk, ck := table.CellKey(a[i]), table.CellKey(b[i])
		r, ok := rowPos[rk]
		if !ok {
			r = len(rowKeys)
			rowPos[rk] = r
			rowKeys = append(rowKeys, rk)
		}
		c, ok := colPos[ck]
		if !ok {
			c = len(colKeys)
			colPos[ck] = c
			colKeys = append(colKeys, ck)
		}
		pairs = append(pairs, pair{r, c})
	}
	if len(pairs) < 2 {
		return TestResult{}, fmt.Errorf("%w: %d complete pairs, need at least 2", ErrInsufficientData, len(pairs))
	}

	nr, nc := len(rowKeys), len(colKeys)
	if nr < 2 || nc < 2 {
		return TestResult{Statistic: 0, PValue: 1}, nil
	}

	counts := make([]float64, nr*nc)
	rowSum := make([]float64, nr)
	colSum := make([]float64, nc)
	for _, p := range pairs {
		counts[p.r*nc+p.c]++
		rowSum[p.r]++
		colSum[p.c]++
	}
	total := float64(len(pairs))
	expected := make([]float64, nr*nc)
	for r := range nr {
		for c := range nc {
			expected[r*nc+c] = rowSum[r] * colSum[c] / total
		}
	}

	chi := stat.ChiSquare(counts, expected)
	df := float64((nr - 1) * (nc - 1))
	dist := distuv.ChiSquared{K: df}
	return TestResult{
		Statistic: chi,
		PValue:    1 - dist.CDF(chi),
		DF:        df,
	}, nil
}

func clamp01(p float64) float64 {
	switch {
	case math.IsNaN(p):
		return 1
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}
