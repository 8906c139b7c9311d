// Package student derives academic classifications from student records: the year of progress
// in the degree and the categorical student type and concentration.
package student

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/fen-analytics/sad/core"
	"github.com/fen-analytics/sad/core/table"
)

// ProgressColumn names the column produced by the progress annotator.
const ProgressColumn = "Avance_Carrera"

// ProgressYear is a student's year of progress in the degree, derived from approved credits (ud).
type ProgressYear int

const (
	Undefined ProgressYear = iota
	FirstYear
	SecondYear
	ThirdYear
	FourthYear
	FifthYear
)

var (
	progressLabels = [...]string{
		Undefined:  "N/A",
		FirstYear:  "Primer Año",
		SecondYear: "Segundo Año",
		ThirdYear:  "Tercer Año",
		FourthYear: "Cuarto Año",
		FifthYear:  "Quinto Año",
	}

	// ProgressDtype is the ordered vocabulary of the progress column. Undefined is not part of it.
	ProgressDtype = table.NewCategoricalDtype(true,
		progressLabels[FirstYear],
		progressLabels[SecondYear],
		progressLabels[ThirdYear],
		progressLabels[FourthYear],
		progressLabels[FifthYear],
	)

	// exclusive upper bound of each year, in order
	progressBounds = []struct {
		upper int
		year  ProgressYear
	}{
		{58, FirstYear},
		{118, SecondYear},
		{178, ThirdYear},
		{238, FourthYear},
		{300, FifthYear},
	}
)

func (y ProgressYear) String() string {
	if y < Undefined || y > FifthYear {
		return progressLabels[Undefined]
	}
	return progressLabels[y]
}

// code is the position of y in ProgressDtype, -1 for Undefined.
func (y ProgressYear) code() int {
	if y <= Undefined || y > FifthYear {
		return -1
	}
	return int(y) - 1
}

// ZeroPolicy decides how a credit count of exactly 0 is classified.
type ZeroPolicy int

const (
	ZeroIsFirstYear ZeroPolicy = iota // 0 <= ud < 58 is first year
	ZeroIsUndefined                   // 0 < ud < 58 is first year, 0 is undefined
)

func (p ZeroPolicy) String() string {
	if p == ZeroIsUndefined {
		return "zero-undefined"
	}
	return "zero-first-year"
}

type Classifier struct {
	Zero ZeroPolicy
}

// NewClassifier returns a Classifier; zeroInclusive selects ZeroIsFirstYear.
func NewClassifier(zeroInclusive bool) Classifier {
	if zeroInclusive {
		return Classifier{Zero: ZeroIsFirstYear}
	}
	return Classifier{Zero: ZeroIsUndefined}
}

// Classify maps approved credits to a progress year. Negative counts and counts of 300 or more are Undefined.
func (c Classifier) Classify(ud int) ProgressYear {
	if ud < 0 || (ud == 0 && c.Zero == ZeroIsUndefined) {
		return Undefined
	}
	for _, b := range progressBounds {
		if ud < b.upper {
			return b.year
		}
	}
	return Undefined
}

// ClassifyValue classifies a credit count as decoded by a database driver.
// nil is Undefined; values that are not integral numbers fail with an InvalidInputError.
func (c Classifier) ClassifyValue(v interface{}) (ProgressYear, error) {
	if v == nil {
		return Undefined, nil
	}
	ud, err := credits(v)
	if err != nil {
		return Undefined, err
	}
	return c.Classify(ud), nil
}

// Annotate classifies every credit count, keeping positions. Undefined years are missing entries of the
// resulting ProgressColumn. The first invalid value aborts the whole column.
func (c Classifier) Annotate(values []interface{}) (*table.Categorical, error) {
	codes := make([]int, len(values))
	for i, v := range values {
		year, err := c.ClassifyValue(v)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: row %d", ProgressColumn, i)
		}
		codes[i] = year.code()
	}
	return &table.Categorical{Name: ProgressColumn, Dtype: ProgressDtype, Codes: codes}, nil
}

// AnnotateTable returns a copy of tbl with ProgressColumn computed from creditsColumn.
func (c Classifier) AnnotateTable(tbl *table.Table, creditsColumn string) (*table.Table, error) {
	values, err := tbl.Column(creditsColumn)
	if err != nil {
		return nil, err
	}
	col, err := c.Annotate(values)
	if err != nil {
		return nil, err
	}
	return tbl.WithCategorical(col)
}

// credits converts a driver value to an int. Out of int range values are clamped: they classify
// as Undefined either way.
func credits(v interface{}) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int8:
		return int(n), nil
	case int16:
		return int(n), nil
	case int32:
		return int(n), nil
	case int64:
		return clampInt64(n), nil
	case uint8:
		return int(n), nil
	case uint16:
		return int(n), nil
	case uint32:
		return clampUint64(uint64(n)), nil
	case uint:
		return clampUint64(uint64(n)), nil
	case uint64:
		return clampUint64(n), nil
	case float32:
		return floatCredits(v, float64(n))
	case float64:
		return floatCredits(v, n)
	case string:
		return stringCredits(v, n)
	case []byte: // DECIMAL and NUMERIC columns
		return stringCredits(v, string(n))
	default:
		return 0, core.NewInvalidInputError(v, fmt.Sprintf("credit count must be numeric, got %T", v))
	}
}

func clampInt64(n int64) int {
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	if n < math.MinInt32 {
		return math.MinInt32
	}
	return int(n)
}

func clampUint64(n uint64) int {
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

func floatCredits(v interface{}, f float64) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, core.NewInvalidInputError(v, "credit count must be finite")
	}
	if f != math.Trunc(f) {
		return 0, core.NewInvalidInputError(v, "credit count must be a whole number")
	}
	if f > math.MaxInt32 {
		return math.MaxInt32, nil
	}
	if f < math.MinInt32 {
		return math.MinInt32, nil
	}
	return int(f), nil
}

func stringCredits(v interface{}, s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return clampInt64(n), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, core.NewInvalidInputError(v, "credit count must be numeric")
	}
	return floatCredits(v, f)
}
