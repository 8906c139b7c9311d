package student

import (
	"github.com/fen-analytics/sad/core"
	"github.com/fen-analytics/sad/core/table"
)

// Default columns of the student categorizer.
const (
	TypeColumn          = "Tipo_Alumno"
	ConcentrationColumn = "Cod_Mencion"
)

// NoConcentration is the concentration of students without one.
const NoConcentration = "N/A"

var (
	// TypeDtype is the ordered vocabulary of student types.
	TypeDtype = table.NewCategoricalDtype(true, "IC", "IICG", "CA", "LIBRE")
	// ConcentrationDtype is the ordered vocabulary of concentration (mención) codes.
	ConcentrationDtype = table.NewCategoricalDtype(true, "PC", "MA", "ME", NoConcentration)
)

type categorizeOptions struct {
	typeColumn          string
	concentrationColumn string
}

type CategorizeOption func(*categorizeOptions)

// WithTypeColumn overrides the student type column (default TypeColumn).
func WithTypeColumn(name string) CategorizeOption {
	return func(o *categorizeOptions) { o.typeColumn = name }
}

// WithConcentrationColumn overrides the concentration column (default ConcentrationColumn).
func WithConcentrationColumn(name string) CategorizeOption {
	return func(o *categorizeOptions) { o.concentrationColumn = name }
}

// Categorize returns a copy of tbl where the student type and concentration columns are ordered
// categorical columns. A missing or blank concentration becomes NoConcentration. Any value outside the
// vocabularies fails the whole call with an InvalidCategoryError. Other columns pass through.
func Categorize(tbl *table.Table, opts ...CategorizeOption) (*table.Table, error) {
	o := categorizeOptions{
		typeColumn:          TypeColumn,
		concentrationColumn: ConcentrationColumn,
	}
	for _, opt := range opts {
		opt(&o)
	}

	types, err := tbl.Column(o.typeColumn)
	if err != nil {
		return nil, err
	}
	concentrations, err := tbl.Column(o.concentrationColumn)
	if err != nil {
		return nil, err
	}
	for i, v := range concentrations {
		if isBlank(v) {
			concentrations[i] = NoConcentration
		}
	}

	typeCol, err := table.Encode(o.typeColumn, TypeDtype, types)
	if err != nil {
		return nil, err
	}
	concentrationCol, err := table.Encode(o.concentrationColumn, ConcentrationDtype, concentrations)
	if err != nil {
		return nil, err
	}

	out, err := tbl.WithCategorical(typeCol)
	if err != nil {
		return nil, err
	}
	return out.WithCategorical(concentrationCol)
}

func isBlank(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return core.CleanString(val) == ""
	case []byte:
		return core.CleanString(string(val)) == ""
	}
	return false
}
