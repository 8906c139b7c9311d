// Package table holds query results in memory: an ordered list of named columns and rows of values,
// some of which may be re-typed as categorical columns.
package table

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/fen-analytics/sad/core"
)

// minSuggestionRatio is the similarity required before a column is offered as a suggestion.
const minSuggestionRatio = .6

// Row maps a column name to its value. Missing values are nil.
type Row map[string]interface{}

type Table struct {
	columns []string
	rows    []Row
	dtypes  map[string]*CategoricalDtype
}

// New builds a table from positional rows; each row must have one value per column.
func New(columns []string, rows [][]interface{}) (*Table, error) {
	if err := checkColumns(columns); err != nil {
		return nil, err
	}
	tbl := &Table{
		columns: append([]string(nil), columns...),
		rows:    make([]Row, 0, len(rows)),
		dtypes:  make(map[string]*CategoricalDtype),
	}
	for i, vals := range rows {
		if len(vals) != len(columns) {
			return nil, core.NewInvalidInputError(vals, fmt.Sprintf("row %d has %d values for %d columns", i, len(vals), len(columns)))
		}
		row := make(Row, len(columns))
		for j, col := range columns {
			row[col] = vals[j]
		}
		tbl.rows = append(tbl.rows, row)
	}
	return tbl, nil
}

// FromRows builds a table from keyed rows. Columns absent from a row are missing (nil).
func FromRows(columns []string, rows []Row) (*Table, error) {
	if err := checkColumns(columns); err != nil {
		return nil, err
	}
	tbl := &Table{
		columns: append([]string(nil), columns...),
		rows:    make([]Row, 0, len(rows)),
		dtypes:  make(map[string]*CategoricalDtype),
	}
	for _, r := range rows {
		row := make(Row, len(columns))
		for _, col := range columns {
			row[col] = r[col]
		}
		tbl.rows = append(tbl.rows, row)
	}
	return tbl, nil
}

func checkColumns(columns []string) error {
	seen := make(map[string]struct{}, len(columns))
	for _, col := range columns {
		if _, dup := seen[col]; dup {
			return core.NewInvalidInputError(col, "duplicate column name")
		}
		seen[col] = struct{}{}
	}
	return nil
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Has reports whether the table has the named column.
func (t *Table) Has(name string) bool {
	for _, col := range t.columns {
		if col == name {
			return true
		}
	}
	return false
}

// Row returns a copy of the i-th row.
func (t *Table) Row(i int) Row {
	row := make(Row, len(t.columns))
	for k, v := range t.rows[i] {
		row[k] = v
	}
	return row
}

// Rows returns a copy of all rows.
func (t *Table) Rows() []Row {
	rows := make([]Row, 0, len(t.rows))
	for i := range t.rows {
		rows = append(rows, t.Row(i))
	}
	return rows
}

// Values returns the i-th row in column order.
func (t *Table) Values(i int) []interface{} {
	vals := make([]interface{}, 0, len(t.columns))
	for _, col := range t.columns {
		vals = append(vals, t.rows[i][col])
	}
	return vals
}

// Column returns the values of the named column, in row order.
func (t *Table) Column(name string) ([]interface{}, error) {
	if !t.Has(name) {
		return nil, t.missingColumn(name)
	}
	vals := make([]interface{}, 0, len(t.rows))
	for _, row := range t.rows {
		vals = append(vals, row[name])
	}
	return vals, nil
}

// Dtype returns the categorical dtype of the named column, or nil when the column is not categorical.
func (t *Table) Dtype(name string) *CategoricalDtype {
	return t.dtypes[name]
}

// Copy returns a shallow copy: rows are copied, values are shared.
func (t *Table) Copy() *Table {
	cp := &Table{
		columns: t.Columns(),
		rows:    t.Rows(),
		dtypes:  make(map[string]*CategoricalDtype, len(t.dtypes)),
	}
	for k, v := range t.dtypes {
		cp.dtypes[k] = v
	}
	return cp
}

// WithColumn returns a copy of the table where the named column holds values.
// An existing column is replaced in place, a new one is appended.
func (t *Table) WithColumn(name string, values []interface{}) (*Table, error) {
	if len(values) != len(t.rows) {
		return nil, core.NewInvalidInputError(name, fmt.Sprintf("%d values for %d rows", len(values), len(t.rows)))
	}
	cp := t.Copy()
	if !cp.Has(name) {
		cp.columns = append(cp.columns, name)
	}
	delete(cp.dtypes, name)
	for i, v := range values {
		cp.rows[i][name] = v
	}
	return cp, nil
}

// WithCategorical returns a copy of the table with col stored as a categorical column named col.Name.
func (t *Table) WithCategorical(col *Categorical) (*Table, error) {
	cp, err := t.WithColumn(col.Name, col.Values())
	if err != nil {
		return nil, err
	}
	cp.dtypes[col.Name] = col.Dtype
	return cp, nil
}

// missingColumn builds a MissingColumnError suggesting the closest existing column name.
func (t *Table) missingColumn(name string) error {
	var (
		best      string
		bestRatio float64
	)
	lname := strings.ToLower(name)
	for _, col := range t.columns {
		m := difflib.NewMatcher(strings.Split(lname, ""), strings.Split(strings.ToLower(col), ""))
		if r := m.Ratio(); r > bestRatio {
			best, bestRatio = col, r
		}
	}
	if bestRatio < minSuggestionRatio {
		best = ""
	}
	return core.NewMissingColumnError(name, best)
}
