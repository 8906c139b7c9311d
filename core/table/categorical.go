package table

import (
	"fmt"
	"strings"

	"github.com/fen-analytics/sad/core"
)

// CategoricalDtype is a fixed vocabulary of labels. When Ordered, the position of a label in the
// vocabulary defines how values compare and sort.
type CategoricalDtype struct {
	categories []string
	index      map[string]int
	ordered    bool
}

// NewCategoricalDtype builds a dtype from its categories, in order.
// It panics on an empty or duplicated category: vocabularies are fixed at compile time.
func NewCategoricalDtype(ordered bool, categories ...string) *CategoricalDtype {
	dt := &CategoricalDtype{
		categories: make([]string, len(categories)),
		index:      make(map[string]int, len(categories)),
		ordered:    ordered,
	}
	copy(dt.categories, categories)
	for i, c := range categories {
		if c == "" {
			panic("table: empty category")
		}
		if _, dup := dt.index[c]; dup {
			panic(fmt.Sprintf("table: duplicate category %q", c))
		}
		dt.index[c] = i
	}
	return dt
}

// Categories returns a copy of the vocabulary.
func (dt *CategoricalDtype) Categories() []string {
	cats := make([]string, len(dt.categories))
	copy(cats, dt.categories)
	return cats
}

func (dt *CategoricalDtype) Ordered() bool { return dt.ordered }

func (dt *CategoricalDtype) Len() int { return len(dt.categories) }

// Code returns the position of label in the vocabulary, or -1.
func (dt *CategoricalDtype) Code(label string) int {
	if code, ok := dt.index[label]; ok {
		return code
	}
	return -1
}

func (dt *CategoricalDtype) Contains(label string) bool {
	_, ok := dt.index[label]
	return ok
}

// Label returns the category at code. ok is false for a missing code.
func (dt *CategoricalDtype) Label(code int) (string, bool) {
	if code < 0 || code >= len(dt.categories) {
		return "", false
	}
	return dt.categories[code], true
}

// Equal reports whether both dtypes have the same categories in the same order and the same ordering flag.
func (dt *CategoricalDtype) Equal(other *CategoricalDtype) bool {
	if dt == other {
		return true
	}
	if dt == nil || other == nil || dt.ordered != other.ordered || len(dt.categories) != len(other.categories) {
		return false
	}
	for i := range dt.categories {
		if dt.categories[i] != other.categories[i] {
			return false
		}
	}
	return true
}

func (dt *CategoricalDtype) String() string {
	return fmt.Sprintf("category(ordered=%t)[%s]", dt.ordered, strings.Join(dt.categories, ", "))
}

// Category is the cell value of a categorical column. Missing cells are stored as nil instead.
type Category struct {
	Dtype *CategoricalDtype
	Code  int
}

func (c Category) String() string {
	label, _ := c.Dtype.Label(c.Code)
	return label
}

// Less compares by vocabulary position. Only meaningful for ordered dtypes.
func (c Category) Less(other Category) bool {
	return c.Code < other.Code
}

// Categorical is a named column of codes into a CategoricalDtype; code -1 marks a missing entry.
type Categorical struct {
	Name  string
	Dtype *CategoricalDtype
	Codes []int
}

func (c *Categorical) Len() int { return len(c.Codes) }

// Value returns the label at i; ok is false for a missing entry.
func (c *Categorical) Value(i int) (label string, ok bool) {
	return c.Dtype.Label(c.Codes[i])
}

// IsMissing reports whether the entry at i is missing.
func (c *Categorical) IsMissing(i int) bool {
	_, ok := c.Value(i)
	return !ok
}

// Values returns the column as table cells: Category values, nil where missing.
func (c *Categorical) Values() []interface{} {
	vals := make([]interface{}, len(c.Codes))
	for i, code := range c.Codes {
		if code >= 0 && code < c.Dtype.Len() {
			vals[i] = Category{Dtype: c.Dtype, Code: code}
		}
	}
	return vals
}

// Less orders entries by vocabulary position, missing entries last. It fits sort.Slice.
func (c *Categorical) Less(i, j int) bool {
	mi, mj := c.IsMissing(i), c.IsMissing(j)
	switch {
	case mi:
		return false
	case mj:
		return true
	}
	return c.Codes[i] < c.Codes[j]
}

// Counts returns the number of entries per category, zero counts included.
func (c *Categorical) Counts() map[string]int {
	counts := make(map[string]int, c.Dtype.Len())
	for _, cat := range c.Dtype.categories {
		counts[cat] = 0
	}
	for i := range c.Codes {
		if label, ok := c.Value(i); ok {
			counts[label]++
		}
	}
	return counts
}

// Encode re-types values as a categorical column of dtype. Labels are whitespace-trimmed before lookup
// and nil values stay missing. A value outside the vocabulary fails with an InvalidCategoryError;
// nothing is silently turned into a missing entry.
func Encode(name string, dtype *CategoricalDtype, values []interface{}) (*Categorical, error) {
	col := &Categorical{Name: name, Dtype: dtype, Codes: make([]int, len(values))}
	for i, v := range values {
		if v == nil {
			col.Codes[i] = -1
			continue
		}
		if cat, ok := v.(Category); ok && cat.Dtype.Equal(dtype) {
			col.Codes[i] = cat.Code
			continue
		}
		label := core.CleanString(labelOf(v))
		code := dtype.Code(label)
		if code < 0 {
			return nil, core.NewInvalidCategoryError(name, i, label, dtype.Categories())
		}
		col.Codes[i] = code
	}
	return col, nil
}

func labelOf(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
