// Package export writes tables to files for use outside of Go: CSV for spreadsheets,
// Parquet for analysis tools, which keeps categorical columns and their order.
package export

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fen-analytics/sad/core"
	"github.com/fen-analytics/sad/core/table"
)

type Format int

const (
	FormatCSV Format = iota
	FormatParquet
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatParquet:
		return "parquet"
	default:
		return "unknown(" + strconv.Itoa(int(f)) + ")"
	}
}

// FormatFor picks the format from the file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".parquet", ".pq":
		return FormatParquet, nil
	default:
		return 0, core.NewInvalidInputError(path, "unsupported export format, use .csv or .parquet")
	}
}

// Write exports tbl to path, in the format given by its extension.
func Write(path string, tbl *table.Table) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	switch format {
	case FormatParquet:
		return WriteParquet(path, tbl)
	default:
		return WriteCSV(path, tbl)
	}
}

// FormatValue renders a cell as text. Missing values are empty.
func FormatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case table.Category:
		return val.String()
	case time.Time:
		return val.Format(time.RFC3339)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
