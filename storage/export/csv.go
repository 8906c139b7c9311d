package export

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/fen-analytics/sad/core/table"
)

// WriteCSV writes tbl to path as a CSV file with a header line.
func WriteCSV(path string, tbl *table.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating CSV file")
	}
	if err := EncodeCSV(f, tbl); err != nil {
		_ = f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "closing CSV file")
}

// EncodeCSV writes tbl as CSV to w.
func EncodeCSV(w io.Writer, tbl *table.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tbl.Columns()); err != nil {
		return errors.Wrap(err, "writing CSV header")
	}
	record := make([]string, len(tbl.Columns()))
	for i := 0; i < tbl.Len(); i++ {
		for j, v := range tbl.Values(i) {
			record[j] = FormatValue(v)
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrapf(err, "writing CSV row %d", i)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing CSV")
}
