package export

import (
	"os"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/pkg/errors"

	"github.com/fen-analytics/sad/core/table"
)

// kind is the arrow storage chosen for a plain (non categorical) column.
type kind int

const (
	kindString kind = iota
	kindInt
	kindFloat
	kindBool
	kindTime
)

// WriteParquet writes tbl to path as a Snappy compressed Parquet file.
// Categorical columns become ordered dictionary columns holding the whole vocabulary.
func WriteParquet(path string, tbl *table.Table) error {
	rec, err := Record(memory.NewGoAllocator(), tbl)
	if err != nil {
		return err
	}
	defer rec.Release()

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating parquet file")
	}
	// w.Close closes f and returns its error, this one only matters when w was never created
	defer func() { _ = f.Close() }()

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())
	w, err := pqarrow.NewFileWriter(rec.Schema(), f, props, arrowProps)
	if err != nil {
		return errors.Wrap(err, "creating parquet writer")
	}
	if err := w.Write(rec); err != nil {
		_ = w.Close()
		return errors.Wrap(err, "writing parquet")
	}
	return errors.Wrap(w.Close(), "closing parquet writer")
}

// Record converts tbl to an arrow record. The caller releases it.
func Record(mem memory.Allocator, tbl *table.Table) (arrow.Record, error) {
	columns := tbl.Columns()
	fields := make([]arrow.Field, 0, len(columns))
	arrs := make([]arrow.Array, 0, len(columns))
	defer func() {
		for _, a := range arrs {
			a.Release()
		}
	}()

	for _, name := range columns {
		values, err := tbl.Column(name)
		if err != nil {
			return nil, err
		}
		var arr arrow.Array
		if dtype := tbl.Dtype(name); dtype != nil {
			arr = dictionaryArray(mem, dtype, values)
		} else {
			arr = plainArray(mem, values)
		}
		fields = append(fields, arrow.Field{Name: name, Type: arr.DataType(), Nullable: true})
		arrs = append(arrs, arr)
	}
	schema := arrow.NewSchema(fields, nil)
	return array.NewRecord(schema, arrs, int64(tbl.Len())), nil
}

func dictionaryArray(mem memory.Allocator, dtype *table.CategoricalDtype, values []interface{}) arrow.Array {
	dictBldr := array.NewStringBuilder(mem)
	defer dictBldr.Release()
	dictBldr.AppendValues(dtype.Categories(), nil)
	dict := dictBldr.NewArray()
	defer dict.Release()

	idxBldr := array.NewInt32Builder(mem)
	defer idxBldr.Release()
	for _, v := range values {
		cat, ok := v.(table.Category)
		if !ok {
			idxBldr.AppendNull()
			continue
		}
		idxBldr.Append(int32(cat.Code))
	}
	indices := idxBldr.NewArray()
	defer indices.Release()

	dt := &arrow.DictionaryType{
		IndexType: arrow.PrimitiveTypes.Int32,
		ValueType: arrow.BinaryTypes.String,
		Ordered:   dtype.Ordered(),
	}
	return array.NewDictionaryArray(dt, indices, dict)
}

// columnKind picks the narrowest storage that holds every non-missing value.
func columnKind(values []interface{}) kind {
	var ints, floats, bools, times, others int
	for _, v := range values {
		switch v.(type) {
		case nil:
		case int, int8, int16, int32, int64, uint8, uint16, uint32:
			ints++
		case float32, float64:
			floats++
		case bool:
			bools++
		case time.Time:
			times++
		default:
			others++
		}
	}
	switch {
	case others > 0:
		return kindString
	case ints+floats > 0 && bools+times == 0:
		if floats > 0 {
			return kindFloat
		}
		return kindInt
	case bools > 0 && ints+floats+times == 0:
		return kindBool
	case times > 0 && ints+floats+bools == 0:
		return kindTime
	default:
		return kindString
	}
}

func plainArray(mem memory.Allocator, values []interface{}) arrow.Array {
	switch columnKind(values) {
	case kindInt:
		b := array.NewInt64Builder(mem)
		defer b.Release()
		for _, v := range values {
			if n, ok := toInt64(v); ok {
				b.Append(n)
			} else {
				b.AppendNull()
			}
		}
		return b.NewArray()
	case kindFloat:
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		for _, v := range values {
			if n, ok := toInt64(v); ok {
				b.Append(float64(n))
			} else if f, ok := toFloat64(v); ok {
				b.Append(f)
			} else {
				b.AppendNull()
			}
		}
		return b.NewArray()
	case kindBool:
		b := array.NewBooleanBuilder(mem)
		defer b.Release()
		for _, v := range values {
			if bv, ok := v.(bool); ok {
				b.Append(bv)
			} else {
				b.AppendNull()
			}
		}
		return b.NewArray()
	case kindTime:
		b := array.NewTimestampBuilder(mem, &arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: "UTC"})
		defer b.Release()
		for _, v := range values {
			if t, ok := v.(time.Time); ok {
				b.Append(arrow.Timestamp(t.UTC().UnixMicro()))
			} else {
				b.AppendNull()
			}
		}
		return b.NewArray()
	default:
		b := array.NewStringBuilder(mem)
		defer b.Release()
		for _, v := range values {
			if v == nil {
				b.AppendNull()
				continue
			}
			b.Append(FormatValue(v))
		}
		return b.NewArray()
	}
}

func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	}
	return 0, false
}

func toFloat64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
