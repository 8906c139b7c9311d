package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/fen-analytics/sad/core"
	"github.com/fen-analytics/sad/core/table"
)

var levelDtype = table.NewCategoricalDtype(true, "Bajo", "Medio", "Alto")

func sampleTable(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.New(
		[]string{"rut", "creditos", "promedio"},
		[][]interface{}{
			{"11111111-1", int64(60), 5.5},
			{"22222222-2", nil, 4.25},
			{"33333333-3", int64(0), nil},
		},
	)
	if err != nil {
		t.Fatal(err)
	}
	col, err := table.Encode("nivel", levelDtype, []interface{}{"Alto", "Bajo", nil})
	if err != nil {
		t.Fatal(err)
	}
	if tbl, err = tbl.WithCategorical(col); err != nil {
		t.Fatal(err)
	}
	return tbl
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"out.csv", FormatCSV, false},
		{"OUT.CSV", FormatCSV, false},
		{"out.parquet", FormatParquet, false},
		{"dir/out.pq", FormatParquet, false},
		{"out.xlsx", 0, true},
		{"out", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFor(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FormatFor() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !core.IsInvalidInput(err) {
				t.Errorf("FormatFor() error = %v, want an InvalidInputError", err)
			}
			if got != tt.want {
				t.Errorf("FormatFor() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		v    interface{}
		want string
	}{
		{nil, ""},
		{"IC", "IC"},
		{[]byte("PC"), "PC"},
		{int64(58), "58"},
		{4.5, "4.5"},
		{float32(0.25), "0.25"},
		{true, "true"},
		{time.Date(2020, 3, 1, 12, 0, 0, 0, time.UTC), "2020-03-01T12:00:00Z"},
		{table.Category{Dtype: levelDtype, Code: 1}, "Medio"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.v); got != tt.want {
			t.Errorf("FormatValue(%#v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestEncodeCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeCSV(&buf, sampleTable(t)); err != nil {
		t.Fatalf("EncodeCSV() error = %v", err)
	}
	want := strings.Join([]string{
		"rut,creditos,promedio,nivel",
		"11111111-1,60,5.5,Alto",
		"22222222-2,,4.25,Bajo",
		"33333333-3,0,,",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Errorf("EncodeCSV() =\n%s\nwant\n%s", got, want)
	}
}

func TestRecord(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	rec, err := Record(mem, sampleTable(t))
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	defer rec.Release()

	if rec.NumRows() != 3 || rec.NumCols() != 4 {
		t.Fatalf("Record() = %d rows x %d cols, want 3 x 4", rec.NumRows(), rec.NumCols())
	}
	wantTypes := []arrow.Type{arrow.STRING, arrow.INT64, arrow.FLOAT64, arrow.DICTIONARY}
	for i, want := range wantTypes {
		if got := rec.Column(i).DataType().ID(); got != want {
			t.Errorf("Record() column %d type = %v, want %v", i, got, want)
		}
	}

	credits := rec.Column(1).(*array.Int64)
	if credits.Value(0) != 60 || !credits.IsNull(1) {
		t.Errorf("Record() creditos = %v", credits)
	}

	nivel := rec.Column(3).(*array.Dictionary)
	if !nivel.DataType().(*arrow.DictionaryType).Ordered {
		t.Error("Record() nivel should be an ordered dictionary")
	}
	dict := nivel.Dictionary().(*array.String)
	if dict.Len() != levelDtype.Len() {
		t.Errorf("Record() nivel dictionary has %d entries, want the whole vocabulary", dict.Len())
	}
	if got := dict.Value(nivel.GetValueIndex(0)); got != "Alto" {
		t.Errorf("Record() nivel[0] = %q, want Alto", got)
	}
	if !nivel.IsNull(2) {
		t.Error("Record() nivel[2] should be null")
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	tbl := sampleTable(t)

	t.Run("csv", func(t *testing.T) {
		path := filepath.Join(dir, "alumnos.csv")
		if err := Write(path, tbl); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		b, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(string(b), "rut,creditos,promedio,nivel\n") {
			t.Errorf("Write() wrote %q", b)
		}
	})

	t.Run("parquet", func(t *testing.T) {
		path := filepath.Join(dir, "alumnos.parquet")
		if err := Write(path, tbl); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		f, err := os.Open(path)
		if err != nil {
			t.Fatal(err)
		}
		defer f.Close()

		got, err := pqarrow.ReadTable(context.Background(), f, parquet.NewReaderProperties(nil),
			pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
		if err != nil {
			t.Fatalf("reading back %s: %v", path, err)
		}
		defer got.Release()

		if got.NumRows() != 3 || got.NumCols() != 4 {
			t.Fatalf("Write() = %d rows x %d cols, want 3 x 4", got.NumRows(), got.NumCols())
		}
		for i, name := range tbl.Columns() {
			if got.Schema().Field(i).Name != name {
				t.Errorf("Write() column %d = %q, want %q", i, got.Schema().Field(i).Name, name)
			}
		}
	})

	t.Run("unsupported", func(t *testing.T) {
		if err := Write(filepath.Join(dir, "alumnos.json"), tbl); !core.IsInvalidInput(err) {
			t.Errorf("Write() error = %v, want an InvalidInputError", err)
		}
	})
}
