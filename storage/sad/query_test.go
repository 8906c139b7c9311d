package sad

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/encoding/unicode"

	"github.com/fen-analytics/sad/core"
	testutil "github.com/fen-analytics/sad/tests"
)

func TestBindPositional(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		params    []interface{}
		wantQuery string
		wantArgs  []interface{}
		wantErr   bool
	}{
		{
			name:      "no placeholders",
			query:     "SELECT rut FROM alumnos",
			wantQuery: "SELECT rut FROM alumnos",
		},
		{
			name:      "bind params are kept",
			query:     "SELECT rut FROM alumnos WHERE cohorte = ?",
			params:    []interface{}{2019},
			wantQuery: "SELECT rut FROM alumnos WHERE cohorte = ?",
			wantArgs:  []interface{}{2019},
		},
		{
			name:      "legacy placeholders",
			query:     "SELECT rut FROM alumnos WHERE cohorte = {0} AND Tipo_Alumno = '{1}'",
			params:    []interface{}{2019, "IC"},
			wantQuery: "SELECT rut FROM alumnos WHERE cohorte = ? AND Tipo_Alumno = ?",
			wantArgs:  []interface{}{2019, "IC"},
		},
		{
			name:      "out of order and repeated",
			query:     "SELECT {1}, {0}, {1}",
			params:    []interface{}{"a", "b"},
			wantQuery: "SELECT ?, ?, ?",
			wantArgs:  []interface{}{"b", "a", "b"},
		},
		{
			name:      "quoted value is not spliced",
			query:     "SELECT rut FROM alumnos WHERE rut = '{0}'",
			params:    []interface{}{"1'; DROP TABLE alumnos; --"},
			wantQuery: "SELECT rut FROM alumnos WHERE rut = ?",
			wantArgs:  []interface{}{"1'; DROP TABLE alumnos; --"},
		},
		{
			name:      "auto numbered placeholders",
			query:     "SELECT rut FROM alumnos WHERE cohorte = {} AND Tipo_Alumno = '{}'",
			params:    []interface{}{2019, "IC"},
			wantQuery: "SELECT rut FROM alumnos WHERE cohorte = ? AND Tipo_Alumno = ?",
			wantArgs:  []interface{}{2019, "IC"},
		},
		{
			name:      "escaped braces",
			query:     "SELECT '{{x}}' AS llaves, '{{}}' AS vacio FROM alumnos WHERE cohorte = {0}",
			params:    []interface{}{2019},
			wantQuery: "SELECT '{x}' AS llaves, '{}' AS vacio FROM alumnos WHERE cohorte = ?",
			wantArgs:  []interface{}{2019},
		},
		{
			name:      "no params leaves the text as written",
			query:     "SELECT '{0}' AS plantilla, '{{}}' AS llaves, '}' AS cierre",
			wantQuery: "SELECT '{0}' AS plantilla, '{{}}' AS llaves, '}' AS cierre",
		},
		{
			name:    "missing param",
			query:   "SELECT rut FROM alumnos WHERE cohorte = {1}",
			params:  []interface{}{2019},
			wantErr: true,
		},
		{
			name:    "too few params for auto numbering",
			query:   "SELECT rut FROM alumnos WHERE cohorte = {} AND Tipo_Alumno = {}",
			params:  []interface{}{2019},
			wantErr: true,
		},
		{
			name:    "params without placeholder",
			query:   "SELECT rut FROM alumnos",
			params:  []interface{}{2019},
			wantErr: true,
		},
		{
			name:    "mixed auto and manual numbering",
			query:   "SELECT rut FROM alumnos WHERE cohorte = {} AND Tipo_Alumno = {0}",
			params:  []interface{}{2019, "IC"},
			wantErr: true,
		},
		{
			name:    "named placeholder",
			query:   "SELECT rut FROM alumnos WHERE cohorte = {cohorte}",
			params:  []interface{}{2019},
			wantErr: true,
		},
		{
			name:    "single closing brace",
			query:   "SELECT '}' FROM alumnos WHERE cohorte = {0}",
			params:  []interface{}{2019},
			wantErr: true,
		},
		{
			name:    "unmatched opening brace",
			query:   "SELECT rut FROM alumnos WHERE cohorte = {0",
			params:  []interface{}{2019},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := BindPositional(tt.query, tt.params)
			if (err != nil) != tt.wantErr {
				t.Fatalf("BindPositional() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !core.IsInvalidInput(err) {
					t.Errorf("BindPositional() error = %v, want an InvalidInputError", err)
				}
				return
			}
			if query != tt.wantQuery {
				t.Errorf("BindPositional() query = %q, want %q", query, tt.wantQuery)
			}
			if diff := cmp.Diff(tt.wantArgs, args); diff != "" {
				t.Errorf("BindPositional() args mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReadQuery(t *testing.T) {
	const query = "SELECT rut, creditos FROM alumnos -- año"

	utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(query))
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name    string
		content []byte
	}{
		{"utf-8", []byte(query)},
		{"utf-8 with bom", append([]byte{0xEF, 0xBB, 0xBF}, query...)},
		{"utf-16 with bom", utf16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteQuery(t, "query.sql", tt.content)
			got, err := ReadQuery(path)
			if err != nil {
				t.Fatalf("ReadQuery() error = %v", err)
			}
			if got != query {
				t.Errorf("ReadQuery() = %q, want %q", got, query)
			}
		})
	}

	if _, err := ReadQuery("does-not-exist.sql"); err == nil {
		t.Error("ReadQuery() of a missing file should fail")
	}
}
