package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE alumnos (
	rut         TEXT NOT NULL,
	Tipo_Alumno TEXT,
	Cod_Mencion TEXT,
	creditos    INTEGER,
	cohorte     INTEGER
)`

// PrepareDB opens an in-memory sqlite database holding an empty alumnos table.
// It is closed when the test ends.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	// every new connection would get its own empty database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	return db
}

// CreateStudent inserts a row in the alumnos table. nil values are stored as NULL.
func CreateStudent(t *testing.T, db *sqlx.DB, rut string, tipo, mencion, creditos, cohorte interface{}) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO alumnos (rut, Tipo_Alumno, Cod_Mencion, creditos, cohorte) VALUES (?, ?, ?, ?, ?)`,
		rut, tipo, mencion, creditos, cohorte,
	)
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
}

// WriteQuery stores query in a file of the test's temporary directory and returns its path.
func WriteQuery(t *testing.T, name string, query []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, query, 0o600); err != nil {
		t.Fatalf("WriteQuery() failed: %v", err)
	}
	return path
}
