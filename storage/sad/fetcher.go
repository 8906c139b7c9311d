// Package sad runs query files against SAD, the student records database, and materializes the
// results as tables.
package sad

import (
	"context"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/fen-analytics/sad/core"
	"github.com/fen-analytics/sad/core/table"
)

type Fetcher struct {
	db  core.DBQuerier
	log core.Logger
}

func NewFetcher(db core.DBQuerier, log core.Logger) *Fetcher {
	if log == nil {
		log = core.NewNopLogger()
	}
	return &Fetcher{db: db, log: log}
}

// Query runs the query stored in queryFile and returns the whole result set.
// params fill the query's {n} or ? placeholders as bind parameters.
// Columns keep the names and order of the result metadata, values are left as the driver decodes them.
// Reading, executing or scanning failures are returned as core.DataSourceError.
func (f *Fetcher) Query(ctx context.Context, queryFile string, params ...interface{}) (*table.Table, error) {
	name := filepath.Base(queryFile)
	query, err := ReadQuery(queryFile)
	if err != nil {
		return nil, core.NewDataSourceError("read "+name, err)
	}
	query, args, err := BindPositional(query, params)
	if err != nil {
		return nil, err
	}
	// a query run without args goes out as written: ? in literals and comments is not a bindvar
	if len(args) > 0 {
		query = f.db.Rebind(query)
	}

	id := uuid.New().String()
	start := time.Now()
	f.log.Debug("running query", "id", id, "file", name, "params", len(args))

	rows, err := f.db.QueryxContext(ctx, query, args...)
	if err != nil {
		f.log.Error("query failed", "id", id, "file", name, err)
		return nil, core.NewDataSourceError("execute "+name, err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, core.NewDataSourceError("describe "+name, err)
	}
	var data [][]interface{}
	for rows.Next() {
		vals, err := rows.SliceScan()
		if err != nil {
			return nil, core.NewDataSourceError("scan "+name, err)
		}
		data = append(data, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, core.NewDataSourceError("fetch "+name, err)
	}

	tbl, err := table.New(columns, data)
	if err != nil {
		return nil, err
	}
	f.log.Info("query done", "id", id, "file", name, "rows", tbl.Len(), "elapsed", time.Since(start))
	return tbl, nil
}
