package main

import (
	"context"
	"strings"
	"text/tabwriter"

	"github.com/fen-analytics/sad/core/student"
	"github.com/fen-analytics/sad/core/table"
	"github.com/fen-analytics/sad/storage/export"
	"github.com/fen-analytics/sad/storage/sad"
)

type queryOptions struct {
	file          string
	params        []interface{}
	creditsColumn string
	categorize    bool
	typeColumn    string
	mencionColumn string
	out           string
	zeroInclusive bool
}

// query fetches the results of a query file, annotates them and prints or exports the table.
func (cli *commandLine) query(ctx context.Context, opts queryOptions) error {
	db, err := openDBFunc(ctx, cli.conf)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	tbl, err := sad.NewFetcher(db, cli.log).Query(ctx, opts.file, opts.params...)
	if err != nil {
		return err
	}

	if opts.creditsColumn != "" {
		classifier := student.NewClassifier(opts.zeroInclusive)
		if tbl, err = classifier.AnnotateTable(tbl, opts.creditsColumn); err != nil {
			return err
		}
	}
	if opts.categorize {
		var catOpts []student.CategorizeOption
		if opts.typeColumn != "" {
			catOpts = append(catOpts, student.WithTypeColumn(opts.typeColumn))
		}
		if opts.mencionColumn != "" {
			catOpts = append(catOpts, student.WithConcentrationColumn(opts.mencionColumn))
		}
		if tbl, err = student.Categorize(tbl, catOpts...); err != nil {
			return err
		}
	}

	if opts.out != "" {
		if err := export.Write(opts.out, tbl); err != nil {
			return err
		}
		cli.log.Info("table exported", "file", opts.out, "rows", tbl.Len())
		return nil
	}
	return cli.printTable(tbl)
}

// printTable writes tbl as aligned, tab separated columns.
func (cli *commandLine) printTable(tbl *table.Table) error {
	tw := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	if _, err := tw.Write([]byte(strings.Join(tbl.Columns(), "\t") + "\n")); err != nil {
		return err
	}
	cells := make([]string, len(tbl.Columns()))
	for i := 0; i < tbl.Len(); i++ {
		for j, v := range tbl.Values(i) {
			cells[j] = export.FormatValue(v)
		}
		if _, err := tw.Write([]byte(strings.Join(cells, "\t") + "\n")); err != nil {
			return err
		}
	}
	return tw.Flush()
}
