package main

import (
	"fmt"

	"github.com/fen-analytics/sad/core/student"
)

// classify prints the year of progress of a credit count.
func (cli *commandLine) classify(credits string, zeroInclusive bool) error {
	year, err := student.NewClassifier(zeroInclusive).ClassifyValue(credits)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cli.out, year)
	return err
}
