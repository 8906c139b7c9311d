package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/fen-analytics/sad/apps"
	"github.com/fen-analytics/sad/core"
	"github.com/fen-analytics/sad/storage/database"
)

var (
	readPasswordFunc = term.ReadPassword // mockable
	openDBFunc       = database.Open     // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf *core.Config
	log  core.Logger
	out  io.Writer
}

// paramList collects repeated -param flags, in order.
type paramList []interface{}

func (p *paramList) String() string {
	vals := make([]string, 0, len(*p))
	for _, v := range *p {
		vals = append(vals, fmt.Sprint(v))
	}
	return strings.Join(vals, ",")
}

func (p *paramList) Set(v string) error {
	*p = append(*p, v)
	return nil
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  query -file QUERY.sql [-param VALUE]... [-credits COLUMN] [-categorize] [-out FILE.csv|FILE.parquet]")
	fmt.Fprintln(cli.out, "        run a query file against SAD and annotate the result")
	fmt.Fprintln(cli.out, "  classify -credits N - print the year of progress for N approved credits")
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	queryCmd := cli.newFlagSet("query")
	queryFile := queryCmd.String("file", "", "Path of the SQL file to run.")
	var queryParams paramList
	queryCmd.Var(&queryParams, "param", "Value of the next {n} or ? placeholder. Repeat for each placeholder.")
	queryCredits := queryCmd.String("credits", "", "Column of approved credits. Adds the Avance_Carrera column when set.")
	queryCategorize := queryCmd.Bool("categorize", false, "Turn the student type and concentration columns into categories.")
	queryTypeCol := queryCmd.String("type-col", "", "Student type column (default Tipo_Alumno).")
	queryMencionCol := queryCmd.String("mencion-col", "", "Concentration column (default Cod_Mencion).")
	queryOut := queryCmd.String("out", "", "Export to this .csv or .parquet file instead of printing.")
	queryZero := queryCmd.Bool("zero-inclusive", cli.conf.Progress.ZeroInclusive, "Classify 0 credits as first year.")

	classifyCmd := cli.newFlagSet("classify")
	classifyCredits := classifyCmd.String("credits", "", "Number of approved credits.")
	classifyZero := classifyCmd.Bool("zero-inclusive", cli.conf.Progress.ZeroInclusive, "Classify 0 credits as first year.")

	switch args[1] {
	case "query":
		if err := parse(queryCmd, args[2:]); err != nil {
			return err
		}
		if *queryFile == "" {
			queryCmd.Usage()
			return errHelp
		}
		if err := cli.promptPassword(); err != nil {
			return err
		}
		return cli.query(context.Background(), queryOptions{
			file:          *queryFile,
			params:        queryParams,
			creditsColumn: *queryCredits,
			categorize:    *queryCategorize,
			typeColumn:    *queryTypeCol,
			mencionColumn: *queryMencionCol,
			out:           *queryOut,
			zeroInclusive: *queryZero,
		})
	case "classify":
		if err := parse(classifyCmd, args[2:]); err != nil {
			return err
		}
		if *classifyCredits == "" {
			classifyCmd.Usage()
			return errHelp
		}
		return cli.classify(*classifyCredits, *classifyZero)
	default:
		cli.printUsage()
		return errHelp
	}
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return errHelp
		}
		return apps.NewArgumentError(err.Error())
	}
	if fs.NArg() > 0 {
		return apps.NewArgumentError("unexpected arguments: " + strings.Join(fs.Args(), " "))
	}
	return nil
}

// promptPassword asks for the database password when SQL authentication is used without one.
func (cli *commandLine) promptPassword() error {
	db := &cli.conf.Database
	if db.Auth != core.AuthSQL || db.Password != "" {
		return nil
	}
	fmt.Fprintf(cli.out, "Password for %s@%s:", db.User, db.Address())
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return err
	}
	if len(pwd) == 0 {
		return apps.NewArgumentError("a password is required with sql authentication")
	}
	db.Password = string(pwd)
	return nil
}
