package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/midbel/cli"
	"github.com/midbel/jsonpath"
)

var queryCmd = cli.Command{
	Name:    "query",
	Alias:   []string{"exec", "find"},
	Summary: "apply a jsonpath expression to a json document",
	Handler: &QueryCmd{},
}

var pathsCmd = cli.Command{
	Name:    "paths",
	Summary: "print the normalized path of each match",
	Handler: &PathsCmd{},
}

var checkCmd = cli.Command{
	Name:    "check",
	Summary: "compile a jsonpath expression and print its canonical form",
	Handler: &CheckCmd{},
}

type QueryCmd struct {
	QueryFile string
	Items     bool
	Compact   bool
	Noout     bool
	Verbose   bool
	DecodeOptions
}

const queryInfo = "query took %s - %d nodes matching %q"

func (q *QueryCmd) Run(args []string) error {
	set := flag.NewFlagSet("query", flag.ContinueOnError)
	set.StringVar(&q.QueryFile, "query-file", "", "read the expression from a file instead of the command line")
	set.BoolVar(&q.Items, "items", false, "print normalized path and value pairs instead of bare values")
	set.BoolVar(&q.Compact, "compact", false, "compact output")
	set.BoolVar(&q.Noout, "quiet", false, "suppress output - default is to print the result values")
	set.BoolVar(&q.Verbose, "verbose", false, "report query timing and match count")
	set.BoolVar(&q.Yaml, "yaml", false, "decode the input document as yaml")
	if err := set.Parse(args); err != nil {
		return err
	}
	expr, err := loadQuery(set.Arg(0), q.QueryFile)
	if err != nil {
		return err
	}
	file := set.Arg(1)
	if q.QueryFile != "" {
		file = set.Arg(0)
	}
	doc, err := loadDocument(file, q.DecodeOptions)
	if err != nil {
		return err
	}
	now := time.Now()
	query, err := jsonpath.Compile(expr)
	if err != nil {
		return err
	}
	results := query.Select(doc)
	elapsed := time.Since(now)
	if !q.Noout {
		ws := jsonpath.NewWriter(os.Stdout)
		ws.Compact = q.Compact
		if q.Items {
			err = ws.WriteItems(results)
		} else {
			err = ws.WriteList(results)
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout)
	}
	if q.Verbose {
		fmt.Fprintf(os.Stderr, queryInfo, elapsed, len(results), expr)
		fmt.Fprintln(os.Stderr)
	}
	if results.Empty() {
		return errFail
	}
	return nil
}

type PathsCmd struct {
	QueryFile string
	DecodeOptions
}

func (p *PathsCmd) Run(args []string) error {
	set := flag.NewFlagSet("paths", flag.ContinueOnError)
	set.StringVar(&p.QueryFile, "query-file", "", "read the expression from a file instead of the command line")
	set.BoolVar(&p.Yaml, "yaml", false, "decode the input document as yaml")
	if err := set.Parse(args); err != nil {
		return err
	}
	expr, err := loadQuery(set.Arg(0), p.QueryFile)
	if err != nil {
		return err
	}
	file := set.Arg(1)
	if p.QueryFile != "" {
		file = set.Arg(0)
	}
	doc, err := loadDocument(file, p.DecodeOptions)
	if err != nil {
		return err
	}
	it, err := jsonpath.Iter(expr, doc)
	if err != nil {
		return err
	}
	var count int
	for n := range it {
		fmt.Fprintln(os.Stdout, n.Path())
		count++
	}
	if count == 0 {
		return errFail
	}
	return nil
}

type CheckCmd struct{}

func (c *CheckCmd) Run(args []string) error {
	set := flag.NewFlagSet("check", flag.ContinueOnError)
	if err := set.Parse(args); err != nil {
		return err
	}
	query, err := jsonpath.Compile(set.Arg(0))
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, query)
	return nil
}
