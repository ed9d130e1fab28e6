// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package main

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/dalzilio/robdd"
	"github.com/dalzilio/robdd/internal/dimacs"
	"github.com/dalzilio/robdd/internal/ordering"
)

var log = logrus.StandardLogger()

func init() {
	if lvl := os.Getenv("ROBDD_LOG_LEVEL"); lvl != "" {
		parsed, err := logrus.ParseLevel(lvl)
		if err != nil {
			log.Warnf("ignoring ROBDD_LOG_LEVEL=%q: %s", lvl, err)
		} else {
			log.SetLevel(parsed)
		}
	}
}

type report struct {
	XMLName     xml.Name `xml:"stats" json:"-"`
	NodeCount   int      `xml:"node_count" json:"node_count"`
	SatCount    string   `xml:"sat_count" json:"sat_count"`
	Satisfiable bool     `xml:"satisfiable" json:"satisfiable"`
}

func flags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{Name: "input, in", Usage: "DIMACS CNF input file (required)"},
		cli.StringFlag{Name: "order", Usage: "static variable ordering: none|force", Value: "none"},
		cli.StringFlag{Name: "dvo", Usage: "DVO schedule: none|always|converge|threshold|sifting-threshold|time-size", Value: "none"},
		cli.IntFlag{Name: "dvo-threshold", Usage: "node-count threshold for the threshold-based schedules", Value: 1000},
		cli.DurationFlag{Name: "dvo-time-limit", Usage: "wall-clock budget for the time-size schedule"},
		cli.StringFlag{Name: "out", Usage: "file to write the serialized DAG to, in the native text format"},
		cli.StringFlag{Name: "format", Usage: "stats output format: json|xml", Value: "json"},
		cli.IntFlag{Name: "workers", Usage: "worker count for parallel construction (0 runs the sequential engine)", Value: 0},
	}
}

func printProblemStatistics(inst *dimacs.Instance) {
	fmt.Println("c ============================[ Problem Statistics ]=============================")
	fmt.Printf("c |  Number of variables:  %12d                                         |\n", inst.NumVars)
	fmt.Printf("c |  Number of clauses:    %12d                                         |\n", inst.NumClauses)
	fmt.Println("c ================================================================================")
}

func scheduleFromName(name string, threshold int, limit time.Duration) (robdd.Schedule, error) {
	switch name {
	case "", "none":
		return robdd.NoDVO(), nil
	case "always":
		return robdd.AlwaysOnceSchedule(), nil
	case "converge":
		return robdd.AlwaysUntilConvergenceSchedule(), nil
	case "threshold":
		return robdd.AtThresholdSchedule(threshold), nil
	case "sifting-threshold":
		return robdd.SiftingAtThresholdSchedule(threshold), nil
	case "time-size":
		return robdd.TimeSizeLimitSchedule(threshold, limit), nil
	default:
		return robdd.Schedule{}, errors.Errorf("unknown dvo schedule %q", name)
	}
}

func run(c *cli.Context) error {
	input := c.String("input")
	if input == "" {
		return cli.NewExitError("missing required --input", 2)
	}

	inst, err := dimacs.ParseFile(input)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	printProblemStatistics(inst)

	var order []robdd.VarID
	switch c.String("order") {
	case "", "none":
		order = ordering.Identity(inst.NumVars)
	case "force":
		order = ordering.Force(inst.NumVars, inst.Clauses, 1000)
	default:
		return cli.NewExitError(fmt.Sprintf("unknown ordering %q", c.String("order")), 2)
	}

	sched, err := scheduleFromName(c.String("dvo"), c.Int("dvo-threshold"), c.Duration("dvo-time-limit"))
	if err != nil {
		return cli.NewExitError(err.Error(), 2)
	}

	m, err := robdd.New(inst.NumVars, order, robdd.WithSchedule(sched))
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	var root robdd.Node
	if workers := c.Int("workers"); workers > 0 {
		log.Infof("building with %d workers", workers)
		root, err = robdd.FromCNFParallel(m, inst.Clauses, workers)
	} else {
		root, err = robdd.FromCNF(m, inst.Clauses)
	}
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	if err := m.RunDVO(context.Background()); err != nil && errors.Cause(err) != robdd.ErrDeadlineExceeded {
		return cli.NewExitError(err.Error(), 1)
	}

	stats := report{
		NodeCount:   m.NodeCount(root),
		SatCount:    m.Satcount(root).String(),
		Satisfiable: m.Satisfiable(root),
	}

	var out []byte
	switch c.String("format") {
	case "", "json":
		out, err = json.MarshalIndent(stats, "", "  ")
	case "xml":
		out, err = xml.MarshalIndent(stats, "", "  ")
	default:
		return cli.NewExitError(fmt.Sprintf("unknown format %q", c.String("format")), 2)
	}
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	fmt.Println(string(out))

	if stats.Satisfiable {
		fmt.Println("s SATISFIABLE")
	} else {
		fmt.Println("s UNSATISFIABLE")
	}

	if path := c.String("out"); path != "" {
		if err := m.WriteFile(path, root); err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
	}
	return nil
}

func main() {
	app := cli.NewApp()
	app.Name = "robdd"
	app.Usage = "build and manipulate a reduced ordered binary decision diagram from a DIMACS CNF file"
	app.Flags = flags()
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
