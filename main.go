package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"q.log/boundsimplex/instance"
	"q.log/boundsimplex/lp"
)

func main() {
	maximize := flag.Bool("max", false, "maximize the objective")
	fixed := flag.Bool("fixed", false, "read fixed MPS format instead of free")
	verbose := flag.Bool("verbose", false, "trace every simplex iteration")
	itlim := flag.Int("itlim", 0, "iteration limit, 0 for the default")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] file.mps\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	logger := log.New(os.Stderr, "", log.Ltime)
	opts := []lp.Option{lp.WithLogger(logger), lp.WithVerbose(*verbose)}
	if *itlim > 0 {
		opts = append(opts, lp.WithIterationLimit(*itlim))
	}

	r := instance.NewReader(flag.Arg(0), opts...)
	if *fixed {
		r.SetFormat(instance.Fixed)
	}
	if *maximize {
		r.SetDirection(lp.Maximize)
	}
	p, err := r.Read()
	if err != nil {
		logger.Printf("%v", err)
		os.Exit(1)
	}

	status := p.Solve()
	fmt.Printf("%s: %v after %d iterations\n", p.Name(), status, p.Iterations())
	if status != lp.Optimal {
		os.Exit(2)
	}

	fmt.Printf("objective = %.9g\n", p.ObjectiveValue())
	for j := 1; j <= p.NumCols(); j++ {
		x, err := p.PrimalValue(j)
		if err != nil || x == 0 {
			continue
		}
		name, _ := p.ColName(j)
		if name == "" {
			name = fmt.Sprintf("x%d", j)
		}
		fmt.Printf("%-16s %.9g\n", name, x)
	}
}
