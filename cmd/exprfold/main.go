package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"math/big"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/zephyrtronium/exprfold"
)

// options are the settings from the command line.
type options struct {
	inname, verb string
	with         [][2]string
	sweep        string
	echo         bool
	interactive  bool
	jobs         int
	history      string
	preset       exprfold.ParseOption
}

func main() {
	cfg := loadConfig()
	var (
		o      options
		level  string
		useBig bool
		strict bool
		prec   int
		depth  int
	)
	addwith := func(s string) error {
		d := strings.SplitN(s, "=", 2)
		if len(d) != 2 {
			return fmt.Errorf(`variable definitions must be "name=value", not %q`, s)
		}
		o.with = append(o.with, [2]string{strings.TrimSpace(d[0]), strings.TrimSpace(d[1])})
		return nil
	}
	flag.StringVar(&o.inname, "in", "", "input file with one expression per line (default stdin if no args given)")
	flag.StringVar(&o.verb, "fmt", "%g", "result formatting string")
	flag.Func("given", "name=value variable definition (any number of times)", addwith)
	flag.StringVar(&o.sweep, "sweep", "", `evaluate each expression for several values of a variable, as "name=v1;v2;..."`)
	flag.IntVar(&o.jobs, "j", 0, "evaluate sweeps with at most n goroutines (0 for no limit)")
	flag.BoolVar(&o.echo, "echo", false, "print parse trees")
	flag.BoolVar(&o.interactive, "i", false, "read expressions interactively")
	flag.BoolVar(&useBig, "big", false, "use arbitrary-precision arithmetic")
	flag.IntVar(&prec, "p", cfg.Prec, "precision of calculations in bits with -big")
	flag.IntVar(&depth, "depth", cfg.MaxDepth, "maximum nesting of brackets (0 for no limit)")
	flag.BoolVar(&strict, "strict", false, "reject identifiers that are malformed numbers")
	flag.StringVar(&level, "v", cfg.LogLevel, "log level")
	flag.Parse()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.WithError(err).Fatal("Invalid log level")
	}
	logrus.SetLevel(lvl)
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if prec <= 0 {
		logrus.Fatalf("precision (%d) must be positive", prec)
	}

	opts := []exprfold.ParseOption{
		exprfold.Logger(logrus.WithField("component", "parser")),
		exprfold.MaxDepth(depth),
	}
	if strict {
		opts = append(opts, exprfold.StrictNumbers())
	}
	o.preset = exprfold.ParsingPreset(opts...)
	o.history = cfg.History
	o.verb += "\n"

	logrus.WithFields(logrus.Fields{
		"big":   useBig,
		"prec":  prec,
		"depth": depth,
	}).Debug("Configuration loaded")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var code int
	if useBig {
		a := exprfold.BigFloat{Prec: uint(prec)}
		code = run(ctx, newSession[*big.Float](a, a.Constants(), o))
	} else {
		var a exprfold.Float64
		code = run(ctx, newSession[float64](a, a.Constants(), o))
	}
	os.Exit(code)
}

// session evaluates expressions in one arithmetic with a set of variables.
type session[T any] struct {
	arith exprfold.Arithmetic[T]
	opts  options
	vars  map[string]T

	// sweepName and sweepVals are the variable and values to evaluate each
	// expression at, if sweepName is not empty.
	sweepName string
	sweepVals []T
}

func newSession[T any](arith exprfold.Arithmetic[T], vars map[string]T, o options) *session[T] {
	return &session[T]{arith: arith, opts: o, vars: vars}
}

func (s *session[T]) parse(src string) (*exprfold.Expr[T], error) {
	return exprfold.ParseString(src, s.arith, s.opts.preset)
}

// define evaluates src and assigns it to a variable.
func (s *session[T]) define(name, src string) error {
	if !validName(name) {
		return fmt.Errorf("invalid variable name %q", name)
	}
	r, err := exprfold.EvalString(src, s.arith, s.vars, s.opts.preset)
	if err != nil {
		return fmt.Errorf("setting %s: %w", name, err)
	}
	s.vars[name] = r
	return nil
}

func (s *session[T]) setSweep(def string) error {
	name, list, ok := strings.Cut(def, "=")
	if !ok {
		return fmt.Errorf(`sweeps must be "name=v1;v2;...", not %q`, def)
	}
	s.sweepName = strings.TrimSpace(name)
	if !validName(s.sweepName) {
		return fmt.Errorf("invalid sweep variable name %q", s.sweepName)
	}
	for _, v := range strings.Split(list, ";") {
		r, err := exprfold.EvalString(v, s.arith, s.vars, s.opts.preset)
		if err != nil {
			return fmt.Errorf("sweep value %q: %w", v, err)
		}
		s.sweepVals = append(s.sweepVals, r)
	}
	return nil
}

// show evaluates an expression and prints the result. It reports whether
// evaluation succeeded.
func (s *session[T]) show(ctx context.Context, a *exprfold.Expr[T]) bool {
	if s.opts.echo {
		fmt.Printf("%v : ", a)
	}
	if s.sweepName == "" {
		r, err := a.Eval(s.vars)
		if err != nil {
			fmt.Println(err)
			return false
		}
		fmt.Printf(s.opts.verb, r)
		return true
	}
	sets := make([]map[string]T, len(s.sweepVals))
	for i, v := range s.sweepVals {
		m := make(map[string]T, len(s.vars)+1)
		for k, x := range s.vars {
			m[k] = x
		}
		m[s.sweepName] = v
		sets[i] = m
	}
	rs, err := exprfold.EvalAll(ctx, a, sets, s.opts.jobs)
	if err != nil {
		fmt.Println(err)
		return false
	}
	if s.opts.echo {
		fmt.Println()
	}
	vf := strings.TrimSuffix(s.opts.verb, "\n")
	for i, r := range rs {
		fmt.Printf("%s=%s\t"+s.opts.verb, s.sweepName, fmt.Sprintf(vf, s.sweepVals[i]), r)
	}
	return true
}

func run[T any](ctx context.Context, s *session[T]) int {
	for _, d := range s.opts.with {
		if err := s.define(d[0], d[1]); err != nil {
			logrus.Fatal(err)
		}
	}
	if s.opts.sweep != "" {
		if err := s.setSweep(s.opts.sweep); err != nil {
			logrus.Fatal(err)
		}
	}
	if s.opts.interactive {
		return repl(ctx, s)
	}

	srcs, err := inlines(s.opts.inname, flag.NArg() == 0)
	if err != nil {
		logrus.Fatal(err)
	}
	srcs = append(srcs, flag.Args()...)
	var p []*exprfold.Expr[T]
	for _, src := range srcs {
		a, err := s.parse(src)
		if err != nil {
			logrus.Fatalf("%s: %v", src, err)
		}
		p = append(p, a)
	}

	code := 0
	for _, a := range p {
		if !s.show(ctx, a) {
			code = 1
		}
	}
	return code
}

// inlines reads the non-blank lines of the input file, or of stdin if inname
// is "-" or if inname is empty and std is true.
func inlines(inname string, std bool) ([]string, error) {
	var f io.Reader
	switch {
	case inname != "" && inname != "-":
		in, err := os.Open(inname)
		if err != nil {
			return nil, err
		}
		defer in.Close()
		f = in
	case inname == "-", std:
		f = os.Stdin
	}
	if f == nil {
		return nil, nil
	}
	var lines []string
	scan := bufio.NewScanner(f)
	for scan.Scan() {
		if line := strings.TrimSpace(scan.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scan.Err()
}

// validName reports whether s could be a variable name in an expression.
func validName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
		case i > 0 && ('0' <= r && r <= '9' || r == '.'):
		default:
			return false
		}
	}
	return true
}
