package exprfold_test

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/zephyrtronium/exprfold"
)

// near reports whether got is within a relative tolerance of want.
func near(got, want float64) bool {
	if math.IsInf(want, 0) || math.IsNaN(want) {
		return got == want || math.IsNaN(got) && math.IsNaN(want)
	}
	return math.Abs(got-want) <= 1e-12*math.Max(1, math.Abs(want))
}

func TestEval(t *testing.T) {
	type vc struct {
		vars map[string]float64
		r    float64
	}
	cases := []struct {
		name string
		src  string
		r    []vc
	}{
		{"num", "1", []vc{{nil, 1}}},
		{"ident", "x", []vc{
			{map[string]float64{"x": 4}, 4},
			{map[string]float64{"x": 5}, 5},
		}},
		{"add", "4+5+6", []vc{{nil, 4 + 5 + 6}}},
		{"sub", "4-5-6", []vc{{nil, 4 - 5 - 6}}},
		{"mul", "4*5*6", []vc{{nil, 4 * 5 * 6}}},
		{"div", "4/5/6", []vc{{nil, 4.0 / 5.0 / 6.0}}},
		{"pow", "4^3^2", []vc{{nil, 4096}}},
		{"left-assoc", "x-10-x+9", []vc{
			{map[string]float64{"x": 1}, -1},
			{map[string]float64{"x": 100}, -1},
		}},
		{"precedence", "x-10*x+9", []vc{
			{map[string]float64{"x": 1}, 0},
			{map[string]float64{"x": 2}, -9},
		}},
		{"group", "x-3*(x-2)", []vc{
			{map[string]float64{"x": 1}, 4},
			{map[string]float64{"x": 2}, 2},
		}},
		{"group-pow", "x-3^(x-2)", []vc{
			{map[string]float64{"x": 2}, 1},
			{map[string]float64{"x": 3}, 0},
		}},
		{"sum", "x+10", []vc{
			{map[string]float64{"x": 5}, 15},
			{map[string]float64{"x": 2}, 12},
		}},
		{"call", "5*sin(x)", []vc{
			{map[string]float64{"x": 0}, 0},
			{map[string]float64{"x": math.Pi / 2}, 5},
		}},
		{"pythagorean", "sin(x)*sin(x)+cos(x)*cos(x)", []vc{
			{map[string]float64{"x": 0.5}, 1},
			{map[string]float64{"x": 3}, 1},
			{map[string]float64{"x": -100}, 1},
		}},
		{"args", "atan2(1, 1)", []vc{{nil, math.Pi / 4}}},
		{"arg-exprs", "hypot(x+1, 2*x)", []vc{{map[string]float64{"x": 2}, 5}}},
		{"nested-calls", "sqrt(abs(0-x))", []vc{{map[string]float64{"x": 16}, 4}}},
		{"min", "min(3, 1, 2)", []vc{{nil, 1}}},
		{"max", "max(3)", []vc{{nil, 3}}},
		{"log", "log(1000)", []vc{{nil, 3}}},
		{"ln", "ln(exp(2))", []vc{{nil, 2}}},
		{"mod", "mod(7, 3)", []vc{{nil, 1}}},
		{"exponent", "1.5e3", []vc{{nil, 1500}}},
		{"div-zero", "1/0", []vc{{nil, math.Inf(1)}}},
		{"huge", "1e999", []vc{{nil, math.Inf(1)}}},
		{"joined", "1 0+x 1", []vc{{map[string]float64{"x1": 5}, 15}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := exprfold.ParseString(c.src, exprfold.Float64{})
			if err != nil {
				t.Fatalf("couldn't parse %q: %v", c.src, err)
			}
			for _, v := range c.r {
				r, err := a.Eval(v.vars)
				if err != nil {
					t.Errorf("couldn't evaluate %v with %v: %v", a, v.vars, err)
					continue
				}
				if !near(r, v.r) {
					t.Errorf("wrong result from %v with %v: want %g, got %g", a, v.vars, v.r, r)
				}
			}
		})
	}
}

func TestEvalConstants(t *testing.T) {
	arith := exprfold.Float64{}
	r, err := exprfold.EvalString("cos(pi)+ln(e)", arith, arith.Constants())
	if err != nil {
		t.Fatal(err)
	}
	if !near(r, 0) {
		t.Errorf("wrong result: want 0, got %g", r)
	}
}

func TestEvalFloat32(t *testing.T) {
	r, err := exprfold.EvalString[float32]("1/3", exprfold.Float32{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if r != float32(1)/3 {
		t.Errorf("wrong result: want %g, got %g", float32(1)/3, r)
	}
	r, err = exprfold.EvalString[float32]("1e39", exprfold.Float32{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsInf(float64(r), 1) {
		t.Errorf("float32 overflow isn't infinite: %g", r)
	}
}

func TestEvalMissingName(t *testing.T) {
	a, err := exprfold.ParseString("x+y", exprfold.Float64{})
	if err != nil {
		t.Fatal(err)
	}
	vars := map[string]float64{"x": 1}
	if _, ok := a.Calculate(vars); ok {
		t.Error("calculated without y")
	}
	_, err = a.Eval(vars)
	var ne *exprfold.NameError
	if !errors.As(err, &ne) {
		t.Fatalf("wrong error: want *NameError, got %T (%v)", err, err)
	}
	if ne.Name != "y" {
		t.Errorf("wrong missing name: want y, got %q", ne.Name)
	}
	if got, want := err.Error(), `undefined variable: "y"`; got != want {
		t.Errorf("wrong message: want %q, got %q", want, got)
	}
	vars["y"] = 2
	if r, ok := a.Calculate(vars); !ok || r != 3 {
		t.Errorf("wrong result: want 3, got %g (%t)", r, ok)
	}
}

func TestEvalIdempotent(t *testing.T) {
	a, err := exprfold.ParseString("x*x-3*(x-2)", exprfold.Float64{})
	if err != nil {
		t.Fatal(err)
	}
	vars := map[string]float64{"x": 7}
	first, err := a.Eval(vars)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		r, err := a.Eval(vars)
		if err != nil || r != first {
			t.Errorf("evaluation %d differs: want %g, got %g (%v)", i, first, r, err)
		}
	}
	if vars["x"] != 7 || len(vars) != 1 {
		t.Errorf("evaluation modified variables: %v", vars)
	}
}

func TestEvalArity(t *testing.T) {
	cases := []struct {
		name string
		src  string
		fn   string
		got  int
	}{
		{"too-many", "sin(1, 2)", "sin", 2},
		{"too-few", "atan2(1)", "atan2", 1},
		{"nested", "1+pow(2, 3, 4)", "pow", 3},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := exprfold.ParseString(c.src, exprfold.Float64{})
			if err != nil {
				t.Fatalf("couldn't parse %q: %v", c.src, err)
			}
			_, err = a.Eval(nil)
			var ae *exprfold.ArityError
			if !errors.As(err, &ae) {
				t.Fatalf("wrong error: want *ArityError, got %T (%v)", err, err)
			}
			if ae.Func != c.fn || ae.Got != c.got {
				t.Errorf("wrong error: want %s with %d args, got %+v", c.fn, c.got, ae)
			}
		})
	}
}

func TestEvalParseErrors(t *testing.T) {
	_, err := exprfold.Eval(strings.NewReader("(1"), exprfold.Float64{}, nil)
	var ie *exprfold.IncompleteError
	if !errors.As(err, &ie) {
		t.Errorf("wrong error: want *IncompleteError, got %T (%v)", err, err)
	}
	_, err = exprfold.EvalString("1+", exprfold.Float64{}, nil)
	if !errors.As(err, &ie) {
		t.Errorf("wrong error: want *IncompleteError, got %T (%v)", err, err)
	}
}

func TestEvalManyArgs(t *testing.T) {
	const n = 5000
	args := make([]string, n)
	for i := range args {
		args[i] = fmt.Sprint((i * 7919) % n)
	}
	src := "max(" + strings.Join(args, ", ") + ")-min(" + strings.Join(args, ", ") + ")"
	r, err := exprfold.EvalString(src, exprfold.Float64{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if r != n-1 {
		t.Errorf("wrong result: want %d, got %g", n-1, r)
	}

	arith := exprfold.Extend[float64](exprfold.Float64{}, exprfold.Funcs[float64]{
		"last": exprfold.Variadic("last", 1, -1, func(args []float64) (float64, error) {
			return args[len(args)-1], nil
		}),
	})
	r, err = exprfold.EvalString("last("+strings.Join(args, ", ")+")", arith, nil)
	if err != nil {
		t.Fatal(err)
	}
	if want := float64(((n - 1) * 7919) % n); r != want {
		t.Errorf("arguments out of order: want last %g, got %g", want, r)
	}
}
