package exprfold_test

import (
	"fmt"

	"github.com/zephyrtronium/exprfold"
)

func ExampleEvalString() {
	r, err := exprfold.EvalString("x-3*(x-2)", exprfold.Float64{}, map[string]float64{"x": 1})
	fmt.Println(r, err)
	// Output:
	// 4 <nil>
}

func ExampleBuilder() {
	b := exprfold.NewBuilder()
	for _, tok := range exprfold.Tokens("5*sin(x)") {
		b, _ = b.Process(tok)
		fmt.Println(b)
	}
	// Output:
	// 5
	// (5 * _)
	// (5 * sin)
	// (5 * sin{_
	// (5 * sin{x
	// (5 * sin{x})
}

func ExampleExpr_Vars() {
	a, _ := exprfold.ParseString("b*x+a*y+pi", exprfold.Float64{})
	fmt.Println(a.Vars())
	// Output:
	// [a b pi x y]
}

func ExampleExtend() {
	arith := exprfold.Extend[float64](exprfold.Float64{}, exprfold.Funcs[float64]{
		"nargin": exprfold.Variadic("nargin", 0, -1, func(args []float64) (float64, error) {
			return float64(len(args)), nil
		}),
	})
	a, _ := exprfold.ParseString("nargin(3, 2, 1)", arith)
	r, _ := a.Eval(nil)
	fmt.Println(r, a)
	// Output:
	// 3 (nargin[(3), (2), (1)])
}

func ExampleBigFloat() {
	arith := exprfold.BigFloat{Prec: 256}
	r, _ := exprfold.EvalString("2^64+1", arith, nil)
	fmt.Println(r.Text('f', 0))
	// Output:
	// 18446744073709551617
}

func ExampleIncompleteError() {
	_, err := exprfold.ParseString("atan2(y, x", exprfold.Float64{})
	fmt.Println(err)
	// Output:
	// expected ")" after atan2{y, x
}
