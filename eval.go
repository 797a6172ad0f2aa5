package exprfold

import (
	"io"
	"strconv"
	"strings"
)

// Eval evaluates the expression with the given variable values. If a
// variable the expression uses is missing from vars, the error is a
// *NameError. Errors from functions, e.g. an argument outside a function's
// domain, are returned as the function reports them.
func (e *Expr[T]) Eval(vars map[string]T) (T, error) {
	return e.n.eval(vars)
}

// Calculate evaluates the expression with the given variable values. The
// boolean result is false if evaluation failed, usually because vars is
// missing a variable. Use Vars to check which names are needed.
func (e *Expr[T]) Calculate(vars map[string]T) (T, bool) {
	r, err := e.n.eval(vars)
	return r, err == nil
}

// eval computes the node's value. Arguments of calls are evaluated left to
// right, stopping at the first error.
func (n *node[T]) eval(vars map[string]T) (T, error) {
	var zero T
	switch n.kind {
	case nodeNum:
		return n.num, nil
	case nodeName:
		v, ok := vars[n.name]
		if !ok {
			return zero, &NameError{Name: n.name}
		}
		return v, nil
	case nodeCall:
		invoc := make([]T, len(n.args))
		for i, arg := range n.args {
			v, err := arg.eval(vars)
			if err != nil {
				return zero, err
			}
			invoc[i] = v
		}
		return n.fn.Call(invoc)
	default:
		panic("exprfold: invalid AST node " + n.kind.String())
	}
}

// Eval is a shortcut to parse an expression and return its result.
func Eval[T any](src io.RuneScanner, arith Arithmetic[T], vars map[string]T, opts ...ParseOption) (T, error) {
	a, err := Parse(src, arith, opts...)
	if err != nil {
		var zero T
		return zero, err
	}
	return a.Eval(vars)
}

// EvalString is a shortcut to parse and evaluate a string expression.
func EvalString[T any](src string, arith Arithmetic[T], vars map[string]T, opts ...ParseOption) (T, error) {
	return Eval(strings.NewReader(src), arith, vars, opts...)
}

// NameError is an error from a lookup for a variable that is missing from the
// evaluation variables.
type NameError struct {
	// Name is the name that was missing.
	Name string
}

func (err *NameError) Error() string {
	return "undefined variable: " + strconv.Quote(err.Name)
}
