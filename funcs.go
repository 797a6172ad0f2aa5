package exprfold

import "strconv"

// Func is a function of numbers. The binary operators are Funcs named by
// their symbols.
type Func[T any] interface {
	// Name is the name the function is called by.
	Name() string
	// Arity is the number of arguments the function takes, or -1 if the
	// function accepts varying numbers of arguments.
	Arity() int
	// Call evaluates the function. Call checks the number of arguments
	// itself; the evaluator passes whatever the expression contains. Call
	// must not modify the elements of args.
	Call(args []T) (T, error)
}

// Registry looks up functions by name.
type Registry[T any] interface {
	// Lookup returns the function with the given name. The boolean result
	// is false if there is no such function.
	Lookup(name string) (Func[T], bool)
}

// Arithmetic is a number system that expressions can be evaluated in. It
// supplies the parsing of numeric literals and the functions, including the
// operators + - * / and ^.
type Arithmetic[T any] interface {
	Registry[T]
	// ParseNumber parses the text of an identifier as a number. The boolean
	// result is false if text is not a number, in which case the identifier
	// is a variable name.
	ParseNumber(text string) (T, bool)
}

// Funcs is a Registry backed by a map. A nil Func in the map is treated as
// missing.
type Funcs[T any] map[string]Func[T]

// Lookup returns the function named name.
func (m Funcs[T]) Lookup(name string) (Func[T], bool) {
	f := m[name]
	return f, f != nil
}

type extended[T any] struct {
	Arithmetic[T]
	fns Funcs[T]
}

// Extend creates an arithmetic with the functions in fns in addition to the
// ones arith provides. Functions in fns replace those of arith with the same
// name. To remove a function, map its name to nil.
func Extend[T any](arith Arithmetic[T], fns Funcs[T]) Arithmetic[T] {
	return extended[T]{arith, fns}
}

func (e extended[T]) Lookup(name string) (Func[T], bool) {
	if f, ok := e.fns[name]; ok {
		return f, f != nil
	}
	return e.Arithmetic.Lookup(name)
}

type fixed[T any] struct {
	name     string
	min, max int
	f        func(args []T) (T, error)
}

func (f fixed[T]) Name() string {
	return f.name
}

func (f fixed[T]) Arity() int {
	if f.min != f.max {
		return -1
	}
	return f.min
}

func (f fixed[T]) Call(args []T) (T, error) {
	if len(args) < f.min || f.max >= 0 && len(args) > f.max {
		var zero T
		return zero, &ArityError{Func: f.name, Min: f.min, Max: f.max, Got: len(args)}
	}
	return f.f(args)
}

// Fixed wraps a function of exactly n arguments into a Func.
func Fixed[T any](name string, n int, f func(args []T) (T, error)) Func[T] {
	return fixed[T]{name: name, min: n, max: n, f: f}
}

// Variadic wraps a function of at least least and at most most arguments into
// a Func. If most is negative, there is no upper limit.
func Variadic[T any](name string, least, most int, f func(args []T) (T, error)) Func[T] {
	return fixed[T]{name: name, min: least, max: most, f: f}
}

// Monadic wraps a function of one argument that cannot fail into a Func.
func Monadic[T any](name string, f func(x T) T) Func[T] {
	return Fixed(name, 1, func(args []T) (T, error) {
		return f(args[0]), nil
	})
}

// Dyadic wraps a function of two arguments that cannot fail into a Func.
func Dyadic[T any](name string, f func(x, y T) T) Func[T] {
	return Fixed(name, 2, func(args []T) (T, error) {
		return f(args[0], args[1]), nil
	})
}

// ArityError is an error returned when a function is called with the wrong
// number of arguments.
type ArityError struct {
	// Func is the name of the function.
	Func string
	// Min and Max are the bounds on the number of arguments. Max is negative
	// if there is no upper bound.
	Min, Max int
	// Got is the number of arguments in the call.
	Got int
}

func (err *ArityError) Error() string {
	var want string
	switch {
	case err.Min == err.Max:
		want = strconv.Itoa(err.Min)
	case err.Max < 0:
		want = "at least " + strconv.Itoa(err.Min)
	default:
		want = strconv.Itoa(err.Min) + " to " + strconv.Itoa(err.Max)
	}
	return "cannot call " + err.Func + " with " + strconv.Itoa(err.Got) + " arguments (want " + want + ")"
}
