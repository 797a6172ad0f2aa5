package exprfold

import (
	"errors"
	"math"
	"strconv"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// Floats is the arithmetic of a machine floating-point type. Operations follow
// IEEE 754, so e.g. division by zero gives an infinity rather than an error.
//
// Besides the operators, Floats provides these functions of one argument:
//
//	sin cos tan asin acos atan sinh cosh tanh exp ln log log2 sqrt abs floor ceil
//
// and these of two:
//
//	atan2 pow hypot mod
//
// along with min and max, which take one or more arguments. log is the
// base 10 logarithm.
type Floats[F constraints.Float] struct{}

// Float64 is the arithmetic of float64.
type Float64 = Floats[float64]

// Float32 is the arithmetic of float32.
type Float32 = Floats[float32]

var floatMonadic = map[string]func(float64) float64{
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"asin":  math.Asin,
	"acos":  math.Acos,
	"atan":  math.Atan,
	"sinh":  math.Sinh,
	"cosh":  math.Cosh,
	"tanh":  math.Tanh,
	"exp":   math.Exp,
	"ln":    math.Log,
	"log":   math.Log10,
	"log2":  math.Log2,
	"sqrt":  math.Sqrt,
	"abs":   math.Abs,
	"floor": math.Floor,
	"ceil":  math.Ceil,
}

var floatDyadic = map[string]func(float64, float64) float64{
	"atan2": math.Atan2,
	"pow":   math.Pow,
	"^":     math.Pow,
	"hypot": math.Hypot,
	"mod":   math.Mod,
}

// ParseNumber parses text as a decimal floating-point number. Numbers too
// large for F become infinities. Names like inf and nan and numbers with base
// prefixes are not numbers.
func (Floats[F]) ParseNumber(text string) (F, bool) {
	if !isDecimal(text) {
		return 0, false
	}
	var x F
	v, err := strconv.ParseFloat(text, int(unsafe.Sizeof(x))*8)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return F(v), true
}

// Lookup returns the function named name.
func (Floats[F]) Lookup(name string) (Func[F], bool) {
	switch name {
	case "+":
		return Dyadic(name, func(x, y F) F { return x + y }), true
	case "-":
		return Dyadic(name, func(x, y F) F { return x - y }), true
	case "*":
		return Dyadic(name, func(x, y F) F { return x * y }), true
	case "/":
		return Dyadic(name, func(x, y F) F { return x / y }), true
	case "min":
		return Variadic(name, 1, -1, func(args []F) (F, error) {
			r := args[0]
			for _, x := range args[1:] {
				r = F(math.Min(float64(r), float64(x)))
			}
			return r, nil
		}), true
	case "max":
		return Variadic(name, 1, -1, func(args []F) (F, error) {
			r := args[0]
			for _, x := range args[1:] {
				r = F(math.Max(float64(r), float64(x)))
			}
			return r, nil
		}), true
	}
	if f := floatMonadic[name]; f != nil {
		return Monadic(name, func(x F) F { return F(f(float64(x))) }), true
	}
	if f := floatDyadic[name]; f != nil {
		return Dyadic(name, func(x, y F) F { return F(f(float64(x), float64(y))) }), true
	}
	return nil, false
}

// Constants returns the values of pi and e, suitable as default variables.
func (Floats[F]) Constants() map[string]F {
	return map[string]F{"pi": math.Pi, "e": math.E}
}
