package exprfold

import (
	"errors"
	"math/big"
	"strconv"
	"strings"

	"github.com/zephyrtronium/bigfloat"
)

// BigFloat is the arithmetic of arbitrary-precision floating-point numbers.
// Results are computed to Prec bits, or 64 if Prec is zero.
//
// Besides the operators, BigFloat provides exp, ln, sqrt, sin, and cos of one
// argument, pow of two, and log, which is the base 10 logarithm of one
// argument or the logarithm of its first argument to the base of its second.
// Arguments outside a function's domain, including divisions 0/0 and inf/inf
// and powers of negative numbers, give a DomainError.
//
// Functions never modify their arguments, but the result of an evaluation may
// be a constant of the expression or one of the variables passed to it, so
// results must not be modified either.
type BigFloat struct {
	Prec uint
}

func (a BigFloat) prec() uint {
	if a.Prec == 0 {
		return 64
	}
	return a.Prec
}

func (a BigFloat) new() *big.Float {
	return new(big.Float).SetPrec(a.prec())
}

// ParseNumber parses text as a decimal number to the arithmetic's precision.
// Numbers with exponents too large to represent become infinities. Names like
// inf and numbers with base prefixes are not numbers.
func (a BigFloat) ParseNumber(text string) (*big.Float, bool) {
	if !isDecimal(text) {
		return nil, false
	}
	r, _, err := a.new().Parse(text, 10)
	switch {
	case err == nil:
		return r, true
	case err.Error() == "exponent overflow",
		strings.HasSuffix(err.Error(), ": value out of range"):
		// There isn't realistically any better way to detect this error.
		// Identifiers never contain a sign, so the result is positive.
		return a.new().SetInf(false), true
	default:
		return nil, false
	}
}

// Lookup returns the function named name.
func (a BigFloat) Lookup(name string) (Func[*big.Float], bool) {
	switch name {
	case "+":
		return Fixed(name, 2, func(args []*big.Float) (*big.Float, error) {
			x, y := args[0], args[1]
			if x.IsInf() && y.IsInf() && x.Signbit() != y.Signbit() {
				return nil, DomainError{X: y, Arg: 2, Func: name}
			}
			return a.new().Add(x, y), nil
		}), true
	case "-":
		return Fixed(name, 2, func(args []*big.Float) (*big.Float, error) {
			x, y := args[0], args[1]
			if x.IsInf() && y.IsInf() && x.Signbit() == y.Signbit() {
				return nil, DomainError{X: y, Arg: 2, Func: name}
			}
			return a.new().Sub(x, y), nil
		}), true
	case "*":
		return Fixed(name, 2, func(args []*big.Float) (*big.Float, error) {
			x, y := args[0], args[1]
			// Guard against 0 * inf.
			if x.Sign() == 0 && y.IsInf() {
				return nil, DomainError{X: y, Arg: 2, Func: name}
			}
			if x.IsInf() && y.Sign() == 0 {
				return nil, DomainError{X: y, Arg: 2, Func: name}
			}
			return a.new().Mul(x, y), nil
		}), true
	case "/":
		return Fixed(name, 2, func(args []*big.Float) (*big.Float, error) {
			x, y := args[0], args[1]
			// Guard against invalid divisions, 0/0 or inf/inf.
			if x.Sign() == 0 && y.Sign() == 0 || x.IsInf() && y.IsInf() {
				return nil, DomainError{X: y, Arg: 2, Func: name}
			}
			return a.new().Quo(x, y), nil
		}), true
	case "^", "pow":
		return Fixed(name, 2, func(args []*big.Float) (*big.Float, error) {
			return a.pow(name, args[0], args[1])
		}), true
	case "exp":
		return a.monadic(name, exp), true
	case "ln":
		return a.monadic(name, ln), true
	case "sqrt":
		return a.monadic(name, (*big.Float).Sqrt), true
	case "sin":
		return a.monadic(name, func(out, in *big.Float) *big.Float {
			return sincos(out, in, true)
		}), true
	case "cos":
		return a.monadic(name, func(out, in *big.Float) *big.Float {
			return sincos(out, in, false)
		}), true
	case "log":
		return Variadic(name, 1, 2, func(args []*big.Float) (*big.Float, error) {
			return a.log(name, args)
		}), true
	}
	return nil, false
}

// monadic wraps a function of one variable. f must set out to its result;
// its return value is ignored. If f is called on an argument outside its
// domain, it should panic with big.ErrNaN.
func (a BigFloat) monadic(name string, f func(out, in *big.Float) *big.Float) Func[*big.Float] {
	return Fixed(name, 1, func(args []*big.Float) (r *big.Float, err error) {
		in := args[0]
		defer func() {
			p := recover()
			if p == nil {
				return
			}
			if e, ok := p.(error); ok && errors.As(e, new(big.ErrNaN)) {
				r, err = nil, DomainError{X: in, Arg: 1, Func: name}
				return
			}
			panic(p)
		}()
		r = a.new()
		// Copy the argument, in case f uses its input as scratch space.
		f(r, new(big.Float).Copy(in))
		return r, nil
	})
}

func (a BigFloat) pow(name string, x, y *big.Float) (*big.Float, error) {
	// Guard against invalid exponentiations, i.e. negative base.
	// TODO: allow negative base with integer exponent
	if x.Signbit() && x.Sign() != 0 {
		return nil, DomainError{X: x, Arg: 1, Func: name}
	}
	r := a.new()
	switch {
	case y.Sign() == 0:
		return r.SetInt64(1), nil
	case x.Sign() == 0:
		if y.Signbit() {
			return r.SetInf(false), nil
		}
		return r, nil
	}
	bigfloat.Pow(r, new(big.Float).Copy(x), new(big.Float).Copy(y))
	return r, nil
}

func (a BigFloat) log(name string, args []*big.Float) (*big.Float, error) {
	x := args[0]
	if x.Signbit() {
		return nil, DomainError{X: x, Arg: 1, Func: name}
	}
	base := new(big.Float).SetPrec(a.prec()).SetInt64(10)
	if len(args) == 2 {
		base = args[1]
		if base.Signbit() || base.Sign() == 0 {
			return nil, DomainError{X: base, Arg: 2, Func: name}
		}
	}
	r := ln(a.new(), new(big.Float).Copy(x))
	d := ln(a.new(), new(big.Float).Copy(base))
	if d.Sign() == 0 || r.IsInf() && d.IsInf() {
		return nil, DomainError{X: base, Arg: 2, Func: name}
	}
	return r.Quo(r, d), nil
}

// exp sets z to e**x.
func exp(z, x *big.Float) *big.Float {
	if x.IsInf() {
		if x.Signbit() {
			return z.SetInt64(0)
		}
		return z.SetInf(false)
	}
	return bigfloat.Exp(z, x)
}

// ln sets z to the natural logarithm of x. Panics with big.ErrNaN if x is
// negative.
func ln(z, x *big.Float) *big.Float {
	switch {
	case x.Sign() == 0:
		return z.SetInf(true)
	case x.Signbit():
		panic(big.ErrNaN{})
	case x.IsInf():
		return z.SetInf(false)
	}
	return bigfloat.Log(z, x)
}

// sincos sets z to sin(x) if odd is true or to cos(x) otherwise, using the
// Taylor series after reducing x into [-pi, pi]. Panics with big.ErrNaN if x
// is infinite.
func sincos(z, x *big.Float, odd bool) *big.Float {
	if x.IsInf() {
		panic(big.ErrNaN{})
	}
	// Reducing large arguments loses as many bits as x has above the point.
	wp := z.Prec() + 64
	if e := x.MantExp(nil); e > 0 {
		wp += uint(e)
	}
	pi := new(big.Float).SetPrec(wp)
	bigfloat.Pi(pi)
	tau := new(big.Float).SetPrec(wp).SetMantExp(pi, 1)
	r := new(big.Float).SetPrec(wp).Set(x)
	k, _ := new(big.Float).SetPrec(wp).Quo(r, tau).Int(nil)
	r.Sub(r, new(big.Float).SetPrec(wp).Mul(new(big.Float).SetInt(k), tau))
	if r.Cmp(pi) > 0 {
		r.Sub(r, tau)
	} else if r.Cmp(new(big.Float).Neg(pi)) < 0 {
		r.Add(r, tau)
	}

	// Each term is the previous times -r²/((i+1)(i+2)).
	nr2 := new(big.Float).SetPrec(wp).Mul(r, r)
	nr2.Neg(nr2)
	term := new(big.Float).SetPrec(wp).SetInt64(1)
	i := int64(0)
	if odd {
		term.Set(r)
		i = 1
	}
	sum := new(big.Float).SetPrec(wp).Set(term)
	div := new(big.Float).SetPrec(wp)
	for n := uint(0); n < 4*wp && term.Sign() != 0; n++ {
		term.Mul(term, nr2)
		term.Quo(term, div.SetInt64((i+1)*(i+2)))
		i += 2
		sum.Add(sum, term)
		if sum.Sign() != 0 && term.MantExp(nil) < sum.MantExp(nil)-int(wp) {
			break
		}
	}
	return z.Set(sum)
}

// Constants returns the values of pi and e to the arithmetic's precision,
// suitable as default variables.
func (a BigFloat) Constants() map[string]*big.Float {
	pi := a.new()
	bigfloat.Pi(pi)
	e := a.new()
	bigfloat.Exp(e, new(big.Float).SetInt64(1))
	return map[string]*big.Float{"pi": pi, "e": e}
}

// DomainError is an error returned when a function is called on arguments
// outside its domain. DomainError unwraps to big.ErrNaN.
type DomainError struct {
	// X is the out-of-domain argument.
	X *big.Float
	// Arg is the 1-based index of the argument.
	Arg int
	// Func is a name identifying the function.
	Func string
}

func (err DomainError) Error() string {
	r := err.X.String() + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Arg > 0 {
		r += " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	return r
}

func (err DomainError) Unwrap() error {
	return big.ErrNaN{}
}
