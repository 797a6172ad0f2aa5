package exprfold

import (
	"errors"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// expr = term { ('+' | '-') term }
// term = factor { ('*' | '/') factor }
// factor = atom { '^' atom }
// atom = number | name | name '(' expr { ',' expr } ')' | '(' expr ')'

// Expr is a parsed expression that can be evaluated with variables. An Expr
// is immutable, so it is safe to evaluate concurrently.
type Expr[T any] struct {
	// n is the root node of the expression.
	n *node[T]
	// names is the list of variable names used in the expression.
	names []string
	// log is the entry from the options the expression was parsed with.
	log *logrus.Entry
}

// Build folds the tokens of src into a Builder. If a token cannot be
// processed, the result is the Builder as of the previous token along with
// the error.
func Build(src io.RuneScanner, opts ...ParseOption) (Builder, error) {
	b := NewBuilder(opts...)
	scan := lex(src)
	for {
		tok, err := scan.next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return b, nil
			}
			return b, err
		}
		next, err := b.Process(tok)
		if err != nil {
			b.config().log.WithError(err).Debug("parse failed")
			return b, err
		}
		b = next
	}
}

// Parse parses an expression so it can be evaluated. Numbers and functions,
// including the operators, come from arith. The given options are applied in
// order.
func Parse[T any](src io.RuneScanner, arith Arithmetic[T], opts ...ParseOption) (*Expr[T], error) {
	b, err := Build(src, opts...)
	if err != nil {
		return nil, err
	}
	return Finalize(b, arith)
}

// ParseString is a shortcut to parse a string expression.
func ParseString[T any](src string, arith Arithmetic[T], opts ...ParseOption) (*Expr[T], error) {
	return Parse(strings.NewReader(src), arith, opts...)
}

// Finalize converts a complete Builder into an expression. Identifiers that
// arith parses as numbers become constants, and the rest become variables.
// If b has an open group, call, or operator, the error is an
// *IncompleteError. If the expression uses a function or operator that arith
// does not provide, the error is a *FunctionError.
func Finalize[T any](b Builder, arith Arithmetic[T]) (*Expr[T], error) {
	cfg := b.config()
	f := finalizer[T]{
		arith:  arith,
		strict: cfg.strict,
		names:  make(map[string]bool),
	}
	n, err := f.node(b.root())
	if err != nil {
		if err, ok := err.(*IncompleteError); ok {
			err.Partial = b
		}
		return nil, err
	}
	ex := Expr[T]{
		n:     n,
		names: make([]string, 0, len(f.names)),
		log:   cfg.log,
	}
	for k := range f.names {
		ex.names = append(ex.names, k)
	}
	sortstrs(ex.names)
	if cfg.log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		cfg.log.WithFields(logrus.Fields{"expr": ex.String(), "vars": ex.names}).Debug("finalized")
	}
	return &ex, nil
}

type finalizer[T any] struct {
	arith  Arithmetic[T]
	strict bool
	// names is the set of variable names that have been seen.
	names map[string]bool
}

func (f *finalizer[T]) node(p *partial) (*node[T], error) {
	switch p.kind {
	case partialEmpty, partialPending:
		return nil, &IncompleteError{}
	case partialGroup, partialCall:
		return nil, &IncompleteError{Expected: ")"}
	case partialLeaf:
		if x, ok := f.arith.ParseNumber(p.name); ok {
			return &node[T]{kind: nodeNum, name: p.name, num: x}, nil
		}
		if f.strict && startsNumber(p.name) {
			return nil, &NumberError{Text: p.name}
		}
		f.names[p.name] = true
		return &node[T]{kind: nodeName, name: p.name}, nil
	case partialComplex:
		name := p.op.String()
		fn, ok := f.arith.Lookup(name)
		if !ok {
			return nil, &FunctionError{Name: name}
		}
		l, err := f.node(p.left)
		if err != nil {
			return nil, err
		}
		r, err := f.node(p.right)
		if err != nil {
			return nil, err
		}
		return &node[T]{kind: nodeCall, name: name, fn: fn, args: []*node[T]{l, r}}, nil
	case partialDone:
		c := p.left
		if c.kind != partialCall {
			return f.node(c)
		}
		fn, ok := f.arith.Lookup(c.name)
		if !ok {
			return nil, &FunctionError{Name: c.name}
		}
		in := c.args()
		args := make([]*node[T], len(in))
		for i, arg := range in {
			a, err := f.node(arg)
			if err != nil {
				return nil, err
			}
			args[i] = a
		}
		return &node[T]{kind: nodeCall, name: c.name, fn: fn, args: args}, nil
	default:
		panic("exprfold: invalid partial kind " + p.kind.String())
	}
}

// startsNumber reports whether an identifier begins the way a number does.
func startsNumber(s string) bool {
	return s != "" && ('0' <= s[0] && s[0] <= '9' || s[0] == '.')
}

// isDecimal reports whether s is a decimal number: digits with at most one
// point, then optionally e or E and an exponent of one or more digits. There
// is at least one mantissa digit. Identifiers never contain signs.
func isDecimal(s string) bool {
	mant, exp, hasExp := s, "", false
	if k := strings.IndexAny(s, "eE"); k >= 0 {
		mant, exp, hasExp = s[:k], s[k+1:], true
	}
	digits, point := 0, false
	for _, c := range []byte(mant) {
		switch {
		case '0' <= c && c <= '9':
			digits++
		case c == '.' && !point:
			point = true
		default:
			return false
		}
	}
	if digits == 0 || hasExp && exp == "" {
		return false
	}
	for _, c := range []byte(exp) {
		if c < '0' || '9' < c {
			return false
		}
	}
	return true
}

// sortstrs sorts a string slice without using package sort because that has
// reflection and allocation problems.
func sortstrs(names []string) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
}

// Vars returns the variable names used when evaluating the expression.
func (e *Expr[T]) Vars() []string {
	return append(([]string)(nil), e.names...)
}

// String creates a string representation of the parsed expression, with
// alternating round and square brackets grouping each term.
func (e *Expr[T]) String() string {
	return e.n.String()
}
