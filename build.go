package exprfold

import (
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Builder is a partially parsed expression. Each token given to Process
// produces a new Builder; the old one is unchanged and remains usable. The
// zero Builder is empty and uses default options.
type Builder struct {
	p   *partial
	cfg *parsecfg
}

// partial is a node of a Builder's tree. Partials are never modified once
// created, so trees from successive Builders share their unchanged subtrees.
type partial struct {
	kind partialKind

	// name is the identifier of a leaf or the function name of a call.
	name string
	// op is the operator of a pending or complex node.
	op Operator

	// left is the operand of a pending or complex node, the inside of a
	// group or done node, or the open last argument of a call.
	left  *partial
	right *partial
	// prev holds a call's finished arguments, last first.
	prev *arglist
}

// arglist is an immutable list of call arguments. Consing onto it keeps each
// token inside a call constant work no matter how many arguments precede it.
type arglist struct {
	arg  *partial
	next *arglist
	n    int
}

func (l *arglist) len() int {
	if l == nil {
		return 0
	}
	return l.n
}

// push returns the list with arg added.
func (l *arglist) push(arg *partial) *arglist {
	return &arglist{arg: arg, next: l, n: l.len() + 1}
}

// args returns a call's arguments in order, including the open last one.
func (p *partial) args() []*partial {
	r := make([]*partial, p.prev.len()+1)
	r[len(r)-1] = p.left
	i := len(r) - 2
	for l := p.prev; l != nil; l = l.next {
		r[i] = l.arg
		i--
	}
	return r
}

type partialKind int8

const (
	partialEmpty   partialKind = iota // nothing yet
	partialLeaf                       // name is a number or name, maybe a function
	partialPending                    // left op, waiting for the right operand
	partialComplex                    // left op right; right is the open slot
	partialGroup                      // open parenthesis around left
	partialDone                       // closed group or call in left
	partialCall                       // name(args...), the last arg is open
)

var partialKindNames = [...]string{
	partialEmpty:   "Empty",
	partialLeaf:    "Leaf",
	partialPending: "Pending",
	partialComplex: "Complex",
	partialGroup:   "Group",
	partialDone:    "Done",
	partialCall:    "Call",
}

func (k partialKind) String() string {
	if k < 0 || int(k) >= len(partialKindNames) {
		return "partialKind(" + strconv.Itoa(int(k)) + ")"
	}
	return partialKindNames[k]
}

var empty = &partial{kind: partialEmpty}

// NewBuilder creates an empty Builder. The given options are applied in
// order.
func NewBuilder(opts ...ParseOption) Builder {
	return Builder{p: empty, cfg: newParseConfig(opts)}
}

func (b Builder) root() *partial {
	if b.p == nil {
		return empty
	}
	return b.p
}

func (b Builder) config() *parsecfg {
	if b.cfg == nil {
		return &defaultcfg
	}
	return b.cfg
}

// Empty reports whether b has not processed any tokens.
func (b Builder) Empty() bool {
	return b.root().kind == partialEmpty
}

// Wants reports whether tok belongs inside the construct that b currently has
// open, as opposed to closing it or making it an operand of something new. At
// the top level, a token that b does not want is one that b cannot process.
func (b Builder) Wants(tok Token) bool {
	return b.root().wants(tok)
}

// Process folds one token into b. If the token cannot follow what b has
// already parsed, the result is b itself with an error describing the
// problem, either a *SyntaxError or a *DepthError.
func (b Builder) Process(tok Token) (Builder, error) {
	cfg := b.config()
	if cfg.log.Logger.IsLevelEnabled(logrus.TraceLevel) {
		cfg.log.WithFields(logrus.Fields{"token": tok.String(), "state": b.String()}).Trace("fold")
	}
	switch tok.Kind {
	case TokenIdent:
		if tok.Text == "" {
			return b, &SyntaxError{Msg: "empty identifier", Token: tok, Partial: b}
		}
	case TokenOp:
		if tok.operator().Tier() == TierNone {
			return b, &SyntaxError{Msg: "unknown operator", Token: tok, Partial: b}
		}
	case TokenOpen, TokenClose, TokenComma: // do nothing
	default:
		return b, &SyntaxError{Msg: "invalid token", Token: tok, Partial: b}
	}
	p, err := b.root().process(tok, cfg.maxDepth, 0)
	if err != nil {
		switch err := err.(type) {
		case *SyntaxError:
			err.Partial = b
		case *DepthError:
			err.Partial = b
		}
		return b, err
	}
	return Builder{p: p, cfg: b.cfg}, nil
}

// wants reports whether t applies to p's open slot.
func (p *partial) wants(t Token) bool {
	switch p.kind {
	case partialEmpty, partialPending, partialGroup, partialCall:
		return true
	case partialLeaf:
		return t.Kind == TokenOpen
	case partialComplex:
		if p.right.wants(t) {
			return true
		}
		return t.Kind == TokenOp && t.operator().moreBinding(p.op)
	default:
		return false
	}
}

// process returns the partial that results from applying t to p. depth is
// the number of groups and calls enclosing p, and limit is the most allowed,
// or no limit if limit <= 0.
func (p *partial) process(t Token, limit, depth int) (*partial, error) {
	switch p.kind {
	case partialEmpty:
		switch t.Kind {
		case TokenIdent:
			return &partial{kind: partialLeaf, name: t.Text}, nil
		case TokenOpen:
			if limit > 0 && depth >= limit {
				return nil, &DepthError{Max: limit}
			}
			return &partial{kind: partialGroup, left: empty}, nil
		}
	case partialLeaf:
		switch t.Kind {
		case TokenOp:
			return &partial{kind: partialPending, left: p, op: t.operator()}, nil
		case TokenOpen:
			// The leaf was a function name all along.
			if limit > 0 && depth >= limit {
				return nil, &DepthError{Max: limit}
			}
			return &partial{kind: partialCall, name: p.name, left: empty}, nil
		}
	case partialDone:
		if t.Kind == TokenOp {
			return &partial{kind: partialPending, left: p, op: t.operator()}, nil
		}
	case partialPending:
		r, err := empty.process(t, limit, depth)
		if err != nil {
			return nil, err
		}
		return &partial{kind: partialComplex, left: p.left, op: p.op, right: r}, nil
	case partialComplex:
		if t.Kind == TokenOp {
			op := t.operator()
			if !p.right.wants(t) && !op.moreBinding(p.op) {
				// a op b new -> (a op b) new
				return &partial{kind: partialPending, left: p, op: op}, nil
			}
		}
		r, err := p.right.process(t, limit, depth)
		if err != nil {
			return nil, err
		}
		return &partial{kind: partialComplex, left: p.left, op: p.op, right: r}, nil
	case partialGroup:
		if t.Kind == TokenClose && !p.left.wants(t) {
			return &partial{kind: partialDone, left: p.left}, nil
		}
		in, err := p.left.process(t, limit, depth+1)
		if err != nil {
			return nil, err
		}
		return &partial{kind: partialGroup, left: in}, nil
	case partialCall:
		last := p.left
		switch {
		case t.Kind == TokenClose && !last.wants(t):
			return &partial{kind: partialDone, left: p}, nil
		case t.Kind == TokenComma && !last.wants(t):
			return &partial{kind: partialCall, name: p.name, left: empty, prev: p.prev.push(last)}, nil
		}
		in, err := last.process(t, limit, depth+1)
		if err != nil {
			return nil, err
		}
		return &partial{kind: partialCall, name: p.name, left: in, prev: p.prev}, nil
	}
	return nil, unexpected(p, t)
}

// unexpected creates an error for a token that has no transition from p.
func unexpected(p *partial, t Token) *SyntaxError {
	var msg string
	switch {
	case p.kind == partialEmpty && t.Kind == TokenOp:
		msg = "missing operand before operator"
	case p.kind == partialEmpty:
		msg = "missing expression"
	case t.Kind == TokenClose:
		msg = "close bracket with no open bracket"
	case t.Kind == TokenComma:
		msg = "separator outside function call"
	case t.Kind == TokenOpen:
		msg = "missing operator before open bracket"
	default:
		msg = "missing operator"
	}
	return &SyntaxError{Msg: msg, Token: t}
}

// open reports whether p ends inside a group or call that has no close
// bracket yet. Formatting leaves every bracket enclosing such a node unclosed.
func (p *partial) open() bool {
	switch p.kind {
	case partialGroup, partialCall:
		return true
	case partialComplex:
		return p.right.open()
	default:
		return false
	}
}

// String formats the partial expression. Open constructs are left unclosed
// and an open slot is shown as _, so "x+(y*" is "(x + [(y * _)".
func (b Builder) String() string {
	var s strings.Builder
	b.root().fmt(&s)
	return s.String()
}

func (p *partial) fmt(b *strings.Builder) {
	switch p.kind {
	case partialEmpty:
		b.WriteByte('_')
	case partialLeaf:
		b.WriteString(p.name)
	case partialPending:
		b.WriteByte('(')
		p.left.fmt(b)
		b.WriteString(" " + p.op.String() + " _)")
	case partialComplex:
		b.WriteByte('(')
		p.left.fmt(b)
		b.WriteString(" " + p.op.String() + " ")
		p.right.fmt(b)
		if !p.right.open() {
			b.WriteByte(')')
		}
	case partialGroup:
		b.WriteByte('[')
		p.left.fmt(b)
	case partialDone:
		if p.left.kind == partialCall {
			p.left.fmt(b)
			b.WriteByte('}')
			return
		}
		b.WriteByte('[')
		p.left.fmt(b)
		b.WriteByte(']')
	case partialCall:
		b.WriteString(p.name)
		b.WriteByte('{')
		for i, arg := range p.args() {
			if i > 0 {
				b.WriteString(", ")
			}
			arg.fmt(b)
		}
	default:
		panic("exprfold: invalid partial kind " + p.kind.String())
	}
}
