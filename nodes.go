package exprfold

import (
	"strconv"
	"strings"
)

// node is a node in the abstract syntax tree of an expression.
type node[T any] struct {
	kind nodeKind

	// name is the source text of a number, the name of a variable, or the
	// name of the function to call.
	name string
	num  T
	fn   Func[T]
	args []*node[T]
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum  // constant num
	nodeName // lookup(name)
	nodeCall // fn(args...)
)

func (k nodeKind) String() string {
	switch k {
	case nodeNone:
		return "None"
	case nodeNum:
		return "Num"
	case nodeName:
		return "Name"
	case nodeCall:
		return "Call"
	default:
		return "nodeKind(" + strconv.Itoa(int(k)) + ")"
	}
}

func (n *node[T]) String() string {
	var b strings.Builder
	n.fmt(&b, false)
	return b.String()
}

// infix reports whether the node is a call to a binary operator.
func (n *node[T]) infix() bool {
	return n.kind == nodeCall && len(n.name) == 1 && len(n.args) == 2 && Operator(n.name[0]).Tier() != TierNone
}

func (n *node[T]) fmt(b *strings.Builder, square bool) {
	var l, r byte = '(', ')'
	if square {
		l, r = '[', ']'
	}
	b.WriteByte(l)
	defer b.WriteByte(r)
	switch n.kind {
	case nodeNum, nodeName:
		b.WriteString(n.name)
	case nodeCall:
		if n.infix() {
			n.args[0].fmt(b, !square)
			b.WriteString(" " + n.name + " ")
			n.args[1].fmt(b, !square)
			return
		}
		b.WriteString(n.name)
		n.fmtargs(b, !square)
	default:
		panic("exprfold: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}

func (n *node[T]) fmtargs(b *strings.Builder, square bool) {
	var l, r byte = '(', ')'
	if square {
		l, r = '[', ']'
	}
	b.WriteByte(l)
	defer b.WriteByte(r)
	for i, arg := range n.args {
		if i > 0 {
			b.WriteString(", ")
		}
		arg.fmt(b, !square)
	}
}
