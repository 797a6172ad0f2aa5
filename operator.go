package exprfold

// Operator is a binary operator symbol.
type Operator byte

// The binary operators.
const (
	Add Operator = '+'
	Sub Operator = '-'
	Mul Operator = '*'
	Div Operator = '/'
	Pow Operator = '^'
)

// Operators contains the runes which are operators.
const Operators = "+-*/^"

// Tier is a precedence class. Higher tiers bind tighter.
type Tier int8

const (
	// TierNone is the tier of anything that is not an operator.
	TierNone Tier = iota
	// TierLow is the tier of + and -.
	TierLow
	// TierHigh is the tier of * and /.
	TierHigh
	// TierHighest is the tier of ^.
	TierHighest
)

// Tier returns the operator's precedence tier.
func (op Operator) Tier() Tier {
	switch op {
	case Add, Sub:
		return TierLow
	case Mul, Div:
		return TierHigh
	case Pow:
		return TierHighest
	default:
		return TierNone
	}
}

// moreBinding reports whether op binds strictly tighter than than. Operators
// of the same tier are left-associative, so they never bind tighter than each
// other.
func (op Operator) moreBinding(than Operator) bool {
	return op.Tier() > than.Tier()
}

func (op Operator) String() string {
	return string(rune(op))
}

// operator returns the operator of an operator token. Any other token gives
// an operator with TierNone.
func (t Token) operator() Operator {
	if t.Kind != TokenOp || len(t.Text) != 1 {
		return 0
	}
	return Operator(t.Text[0])
}
