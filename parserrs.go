package exprfold

import "strconv"

// SyntaxError is an error indicating a token that cannot follow the tokens
// before it.
type SyntaxError struct {
	// Msg describes the problem.
	Msg string
	// Token is the token that could not be processed.
	Token Token
	// Partial is the expression as parsed up to but not including Token.
	Partial Builder
}

func (err *SyntaxError) Error() string {
	return errafter(err.Partial, err.Msg+" at "+strconv.Quote(err.Token.Text))
}

// IncompleteError is an error indicating an expression that ended while a
// group, a function call, or an operator was still open.
type IncompleteError struct {
	// Expected is the token that would have closed the innermost open
	// construct, or the empty string if an operand was missing.
	Expected string
	// Partial is the expression that could not be finalized.
	Partial Builder
}

func (err *IncompleteError) Error() string {
	if err.Expected == "" {
		if err.Partial.Empty() {
			return "no expression"
		}
		return errafter(err.Partial, "expression not complete")
	}
	return errafter(err.Partial, "expected "+strconv.Quote(err.Expected))
}

// FunctionError is an error indicating a call to a function, or a use of an
// operator, that the arithmetic does not provide.
type FunctionError struct {
	// Name is the function name or operator symbol that was not found.
	Name string
}

func (err *FunctionError) Error() string {
	return "function " + strconv.Quote(err.Name) + " not found"
}

// DepthError is an error indicating brackets nested deeper than allowed by
// the MaxDepth option.
type DepthError struct {
	// Max is the maximum allowed depth.
	Max int
	// Partial is the expression as parsed before the bracket that nested too
	// deeply.
	Partial Builder
}

func (err *DepthError) Error() string {
	return errafter(err.Partial, "brackets nested deeper than "+strconv.Itoa(err.Max))
}

// NumberError is an error indicating an identifier that looks like a number
// but is not one. It only occurs with the StrictNumbers option.
type NumberError struct {
	// Text is the invalid number.
	Text string
}

func (err *NumberError) Error() string {
	return "invalid number " + strconv.Quote(err.Text)
}

// errafter is a shortcut to create an error message with the partial
// expression preceding the error.
func errafter(b Builder, msg string) string {
	if b.Empty() {
		return msg + " at start of expression"
	}
	return msg + " after " + b.String()
}

var (
	_ error = (*SyntaxError)(nil)
	_ error = (*IncompleteError)(nil)
	_ error = (*FunctionError)(nil)
	_ error = (*DepthError)(nil)
	_ error = (*NumberError)(nil)
)
