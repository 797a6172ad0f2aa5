// Package exprfold parses and evaluates arithmetic expressions over any number
// type.
//
// Expressions are made of numbers, variable names, the binary operators
// + - * / and ^, parentheses, and calls to named functions like "sin(x)" or
// "atan2(y, x)". "*" and "/" bind tighter than "+" and "-", and "^" binds
// tighter than both. Operators of the same precedence associate to the left,
// so "2^3^2" is "(2^3)^2". There are no unary operators.
//
// Parsing is a fold over the token stream. A Builder holds the partially
// parsed expression and each token produces a new Builder, so a parse never
// looks ahead or backtracks. Finalizing a Builder with an Arithmetic gives an
// Expr, which can be evaluated any number of times with different variables,
// from any number of goroutines.
package exprfold
