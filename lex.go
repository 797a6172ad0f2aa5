package exprfold

import (
	"errors"
	"io"
	"strconv"
	"strings"
)

// Token is a lexical token of an expression.
type Token struct {
	// Kind is the token's kind.
	Kind TokenKind
	// Text is the token's source text. For identifiers it is the whole run of
	// identifier characters. For every other kind it is the single character
	// that produced the token.
	Text string
}

func (t Token) String() string {
	return t.Kind.String() + ":" + t.Text
}

// TokenKind is the kind of a token.
type TokenKind int8

const (
	tokenNone TokenKind = iota
	// TokenIdent is a number or a name. Which one it is is decided when the
	// expression is finalized.
	TokenIdent
	// TokenOp is a binary operator.
	TokenOp
	// TokenOpen is an open parenthesis.
	TokenOpen
	// TokenClose is a close parenthesis.
	TokenClose
	// TokenComma separates function arguments.
	TokenComma
)

var tokenKindNames = [...]string{
	tokenNone:  "None",
	TokenIdent: "Ident",
	TokenOp:    "Op",
	TokenOpen:  "Open",
	TokenClose: "Close",
	TokenComma: "Comma",
}

func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(tokenKindNames) {
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
	return tokenKindNames[k]
}

// Ident returns an identifier token.
func Ident(text string) Token {
	return Token{Kind: TokenIdent, Text: text}
}

// Op returns an operator token.
func Op(op Operator) Token {
	return Token{Kind: TokenOp, Text: string(rune(op))}
}

var (
	tokOpen  = Token{Kind: TokenOpen, Text: "("}
	tokClose = Token{Kind: TokenClose, Text: ")"}
	tokComma = Token{Kind: TokenComma, Text: ","}
)

// Structural contains the runes which are tokens by themselves. Any of them
// ends an identifier.
const Structural = "(),+-*/^"

// isIdentRune reports whether r continues an identifier.
func isIdentRune(r rune) bool {
	switch {
	case '0' <= r && r <= '9', r == '.':
		return true
	case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
		return true
	}
	return false
}

func structural(r rune) Token {
	switch r {
	case '(':
		return tokOpen
	case ')':
		return tokClose
	case ',':
		return tokComma
	default:
		return Op(Operator(r))
	}
}

type lexer struct {
	src io.RuneScanner
	buf strings.Builder
	eof bool
}

func lex(src io.RuneScanner) *lexer {
	return &lexer{src: src}
}

// unreadRune unreads a rune from the src. Panics if unreading returns an
// error.
func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
}

// next scans the next token from the input. Runes that are neither identifier
// runes nor structural are skipped without ending the current identifier.
// After the last token, the result is an empty token with io.EOF.
func (l *lexer) next() (Token, error) {
	if l.eof {
		return Token{}, io.EOF
	}
	defer l.buf.Reset()
	for {
		r, _, err := l.src.ReadRune()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return Token{}, err
			}
			l.eof = true
			if l.buf.Len() == 0 {
				return Token{}, io.EOF
			}
			return Ident(l.buf.String()), nil
		}
		switch {
		case isIdentRune(r):
			l.buf.WriteRune(r)
		case strings.ContainsRune(Structural, r):
			if l.buf.Len() > 0 {
				// Flush the identifier first. The structural rune is the
				// next token.
				l.unreadRune()
				return Ident(l.buf.String()), nil
			}
			return structural(r), nil
		}
	}
}

// Tokens splits an expression into its tokens.
func Tokens(src string) []Token {
	var toks []Token
	scan := lex(strings.NewReader(src))
	for {
		tok, err := scan.next()
		if err != nil {
			// strings.Reader never fails, so this is EOF.
			return toks
		}
		toks = append(toks, tok)
	}
}
