// Package token defines the token types produced by the lexer.
package token

import (
	"fmt"

	"nsc-lang/internal/span"
)

// Kind represents the type of a token.
type Kind int

const (
	// Special tokens
	ILLEGAL Kind = iota
	EOF
	NEWLINE

	// Literals
	IDENT  // identifiers: x, foo, myVar
	INT    // integer literals: 123
	DOUBLE // floating-point literals: 3.14

	// Arithmetic operators
	PLUS  // +
	MINUS // -
	STAR  // *
	SLASH // /
	CARET // ^

	// Comparison and logical operators
	EQ  // ==
	LT  // <
	LTE // <=
	GT  // >
	GTE // >=
	AND // &&
	OR  // ||

	// Assignment operators
	ASSIGN       // =
	PLUS_ASSIGN  // +=
	MINUS_ASSIGN // -=
	STAR_ASSIGN  // *=
	SLASH_ASSIGN // /=
	CARET_ASSIGN // ^=
	INCR         // ++
	DECR         // --

	// Delimiters
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	COMMA     // ,
	DOT       // .
	SEMICOLON // ;

	// Keywords
	KW_IF
	KW_ELSE
	KW_WHILE
	KW_DO
	KW_FOR
	KW_FUNCTION
	KW_CLASS
	KW_NEW
	KW_TRUE
	KW_FALSE
	KW_NULL

	// Declaration type keywords
	KW_VAR
	KW_BYTE
	KW_SHORT
	KW_INT
	KW_LONG
	KW_FLOAT
	KW_DOUBLE
	KW_BOOLEAN
	KW_CHAR

	// Modifier keywords
	KW_PUBLIC
	KW_PROTECTED
	KW_PRIVATE
	KW_STATIC
	KW_FINAL
)

var kindNames = map[Kind]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",
	NEWLINE: "NEWLINE",

	IDENT:  "IDENT",
	INT:    "INT",
	DOUBLE: "DOUBLE",

	PLUS:  "+",
	MINUS: "-",
	STAR:  "*",
	SLASH: "/",
	CARET: "^",

	EQ:  "==",
	LT:  "<",
	LTE: "<=",
	GT:  ">",
	GTE: ">=",
	AND: "&&",
	OR:  "||",

	ASSIGN:       "=",
	PLUS_ASSIGN:  "+=",
	MINUS_ASSIGN: "-=",
	STAR_ASSIGN:  "*=",
	SLASH_ASSIGN: "/=",
	CARET_ASSIGN: "^=",
	INCR:         "++",
	DECR:         "--",

	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	COMMA:     ",",
	DOT:       ".",
	SEMICOLON: ";",

	KW_IF:       "if",
	KW_ELSE:     "else",
	KW_WHILE:    "while",
	KW_DO:       "do",
	KW_FOR:      "for",
	KW_FUNCTION: "function",
	KW_CLASS:    "class",
	KW_NEW:      "new",
	KW_TRUE:     "true",
	KW_FALSE:    "false",
	KW_NULL:     "null",

	KW_VAR:     "var",
	KW_BYTE:    "byte",
	KW_SHORT:   "short",
	KW_INT:     "int",
	KW_LONG:    "long",
	KW_FLOAT:   "float",
	KW_DOUBLE:  "double",
	KW_BOOLEAN: "boolean",
	KW_CHAR:    "char",

	KW_PUBLIC:    "public",
	KW_PROTECTED: "protected",
	KW_PRIVATE:   "private",
	KW_STATIC:    "static",
	KW_FINAL:     "final",
}

// String returns the human-readable name for a token kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsKeyword returns true if the kind is a keyword.
func (k Kind) IsKeyword() bool {
	return k >= KW_IF && k <= KW_FINAL
}

// IsTypeKeyword returns true for the keywords that start a variable declaration.
func (k Kind) IsTypeKeyword() bool {
	return k >= KW_VAR && k <= KW_CHAR
}

// IsModifier returns true for access and storage modifiers.
func (k Kind) IsModifier() bool {
	return k >= KW_PUBLIC && k <= KW_FINAL
}

// IsAssignment returns true for every assignment operator, including ++ and --.
func (k Kind) IsAssignment() bool {
	return k >= ASSIGN && k <= DECR
}

var keywords = map[string]Kind{
	"if":        KW_IF,
	"else":      KW_ELSE,
	"while":     KW_WHILE,
	"do":        KW_DO,
	"for":       KW_FOR,
	"function":  KW_FUNCTION,
	"class":     KW_CLASS,
	"new":       KW_NEW,
	"true":      KW_TRUE,
	"false":     KW_FALSE,
	"null":      KW_NULL,
	"var":       KW_VAR,
	"byte":      KW_BYTE,
	"short":     KW_SHORT,
	"int":       KW_INT,
	"long":      KW_LONG,
	"float":     KW_FLOAT,
	"double":    KW_DOUBLE,
	"boolean":   KW_BOOLEAN,
	"char":      KW_CHAR,
	"public":    KW_PUBLIC,
	"protected": KW_PROTECTED,
	"private":   KW_PRIVATE,
	"static":    KW_STATIC,
	"final":     KW_FINAL,
}

// LookupIdent returns the keyword Kind for ident, or IDENT if it is not a keyword.
func LookupIdent(ident string) Kind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return IDENT
}

// Token represents a lexical token with its kind, text, and source location.
type Token struct {
	Kind   Kind      `json:"kind"`
	Lexeme string    `json:"lexeme"`
	Span   span.Span `json:"span"`
}

// String returns a human-readable representation of the token.
func (t Token) String() string {
	return fmt.Sprintf("%s %q %s", t.Kind, t.Lexeme, t.Span.Start)
}
