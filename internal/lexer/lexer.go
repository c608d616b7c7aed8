// Package lexer implements the lexical analysis (tokenization) for nsc-lang.
package lexer

import (
	"unicode"
	"unicode/utf8"

	"nsc-lang/internal/diag"
	"nsc-lang/internal/span"
	"nsc-lang/internal/token"
)

// Lexer tokenizes source code into a sequence of tokens.
type Lexer struct {
	source   string
	filename string

	pos  int // current read position in source
	line int // current line (1-based)
	col  int // current column (1-based)

	diags []diag.Diagnostic
}

// New creates a new Lexer for the given source text.
func New(source, filename string) *Lexer {
	return &Lexer{
		source:   source,
		filename: filename,
		line:     1,
		col:      1,
	}
}

// Tokenize scans the entire source and returns all tokens and diagnostics.
func (l *Lexer) Tokenize() ([]token.Token, []diag.Diagnostic) {
	var tokens []token.Token
	for {
		tok := l.nextToken()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return tokens, l.diags
}

// ---- internal helpers ----

// peek returns the current character without advancing, or 0 if at end.
func (l *Lexer) peek() byte {
	if l.pos >= len(l.source) {
		return 0
	}
	return l.source[l.pos]
}

// peekNext returns the character after current, or 0 if at end.
func (l *Lexer) peekNext() byte {
	if l.pos+1 >= len(l.source) {
		return 0
	}
	return l.source[l.pos+1]
}

// advance consumes the current character and returns it.
func (l *Lexer) advance() byte {
	ch := l.source[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch
}

func (l *Lexer) curPos() span.Position {
	return span.Position{Offset: l.pos, Line: l.line, Column: l.col}
}

func (l *Lexer) makeSpan(start span.Position) span.Span {
	return span.Span{Start: start, End: l.curPos()}
}

func (l *Lexer) makeToken(kind token.Kind, lexeme string, start span.Position) token.Token {
	return token.Token{Kind: kind, Lexeme: lexeme, Span: l.makeSpan(start)}
}

// skipWhitespace skips spaces and tabs (not newlines).
func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.source) {
		ch := l.source[l.pos]
		if ch == ' ' || ch == '\t' || ch == '\r' {
			l.advance()
		} else {
			break
		}
	}
}

// skipLineComment skips from // to end of line.
func (l *Lexer) skipLineComment() {
	for l.pos < len(l.source) && l.source[l.pos] != '\n' {
		l.advance()
	}
}

// skipBlockComment skips a /* ... */ comment. Newlines inside it are dropped.
func (l *Lexer) skipBlockComment(start span.Position) {
	l.advance() // /
	l.advance() // *
	for l.pos < len(l.source) {
		if l.peek() == '*' && l.peekNext() == '/' {
			l.advance()
			l.advance()
			return
		}
		l.advance()
	}
	l.diags = append(l.diags, diag.Errorf(diag.CodeUnexpectedChar, l.makeSpan(start), "unterminated block comment"))
}

// ---- token reading ----

func (l *Lexer) nextToken() token.Token {
	for {
		l.skipWhitespace()
		if l.peek() == '/' && l.peekNext() == '/' {
			l.skipLineComment()
			continue
		}
		if l.peek() == '/' && l.peekNext() == '*' {
			l.skipBlockComment(l.curPos())
			continue
		}
		break
	}

	start := l.curPos()
	if l.pos >= len(l.source) {
		return l.makeToken(token.EOF, "", start)
	}

	ch := l.peek()
	switch {
	case ch == '\n':
		l.advance()
		return l.makeToken(token.NEWLINE, "\\n", start)
	case isDigit(ch):
		return l.readNumber(start)
	case ch == '.' && isDigit(l.peekNext()):
		return l.readNumber(start)
	case isIdentStart(l.source[l.pos:]):
		return l.readIdentifier(start)
	}
	return l.readOperator(start)
}

// readNumber reads an integer or double literal. A literal with a fractional
// part or an exponent is a double.
func (l *Lexer) readNumber(start span.Position) token.Token {
	numStart := l.pos
	isDouble := false

	for isDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' && isDigit(l.peekNext()) {
		isDouble = true
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	if l.peek() == 'e' || l.peek() == 'E' {
		next := l.peekNext()
		if isDigit(next) || next == '+' || next == '-' {
			isDouble = true
			l.advance() // e
			if l.peek() == '+' || l.peek() == '-' {
				l.advance()
			}
			if !isDigit(l.peek()) {
				l.diags = append(l.diags, diag.Errorf(diag.CodeMalformedNumber, l.makeSpan(start),
					"malformed exponent in number literal"))
			}
			for isDigit(l.peek()) {
				l.advance()
			}
		}
	}

	kind := token.INT
	if isDouble {
		kind = token.DOUBLE
	}
	return l.makeToken(kind, l.source[numStart:l.pos], start)
}

// readIdentifier reads an identifier or keyword.
func (l *Lexer) readIdentifier(start span.Position) token.Token {
	identStart := l.pos
	for l.pos < len(l.source) {
		r, size := utf8.DecodeRuneInString(l.source[l.pos:])
		if !isIdentRune(r) {
			break
		}
		for i := 0; i < size; i++ {
			l.advance()
		}
	}
	lexeme := l.source[identStart:l.pos]
	return l.makeToken(token.LookupIdent(lexeme), lexeme, start)
}

// readOperator reads an operator or delimiter token.
func (l *Lexer) readOperator(start span.Position) token.Token {
	ch := l.advance()

	// withAssign picks the compound form when the next character is '='.
	withAssign := func(plain, compound token.Kind) token.Token {
		if l.peek() == '=' {
			l.advance()
			return l.makeToken(compound, compound.String(), start)
		}
		return l.makeToken(plain, plain.String(), start)
	}

	switch ch {
	case '(':
		return l.makeToken(token.LPAREN, "(", start)
	case ')':
		return l.makeToken(token.RPAREN, ")", start)
	case '{':
		return l.makeToken(token.LBRACE, "{", start)
	case '}':
		return l.makeToken(token.RBRACE, "}", start)
	case ',':
		return l.makeToken(token.COMMA, ",", start)
	case '.':
		return l.makeToken(token.DOT, ".", start)
	case ';':
		return l.makeToken(token.SEMICOLON, ";", start)
	case '+':
		if l.peek() == '+' {
			l.advance()
			return l.makeToken(token.INCR, "++", start)
		}
		return withAssign(token.PLUS, token.PLUS_ASSIGN)
	case '-':
		if l.peek() == '-' {
			l.advance()
			return l.makeToken(token.DECR, "--", start)
		}
		return withAssign(token.MINUS, token.MINUS_ASSIGN)
	case '*':
		return withAssign(token.STAR, token.STAR_ASSIGN)
	case '/':
		return withAssign(token.SLASH, token.SLASH_ASSIGN)
	case '^':
		return withAssign(token.CARET, token.CARET_ASSIGN)
	case '=':
		return withAssign(token.ASSIGN, token.EQ)
	case '<':
		return withAssign(token.LT, token.LTE)
	case '>':
		return withAssign(token.GT, token.GTE)
	case '&':
		if l.peek() == '&' {
			l.advance()
			return l.makeToken(token.AND, "&&", start)
		}
		l.addError(start, "unexpected character: '&', did you mean '&&'?")
	case '|':
		if l.peek() == '|' {
			l.advance()
			return l.makeToken(token.OR, "||", start)
		}
		l.addError(start, "unexpected character: '|', did you mean '||'?")
	default:
		l.addError(start, "unexpected character: '"+string(ch)+"'")
	}
	return l.makeToken(token.ILLEGAL, string(ch), start)
}

func (l *Lexer) addError(start span.Position, msg string) {
	l.diags = append(l.diags, diag.Errorf(diag.CodeUnexpectedChar, l.makeSpan(start), "%s", msg))
}

// ---- character classification ----

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// isIdentStart reports whether the rune at the start of s can begin an
// identifier. Non-ASCII letters are accepted.
func isIdentStart(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return r == '_' || unicode.IsLetter(r)
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
