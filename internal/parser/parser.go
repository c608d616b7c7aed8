// Package parser implements the syntax analysis for nsc-lang.
// It uses Pratt parsing for expressions and recursive descent for statements/declarations.
package parser

import (
	"fmt"
	"strconv"

	"nsc-lang/internal/ast"
	"nsc-lang/internal/diag"
	"nsc-lang/internal/lexer"
	"nsc-lang/internal/span"
	"nsc-lang/internal/token"
)

// ============================================================
// Binding power (precedence) levels
// ============================================================

const (
	bpNone       = 0
	bpOr         = 10 // ||
	bpAnd        = 20 // &&
	bpEquality   = 30 // ==
	bpComparison = 40 // < <= > >=
	bpAdditive   = 50 // + -
	bpMultiply   = 60 // * /
	bpPower      = 65 // ^ (right-associative)
	bpPrefix     = 70 // - + ++ --
	bpPostfix    = 80 // () . ++ --
)

// infixBP returns the left binding power for an infix/postfix operator.
func infixBP(kind token.Kind) int {
	switch kind {
	case token.OR:
		return bpOr
	case token.AND:
		return bpAnd
	case token.EQ:
		return bpEquality
	case token.LT, token.LTE, token.GT, token.GTE:
		return bpComparison
	case token.PLUS, token.MINUS:
		return bpAdditive
	case token.STAR, token.SLASH:
		return bpMultiply
	case token.CARET:
		return bpPower
	case token.LPAREN, token.DOT, token.INCR, token.DECR:
		return bpPostfix
	default:
		return bpNone
	}
}

var binaryOps = map[token.Kind]ast.BinaryOp{
	token.PLUS:  ast.Add,
	token.MINUS: ast.Sub,
	token.STAR:  ast.Mul,
	token.SLASH: ast.Div,
	token.CARET: ast.Pow,
	token.EQ:    ast.EqEquals,
	token.GT:    ast.Bigger,
	token.LT:    ast.Smaller,
	token.GTE:   ast.BiggerEquals,
	token.LTE:   ast.SmallerEquals,
	token.AND:   ast.And,
	token.OR:    ast.Or,
}

var assignOps = map[token.Kind]ast.AssignOp{
	token.ASSIGN:       ast.Assign,
	token.PLUS_ASSIGN:  ast.AddAssign,
	token.MINUS_ASSIGN: ast.SubAssign,
	token.STAR_ASSIGN:  ast.MulAssign,
	token.SLASH_ASSIGN: ast.DivAssign,
	token.CARET_ASSIGN: ast.PowAssign,
	token.INCR:         ast.Increase,
	token.DECR:         ast.Decrease,
}

var variableTypes = map[token.Kind]ast.VariableType{
	token.KW_VAR:     ast.Dynamic,
	token.KW_BYTE:    ast.Byte,
	token.KW_SHORT:   ast.Short,
	token.KW_INT:     ast.Integer,
	token.KW_LONG:    ast.Long,
	token.KW_FLOAT:   ast.Float,
	token.KW_DOUBLE:  ast.Double,
	token.KW_BOOLEAN: ast.Boolean,
	token.KW_CHAR:    ast.Char,
}

// ============================================================
// Parser
// ============================================================

// Parser performs syntax analysis on a stream of tokens.
type Parser struct {
	tokens []token.Token
	pos    int
	diags  []diag.Diagnostic
}

// New creates a new parser from a token slice.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens, pos: 0}
}

// ParseSource tokenizes and parses source in one step. The returned list holds
// lexer diagnostics followed by parser diagnostics.
func ParseSource(source, filename string) (*ast.Tree, diag.List) {
	tokens, lexDiags := lexer.New(source, filename).Tokenize()
	tree, parseDiags := New(tokens).ParseFile()
	all := make(diag.List, 0, len(lexDiags)+len(parseDiags))
	all = append(all, lexDiags...)
	all = append(all, parseDiags...)
	return tree, all
}

// ParseFile parses the entire token stream and returns the AST root and diagnostics.
func (p *Parser) ParseFile() (*ast.Tree, []diag.Diagnostic) {
	tree := &ast.Tree{}
	startPos := p.peek().Span.Start

	p.skipSep()
	for !p.isAtEnd() {
		if node := p.parseStatement(); node != nil {
			tree.Children = append(tree.Children, node)
		}
		p.skipSep()
	}

	tree.Span = span.Span{Start: startPos, End: p.peek().Span.End}
	return tree, p.diags
}

// ---- navigation helpers ----

func (p *Parser) peek() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekKind() token.Kind {
	return p.peek().Kind
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind token.Kind) bool {
	return p.peekKind() == kind
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			return true
		}
	}
	return false
}

func (p *Parser) expect(kind token.Kind) (token.Token, bool) {
	if p.check(kind) {
		return p.advance(), true
	}
	tok := p.peek()
	p.error(diag.CodeExpectedToken, tok.Span, fmt.Sprintf("expected '%s', got '%s'", kind, tok.Kind))
	return tok, false
}

func (p *Parser) isAtEnd() bool {
	return p.peekKind() == token.EOF
}

// skipSep skips NEWLINE and SEMICOLON tokens (separators).
func (p *Parser) skipSep() {
	for p.match(token.NEWLINE, token.SEMICOLON) {
		p.advance()
	}
}

// skipNewlines skips NEWLINE tokens only.
func (p *Parser) skipNewlines() {
	for p.check(token.NEWLINE) {
		p.advance()
	}
}

func (p *Parser) error(code string, s span.Span, msg string) {
	p.diags = append(p.diags, diag.Errorf(code, s, "%s", msg))
}

// ============================================================
// Error recovery
// ============================================================

// synchronize skips tokens until a likely statement boundary.
func (p *Parser) synchronize() {
	for !p.isAtEnd() {
		if p.match(token.NEWLINE, token.SEMICOLON) {
			p.advance()
			return
		}
		if p.check(token.RBRACE) {
			return
		}
		k := p.peekKind()
		if k.IsTypeKeyword() || k.IsModifier() || p.match(token.KW_IF, token.KW_WHILE, token.KW_DO,
			token.KW_FOR, token.KW_FUNCTION, token.KW_CLASS) {
			return
		}
		p.advance()
	}
}

// ============================================================
// Statement parsing
// ============================================================

func (p *Parser) parseStatement() ast.Node {
	k := p.peekKind()
	switch {
	case k.IsModifier() || k.IsTypeKeyword():
		return p.parseDeclaration(false)
	case k == token.KW_FUNCTION:
		return p.parseFunctionDecl(p.peek().Span.Start, ast.Modifiers{})
	case k == token.KW_CLASS:
		return p.parseClassDecl(p.peek().Span.Start, ast.Modifiers{})
	case k == token.KW_IF:
		return p.parseIf()
	case k == token.KW_WHILE:
		return p.parseWhile()
	case k == token.KW_DO:
		return p.parseDoWhile()
	case k == token.KW_FOR:
		return p.parseFor()
	default:
		return p.parseExpressionStatement()
	}
}

// parseExpressionStatement parses an expression used as a statement:
// assignments, increments and calls.
func (p *Parser) parseExpressionStatement() ast.Node {
	expr := p.parseExpression()
	if expr == nil {
		tok := p.peek()
		p.error(diag.CodeUnexpectedToken, tok.Span, fmt.Sprintf("unexpected token: '%s'", tok.Lexeme))
		// always make progress, even on a stray '}'
		p.advance()
		p.synchronize()
		return nil
	}
	return expr
}

// parseModifiers consumes access and storage modifiers.
func (p *Parser) parseModifiers(inClass bool) ast.Modifiers {
	mods := ast.Modifiers{IsInClass: inClass}
	for p.peekKind().IsModifier() {
		switch p.advance().Kind {
		case token.KW_PUBLIC:
			mods.Access = ast.Public
		case token.KW_PROTECTED:
			mods.Access = ast.Protected
		case token.KW_PRIVATE:
			mods.Access = ast.Private
		case token.KW_STATIC:
			mods.IsStatic = true
		case token.KW_FINAL:
			mods.IsFinal = true
		}
	}
	return mods
}

// parseDeclaration parses [modifiers] followed by a variable, function or class declaration.
func (p *Parser) parseDeclaration(inClass bool) ast.Node {
	start := p.peek().Span.Start
	mods := p.parseModifiers(inClass)

	switch k := p.peekKind(); {
	case k.IsTypeKeyword():
		return p.parseVariableDecl(start, mods)
	case k == token.KW_FUNCTION:
		return p.parseFunctionDecl(start, mods)
	case k == token.KW_CLASS:
		return p.parseClassDecl(start, mods)
	default:
		tok := p.peek()
		p.error(diag.CodeMisplacedModifier, tok.Span,
			fmt.Sprintf("modifiers must precede a declaration, got '%s'", tok.Lexeme))
		p.synchronize()
		return nil
	}
}

// parseVariableDecl parses: type IDENT [ = expr ]
func (p *Parser) parseVariableDecl(start span.Position, mods ast.Modifiers) *ast.VariableDeclarationNode {
	typeTok := p.advance()
	decl := &ast.VariableDeclarationNode{Modifiers: mods, Type: variableTypes[typeTok.Kind]}

	nameTok, ok := p.expect(token.IDENT)
	if !ok {
		p.synchronize()
		decl.Span = p.makeSpan(start)
		return decl
	}
	decl.Name = nameTok.Lexeme

	if p.check(token.ASSIGN) {
		p.advance()
		p.skipNewlines()
		value := p.parseExpression()
		if value == nil {
			tok := p.peek()
			p.error(diag.CodeUnexpectedToken, tok.Span, fmt.Sprintf("expected initializer, got '%s'", tok.Lexeme))
			value = &ast.NullNode{NodeBase: ast.NodeBase{Span: tok.Span}}
		}
		decl.Assignment = &ast.AssignmentNode{
			NodeBase: ast.NodeBase{Span: span.Span{Start: nameTok.Span.Start, End: p.prevEnd()}},
			Op:       ast.Assign,
			Variable: &ast.IdentifierNode{NodeBase: ast.NodeBase{Span: nameTok.Span}, Name: decl.Name},
			Value:    value,
		}
	}

	decl.Span = p.makeSpan(start)
	return decl
}

// parseIf parses: if (expr) body [ else body ]
// An else-if chain nests the inner IfNode in the else body.
func (p *Parser) parseIf() *ast.IfNode {
	start := p.advance() // consume 'if'
	node := &ast.IfNode{}

	node.Condition = p.parseCondition()
	node.Body = p.parseBody()

	save := p.pos
	p.skipNewlines()
	if p.check(token.KW_ELSE) {
		elseTok := p.advance()
		p.skipNewlines()
		if p.check(token.KW_IF) {
			inner := p.parseIf()
			node.ElseBody = &ast.Tree{
				NodeBase: ast.NodeBase{Span: span.Span{Start: elseTok.Span.Start, End: p.prevEnd()}},
				Children: []ast.Node{inner},
			}
		} else {
			node.ElseBody = p.parseBody()
		}
	} else {
		p.pos = save
	}

	node.Span = p.makeSpan(start.Span.Start)
	return node
}

// parseWhile parses: while (expr) body
func (p *Parser) parseWhile() *ast.WhileNode {
	start := p.advance() // consume 'while'
	node := &ast.WhileNode{}
	node.Condition = p.parseCondition()
	node.Body = p.parseBody()
	node.Span = p.makeSpan(start.Span.Start)
	return node
}

// parseDoWhile parses: do body while (expr)
func (p *Parser) parseDoWhile() *ast.DoWhileNode {
	start := p.advance() // consume 'do'
	node := &ast.DoWhileNode{}
	node.Body = p.parseBody()
	p.skipNewlines()
	if _, ok := p.expect(token.KW_WHILE); ok {
		node.Condition = p.parseCondition()
	}
	node.Span = p.makeSpan(start.Span.Start)
	return node
}

// parseFor parses: for ( [decl|expr]; [cond]; [round] ) body
func (p *Parser) parseFor() *ast.ForNode {
	start := p.advance() // consume 'for'
	node := &ast.ForNode{}

	if _, ok := p.expect(token.LPAREN); !ok {
		p.synchronize()
		node.Body = &ast.Tree{}
		node.Span = p.makeSpan(start.Span.Start)
		return node
	}

	p.skipNewlines()
	if !p.check(token.SEMICOLON) {
		if k := p.peekKind(); k.IsTypeKeyword() {
			node.Declaration = p.parseVariableDecl(p.peek().Span.Start, ast.Modifiers{})
		} else {
			node.Declaration = p.parseExpression()
		}
	}
	p.expect(token.SEMICOLON)

	p.skipNewlines()
	if !p.check(token.SEMICOLON) {
		node.Condition = p.parseExpression()
	}
	p.expect(token.SEMICOLON)

	p.skipNewlines()
	if !p.check(token.RPAREN) {
		node.Round = p.parseExpression()
	}
	p.skipNewlines()
	p.expect(token.RPAREN)

	node.Body = p.parseBody()
	node.Span = p.makeSpan(start.Span.Start)
	return node
}

// parseCondition parses: ( expr )
func (p *Parser) parseCondition() ast.Node {
	if _, ok := p.expect(token.LPAREN); !ok {
		return nil
	}
	p.skipNewlines()
	cond := p.parseExpression()
	if cond == nil {
		tok := p.peek()
		p.error(diag.CodeUnexpectedToken, tok.Span, fmt.Sprintf("expected condition, got '%s'", tok.Lexeme))
	}
	p.skipNewlines()
	p.expect(token.RPAREN)
	return cond
}

// parseBody parses a braced block or a single statement wrapped in a Tree.
func (p *Parser) parseBody() *ast.Tree {
	p.skipNewlines()
	if p.check(token.LBRACE) {
		return p.parseBlock()
	}
	start := p.peek().Span.Start
	body := &ast.Tree{}
	if node := p.parseStatement(); node != nil {
		body.Children = []ast.Node{node}
	}
	body.Span = p.makeSpan(start)
	return body
}

// parseBlock parses: { statements }
func (p *Parser) parseBlock() *ast.Tree {
	start := p.peek()
	block := &ast.Tree{}

	if _, ok := p.expect(token.LBRACE); !ok {
		p.synchronize()
		block.Span = p.makeSpan(start.Span.Start)
		return block
	}

	p.skipSep()
	for !p.check(token.RBRACE) && !p.isAtEnd() {
		if node := p.parseStatement(); node != nil {
			block.Children = append(block.Children, node)
		}
		p.skipSep()
	}

	p.expect(token.RBRACE)
	block.Span = p.makeSpan(start.Span.Start)
	return block
}

// ============================================================
// Declaration parsing
// ============================================================

// parseFunctionDecl parses: function IDENT ( params ) block
func (p *Parser) parseFunctionDecl(start span.Position, mods ast.Modifiers) *ast.FunctionDeclarationNode {
	p.advance() // consume 'function'
	decl := &ast.FunctionDeclarationNode{Modifiers: mods}

	nameTok, ok := p.expect(token.IDENT)
	if !ok {
		p.synchronize()
		decl.Body = &ast.Tree{}
		decl.Span = p.makeSpan(start)
		return decl
	}
	decl.Name = nameTok.Lexeme

	decl.Params = p.parseParamList()
	p.skipNewlines()
	decl.Body = p.parseBlock()
	decl.Span = p.makeSpan(start)
	return decl
}

// parseClassDecl parses: class IDENT { members }
// Members are field, function and nested class declarations, each optionally
// preceded by modifiers.
func (p *Parser) parseClassDecl(start span.Position, mods ast.Modifiers) *ast.ClassDeclarationNode {
	p.advance() // consume 'class'
	decl := &ast.ClassDeclarationNode{Modifiers: mods}

	nameTok, ok := p.expect(token.IDENT)
	if !ok {
		p.synchronize()
		decl.Span = p.makeSpan(start)
		return decl
	}
	decl.Name = nameTok.Lexeme

	p.skipNewlines()
	if _, ok := p.expect(token.LBRACE); !ok {
		p.synchronize()
		decl.Span = p.makeSpan(start)
		return decl
	}

	p.skipSep()
	for !p.check(token.RBRACE) && !p.isAtEnd() {
		k := p.peekKind()
		if !k.IsModifier() && !k.IsTypeKeyword() && k != token.KW_FUNCTION && k != token.KW_CLASS {
			tok := p.peek()
			p.error(diag.CodeBadClassMember, tok.Span,
				fmt.Sprintf("expected field, function or class declaration, got '%s'", tok.Lexeme))
			p.advance()
			p.synchronize()
			p.skipSep()
			continue
		}
		switch member := p.parseDeclaration(true).(type) {
		case *ast.VariableDeclarationNode:
			decl.Fields = append(decl.Fields, member)
		case *ast.FunctionDeclarationNode:
			decl.Methods = append(decl.Methods, member)
		case *ast.ClassDeclarationNode:
			decl.Classes = append(decl.Classes, member)
		}
		p.skipSep()
	}

	p.expect(token.RBRACE)
	decl.Span = p.makeSpan(start)
	return decl
}

// parseParamList parses: ( ident, ident, ... )
func (p *Parser) parseParamList() []string {
	var params []string

	if _, ok := p.expect(token.LPAREN); !ok {
		return params
	}

	p.skipNewlines()
	if !p.check(token.RPAREN) {
		nameTok, ok := p.expect(token.IDENT)
		if ok {
			params = append(params, nameTok.Lexeme)
		}
		for p.check(token.COMMA) {
			p.advance() // consume ','
			p.skipNewlines()
			nameTok, ok = p.expect(token.IDENT)
			if ok {
				params = append(params, nameTok.Lexeme)
			}
		}
	}

	p.skipNewlines()
	p.expect(token.RPAREN)
	return params
}

// ============================================================
// Expression parsing (Pratt / precedence climbing)
// ============================================================

// parseExpression parses a full expression including assignment, which is
// right-associative and binds loosest.
func (p *Parser) parseExpression() ast.Node {
	left := p.parseExpr(bpNone)
	if left == nil {
		return nil
	}

	kind := p.peekKind()
	if !kind.IsAssignment() || kind == token.INCR || kind == token.DECR {
		return left
	}
	opTok := p.advance()
	p.skipNewlines()
	value := p.parseExpression()
	if value == nil {
		tok := p.peek()
		p.error(diag.CodeUnexpectedToken, tok.Span, fmt.Sprintf("expected expression after '%s'", opTok.Lexeme))
		value = &ast.NullNode{NodeBase: ast.NodeBase{Span: tok.Span}}
	}
	return &ast.AssignmentNode{
		NodeBase: ast.NodeBase{Span: left.GetSpan().Cover(value.GetSpan())},
		Op:       assignOps[opTok.Kind],
		Variable: p.assignTarget(left, opTok),
		Value:    value,
	}
}

// assignTarget turns the left side of an assignment into the slot it names.
func (p *Parser) assignTarget(left ast.Node, opTok token.Token) *ast.IdentifierNode {
	if usage, ok := left.(*ast.VariableUsageNode); ok {
		return usage.Variable
	}
	p.error(diag.CodeBadAssignTarget, left.GetSpan(),
		fmt.Sprintf("invalid target for '%s'", opTok.Lexeme))
	return &ast.IdentifierNode{NodeBase: ast.NodeBase{Span: left.GetSpan()}}
}

// parseExpr parses an expression with the given minimum binding power.
func (p *Parser) parseExpr(minBP int) ast.Node {
	left := p.nud()
	if left == nil {
		return nil
	}

	for {
		bp := infixBP(p.peekKind())
		if bp <= minBP {
			break
		}
		left = p.led(left)
	}

	return left
}

// nud handles prefix (null denotation) parsing.
func (p *Parser) nud() ast.Node {
	tok := p.peek()
	base := ast.NodeBase{Span: tok.Span}

	switch tok.Kind {
	case token.INT:
		p.advance()
		val, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			p.error(diag.CodeMalformedNumber, tok.Span, fmt.Sprintf("integer literal out of range: %s", tok.Lexeme))
		}
		return &ast.IntegerNode{NodeBase: base, Value: val}

	case token.DOUBLE:
		p.advance()
		val, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			p.error(diag.CodeMalformedNumber, tok.Span, fmt.Sprintf("malformed number literal: %s", tok.Lexeme))
		}
		return &ast.DoubleNode{NodeBase: base, Value: val}

	case token.KW_TRUE:
		p.advance()
		return &ast.BoolNode{NodeBase: base, Value: true}

	case token.KW_FALSE:
		p.advance()
		return &ast.BoolNode{NodeBase: base, Value: false}

	case token.KW_NULL:
		p.advance()
		return &ast.NullNode{NodeBase: base}

	case token.IDENT:
		p.advance()
		return &ast.VariableUsageNode{
			NodeBase: base,
			Variable: &ast.IdentifierNode{NodeBase: base, Name: tok.Lexeme},
		}

	case token.LPAREN:
		// Grouped expression: ( expr )
		p.advance() // consume '('
		p.skipNewlines()
		expr := p.parseExpression()
		p.skipNewlines()
		p.expect(token.RPAREN)
		return expr

	case token.MINUS:
		p.advance()
		p.skipNewlines()
		operand := p.parseExpr(bpPrefix)
		if operand == nil {
			return nil
		}
		return negate(operand, tok.Span.Cover(operand.GetSpan()))

	case token.PLUS:
		p.advance()
		p.skipNewlines()
		return p.parseExpr(bpPrefix)

	case token.INCR, token.DECR:
		// Prefix increment: ++x
		p.advance()
		operand := p.parseExpr(bpPrefix)
		if operand == nil {
			return nil
		}
		return &ast.AssignmentNode{
			NodeBase: ast.NodeBase{Span: tok.Span.Cover(operand.GetSpan())},
			Op:       assignOps[tok.Kind],
			Variable: p.assignTarget(operand, tok),
		}

	case token.KW_NEW:
		return p.parseNew()

	default:
		return nil
	}
}

// negate folds a minus sign into a numeric literal, or rewrites -x as 0 - x.
func negate(operand ast.Node, s span.Span) ast.Node {
	switch n := operand.(type) {
	case *ast.IntegerNode:
		return &ast.IntegerNode{NodeBase: ast.NodeBase{Span: s}, Value: -n.Value}
	case *ast.DoubleNode:
		return &ast.DoubleNode{NodeBase: ast.NodeBase{Span: s}, Value: -n.Value}
	default:
		return &ast.BinaryNode{
			NodeBase: ast.NodeBase{Span: s},
			Op:       ast.Sub,
			Left:     &ast.IntegerNode{NodeBase: ast.NodeBase{Span: s}, Value: 0},
			Right:    operand,
		}
	}
}

// led handles infix/postfix (left denotation) parsing.
func (p *Parser) led(left ast.Node) ast.Node {
	tok := p.peek()

	switch tok.Kind {
	case token.PLUS, token.MINUS, token.STAR, token.SLASH, token.CARET,
		token.EQ, token.LT, token.LTE, token.GT, token.GTE,
		token.AND, token.OR:
		bp := infixBP(tok.Kind)
		if tok.Kind == token.CARET {
			bp-- // right-associative
		}
		p.advance()
		p.skipNewlines() // allow continuation on next line after operator
		right := p.parseExpr(bp)
		if right == nil {
			next := p.peek()
			p.error(diag.CodeUnexpectedToken, next.Span,
				fmt.Sprintf("expected operand after '%s', got '%s'", tok.Lexeme, next.Lexeme))
			right = &ast.NullNode{NodeBase: ast.NodeBase{Span: next.Span}}
		}
		return &ast.BinaryNode{
			NodeBase: ast.NodeBase{Span: left.GetSpan().Cover(right.GetSpan())},
			Op:       binaryOps[tok.Kind],
			Left:     left,
			Right:    right,
		}

	case token.INCR, token.DECR:
		// Postfix increment: x++
		p.advance()
		return &ast.AssignmentNode{
			NodeBase: ast.NodeBase{Span: left.GetSpan().Cover(tok.Span)},
			Op:       assignOps[tok.Kind],
			Variable: p.assignTarget(left, tok),
		}

	case token.LPAREN:
		return p.parseCall(left)

	case token.DOT:
		// Member access: object.name
		p.advance() // consume '.'
		p.skipNewlines()
		nameTok, _ := p.expect(token.IDENT)
		s := left.GetSpan().Cover(nameTok.Span)
		return &ast.VariableUsageNode{
			NodeBase: ast.NodeBase{Span: s},
			Variable: &ast.IdentifierNode{NodeBase: ast.NodeBase{Span: s}, Parent: left, Name: nameTok.Lexeme},
		}

	default:
		return left
	}
}

// parseCall parses: callee ( args )
// A named callee is passed as its IdentifierNode so that the evaluator
// resolves the variable rather than its value.
func (p *Parser) parseCall(callee ast.Node) *ast.FunctionCallNode {
	args := p.parseArgs()
	function := callee
	if usage, ok := callee.(*ast.VariableUsageNode); ok {
		function = usage.Variable
	}
	return &ast.FunctionCallNode{
		NodeBase: ast.NodeBase{Span: span.Span{Start: callee.GetSpan().Start, End: p.prevEnd()}},
		Function: function,
		Args:     args,
	}
}

// parseArgs parses: ( expr, expr, ... )
func (p *Parser) parseArgs() []ast.Node {
	var args []ast.Node
	if _, ok := p.expect(token.LPAREN); !ok {
		return args
	}

	p.skipNewlines()
	if !p.check(token.RPAREN) {
		args = append(args, p.parseArg())
		for p.check(token.COMMA) {
			p.advance() // consume ','
			p.skipNewlines()
			args = append(args, p.parseArg())
		}
	}
	p.skipNewlines()
	p.expect(token.RPAREN)
	return args
}

func (p *Parser) parseArg() ast.Node {
	arg := p.parseExpression()
	if arg == nil {
		tok := p.peek()
		p.error(diag.CodeUnexpectedToken, tok.Span, fmt.Sprintf("expected argument, got '%s'", tok.Lexeme))
		return &ast.NullNode{NodeBase: ast.NodeBase{Span: tok.Span}}
	}
	return arg
}

// parseNew parses: new Name[.Name]* ( args )
func (p *Parser) parseNew() ast.Node {
	start := p.advance() // consume 'new'

	nameTok, ok := p.expect(token.IDENT)
	if !ok {
		return &ast.NullNode{NodeBase: ast.NodeBase{Span: p.makeSpan(start.Span.Start)}}
	}
	var class ast.Node = &ast.VariableUsageNode{
		NodeBase: ast.NodeBase{Span: nameTok.Span},
		Variable: &ast.IdentifierNode{NodeBase: ast.NodeBase{Span: nameTok.Span}, Name: nameTok.Lexeme},
	}
	for p.check(token.DOT) {
		class = p.led(class)
	}

	args := p.parseArgs()
	return &ast.NewNode{
		NodeBase: ast.NodeBase{Span: p.makeSpan(start.Span.Start)},
		Class:    class,
		Args:     args,
	}
}

// ============================================================
// Span helpers
// ============================================================

func (p *Parser) prevEnd() span.Position {
	if p.pos > 0 && p.pos-1 < len(p.tokens) {
		return p.tokens[p.pos-1].Span.End
	}
	return p.peek().Span.Start
}

func (p *Parser) makeSpan(start span.Position) span.Span {
	return span.Span{Start: start, End: p.prevEnd()}
}
