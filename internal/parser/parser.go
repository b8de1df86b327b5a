// Package parser turns a token stream into an ast.Program. It is a
// recursive-descent parser with single-token lookahead; binary expressions
// use precedence climbing. Errors are reported through diag.Reporter and
// recovery resynchronizes at statement and item boundaries.
package parser

import (
	"rustic/internal/ast"
	"rustic/internal/diag"
	"rustic/internal/lexer"
	"rustic/internal/source"
	"rustic/internal/token"
)

type Options struct {
	MaxErrors uint
	Reporter  diag.Reporter
}

// Parser holds per-file parsing state.
type Parser struct {
	lx   *lexer.Lexer
	tok  token.Token
	opts Options
	errs uint
}

// ParseFile parses one source file into a Program. The boolean result
// reports whether parsing produced no errors.
func ParseFile(file *source.File, opts Options) (*ast.Program, bool) {
	lx := lexer.New(file, lexer.Options{Reporter: lexerReporter{opts.Reporter}})
	p := &Parser{lx: lx, opts: opts}
	p.advance()

	prog := &ast.Program{}
	for p.tok.Kind != token.EOF {
		if p.enough() {
			break
		}
		if p.tok.Kind != token.KwFn {
			p.errorAt(diag.SynUnexpectedTopLevel, p.tok.Span, "expected 'fn', found '"+p.tok.Kind.String()+"'")
			p.resyncTop()
			continue
		}
		if fn, ok := p.parseFn(); ok {
			prog.Items = append(prog.Items, fn)
		} else {
			p.resyncTop()
		}
	}
	return prog, p.errs == 0
}

// lexerReporter adapts diag.Reporter to the lexer's thin reporter contract.
type lexerReporter struct {
	r diag.Reporter
}

func (lr lexerReporter) Report(sp source.Span, msg string) {
	if lr.r == nil {
		return
	}
	code := diag.LexUnknownChar
	switch msg {
	case "unterminated block comment":
		code = diag.LexUnterminatedBlockComment
	case "malformed integer literal":
		code = diag.LexBadNumber
	}
	diag.ReportError(lr.r, code, sp, msg)
}

func (p *Parser) advance() {
	p.tok = p.lx.Next()
}

func (p *Parser) at(k token.Kind) bool {
	return p.tok.Kind == k
}

func (p *Parser) eat(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(k token.Kind, code diag.Code, msg string) bool {
	if p.eat(k) {
		return true
	}
	p.errorAt(code, p.tok.Span, msg)
	return false
}

func (p *Parser) errorAt(code diag.Code, sp source.Span, msg string) {
	p.errs++
	diag.ReportError(p.opts.Reporter, code, sp, msg)
}

func (p *Parser) enough() bool {
	return p.opts.MaxErrors != 0 && p.errs >= p.opts.MaxErrors
}

// resyncTop skips tokens until the next plausible item start.
func (p *Parser) resyncTop() {
	for !p.at(token.EOF) && !p.at(token.KwFn) {
		p.advance()
	}
}

// resyncStmt skips to the next statement boundary inside a block.
func (p *Parser) resyncStmt() {
	for !p.at(token.EOF) && !p.at(token.RBrace) {
		if p.eat(token.Semicolon) {
			return
		}
		p.advance()
	}
}

func (p *Parser) parseFn() (*ast.FuncDecl, bool) {
	start := p.tok.Span
	p.advance() // fn

	if !p.at(token.Ident) {
		p.errorAt(diag.SynExpectIdentifier, p.tok.Span, "expected function name")
		return nil, false
	}
	fn := &ast.FuncDecl{Name: p.tok.Text}
	p.advance()

	if !p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after function name") {
		return nil, false
	}
	for !p.at(token.RParen) && !p.at(token.EOF) {
		if !p.at(token.Ident) {
			p.errorAt(diag.SynExpectIdentifier, p.tok.Span, "expected parameter name")
			return nil, false
		}
		param := ast.Param{Name: p.tok.Text, Span: p.tok.Span}
		p.advance()
		if !p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' after parameter name") {
			return nil, false
		}
		ty, ok := p.parseType()
		if !ok {
			return nil, false
		}
		param.Type = ty
		param.Span = param.Span.Cover(ty.Span)
		fn.Params = append(fn.Params, param)
		if !p.eat(token.Comma) {
			break
		}
	}
	if !p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after parameters") {
		return nil, false
	}

	if p.eat(token.Arrow) {
		ty, ok := p.parseType()
		if !ok {
			return nil, false
		}
		fn.HasResult = true
		fn.Result = ty
	}

	body, ok := p.parseBlock()
	if !ok {
		return nil, false
	}
	fn.Body = body
	fn.Span = start.Cover(body.Span)
	return fn, true
}

func (p *Parser) parseType() (ast.TypeRef, bool) {
	switch p.tok.Kind {
	case token.Ident:
		ty := ast.TypeRef{Name: p.tok.Text, Span: p.tok.Span}
		p.advance()
		return ty, true
	case token.LParen:
		sp := p.tok.Span
		p.advance()
		if !p.expect(token.RParen, diag.SynExpectType, "expected ')' in unit type") {
			return ast.TypeRef{}, false
		}
		return ast.TypeRef{Name: "()", Span: sp}, true
	default:
		p.errorAt(diag.SynExpectType, p.tok.Span, "expected type")
		return ast.TypeRef{}, false
	}
}

func (p *Parser) parseBlock() (*ast.Block, bool) {
	start := p.tok.Span
	if !p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{'") {
		return nil, false
	}
	blk := &ast.Block{}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if p.enough() {
			return nil, false
		}
		st, tail, ok := p.parseStmt()
		if !ok {
			p.resyncStmt()
			continue
		}
		if tail != nil {
			blk.Tail = tail
			break
		}
		blk.Stmts = append(blk.Stmts, st)
	}
	end := p.tok.Span
	if !p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}'") {
		return nil, false
	}
	blk.Span = start.Cover(end)
	return blk, true
}

// parseStmt parses one statement. When the block ends with a trailing
// expression (no semicolon before '}'), it is returned as tail instead.
func (p *Parser) parseStmt() (st ast.Stmt, tail *ast.Expr, ok bool) {
	switch p.tok.Kind {
	case token.KwLet:
		st, ok = p.parseLet()
		return st, nil, ok

	case token.KwIf:
		st, ok = p.parseIfStmt()
		return st, nil, ok

	case token.KwWhile:
		start := p.tok.Span
		p.advance()
		cond, condOK := p.parseExpr()
		if !condOK {
			return ast.Stmt{}, nil, false
		}
		body, bodyOK := p.parseBlock()
		if !bodyOK {
			return ast.Stmt{}, nil, false
		}
		return ast.Stmt{
			Kind: ast.StmtWhile,
			Span: start.Cover(body.Span),
			Data: ast.WhileData{Cond: cond, Body: body},
		}, nil, true

	case token.KwLoop:
		start := p.tok.Span
		p.advance()
		body, bodyOK := p.parseBlock()
		if !bodyOK {
			return ast.Stmt{}, nil, false
		}
		return ast.Stmt{
			Kind: ast.StmtLoop,
			Span: start.Cover(body.Span),
			Data: ast.LoopData{Body: body},
		}, nil, true

	case token.KwBreak:
		sp := p.tok.Span
		p.advance()
		if !p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after 'break'") {
			return ast.Stmt{}, nil, false
		}
		return ast.Stmt{Kind: ast.StmtBreak, Span: sp, Data: ast.BreakData{}}, nil, true

	case token.KwContinue:
		sp := p.tok.Span
		p.advance()
		if !p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after 'continue'") {
			return ast.Stmt{}, nil, false
		}
		return ast.Stmt{Kind: ast.StmtContinue, Span: sp, Data: ast.ContinueData{}}, nil, true

	case token.KwReturn:
		sp := p.tok.Span
		p.advance()
		var val *ast.Expr
		if !p.at(token.Semicolon) {
			v, vOK := p.parseExpr()
			if !vOK {
				return ast.Stmt{}, nil, false
			}
			val = v
			sp = sp.Cover(v.Span)
		}
		if !p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after return") {
			return ast.Stmt{}, nil, false
		}
		return ast.Stmt{Kind: ast.StmtReturn, Span: sp, Data: ast.ReturnData{Value: val}}, nil, true

	default:
		// Assignment needs two tokens of lookahead: Ident '='.
		if p.at(token.Ident) && p.lx.Peek().Kind == token.Assign {
			name, nameSpan := p.tok.Text, p.tok.Span
			p.advance() // ident
			p.advance() // =
			val, vOK := p.parseExpr()
			if !vOK {
				return ast.Stmt{}, nil, false
			}
			if !p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after assignment") {
				return ast.Stmt{}, nil, false
			}
			return ast.Stmt{
				Kind: ast.StmtAssign,
				Span: nameSpan.Cover(val.Span),
				Data: ast.AssignData{Name: name, NameSpan: nameSpan, Value: val},
			}, nil, true
		}

		expr, eOK := p.parseExpr()
		if !eOK {
			return ast.Stmt{}, nil, false
		}
		if p.at(token.RBrace) {
			return ast.Stmt{}, expr, true
		}
		if !p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after expression") {
			return ast.Stmt{}, nil, false
		}
		return ast.Stmt{
			Kind: ast.StmtExpr,
			Span: expr.Span,
			Data: ast.ExprStmtData{Expr: expr},
		}, nil, true
	}
}

func (p *Parser) parseLet() (ast.Stmt, bool) {
	start := p.tok.Span
	p.advance() // let

	isMut := p.eat(token.KwMut)

	if !p.at(token.Ident) {
		p.errorAt(diag.SynExpectIdentifier, p.tok.Span, "expected binding name")
		return ast.Stmt{}, false
	}
	data := ast.LetData{Name: p.tok.Text, IsMut: isMut}
	p.advance()

	if p.eat(token.Colon) {
		ty, ok := p.parseType()
		if !ok {
			return ast.Stmt{}, false
		}
		data.HasType = true
		data.Type = ty
	}

	if !p.expect(token.Assign, diag.SynUnexpectedToken, "expected '=' in let binding") {
		return ast.Stmt{}, false
	}
	init, ok := p.parseExpr()
	if !ok {
		return ast.Stmt{}, false
	}
	data.Init = init

	if !p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after let binding") {
		return ast.Stmt{}, false
	}
	return ast.Stmt{
		Kind: ast.StmtLet,
		Span: start.Cover(init.Span),
		Data: data,
	}, true
}

// parseIfStmt parses 'if cond { } (else if ... | else { })?'. An else-if
// chain nests as an else block holding a single if statement.
func (p *Parser) parseIfStmt() (ast.Stmt, bool) {
	start := p.tok.Span
	p.advance() // if

	cond, ok := p.parseExpr()
	if !ok {
		return ast.Stmt{}, false
	}
	then, ok := p.parseBlock()
	if !ok {
		return ast.Stmt{}, false
	}
	data := ast.IfData{Cond: cond, Then: then}
	span := start.Cover(then.Span)

	if p.eat(token.KwElse) {
		if p.at(token.KwIf) {
			nested, nestedOK := p.parseIfStmt()
			if !nestedOK {
				return ast.Stmt{}, false
			}
			data.Else = &ast.Block{Stmts: []ast.Stmt{nested}, Span: nested.Span}
			span = span.Cover(nested.Span)
		} else {
			elseBlk, elseOK := p.parseBlock()
			if !elseOK {
				return ast.Stmt{}, false
			}
			data.Else = elseBlk
			span = span.Cover(elseBlk.Span)
		}
	}
	return ast.Stmt{Kind: ast.StmtIf, Span: span, Data: data}, true
}
