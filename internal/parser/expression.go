package parser

import (
	"rustic/internal/ast"
	"rustic/internal/diag"
	"rustic/internal/source"
	"rustic/internal/token"
)

// Binding powers, lowest first. Mirrors Rust's operator precedence for the
// subset: || < && < comparisons < | < ^ < & < shifts < additive <
// multiplicative.
const (
	precNone = iota
	precOr
	precAnd
	precCompare
	precBitOr
	precBitXor
	precBitAnd
	precShift
	precAdd
	precMul
)

func binaryPrec(k token.Kind) (ast.BinaryOp, int) {
	switch k {
	case token.OrOr:
		return ast.BinLogicalOr, precOr
	case token.AndAnd:
		return ast.BinLogicalAnd, precAnd
	case token.EqEq:
		return ast.BinEq, precCompare
	case token.BangEq:
		return ast.BinNe, precCompare
	case token.Lt:
		return ast.BinLt, precCompare
	case token.LtEq:
		return ast.BinLe, precCompare
	case token.Gt:
		return ast.BinGt, precCompare
	case token.GtEq:
		return ast.BinGe, precCompare
	case token.Pipe:
		return ast.BinBitOr, precBitOr
	case token.Caret:
		return ast.BinBitXor, precBitXor
	case token.Amp:
		return ast.BinBitAnd, precBitAnd
	case token.Shl:
		return ast.BinShl, precShift
	case token.Shr:
		return ast.BinShr, precShift
	case token.Plus:
		return ast.BinAdd, precAdd
	case token.Minus:
		return ast.BinSub, precAdd
	case token.Star:
		return ast.BinMul, precMul
	case token.Slash:
		return ast.BinDiv, precMul
	case token.Percent:
		return ast.BinRem, precMul
	default:
		return 0, precNone
	}
}

func (p *Parser) parseExpr() (*ast.Expr, bool) {
	return p.parseBinary(precNone + 1)
}

func (p *Parser) parseBinary(minPrec int) (*ast.Expr, bool) {
	left, ok := p.parseUnary()
	if !ok {
		return nil, false
	}
	for {
		op, prec := binaryPrec(p.tok.Kind)
		if prec < minPrec {
			return left, true
		}
		p.advance()
		right, rOK := p.parseBinary(prec + 1)
		if !rOK {
			return nil, false
		}
		left = &ast.Expr{
			Kind: ast.ExprBinary,
			Span: left.Span.Cover(right.Span),
			Data: ast.BinaryData{Op: op, Left: left, Right: right},
		}
	}
}

func (p *Parser) parseUnary() (*ast.Expr, bool) {
	var op ast.UnaryOp
	switch p.tok.Kind {
	case token.Minus:
		op = ast.UnaryNeg
	case token.Bang:
		op = ast.UnaryNot
	default:
		return p.parsePrimary()
	}
	sp := p.tok.Span
	p.advance()
	operand, ok := p.parseUnary()
	if !ok {
		return nil, false
	}
	return &ast.Expr{
		Kind: ast.ExprUnary,
		Span: sp.Cover(operand.Span),
		Data: ast.UnaryData{Op: op, Operand: operand},
	}, true
}

func (p *Parser) parsePrimary() (*ast.Expr, bool) {
	switch p.tok.Kind {
	case token.IntLit:
		e := &ast.Expr{Kind: ast.ExprIntLit, Span: p.tok.Span, Data: ast.IntLitData{Text: p.tok.Text}}
		p.advance()
		return e, true

	case token.KwTrue, token.KwFalse:
		e := &ast.Expr{
			Kind: ast.ExprBoolLit,
			Span: p.tok.Span,
			Data: ast.BoolLitData{Value: p.tok.Kind == token.KwTrue},
		}
		p.advance()
		return e, true

	case token.Ident:
		name, nameSpan := p.tok.Text, p.tok.Span
		p.advance()
		if !p.at(token.LParen) {
			return &ast.Expr{Kind: ast.ExprIdent, Span: nameSpan, Data: ast.IdentData{Name: name}}, true
		}
		return p.parseCall(name, nameSpan)

	case token.LParen:
		p.advance()
		inner, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		if !p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'") {
			return nil, false
		}
		return inner, true

	case token.LBrace:
		blk, ok := p.parseBlock()
		if !ok {
			return nil, false
		}
		return &ast.Expr{Kind: ast.ExprBlock, Span: blk.Span, Data: ast.BlockData{Block: blk}}, true

	case token.KwIf:
		return p.parseIfExpr()

	default:
		p.errorAt(diag.SynExpectExpression, p.tok.Span, "expected expression, found '"+p.tok.Kind.String()+"'")
		return nil, false
	}
}

func (p *Parser) parseCall(name string, nameSpan source.Span) (*ast.Expr, bool) {
	p.advance() // (
	data := ast.CallData{Name: name, NameSpan: nameSpan}
	for !p.at(token.RParen) && !p.at(token.EOF) {
		arg, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		data.Args = append(data.Args, arg)
		if !p.eat(token.Comma) {
			break
		}
	}
	end := p.tok.Span
	if !p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after arguments") {
		return nil, false
	}
	return &ast.Expr{Kind: ast.ExprCall, Span: nameSpan.Cover(end), Data: data}, true
}

// parseIfExpr parses an if in expression position; both arms are block
// expressions and the else arm is mandatory.
func (p *Parser) parseIfExpr() (*ast.Expr, bool) {
	start := p.tok.Span
	p.advance() // if

	cond, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	thenBlk, ok := p.parseBlock()
	if !ok {
		return nil, false
	}
	thenExpr := &ast.Expr{Kind: ast.ExprBlock, Span: thenBlk.Span, Data: ast.BlockData{Block: thenBlk}}

	if !p.eat(token.KwElse) {
		p.errorAt(diag.SynIfExprMissingElse, start.Cover(thenBlk.Span), "if-expression requires an else arm")
		return nil, false
	}
	var elseExpr *ast.Expr
	if p.at(token.KwIf) {
		nested, nestedOK := p.parseIfExpr()
		if !nestedOK {
			return nil, false
		}
		elseExpr = nested
	} else {
		elseBlk, elseOK := p.parseBlock()
		if !elseOK {
			return nil, false
		}
		elseExpr = &ast.Expr{Kind: ast.ExprBlock, Span: elseBlk.Span, Data: ast.BlockData{Block: elseBlk}}
	}
	return &ast.Expr{
		Kind: ast.ExprIf,
		Span: start.Cover(elseExpr.Span),
		Data: ast.IfExprData{Cond: cond, Then: thenExpr, Else: elseExpr},
	}, true
}
