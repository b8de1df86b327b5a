package lexer

import (
	"golang.org/x/text/unicode/norm"

	"rustic/internal/token"
)

// scanIdentOrKeyword scans an identifier and classifies keywords.
// Non-ASCII identifiers are NFC-normalized so visually identical names
// resolve to the same binding.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()

	r, sz := lx.peekRune()
	if sz == 0 {
		return token.Token{Kind: token.Invalid, Span: lx.cursor.SpanFrom(start)}
	}
	ascii := true
	if r < utf8RuneSelf {
		if !isIdentStartByte(byte(r)) {
			return lx.scanOperatorOrPunct()
		}
	} else {
		if !isIdentStartRune(r) {
			return lx.scanOperatorOrPunct()
		}
		ascii = false
	}
	lx.bumpRune()
	for {
		r2, sz2 := lx.peekRune()
		if sz2 == 0 {
			break
		}
		if r2 < utf8RuneSelf {
			if !isIdentContinueByte(byte(r2)) {
				break
			}
		} else {
			if !isIdentContinueRune(r2) {
				break
			}
			ascii = false
		}
		lx.bumpRune()
	}

	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[sp.Start:sp.End])
	if !ascii {
		text = norm.NFC.String(text)
	}

	kind := token.LookupKeyword(text)
	return token.Token{Kind: kind, Span: sp, Text: text}
}

// scanNumber scans a decimal integer literal. Underscore separators are
// accepted and dropped from Text.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	buf := make([]byte, 0, 8)
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if isDec(b) {
			buf = append(buf, b)
			lx.cursor.Bump()
			continue
		}
		if b == '_' {
			lx.cursor.Bump()
			continue
		}
		break
	}
	sp := lx.cursor.SpanFrom(start)
	if !lx.cursor.EOF() && isIdentStartByte(lx.cursor.Peek()) {
		// "123abc" is a single malformed token, not two.
		for !lx.cursor.EOF() && isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		sp = lx.cursor.SpanFrom(start)
		lx.report(sp, "malformed integer literal")
		return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}
	return token.Token{Kind: token.IntLit, Span: sp, Text: string(buf)}
}

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	b := lx.cursor.Bump()

	two := func(next byte, withNext, without token.Kind) token.Kind {
		if lx.cursor.Peek() == next {
			lx.cursor.Bump()
			return withNext
		}
		return without
	}

	var kind token.Kind
	switch b {
	case '+':
		kind = token.Plus
	case '-':
		kind = two('>', token.Arrow, token.Minus)
	case '*':
		kind = token.Star
	case '/':
		kind = token.Slash
	case '%':
		kind = token.Percent
	case '^':
		kind = token.Caret
	case '&':
		kind = two('&', token.AndAnd, token.Amp)
	case '|':
		kind = two('|', token.OrOr, token.Pipe)
	case '!':
		kind = two('=', token.BangEq, token.Bang)
	case '=':
		kind = two('=', token.EqEq, token.Assign)
	case '<':
		switch lx.cursor.Peek() {
		case '<':
			lx.cursor.Bump()
			kind = token.Shl
		case '=':
			lx.cursor.Bump()
			kind = token.LtEq
		default:
			kind = token.Lt
		}
	case '>':
		switch lx.cursor.Peek() {
		case '>':
			lx.cursor.Bump()
			kind = token.Shr
		case '=':
			lx.cursor.Bump()
			kind = token.GtEq
		default:
			kind = token.Gt
		}
	case ':':
		kind = token.Colon
	case ';':
		kind = token.Semicolon
	case ',':
		kind = token.Comma
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case '{':
		kind = token.LBrace
	case '}':
		kind = token.RBrace
	default:
		sp := lx.cursor.SpanFrom(start)
		lx.report(sp, "unexpected character")
		return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}

	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
