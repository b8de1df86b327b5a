package lexer

import (
	"rustic/internal/source"
)

// Reporter is the thin error sink used by the lexer; it keeps this package
// decoupled from diag. A nil Reporter ignores errors but lexing continues.
type Reporter interface {
	Report(span source.Span, msg string)
}

type Options struct {
	Reporter Reporter
}

func (lx *Lexer) report(sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(sp, msg)
	}
}
