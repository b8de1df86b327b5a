package driver

import (
	"rustic/internal/ast"
	"rustic/internal/diag"
	"rustic/internal/lexer"
	"rustic/internal/parser"
	"rustic/internal/source"
	"rustic/internal/token"
)

// TokenizeResult is the output of the tokenize front-door.
type TokenizeResult struct {
	Tokens  []token.Token
	Bag     *diag.Bag
	FileSet *source.FileSet
}

// Tokenize lexes one file and collects every token including EOF.
func Tokenize(path string, maxDiag int) (*TokenizeResult, error) {
	if maxDiag <= 0 {
		maxDiag = defaultMaxDiag
	}
	bag := diag.NewBag(maxDiag)
	fileSet := source.NewFileSet()
	res := &TokenizeResult{Bag: bag, FileSet: fileSet}

	fileID, err := fileSet.Load(path)
	if err != nil {
		diag.ReportError(diag.BagReporter{Bag: bag}, diag.DrvReadFailed, source.Span{}, err.Error())
		return res, ErrCompileFailed
	}
	res.Tokens = lexer.Tokenize(fileSet.Get(fileID), lexer.Options{
		Reporter: lexDiagAdapter{diag.BagReporter{Bag: bag}},
	})
	if bag.HasErrors() {
		return res, ErrCompileFailed
	}
	return res, nil
}

// lexDiagAdapter narrows diag.Reporter to the lexer's reporter contract,
// mapping the lexer's fixed messages back to stable codes.
type lexDiagAdapter struct {
	r diag.Reporter
}

func (a lexDiagAdapter) Report(sp source.Span, msg string) {
	code := diag.LexUnknownChar
	switch msg {
	case "unterminated block comment":
		code = diag.LexUnterminatedBlockComment
	case "malformed integer literal":
		code = diag.LexBadNumber
	}
	diag.ReportError(a.r, code, sp, msg)
}

// ParseResult is the output of the parse front-door.
type ParseResult struct {
	Program *ast.Program
	Bag     *diag.Bag
	FileSet *source.FileSet
}

// Parse lexes and parses one file without lowering it.
func Parse(path string, maxDiag int) (*ParseResult, error) {
	if maxDiag <= 0 {
		maxDiag = defaultMaxDiag
	}
	bag := diag.NewBag(maxDiag)
	fileSet := source.NewFileSet()
	res := &ParseResult{Bag: bag, FileSet: fileSet}

	fileID, err := fileSet.Load(path)
	if err != nil {
		diag.ReportError(diag.BagReporter{Bag: bag}, diag.DrvReadFailed, source.Span{}, err.Error())
		return res, ErrCompileFailed
	}
	program, ok := parser.ParseFile(fileSet.Get(fileID), parser.Options{
		MaxErrors: uint(maxDiag),
		Reporter:  diag.BagReporter{Bag: bag},
	})
	res.Program = program
	if !ok {
		return res, ErrCompileFailed
	}
	return res, nil
}
