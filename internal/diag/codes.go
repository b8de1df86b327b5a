package diag

import (
	"fmt"
)

// Code is a compact, stable diagnostic identifier. Ranges partition the
// pipeline: 1xxx lexer, 2xxx parser, 3xxx lowering (HIR/MIR), 4xxx internal
// invariant violations (compiler defects, never user input), 5xxx driver.
type Code uint16

const (
	// UnknownCode marks a diagnostic without an assigned code.
	UnknownCode Code = 0

	// Lexical errors.
	LexUnknownChar              Code = 1001
	LexUnterminatedBlockComment Code = 1002
	LexBadNumber                Code = 1003

	// Syntax errors.
	SynUnexpectedToken    Code = 2001
	SynExpectIdentifier   Code = 2002
	SynExpectType         Code = 2003
	SynExpectExpression   Code = 2004
	SynExpectSemicolon    Code = 2005
	SynUnclosedParen      Code = 2006
	SynUnclosedBrace      Code = 2007
	SynUnexpectedTopLevel Code = 2008
	SynIfExprMissingElse  Code = 2009

	// Lowering errors (HIR and MIR stages).
	LowUnresolvedName       Code = 3001
	LowTypeMismatch         Code = 3002
	LowDuplicateBinding     Code = 3003
	LowUnsupportedConstruct Code = 3004
	LowAssignImmutable      Code = 3005
	LowCondNotBool          Code = 3006
	LowBreakOutsideLoop     Code = 3007
	LowContinueOutsideLoop  Code = 3008
	LowUnknownCallee        Code = 3009
	LowArityMismatch        Code = 3010
	LowBadLiteral           Code = 3011
	LowMissingReturn        Code = 3012
	LowDuplicateFunction    Code = 3013

	// Internal invariant violations.
	InvUnterminatedBlock Code = 4001
	InvUnreachableBlock  Code = 4002
	InvBadBlockTarget    Code = 4003
	InvRegisterRedefined Code = 4004
	InvUseBeforeDef      Code = 4005
	InvBadOperandType    Code = 4006

	// Driver errors.
	DrvReadFailed      Code = 5001
	DrvWriteFailed     Code = 5002
	DrvManifestInvalid Code = 5003
)

var codeDescription = map[Code]string{
	UnknownCode:                 "unknown error",
	LexUnknownChar:              "unexpected character",
	LexUnterminatedBlockComment: "unterminated block comment",
	LexBadNumber:                "malformed integer literal",
	SynUnexpectedToken:          "unexpected token",
	SynExpectIdentifier:         "expected identifier",
	SynExpectType:               "expected type",
	SynExpectExpression:         "expected expression",
	SynExpectSemicolon:          "expected ';'",
	SynUnclosedParen:            "expected ')'",
	SynUnclosedBrace:            "expected '}'",
	SynUnexpectedTopLevel:       "expected 'fn' at top level",
	SynIfExprMissingElse:        "if-expression requires an else arm",
	LowUnresolvedName:           "unresolved name",
	LowTypeMismatch:             "type mismatch",
	LowDuplicateBinding:         "name already bound in this scope",
	LowUnsupportedConstruct:     "unsupported construct",
	LowAssignImmutable:          "assignment to immutable binding",
	LowCondNotBool:              "condition must be 'bool'",
	LowBreakOutsideLoop:         "'break' outside of a loop",
	LowContinueOutsideLoop:      "'continue' outside of a loop",
	LowUnknownCallee:            "call to unknown function",
	LowArityMismatch:            "wrong number of arguments",
	LowBadLiteral:               "integer literal out of range",
	LowMissingReturn:            "missing return on a non-unit path",
	LowDuplicateFunction:        "function already defined",
	InvUnterminatedBlock:        "basic block has no terminator",
	InvUnreachableBlock:         "basic block unreachable from entry",
	InvBadBlockTarget:           "terminator targets a missing block",
	InvRegisterRedefined:        "virtual register defined twice",
	InvUseBeforeDef:             "virtual register used before definition",
	InvBadOperandType:           "operand carries no type",
	DrvReadFailed:               "cannot read input file",
	DrvWriteFailed:              "cannot write output file",
	DrvManifestInvalid:          "invalid project manifest",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("LOW%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("INV%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("DRV%04d", ic)
	}
	return "E0000"
}

// IsInternal reports whether the code marks a compiler defect rather than a
// user-input problem.
func (c Code) IsInternal() bool {
	return c >= 4000 && c < 5000
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
