package ast

// UnaryOp enumerates unary operators.
type UnaryOp uint8

const (
	// UnaryNeg represents arithmetic negation '-'.
	UnaryNeg UnaryOp = iota
	// UnaryNot represents logical negation '!'.
	UnaryNot
)

func (op UnaryOp) String() string {
	switch op {
	case UnaryNeg:
		return "-"
	case UnaryNot:
		return "!"
	default:
		return "?"
	}
}

// BinaryOp enumerates binary operators.
type BinaryOp uint8

const (
	// BinAdd represents '+'.
	BinAdd BinaryOp = iota
	// BinSub represents '-'.
	BinSub
	// BinMul represents '*'.
	BinMul
	// BinDiv represents '/'.
	BinDiv
	// BinRem represents '%'.
	BinRem
	// BinBitAnd represents '&'.
	BinBitAnd
	// BinBitOr represents '|'.
	BinBitOr
	// BinBitXor represents '^'.
	BinBitXor
	// BinShl represents '<<'.
	BinShl
	// BinShr represents '>>'.
	BinShr
	// BinEq represents '=='.
	BinEq
	// BinNe represents '!='.
	BinNe
	// BinLt represents '<'.
	BinLt
	// BinLe represents '<='.
	BinLe
	// BinGt represents '>'.
	BinGt
	// BinGe represents '>='.
	BinGe
	// BinLogicalAnd represents '&&'.
	BinLogicalAnd
	// BinLogicalOr represents '||'.
	BinLogicalOr
)

var binOpNames = map[BinaryOp]string{
	BinAdd:        "+",
	BinSub:        "-",
	BinMul:        "*",
	BinDiv:        "/",
	BinRem:        "%",
	BinBitAnd:     "&",
	BinBitOr:      "|",
	BinBitXor:     "^",
	BinShl:        "<<",
	BinShr:        ">>",
	BinEq:         "==",
	BinNe:         "!=",
	BinLt:         "<",
	BinLe:         "<=",
	BinGt:         ">",
	BinGe:         ">=",
	BinLogicalAnd: "&&",
	BinLogicalOr:  "||",
}

func (op BinaryOp) String() string {
	if s, ok := binOpNames[op]; ok {
		return s
	}
	return "?"
}

// IsComparison reports whether the operator yields a bool from two
// same-typed operands.
func (op BinaryOp) IsComparison() bool {
	switch op {
	case BinEq, BinNe, BinLt, BinLe, BinGt, BinGe:
		return true
	default:
		return false
	}
}

// IsLogical reports whether the operator short-circuits.
func (op BinaryOp) IsLogical() bool {
	return op == BinLogicalAnd || op == BinLogicalOr
}
