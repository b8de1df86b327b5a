package token

var keywords = map[string]Kind{
	"fn":       KwFn,
	"let":      KwLet,
	"mut":      KwMut,
	"if":       KwIf,
	"else":     KwElse,
	"while":    KwWhile,
	"loop":     KwLoop,
	"break":    KwBreak,
	"continue": KwContinue,
	"return":   KwReturn,
	"true":     KwTrue,
	"false":    KwFalse,
}

// LookupKeyword returns the keyword kind for an identifier spelling, or
// Ident if the spelling is not reserved.
func LookupKeyword(ident string) Kind {
	if kw, ok := keywords[ident]; ok {
		return kw
	}
	return Ident
}
