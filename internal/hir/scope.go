package hir

import (
	"fmt"

	"rustic/internal/diag"
	"rustic/internal/source"
	"rustic/internal/types"
)

// pushScope opens a lexical scope. Every block opens one, so inner
// bindings shadow outer ones and die with the block.
func (fb *funcBuilder) pushScope() {
	fb.scopes = append(fb.scopes, map[string]LocalID{})
}

func (fb *funcBuilder) popScope() {
	fb.scopes = fb.scopes[:len(fb.scopes)-1]
}

// declare adds a binding to the innermost scope. Rebinding a name in the
// same scope is rejected; shadowing an outer scope is fine.
func (fb *funcBuilder) declare(name string, ty types.TypeID, isMut bool, span source.Span) (LocalID, error) {
	top := fb.scopes[len(fb.scopes)-1]
	if _, exists := top[name]; exists {
		return NoLocalID, fb.b.fail(diag.LowDuplicateBinding, span,
			fmt.Sprintf("name %q is already bound in this scope", name))
	}
	id := fb.addLocal(name, ty, isMut, span)
	top[name] = id
	return id, nil
}

// addLocal appends to the local table without touching the scope stack.
// Synthesized temporaries use this directly so user code cannot name them.
func (fb *funcBuilder) addLocal(name string, ty types.TypeID, isMut bool, span source.Span) LocalID {
	id := LocalID(len(fb.fn.Locals))
	fb.fn.Locals = append(fb.fn.Locals, Local{
		Name: name, Type: ty, IsMut: isMut, Span: span,
	})
	return id
}

// lookup resolves a name against the scope stack, innermost first.
func (fb *funcBuilder) lookup(name string) (LocalID, bool) {
	for i := len(fb.scopes) - 1; i >= 0; i-- {
		if id, ok := fb.scopes[i][name]; ok {
			return id, true
		}
	}
	return NoLocalID, false
}
