package llvm

import (
	"fmt"

	"rustic/internal/types"
)

// llvmValueType maps a primitive TypeID to its LLVM spelling.
func llvmValueType(in *types.Interner, id types.TypeID) (string, error) {
	tt, ok := in.Lookup(id)
	if !ok {
		return "", fmt.Errorf("llvm: unknown type id %d", id)
	}
	switch tt.Kind {
	case types.KindUnit:
		return "void", nil
	case types.KindBool:
		return "i1", nil
	case types.KindInt:
		switch tt.Width {
		case types.Width32:
			return "i32", nil
		case types.Width64:
			return "i64", nil
		}
	}
	return "", fmt.Errorf("llvm: no lowering for type %s", tt.Name())
}
