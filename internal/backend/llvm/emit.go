// Package llvm renders sealed MIR functions as LLVM IR text. Emission is
// purely syntactic: every typing and control-flow decision was made during
// lowering, and Validate guards the invariants the printer relies on.
package llvm

import (
	"fmt"
	"strings"

	"rustic/internal/diag"
	"rustic/internal/mir"
	"rustic/internal/types"
)

// EmitModule validates the module and renders every function in
// declaration order. A validation failure is a compiler defect reported
// with internal codes, never a user diagnostic.
func EmitModule(m *mir.Module, in *types.Interner, reporter diag.Reporter) (string, error) {
	if err := mir.Validate(m, reporter); err != nil {
		return "", fmt.Errorf("llvm: invariant violation: %w", err)
	}
	var sb strings.Builder
	for i, f := range m.Funcs {
		text, err := EmitFunc(m, f, in)
		if err != nil {
			return "", err
		}
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}

// EmitFunc renders one function into its own buffer, so functions can be
// emitted concurrently and concatenated in declaration order afterwards.
func EmitFunc(m *mir.Module, f *mir.Func, in *types.Interner) (string, error) {
	fe := &funcEmitter{m: m, f: f, in: in}
	if err := fe.emit(); err != nil {
		return "", fmt.Errorf("llvm: function %s: %w", f.Name, err)
	}
	return fe.buf.String(), nil
}

type funcEmitter struct {
	m   *mir.Module
	f   *mir.Func
	in  *types.Interner
	buf strings.Builder
}

func (fe *funcEmitter) emit() error {
	ret, err := llvmValueType(fe.in, fe.f.Result)
	if err != nil {
		return err
	}

	params := make([]string, 0, fe.f.ParamCount)
	for i := 0; i < fe.f.ParamCount; i++ {
		ty, err := llvmValueType(fe.in, fe.f.Slots[i].Type)
		if err != nil {
			return err
		}
		if ty == "void" {
			continue
		}
		params = append(params, fmt.Sprintf("%s %%p%d", ty, i))
	}
	fmt.Fprintf(&fe.buf, "define %s @%s(%s) {\n", ret, fe.f.Name, strings.Join(params, ", "))

	for i := range fe.f.Blocks {
		bb := &fe.f.Blocks[i]
		fmt.Fprintf(&fe.buf, "bb%d:\n", bb.ID)
		if bb.ID == fe.f.Entry {
			if err := fe.emitAllocas(); err != nil {
				return err
			}
			if err := fe.emitParamStores(); err != nil {
				return err
			}
		}
		for j := range bb.Instrs {
			if err := fe.emitInstr(&bb.Instrs[j]); err != nil {
				return err
			}
		}
		if err := fe.emitTerminator(&bb.Term); err != nil {
			return err
		}
	}
	fe.buf.WriteString("}\n")
	return nil
}

// emitAllocas reserves one stack slot per MIR slot at the top of the entry
// block, before any other instruction.
func (fe *funcEmitter) emitAllocas() error {
	for i := range fe.f.Slots {
		ty, err := llvmValueType(fe.in, fe.f.Slots[i].Type)
		if err != nil {
			return err
		}
		if ty == "void" {
			continue
		}
		fmt.Fprintf(&fe.buf, "  %%s%d = alloca %s\n", i, ty)
	}
	return nil
}

// emitParamStores spills the incoming parameter values into their slots.
func (fe *funcEmitter) emitParamStores() error {
	for i := 0; i < fe.f.ParamCount; i++ {
		ty, err := llvmValueType(fe.in, fe.f.Slots[i].Type)
		if err != nil {
			return err
		}
		if ty == "void" {
			continue
		}
		fmt.Fprintf(&fe.buf, "  store %s %%p%d, ptr %%s%d\n", ty, i, i)
	}
	return nil
}

// operand renders an operand as its LLVM value and type spelling.
func (fe *funcEmitter) operand(op *mir.Operand) (val, ty string, err error) {
	ty, err = llvmValueType(fe.in, op.Type)
	if err != nil {
		return "", "", err
	}
	switch op.Kind {
	case mir.OperandReg:
		return fmt.Sprintf("%%v%d", op.Reg), ty, nil
	case mir.OperandConst:
		if ty == "i1" {
			if op.Const != 0 {
				return "true", ty, nil
			}
			return "false", ty, nil
		}
		return fmt.Sprintf("%d", op.Const), ty, nil
	default:
		return "", "", fmt.Errorf("unexpected operand kind %d", op.Kind)
	}
}
