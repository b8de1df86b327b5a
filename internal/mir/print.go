package mir

import (
	"fmt"
	"strings"

	"rustic/internal/types"
)

// Dump renders a module in a readable text form for debugging and the
// --emit-mir flag. The format is not stable.
func Dump(m *Module, in *types.Interner) string {
	var sb strings.Builder
	for i, f := range m.Funcs {
		if i > 0 {
			sb.WriteByte('\n')
		}
		dumpFunc(&sb, m, f, in)
	}
	return sb.String()
}

func dumpFunc(sb *strings.Builder, m *Module, f *Func, in *types.Interner) {
	fmt.Fprintf(sb, "fn %s(", f.Name)
	for i := 0; i < f.ParamCount; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(sb, "s%d: %s", i, in.Name(f.Slots[i].Type))
	}
	fmt.Fprintf(sb, ") -> %s {\n", in.Name(f.Result))
	for i := f.ParamCount; i < len(f.Slots); i++ {
		fmt.Fprintf(sb, "  slot s%d %s: %s\n", i, f.Slots[i].Name, in.Name(f.Slots[i].Type))
	}
	for i := range f.Blocks {
		bb := &f.Blocks[i]
		fmt.Fprintf(sb, "bb%d:\n", bb.ID)
		for j := range bb.Instrs {
			sb.WriteString("  ")
			dumpInstr(sb, m, &bb.Instrs[j])
			sb.WriteByte('\n')
		}
		sb.WriteString("  ")
		dumpTerm(sb, &bb.Term)
		sb.WriteByte('\n')
	}
	sb.WriteString("}\n")
}

func dumpInstr(sb *strings.Builder, m *Module, ins *Instr) {
	switch ins.Kind {
	case InstrStore:
		fmt.Fprintf(sb, "store s%d, %s", ins.Store.Slot, ins.Store.Val)
	case InstrLoad:
		fmt.Fprintf(sb, "v%d = load s%d", ins.Load.Dst, ins.Load.Slot)
	case InstrBinOp:
		fmt.Fprintf(sb, "v%d = %s %s, %s", ins.Bin.Dst, ins.Bin.Op, ins.Bin.LHS, ins.Bin.RHS)
	case InstrUnOp:
		fmt.Fprintf(sb, "v%d = %s %s", ins.Un.Dst, ins.Un.Op, ins.Un.Operand)
	case InstrCall:
		if ins.Call.HasDst {
			fmt.Fprintf(sb, "v%d = ", ins.Call.Dst)
		}
		name := fmt.Sprintf("fn%d", ins.Call.Callee)
		if f := m.Func(ins.Call.Callee); f != nil {
			name = f.Name
		}
		fmt.Fprintf(sb, "call %s(", name)
		for i, arg := range ins.Call.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(arg.String())
		}
		sb.WriteByte(')')
	default:
		sb.WriteString("<bad instr>")
	}
}

func dumpTerm(sb *strings.Builder, t *Terminator) {
	switch t.Kind {
	case TermReturn:
		if t.Return.HasValue {
			fmt.Fprintf(sb, "return %s", t.Return.Value)
		} else {
			sb.WriteString("return")
		}
	case TermGoto:
		fmt.Fprintf(sb, "goto bb%d", t.Goto.Target)
	case TermBranch:
		fmt.Fprintf(sb, "branch %s, bb%d, bb%d", t.Branch.Cond, t.Branch.Then, t.Branch.Else)
	default:
		sb.WriteString("<no terminator>")
	}
}
