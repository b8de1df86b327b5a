package llvm

import (
	"fmt"
	"strings"

	"rustic/internal/mir"
)

var intBinMnemonic = map[mir.BinOp]string{
	mir.BinAdd: "add",
	mir.BinSub: "sub",
	mir.BinMul: "mul",
	mir.BinDiv: "sdiv",
	mir.BinRem: "srem",
	mir.BinAnd: "and",
	mir.BinOr:  "or",
	mir.BinXor: "xor",
	mir.BinShl: "shl",
	mir.BinShr: "ashr",
}

var icmpPredicate = map[mir.BinOp]string{
	mir.BinCmpEq: "eq",
	mir.BinCmpNe: "ne",
	mir.BinCmpLt: "slt",
	mir.BinCmpLe: "sle",
	mir.BinCmpGt: "sgt",
	mir.BinCmpGe: "sge",
}

func (fe *funcEmitter) emitInstr(ins *mir.Instr) error {
	switch ins.Kind {
	case mir.InstrStore:
		val, ty, err := fe.operand(&ins.Store.Val)
		if err != nil {
			return err
		}
		fmt.Fprintf(&fe.buf, "  store %s %s, ptr %%s%d\n", ty, val, ins.Store.Slot)
		return nil

	case mir.InstrLoad:
		ty, err := llvmValueType(fe.in, ins.Load.Type)
		if err != nil {
			return err
		}
		fmt.Fprintf(&fe.buf, "  %%v%d = load %s, ptr %%s%d\n", ins.Load.Dst, ty, ins.Load.Slot)
		return nil

	case mir.InstrBinOp:
		return fe.emitBinOp(&ins.Bin)

	case mir.InstrUnOp:
		return fe.emitUnOp(&ins.Un)

	case mir.InstrCall:
		return fe.emitCall(&ins.Call)

	default:
		return fmt.Errorf("unexpected instruction kind %d", ins.Kind)
	}
}

func (fe *funcEmitter) emitBinOp(bin *mir.BinInstr) error {
	lhs, lty, err := fe.operand(&bin.LHS)
	if err != nil {
		return err
	}
	rhs, rty, err := fe.operand(&bin.RHS)
	if err != nil {
		return err
	}
	if lty != rty {
		return fmt.Errorf("binary operand types disagree: %s vs %s", lty, rty)
	}
	if bin.Op.IsCompare() {
		fmt.Fprintf(&fe.buf, "  %%v%d = icmp %s %s %s, %s\n",
			bin.Dst, icmpPredicate[bin.Op], lty, lhs, rhs)
		return nil
	}
	mnemonic, ok := intBinMnemonic[bin.Op]
	if !ok {
		return fmt.Errorf("no mnemonic for operation %s", bin.Op)
	}
	fmt.Fprintf(&fe.buf, "  %%v%d = %s %s %s, %s\n", bin.Dst, mnemonic, lty, lhs, rhs)
	return nil
}

func (fe *funcEmitter) emitUnOp(un *mir.UnInstr) error {
	val, ty, err := fe.operand(&un.Operand)
	if err != nil {
		return err
	}
	switch un.Op {
	case mir.UnNeg:
		fmt.Fprintf(&fe.buf, "  %%v%d = sub %s 0, %s\n", un.Dst, ty, val)
		return nil
	case mir.UnNot:
		fmt.Fprintf(&fe.buf, "  %%v%d = xor %s %s, true\n", un.Dst, ty, val)
		return nil
	default:
		return fmt.Errorf("unexpected unary operation %s", un.Op)
	}
}

func (fe *funcEmitter) emitCall(call *mir.CallInstr) error {
	callee := fe.m.Func(call.Callee)
	if callee == nil {
		return fmt.Errorf("call to missing function %d", call.Callee)
	}
	args := make([]string, 0, len(call.Args))
	for i := range call.Args {
		if call.Args[i].Kind == mir.OperandNone {
			continue
		}
		val, ty, err := fe.operand(&call.Args[i])
		if err != nil {
			return err
		}
		args = append(args, fmt.Sprintf("%s %s", ty, val))
	}
	if !call.HasDst {
		fmt.Fprintf(&fe.buf, "  call void @%s(%s)\n", callee.Name, strings.Join(args, ", "))
		return nil
	}
	ty, err := llvmValueType(fe.in, call.Type)
	if err != nil {
		return err
	}
	fmt.Fprintf(&fe.buf, "  %%v%d = call %s @%s(%s)\n",
		call.Dst, ty, callee.Name, strings.Join(args, ", "))
	return nil
}
