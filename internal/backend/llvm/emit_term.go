package llvm

import (
	"fmt"

	"rustic/internal/mir"
)

func (fe *funcEmitter) emitTerminator(term *mir.Terminator) error {
	switch term.Kind {
	case mir.TermReturn:
		if !term.Return.HasValue {
			fe.buf.WriteString("  ret void\n")
			return nil
		}
		val, ty, err := fe.operand(&term.Return.Value)
		if err != nil {
			return err
		}
		fmt.Fprintf(&fe.buf, "  ret %s %s\n", ty, val)
		return nil

	case mir.TermGoto:
		fmt.Fprintf(&fe.buf, "  br label %%bb%d\n", term.Goto.Target)
		return nil

	case mir.TermBranch:
		val, ty, err := fe.operand(&term.Branch.Cond)
		if err != nil {
			return err
		}
		if ty != "i1" {
			return fmt.Errorf("branch condition must be i1, got %s", ty)
		}
		fmt.Fprintf(&fe.buf, "  br i1 %s, label %%bb%d, label %%bb%d\n",
			val, term.Branch.Then, term.Branch.Else)
		return nil

	default:
		return fmt.Errorf("unexpected terminator kind %d", term.Kind)
	}
}
