package mir

import (
	"fmt"

	"rustic/internal/hir"
)

func (l *funcLowerer) lowerBlock(b *hir.Block) error {
	if b == nil {
		return nil
	}
	for i := range b.Stmts {
		if l.curBlock().Terminated() {
			return nil
		}
		if err := l.lowerStmt(&b.Stmts[i]); err != nil {
			return err
		}
	}
	return nil
}

func (l *funcLowerer) lowerStmt(st *hir.Stmt) error {
	switch st.Kind {
	case hir.StmtLet:
		data, ok := st.Data.(hir.LetData)
		if !ok {
			return fmt.Errorf("mir: let: unexpected payload %T", st.Data)
		}
		if data.Value == nil {
			// Synthesized temporary; its slot exists, arms store into it.
			return nil
		}
		return l.lowerStoreTo(SlotID(data.Local), data.Value)

	case hir.StmtAssign:
		data, ok := st.Data.(hir.AssignData)
		if !ok {
			return fmt.Errorf("mir: assign: unexpected payload %T", st.Data)
		}
		return l.lowerStoreTo(SlotID(data.Local), data.Value)

	case hir.StmtExpr:
		data, ok := st.Data.(hir.ExprStmtData)
		if !ok {
			return fmt.Errorf("mir: expr stmt: unexpected payload %T", st.Data)
		}
		_, err := l.lowerExpr(data.Expr)
		return err

	case hir.StmtIf:
		data, ok := st.Data.(hir.IfData)
		if !ok {
			return fmt.Errorf("mir: if: unexpected payload %T", st.Data)
		}
		return l.lowerIf(data)

	case hir.StmtLoop:
		data, ok := st.Data.(hir.LoopData)
		if !ok {
			return fmt.Errorf("mir: loop: unexpected payload %T", st.Data)
		}
		return l.lowerLoop(data)

	case hir.StmtBreak:
		if len(l.loopStack) == 0 {
			return fmt.Errorf("mir: break outside loop survived HIR checks")
		}
		ctx := l.loopStack[len(l.loopStack)-1]
		l.setTerm(&Terminator{Kind: TermGoto, Goto: GotoTerm{Target: ctx.breakTarget}})
		return nil

	case hir.StmtContinue:
		if len(l.loopStack) == 0 {
			return fmt.Errorf("mir: continue outside loop survived HIR checks")
		}
		ctx := l.loopStack[len(l.loopStack)-1]
		l.setTerm(&Terminator{Kind: TermGoto, Goto: GotoTerm{Target: ctx.continueTarget}})
		return nil

	case hir.StmtReturn:
		data, ok := st.Data.(hir.ReturnData)
		if !ok {
			return fmt.Errorf("mir: return: unexpected payload %T", st.Data)
		}
		if data.Value == nil {
			l.setTerm(&Terminator{Kind: TermReturn})
			return nil
		}
		op, err := l.lowerExpr(data.Value)
		if err != nil {
			return err
		}
		l.setTerm(&Terminator{
			Kind:   TermReturn,
			Return: ReturnTerm{HasValue: true, Value: op},
		})
		return nil

	default:
		return fmt.Errorf("mir: unexpected statement kind %s", st.Kind)
	}
}

func (l *funcLowerer) lowerStoreTo(slot SlotID, value *hir.Expr) error {
	op, err := l.lowerExpr(value)
	if err != nil {
		return err
	}
	if op.Kind == OperandNone {
		// Unit values have no representation; the slot stays untouched.
		return nil
	}
	l.emit(&Instr{Kind: InstrStore, Store: StoreInstr{Slot: slot, Val: op}})
	return nil
}

// lowerIf branches on the condition. The merge block is created lazily so
// an if whose arms both terminate gets none, keeping every block
// reachable.
func (l *funcLowerer) lowerIf(data hir.IfData) error {
	cond, err := l.lowerExpr(data.Cond)
	if err != nil {
		return err
	}

	joinBB := NoBlockID
	ensureJoin := func() BlockID {
		if joinBB == NoBlockID {
			joinBB = l.newBlock()
		}
		return joinBB
	}

	thenBB := l.newBlock()
	elseBB := NoBlockID
	if data.Else != nil {
		elseBB = l.newBlock()
	} else {
		elseBB = ensureJoin()
	}

	l.setTerm(&Terminator{
		Kind:   TermBranch,
		Branch: BranchTerm{Cond: cond, Then: thenBB, Else: elseBB},
	})

	l.startBlock(thenBB)
	if err := l.lowerBlock(data.Then); err != nil {
		return err
	}
	if !l.curBlock().Terminated() {
		l.setTerm(&Terminator{Kind: TermGoto, Goto: GotoTerm{Target: ensureJoin()}})
	}

	if data.Else != nil {
		l.startBlock(elseBB)
		if err := l.lowerBlock(data.Else); err != nil {
			return err
		}
		if !l.curBlock().Terminated() {
			l.setTerm(&Terminator{Kind: TermGoto, Goto: GotoTerm{Target: ensureJoin()}})
		}
	}

	if joinBB != NoBlockID {
		l.startBlock(joinBB)
	}
	return nil
}

// lowerLoop builds the canonical loop CFG: the header re-evaluates the
// condition on every iteration, the body's fall-through edge goes back to
// the header, break targets the exit and continue the header.
func (l *funcLowerer) lowerLoop(data hir.LoopData) error {
	headerBB := l.newBlock()
	l.setTerm(&Terminator{Kind: TermGoto, Goto: GotoTerm{Target: headerBB}})

	l.startBlock(headerBB)
	cond, err := l.lowerExpr(data.Cond)
	if err != nil {
		return err
	}
	bodyBB := l.newBlock()
	exitBB := l.newBlock()
	if cond.Kind == OperandConst && cond.Const != 0 {
		// 'loop' form: the exit is reachable through break alone, so a
		// value-returning function may rely on the body never falling out.
		l.setTerm(&Terminator{Kind: TermGoto, Goto: GotoTerm{Target: bodyBB}})
	} else {
		l.setTerm(&Terminator{
			Kind:   TermBranch,
			Branch: BranchTerm{Cond: cond, Then: bodyBB, Else: exitBB},
		})
	}

	l.startBlock(bodyBB)
	l.loopStack = append(l.loopStack, loopCtx{breakTarget: exitBB, continueTarget: headerBB})
	err = l.lowerBlock(data.Body)
	l.loopStack = l.loopStack[:len(l.loopStack)-1]
	if err != nil {
		return err
	}
	if !l.curBlock().Terminated() {
		l.setTerm(&Terminator{Kind: TermGoto, Goto: GotoTerm{Target: headerBB}})
	}

	l.startBlock(exitBB)
	return nil
}
