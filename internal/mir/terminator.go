package mir

// TermKind enumerates terminator kinds. TermNone exists only during
// construction; a sealed function must not contain it.
type TermKind uint8

const (
	TermNone TermKind = iota
	TermReturn
	TermGoto
	TermBranch
)

// Terminator ends a basic block.
type Terminator struct {
	Kind TermKind

	Return ReturnTerm
	Goto   GotoTerm
	Branch BranchTerm
}

type ReturnTerm struct {
	HasValue bool
	Value    Operand
}

type GotoTerm struct {
	Target BlockID
}

type BranchTerm struct {
	Cond Operand
	Then BlockID
	Else BlockID
}

// Successors returns the blocks a terminator can transfer to.
func (t *Terminator) Successors() []BlockID {
	switch t.Kind {
	case TermGoto:
		return []BlockID{t.Goto.Target}
	case TermBranch:
		return []BlockID{t.Branch.Then, t.Branch.Else}
	default:
		return nil
	}
}
