package mir

type Block struct {
	ID     BlockID
	Instrs []Instr
	Term   Terminator
}

func (b *Block) Terminated() bool {
	if b == nil {
		return true
	}
	return b.Term.Kind != TermNone
}

// IsEmpty reports whether the block carries no instructions and no
// terminator. Such blocks are lowering leftovers and get pruned.
func (b *Block) IsEmpty() bool {
	return b != nil && len(b.Instrs) == 0 && b.Term.Kind == TermNone
}
