package mir

import (
	"fmt"

	"fortio.org/safecast"

	"rustic/internal/diag"
	"rustic/internal/hir"
	"rustic/internal/types"
)

// Lower flattens an HIR module into MIR. User-facing problems (a non-unit
// function falling off the end) are reported through the reporter; any
// other returned error is a lowering defect.
func Lower(m *hir.Module, in *types.Interner, reporter diag.Reporter) (*Module, error) {
	out := &Module{Funcs: make([]*Func, 0, len(m.Funcs))}
	for i, fn := range m.Funcs {
		id, err := safecast.Conv[int32](i)
		if err != nil {
			return nil, fmt.Errorf("mir: func id overflow: %w", err)
		}
		fl := &funcLowerer{in: in, reporter: reporter}
		f, err := fl.lowerFunc(FuncID(id), fn)
		if err != nil {
			return nil, err
		}
		out.Funcs = append(out.Funcs, f)
	}
	return out, nil
}

type loopCtx struct {
	breakTarget    BlockID
	continueTarget BlockID
}

// funcLowerer walks one HIR function, growing the block arena behind a
// current-block cursor. emit and setTerm become no-ops once the cursor
// block is terminated, which makes statements after a return dead rather
// than an error.
type funcLowerer struct {
	in       *types.Interner
	reporter diag.Reporter

	f   *Func
	cur BlockID

	loopStack []loopCtx
	nextValue ValueID
}

func (l *funcLowerer) lowerFunc(id FuncID, fn *hir.Func) (*Func, error) {
	l.f = &Func{
		ID:         id,
		Name:       fn.Name,
		Span:       fn.Span,
		ParamCount: len(fn.Params),
		Result:     fn.Result,
	}

	// One slot per HIR local; params occupy the first entries and are
	// spilled by the emitter at function entry.
	l.f.Slots = make([]Slot, len(fn.Locals))
	for i, loc := range fn.Locals {
		l.f.Slots[i] = Slot{Name: loc.Name, Type: loc.Type, Span: loc.Span}
	}

	entry := l.newBlock()
	l.f.Entry = entry
	l.cur = entry

	if err := l.lowerBlock(fn.Body); err != nil {
		return nil, err
	}

	if err := l.sealFunc(fn); err != nil {
		return nil, err
	}
	l.f.ValueCount = int(l.nextValue)
	return l.f, nil
}

// sealFunc finishes the CFG: gives a fall-through path its implicit unit
// return (or rejects it for value-returning functions), then prunes the
// empty blocks left unreachable by terminated if-arms.
func (l *funcLowerer) sealFunc(fn *hir.Func) error {
	reach := l.reachable()

	if !l.curBlock().Terminated() && reach[l.cur] {
		if l.in.IsUnit(l.f.Result) {
			l.setTerm(&Terminator{Kind: TermReturn})
		} else {
			msg := fmt.Sprintf("function %q can reach its end without returning %s",
				fn.Name, l.in.Name(l.f.Result))
			diag.ReportError(l.reporter, diag.LowMissingReturn, fn.Span, msg)
			return fmt.Errorf("%s: %s", diag.LowMissingReturn.ID(), msg)
		}
	}

	// Dead statements after terminated if-arms land in blocks nothing
	// jumps to; drop them together with the empty merge leftovers.
	l.pruneUnreachable(reach)
	return nil
}

// reachable computes the blocks reachable from entry via terminators.
func (l *funcLowerer) reachable() map[BlockID]bool {
	reach := make(map[BlockID]bool, len(l.f.Blocks))
	work := []BlockID{l.f.Entry}
	for len(work) > 0 {
		id := work[len(work)-1]
		work = work[:len(work)-1]
		if reach[id] {
			continue
		}
		reach[id] = true
		work = append(work, l.f.Blocks[id].Term.Successors()...)
	}
	return reach
}

// pruneUnreachable drops unreachable blocks and renumbers the survivors
// so block ids stay dense.
func (l *funcLowerer) pruneUnreachable(reach map[BlockID]bool) {
	remap := make(map[BlockID]BlockID, len(l.f.Blocks))
	kept := make([]Block, 0, len(l.f.Blocks))
	for id := range l.f.Blocks {
		old := BlockID(id)
		if !reach[old] {
			continue
		}
		newID := BlockID(len(kept))
		remap[old] = newID
		b := l.f.Blocks[id]
		b.ID = newID
		kept = append(kept, b)
	}
	for i := range kept {
		switch t := &kept[i].Term; t.Kind {
		case TermGoto:
			t.Goto.Target = remap[t.Goto.Target]
		case TermBranch:
			t.Branch.Then = remap[t.Branch.Then]
			t.Branch.Else = remap[t.Branch.Else]
		}
	}
	l.f.Blocks = kept
	l.f.Entry = remap[l.f.Entry]
}

func (l *funcLowerer) curBlock() *Block {
	idx := int(l.cur)
	if idx < 0 || idx >= len(l.f.Blocks) {
		return nil
	}
	return &l.f.Blocks[idx]
}

func (l *funcLowerer) newBlock() BlockID {
	raw, err := safecast.Conv[int32](len(l.f.Blocks))
	if err != nil {
		panic(fmt.Errorf("mir: block id overflow: %w", err))
	}
	id := BlockID(raw)
	l.f.Blocks = append(l.f.Blocks, Block{ID: id, Term: Terminator{Kind: TermNone}})
	return id
}

func (l *funcLowerer) startBlock(id BlockID) {
	l.cur = id
}

func (l *funcLowerer) setTerm(t *Terminator) {
	b := l.curBlock()
	if b == nil || b.Terminated() || t == nil {
		return
	}
	b.Term = *t
}

func (l *funcLowerer) emit(ins *Instr) {
	b := l.curBlock()
	if b == nil || b.Terminated() || ins == nil {
		return
	}
	b.Instrs = append(b.Instrs, *ins)
}

func (l *funcLowerer) newValue() ValueID {
	id := l.nextValue
	l.nextValue++
	return id
}

// newTempSlot adds a synthesized slot (short-circuit results).
func (l *funcLowerer) newTempSlot(name string, ty types.TypeID) SlotID {
	raw, err := safecast.Conv[int32](len(l.f.Slots))
	if err != nil {
		panic(fmt.Errorf("mir: slot id overflow: %w", err))
	}
	id := SlotID(raw)
	l.f.Slots = append(l.f.Slots, Slot{Name: name, Type: ty})
	return id
}
