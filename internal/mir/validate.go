package mir

import (
	"errors"
	"fmt"

	"rustic/internal/diag"
	"rustic/internal/types"
)

// Validate checks the CFG invariants the emitter relies on. Violations are
// compiler defects, not user errors: each one is reported with an internal
// code and the joined error is returned.
func Validate(m *Module, reporter diag.Reporter) error {
	var errs []error
	for _, f := range m.Funcs {
		if f == nil {
			continue
		}
		if err := validateFunc(f, reporter); err != nil {
			errs = append(errs, fmt.Errorf("function %s: %w", f.Name, err))
		}
	}
	return errors.Join(errs...)
}

func validateFunc(f *Func, reporter diag.Reporter) error {
	var errs []error
	report := func(code diag.Code, format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		diag.ReportError(reporter, code, f.Span, fmt.Sprintf("%s: %s", f.Name, msg))
		errs = append(errs, errors.New(msg))
	}

	blockExists := func(id BlockID) bool {
		return id >= 0 && int(id) < len(f.Blocks)
	}
	slotExists := func(id SlotID) bool {
		return id >= 0 && int(id) < len(f.Slots)
	}

	if !blockExists(f.Entry) {
		report(diag.InvBadBlockTarget, "entry bb%d does not exist", f.Entry)
		return errors.Join(errs...)
	}

	for i := range f.Blocks {
		bb := &f.Blocks[i]
		if bb.Term.Kind == TermNone {
			report(diag.InvUnterminatedBlock, "bb%d has no terminator", i)
		}
		for _, target := range bb.Term.Successors() {
			if !blockExists(target) {
				report(diag.InvBadBlockTarget, "bb%d targets missing bb%d", i, target)
			}
		}
		for j := range bb.Instrs {
			ins := &bb.Instrs[j]
			switch ins.Kind {
			case InstrStore:
				if !slotExists(ins.Store.Slot) {
					report(diag.InvBadOperandType, "bb%d: store to missing slot %d", i, ins.Store.Slot)
				}
			case InstrLoad:
				if !slotExists(ins.Load.Slot) {
					report(diag.InvBadOperandType, "bb%d: load from missing slot %d", i, ins.Load.Slot)
				}
			}
			for _, use := range ins.Uses() {
				if use.Kind != OperandNone && use.Type == types.NoTypeID {
					report(diag.InvBadOperandType, "bb%d: untyped operand", i)
				}
			}
		}
	}
	if len(errs) > 0 {
		// Register checks need a structurally sound CFG.
		return errors.Join(errs...)
	}

	reach := reachableBlocks(f)
	for i := range f.Blocks {
		if !reach[BlockID(i)] {
			report(diag.InvUnreachableBlock, "bb%d is unreachable from entry", i)
		}
	}

	validateRegisters(f, report)
	return errors.Join(errs...)
}

func reachableBlocks(f *Func) map[BlockID]bool {
	reach := make(map[BlockID]bool, len(f.Blocks))
	work := []BlockID{f.Entry}
	for len(work) > 0 {
		id := work[len(work)-1]
		work = work[:len(work)-1]
		if reach[id] {
			continue
		}
		reach[id] = true
		work = append(work, f.Blocks[id].Term.Successors()...)
	}
	return reach
}

// validateRegisters proves the single-definition property and that every
// register use is dominated by its definition: a forward dataflow where a
// block's available set is the intersection of its predecessors' outputs.
func validateRegisters(f *Func, report func(code diag.Code, format string, args ...any)) {
	n := f.ValueCount
	defined := make([]bool, n)
	for i := range f.Blocks {
		for j := range f.Blocks[i].Instrs {
			dst := f.Blocks[i].Instrs[j].Dst()
			if dst == NoValueID {
				continue
			}
			if int(dst) >= n {
				report(diag.InvRegisterRedefined, "bb%d: register v%d out of range", i, dst)
				return
			}
			if defined[dst] {
				report(diag.InvRegisterRedefined, "register v%d defined twice", dst)
			}
			defined[dst] = true
		}
	}

	preds := make(map[BlockID][]BlockID, len(f.Blocks))
	for i := range f.Blocks {
		for _, s := range f.Blocks[i].Term.Successors() {
			preds[s] = append(preds[s], BlockID(i))
		}
	}

	in := make([]regSet, len(f.Blocks))
	out := make([]regSet, len(f.Blocks))
	for i := range f.Blocks {
		in[i] = newRegSet(n)
		out[i] = newRegSet(n)
		if BlockID(i) != f.Entry {
			in[i].fill()
			out[i].fill()
		} else {
			recomputeOut(&f.Blocks[i], in[i], out[i])
		}
	}

	for changed := true; changed; {
		changed = false
		for i := range f.Blocks {
			id := BlockID(i)
			if id == f.Entry {
				continue
			}
			next := newRegSet(n)
			next.fill()
			for _, p := range preds[id] {
				next.intersect(out[p])
			}
			if len(preds[id]) == 0 {
				next = newRegSet(n)
			}
			if !next.equal(in[i]) {
				copy(in[i], next)
				changed = true
			}
			recomputeOut(&f.Blocks[i], in[i], out[i])
		}
	}

	for i := range f.Blocks {
		bb := &f.Blocks[i]
		avail := newRegSet(n)
		copy(avail, in[i])
		checkUse := func(op Operand) {
			if op.Kind != OperandReg {
				return
			}
			if int(op.Reg) >= n || !avail.has(op.Reg) {
				report(diag.InvUseBeforeDef, "bb%d: v%d used before definition", i, op.Reg)
			}
		}
		for j := range bb.Instrs {
			for _, use := range bb.Instrs[j].Uses() {
				checkUse(use)
			}
			if dst := bb.Instrs[j].Dst(); dst != NoValueID {
				avail.set(dst)
			}
		}
		switch bb.Term.Kind {
		case TermReturn:
			if bb.Term.Return.HasValue {
				checkUse(bb.Term.Return.Value)
			}
		case TermBranch:
			checkUse(bb.Term.Branch.Cond)
		}
	}
}

func recomputeOut(bb *Block, in, out regSet) {
	copy(out, in)
	for j := range bb.Instrs {
		if dst := bb.Instrs[j].Dst(); dst != NoValueID {
			out.set(dst)
		}
	}
}

// regSet is a fixed-size bitset over register ids.
type regSet []uint64

func newRegSet(n int) regSet {
	return make(regSet, (n+63)/64)
}

func (s regSet) set(id ValueID) {
	s[id/64] |= 1 << (uint(id) % 64)
}

func (s regSet) has(id ValueID) bool {
	return s[id/64]&(1<<(uint(id)%64)) != 0
}

func (s regSet) fill() {
	for i := range s {
		s[i] = ^uint64(0)
	}
}

func (s regSet) intersect(other regSet) {
	for i := range s {
		s[i] &= other[i]
	}
}

func (s regSet) equal(other regSet) bool {
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}
