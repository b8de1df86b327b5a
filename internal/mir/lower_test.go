package mir

import (
	"testing"

	"rustic/internal/diag"
	"rustic/internal/hir"
	"rustic/internal/parser"
	"rustic/internal/source"
	"rustic/internal/types"
)

func lowerSource(t *testing.T, src string) (*Module, *types.Interner, *diag.Bag, error) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.rs", []byte(src))
	bag := diag.NewBag(16)
	rep := diag.BagReporter{Bag: bag}
	prog, ok := parser.ParseFile(fs.Get(id), parser.Options{MaxErrors: 8, Reporter: rep})
	if !ok {
		t.Fatalf("parse failed: %v", bag.Items())
	}
	in := types.NewInterner()
	hmod, err := hir.Build(prog, in, rep)
	if err != nil {
		t.Fatalf("hir build failed: %v", err)
	}
	mod, err := Lower(hmod, in, rep)
	return mod, in, bag, err
}

func mustLower(t *testing.T, src string) (*Module, *types.Interner) {
	t.Helper()
	mod, in, bag, err := lowerSource(t, src)
	if err != nil {
		t.Fatalf("lower failed: %v (diagnostics: %v)", err, bag.Items())
	}
	if err := Validate(mod, diag.NopReporter{}); err != nil {
		t.Fatalf("validate failed:\n%v\n%s", err, Dump(mod, in))
	}
	return mod, in
}

func TestStraightLineShape(t *testing.T) {
	mod, _ := mustLower(t, `
fn main() -> i32 {
    let x = 40;
    let y = x + 2;
    return y;
}`)
	f := mod.Funcs[0]
	if len(f.Blocks) != 1 {
		t.Fatalf("straight-line code should stay one block, got %d", len(f.Blocks))
	}
	bb := f.Blocks[0]
	if bb.Term.Kind != TermReturn || !bb.Term.Return.HasValue {
		t.Fatalf("want value return, got %v", bb.Term.Kind)
	}
	// store x, load x, add, store y, load y
	kinds := []InstrKind{InstrStore, InstrLoad, InstrBinOp, InstrStore, InstrLoad}
	if len(bb.Instrs) != len(kinds) {
		t.Fatalf("want %d instrs, got %d:\n%s", len(kinds), len(bb.Instrs), dumpOne(mod))
	}
	for i, k := range kinds {
		if bb.Instrs[i].Kind != k {
			t.Errorf("instr %d: want kind %d, got %d", i, k, bb.Instrs[i].Kind)
		}
	}
}

func TestIfMergeShape(t *testing.T) {
	mod, _ := mustLower(t, `
fn pick(c: bool) -> i32 {
    let mut r = 0;
    if c { r = 1; } else { r = 2; }
    return r;
}`)
	f := mod.Funcs[0]
	// entry, then, else, join
	if len(f.Blocks) != 4 {
		t.Fatalf("want 4 blocks, got %d:\n%s", len(f.Blocks), dumpOne(mod))
	}
	entry := f.Block(f.Entry)
	if entry.Term.Kind != TermBranch {
		t.Fatalf("entry must branch on the condition")
	}
	then := f.Block(entry.Term.Branch.Then)
	els := f.Block(entry.Term.Branch.Else)
	if then.Term.Kind != TermGoto || els.Term.Kind != TermGoto {
		t.Fatalf("both arms must goto the merge block")
	}
	if then.Term.Goto.Target != els.Term.Goto.Target {
		t.Errorf("arms disagree on the merge block")
	}
}

func TestNoMergeBlockWhenArmsReturn(t *testing.T) {
	mod, _ := mustLower(t, `
fn pick(c: bool) -> i32 {
    if c { return 1; } else { return 2; }
}`)
	f := mod.Funcs[0]
	if len(f.Blocks) != 3 {
		t.Fatalf("terminating arms need no merge block, got %d blocks:\n%s",
			len(f.Blocks), dumpOne(mod))
	}
	for i := range f.Blocks {
		if f.Blocks[i].Term.Kind == TermNone {
			t.Errorf("bb%d left unterminated", i)
		}
	}
}

func TestDeadCodeAfterReturnIsPruned(t *testing.T) {
	mod, _ := mustLower(t, `
fn f() -> i32 {
    if true { return 1; } else { return 2; }
    let x = 3;
    return x;
}`)
	// mustLower validates, so reaching here proves the dead tail left no
	// unreachable blocks behind.
	if n := len(mod.Funcs[0].Blocks); n != 3 {
		t.Fatalf("want 3 blocks after pruning, got %d:\n%s", n, dumpOne(mod))
	}
}

func TestLoopShape(t *testing.T) {
	mod, _ := mustLower(t, `
fn count(n: i32) -> i32 {
    let mut i = 0;
    while i < n {
        i = i + 1;
    }
    return i;
}`)
	f := mod.Funcs[0]
	entry := f.Block(f.Entry)
	if entry.Term.Kind != TermGoto {
		t.Fatalf("entry must jump to the loop header")
	}
	header := f.Block(entry.Term.Goto.Target)
	if header.Term.Kind != TermBranch {
		t.Fatalf("header must branch on the condition")
	}
	body := f.Block(header.Term.Branch.Then)
	if body.Term.Kind != TermGoto || body.Term.Goto.Target != header.ID {
		t.Errorf("body fall-through must be the back edge to the header")
	}
	exit := f.Block(header.Term.Branch.Else)
	if exit.Term.Kind != TermReturn {
		t.Errorf("exit block should carry the return")
	}
}

func TestBreakContinueTargets(t *testing.T) {
	mod, _ := mustLower(t, `
fn f() {
    loop {
        if true { break; }
        continue;
    }
}`)
	f := mod.Funcs[0]
	entry := f.Block(f.Entry)
	header := f.Block(entry.Term.Goto.Target)
	if header.Term.Kind != TermGoto {
		t.Fatalf("constant-true loop header must jump straight to the body")
	}

	// The function's only return lives in the loop exit.
	exit := NoBlockID
	for i := range f.Blocks {
		if f.Blocks[i].Term.Kind == TermReturn {
			exit = f.Blocks[i].ID
		}
	}
	if exit == NoBlockID {
		t.Fatalf("loop exit with the implicit return not found:\n%s", dumpOne(mod))
	}

	var sawBreak, sawContinue bool
	for i := range f.Blocks {
		if f.Blocks[i].Term.Kind != TermGoto {
			continue
		}
		switch f.Blocks[i].Term.Goto.Target {
		case exit:
			sawBreak = true
		case header.ID:
			if f.Blocks[i].ID != entry.ID {
				sawContinue = true
			}
		}
	}
	if !sawBreak {
		t.Errorf("break must goto the loop exit")
	}
	if !sawContinue {
		t.Errorf("continue must goto the loop header")
	}
}

func TestShortCircuitUsesDedicatedSlot(t *testing.T) {
	mod, in := mustLower(t, `
fn f(a: bool, b: bool) -> bool {
    return a && b;
}`)
	f := mod.Funcs[0]
	if len(f.Slots) != 3 {
		t.Fatalf("want a dedicated bool slot beyond the two params, got %d slots", len(f.Slots))
	}
	if !in.IsBool(f.Slots[2].Type) {
		t.Errorf("short-circuit slot must be bool")
	}
	entry := f.Block(f.Entry)
	if entry.Term.Kind != TermBranch {
		t.Fatalf("&& must branch after the left operand")
	}
	rhs := f.Block(entry.Term.Branch.Then)
	join := f.Block(entry.Term.Branch.Else)
	var rhsStores bool
	for i := range rhs.Instrs {
		ins := &rhs.Instrs[i]
		if ins.Kind == InstrStore && ins.Store.Slot == 2 {
			rhsStores = true
		}
	}
	if !rhsStores {
		t.Errorf("the right operand block must overwrite the result slot")
	}
	if join.Instrs[0].Kind != InstrLoad || join.Instrs[0].Load.Slot != 2 {
		t.Errorf("the join block must load the result slot first")
	}
}

func TestOrBranchesToJoinOnTrue(t *testing.T) {
	mod, _ := mustLower(t, `
fn f(a: bool, b: bool) -> bool {
    return a || b;
}`)
	f := mod.Funcs[0]
	entry := f.Block(f.Entry)
	rhs := f.Block(entry.Term.Branch.Else)
	if rhs.Term.Kind != TermGoto || rhs.Term.Goto.Target != entry.Term.Branch.Then {
		t.Errorf("|| must evaluate the right operand only on the false path")
	}
}

func TestUnitFunctionGetsImplicitReturn(t *testing.T) {
	mod, _ := mustLower(t, "fn f() { let x = 1; }")
	f := mod.Funcs[0]
	last := f.Blocks[len(f.Blocks)-1]
	if last.Term.Kind != TermReturn || last.Term.Return.HasValue {
		t.Fatalf("unit fall-through must become a bare return")
	}
}

func TestMissingReturnRejected(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty body", "fn f() -> i32 { }"},
		{"only then arm returns", "fn f(c: bool) -> i32 { if c { return 1; } }"},
		{"loop may not run", "fn f(c: bool) -> i32 { while c { return 1; } }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, bag, err := lowerSource(t, tt.src)
			if err == nil {
				t.Fatalf("expected missing-return error")
			}
			found := false
			for _, d := range bag.Items() {
				if d.Code == diag.LowMissingReturn {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected %s, got %v", diag.LowMissingReturn.ID(), bag.Items())
			}
		})
	}
}

func TestAllPathsReturnAccepted(t *testing.T) {
	mustLower(t, `
fn f(c: bool) -> i32 {
    if c { return 1; }
    return 2;
}`)
	mustLower(t, `
fn g() -> i32 {
    loop { return 1; }
}`)
}

func TestCallLowering(t *testing.T) {
	mod, _ := mustLower(t, `
fn add(a: i32, b: i32) -> i32 { return a + b; }
fn main() -> i32 { return add(1, 2); }
`)
	f := mod.Funcs[1]
	bb := f.Blocks[0]
	call := bb.Instrs[len(bb.Instrs)-1]
	if call.Kind != InstrCall || !call.Call.HasDst {
		t.Fatalf("want call with destination, got:\n%s", dumpOne(mod))
	}
	if call.Call.Callee != 0 {
		t.Errorf("callee must index the module function list")
	}
	if len(call.Call.Args) != 2 {
		t.Errorf("want 2 args, got %d", len(call.Call.Args))
	}
}

func TestUnitCallHasNoDestination(t *testing.T) {
	mod, _ := mustLower(t, `
fn side() { }
fn main() { side(); }
`)
	bb := mod.Funcs[1].Blocks[0]
	if len(bb.Instrs) != 1 || bb.Instrs[0].Kind != InstrCall {
		t.Fatalf("want a lone call instruction")
	}
	if bb.Instrs[0].Call.HasDst {
		t.Errorf("unit call must not define a register")
	}
}

func dumpOne(m *Module) string {
	return Dump(m, types.NewInterner())
}
