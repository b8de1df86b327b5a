package llvm

import (
	"strings"
	"testing"

	"rustic/internal/diag"
	"rustic/internal/hir"
	"rustic/internal/mir"
	"rustic/internal/parser"
	"rustic/internal/source"
	"rustic/internal/types"
)

func emitSource(t *testing.T, src string) string {
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
	mmod, err := mir.Lower(hmod, in, rep)
	if err != nil {
		t.Fatalf("mir lowering failed: %v", err)
	}
	text, err := EmitModule(mmod, in, rep)
	if err != nil {
		t.Fatalf("emit failed: %v", err)
	}
	return text
}

func TestEmitConstantReturn(t *testing.T) {
	text := emitSource(t, "fn main() -> i32 { return 0; }")
	want := "define i32 @main() {\nbb0:\n  ret i32 0\n}\n"
	if text != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", text, want)
	}
}

func TestEmitSlotsAndArithmetic(t *testing.T) {
	text := emitSource(t, `
fn main() -> i32 {
    let x: i32 = 1;
    let y: i32 = 2;
    return x + y;
}`)
	for _, want := range []string{
		"%s0 = alloca i32",
		"%s1 = alloca i32",
		"store i32 1, ptr %s0",
		"store i32 2, ptr %s1",
		"load i32, ptr %s0",
		"load i32, ptr %s1",
		"add i32",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
	if strings.Count(text, "load") != 2 || strings.Count(text, "alloca") != 2 {
		t.Errorf("want exactly two loads and two allocas:\n%s", text)
	}
}

func TestEmitBranchWithoutMergeBlock(t *testing.T) {
	text := emitSource(t, `
fn main() -> i32 {
    if 1 == 1 { return 1; } else { return 0; }
}`)
	if got := strings.Count(text, "bb"); got != 3+2 {
		// Three labels plus two label operands on the branch.
		t.Errorf("want exactly three blocks (entry, then, else), got:\n%s", text)
	}
	if !strings.Contains(text, "icmp eq i32 1, 1") {
		t.Errorf("condition should compare the constants:\n%s", text)
	}
	if !strings.Contains(text, "br i1 %v0, label %bb1, label %bb2") {
		t.Errorf("branch should target the two arm blocks:\n%s", text)
	}
	if !strings.Contains(text, "ret i32 1") || !strings.Contains(text, "ret i32 0") {
		t.Errorf("both arms must return:\n%s", text)
	}
}

func TestEmitWhileLoopHeader(t *testing.T) {
	text := emitSource(t, `
fn main() -> i32 {
    let mut i = 0;
    while i < 10 {
        i = i + 1;
    }
    return i;
}`)
	// Entry falls into the header; the body's back edge re-enters it. The
	// header is the only br target appearing twice.
	if strings.Count(text, "br label %bb1") != 2 {
		t.Errorf("loop header must have the entry edge and the back edge:\n%s", text)
	}
	if !strings.Contains(text, "icmp slt i32") {
		t.Errorf("loop condition should compile to a signed compare:\n%s", text)
	}
}

func TestEmitTypedCallArguments(t *testing.T) {
	text := emitSource(t, `
fn select(c: bool, a: i64, b: i64) -> i64 {
    if c { return a; }
    return b;
}
fn main() -> i64 {
    return select(true, 1, 2);
}`)
	for _, want := range []string{
		"define i64 @select(i1 %p0, i64 %p1, i64 %p2) {",
		"store i1 %p0, ptr %s0",
		"store i64 %p1, ptr %s1",
		"call i64 @select(i1 true, i64 1, i64 2)",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestEmitUnitFunction(t *testing.T) {
	text := emitSource(t, `
fn tick() { }
fn main() { tick(); }
`)
	for _, want := range []string{
		"define void @tick() {",
		"call void @tick()",
		"ret void",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestEmitUnaryOps(t *testing.T) {
	text := emitSource(t, `
fn f(x: i32, b: bool) -> i32 {
    if !b { return -x; }
    return x;
}`)
	if !strings.Contains(text, "xor i1") {
		t.Errorf("logical not should compile to xor:\n%s", text)
	}
	if !strings.Contains(text, "sub i32 0,") {
		t.Errorf("negation should compile to a subtract from zero:\n%s", text)
	}
}

func TestEmitDeterministic(t *testing.T) {
	src := `
fn helper(n: i32) -> i32 { return n * 2; }
fn main() -> i32 {
    let mut acc = 0;
    let mut i = 0;
    while i < 4 {
        acc = acc + helper(i);
        i = i + 1;
    }
    return acc;
}`
	first := emitSource(t, src)
	for run := 0; run < 3; run++ {
		if again := emitSource(t, src); again != first {
			t.Fatalf("emission is not deterministic:\n%s\nvs\n%s", first, again)
		}
	}
}

func TestEmitRejectsInvalidModule(t *testing.T) {
	in := types.NewInterner()
	bad := &mir.Module{Funcs: []*mir.Func{{
		Name:   "broken",
		Result: in.Builtins().Unit,
		Blocks: []mir.Block{{ID: 0}}, // no terminator
		Entry:  0,
	}}}
	bag := diag.NewBag(8)
	_, err := EmitModule(bad, in, diag.BagReporter{Bag: bag})
	if err == nil {
		t.Fatalf("invalid module must be rejected before emission")
	}
	if !bag.HasInternalErrors() {
		t.Errorf("violations must surface as internal diagnostics, got %v", bag.Items())
	}
}
