package parser_test

import (
	"testing"

	"rustic/internal/ast"
	"rustic/internal/diag"
	"rustic/internal/parser"
	"rustic/internal/source"
)

func parse(t *testing.T, src string) (*ast.Program, *diag.Bag, bool) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.rs", []byte(src))
	bag := diag.NewBag(16)
	prog, ok := parser.ParseFile(fs.Get(id), parser.Options{
		MaxErrors: 16,
		Reporter:  diag.BagReporter{Bag: bag},
	})
	return prog, bag, ok
}

func TestParseSimpleFunction(t *testing.T) {
	prog, bag, ok := parse(t, "fn main() -> i32 { return 0; }")
	if !ok {
		t.Fatalf("parse failed: %v", bag.Items())
	}
	if len(prog.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(prog.Items))
	}
	fn := prog.Items[0]
	if fn.Name != "main" {
		t.Errorf("name: got %q", fn.Name)
	}
	if !fn.HasResult || fn.Result.Name != "i32" {
		t.Errorf("result: got %+v", fn.Result)
	}
	if len(fn.Body.Stmts) != 1 || fn.Body.Stmts[0].Kind != ast.StmtReturn {
		t.Errorf("body: got %+v", fn.Body.Stmts)
	}
}

func TestParseParams(t *testing.T) {
	prog, bag, ok := parse(t, "fn add(a: i32, b: i32) -> i32 { return a + b; }")
	if !ok {
		t.Fatalf("parse failed: %v", bag.Items())
	}
	fn := prog.Items[0]
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
	if fn.Params[0].Name != "a" || fn.Params[1].Type.Name != "i32" {
		t.Errorf("params: %+v", fn.Params)
	}
}

func TestParsePrecedence(t *testing.T) {
	prog, bag, ok := parse(t, "fn f() -> i32 { return 1 + 2 * 3; }")
	if !ok {
		t.Fatalf("parse failed: %v", bag.Items())
	}
	ret := prog.Items[0].Body.Stmts[0].Data.(ast.ReturnData)
	bin := ret.Value.Data.(ast.BinaryData)
	if bin.Op != ast.BinAdd {
		t.Fatalf("root op: got %v, want +", bin.Op)
	}
	inner := bin.Right.Data.(ast.BinaryData)
	if inner.Op != ast.BinMul {
		t.Errorf("right op: got %v, want *", inner.Op)
	}
}

func TestParseLetForms(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		isMut   bool
		hasType bool
	}{
		{"plain", "fn f() { let x = 1; }", false, false},
		{"typed", "fn f() { let x: i32 = 1; }", false, true},
		{"mut", "fn f() { let mut x = 1; }", true, false},
		{"mut_typed", "fn f() { let mut x: i64 = 1; }", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, bag, ok := parse(t, tt.src)
			if !ok {
				t.Fatalf("parse failed: %v", bag.Items())
			}
			let := prog.Items[0].Body.Stmts[0].Data.(ast.LetData)
			if let.IsMut != tt.isMut || let.HasType != tt.hasType {
				t.Errorf("got mut=%v hasType=%v", let.IsMut, let.HasType)
			}
		})
	}
}

func TestParseControlFlow(t *testing.T) {
	src := `
fn main() {
    let mut i = 0;
    while i < 10 {
        if i == 5 {
            break;
        } else {
            i = i + 1;
        }
    }
    loop {
        continue;
    }
}
`
	prog, bag, ok := parse(t, src)
	if !ok {
		t.Fatalf("parse failed: %v", bag.Items())
	}
	stmts := prog.Items[0].Body.Stmts
	if stmts[1].Kind != ast.StmtWhile {
		t.Errorf("stmt 1: got %v", stmts[1].Kind)
	}
	whileData := stmts[1].Data.(ast.WhileData)
	ifStmt := whileData.Body.Stmts[0]
	if ifStmt.Kind != ast.StmtIf {
		t.Fatalf("loop body: got %v", ifStmt.Kind)
	}
	if ifStmt.Data.(ast.IfData).Else == nil {
		t.Error("expected else branch")
	}
	if stmts[2].Kind != ast.StmtLoop {
		t.Errorf("stmt 2: got %v", stmts[2].Kind)
	}
}

func TestParseIfExpression(t *testing.T) {
	prog, bag, ok := parse(t, "fn f(c: bool) -> i32 { let x = if c { 1 } else { 2 }; return x; }")
	if !ok {
		t.Fatalf("parse failed: %v", bag.Items())
	}
	let := prog.Items[0].Body.Stmts[0].Data.(ast.LetData)
	if let.Init.Kind != ast.ExprIf {
		t.Fatalf("init: got %v", let.Init.Kind)
	}
	ifData := let.Init.Data.(ast.IfExprData)
	thenBlk := ifData.Then.Data.(ast.BlockData).Block
	if thenBlk.Tail == nil {
		t.Error("then arm should have a tail expression")
	}
}

func TestParseIfExpressionRequiresElse(t *testing.T) {
	_, bag, ok := parse(t, "fn f(c: bool) -> i32 { let x = if c { 1 }; return x; }")
	if ok {
		t.Fatal("expected parse error")
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.SynIfExprMissingElse {
			found = true
		}
	}
	if !found {
		t.Errorf("expected SynIfExprMissingElse, got %v", bag.Items())
	}
}

func TestParseErrorRecovery(t *testing.T) {
	src := `
fn broken( { }
fn ok() -> i32 { return 0; }
`
	prog, _, ok := parse(t, src)
	if ok {
		t.Fatal("expected parse errors")
	}
	// The second function must survive recovery.
	found := false
	for _, fn := range prog.Items {
		if fn.Name == "ok" {
			found = true
		}
	}
	if !found {
		t.Errorf("recovery lost the following item: %+v", prog.Items)
	}
}

func TestParseCallArguments(t *testing.T) {
	prog, bag, ok := parse(t, "fn f() -> i32 { return add(1, 2 + 3); }")
	if !ok {
		t.Fatalf("parse failed: %v", bag.Items())
	}
	ret := prog.Items[0].Body.Stmts[0].Data.(ast.ReturnData)
	call := ret.Value.Data.(ast.CallData)
	if call.Name != "add" || len(call.Args) != 2 {
		t.Errorf("call: %+v", call)
	}
}

func TestParseForwardsLexerDiagnostics(t *testing.T) {
	_, bag, ok := parse(t, "fn f() -> i32 { return 123abc; }")
	if ok {
		t.Fatal("malformed literal parsed cleanly")
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.LexBadNumber {
			found = true
		}
	}
	if !found {
		t.Fatalf("lexer error not surfaced with its code: %v", bag.Items())
	}
}
