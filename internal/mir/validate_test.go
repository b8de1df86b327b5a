package mir

import (
	"strings"
	"testing"

	"rustic/internal/diag"
	"rustic/internal/types"
)

func singleFunc(f *Func) *Module {
	return &Module{Funcs: []*Func{f}}
}

func validateBag(t *testing.T, m *Module) (*diag.Bag, error) {
	t.Helper()
	bag := diag.NewBag(16)
	err := Validate(m, diag.BagReporter{Bag: bag})
	return bag, err
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestValidateUnterminatedBlock(t *testing.T) {
	f := &Func{Name: "f", Blocks: []Block{{ID: 0}}, Entry: 0}
	bag, err := validateBag(t, singleFunc(f))
	if err == nil || !hasCode(bag, diag.InvUnterminatedBlock) {
		t.Fatalf("want %s, got err=%v items=%v", diag.InvUnterminatedBlock.ID(), err, bag.Items())
	}
	if !strings.Contains(err.Error(), "no terminator") {
		t.Errorf("error should name the failing check: %v", err)
	}
}

func TestValidateBadTarget(t *testing.T) {
	f := &Func{
		Name: "f",
		Blocks: []Block{{
			ID:   0,
			Term: Terminator{Kind: TermGoto, Goto: GotoTerm{Target: 7}},
		}},
		Entry: 0,
	}
	bag, err := validateBag(t, singleFunc(f))
	if err == nil || !hasCode(bag, diag.InvBadBlockTarget) {
		t.Fatalf("want %s, got err=%v items=%v", diag.InvBadBlockTarget.ID(), err, bag.Items())
	}
}

func TestValidateUnreachableBlock(t *testing.T) {
	f := &Func{
		Name: "f",
		Blocks: []Block{
			{ID: 0, Term: Terminator{Kind: TermReturn}},
			{ID: 1, Term: Terminator{Kind: TermReturn}},
		},
		Entry: 0,
	}
	bag, err := validateBag(t, singleFunc(f))
	if err == nil || !hasCode(bag, diag.InvUnreachableBlock) {
		t.Fatalf("want %s, got err=%v items=%v", diag.InvUnreachableBlock.ID(), err, bag.Items())
	}
}

func TestValidateRegisterRedefined(t *testing.T) {
	in := types.NewInterner()
	i32 := in.Builtins().I32
	f := &Func{
		Name:       "f",
		Slots:      []Slot{{Name: "x", Type: i32}},
		ValueCount: 1,
		Blocks: []Block{{
			ID: 0,
			Instrs: []Instr{
				{Kind: InstrLoad, Load: LoadInstr{Dst: 0, Type: i32, Slot: 0}},
				{Kind: InstrLoad, Load: LoadInstr{Dst: 0, Type: i32, Slot: 0}},
			},
			Term: Terminator{Kind: TermReturn},
		}},
		Entry: 0,
	}
	bag, err := validateBag(t, singleFunc(f))
	if err == nil || !hasCode(bag, diag.InvRegisterRedefined) {
		t.Fatalf("want %s, got err=%v items=%v", diag.InvRegisterRedefined.ID(), err, bag.Items())
	}
}

func TestValidateUseBeforeDefInBlock(t *testing.T) {
	in := types.NewInterner()
	i32 := in.Builtins().I32
	f := &Func{
		Name:       "f",
		Slots:      []Slot{{Name: "x", Type: i32}},
		ValueCount: 2,
		Blocks: []Block{{
			ID: 0,
			Instrs: []Instr{
				// v1 read before its load defines it
				{Kind: InstrBinOp, Bin: BinInstr{
					Dst: 0, Type: i32, Op: BinAdd,
					LHS: RegOperand(i32, 1), RHS: ConstOperand(i32, 1),
				}},
				{Kind: InstrLoad, Load: LoadInstr{Dst: 1, Type: i32, Slot: 0}},
			},
			Term: Terminator{Kind: TermReturn},
		}},
		Entry: 0,
	}
	bag, err := validateBag(t, singleFunc(f))
	if err == nil || !hasCode(bag, diag.InvUseBeforeDef) {
		t.Fatalf("want %s, got err=%v items=%v", diag.InvUseBeforeDef.ID(), err, bag.Items())
	}
}

func TestValidateUseDefinedOnOnePathOnly(t *testing.T) {
	in := types.NewInterner()
	boolT := in.Builtins().Bool
	i32 := in.Builtins().I32
	// bb0 branches to bb1/bb2; only bb1 defines v1, yet bb3 uses it.
	f := &Func{
		Name:       "f",
		Result:     i32,
		Slots:      []Slot{{Name: "x", Type: i32}},
		ValueCount: 2,
		Blocks: []Block{
			{ID: 0,
				Instrs: []Instr{{Kind: InstrLoad, Load: LoadInstr{Dst: 0, Type: boolT, Slot: 0}}},
				Term: Terminator{Kind: TermBranch, Branch: BranchTerm{
					Cond: RegOperand(boolT, 0), Then: 1, Else: 2,
				}}},
			{ID: 1,
				Instrs: []Instr{{Kind: InstrLoad, Load: LoadInstr{Dst: 1, Type: i32, Slot: 0}}},
				Term:   Terminator{Kind: TermGoto, Goto: GotoTerm{Target: 3}}},
			{ID: 2,
				Term: Terminator{Kind: TermGoto, Goto: GotoTerm{Target: 3}}},
			{ID: 3,
				Term: Terminator{Kind: TermReturn, Return: ReturnTerm{
					HasValue: true, Value: RegOperand(i32, 1),
				}}},
		},
		Entry: 0,
	}
	bag, err := validateBag(t, singleFunc(f))
	if err == nil || !hasCode(bag, diag.InvUseBeforeDef) {
		t.Fatalf("a def on one branch only must not dominate the join, got err=%v items=%v",
			err, bag.Items())
	}
}

func TestValidateDefOnBothPathsRejectedStill(t *testing.T) {
	// Both arms defining the same register is a single-definition
	// violation even though every path reaches a definition.
	in := types.NewInterner()
	boolT := in.Builtins().Bool
	i32 := in.Builtins().I32
	f := &Func{
		Name:       "f",
		Result:     i32,
		Slots:      []Slot{{Name: "x", Type: i32}},
		ValueCount: 2,
		Blocks: []Block{
			{ID: 0,
				Instrs: []Instr{{Kind: InstrLoad, Load: LoadInstr{Dst: 0, Type: boolT, Slot: 0}}},
				Term: Terminator{Kind: TermBranch, Branch: BranchTerm{
					Cond: RegOperand(boolT, 0), Then: 1, Else: 2,
				}}},
			{ID: 1,
				Instrs: []Instr{{Kind: InstrLoad, Load: LoadInstr{Dst: 1, Type: i32, Slot: 0}}},
				Term:   Terminator{Kind: TermGoto, Goto: GotoTerm{Target: 3}}},
			{ID: 2,
				Instrs: []Instr{{Kind: InstrLoad, Load: LoadInstr{Dst: 1, Type: i32, Slot: 0}}},
				Term:   Terminator{Kind: TermGoto, Goto: GotoTerm{Target: 3}}},
			{ID: 3,
				Term: Terminator{Kind: TermReturn, Return: ReturnTerm{
					HasValue: true, Value: RegOperand(i32, 1),
				}}},
		},
		Entry: 0,
	}
	bag, err := validateBag(t, singleFunc(f))
	if err == nil || !hasCode(bag, diag.InvRegisterRedefined) {
		t.Fatalf("want %s, got err=%v items=%v", diag.InvRegisterRedefined.ID(), err, bag.Items())
	}
}

func TestValidateAcceptsLoweredModules(t *testing.T) {
	mod, _ := mustLower(t, `
fn gcd(a: i32, b: i32) -> i32 {
    let mut x = a;
    let mut y = b;
    while y != 0 {
        let t = y;
        y = x % y;
        x = t;
    }
    return x;
}
fn main() -> i32 {
    return gcd(48, 18);
}`)
	if err := Validate(mod, diag.NopReporter{}); err != nil {
		t.Fatalf("well-formed module rejected: %v", err)
	}
}
