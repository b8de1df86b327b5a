package hir

import (
	"fmt"

	"rustic/internal/ast"
	"rustic/internal/diag"
	"rustic/internal/source"
	"rustic/internal/types"
)

// Build resolves and type-checks a parsed program into HIR. Functions are
// collected in a signature pre-pass first, so calls may reference items
// declared later in the file. The first error aborts the build: it is
// reported through the reporter and returned.
func Build(program *ast.Program, in *types.Interner, reporter diag.Reporter) (*Module, error) {
	b := &builder{
		in:       in,
		reporter: reporter,
		sigIndex: make(map[string]int, len(program.Items)),
	}
	if err := b.collectSignatures(program); err != nil {
		return nil, err
	}
	mod := &Module{Funcs: make([]*Func, 0, len(program.Items))}
	for i, decl := range program.Items {
		fn, err := b.buildFunc(decl, b.sigs[i])
		if err != nil {
			return nil, err
		}
		mod.Funcs = append(mod.Funcs, fn)
	}
	return mod, nil
}

// signature is one entry of the symbol table built by the pre-pass.
type signature struct {
	index  int
	params []types.TypeID
	result types.TypeID
}

type builder struct {
	in       *types.Interner
	reporter diag.Reporter
	sigs     []signature
	sigIndex map[string]int
}

// fail reports the diagnostic and returns a matching error so callers can
// abort immediately.
func (b *builder) fail(code diag.Code, span source.Span, msg string) error {
	diag.ReportError(b.reporter, code, span, msg)
	return fmt.Errorf("%s: %s", code.ID(), msg)
}

func (b *builder) resolveType(ref ast.TypeRef) (types.TypeID, error) {
	id, ok := b.in.ByName(ref.Name)
	if !ok {
		return types.NoTypeID, b.fail(diag.LowUnresolvedName, ref.Span,
			fmt.Sprintf("unknown type %q", ref.Name))
	}
	return id, nil
}

func (b *builder) collectSignatures(program *ast.Program) error {
	b.sigs = make([]signature, len(program.Items))
	for i, decl := range program.Items {
		if _, dup := b.sigIndex[decl.Name]; dup {
			return b.fail(diag.LowDuplicateFunction, decl.Span,
				fmt.Sprintf("function %q is already defined", decl.Name))
		}
		sig := signature{index: i, result: b.in.Builtins().Unit}
		for _, p := range decl.Params {
			tid, err := b.resolveType(p.Type)
			if err != nil {
				return err
			}
			sig.params = append(sig.params, tid)
		}
		if decl.HasResult {
			tid, err := b.resolveType(decl.Result)
			if err != nil {
				return err
			}
			sig.result = tid
		}
		b.sigs[i] = sig
		b.sigIndex[decl.Name] = i
	}
	return nil
}

// funcBuilder carries the per-function state: the scope stack, the loop
// nesting depth for break/continue checks, and the statement list currently
// receiving output. Desugarings (if-expressions, block expressions) redirect
// stmts into arm blocks while they run.
type funcBuilder struct {
	b         *builder
	fn        *Func
	stmts     *[]Stmt
	scopes    []map[string]LocalID
	loopDepth int
	tempSeq   int
}

func (fb *funcBuilder) emit(s Stmt) {
	*fb.stmts = append(*fb.stmts, s)
}

func (b *builder) buildFunc(decl *ast.FuncDecl, sig signature) (*Func, error) {
	fn := &Func{
		Name:   decl.Name,
		Result: sig.result,
		Span:   decl.Span,
	}
	fb := &funcBuilder{b: b, fn: fn}
	fb.pushScope()
	defer fb.popScope()

	for i, p := range decl.Params {
		tid := sig.params[i]
		if _, err := fb.declare(p.Name, tid, false, p.Span); err != nil {
			return nil, err
		}
		fn.Params = append(fn.Params, Param{Name: p.Name, Type: tid, Span: p.Span})
	}

	body := &Block{Span: decl.Body.Span}
	fb.stmts = &body.Stmts
	for i := range decl.Body.Stmts {
		if err := fb.buildStmt(&decl.Body.Stmts[i]); err != nil {
			return nil, err
		}
	}
	if err := fb.buildBodyTail(decl.Body); err != nil {
		return nil, err
	}
	fn.Body = body
	return fn, nil
}

// buildBodyTail turns the function body's trailing expression into an
// explicit return. A unit-typed tail in a unit function is evaluated for
// effect only.
func (fb *funcBuilder) buildBodyTail(body *ast.Block) error {
	if body.Tail == nil {
		return nil
	}
	val, err := fb.buildExpr(body.Tail, fb.fn.Result)
	if err != nil {
		return err
	}
	if val.Type != fb.fn.Result {
		return fb.typeMismatch(body.Tail.Span, fb.fn.Result, val.Type)
	}
	if fb.b.in.IsUnit(val.Type) {
		fb.emit(Stmt{Kind: StmtExpr, Span: body.Tail.Span, Data: ExprStmtData{Expr: val}})
		return nil
	}
	fb.emit(Stmt{Kind: StmtReturn, Span: body.Tail.Span, Data: ReturnData{Value: val}})
	return nil
}

func (fb *funcBuilder) typeMismatch(span source.Span, want, got types.TypeID) error {
	return fb.b.fail(diag.LowTypeMismatch, span,
		fmt.Sprintf("expected %s, found %s", fb.b.in.Name(want), fb.b.in.Name(got)))
}

func (fb *funcBuilder) buildStmt(s *ast.Stmt) error {
	switch s.Kind {
	case ast.StmtLet:
		return fb.buildLet(s)
	case ast.StmtAssign:
		return fb.buildAssign(s)
	case ast.StmtExpr:
		data := s.Data.(ast.ExprStmtData)
		val, err := fb.buildExpr(data.Expr, types.NoTypeID)
		if err != nil {
			return err
		}
		fb.emit(Stmt{Kind: StmtExpr, Span: s.Span, Data: ExprStmtData{Expr: val}})
		return nil
	case ast.StmtIf:
		return fb.buildIf(s)
	case ast.StmtWhile:
		data := s.Data.(ast.WhileData)
		return fb.buildLoop(s.Span, data.Cond, data.Body)
	case ast.StmtLoop:
		data := s.Data.(ast.LoopData)
		return fb.buildLoop(s.Span, nil, data.Body)
	case ast.StmtBreak:
		if fb.loopDepth == 0 {
			return fb.b.fail(diag.LowBreakOutsideLoop, s.Span, "'break' outside of a loop")
		}
		fb.emit(Stmt{Kind: StmtBreak, Span: s.Span, Data: BreakData{}})
		return nil
	case ast.StmtContinue:
		if fb.loopDepth == 0 {
			return fb.b.fail(diag.LowContinueOutsideLoop, s.Span, "'continue' outside of a loop")
		}
		fb.emit(Stmt{Kind: StmtContinue, Span: s.Span, Data: ContinueData{}})
		return nil
	case ast.StmtReturn:
		return fb.buildReturn(s)
	default:
		return fb.b.fail(diag.LowUnsupportedConstruct, s.Span,
			fmt.Sprintf("cannot lower %s statement", s.Kind))
	}
}

func (fb *funcBuilder) buildLet(s *ast.Stmt) error {
	data := s.Data.(ast.LetData)
	expected := types.NoTypeID
	if data.HasType {
		tid, err := fb.b.resolveType(data.Type)
		if err != nil {
			return err
		}
		expected = tid
	}
	val, err := fb.buildExpr(data.Init, expected)
	if err != nil {
		return err
	}
	if expected != types.NoTypeID && val.Type != expected {
		return fb.typeMismatch(data.Init.Span, expected, val.Type)
	}
	id, err := fb.declare(data.Name, val.Type, data.IsMut, s.Span)
	if err != nil {
		return err
	}
	fb.emit(Stmt{Kind: StmtLet, Span: s.Span, Data: LetData{Local: id, Value: val}})
	return nil
}

func (fb *funcBuilder) buildAssign(s *ast.Stmt) error {
	data := s.Data.(ast.AssignData)
	id, ok := fb.lookup(data.Name)
	if !ok {
		return fb.b.fail(diag.LowUnresolvedName, data.NameSpan,
			fmt.Sprintf("cannot find %q in this scope", data.Name))
	}
	local := fb.fn.Locals[id]
	if !local.IsMut {
		return fb.b.fail(diag.LowAssignImmutable, data.NameSpan,
			fmt.Sprintf("cannot assign to %q: not declared 'mut'", data.Name))
	}
	val, err := fb.buildExpr(data.Value, local.Type)
	if err != nil {
		return err
	}
	if val.Type != local.Type {
		return fb.typeMismatch(data.Value.Span, local.Type, val.Type)
	}
	fb.emit(Stmt{Kind: StmtAssign, Span: s.Span, Data: AssignData{Local: id, Value: val}})
	return nil
}

func (fb *funcBuilder) buildCond(e *ast.Expr) (*Expr, error) {
	cond, err := fb.buildExpr(e, fb.b.in.Builtins().Bool)
	if err != nil {
		return nil, err
	}
	if !fb.b.in.IsBool(cond.Type) {
		return nil, fb.b.fail(diag.LowCondNotBool, e.Span,
			fmt.Sprintf("condition must be 'bool', found %s", fb.b.in.Name(cond.Type)))
	}
	return cond, nil
}

func (fb *funcBuilder) buildIf(s *ast.Stmt) error {
	data := s.Data.(ast.IfData)
	cond, err := fb.buildCond(data.Cond)
	if err != nil {
		return err
	}
	then, err := fb.buildStmtBlock(data.Then)
	if err != nil {
		return err
	}
	var els *Block
	if data.Else != nil {
		els, err = fb.buildStmtBlock(data.Else)
		if err != nil {
			return err
		}
	}
	fb.emit(Stmt{Kind: StmtIf, Span: s.Span, Data: IfData{Cond: cond, Then: then, Else: els}})
	return nil
}

// buildLoop lowers both loop forms to the canonical one: 'while c' keeps
// its condition, 'loop' gets a constant true. The condition belongs to the
// loop header, so it is built inside the loop's statement list.
func (fb *funcBuilder) buildLoop(span source.Span, astCond *ast.Expr, astBody *ast.Block) error {
	out := Stmt{Kind: StmtLoop, Span: span}
	loop := LoopData{}

	if astCond == nil {
		loop.Cond = &Expr{
			Kind: ExprLiteral, Type: fb.b.in.Builtins().Bool, Span: span,
			Data: LiteralData{Int: 1},
		}
	} else {
		cond, err := fb.buildCond(astCond)
		if err != nil {
			return err
		}
		loop.Cond = cond
	}

	fb.loopDepth++
	body, err := fb.buildStmtBlock(astBody)
	fb.loopDepth--
	if err != nil {
		return err
	}
	loop.Body = body
	out.Data = loop
	fb.emit(out)
	return nil
}

func (fb *funcBuilder) buildReturn(s *ast.Stmt) error {
	data := s.Data.(ast.ReturnData)
	result := fb.fn.Result
	if data.Value == nil {
		if !fb.b.in.IsUnit(result) {
			return fb.b.fail(diag.LowTypeMismatch, s.Span,
				fmt.Sprintf("expected %s, found ()", fb.b.in.Name(result)))
		}
		fb.emit(Stmt{Kind: StmtReturn, Span: s.Span, Data: ReturnData{}})
		return nil
	}
	val, err := fb.buildExpr(data.Value, result)
	if err != nil {
		return err
	}
	if val.Type != result {
		return fb.typeMismatch(data.Value.Span, result, val.Type)
	}
	if fb.b.in.IsUnit(val.Type) {
		fb.emit(Stmt{Kind: StmtExpr, Span: s.Span, Data: ExprStmtData{Expr: val}})
		fb.emit(Stmt{Kind: StmtReturn, Span: s.Span, Data: ReturnData{}})
		return nil
	}
	fb.emit(Stmt{Kind: StmtReturn, Span: s.Span, Data: ReturnData{Value: val}})
	return nil
}

// buildStmtBlock lowers a statement-position block (if arm, loop body) in
// its own scope. A trailing expression here has no consumer, so it is kept
// for its effects only.
func (fb *funcBuilder) buildStmtBlock(src *ast.Block) (*Block, error) {
	dst := &Block{Span: src.Span}
	prev := fb.stmts
	fb.stmts = &dst.Stmts
	fb.pushScope()
	defer func() {
		fb.popScope()
		fb.stmts = prev
	}()

	for i := range src.Stmts {
		if err := fb.buildStmt(&src.Stmts[i]); err != nil {
			return nil, err
		}
	}
	if src.Tail != nil {
		val, err := fb.buildExpr(src.Tail, types.NoTypeID)
		if err != nil {
			return nil, err
		}
		fb.emit(Stmt{Kind: StmtExpr, Span: src.Tail.Span, Data: ExprStmtData{Expr: val}})
	}
	return dst, nil
}
