// Package driver orchestrates the compilation pipeline: read, parse, HIR
// build, MIR lowering, validation, IR emission, module assembly. The first
// failing stage aborts the run; no output file is created unless every
// stage succeeded.
package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"rustic/internal/diag"
	"rustic/internal/hir"
	"rustic/internal/mir"
	"rustic/internal/observ"
	"rustic/internal/parser"
	"rustic/internal/source"
	"rustic/internal/types"
)

// Stages lists the pipeline stage names in execution order, as reported
// through Options.Progress and in the timings output.
var Stages = []string{"read", "parse", "hir", "mir", "validate", "emit", "assemble"}

// Options configures one compilation.
type Options struct {
	Path     string // input file path
	Source   []byte // overrides disk read when non-nil
	MaxDiag  int    // diagnostic cap, 0 means a sensible default
	Jobs     int    // emission parallelism, <=0 means GOMAXPROCS
	EmitMIR  bool   // capture the MIR dump alongside the module
	Cache    *DiskCache
	Progress func(stage string) // called as each stage starts
}

// Result carries everything a frontend needs to render the outcome.
type Result struct {
	Module   string // assembled IR text, empty on failure
	MIR      string // MIR dump when Options.EmitMIR was set
	Bag      *diag.Bag
	FileSet  *source.FileSet
	Timings  observ.Report
	CacheHit bool
}

// ErrCompileFailed is returned when diagnostics were produced; the Bag in
// the Result distinguishes user errors from compiler defects.
var ErrCompileFailed = errors.New("compilation failed")

const defaultMaxDiag = 64

// Compile runs the whole pipeline for one file.
func Compile(ctx context.Context, opts Options) (*Result, error) {
	maxDiag := opts.MaxDiag
	if maxDiag <= 0 {
		maxDiag = defaultMaxDiag
	}
	bag := diag.NewBag(maxDiag)
	reporter := diag.BagReporter{Bag: bag}
	timer := observ.NewTimer()
	fileSet := source.NewFileSet()
	res := &Result{Bag: bag, FileSet: fileSet}

	finish := func(err error) (*Result, error) {
		res.Timings = timer.Report()
		return res, err
	}
	begin := func(stage string) int {
		if opts.Progress != nil {
			opts.Progress(stage)
		}
		return timer.Begin(stage)
	}

	ph := begin("read")
	var fileID source.FileID
	if opts.Source != nil {
		fileID = fileSet.AddVirtual(opts.Path, opts.Source)
	} else {
		var err error
		fileID, err = fileSet.Load(opts.Path)
		if err != nil {
			diag.ReportError(reporter, diag.DrvReadFailed, source.Span{}, err.Error())
			timer.End(ph)
			return finish(ErrCompileFailed)
		}
	}
	file := fileSet.Get(fileID)
	timer.End(ph)

	// A cache hit skips the pipeline entirely; emission is deterministic,
	// so the cached text is exact.
	cacheKey := SourceDigest(file.Content)
	if opts.Cache != nil && !opts.EmitMIR {
		if module, ok, err := opts.Cache.Get(cacheKey); err == nil && ok {
			res.Module = module
			res.CacheHit = true
			return finish(nil)
		}
	}

	ph = begin("parse")
	program, ok := parser.ParseFile(file, parser.Options{
		MaxErrors: uint(maxDiag),
		Reporter:  reporter,
	})
	timer.End(ph)
	if !ok {
		return finish(ErrCompileFailed)
	}

	in := types.NewInterner()

	ph = begin("hir")
	hirMod, err := hir.Build(program, in, reporter)
	timer.End(ph)
	if err != nil {
		return finish(ErrCompileFailed)
	}

	ph = begin("mir")
	mirMod, err := mir.Lower(hirMod, in, reporter)
	timer.End(ph)
	if err != nil {
		return finish(ErrCompileFailed)
	}
	if opts.EmitMIR {
		res.MIR = mir.Dump(mirMod, in)
	}

	ph = begin("validate")
	err = mir.Validate(mirMod, reporter)
	timer.End(ph)
	if err != nil {
		return finish(ErrCompileFailed)
	}

	ph = begin("emit")
	texts, err := emitFuncs(ctx, mirMod, in, opts.Jobs)
	timer.End(ph)
	if err != nil {
		return finish(err)
	}

	ph = begin("assemble")
	res.Module = assembleModule(file.Path, texts)
	timer.End(ph)

	if opts.Cache != nil {
		// Cache write failures are not compile failures.
		_ = opts.Cache.Put(cacheKey, res.Module)
	}
	return finish(nil)
}

// WriteModule lands the assembled text atomically: a temp file in the
// destination directory, then a rename. A failed compile never reaches
// this, so partial outputs cannot appear.
func WriteModule(path, module string) error {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, ".rustic-*")
	if err != nil {
		return err
	}
	if _, err := f.WriteString(module); err != nil {
		f.Close()
		os.Remove(f.Name())
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return err
	}
	return os.Rename(f.Name(), path)
}
