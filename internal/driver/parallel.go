package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"rustic/internal/backend/llvm"
	"rustic/internal/mir"
	"rustic/internal/types"
)

// emitFuncs produces each function's IR text. With jobs > 1 the functions
// are emitted concurrently; each goroutine owns a distinct result index, so
// declaration order survives without extra bookkeeping. The module must be
// validated before this runs.
func emitFuncs(ctx context.Context, m *mir.Module, in *types.Interner, jobs int) ([]string, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	texts := make([]string, len(m.Funcs))
	if jobs == 1 || len(m.Funcs) < 2 {
		for i, f := range m.Funcs {
			text, err := llvm.EmitFunc(m, f, in)
			if err != nil {
				return nil, err
			}
			texts[i] = text
		}
		return texts, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(m.Funcs)))
	for i, f := range m.Funcs {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			text, err := llvm.EmitFunc(m, f, in)
			if err != nil {
				return err
			}
			texts[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return texts, nil
}
