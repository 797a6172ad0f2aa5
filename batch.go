package exprfold

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// EvalAll evaluates e once for each set of variables, using at most limit
// goroutines at a time, or any number if limit is not positive. The result
// for vars[i] is at index i. If any evaluation fails or ctx is canceled,
// EvalAll stops starting new evaluations and returns the first error.
// EvalAll logs to the Logger e was parsed with.
func EvalAll[T any](ctx context.Context, e *Expr[T], vars []map[string]T, limit int) ([]T, error) {
	log := e.log
	if log == nil {
		log = defaultcfg.log
	}
	log = log.WithField("count", len(vars))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	r := make([]T, len(vars))
	for i, v := range vars {
		if gctx.Err() != nil {
			break
		}
		i, v := i, v
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			x, err := e.Eval(v)
			if err != nil {
				return fmt.Errorf("evaluating with variable set %d: %w", i, err)
			}
			r[i] = x
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.WithError(err).Debug("batch evaluation failed")
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if log.Logger.IsLevelEnabled(logrus.TraceLevel) {
		log.WithField("expr", e.String()).Trace("batch evaluated")
	}
	return r, nil
}
