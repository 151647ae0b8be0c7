package vectors

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/iseefortune/go-verifier/verifier"
)

// Modulus is the range every vector file is frozen against.
const Modulus = 10

// ResultSink receives every successfully verified vector, e.g. an audit store.
type ResultSink interface {
	PutResult(ctx context.Context, source string, res verifier.Result) error
}

type Runner struct {
	nrWorkers int
	sink      ResultSink
	logger    *zap.SugaredLogger
}

// NewRunner creates a runner verifying up to nrWorkers vectors in parallel.
// sink may be nil.
func NewRunner(nrWorkers int, sink ResultSink, logger *zap.SugaredLogger) *Runner {
	if nrWorkers < 1 {
		nrWorkers = 1
	}

	return &Runner{nrWorkers: nrWorkers, sink: sink, logger: logger}
}

type Report struct {
	Outcomes []Outcome
	Passed   int
	Failed   int
}

// Err combines the failures of every vector, nil when all passed.
func (r Report) Err() error {
	var err error
	for _, o := range r.Outcomes {
		err = multierr.Append(err, o.Err)
	}

	return err
}

// Run checks every vector. Vector failures are collected in the report; the
// returned error is only set when the run itself could not complete.
func (r *Runner) Run(ctx context.Context, vectors []Vector) (Report, error) {
	if len(vectors) == 0 {
		return Report{}, ErrNoVectors
	}

	outcomes := make([]Outcome, len(vectors))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.nrWorkers)
	for i, v := range vectors {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			outcome := Check(v)
			if outcome.Passed() && r.sink != nil {
				err := r.sink.PutResult(ctx, v.Name, outcome.Result)
				if err != nil {
					return errors.Wrapf(err, "storing result of vector '%s'", v.Name)
				}
			}

			outcomes[i] = outcome
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Report{}, errors.Wrap(err, "running vectors")
	}

	report := Report{Outcomes: outcomes}
	for _, o := range outcomes {
		if o.Passed() {
			report.Passed++
			continue
		}

		report.Failed++
		r.logger.Errorw("vector failed", "name", o.Name, "error", o.Err)
	}
	r.logger.Infow("Finished vector run", "passed", report.Passed, "failed", report.Failed)

	return report, nil
}

// Check verifies a single vector against the pinned algorithm version and
// the frozen modulus.
func Check(v Vector) Outcome {
	err := verifier.CheckVersion(v.RngVersion)
	if err != nil {
		return Outcome{Name: v.Name, Err: errors.Wrapf(err, "vector '%s'", v.Name)}
	}

	res, err := verifier.Verify(uint64(v.Slot), v.Blockhash, Modulus)
	if err != nil {
		return Outcome{Name: v.Name, Err: errors.Wrapf(err, "vector '%s' failed", v.Name)}
	}

	if res.WinningNumber != v.ExpectedWinningNumber {
		return Outcome{Name: v.Name, Result: res, Err: newMismatchError(v.Name, v.ExpectedWinningNumber, res.WinningNumber)}
	}

	return Outcome{Name: v.Name, Result: res}
}
