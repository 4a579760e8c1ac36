package runner

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/gobqlint/internal/logging"
	"github.com/yaklabco/gobqlint/pkg/lint"
)

// ErrTargetFailed is returned, joined with the individual causes, when one
// or more targets could not be read.
var ErrTargetFailed = errors.New("one or more targets could not be read")

// Runner checks many files concurrently and replays their results into a
// single Reporter in discovery order.
type Runner struct {
	// Rules is the frozen rule snapshot shared by all workers.
	Rules *lint.RuleSet

	// Reporter is the single writer of the run state.
	Reporter *lint.Reporter
}

// New creates a new Runner.
func New(rules *lint.RuleSet, reporter *lint.Reporter) *Runner {
	return &Runner{Rules: rules, Reporter: reporter}
}

type indexedOutcome struct {
	index int
	FileOutcome
}

// Run discovers files under opts.Paths and checks them.
//
// Files are checked by a bounded worker pool, but the reporter sees them
// strictly in discovery order, so output and counters match a sequential
// run. Unreadable files are logged and skipped; their errors are returned
// joined with ErrTargetFailed after the run. A rule crash cancels the run.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.FromContext(ctx)
	state := r.Reporter.State()

	disc, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}
	state.AddTotal(lint.KeyDirectories, disc.Directories)

	result := &Result{
		Files: make([]FileOutcome, 0, len(disc.Files)),
		State: state,
	}
	result.Stats.FilesDiscovered = len(disc.Files)

	if len(disc.Files) == 0 {
		result.Total = state.Total()
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(disc.Files))
	logger.Debug("checking files", logging.FieldFiles, len(disc.Files), logging.FieldJobs, jobs)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	group, gctx := errgroup.WithContext(ctx)
	workCh := make(chan int)
	outCh := make(chan indexedOutcome)
	checkerOpts := opts.checkerOptions()

	group.Go(func() error {
		defer close(workCh)
		for i := range disc.Files {
			select {
			case <-gctx.Done():
				return nil
			case workCh <- i:
			}
		}
		return nil
	})

	for range jobs {
		group.Go(func() error {
			return r.worker(gctx, disc.Files, workCh, outCh, checkerOpts)
		})
	}

	var groupErr error
	go func() {
		groupErr = group.Wait()
		close(outCh)
	}()

	var (
		readErrs  []error
		replayErr error
		pending   = make(map[int]FileOutcome)
		next      int
	)
	for out := range outCh {
		if replayErr != nil {
			continue
		}
		pending[out.index] = out.FileOutcome

		for {
			outcome, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++

			if err := r.replay(ctx, outcome, opts.Verbose); err != nil {
				replayErr = err
				cancel()
				break
			}
			if outcome.Error != nil {
				readErrs = append(readErrs, outcome.Error)
			}
			result.accumulate(outcome)
		}
	}

	result.Total = state.Total()

	switch {
	case replayErr != nil:
		return result, replayErr
	case groupErr != nil:
		return result, groupErr
	case ctx.Err() != nil:
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	case len(readErrs) > 0:
		return result, fmt.Errorf("%w: %w", ErrTargetFailed, errors.Join(readErrs...))
	}
	return result, nil
}

// worker checks files by index. Read failures become outcomes; anything
// else, a rule crash or cancellation, stops the group.
func (r *Runner) worker(
	ctx context.Context,
	files []string,
	workCh <-chan int,
	outCh chan<- indexedOutcome,
	opts lint.CheckerOptions,
) error {
	for i := range workCh {
		out := indexedOutcome{index: i, FileOutcome: FileOutcome{Path: files[i]}}

		fr, err := lint.NewChecker(files[i], r.Rules, opts).Run(ctx)
		switch {
		case err == nil:
			out.Result = fr
		case isReadError(err):
			out.Error = err
		default:
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case outCh <- out:
		}
	}
	return nil
}

// replay feeds one outcome to the reporter.
func (r *Runner) replay(ctx context.Context, outcome FileOutcome, verbose int) error {
	logger := logging.FromContext(ctx)
	state := r.Reporter.State()

	state.AddTotal(lint.KeyFiles, 1)
	if verbose >= 1 {
		logger.Info("checking " + outcome.Path)
	}

	if outcome.Error != nil {
		logger.Error("cannot check file", logging.FieldPath, outcome.Path, logging.FieldError, outcome.Error)
		return nil
	}

	if _, err := r.Reporter.ReportFile(outcome.Result); err != nil {
		return fmt.Errorf("report %s: %w", outcome.Path, err)
	}
	return nil
}

func isReadError(err error) bool {
	return errors.Is(err, lint.ErrFileNotFound) ||
		errors.Is(err, lint.ErrPermissionDenied) ||
		errors.Is(err, lint.ErrReadFailure)
}
