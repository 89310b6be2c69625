package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/codalotl/segdiff/internal/config"
	"github.com/codalotl/segdiff/internal/segment"
	"github.com/codalotl/segdiff/internal/simplelogger"
	"github.com/codalotl/segdiff/internal/structdiff"
)

// document is one input as read from disk or stdin.
type document struct {
	name     string
	raw      []byte
	parsed   segment.Document
	parseErr error
}

// readDocument reads name ("-" is stdin) and parses it. Parse failures are kept in parseErr so callers can fall back to a text diff; only read errors are returned.
func (a *app) readDocument(name string) (document, error) {
	var data []byte
	var err error
	if name == "-" {
		data, err = io.ReadAll(a.in)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return document{}, fmt.Errorf("read %s: %w", name, err)
	}
	d := document{name: name, raw: data}
	d.parsed, d.parseErr = segment.Parse(data)
	return d, nil
}

// readPair reads both documents concurrently.
func (a *app) readPair(ctx context.Context, leftName, rightName string) (document, document, error) {
	if leftName == "-" && rightName == "-" {
		return document{}, document{}, errors.New("only one document can be read from stdin")
	}
	var docs [2]document
	g, _ := errgroup.WithContext(ctx)
	for i, name := range []string{leftName, rightName} {
		g.Go(func() error {
			d, err := a.readDocument(name)
			docs[i] = d
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return document{}, document{}, err
	}
	return docs[0], docs[1], nil
}

// structuralProblem explains why left and right can't be compared segment by segment, or returns nil if they can.
func structuralProblem(left, right document) error {
	if left.parseErr != nil {
		return fmt.Errorf("%s: %w", left.name, left.parseErr)
	}
	if right.parseErr != nil {
		return fmt.Errorf("%s: %w", right.name, right.parseErr)
	}
	if left.parsed.Dialect != right.parsed.Dialect {
		return fmt.Errorf("dialects differ (%s is %s, %s is %s)", left.name, left.parsed.Dialect, right.name, right.parsed.Dialect)
	}
	return nil
}

func checkSize(d document, limit int) error {
	if n := len(d.parsed.Segments); n > limit {
		return fmt.Errorf("%s has %d segments, more than maxsegments (%d)", d.name, n, limit)
	}
	return nil
}

// compareDocuments aligns two parsed documents, giving up after timeout if it is positive.
func compareDocuments(ctx context.Context, cfg config.Config, left, right document, timeout time.Duration) (structdiff.Result, error) {
	if err := checkSize(left, cfg.MaxSegments); err != nil {
		return structdiff.Result{}, err
	}
	if err := checkSize(right, cfg.MaxSegments); err != nil {
		return structdiff.Result{}, err
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := structdiff.Compare(ctx, left.parsed.Segments, right.parsed.Segments)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return structdiff.Result{}, fmt.Errorf("comparison timed out after %s", timeout)
		}
		return structdiff.Result{}, err
	}
	simplelogger.Log("compare %s (%d) vs %s (%d): %d rows in %s", left.name, len(left.parsed.Segments), right.name, len(right.parsed.Segments), len(res.Rows), time.Since(start))
	return res, nil
}

// presentFlags are the view flags shared by compare and view.
type presentFlags struct {
	diffsOnly     bool
	typeFilter    string
	context       int
	pins          []string
	noDefaultPins bool
}

// contextUnset marks --context as not given, so the configured value applies.
const contextUnset = -1

func (f presentFlags) contextSize(cfg config.Config) int {
	if f.context == contextUnset {
		return cfg.ContextSize
	}
	return max(f.context, 0)
}

func (f presentFlags) pinnedIDs(cfg config.Config, d segment.Dialect) []string {
	var ids []string
	if !f.noDefaultPins {
		ids = cfg.PinsFor(d)
	}
	return append(ids, f.pins...)
}

func (f presentFlags) options(cfg config.Config, d segment.Dialect) structdiff.PresentOptions {
	return structdiff.PresentOptions{
		TypeFilter:  f.typeFilter,
		DiffsOnly:   f.diffsOnly,
		PinnedIDs:   structdiff.NewIDSet(f.pinnedIDs(cfg, d)...),
		ContextSize: f.contextSize(cfg),
	}
}
