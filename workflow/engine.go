package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/arloliu/go-fpsensor/device"
	"github.com/arloliu/go-fpsensor/internal/pool"
	"github.com/arloliu/go-fpsensor/logger"
)

// Device is the subset of *device.Client the workflows drive.
type Device interface {
	GenerateImage(ctx context.Context) (device.Result, error)
	GenerateCharacter(ctx context.Context, buf device.CharBuffer) (device.Result, error)
	GenerateTemplate(ctx context.Context) (device.Result, error)
	CheckMatch(ctx context.Context) (*device.MatchResult, error)
	Search(ctx context.Context, buf device.CharBuffer, r device.Range) (*device.SearchResult, error)
	SearchLibrary(ctx context.Context, buf device.CharBuffer) (*device.SearchResult, error)
	StoreTemplate(ctx context.Context, buf device.CharBuffer, position int) (*device.StoreResult, error)
	GetTemplateCount(ctx context.Context) (*device.TemplateCount, error)
	GetTemplateIndex(ctx context.Context, page int) (*device.TemplateIndex, error)
}

// EnrollResult is the outcome of Enroll. On failure it holds what the
// completed stages produced.
type EnrollResult struct {
	// Stage is the last stage entered.
	Stage Stage
	// DuplicateOf is the position of an existing template for the same
	// finger; valid when Enroll fails with ErrDuplicateFinger.
	DuplicateOf uint16
	MatchScore  uint16
	PageID      uint16
	Count       uint16
}

// Engine runs workflows on one device.
type Engine struct {
	dev    Device
	cfg    *Config
	logger logger.Logger
}

// New creates an Engine driving dev.
func New(dev Device, opts ...Option) (*Engine, error) {
	if dev == nil {
		return nil, errors.New("workflow: device must not be nil")
	}

	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}

	return &Engine{dev: dev, cfg: cfg, logger: cfg.logger}, nil
}

func (e *Engine) enter(workflow string, stage Stage) {
	e.logger.Debug("workflow stage", "workflow", workflow, "stage", stage.String())
	if e.cfg.observer != nil {
		e.cfg.observer(stage)
	}
}

func stageErr(stage Stage, err error) error {
	return &StageError{Stage: stage, Err: err}
}

// ScanFinger polls the sensor until a finger is captured into the image
// buffer. Only an empty sensor is retried; it fails with ErrNoFinger after
// MaxScanAttempts captures.
func (e *Engine) ScanFinger(ctx context.Context) error {
	for attempt := 1; attempt <= e.cfg.maxScanAttempts; attempt++ {
		res, err := e.dev.GenerateImage(ctx)
		if err != nil {
			return err
		}

		switch res.Status {
		case device.StatusFingerDetected:
			e.logger.Debug("finger detected", "attempt", attempt)
			return nil

		case device.StatusFingerUndetected:
			if attempt < e.cfg.maxScanAttempts {
				if err := pool.Sleep(ctx, e.cfg.pollInterval); err != nil {
					return err
				}
			}

		default:
			return res.Err()
		}
	}

	return fmt.Errorf("%w after %d attempts", ErrNoFinger, e.cfg.maxScanAttempts)
}

func (e *Engine) extract(ctx context.Context, buf device.CharBuffer) error {
	res, err := e.dev.GenerateCharacter(ctx, buf)
	if err != nil {
		return err
	}

	return res.Err()
}

// Enroll captures a finger twice, checks it is not already enrolled and that
// both captures match, then stores the merged template at the first free
// position.
func (e *Engine) Enroll(ctx context.Context) (*EnrollResult, error) {
	out := &EnrollResult{}
	step := func(stage Stage, fn func() error) error {
		out.Stage = stage
		e.enter("enroll", stage)
		if err := fn(); err != nil {
			e.logger.Debug("workflow aborted", "workflow", "enroll", "stage", stage.String(), "error", err)
			return stageErr(stage, err)
		}

		return nil
	}

	steps := []struct {
		stage Stage
		fn    func() error
	}{
		{StageScan, func() error { return e.ScanFinger(ctx) }},
		{StageExtract, func() error { return e.extract(ctx, device.CharBuffer1) }},
		{StageProbeDuplicate, func() error {
			res, err := e.dev.SearchLibrary(ctx, device.CharBuffer1)
			if err != nil {
				return err
			}
			if res.Found {
				out.DuplicateOf = res.PageID
				return fmt.Errorf("%w at position %d", ErrDuplicateFinger, res.PageID)
			}
			if !res.Completed() {
				return res.Err()
			}

			return nil
		}},
		{StageDebounce, func() error { return pool.Sleep(ctx, e.cfg.debounce) }},
		{StageRescan, func() error { return e.ScanFinger(ctx) }},
		{StageExtractSecond, func() error { return e.extract(ctx, device.CharBuffer2) }},
		{StageVerifyMatch, func() error {
			res, err := e.dev.CheckMatch(ctx)
			if err != nil {
				return err
			}
			if res.Status == device.StatusNotMatched {
				return ErrFingerMismatch
			}
			if err := res.Err(); err != nil {
				return err
			}
			out.MatchScore = res.Score

			return nil
		}},
		{StageMerge, func() error {
			res, err := e.dev.GenerateTemplate(ctx)
			if err != nil {
				return err
			}
			if res.Status == device.StatusCombineFail {
				return fmt.Errorf("%w: %w", ErrFingerMismatch, res.Err())
			}

			return res.Err()
		}},
		{StageCommit, func() error {
			res, err := e.dev.StoreTemplate(ctx, device.CharBuffer1, device.AutoPosition)
			if err != nil {
				return err
			}
			if err := res.Err(); err != nil {
				return err
			}
			out.PageID = res.PageID

			return nil
		}},
		{StageCount, func() error {
			res, err := e.dev.GetTemplateCount(ctx)
			if err != nil {
				return err
			}
			if err := res.Err(); err != nil {
				return err
			}
			out.Count = res.Count

			return nil
		}},
	}

	for _, s := range steps {
		if err := step(s.stage, s.fn); err != nil {
			return out, err
		}
	}

	out.Stage = StageDone
	e.enter("enroll", StageDone)
	e.logger.Info("finger enrolled", "pageID", out.PageID, "count", out.Count)

	return out, nil
}

// Search captures a finger and looks it up within r. A zero r.Count searches
// the whole library. A completed search without a hit is not an error;
// check SearchResult.Found.
func (e *Engine) Search(ctx context.Context, r device.Range) (*device.SearchResult, error) {
	e.enter("search", StageScan)
	if err := e.ScanFinger(ctx); err != nil {
		return nil, stageErr(StageScan, err)
	}

	e.enter("search", StageExtract)
	if err := e.extract(ctx, device.CharBuffer1); err != nil {
		return nil, stageErr(StageExtract, err)
	}

	e.enter("search", StageSearch)
	var (
		res *device.SearchResult
		err error
	)
	if r.Count == 0 {
		res, err = e.dev.SearchLibrary(ctx, device.CharBuffer1)
	} else {
		res, err = e.dev.Search(ctx, device.CharBuffer1, r)
	}
	if err != nil {
		return nil, stageErr(StageSearch, err)
	}
	if !res.Completed() {
		return res, stageErr(StageSearch, res.Err())
	}

	e.enter("search", StageDone)
	e.logger.Info("search complete", "found", res.Found, "pageID", res.PageID, "score", res.MatchScore)

	return res, nil
}

// ListPages renders the occupancy of the given index pages, all four when
// none are given.
func (e *Engine) ListPages(ctx context.Context, pages ...int) (string, error) {
	if len(pages) == 0 {
		pages = []int{0, 1, 2, 3}
	}

	e.enter("list", StageList)

	var sb strings.Builder
	for _, page := range pages {
		index, err := e.dev.GetTemplateIndex(ctx, page)
		if err != nil {
			return sb.String(), stageErr(StageList, err)
		}
		if err := index.Err(); err != nil {
			return sb.String(), stageErr(StageList, err)
		}

		fmt.Fprintf(&sb, "page %d: %d occupied\n", page, len(index.Occupied()))
		sb.WriteString(index.Grid())
	}

	e.enter("list", StageDone)

	return sb.String(), nil
}
