package workflow

import (
	"errors"
	"fmt"

	"github.com/arloliu/go-fpsensor/device"
)

// Stage is one step of a workflow.
type Stage int

const (
	StageIdle Stage = iota
	StageScan
	StageExtract
	StageProbeDuplicate
	StageDebounce
	StageRescan
	StageExtractSecond
	StageVerifyMatch
	StageMerge
	StageCommit
	StageCount
	StageSearch
	StageList
	StageDone
)

var stageNames = [...]string{
	StageIdle:           "idle",
	StageScan:           "scan",
	StageExtract:        "extract",
	StageProbeDuplicate: "probe-duplicate",
	StageDebounce:       "debounce",
	StageRescan:         "rescan",
	StageExtractSecond:  "extract-second",
	StageVerifyMatch:    "verify-match",
	StageMerge:          "merge",
	StageCommit:         "commit",
	StageCount:          "count",
	StageSearch:         "search",
	StageList:           "list",
	StageDone:           "done",
}

func (s Stage) String() string {
	if s >= 0 && int(s) < len(stageNames) {
		return stageNames[s]
	}

	return fmt.Sprintf("Stage(%d)", int(s))
}

// Workflow errors.
var (
	ErrNoFinger        = errors.New("workflow: no finger detected")
	ErrDuplicateFinger = errors.New("workflow: finger already enrolled")
	ErrFingerMismatch  = errors.New("workflow: scans belong to different fingers")
	ErrLibraryFull     = device.ErrLibraryFull
)

// StageError reports the stage at which a workflow stopped.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("workflow: stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// FailedStage returns the stage recorded in err's chain, or StageIdle when
// err carries none.
func FailedStage(err error) Stage {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}

	return StageIdle
}
