package workflow

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-fpsensor/channel"
	"github.com/arloliu/go-fpsensor/device"
	"github.com/arloliu/go-fpsensor/emulator"
	"github.com/arloliu/go-fpsensor/logger"
	"github.com/arloliu/go-fpsensor/packet"
)

type stageRecorder struct {
	mu     sync.Mutex
	stages []Stage
}

func (r *stageRecorder) observe(s Stage) {
	r.mu.Lock()
	r.stages = append(r.stages, s)
	r.mu.Unlock()
}

func (r *stageRecorder) get() []Stage {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Stage(nil), r.stages...)
}

func newTestEngine(t *testing.T, emuOpts []emulator.Option, opts ...Option) (*Engine, *emulator.Module) {
	t.Helper()

	m, err := emulator.New(emuOpts...)
	require.NoError(t, err)

	ch, err := channel.New(m, channel.WithTimeout(300*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { _ = ch.Close() })

	client, err := device.New(ch)
	require.NoError(t, err)

	base := []Option{WithPollInterval(time.Millisecond), WithDebounce(0), WithMaxScanAttempts(3)}
	e, err := New(client, append(base, opts...)...)
	require.NoError(t, err)

	return e, m
}

func countInstruction(m *emulator.Module, ins packet.Instruction) int {
	n := 0
	for _, c := range m.Commands() {
		if c == ins {
			n++
		}
	}

	return n
}

func TestScanFinger_Detected(t *testing.T) {
	e, m := newTestEngine(t, nil)
	m.PresentFingers(emulator.NoFinger, emulator.NoFinger, 5)

	require.NoError(t, e.ScanFinger(context.Background()))
	assert.Equal(t, 3, countInstruction(m, packet.InstructionGenerateImage))
}

func TestScanFinger_Exhausted(t *testing.T) {
	e, m := newTestEngine(t, nil)

	err := e.ScanFinger(context.Background())
	require.ErrorIs(t, err, ErrNoFinger)
	assert.Equal(t, 3, countInstruction(m, packet.InstructionGenerateImage))
}

func TestScanFinger_CollectionFailureAborts(t *testing.T) {
	e, m := newTestEngine(t, nil)
	m.FailNext(packet.InstructionGenerateImage, packet.CodeImageFail)
	m.PresentFingers(5)

	err := e.ScanFinger(context.Background())
	de, ok := device.AsDeviceError(err)
	require.True(t, ok)
	assert.Equal(t, device.StatusFingerCollectionFailed, de.Status)
	assert.Equal(t, 1, countInstruction(m, packet.InstructionGenerateImage))
}

func TestScanFinger_ContextDeadline(t *testing.T) {
	e, _ := newTestEngine(t, nil, WithPollInterval(time.Second), WithMaxScanAttempts(10))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := e.ScanFinger(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestEnroll_Success(t *testing.T) {
	require := require.New(t)

	rec := &stageRecorder{}
	e, m := newTestEngine(t, nil, WithObserver(rec.observe))
	m.Enroll(0, 1)
	m.PresentFingers(emulator.NoFinger, 9, 9)

	res, err := e.Enroll(context.Background())
	require.NoError(err)
	require.Equal(StageDone, res.Stage)
	require.Equal(uint16(1), res.PageID)
	require.Equal(uint16(2), res.Count)
	require.NotZero(res.MatchScore)

	f, ok := m.Template(1)
	require.True(ok)
	require.Equal(emulator.Finger(9), f)

	require.Equal([]Stage{
		StageScan, StageExtract, StageProbeDuplicate, StageDebounce, StageRescan,
		StageExtractSecond, StageVerifyMatch, StageMerge, StageCommit, StageCount, StageDone,
	}, rec.get())
}

func TestEnroll_LogsEnrolledFinger(t *testing.T) {
	log := logger.NewMockLogger()
	log.On("Debug", mock.Anything, mock.Anything).Maybe()
	log.On("Info", "finger enrolled", []any{"pageID", uint16(0), "count", uint16(1)}).Once()

	e, m := newTestEngine(t, nil, WithLogger(log))
	m.PresentFingers(4, 4)

	_, err := e.Enroll(context.Background())
	require.NoError(t, err)
	log.AssertExpectations(t)
}

func TestEnroll_Failures(t *testing.T) {
	tests := []struct {
		desc      string
		emuOpts   []emulator.Option
		setup     func(m *emulator.Module)
		wantStage Stage
		wantErr   error
		check     func(t *testing.T, res *EnrollResult, err error)
	}{
		{
			desc:      "no finger",
			setup:     func(m *emulator.Module) {},
			wantStage: StageScan,
			wantErr:   ErrNoFinger,
		},
		{
			desc: "feature extraction fails",
			setup: func(m *emulator.Module) {
				m.PresentFingers(9)
				m.FailNext(packet.InstructionGenerateCharacter, packet.CodeFeatureFail)
			},
			wantStage: StageExtract,
			check: func(t *testing.T, _ *EnrollResult, err error) {
				de, ok := device.AsDeviceError(err)
				require.True(t, ok)
				assert.Equal(t, device.StatusFeatureFail, de.Status)
			},
		},
		{
			desc: "duplicate finger",
			setup: func(m *emulator.Module) {
				m.Enroll(4, 9)
				m.PresentFingers(9)
			},
			wantStage: StageProbeDuplicate,
			wantErr:   ErrDuplicateFinger,
			check: func(t *testing.T, res *EnrollResult, _ error) {
				assert.Equal(t, uint16(4), res.DuplicateOf)
			},
		},
		{
			desc:      "finger lifted for good",
			setup:     func(m *emulator.Module) { m.PresentFingers(9) },
			wantStage: StageRescan,
			wantErr:   ErrNoFinger,
		},
		{
			desc:      "different fingers",
			setup:     func(m *emulator.Module) { m.PresentFingers(9, 10) },
			wantStage: StageVerifyMatch,
			wantErr:   ErrFingerMismatch,
		},
		{
			desc: "merge fails",
			setup: func(m *emulator.Module) {
				m.PresentFingers(9, 9)
				m.FailNext(packet.InstructionGenerateTemplate, packet.CodeEnrollMismatch)
			},
			wantStage: StageMerge,
			wantErr:   ErrFingerMismatch,
		},
		{
			desc:    "library full",
			emuOpts: []emulator.Option{emulator.WithCapacity(2)},
			setup: func(m *emulator.Module) {
				m.Enroll(0, 1)
				m.Enroll(1, 2)
				m.PresentFingers(9, 9)
			},
			wantStage: StageCommit,
			wantErr:   ErrLibraryFull,
		},
		{
			desc: "flash write fails",
			setup: func(m *emulator.Module) {
				m.PresentFingers(9, 9)
				m.FailNext(packet.InstructionStoreTemplate, packet.CodeFlashError)
			},
			wantStage: StageCommit,
			check: func(t *testing.T, _ *EnrollResult, err error) {
				de, ok := device.AsDeviceError(err)
				require.True(t, ok)
				assert.Equal(t, device.StatusFlashError, de.Status)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			e, m := newTestEngine(t, tt.emuOpts)
			tt.setup(m)

			res, err := e.Enroll(context.Background())
			require.Error(t, err)
			require.NotNil(t, res)
			assert.Equal(t, tt.wantStage, FailedStage(err))
			assert.Equal(t, tt.wantStage, res.Stage)

			var se *StageError
			require.True(t, errors.As(err, &se))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, res, err)
			}

			assert.Zero(t, countInstruction(m, packet.InstructionTemplateCount))
		})
	}
}

func TestSearch(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	e, m := newTestEngine(t, []emulator.Option{emulator.WithCapacity(500)})
	m.Enroll(321, 7)

	m.PresentFingers(7)
	res, err := e.Search(ctx, device.Range{})
	require.NoError(err)
	require.True(res.Found)
	require.Equal(uint16(321), res.PageID)

	m.PresentFingers(7)
	res, err = e.Search(ctx, device.Range{Start: 0, Count: 300})
	require.NoError(err)
	require.False(res.Found)

	m.SetMissAsOK(true)
	m.PresentFingers(8)
	res, err = e.Search(ctx, device.Range{})
	require.NoError(err)
	require.False(res.Found)
	require.Equal(packet.CodeOK, res.Code)
}

func TestSearch_Failures(t *testing.T) {
	e, m := newTestEngine(t, nil)

	_, err := e.Search(context.Background(), device.Range{})
	require.ErrorIs(t, err, ErrNoFinger)
	assert.Equal(t, StageScan, FailedStage(err))

	m.PresentFingers(3)
	m.FailNext(packet.InstructionSearch, packet.CodePacketError)
	res, err := e.Search(context.Background(), device.Range{Start: 0, Count: 10})
	require.Error(t, err)
	assert.Equal(t, StageSearch, FailedStage(err))
	require.NotNil(t, res)
	assert.Equal(t, device.StatusPacketError, res.Status)
}

func TestListPages(t *testing.T) {
	e, m := newTestEngine(t, nil)
	m.Enroll(0, 1)
	m.Enroll(2, 2)
	m.Enroll(300, 3)

	out, err := e.ListPages(context.Background(), 0, 1)
	require.NoError(t, err)
	assert.Contains(t, out, "page 0: 2 occupied\n0000 #.#.............\n")
	assert.Contains(t, out, "page 1: 1 occupied\n")
	assert.Contains(t, out, "0288 ............#...\n")
	assert.NotContains(t, out, "page 2")

	all, err := e.ListPages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(all, "page "))

	_, err = e.ListPages(context.Background(), 4)
	require.ErrorIs(t, err, device.ErrParameterOutOfRange)
	assert.Equal(t, StageList, FailedStage(err))
}

func TestNew_Errors(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)

	for _, opt := range []Option{
		WithMaxScanAttempts(0),
		WithPollInterval(-time.Millisecond),
		WithDebounce(-time.Millisecond),
		WithLogger(nil),
	} {
		_, err := NewConfig(opt)
		require.Error(t, err)
	}

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxScanAttempts, cfg.MaxScanAttempts())
	assert.Equal(t, DefaultPollInterval, cfg.PollInterval())
	assert.Equal(t, DefaultDebounce, cfg.Debounce())
}

func TestStage_String(t *testing.T) {
	assert.Equal(t, "probe-duplicate", StageProbeDuplicate.String())
	assert.Equal(t, "Stage(99)", Stage(99).String())
	assert.Equal(t, StageIdle, FailedStage(errors.New("plain")))

	err := &StageError{Stage: StageCommit, Err: ErrLibraryFull}
	assert.Equal(t, "workflow: stage commit: device: no free library position", err.Error())
}
