package batch

import (
	"fmt"
	"runtime"

	"github.com/ecodyn/abcmove/internal/domain"
)

type modeKind int

const (
	kindSequential modeKind = iota
	kindParallel
	kindParallelAuto
)

// Mode is the execution mode for a MAP batch. It is a tagged variant:
// sequential, parallel with an explicit worker count, or parallel with the
// count derived from the hardware. It resolves to a concrete worker count
// exactly once, at batch entry.
type Mode struct {
	kind    modeKind
	workers int
}

// Sequential processes targets one at a time.
func Sequential() Mode { return Mode{kind: kindSequential} }

// Parallel distributes targets over an explicit number of workers.
func Parallel(workers int) Mode { return Mode{kind: kindParallel, workers: workers} }

// ParallelAuto distributes targets over (hardware parallelism - 1) workers,
// never fewer than one.
func ParallelAuto() Mode { return Mode{kind: kindParallelAuto} }

// Workers resolves the mode to a concrete worker count, failing before any
// dispatch when an explicit count is not a positive integer.
func (m Mode) Workers() (int, error) {
	switch m.kind {
	case kindSequential:
		return 1, nil
	case kindParallel:
		if m.workers < 1 {
			return 0, fmt.Errorf("batch: %d workers: %w", m.workers, domain.ErrInvalidWorkerCount)
		}
		return m.workers, nil
	case kindParallelAuto:
		n := runtime.NumCPU() - 1
		if n < 1 {
			n = 1
		}
		return n, nil
	default:
		return 0, fmt.Errorf("batch: unknown mode: %w", domain.ErrInvalidWorkerCount)
	}
}

// IsSequential reports whether the mode processes targets inline.
func (m Mode) IsSequential() bool { return m.kind == kindSequential }
