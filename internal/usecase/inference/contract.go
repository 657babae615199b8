package inference

import (
	"context"

	"github.com/ecodyn/abcmove/internal/usecase/batch"
)

// Coordinator runs a batch of MAP fits under an execution mode.
type Coordinator interface {
	Run(ctx context.Context, jobs []batch.Job, mode batch.Mode, progress batch.ProgressFunc) ([]batch.Result, error)
}
