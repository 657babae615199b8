package batch

import "github.com/ecodyn/abcmove/internal/domain/sample"

// Job is one MAP estimation task. It carries everything a worker needs;
// workers never reach back into caller-local state.
type Job struct {
	ID     string
	Sample *sample.Sample
	Bounds sample.Bounds
}

// ItemStatus is the processing outcome of a single job.
type ItemStatus string

// Job status values.
const (
	StatusOK    ItemStatus = "ok"
	StatusError ItemStatus = "error"
)

// Result is the outcome of one job, keyed by the job identifier.
type Result struct {
	id     string
	point  []float64
	status ItemStatus
	err    error
}

// NewOK creates a successful job result.
func NewOK(id string, point []float64) Result {
	p := make([]float64, len(point))
	copy(p, point)
	return Result{id: id, point: p, status: StatusOK}
}

// NewError creates a failed job result.
func NewError(id string, err error) Result {
	return Result{id: id, status: StatusError, err: err}
}

// ID returns the job identifier.
func (r Result) ID() string { return r.id }

// Point returns the MAP point, nil for failed jobs.
func (r Result) Point() []float64 {
	if r.point == nil {
		return nil
	}
	p := make([]float64, len(r.point))
	copy(p, r.point)
	return p
}

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }

// Done is one progress event, delivered after each job completes.
type Done struct {
	Index     int
	ID        string
	Err       error
	Completed int
	Total     int
}

// ProgressFunc receives a progress event after each completed job.
// Invocations are serialized; the callback never runs concurrently.
type ProgressFunc func(Done)
