package simulate

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// SummaryNames are the statistics produced by Summarize, in order.
func SummaryNames() []string {
	return []string{"step_mean", "step_sd", "env_mean", "displacement"}
}

// Summarize reduces a trajectory to a fixed-length summary vector computed
// from the observed positions and the sampled environment values: mean and
// standard deviation of observed step length, mean environment value, and
// net displacement between the first and last observed positions.
func Summarize(t Trajectory) []float64 {
	if len(t) < 2 {
		return make([]float64, len(SummaryNames()))
	}
	steps := make([]float64, len(t)-1)
	envs := make([]float64, len(t))
	for i := range t {
		envs[i] = t[i].Env
		if i == 0 {
			continue
		}
		steps[i-1] = math.Hypot(t[i].ObsX-t[i-1].ObsX, t[i].ObsY-t[i-1].ObsY)
	}
	first, last := t[0], t[len(t)-1]
	return []float64{
		stat.Mean(steps, nil),
		stat.StdDev(steps, nil),
		stat.Mean(envs, nil),
		math.Hypot(last.ObsX-first.ObsX, last.ObsY-first.ObsY),
	}
}

// Summarizer reduces one trajectory to a fixed-length summary vector. The
// inference engine is agnostic to which features it computes and only
// requires a consistent length across one run; Summarize is the default.
type Summarizer func(Trajectory) []float64

// SummarizeAll applies fn to every trajectory. A nil fn uses Summarize.
func SummarizeAll(trajectories []Trajectory, fn Summarizer) [][]float64 {
	if fn == nil {
		fn = Summarize
	}
	out := make([][]float64, len(trajectories))
	for i, t := range trajectories {
		out[i] = fn(t)
	}
	return out
}
