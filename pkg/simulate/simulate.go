// Package simulate provides a minimal individual-based movement simulator
// and matching summary statistics. It exists so the inference engine has a
// deterministic trajectory producer for tests and the demo runner; it is a
// stand-in for whatever simulator a study actually uses, not a modeling
// contribution.
package simulate

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Parameter order expected in each draw passed to Run.
const (
	ParamPerceptionRange = iota
	ParamNicheOptimum
	ParamNicheBreadth
	ParamObservationError
	numParams
)

// ParamNames are the simulator's parameter names, in draw order.
func ParamNames() []string {
	return []string{"perception_range", "niche_optimum", "niche_breadth", "observation_error"}
}

// Step is one trajectory record: the true position, the observed position,
// and the environment value sampled at the true position.
type Step struct {
	X, Y       float64
	ObsX, ObsY float64
	Env        float64
}

// Trajectory is the ordered step sequence for one simulated individual.
type Trajectory []Step

// Environment is a square habitat-quality grid with values in [0, 1].
type Environment struct {
	size  int
	cells []float64
}

// GradientEnvironment builds a smooth diagonal habitat gradient. Random
// habitat fields are out of scope; a gradient is enough to make niche
// parameters identifiable.
func GradientEnvironment(size int) Environment {
	if size < 2 {
		size = 2
	}
	cells := make([]float64, size*size)
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			cells[r*size+c] = float64(r+c) / float64(2*(size-1))
		}
	}
	return Environment{size: size, cells: cells}
}

// Size returns the grid side length.
func (e Environment) Size() int { return e.size }

// At samples the habitat value at a continuous position, clamped to the grid.
func (e Environment) At(x, y float64) float64 {
	c := int(math.Round(clamp(x, 0, float64(e.size-1))))
	r := int(math.Round(clamp(y, 0, float64(e.size-1))))
	return e.cells[r*e.size+c]
}

// candidateDirections is the number of step headings evaluated per move.
const candidateDirections = 8

// Run simulates one trajectory per parameter draw. Each draw holds
// [perception_range, niche_optimum, niche_breadth, observation_error].
// Movement is a multinomial step selection: candidate positions one
// perception range away are weighted by a Gaussian niche preference on the
// habitat value, and the observed position is the true one plus Gaussian
// observation error. A fixed seed reproduces the trajectories exactly.
func Run(env Environment, steps int, draws [][]float64, seed uint64) ([]Trajectory, error) {
	if steps < 2 {
		return nil, errors.New("simulate: steps must be at least 2")
	}
	rng := rand.New(rand.NewSource(seed))
	out := make([]Trajectory, len(draws))
	for i, draw := range draws {
		if len(draw) != numParams {
			return nil, fmt.Errorf("simulate: draw %d has %d parameters, want %d", i, len(draw), numParams)
		}
		out[i] = walk(env, steps, draw, rng)
	}
	return out, nil
}

func walk(env Environment, steps int, draw []float64, rng *rand.Rand) Trajectory {
	perception := math.Max(draw[ParamPerceptionRange], 0.1)
	optimum := draw[ParamNicheOptimum]
	breadth := math.Max(draw[ParamNicheBreadth], 1e-3)
	obsErr := math.Max(draw[ParamObservationError], 0)

	limit := float64(env.size - 1)
	x := limit / 2
	y := limit / 2

	traj := make(Trajectory, steps)
	weights := make([]float64, candidateDirections)
	for s := 0; s < steps; s++ {
		traj[s] = observe(env, x, y, obsErr, rng)
		if s == steps-1 {
			break
		}

		total := 0.0
		for k := 0; k < candidateDirections; k++ {
			theta := 2 * math.Pi * float64(k) / candidateDirections
			cx := clamp(x+perception*math.Cos(theta), 0, limit)
			cy := clamp(y+perception*math.Sin(theta), 0, limit)
			d := (env.At(cx, cy) - optimum) / breadth
			weights[k] = math.Exp(-0.5 * d * d)
			total += weights[k]
		}

		k := pick(weights, total, rng)
		theta := 2 * math.Pi * float64(k) / candidateDirections
		x = clamp(x+perception*math.Cos(theta), 0, limit)
		y = clamp(y+perception*math.Sin(theta), 0, limit)
	}
	return traj
}

func observe(env Environment, x, y, obsErr float64, rng *rand.Rand) Step {
	st := Step{X: x, Y: y, ObsX: x, ObsY: y, Env: env.At(x, y)}
	if obsErr > 0 {
		noise := distuv.Normal{Mu: 0, Sigma: obsErr, Src: rng}
		st.ObsX = x + noise.Rand()
		st.ObsY = y + noise.Rand()
	}
	return st
}

// pick draws one candidate index with probability proportional to weight.
func pick(weights []float64, total float64, rng *rand.Rand) int {
	if total <= 0 {
		return rng.Intn(len(weights))
	}
	u := rng.Float64() * total
	acc := 0.0
	for k, w := range weights {
		acc += w
		if u <= acc {
			return k
		}
	}
	return len(weights) - 1
}

// Priors draws n parameter vectors from independent uniform priors with the
// given [min, max] bounds per dimension.
func Priors(n int, bounds [][2]float64, seed uint64) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	dists := make([]distuv.Uniform, len(bounds))
	for j, b := range bounds {
		dists[j] = distuv.Uniform{Min: b[0], Max: b[1], Src: rng}
	}
	draws := make([][]float64, n)
	for i := range draws {
		row := make([]float64, len(bounds))
		for j := range bounds {
			row[j] = dists[j].Rand()
		}
		draws[i] = row
	}
	return draws
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
