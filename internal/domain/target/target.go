// Package target describes one observed inference target.
package target

import (
	"errors"
	"fmt"

	"github.com/ecodyn/abcmove/internal/domain"
	"github.com/ecodyn/abcmove/internal/domain/summary"
)

// Target is one observed summary vector to infer parameters for, together
// with the subset of parameter dimensions under inference. Results are keyed
// by the target identifier, never by position.
type Target struct {
	id         string
	observed   summary.Vector
	parameters []string
}

// New creates a target. The identifier must be non-empty and unique within
// a request; parameters name the columns under inference.
func New(id string, observed summary.Vector, parameters []string) (Target, error) {
	if id == "" {
		return Target{}, errors.New("target: empty identifier")
	}
	if len(observed) == 0 {
		return Target{}, fmt.Errorf("target %s: no observed summary: %w", id, domain.ErrEmptyInput)
	}
	if len(parameters) == 0 {
		return Target{}, fmt.Errorf("target %s: no target parameters: %w", id, domain.ErrEmptyInput)
	}
	obs := make(summary.Vector, len(observed))
	copy(obs, observed)
	params := make([]string, len(parameters))
	copy(params, parameters)
	return Target{id: id, observed: obs, parameters: params}, nil
}

// ID returns the target identifier.
func (t Target) ID() string { return t.id }

// Observed returns the observed summary vector.
func (t Target) Observed() summary.Vector {
	obs := make(summary.Vector, len(t.observed))
	copy(obs, t.observed)
	return obs
}

// Parameters returns the names of the parameter dimensions under inference.
func (t Target) Parameters() []string {
	params := make([]string, len(t.parameters))
	copy(params, t.parameters)
	return params
}
