// Package abcmove performs Approximate Bayesian Computation (ABC) rejection
// inference for stochastic individual-based movement models.
//
// Given a parameter sample drawn from the prior, one summary-statistic
// vector per simulated trajectory, and one or more observed summary targets,
// the engine standardizes and ranks simulated-to-observed distances, keeps
// the closest fraction of draws as the posterior sample, optionally corrects
// it with a local-linear regression adjustment, and optionally reports a MAP
// point from a truncated multivariate normal fit over the prior support.
// MAP fits for independent targets can run on a scoped worker pool.
//
// The simulator, the summary-statistic functions, and any surrogate summary
// predictor are the caller's collaborators: the engine only consumes
// index-aligned numeric vectors. pkg/simulate ships a small reference
// simulator for tests and the demo runner.
package abcmove
