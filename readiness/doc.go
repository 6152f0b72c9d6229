// Package readiness computes composite operational readiness for a task
// force from personnel, equipment, and mission accountability summaries.
//
// Aggregation is a pure function of its inputs: unavailable subsystems
// degrade the result instead of failing it, so callers always receive a
// usable snapshot even when backing data sources are unreachable.
package readiness
