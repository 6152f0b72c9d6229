// Package health probes the liveness of the readiness service's data
// sources. Each subsystem source gets a Checker; the Aggregator runs
// them in parallel under one deadline and reports the worst status as
// the composite.
//
// A degraded source does not stop the service, since readiness
// aggregation already tolerates unavailable subsystems. Surfacing probe
// results lets operators see an outage before it shows up as a wall of
// DEGRADED snapshots.
package health
