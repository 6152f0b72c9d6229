// Package cache is the single-flight caching layer in front of the
// readiness aggregation pipeline.
//
// Entries are keyed by a fingerprint of task-force id and inclusion
// options. Fresh entries are served immediately; expired entries are
// served stale while a background refresh runs; misses block on a joined
// computation. Concurrent requests for one fingerprint share a single
// underlying task, and snapshot versions are monotonic per task force.
package cache
