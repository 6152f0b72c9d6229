// Package core is the public entry point of the readiness service. It
// wires the pure aggregator, the single-flight cache, and the task
// manager behind three operations: GetReadiness, Invalidate, and Close.
//
// GetReadiness always returns a structured snapshot for a well-formed
// task force identifier. Source failures degrade the assessment rather
// than failing it; timeouts produce an UNKNOWN snapshot carrying an
// annotation. The only request ever rejected outright is one with a
// malformed identifier.
//
//	c, err := core.New(sources)
//	snap, err := c.GetReadiness(ctx, core.Request{
//		TaskForceID: "CA-TF1",
//		Options:     readiness.AllSubsystems(),
//	})
package core
