// Package task runs readiness computations on a bounded worker pool.
//
// Tasks are keyed: submitting work for a key that already has a pending
// or running task joins the existing task instead of starting duplicate
// work. Waiters block cooperatively on a completion channel with their
// own timeout, independent of the task's execution deadline.
package task
