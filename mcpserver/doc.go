// Package mcpserver exposes the readiness service over the Model
// Context Protocol. Every tool takes a typed input struct and returns a
// typed result; the server runs over stdio and is configured from the
// environment.
package mcpserver
