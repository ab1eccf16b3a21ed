// Package types defines the requirement, test case, clause, mapping, and
// traceability entities shared by the clause registry, compliance mapper,
// compliance validator, and traceability engine, together with the sentinel
// and structured error types they surface.
package types
