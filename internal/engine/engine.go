// Package engine orchestrates solve batches: it opens inputs, drives puzzle
// runners from the registry, records run state and reports outcomes.
package engine

// The implementation is split across files:
// - solver.go: batch orchestration
// - factory.go: dependency construction from configuration
// - safegroup.go: panic-safe concurrency
