// Package scheduler computes start and end dates for project tasks from
// effort estimates, assignee allocation ratios and typed dependencies.
//
// The engine is pure: it receives a snapshot of tasks and dependency edges,
// validates it, orders it topologically, runs a forward pass over a weekend
// aware working-day calendar and extracts the critical paths. It never
// touches storage and holds no state between calculations, so callers decide
// when a recalculation happens and what to do with the result.
package scheduler
