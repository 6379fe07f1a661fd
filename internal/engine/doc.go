// Package engine implements the bill settlement and split-calculation core:
// category classification, per-item split resolution, bill aggregation into
// per-participant balances, and greedy debt settlement.
//
// The engine is entirely synchronous and side-effect-free. Every entry point
// consumes a read-only snapshot and returns derived values; nothing is
// cached, stored or mutated, so re-running on an unchanged snapshot
// reproduces identical output. All monetary comparisons use a fixed epsilon
// (AmountEpsilon, PercentEpsilon) instead of exact floating-point equality.
package engine
