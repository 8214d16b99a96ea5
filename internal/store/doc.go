// Package store provides the SQLite-backed relational store that holds all
// game state.
//
// The store is deliberately thin. It exposes statement execution and row
// iteration to the tick engine and owns exactly one table:
//
//   - input_events(event CHAR(1)): created at startup, purged and refilled by
//     the engine every tick, read by the logic script.
//
// The framebuffer(x, y, pixel) table is never created here. The logic script
// creates and populates it; the engine only reads it.
//
// # Execution Model
//
//   - No transaction wrapping: every statement auto-commits unless the script
//     itself declares a transaction
//   - Exec accepts a batch of ;-separated statements and stops at the first
//     error; earlier statements of the batch stay committed
//   - Query rows are one-shot and must be closed before the next Exec
//
// # Database Configuration
//
//   - WAL mode for file databases: readers outside the engine see committed state
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - One pooled connection, so ":memory:" databases survive between calls
package store
