// Package engine implements the tickql tick engine.
//
// The engine is the heart of tickql - it owns the store handle, the logic
// script and the render sink, and drives them through a fixed per-tick
// sequence.
//
// ARCHITECTURE:
//
// Single-Threaded Tick Loop:
// Every store call, input poll and paint happens on the goroutine that calls
// Run. Ticks never overlap: rendering tick N finishes before tick N+1 starts.
// The only suspension point is the pacing wait at the end of each tick.
//
// Tick Sequence:
//  1. Purge input_events (failure logged, tick continues)
//  2. Poll input and record one row per recognized key press
//     (a quit request ends the run here, skipping 3 and 4)
//  3. Execute the logic script as one batch (failure halts by default)
//  4. Project the framebuffer table and paint the grid
//
// Lifecycle:
//
//	Initializing -> Running -> Draining -> Terminated
//
// Init ensures the input_events table exists. Run drives ticks until a quit
// request, a fatal script error, context cancellation or the tick limit.
// Drain closes the sink, then the store, exactly once.
//
// ERROR POLICY:
//
//   - INIT_FAILED: fatal, the engine drains immediately
//   - SCRIPT_FAILED: fatal under PolicyHalt, logged and skipped under PolicySkip
//   - PURGE_FAILED, PROJECT_FAILED, RENDER_FAILED: logged, never abort the loop
//
// A failed script batch is not rolled back: statements that ran before the
// failing one stay committed.
package engine
