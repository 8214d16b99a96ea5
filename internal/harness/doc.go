// Package harness runs YAML game scenarios against a real engine.
//
// A scenario names a logic script, optional setup SQL, the key presses of
// each tick and assertions on the final frame:
//
//	name: moving_pixel
//	description: "D moves the pixel one cell right"
//	script: scripts/moving_pixel.sql
//	setup: |
//	  CREATE TABLE framebuffer(x INTEGER, y INTEGER, pixel INTEGER);
//	grid: {width: 8, height: 8}
//	ticks:
//	  - [D]
//	  - []
//	  - [quit]
//	assertions:
//	  - type: cell_on
//	    x: 1
//	    y: 0
//	  - type: lit_count
//	    count: 1
//
// # Assertion Types
//
//   - cell_on / cell_off: the cell at x,y of the final frame
//   - lit_count: number of lit cells in the final frame
//   - input_rows: the input_events rows left after the last tick, in order
//   - tick_count: number of ticks started
//
// # Deterministic Testing
//
// Every scenario runs in a fresh in-memory store with a fake clock (pacing
// never sleeps) and a fixed session ID, so the final frame is reproducible
// and can be compared with a golden file:
//
//	go test ./internal/harness -update
package harness
