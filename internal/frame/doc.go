// Package frame projects the framebuffer table into a dense grid.
//
// The table contract is framebuffer(x INTEGER, y INTEGER, pixel INTEGER).
// The logic script owns the table; this package only reads it. The
// projection is total: every cell of the returned Grid is defined, cells the
// script did not write are off, and rows outside the grid are dropped
// without error.
package frame
