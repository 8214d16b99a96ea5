package frame

import (
	"context"
	"database/sql"
	"fmt"
)

// Table is the name of the table the logic script draws into.
const Table = "framebuffer"

// projectQuery has no ORDER BY: duplicate (x, y) rows resolve in whatever
// order the store visits them, and the last one visited wins. The casts
// truncate REAL or numeric TEXT values the way sqlite3_column_int does.
const projectQuery = `SELECT CAST(x AS INTEGER), CAST(y AS INTEGER), CAST(pixel AS INTEGER) FROM framebuffer`

// Querier is the read side of the store. Implemented by *store.Store.
type Querier interface {
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Project reads the framebuffer table into a fresh width x height grid.
//
// Rows with x or y outside the grid, or with a NULL coordinate, are ignored.
// A nonzero pixel lights the cell; zero or NULL clears it.
//
// On error the returned grid is still fully defined (all off) so callers can
// paint it.
func Project(ctx context.Context, q Querier, width, height int) (Grid, error) {
	g := NewGrid(width, height)

	rows, err := q.Query(ctx, projectQuery)
	if err != nil {
		return g, fmt.Errorf("query framebuffer: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var x, y, pixel sql.NullInt64
		if err := rows.Scan(&x, &y, &pixel); err != nil {
			return NewGrid(width, height), fmt.Errorf("scan framebuffer row: %w", err)
		}
		if !x.Valid || !y.Valid || !g.InBounds(x.Int64, y.Int64) {
			continue
		}
		g.Set(int(x.Int64), int(y.Int64), pixel.Valid && pixel.Int64 != 0)
	}

	if err := rows.Err(); err != nil {
		return NewGrid(width, height), fmt.Errorf("iterate framebuffer: %w", err)
	}

	return g, nil
}
