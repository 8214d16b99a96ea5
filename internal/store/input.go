package store

import (
	"context"
	"fmt"
)

// InputEventsTable is the table the engine owns. The logic script reads it;
// the engine purges and refills it every tick.
const InputEventsTable = "input_events"

// InputEventsColumns is the schema of InputEventsTable.
const InputEventsColumns = "event CHAR(1)"

// EnsureInputEvents creates the input_events table if it doesn't exist.
func (s *Store) EnsureInputEvents(ctx context.Context) error {
	return s.EnsureTable(ctx, InputEventsTable, InputEventsColumns)
}

// PurgeInputEvents deletes every row of input_events.
func (s *Store) PurgeInputEvents(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM input_events"); err != nil {
		return fmt.Errorf("purge input events: %w", err)
	}
	return nil
}

// InsertInputEvent appends one input_events row for the given code.
func (s *Store) InsertInputEvent(ctx context.Context, code string) error {
	if _, err := s.db.ExecContext(ctx, "INSERT INTO input_events(event) VALUES (?)", code); err != nil {
		return fmt.Errorf("insert input event %q: %w", code, err)
	}
	return nil
}

// InputEvents returns the codes currently stored in input_events, in
// insertion order.
//
// Returns an empty slice (not nil) if the table is empty.
func (s *Store) InputEvents(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT event FROM input_events ORDER BY rowid ASC")
	if err != nil {
		return nil, fmt.Errorf("query input events: %w", err)
	}
	defer rows.Close()

	events := []string{}
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("scan input event: %w", err)
		}
		events = append(events, code)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate input events: %w", err)
	}

	return events, nil
}
