package shelf

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Collect runs q and scans every row into a fresh T.
func Collect[T any](ctx context.Context, q Q, scans RowScan[T]) (_ []T, err error) {
	rows, err := q.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer closeInto(&err, rows)

	var collection []T
	for rows.Next() {
		var t T
		pointers, action := scans(&t)
		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}
		if action != nil {
			action()
		}
		collection = append(collection, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return collection, nil
}

// closeInto closes c and joins a close failure into *err.
func closeInto(err *error, c io.Closer) {
	if cerr := c.Close(); cerr != nil {
		*err = errors.Join(*err, fmt.Errorf("close rows: %w", cerr))
	}
}
