package storage

// Cursor is a finite, restartable stream of records.
//
// The backing rows are read under a single transaction snapshot at call
// time, so writes committed after the cursor was produced never appear
// mid-iteration. Reset rewinds to the first record.
type Cursor[T any] struct {
	records []T
	next    int
}

// NewCursor wraps records read from one snapshot.
func NewCursor[T any](records []T) *Cursor[T] {
	return &Cursor[T]{records: records}
}

// Next yields the next record, reporting false when the stream is drained.
func (c *Cursor[T]) Next() (T, bool) {
	var zero T
	if c == nil || c.next >= len(c.records) {
		return zero, false
	}
	record := c.records[c.next]
	c.next++
	return record, true
}

// Reset rewinds the cursor to the first record.
func (c *Cursor[T]) Reset() {
	if c != nil {
		c.next = 0
	}
}

// Len reports the total number of records in the snapshot.
func (c *Cursor[T]) Len() int {
	if c == nil {
		return 0
	}
	return len(c.records)
}

// Collect drains the remaining records into a slice.
func (c *Cursor[T]) Collect() []T {
	if c == nil {
		return nil
	}
	out := make([]T, 0, len(c.records)-c.next)
	for {
		record, ok := c.Next()
		if !ok {
			return out
		}
		out = append(out, record)
	}
}
