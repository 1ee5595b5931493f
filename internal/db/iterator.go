package db

import "iter"

// ResultIterator walks a QueryResult exactly once. Rewind is permitted
// while the iterator has not moved past the first row, which is what a
// fresh range loop needs; anything later fails with ErrRewind.
type ResultIterator struct {
	result *QueryResult

	row     Row
	pos     int // rows handed out so far
	replay  bool
	started bool
	done    bool
	err     error
}

// Next moves to the next row.
func (it *ResultIterator) Next() bool {
	if it.replay {
		it.replay = false
		it.pos = 1
		return true
	}
	if it.done {
		return false
	}
	if !it.started {
		it.started = true
		if err := it.result.claim(); err != nil {
			it.err = err
			it.done = true
			return false
		}
	}

	row, ok, err := it.result.scanNext()
	if err != nil || !ok {
		it.err = err
		it.done = true
		it.row = Row{}
		return false
	}
	it.row = row
	it.pos++
	return true
}

// Row returns the current row.
func (it *ResultIterator) Row() Row { return it.row }

// Key returns the 0-based position of the current row, -1 before the first.
func (it *ResultIterator) Key() int { return it.pos - 1 }

func (it *ResultIterator) Err() error { return it.err }

// Rewind restarts the iteration. It only succeeds while no row beyond the
// first has been read; the first row is then handed out again by Next.
func (it *ResultIterator) Rewind() error {
	switch {
	case it.pos == 0:
		return nil
	case it.pos == 1 && !it.done:
		it.replay = true
		it.pos = 0
		return nil
	default:
		return ErrRewind
	}
}

func (it *ResultIterator) Close() error {
	it.done = true
	return it.result.Close()
}

// All returns the rows as a range-over-func sequence keyed by position.
// Ranging again after rows were consumed yields nothing and Err reports
// ErrRewind.
func (it *ResultIterator) All() iter.Seq2[int, Row] {
	return func(yield func(int, Row) bool) {
		if err := it.Rewind(); err != nil {
			it.err = err
			return
		}
		for it.Next() {
			if !yield(it.Key(), it.Row()) {
				return
			}
		}
	}
}
