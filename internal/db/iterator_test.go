//go:build cgo

package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func iterate(t *testing.T, c *Connection) *ResultIterator {
	t.Helper()
	res, err := c.Query(context.Background(), "SELECT name FROM users ORDER BY id")
	require.NoError(t, err)
	return res.Iterator()
}

func TestIteratorSinglePass(t *testing.T) {
	req := require.New(t)
	it := iterate(t, newTestConnection(t))

	req.Equal(-1, it.Key())
	req.NoError(it.Rewind())

	var got []string
	for it.Next() {
		got = append(got, it.Row().Value(0).(string))
		req.Equal(len(got)-1, it.Key())
	}
	req.NoError(it.Err())
	req.Equal([]string{"alice", "bob", "carol"}, got)

	req.ErrorIs(it.Rewind(), ErrRewind)
	req.False(it.Next())
}

func TestIteratorRewind(t *testing.T) {
	tests := []struct {
		name    string
		consume int
		wantErr error
		next    string
	}{
		{name: "before first row", consume: 0, next: "alice"},
		{name: "on first row", consume: 1, next: "alice"},
		{name: "past first row", consume: 2, wantErr: ErrRewind, next: "carol"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			it := iterate(t, newTestConnection(t))

			for i := 0; i < tt.consume; i++ {
				req.True(it.Next())
			}
			err := it.Rewind()
			if tt.wantErr != nil {
				req.ErrorIs(err, tt.wantErr)
			} else {
				req.NoError(err)
			}

			req.True(it.Next())
			req.Equal(tt.next, it.Row().Value(0))
		})
	}
}

func TestIteratorAll(t *testing.T) {
	req := require.New(t)
	it := iterate(t, newTestConnection(t))

	keys := []int{}
	for k, row := range it.All() {
		keys = append(keys, k)
		if row.Value(0) == "alice" {
			break
		}
	}
	req.Equal([]int{0}, keys)

	// breaking on the first row still allows a full pass
	var names []any
	for _, row := range it.All() {
		names = append(names, row.Value(0))
	}
	req.Equal([]any{"alice", "bob", "carol"}, names)
	req.NoError(it.Err())

	for range it.All() {
		t.Fatal("second pass must yield nothing")
	}
	req.ErrorIs(it.Err(), ErrRewind)
}

func TestIteratorClose(t *testing.T) {
	req := require.New(t)
	it := iterate(t, newTestConnection(t))

	req.True(it.Next())
	req.NoError(it.Close())
	req.False(it.Next())
}
