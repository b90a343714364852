package rectpack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridInsert(t *testing.T) {
	g := newGrid()
	g.reset(NewSize(10, 10))
	assert.Equal(t, Size{}, g.spanning())

	r, ok := g.insert(NewSize(4, 2))
	require.True(t, ok)
	assert.Equal(t, NewRect(0, 0, 4, 2), r)
	assert.Equal(t, regionStack{NewRect(0, 2, 10, 8), NewRect(4, 0, 6, 2)}, g.free)

	// the most recent region is tried first
	r, ok = g.insert(NewSize(6, 2))
	require.True(t, ok)
	assert.Equal(t, NewRect(4, 0, 6, 2), r)
	assert.Equal(t, NewSize(10, 2), g.spanning())
	assert.Len(t, g.free, 1)

	r, ok = g.insert(NewSize(3, 3))
	require.True(t, ok)
	assert.Equal(t, NewRect(0, 2, 3, 3), r)
	assert.Equal(t, NewSize(10, 5), g.spanning())
	assert.Equal(t, regionStack{NewRect(3, 2, 7, 8), NewRect(0, 5, 3, 5)}, g.free)
}

func TestGridInsertFailureKeepsState(t *testing.T) {
	g := newGrid()
	g.reset(NewSize(5, 5))
	_, ok := g.insert(NewSize(2, 2))
	require.True(t, ok)

	free := append(regionStack(nil), g.free...)
	spanning := g.spanning()

	_, ok = g.insert(NewSize(6, 1))
	assert.False(t, ok)
	assert.Equal(t, free, g.free)
	assert.Equal(t, spanning, g.spanning())
}

func TestGridReset(t *testing.T) {
	g := newGrid()
	g.reset(NewSize(4, 4))
	g.insert(NewSize(1, 1))
	g.insert(NewSize(2, 1))

	g.reset(NewSize(3, 7))
	assert.Equal(t, regionStack{NewRect(0, 0, 3, 7)}, g.free)
	assert.Equal(t, Size{}, g.spanning())
}

func TestGridKeepsRegionsDisjoint(t *testing.T) {
	bin := NewSize(64, 48)
	g := newGrid()
	g.reset(bin)

	var placed []Rect
	sizes := []Size{{20, 10}, {5, 30}, {12, 12}, {40, 3}, {7, 7}, {9, 2}, {1, 1}, {30, 5}, {6, 11}}
	for _, s := range sizes {
		if r, ok := g.insert(s); ok {
			placed = append(placed, r)
		}
	}
	require.NotEmpty(t, placed)

	all := append(append([]Rect(nil), placed...), g.free...)
	var total int64
	for i, a := range all {
		total += a.Area()
		for _, b := range all[i+1:] {
			assert.False(t, a.Intersects(b), "%v intersects %v", a.String(), b.String())
		}
	}
	assert.Equal(t, bin.Area(), total)
	for _, r := range placed {
		assert.True(t, Rect{Size: g.spanning()}.ContainsRect(r))
	}
}

func TestRegionStackRemoveAt(t *testing.T) {
	s := regionStack{NewRect(0, 0, 1, 1), NewRect(1, 0, 1, 1), NewRect(2, 0, 1, 1)}
	s.removeAt(0)
	assert.Equal(t, regionStack{NewRect(2, 0, 1, 1), NewRect(1, 0, 1, 1)}, s)
	s.removeAt(1)
	assert.Equal(t, regionStack{NewRect(2, 0, 1, 1)}, s)
}
