package freelist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocate_Sequential(t *testing.T) {
	f := New()
	for i := uint64(0); i < 200; i++ {
		assert.Equal(t, i, f.Allocate())
	}
	assert.Equal(t, 200, f.Len())
	assert.Equal(t, 256, f.Cap())
}

func TestVacate_ReusesLowestFirst(t *testing.T) {
	f := New()
	for i := 0; i < 4; i++ {
		f.Allocate()
	}

	require.True(t, f.Vacate(1))
	require.True(t, f.Vacate(2))
	assert.False(t, f.IsAllocated(1))

	assert.Equal(t, uint64(1), f.Allocate())
	assert.Equal(t, uint64(2), f.Allocate())
	assert.Equal(t, uint64(4), f.Allocate())
}

func TestVacate_OutOfOrder(t *testing.T) {
	f := New()
	for i := 0; i < 130; i++ {
		f.Allocate()
	}

	require.True(t, f.Vacate(129))
	require.True(t, f.Vacate(65))
	require.True(t, f.Vacate(3))

	assert.Equal(t, uint64(3), f.Allocate())
	assert.Equal(t, uint64(65), f.Allocate())
	assert.Equal(t, uint64(129), f.Allocate())
	assert.Equal(t, uint64(130), f.Allocate())
}

func TestVacate_NotAllocated(t *testing.T) {
	f := New()
	assert.False(t, f.Vacate(0))
	assert.False(t, f.Vacate(1000))

	ix := f.Allocate()
	require.True(t, f.Vacate(ix))
	assert.False(t, f.Vacate(ix))
	assert.Equal(t, 0, f.Len())
}

func TestReserve(t *testing.T) {
	f := New()
	require.True(t, f.Reserve(0))
	require.True(t, f.Reserve(5))
	assert.False(t, f.Reserve(5))

	assert.Equal(t, uint64(1), f.Allocate())
	assert.Equal(t, uint64(2), f.Allocate())
	assert.Equal(t, uint64(3), f.Allocate())
	assert.Equal(t, uint64(4), f.Allocate())
	assert.Equal(t, uint64(6), f.Allocate())
}

func TestAllocate_NeverReturnsLiveSlot(t *testing.T) {
	f := New()
	live := make(map[uint64]bool)

	for round := 0; round < 50; round++ {
		for i := 0; i < 7; i++ {
			ix := f.Allocate()
			require.False(t, live[ix], "slot %d handed out twice", ix)
			live[ix] = true
		}
		for ix := range live {
			if ix%3 == uint64(round%3) {
				require.True(t, f.Vacate(ix))
				delete(live, ix)
			}
		}
	}
	assert.Equal(t, len(live), f.Len())
}
