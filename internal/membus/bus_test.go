package membus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressBusFirstMatchWins(t *testing.T) {
	b := New()
	first := NewRAM(256)
	second := NewRAM(256)
	first.Write(0x10, 0xAA)
	second.Write(0x10, 0xBB)

	require.NoError(t, b.Connect(first, 0, 0xFF))
	require.NoError(t, b.Connect(second, 0, 0xFF)) // overlaps; first wins

	assert.Equal(t, byte(0xAA), b.Read(0x10))
}

func TestAddressBusUnmappedReadReturnsFF(t *testing.T) {
	b := New()
	assert.Equal(t, byte(0xFF), b.Read(0x1234))
}

func TestAddressBusUnmappedWriteIsDropped(t *testing.T) {
	b := New()
	require.NotPanics(t, func() { b.Write(0x1234, 0x42) })
}

func TestAddressBusConnectFailsWhenFull(t *testing.T) {
	b := New()
	ram := NewRAM(2)
	for i := 0; i < MaxDevices; i++ {
		require.NoError(t, b.Connect(ram, 0, 1))
	}
	err := b.Connect(ram, 0, 1)
	require.Error(t, err)
	assert.IsType(t, ErrBusFull{}, err)
}

func TestAddressBusConnectFailsOnceSealed(t *testing.T) {
	b := New()
	ram := NewRAM(2)
	b.Seal()
	err := b.Connect(ram, 0, 1)
	require.Error(t, err)
	assert.IsType(t, ErrBusSealed{}, err)
}

func TestAddressBusRead16LittleEndian(t *testing.T) {
	b := New()
	ram := NewRAM(0x10000)
	require.NoError(t, b.Connect(ram, 0, 0xFFFF))
	b.Write(0xFFFC, 0x34)
	b.Write(0xFFFD, 0x12)
	assert.Equal(t, uint16(0x1234), b.Read16(0xFFFC))
}

func TestRAMOutOfRangeReadsAndWrites(t *testing.T) {
	r := NewRAM(16)
	assert.Equal(t, byte(0xFF), r.Read(100))
	require.NotPanics(t, func() { r.Write(100, 1) })
}

func TestROMWritesAreDropped(t *testing.T) {
	rom := NewROM([]byte{1, 2, 3, 4})
	rom.Write(0, 0xFF)
	assert.Equal(t, byte(1), rom.Read(0))
}
