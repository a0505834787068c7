// internal/device/device_test.go
package device

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMem_ReadWrite(t *testing.T) {
	m := NewMem(64)

	require.NoError(t, m.Write(10, []byte{1, 2, 3}))

	got, err := m.Read(10, 3)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, got)

	// Reads return copies.
	got[0] = 0xEE
	again, err := m.Read(10, 1)
	require.NoError(t, err)
	assert.Equal(t, byte(1), again[0])
}

func TestMem_Bounds(t *testing.T) {
	m := NewMem(16)

	_, err := m.Read(8, 16)
	assert.Error(t, err)
	_, err = m.Read(-1, 1)
	assert.Error(t, err)
	assert.Error(t, m.Write(15, []byte{1, 2}))
}

func TestMemFilled(t *testing.T) {
	m := NewMemFilled(8, 0xFF)
	got, err := m.Read(0, 8)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, got)
}

func TestFile_CreateOpenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tool0.img")

	d, err := CreateFile(path, 1024)
	require.NoError(t, err)
	assert.Equal(t, 1024, d.Capacity())

	blank, err := d.Read(0, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF}, blank, "fresh image reads as 0xFF")

	require.NoError(t, d.Write(256, []byte("payload")))
	require.NoError(t, d.Close())

	d, err = OpenFile(path)
	require.NoError(t, err)
	defer d.Close()

	assert.Equal(t, 1024, d.Capacity())
	got, err := d.Read(256, 7)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)
}

func TestFile_CreateRefusesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tool0.img")

	d, err := CreateFile(path, 64)
	require.NoError(t, err)
	require.NoError(t, d.Close())

	_, err = CreateFile(path, 64)
	assert.Error(t, err)
}

// fakeRegisters emulates a bridge MCU's holding-register bank.
type fakeRegisters struct {
	bank []byte
}

func (f *fakeRegisters) ReadHoldingRegisters(address, quantity uint16) ([]byte, error) {
	start := int(address) * 2
	end := start + int(quantity)*2
	out := make([]byte, end-start)
	copy(out, f.bank[start:end])
	return out, nil
}

func (f *fakeRegisters) WriteMultipleRegisters(address, quantity uint16, value []byte) ([]byte, error) {
	copy(f.bank[int(address)*2:], value[:int(quantity)*2])
	return nil, nil
}

func newFakeModbus(capacity int) (*Modbus, *fakeRegisters) {
	bank := &fakeRegisters{bank: make([]byte, capacity)}
	return &Modbus{client: bank, capacity: capacity}, bank
}

func TestModbus_AlignedReadWrite(t *testing.T) {
	d, _ := newFakeModbus(64)

	require.NoError(t, d.Write(0, []byte{1, 2, 3, 4}))
	got, err := d.Read(0, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, got)
}

func TestModbus_UnalignedEdgesPreserveNeighbours(t *testing.T) {
	d, bank := newFakeModbus(16)
	copy(bank.bank, []byte{0xA0, 0xA1, 0xA2, 0xA3, 0xA4, 0xA5})

	// Odd start, odd length: both edges share registers.
	require.NoError(t, d.Write(1, []byte{0xB1, 0xB2, 0xB3}))

	assert.Equal(t, []byte{0xA0, 0xB1, 0xB2, 0xB3, 0xA4, 0xA5}, bank.bank[:6])

	got, err := d.Read(1, 3)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xB1, 0xB2, 0xB3}, got)
}

func TestModbus_UnalignedReads(t *testing.T) {
	d, bank := newFakeModbus(16)
	for i := range bank.bank {
		bank.bank[i] = byte(i)
	}

	got, err := d.Read(3, 5)
	require.NoError(t, err)
	assert.Equal(t, []byte{3, 4, 5, 6, 7}, got)
}

func TestModbus_WriteAtCapacityEnd(t *testing.T) {
	d, bank := newFakeModbus(8)
	bank.bank[6] = 0xEE

	// Write into the last register must preserve the neighbouring
	// byte it shares the register with.
	require.NoError(t, d.Write(7, []byte{0x55}))
	assert.Equal(t, byte(0xEE), bank.bank[6])
	assert.Equal(t, byte(0x55), bank.bank[7])
}
