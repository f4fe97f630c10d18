// Package storage provides the byte-addressable backing memory that the
// PSRAM controller model exposes through its bus interface.
package storage

// Storage is the externally visible memory of a peripheral, addressed
// modulo its capacity.
type Storage interface {
	Read(addr uint32) byte
	Write(addr uint32, data byte)
}

// Memory is an in-process Storage over a flat byte slice.
type Memory struct {
	data []byte
}

// NewMemory creates a Memory with the given capacity in bytes.
func NewMemory(capacity uint32) *Memory {
	if capacity == 0 {
		panic("storage: capacity must be positive")
	}

	return &Memory{data: make([]byte, capacity)}
}

// Read returns the byte at addr modulo capacity.
func (m *Memory) Read(addr uint32) byte {
	return m.data[int(addr)%len(m.data)]
}

// Write stores data at addr modulo capacity.
func (m *Memory) Write(addr uint32, data byte) {
	m.data[int(addr)%len(m.data)] = data
}

// Capacity returns the size of the memory in bytes.
func (m *Memory) Capacity() uint32 {
	return uint32(len(m.data))
}

var _ Storage = (*Memory)(nil)
