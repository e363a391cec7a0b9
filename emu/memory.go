package emu

import "fmt"

// Memory segments: this interpreter only ever runs one compiled
// function at a time, so each region is small — code, data for symbol
// storage, and a stack.
const (
	CodeSegmentStart  = 0x00008000
	CodeSegmentSize   = 0x00004000
	DataSegmentStart  = 0x00020000
	DataSegmentSize   = 0x00004000
	StackSegmentStart = 0x00040000
	StackSegmentSize  = 0x00004000
)

// MemorySegment is a named, bounds-checked region of byte-addressable
// memory.
type MemorySegment struct {
	Start uint32
	Data  []byte
	Name  string
}

// Memory is the ARM address space visible to a running program: a
// handful of fixed segments, little-endian throughout.
type Memory struct {
	Segments []*MemorySegment
}

// NewMemory creates a Memory with the standard code/data/stack layout.
func NewMemory() *Memory {
	m := &Memory{}
	m.addSegment("code", CodeSegmentStart, CodeSegmentSize)
	m.addSegment("data", DataSegmentStart, DataSegmentSize)
	m.addSegment("stack", StackSegmentStart, StackSegmentSize)
	return m
}

func (m *Memory) addSegment(name string, start, size uint32) {
	m.Segments = append(m.Segments, &MemorySegment{
		Start: start,
		Data:  make([]byte, size),
		Name:  name,
	})
}

func (m *Memory) findSegment(address uint32) (*MemorySegment, uint32, error) {
	for _, seg := range m.Segments {
		if address >= seg.Start && address < seg.Start+uint32(len(seg.Data)) {
			return seg, address - seg.Start, nil
		}
	}
	return nil, 0, fmt.Errorf("memory access violation: address 0x%08X is not mapped", address)
}

// ReadWord reads a little-endian 32-bit word.
func (m *Memory) ReadWord(address uint32) (uint32, error) {
	seg, off, err := m.findSegment(address)
	if err != nil {
		return 0, err
	}
	if off+4 > uint32(len(seg.Data)) {
		return 0, fmt.Errorf("word read at 0x%08X crosses segment %q boundary", address, seg.Name)
	}
	b := seg.Data[off : off+4]
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
}

// WriteWord writes a little-endian 32-bit word.
func (m *Memory) WriteWord(address, value uint32) error {
	seg, off, err := m.findSegment(address)
	if err != nil {
		return err
	}
	if off+4 > uint32(len(seg.Data)) {
		return fmt.Errorf("word write at 0x%08X crosses segment %q boundary", address, seg.Name)
	}
	seg.Data[off+0] = byte(value)
	seg.Data[off+1] = byte(value >> 8)
	seg.Data[off+2] = byte(value >> 16)
	seg.Data[off+3] = byte(value >> 24)
	return nil
}

// LoadCode copies the compiled instruction stream into the code
// segment starting at CodeSegmentStart, returning its load address.
func (m *Memory) LoadCode(code []byte) (uint32, error) {
	seg := m.Segments[0]
	if len(code) > len(seg.Data) {
		return 0, fmt.Errorf("compiled code (%d bytes) exceeds code segment size (%d)", len(code), len(seg.Data))
	}
	copy(seg.Data, code)
	return seg.Start, nil
}

// WriteVariable stores a 32-bit value at a caller-chosen address in
// the data segment, the way a host binds a symbol's storage before
// invoking compiled code that reads it.
func (m *Memory) WriteVariable(address, value uint32) error {
	return m.WriteWord(address, value)
}
