package emu

import "fmt"

// InstructionKind classifies a decoded word into one of the execution
// handlers below. Decode itself rejects only non-AL conditions, B/BL,
// and the coprocessor/SWI class; every other word is classified by its
// top bits. The handlers in execute.go then reject other
// data-processing opcodes, register-offset transfers and empty register
// lists, and ignore fields codegen/isa.go never sets (the S bit,
// operand-2 shifts, the byte flag of a single transfer).
type InstructionKind int

const (
	KindDataProcessing InstructionKind = iota
	KindMultiply
	KindBranchExchange
	KindSingleTransfer
	KindMultipleTransfer
)

// Instruction is a decoded instruction word, condition-evaluated and
// field-extracted the way the handlers in execute.go expect.
type Instruction struct {
	Opcode uint32
	Kind   InstructionKind
}

// Decode classifies a raw instruction word, with the dispatch narrowed
// to what this JIT ever generates.
func Decode(opcode uint32) (*Instruction, error) {
	cond := (opcode >> 28) & 0xF
	if cond != 0xE {
		return nil, fmt.Errorf("unsupported condition code %#x: this interpreter only runs unconditional (AL) code", cond)
	}

	bits2726 := (opcode >> 26) & 0x3

	switch bits2726 {
	case 0:
		if (opcode & 0x0FFFFFF0) == 0x012FFF10 {
			return &Instruction{Opcode: opcode, Kind: KindBranchExchange}, nil
		}
		if (opcode & 0x0FFFFFF0) == 0x012FFF30 {
			return &Instruction{Opcode: opcode, Kind: KindBranchExchange}, nil
		}
		if (opcode & 0x0FC000F0) == 0x00000090 {
			return &Instruction{Opcode: opcode, Kind: KindMultiply}, nil
		}
		return &Instruction{Opcode: opcode, Kind: KindDataProcessing}, nil

	case 1:
		return &Instruction{Opcode: opcode, Kind: KindSingleTransfer}, nil

	case 2:
		if (opcode & 0x02000000) == 0 {
			return &Instruction{Opcode: opcode, Kind: KindMultipleTransfer}, nil
		}
		return nil, fmt.Errorf("branch (B/BL) opcode 0x%08X is not emitted by this compiler and is not supported", opcode)

	default:
		return nil, fmt.Errorf("unsupported instruction class in opcode 0x%08X", opcode)
	}
}
