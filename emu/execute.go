package emu

import "fmt"

// Data processing opcodes this interpreter supports, named the way the
// ARM architecture reference names them.
const (
	opADD = 0x4
	opSUB = 0x2
)

func executeDataProcessing(vm *VM, opcode uint32) error {
	op := (opcode >> 21) & 0xF
	immediate := (opcode >> 25) & 0x1
	rn := int((opcode >> 16) & 0xF)
	rd := int((opcode >> 12) & 0xF)

	op1 := vm.CPU.GetRegister(rn)

	var op2 uint32
	if immediate == 1 {
		imm := opcode & 0xFF
		rotation := ((opcode >> 8) & 0xF) * 2
		if rotation == 0 {
			op2 = imm
		} else {
			op2 = (imm >> rotation) | (imm << (32 - rotation))
		}
	} else {
		rm := int(opcode & 0xF)
		op2 = vm.CPU.GetRegister(rm)
	}

	var result uint32
	switch op {
	case opADD:
		result = op1 + op2
	case opSUB:
		result = op1 - op2
	default:
		return fmt.Errorf("unsupported data processing opcode %#x", op)
	}

	vm.CPU.SetRegister(rd, result)
	if rd == PC {
		vm.pcAlreadyAdvanced = true
	}
	return nil
}

func executeMultiply(vm *VM, opcode uint32) error {
	rd := int((opcode >> 16) & 0xF)
	rs := int((opcode >> 8) & 0xF)
	rm := int(opcode & 0xF)

	if rd == rm {
		return fmt.Errorf("multiply: Rd and Rm must be different registers (Rd=%d, Rm=%d)", rd, rm)
	}

	result := vm.CPU.GetRegister(rm) * vm.CPU.GetRegister(rs)
	vm.CPU.SetRegister(rd, result)
	return nil
}

// executeBranchExchange handles both BX and BLX(register). A target
// address registered as a host hook (RegisterHook) calls back into Go
// instead of being fetched as A32 code, the way a real linker would
// resolve a call to a libc function compiled elsewhere.
func executeBranchExchange(vm *VM, opcode uint32) error {
	isBLX := (opcode & 0x0FFFFFF0) == 0x012FFF30
	rm := int(opcode & 0xF)
	target := vm.CPU.GetRegister(rm) &^ 1

	if isBLX {
		vm.CPU.SetRegister(LR, vm.CPU.R[PC]+4)
	}

	if hook, ok := vm.Hooks[target]; ok {
		return hook(vm)
	}

	vm.CPU.R[PC] = target
	vm.pcAlreadyAdvanced = true
	return nil
}

func executeSingleTransfer(vm *VM, opcode uint32) error {
	load := (opcode >> 20) & 0x1
	writeback := (opcode >> 21) & 0x1
	up := (opcode >> 23) & 0x1
	pre := (opcode >> 24) & 0x1
	immediate := (opcode >> 25) & 0x1

	rn := int((opcode >> 16) & 0xF)
	rd := int((opcode >> 12) & 0xF)

	var offset uint32
	if immediate == 0 {
		offset = opcode & 0xFFF
	} else {
		return fmt.Errorf("register-offset single transfer is not supported (opcode 0x%08X)", opcode)
	}

	base := vm.CPU.GetRegister(rn)
	var transferAddr uint32
	if pre == 1 {
		if up == 1 {
			transferAddr = base + offset
		} else {
			transferAddr = base - offset
		}
	} else {
		transferAddr = base
	}

	if load == 1 {
		value, err := vm.Memory.ReadWord(transferAddr)
		if err != nil {
			return fmt.Errorf("load failed at 0x%08X: %w", transferAddr, err)
		}
		vm.CPU.SetRegister(rd, value)
	} else {
		if err := vm.Memory.WriteWord(transferAddr, vm.CPU.GetRegister(rd)); err != nil {
			return fmt.Errorf("store failed at 0x%08X: %w", transferAddr, err)
		}
	}

	// Post-indexed transfers always write back; pre-indexed ones only
	// when the W bit is set. Every push/pop this compiler emits sets
	// writeback exactly where the stack pointer needs to move.
	if pre == 0 || writeback == 1 {
		if up == 1 {
			vm.CPU.SetRegister(rn, base+offset)
		} else {
			vm.CPU.SetRegister(rn, base-offset)
		}
	}

	return nil
}

func executeMultipleTransfer(vm *VM, opcode uint32) error {
	load := (opcode >> 20) & 0x1
	writeback := (opcode >> 21) & 0x1
	up := (opcode >> 23) & 0x1
	pre := (opcode >> 24) & 0x1

	rn := int((opcode >> 16) & 0xF)
	regList := opcode & 0xFFFF

	numRegs := 0
	for i := 0; i < 16; i++ {
		if regList&(1<<i) != 0 {
			numRegs++
		}
	}
	if numRegs == 0 {
		return fmt.Errorf("load/store multiple with empty register list")
	}

	base := vm.CPU.GetRegister(rn)
	var addr uint32
	if up == 1 {
		if pre == 1 {
			addr = base + 4
		} else {
			addr = base
		}
	} else {
		if pre == 1 {
			addr = base - uint32(numRegs)*4
		} else {
			addr = base - uint32(numRegs)*4 + 4
		}
	}

	for i := 0; i < 16; i++ {
		if regList&(1<<i) == 0 {
			continue
		}
		if load == 1 {
			value, err := vm.Memory.ReadWord(addr)
			if err != nil {
				return fmt.Errorf("load multiple failed at 0x%08X: %w", addr, err)
			}
			vm.CPU.SetRegister(i, value)
		} else {
			if err := vm.Memory.WriteWord(addr, vm.CPU.GetRegister(i)); err != nil {
				return fmt.Errorf("store multiple failed at 0x%08X: %w", addr, err)
			}
		}
		addr += 4
	}

	if writeback == 1 {
		if up == 1 {
			vm.CPU.SetRegister(rn, base+uint32(numRegs)*4)
		} else {
			vm.CPU.SetRegister(rn, base-uint32(numRegs)*4)
		}
	}

	return nil
}
