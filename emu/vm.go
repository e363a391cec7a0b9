package emu

import "fmt"

// Hook is a host callback invoked in place of fetching real
// instructions at a registered address: how this interpreter runs the
// builtin externs (div, mod, inc, dec) that the JIT calls via blx
// without ever compiling machine code for them.
type Hook func(vm *VM) error

// VM is a minimal A32 execution context: a CPU, an address space, and
// a table of host hooks keyed by the address a blx targets.
type VM struct {
	CPU    *CPU
	Memory *Memory
	Hooks  map[uint32]Hook

	pcAlreadyAdvanced bool
	StepLimit         int
	steps             int
}

// NewVM creates a VM with fresh, zeroed register and memory state.
func NewVM() *VM {
	return &VM{
		CPU:       &CPU{},
		Memory:    NewMemory(),
		Hooks:     make(map[uint32]Hook),
		StepLimit: 10000,
	}
}

// RegisterHook binds address to a host callback. A blx whose target
// resolves to address invokes fn instead of fetching code there.
func (vm *VM) RegisterHook(address uint32, fn Hook) {
	vm.Hooks[address] = fn
}

// Step fetches, decodes and executes one instruction.
func (vm *VM) Step() error {
	vm.steps++
	if vm.StepLimit > 0 && vm.steps > vm.StepLimit {
		return fmt.Errorf("step limit (%d) exceeded: generated code did not return", vm.StepLimit)
	}

	opcode, err := vm.Memory.ReadWord(vm.CPU.R[PC])
	if err != nil {
		return fmt.Errorf("fetch failed at pc=0x%08X: %w", vm.CPU.R[PC], err)
	}

	inst, err := Decode(opcode)
	if err != nil {
		return fmt.Errorf("decode failed at pc=0x%08X: %w", vm.CPU.R[PC], err)
	}

	vm.pcAlreadyAdvanced = false

	switch inst.Kind {
	case KindDataProcessing:
		err = executeDataProcessing(vm, opcode)
	case KindMultiply:
		err = executeMultiply(vm, opcode)
	case KindBranchExchange:
		err = executeBranchExchange(vm, opcode)
	case KindSingleTransfer:
		err = executeSingleTransfer(vm, opcode)
	case KindMultipleTransfer:
		err = executeMultipleTransfer(vm, opcode)
	default:
		err = fmt.Errorf("unhandled instruction kind at pc=0x%08X", vm.CPU.R[PC])
	}
	if err != nil {
		return err
	}

	if !vm.pcAlreadyAdvanced {
		vm.CPU.R[PC] += 4
	}
	return nil
}

// haltAddress is the return address this package installs in lr
// before starting a run; a bx/blx targeting it ends Run cleanly
// instead of faulting on an unmapped fetch.
const haltAddress = 0xFFFFFFF0

// Run loads code at its mapped address, sets lr to a sentinel return
// address, and steps until that address is reached (a normal return)
// or an error occurs.
func Run(code []byte) (result uint32, err error) {
	vm := NewVM()
	addr, err := vm.Memory.LoadCode(code)
	if err != nil {
		return 0, err
	}
	return RunAt(vm, addr)
}

// RunAt executes the code already loaded into vm's memory starting at
// entry, returning the value left in r0 when control reaches
// haltAddress.
func RunAt(vm *VM, entry uint32) (uint32, error) {
	vm.CPU.R[PC] = entry
	vm.CPU.SetRegister(LR, haltAddress)
	vm.CPU.SetRegister(SP, StackSegmentStart+StackSegmentSize-16)

	for vm.CPU.R[PC] != haltAddress {
		if err := vm.Step(); err != nil {
			return 0, err
		}
	}
	return vm.CPU.R[R0], nil
}
