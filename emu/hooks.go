package emu

import "fmt"

// The four builtin externs the driver exposes to compiled expressions:
// div, mod, inc, dec. Each reads its arguments from the argument
// registers the AAPCS (and this JIT's call sequence) places them in,
// and leaves its result in r0.

func divHook(vm *VM) error {
	a := int32(vm.CPU.GetRegister(R0))
	b := int32(vm.CPU.GetRegister(R1))
	if b == 0 {
		return fmt.Errorf("div: division by zero")
	}
	vm.CPU.SetRegister(R0, uint32(a/b))
	return returnToCaller(vm)
}

func modHook(vm *VM) error {
	a := int32(vm.CPU.GetRegister(R0))
	b := int32(vm.CPU.GetRegister(R1))
	if b == 0 {
		return fmt.Errorf("mod: division by zero")
	}
	vm.CPU.SetRegister(R0, uint32(a%b))
	return returnToCaller(vm)
}

func incHook(vm *VM) error {
	a := int32(vm.CPU.GetRegister(R0))
	vm.CPU.SetRegister(R0, uint32(a+1))
	return returnToCaller(vm)
}

func decHook(vm *VM) error {
	a := int32(vm.CPU.GetRegister(R0))
	vm.CPU.SetRegister(R0, uint32(a-1))
	return returnToCaller(vm)
}

// returnToCaller mimics the "bx lr" a real extern ends with: the hook
// already did the work blx would have jumped to, so it only needs to
// resume execution where the call site's lr says to.
func returnToCaller(vm *VM) error {
	vm.CPU.R[PC] = vm.CPU.GetRegister(LR) &^ 1
	vm.pcAlreadyAdvanced = true
	return nil
}

// BuiltinExterns lists the names this package can provide a hook for.
var BuiltinExterns = []string{"div", "mod", "inc", "dec"}

// RegisterBuiltins binds each name in addrs that matches a known
// builtin extern to its host implementation. Unrecognized names are
// left untouched (they may be ordinary data symbols, not externs).
func RegisterBuiltins(vm *VM, addrs map[string]uint32) {
	table := map[string]Hook{
		"div": divHook,
		"mod": modHook,
		"inc": incHook,
		"dec": decHook,
	}
	for name, fn := range table {
		if addr, ok := addrs[name]; ok {
			vm.RegisterHook(addr, fn)
		}
	}
}
