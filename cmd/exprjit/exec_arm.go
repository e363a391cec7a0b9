//go:build arm

package main

import (
	"fmt"
	"unsafe"

	"github.com/armjit/exprjit/codegen"
	"github.com/armjit/exprjit/config"
	"github.com/armjit/exprjit/jit"
	"github.com/armjit/exprjit/symtable"
	"golang.org/x/sys/unix"
)

// evaluateHardware compiles expr and runs the generated code directly
// on the host CPU: mmap a page, copy the instructions in, flip it
// from writable to executable (never both at once), and call through
// it as an ordinary Go function value via an unsafe pointer cast.
//
// Calls to the builtin externs (div, mod, inc, dec) are not supported
// here: jumping from AAPCS-convention JIT code into a real Go function
// bypasses the goroutine stack-growth checks the Go runtime relies on,
// which isn't safe without a hand-written trampoline. Expressions that
// reference them fail to compile on this backend with "unknown
// symbol", the same error an undefined variable produces, since this
// backend's symbol table simply never binds them.
func evaluateHardware(cfg *config.Config, expr string, vars map[string]int32) (int32, error) {
	dataPage, err := unix.Mmap(-1, 0, unix.Getpagesize(),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return 0, fmt.Errorf("mmap data page: %w", err)
	}
	defer unix.Munmap(dataPage)

	var symbols []symtable.Symbol
	offset := 0
	for name, value := range vars {
		if offset+4 > len(dataPage) {
			return 0, fmt.Errorf("too many variables for one data page")
		}
		addr := uint32(uintptr(unsafe.Pointer(&dataPage[offset])))
		dataPage[offset] = byte(value)
		dataPage[offset+1] = byte(value >> 8)
		dataPage[offset+2] = byte(value >> 16)
		dataPage[offset+3] = byte(value >> 24)
		symbols = append(symbols, symtable.Symbol{Name: name, Address: addr})
		offset += 4
	}

	prog, err := jit.Compile(expr, symbols)
	if err != nil {
		return 0, err
	}

	codePage, err := unix.Mmap(-1, 0, unix.Getpagesize(),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return 0, fmt.Errorf("mmap code page: %w", err)
	}
	defer unix.Munmap(codePage)

	copy(codePage, codegen.Bytes(prog.Words))

	if err := unix.Mprotect(codePage, unix.PROT_READ|unix.PROT_EXEC); err != nil {
		return 0, fmt.Errorf("mprotect code page: %w", err)
	}

	entry := unsafe.Pointer(&codePage[0])
	fn := *(*func() int32)(unsafe.Pointer(&entry))
	return fn(), nil
}
