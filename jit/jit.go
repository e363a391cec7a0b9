// Package jit wires the lexer, parser and code generator together and
// hands back a compiled function ready to run.
package jit

import (
	"fmt"

	"github.com/armjit/exprjit/ast"
	"github.com/armjit/exprjit/codegen"
	"github.com/armjit/exprjit/emu"
	"github.com/armjit/exprjit/lexer"
	"github.com/armjit/exprjit/parser"
	"github.com/armjit/exprjit/symtable"
)

// Program is a successfully compiled expression: its generated code
// and the AST it came from (kept for diagnostics, not reused at
// runtime).
type Program struct {
	AST   ast.Node
	Words []uint32
	Code  []byte
}

// Compile lexes, parses and generates code for expr against symbols.
// It never runs the result; call Emulate or a real-hardware backend
// to do that.
func Compile(expr string, symbols []symtable.Symbol) (*Program, error) {
	p := parser.New(lexer.New(expr))
	root, err := p.Parse()
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	words, err := codegen.New(symtable.New(symbols)).Compile(root)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	return &Program{AST: root, Words: words, Code: codegen.Bytes(words)}, nil
}

// EmulatedVariables binds a variable symbol's value into the
// emulator's data segment and returns the address it was given,
// suitable as a symtable.Symbol for a subsequent Compile call.
type EmulatedVariables struct {
	vm      *emu.VM
	next    uint32
	symbols []symtable.Symbol
}

// NewEmulatedVariables creates an empty variable set backed by vm's
// data segment.
func NewEmulatedVariables(vm *emu.VM) *EmulatedVariables {
	return &EmulatedVariables{vm: vm, next: emu.DataSegmentStart}
}

// Bind stores value at a fresh address and records name -> address.
func (e *EmulatedVariables) Bind(name string, value uint32) (symtable.Symbol, error) {
	addr := e.next
	e.next += 4
	if err := e.vm.Memory.WriteVariable(addr, value); err != nil {
		return symtable.Symbol{}, err
	}
	sym := symtable.Symbol{Name: name, Address: addr}
	e.symbols = append(e.symbols, sym)
	return sym, nil
}

// Symbols returns every symbol bound so far.
func (e *EmulatedVariables) Symbols() []symtable.Symbol {
	return e.symbols
}

// externAddresses are fixed, out-of-band addresses for the builtin
// externs: they never collide with the data segment the variables
// live in or the code segment the compiled function is loaded into.
var externAddresses = map[string]uint32{
	"div": 0x00050000,
	"mod": 0x00050004,
	"inc": 0x00050008,
	"dec": 0x0005000C,
}

// BuiltinSymbols returns symtable entries for the four builtin externs
// (div, mod, inc, dec), for inclusion alongside variable symbols when
// compiling an expression that calls them.
func BuiltinSymbols() []symtable.Symbol {
	out := make([]symtable.Symbol, 0, len(emu.BuiltinExterns))
	for _, name := range emu.BuiltinExterns {
		out = append(out, symtable.Symbol{Name: name, Address: externAddresses[name]})
	}
	return out
}

// Emulate runs a compiled program on the trimmed A32 interpreter,
// registering the builtin externs as host hooks so that calls like
// div(a, b) execute as real Go code rather than needing emitted
// machine code of their own. It returns the program's r0 result,
// interpreted as a signed 32-bit integer.
func Emulate(prog *Program, vm *emu.VM) (int32, error) {
	emu.RegisterBuiltins(vm, externAddresses)

	addr, err := vm.Memory.LoadCode(prog.Code)
	if err != nil {
		return 0, err
	}

	result, err := emu.RunAt(vm, addr)
	if err != nil {
		return 0, err
	}
	return int32(result), nil
}
