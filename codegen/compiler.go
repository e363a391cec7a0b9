package codegen

import (
	"fmt"
	"strconv"

	"github.com/armjit/exprjit/ast"
	"github.com/armjit/exprjit/symtable"
)

// maxCallArgs is the number of argument registers the AAPCS gives a
// function before it must spill to the stack (r0-r3). This compiler
// never builds that spill path, so a call with more arguments is a
// compile-time error rather than a runtime one.
const maxCallArgs = 4

// CompileError reports a failure to translate a node into machine
// code: an unknown symbol, or a call with too many arguments.
type CompileError struct {
	Node    ast.Node
	Message string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile error: %s", e.Message)
}

// Compiler walks an expression tree in post order, emitting A32 words
// and tracking live values on the generated function's own runtime
// stack rather than in a compile-time register file. Every
// subexpression leaves exactly one value pushed; every operator pops
// its operands and pushes its result.
type Compiler struct {
	symbols *symtable.Table
	words   []uint32
}

// New creates a Compiler that resolves symbol references and call
// targets against symbols.
func New(symbols *symtable.Table) *Compiler {
	return &Compiler{symbols: symbols}
}

// Compile translates root into a complete function body: a prologue
// that saves the callee-saved registers, the expression's code, and
// an epilogue that returns the result in r0.
func (c *Compiler) Compile(root ast.Node) ([]uint32, error) {
	c.words = nil
	c.emit(prologueWord)

	if err := c.compileNode(root); err != nil {
		return nil, err
	}

	c.emit(encodePop(0))
	c.emit(epilogueRestoreWord)
	c.emit(returnWord)
	return c.words, nil
}

// prologueWord, epilogueRestoreWord and returnWord bracket every
// compiled function: save r4-r9 and lr, and later restore them and
// return via the standard AAPCS epilogue.
const (
	prologueWord        uint32 = 0xE92D43F0 // STMDB sp!, {r4-r9, lr}
	epilogueRestoreWord uint32 = 0xE8BD43F0 // LDMIA sp!, {r4-r9, lr}
	returnWord          uint32 = 0xE12FFF1E // BX lr
)

func (c *Compiler) emit(words ...uint32) {
	c.words = append(c.words, words...)
}

func (c *Compiler) compileNode(n ast.Node) error {
	switch node := n.(type) {
	case *ast.Literal:
		return c.compileLiteral(node)
	case *ast.Call:
		if node.IsSymbolRef() {
			return c.compileSymbolRef(node)
		}
		return c.compileCall(node)
	case *ast.Unary:
		return c.compileUnary(node)
	case *ast.Binary:
		return c.compileBinary(node)
	default:
		return &CompileError{Node: n, Message: fmt.Sprintf("unhandled node type %T", n)}
	}
}

func (c *Compiler) compileLiteral(lit *ast.Literal) error {
	value, err := strconv.ParseUint(lit.Value, 10, 32)
	if err != nil {
		return &CompileError{Node: lit, Message: fmt.Sprintf("invalid integer literal %q", lit.Value)}
	}
	words := encodeImmediateLoad(uint32(value), 0)
	c.emit(words[:]...)
	c.emit(encodePush(0))
	return nil
}

func (c *Compiler) compileSymbolRef(ref *ast.Call) error {
	addr, err := c.symbols.Lookup(ref.Symbol)
	if err != nil {
		return &CompileError{Node: ref, Message: err.Error()}
	}
	words := encodeAddressLoad(addr, 0)
	c.emit(words[:]...)
	c.emit(encodePush(0))
	return nil
}

func (c *Compiler) compileUnary(u *ast.Unary) error {
	if err := c.compileNode(u.Arg); err != nil {
		return err
	}
	c.emit(encodePop(0))
	zero := encodeImmediateLoad(0, 1)
	c.emit(zero[:]...)
	c.emit(encodeSub(0, 1, 0)) // r0 := r1 - r0 == -r0
	c.emit(encodePush(0))
	return nil
}

func (c *Compiler) compileBinary(b *ast.Binary) error {
	if err := c.compileNode(b.Left); err != nil {
		return err
	}
	if err := c.compileNode(b.Right); err != nil {
		return err
	}
	c.emit(encodePop(1)) // right operand
	c.emit(encodePop(0)) // left operand

	switch b.Op {
	case "+":
		c.emit(encodeAdd(0, 0, 1))
	case "-":
		c.emit(encodeSub(0, 0, 1))
	case "*":
		// MUL forbids Rd == Rm; multiplication commutes, so swap the
		// operand registers rather than spill to a third register.
		c.emit(encodeMul(0, 1, 0))
	default:
		return &CompileError{Node: b, Message: fmt.Sprintf("unknown operator %q", b.Op)}
	}
	c.emit(encodePush(0))
	return nil
}

func (c *Compiler) compileCall(call *ast.Call) error {
	if len(call.Args) > maxCallArgs {
		return &CompileError{Node: call, Message: fmt.Sprintf("call to %q has %d arguments, at most %d are supported", call.Symbol, len(call.Args), maxCallArgs)}
	}

	for _, arg := range call.Args {
		if err := c.compileNode(arg); err != nil {
			return err
		}
	}

	// Arguments were pushed in order, so the stack holds them with the
	// last argument on top; pop back into r0..rN-1 in reverse.
	for i := len(call.Args) - 1; i >= 0; i-- {
		c.emit(encodePop(uint32(i)))
	}

	addr, err := c.symbols.Lookup(call.Symbol)
	if err != nil {
		return &CompileError{Node: call, Message: err.Error()}
	}
	target := encodeImmediateLoad(addr, 12) // r12 (ip): AAPCS scratch register
	c.emit(target[:]...)
	c.emit(encodeBlx(12))
	c.emit(encodePush(0))
	return nil
}

// Bytes renders the generated words as a little-endian byte stream,
// ready to be copied into executable memory.
func Bytes(words []uint32) []byte {
	out := make([]byte, 4*len(words))
	for i, w := range words {
		out[4*i+0] = byte(w)
		out[4*i+1] = byte(w >> 8)
		out[4*i+2] = byte(w >> 16)
		out[4*i+3] = byte(w >> 24)
	}
	return out
}
