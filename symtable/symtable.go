// Package symtable implements a symbol table: a mapping from external
// symbol name to a 32-bit address, built eagerly from a caller-supplied
// record list before compilation begins.
package symtable

import "fmt"

// Symbol is one entry passed in from the host: a name and the address
// it resolves to (a variable's storage, or a function's entry point).
type Symbol struct {
	Name    string
	Address uint32
}

// Table resolves symbol names to addresses during code generation.
type Table struct {
	addrs map[string]uint32
}

// New builds a table from an ordered list of symbols. A later entry
// with the same name overrides an earlier one.
func New(symbols []Symbol) *Table {
	t := &Table{addrs: make(map[string]uint32, len(symbols))}
	for _, s := range symbols {
		t.addrs[s.Name] = s.Address
	}
	return t
}

// Lookup returns the address bound to name, or an error if the core
// was asked to compile a reference to an undefined symbol.
func (t *Table) Lookup(name string) (uint32, error) {
	addr, ok := t.addrs[name]
	if !ok {
		return 0, fmt.Errorf("unknown symbol: %q", name)
	}
	return addr, nil
}
