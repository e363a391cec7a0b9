// Command exprjit reads a small line-oriented script from stdin:
// variable declarations and a single arithmetic expression, then
// JIT-compiles and runs the expression, printing its result.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/armjit/exprjit/config"
	"github.com/armjit/exprjit/emu"
	"github.com/armjit/exprjit/jit"
	"github.com/armjit/exprjit/symtable"
)

// Version is overridden at build time with -ldflags "-X main.Version=...".
var Version = "dev"

type mode int

const (
	modeExpression mode = iota
	modeVars
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "show version information")
		configPath  = flag.String("config", "", "path to a TOML config file (default: platform config dir)")
		backend     = flag.String("backend", "", "execution backend: emulate or hardware (default: from config)")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("exprjit %s\n", Version)
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "exprjit:", err)
		os.Exit(1)
	}
	if *backend != "" {
		cfg.Execution.Backend = *backend
	}

	expr, vars, err := readScript(os.Stdin)
	if err != nil {
		fmt.Fprintln(os.Stderr, "exprjit:", err)
		os.Exit(1)
	}
	if expr == "" {
		fmt.Fprintln(os.Stderr, "exprjit: no expression given (missing .expression section)")
		os.Exit(1)
	}

	result, err := evaluate(cfg, expr, vars)
	if err != nil {
		fmt.Fprintln(os.Stderr, "exprjit:", err)
		os.Exit(1)
	}

	if cfg.Display.NumberFormat == "hex" {
		fmt.Printf("0x%X\n", uint32(result))
	} else {
		fmt.Println(result)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}

// readScript implements the driver's input protocol: '#' lines are
// comments, '.expression'/'.vars' lines switch mode, EXPRESSION-mode
// lines have whitespace stripped and replace the expression to
// compile, and VARS-mode lines hold whitespace-separated name=value
// declarations.
func readScript(r io.Reader) (string, map[string]int32, error) {
	return readScriptFrom(bufio.NewScanner(r))
}

func readScriptFrom(scanner *bufio.Scanner) (string, map[string]int32, error) {
	var expr string
	vars := map[string]int32{}
	current := modeExpression

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		switch {
		case line[0] == '#':
			continue
		case line[0] == '.':
			switch {
			case strings.Contains(line, "expression"):
				current = modeExpression
			case strings.Contains(line, "vars"):
				current = modeVars
			}
		case current == modeExpression:
			expr = stripWhitespace(line)
		case current == modeVars:
			for _, tok := range strings.Fields(line) {
				name, value, err := parseVarToken(tok)
				if err != nil {
					return "", nil, err
				}
				vars[name] = value
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return "", nil, fmt.Errorf("reading script: %w", err)
	}
	return expr, vars, nil
}

func stripWhitespace(s string) string {
	var b strings.Builder
	for _, r := range s {
		if !strings.ContainsRune(" \t\r\n", r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func parseVarToken(tok string) (string, int32, error) {
	name, valueStr, found := strings.Cut(tok, "=")
	if !found || name == "" {
		return "", 0, fmt.Errorf("malformed variable declaration %q, want name=value", tok)
	}
	value, err := strconv.ParseInt(valueStr, 10, 32)
	if err != nil {
		return "", 0, fmt.Errorf("malformed variable declaration %q: %w", tok, err)
	}
	return name, int32(value), nil
}

// evaluate compiles expr against vars, plus the enabled builtin externs
// on the emulated backend (the hardware backend binds vars only), and
// runs it on the configured backend.
func evaluate(cfg *config.Config, expr string, vars map[string]int32) (int32, error) {
	switch cfg.Execution.Backend {
	case "", "emulate":
		return evaluateEmulated(cfg, expr, vars)
	case "hardware":
		return evaluateHardware(cfg, expr, vars)
	default:
		return 0, fmt.Errorf("unknown backend %q", cfg.Execution.Backend)
	}
}

func evaluateEmulated(cfg *config.Config, expr string, vars map[string]int32) (int32, error) {
	vm := emu.NewVM()
	vm.StepLimit = cfg.Execution.StepLimit

	ev := jit.NewEmulatedVariables(vm)
	symbols := builtinSymbols(cfg)
	for name, value := range vars {
		sym, err := ev.Bind(name, uint32(value))
		if err != nil {
			return 0, err
		}
		symbols = append(symbols, sym)
	}

	prog, err := jit.Compile(expr, symbols)
	if err != nil {
		return 0, err
	}
	return jit.Emulate(prog, vm)
}

func builtinSymbols(cfg *config.Config) []symtable.Symbol {
	enabled := map[string]bool{
		"div": cfg.Builtins.EnableDiv,
		"mod": cfg.Builtins.EnableMod,
		"inc": cfg.Builtins.EnableInc,
		"dec": cfg.Builtins.EnableDec,
	}
	var out []symtable.Symbol
	for _, sym := range jit.BuiltinSymbols() {
		if enabled[sym.Name] {
			out = append(out, sym)
		}
	}
	return out
}
