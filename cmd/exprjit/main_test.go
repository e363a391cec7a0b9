package main

import (
	"strings"
	"testing"

	"github.com/armjit/exprjit/config"
)

func TestReadScriptExpressionAndVars(t *testing.T) {
	script := strings.Join([]string{
		"# a comment",
		".vars",
		"a=10 b=20",
		"c=3",
		".expression",
		"div(a + b, c)",
	}, "\n")

	expr, vars, err := readScript(strings.NewReader(script))
	if err != nil {
		t.Fatalf("readScript: %v", err)
	}
	if expr != "div(a+b,c)" {
		t.Errorf("expr = %q, want whitespace-stripped div(a+b,c)", expr)
	}
	want := map[string]int32{"a": 10, "b": 20, "c": 3}
	for name, v := range want {
		if vars[name] != v {
			t.Errorf("vars[%q] = %d, want %d", name, vars[name], v)
		}
	}
}

func TestReadScriptLastExpressionWins(t *testing.T) {
	script := ".expression\n1+1\n2+2\n"
	expr, _, err := readScript(strings.NewReader(script))
	if err != nil {
		t.Fatalf("readScript: %v", err)
	}
	if expr != "2+2" {
		t.Errorf("expr = %q, want the last expression line", expr)
	}
}

func TestReadScriptRejectsMalformedVariable(t *testing.T) {
	_, _, err := readScript(strings.NewReader(".vars\nnotanassignment\n"))
	if err == nil {
		t.Fatal("expected an error for a variable line without '='")
	}
}

func TestEvaluateEmulatedDivCall(t *testing.T) {
	cfg := config.DefaultConfig()
	got, err := evaluateEmulated(cfg, "div(a+b,c)", map[string]int32{"a": 10, "b": 20, "c": 3})
	if err != nil {
		t.Fatalf("evaluateEmulated: %v", err)
	}
	if got != 10 {
		t.Errorf("result = %d, want 10", got)
	}
}

func TestEvaluateEmulatedDisabledBuiltinFails(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Builtins.EnableDiv = false
	_, err := evaluateEmulated(cfg, "div(a,b)", map[string]int32{"a": 4, "b": 2})
	if err == nil {
		t.Fatal("expected a compile error when div is disabled")
	}
}
