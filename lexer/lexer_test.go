package lexer_test

import (
	"strings"
	"testing"

	"github.com/armjit/exprjit/lexer"
)

func TestTokenizeDivCall(t *testing.T) {
	l := lexer.New("div(a + b, c)")
	want := []string{"div", "(", "a", " ", "+", "b", ",", " ", "c", ")"}

	got := []string{l.Advance().Current()}
	got = append(got, l.Advance().Current())
	got = append(got, l.Advance().Current())
	got = append(got, l.Advance().Current())
	got = append(got, l.Advance().Current())
	got = append(got, l.AdvanceSkipSpace().Current())
	got = append(got, l.Advance().Current())
	got = append(got, l.Advance().Current())
	got = append(got, l.Advance().Current())
	got = append(got, l.Advance().Current())

	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTokenizeExpression(t *testing.T) {
	l := lexer.New("(1+a)*c + div(2+4,2)")
	want := []string{"(", "1", "+", "a", ")", "*", "c", " ", "+", " ", "div", "(", "2", "+", "4", ",", "2", ")"}

	var got []string
	for _, w := range want {
		_ = w
		got = append(got, l.Advance().Current())
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"1337 - 42",
		"2 * 3 + 4",
		"-(5 - 8)",
		"div(a + b, c)",
		"mod(inc(a), 3)",
	}

	for _, in := range inputs {
		l := lexer.New(in)
		var sb strings.Builder
		for {
			l.Advance()
			sb.WriteString(l.Current())
			if l.Finished() {
				break
			}
		}
		if sb.String() != in {
			t.Errorf("round trip mismatch: got %q, want %q", sb.String(), in)
		}
	}
}

func TestSymbolTokensAreSingleChar(t *testing.T) {
	l := lexer.New("(a+b)*(c-d)")
	for {
		l.Advance()
		tok := l.Current()
		if len(tok) > 0 {
			switch tok[0] {
			case '(', ')', '+', '-', '*', ',':
				if len(tok) != 1 {
					t.Errorf("symbol token %q has length %d, want 1", tok, len(tok))
				}
			}
		}
		if l.Finished() {
			break
		}
	}
}

func TestIdentifierAndNumberClassification(t *testing.T) {
	l := lexer.New("foo")
	l.Advance()
	if !l.CurrentIsIdentifier() {
		t.Error("expected identifier classification for foo")
	}
	if l.CurrentIsNumber() {
		t.Error("foo should not classify as a number")
	}

	l2 := lexer.New("123")
	l2.Advance()
	if !l2.CurrentIsNumber() {
		t.Error("expected number classification for 123")
	}
	if l2.CurrentIsIdentifier() {
		t.Error("123 should not classify as an identifier")
	}
}

func TestFinishedIsIdempotent(t *testing.T) {
	l := lexer.New("a")
	l.Advance()
	if l.Current() != "a" {
		t.Fatalf("got %q, want %q", l.Current(), "a")
	}
	if !l.Finished() {
		t.Fatal("expected lexer to be finished after consuming sole token")
	}
	l.Advance()
	if l.Current() != "a" {
		t.Errorf("advancing a finished lexer should be a no-op, got %q", l.Current())
	}
}

func TestLexicalErrorOnUnrecognizedChar(t *testing.T) {
	l := lexer.New("a & b")
	for !l.Finished() {
		l.Advance()
	}
	if err := l.LastError(); err == nil {
		t.Fatal("expected a lexical error for '&'")
	}
}
