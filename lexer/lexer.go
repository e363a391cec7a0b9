// Package lexer implements the streaming tokenizer for arithmetic
// expressions: a character-level finite automaton that yields one
// token at a time with a single token of lookahead.
package lexer

// State is a lexer automaton state.
type State int

const (
	Start State = iota
	Word
	Symbol
	Number
	Whitespace
	Error
)

// transition computes the next state given the current state and the
// next input character.
func transition(current State, c byte) State {
	switch current {
	case Start:
		switch {
		case isLetter(c) || c == '_':
			return Word
		case isDigit(c):
			return Number
		case isSymbolChar(c):
			return Symbol
		case isWhitespace(c):
			return Whitespace
		default:
			return Error
		}

	case Word:
		if isLetter(c) || isDigit(c) || c == '_' {
			return Word
		}
		return Start

	case Symbol:
		return Start

	case Number:
		if isDigit(c) {
			return Number
		}
		return Start

	case Whitespace:
		if isWhitespace(c) {
			return Whitespace
		}
		return Start

	default:
		return Error
	}
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isSymbolChar(c byte) bool {
	switch c {
	case '(', ')', '+', '-', '*', ',':
		return true
	default:
		return false
	}
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n'
}

// Lexer tokenizes an input string one token at a time. It never
// revisits a character once consumed.
type Lexer struct {
	input string
	pos   int // index of the next unread byte in input

	state      State
	nextToken  []byte
	currentTok string
	finished   bool
	err        *LexicalError // set when the automaton reaches the Error state
}

// LexicalError reports a lexical error: a character outside the
// alphabet of letters, digits, underscore, the six symbol characters,
// and whitespace.
type LexicalError struct {
	Pos  int
	Char byte
}

func (e *LexicalError) Error() string {
	return "lexical error at byte " + itoa(e.Pos) + ": unexpected character " + string(e.Char)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// New creates a lexer over the given input. It does not itself
// produce a first token; call Advance once to load it.
func New(input string) *Lexer {
	return &Lexer{
		input: input,
		state: Start,
	}
}

// LastError returns the lexical error encountered, if any.
func (l *Lexer) LastError() error {
	if l.err == nil {
		return nil
	}
	return l.err
}

// Advance consumes exactly one token from the input. After it
// returns, Current reflects that token. Once the stream is fully
// consumed, Finished is true and further calls are no-ops.
func (l *Lexer) Advance() *Lexer {
	if l.finished {
		return l
	}

	l.currentTok = ""

	for len(l.currentTok) == 0 {
		if l.pos >= len(l.input) {
			l.currentTok = string(l.nextToken)
			l.nextToken = nil
			l.finished = true
			return l
		}

		c := l.input[l.pos]
		l.pos++

		newState := transition(l.state, c)
		if newState == Error {
			l.err = &LexicalError{Pos: l.pos - 1, Char: c}
			l.currentTok = string(l.nextToken)
			l.nextToken = nil
			l.finished = true
			return l
		}

		if newState == Start {
			l.currentTok = string(l.nextToken)
			l.nextToken = nil
			newState = transition(newState, c)
			if newState == Error {
				l.err = &LexicalError{Pos: l.pos - 1, Char: c}
				l.finished = true
				return l
			}
		}

		l.nextToken = append(l.nextToken, c)
		l.state = newState
	}

	return l
}

// AdvanceSkipSpace repeatedly advances until the current token is
// non-whitespace or the lexer is finished.
func (l *Lexer) AdvanceSkipSpace() *Lexer {
	if l.finished {
		return l
	}
	l.Advance()
	for !l.finished && len(l.currentTok) > 0 && isWhitespace(l.currentTok[0]) {
		l.Advance()
	}
	return l
}

// Current returns the current token's text.
func (l *Lexer) Current() string {
	return l.currentTok
}

// Pos returns the byte offset of the start of the current token.
func (l *Lexer) Pos() int {
	return l.pos - len(l.currentTok) - len(l.nextToken)
}

// Finished reports whether the stream has been fully consumed.
func (l *Lexer) Finished() bool {
	return l.finished
}

// CurrentIsIdentifier reports whether the current token begins with a
// letter or underscore.
func (l *Lexer) CurrentIsIdentifier() bool {
	return len(l.currentTok) > 0 && (isLetter(l.currentTok[0]) || l.currentTok[0] == '_')
}

// CurrentIsNumber reports whether the current token begins with a
// decimal digit.
func (l *Lexer) CurrentIsNumber() bool {
	return len(l.currentTok) > 0 && isDigit(l.currentTok[0])
}
