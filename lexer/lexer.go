package lexer

import (
	"strconv"

	"nanoc/diag"
	"nanoc/token"
)

func isLetter(char rune) bool {
	return rune('a') <= char && char <= rune('z') || rune('A') <= char && char <= rune('Z') || char == rune('_')
}

func isDigit(char rune) bool {
	return rune('0') <= char && char <= rune('9')
}

// Lexer is a hand-written longest-match scanner, following the teacher's
// read-one-rune-ahead design (characters/position/readPosition/currentChar).
type Lexer struct {
	characters []rune
	totalChars int

	position     int
	readPosition int
	currentChar  rune

	lineCount int
}

// New returns a Lexer ready to scan input.
func New(input string) *Lexer {
	lexer := &Lexer{characters: []rune(input), lineCount: 1}
	lexer.totalChars = len(lexer.characters)
	lexer.readChar()
	return lexer
}

func (lexer *Lexer) advance() {
	lexer.position = lexer.readPosition
	lexer.readPosition++
}

func (lexer *Lexer) isFinished() bool {
	return lexer.readPosition >= lexer.totalChars
}

func (lexer *Lexer) readChar() {
	if lexer.isFinished() {
		lexer.currentChar = rune(0)
	} else {
		lexer.currentChar = lexer.characters[lexer.readPosition]
	}
	lexer.advance()
}

func (lexer *Lexer) peek() rune {
	if lexer.isFinished() {
		return rune(0)
	}
	return lexer.characters[lexer.readPosition]
}

// isMatch consumes the current character if it equals expected, reporting
// whether it did.
func (lexer *Lexer) isMatch(expected rune) bool {
	if lexer.currentChar != expected {
		return false
	}
	lexer.readChar()
	return true
}

func (lexer *Lexer) isWhiteSpace(char rune) bool {
	if char == rune('\n') {
		lexer.lineCount++
		return true
	}
	return char == rune(' ') || char == rune('\r') || char == rune('\t')
}

func (lexer *Lexer) skipWhiteSpace() {
	for lexer.isWhiteSpace(lexer.currentChar) {
		lexer.readChar()
	}
}

// handleLineComment consumes a `//` comment up to (not including) the
// newline, or a `#...` preprocessor line, both of which SPEC_FULL.md §6
// requires discarding verbatim.
func (lexer *Lexer) handleLineComment() {
	for lexer.currentChar != rune('\n') && lexer.currentChar != rune(0) {
		lexer.readChar()
	}
}

// handleBlockComment consumes a `/* ... */` comment. Returns an error if it
// is never closed.
func (lexer *Lexer) handleBlockComment() error {
	startLine := lexer.lineCount
	for {
		if lexer.currentChar == rune(0) && lexer.isFinished() {
			return &diag.LexError{Line: startLine, Lexeme: "/*", Message: "unterminated block comment"}
		}
		if lexer.currentChar == rune('*') && lexer.peek() == rune('/') {
			lexer.readChar() // consume '*'
			lexer.readChar() // consume '/'
			return nil
		}
		if lexer.currentChar == rune('\n') {
			lexer.lineCount++
		}
		lexer.readChar()
	}
}

func (lexer *Lexer) handleNumber() (token.Token, error) {
	initPos := lexer.position
	line := lexer.lineCount
	for isDigit(lexer.peek()) {
		lexer.readChar()
	}
	lexeme := string(lexer.characters[initPos:lexer.readPosition])
	if isLetter(lexer.peek()) {
		// e.g. "123abc" — not a legal token in this subset.
		return token.Token{}, &diag.LexError{Line: line, Lexeme: lexeme, Message: "malformed number literal"}
	}
	lexer.readChar()
	value, err := strconv.ParseInt(lexeme, 10, 32)
	if err != nil {
		return token.Token{}, &diag.LexError{Line: line, Lexeme: lexeme, Message: "integer literal out of range"}
	}
	return token.NewLiteral(token.INT_LIT, lexeme, int32(value), line), nil
}

func (lexer *Lexer) handleIdentifier() token.Token {
	initPos := lexer.position
	line := lexer.lineCount
	for isLetter(lexer.peek()) || isDigit(lexer.peek()) {
		lexer.readChar()
	}
	lexeme := string(lexer.characters[initPos:lexer.readPosition])
	lexer.readChar()
	if kw, ok := token.Keywords[lexeme]; ok {
		return token.New(kw, lexeme, line)
	}
	return token.New(token.IDENTIFIER, lexeme, line)
}

// next scans and returns the single next token, or an error if the input
// at the current position does not form a recognized lexeme.
func (lexer *Lexer) next() (token.Token, error) {
	lexer.skipWhiteSpace()
	line := lexer.lineCount

	switch lexer.currentChar {
	case rune(0):
		return token.New(token.EOF, "", line), nil
	case rune('('):
		lexer.readChar()
		return token.New(token.LPAREN, "(", line), nil
	case rune(')'):
		lexer.readChar()
		return token.New(token.RPAREN, ")", line), nil
	case rune('{'):
		lexer.readChar()
		return token.New(token.LBRACE, "{", line), nil
	case rune('}'):
		lexer.readChar()
		return token.New(token.RBRACE, "}", line), nil
	case rune(';'):
		lexer.readChar()
		return token.New(token.SEMICOLON, ";", line), nil
	case rune(','):
		lexer.readChar()
		return token.New(token.COMMA, ",", line), nil
	case rune('~'):
		lexer.readChar()
		return token.New(token.TILDE, "~", line), nil
	case rune('?'):
		lexer.readChar()
		return token.New(token.QUESTION, "?", line), nil
	case rune(':'):
		lexer.readChar()
		return token.New(token.COLON, ":", line), nil
	case rune('+'):
		lexer.readChar()
		if lexer.isMatch('=') {
			return token.New(token.PLUS_EQ, "+=", line), nil
		}
		return token.New(token.PLUS, "+", line), nil
	case rune('-'):
		lexer.readChar()
		if lexer.isMatch('=') {
			return token.New(token.MINUS_EQ, "-=", line), nil
		}
		return token.New(token.MINUS, "-", line), nil
	case rune('*'):
		lexer.readChar()
		if lexer.isMatch('=') {
			return token.New(token.STAR_EQ, "*=", line), nil
		}
		return token.New(token.STAR, "*", line), nil
	case rune('%'):
		lexer.readChar()
		if lexer.isMatch('=') {
			return token.New(token.PERCENT_EQ, "%=", line), nil
		}
		return token.New(token.PERCENT, "%", line), nil
	case rune('/'):
		if lexer.peek() == rune('/') {
			lexer.readChar()
			lexer.readChar()
			lexer.handleLineComment()
			return lexer.next()
		}
		if lexer.peek() == rune('*') {
			lexer.readChar()
			lexer.readChar()
			if err := lexer.handleBlockComment(); err != nil {
				return token.Token{}, err
			}
			return lexer.next()
		}
		lexer.readChar()
		if lexer.isMatch('=') {
			return token.New(token.SLASH_EQ, "/=", line), nil
		}
		return token.New(token.SLASH, "/", line), nil
	case rune('#'):
		lexer.handleLineComment()
		return lexer.next()
	case rune('='):
		lexer.readChar()
		if lexer.isMatch('=') {
			return token.New(token.EQ_EQ, "==", line), nil
		}
		return token.New(token.ASSIGN, "=", line), nil
	case rune('!'):
		lexer.readChar()
		if lexer.isMatch('=') {
			return token.New(token.NOT_EQ, "!=", line), nil
		}
		return token.New(token.BANG, "!", line), nil
	case rune('<'):
		lexer.readChar()
		if lexer.isMatch('=') {
			return token.New(token.LESS_EQ, "<=", line), nil
		}
		if lexer.isMatch('<') {
			if lexer.isMatch('=') {
				return token.New(token.SHL_EQ, "<<=", line), nil
			}
			return token.New(token.SHL, "<<", line), nil
		}
		return token.New(token.LESS, "<", line), nil
	case rune('>'):
		lexer.readChar()
		if lexer.isMatch('=') {
			return token.New(token.GREATER_EQ, ">=", line), nil
		}
		if lexer.isMatch('>') {
			if lexer.isMatch('=') {
				return token.New(token.SHR_EQ, ">>=", line), nil
			}
			return token.New(token.SHR, ">>", line), nil
		}
		return token.New(token.GREATER, ">", line), nil
	case rune('&'):
		lexer.readChar()
		if lexer.isMatch('&') {
			return token.New(token.AND_AND, "&&", line), nil
		}
		if lexer.isMatch('=') {
			return token.New(token.AMP_EQ, "&=", line), nil
		}
		return token.New(token.AMP, "&", line), nil
	case rune('|'):
		lexer.readChar()
		if lexer.isMatch('|') {
			return token.New(token.OR_OR, "||", line), nil
		}
		if lexer.isMatch('=') {
			return token.New(token.PIPE_EQ, "|=", line), nil
		}
		return token.New(token.PIPE, "|", line), nil
	case rune('^'):
		lexer.readChar()
		if lexer.isMatch('=') {
			return token.New(token.CARET_EQ, "^=", line), nil
		}
		return token.New(token.CARET, "^", line), nil
	}

	if isLetter(lexer.currentChar) {
		return lexer.handleIdentifier(), nil
	}
	if isDigit(lexer.currentChar) {
		return lexer.handleNumber()
	}

	bad := lexer.currentChar
	lexer.readChar()
	return token.Token{}, &diag.LexError{Line: line, Lexeme: string(bad), Message: "unexpected character"}
}

// Scan performs lexical analysis on the whole input, returning every token
// up to and including a trailing EOF token, or the first error encountered.
func (lexer *Lexer) Scan() ([]token.Token, error) {
	var tokens []token.Token
	for {
		tok, err := lexer.next()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, nil
		}
	}
}
