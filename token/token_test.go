package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewConstructsTokenWithoutLiteral(t *testing.T) {
	tok := New(PLUS, "+", 3)
	assert.Equal(t, Token{Type: PLUS, Lexeme: "+", Line: 3}, tok)
}

func TestNewLiteralConstructsTokenWithLiteral(t *testing.T) {
	tok := NewLiteral(INT_LIT, "42", 42, 1)
	assert.Equal(t, Token{Type: INT_LIT, Lexeme: "42", Literal: 42, Line: 1}, tok)
}

func TestKeywordsMapsReservedWords(t *testing.T) {
	tests := []struct {
		word string
		want TokenType
	}{
		{"int", INT},
		{"void", VOID},
		{"return", RETURN},
		{"if", IF},
		{"else", ELSE},
		{"while", WHILE},
		{"do", DO},
		{"for", FOR},
		{"break", BREAK},
		{"continue", CONTINUE},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			got, ok := Keywords[tt.word]
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeywordsDoesNotContainOrdinaryIdentifiers(t *testing.T) {
	_, ok := Keywords["myVar"]
	assert.False(t, ok)
}

func TestStringIncludesTypeLexemeAndLine(t *testing.T) {
	tok := New(IDENTIFIER, "x", 7)
	s := tok.String()
	assert.Contains(t, s, "IDENTIFIER")
	assert.Contains(t, s, `"x"`)
	assert.Contains(t, s, "line=7")
}
