package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShellQuote(t *testing.T) {
	cases := []struct {
		Name   string
		Given  string
		Expect string
	}{
		{"Plain", "hello", "'hello'"},
		{"Spaces", "hello world", "'hello world'"},
		{"Injection", "x'; rm -rf /; echo '", `'x'\''; rm -rf /; echo '\'''`},
		{"Empty", "", "''"},
		{"Dollar", "$HOME", "'$HOME'"},
	}

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			assert.Equal(t, c.Expect, ShellQuote(c.Given))
		})
	}
}
