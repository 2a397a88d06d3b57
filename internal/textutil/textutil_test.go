package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "sao paulo", Fold("São Paulo"))
	assert.Equal(t, "estagio", Fold("ESTÁGIO"))
	assert.Equal(t, "plain", Fold("plain"))
}

func TestContainsWord(t *testing.T) {
	cases := []struct {
		text, word string
		want       bool
	}{
		{"senior go developer", "go", true},
		{"we use golang", "go", false},
		{"c# and .net core", "c#", true},
		{"c# and .net core", ".net core", true},
		{"experience with c++", "c++", true},
		{"react, redux", "react", true},
		{"reactive systems", "react", false},
		{"estágio remoto", "estágio", true},
		{"", "go", false},
		{"go", "", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ContainsWord(c.text, c.word), "%q in %q", c.word, c.text)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "São", Truncate("São Paulo", 3))
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "", Truncate("abc", 0))
}

func TestSplitAny(t *testing.T) {
	assert.Equal(t, []string{"Rio", "de", "Janeiro", "RJ"}, SplitAny("Rio de Janeiro, RJ", " ,-/"))
}
