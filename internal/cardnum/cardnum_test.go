package cardnum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "manual entry", input: "abc123def456", want: "123456"},
		{name: "manual with spaces", input: "1234 5678 9", want: "123456789"},
		{name: "no digits", input: "hello", want: ""},
		{name: "track two swipe", input: ";111097412=241031110974124103?", want: "111097412"},
		{name: "track two without start sentinel", input: "111097412=2410", want: "111097412"},
		{name: "plus separator", input: ";5551234+99999999999?", want: "5551234"},
		{name: "longest run in prefix", input: ";12-345678-9=0000", want: "345678"},
		{name: "raw digit stream", input: "11109741241031110974124103", want: "11109741241031110974124103"},
		{name: "separator before digits", input: "?;=12345678", want: "12345678"},
		{name: "sentinels only", input: ";=?", want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Extract(tc.input))
		})
	}
}

func TestIsSwipe(t *testing.T) {
	assert.True(t, IsSwipe(";123?"))
	assert.True(t, IsSwipe("1234567890123"))
	assert.False(t, IsSwipe("123456789012"))
	assert.False(t, IsSwipe("abc 123"))
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("123456"))
	assert.True(t, IsValid("123456789012"))
	assert.False(t, IsValid("12345"))
	assert.False(t, IsValid("12345678901234"))
	assert.False(t, IsValid("12345a"))
	assert.False(t, IsValid(""))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "", Format(""))
	assert.Equal(t, "1234", Format("1234"))
	assert.Equal(t, "1234 5678 9", Format("123456789"))
	assert.Equal(t, "1234 5678 9012", Format("123456789012"))
}

func TestBest(t *testing.T) {
	attempts := []string{
		";111097412=2410?",
		";11109=2410?",
		";222222222=2410?",
		";111097412=2410?",
		"",
	}
	assert.Equal(t, "111097412", Best(attempts))

	assert.Equal(t, "333333", Best([]string{"333333", "444444"}))
	assert.Equal(t, "", Best([]string{"12", ";?"}))
	assert.Equal(t, "", Best(nil))
}
