package textwidth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWidth(t *testing.T) {
	assert.Equal(t, 0, Width(""))
	assert.Equal(t, 5, Width("N1*BY"))
	assert.Equal(t, 4, Width("日本"))
	assert.Equal(t, 4, Width("Café"))
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		name string
		in   string
		w    int
		tail string
		want string
	}{
		{name: "fits", in: "N3*MAIN", w: 7, tail: Ellipsis, want: "N3*MAIN"},
		{name: "cut with tail", in: "N3*MAIN ST", w: 6, tail: Ellipsis, want: "N3*MA…"},
		{name: "no tail", in: "N3*MAIN ST", w: 4, tail: "", want: "N3*M"},
		{name: "wide runes stay whole", in: "日本語", w: 5, tail: Ellipsis, want: "日本…"},
		{name: "combining mark stays attached", in: "Café bar", w: 5, tail: Ellipsis, want: "Café…"},
		{name: "tail wider than w", in: "abcdef", w: 1, tail: "...", want: "a"},
		{name: "zero width", in: "abc", w: 0, tail: Ellipsis, want: ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Truncate(c.in, c.w, c.tail))
		})
	}
}

func TestPadRightAndFit(t *testing.T) {
	assert.Equal(t, "ab  ", PadRight("ab", 4))
	assert.Equal(t, "abcdef", PadRight("abcdef", 4))
	assert.Equal(t, "日本  ", PadRight("日本", 6))

	assert.Equal(t, "abc…", Fit("abcdef", 4))
	assert.Equal(t, "ab  ", Fit("ab", 4))
	assert.Equal(t, 4, Width(Fit("日本語です", 4)))
}
