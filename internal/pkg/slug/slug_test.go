package slug

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Hello World", "hello-world"},
		{"diacritics", "Café Crème Brûlée", "cafe-creme-brulee"},
		{"punctuation runs", "  Plumbing -- tips & tricks!!  ", "plumbing-tips-tricks"},
		{"digits kept", "Top 10 Electricians in Lagos", "top-10-electricians-in-lagos"},
		{"only symbols", "***", ""},
		{"german", "Straße  Über--Äpfel", "strasse-uber-apfel"},
		{"nordic", "Ærø Bjørn Smørrebrød", "aero-bjorn-smorrebrod"},
		{"polish", "Łódź Œuvre", "lodz-oeuvre"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.in))
		})
	}
}

func TestMake_TruncatesWithoutTrailingDash(t *testing.T) {
	in := strings.Repeat("word ", 40)
	out := Make(in)

	assert.LessOrEqual(t, len(out), MaxLength)
	assert.False(t, strings.HasSuffix(out, "-"))
}

func TestWithSuffix(t *testing.T) {
	assert.Equal(t, "roof-repair-2", WithSuffix("roof-repair", 2))

	long := strings.Repeat("a", MaxLength)
	out := WithSuffix(long, 12)
	assert.Len(t, out, MaxLength)
	assert.True(t, strings.HasSuffix(out, "-12"))
}
