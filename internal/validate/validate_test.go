package validate

import (
	"errors"
	"strings"
	"testing"
)

func TestQuote(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"valid", "The unexamined life is not worth living.", "The unexamined life is not worth living.", nil},
		{"trims whitespace", "  Know thyself, always.  ", "Know thyself, always.", nil},
		{"empty", "", "", ErrEmpty},
		{"whitespace only", "   \t ", "", ErrEmpty},
		{"too short", "abc", "", ErrTooShort},
		{"too long", strings.Repeat("x", 501), "", ErrTooLong},
		{"long cjk within char bound", strings.Repeat("道可道、非常道。", 30), strings.Repeat("道可道、非常道。", 30), nil},
		{"cjk over char bound", strings.Repeat("道可道、非常道。", 70), "", ErrTooLong},
		{"two cjk runes below minimum", "道德", "", ErrTooShort},
		{"accented quote", "Être, c'est être perçu.", "Être, c'est être perçu.", nil},
		{"low variety", "aaaaabbbb", "", ErrLowQuality},
		{"two plain words", "hello there", "", ErrLowQuality},
		{"three plain words ok", "virtue demands courage", "virtue demands courage", nil},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Quote(c.input)
			if !errors.Is(err, c.wantErr) {
				t.Fatalf("Quote(%q) err = %v, want %v", c.input, err, c.wantErr)
			}
			if got != c.want {
				t.Errorf("Quote(%q) = %q, want %q", c.input, got, c.want)
			}
		})
	}
}
