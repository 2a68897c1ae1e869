package naming

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Cube", "Cube"},
		{"quotes", `Wall's "door"`, "Walls door"},
		{"separator", "Mesh#12", "Mesh12"},
		{"backslash", `a\b`, "ab"},
		{"control", "line\nbreak\t", "linebreak"},
		{"nfc", "e\u0301toile", "\u00e9toile"},
		{"empty", "", Fallback},
		{"only disallowed", `'"#`, Fallback},
		{"euc-kr", string([]byte{0xB0, 0xA1}), "가"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.in); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIdentity(t *testing.T) {
	if got := Identity("Quad", "42"); got != "Quad#42" {
		t.Errorf("got %q, want %q", got, "Quad#42")
	}
	if got := Identity("it's", "7"); got != "its#7" {
		t.Errorf("got %q, want %q", got, "its#7")
	}
}

func TestIdentityLength(t *testing.T) {
	long := strings.Repeat("가", 40) // 120 bytes
	id := Identity(long, "123456")

	if len(id) > MaxIdentityLen {
		t.Errorf("identity is %d bytes, want <= %d", len(id), MaxIdentityLen)
	}
	if !strings.HasSuffix(id, "#123456") {
		t.Errorf("suffix must survive truncation, got %q", id)
	}
	if !utf8.ValidString(id) {
		t.Errorf("truncation split a rune: %q", id)
	}
}
