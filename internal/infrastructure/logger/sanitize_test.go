package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeForLog(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "video id unchanged", input: "intro-2024_v2", expected: "intro-2024_v2"},
		{name: "object key unchanged", input: "videos/intro/manifest/master.m3u8", expected: "videos/intro/manifest/master.m3u8"},
		{name: "empty", input: "", expected: ""},
		{name: "newline", input: "a\nb", expected: `a\nb`},
		{name: "crlf", input: "a\r\nb", expected: `a\r\nb`},
		{name: "tab", input: "a\tb", expected: `a\tb`},
		{name: "null byte", input: "a\x00b", expected: `a\x00b`},
		{name: "ansi color", input: "\x1b[31mred", expected: `\x1b[31mred`},
		{name: "bell", input: "\x07", expected: `\x07`},
		{name: "del", input: "\x7f", expected: `\x7f`},
		{name: "unicode kept", input: "clip été 中文 👋.mp4", expected: "clip été 中文 👋.mp4"},
		{name: "forged log line", input: "intro.mp4\n{\"level\":\"error\"}", expected: `intro.mp4\n{"level":"error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeForLog(tt.input))
		})
	}
}

func TestSanitizeForLog_NoRawControlCharacters(t *testing.T) {
	for i := 0; i < 0x20; i++ {
		out := SanitizeForLog(string(rune(i)))
		for _, r := range out {
			assert.GreaterOrEqual(t, r, rune(0x20), "control char 0x%02x leaked", i)
		}
	}
}
