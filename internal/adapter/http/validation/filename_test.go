package validation

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "holiday.mp4", "holiday.mp4"},
		{"spaces kept", "my clip.mov", "my clip.mov"},
		{"unicode kept", "café été.mp4", "café été.mp4"},
		{"path traversal", "../../etc/passwd", ".._.._etc_passwd"},
		{"windows path", `C:\videos\a.mp4`, "C__videos_a.mp4"},
		{"quotes", `say "hi".mp4`, "say _hi_.mp4"},
		{"newline injection", "a\r\nb.mp4", "a__b.mp4"},
		{"null byte", "a\x00.mp4", "a_.mp4"},
		{"delete char", "a\x7f.mp4", "a_.mp4"},
		{"surrounding whitespace", "  a.mp4  ", "a.mp4"},
		{"empty", "", "file"},
		{"only separators", "///", "file"},
		{"dots", "..", "file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.input))
		})
	}
}

func TestSanitizeFilename_LongNames(t *testing.T) {
	t.Run("extension preserved", func(t *testing.T) {
		got := SanitizeFilename(strings.Repeat("a", 300) + ".mp4")
		assert.Len(t, got, maxFilenameLength)
		assert.True(t, strings.HasSuffix(got, ".mp4"))
	})

	t.Run("multibyte runes not split", func(t *testing.T) {
		got := SanitizeFilename(strings.Repeat("é", 200) + ".mkv")
		assert.LessOrEqual(t, len(got), maxFilenameLength)
		assert.True(t, utf8.ValidString(got))
		assert.True(t, strings.HasSuffix(got, ".mkv"))
	})

	t.Run("no extension", func(t *testing.T) {
		got := SanitizeFilename(strings.Repeat("b", 400))
		assert.Len(t, got, maxFilenameLength)
	})
}
