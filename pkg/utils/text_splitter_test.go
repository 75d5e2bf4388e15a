package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitText(t *testing.T) {
	t.Run("short text is one chunk", func(t *testing.T) {
		chunks := SplitText("hello world", 500, 50)
		require.Len(t, chunks, 1)
		assert.Equal(t, "hello world", chunks[0])
	})

	t.Run("chunks overlap", func(t *testing.T) {
		text := strings.Repeat("abcdefghij", 20) // 200 chars
		chunks := SplitText(text, 100, 20)

		require.Greater(t, len(chunks), 1)
		for i := 0; i < len(chunks)-1; i++ {
			tail := chunks[i][len(chunks[i])-20:]
			assert.True(t, strings.HasPrefix(chunks[i+1], tail), "chunk %d should start with the previous tail", i+1)
		}
	})

	t.Run("no content lost", func(t *testing.T) {
		text := strings.Repeat("x", 1234)
		chunks := SplitText(text, 500, 50)

		last := chunks[len(chunks)-1]
		assert.True(t, strings.HasSuffix(text, last))
	})

	t.Run("overlap larger than chunk size falls back", func(t *testing.T) {
		text := strings.Repeat("y", 300)
		chunks := SplitText(text, 100, 150)
		// step falls back to chunkSize, so splitting still terminates
		require.Len(t, chunks, 3)
	})

	t.Run("short multibyte text is one chunk", func(t *testing.T) {
		// 30 runes but 90 bytes: chunking must count runes, not bytes
		text := strings.Repeat("日本語テキスト", 5)
		chunks := SplitText(text, 50, 10)
		require.Len(t, chunks, 1)
		assert.Equal(t, text, chunks[0])
	})

	t.Run("multibyte runes are not cut", func(t *testing.T) {
		text := strings.Repeat("日本語テキスト", 100)
		chunks := SplitText(text, 50, 10)
		for _, c := range chunks {
			assert.True(t, len([]rune(c)) <= 50)
		}
	})
}
