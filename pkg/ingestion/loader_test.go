package ingestion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLocalFiles(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0o755))

	files := map[string]string{
		"guide.txt":         "plain text",
		"faq.md":            "# FAQ",
		"nested/policy.TXT": "uppercase ext",
		"image.png":         "binary",
		"notes.docx":        "unsupported",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	paths, err := LoadLocalFiles(dir)
	require.NoError(t, err)

	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	assert.ElementsMatch(t, []string{"guide.txt", "faq.md", "policy.TXT"}, names)
}

func TestExtractText(t *testing.T) {
	dir := t.TempDir()

	txtPath := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("shipping takes 3 days"), 0o644))

	text, err := ExtractText(txtPath)
	require.NoError(t, err)
	assert.Equal(t, "shipping takes 3 days", text)

	_, err = ExtractText(filepath.Join(dir, "sheet.xlsx"))
	assert.Error(t, err)
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("manual.pdf"))
	assert.True(t, IsSupported("README.MD"))
	assert.False(t, IsSupported("archive.zip"))
	assert.False(t, IsSupported("noext"))
}
