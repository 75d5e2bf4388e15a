package ingestion

import (
	"io/fs"
	"path/filepath"
	"strings"
)

var allowedExt = []string{".pdf", ".txt", ".md"}

// LoadLocalFiles walks root and returns every ingestable file path.
func LoadLocalFiles(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		for _, a := range allowedExt {
			if ext == a {
				out = append(out, path)
				break
			}
		}
		return nil
	})
	return out, err
}

// IsSupported reports whether the filename has an ingestable extension.
func IsSupported(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, a := range allowedExt {
		if ext == a {
			return true
		}
	}
	return false
}
