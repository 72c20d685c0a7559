package dataset

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FindFiles walks dir and returns every file with the given extension in
// lexical order. A missing dir yields no files.
func FindFiles(dir, ext string) ([]string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ext) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
