package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScanDirectory returns the files below dir whose extension is one of exts.
// Hidden directories are not descended into.
func ScanDirectory(dir string, exts []string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if path != dir && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if hasExtension(path, exts) {
			files = append(files, path)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}

// Collect expands paths into a sorted, de-duplicated list of documents.
// Directories are scanned; files are taken as given whatever their
// extension.
func Collect(paths []string, exts []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}

		if !info.IsDir() {
			add(p)
			continue
		}

		found, err := ScanDirectory(p, exts)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", p, err)
		}
		for _, f := range found {
			add(f)
		}
	}

	sort.Strings(files)
	return files, nil
}

func hasExtension(path string, exts []string) bool {
	ext := filepath.Ext(path)
	for _, e := range exts {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}
