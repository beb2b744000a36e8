package core

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/huangsam/docname/internal/contract"
	"github.com/huangsam/docname/schema"
)

// CollectFiles expands the configured input paths into a sorted list of
// supported document files. Directory inputs are scanned one level deep
// unless recursive is set; unsupported files are silently filtered out.
func CollectFiles(paths []string, recursive bool) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string

	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, &contract.IOError{Path: p, Err: err}
		}

		if !info.IsDir() {
			if isSupportedFile(p) {
				add(p)
			}
			continue
		}

		if recursive {
			err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() && isSupportedFile(path) {
					add(path)
				}
				return nil
			})
			if err != nil {
				return nil, &contract.IOError{Path: p, Err: err}
			}
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, &contract.IOError{Path: p, Err: err}
		}
		for _, entry := range entries {
			if !entry.IsDir() && isSupportedFile(entry.Name()) {
				add(filepath.Join(p, entry.Name()))
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

// isSupportedFile reports whether the path carries a supported extension.
func isSupportedFile(path string) bool {
	_, ok := schema.SupportedExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}
