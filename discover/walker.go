// Package discover finds shell scripts on disk and watches them for changes.
package discover

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultExtensions are the file extensions treated as shell scripts.
var DefaultExtensions = []string{".sh", ".bash"}

// WalkOptions configures directory walking behavior.
type WalkOptions struct {
	// Extensions lists script file extensions, including the dot.
	// If empty, DefaultExtensions is used.
	Extensions []string
	// SkipVendor skips vendor and node_modules directories.
	SkipVendor bool
	// SkipHidden skips directories starting with ".".
	SkipHidden bool
	// ExcludeDirs lists additional directory names to skip.
	ExcludeDirs []string
}

// IsScript reports whether path has one of the configured script extensions.
func (o WalkOptions) IsScript(path string) bool {
	exts := o.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	return slices.Contains(exts, strings.ToLower(filepath.Ext(path)))
}

// skipDir reports whether a directory below root should not be entered.
func (o WalkOptions) skipDir(path, root string) bool {
	if path == root {
		return false
	}
	name := filepath.Base(path)
	if o.SkipHidden && strings.HasPrefix(name, ".") {
		return true
	}
	if o.SkipVendor && (name == "vendor" || name == "node_modules") {
		return true
	}
	return slices.Contains(o.ExcludeDirs, name)
}

// WalkDir walks a directory tree and calls fn for each shell script.
func WalkDir(root string, opts WalkOptions, fn func(path string) error) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if opts.skipDir(path, root) {
				return filepath.SkipDir
			}
			return nil
		}

		if !opts.IsScript(path) {
			return nil
		}

		return fn(path)
	})
}

// CollectScripts walks a directory and returns all script paths.
func CollectScripts(root string, opts WalkOptions) ([]string, error) {
	var files []string
	err := WalkDir(root, opts, func(path string) error {
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
