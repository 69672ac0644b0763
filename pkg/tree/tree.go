// Package tree provides the scanned directory tree model cleanups operate
// on. A FileInfo is one entry of the browsed tree and doubles as the
// selection item passed around when the user picks an entry in a view.
package tree

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/treesweep/pkg/errors"
	"github.com/arthur-debert/treesweep/pkg/logging"
)

// Kind classifies a tree entry.
type Kind int

const (
	// KindFile is a regular, visible file
	KindFile Kind = iota
	// KindDir is a directory
	KindDir
	// KindDotEntry is a hidden (dot-prefixed) entry
	KindDotEntry
)

// String returns the kind name used in logs and config
func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "dir"
	case KindDotEntry:
		return "dotEntry"
	default:
		return "unknown"
	}
}

// FileInfo is one entry of a scanned directory tree.
type FileInfo struct {
	Name     string
	Path     string
	Size     int64
	Kind     Kind
	Parent   *FileInfo
	Children []*FileInfo
}

// IsDir reports whether the entry is a directory.
func (f *FileInfo) IsDir() bool {
	return f.Kind == KindDir
}

// TotalSize returns the entry's size including all descendants.
func (f *FileInfo) TotalSize() int64 {
	total := f.Size
	for _, child := range f.Children {
		total += child.TotalSize()
	}
	return total
}

// Walk visits the entry and every descendant depth-first.
func (f *FileInfo) Walk(visit func(*FileInfo)) {
	visit(f)
	for _, child := range f.Children {
		child.Walk(visit)
	}
}

// Find returns the descendant with the given path, or nil. The receiver
// itself is considered.
func (f *FileInfo) Find(path string) *FileInfo {
	var found *FileInfo
	f.Walk(func(entry *FileInfo) {
		if found == nil && entry.Path == path {
			found = entry
		}
	})
	return found
}

// Scan builds a FileInfo tree rooted at the given directory. Unreadable
// subdirectories are logged and skipped rather than aborting the scan.
func Scan(root string) (*FileInfo, error) {
	logger := logging.GetLogger("tree")

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTreeScan, "cannot resolve %q", root)
	}

	stat, err := os.Stat(abs)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTreeScan, "cannot stat %q", abs)
	}
	if !stat.IsDir() {
		return nil, errors.Newf(errors.ErrTreeScan, "%q is not a directory", abs)
	}

	node := &FileInfo{
		Name: filepath.Base(abs),
		Path: abs,
		Kind: KindDir,
	}
	scanDir(node, logger)

	logger.Debug().Str("root", abs).Int64("totalSize", node.TotalSize()).Msg("Scan finished")
	return node, nil
}

func scanDir(dir *FileInfo, logger zerolog.Logger) {
	entries, err := os.ReadDir(dir.Path)
	if err != nil {
		logger.Warn().Err(err).Str("path", dir.Path).Msg("Skipping unreadable directory")
		return
	}

	for _, entry := range entries {
		child := &FileInfo{
			Name:   entry.Name(),
			Path:   filepath.Join(dir.Path, entry.Name()),
			Parent: dir,
		}

		switch {
		case entry.IsDir():
			child.Kind = KindDir
		case strings.HasPrefix(entry.Name(), "."):
			child.Kind = KindDotEntry
		default:
			child.Kind = KindFile
		}

		if info, err := entry.Info(); err == nil && !entry.IsDir() {
			child.Size = info.Size()
		}

		dir.Children = append(dir.Children, child)

		if child.Kind == KindDir {
			scanDir(child, logger)
		}
	}
}
